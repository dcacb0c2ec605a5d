package main

import "github.com/flowprobe-dev/flowprobe/pkg/cli"

func main() {
	cli.Execute()
}
