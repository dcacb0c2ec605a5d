package cli

import (
	"github.com/urfave/cli/v2"

	"github.com/flowprobe-dev/flowprobe/pkg/client"
	"github.com/flowprobe-dev/flowprobe/pkg/engine"
	"github.com/flowprobe-dev/flowprobe/pkg/logger"
)

var runCommand = &cli.Command{
	Name:      "run",
	Usage:     "Run an integration flow collection",
	ArgsUsage: "<collection>",
	Description: `Run every step of a YAML or JSON collection file in order against the
base URL, stopping at the first failing step.

Examples:
  flowprobe run flow.yaml -b http://localhost:8000
  flowprobe run flow.yaml -b http://localhost:8000 --json-output`,
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    "base-url",
			Aliases: []string{"b"},
			Usage:   "Base URL for API requests (default from flowprobe.yaml)",
			EnvVars: []string{"FLOWPROBE_BASE_URL"},
		},
	},
	Action: runFlow,
}

func runFlow(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.Exit("Usage: flowprobe run <collection> --base-url <url>", 2)
	}
	path := c.Args().First()
	baseURL := resolveBaseURL(c)
	if baseURL == "" {
		return cli.Exit("Base URL is required. Use --base-url or set baseUrl in flowprobe.yaml", 2)
	}

	logger.Info("running collection %s against %s", path, baseURL)

	runner := engine.NewRunner(client.New(), resultSink(c)).
		WithVariables(workspaceConfig().Variables)
	result := runner.RunFile(c.Context, path, baseURL)

	return renderFlowResult(c, result)
}
