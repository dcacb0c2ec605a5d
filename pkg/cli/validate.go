package cli

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/flowprobe-dev/flowprobe/pkg/validator"
)

var validateCommand = &cli.Command{
	Name:      "validate",
	Usage:     "Validate collection files without running them",
	ArgsUsage: "<file-or-directory>",
	Description: `Parse collections and flag problems a run would only hit mid-flow:
unknown methods, placeholders no variable or earlier extraction can
satisfy, out-of-range expectations.

Examples:
  flowprobe validate flow.yaml
  flowprobe validate flows/`,
	Action: runValidate,
}

func runValidate(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.Exit("Usage: flowprobe validate <file-or-directory>", 2)
	}

	result := validator.Validate(c.Args().First())

	if c.Bool("json-output") {
		out := struct {
			Success bool     `json:"success"`
			Files   []string `json:"files"`
			Errors  []string `json:"errors"`
		}{Success: result.IsValid(), Files: result.Files}
		for _, err := range result.Errors {
			out.Errors = append(out.Errors, err.Error())
		}
		return renderJSON(c, out, result.IsValid())
	}

	if result.IsValid() {
		fmt.Fprintf(c.App.Writer, "✅ %d collection(s) valid\n", len(result.Files))
		return nil
	}

	fmt.Fprintf(c.App.Writer, "❌ Found %d problem(s):\n", len(result.Errors))
	for _, err := range result.Errors {
		fmt.Fprintf(c.App.Writer, "   %v\n", err)
	}
	return cli.Exit("", 1)
}
