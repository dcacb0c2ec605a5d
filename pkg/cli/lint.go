package cli

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/flowprobe-dev/flowprobe/pkg/lint"
)

var lintCommand = &cli.Command{
	Name:      "lint",
	Usage:     "Run a linter command and normalize its output",
	ArgsUsage: "-- <command> [args...]",
	Description: `Execute a linter and parse its findings into a uniform issue list.
ESLint and pylint JSON output get dedicated parsers; anything else is
matched against the common file:line:col text shapes.

Examples:
  flowprobe lint -- eslint --format=json src/
  flowprobe lint -- pylint --output-format=json app.py
  flowprobe lint -- go vet ./...`,
	Action: runLint,
}

func runLint(c *cli.Context) error {
	cmd := c.Args().Slice()
	if len(cmd) == 0 {
		return cli.Exit("Usage: flowprobe lint -- <command> [args...]", 2)
	}

	result := lint.Run(c.Context, cmd)
	_ = resultSink(c).Append("static_check", result)

	if c.Bool("json-output") {
		return renderJSON(c, result, result.Success)
	}

	if !result.Success {
		fmt.Fprintln(c.App.Writer, "❌ Linter could not run!")
	} else if len(result.Issues) == 0 {
		fmt.Fprintln(c.App.Writer, "✅ No lint issues found")
	} else {
		fmt.Fprintf(c.App.Writer, "⚠️  Found %d issue(s):\n", len(result.Issues))
	}
	for _, issue := range result.Issues {
		marker := "🟡"
		if issue.Severity > 0 {
			marker = "🔴"
		}
		fmt.Fprintf(c.App.Writer, "   %s %s: %s\n", marker, issue.Location, issue.Message)
	}

	if !result.Success {
		return cli.Exit("", 1)
	}
	return nil
}
