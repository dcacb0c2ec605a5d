package cli

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/flowprobe-dev/flowprobe/pkg/lint"
	"github.com/flowprobe-dev/flowprobe/pkg/logscan"
)

var checkCommand = &cli.Command{
	Name:      "check",
	Usage:     "Pick and run the right QA tool for a file",
	ArgsUsage: "<file>",
	Description: `Classify the file by extension and dispatch it: log files go through
the log scanner, code and config files through the matching linter.

Examples:
  flowprobe check app.py
  flowprobe check server.log`,
	Action: runCheck,
}

func runCheck(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.Exit("Usage: flowprobe check <file>", 2)
	}
	path := c.Args().First()

	fileType := lint.FileType(path)
	if fileType == "log" {
		text, err := os.ReadFile(path) //#nosec G304 -- path is user-provided log file
		if err != nil {
			return cli.Exit(fmt.Sprintf("failed to read log file: %v", err), 2)
		}
		result := logscan.Scan(string(text))
		_ = resultSink(c).Append("log_scan", result)
		if c.Bool("json-output") {
			return renderJSON(c, result, result.Success)
		}
		if result.Success {
			fmt.Fprintf(c.App.Writer, "✅ %s: no log issues found\n", path)
			return nil
		}
		fmt.Fprintf(c.App.Writer, "❌ %s: %d log issue(s) found\n", path, len(result.Issues))
		return cli.Exit("", 1)
	}

	cmd := lint.Command(fileType, path)
	if cmd == nil {
		fmt.Fprintf(c.App.Writer, "✅ No linter available for %s files\n", fileType)
		return nil
	}

	result := lint.Run(c.Context, cmd)
	_ = resultSink(c).Append("static_check", result)

	if c.Bool("json-output") {
		return renderJSON(c, result, result.Success)
	}

	if len(result.Issues) == 0 && result.Success {
		fmt.Fprintf(c.App.Writer, "✅ %s: no static analysis issues found\n", path)
		return nil
	}
	fmt.Fprintf(c.App.Writer, "⚠️  %s: %d issue(s) found\n", path, len(result.Issues))
	for i, issue := range result.Issues {
		if i == 5 {
			fmt.Fprintf(c.App.Writer, "   ... and %d more issues\n", len(result.Issues)-5)
			break
		}
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
