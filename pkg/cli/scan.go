package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/flowprobe-dev/flowprobe/pkg/logscan"
)

var scanCommand = &cli.Command{
	Name:      "scan",
	Usage:     "Scan log text for errors, warnings, and stack traces",
	ArgsUsage: "[file]",
	Description: `Classify a log file (or stdin when no file is given) against error,
warning, stack-trace, and infrastructure failure patterns. The scan
fails when any high-severity finding is present.

Examples:
  flowprobe scan server.log
  journalctl -u api | flowprobe scan`,
	Action: runScan,
}

func runScan(c *cli.Context) error {
	var text []byte
	var err error
	if c.NArg() > 0 {
		text, err = os.ReadFile(c.Args().First()) //#nosec G304 -- path is user-provided log file
		if err != nil {
			return cli.Exit(fmt.Sprintf("failed to read log file: %v", err), 2)
		}
	} else {
		text, err = io.ReadAll(c.App.Reader)
		if err != nil {
			return cli.Exit(fmt.Sprintf("failed to read stdin: %v", err), 2)
		}
	}

	result := logscan.Scan(string(text))
	_ = resultSink(c).Append("log_scan", result)

	if c.Bool("json-output") {
		return renderJSON(c, result, result.Success)
	}

	if len(result.Issues) == 0 {
		fmt.Fprintln(c.App.Writer, "✅ No log issues found")
		return nil
	}

	fmt.Fprintf(c.App.Writer, "🔍 Found %d issue(s):\n", len(result.Issues))
	for _, issue := range result.Issues {
		marker := "🟡"
		if issue.Severity == logscan.SeverityHigh {
			marker = "🔴"
		}
		fmt.Fprintf(c.App.Writer, "   %s [%s] %s: %s\n", marker, issue.Category, issue.Location, issue.Message)
		if c.Bool("verbose") && issue.Context != "" {
			fmt.Fprintln(c.App.Writer, issue.Context)
		}
	}

	if !result.Success {
		return cli.Exit("", 1)
	}
	return nil
}
