package cli

import (
	"encoding/json"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/flowprobe-dev/flowprobe/pkg/core"
)

// renderFlowResult prints an engine result and maps failure to exit code 1.
func renderFlowResult(c *cli.Context, result *core.FlowResult) error {
	if c.Bool("json-output") {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(c.App.Writer, string(data))
		if !result.Success {
			return cli.Exit("", 1)
		}
		return nil
	}

	if result.Success {
		fmt.Fprintln(c.App.Writer, "✅ Integration test passed!")
		if result.Summary != "" {
			fmt.Fprintf(c.App.Writer, "   %s\n", result.Summary)
		}
		if len(result.Extracted) > 0 && c.Bool("verbose") {
			fmt.Fprintln(c.App.Writer, "\n📤 Extracted variables:")
			for key, value := range result.Extracted {
				fmt.Fprintf(c.App.Writer, "   %s: %s\n", key, core.Format(value))
			}
		}
		return nil
	}

	fmt.Fprintln(c.App.Writer, "❌ Integration test failed!")
	fmt.Fprintf(c.App.Writer, "\n🔍 Found %d issue(s):\n", len(result.Issues))
	for _, issue := range result.Issues {
		fmt.Fprintf(c.App.Writer, "\n   📍 Location: %s\n", issue.Location)
		fmt.Fprintf(c.App.Writer, "   📝 Step: %s\n", issue.Step)
		fmt.Fprintf(c.App.Writer, "   ⚠️  Message: %s\n", issue.Message)
		if issue.ResponseStatus != 0 {
			fmt.Fprintf(c.App.Writer, "   🔢 Response status: %d\n", issue.ResponseStatus)
		}
		if issue.ResponseBody != "" && c.Bool("verbose") {
			fmt.Fprintf(c.App.Writer, "   📄 Response body: %s\n", issue.ResponseBody)
		}
	}
	return cli.Exit("", 1)
}

// renderJSON prints any result as indented JSON and maps failure to exit
// code 1.
func renderJSON(c *cli.Context, result any, success bool) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(c.App.Writer, string(data))
	if !success {
		return cli.Exit("", 1)
	}
	return nil
}
