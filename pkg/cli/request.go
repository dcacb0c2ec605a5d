package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/flowprobe-dev/flowprobe/pkg/client"
	"github.com/flowprobe-dev/flowprobe/pkg/core"
	"github.com/flowprobe-dev/flowprobe/pkg/engine"
)

var requestCommand = &cli.Command{
	Name:  "request",
	Usage: "Run a single HTTP request test",
	Description: `Execute one request and check its status code, without a collection
file. Extraction paths can pull values out of the response.

Examples:
  flowprobe request -m GET -u /api/health -b http://localhost:8000
  flowprobe request -m POST -u /api/users --body '{"name":"test"}' -s 201 -b http://localhost:8000
  flowprobe request -m GET -u /api/user/123 --extract '{"user_id":"id"}' -b http://localhost:8000`,
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "method",
			Aliases:  []string{"m"},
			Usage:    "HTTP method (GET, POST, PUT, DELETE, etc.)",
			Required: true,
		},
		&cli.StringFlag{
			Name:     "url",
			Aliases:  []string{"u"},
			Usage:    "URL path or full URL",
			Required: true,
		},
		&cli.StringFlag{
			Name:    "base-url",
			Aliases: []string{"b"},
			Usage:   "Base URL for the request",
			EnvVars: []string{"FLOWPROBE_BASE_URL"},
		},
		&cli.IntFlag{
			Name:    "status",
			Aliases: []string{"s"},
			Usage:   "Expected HTTP status code",
			Value:   200,
		},
		&cli.StringFlag{
			Name:  "body",
			Usage: "Request body (JSON string or plain text)",
		},
		&cli.StringFlag{
			Name:  "headers",
			Usage: "Request headers as JSON string",
		},
		&cli.StringFlag{
			Name:  "extract",
			Usage: "Variables to extract from the response as JSON string",
		},
		&cli.Float64Flag{
			Name:  "timeout",
			Usage: "Request timeout in seconds",
			Value: 30,
		},
	},
	Action: runRequest,
}

func runRequest(c *cli.Context) error {
	timeout := c.Float64("timeout")
	if !c.IsSet("timeout") {
		if cfg := workspaceConfig(); cfg.Timeout > 0 {
			timeout = cfg.Timeout
		}
	}

	req := &engine.SingleRequest{
		Method:         c.String("method"),
		URL:            c.String("url"),
		BaseURL:        resolveBaseURL(c),
		ExpectedStatus: c.Int("status"),
		Timeout:        time.Duration(timeout * float64(time.Second)),
	}
	name := fmt.Sprintf("%s %s", req.Method, req.URL)

	sink := resultSink(c)

	if raw := c.String("headers"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &req.Headers); err != nil {
			result := setupFailure(fmt.Sprintf("Invalid headers JSON: %v", err), core.StepSetup)
			_ = sink.Append("int_tests", result)
			return renderFlowResult(c, result)
		}
	}
	if raw := c.String("extract"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &req.Extract); err != nil {
			result := setupFailure(fmt.Sprintf("Invalid extract JSON: %v", err), name)
			_ = sink.Append("int_tests", result)
			return renderFlowResult(c, result)
		}
	}
	if raw := c.String("body"); raw != "" {
		var decoded any
		if err := json.Unmarshal([]byte(raw), &decoded); err == nil {
			req.Body = decoded
		} else {
			req.Body = raw
		}
	}

	runner := engine.NewRunner(client.New(), sink)
	result := runner.RunSingle(c.Context, req)

	return renderFlowResult(c, result)
}

func setupFailure(message, step string) *core.FlowResult {
	result := core.NewFlowResult()
	result.AddIssue(core.Issue{
		Type:     core.IssueTypeFlow,
		Location: core.LocationCLI,
		Message:  message,
		Step:     step,
	})
	return result
}
