// Package cli provides the command-line interface for flowprobe.
package cli

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/flowprobe-dev/flowprobe/pkg/config"
	"github.com/flowprobe-dev/flowprobe/pkg/logger"
	"github.com/flowprobe-dev/flowprobe/pkg/report"
)

// Version is set at build time.
var Version = "dev"

// GlobalFlags are available to all commands.
var GlobalFlags = []cli.Flag{
	&cli.StringFlag{
		Name:    "results-log",
		Usage:   "Path to the NDJSON result log",
		Value:   report.DefaultPath,
		EnvVars: []string{"FLOWPROBE_RESULTS_LOG"},
	},
	&cli.BoolFlag{
		Name:  "no-log",
		Usage: "Don't append results to the result log",
	},
	&cli.BoolFlag{
		Name:  "json-output",
		Usage: "Output results as JSON",
	},
	&cli.BoolFlag{
		Name:    "verbose",
		Aliases: []string{"v"},
		Usage:   "Verbose output",
		EnvVars: []string{"FLOWPROBE_VERBOSE"},
	},
	&cli.StringFlag{
		Name:    "debug-log",
		Usage:   "Path to a debug log file",
		EnvVars: []string{"FLOWPROBE_DEBUG_LOG"},
	},
}

// Execute runs the CLI.
func Execute() {
	app := &cli.App{
		Name:    "flowprobe",
		Usage:   "QA toolkit for HTTP services",
		Version: Version,
		Description: `flowprobe runs integration flows against HTTP services: ordered request
steps with response validation, variable extraction, and fail-fast
diagnostics. It also wraps linters and classifies log output.

Examples:
  flowprobe run flow.yaml -b http://localhost:8000
  flowprobe request -m GET -u /api/health -b http://localhost:8000
  flowprobe lint -- eslint --format=json src/
  flowprobe scan server.log
  flowprobe check app.py`,
		Flags: GlobalFlags,
		Commands: []*cli.Command{
			runCommand,
			requestCommand,
			validateCommand,
			lintCommand,
			scanCommand,
			checkCommand,
		},
		Before: func(c *cli.Context) error {
			if path := c.String("debug-log"); path != "" {
				if err := logger.Init(path); err != nil {
					return err
				}
			}
			return nil
		},
		After: func(c *cli.Context) error {
			logger.Close()
			return nil
		},
	}

	if err := app.Run(os.Args); err != nil {
		if msg := err.Error(); msg != "" {
			fmt.Fprintf(os.Stderr, "Error: %v\n", msg)
		}
		os.Exit(1)
	}
}

// resultSink builds the sink selected by the global flags. Workspace config
// supplies the log path when the flag is left at its default.
func resultSink(c *cli.Context) report.Sink {
	if c.Bool("no-log") {
		return report.Discard{}
	}
	path := c.String("results-log")
	if !c.IsSet("results-log") {
		if cfg := workspaceConfig(); cfg.ResultsLog != "" {
			path = cfg.ResultsLog
		}
	}
	return report.NewNDJSONSink(path)
}

// workspaceConfig loads flowprobe.yaml from the working directory, falling
// back to an empty config.
func workspaceConfig() *config.Config {
	cfg, err := config.LoadFromDir(".")
	if err != nil {
		logger.Warn("failed to load workspace config: %v", err)
		return &config.Config{}
	}
	return cfg
}

// resolveBaseURL returns the base URL from the flag or the workspace config.
func resolveBaseURL(c *cli.Context) string {
	if url := c.String("base-url"); url != "" {
		return url
	}
	return workspaceConfig().BaseURL
}
