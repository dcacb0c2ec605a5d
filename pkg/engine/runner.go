// Package engine executes integration flows: ordered HTTP steps with
// placeholder substitution, response validation, and variable extraction.
// Execution is fail fast: the first failing step ends the flow, and every
// invocation returns a FlowResult whether it passed or not.
package engine

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/flowprobe-dev/flowprobe/pkg/client"
	"github.com/flowprobe-dev/flowprobe/pkg/collection"
	"github.com/flowprobe-dev/flowprobe/pkg/core"
	"github.com/flowprobe-dev/flowprobe/pkg/extract"
	"github.com/flowprobe-dev/flowprobe/pkg/report"
	"github.com/flowprobe-dev/flowprobe/pkg/validate"
	"github.com/flowprobe-dev/flowprobe/pkg/vars"
)

// resultTool tags engine records in the result log.
const resultTool = "int_tests"

// Runner executes collections against a base URL. The sink receives one
// record per invocation; pass report.Discard to skip logging.
type Runner struct {
	client *client.Client
	sink   report.Sink
	seed   map[string]any
}

// NewRunner returns a Runner using c for requests and sink for results.
func NewRunner(c *client.Client, sink report.Sink) *Runner {
	if sink == nil {
		sink = report.Discard{}
	}
	return &Runner{client: c, sink: sink}
}

// WithVariables seeds every flow's variable store before the collection's
// own variables. Collection variables win on conflict.
func (r *Runner) WithVariables(m map[string]any) *Runner {
	r.seed = m
	return r
}

// RunFile loads a collection file and runs it. Load failures become a single
// setup issue rather than an error so callers always get a FlowResult.
func (r *Runner) RunFile(ctx context.Context, path, baseURL string) *core.FlowResult {
	col, err := collection.ParseFile(path)
	if err != nil {
		result := core.NewFlowResult()
		msg := fmt.Sprintf("Collection parsing error: %v", err)
		if os.IsNotExist(err) {
			msg = fmt.Sprintf("Collection file not found: %s", path)
		}
		result.AddIssue(core.Issue{
			Type:     core.IssueTypeFlow,
			Location: path,
			Message:  msg,
			Step:     core.StepSetup,
		})
		r.record(result)
		return result
	}
	return r.Run(ctx, col, path, baseURL)
}

// Run executes every step of col in order, halting at the first failure.
// location identifies the collection in issue locations, suffixed with the
// 1-based step index.
func (r *Runner) Run(ctx context.Context, col *collection.Collection, location, baseURL string) (result *core.FlowResult) {
	result = core.NewFlowResult()

	defer func() {
		if rec := recover(); rec != nil {
			result.AddIssue(core.Issue{
				Type:     core.IssueTypeFlow,
				Location: location,
				Message:  fmt.Sprintf("Unexpected error: %v", rec),
				Step:     core.StepSetup,
			})
		}
		r.record(result)
	}()

	if len(col.Steps) == 0 {
		result.AddIssue(core.Issue{
			Type:     core.IssueTypeFlow,
			Location: location,
			Message:  "No test steps found in collection",
			Step:     core.StepSetup,
		})
		return result
	}

	store := vars.NewSeeded(r.seed)
	store.Merge(col.Variables)
	store.Set("base_url", baseURL)

	for i := range col.Steps {
		step := &col.Steps[i]
		stepLoc := fmt.Sprintf("%s:%d", location, i+1)
		if !r.runStep(ctx, step, step.DisplayName(i+1), stepLoc, baseURL, store, result) {
			return result
		}
	}

	name := col.Name
	if name == "" {
		name = "Unnamed Flow"
	}
	result.Summary = fmt.Sprintf("Successfully executed %d steps in flow '%s'", len(col.Steps), name)
	return result
}

// runStep executes one step and reports whether the flow may continue.
// Panics inside a step fail that step without taking down the flow.
func (r *Runner) runStep(ctx context.Context, step *collection.Step, name, location, baseURL string, store *vars.Store, result *core.FlowResult) (ok bool) {
	defer func() {
		if rec := recover(); rec != nil {
			result.AddIssue(core.Issue{
				Type:     core.IssueTypeFlow,
				Location: location,
				Message:  fmt.Sprintf("Step execution failed: %v", rec),
				Step:     name,
			})
			ok = false
		}
	}()

	req := &client.Request{
		Method:  store.Substitute(step.Method),
		URL:     store.Substitute(step.URL),
		BaseURL: baseURL,
		Headers: step.Headers,
		Body:    requestBody(step.Body, store),
		Timeout: step.TimeoutDuration(),
	}

	resp, err := r.client.Do(ctx, req)
	if err != nil {
		result.AddIssue(core.Issue{
			Type:     core.IssueTypeFlow,
			Location: location,
			Message:  fmt.Sprintf("Request failed: %v", err),
			Step:     name,
		})
		return false
	}

	if issues := validate.Response(resp, &step.Expect); len(issues) > 0 {
		for _, msg := range issues {
			result.AddIssue(core.Issue{
				Type:           core.IssueTypeFlow,
				Location:       location,
				Message:        msg,
				Step:           name,
				ResponseStatus: resp.StatusCode,
				ResponseBody:   core.BodySnippet(resp.Body),
			})
		}
		return false
	}

	// Extraction runs only after a fully validated response, so later steps
	// never see values from a response that failed its checks.
	if len(step.Extract) > 0 {
		store.Merge(extract.FromResponse(resp.Body, step.Extract))
	}
	return true
}

// requestBody prepares a step body for sending. Structured bodies pass
// through for JSON serialization untouched; everything else is stringified
// and substituted, then sent raw.
func requestBody(body any, store *vars.Store) any {
	switch b := body.(type) {
	case nil:
		return nil
	case map[string]any, []any:
		return b
	case string:
		return store.Substitute(b)
	default:
		return store.Substitute(core.Format(b))
	}
}

// SingleRequest describes one ad hoc request outside any collection.
type SingleRequest struct {
	Method         string
	URL            string
	BaseURL        string
	Headers        map[string]string
	Body           any
	ExpectedStatus int
	Extract        map[string]string
	Timeout        time.Duration
}

// RunSingle executes one request with a status check and optional
// extraction. Issues use location "cli" and the request line as step name.
func (r *Runner) RunSingle(ctx context.Context, req *SingleRequest) (result *core.FlowResult) {
	result = core.NewFlowResult()
	name := fmt.Sprintf("%s %s", req.Method, req.URL)

	defer func() {
		if rec := recover(); rec != nil {
			result.AddIssue(core.Issue{
				Type:     core.IssueTypeFlow,
				Location: core.LocationCLI,
				Message:  fmt.Sprintf("Unexpected error: %v", rec),
				Step:     name,
			})
		}
		r.record(result)
	}()

	expected := req.ExpectedStatus
	if expected == 0 {
		expected = collection.DefaultStatus
	}

	resp, err := r.client.Do(ctx, &client.Request{
		Method:  req.Method,
		URL:     req.URL,
		BaseURL: req.BaseURL,
		Headers: req.Headers,
		Body:    req.Body,
		Timeout: req.Timeout,
	})
	if err != nil {
		result.AddIssue(core.Issue{
			Type:     core.IssueTypeFlow,
			Location: core.LocationCLI,
			Message:  fmt.Sprintf("Request failed: %v", err),
			Step:     name,
		})
		return result
	}

	if resp.StatusCode != expected {
		result.AddIssue(core.Issue{
			Type:           core.IssueTypeFlow,
			Location:       core.LocationCLI,
			Message:        fmt.Sprintf("Expected status %d, got %d", expected, resp.StatusCode),
			Step:           name,
			ResponseStatus: resp.StatusCode,
			ResponseBody:   core.BodySnippet(resp.Body),
		})
		return result
	}

	if len(req.Extract) > 0 {
		result.Extracted = extract.FromResponse(resp.Body, req.Extract)
	}
	return result
}

// record appends the result to the sink. Logging failures never affect the
// flow outcome.
func (r *Runner) record(result *core.FlowResult) {
	_ = r.sink.Append(resultTool, result)
}
