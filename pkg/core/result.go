package core

// Issue type values.
const (
	IssueTypeFlow = "flow"
	IssueTypeLint = "lint"
	IssueTypeLog  = "log"
)

// StepSetup is the step name recorded for issues raised before any step runs.
const StepSetup = "setup"

// LocationCLI is the location recorded for ad hoc single-request invocations.
const LocationCLI = "cli"

// maxBodySnippet caps the response body attached to an issue.
const maxBodySnippet = 500

// Issue describes one diagnostic produced during a flow run. Issues are
// appended in execution order; the first issue identifies the halting point.
type Issue struct {
	Type           string `json:"type"`
	Location       string `json:"location"` // collection path + step index, or "cli"
	Message        string `json:"message"`
	Step           string `json:"step"`
	ResponseStatus int    `json:"response_status,omitempty"`
	ResponseBody   string `json:"response_body,omitempty"`
}

// FlowResult is the uniform record returned by every engine entry point.
type FlowResult struct {
	Success   bool           `json:"success"`
	Issues    []Issue        `json:"issues"`
	Summary   string         `json:"summary,omitempty"`
	Extracted map[string]any `json:"extracted,omitempty"` // single-request mode only
}

// NewFlowResult returns a result with no issues recorded yet.
func NewFlowResult() *FlowResult {
	return &FlowResult{Success: true, Issues: []Issue{}}
}

// AddIssue appends an issue and marks the result failed.
func (r *FlowResult) AddIssue(issue Issue) {
	r.Issues = append(r.Issues, issue)
	r.Success = false
}

// BodySnippet truncates a response body for inclusion in an issue.
func BodySnippet(body []byte) string {
	if len(body) > maxBodySnippet {
		return string(body[:maxBodySnippet]) + "..."
	}
	return string(body)
}
