package engine

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/flowprobe-dev/flowprobe/pkg/client"
	"github.com/flowprobe-dev/flowprobe/pkg/collection"
	"github.com/flowprobe-dev/flowprobe/pkg/core"
)

type captureSink struct {
	tools    []string
	payloads []any
}

func (s *captureSink) Append(tool string, payload any) error {
	s.tools = append(s.tools, tool)
	s.payloads = append(s.payloads, payload)
	return nil
}

func newRunner() (*Runner, *captureSink) {
	sink := &captureSink{}
	return NewRunner(client.New(), sink), sink
}

func parseCollection(t *testing.T, src string) *collection.Collection {
	t.Helper()
	col, err := collection.Parse([]byte(src), "flow.yaml")
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	return col
}

func TestRun_TwoStepFlowWithExtraction(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/users":
			var body map[string]any
			data, _ := io.ReadAll(r.Body)
			_ = json.Unmarshal(data, &body)
			if body["name"] != "alice" {
				t.Errorf("create body = %v", body)
			}
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"user":{"id":7}}`))
		default:
			gotPath = r.URL.Path
			_, _ = w.Write([]byte(`{"id":7,"name":"alice"}`))
		}
	}))
	defer srv.Close()

	col := parseCollection(t, `
name: User lifecycle
variables:
  username: alice
steps:
  - name: Create user
    method: POST
    url: /users
    body: '{"name":"{{username}}"}'
    expect:
      status: 201
    extract:
      user_id: user.id
  - name: Fetch user
    url: /users/{{user_id}}
    expect:
      body:
        id: 7
`)

	r, sink := newRunner()
	result := r.Run(context.Background(), col, "flow.yaml", srv.URL)

	if !result.Success {
		t.Fatalf("result = %+v", result)
	}
	if gotPath != "/users/7" {
		t.Errorf("second request path = %q, want /users/7", gotPath)
	}
	if result.Summary != "Successfully executed 2 steps in flow 'User lifecycle'" {
		t.Errorf("Summary = %q", result.Summary)
	}
	if len(sink.tools) != 1 || sink.tools[0] != "int_tests" {
		t.Errorf("sink tools = %v", sink.tools)
	}
}

func TestRun_FailFast(t *testing.T) {
	var hits []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits = append(hits, r.URL.Path)
		if r.URL.Path == "/two" {
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	defer srv.Close()

	col := parseCollection(t, `
name: f
steps:
  - url: /one
  - url: /two
  - url: /three
`)

	r, _ := newRunner()
	result := r.Run(context.Background(), col, "flow.yaml", srv.URL)

	if result.Success {
		t.Fatal("flow should fail at step 2")
	}
	if len(hits) != 2 {
		t.Errorf("requests made = %v, step 3 should not run", hits)
	}
	if result.Issues[0].Location != "flow.yaml:2" {
		t.Errorf("Location = %q", result.Issues[0].Location)
	}
	if result.Issues[0].Step != "Step 2" {
		t.Errorf("Step = %q", result.Issues[0].Step)
	}
	if result.Summary != "" {
		t.Errorf("failed flow should carry no summary, got %q", result.Summary)
	}
}

func TestRun_AdditiveValidationThenHalt(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"boom"}`))
	}))
	defer srv.Close()

	col := parseCollection(t, `
name: f
steps:
  - name: Health
    url: /health
    expect:
      status: 200
      body:
        status: ok
`)

	r, _ := newRunner()
	result := r.Run(context.Background(), col, "flow.yaml", srv.URL)

	if len(result.Issues) != 2 {
		t.Fatalf("issues = %+v, want one per violated check", result.Issues)
	}
	for _, issue := range result.Issues {
		if issue.ResponseStatus != 500 {
			t.Errorf("ResponseStatus = %d", issue.ResponseStatus)
		}
		if issue.ResponseBody != `{"error":"boom"}` {
			t.Errorf("ResponseBody = %q", issue.ResponseBody)
		}
	}
}

func TestRun_EmptyCollection(t *testing.T) {
	col := &collection.Collection{Name: "empty"}

	r, sink := newRunner()
	result := r.Run(context.Background(), col, "flow.yaml", "http://api.test")

	if result.Success {
		t.Fatal("empty collection should fail")
	}
	issue := result.Issues[0]
	if issue.Message != "No test steps found in collection" || issue.Step != core.StepSetup {
		t.Errorf("issue = %+v", issue)
	}
	if len(sink.tools) != 1 {
		t.Errorf("result should still be recorded, sink = %v", sink.tools)
	}
}

func TestRun_ExtractionMissBindsNull(t *testing.T) {
	var secondBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/first" {
			_, _ = w.Write([]byte(`{"id":1}`))
			return
		}
		data, _ := io.ReadAll(r.Body)
		secondBody = string(data)
	}))
	defer srv.Close()

	col := parseCollection(t, `
name: f
steps:
  - url: /first
    extract:
      missing: does.not.exist
  - method: POST
    url: /second
    body: 'value={{missing}}'
`)

	r, _ := newRunner()
	result := r.Run(context.Background(), col, "flow.yaml", srv.URL)

	if !result.Success {
		t.Fatalf("result = %+v, extraction misses must not fail the flow", result)
	}
	if secondBody != "value=null" {
		t.Errorf("second body = %q, want null substitution", secondBody)
	}
}

func TestRun_RequestError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	col := parseCollection(t, "name: f\nsteps:\n  - url: /x\n")

	r, _ := newRunner()
	result := r.Run(context.Background(), col, "flow.yaml", srv.URL)

	if result.Success {
		t.Fatal("flow should fail when the request cannot complete")
	}
	issue := result.Issues[0]
	if !strings.HasPrefix(issue.Message, "Request failed: ") {
		t.Errorf("Message = %q", issue.Message)
	}
	if issue.ResponseStatus != 0 || issue.ResponseBody != "" {
		t.Errorf("transport failures carry no response fields: %+v", issue)
	}
}

func TestRunFile_NotFound(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.yaml")

	r, _ := newRunner()
	result := r.RunFile(context.Background(), path, "http://api.test")

	if result.Success {
		t.Fatal("missing file should fail")
	}
	issue := result.Issues[0]
	if !strings.HasPrefix(issue.Message, "Collection file not found: ") {
		t.Errorf("Message = %q", issue.Message)
	}
	if issue.Step != core.StepSetup || issue.Location != path {
		t.Errorf("issue = %+v", issue)
	}
}

func TestRunFile_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("steps: [unclosed"), 0o600); err != nil {
		t.Fatal(err)
	}

	r, _ := newRunner()
	result := r.RunFile(context.Background(), path, "http://api.test")

	if result.Success {
		t.Fatal("malformed file should fail")
	}
	if !strings.HasPrefix(result.Issues[0].Message, "Collection parsing error: ") {
		t.Errorf("Message = %q", result.Issues[0].Message)
	}
}

func TestRunSingle(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"token":"abc"}`))
	}))
	defer srv.Close()

	r, _ := newRunner()
	result := r.RunSingle(context.Background(), &SingleRequest{
		Method:  "GET",
		URL:     "/auth",
		BaseURL: srv.URL,
		Extract: map[string]string{"token": "token"},
	})

	if !result.Success {
		t.Fatalf("result = %+v", result)
	}
	if result.Extracted["token"] != "abc" {
		t.Errorf("Extracted = %v", result.Extracted)
	}
}

func TestRunSingle_StatusMismatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	r, _ := newRunner()
	result := r.RunSingle(context.Background(), &SingleRequest{
		Method:  "GET",
		URL:     "/auth",
		BaseURL: srv.URL,
		Extract: map[string]string{"token": "token"},
	})

	if result.Success {
		t.Fatal("status mismatch should fail")
	}
	issue := result.Issues[0]
	if issue.Message != "Expected status 200, got 403" {
		t.Errorf("Message = %q", issue.Message)
	}
	if issue.Location != core.LocationCLI || issue.Step != "GET /auth" {
		t.Errorf("issue = %+v", issue)
	}
	if result.Extracted != nil {
		t.Error("failed request should not extract")
	}
}

func TestRun_HeadersNotSubstituted(t *testing.T) {
	var gotHeader string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHeader = r.Header.Get("X-Token")
	}))
	defer srv.Close()

	col := parseCollection(t, `
name: f
variables:
  token: secret
steps:
  - url: /x
    headers:
      X-Token: "{{token}}"
`)

	r, _ := newRunner()
	result := r.Run(context.Background(), col, "flow.yaml", srv.URL)

	if !result.Success {
		t.Fatalf("result = %+v", result)
	}
	if gotHeader != "{{token}}" {
		t.Errorf("header = %q, placeholders in headers pass through verbatim", gotHeader)
	}
}
