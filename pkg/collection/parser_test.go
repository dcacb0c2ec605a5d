package collection

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

const sampleYAML = `
name: User lifecycle
variables:
  username: alice
steps:
  - name: Create user
    method: post
    url: /users
    body:
      name: "{{username}}"
    expect:
      status: 201
    extract:
      user_id: user.id
  - url: /users/{{user_id}}
    timeout: 2.5
    expect:
      max_response_time: 0.5
`

func TestParse_YAML(t *testing.T) {
	col, err := Parse([]byte(sampleYAML), "users.yaml")
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	if col.Name != "User lifecycle" {
		t.Errorf("Name = %q", col.Name)
	}
	if col.Variables["username"] != "alice" {
		t.Errorf("Variables = %v", col.Variables)
	}
	if len(col.Steps) != 2 {
		t.Fatalf("len(Steps) = %d, want 2", len(col.Steps))
	}

	first := col.Steps[0]
	if first.Method != "POST" {
		t.Errorf("Method = %q, want POST (uppercased)", first.Method)
	}
	if first.Expect.Status != 201 {
		t.Errorf("Expect.Status = %d", first.Expect.Status)
	}
	if first.Extract["user_id"] != "user.id" {
		t.Errorf("Extract = %v", first.Extract)
	}

	second := col.Steps[1]
	if second.Method != "GET" {
		t.Errorf("default Method = %q, want GET", second.Method)
	}
	if second.TimeoutDuration() != 2500*time.Millisecond {
		t.Errorf("TimeoutDuration() = %v", second.TimeoutDuration())
	}
	if second.Expect.MaxResponseTime != 0.5 {
		t.Errorf("MaxResponseTime = %v", second.Expect.MaxResponseTime)
	}
}

func TestParse_JSON(t *testing.T) {
	data := []byte(`{"name":"api","steps":[{"url":"/health","expect":{"status":200}}]}`)

	col, err := Parse(data, "api.json")
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if col.Name != "api" || len(col.Steps) != 1 {
		t.Errorf("col = %+v", col)
	}
}

func TestParse_MissingURL(t *testing.T) {
	data := []byte("name: bad\nsteps:\n  - method: GET\n")

	_, err := Parse(data, "bad.yaml")
	if err == nil {
		t.Fatal("Parse() should fail for a step without url")
	}
	perr, ok := err.(*ParseError)
	if !ok {
		t.Fatalf("error type = %T, want *ParseError", err)
	}
	if perr.Path != "bad.yaml" {
		t.Errorf("Path = %q", perr.Path)
	}
}

func TestParse_Malformed(t *testing.T) {
	_, err := Parse([]byte("steps: [unclosed"), "broken.yaml")
	if err == nil {
		t.Fatal("Parse() should fail for malformed YAML")
	}
	if _, ok := err.(*ParseError); !ok {
		t.Fatalf("error type = %T, want *ParseError", err)
	}
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flow.yaml")
	if err := os.WriteFile(path, []byte(sampleYAML), 0o600); err != nil {
		t.Fatal(err)
	}

	col, err := ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile() error: %v", err)
	}
	if len(col.Steps) != 2 {
		t.Errorf("len(Steps) = %d", len(col.Steps))
	}
}

func TestParseFile_NotFound(t *testing.T) {
	_, err := ParseFile(filepath.Join(t.TempDir(), "absent.yaml"))
	if err == nil {
		t.Fatal("ParseFile() should fail for a missing file")
	}
	if !os.IsNotExist(err) {
		t.Errorf("error = %v, want not-exist", err)
	}
}

func TestStep_DisplayName(t *testing.T) {
	named := Step{Name: "Create user"}
	if got := named.DisplayName(1); got != "Create user" {
		t.Errorf("DisplayName = %q", got)
	}

	anon := Step{}
	if got := anon.DisplayName(3); got != "Step 3" {
		t.Errorf("DisplayName = %q, want Step 3", got)
	}
}

func TestExpectation_ExpectedStatus(t *testing.T) {
	var e Expectation
	if e.ExpectedStatus() != 200 {
		t.Errorf("default ExpectedStatus = %d", e.ExpectedStatus())
	}
	e.Status = 404
	if e.ExpectedStatus() != 404 {
		t.Errorf("ExpectedStatus = %d", e.ExpectedStatus())
	}
}
