package poller

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/samvad-hq/samvad-api-client/pkg/restclient"
)

func writePollsFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write polls file: %v", err)
	}
	return path
}

func TestLoadPollsYAML(t *testing.T) {
	path := writePollsFile(t, "polls.yaml", `
polls:
  - name: users-sweep
    endpoint: users
    method: get
    filter:
      - key: active
        value: "true"
      - key: limit
        value: "50"
  - name: orders-sweep
    endpoint: orders
    id: "42"
    enabled: false
`)

	polls, err := LoadPolls(path)
	if err != nil {
		t.Fatalf("LoadPolls: %v", err)
	}
	if len(polls) != 2 {
		t.Fatalf("expected 2 polls, got %d", len(polls))
	}
	if polls[0].Method != "GET" {
		t.Fatalf("expected method uppercased, got %q", polls[0].Method)
	}
	if len(polls[0].Filter) != 2 || polls[0].Filter[0].Key != "active" || polls[0].Filter[1].Value != "50" {
		t.Fatalf("unexpected filter %#v", polls[0].Filter)
	}
	if polls[1].Method != "GET" {
		t.Fatalf("expected default method GET, got %q", polls[1].Method)
	}
	if polls[1].ID != "42" {
		t.Fatalf("unexpected id %q", polls[1].ID)
	}
	if polls[1].EnabledValue() {
		t.Fatalf("expected orders-sweep to be disabled")
	}

	enabled := Enabled(polls)
	if len(enabled) != 1 || enabled[0].Name != "users-sweep" {
		t.Fatalf("unexpected enabled polls %#v", enabled)
	}
}

func TestLoadPollsTOML(t *testing.T) {
	path := writePollsFile(t, "polls.toml", `
[[polls]]
name = "users-create"
endpoint = "users"
method = "post"

[polls.extra]
nickname = "neo"

[[polls.filter]]
key = "notify"
value = "true"
`)

	polls, err := LoadPolls(path)
	if err != nil {
		t.Fatalf("LoadPolls: %v", err)
	}
	if len(polls) != 1 {
		t.Fatalf("expected 1 poll, got %d", len(polls))
	}
	p := polls[0]
	if p.Method != "POST" {
		t.Fatalf("expected POST, got %q", p.Method)
	}
	if len(p.Filter) != 1 || p.Filter[0].Key != "notify" || p.Filter[0].Value != "true" {
		t.Fatalf("unexpected filter %#v", p.Filter)
	}
	if p.Extra["nickname"] != "neo" {
		t.Fatalf("unexpected extra %#v", p.Extra)
	}
}

func TestLoadPollsRejectsEmptyFile(t *testing.T) {
	path := writePollsFile(t, "polls.yaml", "polls: []\n")

	_, err := LoadPolls(path)
	if err == nil || !strings.Contains(err.Error(), "no poll entries") {
		t.Fatalf("expected empty-file error, got %v", err)
	}
}

func TestLoadPollsRejectsDuplicateName(t *testing.T) {
	path := writePollsFile(t, "polls.yaml", `
polls:
  - name: sweep
    endpoint: users
  - name: sweep
    endpoint: orders
`)

	_, err := LoadPolls(path)
	if err == nil || !strings.Contains(err.Error(), "duplicate poll name") {
		t.Fatalf("expected duplicate error, got %v", err)
	}
}

func TestLoadPollsRejectsMissingEndpoint(t *testing.T) {
	path := writePollsFile(t, "polls.yaml", `
polls:
  - name: sweep
    method: get
`)

	_, err := LoadPolls(path)
	if err == nil || !strings.Contains(err.Error(), "endpoint is required") {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestLoadPollsMissingFile(t *testing.T) {
	if _, err := LoadPolls(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestSanitizePollDropsKeylessFilterPairs(t *testing.T) {
	p := sanitizePoll(Poll{
		Name:     "  sweep  ",
		Endpoint: " users ",
		Filter:   []restclient.Param{{Key: "  ", Value: "x"}, {Key: " a ", Value: " raw "}},
	})
	if p.Name != "sweep" || p.Endpoint != "users" {
		t.Fatalf("unexpected sanitized poll %#v", p)
	}
	if len(p.Filter) != 1 || p.Filter[0].Key != "a" || p.Filter[0].Value != " raw " {
		t.Fatalf("unexpected filter %#v", p.Filter)
	}
}
