package publishers

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadRegistryEnabledFilter(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "publishers.yaml")
	raw := `
publishers:
  - id: http1
    type: http
    enabled: false
    http:
      url: https://example.com
  - id: http2
    type: http
    enabled: true
    http:
      url: https://example.com/2
`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	reg, err := LoadRegistry(path)
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	enabled := reg.Enabled()
	if len(enabled) != 1 || enabled[0].ID != "http2" {
		t.Fatalf("expected only http2 enabled, got %#v", enabled)
	}
}

func TestLoadRegistryTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "publishers.toml")
	raw := `
[[publishers]]
id = "queue"
type = "sqs"

[publishers.sqs]
uri = "https://sqs.eu-west-1.amazonaws.com/123/q"
region = "eu-west-1"

[publishers.sqs.credentials]
access_key_id = "AKIA123"
secret_access_key = "secret"
`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	reg, err := LoadRegistry(path)
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	cfg, ok := reg.ByID("queue")
	if !ok {
		t.Fatalf("expected publisher queue to be loaded")
	}
	if cfg.SQS == nil || cfg.SQS.Region != "eu-west-1" {
		t.Fatalf("unexpected sqs config: %#v", cfg.SQS)
	}
	if cfg.SQS.Credentials == nil || cfg.SQS.Credentials.AccessKeyID != "AKIA123" {
		t.Fatalf("expected static credentials, got %#v", cfg.SQS.Credentials)
	}
}

func TestLoadRegistryRejectsDuplicateID(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "publishers.yaml")
	raw := `
publishers:
  - id: hook
    type: http
    http:
      url: https://example.com
  - id: hook
    type: http
    http:
      url: https://example.com/2
`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	if _, err := LoadRegistry(path); err == nil {
		t.Fatalf("expected duplicate publisher error, got nil")
	}
}

func TestValidatePublisherConfigRejectsMissingHTTP(t *testing.T) {
	err := validatePublisherConfig(PublisherConfig{
		ID:   "h1",
		Type: TypeHTTP,
	})
	if err == nil {
		t.Fatalf("expected validation error for missing http block")
	}
}

func TestValidatePublisherConfigRejectsMissingSNSTopic(t *testing.T) {
	err := validatePublisherConfig(PublisherConfig{
		ID:   "s1",
		Type: TypeSNS,
		SNS:  &SNSPublisherConfig{Region: "eu-west-1"},
	})
	if err == nil {
		t.Fatalf("expected validation error for missing topic arn")
	}
}

func TestValidatePublisherConfigRejectsMissingGCPProject(t *testing.T) {
	err := validatePublisherConfig(PublisherConfig{
		ID:   "g1",
		Type: TypeGCP,
		GCP:  &GCPQueueConfig{Topic: "topic-1"},
	})
	if err == nil {
		t.Fatalf("expected validation error for missing project id")
	}
}

func TestSanitizePublisherConfigDefaults(t *testing.T) {
	cfg := sanitizePublisherConfig(PublisherConfig{
		ID:   " hook ",
		Type: " HTTP ",
		HTTP: &HTTPPublisherConfig{URL: " https://example.com "},
	})
	if cfg.ID != "hook" || cfg.Type != "http" {
		t.Fatalf("unexpected sanitized config: %#v", cfg)
	}
	if cfg.HTTP.Method != "POST" {
		t.Fatalf("expected default method POST, got %s", cfg.HTTP.Method)
	}
	if cfg.HTTP.TimeoutSeconds != httpDefaultTimeoutSeconds {
		t.Fatalf("expected default timeout, got %d", cfg.HTTP.TimeoutSeconds)
	}
	if !cfg.EnabledValue() {
		t.Fatalf("expected enabled to default to true")
	}
}
