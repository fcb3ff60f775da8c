// Package poller loads poll definitions and executes them against the
// declared API endpoints.
package poller

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/samvad-hq/samvad-api-client/pkg/restclient"
)

const defaultPollMethod = "GET"

// pollsFile represents the structure of the polls configuration file.
type pollsFile struct {
	Polls []Poll `json:"polls" yaml:"polls" toml:"polls"`
}

// Poll declares one recurring call against a registered endpoint.
type Poll struct {
	Name     string             `json:"name" yaml:"name" toml:"name"`
	Endpoint string             `json:"endpoint" yaml:"endpoint" toml:"endpoint"`
	Method   string             `json:"method" yaml:"method" toml:"method"`
	ID       string             `json:"id" yaml:"id" toml:"id"`
	Filter   []restclient.Param `json:"filter" yaml:"filter" toml:"filter"`
	Extra    map[string]any     `json:"extra" yaml:"extra" toml:"extra"`
	Enabled  *bool              `json:"enabled" yaml:"enabled" toml:"enabled"`
}

// EnabledValue reports whether the poll is active; unset means enabled.
func (p Poll) EnabledValue() bool {
	return p.Enabled == nil || *p.Enabled
}

// LoadPolls loads poll definitions from a YAML/JSON/TOML file.
func LoadPolls(path string) ([]Poll, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("polls file path is empty")
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open polls file: %w", err)
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read polls file: %w", err)
	}

	parsed, err := parsePollsFile(raw, filepath.Ext(path))
	if err != nil {
		return nil, err
	}
	if len(parsed.Polls) == 0 {
		return nil, errors.New("polls file contains no poll entries")
	}

	polls := make([]Poll, len(parsed.Polls))
	seen := make(map[string]struct{}, len(parsed.Polls))
	for i := range parsed.Polls {
		p := sanitizePoll(parsed.Polls[i])
		if err := validatePoll(p); err != nil {
			return nil, fmt.Errorf("polls[%d]: %w", i, err)
		}
		if _, exists := seen[p.Name]; exists {
			return nil, fmt.Errorf("duplicate poll name %q", p.Name)
		}
		seen[p.Name] = struct{}{}
		polls[i] = p
	}

	return polls, nil
}

// Enabled returns the polls that are not explicitly disabled.
func Enabled(polls []Poll) []Poll {
	out := make([]Poll, 0, len(polls))
	for _, p := range polls {
		if p.EnabledValue() {
			out = append(out, p)
		}
	}
	return out
}

// parsePollsFile attempts to decode the polls file content.
func parsePollsFile(data []byte, ext string) (pollsFile, error) {
	ext = strings.ToLower(strings.TrimSpace(ext))
	decoders := []struct {
		name string
		ext  string
		fn   func([]byte, any) error
	}{
		{name: "yaml", ext: ".yaml", fn: yaml.Unmarshal},
		{name: "yaml", ext: ".yml", fn: yaml.Unmarshal},
		{name: "json", ext: ".json", fn: json.Unmarshal},
		{name: "toml", ext: ".toml", fn: toml.Unmarshal},
	}

	for _, d := range decoders {
		if ext != "" && ext != d.ext {
			continue
		}
		if parsed, err := unmarshalPollsFile(d.name, data, d.fn); err == nil {
			return parsed, nil
		}
	}

	return pollsFile{}, errors.New("polls file format not recognized (expected YAML, JSON, or TOML)")
}

// unmarshalPollsFile decodes the polls file using the provided function.
func unmarshalPollsFile(name string, data []byte, fn func([]byte, any) error) (pollsFile, error) {
	var parsed pollsFile
	if err := fn(data, &parsed); err != nil {
		return pollsFile{}, fmt.Errorf("decode %s polls: %w", name, err)
	}
	return parsed, nil
}

// sanitizePoll trims and normalizes a poll definition. Filter values stay
// verbatim; only keys are trimmed, and pairs without a key are dropped.
func sanitizePoll(p Poll) Poll {
	p.Name = strings.TrimSpace(p.Name)
	p.Endpoint = strings.TrimSpace(p.Endpoint)
	p.Method = strings.ToUpper(strings.TrimSpace(p.Method))
	if p.Method == "" {
		p.Method = defaultPollMethod
	}
	p.ID = strings.TrimSpace(p.ID)

	if len(p.Filter) > 0 {
		filter := make([]restclient.Param, 0, len(p.Filter))
		for _, param := range p.Filter {
			param.Key = strings.TrimSpace(param.Key)
			if param.Key == "" {
				continue
			}
			filter = append(filter, param)
		}
		if len(filter) == 0 {
			filter = nil
		}
		p.Filter = filter
	}

	return p
}

// validatePoll checks that required fields are present.
func validatePoll(p Poll) error {
	if p.Name == "" {
		return errors.New("poll name is required")
	}
	if p.Endpoint == "" {
		return fmt.Errorf("endpoint is required for poll %q", p.Name)
	}
	return nil
}
