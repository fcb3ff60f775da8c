package restclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Endpoint declares one named API route: the path suffix it contributes,
// the methods it accepts, and an optional parent endpoint whose name
// becomes the base path segment for nested routes.
type Endpoint struct {
	Name    string   `json:"name" yaml:"name" toml:"name"`
	URL     string   `json:"url" yaml:"url" toml:"url"`
	Methods []string `json:"methods" yaml:"methods" toml:"methods"`
	Parent  string   `json:"parent,omitempty" yaml:"parent,omitempty" toml:"parent,omitempty"`
}

// registryFile represents the structure of an endpoints declaration file.
type registryFile struct {
	Endpoints []Endpoint `json:"endpoints" yaml:"endpoints" toml:"endpoints"`
}

// Registry materializes endpoint definitions keyed by name. It is built
// once and never mutated afterwards.
type Registry struct {
	mu        sync.RWMutex
	endpoints []Endpoint
	idx       map[string]Endpoint
}

// NewRegistry builds a registry from endpoint definitions, sanitizing and
// validating each entry. A nil definition set is a configuration error.
func NewRegistry(endpoints []Endpoint) (*Registry, error) {
	if endpoints == nil {
		return nil, errors.New("endpoint definitions must not be nil")
	}

	reg := &Registry{
		endpoints: make([]Endpoint, 0, len(endpoints)),
		idx:       make(map[string]Endpoint, len(endpoints)),
	}

	for i := range endpoints {
		ep := sanitizeEndpoint(endpoints[i])
		if err := validateEndpoint(ep); err != nil {
			return nil, fmt.Errorf("endpoint[%d]: %w", i, err)
		}
		if _, exists := reg.idx[ep.Name]; exists {
			return nil, fmt.Errorf("duplicate endpoint name %q", ep.Name)
		}
		reg.endpoints = append(reg.endpoints, ep)
		reg.idx[ep.Name] = ep
	}

	return reg, nil
}

// LoadRegistry loads the endpoint registry from a YAML/JSON/TOML file.
func LoadRegistry(path string) (*Registry, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("endpoints file path is empty")
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open endpoints file: %w", err)
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read endpoints file: %w", err)
	}

	fileReg, err := parseEndpointsFile(raw, filepath.Ext(path))
	if err != nil {
		return nil, err
	}
	if len(fileReg.Endpoints) == 0 {
		return nil, errors.New("endpoints file contains no endpoints entries")
	}

	return NewRegistry(fileReg.Endpoints)
}

// parseEndpointsFile attempts to decode the endpoints file content.
func parseEndpointsFile(data []byte, ext string) (registryFile, error) {
	ext = strings.ToLower(strings.TrimSpace(ext))

	decoders := []struct {
		name string
		ext  string
		fn   unmarshalFn
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
		if reg, err := unmarshalRegistry(d.name, data, d.fn); err == nil {
			return reg, nil
		}
	}

	return registryFile{}, errors.New("endpoints file format not recognized (expected YAML, JSON, or TOML)")
}

type unmarshalFn func([]byte, any) error

func unmarshalRegistry(name string, data []byte, fn unmarshalFn) (registryFile, error) {
	var reg registryFile
	if err := fn(data, &reg); err != nil {
		return registryFile{}, fmt.Errorf("decode %s endpoints: %w", name, err)
	}
	return reg, nil
}

// sanitizeEndpoint trims and normalizes an endpoint definition. Methods
// are uppercased so the per-call legality check compares like with like.
func sanitizeEndpoint(ep Endpoint) Endpoint {
	ep.Name = strings.TrimSpace(ep.Name)
	ep.URL = strings.TrimSpace(ep.URL)
	ep.Parent = strings.TrimSpace(ep.Parent)

	if len(ep.Methods) > 0 {
		methods := make([]string, 0, len(ep.Methods))
		for _, m := range ep.Methods {
			m = strings.ToUpper(strings.TrimSpace(m))
			if m == "" {
				continue
			}
			methods = append(methods, m)
		}
		ep.Methods = methods
	}

	return ep
}

// validateEndpoint checks that required fields are present.
func validateEndpoint(ep Endpoint) error {
	if ep.Name == "" {
		return errors.New("name is required")
	}
	if ep.URL == "" {
		return &ConfigError{Endpoint: ep.Name, Field: "url"}
	}
	if len(ep.Methods) == 0 {
		return &ConfigError{Endpoint: ep.Name, Field: "methods"}
	}
	if ep.Parent == ep.Name {
		return fmt.Errorf("endpoint %q cannot be its own parent", ep.Name)
	}
	return nil
}

// ByName returns the endpoint definition for the given name, if present.
func (r *Registry) ByName(name string) (Endpoint, bool) {
	if r == nil {
		return Endpoint{}, false
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return Endpoint{}, false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	ep, ok := r.idx[name]
	return ep, ok
}

// All returns a copy of the registered endpoints in declaration order.
func (r *Registry) All() []Endpoint {
	if r == nil {
		return nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Endpoint, len(r.endpoints))
	copy(out, r.endpoints)
	return out
}

// Size returns the number of registered endpoints.
func (r *Registry) Size() int {
	if r == nil {
		return 0
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.endpoints)
}
