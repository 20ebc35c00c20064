package script

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Script is a parsed play script.
type Script struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	// Character is used by start_game steps that do not name one.
	Character       string `yaml:"character"`
	ContinueOnError bool   `yaml:"continue_on_error"`
	Steps           []Step `yaml:"steps"`
}

// Step is one store action.
type Step struct {
	Action string         `yaml:"action"`
	Args   map[string]any `yaml:"args,omitempty"`
}

// Load validates and parses the script at path.
func Load(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	return Parse(path, data)
}

// Parse validates and parses script source. Schema violations are joined
// into the returned error.
func Parse(filename string, data []byte) (*Script, error) {
	if verrs := ValidateBytes(filename, data); len(verrs) > 0 {
		errs := make([]error, len(verrs))
		for i, v := range verrs {
			errs[i] = v
		}
		return nil, fmt.Errorf("invalid script: %w", errors.Join(errs...))
	}

	var sc Script
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&sc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	if sc.Name == "" {
		sc.Name = filename
	}
	return &sc, nil
}
