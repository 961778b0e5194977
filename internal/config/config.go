// Package config loads the optional ocilookup.yaml defaults file.
//
// The file supplies fallback values for flags that were not given on the
// command line: profile name, scope qualifiers, and the missing/denied
// policy. Flags always win over the file; the file wins over built-in
// defaults. A missing file is not an error.
package config

import (
	"fmt"
	"os"

	dserrors "github.com/systmms/ocilookup/internal/errors"
	"github.com/systmms/ocilookup/internal/logging"
	"gopkg.in/yaml.v3"
)

// Config holds the runtime configuration
type Config struct {
	Path     string
	Logger   *logging.Logger
	Defaults Defaults
}

// Defaults mirrors the `defaults:` block of ocilookup.yaml.
type Defaults struct {
	Profile       string `yaml:"profile"`
	CompartmentID string `yaml:"compartment_id"`
	VaultID       string `yaml:"vault_id"`
	OnMissing     string `yaml:"on_missing"`
	OnDenied      string `yaml:"on_denied"`
}

type definition struct {
	Defaults Defaults `yaml:"defaults"`
}

// Load reads and parses the defaults file. Absence of the file leaves the
// defaults zero-valued; policy values from the file are validated later by
// the same parse path the flags use.
func (c *Config) Load() error {
	data, err := os.ReadFile(c.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return dserrors.UserError{
			Message:    "Failed to read defaults file",
			Details:    err.Error(),
			Suggestion: "Check file permissions and the --config path",
			Err:        err,
		}
	}

	var def definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return dserrors.ConfigError{
			Field:      "path",
			Value:      c.Path,
			Message:    fmt.Sprintf("invalid YAML syntax in defaults file: %v", err),
			Suggestion: "Check for indentation errors, missing quotes, or invalid characters",
		}
	}

	c.Defaults = def.Defaults
	return nil
}
