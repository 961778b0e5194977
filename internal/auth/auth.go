// Package auth resolves the authentication context used to call OCI.
//
// Exactly one context is active per invocation: either a named profile from
// the local credential file, or an instance-principal signer derived from
// the workload's own identity. The selection is driven by OCI_CLI_AUTH; the
// profile name follows a fixed precedence (OCI_CONFIG_PROFILE, then the
// explicit option, then DEFAULT).
package auth

import (
	"os"
	"path/filepath"

	"github.com/oracle/oci-go-sdk/v65/common"
	ociauth "github.com/oracle/oci-go-sdk/v65/common/auth"
	dserrors "github.com/systmms/ocilookup/internal/errors"
)

const (
	// EnvAuthMode selects between profile-based and instance-principal
	// authentication. Same switch the OCI CLI honors.
	EnvAuthMode = "OCI_CLI_AUTH"

	// EnvProfile overrides the profile name, taking precedence over any
	// explicit option.
	EnvProfile = "OCI_CONFIG_PROFILE"

	// ModeAPIKey reads a named profile from the local credential file.
	ModeAPIKey = "api_key"

	// ModeInstancePrincipal derives a signer from the instance's own
	// identity and never touches the credential file.
	ModeInstancePrincipal = "instance_principal"

	// DefaultProfile is used when neither the environment nor the caller
	// names a profile.
	DefaultProfile = "DEFAULT"
)

// Settings captures every environment-derived authentication input.
// Assembled once at the start of an invocation and passed by value; nothing
// reads the environment after this point.
type Settings struct {
	Mode       string
	Profile    string
	ConfigPath string
}

// FromEnv assembles Settings from the process environment plus the explicit
// profile option (a --profile flag or a defaults-file entry).
func FromEnv(explicitProfile string) Settings {
	s := Settings{
		Mode:       ModeAPIKey,
		Profile:    DefaultProfile,
		ConfigPath: defaultConfigPath(),
	}

	if mode := os.Getenv(EnvAuthMode); mode != "" {
		s.Mode = mode
	}

	if override := os.Getenv(EnvProfile); override != "" {
		s.Profile = override
	} else if explicitProfile != "" {
		s.Profile = explicitProfile
	}

	return s
}

func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = ""
	}
	return filepath.Join(home, ".oci", "config")
}

// ConfigurationProvider resolves exactly one usable authentication context
// for the OCI SDK clients. In api_key mode the credential file is not read
// here; the SDK's own config loader surfaces missing or malformed profiles
// when the first client call needs them.
func (s Settings) ConfigurationProvider() (common.ConfigurationProvider, error) {
	switch s.Mode {
	case ModeInstancePrincipal:
		provider, err := ociauth.InstancePrincipalConfigurationProvider()
		if err != nil {
			return nil, dserrors.UserError{
				Message:    "Failed to derive instance principal identity",
				Details:    err.Error(),
				Suggestion: "Instance principal authentication only works on an OCI compute instance that belongs to a dynamic group",
				Err:        err,
			}
		}
		return provider, nil

	case ModeAPIKey:
		return common.CustomProfileConfigProvider(s.ConfigPath, s.Profile), nil

	default:
		return nil, dserrors.ConfigError{
			Field:      EnvAuthMode,
			Value:      s.Mode,
			Message:    "unsupported authentication mode",
			Suggestion: `Set OCI_CLI_AUTH to "api_key" or "instance_principal"`,
		}
	}
}
