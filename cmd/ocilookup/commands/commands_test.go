package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/systmms/ocilookup/internal/config"
)

func TestNewSecretCommandFlags(t *testing.T) {
	t.Parallel()

	cmd := NewSecretCommand(&config.Config{})

	for _, name := range []string{"profile", "compartment-id", "vault-id", "on-missing", "on-denied", "join", "json"} {
		assert.NotNil(t, cmd.Flags().Lookup(name), "missing flag %s", name)
	}
}

func TestSecretCommandRequiresAName(t *testing.T) {
	t.Parallel()

	cmd := NewSecretCommand(&config.Config{})
	require.Error(t, cmd.Args(cmd, nil))
	require.NoError(t, cmd.Args(cmd, []string{"db_password"}))
	require.NoError(t, cmd.Args(cmd, []string{"db_password", "api_key"}))
}

func TestNewInstanceCredentialsCommandFlags(t *testing.T) {
	t.Parallel()

	cmd := NewInstanceCredentialsCommand(&config.Config{})

	for _, name := range []string{"profile", "on-missing", "on-denied", "join", "json"} {
		assert.NotNil(t, cmd.Flags().Lookup(name), "missing flag %s", name)
	}
	require.Error(t, cmd.Args(cmd, nil))
}

func TestNewDoctorCommand(t *testing.T) {
	t.Parallel()

	cmd := NewDoctorCommand(&config.Config{})
	assert.Equal(t, "doctor", cmd.Use)
	assert.NotNil(t, cmd.Flags().Lookup("profile"))
}

func TestNewCompletionCommandRejectsUnknownShell(t *testing.T) {
	t.Parallel()

	cmd := NewCompletionCommand(&config.Config{})
	require.Error(t, cmd.Args(cmd, []string{"tcsh"}))
	require.NoError(t, cmd.Args(cmd, []string{"zsh"}))
}
