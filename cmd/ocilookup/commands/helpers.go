package commands

import (
	"encoding/json"
	"fmt"
	"io"

	dserrors "github.com/systmms/ocilookup/internal/errors"
	"github.com/systmms/ocilookup/internal/logging"
	"github.com/systmms/ocilookup/internal/secure"
	"github.com/systmms/ocilookup/pkg/lookup"
)

// firstNonEmpty returns the first value that is set. Flag, then defaults
// file, then built-in default.
func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}
	return ""
}

// parsePolicy validates the two policy inputs before anything touches the
// network, so a typo fails fast.
func parsePolicy(onMissing, onDenied string) (lookup.Policy, error) {
	missing, err := lookup.ParseAction(onMissing)
	if err != nil {
		return lookup.Policy{}, dserrors.ConfigError{
			Field:      "on_missing",
			Value:      onMissing,
			Message:    err.Error(),
			Suggestion: "Use --on-missing error, warn, or skip",
		}
	}

	denied, err := lookup.ParseAction(onDenied)
	if err != nil {
		return lookup.Policy{}, dserrors.ConfigError{
			Field:      "on_denied",
			Value:      onDenied,
			Message:    err.Error(),
			Suggestion: "Use --on-denied error, warn, or skip",
		}
	}

	return lookup.Policy{OnMissing: missing, OnDenied: denied}, nil
}

// writeResults prints resolved payloads, one per line, or as a JSON array.
// Plaintext is staged through a protected enclave and wiped after writing.
func writeResults(w io.Writer, results []string, jsonOutput bool) error {
	if jsonOutput {
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(results); err != nil {
			return fmt.Errorf("failed to encode JSON: %w", err)
		}
		return nil
	}

	for _, result := range results {
		if err := writeStaged(w, result); err != nil {
			return err
		}
	}
	return nil
}

func writeStaged(w io.Writer, result string) error {
	buffer, err := secure.NewBuffer([]byte(result))
	if err != nil {
		return fmt.Errorf("failed to stage result: %w", err)
	}
	defer buffer.Destroy()

	locked, err := buffer.Open()
	if err != nil {
		return fmt.Errorf("failed to open staged result: %w", err)
	}
	defer locked.Destroy()

	// A writer error can echo the bytes it was handed.
	if _, err := w.Write(locked.Bytes()); err != nil {
		return fmt.Errorf("failed to write result: %s", logging.Redact(err.Error(), []string{result}))
	}
	_, err = fmt.Fprintln(w)
	return err
}
