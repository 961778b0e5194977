package lookup

import (
	"fmt"
	"strings"
)

// Action selects how the aggregator reacts when a term is missing or denied.
type Action int

const (
	// ActionError aborts the entire run with a fatal error.
	ActionError Action = iota
	// ActionWarn emits a warning and continues with the next term.
	ActionWarn
	// ActionSkip continues silently with the next term.
	ActionSkip
)

// String returns the configuration spelling of the action.
func (a Action) String() string {
	switch a {
	case ActionError:
		return "error"
	case ActionWarn:
		return "warn"
	case ActionSkip:
		return "skip"
	default:
		return fmt.Sprintf("Action(%d)", int(a))
	}
}

// ParseAction parses an action value case-insensitively. Values outside
// {error, warn, skip} are rejected; callers must run this before touching
// the network so that bad configuration never triggers a lookup.
func ParseAction(value string) (Action, error) {
	switch strings.ToLower(value) {
	case "error":
		return ActionError, nil
	case "warn":
		return ActionWarn, nil
	case "skip":
		return ActionSkip, nil
	default:
		return ActionError, fmt.Errorf(`must be one of "error", "warn" or "skip", not %q`, value)
	}
}

// Policy pairs the two failure-handling axes of a run.
type Policy struct {
	OnMissing Action
	OnDenied  Action
}

// ParsePolicy validates both policy values and returns the resulting Policy.
func ParsePolicy(onMissing, onDenied string) (Policy, error) {
	missing, err := ParseAction(onMissing)
	if err != nil {
		return Policy{}, fmt.Errorf("on_missing: %w", err)
	}
	denied, err := ParseAction(onDenied)
	if err != nil {
		return Policy{}, fmt.Errorf("on_denied: %w", err)
	}
	return Policy{OnMissing: missing, OnDenied: denied}, nil
}
