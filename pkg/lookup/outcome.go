package lookup

// State classifies the result of looking up a single term.
type State int

const (
	// StateResolved means the term matched at least one resource.
	StateResolved State = iota
	// StateMissing means the service answered but no resource matched.
	StateMissing
	// StateDenied means the service refused the request or reported an error.
	StateDenied
)

// Outcome is the tagged result of one lookup. Exactly one state applies;
// Payloads is populated only for resolved outcomes and Reason only for
// denied ones.
type Outcome struct {
	State State

	// Payloads holds one resolved value per matched resource, in the order
	// the service returned them. More than one entry means the term was
	// ambiguous.
	Payloads []string

	// Reason preserves the underlying service error text for denied
	// outcomes so it can surface in fatal messages.
	Reason string
}

// Resolved builds a successful outcome carrying the given payloads.
func Resolved(payloads ...string) Outcome {
	return Outcome{State: StateResolved, Payloads: payloads}
}

// Missing builds a not-found outcome.
func Missing() Outcome {
	return Outcome{State: StateMissing}
}

// Denied builds an access-denied outcome with the service's error text.
func Denied(reason string) Outcome {
	return Outcome{State: StateDenied, Reason: reason}
}
