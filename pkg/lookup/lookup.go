package lookup

import (
	"context"
	"fmt"
	"strings"
)

// Source resolves one identifier term against the external service.
// Scope qualifiers (compartment, vault) are bound in at construction, so a
// Source only needs the term itself.
//
// A non-nil error is a protocol-level anomaly (unexpected response status,
// transport failure outside the service's error model) and aborts the run
// unconditionally. Expected failure modes are reported through the Outcome
// so the aggregator can apply policy to them.
type Source interface {
	Name() string
	Lookup(ctx context.Context, term string) (Outcome, error)
}

// Warner receives the non-fatal warnings the warn policy path and ambiguous
// matches produce. *logging.Logger satisfies it.
type Warner interface {
	Warn(format string, args ...interface{})
}

// Aggregator resolves an ordered list of terms through a single Source,
// honoring the configured Policy per term.
type Aggregator struct {
	source Source
	policy Policy
	warner Warner
	join   bool
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithWarner sets the sink for non-fatal warnings. Without one, warnings
// are dropped.
func WithWarner(w Warner) Option {
	return func(a *Aggregator) {
		a.warner = w
	}
}

// WithJoin collapses all resolved payloads into a single concatenated
// result, with no separator.
func WithJoin(join bool) Option {
	return func(a *Aggregator) {
		a.join = join
	}
}

// New creates an aggregator for the given source and validated policy.
func New(source Source, policy Policy, opts ...Option) *Aggregator {
	a := &Aggregator{
		source: source,
		policy: policy,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Run looks up every term in input order and returns the resolved payloads.
// Terms suppressed by the warn or skip policy are simply absent from the
// result, so the output may be shorter than the input. When joining, the
// result is a single-element slice, except that no payloads at all yield an
// empty result rather than one empty string.
//
// The first term whose outcome maps to ActionError aborts the run; no
// partial results are returned in that case.
func (a *Aggregator) Run(ctx context.Context, terms []string) ([]string, error) {
	results := make([]string, 0, len(terms))

	for _, term := range terms {
		outcome, err := a.source.Lookup(ctx, term)
		if err != nil {
			return nil, fmt.Errorf("failed to retrieve %s: %w", term, err)
		}

		switch outcome.State {
		case StateDenied:
			switch a.policy.OnDenied {
			case ActionError:
				return nil, fmt.Errorf("failed to retrieve %s from %s: %s", term, a.source.Name(), outcome.Reason)
			case ActionWarn:
				a.warn("Skipping, access to %s was denied: %s", term, outcome.Reason)
			}
			continue

		case StateMissing:
			switch a.policy.OnMissing {
			case ActionError:
				return nil, fmt.Errorf("failed to find %s (ResourceNotFound)", term)
			case ActionWarn:
				a.warn("Skipping, did not find %s", term)
			}
			continue
		}

		if len(outcome.Payloads) > 1 {
			a.warn("More than one secret found with name %s", term)
		}
		results = append(results, outcome.Payloads...)
	}

	if a.join && len(results) > 0 {
		return []string{strings.Join(results, "")}, nil
	}
	return results, nil
}

func (a *Aggregator) warn(format string, args ...interface{}) {
	if a.warner != nil {
		a.warner.Warn(format, args...)
	}
}
