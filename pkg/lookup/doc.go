// Package lookup implements the policy-driven aggregation at the heart of
// ocilookup.
//
// A Source resolves one identifier term (a secret name, an instance OCID)
// against the external service and reports a tagged Outcome: resolved with
// one or more payloads, missing, or denied. The Aggregator walks an ordered
// list of terms, applies the caller's missing/denied Policy to each outcome,
// and collects the surviving payloads in input order.
//
// Policy semantics per term:
//
//   - error: abort the whole run with a fatal error
//   - warn:  emit a warning and continue, producing no result for the term
//   - skip:  continue silently, producing no result for the term
//
// A term that resolves to more than one payload (several secrets sharing a
// name) produces a warning and contributes every payload; this is never
// fatal. A non-nil error from Source.Lookup is a protocol-level anomaly and
// always aborts, regardless of policy.
//
// Processing is strictly sequential: each term completes, network round-trip
// included, before the next begins. Results therefore preserve input order.
package lookup
