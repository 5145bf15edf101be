package resolver

import "errors"

// Error taxonomy. Validation and per-pattern errors are swallowed and logged;
// fetch and timeout errors terminate only the current candidate attempt; only
// exhaustion of every candidate and fallback yields a final failed result.
var (
	// ErrDecode marks malformed input encoding. Recovered by treating the
	// input as a literal URL.
	ErrDecode = errors.New("malformed url encoding")

	// ErrValidation marks a candidate URL that failed policy. The candidate
	// is dropped, never the request.
	ErrValidation = errors.New("url rejected by policy")

	// ErrFetch marks a non-2xx response or transport failure. Terminal for
	// the current attempt.
	ErrFetch = errors.New("embed page fetch failed")

	// ErrTimeout marks a fetch or extraction that exceeded its budget.
	// Terminal for the current attempt; may trigger fallback.
	ErrTimeout = errors.New("budget exceeded")

	// ErrNoSources marks a successful fetch that produced zero valid
	// candidates. Distinct from an unreachable upstream.
	ErrNoSources = errors.New("no urls found")
)
