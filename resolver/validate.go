package resolver

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/aniflux/aniflux/log"
)

// maxURLLength bounds accepted candidate URLs.
const maxURLLength = 2048

// blockedHosts are never dereferenced nor returned, regardless of path.
var blockedHosts = map[string]struct{}{
	"localhost": {},
	"127.0.0.1": {},
	"0.0.0.0":   {},
	"::1":       {},
}

// allowedPorts are the only explicit ports a candidate may carry.
var allowedPorts = map[string]struct{}{
	"80":   {},
	"443":  {},
	"8080": {},
	"8443": {},
}

// ValidateURL enforces scheme, hostname, port, and length policy on a single
// candidate. It returns the cleaned URL on success. Rejection reasons wrap
// ErrValidation; the caller drops the candidate without failing the request.
func ValidateURL(candidate string) (string, error) {
	cleaned := strings.Trim(strings.TrimSpace(candidate), `"'`)

	if cleaned == "" {
		return "", fmt.Errorf("%w: empty", ErrValidation)
	}
	if len(cleaned) > maxURLLength {
		return "", fmt.Errorf("%w: longer than %d characters", ErrValidation, maxURLLength)
	}

	parsed, err := url.Parse(cleaned)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrValidation, err)
	}

	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", fmt.Errorf("%w: scheme %q", ErrValidation, parsed.Scheme)
	}

	hostname := parsed.Hostname()
	if hostname == "" {
		return "", fmt.Errorf("%w: missing hostname", ErrValidation)
	}
	if _, blocked := blockedHosts[hostname]; blocked {
		return "", fmt.Errorf("%w: blocked host %q", ErrValidation, hostname)
	}

	if port := parsed.Port(); port != "" {
		if _, ok := allowedPorts[port]; !ok {
			return "", fmt.Errorf("%w: port %s", ErrValidation, port)
		}
	}

	for _, r := range hostname {
		valid := r == '.' || r == '-' ||
			(r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
		if !valid {
			return "", fmt.Errorf("%w: hostname character %q", ErrValidation, r)
		}
	}

	return cleaned, nil
}

// acceptCandidate validates and debug-logs in one step, the shape every
// extraction site uses.
func acceptCandidate(raw string) (string, bool) {
	cleaned, err := ValidateURL(raw)
	if err != nil {
		log.Debugf("validator: dropped candidate %.120q: %s", raw, err)
		return "", false
	}
	return cleaned, true
}
