package resolver

import (
	"encoding/base64"
	"strings"

	"github.com/aniflux/aniflux/log"
)

// DecodeTarget decodes a caller-supplied base64url encoding of a target URL.
// Transport-safe characters are mapped back to standard base64 and padding is
// repaired to a multiple of four before decoding. A string that does not
// decode is returned verbatim: a malformed candidate is allowed to fail later
// at validation instead of failing the request here.
func DecodeTarget(input string) string {
	normalized := strings.NewReplacer("-", "+", "_", "/").Replace(input)

	if rem := len(normalized) % 4; rem != 0 {
		normalized += strings.Repeat("=", 4-rem)
	}

	decoded, err := base64.StdEncoding.DecodeString(normalized)
	if err != nil {
		log.Debugf("url codec: treating input as literal: %s", err)
		return input
	}

	return string(decoded)
}

// EncodeTarget is the inverse of DecodeTarget, used by clients and tests.
func EncodeTarget(target string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(target))
}

// keySafeReplacer remaps base64 characters that are unsafe in cache keys.
var keySafeReplacer = strings.NewReplacer("+", "-", "/", "_", "=", "")

// CacheKey derives the deterministic, key-safe cache identifier for a
// (target, referer) pair.
func CacheKey(targetURL, referer string) string {
	encoded := base64.StdEncoding.EncodeToString([]byte(targetURL + referer))
	return "resolve:" + keySafeReplacer.Replace(encoded)
}
