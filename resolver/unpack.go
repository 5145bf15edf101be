package resolver

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/aniflux/aniflux/log"
)

// packedRe matches the classic "packer" eval obfuscation:
//
//	eval(function(p,a,c,k,e,d){...}('<payload>',<radix>,<count>,'<dictionary>'.split('|')...))
//
// Capture groups: payload, radix, count, dictionary.
var packedRe = regexp.MustCompile(
	`(?s)eval\(function\(p,a,c,k,e,[dr]\)\{.*?\}\s*\(\s*'((?:[^'\\]|\\.)*)'\s*,\s*(\d+)\s*,\s*(\d+)\s*,\s*'((?:[^'\\]|\\.)*)'\.split\('\|'\)`)

// payloadUnescaper reverses the single-quote string escaping inside a packed payload.
var payloadUnescaper = strings.NewReplacer(`\'`, `'`, `\\`, `\`)

// Unpack detects every packed block in text and returns the decoded payloads
// joined by newlines. Decoding is best-effort: a block that fails to parse is
// logged and skipped, never aborting the pipeline. The empty string means no
// block decoded.
func Unpack(text string) string {
	matches := packedRe.FindAllStringSubmatch(text, -1)
	if matches == nil {
		return ""
	}

	var decoded []string
	for _, m := range matches {
		payload, err := unpackBlock(payloadUnescaper.Replace(m[1]), m[2], m[3], m[4])
		if err != nil {
			log.Debugf("deobfuscator: skipping packed block: %s", err)
			continue
		}
		decoded = append(decoded, payload)
	}

	return strings.Join(decoded, "\n")
}

// unpackBlock reverses one packer transform: every whole-word occurrence of a
// token's radix-encoded index is replaced by the corresponding dictionary word,
// walking indices from count-1 down to 0.
func unpackBlock(payload, rawRadix, rawCount, rawDict string) (string, error) {
	radix, err := strconv.Atoi(rawRadix)
	if err != nil || radix < 2 {
		return "", fmt.Errorf("bad radix %q", rawRadix)
	}

	count, err := strconv.Atoi(rawCount)
	if err != nil || count < 0 {
		return "", fmt.Errorf("bad token count %q", rawCount)
	}

	dict := strings.Split(rawDict, "|")
	if count > len(dict) {
		return "", fmt.Errorf("token count %d exceeds dictionary size %d", count, len(dict))
	}

	for i := count - 1; i >= 0; i-- {
		if dict[i] == "" {
			continue
		}

		token := encodeRadix(i, radix)
		wordRe, err := regexp.Compile(`\b` + regexp.QuoteMeta(token) + `\b`)
		if err != nil {
			return "", fmt.Errorf("token %q: %w", token, err)
		}
		payload = wordRe.ReplaceAllLiteralString(payload, dict[i])
	}

	return payload, nil
}

// encodeRadix renders an index the way packer's own encoder does: plain base-N
// digits up to base 36, and for larger bases a trailing character drawn from
// the 'a'-shifted ASCII range.
func encodeRadix(value, radix int) string {
	if radix <= 36 {
		return strconv.FormatInt(int64(value), radix)
	}

	prefix := ""
	if value >= radix {
		prefix = encodeRadix(value/radix, radix)
	}

	rem := value % radix
	if rem > 35 {
		return prefix + string(rune(rem+29))
	}
	return prefix + strconv.FormatInt(int64(rem), 36)
}
