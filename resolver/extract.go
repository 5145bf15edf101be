package resolver

import (
	"encoding/base64"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/aniflux/aniflux/log"
	"github.com/aniflux/aniflux/util"
	"github.com/cespare/xxhash/v2"
)

// chunkSize bounds the text window a single scan step looks at. Scanning
// checks the wall-clock budget between chunks, which keeps one oversized
// document from starving concurrent resolutions.
const chunkSize = 8 * 1024

// Limits are the extraction policy knobs.
type Limits struct {
	// MaxHTMLSize truncates the document before any processing.
	MaxHTMLSize int
	// MaxPerType caps accepted candidates per pattern kind.
	MaxPerType int
	// MaxTotal terminates the whole scan once reached.
	MaxTotal int
	// Budget is the wall-clock allowance for the whole extraction phase.
	Budget time.Duration
}

// extractor accumulates deduplicated, validated candidates under the limits.
// It produces a finite, non-restartable sequence: once stopped, a new
// extractor is needed.
type extractor struct {
	limits     Limits
	deadline   time.Time
	perKind    map[PatternKind]int
	total      int
	seen       map[uint64]struct{}
	candidates []Candidate
	stopped    bool
}

func newExtractor(limits Limits) *extractor {
	return &extractor{
		limits:   limits,
		deadline: time.Now().Add(limits.Budget),
		perKind:  make(map[PatternKind]int),
		seen:     make(map[uint64]struct{}),
	}
}

// Extract runs the layered pattern strategy over an embed document and returns
// typed candidates, already validated and deduplicated, in discovery order.
func Extract(doc string, limits Limits) []Candidate {
	if limits.MaxHTMLSize > 0 && len(doc) > limits.MaxHTMLSize {
		log.Debugf("extractor: truncating document from %d to %d bytes", len(doc), limits.MaxHTMLSize)
		doc = util.Truncate(doc, limits.MaxHTMLSize)
	}

	e := newExtractor(limits)

	e.scanDOM(doc)

	// Decoded packer payloads are appended, not substituted, so both the
	// obfuscated and the decoded text stay visible to the matchers.
	working := doc
	if decoded := Unpack(doc); decoded != "" {
		working = working + "\n" + decoded
	}

	e.scanChunks(working)
	e.deepScan(working)

	return e.candidates
}

// add validates one raw candidate and admits it under the caps. The second
// return value is false once the global cap is reached and scanning must stop.
func (e *extractor) add(kind PatternKind, raw string) bool {
	if e.stopped {
		return false
	}
	if e.limits.MaxTotal > 0 && e.total >= e.limits.MaxTotal {
		e.stopped = true
		return false
	}
	if e.limits.MaxPerType > 0 && e.perKind[kind] >= e.limits.MaxPerType {
		return true
	}

	cleaned, ok := acceptCandidate(raw)
	if !ok {
		return true
	}

	sum := xxhash.Sum64String(cleaned)
	if _, dup := e.seen[sum]; dup {
		return true
	}
	e.seen[sum] = struct{}{}

	e.perKind[kind]++
	e.total++
	e.candidates = append(e.candidates, Candidate{
		Kind:    kind,
		URL:     cleaned,
		Quality: QualityTag(cleaned),
	})

	if e.limits.MaxTotal > 0 && e.total >= e.limits.MaxTotal {
		e.stopped = true
		return false
	}
	return true
}

// overBudget reports whether the extraction wall-clock allowance is spent.
func (e *extractor) overBudget() bool {
	if time.Now().After(e.deadline) {
		log.Warnf("extractor: wall-clock budget exhausted after %d candidates", e.total)
		return true
	}
	return false
}

// scanDOM harvests <video> and <source> elements before any text matching.
// Best-effort: a document goquery cannot parse is simply skipped.
func (e *extractor) scanDOM(doc string) {
	parsed, err := goquery.NewDocumentFromReader(strings.NewReader(doc))
	if err != nil {
		log.Debugf("extractor: dom pass skipped: %s", err)
		return
	}

	parsed.Find("video[src], video source[src], source[src]").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		src, exists := sel.Attr("src")
		if !exists {
			return true
		}
		return e.add(KindDOM, src)
	})
}

// scanChunks walks the working text in fixed windows, running the ordered
// matcher table over each. The budget check between chunks is the cooperative
// stop point.
func (e *extractor) scanChunks(working string) {
	for offset := 0; offset < len(working) && !e.stopped; offset += chunkSize {
		if e.overBudget() {
			return
		}

		end := util.Min(offset+chunkSize, len(working))
		chunk := working[offset:end]

		for _, p := range patternTable {
			if e.stopped {
				return
			}
			if e.limits.MaxPerType > 0 && e.perKind[p.kind] >= e.limits.MaxPerType {
				continue
			}

			for _, m := range p.re.FindAllStringSubmatch(chunk, -1) {
				raw := m[0]
				if p.group > 0 && p.group < len(m) {
					raw = m[p.group]
				}
				if p.base != "" && strings.HasPrefix(raw, "/") {
					raw = p.base + raw
				}
				if !e.add(p.kind, raw) {
					return
				}
			}
		}
	}
}

// deepScan is the provider-triggered pass for hosts known to bury their stream
// URLs: long base64 blobs are opportunistically decoded and re-searched, and
// provider-typical variable and call shapes are matched directly.
func (e *extractor) deepScan(working string) {
	if e.stopped || e.overBudget() {
		return
	}

	lower := strings.ToLower(working)
	triggered := false
	for _, trigger := range deepScanTriggers {
		if strings.Contains(lower, trigger) {
			triggered = true
			break
		}
	}
	if !triggered {
		return
	}

	for _, token := range base64TokenRe.FindAllString(working, 64) {
		if e.stopped || e.overBudget() {
			return
		}

		decoded := decodeLooseBase64(token)
		if decoded == "" {
			continue
		}
		for _, u := range decodedMediaRe.FindAllString(decoded, -1) {
			if !e.add(KindDeep, u) {
				return
			}
		}
	}

	for _, re := range []*regexp.Regexp{deepVarRe, deepCallRe} {
		for _, m := range re.FindAllStringSubmatch(working, -1) {
			if !e.add(KindDeep, m[1]) {
				return
			}
		}
	}
}

// decodeLooseBase64 tries both standard and url-safe alphabets, repairing
// padding; returns "" when the token is not printable text.
func decodeLooseBase64(token string) string {
	normalized := strings.NewReplacer("-", "+", "_", "/").Replace(token)
	if rem := len(normalized) % 4; rem != 0 {
		normalized += strings.Repeat("=", 4-rem)
	}

	decoded, err := base64.StdEncoding.DecodeString(normalized)
	if err != nil {
		return ""
	}

	for _, b := range decoded {
		if b < 0x09 || (b > 0x0d && b < 0x20) || b > 0x7e {
			return ""
		}
	}
	return string(decoded)
}
