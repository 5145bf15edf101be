package resolver

import "regexp"

// PatternKind labels the extraction strategy that produced a candidate.
type PatternKind string

const (
	KindDirectMedia   PatternKind = "direct_media"
	KindExtendedMedia PatternKind = "extended_media"
	KindQuotedMedia   PatternKind = "quoted_media"
	KindAssignment    PatternKind = "js_assignment"
	KindPlayerConfig  PatternKind = "player_config"
	KindSourcesArray  PatternKind = "sources_array"
	KindLooseConfig   PatternKind = "loose_config"
	KindQuotedLoose   PatternKind = "quoted_loose"
	KindEndpoint      PatternKind = "endpoint"
	KindCDN           PatternKind = "cdn"
	KindRelative      PatternKind = "provider_relative"
	KindDOM           PatternKind = "dom"
	KindDeep          PatternKind = "deep_scan"
)

// Candidate is a transient extraction output awaiting validation.
type Candidate struct {
	Kind    PatternKind
	URL     string
	Quality string
}

// pattern is one entry in the ordered matcher table.
type pattern struct {
	kind PatternKind
	re   *regexp.Regexp
	// group is the capture group preferred over the full match; 0 keeps the
	// whole match.
	group int
	// base, when set, promotes provider-relative paths to absolute URLs.
	base string
}

// patternTable is ordered from most to least specific. Scanning a chunk walks
// the table top to bottom; per-kind and global caps stop it early.
var patternTable = []pattern{
	// 1. Direct media-extension URLs.
	{kind: KindDirectMedia, re: regexp.MustCompile(`https?://[^\s"'<>\\]+?\.(?:m3u8|mp4)(?:\?[^\s"'<>\\]*)?`)},

	// 2. Broader media-extension URLs.
	{kind: KindExtendedMedia, re: regexp.MustCompile(`https?://[^\s"'<>\\]+?\.(?:webm|mkv|avi|mov|flv)(?:\?[^\s"'<>\\]*)?`)},

	// 3. Quoted URLs carrying a media extension.
	{kind: KindQuotedMedia, re: regexp.MustCompile(`["'](https?://[^"']+?\.(?:m3u8|mp4|webm|mkv|avi|mov|flv)(?:\?[^"']*)?)["']`), group: 1},

	// 4. JS variable assignments holding a media URL.
	{kind: KindAssignment, re: regexp.MustCompile(`(?i)(?:var|let|const)?\s*[\w$]*(?:file|src|url|source|stream)[\w$]*\s*[:=]\s*["'](https?://[^"']+?\.(?:m3u8|mp4|webm)[^"']*)["']`), group: 1},

	// 5. Player-configuration keys with a media extension.
	{kind: KindPlayerConfig, re: regexp.MustCompile(`(?:hls4|hls3|hls2|file)\s*:\s*["'](https?://[^"']+?\.(?:m3u8|mp4|webm|mkv|avi|mov|flv)[^"']*)["']`), group: 1},

	// 6. Player "sources" array entries.
	{kind: KindSourcesArray, re: regexp.MustCompile(`sources\s*[:=]\s*\[\s*\{[^}]*?(?:file|src)\s*:\s*["']([^"']+)["']`), group: 1},

	// 7. The same config keys without an extension filter. Looser, lower confidence.
	{kind: KindLooseConfig, re: regexp.MustCompile(`(?:hls4|hls3|hls2|file)\s*:\s*["'](https?://[^"']+)["']`), group: 1},

	// 8. Any quoted string with a media-like extension.
	{kind: KindQuotedLoose, re: regexp.MustCompile(`["']([^"'\s]+?\.(?:m3u8|mp4|webm|mkv|avi|mov|flv)(?:\?[^"']*)?)["']`), group: 1},

	// 9. API/stream/embed-like endpoint URLs.
	{kind: KindEndpoint, re: regexp.MustCompile(`https?://[^\s"'<>\\]+/(?:api|ajax|stream|streaming|embed|getSources|sources)[^\s"'<>\\]*`)},

	// 10. CDN-domain media URLs.
	{kind: KindCDN, re: regexp.MustCompile(`https?://[^\s"'<>]*(?:cdn|cache|edge|cloud)[^\s"'<>]*/[^\s"'<>]+?\.(?:m3u8|mp4|webm|ts)[^\s"'<>]*`)},

	// 11. Known provider paths served relative to the player origin.
	{kind: KindRelative, re: regexp.MustCompile(`src\s*:\s*["'](/v/[^"']+?\.mp4[^"']*)["']`), group: 1, base: "https://www.mp4upload.com"},
}

// deepScanTriggers are hostname fragments of obfuscation-heavy providers. A
// document mentioning one of them gets the deeper, more expensive pass.
var deepScanTriggers = []string{"megacloud", "rapid-cloud", "filemoon", "kwik"}

var (
	// base64TokenRe finds long base64-looking blobs worth opportunistic decoding.
	base64TokenRe = regexp.MustCompile(`[A-Za-z0-9+/_-]{48,}={0,2}`)

	// deepVarRe finds provider-typical variable names carrying a media URL.
	deepVarRe = regexp.MustCompile(`(?:videoUrl|streamUrl|file|src)\s*[:=]\s*["'](https?://[^"']+)["']`)

	// deepCallRe finds player function calls carrying a media URL argument.
	deepCallRe = regexp.MustCompile(`(?:loadVideo|playVideo)\(\s*["'](https?://[^"']+)["']`)

	// decodedMediaRe is run over decoded base64 blobs.
	decodedMediaRe = regexp.MustCompile(`https?://[^\s"'<>\\]+?\.(?:m3u8|mp4|webm)(?:\?[^\s"'<>\\]*)?`)
)
