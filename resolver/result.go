// Package resolver implements the video-source resolution engine: it fetches a
// third-party embed page, defeats common script obfuscation, extracts candidate
// stream URLs through a layered pattern strategy, validates them against an
// SSRF policy, and returns a ranked, proxy-wrapped result.
package resolver

import "strings"

// SourceType classifies a stream URL by its container format.
type SourceType string

const (
	TypeHLS     SourceType = "hls"
	TypeMP4     SourceType = "mp4"
	TypeWebM    SourceType = "webm"
	TypeUnknown SourceType = "unknown"
)

// Request describes a single resolution call. Ephemeral, one per call.
type Request struct {
	// TargetURL is the decoded embed page URL.
	TargetURL string `json:"targetUrl"`
	// Referer is an optional navigation referer forwarded to the embed host.
	Referer string `json:"referer,omitempty"`
	// Debug enables verbose candidate logging for this call.
	Debug bool `json:"debug,omitempty"`
}

// ProviderInfo describes the hosting provider a stream URL was matched to.
// It is a pure function of the hostname and is recomputed on every call.
type ProviderInfo struct {
	// Hostname fragment that matched.
	Hostname string `json:"hostname"`
	// Reliability is a static score of how consistently the provider yields a working stream.
	Reliability int `json:"reliability"`
	// Description is a human-readable provider label.
	Description string `json:"description"`
}

// Source is a validated, playable stream URL.
type Source struct {
	Type SourceType `json:"type"`
	// URL has already passed validation and is unique within a result.
	URL string `json:"url"`
	// DirectURL is attempted first by the player for performance.
	DirectURL string `json:"directUrl"`
	// ProxiedURL is the same-origin relay fallback for hosts that block
	// cross-origin or unauthenticated playback.
	ProxiedURL string        `json:"proxiedUrl"`
	Quality    string        `json:"quality,omitempty"`
	Provider   *ProviderInfo `json:"provider,omitempty"`
}

// Result is the externally visible outcome of a resolution.
// It is always produced; the engine never surfaces an error to the caller.
type Result struct {
	OK      bool     `json:"ok"`
	URLs    []Source `json:"urls"`
	Message string   `json:"message"`
}

// failure builds a terminal, uncacheable result.
func failure(message string) Result {
	return Result{OK: false, URLs: []Source{}, Message: message}
}

// classify derives the source type from the URL's media extension.
func classify(rawURL string) SourceType {
	lower := strings.ToLower(rawURL)

	// Strip query and fragment before looking at the extension.
	if i := strings.IndexAny(lower, "?#"); i >= 0 {
		lower = lower[:i]
	}

	switch {
	case strings.HasSuffix(lower, ".m3u8"):
		return TypeHLS
	case strings.HasSuffix(lower, ".mp4"):
		return TypeMP4
	case strings.HasSuffix(lower, ".webm"):
		return TypeWebM
	default:
		return TypeUnknown
	}
}
