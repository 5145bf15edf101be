package resolver

import (
	"net/url"
	"regexp"
	"strings"
)

// providerTable maps hostname fragments to hand-tuned reliability scores.
// Ordered from highest-priority match down; the first fragment contained in
// the hostname wins. Scores are static configuration with no feedback loop
// from observed success rates.
var providerTable = []ProviderInfo{
	{Hostname: "megacloud", Reliability: 95, Description: "MegaCloud"},
	{Hostname: "vidcloud", Reliability: 92, Description: "VidCloud"},
	{Hostname: "rapid-cloud", Reliability: 90, Description: "RapidCloud"},
	{Hostname: "vidstreaming", Reliability: 85, Description: "VidStreaming"},
	{Hostname: "gogocdn", Reliability: 82, Description: "GogoCDN"},
	{Hostname: "mp4upload", Reliability: 78, Description: "Mp4Upload"},
	{Hostname: "filemoon", Reliability: 74, Description: "Filemoon"},
	{Hostname: "streamtape", Reliability: 70, Description: "Streamtape"},
	{Hostname: "mixdrop", Reliability: 62, Description: "MixDrop"},
	{Hostname: "dood", Reliability: 55, Description: "DoodStream"},
	{Hostname: "streamwish", Reliability: 52, Description: "StreamWish"},
	{Hostname: "vidhide", Reliability: 48, Description: "VidHide"},
}

// defaultReliability is assigned to hostnames absent from the table.
const defaultReliability = 30

// Providers returns a copy of the reliability table, highest priority first.
func Providers() []ProviderInfo {
	out := make([]ProviderInfo, len(providerTable))
	copy(out, providerTable)
	return out
}

// RankProvider classifies a validated URL's hostname by ordered substring
// matching against the provider table.
func RankProvider(rawURL string) ProviderInfo {
	hostname := ""
	if parsed, err := url.Parse(rawURL); err == nil {
		hostname = strings.ToLower(parsed.Hostname())
	}

	for _, p := range providerTable {
		if strings.Contains(hostname, p.Hostname) {
			return p
		}
	}

	return ProviderInfo{
		Hostname:    hostname,
		Reliability: defaultReliability,
		Description: "Unknown provider",
	}
}

var qualityRe = regexp.MustCompile(`(?i)\b(2160p|1440p|1080p|720p|480p|360p|240p|4k|fhd|hd|sd)\b`)

// QualityTag derives a human-readable quality marker from a URL when present.
func QualityTag(rawURL string) string {
	return strings.ToLower(qualityRe.FindString(rawURL))
}
