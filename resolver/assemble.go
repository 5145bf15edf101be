package resolver

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
)

// assemble turns validated candidates into the final ranked result: each
// surviving URL gets a direct and a proxied form, duplicates collapse to their
// first occurrence, and the list is sorted by provider reliability, ties
// preserving discovery order.
func assemble(req Request, candidates []Candidate, proxyBase string) Result {
	seen := make(map[string]struct{}, len(candidates))
	sources := make([]Source, 0, len(candidates))

	for _, c := range candidates {
		if _, dup := seen[c.URL]; dup {
			continue
		}
		seen[c.URL] = struct{}{}

		provider := RankProvider(c.URL)
		quality := c.Quality
		if quality == "" {
			quality = QualityTag(c.URL)
		}

		sources = append(sources, Source{
			Type:       classify(c.URL),
			URL:        c.URL,
			DirectURL:  c.URL,
			ProxiedURL: proxiedURL(proxyBase, c.URL, req.Referer),
			Quality:    quality,
			Provider:   &provider,
		})
	}

	if len(sources) == 0 {
		return failure(ErrNoSources.Error())
	}

	sort.SliceStable(sources, func(i, j int) bool {
		return sources[i].Provider.Reliability > sources[j].Provider.Reliability
	})

	return Result{
		OK:      true,
		URLs:    sources,
		Message: fmt.Sprintf("found %d sources", len(sources)),
	}
}

// proxiedURL builds the relay-endpoint form of a stream URL. Embed hosts
// frequently refuse cross-origin or referer-less playback; the relay carries
// the original URL, the navigation referer, and the target origin so it can
// replay the request server-side.
func proxiedURL(proxyBase, streamURL, referer string) string {
	origin := ""
	if parsed, err := url.Parse(streamURL); err == nil {
		origin = parsed.Scheme + "://" + parsed.Host
	}

	q := url.Values{}
	q.Set("url", streamURL)
	if referer != "" {
		q.Set("referer", referer)
	}
	if origin != "" {
		q.Set("origin", origin)
	}
	q.Set("rewrite", "1")

	sep := "?"
	if strings.Contains(proxyBase, "?") {
		sep = "&"
	}
	return proxyBase + sep + q.Encode()
}
