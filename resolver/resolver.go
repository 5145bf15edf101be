package resolver

import (
	"context"
	"strings"
	"time"

	"github.com/aniflux/aniflux/cache"
	"github.com/aniflux/aniflux/key"
	"github.com/aniflux/aniflux/log"
	"github.com/aniflux/aniflux/util"
	"github.com/spf13/viper"
)

// Options carries every policy knob of the engine. Zero values are not usable;
// construct via OptionsFromConfig or fill all fields in tests.
type Options struct {
	// FetchTimeout bounds one embed-page GET during the parallel phase.
	FetchTimeout time.Duration
	// FallbackTimeout bounds one GET during the sequential escalation pass.
	FallbackTimeout time.Duration
	// Extraction is the pattern-scan policy.
	Extraction Limits
	// ParallelAttempts bounds concurrent candidate attempts.
	ParallelAttempts int
	// MaxAttempts caps total candidate attempts to guarantee termination.
	MaxAttempts int
	// CacheTTL is the lifetime of a cached successful resolution.
	CacheTTL time.Duration
	// ProxyBase is the relay endpoint prefix for proxied URLs.
	ProxyBase string
}

// OptionsFromConfig assembles Options from the registered configuration keys.
func OptionsFromConfig() Options {
	return Options{
		FetchTimeout:    time.Duration(viper.GetInt(key.ResolverFetchTimeout)) * time.Second,
		FallbackTimeout: time.Duration(viper.GetInt(key.ResolverFallbackTimeout)) * time.Second,
		Extraction: Limits{
			MaxHTMLSize: viper.GetInt(key.ResolverMaxHTMLSize),
			MaxPerType:  viper.GetInt(key.ResolverMaxURLsPerType),
			MaxTotal:    viper.GetInt(key.ResolverMaxTotalURLs),
			Budget:      time.Duration(viper.GetInt(key.ResolverExtractionTimeout)) * time.Second,
		},
		ParallelAttempts: util.Max(viper.GetInt(key.ResolverParallelAttempts), 1),
		MaxAttempts:      util.Max(viper.GetInt(key.ResolverMaxAttempts), 1),
		CacheTTL:         time.Duration(viper.GetInt(key.CacheTTL)) * time.Second,
		ProxyBase:        viper.GetString(key.ProxyBase),
	}
}

// Resolver is the resolution engine. It is safe for concurrent use; the cache
// store and in-flight group are its only cross-request state.
type Resolver struct {
	opts   Options
	store  cache.Store[Result]
	flight *flightGroup[Result]
}

// New constructs a Resolver around an injected result store.
func New(opts Options, store cache.Store[Result]) *Resolver {
	return &Resolver{
		opts:   opts,
		store:  store,
		flight: newFlightGroup[Result](),
	}
}

// Resolve runs the full pipeline for one embed page: cache gate, bounded
// fetch, deobfuscation, layered extraction, validation, ranking, assembly.
// It always returns a well-formed Result and never an error.
func (r *Resolver) Resolve(ctx context.Context, req Request) Result {
	return r.resolve(ctx, req, r.opts.FetchTimeout)
}

func (r *Resolver) resolve(ctx context.Context, req Request, timeout time.Duration) Result {
	cacheKey := CacheKey(req.TargetURL, req.Referer)

	if cached := r.store.Get(cacheKey); cached.IsPresent() {
		log.Debugf("resolver: cache hit for %s", req.TargetURL)
		return cached.MustGet()
	}

	result, shared := r.flight.Do(cacheKey, func() Result {
		return r.resolveUncached(ctx, req, cacheKey, timeout)
	})
	if shared {
		log.Debugf("resolver: joined in-flight resolution for %s", req.TargetURL)
	}
	return result
}

func (r *Resolver) resolveUncached(ctx context.Context, req Request, cacheKey string, timeout time.Duration) Result {
	doc, err := fetchPage(ctx, req, timeout, r.opts.Extraction.MaxHTMLSize)
	if err != nil {
		log.Infof("resolver: %s: %s", req.TargetURL, err)
		return failure(userMessage(err))
	}

	candidates := Extract(doc, r.opts.Extraction)
	log.Debugf("resolver: %s extracted from %s", util.Quantify(len(candidates), "candidate", "candidates"), req.TargetURL)
	if req.Debug {
		for _, c := range candidates {
			log.Infof("resolver: candidate [%s] %s", c.Kind, c.URL)
		}
	}

	result := assemble(req, candidates, r.opts.ProxyBase)

	// Only successful, non-empty resolutions are cached: transient upstream
	// failures get retried on the next call instead of being pinned for the
	// whole TTL window.
	if result.OK && len(result.URLs) > 0 {
		r.store.Set(cacheKey, result, r.opts.CacheTTL)
	}

	return result
}

// ResolveFirst tries several embed-page candidates for the same episode and
// adopts the first success. The attempt policy is parallel with bounded
// concurrency and the short per-attempt timeout, escalating to one sequential
// pass with the longer timeout when every parallel attempt has failed.
// Siblings still running when a winner is adopted continue in the background;
// their successes land in the cache and enrich later calls.
func (r *Resolver) ResolveFirst(ctx context.Context, reqs []Request) Result {
	if len(reqs) == 0 {
		return failure("no candidates to resolve")
	}

	attempts := reqs
	if len(attempts) > r.opts.MaxAttempts {
		attempts = attempts[:r.opts.MaxAttempts]
	}

	parallel := util.Min(r.opts.ParallelAttempts, len(attempts))
	results := make(chan Result, len(attempts))
	sem := make(chan struct{}, parallel)

	for _, req := range attempts {
		go func(req Request) {
			sem <- struct{}{}
			defer func() { <-sem }()
			results <- r.resolve(ctx, req, r.opts.FetchTimeout)
		}(req)
	}

	var lastFailure Result
	for range attempts {
		res := <-results
		if res.OK && len(res.URLs) > 0 {
			return res
		}
		lastFailure = res
	}

	// Escalation: one sequential pass with a longer per-attempt budget. The
	// parallel phase already consumed the attempt list once, so the cap only
	// admits a further pass while attempts remain under MaxAttempts.
	remaining := r.opts.MaxAttempts - len(attempts)
	for i := 0; i < util.Min(remaining, len(attempts)); i++ {
		if ctx.Err() != nil {
			break
		}
		res := r.resolve(ctx, attempts[i], r.opts.FallbackTimeout)
		if res.OK && len(res.URLs) > 0 {
			return res
		}
		lastFailure = res
	}

	if lastFailure.Message == "" {
		lastFailure = failure(ErrNoSources.Error())
	}
	return lastFailure
}

// userMessage strips the internal taxonomy prefix from an error, leaving the
// text shown to API consumers.
func userMessage(err error) string {
	msg := err.Error()
	for _, sentinel := range []error{ErrFetch, ErrTimeout, ErrValidation, ErrDecode} {
		msg = strings.TrimPrefix(msg, sentinel.Error()+": ")
	}
	return msg
}
