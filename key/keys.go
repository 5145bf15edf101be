// Package key defines the canonical set of configuration identifiers used for centralized settings management.
package key

// Resolver Engine - these keys bound the work a single resolution is allowed to perform.
const (
	ResolverFetchTimeout      = "resolver.fetch_timeout"
	ResolverFallbackTimeout   = "resolver.fallback_timeout"
	ResolverExtractionTimeout = "resolver.extraction_timeout"
	ResolverMaxHTMLSize       = "resolver.max_html_size"
	ResolverMaxURLsPerType    = "resolver.max_urls_per_type"
	ResolverMaxTotalURLs      = "resolver.max_total_urls"
	ResolverParallelAttempts  = "resolver.parallel_attempts"
	ResolverMaxAttempts       = "resolver.max_attempts"
)

// Result Cache - these keys configure the TTL cache shared by concurrent resolutions.
const (
	CacheTTL     = "cache.ttl"
	CachePersist = "cache.persist"
)

// Relay Proxy - these keys describe the external reverse-proxy endpoint used for proxied playback URLs.
const (
	ProxyBase = "proxy.base"
)

// HTTP Server - these keys govern the resolve API listener.
const (
	ServerHost = "server.host"
	ServerPort = "server.port"
)

// Logging Infrastructure - these keys manage the application's internal diagnostics and auditing system.
const (
	LogsWrite = "logs.write"
	LogsLevel = "logs.level"
	LogsJson  = "logs.json"
)

// CLI Execution Environment - these flags and settings govern non-server application behavior.
const (
	CliColored      = "cli.colored"
	CliVersionCheck = "cli.version_check"
)
