// Package config provides centralized management for application settings, defaults, and the Viper-based configuration engine.
package config

import (
	"encoding/json"
	"strings"
	"text/template"

	"github.com/aniflux/aniflux/constant"
	"github.com/aniflux/aniflux/key"
	"github.com/samber/lo"
	"github.com/spf13/viper"
)

// Field represents a configuration field definition.
type Field struct {
	Key         string
	Value       any
	Description string
}

// Pretty returns a formatted string representation of the field for display.
func (f *Field) Pretty() string {
	var b strings.Builder
	lo.Must0(prettyTemplate.Execute(&b, f))
	return b.String()
}

// Env returns the environment variable name for this field.
func (f *Field) Env() string {
	env := strings.ToUpper(EnvKeyReplacer.Replace(f.Key))
	prefix := strings.ToUpper(constant.Aniflux + "_")
	if strings.HasPrefix(env, prefix) {
		return env
	}
	return prefix + env
}

// MarshalJSON customizes JSON output to include current and default values.
func (f *Field) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Key         string `json:"key"`
		Value       any    `json:"value"`
		Default     any    `json:"default"`
		Description string `json:"description"`
		Type        string `json:"type"`
	}{
		Key:         f.Key,
		Value:       viper.Get(f.Key),
		Default:     f.Value,
		Description: f.Description,
		Type:        f.typeName(),
	})
}

// typeName returns the string representation of the field's underlying value type.
func (f *Field) typeName() string {
	switch f.Value.(type) {
	case string:
		return "string"
	case int:
		return "int"
	case bool:
		return "bool"
	case []string:
		return "[]string"
	default:
		return "unknown"
	}
}

// Default holds the map of all configuration fields.
var Default = make(map[string]Field)

// EnvExposed holds keys that are bound to environment variables.
var EnvExposed []string

func init() {
	// register validates and adds a new configuration field to the global registry.
	register := func(k string, v any, desc string) {
		if _, exists := Default[k]; exists {
			panic("Duplicate config key: " + k)
		}
		f := Field{Key: k, Value: v, Description: desc}
		Default[k] = f
		EnvExposed = append(EnvExposed, k)
	}

	register(key.ResolverFetchTimeout, 3, "Per-attempt timeout in seconds for fetching an embed page.\nA timed out attempt is terminal for that candidate")
	register(key.ResolverFallbackTimeout, 8, "Per-attempt timeout in seconds for the sequential fallback pass\nafter every parallel attempt has failed")
	register(key.ResolverExtractionTimeout, 3, "Wall-clock budget in seconds for the whole extraction phase")
	register(key.ResolverMaxHTMLSize, 2097152, "Maximum embed page size in bytes.\nDocuments are truncated beyond this before any processing")
	register(key.ResolverMaxURLsPerType, 5, "Maximum candidates accepted per pattern category")
	register(key.ResolverMaxTotalURLs, 15, "Global candidate cap.\nScanning terminates early once reached")
	register(key.ResolverParallelAttempts, 3, "Bounded concurrency when several embed-page candidates are tried at once")
	register(key.ResolverMaxAttempts, 6, "Hard cap on total candidate attempts per resolution,\ncounting both parallel and fallback passes")
	register(key.CacheTTL, 600, "Lifetime in seconds of a cached successful resolution.\nFailed or empty resolutions are never cached")
	register(key.CachePersist, false, "Persist the result cache to disk so it survives restarts")
	register(key.ProxyBase, "/api/proxy", "Relay endpoint prefix used to build proxied playback URLs")
	register(key.ServerHost, "0.0.0.0", "Network interface the resolve API binds to")
	register(key.ServerPort, 8080, "TCP port the resolve API listens on")
	register(key.LogsWrite, false, "Write logs")
	register(key.LogsLevel, "info", "Available options are: (from less to most verbose)\npanic, fatal, error, warn, info, debug, trace")
	register(key.LogsJson, false, "Use json format for logs")
	register(key.CliColored, true, "Enable colored CLI output")
	register(key.CliVersionCheck, true, "Enable automatic version check")
}

var prettyTemplate = lo.Must(template.New("pretty").Funcs(template.FuncMap{
	"value": func(k string) any { return viper.Get(k) },
}).Parse(`{{ .Description }}
Key:     {{ .Key }}
Env:     {{ .Env }}
Value:   {{ value .Key }}
Default: {{ .Value }}`))
