package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks reports every event to a charmbracelet logger at debug level.
// It implements PipelineHooks, CacheHooks and ServerHooks.
type LogHooks struct {
	Logger *log.Logger
}

// RegisterLogger installs LogHooks for l as the pipeline, cache and server
// hooks.
func RegisterLogger(l *log.Logger) {
	h := LogHooks{Logger: l}
	SetPipelineHooks(h)
	SetCacheHooks(h)
	SetServerHooks(h)
}

func (h LogHooks) OnLoadStart(_ context.Context, source string) {
	h.Logger.Debug("loading manifest", "source", source)
}

func (h LogHooks) OnLoadComplete(_ context.Context, source string, entries int, d time.Duration, err error) {
	if err != nil {
		h.Logger.Debug("manifest load failed", "source", source, "error", err)
		return
	}
	h.Logger.Debug("manifest loaded", "source", source, "entries", entries, "took", d.Round(time.Microsecond))
}

func (h LogHooks) OnResolve(_ context.Context, tags []string, packages, warnings int, d time.Duration) {
	h.Logger.Debug("resolved", "tags", tags, "packages", packages, "warnings", warnings, "took", d.Round(time.Microsecond))
}

func (h LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.Logger.Debug("cache hit", "type", keyType)
}

func (h LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.Logger.Debug("cache miss", "type", keyType)
}

func (h LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.Logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h LogHooks) OnRequest(_ context.Context, method, route string, status int, d time.Duration) {
	h.Logger.Debug("request", "method", method, "route", route, "status", status, "took", d)
}

func (h LogHooks) OnReload(_ context.Context, changed bool, err error) {
	if err != nil {
		h.Logger.Debug("reload failed", "error", err)
		return
	}
	h.Logger.Debug("reload", "changed", changed)
}

var (
	_ PipelineHooks = LogHooks{}
	_ CacheHooks    = LogHooks{}
	_ ServerHooks   = LogHooks{}
)
