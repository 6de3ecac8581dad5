package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/hiroksarker/jina/pkg/cache"
	errs "github.com/hiroksarker/jina/pkg/errors"
	"github.com/hiroksarker/jina/pkg/manifest"
	"github.com/hiroksarker/jina/pkg/observability"
	"github.com/hiroksarker/jina/pkg/render"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use it so caching behaves the same everywhere.
//
// The Runner is stateless except for the cache and logger; multiple
// goroutines can safely share one Runner.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
	TTL    time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
		TTL:    cache.DefaultTTL,
	}
}

// Execute runs the complete load → resolve → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if opts.Manifest == "" && opts.Text == "" {
		return nil, errs.New(errs.ErrCodeInvalidInput, "manifest path or text is required")
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	loadStart := time.Now()
	snap, err := r.Load(ctx, opts.Source())
	if err != nil {
		return nil, err
	}
	result := &Result{Snapshot: snap}
	result.Stats.LoadTime = time.Since(loadStart)
	result.Stats.Entries = snap.Index.Entries()

	r.Logger.Debug("loaded manifest",
		"source", snap.Source,
		"entries", snap.Index.Entries(),
		"packages", snap.Index.Len(),
		"duration", result.Stats.LoadTime)

	resolveStart := time.Now()
	res, out, hit, err := r.ResolveWithCacheInfo(ctx, snap, opts)
	if err != nil {
		return nil, err
	}
	result.Resolution = res
	result.Output = out
	result.CacheHit = hit
	result.Stats.ResolveTime = time.Since(resolveStart)
	result.Stats.Packages = len(res.Packages)
	result.Stats.Warnings = len(res.Warnings)

	r.Logger.Debug("resolved tags",
		"tags", opts.Tags,
		"packages", len(res.Packages),
		"warnings", len(res.Warnings),
		"cached", hit,
		"duration", result.Stats.ResolveTime)

	return result, nil
}

// Load reads src and builds a snapshot of it.
func (r *Runner) Load(ctx context.Context, src manifest.Source) (snap *manifest.Snapshot, err error) {
	hooks := observability.Pipeline()
	hooks.OnLoadStart(ctx, src.Name())
	start := time.Now()
	defer func() {
		entries := 0
		if snap != nil {
			entries = snap.Index.Entries()
		}
		hooks.OnLoadComplete(ctx, src.Name(), entries, time.Since(start), err)
	}()

	data, err := src.Read(ctx)
	if err != nil {
		return nil, err
	}
	return manifest.NewSnapshot(src.Name(), data)
}

const keyTypeResult = "result"

// cachedResolution is the cache entry for one resolve+render.
type cachedResolution struct {
	Result manifest.Result `json:"result"`
	Output []byte          `json:"output"`
}

// ResolveWithCacheInfo resolves opts.Tags against snap, renders the result
// in opts.Format and reports whether both came from the cache.
func (r *Runner) ResolveWithCacheInfo(ctx context.Context, snap *manifest.Snapshot, opts Options) (manifest.Result, []byte, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return manifest.Result{}, nil, false, err
	}

	cacheKey := r.Keyer.ResultKey(snap.Digest, cache.ResultKeyOpts{Tags: opts.Tags, Format: opts.Format})
	cacheHooks := observability.Cache()

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			var cached cachedResolution
			if err := json.Unmarshal(data, &cached); err == nil {
				cacheHooks.OnCacheHit(ctx, keyTypeResult)
				return cached.Result, cached.Output, true, nil
			}
		} else if err != nil {
			r.Logger.Warn("cache read failed", "error", err)
		}
		cacheHooks.OnCacheMiss(ctx, keyTypeResult)
	}

	start := time.Now()
	res := snap.Index.Resolve(opts.Tags)
	observability.Pipeline().OnResolve(ctx, opts.Tags, len(res.Packages), len(res.Warnings), time.Since(start))

	out, err := renderBytes(opts.Format, opts.Tags, res)
	if err != nil {
		return manifest.Result{}, nil, false, err
	}

	if data, err := json.Marshal(cachedResolution{Result: res, Output: out}); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, r.TTL); err != nil {
			r.Logger.Warn("cache write failed", "error", err)
		} else {
			cacheHooks.OnCacheSet(ctx, keyTypeResult, len(data))
		}
	}

	return res, out, false, nil
}

// Resolve is a convenience wrapper that calls ResolveWithCacheInfo and
// discards the output and cache hit info.
func (r *Runner) Resolve(ctx context.Context, snap *manifest.Snapshot, opts Options) (manifest.Result, error) {
	res, _, _, err := r.ResolveWithCacheInfo(ctx, snap, opts)
	return res, err
}

// ResolveEach resolves every tag on its own against the shared index,
// concurrently. The result maps each tag to its resolution.
func (r *Runner) ResolveEach(ctx context.Context, idx *manifest.Index, tags []string) (map[string]manifest.Result, error) {
	var (
		mu  sync.Mutex
		out = make(map[string]manifest.Result, len(tags))
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for _, tag := range tags {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res := idx.Resolve([]string{tag})
			mu.Lock()
			out[tag] = res
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func renderBytes(format string, tags []string, res manifest.Result) ([]byte, error) {
	var buf bytes.Buffer
	if err := render.Write(&buf, format, tags, res); err != nil {
		return nil, fmt.Errorf("render %s: %w", format, err)
	}
	return buf.Bytes(), nil
}
