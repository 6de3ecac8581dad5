package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/hiroksarker/jina/pkg/cache"
	errs "github.com/hiroksarker/jina/pkg/errors"
	"github.com/hiroksarker/jina/pkg/manifest"
	"github.com/hiroksarker/jina/pkg/observability"
)

const sample = `numpy: core
protobuf>=3.13.0: core
uvicorn[standard]: http
aiohttp>=3.8: http, test
aiohttp==3.9: devel
pytest: test
`

// memCache is an in-memory Cache that counts hits.
type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
	hits int
	sets int
}

func newMemCache() *memCache { return &memCache{data: make(map[string][]byte)} }

func (c *memCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	d, ok := c.data[key]
	if ok {
		c.hits++
	}
	return d, ok, nil
}

func (c *memCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = data
	c.sets++
	return nil
}

func (c *memCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *memCache) Close() error { return nil }

func TestOptionsValidateAndSetDefaults(t *testing.T) {
	opts := Options{Text: sample}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("valid options should pass: %v", err)
	}
	if !slices.Equal(opts.Tags, []string{"all"}) {
		t.Errorf("Tags default = %v, want [all]", opts.Tags)
	}
	if opts.Format != "text" {
		t.Errorf("Format default = %q, want text", opts.Format)
	}
	if opts.Logger == nil {
		t.Error("Logger should default to a discard logger")
	}

	opts.Tags = []string{"bad tag"}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Errorf("second call should be a no-op, got %v", err)
	}
}

func TestOptionsValidateErrors(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code errs.Code
	}{
		{"bad tag", Options{Text: sample, Tags: []string{"a,b"}}, errs.ErrCodeInvalidTag},
		{"bad format", Options{Text: sample, Format: "xml"}, errs.ErrCodeInvalidFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if !errs.Is(err, tt.code) {
				t.Errorf("err = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestOptionsSource(t *testing.T) {
	if _, ok := (&Options{Text: "x: y"}).Source().(manifest.TextSource); !ok {
		t.Error("inline text should use a TextSource")
	}
	src := (&Options{Manifest: "m.txt"}).Source()
	if fs, ok := src.(manifest.FileSource); !ok || fs.Path != "m.txt" {
		t.Errorf("path should use a FileSource, got %#v", src)
	}
}

func TestExecute(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	res, err := r.Execute(context.Background(), Options{
		Text:   sample,
		Tags:   []string{"core", "test"},
		Format: "requirements",
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	want := "# extras: core, test\nnumpy\nprotobuf>=3.13.0\naiohttp>=3.8\npytest\n"
	if string(res.Output) != want {
		t.Errorf("output:\n%s\nwant:\n%s", res.Output, want)
	}
	if res.Stats.Entries != 6 || res.Stats.Packages != 4 || res.Stats.Warnings != 1 {
		t.Errorf("unexpected stats %+v", res.Stats)
	}
	if res.Snapshot == nil || res.Snapshot.Digest != cache.Hash([]byte(sample)) {
		t.Error("snapshot digest should hash the manifest text")
	}
	if res.CacheHit {
		t.Error("NullCache should never hit")
	}
}

func TestExecuteFreeFormTags(t *testing.T) {
	const text = "numpy: gpu extras\nscipy: odd:tag\n"
	r := NewRunner(nil, nil, nil)

	tests := []struct {
		tag  string
		want string
	}{
		{"gpu extras", "numpy\n"},
		{"odd:tag", "scipy\n"},
	}
	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			res, err := r.Execute(context.Background(), Options{Text: text, Tags: []string{tt.tag}})
			if err != nil {
				t.Fatalf("Execute(%q): %v", tt.tag, err)
			}
			if string(res.Output) != tt.want || len(res.Resolution.Warnings) != 0 {
				t.Errorf("output = %q, warnings = %v", res.Output, res.Resolution.Warnings)
			}
		})
	}
}

func TestExecuteFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), manifest.DefaultFilename)
	if err := os.WriteFile(path, []byte(sample), 0644); err != nil {
		t.Fatal(err)
	}

	res, err := NewRunner(nil, nil, nil).Execute(context.Background(), Options{Manifest: path, Tags: []string{"http"}})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if got := strings.TrimSpace(string(res.Output)); got != "uvicorn[standard]\naiohttp>=3.8" {
		t.Errorf("output = %q", got)
	}
	if res.Snapshot.Source != path {
		t.Errorf("Source = %q, want %q", res.Snapshot.Source, path)
	}
}

func TestExecuteErrors(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	ctx := context.Background()

	_, err := r.Execute(ctx, Options{})
	if !errs.Is(err, errs.ErrCodeInvalidInput) {
		t.Errorf("no manifest: err = %v, want INVALID_INPUT", err)
	}

	_, err = r.Execute(ctx, Options{Manifest: filepath.Join(t.TempDir(), "missing.txt")})
	if !errs.Is(err, errs.ErrCodeFileNotFound) {
		t.Errorf("missing file: err = %v, want FILE_NOT_FOUND", err)
	}

	_, err = r.Execute(ctx, Options{Text: "numpy: all\n"})
	if !errs.Is(err, errs.ErrCodeReservedTag) {
		t.Errorf("reserved tag: err = %v, want RESERVED_TAG", err)
	}
}

func TestExecuteCaching(t *testing.T) {
	mc := newMemCache()
	r := NewRunner(mc, nil, nil)
	ctx := context.Background()
	opts := Options{Text: sample, Tags: []string{"test", "core", "nope"}, Format: "json"}

	first, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if first.CacheHit || mc.sets != 1 {
		t.Fatalf("first run: hit=%v sets=%d", first.CacheHit, mc.sets)
	}

	opts.Tags = []string{"nope", "core", "test"}
	second, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if !second.CacheHit {
		t.Error("reordered tags should hit the cache")
	}
	if string(second.Output) != string(first.Output) {
		t.Error("cached output differs")
	}
	if len(second.Resolution.Warnings) != 2 {
		t.Errorf("cached warnings = %v, want unknown tag + conflict", second.Resolution.Warnings)
	}
	if _, ok := second.Resolution.Warnings[0].(manifest.UnknownTagWarning); !ok {
		t.Errorf("first cached warning should be UnknownTagWarning, got %T", second.Resolution.Warnings[0])
	}

	opts.Refresh = true
	third, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if third.CacheHit {
		t.Error("Refresh should bypass the cache")
	}

	opts.Refresh = false
	opts.Format = "yaml"
	fourth, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if fourth.CacheHit {
		t.Error("a different format should not share the cache entry")
	}
}

func TestResolveEach(t *testing.T) {
	snap, err := NewRunner(nil, nil, nil).Load(context.Background(), manifest.TextSource{Text: sample})
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(nil, nil, nil)
	tags := snap.Index.Tags()

	got, err := r.ResolveEach(context.Background(), snap.Index, tags)
	if err != nil {
		t.Fatalf("ResolveEach: %v", err)
	}
	if len(got) != len(tags) {
		t.Fatalf("got %d results, want %d", len(got), len(tags))
	}
	for _, tag := range tags {
		want := snap.Index.Resolve([]string{tag})
		if !slices.Equal(got[tag].Specs(), want.Specs()) {
			t.Errorf("%s: %v, want %v", tag, got[tag].Specs(), want.Specs())
		}
	}
}

func TestResolveEachCancelled(t *testing.T) {
	idx, err := manifest.Load(sample)
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := NewRunner(nil, nil, nil).ResolveEach(ctx, idx, []string{"core", "http"}); err == nil {
		t.Error("expected error from cancelled context")
	}
}

func TestRunnerClose(t *testing.T) {
	if err := NewRunner(newMemCache(), nil, nil).Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}

type recordingHooks struct {
	observability.NoopPipelineHooks
	observability.NoopCacheHooks

	mu       sync.Mutex
	loads    int
	resolves int
	hits     int
	misses   int
	lastErr  error
}

func (h *recordingHooks) OnLoadComplete(ctx context.Context, source string, entries int, d time.Duration, err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.loads++
	h.lastErr = err
}

func (h *recordingHooks) OnResolve(ctx context.Context, tags []string, packages, warnings int, d time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.resolves++
}

func (h *recordingHooks) OnCacheHit(ctx context.Context, keyType string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.hits++
}

func (h *recordingHooks) OnCacheMiss(ctx context.Context, keyType string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.misses++
}

func TestRunnerHooks(t *testing.T) {
	hooks := &recordingHooks{}
	observability.SetPipelineHooks(hooks)
	observability.SetCacheHooks(hooks)
	t.Cleanup(observability.Reset)

	r := NewRunner(newMemCache(), nil, nil)
	ctx := context.Background()
	opts := Options{Text: sample, Tags: []string{"core"}}

	for range 2 {
		if _, err := r.Execute(ctx, opts); err != nil {
			t.Fatal(err)
		}
	}
	if hooks.loads != 2 || hooks.resolves != 1 || hooks.misses != 1 || hooks.hits != 1 {
		t.Errorf("loads=%d resolves=%d misses=%d hits=%d, want 2/1/1/1",
			hooks.loads, hooks.resolves, hooks.misses, hooks.hits)
	}

	if _, err := r.Execute(ctx, Options{Text: "broken\n"}); err == nil {
		t.Fatal("expected load error")
	}
	if hooks.lastErr == nil {
		t.Error("OnLoadComplete should receive the load error")
	}
}
