package manifest

import (
	"bytes"
	"context"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/hiroksarker/jina/pkg/cache"
)

// Source supplies manifest text to a Holder.
type Source interface {
	// Name identifies the source in logs (e.g. a file path).
	Name() string
	// Read returns the current manifest text.
	Read(ctx context.Context) ([]byte, error)
}

// FileSource reads the manifest from a file on every call.
type FileSource struct{ Path string }

func (s FileSource) Name() string { return s.Path }

func (s FileSource) Read(ctx context.Context) ([]byte, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, openError(s.Path, err)
	}
	return data, nil
}

// TextSource serves fixed manifest text.
type TextSource struct {
	Label string
	Text  string
}

func (s TextSource) Name() string { return s.Label }

func (s TextSource) Read(ctx context.Context) ([]byte, error) { return []byte(s.Text), nil }

// Snapshot is one fully built index together with where it came from.
type Snapshot struct {
	Index    *Index
	ID       string    // generation identifier, new for every successful build
	Digest   string    // SHA-256 of the source text
	Source   string    // Source.Name at load time
	LoadedAt time.Time
}

// Holder keeps the current Snapshot and swaps it atomically on reload.
// Readers always see either the old or the new snapshot in full.
type Holder struct {
	src Source
	cur atomic.Pointer[Snapshot]
	mu  sync.Mutex // serializes reloads
}

// NewHolder performs the initial load from src. It fails if the manifest
// cannot be read or built.
func NewHolder(ctx context.Context, src Source) (*Holder, error) {
	h := &Holder{src: src}
	if _, _, err := h.Reload(ctx); err != nil {
		return nil, err
	}
	return h, nil
}

// Current returns the snapshot in effect.
func (h *Holder) Current() *Snapshot {
	return h.cur.Load()
}

// Index is shorthand for Current().Index.
func (h *Holder) Index() *Index {
	return h.cur.Load().Index
}

// Reload re-reads the source and installs a new snapshot if the text
// changed. On any error the previous snapshot stays in place. changed is
// false when the text was byte-identical to the current snapshot's.
func (h *Holder) Reload(ctx context.Context) (snap *Snapshot, changed bool, err error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	data, err := h.src.Read(ctx)
	if err != nil {
		return h.cur.Load(), false, err
	}

	digest := cache.Hash(data)
	if cur := h.cur.Load(); cur != nil && cur.Digest == digest {
		return cur, false, nil
	}

	snap, err = NewSnapshot(h.src.Name(), data)
	if err != nil {
		return h.cur.Load(), false, err
	}
	h.cur.Store(snap)
	return snap, true, nil
}

// NewSnapshot builds an index from manifest text and stamps it with a fresh
// generation ID and the text's digest.
func NewSnapshot(source string, data []byte) (*Snapshot, error) {
	idx, err := Parse(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return &Snapshot{
		Index:    idx,
		ID:       uuid.NewString(),
		Digest:   cache.Hash(data),
		Source:   source,
		LoadedAt: time.Now(),
	}, nil
}
