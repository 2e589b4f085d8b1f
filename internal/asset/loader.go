// Package asset loads scene model bundles off the UI goroutine. Loads are
// cancellable: once a task is cancelled none of its callbacks fire again,
// so a torn-down viewer never sees a late result.
package asset

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"sync/atomic"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/deadchur/ITC303-platARpus-v1/internal/log"
	"github.com/deadchur/ITC303-platARpus-v1/internal/scene"
)

const (
	// DefaultTTL bounds how long a decoded bundle stays cached. Model files
	// are small; the TTL exists so edits on disk show up without a restart.
	DefaultTTL = 5 * time.Minute

	readChunkSize = 32 * 1024
)

// Progress reports how far a load has come, 0.0 to 1.0.
type Progress struct {
	// Fraction is 1.0 when the bundle is decoded.
	Fraction float64
	// Cached is true when the bundle was served from the cache.
	Cached bool
}

// Callbacks receive the outcome of an async load. Exactly one of OnDone or
// OnError fires per load, after zero or more OnProgress calls, all on the
// loader's goroutine. Nil callbacks are skipped.
type Callbacks struct {
	OnProgress func(Progress)
	OnDone     func(*scene.Model)
	OnError    func(error)
}

// Loader decodes model bundles, caching decoded results by path.
type Loader struct {
	fsys  fs.FS // nil reads the OS filesystem
	cache *gocache.Cache
}

// Option configures a Loader.
type Option func(*Loader)

// WithFS reads bundles from fsys instead of the OS filesystem.
func WithFS(fsys fs.FS) Option {
	return func(l *Loader) { l.fsys = fsys }
}

// WithTTL overrides the decoded-bundle cache TTL.
func WithTTL(ttl time.Duration) Option {
	return func(l *Loader) { l.cache = gocache.New(ttl, ttl) }
}

// NewLoader returns a Loader with a default TTL cache.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{cache: gocache.New(DefaultTTL, 10*time.Minute)}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Task is a handle on an in-flight load.
type Task struct {
	cancel    context.CancelFunc
	done      chan struct{}
	cancelled atomic.Bool
}

// Cancel stops the load. Callbacks that have not fired yet never will.
// Safe to call more than once and after the load has finished.
func (t *Task) Cancel() {
	t.cancelled.Store(true)
	t.cancel()
}

// Done is closed when the load goroutine has exited, for tests and
// teardown that must not outlive the load.
func (t *Task) Done() <-chan struct{} {
	return t.done
}

// deliver runs fn unless the task has been cancelled.
func (t *Task) deliver(fn func()) {
	if t.cancelled.Load() {
		return
	}
	fn()
}

// Load decodes the model bundle at path on a background goroutine and
// reports through cb. The returned task cancels the load; ctx cancellation
// cancels it too but does not suppress callbacks.
func (l *Loader) Load(ctx context.Context, path, modelName string, cb Callbacks) *Task {
	ctx, cancel := context.WithCancel(ctx)
	task := &Task{cancel: cancel, done: make(chan struct{})}

	log.SafeGo("asset.load", func() {
		defer close(task.done)
		defer cancel()

		if cached, ok := l.cache.Get(path); ok {
			log.Debug(log.CatAsset, "bundle served from cache", "path", path)
			task.deliver(func() { progress(cb, Progress{Fraction: 1.0, Cached: true}) })
			task.deliver(func() { done(cb, cached.(*scene.Model)) })
			return
		}

		model, err := l.read(ctx, path, modelName, func(fraction float64) {
			task.deliver(func() { progress(cb, Progress{Fraction: fraction}) })
		})
		if err != nil {
			log.ErrorErr(log.CatAsset, "bundle load failed", err, "path", path)
			task.deliver(func() { fail(cb, err) })
			return
		}

		l.cache.SetDefault(path, model)
		task.deliver(func() { progress(cb, Progress{Fraction: 1.0}) })
		task.deliver(func() { done(cb, model) })
	})
	return task
}

// Invalidate drops the cached bundle for path, if any. The library watcher
// calls this when a model file changes on disk.
func (l *Loader) Invalidate(path string) {
	l.cache.Delete(path)
}

// read streams the bundle file, reporting read progress, then decodes it.
func (l *Loader) read(ctx context.Context, path, modelName string, onProgress func(float64)) (*scene.Model, error) {
	f, err := l.open(path)
	if err != nil {
		return nil, fmt.Errorf("opening model bundle: %w", err)
	}
	defer f.Close()

	var total int64
	if info, err := f.Stat(); err == nil {
		total = info.Size()
	}

	var buf []byte
	chunk := make([]byte, readChunkSize)
	var read int64
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		n, err := f.Read(chunk)
		if n > 0 {
			buf = append(buf, chunk[:n]...)
			read += int64(n)
			if total > 0 {
				onProgress(min(float64(read)/float64(total), 0.99))
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading model bundle: %w", err)
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	model, err := scene.ParseModel(modelName, bytes.NewReader(buf))
	if err != nil {
		return nil, fmt.Errorf("decoding model bundle: %w", err)
	}
	return model, nil
}

func (l *Loader) open(path string) (fs.File, error) {
	if l.fsys != nil {
		return l.fsys.Open(path)
	}
	return os.Open(path)
}

func progress(cb Callbacks, p Progress) {
	if cb.OnProgress != nil {
		cb.OnProgress(p)
	}
}

func done(cb Callbacks, m *scene.Model) {
	if cb.OnDone != nil {
		cb.OnDone(m)
	}
}

func fail(cb Callbacks, err error) {
	if cb.OnError != nil {
		cb.OnError(err)
	}
}
