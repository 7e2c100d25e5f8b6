package theme

import (
	"context"
	"sync"

	"github.com/hashicorp/go-hclog"

	"github.com/jmylchreest/covertint/internal/colour"
)

// Options configures an Engine.
type Options struct {
	// Mode returns the presentation mode at the moment a palette is derived.
	Mode func() colour.Mode

	// Enabled reports whether artwork theming is switched on.
	Enabled func() bool

	// Logger receives engine diagnostics. Nil discards them.
	Logger hclog.Logger
}

// Engine routes artwork requests through the cache, the extractor and the
// theme state. When requests overlap, the most recent one wins: each request
// takes a generation token and a completion whose token is no longer current
// is discarded.
type Engine struct {
	cache     *ColourCache
	extractor *Extractor
	state     *ThemeState
	mode      func() colour.Mode
	enabled   func() bool
	logger    hclog.Logger

	mu         sync.Mutex
	generation uint64
	current    string
	inflight   map[string]int
}

// NewEngine creates an Engine. Missing Mode and Enabled funcs default to dark
// mode and enabled.
func NewEngine(cache *ColourCache, extractor *Extractor, state *ThemeState, opts Options) *Engine {
	e := &Engine{
		cache:     cache,
		extractor: extractor,
		state:     state,
		mode:      opts.Mode,
		enabled:   opts.Enabled,
		logger:    opts.Logger,
		inflight:  make(map[string]int),
	}
	if e.mode == nil {
		e.mode = func() colour.Mode { return colour.ModeDark }
	}
	if e.enabled == nil {
		e.enabled = func() bool { return true }
	}
	if e.logger == nil {
		e.logger = hclog.NewNullLogger()
	}
	e.logger = e.logger.Named("theme")
	return e
}

// ApplyTheme themes the view for the artwork at url. The returned channel is
// closed once the request has been published or discarded as stale. A cache
// hit is published before ApplyTheme returns.
func (e *Engine) ApplyTheme(ctx context.Context, url string) <-chan struct{} {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.generation++
	e.current = url
	return e.resolveLocked(ctx, url)
}

// Reapply re-derives the palette for the current artwork, typically after a
// mode or enabled change. A cached outcome is routed immediately with the
// current mode; an extraction already in flight reads the mode when it
// completes. Only artwork never extracted (for example because theming was
// disabled when it was requested) is fetched.
func (e *Engine) Reapply(ctx context.Context) <-chan struct{} {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, busy := e.inflight[e.current]; busy && e.enabled() {
		return closed()
	}
	return e.resolveLocked(ctx, e.current)
}

// resolveLocked routes url from the cache or starts an extraction tagged
// with the current generation. Callers hold e.mu.
func (e *Engine) resolveLocked(ctx context.Context, url string) <-chan struct{} {
	if url == "" || !e.enabled() {
		e.state.Clear()
		return closed()
	}

	if entry, ok := e.cache.Get(url); ok {
		e.route(entry)
		return closed()
	}

	token := e.generation
	e.inflight[url]++
	e.logger.Debug("extracting artwork colour", "url", url, "generation", token)

	done := make(chan struct{})
	go func() {
		defer close(done)

		entry, err := e.extractor.Extract(ctx, url)
		if err != nil {
			e.logger.Error("colour extraction contract violated", "url", url, "error", err)
		}

		e.mu.Lock()
		defer e.mu.Unlock()
		if e.inflight[url]--; e.inflight[url] <= 0 {
			delete(e.inflight, url)
		}
		if token != e.generation {
			e.logger.Debug("discarding stale extraction", "url", url, "generation", token, "current", e.generation)
			return
		}
		e.route(entry)
	}()

	return done
}

// Current returns the url of the most recent request.
func (e *Engine) Current() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.current
}

// route publishes or clears for an outcome. Theming may have been disabled
// while an extraction was in flight, so enabled is read here. Callers hold
// e.mu.
func (e *Engine) route(entry Entry) {
	if !entry.Found || !e.enabled() {
		e.state.Clear()
		return
	}
	e.state.Apply(colour.Adjust(entry.Colour, e.mode()))
}

func closed() <-chan struct{} {
	done := make(chan struct{})
	close(done)
	return done
}
