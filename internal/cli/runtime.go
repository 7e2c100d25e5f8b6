package cli

import (
	"context"
	"sync"

	"github.com/hashicorp/go-hclog"

	"github.com/jmylchreest/covertint/internal/colour"
	"github.com/jmylchreest/covertint/internal/config"
	"github.com/jmylchreest/covertint/internal/image"
	"github.com/jmylchreest/covertint/internal/style"
	"github.com/jmylchreest/covertint/internal/theme"
)

var _ theme.StylePublisher = (*style.Sheet)(nil)

// session owns the rendering root: one style sheet, one colour cache and
// the engine that writes to them. Mode and enabled are re-read from the
// current settings whenever a palette is routed.
type session struct {
	sheet  *style.Sheet
	cache  *theme.ColourCache
	engine *theme.Engine
	logger hclog.Logger

	mu  sync.RWMutex
	cfg *config.Config
}

func newSession(cfg *config.Config, logger hclog.Logger, sampler theme.Sampler, loader image.Loader) *session {
	s := &session{
		sheet:  style.NewSheet(),
		cache:  theme.NewColourCache(),
		logger: logger,
		cfg:    cfg,
	}
	if sampler == nil {
		sampler = colour.NewDominantSampler()
	}
	if loader == nil {
		loader = image.NewSmartLoader(cfg.FetchTimeout)
	}

	extractor := theme.NewExtractor(loader, sampler, s.cache, logger)
	s.engine = theme.NewEngine(s.cache, extractor, theme.NewThemeState(s.sheet), theme.Options{
		Mode:    s.mode,
		Enabled: s.enabled,
		Logger:  logger,
	})
	return s
}

func (s *session) mode() colour.Mode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg.ModeValue()
}

func (s *session) enabled() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg.Enabled
}

// config returns the current settings.
func (s *session) config() *config.Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

// update swaps in new settings and re-derives the current theme. The
// returned channel is closed once the theme reflects the new settings.
func (s *session) update(ctx context.Context, cfg *config.Config) <-chan struct{} {
	s.mu.Lock()
	changed := cfg.Mode != s.cfg.Mode || cfg.Enabled != s.cfg.Enabled
	s.cfg = cfg
	s.mu.Unlock()

	if !changed {
		done := make(chan struct{})
		close(done)
		return done
	}

	s.logger.Info("settings changed", "mode", cfg.Mode, "enabled", cfg.Enabled)
	return s.engine.Reapply(ctx)
}

// apply requests a theme for artwork and records it as the sheet's source.
func (s *session) apply(ctx context.Context, artwork string) <-chan struct{} {
	s.sheet.SetSource(artwork)
	return s.engine.ApplyTheme(ctx, artwork)
}
