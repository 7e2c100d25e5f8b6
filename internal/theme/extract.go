package theme

import (
	"context"
	"fmt"
	"image"

	"github.com/hashicorp/go-hclog"

	"github.com/jmylchreest/covertint/internal/colour"
	imageloader "github.com/jmylchreest/covertint/internal/image"
)

// Sampler proposes a single representative colour for a decoded image as a
// hex string. An empty string means the image yielded nothing.
type Sampler interface {
	SampleDominant(img image.Image) (string, error)
}

// Extractor loads artwork, samples its dominant colour and records the
// outcome in a ColourCache.
type Extractor struct {
	loader  imageloader.Loader
	sampler Sampler
	cache   *ColourCache
	logger  hclog.Logger
}

// NewExtractor creates an Extractor. A nil logger discards output.
func NewExtractor(loader imageloader.Loader, sampler Sampler, cache *ColourCache, logger hclog.Logger) *Extractor {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Extractor{
		loader:  loader,
		sampler: sampler,
		cache:   cache,
		logger:  logger.Named("extract"),
	}
}

// Extract loads url, samples it and caches the outcome keyed by url before
// returning. Load, decode and sampler failures are recorded as NoColour and
// are not errors. A sampler that returns a malformed hex string violates its
// contract: NoColour is cached and an error wrapping colour.ErrInvalidHex is
// returned.
func (x *Extractor) Extract(ctx context.Context, url string) (Entry, error) {
	entry, err := x.extract(ctx, url)
	x.cache.Set(url, entry)
	return entry, err
}

func (x *Extractor) extract(ctx context.Context, url string) (Entry, error) {
	img, err := x.loader.Load(ctx, url)
	if err != nil {
		x.logger.Debug("artwork load failed", "url", url, "error", err)
		return NoColour, nil
	}

	hex, err := x.sample(img)
	if err != nil {
		x.logger.Debug("sampler failed", "url", url, "error", err)
		return NoColour, nil
	}
	if hex == "" {
		x.logger.Debug("sampler found no colour", "url", url)
		return NoColour, nil
	}

	c, err := colour.ParseHex(hex)
	if err != nil {
		return NoColour, fmt.Errorf("sampler returned bad colour for %s: %w", url, err)
	}

	x.logger.Debug("extracted colour", "url", url, "colour", c.Hex())
	return ColourFound(c), nil
}

// sample calls the sampler, converting a panic into an error.
func (x *Extractor) sample(img image.Image) (hex string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("sampler panicked: %v", r)
		}
	}()
	return x.sampler.SampleDominant(img)
}
