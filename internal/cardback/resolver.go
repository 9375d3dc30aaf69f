package cardback

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/punktprzejscia/przejscie/internal/ai"
	"github.com/punktprzejscia/przejscie/internal/deck"
)

// CacheKey holds the resolved or user-uploaded card back. It is the only
// persisted key the core flow uses.
const CacheKey = "card_back_v1"

// GenerationPrompt extends the base card-back pattern for the generated
// variant.
const GenerationPrompt = deck.CardBackPrompt + ", golden accents, mystical atmosphere"

const (
	aspectRatio    = "3:4"
	maxUploadBytes = 2 << 20
)

// Upload validation errors, surfaced to the user verbatim.
var (
	ErrNotAnImage = errors.New("Proszę wybrać plik obrazka (JPG, PNG).")
	ErrTooLarge   = errors.New("Plik jest za duży. Maksymalny rozmiar to 2MB.")
)

// Cache is the key-value store backing the card-back override.
type Cache interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
	Remove(key string) error
}

// KeyProbe is an optional host capability consulted before attempting
// generation. Production wiring passes nil.
type KeyProbe interface {
	HasSelectedAPIKey() (bool, error)
}

// Resolver owns the card-back image reference: a cached or uploaded override,
// a freshly generated image, or the built-in default. Resolution failures are
// never fatal; the experience degrades to the default image.
type Resolver struct {
	cache      Cache
	gen        ai.ImageGenerator // nil when no API key is configured
	probe      KeyProbe
	defaultRef string

	mu      sync.RWMutex
	current string
}

func NewResolver(cache Cache, gen ai.ImageGenerator, probe KeyProbe) *Resolver {
	def := deck.DefaultCardBackURL()
	return &Resolver{
		cache:      cache,
		gen:        gen,
		probe:      probe,
		defaultRef: def,
		current:    def,
	}
}

// Init resolves the card back once at startup and returns the active
// reference. A cache hit short-circuits generation entirely.
func (r *Resolver) Init(ctx context.Context) string {
	v, ok, err := r.cache.Get(CacheKey)
	if err != nil {
		log.Warn().Err(err).Msg("card back cache read failed, using default")
	} else if ok {
		r.setCurrent(v)
		return v
	}

	if r.probe != nil {
		hasKey, err := r.probe.HasSelectedAPIKey()
		if err == nil && !hasKey {
			return r.defaultRef
		}
	}
	if r.gen == nil {
		log.Warn().Msg("no API key configured, using default card back")
		return r.defaultRef
	}

	data, mime, err := r.gen.GenerateImage(ctx, GenerationPrompt, aspectRatio)
	if err != nil {
		log.Warn().Err(err).Msg("card back generation failed, using default")
		return r.defaultRef
	}
	ref := dataURL(mime, data)
	if err := r.cache.Set(CacheKey, ref); err != nil {
		log.Warn().Err(err).Msg("failed to cache generated card back")
	}
	r.setCurrent(ref)
	return ref
}

func (r *Resolver) Current() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.current
}

func (r *Resolver) IsDefault() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.current == r.defaultRef
}

// Upload replaces the card back with a user-provided image. The file must
// declare an image content type and fit in 2MB; a rejected upload leaves the
// current card back unchanged.
func (r *Resolver) Upload(contentType string, data []byte) error {
	if !strings.HasPrefix(contentType, "image/") {
		return ErrNotAnImage
	}
	if len(data) > maxUploadBytes {
		return ErrTooLarge
	}
	ref := dataURL(contentType, data)
	if err := r.cache.Set(CacheKey, ref); err != nil {
		return fmt.Errorf("failed to persist card back: %w", err)
	}
	r.setCurrent(ref)
	return nil
}

// Reset removes the override and restores the default image.
func (r *Resolver) Reset() error {
	if err := r.cache.Remove(CacheKey); err != nil {
		return fmt.Errorf("failed to remove card back override: %w", err)
	}
	r.setCurrent(r.defaultRef)
	return nil
}

func (r *Resolver) setCurrent(ref string) {
	r.mu.Lock()
	r.current = ref
	r.mu.Unlock()
}

func dataURL(mime string, data []byte) string {
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}
