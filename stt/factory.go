package stt

import (
	"fmt"
	"sync"

	"dicton/log"
)

// FactoryConfig holds the settings every registered builder may draw
// from. Default names the provider tried first by GetWithFallback.
type FactoryConfig struct {
	Default    string
	ElevenLabs ProviderConfig
	Gladia     ProviderConfig
}

// Builder constructs a provider from factory settings. Returning an
// error marks the provider permanently unavailable for this factory.
type Builder func(cfg FactoryConfig) (Provider, error)

// Factory caches one provider instance per name. Construction failures
// are cached as NullProvider so a broken backend is probed once, not
// on every utterance.
type Factory struct {
	cfg FactoryConfig

	mu       sync.Mutex
	builders map[string]Builder
	order    []string
	cache    map[string]Provider
}

func NewFactory(cfg FactoryConfig) *Factory {
	f := &Factory{
		cfg:      cfg,
		builders: make(map[string]Builder),
		cache:    make(map[string]Provider),
	}
	f.Register("elevenlabs", func(cfg FactoryConfig) (Provider, error) {
		if cfg.ElevenLabs.APIKey == "" {
			return nil, fmt.Errorf("ELEVENLABS_API_KEY not set")
		}
		return NewElevenLabs(cfg.ElevenLabs), nil
	})
	f.Register("gladia", func(cfg FactoryConfig) (Provider, error) {
		if cfg.Gladia.APIKey == "" {
			return nil, fmt.Errorf("GLADIA_API_KEY not set")
		}
		return NewGladia(cfg.Gladia), nil
	})
	return f
}

// Register adds or replaces a named builder and invalidates any cached
// instance for that name. Tests use this to inject fakes.
func (f *Factory) Register(name string, build Builder) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, exists := f.builders[name]; !exists {
		f.order = append(f.order, name)
	}
	f.builders[name] = build
	delete(f.cache, name)
}

// Known returns the registered provider names in registration order.
func (f *Factory) Known() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.order))
	copy(out, f.order)
	return out
}

// Reset drops all cached instances so the next Get reconstructs them.
func (f *Factory) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cache = make(map[string]Provider)
}

// Get returns the provider for name, constructing and caching it on
// first use. An empty name means the configured default. Get never
// fails: unknown names and failed constructions yield NullProvider.
func (f *Factory) Get(name string) Provider {
	if name == "" {
		name = f.cfg.Default
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	return f.getLocked(name)
}

func (f *Factory) getLocked(name string) Provider {
	if p, ok := f.cache[name]; ok {
		return p
	}

	build, ok := f.builders[name]
	if !ok {
		log.Warnf("unknown STT provider %q, using null provider", name)
		f.cache[name] = NullProvider{}
		return f.cache[name]
	}

	p, err := build(f.cfg)
	if err != nil {
		log.Warnf("STT provider %q unavailable: %v", name, err)
		f.cache[name] = NullProvider{}
		return f.cache[name]
	}
	f.cache[name] = p
	return p
}

// fallbackOrder puts the default provider first, then the remaining
// registered providers in registration order.
func (f *Factory) fallbackOrder() []string {
	order := make([]string, 0, len(f.order))
	if f.cfg.Default != "" {
		order = append(order, f.cfg.Default)
	}
	for _, name := range f.order {
		if name != f.cfg.Default {
			order = append(order, name)
		}
	}
	return order
}

// GetWithFallback walks the fallback order and returns the first
// provider that reports itself available. When none does, the null
// provider is returned so callers still get a working object.
func (f *Factory) GetWithFallback() Provider {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, name := range f.fallbackOrder() {
		p := f.getLocked(name)
		if p.IsAvailable() {
			return p
		}
	}
	log.Warn("no STT provider available, using null provider")
	return NullProvider{}
}

// Available reports the names of providers that would currently answer.
func (f *Factory) Available() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []string
	for _, name := range f.fallbackOrder() {
		if f.getLocked(name).IsAvailable() {
			out = append(out, name)
		}
	}
	return out
}
