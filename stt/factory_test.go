package stt

import (
	"errors"
	"testing"
)

func newTestFactory(defaultName string) *Factory {
	return NewFactory(FactoryConfig{Default: defaultName})
}

func TestFactoryCachesInstances(t *testing.T) {
	f := newTestFactory("fake")
	fake := NewFakeProvider("fake", "text")
	f.Register("fake", func(FactoryConfig) (Provider, error) { return fake, nil })

	a := f.Get("fake")
	b := f.Get("fake")
	if a != b {
		t.Error("expected the same cached instance")
	}
}

func TestFactoryFailedBuildYieldsNull(t *testing.T) {
	f := newTestFactory("broken")
	builds := 0
	f.Register("broken", func(FactoryConfig) (Provider, error) {
		builds++
		return nil, errors.New("no key")
	})

	p := f.Get("broken")
	if _, ok := p.(NullProvider); !ok {
		t.Fatalf("expected NullProvider, got %T", p)
	}

	// Failure is cached, not retried.
	f.Get("broken")
	if builds != 1 {
		t.Errorf("builder ran %d times, want 1", builds)
	}
}

func TestFactoryUnknownNameYieldsNull(t *testing.T) {
	f := newTestFactory("")
	p := f.Get("nope")
	if _, ok := p.(NullProvider); !ok {
		t.Errorf("expected NullProvider, got %T", p)
	}
}

func TestFactoryEmptyNameUsesDefault(t *testing.T) {
	f := newTestFactory("fake")
	fake := NewFakeProvider("fake", "text")
	f.Register("fake", func(FactoryConfig) (Provider, error) { return fake, nil })

	if got := f.Get(""); got.Name() != "fake" {
		t.Errorf("got %q, want default provider", got.Name())
	}
}

func TestGetWithFallbackPrefersDefault(t *testing.T) {
	f := newTestFactory("second")
	first := NewFakeProvider("first", "a")
	second := NewFakeProvider("second", "b")
	f.Register("first", func(FactoryConfig) (Provider, error) { return first, nil })
	f.Register("second", func(FactoryConfig) (Provider, error) { return second, nil })

	if got := f.GetWithFallback(); got.Name() != "second" {
		t.Errorf("got %q, want configured default first", got.Name())
	}
}

func TestGetWithFallbackSkipsUnavailable(t *testing.T) {
	f := newTestFactory("first")
	first := NewFakeProvider("first", "a")
	first.Available = false
	second := NewFakeProvider("second", "b")
	f.Register("first", func(FactoryConfig) (Provider, error) { return first, nil })
	f.Register("second", func(FactoryConfig) (Provider, error) { return second, nil })

	if got := f.GetWithFallback(); got.Name() != "second" {
		t.Errorf("got %q, want next available provider", got.Name())
	}
}

func TestGetWithFallbackAllDownYieldsNull(t *testing.T) {
	f := newTestFactory("first")
	first := NewFakeProvider("first", "a")
	first.Available = false
	f.Register("first", func(FactoryConfig) (Provider, error) { return first, nil })

	p := f.GetWithFallback()
	if p.IsAvailable() {
		t.Error("expected an unavailable terminal provider")
	}
	if _, ok := p.(NullProvider); !ok {
		t.Errorf("expected NullProvider, got %T", p)
	}
}

func TestFactoryReset(t *testing.T) {
	f := newTestFactory("fake")
	builds := 0
	f.Register("fake", func(FactoryConfig) (Provider, error) {
		builds++
		return NewFakeProvider("fake", "text"), nil
	})

	f.Get("fake")
	f.Reset()
	f.Get("fake")
	if builds != 2 {
		t.Errorf("builder ran %d times after reset, want 2", builds)
	}
}

func TestAvailableListsOnlyLiveProviders(t *testing.T) {
	f := newTestFactory("first")
	first := NewFakeProvider("first", "a")
	second := NewFakeProvider("second", "b")
	second.Available = false
	f.Register("first", func(FactoryConfig) (Provider, error) { return first, nil })
	f.Register("second", func(FactoryConfig) (Provider, error) { return second, nil })

	got := f.Available()
	if len(got) != 1 || got[0] != "first" {
		t.Errorf("Available() = %v, want [first]", got)
	}
}

func TestDefaultRegistrationsRequireKeys(t *testing.T) {
	f := NewFactory(FactoryConfig{Default: "elevenlabs"})

	for _, name := range []string{"elevenlabs", "gladia"} {
		p := f.Get(name)
		if _, ok := p.(NullProvider); !ok {
			t.Errorf("%s without API key: expected NullProvider, got %T", name, p)
		}
	}
}
