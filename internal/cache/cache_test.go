package cache_test

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/carbonwatch/carbonwatch/internal/cache"
	api "github.com/carbonwatch/carbonwatch/lib-carbonwatch"
	"github.com/google/go-cmp/cmp"
)

func TestCache_empty(t *testing.T) {
	t.Parallel()

	c := cache.New()

	if _, ok := c.Get(); ok {
		t.Errorf("new cache should be empty")
	}

	if _, err := c.Intensity(); !errors.Is(err, api.ErrServiceUnavailable) {
		t.Errorf("expected ErrServiceUnavailable but got %v", err)
	}
}

func TestCache_Set(t *testing.T) {
	t.Parallel()

	c := cache.New()
	at := time.Date(2021, 1, 2, 15, 4, 5, 0, time.UTC)

	c.Set(cache.Snapshot{Intensity: 42, Alert: true, UpdatedAt: at})

	s, ok := c.Get()
	if !ok {
		t.Fatalf("cache is empty after Set")
	}
	if diff := cmp.Diff(cache.Snapshot{Intensity: 42, Alert: true, UpdatedAt: at}, s); diff != "" {
		t.Errorf("unexpected snapshot\n%s", diff)
	}

	if v, err := c.Intensity(); err != nil {
		t.Errorf("unexpected error: %s", err)
	} else if v != 42 {
		t.Errorf("unexpected intensity: %v", v)
	}

	want := api.Reading{CarbonIntensity: 42, AlertActive: true, UpdatedAt: at}
	if diff := cmp.Diff(want, s.Reading()); diff != "" {
		t.Errorf("unexpected reading\n%s", diff)
	}
}

func TestCache_concurrent(t *testing.T) {
	t.Parallel()

	c := cache.New()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			// Alert is always derived from the value, so readers must never see a mismatched pair.
			c.Set(cache.Snapshot{Intensity: float64(i), Alert: i%2 == 0})
		}(i)
		go func() {
			defer wg.Done()
			if s, ok := c.Get(); ok && (int(s.Intensity)%2 == 0) != s.Alert {
				t.Errorf("inconsistent snapshot: %#v", s)
			}
		}()
	}
	wg.Wait()
}
