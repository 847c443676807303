package flight

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestGetCachesResult(t *testing.T) {
	var calls atomic.Int32
	c := NewCache(func(k string) (string, error) {
		calls.Add(1)
		return "v:" + k, nil
	})

	for i := 0; i < 3; i++ {
		v, err := c.Get("a")
		if err != nil || v != "v:a" {
			t.Fatalf("Get = %q, %v", v, err)
		}
	}
	if calls.Load() != 1 {
		t.Fatalf("work ran %d times, want 1", calls.Load())
	}
}

func TestGetCoalescesConcurrent(t *testing.T) {
	var calls atomic.Int32
	gate := make(chan struct{})
	c := NewCache(func(k string) (int, error) {
		calls.Add(1)
		<-gate
		return 42, nil
	})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if v, err := c.Get("k"); v != 42 || err != nil {
				t.Errorf("Get = %d, %v", v, err)
			}
		}()
	}
	time.Sleep(20 * time.Millisecond)
	close(gate)
	wg.Wait()

	if calls.Load() != 1 {
		t.Fatalf("work ran %d times, want 1", calls.Load())
	}
}

func TestErrorsAreNotCached(t *testing.T) {
	var calls atomic.Int32
	c := NewCache(func(k string) (string, error) {
		if calls.Add(1) == 1 {
			return "", errors.New("boom")
		}
		return "ok", nil
	})

	if _, err := c.Get("k"); err == nil {
		t.Fatal("expected first call to fail")
	}
	v, err := c.Get("k")
	if err != nil || v != "ok" {
		t.Fatalf("second Get = %q, %v", v, err)
	}
}

func TestForceRecomputes(t *testing.T) {
	var calls atomic.Int32
	c := NewCache(func(k string) (int32, error) {
		return calls.Add(1), nil
	})

	if v, _ := c.Get("k"); v != 1 {
		t.Fatalf("Get = %d", v)
	}
	if v, _ := c.Force("k"); v != 2 {
		t.Fatalf("Force = %d", v)
	}
	if v, _ := c.Get("k"); v != 2 {
		t.Fatalf("Get after Force = %d", v)
	}
}

func TestExpiry(t *testing.T) {
	var calls atomic.Int32
	c := NewCache(func(k string) (int32, error) {
		return calls.Add(1), nil
	})
	c.Expiry(10 * time.Millisecond)

	c.Get("k")
	time.Sleep(20 * time.Millisecond)
	if v, _ := c.Get("k"); v != 2 {
		t.Fatalf("expected recompute after expiry, got %d", v)
	}
}
