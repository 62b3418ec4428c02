package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestStore_GetOrLoad_UsesSingleFlight(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	var calls atomic.Int32

	loader := func(context.Context) (any, error) {
		calls.Add(1)
		time.Sleep(20 * time.Millisecond)
		return "profile:7", nil
	}

	const workers = 32
	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(workers)
	errCh := make(chan error, workers)

	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			<-start
			v, err := store.GetOrLoad(context.Background(), "player:profile:7", loader)
			if err != nil {
				errCh <- err
				return
			}
			if got, _ := v.(string); got != "profile:7" {
				errCh <- errUnexpectedValue
			}
		}()
	}

	close(start)
	wg.Wait()
	close(errCh)
	for err := range errCh {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if got := calls.Load(); got != 1 {
		t.Fatalf("loader called %d times, want 1", got)
	}
}

func TestStore_GetOrLoad_DoesNotCacheErrors(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	var calls atomic.Int32
	loader := func(context.Context) (any, error) {
		if calls.Add(1) == 1 {
			return nil, errors.New("connection refused")
		}
		return "ok", nil
	}

	if _, err := store.GetOrLoad(context.Background(), "k", loader); err == nil {
		t.Fatalf("expected first load to fail")
	}
	v, err := store.GetOrLoad(context.Background(), "k", loader)
	if err != nil || v != "ok" {
		t.Fatalf("expected second load to succeed, got %v %v", v, err)
	}
	if got := calls.Load(); got != 2 {
		t.Fatalf("loader called %d times, want 2", got)
	}
}

func TestStore_ExpiresEntries(t *testing.T) {
	store := NewStore(time.Second)
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	store.Set(context.Background(), "player:id:1", 1)
	if _, ok := store.Get(context.Background(), "player:id:1"); !ok {
		t.Fatalf("expected fresh entry")
	}

	now = now.Add(2 * time.Second)
	if _, ok := store.Get(context.Background(), "player:id:1"); ok {
		t.Fatalf("expected expired entry to be evicted")
	}

	stats := store.Stats()
	if stats.Entries != 0 || stats.Hits != 1 || stats.Misses != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

func TestStore_DeleteAndDeletePrefix(t *testing.T) {
	store := NewStore(0)
	ctx := context.Background()

	store.Set(ctx, "player:id:1", 1)
	store.Set(ctx, "player:profile:1", 1)
	store.Set(ctx, "player:id:2", 2)

	store.Delete(ctx, "player:id:1", "missing")
	if _, ok := store.Get(ctx, "player:id:1"); ok {
		t.Fatalf("expected deleted key to be gone")
	}

	store.DeletePrefix(ctx, "player:")
	if n := store.Stats().Entries; n != 0 {
		t.Fatalf("expected empty store, got %d entries", n)
	}
}

var errUnexpectedValue = errors.New("unexpected loaded value")
