package chatlog

import (
	"errors"
	"runtime"
	"sync"
	"testing"
	"time"
)

// ---------------------------------------------------------------------------
// TestResolvePoolSize - Sizing
// ---------------------------------------------------------------------------

func TestResolvePoolSize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		workers int
		want    int
	}{
		{name: "explicit takes priority", workers: 4, want: 4},
		{name: "explicit=1 for sequential", workers: 1, want: 1},
		{name: "zero uses auto calculation", workers: 0, want: min(max(runtime.GOMAXPROCS(0)/cpuDivisor, MinPoolSize), MaxPoolSize)},
		{name: "negative uses auto calculation", workers: -3, want: min(max(runtime.GOMAXPROCS(0)/cpuDivisor, MinPoolSize), MaxPoolSize)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := ResolvePoolSize(tt.workers); got != tt.want {
				t.Errorf("ResolvePoolSize(%d) = %d, want %d", tt.workers, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestConverterPool - Lifecycle
// ---------------------------------------------------------------------------

func TestNewConverterPool_MinimumSize(t *testing.T) {
	t.Parallel()

	pool := NewConverterPool(0)
	defer pool.Close()

	if pool.Size() != MinPoolSize {
		t.Errorf("Size() = %d, want %d", pool.Size(), MinPoolSize)
	}
}

func TestConverterPool_AcquireRelease(t *testing.T) {
	t.Parallel()

	pool := NewConverterPool(2, withPDFConverter(&mockPDFConverter{}))
	defer pool.Close()

	a, err := pool.Acquire()
	if err != nil {
		t.Fatalf("Acquire() unexpected error: %v", err)
	}
	b, err := pool.Acquire()
	if err != nil {
		t.Fatalf("Acquire() unexpected error: %v", err)
	}
	if a == b {
		t.Fatal("two acquires should return distinct converters")
	}

	got := make(chan *Converter)
	go func() {
		c, _ := pool.Acquire()
		got <- c
	}()

	select {
	case <-got:
		t.Fatal("third Acquire() should block while the pool is exhausted")
	case <-time.After(50 * time.Millisecond):
	}

	pool.Release(a)
	select {
	case c := <-got:
		if c != a {
			t.Error("blocked Acquire() should receive the released converter")
		}
	case <-time.After(time.Second):
		t.Fatal("Acquire() did not unblock after Release()")
	}
}

func TestConverterPool_CreationError(t *testing.T) {
	t.Parallel()

	pool := NewConverterPool(1, WithStyle("missing"))
	defer pool.Close()

	for range 2 {
		if _, err := pool.Acquire(); !errors.Is(err, ErrStyleNotFound) {
			t.Fatalf("Acquire() error = %v, want ErrStyleNotFound", err)
		}
	}
}

func TestConverterPool_Close(t *testing.T) {
	t.Parallel()

	mock := &mockPDFConverter{}
	pool := NewConverterPool(1, withPDFConverter(mock))

	conv, err := pool.Acquire()
	if err != nil {
		t.Fatalf("Acquire() unexpected error: %v", err)
	}
	pool.Release(conv)

	if err := pool.Close(); err != nil {
		t.Fatalf("Close() unexpected error: %v", err)
	}
	if !mock.closed {
		t.Error("Close() should close created converters")
	}
	if err := pool.Close(); err != nil {
		t.Errorf("second Close() = %v, want nil", err)
	}
	if _, err := pool.Acquire(); !errors.Is(err, ErrPoolClosed) {
		t.Errorf("Acquire() after Close() = %v, want ErrPoolClosed", err)
	}
	pool.Release(conv) // must not panic
}

func TestConverterPool_Concurrent(t *testing.T) {
	t.Parallel()

	pool := NewConverterPool(3, withPDFConverter(&mockPDFConverter{}))
	defer pool.Close()

	var wg sync.WaitGroup
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			conv, err := pool.Acquire()
			if err != nil {
				t.Errorf("Acquire() unexpected error: %v", err)
				return
			}
			defer pool.Release(conv)
		}()
	}
	wg.Wait()
}
