package lessondoc

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"testing"
	"time"
)

// Compile-time interface check.
var _ interface {
	Acquire(context.Context) (*Converter, error)
	Release(*Converter)
	Size() int
	Close() error
} = (*ConverterPool)(nil)

// newTestPool builds a pool whose converters use mock capturers.
func newTestPool(n int) (*ConverterPool, *[]*mockCapturer) {
	var mu sync.Mutex
	capturers := &[]*mockCapturer{}
	pool := NewConverterPool(n)
	pool.newConv = func(opts ...Option) (*Converter, error) {
		capt := &mockCapturer{}
		mu.Lock()
		*capturers = append(*capturers, capt)
		mu.Unlock()
		return NewConverter(append(opts, withCapturer(capt))...)
	}
	return pool, capturers
}

func TestResolvePoolSize(t *testing.T) {
	t.Parallel()

	gomaxprocs := runtime.GOMAXPROCS(0)

	tests := []struct {
		name    string
		workers int
		want    int
	}{
		{name: "explicit takes priority", workers: 4, want: 4},
		{name: "explicit=1 for sequential", workers: 1, want: 1},
		{name: "explicit is capped", workers: 64, want: MaxPoolSize},
		{
			name:    "zero uses auto calculation",
			workers: 0,
			want:    min(max(gomaxprocs/cpuDivisor, MinPoolSize), MaxPoolSize),
		},
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

func TestNewConverterPool_MinimumSize(t *testing.T) {
	t.Parallel()

	pool := NewConverterPool(0)
	defer pool.Close()

	if pool.Size() != MinPoolSize {
		t.Errorf("Size() = %d, want %d", pool.Size(), MinPoolSize)
	}
}

func TestConverterPool_LazyCreationAndReuse(t *testing.T) {
	t.Parallel()

	pool, capturers := newTestPool(2)
	defer pool.Close()

	if len(*capturers) != 0 {
		t.Fatalf("pool created %d converters before any Acquire", len(*capturers))
	}

	ctx := context.Background()
	a, err := pool.Acquire(ctx)
	if err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}
	pool.Release(a)

	b, err := pool.Acquire(ctx)
	if err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}
	if a != b {
		t.Error("released converter was not reused")
	}
	if len(*capturers) != 1 {
		t.Errorf("created %d converters, want 1", len(*capturers))
	}
	pool.Release(b)
}

func TestConverterPool_AcquireBlocksUntilRelease(t *testing.T) {
	t.Parallel()

	pool, _ := newTestPool(1)
	defer pool.Close()

	first, err := pool.Acquire(context.Background())
	if err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := pool.Acquire(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Acquire() on exhausted pool = %v, want DeadlineExceeded", err)
	}

	got := make(chan *Converter, 1)
	go func() {
		conv, err := pool.Acquire(context.Background())
		if err == nil {
			got <- conv
		}
	}()
	pool.Release(first)

	select {
	case conv := <-got:
		if conv != first {
			t.Error("waiter received a different converter")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Acquire() did not unblock after Release")
	}
}

func TestConverterPool_ConcurrentConvert(t *testing.T) {
	t.Parallel()

	pool, capturers := newTestPool(3)
	defer pool.Close()

	var wg sync.WaitGroup
	errs := make(chan error, 12)
	for i := 0; i < 12; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			conv, err := pool.Acquire(context.Background())
			if err != nil {
				errs <- err
				return
			}
			defer pool.Release(conv)
			_, err = conv.Convert(context.Background(), Input{Markdown: lessonMarkdown, Formats: AllFormats})
			if err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("worker error: %v", err)
	}
	if n := len(*capturers); n > 3 {
		t.Errorf("created %d converters, want at most 3", n)
	}
}

func TestConverterPool_Close(t *testing.T) {
	t.Parallel()

	pool, capturers := newTestPool(2)
	conv, err := pool.Acquire(context.Background())
	if err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}
	pool.Release(conv)

	if err := pool.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := pool.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
	for i, c := range *capturers {
		if !c.closed {
			t.Errorf("converter %d not closed", i)
		}
	}

	if _, err := pool.Acquire(context.Background()); !errors.Is(err, ErrPoolClosed) {
		t.Errorf("Acquire() after Close = %v, want ErrPoolClosed", err)
	}
	// Release after Close must not panic on the closed channel.
	pool.Release(conv)
}

func TestConverterPool_CloseDropsReleasedConverters(t *testing.T) {
	t.Parallel()

	pool, capturers := newTestPool(1)
	conv, err := pool.Acquire(context.Background())
	if err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}
	pool.Release(conv)
	if err := pool.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	for range 3 {
		got, err := pool.Acquire(context.Background())
		if !errors.Is(err, ErrPoolClosed) {
			t.Fatalf("Acquire() after Close error = %v, want ErrPoolClosed", err)
		}
		if got != nil {
			t.Fatalf("Acquire() after Close returned closed converter %p", got)
		}
	}
	if n := len(*capturers); n != 1 {
		t.Errorf("converters created = %d, want 1", n)
	}
}

func TestConverterPool_CloseWakesWaiter(t *testing.T) {
	t.Parallel()

	pool, _ := newTestPool(1)
	if _, err := pool.Acquire(context.Background()); err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}

	done := make(chan error, 1)
	go func() {
		conv, err := pool.Acquire(context.Background())
		if conv != nil {
			err = errors.New("waiter received a converter after Close")
		}
		done <- err
	}()

	time.Sleep(20 * time.Millisecond)
	if err := pool.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	select {
	case err := <-done:
		if !errors.Is(err, ErrPoolClosed) {
			t.Errorf("waiting Acquire() error = %v, want ErrPoolClosed", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("waiting Acquire() did not return after Close")
	}
}

func TestConverterPool_CreationError(t *testing.T) {
	t.Parallel()

	pool := NewConverterPool(1, WithAssetPath("/definitely/not/here"))
	defer pool.Close()

	if _, err := pool.Acquire(context.Background()); !errors.Is(err, ErrInvalidAssetPath) {
		t.Fatalf("Acquire() error = %v, want ErrInvalidAssetPath", err)
	}
	// The failed slot is returned to the pool.
	pool.newConv = func(opts ...Option) (*Converter, error) {
		return NewConverter(withCapturer(&mockCapturer{}))
	}
	if _, err := pool.Acquire(context.Background()); err != nil {
		t.Errorf("Acquire() after failed creation = %v", err)
	}
}
