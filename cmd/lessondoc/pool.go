package main

import (
	"context"
	"fmt"

	"github.com/alnah/go-lessondoc"
)

// CLIConverter is the conversion surface the CLI needs.
type CLIConverter interface {
	Convert(ctx context.Context, input lessondoc.Input) (*lessondoc.Result, error)
}

// Compile-time interface implementation check.
var _ CLIConverter = (*lessondoc.Converter)(nil)

// Pool abstracts converter pool operations for testability.
type Pool interface {
	Acquire(ctx context.Context) (CLIConverter, error)
	Release(CLIConverter)
	Size() int
	Close() error
}

// poolAdapter exposes a *lessondoc.ConverterPool through the Pool interface.
type poolAdapter struct {
	pool *lessondoc.ConverterPool
}

// newPoolAdapter creates a lazily populated pool of size converters.
func newPoolAdapter(size int, opts ...lessondoc.Option) Pool {
	return &poolAdapter{pool: lessondoc.NewConverterPool(size, opts...)}
}

func (a *poolAdapter) Acquire(ctx context.Context) (CLIConverter, error) {
	conv, err := a.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	return conv, nil
}

// Release panics if c did not come from this adapter (programmer error).
func (a *poolAdapter) Release(c CLIConverter) {
	conv, ok := c.(*lessondoc.Converter)
	if !ok {
		panic(fmt.Sprintf("poolAdapter.Release: unexpected type %T", c))
	}
	a.pool.Release(conv)
}

func (a *poolAdapter) Size() int {
	return a.pool.Size()
}

func (a *poolAdapter) Close() error {
	return a.pool.Close()
}
