package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/alnah/go-lessondoc"
	"github.com/alnah/go-lessondoc/internal/config"
)

const testLesson = "# Phân số\n\n1. Khái niệm\n    - Tử số\n    - Mẫu số\n\n$\\frac{1}{2}$\n"

// fakeConverter records inputs and returns fixed artifacts.
type fakeConverter struct {
	mu     sync.Mutex
	inputs []lessondoc.Input
	err    error
}

func (f *fakeConverter) Convert(_ context.Context, in lessondoc.Input) (*lessondoc.Result, error) {
	f.mu.Lock()
	f.inputs = append(f.inputs, in)
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return &lessondoc.Result{
		Title: "Phân số",
		HTML:  []byte("<p>fragment</p>"),
		Page:  []byte("<!DOCTYPE html><html></html>"),
		DOCX:  []byte("PK\x03\x04docx"),
		PDF:   []byte("%PDF-1.7"),
		Pages: 1,
	}, nil
}

func (f *fakeConverter) calls() []lessondoc.Input {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]lessondoc.Input(nil), f.inputs...)
}

// fakePool hands out a single shared fakeConverter.
type fakePool struct {
	conv       *fakeConverter
	size       int
	opts       int
	acquireErr error

	mu     sync.Mutex
	closed bool
}

func (p *fakePool) Acquire(context.Context) (CLIConverter, error) {
	if p.acquireErr != nil {
		return nil, p.acquireErr
	}
	return p.conv, nil
}

func (p *fakePool) Release(CLIConverter) {}

func (p *fakePool) Size() int { return p.size }

func (p *fakePool) Close() error {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()
	return nil
}

// testEnv returns an environment writing to buffers whose NewPool records
// the requested size into pool.
func testEnv(pool *fakePool) (*Environment, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer
	env := &Environment{
		Now:    func() time.Time { return time.Date(2026, 9, 5, 7, 30, 0, 0, time.UTC) },
		Stdout: &stdout,
		Stderr: &stderr,
		Config: config.DefaultConfig(),
		NewPool: func(size int, opts ...lessondoc.Option) Pool {
			pool.size = size
			pool.opts = len(opts)
			return pool
		},
	}
	return env, &stdout, &stderr
}

// writeLesson writes content to dir/name, creating parent directories.
func writeLesson(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// parseTestFlags parses convert flags or fails the test.
func parseTestFlags(t *testing.T, args ...string) (*convertFlags, []string) {
	t.Helper()
	flags, positional, err := parseConvertFlags(args)
	if err != nil {
		t.Fatalf("parseConvertFlags(%q) error = %v", args, err)
	}
	return flags, positional
}
