package filesystem

import (
	"context"
	"fmt"
	"io/fs"
	"sync"

	"github.com/bridgefs/bridgefs"
)

// stubDriver implements bridgefs.Driver with per-operation function hooks so
// tests control completion order and outcomes precisely. Calling an operation
// a test did not hook fails loudly.
type stubDriver struct {
	stat      func(ctx context.Context, p string) (*bridgefs.Stats, error)
	readFile  func(ctx context.Context, p string) ([]byte, error)
	writeFile func(ctx context.Context, p string, data []byte) error
	readDir   func(ctx context.Context, p string) ([]string, error)
	mkdir     func(ctx context.Context, p string, mode fs.FileMode) error
	remove    func(ctx context.Context, p string) error
	rename    func(ctx context.Context, oldPath, newPath string) error
	trash     func(ctx context.Context, p string) error
}

var _ bridgefs.Driver = (*stubDriver)(nil)

func (s *stubDriver) Stat(ctx context.Context, p string) (*bridgefs.Stats, error) {
	if s.stat == nil {
		return nil, fmt.Errorf("unexpected Stat(%q)", p)
	}
	return s.stat(ctx, p)
}

func (s *stubDriver) ReadFile(ctx context.Context, p string) ([]byte, error) {
	if s.readFile == nil {
		return nil, fmt.Errorf("unexpected ReadFile(%q)", p)
	}
	return s.readFile(ctx, p)
}

func (s *stubDriver) WriteFile(ctx context.Context, p string, data []byte) error {
	if s.writeFile == nil {
		return fmt.Errorf("unexpected WriteFile(%q)", p)
	}
	return s.writeFile(ctx, p, data)
}

func (s *stubDriver) ReadDir(ctx context.Context, p string) ([]string, error) {
	if s.readDir == nil {
		return nil, fmt.Errorf("unexpected ReadDir(%q)", p)
	}
	return s.readDir(ctx, p)
}

func (s *stubDriver) Mkdir(ctx context.Context, p string, mode fs.FileMode) error {
	if s.mkdir == nil {
		return fmt.Errorf("unexpected Mkdir(%q)", p)
	}
	return s.mkdir(ctx, p, mode)
}

func (s *stubDriver) Remove(ctx context.Context, p string) error {
	if s.remove == nil {
		return fmt.Errorf("unexpected Remove(%q)", p)
	}
	return s.remove(ctx, p)
}

func (s *stubDriver) Rename(ctx context.Context, oldPath, newPath string) error {
	if s.rename == nil {
		return fmt.Errorf("unexpected Rename(%q, %q)", oldPath, newPath)
	}
	return s.rename(ctx, oldPath, newPath)
}

func (s *stubDriver) Trash(ctx context.Context, p string) error {
	if s.trash == nil {
		return fmt.Errorf("unexpected Trash(%q)", p)
	}
	return s.trash(ctx, p)
}

// collector is a thread-safe ChangeListener for tests.
type collector struct {
	mu     sync.Mutex
	events []bridgefs.ChangeEvent
}

func (c *collector) listen(ev bridgefs.ChangeEvent) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, ev)
}

func (c *collector) snapshot() []bridgefs.ChangeEvent {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]bridgefs.ChangeEvent(nil), c.events...)
}

func (c *collector) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.events)
}
