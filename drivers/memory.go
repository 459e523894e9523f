package drivers

import (
	"context"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strings"
	"time"

	"github.com/puzpuzpuz/xsync/v4"

	"github.com/bridgefs/bridgefs"
)

// RegisterMemory registers the in-memory driver under the "memory" type key.
func RegisterMemory(r *Registry) {
	r.Register("memory", func(raw []byte) (bridgefs.Driver, error) {
		return NewMemory(), nil
	})
}

// Memory implements [bridgefs.Driver] with a concurrent path-keyed map.
// It serves as the reference driver for tests and examples. Trash is plain
// removal: nothing durable exists to recover from anyway.
type Memory struct {
	entries *xsync.Map[string, *memEntry]
}

type memEntry struct {
	isDir bool
	data  []byte
	mtime time.Time
}

var _ bridgefs.Driver = (*Memory)(nil)

func NewMemory() *Memory {
	m := &Memory{entries: xsync.NewMap[string, *memEntry]()}
	m.entries.Store("/", &memEntry{isDir: true, mtime: time.Now()})
	return m
}

func norm(p string) string {
	return path.Clean("/" + p)
}

func (m *Memory) lookup(p string) (*memEntry, bool) {
	return m.entries.Load(norm(p))
}

// parentDir ensures p's parent exists and is a directory.
func (m *Memory) parentDir(p string) error {
	parent, ok := m.lookup(path.Dir(norm(p)))
	if !ok {
		return fmt.Errorf("parent of %s: %w", p, fs.ErrNotExist)
	}
	if !parent.isDir {
		return fmt.Errorf("parent of %s is not a directory", p)
	}
	return nil
}

func (m *Memory) Stat(ctx context.Context, p string) (*bridgefs.Stats, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	e, ok := m.lookup(p)
	if !ok {
		return nil, fs.ErrNotExist
	}
	return &bridgefs.Stats{
		IsFile: !e.isDir,
		Mtime:  e.mtime,
		Size:   int64(len(e.data)),
	}, nil
}

func (m *Memory) ReadFile(ctx context.Context, p string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	e, ok := m.lookup(p)
	if !ok {
		return nil, fs.ErrNotExist
	}
	if e.isDir {
		return nil, fmt.Errorf("%s is a directory", p)
	}
	return slices.Clone(e.data), nil
}

func (m *Memory) WriteFile(ctx context.Context, p string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if e, ok := m.lookup(p); ok && e.isDir {
		return fmt.Errorf("%s is a directory", p)
	}
	if err := m.parentDir(p); err != nil {
		return err
	}
	m.entries.Store(norm(p), &memEntry{data: slices.Clone(data), mtime: time.Now()})
	return nil
}

func (m *Memory) ReadDir(ctx context.Context, p string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	dir := norm(p)
	e, ok := m.entries.Load(dir)
	if !ok {
		return nil, fs.ErrNotExist
	}
	if !e.isDir {
		return nil, fmt.Errorf("%s is not a directory", p)
	}

	prefix := dir
	if prefix != "/" {
		prefix += "/"
	}
	var names []string
	m.entries.Range(func(key string, _ *memEntry) bool {
		if key == dir || !strings.HasPrefix(key, prefix) {
			return true
		}
		rest := key[len(prefix):]
		if !strings.Contains(rest, "/") { // direct child
			names = append(names, rest)
		}
		return true
	})
	slices.Sort(names)
	return names, nil
}

func (m *Memory) Mkdir(ctx context.Context, p string, mode fs.FileMode) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, ok := m.lookup(p); ok {
		return fs.ErrExist
	}
	if err := m.parentDir(p); err != nil {
		return err
	}
	m.entries.Store(norm(p), &memEntry{isDir: true, mtime: time.Now()})
	return nil
}

func (m *Memory) Remove(ctx context.Context, p string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	e, ok := m.lookup(p)
	if !ok {
		return fs.ErrNotExist
	}
	if e.isDir {
		children, err := m.ReadDir(ctx, p)
		if err != nil {
			return err
		}
		if len(children) > 0 {
			return fmt.Errorf("%s is not empty", p)
		}
	}
	m.entries.Delete(norm(p))
	return nil
}

func (m *Memory) Rename(ctx context.Context, oldPath, newPath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	src := norm(oldPath)
	dst := norm(newPath)
	e, ok := m.entries.Load(src)
	if !ok {
		return fs.ErrNotExist
	}
	if err := m.parentDir(dst); err != nil {
		return err
	}

	m.entries.Store(dst, e)
	m.entries.Delete(src)
	if e.isDir {
		// Carry the whole subtree across.
		prefix := src + "/"
		type move struct {
			key   string
			entry *memEntry
		}
		var moves []move
		m.entries.Range(func(key string, child *memEntry) bool {
			if strings.HasPrefix(key, prefix) {
				moves = append(moves, move{key, child})
			}
			return true
		})
		for _, mv := range moves {
			m.entries.Store(dst+"/"+mv.key[len(prefix):], mv.entry)
			m.entries.Delete(mv.key)
		}
	}
	return nil
}

func (m *Memory) Trash(ctx context.Context, p string) error {
	return m.Remove(ctx, p)
}
