package drivers

import (
	"context"
	"encoding/json"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/bridgefs/bridgefs"
	"github.com/bridgefs/bridgefs/config"
	"github.com/bridgefs/bridgefs/internal/util"
)

// LocalSource contains local-driver source definition fields
type LocalSource struct {
	Root     string `json:"root"`
	TrashDir string `json:"trash_dir,omitempty"`
}

// RegisterLocal registers the local-disk driver under the "local" type key.
func RegisterLocal(r *Registry) {
	r.Register("local", func(raw []byte) (bridgefs.Driver, error) {
		var src LocalSource
		if err := json.Unmarshal(raw, &src); err != nil {
			return nil, err
		}
		return NewLocal(src.Root, src.TrashDir)
	})
}

// Local implements [bridgefs.Driver] over the host filesystem, jailed under a
// root directory. Adapter paths are absolute and slash-delimited; they are
// cleaned before resolution, so they cannot escape the root. Trashing moves
// the target into the trash directory under the root with a unique suffix.
type Local struct {
	root     string
	trashDir string
	logger   util.Logger
}

var _ bridgefs.Driver = (*Local)(nil)

// NewLocal creates a Local driver rooted at root. An empty trashDir uses the
// configured default name.
func NewLocal(root, trashDir string) (*Local, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	if trashDir == "" {
		trashDir = config.DefaultTrashDir
	}
	return &Local{
		root:     abs,
		trashDir: trashDir,
		logger:   util.GetLogger("local_driver"),
	}, nil
}

// resolve maps an adapter path to a host path beneath the root. Cleaning the
// path as absolute first discards any ".." escape.
func (l *Local) resolve(p string) string {
	return filepath.Join(l.root, filepath.FromSlash(path.Clean("/"+p)))
}

func (l *Local) Stat(ctx context.Context, p string) (*bridgefs.Stats, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	fi, err := os.Stat(l.resolve(p))
	if err != nil {
		return nil, err
	}
	return &bridgefs.Stats{
		IsFile: !fi.IsDir(),
		Mtime:  fi.ModTime(),
		Size:   fi.Size(),
	}, nil
}

func (l *Local) ReadFile(ctx context.Context, p string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return os.ReadFile(l.resolve(p))
}

func (l *Local) WriteFile(ctx context.Context, p string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return os.WriteFile(l.resolve(p), data, 0o644)
}

// ReadDir lists direct children. The trash directory is an implementation
// detail and is hidden from the root listing.
func (l *Local) ReadDir(ctx context.Context, p string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(l.resolve(p))
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	atRoot := path.Clean("/"+p) == "/"
	for _, e := range entries {
		if atRoot && e.Name() == l.trashDir {
			continue
		}
		names = append(names, e.Name())
	}
	return names, nil
}

func (l *Local) Mkdir(ctx context.Context, p string, mode fs.FileMode) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return os.Mkdir(l.resolve(p), mode)
}

func (l *Local) Remove(ctx context.Context, p string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return os.Remove(l.resolve(p))
}

func (l *Local) Rename(ctx context.Context, oldPath, newPath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return os.Rename(l.resolve(oldPath), l.resolve(newPath))
}

// Trash moves p into the trash directory under a collision-proof name.
func (l *Local) Trash(ctx context.Context, p string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	trashRoot := filepath.Join(l.root, l.trashDir)
	if err := os.MkdirAll(trashRoot, 0o700); err != nil {
		return err
	}
	target := filepath.Join(trashRoot, path.Base(path.Clean("/"+p))+"-"+uuid.NewString())
	if err := os.Rename(l.resolve(p), target); err != nil {
		return err
	}
	l.logger.Debug().Str("path", p).Str("target", target).Msg("Trashed")
	return nil
}
