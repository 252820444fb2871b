package images

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dmitrijs2005/inkpost/internal/common"
	"github.com/dmitrijs2005/inkpost/internal/filex"
	"github.com/google/uuid"
)

// LocalStore keeps images as files in one directory.
type LocalStore struct {
	dir string
	now func() time.Time
}

func NewLocalStore(dir string) (*LocalStore, error) {
	abs, err := filex.EnsureDir(dir)
	if err != nil {
		return nil, err
	}
	return &LocalStore{dir: abs, now: time.Now}, nil
}

func (s *LocalStore) Save(ctx context.Context, contentType string, r io.Reader) (string, error) {
	if !Allowed(contentType) {
		return "", fmt.Errorf("unsupported image type %q", contentType)
	}

	name := fmt.Sprintf("%s-%s%s", s.now().UTC().Format("20060102T150405Z"), uuid.New(), extensionFor(contentType))

	f, err := os.OpenFile(filepath.Join(s.dir, name), os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o640)
	if err != nil {
		return "", fmt.Errorf("create image: %w", err)
	}

	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = os.Remove(f.Name())
		return "", fmt.Errorf("write image: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close image: %w", err)
	}

	return PathPrefix + name, nil
}

// resolve maps a stored path to a file inside the store directory.
// Anything that would leave the directory is reported as not found.
func (s *LocalStore) resolve(path string) (string, error) {
	name := strings.TrimPrefix(path, PathPrefix)
	if name == "" || name != filepath.Base(name) || name == "." || name == ".." {
		return "", common.ErrorNotFound
	}
	return filepath.Join(s.dir, name), nil
}

func (s *LocalStore) Open(ctx context.Context, path string) (io.ReadCloser, string, error) {
	full, err := s.resolve(path)
	if err != nil {
		return nil, "", err
	}

	f, err := os.Open(full)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, "", common.ErrorNotFound
		}
		return nil, "", err
	}

	return f, mime.TypeByExtension(filepath.Ext(full)), nil
}

// Delete removes the image. Missing files are not an error.
func (s *LocalStore) Delete(ctx context.Context, path string) error {
	full, err := s.resolve(path)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
