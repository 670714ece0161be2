package blob

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// FSStore keeps blobs on the local filesystem under dir/aa/bb/<hash>.
type FSStore struct {
	dir string
}

func NewFSStore(dir string) (*FSStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FSStore{dir: dir}, nil
}

func (s *FSStore) Put(_ context.Context, hash string, data []byte) (string, error) {
	target := filepath.Join(s.dir, filepath.FromSlash(keyFor(hash)))
	if _, err := os.Stat(target); err == nil {
		return target, nil
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", err
	}

	// Write-then-rename so a crash never leaves a partial blob at the
	// content-addressed path.
	tmp, err := os.CreateTemp(filepath.Dir(target), ".upload-*")
	if err != nil {
		return "", err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", err
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		os.Remove(tmp.Name())
		return "", err
	}
	return target, nil
}

func (s *FSStore) Get(_ context.Context, hash string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, filepath.FromSlash(keyFor(hash))))
	if os.IsNotExist(err) {
		return nil, ErrNotFound
	}
	return data, err
}

func (s *FSStore) Verify(ctx context.Context, hash string) error {
	data, err := s.Get(ctx, hash)
	if err != nil {
		return err
	}
	if HashBytes(data) != hash {
		return fmt.Errorf("%w: %s", ErrCorrupted, hash)
	}
	return nil
}
