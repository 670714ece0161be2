package blob

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"path"

	"backend-trailmarket/internal/config"
)

var (
	ErrNotFound  = errors.New("blob not found")
	ErrCorrupted = errors.New("blob content does not match hash")
)

// Store is a content-addressed blob store: the key is derived from the
// SHA-256 of the content, so identical uploads share storage.
type Store interface {
	// Put persists data under its content hash and returns the storage
	// path. Writing an already-present hash is a no-op.
	Put(ctx context.Context, hash string, data []byte) (string, error)
	Get(ctx context.Context, hash string) ([]byte, error)
	// Verify re-hashes the stored bytes and fails on mismatch.
	Verify(ctx context.Context, hash string) error
}

func HashBytes(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// keyFor fans blobs out over two directory levels to keep listings flat.
func keyFor(hash string) string {
	if len(hash) < 4 {
		return hash
	}
	return path.Join(hash[:2], hash[2:4], hash)
}

func NewStore(cfg config.Config) (Store, error) {
	switch cfg.BlobBackend {
	case "", "fs":
		return NewFSStore(cfg.BlobDir)
	case "s3":
		return NewS3Store(cfg)
	default:
		return nil, fmt.Errorf("unknown blob backend %q", cfg.BlobBackend)
	}
}
