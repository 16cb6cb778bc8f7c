package cas

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/ipfs/go-cid"
	"github.com/twokey/keybuilder/internal/domain"
	"github.com/twokey/keybuilder/internal/usecase"
)

// LocalFSAdapter is a content store on the local filesystem. Objects are
// written once and keyed by CID.
type LocalFSAdapter struct {
	root string
	log  *slog.Logger
}

// NewLocalFSAdapter creates a store rooted at root
func NewLocalFSAdapter(root string, log *slog.Logger) *LocalFSAdapter {
	return &LocalFSAdapter{root: root, log: log.With("component", "LocalFSStore")}
}

// Put stores data and returns its CID string
func (s *LocalFSAdapter) Put(_ context.Context, data []byte) (string, error) {
	id, err := Sum(data)
	if err != nil {
		return "", err
	}
	path := s.pathFor(id)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o444)
	if err != nil {
		if !os.IsExist(err) {
			return "", err
		}
		existing, rerr := os.ReadFile(path)
		if rerr != nil || !bytes.Equal(existing, data) {
			return "", ErrImmutable
		}
		return id.String(), nil
	}

	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return "", err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return "", err
	}
	s.log.Debug("stored object", "cid", id.String(), "size", len(data))
	return id.String(), nil
}

// Get returns the bytes stored under pointer
func (s *LocalFSAdapter) Get(_ context.Context, pointer string) ([]byte, error) {
	id, err := Parse(pointer)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.pathFor(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, pointer)
		}
		return nil, err
	}
	if err := verify(id, data); err != nil {
		return nil, err
	}
	return data, nil
}

func (s *LocalFSAdapter) pathFor(id cid.Cid) string {
	str := id.String()
	if len(str) < 2 {
		return filepath.Join(s.root, str)
	}
	return filepath.Join(s.root, str[:2], str)
}

// Ensure LocalFSAdapter implements ContentStore
var _ usecase.ContentStore = (*LocalFSAdapter)(nil)
