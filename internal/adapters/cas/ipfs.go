package cas

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"

	"github.com/ipfs/go-cid"
	"github.com/twokey/keybuilder/internal/domain"
	"github.com/twokey/keybuilder/internal/usecase"
)

// IPFSAdapter stores raw blocks through the local ipfs CLI
type IPFSAdapter struct {
	bin string
	log *slog.Logger
}

// NewIPFSAdapter creates a store backed by the given ipfs binary
func NewIPFSAdapter(bin string, log *slog.Logger) *IPFSAdapter {
	if bin == "" {
		bin = "ipfs"
	}
	return &IPFSAdapter{bin: bin, log: log.With("component", "IPFSStore")}
}

// Put stores data as a raw block and returns its CID string
func (s *IPFSAdapter) Put(ctx context.Context, data []byte) (string, error) {
	id, err := Sum(data)
	if err != nil {
		return "", err
	}
	out, err := s.run(ctx, data,
		"block", "put",
		"--quiet",
		"--format=raw",
		"--mhtype=sha2-256",
		"--mhlen=32",
		"--cid-version=1",
		"/dev/stdin",
	)
	if err != nil {
		return "", err
	}
	got, err := cid.Decode(strings.TrimSpace(string(out)))
	if err != nil {
		return "", fmt.Errorf("ipfs: unexpected block put output: %w", err)
	}
	if !got.Equals(id) {
		return "", ErrCIDMismatch
	}
	s.log.Debug("stored block", "cid", id.String(), "size", len(data))
	return id.String(), nil
}

// Get fetches the block stored under pointer
func (s *IPFSAdapter) Get(ctx context.Context, pointer string) ([]byte, error) {
	id, err := Parse(pointer)
	if err != nil {
		return nil, err
	}
	out, err := s.run(ctx, nil, "block", "get", id.String())
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "not found") {
			return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, pointer)
		}
		return nil, err
	}
	if err := verify(id, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *IPFSAdapter) run(ctx context.Context, stdin []byte, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, s.bin, args...)
	if stdin != nil {
		cmd.Stdin = bytes.NewReader(stdin)
	}
	out, err := cmd.Output()
	if err == nil {
		return out, nil
	}
	var ee *exec.ExitError
	if errors.As(err, &ee) {
		if msg := strings.TrimSpace(string(ee.Stderr)); msg != "" {
			return nil, fmt.Errorf("ipfs: %s", msg)
		}
	}
	return nil, fmt.Errorf("ipfs: %w", err)
}

// Ensure IPFSAdapter implements ContentStore
var _ usecase.ContentStore = (*IPFSAdapter)(nil)
