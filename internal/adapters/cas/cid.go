package cas

import (
	"errors"
	"fmt"

	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"
)

var (
	// ErrImmutable is returned when different bytes already exist under a CID
	ErrImmutable = errors.New("cas: object is immutable")
	// ErrCIDMismatch is returned when stored bytes don't hash to the requested CID
	ErrCIDMismatch = errors.New("cas: cid mismatch")
)

// Sum returns the CIDv1 (raw codec, sha2-256) of data.
func Sum(data []byte) (cid.Cid, error) {
	sum, err := multihash.Sum(data, multihash.SHA2_256, -1)
	if err != nil {
		return cid.Undef, err
	}
	return cid.NewCidV1(cid.Raw, sum), nil
}

// Parse decodes a pointer string into a CID.
func Parse(pointer string) (cid.Cid, error) {
	id, err := cid.Decode(pointer)
	if err != nil {
		return cid.Undef, fmt.Errorf("cas: invalid pointer %q: %w", pointer, err)
	}
	return id, nil
}

func verify(id cid.Cid, data []byte) error {
	got, err := Sum(data)
	if err != nil {
		return err
	}
	if !got.Equals(id) {
		return ErrCIDMismatch
	}
	return nil
}
