// Package podstore keeps signed pods in content-addressed storage. Records
// are stored in their JSON wire form under a CIDv1 (raw codec, sha2-256)
// and are verified again whenever they are loaded.
package podstore

import (
	"context"
	"errors"

	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"
)

var (
	ErrNotFound    = errors.New("podstore: not found")
	ErrInvalidCID  = errors.New("podstore: invalid cid")
	ErrCIDMismatch = errors.New("podstore: cid mismatch")
	ErrInvalidPod  = errors.New("podstore: stored pod does not verify")
)

// CAS is a content-addressed blob store.
//
// Put is idempotent and the CID is derived from the bytes written. Get
// returns ErrNotFound for absent CIDs and ErrCIDMismatch when the stored
// bytes no longer hash to the CID.
type CAS interface {
	Put(ctx context.Context, data []byte) (cid.Cid, error)
	Get(ctx context.Context, id cid.Cid) ([]byte, error)
	Has(ctx context.Context, id cid.Cid) (bool, error)
	Close() error
}

// Sum returns the CIDv1 of data
func Sum(data []byte) (cid.Cid, error) {
	sum, err := multihash.Sum(data, multihash.SHA2_256, -1)
	if err != nil {
		return cid.Undef, err
	}
	return cid.NewCidV1(cid.Raw, sum), nil
}

// checkSum re-derives the CID of data read back from a backend
func checkSum(id cid.Cid, data []byte) error {
	got, err := Sum(data)
	if err != nil {
		return err
	}
	if !got.Equals(id) {
		return ErrCIDMismatch
	}
	return nil
}
