package podstore

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ipfs/go-cid"
	"github.com/vybium/vybium-pod2/internal/vybium-pod2/core"
	"github.com/vybium/vybium-pod2/internal/vybium-pod2/signedpod"
	"github.com/vybium/vybium-pod2/internal/vybium-pod2/utils"
)

// Open returns the CAS selected by cfg
func Open(ctx context.Context, cfg utils.StoreConfig) (CAS, error) {
	switch cfg.Driver {
	case "", "memory":
		return NewMemory(), nil
	case "sqlite":
		return OpenSQLite(cfg.DSN)
	case "redis":
		if strings.HasPrefix(cfg.DSN, "redis://") || strings.HasPrefix(cfg.DSN, "rediss://") {
			return NewRedisURL(ctx, cfg.DSN)
		}
		return NewRedis(ctx, RedisConfig{Address: cfg.DSN})
	default:
		return nil, fmt.Errorf("podstore: unknown driver %q", cfg.Driver)
	}
}

// PodStore stores signed pods by the CID of their wire form
type PodStore struct {
	cas CAS
}

// New wraps a CAS
func New(cas CAS) *PodStore {
	return &PodStore{cas: cas}
}

// Put verifies pod and stores it
func (s *PodStore) Put(ctx context.Context, pod *signedpod.SignedPod) (cid.Cid, error) {
	if pod.IsNone() {
		return cid.Undef, core.Errorf(core.CodeInvalidValue, "the placeholder pod is not stored")
	}
	if !pod.Verify() {
		return cid.Undef, ErrInvalidPod
	}
	data, err := json.Marshal(pod)
	if err != nil {
		return cid.Undef, err
	}
	id, err := s.cas.Put(ctx, data)
	if err != nil {
		return cid.Undef, err
	}
	slog.Debug("stored signed pod", "cid", id.String(), "pod_id", core.FormatElement(pod.ID))
	return id, nil
}

// Get loads a pod and verifies it before returning
func (s *PodStore) Get(ctx context.Context, id cid.Cid) (*signedpod.SignedPod, error) {
	data, err := s.cas.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	pod, err := signedpod.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("podstore: decode %s: %w", id, err)
	}
	if pod.IsNone() || !pod.Verify() {
		slog.Debug("stored pod rejected", "cid", id.String())
		return nil, ErrInvalidPod
	}
	return pod, nil
}

// GetString parses id and calls Get
func (s *PodStore) GetString(ctx context.Context, id string) (*signedpod.SignedPod, error) {
	c, err := cid.Decode(id)
	if err != nil || !c.Defined() {
		return nil, ErrInvalidCID
	}
	return s.Get(ctx, c)
}

// Has reports whether id is stored
func (s *PodStore) Has(ctx context.Context, id cid.Cid) (bool, error) {
	return s.cas.Has(ctx, id)
}

// Close closes the underlying CAS
func (s *PodStore) Close() error {
	return s.cas.Close()
}
