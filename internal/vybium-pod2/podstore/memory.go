package podstore

import (
	"context"
	"sync"

	"github.com/ipfs/go-cid"
)

// Memory is a process-local CAS
type Memory struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

// NewMemory returns an empty store
func NewMemory() *Memory {
	return &Memory{blobs: make(map[string][]byte)}
}

func (m *Memory) Put(_ context.Context, data []byte) (cid.Cid, error) {
	id, err := Sum(data)
	if err != nil {
		return cid.Undef, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.blobs[id.KeyString()]; !ok {
		m.blobs[id.KeyString()] = append([]byte(nil), data...)
	}
	return id, nil
}

func (m *Memory) Get(_ context.Context, id cid.Cid) ([]byte, error) {
	if !id.Defined() {
		return nil, ErrInvalidCID
	}
	m.mu.RLock()
	data, ok := m.blobs[id.KeyString()]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	if err := checkSum(id, data); err != nil {
		return nil, err
	}
	return append([]byte(nil), data...), nil
}

func (m *Memory) Has(_ context.Context, id cid.Cid) (bool, error) {
	if !id.Defined() {
		return false, nil
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.blobs[id.KeyString()]
	return ok, nil
}

func (m *Memory) Close() error { return nil }
