package podstore

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/ipfs/go-cid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vybium/vybium-pod2/internal/vybium-pod2/signedpod"
	"github.com/vybium/vybium-pod2/internal/vybium-pod2/signer"
	"github.com/vybium/vybium-pod2/internal/vybium-pod2/utils"
	"github.com/vybium/vybium-pod2/internal/vybium-pod2/values"
)

func samplePod(t *testing.T) *signedpod.SignedPod {
	t.Helper()
	s, err := signer.Ed25519FromSeed(bytes.Repeat([]byte{3}, 32))
	require.NoError(t, err)
	pod, err := signedpod.Sign(values.NewDictBuilder().
		SetString("name", "alice").
		SetInt("age", 42).
		Build(), s)
	require.NoError(t, err)
	return pod
}

// testCAS runs the blob contract against a backend
func testCAS(t *testing.T, cas CAS) {
	ctx := context.Background()
	payload := []byte("hello pod store")

	id, err := cas.Put(ctx, payload)
	require.NoError(t, err)
	require.True(t, id.Defined())
	assert.Equal(t, uint64(cid.Raw), id.Prefix().Codec)

	want, err := Sum(payload)
	require.NoError(t, err)
	assert.True(t, want.Equals(id))

	again, err := cas.Put(ctx, payload)
	require.NoError(t, err)
	assert.True(t, again.Equals(id))

	ok, err := cas.Has(ctx, id)
	require.NoError(t, err)
	assert.True(t, ok)

	got, err := cas.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, payload, got)

	missing, err := Sum([]byte("never stored"))
	require.NoError(t, err)
	_, err = cas.Get(ctx, missing)
	assert.ErrorIs(t, err, ErrNotFound)
	ok, err = cas.Has(ctx, missing)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = cas.Get(ctx, cid.Undef)
	assert.ErrorIs(t, err, ErrInvalidCID)
}

func TestMemoryCAS(t *testing.T) {
	testCAS(t, NewMemory())
}

func TestSQLiteCAS(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pods.db")
	cas, err := OpenSQLite(path)
	require.NoError(t, err)
	testCAS(t, cas)

	id, err := cas.Put(context.Background(), []byte("persisted"))
	require.NoError(t, err)
	require.NoError(t, cas.Close())

	reopened, err := OpenSQLite(path)
	require.NoError(t, err)
	defer reopened.Close()
	got, err := reopened.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, []byte("persisted"), got)
}

func TestSQLiteDetectsCorruption(t *testing.T) {
	cas, err := OpenSQLite(filepath.Join(t.TempDir(), "pods.db"))
	require.NoError(t, err)
	defer cas.Close()

	ctx := context.Background()
	id, err := cas.Put(ctx, []byte("original"))
	require.NoError(t, err)
	_, err = cas.db.ExecContext(ctx, "UPDATE blobs SET data = ? WHERE cid = ?", []byte("changed"), id.String())
	require.NoError(t, err)

	_, err = cas.Get(ctx, id)
	assert.ErrorIs(t, err, ErrCIDMismatch)
}

func TestRedisCAS(t *testing.T) {
	addr := os.Getenv("POD2_REDIS_ADDR")
	if addr == "" {
		t.Skip("POD2_REDIS_ADDR not set")
	}
	cas, err := NewRedis(context.Background(), RedisConfig{Address: addr, Prefix: "pod2:test:"})
	require.NoError(t, err)
	defer cas.Close()
	testCAS(t, cas)
}

// TestPodStore tests that pods are verified on the way in and out
func TestPodStore(t *testing.T) {
	ctx := context.Background()
	mem := NewMemory()
	store := New(mem)
	pod := samplePod(t)

	id, err := store.Put(ctx, pod)
	require.NoError(t, err)

	loaded, err := store.Get(ctx, id)
	require.NoError(t, err)
	assert.True(t, loaded.ID.Equal(pod.ID))
	assert.Equal(t, pod.Signature, loaded.Signature)

	byString, err := store.GetString(ctx, id.String())
	require.NoError(t, err)
	assert.True(t, byString.ID.Equal(pod.ID))

	_, err = store.GetString(ctx, "not-a-cid")
	assert.ErrorIs(t, err, ErrInvalidCID)

	_, err = store.Put(ctx, signedpod.NonePod())
	assert.Error(t, err)

	forged := *pod
	forged.Signer = forged.Signer[:len(forged.Signer)-2] + "00"
	if forged.Signer == pod.Signer {
		forged.Signer = forged.Signer[:len(forged.Signer)-2] + "01"
	}
	_, err = store.Put(ctx, &forged)
	assert.ErrorIs(t, err, ErrInvalidPod)

	data, err := json.Marshal(&forged)
	require.NoError(t, err)
	rawID, err := mem.Put(ctx, data)
	require.NoError(t, err)
	_, err = store.Get(ctx, rawID)
	assert.ErrorIs(t, err, ErrInvalidPod)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	cas, err := Open(ctx, utils.StoreConfig{Driver: "memory"})
	require.NoError(t, err)
	assert.IsType(t, &Memory{}, cas)

	cas, err = Open(ctx, utils.StoreConfig{Driver: "sqlite", DSN: filepath.Join(t.TempDir(), "x.db")})
	require.NoError(t, err)
	assert.IsType(t, &SQLite{}, cas)
	require.NoError(t, cas.Close())

	_, err = Open(ctx, utils.StoreConfig{Driver: "mongo"})
	assert.Error(t, err)
}
