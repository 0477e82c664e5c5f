package values

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"
	"github.com/vybium/vybium-pod2/internal/vybium-pod2/containers"
	"github.com/vybium/vybium-pod2/internal/vybium-pod2/core"
)

func sampleDict() *Dict {
	return NewDictBuilder().
		SetString("name", "alice").
		SetInt("age", 42).
		Set("tags", NewSetBuilder().Add(String("a"), String("b"))).
		Set("scores", NewArrayBuilder().Add(Int(1), Int(2), Int(3))).
		Build()
}

// TestEncodeScalars tests scalar conversion
func TestEncodeScalars(t *testing.T) {
	enc := NewEncoder()

	got, err := enc.Encode(String("hello"))
	require.NoError(t, err)
	assert.True(t, got.Equal(core.HashString("hello")))

	got, err = enc.Encode(Int(-3))
	require.NoError(t, err)
	assert.True(t, got.Equal(core.FromInt64(-3)))

	got, err = enc.Encode(Raw{Elem: field.New(77)})
	require.NoError(t, err)
	assert.True(t, got.Equal(field.New(77)))

	_, err = enc.Encode(nil)
	assert.ErrorIs(t, err, core.ErrInvalidValue)
}

// TestEncodeCachesByHandle tests the identity-keyed arena
func TestEncodeCachesByHandle(t *testing.T) {
	enc := NewEncoder()
	d := sampleDict()

	first, err := enc.Container(d)
	require.NoError(t, err)
	second, err := enc.Container(d)
	require.NoError(t, err)
	assert.Same(t, first, second)

	c1, err := enc.Encode(d)
	require.NoError(t, err)
	c2, err := enc.Encode(d)
	require.NoError(t, err)
	assert.True(t, c1.Equal(c2))

	// dict + nested set + nested array
	assert.Equal(t, 3, enc.Len())

	twin := sampleDict()
	assert.NotEqual(t, d.Handle(), twin.Handle())
	assert.False(t, enc.Cached(twin.Handle()))

	c3, err := enc.Encode(twin)
	require.NoError(t, err)
	assert.True(t, c1.Equal(c3))
	assert.True(t, enc.Cached(twin.Handle()))
	assert.Equal(t, 6, enc.Len())

	enc.Invalidate(d.Handle())
	assert.False(t, enc.Cached(d.Handle()))
	third, err := enc.Container(d)
	require.NoError(t, err)
	assert.NotSame(t, first, third)
	assert.True(t, containers.Equal(first, third))

	enc.Reset()
	assert.Equal(t, 0, enc.Len())
}

func TestEncodeUncached(t *testing.T) {
	enc := NewEncoder()
	d := sampleDict()

	c, err := enc.EncodeUncached(d)
	require.NoError(t, err)
	assert.Equal(t, 0, enc.Len())

	cached, err := enc.Encode(d)
	require.NoError(t, err)
	assert.True(t, c.Equal(cached))
}

// TestEncodeMutable tests that builders cannot be encoded
func TestEncodeMutable(t *testing.T) {
	enc := NewEncoder()

	_, err := enc.Encode(NewDictBuilder().SetInt("a", 1))
	assert.ErrorIs(t, err, core.ErrMutableValue)

	_, err = enc.Encode(NewArrayBuilder().Add(Int(1)))
	assert.ErrorIs(t, err, core.ErrMutableValue)

	nested := NewDict(map[string]Value{"inner": NewDictBuilder()})
	_, err = enc.Encode(nested)
	assert.ErrorIs(t, err, core.ErrMutableValue)
}

func TestEncodeEmptyComposite(t *testing.T) {
	enc := NewEncoder()
	_, err := enc.Encode(NewDict(nil))
	assert.ErrorIs(t, err, core.ErrEmptyContainer)
	_, err = enc.Encode(NewSet())
	assert.ErrorIs(t, err, core.ErrEmptyContainer)
}

// TestEncodeOrder tests insertion-order independence of dict and set
func TestEncodeOrder(t *testing.T) {
	enc := NewEncoder()

	s1, err := enc.Encode(NewSet(Int(1), Int(2), Int(3)))
	require.NoError(t, err)
	s2, err := enc.Encode(NewSet(Int(3), Int(1), Int(2)))
	require.NoError(t, err)
	assert.True(t, s1.Equal(s2))

	a1, err := enc.Encode(NewArray(Int(1), Int(2), Int(3)))
	require.NoError(t, err)
	a2, err := enc.Encode(NewArray(Int(3), Int(1), Int(2)))
	require.NoError(t, err)
	assert.False(t, a1.Equal(a2))

	d1, err := enc.Encode(NewDictBuilder().SetInt("x", 1).SetInt("y", 2).Build())
	require.NoError(t, err)
	d2, err := enc.Encode(NewDictBuilder().SetInt("y", 2).SetInt("x", 1).Build())
	require.NoError(t, err)
	assert.True(t, d1.Equal(d2))
}

func TestEncoderConcurrentDistinctValues(t *testing.T) {
	enc := NewEncoder()
	dicts := make([]*Dict, 16)
	for i := range dicts {
		dicts[i] = NewDictBuilder().SetInt("i", int64(i)).Build()
	}

	var wg sync.WaitGroup
	for _, d := range dicts {
		wg.Add(1)
		go func(d *Dict) {
			defer wg.Done()
			_, err := enc.Encode(d)
			assert.NoError(t, err)
		}(d)
	}
	wg.Wait()
	assert.Equal(t, len(dicts), enc.Len())
}

// TestJSONWireForm tests the value wire format
func TestJSONWireForm(t *testing.T) {
	d := NewDictBuilder().
		SetString("s", "text").
		SetInt("n", -5).
		Set("f", Raw{Elem: field.New(12345)}).
		Set("set", NewSet(Int(1), String("x"))).
		Set("arr", NewArray(Int(1), NewArray(Int(2)))).
		Build()

	data, err := MarshalJSON(d)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"s": "text",
		"n": -5,
		"f": {"$field": "12345"},
		"set": {"$set": [1, "x"]},
		"arr": [1, [2]]
	}`, string(data))

	back, err := UnmarshalJSON(data)
	require.NoError(t, err)

	enc := NewEncoder()
	want, err := enc.Encode(d)
	require.NoError(t, err)
	got, err := enc.Encode(back)
	require.NoError(t, err)
	assert.True(t, want.Equal(got))

	_, err = UnmarshalJSON([]byte(`{"x": 1.5}`))
	assert.ErrorIs(t, err, core.ErrInvalidValue)

	_, err = UnmarshalJSON([]byte(`{"$field": "abc"}`))
	assert.ErrorIs(t, err, core.ErrInvalidValue)

	_, err = MarshalJSON(NewDictBuilder())
	assert.ErrorIs(t, err, core.ErrMutableValue)
}

// TestJSONTagKeys tests that dicts keyed by a wire tag decode as dicts
func TestJSONTagKeys(t *testing.T) {
	tests := []struct {
		name string
		dict *Dict
		wire string
	}{
		{"set key", NewDict(map[string]Value{"$set": NewArray(Int(1), Int(2))}), `{"$dict": {"$set": [1, 2]}}`},
		{"field key", NewDict(map[string]Value{"$field": String("7")}), `{"$dict": {"$field": "7"}}`},
		{"dict key", NewDict(map[string]Value{"$dict": Int(3)}), `{"$dict": {"$dict": 3}}`},
		{"tag among others", NewDict(map[string]Value{"$set": Int(1), "b": Int(2)}), `{"$set": 1, "b": 2}`},
	}
	enc := NewEncoder()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := MarshalJSON(tt.dict)
			require.NoError(t, err)
			assert.JSONEq(t, tt.wire, string(data))

			back, err := UnmarshalJSON(data)
			require.NoError(t, err)
			require.Equal(t, KindDict, back.Kind())

			want, err := enc.Encode(tt.dict)
			require.NoError(t, err)
			got, err := enc.Encode(back)
			require.NoError(t, err)
			assert.True(t, want.Equal(got))
		})
	}

	_, err := UnmarshalJSON([]byte(`{"$dict": [1]}`))
	assert.ErrorIs(t, err, core.ErrInvalidValue)
}
