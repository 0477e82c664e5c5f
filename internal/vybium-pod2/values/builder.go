package values

// DictBuilder accumulates entries for a Dict.
//
// A builder is itself a Value so it can be nested while still being filled,
// but the encoder refuses it: only the Dict returned by Build has a
// commitment.
type DictBuilder struct {
	entries map[string]Value
}

// NewDictBuilder returns an empty builder
func NewDictBuilder() *DictBuilder {
	return &DictBuilder{entries: make(map[string]Value)}
}

// Kind implements Value
func (*DictBuilder) Kind() Kind { return KindDict }

// Set stores v under key, replacing any previous value
func (b *DictBuilder) Set(key string, v Value) *DictBuilder {
	b.entries[key] = v
	return b
}

// SetString is Set with a String value
func (b *DictBuilder) SetString(key, v string) *DictBuilder {
	return b.Set(key, String(v))
}

// SetInt is Set with an Int value
func (b *DictBuilder) SetInt(key string, v int64) *DictBuilder {
	return b.Set(key, Int(v))
}

// Delete removes key
func (b *DictBuilder) Delete(key string) *DictBuilder {
	delete(b.entries, key)
	return b
}

// Has reports whether key is set
func (b *DictBuilder) Has(key string) bool {
	_, ok := b.entries[key]
	return ok
}

// Build returns an immutable Dict. Nested builders are built too.
func (b *DictBuilder) Build() *Dict {
	m := make(map[string]Value, len(b.entries))
	for k, v := range b.entries {
		m[k] = buildNested(v)
	}
	return NewDict(m)
}

// ListBuilder accumulates elements for an Array or a Set
type ListBuilder struct {
	kind  Kind
	elems []Value
}

// NewArrayBuilder returns a builder whose Build yields an Array
func NewArrayBuilder() *ListBuilder {
	return &ListBuilder{kind: KindArray}
}

// NewSetBuilder returns a builder whose Build yields a Set
func NewSetBuilder() *ListBuilder {
	return &ListBuilder{kind: KindSet}
}

// Kind implements Value
func (b *ListBuilder) Kind() Kind { return b.kind }

// Add appends elements
func (b *ListBuilder) Add(vs ...Value) *ListBuilder {
	b.elems = append(b.elems, vs...)
	return b
}

// Build returns an immutable Array or Set
func (b *ListBuilder) Build() Composite {
	elems := make([]Value, len(b.elems))
	for i, v := range b.elems {
		elems[i] = buildNested(v)
	}
	if b.kind == KindSet {
		return NewSet(elems...)
	}
	return NewArray(elems...)
}

func buildNested(v Value) Value {
	switch nb := v.(type) {
	case *DictBuilder:
		return nb.Build()
	case *ListBuilder:
		return nb.Build()
	default:
		return v
	}
}
