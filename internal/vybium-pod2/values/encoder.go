package values

import (
	"sync"

	"github.com/vybium/vybium-crypto/pkg/vybium-crypto/field"
	"github.com/vybium/vybium-pod2/internal/vybium-pod2/containers"
	"github.com/vybium/vybium-pod2/internal/vybium-pod2/core"
)

// Encoder converts values to field elements and keeps an arena of the
// containers built for composite values, keyed by Handle.
//
// Two structurally equal composites have distinct handles and therefore
// separate cache entries.
type Encoder struct {
	mu    sync.Mutex
	arena map[Handle]containers.Container
}

// NewEncoder returns an encoder with an empty arena
func NewEncoder() *Encoder {
	return &Encoder{arena: make(map[Handle]containers.Container)}
}

// DefaultEncoder is the process-wide encoder used by signed pods
var DefaultEncoder = NewEncoder()

// Encode reduces v to one field element, reusing cached containers
func (e *Encoder) Encode(v Value) (field.Element, error) {
	return e.encode(v, false)
}

// EncodeUncached is Encode without reading or writing the arena
func (e *Encoder) EncodeUncached(v Value) (field.Element, error) {
	return e.encode(v, true)
}

func (e *Encoder) encode(v Value, bypass bool) (field.Element, error) {
	switch tv := v.(type) {
	case String:
		return core.HashString(string(tv)), nil
	case Int:
		return core.FromInt64(int64(tv)), nil
	case Raw:
		return tv.Elem, nil
	case Composite:
		c, err := e.container(tv, bypass)
		if err != nil {
			return field.Zero, err
		}
		return c.Commitment(), nil
	case *DictBuilder, *ListBuilder:
		return field.Zero, core.Errorf(core.CodeMutableValue, "cannot encode a %s still under construction", v.Kind())
	case nil:
		return field.Zero, core.Errorf(core.CodeInvalidValue, "cannot encode a nil value")
	default:
		return field.Zero, core.Errorf(core.CodeInvalidValue, "cannot encode value of type %T", v)
	}
}

// Container returns the container for a composite, building it on a miss
func (e *Encoder) Container(c Composite) (containers.Container, error) {
	return e.container(c, false)
}

// Dictionary returns the Dictionary backing d
func (e *Encoder) Dictionary(d *Dict) (*containers.Dictionary, error) {
	c, err := e.container(d, false)
	if err != nil {
		return nil, err
	}
	return c.(*containers.Dictionary), nil
}

func (e *Encoder) container(c Composite, bypass bool) (containers.Container, error) {
	if !bypass {
		if cached, ok := e.lookup(c.Handle()); ok {
			return cached, nil
		}
	}

	built, err := e.build(c, bypass)
	if err != nil {
		return nil, err
	}

	if !bypass {
		e.mu.Lock()
		if cached, ok := e.arena[c.Handle()]; ok {
			built = cached
		} else {
			e.arena[c.Handle()] = built
		}
		e.mu.Unlock()
	}
	return built, nil
}

func (e *Encoder) build(c Composite, bypass bool) (containers.Container, error) {
	switch tc := c.(type) {
	case *Dict:
		entries := make([]containers.Entry, 0, tc.Len())
		var err error
		tc.Range(func(key string, v Value) bool {
			var enc field.Element
			enc, err = e.encode(v, bypass)
			if err != nil {
				return false
			}
			entries = append(entries, containers.Entry{Key: core.HashString(key), Value: enc})
			return true
		})
		if err != nil {
			return nil, err
		}
		return containers.NewDictionary(entries)
	case *Array:
		elems, err := e.encodeAll(tc.elems, bypass)
		if err != nil {
			return nil, err
		}
		return containers.NewArray(elems)
	case *Set:
		elems, err := e.encodeAll(tc.elems, bypass)
		if err != nil {
			return nil, err
		}
		return containers.NewSet(elems)
	default:
		return nil, core.Errorf(core.CodeInvalidValue, "unknown composite %T", c)
	}
}

func (e *Encoder) encodeAll(vs []Value, bypass bool) ([]field.Element, error) {
	out := make([]field.Element, len(vs))
	for i, v := range vs {
		enc, err := e.encode(v, bypass)
		if err != nil {
			return nil, err
		}
		out[i] = enc
	}
	return out, nil
}

func (e *Encoder) lookup(h Handle) (containers.Container, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	c, ok := e.arena[h]
	return c, ok
}

// Cached reports whether a container is held for h
func (e *Encoder) Cached(h Handle) bool {
	_, ok := e.lookup(h)
	return ok
}

// Invalidate drops the container held for h
func (e *Encoder) Invalidate(h Handle) {
	e.mu.Lock()
	delete(e.arena, h)
	e.mu.Unlock()
}

// Reset empties the arena
func (e *Encoder) Reset() {
	e.mu.Lock()
	e.arena = make(map[Handle]containers.Container)
	e.mu.Unlock()
}

// Len returns the number of cached containers
func (e *Encoder) Len() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.arena)
}

// Encode reduces v with DefaultEncoder
func Encode(v Value) (field.Element, error) {
	return DefaultEncoder.Encode(v)
}
