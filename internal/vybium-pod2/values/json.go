package values

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/vybium/vybium-pod2/internal/vybium-pod2/core"
)

const (
	setTag   = "$set"
	fieldTag = "$field"
	dictTag  = "$dict"
)

// ToJSON converts v to its wire form: dicts are objects, arrays are arrays,
// sets are {"$set": [...]}, raw elements are {"$field": "<decimal>"}. A dict
// whose only key is one of the tags is wrapped as {"$dict": {...}}.
func ToJSON(v Value) (any, error) {
	switch tv := v.(type) {
	case String:
		return string(tv), nil
	case Int:
		return int64(tv), nil
	case Raw:
		return map[string]string{fieldTag: core.FormatElement(tv.Elem)}, nil
	case *Dict:
		out := make(map[string]any, tv.Len())
		var err error
		tv.Range(func(key string, inner Value) bool {
			out[key], err = ToJSON(inner)
			return err == nil
		})
		if err != nil {
			return nil, err
		}
		if len(out) == 1 && isTag(tv.keys[0]) {
			return map[string]any{dictTag: out}, nil
		}
		return out, nil
	case *Array:
		return listToJSON(tv.elems)
	case *Set:
		elems, err := listToJSON(tv.elems)
		if err != nil {
			return nil, err
		}
		return map[string]any{setTag: elems}, nil
	case *DictBuilder, *ListBuilder:
		return nil, core.Errorf(core.CodeMutableValue, "cannot serialise a %s still under construction", v.Kind())
	default:
		return nil, core.Errorf(core.CodeInvalidValue, "cannot serialise value of type %T", v)
	}
}

func isTag(key string) bool {
	return key == setTag || key == fieldTag || key == dictTag
}

func listToJSON(vs []Value) ([]any, error) {
	out := make([]any, len(vs))
	for i, v := range vs {
		j, err := ToJSON(v)
		if err != nil {
			return nil, err
		}
		out[i] = j
	}
	return out, nil
}

// MarshalJSON encodes v in wire form
func MarshalJSON(v Value) ([]byte, error) {
	j, err := ToJSON(v)
	if err != nil {
		return nil, err
	}
	return json.Marshal(j)
}

// UnmarshalJSON decodes a wire-form value
func UnmarshalJSON(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, core.Wrap(core.CodeInvalidValue, "malformed value json", err)
	}
	return FromJSON(raw)
}

// FromJSON converts a decoded JSON tree (numbers as json.Number or float64)
// into a Value
func FromJSON(raw any) (Value, error) {
	switch tv := raw.(type) {
	case string:
		return String(tv), nil
	case json.Number:
		n, err := strconv.ParseInt(tv.String(), 10, 64)
		if err != nil {
			return nil, core.Wrap(core.CodeInvalidValue, fmt.Sprintf("number %s is not a 64-bit integer", tv), err)
		}
		return Int(n), nil
	case float64:
		if tv != float64(int64(tv)) {
			return nil, core.Errorf(core.CodeInvalidValue, "number %v is not an integer", tv)
		}
		return Int(int64(tv)), nil
	case int:
		return Int(tv), nil
	case int64:
		return Int(tv), nil
	case []any:
		elems, err := listFromJSON(tv)
		if err != nil {
			return nil, err
		}
		return NewArray(elems...), nil
	case map[string]any:
		if len(tv) == 1 {
			if members, ok := tv[setTag]; ok {
				list, ok := members.([]any)
				if !ok {
					return nil, core.Errorf(core.CodeInvalidValue, "%s must hold an array", setTag)
				}
				elems, err := listFromJSON(list)
				if err != nil {
					return nil, err
				}
				return NewSet(elems...), nil
			}
			if s, ok := tv[fieldTag]; ok {
				str, ok := s.(string)
				if !ok {
					return nil, core.Errorf(core.CodeInvalidValue, "%s must hold a decimal string", fieldTag)
				}
				e, err := core.ParseElement(str)
				if err != nil {
					return nil, err
				}
				return Raw{Elem: e}, nil
			}
			if inner, ok := tv[dictTag]; ok {
				obj, ok := inner.(map[string]any)
				if !ok {
					return nil, core.Errorf(core.CodeInvalidValue, "%s must hold an object", dictTag)
				}
				tv = obj
			}
		}
		m := make(map[string]Value, len(tv))
		for k, inner := range tv {
			v, err := FromJSON(inner)
			if err != nil {
				return nil, err
			}
			m[k] = v
		}
		return NewDict(m), nil
	default:
		return nil, core.Errorf(core.CodeInvalidValue, "unsupported json value %T", raw)
	}
}

func listFromJSON(list []any) ([]Value, error) {
	out := make([]Value, len(list))
	for i, inner := range list {
		v, err := FromJSON(inner)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
