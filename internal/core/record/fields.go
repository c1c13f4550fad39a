package record

import (
	"encoding/json"
	"fmt"

	"github.com/zeusync/scenegraph/internal/core/identity"
)

// The accessors below normalize values produced by either text format:
// JSON yields float64 and []any, YAML yields int, float64 and []any.

// Text reads a string field.
func (r *Record) Text(key string) (string, error) {
	v, err := r.require(key)
	if err != nil {
		return "", err
	}
	s, ok := v.(string)
	if !ok {
		return "", r.fieldErr(key, "string", v)
	}
	return s, nil
}

func (r *Record) Bool(key string) (bool, error) {
	v, err := r.require(key)
	if err != nil {
		return false, err
	}
	b, ok := v.(bool)
	if !ok {
		return false, r.fieldErr(key, "bool", v)
	}
	return b, nil
}

func (r *Record) Float(key string) (float64, error) {
	v, err := r.require(key)
	if err != nil {
		return 0, err
	}
	f, ok := toFloat(v)
	if !ok {
		return 0, r.fieldErr(key, "number", v)
	}
	return f, nil
}

func (r *Record) Int(key string) (int, error) {
	f, err := r.Float(key)
	if err != nil {
		return 0, err
	}
	if f != float64(int(f)) {
		return 0, r.fieldErr(key, "integer", f)
	}
	return int(f), nil
}

// Floats reads a numeric tuple.
func (r *Record) Floats(key string) ([]float64, error) {
	v, err := r.require(key)
	if err != nil {
		return nil, err
	}
	switch t := v.(type) {
	case []float64:
		return append([]float64(nil), t...), nil
	case []any:
		out := make([]float64, len(t))
		for i, e := range t {
			f, ok := toFloat(e)
			if !ok {
				return nil, r.fieldErr(key, "number list", v)
			}
			out[i] = f
		}
		return out, nil
	default:
		return nil, r.fieldErr(key, "number list", v)
	}
}

// Ref reads a single reference; a null value yields nil.
func (r *Record) Ref(key string) (*identity.ID, error) {
	v, err := r.require(key)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, nil
	}
	s, ok := v.(string)
	if !ok {
		return nil, r.fieldErr(key, "id or null", v)
	}
	id, err := identity.Parse(s)
	if err != nil {
		return nil, &FieldError{Record: r.ID, Key: key, Err: err}
	}
	return &id, nil
}

// Refs reads an ordered list of references. Null elements are rejected.
func (r *Record) Refs(key string) ([]identity.ID, error) {
	v, err := r.require(key)
	if err != nil {
		return nil, err
	}
	var raw []string
	switch t := v.(type) {
	case nil:
		return nil, nil
	case []string:
		raw = t
	case []any:
		raw = make([]string, len(t))
		for i, e := range t {
			s, ok := e.(string)
			if !ok {
				return nil, r.fieldErr(key, "id list", v)
			}
			raw[i] = s
		}
	default:
		return nil, r.fieldErr(key, "id list", v)
	}
	ids := make([]identity.ID, len(raw))
	for i, s := range raw {
		id, err := identity.Parse(s)
		if err != nil {
			return nil, &FieldError{Record: r.ID, Key: key, Err: err}
		}
		ids[i] = id
	}
	return ids, nil
}

func (r *Record) require(key string) (any, error) {
	v, ok := r.Fields[key]
	if !ok {
		return nil, &FieldError{Record: r.ID, Key: key, Err: ErrMissingField}
	}
	return v, nil
}

func (r *Record) fieldErr(key, want string, got any) error {
	return &FieldError{
		Record: r.ID,
		Key:    key,
		Err:    fmt.Errorf("%w: want %s, got %T", ErrFieldType, want, got),
	}
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}
