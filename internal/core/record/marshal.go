package record

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// MarshalJSON writes type, id and name first, then the remaining fields in
// key order, so equal records always produce equal bytes.
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	write := func(key string, value any) error {
		if buf.Len() > 1 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return err
		}
		v, err := json.Marshal(value)
		if err != nil {
			return fmt.Errorf("field %q: %w", key, err)
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
		return nil
	}

	if err := write(KeyType, r.Type); err != nil {
		return nil, err
	}
	if err := write(KeyID, r.ID); err != nil {
		return nil, err
	}
	if err := write(KeyName, r.Name); err != nil {
		return nil, err
	}
	for _, key := range r.Keys() {
		if err := write(key, r.Fields[key]); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (r *Record) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	return r.fromMap(raw)
}

// MarshalYAML emits an ordered mapping; numeric tuples and id lists use flow
// style.
func (r Record) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	add := func(key string, value any) error {
		vn := &yaml.Node{}
		if err := vn.Encode(value); err != nil {
			return fmt.Errorf("field %q: %w", key, err)
		}
		if vn.Kind == yaml.SequenceNode {
			vn.Style = yaml.FlowStyle
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key},
			vn,
		)
		return nil
	}

	if err := add(KeyType, r.Type); err != nil {
		return nil, err
	}
	if err := add(KeyID, r.ID); err != nil {
		return nil, err
	}
	if err := add(KeyName, r.Name); err != nil {
		return nil, err
	}
	for _, key := range r.Keys() {
		if err := add(key, r.Fields[key]); err != nil {
			return nil, err
		}
	}
	return node, nil
}

func (r *Record) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("%w: expected mapping at line %d", ErrMalformed, value.Line)
	}
	var raw map[string]any
	if err := value.Decode(&raw); err != nil {
		return err
	}
	return r.fromMap(raw)
}

func (r *Record) fromMap(raw map[string]any) error {
	tag, ok := raw[KeyType].(string)
	if !ok || tag == "" {
		return fmt.Errorf("%w: missing %q", ErrMalformed, KeyType)
	}
	id, ok := raw[KeyID].(string)
	if !ok {
		return fmt.Errorf("%w: record of type %s has no %q", ErrMalformed, tag, KeyID)
	}
	var name string
	if v, present := raw[KeyName]; present && v != nil {
		if name, ok = v.(string); !ok {
			return fmt.Errorf("%w: record %s: %q must be a string", ErrMalformed, id, KeyName)
		}
	}

	delete(raw, KeyType)
	delete(raw, KeyID)
	delete(raw, KeyName)

	r.Type = tag
	r.ID = id
	r.Name = name
	r.Fields = raw
	r.linked = nil
	return nil
}
