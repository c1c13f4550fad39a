// Package codec turns a live scene graph into a flat, versioned envelope of
// records and back.
//
// Encoding walks the declared roots depth-first in pre-order; every reachable
// object is written exactly once and every edge becomes an id string.
// Decoding gates on the exact version, constructs every record through the
// type registry, queues reference fields on a resolver, resolves them in one
// pass and finally rebuilds the root list in declared order. A failed decode
// returns no graph at all.
package codec

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/zeusync/scenegraph/internal/core/record"
)

// SupportedVersion is the only envelope version accepted by Decoder.
const SupportedVersion Version = "1.0"

// Version is the envelope version as written. A bare number decodes to its
// literal text in both formats, so 2.0 is read as "2.0".
type Version string

func (v *Version) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*v = ""
		return nil
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = Version(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("version: %w", err)
	}
	*v = Version(n)
	return nil
}

// Envelope kinds.
const (
	KindScene  = "scene"
	KindEntity = "entity"
)

// Header holds the fields inspected before any record is decoded.
type Header struct {
	Version Version `json:"version" yaml:"version"`
	Kind    string  `json:"kind" yaml:"kind"`
}

// SceneEnvelope persists a scene: its metadata, ordered root ids and the
// flat record list.
type SceneEnvelope struct {
	Version    Version          `json:"version" yaml:"version"`
	Kind       string           `json:"kind" yaml:"kind"`
	Name       string           `json:"name" yaml:"name"`
	Path       string           `json:"path" yaml:"path"`
	BuildIndex int              `json:"buildIndex" yaml:"buildIndex"`
	RootIDs    []string         `json:"rootIds" yaml:"rootIds"`
	Records    []*record.Record `json:"records" yaml:"records"`
}

// EntityEnvelope persists a single entity subtree.
type EntityEnvelope struct {
	Version Version          `json:"version" yaml:"version"`
	Kind    string           `json:"kind" yaml:"kind"`
	RootID  string           `json:"rootId" yaml:"rootId"`
	Records []*record.Record `json:"records" yaml:"records"`
}
