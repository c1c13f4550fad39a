package codec

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format is one interchangeable text representation of an envelope.
type Format interface {
	Name() string
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
}

var (
	// JSON is the compact single-line form.
	JSON Format = jsonFormat{}
	// JSONIndent is the human-readable JSON form.
	JSONIndent Format = jsonFormat{indent: true}
	// YAML is the human-readable YAML form.
	YAML Format = yamlFormat{}
)

// Formats lists the supported formats by name.
func Formats() []Format {
	return []Format{JSON, JSONIndent, YAML}
}

// FormatByName resolves a config or flag value.
func FormatByName(name string) (Format, error) {
	switch strings.ToLower(name) {
	case "json", "":
		return JSON, nil
	case "json-indent", "pretty":
		return JSONIndent, nil
	case "yaml", "yml":
		return YAML, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, name)
	}
}

// DetectFormat guesses the format of data. Indented JSON is reported as
// JSON; both decode identically.
func DetectFormat(data []byte) Format {
	trimmed := bytes.TrimPrefix(data, utf8BOM)
	trimmed = bytes.TrimLeft(trimmed, " \t\r\n")
	if len(trimmed) > 0 && trimmed[0] == '{' {
		return JSON
	}
	return YAML
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Marshal renders an envelope in f.
func Marshal(f Format, envelope any) ([]byte, error) {
	return f.Marshal(envelope)
}

// Unmarshal parses an envelope without building objects, detecting the
// format. It is meant for tooling that inspects records.
func Unmarshal(data []byte, envelope any) error {
	f := DetectFormat(data)
	if err := f.Unmarshal(data, envelope); err != nil {
		return &ParseError{Format: f.Name(), Err: err}
	}
	return nil
}

type jsonFormat struct {
	indent bool
}

func (f jsonFormat) Name() string {
	if f.indent {
		return "json-indent"
	}
	return "json"
}

func (f jsonFormat) Marshal(v any) ([]byte, error) {
	if f.indent {
		return json.MarshalIndent(v, "", "  ")
	}
	return json.Marshal(v)
}

func (f jsonFormat) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

type yamlFormat struct{}

func (yamlFormat) Name() string {
	return "yaml"
}

func (yamlFormat) Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (yamlFormat) Unmarshal(data []byte, v any) error {
	return yaml.Unmarshal(data, v)
}
