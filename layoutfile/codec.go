// Package layoutfile reads and writes serialized layouts as JSON, YAML, CBOR
// or MessagePack blobs, and carries a few embedded sample layouts.
package layoutfile

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"

	"github.com/milk9111/seatgrid/layout"
)

var ErrUnknownFormat = errors.New("layoutfile: unknown format")

// Format is a blob encoding.
type Format int

const (
	FormatJSON Format = iota
	FormatYAML
	FormatCBOR
	FormatMsgpack
)

var formatNames = map[Format]string{
	FormatJSON:    "json",
	FormatYAML:    "yaml",
	FormatCBOR:    "cbor",
	FormatMsgpack: "msgpack",
}

func (f Format) String() string {
	if s, ok := formatNames[f]; ok {
		return s
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// Ext is the canonical file extension, with the dot.
func (f Format) Ext() string { return "." + f.String() }

// ParseFormat resolves a format name as used on the command line.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(name) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "cbor":
		return FormatCBOR, nil
	case "msgpack", "mpk", "mp":
		return FormatMsgpack, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownFormat, name)
}

// FormatFor picks a format from a file extension.
func FormatFor(path string) (Format, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return 0, fmt.Errorf("%w: %s has no extension", ErrUnknownFormat, path)
	}
	return ParseFormat(ext)
}

// Marshal encodes s in format f. JSON output is indented.
func Marshal(s layout.Serialized, f Format) ([]byte, error) {
	switch f {
	case FormatJSON:
		return json.MarshalIndent(s, "", "  ")
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(s); err != nil {
			return nil, fmt.Errorf("layoutfile: yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case FormatCBOR:
		data, err := cborEnc.Marshal(toWire(s))
		if err != nil {
			return nil, fmt.Errorf("layoutfile: cbor: %w", err)
		}
		return data, nil
	case FormatMsgpack:
		var buf bytes.Buffer
		enc := msgpack.NewEncoder(&buf)
		enc.SetCustomStructTag("json")
		enc.SetOmitEmpty(true)
		if err := enc.Encode(toWire(s)); err != nil {
			return nil, fmt.Errorf("layoutfile: msgpack: %w", err)
		}
		return buf.Bytes(), nil
	}
	return nil, fmt.Errorf("%w: %v", ErrUnknownFormat, f)
}

// Unmarshal decodes a blob in format f. The result is not validated; pass it
// through layout.Decode for that.
func Unmarshal(data []byte, f Format) (layout.Serialized, error) {
	var s layout.Serialized
	switch f {
	case FormatJSON:
		if err := json.Unmarshal(data, &s); err != nil {
			return s, fmt.Errorf("layoutfile: json: %w", err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &s); err != nil {
			return s, fmt.Errorf("layoutfile: yaml: %w", err)
		}
	case FormatCBOR:
		var w wire
		if err := cborDec.Unmarshal(data, &w); err != nil {
			return s, fmt.Errorf("layoutfile: cbor: %w", err)
		}
		s = w.serialized()
	case FormatMsgpack:
		var w wire
		dec := msgpack.NewDecoder(bytes.NewReader(data))
		dec.SetCustomStructTag("json")
		if err := dec.Decode(&w); err != nil {
			return s, fmt.Errorf("layoutfile: msgpack: %w", err)
		}
		s = w.serialized()
	default:
		return s, fmt.Errorf("%w: %v", ErrUnknownFormat, f)
	}
	return s, nil
}
