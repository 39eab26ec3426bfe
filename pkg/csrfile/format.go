package csrfile

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Format identifies a document grammar.
type Format uint8

const (
	// FormatAuto selects the format from the file extension.
	FormatAuto Format = iota
	// FormatJSON is the JSON description format.
	FormatJSON
	// FormatYAML is the YAML description format.
	FormatYAML
	// FormatCBOR is a compact binary snapshot with the same schema.
	FormatCBOR
)

// String returns the format name.
func (f Format) String() string {
	switch f {
	case FormatAuto:
		return "auto"
	case FormatJSON:
		return "json"
	case FormatYAML:
		return "yaml"
	case FormatCBOR:
		return "cbor"
	default:
		return fmt.Sprintf("format(%d)", uint8(f))
	}
}

// Extension returns the preferred file extension, including the dot.
func (f Format) Extension() string {
	switch f {
	case FormatJSON:
		return ".json"
	case FormatYAML:
		return ".yaml"
	case FormatCBOR:
		return ".cbor"
	default:
		return ""
	}
}

// ParseFormat parses a format name as accepted on the command line.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return FormatAuto, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "cbor":
		return FormatCBOR, nil
	}
	return FormatAuto, fmt.Errorf("%w: %q (use json, yaml or cbor)", ErrFormat, s)
}

// FormatFromPath selects the format from the extension of path.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".cbor":
		return FormatCBOR, nil
	}
	return FormatAuto, fmt.Errorf("%w: cannot tell format of %q from its extension", ErrFormat, path)
}

// resolve returns f, or the format implied by path when f is FormatAuto.
func (f Format) resolve(path string) (Format, error) {
	if f != FormatAuto {
		return f, nil
	}
	return FormatFromPath(path)
}

func (f Format) grammar() (grammar, error) {
	switch f {
	case FormatJSON:
		return jsonGrammar{}, nil
	case FormatYAML:
		return yamlGrammar{}, nil
	case FormatCBOR:
		return cborGrammar{}, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrFormat, f)
}
