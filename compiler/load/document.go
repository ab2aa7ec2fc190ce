package load

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Document is a schema description file: the tables, their relation
// declarations and the inclusion configuration.
type Document struct {
	// Casing directive for deriving storage names from column keys.
	Casing string    `json:"casing,omitempty" yaml:"casing,omitempty" toml:"casing,omitempty" validate:"omitempty,oneof=none snake camel"`
	Tables []*Schema `json:"tables" yaml:"tables" toml:"tables" validate:"dive,required"`
	// Include is the raw inclusion configuration. It is normalized by
	// gen.ParseInclusion; nil means every table is included.
	Include map[string]any `json:"include,omitempty" yaml:"include,omitempty" toml:"include,omitempty"`
}

// Format of a schema document.
type Format string

// Supported document formats.
const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
)

// FormatOf returns the document format implied by a file extension.
func FormatOf(path string) (Format, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", fmt.Errorf("load: unsupported document extension %q", ext)
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Parse decodes and validates a schema document.
func Parse(data []byte, format Format) (*Document, error) {
	doc := &Document{}
	var err error
	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(data, doc)
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		err = dec.Decode(doc)
	case FormatTOML:
		err = toml.Unmarshal(data, doc)
	default:
		return nil, fmt.Errorf("load: unsupported document format %q", format)
	}
	if err != nil {
		return nil, fmt.Errorf("load: decode %s document: %w", format, err)
	}
	if err := validate.Struct(doc); err != nil {
		return nil, fmt.Errorf("load: invalid document: %w", err)
	}
	return doc, nil
}

// ParseFile reads and parses the schema document at path.
func ParseFile(path string) (*Document, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load: read document: %w", err)
	}
	return Parse(data, format)
}
