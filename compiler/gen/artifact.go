package gen

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"
)

// Artifact is the schema artifact handed to the client engine: the column
// projections of the included tables and the resolved relationships.
type Artifact struct {
	Tables        []*TableDescriptor `json:"tables"`
	Relationships *Relationships     `json:"relationships"`
}

// Encoding of an artifact.
type Encoding string

// Supported artifact encodings.
const (
	EncodingJSON    Encoding = "json"
	EncodingMsgpack Encoding = "msgpack"
)

// ParseEncoding parses an artifact encoding name.
func ParseEncoding(s string) (Encoding, error) {
	switch e := Encoding(s); e {
	case EncodingJSON, EncodingMsgpack:
		return e, nil
	}
	return "", NewConfigError("Encoding", s, "unsupported encoding; use json or msgpack")
}

// Encode writes the artifact to w. Encoding the same artifact twice yields
// the same bytes.
func (a *Artifact) Encode(w io.Writer, e Encoding) error {
	switch e {
	case EncodingJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(a)
	case EncodingMsgpack:
		enc := msgpack.NewEncoder(w)
		enc.SetSortMapKeys(true)
		enc.SetCustomStructTag("json")
		enc.UseCompactInts(true)
		return enc.Encode(a)
	default:
		return fmt.Errorf("relgraph: unsupported artifact encoding %q", e)
	}
}

// DecodeArtifact reads an artifact written by Encode.
func DecodeArtifact(r io.Reader, e Encoding) (*Artifact, error) {
	a := &Artifact{}
	switch e {
	case EncodingJSON:
		if err := json.NewDecoder(r).Decode(a); err != nil {
			return nil, fmt.Errorf("relgraph: decode json artifact: %w", err)
		}
	case EncodingMsgpack:
		dec := msgpack.NewDecoder(r)
		dec.SetCustomStructTag("json")
		if err := dec.Decode(a); err != nil {
			return nil, fmt.Errorf("relgraph: decode msgpack artifact: %w", err)
		}
	default:
		return nil, fmt.Errorf("relgraph: unsupported artifact encoding %q", e)
	}
	return a, nil
}
