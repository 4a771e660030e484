// Package treefile reads the syntax tree documents produced by the external
// parser. A document is a tagged node tree encoded as JSON or msgpack.
package treefile

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
)

// SchemaVersion is the newest document layout this package understands.
const SchemaVersion = 1

var (
	ErrUnknownFormat = errors.New("unknown tree document format")
	ErrUnknownKind   = errors.New("unknown node kind")
	ErrMalformed     = errors.New("malformed tree document")
)

// Format selects the document encoding.
type Format uint8

const (
	FormatJSON Format = iota
	FormatMsgpack
)

func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatMsgpack:
		return "msgpack"
	default:
		return "unknown"
	}
}

// FormatFromPath picks the encoding by file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".msgpack", ".mp":
		return FormatMsgpack, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownFormat, filepath.Ext(path))
	}
}

// IsTreePath reports whether path has a tree document extension.
func IsTreePath(path string) bool {
	_, err := FormatFromPath(path)
	return err == nil
}

// Document is the top-level envelope.
type Document struct {
	Version int    `json:"version,omitempty" msgpack:"version,omitempty"`
	File    string `json:"file,omitempty" msgpack:"file,omitempty"`
	Source  string `json:"source,omitempty" msgpack:"source,omitempty"`
	Module  *Node  `json:"module" msgpack:"module"`
}

// Node is one tagged tree node. Which fields are meaningful depends on Kind.
type Node struct {
	Kind    string    `json:"kind" msgpack:"kind"`
	Span    []uint32  `json:"span,omitempty" msgpack:"span,omitempty"`
	Name    string    `json:"name,omitempty" msgpack:"name,omitempty"`
	Base    []string  `json:"base,omitempty" msgpack:"base,omitempty"`
	Uses    []*Node   `json:"uses,omitempty" msgpack:"uses,omitempty"`
	Params  []*Node   `json:"params,omitempty" msgpack:"params,omitempty"`
	Body    []*Node   `json:"body,omitempty" msgpack:"body,omitempty"`
	Else    []*Node   `json:"else,omitempty" msgpack:"else,omitempty"`
	HasElse bool      `json:"has_else,omitempty" msgpack:"has_else,omitempty"`
	Value   *Node     `json:"value,omitempty" msgpack:"value,omitempty"`
	Target  *Node     `json:"target,omitempty" msgpack:"target,omitempty"`
	Key     *Node     `json:"key,omitempty" msgpack:"key,omitempty"`
	Cond    *Node     `json:"cond,omitempty" msgpack:"cond,omitempty"`
	Left    *Node     `json:"left,omitempty" msgpack:"left,omitempty"`
	Right   *Node     `json:"right,omitempty" msgpack:"right,omitempty"`
	Op      string    `json:"op,omitempty" msgpack:"op,omitempty"`
	Args    []*Node   `json:"args,omitempty" msgpack:"args,omitempty"`
	Items   []*Node   `json:"items,omitempty" msgpack:"items,omitempty"`
	Clauses []*Clause `json:"clauses,omitempty" msgpack:"clauses,omitempty"`
	Lit     string    `json:"lit,omitempty" msgpack:"lit,omitempty"`
}

// Clause is one `case pattern: body` arm of a match statement.
type Clause struct {
	Span []uint32 `json:"span,omitempty" msgpack:"span,omitempty"`
	Test *Node    `json:"test" msgpack:"test"`
	Body []*Node  `json:"body,omitempty" msgpack:"body,omitempty"`
}

// Decode parses data in the given format.
func Decode(data []byte, format Format) (*Document, error) {
	var doc Document
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&doc); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
		}
	case FormatMsgpack:
		if err := msgpack.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
		}
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownFormat, format)
	}
	if doc.Version > SchemaVersion {
		return nil, fmt.Errorf("%w: schema version %d is newer than %d", ErrMalformed, doc.Version, SchemaVersion)
	}
	if doc.Module == nil {
		return nil, fmt.Errorf("%w: missing module", ErrMalformed)
	}
	return &doc, nil
}

// Encode writes doc in the given format.
func Encode(doc *Document, format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		return json.MarshalIndent(doc, "", "  ")
	case FormatMsgpack:
		return msgpack.Marshal(doc)
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownFormat, format)
	}
}
