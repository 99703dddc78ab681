// Package irdoc reads IR documents: serialized method graphs lifted by an
// upstream decompiler pass, one document per class.
package irdoc

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"
)

// Format is the encoding of an IR document
type Format string

const (
	FormatYAML    Format = "yaml"
	FormatJSON    Format = "json"
	FormatMsgpack Format = "msgpack"
)

// ErrUnsupportedFormat is returned for files whose extension names no known encoding
var ErrUnsupportedFormat = errors.New("unsupported IR document format")

// Extensions lists the file extensions recognized as IR documents
var Extensions = []string{".yaml", ".yml", ".json", ".msgpack", ".mpk"}

// Document describes the method graphs of one class
type Document struct {
	Class   string   `yaml:"class" json:"class" msgpack:"class"`
	Methods []Method `yaml:"methods" json:"methods" msgpack:"methods"`

	// Path is the file the document was loaded from, if any
	Path string `yaml:"-" json:"-" msgpack:"-"`
}

// Method is the serialized graph of a single method
type Method struct {
	Name         string            `yaml:"name" json:"name" msgpack:"name"`
	Instructions []InstructionSpec `yaml:"instructions,omitempty" json:"instructions,omitempty" msgpack:"instructions,omitempty"`
	Nodes        []NodeSpec        `yaml:"nodes" json:"nodes" msgpack:"nodes"`
	Edges        []EdgeSpec        `yaml:"edges,omitempty" json:"edges,omitempty" msgpack:"edges,omitempty"`
	Entry        *int              `yaml:"entry,omitempty" json:"entry,omitempty" msgpack:"entry,omitempty"`
	Ranges       []RangeSpec       `yaml:"ranges,omitempty" json:"ranges,omitempty" msgpack:"ranges,omitempty"`
}

// InstructionSpec registers an instruction that may have no node of its own
type InstructionSpec struct {
	Position int    `yaml:"position" json:"position" msgpack:"position"`
	Opcode   string `yaml:"opcode,omitempty" json:"opcode,omitempty" msgpack:"opcode,omitempty"`
}

// NodeSpec is a serialized IR node. Value and Default apply to case nodes,
// Exception to catch nodes.
type NodeSpec struct {
	Position  int    `yaml:"position" json:"position" msgpack:"position"`
	Kind      string `yaml:"kind" json:"kind" msgpack:"kind"`
	Opcode    string `yaml:"opcode,omitempty" json:"opcode,omitempty" msgpack:"opcode,omitempty"`
	Value     *int64 `yaml:"value,omitempty" json:"value,omitempty" msgpack:"value,omitempty"`
	Default   bool   `yaml:"default,omitempty" json:"default,omitempty" msgpack:"default,omitempty"`
	Exception string `yaml:"exception,omitempty" json:"exception,omitempty" msgpack:"exception,omitempty"`
}

// EdgeSpec is a serialized edge between two node positions. Leg marks a
// branch leg.
type EdgeSpec struct {
	From int    `yaml:"from" json:"from" msgpack:"from"`
	To   int    `yaml:"to" json:"to" msgpack:"to"`
	Kind string `yaml:"kind,omitempty" json:"kind,omitempty" msgpack:"kind,omitempty"`
	Leg  *bool  `yaml:"leg,omitempty" json:"leg,omitempty" msgpack:"leg,omitempty"`
}

// RangeSpec names a block range by its boundary positions
type RangeSpec struct {
	Name  string `yaml:"name" json:"name" msgpack:"name"`
	Start int    `yaml:"start" json:"start" msgpack:"start"`
	End   int    `yaml:"end" json:"end" msgpack:"end"`
}

// FormatFromPath infers the document encoding from a file extension
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	case ".msgpack", ".mpk":
		return FormatMsgpack, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

// IsDocumentPath reports whether path has a recognized IR document extension
func IsDocumentPath(path string) bool {
	_, err := FormatFromPath(path)
	return err == nil
}

// Decode reads a single document in the given format
func Decode(r io.Reader, format Format) (*Document, error) {
	var doc Document
	var err error

	switch format {
	case FormatYAML:
		err = yaml.NewDecoder(r).Decode(&doc)
	case FormatJSON:
		err = json.NewDecoder(r).Decode(&doc)
	case FormatMsgpack:
		err = msgpack.NewDecoder(r).Decode(&doc)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("empty %s document", format)
		}
		return nil, fmt.Errorf("failed to decode %s document: %w", format, err)
	}
	if doc.Class == "" {
		return nil, fmt.Errorf("document has no class name")
	}
	return &doc, nil
}

// Encode writes doc in the given format
func Encode(w io.Writer, doc *Document, format Format) error {
	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return err
		}
		return enc.Close()
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	case FormatMsgpack:
		return msgpack.NewEncoder(w).Encode(doc)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// LoadFile reads and decodes the document at path
func LoadFile(path string) (*Document, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	doc, err := Decode(f, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	doc.Path = path
	return doc, nil
}

// Method returns the method with the given name, which may be qualified
// with the document class
func (d *Document) Method(name string) (Method, bool) {
	name = strings.TrimPrefix(name, d.Class+".")
	for _, m := range d.Methods {
		if m.Name == name {
			return m, true
		}
	}
	return Method{}, false
}

// QualifiedName returns "Class.method"
func (d *Document) QualifiedName(m Method) string {
	return d.Class + "." + m.Name
}
