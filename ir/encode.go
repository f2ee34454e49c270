package ir

import (
	"fmt"

	j "github.com/goccy/go-json"
)

// Document is the versioned envelope handed to the external engine: the IR
// of every schema in a registry, keyed by model name.
type Document struct {
	Version string           `json:"version"`
	Schemas map[string]*Node `json:"schemas"`
}

// NewDocument returns an empty document stamped with the current Version.
func NewDocument() *Document {
	return &Document{Version: Version, Schemas: map[string]*Node{}}
}

// EncodeDocument serializes a document. A document with a missing version is
// stamped with the current one.
func EncodeDocument(d *Document) ([]byte, error) {
	if d == nil {
		return nil, fmt.Errorf("ir: nil document")
	}
	if d.Version == "" {
		cp := *d
		cp.Version = Version
		d = &cp
	}
	return j.MarshalIndent(d, "", "  ")
}

// DecodeDocument parses a document and verifies its version and node kinds.
func DecodeDocument(data []byte) (*Document, error) {
	var d Document
	if err := j.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("ir: decode: %w", err)
	}
	if d.Version != Version {
		return nil, fmt.Errorf("ir: unsupported document version %q (want %q)", d.Version, Version)
	}
	for name, n := range d.Schemas {
		if err := validate(n); err != nil {
			return nil, fmt.Errorf("ir: schema %q: %w", name, err)
		}
	}
	return &d, nil
}

var knownKinds = map[Kind]struct{}{
	KindAny: {}, KindString: {}, KindInt: {}, KindFloat: {}, KindBool: {},
	KindBytes: {}, KindList: {}, KindMap: {}, KindUnion: {}, KindTagged: {},
	KindModel: {}, KindRef: {}, KindFunction: {},
}

func validate(n *Node) error {
	var err error
	Walk(n, func(m *Node) bool {
		if m.Kind == "" {
			err = fmt.Errorf("node missing kind")
			return false
		}
		if _, ok := knownKinds[m.Kind]; !ok {
			err = fmt.Errorf("unknown node kind %q", m.Kind)
			return false
		}
		return true
	})
	return err
}
