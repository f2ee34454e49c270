package ir_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/modelir/modelir/ir"
)

func fp(v float64) *float64 { return &v }
func ip(v int) *int         { return &v }

func sampleDocument() *ir.Document {
	doc := ir.NewDocument()
	doc.Schemas["User"] = &ir.Node{
		Kind:  ir.KindModel,
		Model: "User",
		Fields: []ir.Field{
			{
				Name:     "name",
				Required: true,
				Alias:    "userName",
				Schema: &ir.Node{
					Kind:        ir.KindString,
					Constraints: &ir.Constraints{MinLength: ip(1), Pattern: "^[a-z]+$"},
				},
			},
			{
				Name:       "bio",
				Default:    "n/a",
				HasDefault: true,
				Schema:     &ir.Node{Kind: ir.KindString},
			},
			{
				Name: "score",
				Schema: &ir.Node{
					Kind:        ir.KindFloat,
					Constraints: &ir.Constraints{Ge: fp(0), Le: fp(100)},
				},
			},
			{
				Name: "pet",
				Schema: &ir.Node{
					Kind:          ir.KindTagged,
					Discriminator: "kind",
					Mapping: map[string]*ir.Node{
						"cat": {Kind: ir.KindRef, Ref: "Cat"},
						"dog": {Kind: ir.KindRef, Ref: "Dog"},
					},
				},
			},
		},
		Computed: []ir.ComputedField{
			{Name: "display", Return: &ir.Node{Kind: ir.KindString}, Repr: true},
		},
	}
	doc.Schemas["Tags"] = &ir.Node{
		Kind: ir.KindList,
		Item: &ir.Node{Kind: ir.KindString},
	}
	return doc
}

func TestDocument_RoundTrip(t *testing.T) {
	doc := sampleDocument()
	data, err := ir.EncodeDocument(doc)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := ir.DecodeDocument(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if diff := cmp.Diff(doc, got); diff != "" {
		t.Fatalf("document mismatch (-want +got):\n%s", diff)
	}
}

func TestEncodeDocument_StampsVersion(t *testing.T) {
	data, err := ir.EncodeDocument(&ir.Document{Schemas: map[string]*ir.Node{}})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if !strings.Contains(string(data), ir.Version) {
		t.Fatalf("expected stamped version in %s", data)
	}
}

func TestDecodeDocument_VersionMismatch(t *testing.T) {
	_, err := ir.DecodeDocument([]byte(`{"version":"modelir/v0","schemas":{}}`))
	if err == nil || !strings.Contains(err.Error(), "version") {
		t.Fatalf("expected version error, got %v", err)
	}
}

func TestDecodeDocument_UnknownKind(t *testing.T) {
	_, err := ir.DecodeDocument([]byte(`{"version":"modelir/v1","schemas":{"X":{"kind":"quantum"}}}`))
	if err == nil || !strings.Contains(err.Error(), "quantum") {
		t.Fatalf("expected unknown kind error, got %v", err)
	}
	_, err = ir.DecodeDocument([]byte(`{"version":"modelir/v1","schemas":{"X":{"kind":"list","item":{}}}}`))
	if err == nil {
		t.Fatalf("expected missing kind error")
	}
}

func TestHasUnresolved(t *testing.T) {
	clean := &ir.Node{
		Kind: ir.KindMap,
		Key:  &ir.Node{Kind: ir.KindString},
		Value: &ir.Node{
			Kind: ir.KindRef, Ref: "Other",
		},
	}
	if ir.HasUnresolved(clean) {
		t.Fatalf("resolved reference flagged as pending")
	}
	pending := &ir.Node{
		Kind: ir.KindUnion,
		Members: []*ir.Node{
			{Kind: ir.KindInt},
			{Kind: ir.KindList, Item: &ir.Node{Kind: ir.KindRef, Ref: "Later", Unresolved: true}},
		},
	}
	if !ir.HasUnresolved(pending) {
		t.Fatalf("nested pending reference not detected")
	}
}
