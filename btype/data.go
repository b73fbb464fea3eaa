// Package btype holds the immutable type graph built by breflect from a
// file's SDNA: an append-only arena of Fundamental, Aggregate, Array,
// Pointer, and Function nodes, addressed by stable integer handles.
package btype

import "github.com/iancoleman/orderedmap"

// Kind is the canonical tag of a type-graph node: one of five concrete
// shapes a type can take.
type Kind uint8

const (
	KindFundamental Kind = iota
	KindAggregate
	KindArray
	KindPointer
	KindFunction
)

// Handle is a stable reference into an Arena. It never changes meaning once
// assigned, even though the node it names can be replaced in place (the
// fundamental-to-aggregate promotion breflect performs during struct
// resolution).
type Handle int

// NoHandle is returned where "no type" is a valid answer (e.g. a block with
// sdna_struct_index == 0).
const NoHandle Handle = -1

// Field is one member of an Aggregate, keyed by name in the aggregate's
// field table.
type Field struct {
	Offset int
	Name   string
	Type   Handle
}

// Node is a type-graph entry. Only the accessors matching Kind are
// meaningful; the others return zero values.
type Node struct {
	kind Kind
	name string
	size int

	// Aggregate: fields is an orderedmap.OrderedMap[string]Field. Using one
	// structure for both the ordered field sequence and the name lookup
	// table guarantees they can never disagree in membership — Keys() gives
	// the sequence, Get() gives the lookup, and there is nothing else to
	// keep in sync.
	fields *orderedmap.OrderedMap

	// Array
	element Handle
	count   int

	// Pointer
	pointee Handle
}

func (n Node) Kind() Kind { return n.kind }
func (n Node) Size() int  { return n.size }
func (n Node) Name() string { return n.name }

func (n Node) IsFundamental() bool { return n.kind == KindFundamental }
func (n Node) IsAggregate() bool   { return n.kind == KindAggregate }
func (n Node) IsArray() bool       { return n.kind == KindArray }
func (n Node) IsPointer() bool     { return n.kind == KindPointer }
func (n Node) IsFunction() bool    { return n.kind == KindFunction }

// IsPrimitive reports true for any node that isn't an aggregate, array, or
// pointer.
func (n Node) IsPrimitive() bool {
	return n.kind == KindFundamental || n.kind == KindFunction
}

// ElementHandle returns the array's element type handle. Valid only when
// IsArray().
func (n Node) ElementHandle() Handle { return n.element }

// Count returns the array's element count. Valid only when IsArray().
func (n Node) Count() int { return n.count }

// PointeeHandle returns the pointer's pointee type handle. Valid only when
// IsPointer().
func (n Node) PointeeHandle() Handle { return n.pointee }

// Fields returns the aggregate's fields in declaration order. Valid only
// when IsAggregate(); otherwise nil.
func (n Node) Fields() []Field {
	if n.fields == nil {
		return nil
	}
	keys := n.fields.Keys()
	out := make([]Field, 0, len(keys))
	for _, k := range keys {
		v, ok := n.fields.Get(k)
		if !ok {
			continue
		}
		out = append(out, v.(Field))
	}
	return out
}

// FieldByName looks up a field by name. Valid only when IsAggregate().
func (n Node) FieldByName(name string) (Field, bool) {
	if n.fields == nil {
		return Field{}, false
	}
	v, ok := n.fields.Get(name)
	if !ok {
		return Field{}, false
	}
	return v.(Field), true
}
