package btype

import "github.com/iancoleman/orderedmap"

// Arena is an append-only store of type-graph nodes. Handles are stable
// across the lifetime of an Arena: NewFundamental/NewAggregatePlaceholder
// hand out a Handle immediately, and ResolveAggregate later overwrites that
// slot in place without changing what the handle refers to. This mirrors
// breflect's two-pass build: pass one seeds a Fundamental node per SDNA type
// slot, pass two promotes the struct slots to Aggregate in place so that any
// field already pointing at that Handle sees the resolved type.
type Arena struct {
	nodes []Node
}

// NewArena returns an empty arena.
func NewArena() *Arena {
	return &Arena{}
}

// Get returns the node at handle. Panics on an out-of-range handle, the same
// contract a Go slice index gives — an arena handle from a different arena,
// or one built before its target was resolved, is a programmer error.
func (a *Arena) Get(h Handle) Node {
	return a.nodes[h]
}

// Len returns the number of nodes in the arena.
func (a *Arena) Len() int {
	return len(a.nodes)
}

// NewFundamental appends a Fundamental node and returns its handle.
func (a *Arena) NewFundamental(name string, size int) Handle {
	h := Handle(len(a.nodes))
	a.nodes = append(a.nodes, Node{kind: KindFundamental, name: name, size: size})
	return h
}

// NewAggregatePlaceholder appends an empty Aggregate node, to be filled in
// later by ResolveAggregate once its field types are known. This lets
// breflect hand out a stable Handle for a struct before its fields (which
// may reference the struct itself, directly or through a pointer) have been
// parsed.
func (a *Arena) NewAggregatePlaceholder(name string) Handle {
	h := Handle(len(a.nodes))
	a.nodes = append(a.nodes, Node{kind: KindAggregate, name: name, fields: orderedmap.New()})
	return h
}

// ResolveAggregate fills in an Aggregate node's fields and size in place.
func (a *Arena) ResolveAggregate(h Handle, size int, fields []Field) {
	om := orderedmap.New()
	for _, f := range fields {
		om.Set(f.Name, f)
	}
	a.nodes[h] = Node{kind: KindAggregate, name: a.nodes[h].name, size: size, fields: om}
}

// NewArray appends an Array node and returns its handle.
func (a *Arena) NewArray(element Handle, count, elementSize int) Handle {
	h := Handle(len(a.nodes))
	a.nodes = append(a.nodes, Node{
		kind:    KindArray,
		size:    count * elementSize,
		element: element,
		count:   count,
	})
	return h
}

// NewPointer appends a Pointer node and returns its handle.
func (a *Arena) NewPointer(pointee Handle, pointerSize int) Handle {
	h := Handle(len(a.nodes))
	a.nodes = append(a.nodes, Node{kind: KindPointer, size: pointerSize, pointee: pointee})
	return h
}

// NewFunction appends a Function node (a function pointer field's type,
// which cblend treats as an opaque pointer-sized value) and returns its
// handle.
func (a *Arena) NewFunction(pointerSize int) Handle {
	h := Handle(len(a.nodes))
	a.nodes = append(a.nodes, Node{kind: KindFunction, name: "()", size: pointerSize})
	return h
}
