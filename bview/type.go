package bview

import "github.com/cblend/cblend-go/btype"

// TypeView wraps one type-graph node together with the context needed to
// slice block bytes and resolve pointers through it.
type TypeView struct {
	ctx    *Context
	handle btype.Handle
}

// NewType wraps handle in ctx. Callers normally reach a TypeView through
// Blend.Type/Blend.BlockType or a FieldView's FieldType, not directly.
func NewType(ctx *Context, handle btype.Handle) TypeView {
	return TypeView{ctx: ctx, handle: handle}
}

// Handle returns the wrapped arena handle, for callers (bquery) that need
// to build further TypeViews without re-deriving them from field lookups.
func (v TypeView) Handle() btype.Handle { return v.handle }

func (v TypeView) node() btype.Node { return v.ctx.Arena.Get(v.handle) }

// IsStruct reports whether this type is an aggregate.
func (v TypeView) IsStruct() bool { return v.node().IsAggregate() }

// IsArray reports whether this type is a fixed-size array.
func (v TypeView) IsArray() bool { return v.node().IsArray() }

// IsPointer reports whether this type is a pointer.
func (v TypeView) IsPointer() bool { return v.node().IsPointer() }

// IsPrimitive reports whether this type is a fundamental or function type —
// anything that isn't an aggregate, array, or pointer.
func (v TypeView) IsPrimitive() bool { return v.node().IsPrimitive() }

// Size returns the type's in-memory size per the type graph.
func (v TypeView) Size() int { return v.node().Size() }

// HasElementType reports whether ElementType would succeed.
func (v TypeView) HasElementType() bool {
	n := v.node()
	return n.IsArray() || n.IsPointer()
}

// ElementType returns the array's element type or the pointer's pointee
// type. Any other kind returns the zero TypeView and false.
func (v TypeView) ElementType() (TypeView, bool) {
	n := v.node()
	switch {
	case n.IsArray():
		return TypeView{ctx: v.ctx, handle: n.ElementHandle()}, true
	case n.IsPointer():
		return TypeView{ctx: v.ctx, handle: n.PointeeHandle()}, true
	default:
		return TypeView{}, false
	}
}

// Fields returns the aggregate's fields in declaration order. Any other
// kind returns nil.
func (v TypeView) Fields() []FieldView {
	n := v.node()
	if !n.IsAggregate() {
		return nil
	}
	fields := n.Fields()
	out := make([]FieldView, 0, len(fields))
	for _, f := range fields {
		out = append(out, FieldView{ctx: v.ctx, declaring: v, field: f})
	}
	return out
}

// Field looks up one aggregate field by name. Any other kind, or an unknown
// name, returns the zero FieldView and false.
func (v TypeView) Field(name string) (FieldView, bool) {
	n := v.node()
	if !n.IsAggregate() {
		return FieldView{}, false
	}
	f, ok := n.FieldByName(name)
	if !ok {
		return FieldView{}, false
	}
	return FieldView{ctx: v.ctx, declaring: v, field: f}, true
}
