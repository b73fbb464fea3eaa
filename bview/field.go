package bview

import (
	"unsafe"

	"github.com/cblend/cblend-go/btype"
)

// FieldView is one resolved field of an aggregate: its name, declaring
// type, field type, and the offset/size needed to slice a block's bytes.
type FieldView struct {
	ctx       *Context
	declaring TypeView
	field     btype.Field
}

// Name returns the field's bare identifier (pointer/array syntax already
// stripped by breflect).
func (f FieldView) Name() string { return f.field.Name }

// Offset returns the field's byte offset within its declaring aggregate.
func (f FieldView) Offset() int { return f.field.Offset }

// Size returns the field's in-memory size, taken from its resolved type.
func (f FieldView) Size() int { return f.fieldTypeNode().Size() }

// DeclaringType returns the aggregate this field was looked up on.
func (f FieldView) DeclaringType() TypeView { return f.declaring }

// FieldType returns this field's own type.
func (f FieldView) FieldType() TypeView { return TypeView{ctx: f.ctx, handle: f.field.Type} }

func (f FieldView) fieldTypeNode() btype.Node { return f.ctx.Arena.Get(f.field.Type) }

// Data returns the field's raw bytes sliced out of data (the declaring
// aggregate's bytes), or nil if the slice doesn't cover offset+size.
func (f FieldView) Data(data []byte) []byte {
	start := f.field.Offset
	size := f.Size()
	end := start + size
	if start < 0 || size < 0 || end > len(data) {
		return nil
	}
	return data[start:end]
}

// PointerData resolves this field's pointer value (read out of data,
// decoded honouring the file's declared endianness) through the memory
// table, returning the pointee's bytes. Meaningless for a non-pointer
// field, which always returns nil.
func (f FieldView) PointerData(data []byte) []byte {
	fieldType := f.fieldTypeNode()
	if !fieldType.IsPointer() {
		return nil
	}
	raw := f.Data(data)
	if raw == nil {
		return nil
	}
	pointee := f.ctx.Arena.Get(fieldType.PointeeHandle())
	return f.ctx.ResolvePointer(raw, pointee.Size())
}

// bitCast copies data into a freshly allocated T and reinterprets it,
// reading through an aligned temporary rather than casting the (possibly
// misaligned) source slice directly. Callers must have already checked
// len(data) == unsafe.Sizeof(zero value of T).
func bitCast[T any](data []byte) T {
	var value T
	dst := unsafe.Slice((*byte)(unsafe.Pointer(&value)), len(data))
	copy(dst, data)
	return value
}

// Value reads this field's bytes out of data and bit-casts them to T. It
// fails (returns the zero value and false) unless sizeof(T) exactly equals
// the field's size.
func Value[T any](f FieldView, data []byte) (T, bool) {
	var zero T
	raw := f.Data(data)
	if raw == nil || len(raw) != int(unsafe.Sizeof(zero)) {
		return zero, false
	}
	return bitCast[T](raw), true
}

// Pointer resolves this field's pointer value and returns a fresh *T
// holding the pointee's bytes, bit-cast. Fails unless the field is a
// pointer and sizeof(T) exactly equals the pointee's size.
func Pointer[T any](f FieldView, data []byte) (*T, bool) {
	var zero T
	fieldType := f.fieldTypeNode()
	if !fieldType.IsPointer() {
		return nil, false
	}
	pointee := f.ctx.Arena.Get(fieldType.PointeeHandle())
	if pointee.Size() != int(unsafe.Sizeof(zero)) {
		return nil, false
	}
	raw := f.PointerData(data)
	if raw == nil || len(raw) != int(unsafe.Sizeof(zero)) {
		return nil, false
	}
	value := bitCast[T](raw)
	return &value, true
}

// PointerValue is Pointer followed by a dereference: it resolves the
// pointer and returns the pointee's value directly.
func PointerValue[T any](f FieldView, data []byte) (T, bool) {
	var zero T
	p, ok := Pointer[T](f, data)
	if !ok {
		return zero, false
	}
	return *p, true
}
