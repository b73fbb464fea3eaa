package bview

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cblend/cblend-go/bformat"
	"github.com/cblend/cblend-go/bmemory"
	"github.com/cblend/cblend-go/bstream"
	"github.com/cblend/cblend-go/btype"
)

// buildLinkCtx constructs a type graph for:
//
//	struct Link { int32 value; Link *next; }
//
// and a memory table with two Link instances chained by address, to
// exercise field access and pointer resolution together.
func buildLinkCtx(t *testing.T) (*Context, btype.Handle, []byte, []byte) {
	t.Helper()
	arena := btype.NewArena()
	intType := arena.NewFundamental("int", 4)
	linkHandle := arena.NewAggregatePlaceholder("Link")
	nextPointer := arena.NewPointer(linkHandle, 8)
	arena.ResolveAggregate(linkHandle, 12, []btype.Field{
		{Offset: 0, Name: "value", Type: intType},
		{Offset: 4, Name: "next", Type: nextPointer},
	})

	head := make([]byte, 12)
	binary.LittleEndian.PutUint32(head[0:4], 10)
	binary.LittleEndian.PutUint64(head[4:12], 0x2000)

	tail := make([]byte, 12)
	binary.LittleEndian.PutUint32(tail[0:4], 20)
	binary.LittleEndian.PutUint64(tail[4:12], 0) // null terminator

	memory := bmemory.Build([]bformat.Block{
		{Header: bformat.BlockHeader{Address: 0x1000}, Body: head},
		{Header: bformat.BlockHeader{Address: 0x2000}, Body: tail},
	})

	ctx := NewContext(arena, memory, bstream.LittleEndian, 8)
	return ctx, linkHandle, head, tail
}

func TestTypeView_FieldsAndLookupAgree(t *testing.T) {
	ctx, linkHandle, _, _ := buildLinkCtx(t)
	view := NewType(ctx, linkHandle)

	require.True(t, view.IsStruct())
	fields := view.Fields()
	require.Len(t, fields, 2)

	for _, f := range fields {
		looked, ok := view.Field(f.Name())
		require.True(t, ok)
		assert.Equal(t, f.Offset(), looked.Offset())
	}
}

func TestFieldView_Data(t *testing.T) {
	ctx, linkHandle, head, _ := buildLinkCtx(t)
	view := NewType(ctx, linkHandle)

	valueField, ok := view.Field("value")
	require.True(t, ok)
	v, ok := Value[int32](valueField, head)
	require.True(t, ok)
	assert.Equal(t, int32(10), v)
}

func TestFieldView_PointerData_FollowsChain(t *testing.T) {
	ctx, linkHandle, head, tail := buildLinkCtx(t)
	view := NewType(ctx, linkHandle)

	nextField, ok := view.Field("next")
	require.True(t, ok)

	resolved := nextField.PointerData(head)
	require.NotNil(t, resolved)
	assert.Equal(t, tail, resolved)

	valueField, ok := view.Field("value")
	require.True(t, ok)
	v, ok := Value[int32](valueField, resolved)
	require.True(t, ok)
	assert.Equal(t, int32(20), v)
}

func TestFieldView_PointerData_NullTerminates(t *testing.T) {
	ctx, linkHandle, _, tail := buildLinkCtx(t)
	view := NewType(ctx, linkHandle)

	nextField, ok := view.Field("next")
	require.True(t, ok)

	resolved := nextField.PointerData(tail)
	assert.Nil(t, resolved)
}

func TestValue_SizeMismatchFails(t *testing.T) {
	ctx, linkHandle, head, _ := buildLinkCtx(t)
	view := NewType(ctx, linkHandle)

	valueField, ok := view.Field("value")
	require.True(t, ok)

	_, ok = Value[int64](valueField, head)
	assert.False(t, ok)
}

func TestPointerValue_ResolvesThroughMemoryTable(t *testing.T) {
	ctx, linkHandle, head, _ := buildLinkCtx(t)
	view := NewType(ctx, linkHandle)

	nextField, ok := view.Field("next")
	require.True(t, ok)

	type link struct {
		Value    int32
		NextLow  uint32
		NextHigh uint32
	}
	v, ok := PointerValue[link](nextField, head)
	require.True(t, ok)
	assert.Equal(t, int32(20), v.Value)
}
