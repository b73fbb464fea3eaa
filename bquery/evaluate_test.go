package bquery

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cblend/cblend-go/bformat"
	"github.com/cblend/cblend-go/bmemory"
	"github.com/cblend/cblend-go/bstream"
	"github.com/cblend/cblend-go/btype"
	"github.com/cblend/cblend-go/bview"
)

// buildItemFixture constructs:
//
//	struct Item { int32 id; int32 tags[3]; Item *next; }
//
// as a two-node chain (head -> tail -> null), to exercise name steps, array
// index steps, and pointer index steps together.
func buildItemFixture(t *testing.T) (*bview.Context, bview.TypeView, []byte, []byte) {
	t.Helper()
	arena := btype.NewArena()
	intType := arena.NewFundamental("int", 4)
	itemHandle := arena.NewAggregatePlaceholder("Item")
	tagsArray := arena.NewArray(intType, 3, 4)
	nextPointer := arena.NewPointer(itemHandle, 8)
	arena.ResolveAggregate(itemHandle, 24, []btype.Field{
		{Offset: 0, Name: "id", Type: intType},
		{Offset: 4, Name: "tags", Type: tagsArray},
		{Offset: 16, Name: "next", Type: nextPointer},
	})

	head := make([]byte, 24)
	binary.LittleEndian.PutUint32(head[0:4], 1)
	binary.LittleEndian.PutUint32(head[4:8], 10)
	binary.LittleEndian.PutUint32(head[8:12], 20)
	binary.LittleEndian.PutUint32(head[12:16], 30)
	binary.LittleEndian.PutUint64(head[16:24], 0x2000)

	tail := make([]byte, 24)
	binary.LittleEndian.PutUint32(tail[0:4], 2)
	binary.LittleEndian.PutUint32(tail[4:8], 40)
	binary.LittleEndian.PutUint32(tail[8:12], 50)
	binary.LittleEndian.PutUint32(tail[12:16], 60)
	binary.LittleEndian.PutUint64(tail[16:24], 0)

	memory := bmemory.Build([]bformat.Block{
		{Header: bformat.BlockHeader{Address: 0x1000}, Body: head},
		{Header: bformat.BlockHeader{Address: 0x2000}, Body: tail},
	})

	ctx := bview.NewContext(arena, memory, bstream.LittleEndian, 8)
	itemType := bview.NewType(ctx, itemHandle)
	return ctx, itemType, head, tail
}

func TestEvaluate_NameStep(t *testing.T) {
	ctx, itemType, head, _ := buildItemFixture(t)
	tokens, err := Tokenize("id")
	require.NoError(t, err)

	_, bytes, err := Evaluate(ctx, itemType, head, tokens)
	require.NoError(t, err)
	assert.Equal(t, uint32(1), binary.LittleEndian.Uint32(bytes))
}

func TestEvaluate_ArrayIndexStep(t *testing.T) {
	ctx, itemType, head, _ := buildItemFixture(t)
	tokens, err := Tokenize("tags[1]")
	require.NoError(t, err)

	_, bytes, err := Evaluate(ctx, itemType, head, tokens)
	require.NoError(t, err)
	assert.Equal(t, uint32(20), binary.LittleEndian.Uint32(bytes))
}

func TestEvaluate_ArrayIndexOutOfBounds(t *testing.T) {
	ctx, itemType, head, _ := buildItemFixture(t)
	tokens, err := Tokenize("tags[3]")
	require.NoError(t, err)

	_, _, err = Evaluate(ctx, itemType, head, tokens)
	assert.ErrorIs(t, err, ErrIndexOutOfBounds)
}

func TestEvaluate_PointerIndexStepFollowsChain(t *testing.T) {
	ctx, itemType, head, tail := buildItemFixture(t)
	tokens, err := Tokenize("next[0].id")
	require.NoError(t, err)

	_, bytes, err := Evaluate(ctx, itemType, head, tokens)
	require.NoError(t, err)
	assert.Equal(t, uint32(2), binary.LittleEndian.Uint32(bytes))
	assert.Equal(t, tail[0:4], bytes)
}

func TestEvaluate_PointerIndexStepNullFails(t *testing.T) {
	ctx, itemType, _, tail := buildItemFixture(t)
	tokens, err := Tokenize("next[0]")
	require.NoError(t, err)

	_, _, err = Evaluate(ctx, itemType, tail, tokens)
	assert.ErrorIs(t, err, ErrInvalidValue)
}

func TestEvaluate_FieldNotFound(t *testing.T) {
	ctx, itemType, head, _ := buildItemFixture(t)
	tokens, err := Tokenize("bogus")
	require.NoError(t, err)

	_, _, err = Evaluate(ctx, itemType, head, tokens)
	assert.ErrorIs(t, err, ErrFieldNotFound)
}

func TestEvaluate_NameStepOnNonAggregateFails(t *testing.T) {
	ctx, itemType, head, _ := buildItemFixture(t)
	tokens, err := Tokenize("id.bogus")
	require.NoError(t, err)

	_, _, err = Evaluate(ctx, itemType, head, tokens)
	assert.ErrorIs(t, err, ErrIndexedInvalidType)
}

func TestEvaluate_IndexStepOnNonIndexableFails(t *testing.T) {
	ctx, itemType, head, _ := buildItemFixture(t)
	tokens, err := Tokenize("id[0]")
	require.NoError(t, err)

	_, _, err = Evaluate(ctx, itemType, head, tokens)
	assert.ErrorIs(t, err, ErrIndexedInvalidType)
}

func TestQueryValue_TypedProjection(t *testing.T) {
	ctx, itemType, head, _ := buildItemFixture(t)

	v, err := QueryValue[int32](ctx, itemType, head, "tags[2]")
	require.NoError(t, err)
	assert.Equal(t, int32(30), v)
}

func TestQueryValue_SizeMismatchFails(t *testing.T) {
	ctx, itemType, head, _ := buildItemFixture(t)

	_, err := QueryValue[int64](ctx, itemType, head, "id")
	assert.ErrorIs(t, err, ErrInvalidType)
}

func TestQueryEachValue_WalksUntilNullTerminator(t *testing.T) {
	ctx, itemType, head, _ := buildItemFixture(t)

	var ids []int32
	err := QueryEachValue[int32](ctx, itemType, head, "id", func(v int32) error {
		ids = append(ids, v)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []int32{1, 2}, ids)
}
