// Package bview is the reflective reader: a typed view over a block's
// bytes built from the type graph, with pointer fields resolved through the
// memory table. TypeView and FieldView are lightweight borrows — they carry
// a handle and a *Context back-reference rather than copying anything out
// of the Blend that owns the arena and memory table.
package bview

import (
	"github.com/cblend/cblend-go/bmemory"
	"github.com/cblend/cblend-go/bstream"
	"github.com/cblend/cblend-go/btype"
)

// Context is the shared, read-only state every TypeView/FieldView borrows:
// the type arena, the memory table, and the two header-declared facts
// needed to decode a pointer's raw bytes (endianness, pointer width).
type Context struct {
	Arena       *btype.Arena
	Memory      *bmemory.Table
	Endian      bstream.Endian
	PointerSize int
}

// NewContext builds the shared context a Blend hands to every TypeView it
// constructs.
func NewContext(arena *btype.Arena, memory *bmemory.Table, endian bstream.Endian, pointerSize int) *Context {
	return &Context{Arena: arena, Memory: memory, Endian: endian, PointerSize: pointerSize}
}

// decodeAddress reads a pointer field's raw bytes honouring ctx's declared
// endianness. Pointer bytes inside a block body are never touched by the
// stream's own endian-swapping reads (those only affect integers read
// sequentially while parsing); they must be decoded explicitly here.
func (c *Context) decodeAddress(raw []byte) uint64 {
	switch len(raw) {
	case 4:
		return uint64(bstream.DecodeUint32(raw, c.Endian))
	case 8:
		return bstream.DecodeUint64(raw, c.Endian)
	default:
		return 0
	}
}

// ResolvePointer decodes a pointer-width value out of raw and resolves size
// bytes at that address through the memory table. Exported so bquery can
// follow an index step's pointer resolution without going through a
// FieldView — raw may be any pointer-typed field's bytes or the bytes of a
// previously resolved pointer-typed array element.
func (c *Context) ResolvePointer(raw []byte, size int) []byte {
	if raw == nil {
		return nil
	}
	address := c.decodeAddress(raw)
	return c.Memory.Get(address, size)
}
