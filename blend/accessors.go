package blend

import (
	"github.com/cblend/cblend-go/bformat"
	"github.com/cblend/cblend-go/bstream"
	"github.com/cblend/cblend-go/bview"
)

// Endian returns the file's declared byte order.
func (b *Blend) Endian() bstream.Endian { return b.file.Header.Endian }

// PointerWidth returns the file's declared pointer width.
func (b *Blend) PointerWidth() bformat.PointerWidth { return b.file.Header.Pointer }

// BlockCount returns the total number of blocks in the file, including the
// terminating ENDB sentinel.
func (b *Blend) BlockCount() int { return len(b.file.Blocks) }

// BlockCountByCode returns the number of blocks carrying code.
func (b *Blend) BlockCountByCode(code bformat.BlockCode) int {
	return len(b.file.BlocksByCode(code))
}

// Blocks returns every block carrying code, in file order.
func (b *Blend) Blocks(code bformat.BlockCode) []*bformat.Block {
	return b.file.BlocksByCode(code)
}

// Block returns the first block carrying code, if any.
func (b *Blend) Block(code bformat.BlockCode) (*bformat.Block, bool) {
	return b.file.BlockByCode(code)
}

// Type looks up a type by its SDNA name (a fundamental or an aggregate).
func (b *Blend) Type(name string) (bview.TypeView, bool) {
	h, ok := b.typesByName[name]
	if !ok {
		return bview.TypeView{}, false
	}
	return bview.NewType(b.ctx, h), true
}

// BlockType returns the TypeView of the aggregate block's header declares,
// via its sdna_struct_index. A block with struct index 0 ("untyped bytes")
// never resolves.
func (b *Blend) BlockType(block *bformat.Block) (bview.TypeView, bool) {
	h, ok := b.structIndex.Type(block.Header.SDNAStructIndex)
	if !ok {
		return bview.TypeView{}, false
	}
	return bview.NewType(b.ctx, h), true
}

// Context returns the shared bview.Context backing every TypeView this
// Blend hands out, for callers that want to drive bquery directly against a
// block's bytes.
func (b *Blend) Context() *bview.Context { return b.ctx }
