// Package bmemory builds and queries the address-to-bytes table used to
// resolve pointer fields found inside block bodies: every persisted virtual
// address the producer recorded in a block header is a key into the bytes
// of that block, so a pointer value read from one block's body can be
// resolved to the bytes of whatever block originally lived at that address.
package bmemory

import (
	"github.com/samber/lo"
	"golang.org/x/exp/slices"

	"github.com/cblend/cblend-go/bformat"
)

// Range is one covered address span.
type Range struct {
	Head          uint64
	TailExclusive uint64
	Body          []byte
}

func (r Range) covers(address uint64, size uint64) bool {
	return r.Head <= address && address+size <= r.TailExclusive
}

// Table is a sorted, range-searchable map from persisted address to the
// in-memory bytes of the block that owned it.
type Table struct {
	ranges []Range
}

// Build constructs a Table from every block with a non-empty body. Ranges
// are tolerated to overlap (malformed files are not rejected here); lookup
// always resolves the first matching range in sorted order, which is
// deterministic even when ranges overlap.
func Build(blocks []bformat.Block) *Table {
	ranges := lo.FilterMap(blocks, func(b bformat.Block, _ int) (Range, bool) {
		if len(b.Body) == 0 {
			return Range{}, false
		}
		head := b.Header.Address
		return Range{
			Head:          head,
			TailExclusive: head + uint64(len(b.Body)),
			Body:          b.Body,
		}, true
	})

	slices.SortFunc(ranges, func(a, b Range) bool { return a.Head < b.Head })

	return &Table{ranges: ranges}
}

// Get resolves address to a size-byte slice of the block body that covers
// it. A zero address, or any address no range covers, resolves to nil,
// matching the format's own null-pointer convention.
func (t *Table) Get(address uint64, size int) []byte {
	if address == 0 || size < 0 {
		return nil
	}
	sz := uint64(size)
	for _, r := range t.ranges {
		if r.covers(address, sz) {
			return r.Body[address-r.Head : address-r.Head+sz]
		}
	}
	return nil
}

// Ranges exposes the sorted range list, mostly useful for tests asserting
// that well-formed files never produce overlapping ranges.
func (t *Table) Ranges() []Range {
	return t.ranges
}
