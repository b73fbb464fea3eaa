// Package blend ties the parser, reflection builder, memory table, and
// reflective reader together into a single entry point: open or read a
// file, then query it through TypeView/FieldView.
package blend

import (
	"github.com/pkg/errors"

	"github.com/cblend/cblend-go/bformat"
	"github.com/cblend/cblend-go/bmemory"
	"github.com/cblend/cblend-go/breflect"
	"github.com/cblend/cblend-go/bstream"
	"github.com/cblend/cblend-go/btype"
	"github.com/cblend/cblend-go/bview"
)

// Blend is a fully constructed, immutable view of one file: it owns the
// decoded block stream, the type arena, and the memory table built from it.
// There is no post-construction mutation — every TypeView and FieldView
// handed out borrows from the Blend that built it and must not outlive it.
type Blend struct {
	file        *bformat.File
	arena       *btype.Arena
	structIndex breflect.StructIndex
	memory      *bmemory.Table
	ctx         *bview.Context
	typesByName map[string]btype.Handle
}

// Open reads the file at path whole and constructs a Blend from it.
func Open(path string) (*Blend, error) {
	reader, f, err := bstream.OpenFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "blend.Open")
	}
	defer f.Close()

	b, err := build(reader)
	if err != nil {
		return nil, errors.Wrapf(err, "blend.Open %q", path)
	}
	return b, nil
}

// Read constructs a Blend from an in-memory buffer.
func Read(data []byte) (*Blend, error) {
	reader := bstream.NewMemoryReader(data)
	b, err := build(reader)
	if err != nil {
		return nil, errors.Wrap(err, "blend.Read")
	}
	return b, nil
}

func build(stream bstream.Reader) (*Blend, error) {
	header, err := bformat.ReadHeader(stream)
	if err != nil {
		return nil, err
	}
	stream.SetEndian(header.Endian)

	file, err := bformat.ReadFile(stream, header)
	if err != nil {
		return nil, err
	}

	sdna, err := bformat.ReadSDNA(file)
	if err != nil {
		return nil, err
	}

	arena, structIndex, err := breflect.Build(sdna, header.Pointer.Size())
	if err != nil {
		return nil, err
	}

	memory := bmemory.Build(file.Blocks)
	ctx := bview.NewContext(arena, memory, header.Endian, header.Pointer.Size())

	return &Blend{
		file:        file,
		arena:       arena,
		structIndex: structIndex,
		memory:      memory,
		ctx:         ctx,
		typesByName: indexTypeNames(arena),
	}, nil
}

func indexTypeNames(arena *btype.Arena) map[string]btype.Handle {
	out := make(map[string]btype.Handle, arena.Len())
	for i := 0; i < arena.Len(); i++ {
		h := btype.Handle(i)
		name := arena.Get(h).Name()
		if name == "" {
			continue
		}
		if _, exists := out[name]; !exists {
			out[name] = h
		}
	}
	return out
}
