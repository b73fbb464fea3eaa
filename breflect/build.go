// Package breflect consumes a parsed SDNA descriptor and a pointer width and
// builds the immutable type graph (btype.Arena) that the reflective reader
// walks. Construction runs in two passes: seed every SDNA type slot as a
// Fundamental, then overwrite the struct slots with Aggregate nodes once
// their fields are resolved.
package breflect

import (
	"github.com/pkg/errors"
	"github.com/samber/lo"

	"github.com/cblend/cblend-go/bformat"
	"github.com/cblend/cblend-go/btype"
)

// StructIndex maps a block header's sdna_struct_index to the arena handle of
// the aggregate it names.
//
// Struct indices are assigned in SDNA iteration order starting at 0, so the
// first SDNA struct is stored under index 0; Type never resolves index 0,
// which a block header uses to mean "untyped bytes".
type StructIndex map[uint32]btype.Handle

// Type looks up the aggregate handle for a block's sdna_struct_index. Index
// 0 never resolves — a block carrying it holds untyped bytes.
func (s StructIndex) Type(index uint32) (btype.Handle, bool) {
	if index == 0 {
		return btype.NoHandle, false
	}
	h, ok := s[index]
	return h, ok
}

// Build constructs the type arena and struct index from a parsed SDNA
// descriptor. pointerSize must be 4 or 8, matching the file header's
// declared pointer width.
func Build(sdna *bformat.SDNA, pointerSize int) (*btype.Arena, StructIndex, error) {
	arena := btype.NewArena()
	typeCount := len(sdna.TypeLengths)

	// Pass one: seed a Fundamental per SDNA type slot, 1:1, so a slot's
	// handle equals its SDNA type index — self-referential struct fields
	// (linked-list next/prev pointers) can therefore reference their own
	// struct's handle before that struct has been resolved.
	for i := 0; i < typeCount; i++ {
		arena.NewFundamental(sdna.TypeNames[i], int(sdna.TypeLengths[i]))
	}

	// Pass two: resolve every SDNA struct into an Aggregate, overwriting the
	// Fundamental placeholder at its type index in place.
	structIndex := make(StructIndex, len(sdna.Structs))
	for i, sdnaStruct := range sdna.Structs {
		if int(sdnaStruct.TypeIndex) >= typeCount {
			return nil, nil, errors.Wrapf(ErrInvalidSdnaStruct, "struct #%d: type index %d out of range", i, sdnaStruct.TypeIndex)
		}

		handle := btype.Handle(sdnaStruct.TypeIndex)
		structIndex[uint32(i)] = handle

		fields, err := resolveStructFields(arena, sdna, sdnaStruct, typeCount, pointerSize)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "struct #%d (%s)", i, sdna.TypeNames[sdnaStruct.TypeIndex])
		}

		size := int(sdna.TypeLengths[sdnaStruct.TypeIndex])
		fieldsTotal := lo.SumBy(fields, func(f btype.Field) int { return arena.Get(f.Type).Size() })
		if fieldsTotal > size {
			return nil, nil, errors.Wrapf(ErrInvalidSdnaStruct, "struct #%d (%s): fields total %d bytes, exceeds declared size %d", i, sdna.TypeNames[sdnaStruct.TypeIndex], fieldsTotal, size)
		}

		arena.ResolveAggregate(handle, size, fields)
	}

	return arena, structIndex, nil
}

func resolveStructFields(arena *btype.Arena, sdna *bformat.SDNA, sdnaStruct bformat.SDNAStruct, typeCount, pointerSize int) ([]btype.Field, error) {
	nameCount := len(sdna.FieldNames)
	offset := 0

	fields := make([]btype.Field, 0, len(sdnaStruct.Fields))
	for _, sdnaField := range sdnaStruct.Fields {
		if int(sdnaField.NameIndex) >= nameCount || int(sdnaField.TypeIndex) >= typeCount {
			return nil, errors.Wrapf(ErrInvalidSdnaField, "field type index %d or name index %d out of range", sdnaField.TypeIndex, sdnaField.NameIndex)
		}

		rawName := sdna.FieldNames[sdnaField.NameIndex]
		baseType := btype.Handle(sdnaField.TypeIndex)

		parsed, err := resolveFieldName(arena, rawName, baseType, pointerSize)
		if err != nil {
			return nil, errors.Wrapf(err, "field %q", rawName)
		}

		size := arena.Get(parsed.Type).Size()
		fields = append(fields, btype.Field{Offset: offset, Name: parsed.Name, Type: parsed.Type})
		offset += size
	}

	return fields, nil
}
