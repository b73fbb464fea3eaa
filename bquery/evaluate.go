// Package bquery is a small dot/bracket path query language for reaching
// into a reflected value without hand-walking TypeView/FieldView at every
// step.
package bquery

import (
	"github.com/pkg/errors"

	"github.com/cblend/cblend-go/bview"
)

// Evaluate walks tokens starting from (start, data), returning the type and
// bytes reached at the final step.
//
//   - A name step requires the current type to be an aggregate; it looks up
//     the field by name and descends into its bytes and type.
//   - An index step requires the current type to expose an element type
//     (array or pointer). For an array, the element is read directly out of
//     the current bytes. For a pointer, the current bytes are first
//     resolved through the memory table (the current bytes of a
//     pointer-typed step are always that pointer's own raw value, whether
//     they were reached by a name step or by a previous index step), and
//     the element is read out of the resolution.
func Evaluate(ctx *bview.Context, start bview.TypeView, data []byte, tokens []Token) (bview.TypeView, []byte, error) {
	currentType := start
	currentBytes := data

	for _, tok := range tokens {
		switch tok.Kind {
		case TokenName:
			if !currentType.IsStruct() {
				return bview.TypeView{}, nil, errors.Wrapf(ErrIndexedInvalidType, "name step %q on non-aggregate type", tok.Name)
			}
			field, ok := currentType.Field(tok.Name)
			if !ok {
				return bview.TypeView{}, nil, errors.Wrapf(ErrFieldNotFound, "field %q", tok.Name)
			}
			currentBytes = field.Data(currentBytes)
			currentType = field.FieldType()

		case TokenIndex:
			elementType, ok := currentType.ElementType()
			if !ok {
				return bview.TypeView{}, nil, errors.Wrapf(ErrIndexedInvalidType, "index step [%d] on non-indexable type", tok.Index)
			}
			elementSize := elementType.Size()

			var slice []byte
			if currentType.IsPointer() {
				slice = ctx.ResolvePointer(currentBytes, elementSize)
				if slice == nil {
					return bview.TypeView{}, nil, errors.Wrapf(ErrInvalidValue, "index step [%d] through unresolved pointer", tok.Index)
				}
			} else {
				slice = currentBytes
			}

			off := tok.Index * elementSize
			if slice == nil || off < 0 || off+elementSize > len(slice) {
				return bview.TypeView{}, nil, errors.Wrapf(ErrIndexOutOfBounds, "index step [%d]", tok.Index)
			}
			currentBytes = slice[off : off+elementSize]
			currentType = elementType
		}
	}

	return currentType, currentBytes, nil
}
