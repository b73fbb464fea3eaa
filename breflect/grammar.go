package breflect

import (
	"strconv"
	"strings"

	match "github.com/alexpantyukhin/go-pattern-match"
	"github.com/pkg/errors"

	"github.com/cblend/cblend-go/btype"
)

// fieldNameShape classifies a raw SDNA field-name string into one of the two
// micro-grammar productions before the detailed parse runs: a leading '('
// signals the function-pointer form, anything else falls through to the
// general form.
type fieldNameShape uint8

const (
	shapeGeneral fieldNameShape = iota
	shapeFunctionPointer
)

func classifyFieldName(name string) fieldNameShape {
	hasLeadingParen := strings.HasPrefix(name, "(")
	matcher := match.Match(hasLeadingParen)
	matcher.When(true, shapeFunctionPointer)
	matcher.When(false, shapeGeneral)
	_, result := matcher.Result()
	shape, _ := result.(fieldNameShape)
	return shape
}

func isIdentifier(name string) bool {
	if name == "" {
		return false
	}
	first := name[0]
	if !isIdentifierStart(first) {
		return false
	}
	for i := 1; i < len(name); i++ {
		if !isIdentifierPart(name[i]) {
			return false
		}
	}
	return true
}

func isIdentifierStart(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || b == '_'
}

func isIdentifierPart(b byte) bool {
	return isIdentifierStart(b) || (b >= '0' && b <= '9')
}

// parsedField is the outcome of resolving one SDNA field-name string: the
// bare identifier the field is stored under, plus the fully wrapped type
// handle (base type, wrapped in any Array/Pointer/Function nodes the name's
// syntax implied).
type parsedField struct {
	Name string
	Type btype.Handle
}

// resolveFieldName parses a raw SDNA field-name string against the base
// field type (the SDNA field's own type_index, already resolved to a
// handle) and returns the bare name plus the synthesized type chain.
func resolveFieldName(arena *btype.Arena, rawName string, baseType btype.Handle, pointerSize int) (parsedField, error) {
	switch classifyFieldName(rawName) {
	case shapeFunctionPointer:
		return resolveFunctionPointer(arena, rawName, pointerSize)
	default:
		return resolveGeneralField(arena, rawName, baseType, pointerSize)
	}
}

// resolveFunctionPointer parses "(*name)()" into a Function node wrapped in
// a single Pointer node.
func resolveFunctionPointer(arena *btype.Arena, rawName string, pointerSize int) (parsedField, error) {
	const minLength = 6
	if len(rawName) < minLength {
		return parsedField{}, errors.Wrapf(ErrInvalidSdnaFieldName, "resolveFunctionPointer: %q too short", rawName)
	}
	if rawName[1] != '*' {
		return parsedField{}, errors.Wrapf(ErrInvalidSdnaFieldName, "resolveFunctionPointer: %q missing '*' after '('", rawName)
	}
	if !strings.HasSuffix(rawName, ")()") {
		return parsedField{}, errors.Wrapf(ErrInvalidSdnaFieldName, "resolveFunctionPointer: %q missing )() suffix", rawName)
	}
	name := rawName[2 : len(rawName)-3]
	if !isIdentifier(name) {
		return parsedField{}, errors.Wrapf(ErrInvalidSdnaFieldName, "resolveFunctionPointer: %q has invalid identifier", rawName)
	}

	function := arena.NewFunction(pointerSize)
	pointer := arena.NewPointer(function, pointerSize)
	return parsedField{Name: name, Type: pointer}, nil
}

// resolveGeneralField parses "*…*name[K1][K2]…": leading '*' characters
// count as pointer depth, the identifier runs up to the first '[', and each
// subsequent "[K]" group wraps the current type in an array, innermost
// first. The pointer wrapping is applied last, outermost.
func resolveGeneralField(arena *btype.Arena, rawName string, baseType btype.Handle, pointerSize int) (parsedField, error) {
	pointerCount := 0
	for pointerCount < len(rawName) && rawName[pointerCount] == '*' {
		pointerCount++
	}

	nameEnd := pointerCount
	for nameEnd < len(rawName) && rawName[nameEnd] != '[' {
		nameEnd++
	}
	name := rawName[pointerCount:nameEnd]
	if !isIdentifier(name) {
		return parsedField{}, errors.Wrapf(ErrInvalidSdnaFieldName, "resolveGeneralField: %q has invalid identifier", rawName)
	}

	current := baseType
	rest := rawName[nameEnd:]
	for len(rest) > 0 {
		if rest[0] != '[' {
			return parsedField{}, errors.Wrapf(ErrInvalidSdnaFieldName, "resolveGeneralField: %q expected '[' after ']'", rawName)
		}
		closeIndex := strings.IndexByte(rest, ']')
		if closeIndex < 0 {
			return parsedField{}, errors.Wrapf(ErrInvalidSdnaFieldName, "resolveGeneralField: %q has unterminated '['", rawName)
		}
		digits := rest[1:closeIndex]
		if digits == "" || !isAllDigits(digits) {
			return parsedField{}, errors.Wrapf(ErrInvalidSdnaFieldName, "resolveGeneralField: %q has a non-numeric array size", rawName)
		}
		count, err := strconv.Atoi(digits)
		if err != nil {
			return parsedField{}, errors.Wrapf(ErrInvalidSdnaFieldName, "resolveGeneralField: %q has an unparsable array size", rawName)
		}

		elementSize := arena.Get(current).Size()
		current = arena.NewArray(current, count, elementSize)
		rest = rest[closeIndex+1:]
	}

	for i := 0; i < pointerCount; i++ {
		current = arena.NewPointer(current, pointerSize)
	}

	return parsedField{Name: name, Type: current}, nil
}

func isAllDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
