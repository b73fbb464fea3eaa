package breflect

import "github.com/pkg/errors"

// Reflection-layer error sentinels returned while building the type graph
// from an SDNA descriptor. Compare with errors.Is; every returned error is
// wrapped with errors.Wrap/Wrapf for call-site context.
var (
	ErrInvalidSdnaStruct    = errors.New("breflect: sdna struct references an out-of-range type index or its fields overrun its declared size")
	ErrInvalidSdnaField     = errors.New("breflect: sdna field references an out-of-range type or name index")
	ErrInvalidSdnaFieldName = errors.New("breflect: sdna field name does not match the micro-grammar")
)
