package bquery

import (
	"unsafe"

	"github.com/pkg/errors"

	"github.com/cblend/cblend-go/bview"
)

// bitCast mirrors bview's unexported helper of the same shape: copy data
// into an aligned temporary before reinterpreting it, so a misaligned
// source slice never reaches an unsafe pointer cast directly. Callers must
// already have checked len(data) == unsafe.Sizeof(zero of T).
func bitCast[T any](data []byte) T {
	var value T
	dst := unsafe.Slice((*byte)(unsafe.Pointer(&value)), len(data))
	copy(dst, data)
	return value
}

func project[T any](bytes []byte) (T, error) {
	var zero T
	if bytes == nil || len(bytes) != int(unsafe.Sizeof(zero)) {
		return zero, errors.Wrap(ErrInvalidType, "size mismatch between query result and requested type")
	}
	return bitCast[T](bytes), nil
}

// QueryValue tokenizes path, evaluates it from (start, data), and bit-casts
// the result to T. Fails with ErrInvalidType unless the final step's size
// exactly matches sizeof(T).
func QueryValue[T any](ctx *bview.Context, start bview.TypeView, data []byte, path string) (T, error) {
	var zero T
	tokens, err := Tokenize(path)
	if err != nil {
		return zero, err
	}
	_, bytes, err := Evaluate(ctx, start, data, tokens)
	if err != nil {
		return zero, err
	}
	return project[T](bytes)
}

// QueryPointer is QueryValue for a path whose final step already resolved a
// pointer (an index step against a pointer-typed value, per Evaluate) — by
// the time Evaluate returns, the pointer has already been followed, so the
// projection itself is identical to QueryValue's.
func QueryPointer[T any](ctx *bview.Context, start bview.TypeView, data []byte, path string) (T, error) {
	return QueryValue[T](ctx, start, data, path)
}

// QueryEachValue walks a linked list rooted at (start, data), evaluating
// path against each node and invoking callback with the projected value,
// stopping once the node's "next" field fails to resolve to another node.
// Each iteration advances by evaluating a synthetic "next[0]" step against
// the current node.
func QueryEachValue[T any](ctx *bview.Context, start bview.TypeView, data []byte, path string, callback func(T) error) error {
	tokens, err := Tokenize(path)
	if err != nil {
		return err
	}
	nextTokens := []Token{{Kind: TokenName, Name: "next"}, {Kind: TokenIndex, Index: 0}}

	currentType := start
	currentBytes := data
	for {
		_, valueBytes, err := Evaluate(ctx, currentType, currentBytes, tokens)
		if err != nil {
			return err
		}
		value, err := project[T](valueBytes)
		if err != nil {
			return err
		}
		if err := callback(value); err != nil {
			return err
		}

		nextType, nextBytes, err := Evaluate(ctx, currentType, currentBytes, nextTokens)
		if err != nil {
			if errors.Is(err, ErrInvalidValue) || errors.Is(err, ErrIndexOutOfBounds) {
				return nil
			}
			return err
		}
		if nextBytes == nil {
			return nil
		}
		currentType = nextType
		currentBytes = nextBytes
	}
}
