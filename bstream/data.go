// Package bstream provides the bounded byte-reader abstraction that the
// format parser and the reflection builder consume. It knows nothing about
// blend files; it only knows how to read bytes, seek, align, and swap
// endianness on demand.
package bstream

import "github.com/pkg/errors"

// Endian selects the byte order used when decoding multi-byte integers.
// Single-byte reads are never affected by it.
type Endian uint8

const (
	LittleEndian Endian = iota
	BigEndian
)

// ErrShortRead is returned whenever an operation would consume past the end
// of the underlying byte source.
var ErrShortRead = errors.New("bstream: short read")

// File-open error sentinels, surfaced by OpenFile.
var (
	ErrFileNotFound       = errors.New("bstream: file not found")
	ErrDirectorySpecified = errors.New("bstream: path is a directory")
	ErrAccessDenied       = errors.New("bstream: access denied")
)

// Reader is a bounded, seekable, endian-aware byte cursor. FileReader and
// MemoryReader are the two concrete implementations; callers needing a
// stream only ever depend on this interface.
type Reader interface {
	ReadBytes(n int) ([]byte, error)
	ReadCString() ([]byte, error)

	ReadU8() (uint8, error)
	ReadU16() (uint16, error)
	ReadU32() (uint32, error)
	ReadU64() (uint64, error)

	SeekAbsolute(pos int64) error
	SeekRelative(delta int64) error
	SeekEnd() error
	Skip(n int64) error
	Align(n int64) error

	// ReadAt performs a read at an absolute position and restores the
	// cursor to wherever it was before the call, regardless of whether
	// the read succeeds.
	ReadAt(pos int64, n int) ([]byte, error)

	Position() int64
	Size() int64
	AtEnd() bool

	Endian() Endian
	SetEndian(e Endian)
}
