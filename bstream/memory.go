package bstream

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

// MemoryReader reads from an in-memory byte slice. ReadBytes returns a fresh
// copy of the requested bytes; ReadCString is a zero-copy read that borrows
// directly into the backing slice, as cblend's MemoryStream does.
type MemoryReader struct {
	data     []byte
	position int64
	endian   Endian
}

// NewMemoryReader wraps bs without copying it. The caller must keep bs alive
// for as long as the reader (and anything it returns by reference) is used.
func NewMemoryReader(bs []byte) *MemoryReader {
	return &MemoryReader{data: bs}
}

func (r *MemoryReader) Size() int64  { return int64(len(r.data)) }
func (r *MemoryReader) Position() int64 { return r.position }
func (r *MemoryReader) AtEnd() bool  { return r.position >= r.Size() }

func (r *MemoryReader) Endian() Endian     { return r.endian }
func (r *MemoryReader) SetEndian(e Endian) { r.endian = e }

func (r *MemoryReader) canRead(n int64) bool {
	return !r.AtEnd() && r.Size()-r.position >= n
}

func (r *MemoryReader) ReadBytes(n int) ([]byte, error) {
	if n == 0 {
		return []byte{}, nil
	}
	if !r.canRead(int64(n)) {
		return nil, errors.Wrap(ErrShortRead, "MemoryReader.ReadBytes")
	}
	out := make([]byte, n)
	copy(out, r.data[r.position:r.position+int64(n)])
	r.position += int64(n)
	return out, nil
}

// ReadCString returns a borrowed slice into the backing buffer, up to but
// excluding the terminating zero byte.
func (r *MemoryReader) ReadCString() ([]byte, error) {
	start := r.position
	for {
		if r.AtEnd() {
			return nil, errors.Wrap(ErrShortRead, "MemoryReader.ReadCString")
		}
		b := r.data[r.position]
		r.position++
		if b == 0 {
			break
		}
	}
	return r.data[start : r.position-1], nil
}

func (r *MemoryReader) ReadU8() (uint8, error) {
	bs, err := r.ReadBytes(1)
	if err != nil {
		return 0, errors.Wrap(err, "MemoryReader.ReadU8")
	}
	return bs[0], nil
}

func (r *MemoryReader) ReadU16() (uint16, error) {
	bs, err := r.ReadBytes(2)
	if err != nil {
		return 0, errors.Wrap(err, "MemoryReader.ReadU16")
	}
	return decodeU16(bs, r.endian), nil
}

func (r *MemoryReader) ReadU32() (uint32, error) {
	bs, err := r.ReadBytes(4)
	if err != nil {
		return 0, errors.Wrap(err, "MemoryReader.ReadU32")
	}
	return decodeU32(bs, r.endian), nil
}

func (r *MemoryReader) ReadU64() (uint64, error) {
	bs, err := r.ReadBytes(8)
	if err != nil {
		return 0, errors.Wrap(err, "MemoryReader.ReadU64")
	}
	return decodeU64(bs, r.endian), nil
}

func (r *MemoryReader) SeekAbsolute(pos int64) error {
	if pos < 0 || pos > r.Size() {
		return errors.Wrap(ErrShortRead, "MemoryReader.SeekAbsolute")
	}
	r.position = pos
	return nil
}

func (r *MemoryReader) SeekRelative(delta int64) error {
	return r.SeekAbsolute(r.position + delta)
}

func (r *MemoryReader) SeekEnd() error {
	r.position = r.Size()
	return nil
}

func (r *MemoryReader) Skip(n int64) error {
	return r.SeekRelative(n)
}

func (r *MemoryReader) Align(n int64) error {
	pos, err := alignedPosition(r.position, n)
	if err != nil {
		return errors.Wrap(err, "MemoryReader.Align")
	}
	if pos > r.Size() {
		return errors.Wrap(ErrShortRead, "MemoryReader.Align")
	}
	r.position = pos
	return nil
}

func (r *MemoryReader) ReadAt(pos int64, n int) ([]byte, error) {
	current := r.position
	if err := r.SeekAbsolute(pos); err != nil {
		return nil, errors.Wrap(err, "MemoryReader.ReadAt")
	}
	bs, err := r.ReadBytes(n)
	r.position = current
	if err != nil {
		return nil, errors.Wrap(err, "MemoryReader.ReadAt")
	}
	return bs, nil
}

// DecodeUint32 decodes a raw 4-byte pointer or integer value honouring e.
// Exposed for callers (bview's pointer dereference) that hold bytes read
// straight out of a block body — those bytes are never touched by the
// stream's own endian-swapping reads, so they must be decoded explicitly
// with the same endian rule the header declared.
func DecodeUint32(bs []byte, e Endian) uint32 { return decodeU32(bs, e) }

// DecodeUint64 is DecodeUint32's 8-byte counterpart.
func DecodeUint64(bs []byte, e Endian) uint64 { return decodeU64(bs, e) }

func decodeU16(bs []byte, e Endian) uint16 {
	if e == BigEndian {
		return binary.BigEndian.Uint16(bs)
	}
	return binary.LittleEndian.Uint16(bs)
}

func decodeU32(bs []byte, e Endian) uint32 {
	if e == BigEndian {
		return binary.BigEndian.Uint32(bs)
	}
	return binary.LittleEndian.Uint32(bs)
}

func decodeU64(bs []byte, e Endian) uint64 {
	if e == BigEndian {
		return binary.BigEndian.Uint64(bs)
	}
	return binary.LittleEndian.Uint64(bs)
}

func alignedPosition(position int64, alignment int64) (int64, error) {
	if alignment <= 0 {
		return 0, errors.New("bstream: alignment must be positive")
	}
	remainder := position % alignment
	if remainder == 0 {
		return position, nil
	}
	return position + (alignment - remainder), nil
}
