package bstream

import (
	"io"
	"os"

	"github.com/pkg/errors"
)

// OpenFile opens path and wraps it in a FileReader, translating the
// filesystem-level failures into comparable sentinels. The caller owns the
// returned reader's underlying file and must Close it.
func OpenFile(path string) (*FileReader, *os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		switch {
		case os.IsNotExist(err):
			return nil, nil, errors.Wrapf(ErrFileNotFound, "OpenFile %q", path)
		case os.IsPermission(err):
			return nil, nil, errors.Wrapf(ErrAccessDenied, "OpenFile %q", path)
		default:
			return nil, nil, errors.Wrapf(err, "OpenFile %q", path)
		}
	}

	reader, err := NewFileReader(f)
	if err != nil {
		f.Close()
		return nil, nil, errors.Wrapf(err, "OpenFile %q", path)
	}
	return reader, f, nil
}

// FileReader reads from a seekable *os.File. Unlike MemoryReader it cannot
// return borrowed slices, so ReadCString allocates.
type FileReader struct {
	file     *os.File
	size     int64
	position int64
	endian   Endian
}

// NewFileReader wraps f, which must support seeking. The reader takes no
// ownership of f; the caller is responsible for closing it.
func NewFileReader(f *os.File) (*FileReader, error) {
	info, err := f.Stat()
	if err != nil {
		return nil, errors.Wrap(err, "NewFileReader")
	}
	if info.IsDir() {
		return nil, errors.Wrap(ErrDirectorySpecified, "NewFileReader")
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, errors.Wrap(err, "NewFileReader")
	}
	return &FileReader{file: f, size: info.Size()}, nil
}

func (r *FileReader) Size() int64     { return r.size }
func (r *FileReader) Position() int64 { return r.position }
func (r *FileReader) AtEnd() bool     { return r.position >= r.size }

func (r *FileReader) Endian() Endian     { return r.endian }
func (r *FileReader) SetEndian(e Endian) { r.endian = e }

func (r *FileReader) canRead(n int64) bool {
	return !r.AtEnd() && r.size-r.position >= n
}

func (r *FileReader) ReadBytes(n int) ([]byte, error) {
	if n == 0 {
		return []byte{}, nil
	}
	if !r.canRead(int64(n)) {
		return nil, errors.Wrap(ErrShortRead, "FileReader.ReadBytes")
	}
	out := make([]byte, n)
	if _, err := io.ReadFull(r.file, out); err != nil {
		return nil, errors.Wrap(ErrShortRead, "FileReader.ReadBytes")
	}
	r.position += int64(n)
	return out, nil
}

func (r *FileReader) ReadCString() ([]byte, error) {
	var out []byte
	for {
		b, err := r.ReadBytes(1)
		if err != nil {
			return nil, errors.Wrap(err, "FileReader.ReadCString")
		}
		if b[0] == 0 {
			break
		}
		out = append(out, b[0])
	}
	return out, nil
}

func (r *FileReader) ReadU8() (uint8, error) {
	bs, err := r.ReadBytes(1)
	if err != nil {
		return 0, errors.Wrap(err, "FileReader.ReadU8")
	}
	return bs[0], nil
}

func (r *FileReader) ReadU16() (uint16, error) {
	bs, err := r.ReadBytes(2)
	if err != nil {
		return 0, errors.Wrap(err, "FileReader.ReadU16")
	}
	return decodeU16(bs, r.endian), nil
}

func (r *FileReader) ReadU32() (uint32, error) {
	bs, err := r.ReadBytes(4)
	if err != nil {
		return 0, errors.Wrap(err, "FileReader.ReadU32")
	}
	return decodeU32(bs, r.endian), nil
}

func (r *FileReader) ReadU64() (uint64, error) {
	bs, err := r.ReadBytes(8)
	if err != nil {
		return 0, errors.Wrap(err, "FileReader.ReadU64")
	}
	return decodeU64(bs, r.endian), nil
}

func (r *FileReader) SeekAbsolute(pos int64) error {
	if pos < 0 || pos > r.size {
		return errors.Wrap(ErrShortRead, "FileReader.SeekAbsolute")
	}
	if _, err := r.file.Seek(pos, io.SeekStart); err != nil {
		return errors.Wrap(err, "FileReader.SeekAbsolute")
	}
	r.position = pos
	return nil
}

func (r *FileReader) SeekRelative(delta int64) error {
	return r.SeekAbsolute(r.position + delta)
}

func (r *FileReader) SeekEnd() error {
	return r.SeekAbsolute(r.size)
}

func (r *FileReader) Skip(n int64) error {
	return r.SeekRelative(n)
}

func (r *FileReader) Align(n int64) error {
	pos, err := alignedPosition(r.position, n)
	if err != nil {
		return errors.Wrap(err, "FileReader.Align")
	}
	if pos > r.size {
		return errors.Wrap(ErrShortRead, "FileReader.Align")
	}
	return r.SeekAbsolute(pos)
}

func (r *FileReader) ReadAt(pos int64, n int) ([]byte, error) {
	current := r.position
	if err := r.SeekAbsolute(pos); err != nil {
		return nil, errors.Wrap(err, "FileReader.ReadAt")
	}
	bs, err := r.ReadBytes(n)
	if seekErr := r.SeekAbsolute(current); seekErr != nil && err == nil {
		err = seekErr
	}
	if err != nil {
		return nil, errors.Wrap(err, "FileReader.ReadAt")
	}
	return bs, nil
}
