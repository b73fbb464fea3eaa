package bformat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cblend/cblend-go/bstream"
)

func buildMinimalFile(t *testing.T) []byte {
	t.Helper()
	var buf []byte
	buf = append(buf, []byte("BLENDER")...)
	buf = append(buf, '-') // 8-byte pointers
	buf = append(buf, 'v') // little endian
	buf = append(buf, []byte("300")...)

	// ENDB block: code, length=0, address=0 (8 bytes), struct_index=0, count=0
	buf = append(buf, []byte("ENDB")...)
	buf = append(buf, 0, 0, 0, 0)             // length
	buf = append(buf, 0, 0, 0, 0, 0, 0, 0, 0) // address
	buf = append(buf, 0, 0, 0, 0)             // struct_index
	buf = append(buf, 0, 0, 0, 0)             // count

	return buf
}

func TestReadHeader_Valid(t *testing.T) {
	data := buildMinimalFile(t)
	stream := bstream.NewMemoryReader(data)

	header, err := ReadHeader(stream)
	require.NoError(t, err)
	assert.Equal(t, Pointer64, header.Pointer)
	assert.Equal(t, bstream.LittleEndian, header.Endian)
	assert.Equal(t, [3]byte{'3', '0', '0'}, header.Version)
}

func TestReadHeader_BadMagic(t *testing.T) {
	data := append([]byte("NOTBLEN"), '-', 'v', '3', '0', '0')
	stream := bstream.NewMemoryReader(data)

	_, err := ReadHeader(stream)
	assert.ErrorIs(t, err, ErrInvalidFileHeader)
}

func TestReadHeader_BadPointerByte(t *testing.T) {
	data := append([]byte("BLENDER"), 'x', 'v', '3', '0', '0')
	stream := bstream.NewMemoryReader(data)

	_, err := ReadHeader(stream)
	assert.ErrorIs(t, err, ErrInvalidFileHeader)
}

func TestReadFile_EndbOnly(t *testing.T) {
	data := buildMinimalFile(t)
	stream := bstream.NewMemoryReader(data)

	header, err := ReadHeader(stream)
	require.NoError(t, err)
	stream.SetEndian(header.Endian)

	file, err := ReadFile(stream, header)
	require.NoError(t, err)
	require.Len(t, file.Blocks, 1)
	assert.Equal(t, CodeENDB, file.Blocks[0].Header.Code)
	assert.True(t, stream.AtEnd())
}

func TestReadFile_NotExhausted(t *testing.T) {
	data := buildMinimalFile(t)
	data = append(data, 0xFF) // trailing garbage after ENDB
	stream := bstream.NewMemoryReader(data)

	header, err := ReadHeader(stream)
	require.NoError(t, err)
	stream.SetEndian(header.Endian)

	_, err = ReadFile(stream, header)
	assert.ErrorIs(t, err, ErrFileNotExhausted)
}

func TestReadSDNA_NotFound(t *testing.T) {
	file := &File{
		Header: Header{Pointer: Pointer64, Endian: bstream.LittleEndian},
		Blocks: []Block{{Header: BlockHeader{Code: CodeENDB}}},
	}

	_, err := ReadSDNA(file)
	assert.ErrorIs(t, err, ErrSdnaNotFound)
}

func buildSdnaBody(t *testing.T) []byte {
	t.Helper()
	var buf []byte
	buf = append(buf, []byte("SDNA")...)

	// NAME section: 1 field name "value"
	buf = append(buf, []byte("NAME")...)
	buf = append(buf, 1, 0, 0, 0)
	buf = append(buf, []byte("value\x00")...)
	for len(buf)%4 != 0 {
		buf = append(buf, 0)
	}

	// TYPE section: 1 type name "int"
	buf = append(buf, []byte("TYPE")...)
	buf = append(buf, 1, 0, 0, 0)
	buf = append(buf, []byte("int\x00")...)
	for len(buf)%4 != 0 {
		buf = append(buf, 0)
	}

	// TLEN section: one u16 length = 4
	buf = append(buf, []byte("TLEN")...)
	buf = append(buf, 4, 0)
	for len(buf)%4 != 0 {
		buf = append(buf, 0)
	}

	// STRC section: 0 structs
	buf = append(buf, []byte("STRC")...)
	buf = append(buf, 0, 0, 0, 0)

	return buf
}

func TestReadSDNA_Minimal(t *testing.T) {
	body := buildSdnaBody(t)
	file := &File{
		Header: Header{Pointer: Pointer64, Endian: bstream.LittleEndian},
		Blocks: []Block{
			{Header: BlockHeader{Code: CodeDNA1, PayloadLength: uint32(len(body))}, Body: body},
			{Header: BlockHeader{Code: CodeENDB}},
		},
	}

	sdna, err := ReadSDNA(file)
	require.NoError(t, err)
	assert.Equal(t, []string{"value"}, sdna.FieldNames)
	assert.Equal(t, []string{"int"}, sdna.TypeNames)
	assert.Equal(t, []uint16{4}, sdna.TypeLengths)
	assert.Empty(t, sdna.Structs)
}

func TestBlockCode_String(t *testing.T) {
	assert.Equal(t, "ME", CodeME.String())
	assert.Equal(t, "ENDB", CodeENDB.String())
}
