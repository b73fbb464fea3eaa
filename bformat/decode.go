package bformat

import (
	"bytes"

	match "github.com/alexpantyukhin/go-pattern-match"
	"github.com/pkg/errors"

	"github.com/cblend/cblend-go/bstream"
)

// oneOf reports whether value equals one of allowed, expressed with the
// pattern-matching library so the call site reads as a declarative set
// membership check rather than a chain of ==.
func oneOf[T comparable](value T, allowed ...T) bool {
	matcher := match.Match(value)
	for _, a := range allowed {
		matcher.When(a, true)
	}
	matched, _ := matcher.Result()
	return matched
}

// ReadHeader decodes the fixed 12-byte file prefix. It does not touch the
// stream's endian mode; the caller must call stream.SetEndian once the
// header's Endian field is known.
func ReadHeader(stream bstream.Reader) (*Header, error) {
	magicBytes, err := stream.ReadBytes(7)
	if err != nil {
		return nil, errors.Wrap(ErrUnexpectedEndOfFile, "ReadHeader magic")
	}
	var magic [7]byte
	copy(magic[:], magicBytes)
	if !bytes.Equal(magic[:], headerMagic[:]) {
		return nil, errors.Wrap(ErrInvalidFileHeader, "ReadHeader magic mismatch")
	}

	pointerByte, err := stream.ReadU8()
	if err != nil {
		return nil, errors.Wrap(ErrUnexpectedEndOfFile, "ReadHeader pointer width")
	}
	if !oneOf(pointerByte, byte(pointerByte32), byte(pointerByte64)) {
		return nil, errors.Wrap(ErrInvalidFileHeader, "ReadHeader pointer width")
	}
	pointer := Pointer32
	if pointerByte == pointerByte64 {
		pointer = Pointer64
	}

	endianByte, err := stream.ReadU8()
	if err != nil {
		return nil, errors.Wrap(ErrUnexpectedEndOfFile, "ReadHeader endian")
	}
	if !oneOf(endianByte, byte(endianByteLittle), byte(endianByteBig)) {
		return nil, errors.Wrap(ErrInvalidFileHeader, "ReadHeader endian")
	}
	endian := bstream.LittleEndian
	if endianByte == endianByteBig {
		endian = bstream.BigEndian
	}

	versionBytes, err := stream.ReadBytes(3)
	if err != nil {
		return nil, errors.Wrap(ErrUnexpectedEndOfFile, "ReadHeader version")
	}
	var version [3]byte
	copy(version[:], versionBytes)

	return &Header{
		Magic:   magic,
		Pointer: pointer,
		Endian:  endian,
		Version: version,
	}, nil
}

func readBlockCode(stream bstream.Reader) (BlockCode, error) {
	bs, err := stream.ReadBytes(4)
	if err != nil {
		return 0, err
	}
	var b [4]byte
	copy(b[:], bs)
	return NewBlockCode(b), nil
}

func readBlockHeader(stream bstream.Reader, pointer PointerWidth) (BlockHeader, error) {
	var header BlockHeader

	code, err := readBlockCode(stream)
	if err != nil {
		return header, errors.Wrap(ErrUnexpectedEndOfFile, "readBlockHeader code")
	}
	header.Code = code

	length, err := stream.ReadU32()
	if err != nil {
		return header, errors.Wrap(ErrUnexpectedEndOfFile, "readBlockHeader length")
	}
	header.PayloadLength = length

	var address uint64
	if pointer == Pointer64 {
		address, err = stream.ReadU64()
	} else {
		var address32 uint32
		address32, err = stream.ReadU32()
		address = uint64(address32)
	}
	if err != nil {
		return header, errors.Wrap(ErrUnexpectedEndOfFile, "readBlockHeader address")
	}
	header.Address = address

	structIndex, err := stream.ReadU32()
	if err != nil {
		return header, errors.Wrap(ErrUnexpectedEndOfFile, "readBlockHeader struct_index")
	}
	header.SDNAStructIndex = structIndex

	count, err := stream.ReadU32()
	if err != nil {
		return header, errors.Wrap(ErrUnexpectedEndOfFile, "readBlockHeader count")
	}
	header.Count = count

	return header, nil
}

// ReadFile decodes the block stream following the header until the ENDB
// sentinel block is seen, then requires the stream to be exactly exhausted.
func ReadFile(stream bstream.Reader, header *Header) (*File, error) {
	var blocks []Block

	for {
		blockHeader, err := readBlockHeader(stream, header.Pointer)
		if err != nil {
			return nil, errors.Wrap(err, "ReadFile")
		}

		block := Block{Header: blockHeader}
		if blockHeader.PayloadLength > 0 {
			body, err := stream.ReadBytes(int(blockHeader.PayloadLength))
			if err != nil {
				return nil, errors.Wrap(ErrUnexpectedEndOfFile, "ReadFile block body")
			}
			block.Body = body
		}
		blocks = append(blocks, block)

		if blockHeader.Code == CodeENDB {
			break
		}
	}

	if !stream.AtEnd() {
		return nil, errors.Wrap(ErrFileNotExhausted, "ReadFile")
	}

	return &File{Header: *header, Blocks: blocks}, nil
}

func readSdnaMagic(stream bstream.Reader, expected BlockCode) error {
	code, err := readBlockCode(stream)
	if err != nil {
		return errors.Wrap(ErrUnexpectedEndOfSdna, "readSdnaMagic")
	}
	if code != expected {
		return errors.Wrapf(ErrInvalidSdnaHeader, "readSdnaMagic: expected %q, got %q", expected, code)
	}
	return nil
}

func readSdnaStrings(stream bstream.Reader, tag BlockCode) ([]string, error) {
	if err := readSdnaMagic(stream, tag); err != nil {
		return nil, err
	}

	count, err := stream.ReadU32()
	if err != nil {
		return nil, errors.Wrap(ErrUnexpectedEndOfSdna, "readSdnaStrings count")
	}

	strings := make([]string, count)
	for i := range strings {
		bs, err := stream.ReadCString()
		if err != nil {
			return nil, errors.Wrap(ErrUnexpectedEndOfSdna, "readSdnaStrings entry")
		}
		strings[i] = string(bs)
	}

	if err := stream.Align(4); err != nil {
		return nil, errors.Wrap(ErrUnexpectedEndOfSdna, "readSdnaStrings align")
	}

	return strings, nil
}

func readSdnaLengths(stream bstream.Reader, count int) ([]uint16, error) {
	if err := readSdnaMagic(stream, codeTLEN); err != nil {
		return nil, err
	}

	lengths := make([]uint16, count)
	for i := range lengths {
		v, err := stream.ReadU16()
		if err != nil {
			return nil, errors.Wrap(ErrUnexpectedEndOfSdna, "readSdnaLengths")
		}
		lengths[i] = v
	}

	if err := stream.Align(4); err != nil {
		return nil, errors.Wrap(ErrUnexpectedEndOfSdna, "readSdnaLengths align")
	}

	return lengths, nil
}

func readSdnaStruct(stream bstream.Reader) (SDNAStruct, error) {
	var result SDNAStruct

	typeIndex, err := stream.ReadU16()
	if err != nil {
		return result, errors.Wrap(ErrUnexpectedEndOfSdna, "readSdnaStruct type_index")
	}
	result.TypeIndex = typeIndex

	fieldCount, err := stream.ReadU16()
	if err != nil {
		return result, errors.Wrap(ErrUnexpectedEndOfSdna, "readSdnaStruct field_count")
	}

	result.Fields = make([]SDNAField, fieldCount)
	for i := range result.Fields {
		fieldTypeIndex, err := stream.ReadU16()
		if err != nil {
			return result, errors.Wrap(ErrUnexpectedEndOfSdna, "readSdnaStruct field type_index")
		}
		fieldNameIndex, err := stream.ReadU16()
		if err != nil {
			return result, errors.Wrap(ErrUnexpectedEndOfSdna, "readSdnaStruct field name_index")
		}
		result.Fields[i] = SDNAField{TypeIndex: fieldTypeIndex, NameIndex: fieldNameIndex}
	}

	return result, nil
}

func readSdnaStructs(stream bstream.Reader) ([]SDNAStruct, error) {
	if err := readSdnaMagic(stream, codeSTRC); err != nil {
		return nil, err
	}

	structCount, err := stream.ReadU32()
	if err != nil {
		return nil, errors.Wrap(ErrUnexpectedEndOfSdna, "readSdnaStructs count")
	}

	structs := make([]SDNAStruct, structCount)
	for i := range structs {
		s, err := readSdnaStruct(stream)
		if err != nil {
			return nil, errors.Wrap(err, "readSdnaStructs")
		}
		structs[i] = s
	}

	return structs, nil
}

// ReadSDNA locates the unique DNA1 block and parses its body as the SDNA
// descriptor: the field-name table, the type-name table, the type-length
// table, and the struct table.
func ReadSDNA(file *File) (*SDNA, error) {
	block, ok := file.BlockByCode(CodeDNA1)
	if !ok {
		return nil, errors.Wrap(ErrSdnaNotFound, "ReadSDNA")
	}

	stream := bstream.NewMemoryReader(block.Body)
	stream.SetEndian(file.Header.Endian)

	if err := readSdnaMagic(stream, codeSDNA); err != nil {
		return nil, errors.Wrap(err, "ReadSDNA")
	}

	fieldNames, err := readSdnaStrings(stream, codeNAME)
	if err != nil {
		return nil, errors.Wrap(err, "ReadSDNA")
	}

	typeNames, err := readSdnaStrings(stream, codeTYPE)
	if err != nil {
		return nil, errors.Wrap(err, "ReadSDNA")
	}

	typeLengths, err := readSdnaLengths(stream, len(typeNames))
	if err != nil {
		return nil, errors.Wrap(err, "ReadSDNA")
	}

	structs, err := readSdnaStructs(stream)
	if err != nil {
		return nil, errors.Wrap(err, "ReadSDNA")
	}

	if !stream.AtEnd() {
		return nil, errors.Wrap(ErrSdnaNotExhausted, "ReadSDNA")
	}

	return &SDNA{
		FieldNames:  fieldNames,
		TypeNames:   typeNames,
		TypeLengths: typeLengths,
		Structs:     structs,
	}, nil
}
