// Package bformat decodes the blend file header, block stream, and embedded
// Structure DNA (SDNA) descriptor. It knows the wire layout; it does not
// build a type graph out of the SDNA — that is breflect's job.
package bformat

import (
	"encoding/binary"

	"github.com/cblend/cblend-go/bstream"
)

// PointerWidth is the producer's pointer size, read from the file header.
type PointerWidth uint8

const (
	Pointer32 PointerWidth = iota
	Pointer64
)

// Size returns the number of bytes a single pointer occupies in this file.
func (p PointerWidth) Size() int {
	if p == Pointer64 {
		return 8
	}
	return 4
}

const (
	pointerByte32 = '_'
	pointerByte64 = '-'
	endianByteLittle = 'v'
	endianByteBig    = 'V'
)

var headerMagic = [7]byte{'B', 'L', 'E', 'N', 'D', 'E', 'R'}

// Header is the fixed-size prefix of every blend file.
type Header struct {
	Magic   [7]byte
	Pointer PointerWidth
	Endian  bstream.Endian
	Version [3]byte
}

// BlockCode is a 4-byte block tag, always interpreted as a little-endian
// 32-bit integer regardless of host byte order — blend files store block
// codes as raw character bytes, not as host-native integers.
type BlockCode uint32

// NewBlockCode reinterprets four raw bytes as a BlockCode.
func NewBlockCode(b [4]byte) BlockCode {
	return BlockCode(binary.LittleEndian.Uint32(b[:]))
}

// String renders the code back to its ASCII form, trimming trailing zero
// bytes for two-letter codes.
func (c BlockCode) String() string {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], uint32(c))
	n := 4
	for n > 0 && b[n-1] == 0 {
		n--
	}
	return string(b[:n])
}

func mustCode(s string) BlockCode {
	var b [4]byte
	copy(b[:], s)
	return NewBlockCode(b)
}

// Named block codes for every top-level data-block type a blend file can
// carry. No operation's meaning depends on these existing; they just save
// callers from hand-rolling 4-byte literals.
var (
	CodeDATA = mustCode("DATA") // Arbitrary data
	CodeGLOB = mustCode("GLOB") // Global struct
	CodeDNA1 = mustCode("DNA1") // SDNA data
	CodeTEST = mustCode("TEST") // Thumbnail previews
	CodeREND = mustCode("REND") // Scene and frame info
	CodeUSER = mustCode("USER") // User preferences
	CodeENDB = mustCode("ENDB") // End of file

	CodeAC = mustCode("AC") // Action channel
	CodeAR = mustCode("AR") // Armature
	CodeBR = mustCode("BR") // Brush
	CodeCA = mustCode("CA") // Camera
	CodeCF = mustCode("CF") // Cache file
	CodeCO = mustCode("CO") // Constraint
	CodeCU = mustCode("CU") // Curve
	CodeCV = mustCode("CV") // Curves
	CodeFS = mustCode("FS") // Fluid sim
	CodeGD = mustCode("GD") // Grease pencil
	CodeGR = mustCode("GR") // Collection
	CodeID = mustCode("ID") // Placeholder
	CodeIM = mustCode("IM") // Image
	CodeIP = mustCode("IP") // Ipo
	CodeKE = mustCode("KE") // Shape key
	CodeLA = mustCode("LA") // Light
	CodeLI = mustCode("LI") // Library
	CodeLP = mustCode("LP") // Light probe
	CodeLS = mustCode("LS") // Line style
	CodeLT = mustCode("LT") // Lattice
	CodeMA = mustCode("MA") // Material
	CodeMB = mustCode("MB") // Meta ball
	CodeMC = mustCode("MC") // Movie clip
	CodeME = mustCode("ME") // Mesh
	CodeMS = mustCode("MS") // Mask
	CodeNL = mustCode("NL") // Outline
	CodeNT = mustCode("NT") // Node tree
	CodeOB = mustCode("OB") // Object
	CodePA = mustCode("PA") // Particle settings
	CodePC = mustCode("PC") // Paint curve
	CodePL = mustCode("PL") // Palette
	CodePT = mustCode("PT") // Point cloud
	CodeSC = mustCode("SC") // Scene
	CodeSI = mustCode("SI") // Simulation
	CodeSK = mustCode("SK") // Speaker
	CodeSN = mustCode("SN") // Deprecated
	CodeSO = mustCode("SO") // Sound
	CodeSQ = mustCode("SQ") // Fake data
	CodeSR = mustCode("SR") // Screen
	CodeTE = mustCode("TE") // Texture
	CodeTX = mustCode("TX") // Text
	CodeVF = mustCode("VF") // Vector font
	CodeVO = mustCode("VO") // Volume
	CodeWM = mustCode("WM") // Window manager
	CodeWO = mustCode("WO") // World
	CodeWS = mustCode("WS") // Workspace

	codeSDNA = mustCode("SDNA")
	codeNAME = mustCode("NAME")
	codeTYPE = mustCode("TYPE")
	codeTLEN = mustCode("TLEN")
	codeSTRC = mustCode("STRC")
)

// BlockHeader describes one block in the file's block stream.
type BlockHeader struct {
	Code            BlockCode
	PayloadLength   uint32
	Address         uint64
	SDNAStructIndex uint32
	Count           uint32
}

// Block is a decoded block: its header plus its raw body bytes.
type Block struct {
	Header BlockHeader
	Body   []byte
}

// File is the full decoded block stream, in file order, terminated by the
// ENDB sentinel block.
type File struct {
	Header Header
	Blocks []Block
}

// BlockByCode returns the first block with the given code, if any.
func (f *File) BlockByCode(code BlockCode) (*Block, bool) {
	for i := range f.Blocks {
		if f.Blocks[i].Header.Code == code {
			return &f.Blocks[i], true
		}
	}
	return nil, false
}

// BlocksByCode returns every block with the given code, in file order.
func (f *File) BlocksByCode(code BlockCode) []*Block {
	var out []*Block
	for i := range f.Blocks {
		if f.Blocks[i].Header.Code == code {
			out = append(out, &f.Blocks[i])
		}
	}
	return out
}

// SDNAField names one member of an SDNAStruct by index into the SDNA's
// type and field-name tables.
type SDNAField struct {
	TypeIndex uint16
	NameIndex uint16
}

// SDNAStruct is one aggregate layout entry in the SDNA struct table.
type SDNAStruct struct {
	TypeIndex uint16
	Fields    []SDNAField
}

// SDNA is the parsed "Structure DNA" descriptor: the schema for every
// aggregate type referenced anywhere else in the file.
type SDNA struct {
	FieldNames  []string
	TypeNames   []string
	TypeLengths []uint16
	Structs     []SDNAStruct
}
