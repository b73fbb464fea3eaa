package bformat

import "github.com/pkg/errors"

// Format-layer error sentinels returned by ReadHeader, ReadFile, and
// ReadSDNA. Compare with errors.Is; every returned error is wrapped with
// errors.Wrap/Wrapf for call-site context.
var (
	ErrInvalidFileHeader   = errors.New("bformat: invalid file header")
	ErrInvalidBlockHeader  = errors.New("bformat: invalid block header")
	ErrUnexpectedEndOfFile = errors.New("bformat: unexpected end of file")
	ErrFileNotExhausted    = errors.New("bformat: file not exhausted after block stream")
	ErrSdnaNotFound        = errors.New("bformat: DNA1 block not found")
	ErrInvalidSdnaHeader   = errors.New("bformat: invalid SDNA section header")
	ErrUnexpectedEndOfSdna = errors.New("bformat: unexpected end of SDNA block")
	ErrSdnaNotExhausted    = errors.New("bformat: SDNA block not exhausted after STRC section")
)
