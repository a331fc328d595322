package bds

import (
	"bytes"
	"fmt"
	"math/bits"
	"strconv"
)

// The header is a NUL terminated text block readable with the scanf
// format "%s%lu%lu%lu". The writer emits
//
//	" flt <nx> <ny> <nc>" + spaces + "\x00"
//
// and the reader accepts any whitespace layout, e.g. all of
//
//	|.BDS....0002 flt 7 5 3                                         .|
//	|.BDS....0002flt 7 5 3                                          .|
//	|.BDS....0002    flt    7    5    3                             .|
//
// A 7x5x3 stream therefore starts with
//
//	00000  89 42 44 53 0d 0a 1a 0a  30 30 30 32 20 66 6c 74  |.BDS....0002 flt|
//	00010  20 37 20 35 20 33 20 20  20 20 20 20 20 20 20 20  | 7 5 3          |
//	00020  20 20 20 20 20 20 20 20  20 20 20 20 20 20 20 20  |                |
//	00030  20 20 20 20 20 20 20 20  20 20 20 20 20 20 20 00  |               .|

// NumDigits returns the number of decimal digits of n.
func NumDigits(n uint) int {
	d := 1
	for n >= 10 {
		n /= 10
		d++
	}
	return d
}

// headerSize is the encoded length of the header tokens, terminator included.
func headerSize(d Dims) int {
	return 1 + // leading space
		len(TypeFloat32) + 1 +
		NumDigits(d.NX) + 1 +
		NumDigits(d.NY) + 1 +
		NumDigits(d.NC) +
		1 // NUL
}

// EncodeHeader builds the header block for d. It fails with
// ErrHeaderTooLarge, returning a zero block, when the dimensions do not
// fit in HeaderLen bytes.
func EncodeHeader(d Dims) ([HeaderLen]byte, error) {
	var hdr [HeaderLen]byte
	if n := headerSize(d); n > HeaderLen {
		return hdr, fmt.Errorf("%w: %s needs %d bytes, have %d", ErrHeaderTooLarge, d, n, HeaderLen)
	}

	buf := make([]byte, 0, HeaderLen)
	buf = append(buf, ' ')
	buf = append(buf, TypeFloat32...)
	buf = append(buf, ' ')
	buf = strconv.AppendUint(buf, uint64(d.NX), 10)
	buf = append(buf, ' ')
	buf = strconv.AppendUint(buf, uint64(d.NY), 10)
	buf = append(buf, ' ')
	buf = strconv.AppendUint(buf, uint64(d.NC), 10)

	n := copy(hdr[:], buf)
	for i := n; i < HeaderLen-1; i++ {
		hdr[i] = ' '
	}
	hdr[HeaderLen-1] = 0
	return hdr, nil
}

// DecodeHeader parses a header block. The last byte is always treated as
// the terminator. Fewer than four tokens, or a dimension that is not an
// unsigned decimal fitting in a uint, yields ErrMalformedHeader; a type tag
// other than "flt" yields ErrUnsupportedType. Tokens after the fourth are
// ignored.
func DecodeHeader(hdr [HeaderLen]byte) (Dims, error) {
	text := hdr[:HeaderLen-1]
	if i := bytes.IndexByte(text, 0); i >= 0 {
		text = text[:i]
	}

	tokens := splitTokens(text, 4)
	if len(tokens) < 4 {
		return Dims{}, fmt.Errorf("%w: %d of 4 fields", ErrMalformedHeader, len(tokens))
	}

	var dims [3]uint
	for i, tok := range tokens[1:4] {
		v, err := strconv.ParseUint(string(tok), 10, bits.UintSize)
		if err != nil {
			return Dims{}, fmt.Errorf("%w: dimension %d: %q", ErrMalformedHeader, i, tok)
		}
		dims[i] = uint(v)
	}

	if tag := string(tokens[0]); tag != TypeFloat32 {
		return Dims{}, fmt.Errorf("%w: %q", ErrUnsupportedType, tag)
	}
	return Dims{NX: dims[0], NY: dims[1], NC: dims[2]}, nil
}

// splitTokens returns up to limit whitespace separated tokens of b.
func splitTokens(b []byte, limit int) [][]byte {
	tokens := make([][]byte, 0, limit)
	for len(b) > 0 && len(tokens) < limit {
		i := 0
		for i < len(b) && isSpace(b[i]) {
			i++
		}
		b = b[i:]
		if len(b) == 0 {
			break
		}
		j := 0
		for j < len(b) && !isSpace(b[j]) {
			j++
		}
		tokens = append(tokens, b[:j])
		b = b[j:]
	}
	return tokens
}

// isSpace matches the C locale isspace set.
func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}
