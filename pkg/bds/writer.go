package bds

import (
	"fmt"
	"io"
)

// Write encodes data with dimensions d as one stream. data must hold at
// least d.Len() samples; only that many are written.
//
// The header is built before anything is written, so dimensions that do
// not fit the header format leave w untouched.
func Write(w io.Writer, data []float32, d Dims) error {
	if err := encode(w, data, d); err != nil {
		return wrap("write", "", ErrWrite, err)
	}
	return nil
}

// WriteArray encodes a.
func WriteArray(w io.Writer, a *Array) error {
	return Write(w, a.Data, a.Dims)
}

// checkEncodable reports why data with dimensions d cannot be written,
// without writing anything.
func checkEncodable(data []float32, d Dims) error {
	_, _, err := prepare(data, d)
	return err
}

func prepare(data []float32, d Dims) ([HeaderLen]byte, int, error) {
	hdr, err := EncodeHeader(d)
	if err != nil {
		return hdr, 0, err
	}
	n, err := d.Len()
	if err != nil {
		return hdr, 0, fmt.Errorf("%w: %w", ErrWrite, err)
	}
	if len(data) < n {
		return hdr, 0, fmt.Errorf("%w: %w: have %d want %d", ErrWrite, ErrShortBuffer, len(data), n)
	}
	return hdr, n, nil
}

func encode(w io.Writer, data []float32, d Dims) error {
	hdr, n, err := prepare(data, d)
	if err != nil {
		return err
	}

	sig := Signature()
	if err := writeFull(w, sig[:]); err != nil {
		return fmt.Errorf("%w: signature: %w", ErrWrite, err)
	}
	if err := writeFull(w, hdr[:]); err != nil {
		return fmt.Errorf("%w: header: %w", ErrWrite, err)
	}
	if err := writeFull(w, sampleBytes(data[:n])); err != nil {
		return fmt.Errorf("%w: payload of %d samples: %w", ErrWrite, n, err)
	}
	return nil
}
