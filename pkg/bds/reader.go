package bds

import (
	"fmt"
	"io"
)

// ReadFrame reads and validates the signature and header, leaving r at
// the first payload byte.
func ReadFrame(r io.Reader) (Dims, error) {
	d, err := readFrame(r)
	if err != nil {
		return Dims{}, wrap("read", "", ErrRead, err)
	}
	return d, nil
}

// Read decodes one stream into a freshly allocated array.
func Read(r io.Reader) (*Array, error) {
	return ReadWithLimits(r, DefaultLimits())
}

// ReadWithLimits is Read with a cap on the declared array size.
func ReadWithLimits(r io.Reader, limits Limits) (*Array, error) {
	a, err := decode(r, limits)
	if err != nil {
		return nil, wrap("read", "", ErrRead, err)
	}
	return a, nil
}

func readFrame(r io.Reader) (Dims, error) {
	var sig [SignatureLen]byte
	if _, err := io.ReadFull(r, sig[:]); err != nil {
		return Dims{}, fmt.Errorf("%w: signature: %w", ErrRead, err)
	}
	if err := CheckSignature(sig); err != nil {
		return Dims{}, err
	}

	var hdr [HeaderLen]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return Dims{}, fmt.Errorf("%w: header: %w", ErrRead, err)
	}
	return DecodeHeader(hdr)
}

func decode(r io.Reader, limits Limits) (*Array, error) {
	d, err := readFrame(r)
	if err != nil {
		return nil, err
	}

	n, err := d.Len()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRead, err)
	}
	data, err := readSamples(r, n, limits)
	if err != nil {
		return nil, err
	}
	return &Array{Dims: d, Data: data}, nil
}

// chunkSamples bounds how far the sample buffer runs ahead of the bytes
// actually received.
const chunkSamples = 1 << 16

// readSamples reads n samples in chunks. The buffer grows only as payload
// arrives, so a header declaring a huge array but followed by a short
// payload fails with ErrRead after committing at most twice the memory the
// stream delivered.
func readSamples(r io.Reader, n int, limits Limits) ([]float32, error) {
	if err := limits.Check(n); err != nil {
		return nil, err
	}
	data, err := allocSamples(min(n, chunkSamples), limits)
	if err != nil {
		return nil, err
	}
	data = data[:0]
	for len(data) < n {
		k := min(n-len(data), chunkSamples)
		if cap(data)-len(data) < k {
			grown, err := allocSamples(min(n, max(2*cap(data), len(data)+k)), limits)
			if err != nil {
				return nil, err
			}
			data = grown[:copy(grown, data)]
		}
		next := data[len(data) : len(data)+k]
		if _, err := io.ReadFull(r, sampleBytes(next)); err != nil {
			if err == io.EOF && len(data) > 0 {
				err = io.ErrUnexpectedEOF
			}
			return nil, fmt.Errorf("%w: payload of %d samples, got %d: %w", ErrRead, n, len(data), err)
		}
		data = data[:len(data)+k]
	}
	return data, nil
}
