package bds

import (
	"io"
	"unsafe"
)

// sampleBytes views samples as their in-memory bytes, host byte order.
func sampleBytes(s []float32) []byte {
	if len(s) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&s[0])), len(s)*SampleSize)
}

// byteSamples views b as samples. b must be 4-byte aligned and its length
// a multiple of SampleSize.
func byteSamples(b []byte) []float32 {
	if len(b) < SampleSize {
		return []float32{}
	}
	return unsafe.Slice((*float32)(unsafe.Pointer(&b[0])), len(b)/SampleSize)
}

func writeFull(w io.Writer, p []byte) error {
	for len(p) > 0 {
		n, err := w.Write(p)
		if err != nil {
			return err
		}
		if n == 0 {
			return io.ErrShortWrite
		}
		p = p[n:]
	}
	return nil
}
