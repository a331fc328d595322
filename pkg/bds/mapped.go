package bds

import (
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/sys/unix"
)

// MappedFile is a read-only stream file whose samples are viewed in place.
type MappedFile struct {
	Dims Dims
	// Data aliases the mapping. It must not be retained after Close.
	Data []float32

	raw     []byte
	mmapped bool
}

// OpenMapped maps a stream file read-only through the default transport.
func OpenMapped(path string) (*MappedFile, error) {
	return defaultTransport.OpenMapped(path)
}

// OpenMapped maps a stream file read-only and validates its frame against
// the transport limits. If mmap is unavailable, it falls back to
// ReadAt-based loading. Standard input cannot be mapped. The returned file
// must be closed to release any mapping.
func (t *Transport) OpenMapped(path string) (*MappedFile, error) {
	if path == Stdio {
		return nil, wrap("open", path, ErrCannotOpen, errors.New("standard input cannot be mapped"))
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, wrap("open", path, ErrCannotOpen, err)
	}
	defer func() { _ = f.Close() }()
	t.log.Warn(fileWarning, "path", path)

	stat, err := f.Stat()
	if err != nil {
		return nil, wrap("read", path, ErrRead, err)
	}
	size64 := stat.Size()
	if size64 < int64(FrameLen) {
		return nil, wrap("read", path, ErrRead, fmt.Errorf("%w: frame: %w", ErrRead, io.ErrUnexpectedEOF))
	}
	if size64 > int64(int(^uint(0)>>1)) {
		return nil, wrap("read", path, ErrOutOfMemory, fmt.Errorf("%w: file of %d bytes", ErrOutOfMemory, size64))
	}
	size := int(size64)

	data, err := unix.Mmap(int(f.Fd()), 0, size, unix.PROT_READ, unix.MAP_SHARED)
	if err == nil {
		mf, perr := parseMapped(data, true, t.limits)
		if perr != nil {
			_ = unix.Munmap(data)
			return nil, wrap("read", path, ErrRead, perr)
		}
		return mf, nil
	}

	data, err = readAllAt(f, size)
	if err != nil {
		return nil, wrap("read", path, ErrRead, err)
	}
	mf, err := parseMapped(data, false, t.limits)
	if err != nil {
		return nil, wrap("read", path, ErrRead, err)
	}
	return mf, nil
}

func readAllAt(r io.ReaderAt, size int) ([]byte, error) {
	out := make([]byte, size)
	var off int64
	for off < int64(size) {
		n, err := r.ReadAt(out[off:], off)
		off += int64(n)
		if err == nil {
			continue
		}
		if err == io.EOF && off == int64(size) {
			break
		}
		return nil, fmt.Errorf("%w: %w", ErrRead, err)
	}
	return out, nil
}

func parseMapped(data []byte, mmapped bool, limits Limits) (*MappedFile, error) {
	var sig [SignatureLen]byte
	copy(sig[:], data)
	if err := CheckSignature(sig); err != nil {
		return nil, err
	}
	var hdr [HeaderLen]byte
	copy(hdr[:], data[SignatureLen:])
	d, err := DecodeHeader(hdr)
	if err != nil {
		return nil, err
	}

	n, err := d.Len()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRead, err)
	}
	if err := limits.Check(n); err != nil {
		return nil, err
	}
	size := n * SampleSize
	if avail := len(data) - FrameLen; size > avail {
		return nil, fmt.Errorf("%w: payload needs %d bytes, file has %d: %w", ErrRead, size, avail, io.ErrUnexpectedEOF)
	}

	return &MappedFile{
		Dims:    d,
		Data:    byteSamples(data[FrameLen : FrameLen+size]),
		raw:     data,
		mmapped: mmapped,
	}, nil
}

// Close releases the mapping.
func (f *MappedFile) Close() error {
	if f == nil || f.raw == nil {
		return nil
	}
	var err error
	if f.mmapped {
		err = unix.Munmap(f.raw)
	}
	f.raw = nil
	f.Data = nil
	f.mmapped = false
	return err
}

// Array copies the mapped samples into an Array that outlives the mapping.
func (f *MappedFile) Array() *Array {
	data := make([]float32, len(f.Data))
	copy(data, f.Data)
	return &Array{Dims: f.Dims, Data: data}
}
