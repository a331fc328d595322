package bds

import (
	"errors"
	"strings"
)

var (
	ErrCannotOpen         = errors.New("bds: cannot open stream")
	ErrSignatureMismatch  = errors.New("bds: data is not a correctly formatted BDS")
	ErrUnsupportedVersion = errors.New("bds: wrong BDS ABI version in this data stream")
	ErrMalformedHeader    = errors.New("bds: wrong header in this data stream")
	ErrUnsupportedType    = errors.New("bds: unsupported data type in this data stream")
	ErrHeaderTooLarge     = errors.New("bds: array dimensions too large for the header format")
	ErrRead               = errors.New("bds: read error")
	ErrWrite              = errors.New("bds: write error")
	ErrOutOfMemory        = errors.New("bds: not enough memory")

	// Causes carried alongside a kind.
	ErrSizeOverflow = errors.New("bds: array size overflows")
	ErrShortBuffer  = errors.New("bds: sample buffer shorter than dimensions")
)

// Error reports a failed stream operation.
//
// Kind is one of the package sentinel errors; Err is the underlying cause,
// typically an *fs.PathError or io.ErrUnexpectedEOF. Both are visible to
// errors.Is and errors.As.
type Error struct {
	Op   string
	Path string
	Kind error
	Err  error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Op)
	if e.Path != "" {
		b.WriteString(" ")
		b.WriteString(e.Path)
	}
	b.WriteString(": ")
	switch {
	case e.Err == nil:
		b.WriteString(e.Kind.Error())
	case e.Kind == nil || errors.Is(e.Err, e.Kind):
		b.WriteString(e.Err.Error())
	default:
		b.WriteString(e.Kind.Error())
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() []error {
	out := make([]error, 0, 2)
	if e.Kind != nil {
		out = append(out, e.Kind)
	}
	if e.Err != nil {
		out = append(out, e.Err)
	}
	return out
}

// wrap attaches op and path to err. The kind is taken from err when it
// already matches a sentinel, otherwise fallback is used. An existing
// *Error keeps its kind and only gains a missing path.
func wrap(op, path string, fallback, err error) error {
	if err == nil {
		return nil
	}
	var be *Error
	if errors.As(err, &be) {
		out := *be
		if out.Path == "" {
			out.Path = path
		}
		return &out
	}
	kind := classify(err)
	if kind == nil {
		kind = fallback
	}
	if err == kind {
		return &Error{Op: op, Path: path, Kind: kind}
	}
	return &Error{Op: op, Path: path, Kind: kind, Err: err}
}

var kinds = []error{
	ErrCannotOpen,
	ErrSignatureMismatch,
	ErrUnsupportedVersion,
	ErrMalformedHeader,
	ErrUnsupportedType,
	ErrHeaderTooLarge,
	ErrRead,
	ErrWrite,
	ErrOutOfMemory,
}

// classify returns the taxonomy kind err belongs to, or nil.
func classify(err error) error {
	for _, k := range kinds {
		if errors.Is(err, k) {
			return k
		}
	}
	return nil
}
