package bds

import (
	"io"
	"os"

	"github.com/nilx/io-bds/internal/logger"
)

const fileWarning = "binary data stream format is not safe for file storage"

// Warner receives the storage warning. Both logger.Logger and *slog.Logger
// satisfy it.
type Warner interface {
	Warn(msg string, args ...any)
}

// Transport reads and writes streams by name. The name "-" binds to the
// transport's standard input or output, which it never closes; any other
// name is a file path the transport opens and closes itself.
//
// A Transport keeps no per-call state and may be shared, but a single
// stream must not be used by two calls at once.
type Transport struct {
	stdin  io.Reader
	stdout io.Writer
	log    Warner
	limits Limits
}

type Option func(*Transport)

// WithLogger sets where storage warnings go.
func WithLogger(l Warner) Option {
	return func(t *Transport) {
		if l != nil {
			t.log = l
		}
	}
}

// WithStdio replaces the streams bound to "-".
func WithStdio(stdin io.Reader, stdout io.Writer) Option {
	return func(t *Transport) {
		if stdin != nil {
			t.stdin = stdin
		}
		if stdout != nil {
			t.stdout = stdout
		}
	}
}

// WithLimits caps the array size ReadFile accepts.
func WithLimits(l Limits) Option {
	return func(t *Transport) {
		t.limits = l
	}
}

func NewTransport(opts ...Option) *Transport {
	t := &Transport{
		stdin:  os.Stdin,
		stdout: os.Stdout,
		log:    logger.Default(),
		limits: DefaultLimits(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

var defaultTransport = NewTransport()

// ReadFile reads a stream from a file, or from standard input for "-".
func ReadFile(name string) (*Array, error) {
	return defaultTransport.ReadFile(name)
}

// WriteFile writes a stream to a file, or to standard output for "-".
func WriteFile(name string, a *Array) error {
	return defaultTransport.WriteFile(name, a)
}

func (t *Transport) ReadFile(name string) (*Array, error) {
	r, done, err := t.openSource(name)
	if err != nil {
		return nil, err
	}
	defer func() { _ = done() }()

	a, err := decode(r, t.limits)
	if err != nil {
		return nil, wrap("read", name, ErrRead, err)
	}
	return a, nil
}

// ReadFrame reads only the signature and header of a named stream.
func (t *Transport) ReadFrame(name string) (Dims, error) {
	r, done, err := t.openSource(name)
	if err != nil {
		return Dims{}, err
	}
	defer func() { _ = done() }()

	d, err := readFrame(r)
	if err != nil {
		return Dims{}, wrap("read", name, ErrRead, err)
	}
	return d, nil
}

// WriteFile writes a as one stream. Arrays that cannot be encoded are
// refused before the file is created, and a file whose write fails is
// removed, so no partial stream is left behind.
func (t *Transport) WriteFile(name string, a *Array) error {
	if err := checkEncodable(a.Data, a.Dims); err != nil {
		return wrap("write", name, ErrWrite, err)
	}

	w, done, err := t.openDest(name)
	if err != nil {
		return err
	}
	if err := encode(w, a.Data, a.Dims); err != nil {
		_ = done()
		t.discard(name)
		return wrap("write", name, ErrWrite, err)
	}
	if err := done(); err != nil {
		t.discard(name)
		return wrap("write", name, ErrWrite, err)
	}
	return nil
}

// discard removes a partially written file. Standard output is left alone.
func (t *Transport) discard(name string) {
	if name == Stdio {
		return
	}
	_ = os.Remove(name)
}

func (t *Transport) openSource(name string) (io.Reader, func() error, error) {
	if name == Stdio {
		return t.stdin, noClose, nil
	}
	f, err := os.Open(name)
	if err != nil {
		return nil, nil, wrap("open", name, ErrCannotOpen, err)
	}
	t.log.Warn(fileWarning, "path", name)
	return f, f.Close, nil
}

func (t *Transport) openDest(name string) (io.Writer, func() error, error) {
	if name == Stdio {
		return t.stdout, noClose, nil
	}
	f, err := os.Create(name)
	if err != nil {
		return nil, nil, wrap("open", name, ErrCannotOpen, err)
	}
	t.log.Warn(fileWarning, "path", name)
	return f, f.Close, nil
}

func noClose() error { return nil }
