package bds

import (
	"fmt"
	"math"
)

// Limits constrains decode memory use.
type Limits struct {
	// MaxElements caps the samples a stream may declare. Zero means no cap
	// beyond what the platform can address.
	MaxElements uint64
}

// DefaultLimits places no cap on decoding.
func DefaultLimits() Limits {
	return Limits{}
}

// Check reports whether n samples may be allocated under l.
func (l Limits) Check(n int) error {
	if n < 0 || n > math.MaxInt/SampleSize {
		return fmt.Errorf("%w: %d samples", ErrOutOfMemory, n)
	}
	if l.MaxElements != 0 && uint64(n) > l.MaxElements {
		return fmt.Errorf("%w: %d samples exceeds limit %d", ErrOutOfMemory, n, l.MaxElements)
	}
	return nil
}

// allocSamples returns a zeroed buffer of n samples. Allocation failures
// the runtime reports as panics come back as ErrOutOfMemory.
func allocSamples(n int, limits Limits) (data []float32, err error) {
	if err := limits.Check(n); err != nil {
		return nil, err
	}
	if n == 0 {
		return []float32{}, nil
	}
	defer func() {
		if r := recover(); r != nil {
			data = nil
			err = fmt.Errorf("%w: %d samples: %v", ErrOutOfMemory, n, r)
		}
	}()
	return make([]float32, n), nil
}
