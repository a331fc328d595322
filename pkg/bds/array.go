package bds

import (
	"fmt"
	"math"
	"math/bits"
)

// Dims are the array dimensions: columns, rows and channels.
type Dims struct {
	NX uint
	NY uint
	NC uint
}

// Len returns the number of samples nx*ny*nc.
// It fails with ErrSizeOverflow when the sample count, or its size in
// bytes, cannot be represented as an int.
func (d Dims) Len() (int, error) {
	hi, n := bits.Mul64(uint64(d.NX), uint64(d.NY))
	if hi != 0 {
		return 0, fmt.Errorf("%w: %dx%dx%d", ErrSizeOverflow, d.NX, d.NY, d.NC)
	}
	hi, n = bits.Mul64(n, uint64(d.NC))
	if hi != 0 || n > math.MaxInt/SampleSize {
		return 0, fmt.Errorf("%w: %dx%dx%d", ErrSizeOverflow, d.NX, d.NY, d.NC)
	}
	return int(n), nil
}

// PayloadSize returns the payload size in bytes.
func (d Dims) PayloadSize() (int, error) {
	n, err := d.Len()
	if err != nil {
		return 0, err
	}
	return n * SampleSize, nil
}

func (d Dims) String() string {
	return fmt.Sprintf("%dx%dx%d", d.NX, d.NY, d.NC)
}

// Array is a deinterlaced float32 image: all samples of channel 0 first,
// then channel 1, and so on, each channel stored row by row.
type Array struct {
	Dims Dims
	Data []float32
}

// NewArray allocates a zeroed array.
func NewArray(d Dims) (*Array, error) {
	n, err := d.Len()
	if err != nil {
		return nil, err
	}
	data, err := allocSamples(n, Limits{})
	if err != nil {
		return nil, err
	}
	return &Array{Dims: d, Data: data}, nil
}

// Index returns the position of sample (x, y, c) in Data. Coordinates
// must satisfy x < NX, y < NY and c < NC; Index does not check them.
func (a *Array) Index(x, y, c uint) int {
	return int((c*a.Dims.NY+y)*a.Dims.NX + x)
}

// At returns sample (x, y, c). It panics if the coordinates are out of range.
func (a *Array) At(x, y, c uint) float32 {
	a.checkCoords(x, y, c)
	return a.Data[a.Index(x, y, c)]
}

// Set stores sample (x, y, c). It panics if the coordinates are out of range.
func (a *Array) Set(x, y, c uint, v float32) {
	a.checkCoords(x, y, c)
	a.Data[a.Index(x, y, c)] = v
}

func (a *Array) checkCoords(x, y, c uint) {
	if x >= a.Dims.NX || y >= a.Dims.NY || c >= a.Dims.NC {
		panic(fmt.Sprintf("bds: sample (%d, %d, %d) out of range for %s", x, y, c, a.Dims))
	}
}

// Coords is the inverse of Index. i must be in [0, len(Data)).
func (a *Array) Coords(i int) (x, y, c uint) {
	u := uint(i)
	x = u % a.Dims.NX
	y = u / a.Dims.NX % a.Dims.NY
	c = u / a.Dims.NX / a.Dims.NY
	return x, y, c
}

// Channel returns a view of one channel plane. It panics if c >= NC.
func (a *Array) Channel(c uint) []float32 {
	if c >= a.Dims.NC {
		panic(fmt.Sprintf("bds: channel %d out of range for %s", c, a.Dims))
	}
	plane := int(a.Dims.NX * a.Dims.NY)
	start := int(c) * plane
	return a.Data[start : start+plane]
}
