package common

import (
	"unsafe"
)

// SliceToBytes converts any slice to a byte slice for GPU buffer uploads.
// Uses unsafe pointer operations to create a view into the original data.
// WARNING: The returned slice shares memory with the input - do not modify.
//
// Parameters:
//   - data: source slice of any type
//
// Returns:
//   - []byte: byte slice view of the input data, or nil if input is empty
func SliceToBytes[T any](data []T) []byte {
	if len(data) == 0 {
		return nil
	}
	var zero T
	size := unsafe.Sizeof(zero)
	totalBytes := int(size) * len(data)
	return unsafe.Slice((*byte)(unsafe.Pointer(&data[0])), totalBytes)
}

// TexelCenter maps a grid index to the normalized coordinate of its texel centre.
// Index i of n maps to (i+0.5)/n, so the result always lies strictly inside (0, 1).
//
// Parameters:
//   - i: the texel index, in [0, n)
//   - n: the number of texels along the axis (must be > 0)
//
// Returns:
//   - float64: the normalized texel-centre coordinate
func TexelCenter(i, n int) float64 {
	return (float64(i) + 0.5) / float64(n)
}

// Lerp linearly interpolates between a and b.
//
// Parameters:
//   - a: the value at t = 0
//   - b: the value at t = 1
//   - t: the interpolation factor
//
// Returns:
//   - float64: a + (b-a)*t
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}
