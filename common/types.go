// package common contains common types that are used throughout this engine. They are not interface-wrapped structs, just plain structs that express
// commonly used data-types.
package common

// TextureStagingData holds texel data for a lookup-table texture pending GPU upload.
// Staging is produced on the CPU from a bake result and consumed by the renderer's uploader, which creates the GPU texture and writes the bytes.
type TextureStagingData struct {
	// Pixels is the raw texel data, tightly packed in row-major order (x fastest, then y, then z).
	Pixels []byte
	// Width is the width of the texture in texels.
	Width uint32
	// Height is the height of the texture in texels.
	Height uint32
	// Depth is the number of slices for 3D textures. It is 1 for 2D textures.
	Depth uint32
	// BytesPerTexel is the size of a single texel in bytes, used to compute the row pitch for the upload.
	BytesPerTexel uint32
}

// BytesPerRow returns the row pitch of the staged data.
//
// Returns:
//   - uint32: Width * BytesPerTexel
func (s TextureStagingData) BytesPerRow() uint32 {
	return s.Width * s.BytesPerTexel
}
