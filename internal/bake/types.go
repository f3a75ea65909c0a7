// Package bake implements the offline lightmap baking pipeline: UV atlas
// construction, bake-point rasterization, Monte-Carlo path tracing,
// parallel scheduling, seam dilation, and atlas persistence.
package bake

import "github.com/nightforge/lumibake/pkg/math"

// Vertex is a runtime mesh vertex, augmented with a lightmap UV once the
// mesh has been through AtlasBuilder.
type Vertex struct {
	Position   [3]float32
	TexCoord   [2]float32
	Normal     [3]float32
	Tangent    [3]float32
	Bitangent  [3]float32
	LightmapUV [2]float32
}

// SubMesh is a material-homogeneous index range within a larger mesh.
type SubMesh struct {
	BaseIndex  uint32
	IndexCount uint32
	BaseVertex uint32
	Albedo     math.Vec3
}

// UnwrappedMesh is the original mesh augmented with per-vertex lightmap
// UVs from the chart packer. Vertex arrays may grow relative to the
// source mesh (chart splitting duplicates vertices whose UVs differ
// across charts); triangle count never changes.
type UnwrappedMesh struct {
	SubMeshes []SubMesh
	Vertices  []Vertex
	Indices   []uint32
}

// AtlasConfig describes the target atlas geometry.
type AtlasConfig struct {
	// Resolution is the atlas side length in texels. Must be a power of
	// two >= 64.
	Resolution int
	// Padding is the number of texels reserved between charts.
	Padding int
}

// BakePoint is a per-texel surface sample used to seed the path tracer.
// Direction holds the (not necessarily renormalized) surface normal the
// hemisphere sampler is oriented by.
type BakePoint struct {
	Position  math.Vec3
	Direction math.Vec3
	Coord     [2]uint16
}

// Framebuffer is an L x L RGBA float image. Alpha encodes texel
// validity: 0 for gutter/back-face/invalid texels, 1 for valid ones.
type Framebuffer struct {
	Width, Height int
	Pixels        []float32 // len == Width*Height*4, row-major, top to bottom
}

// NewFramebuffer allocates a zeroed framebuffer of the given size.
func NewFramebuffer(size int) *Framebuffer {
	return &Framebuffer{
		Width:  size,
		Height: size,
		Pixels: make([]float32, size*size*4),
	}
}

// At returns the RGBA value stored at (x, y).
func (fb *Framebuffer) At(x, y int) (r, g, b, a float32) {
	i := (y*fb.Width + x) * 4
	return fb.Pixels[i], fb.Pixels[i+1], fb.Pixels[i+2], fb.Pixels[i+3]
}

// Set stores an RGBA value at (x, y).
func (fb *Framebuffer) Set(x, y int, r, g, b, a float32) {
	i := (y*fb.Width + x) * 4
	fb.Pixels[i] = r
	fb.Pixels[i+1] = g
	fb.Pixels[i+2] = b
	fb.Pixels[i+3] = a
}

// SetCoord is a convenience wrapper for the uint16 BakePoint.Coord pair.
func (fb *Framebuffer) SetCoord(c [2]uint16, r, g, b, a float32) {
	fb.Set(int(c[0]), int(c[1]), r, g, b, a)
}

// Valid reports whether the texel at (x, y) is a valid (non-gutter) sample.
func (fb *Framebuffer) Valid(x, y int) bool {
	_, _, _, a := fb.At(x, y)
	return a != 0
}

// Clone returns a deep copy of the framebuffer.
func (fb *Framebuffer) Clone() *Framebuffer {
	out := &Framebuffer{Width: fb.Width, Height: fb.Height, Pixels: make([]float32, len(fb.Pixels))}
	copy(out.Pixels, fb.Pixels)
	return out
}
