package bake

// dilateNeighborOrder is the fixed row-major 3x3 neighbor scan order
// (excluding the center texel) used to pick a replacement for an
// invalid texel.
var dilateNeighborOrder = [8][2]int{
	{-1, -1}, {0, -1}, {1, -1},
	{-1, 0}, {1, 0},
	{-1, 1}, {0, 1}, {1, 1},
}

// Dilator expands valid texels outward by one ring so bilinear
// filtering at runtime never reads background outside a chart.
type Dilator struct{}

// NewDilator constructs a CPU Dilator. This is the only dilation
// implementation; internal/bake/glraster has no GPU dilation pass.
func NewDilator() *Dilator {
	return &Dilator{}
}

// Dilate writes one dilation pass of src into dst. src and dst must be
// distinct framebuffers of equal size.
func (d *Dilator) Dilate(src, dst *Framebuffer) {
	for y := 0; y < src.Height; y++ {
		for x := 0; x < src.Width; x++ {
			r, g, b, a := src.At(x, y)
			if isValidTexel(r, g, b, a) {
				dst.Set(x, y, r, g, b, a)
				continue
			}

			nr, ng, nb, na, found := findValidNeighbor(src, x, y)
			if found {
				dst.Set(x, y, nr, ng, nb, na)
			} else {
				dst.Set(x, y, 0, 0, 0, 0)
			}
		}
	}
}

func findValidNeighbor(src *Framebuffer, x, y int) (r, g, b, a float32, found bool) {
	for _, off := range dilateNeighborOrder {
		nx, ny := x+off[0], y+off[1]
		if nx < 0 || ny < 0 || nx >= src.Width || ny >= src.Height {
			continue
		}
		nr, ng, nb, na := src.At(nx, ny)
		if isValidTexel(nr, ng, nb, na) {
			return nr, ng, nb, na, true
		}
	}
	return 0, 0, 0, 0, false
}

// isValidTexel implements the conventional validity predicate from
// spec.md §4.6: a texel is invalid iff RGB and alpha are all zero.
func isValidTexel(r, g, b, a float32) bool {
	return r != 0 || g != 0 || b != 0 || a != 0
}
