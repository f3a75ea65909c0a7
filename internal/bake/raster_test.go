package bake

import "testing"

func flatQuadMesh(resolution int) *UnwrappedMesh {
	// Two triangles covering UV [0.05, 0.95]^2, leaving an uncovered
	// border so the conservative pass has texels just outside the quad's
	// edges to pick up.
	v := func(u, v float32) Vertex {
		return Vertex{
			Position:   [3]float32{u * 10, 0, v * 10},
			Normal:     [3]float32{0, 1, 0},
			LightmapUV: [2]float32{u, v},
		}
	}
	verts := []Vertex{
		v(0.05, 0.05), v(0.95, 0.05), v(0.95, 0.95), v(0.05, 0.95),
	}
	indices := []uint32{0, 1, 2, 0, 2, 3}
	return &UnwrappedMesh{
		SubMeshes: []SubMesh{{BaseIndex: 0, IndexCount: uint32(len(indices)), BaseVertex: 0}},
		Vertices:  verts,
		Indices:   indices,
	}
}

func countValid(fb *Framebuffer) int {
	n := 0
	for y := 0; y < fb.Height; y++ {
		for x := 0; x < fb.Width; x++ {
			if fb.Valid(x, y) {
				n++
			}
		}
	}
	return n
}

func TestConservativeCoversAtLeastAsMuch(t *testing.T) {
	resolution := 64
	mesh := flatQuadMesh(resolution)
	r := NewCPURasterizer()

	posN, _ := r.RasterizeGutterMap(mesh, resolution, false)
	posC, _ := r.RasterizeGutterMap(mesh, resolution, true)

	nNonCons := countValid(posN)
	nCons := countValid(posC)

	if nCons < nNonCons {
		t.Fatalf("conservative raster covered fewer texels (%d) than non-conservative (%d)", nCons, nNonCons)
	}
}

func TestGutterMapRasterizerSkipsUncoveredTexels(t *testing.T) {
	resolution := 32
	mesh := flatQuadMesh(resolution)
	g := NewGutterMapRasterizer(NewCPURasterizer(), resolution, true)

	points := g.RasterizeBakePoints(mesh)
	if len(points) == 0 {
		t.Fatal("expected at least one bake point")
	}

	seen := map[[2]uint16]bool{}
	for _, p := range points {
		if seen[p.Coord] {
			t.Fatalf("duplicate coord %v in bake point set", p.Coord)
		}
		seen[p.Coord] = true
		if p.Direction.X == 0 && p.Direction.Y == 0 && p.Direction.Z == 0 {
			t.Fatalf("bake point at %v has zero direction", p.Coord)
		}
	}
}
