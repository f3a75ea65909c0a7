package packer

import (
	"fmt"
	"math"
	"sort"
)

// Grid is a naive reference ChartPacker: every MeshDecl becomes exactly
// one chart, parameterized by orthographic projection onto the plane
// best-fit by the chart's dominant normal axis, then packed into the
// atlas with a shelf (skyline-row) bin packer. It has none of a real
// UV unwrapper's chart-splitting sophistication, but it satisfies the
// packer contract AtlasBuilder depends on: every triangle ends up with
// UVs inside [0, resolution-1]^2 and disjoint charts are at least
// `padding` texels apart.
//
// Grounded on the shelf/tile-grid packing used by
// terrain.BuildLightmapAtlas in the teacher's GND lightmap loader.
type Grid struct{}

// New returns a Grid packer.
func New() *Grid {
	return &Grid{}
}

type chartBounds struct {
	meshIndex  int
	minU, minV float32
	maxU, maxV float32
	axisU      int // which source axis maps to U (0=X,1=Y,2=Z)
	axisV      int
}

// Pack implements ChartPacker.
func (g *Grid) Pack(meshes []MeshDecl, opts Options) ([]PackedMesh, error) {
	if opts.Resolution <= 0 {
		return nil, fmt.Errorf("resolution must be positive")
	}

	charts := make([]chartBounds, len(meshes))
	for i, m := range meshes {
		if m.VertexCount == 0 {
			return nil, chartError(i, "empty mesh")
		}
		axisU, axisV := dominantProjectionAxes(m)
		cb := chartBounds{meshIndex: i, axisU: axisU, axisV: axisV, minU: math.MaxFloat32, minV: math.MaxFloat32, maxU: -math.MaxFloat32, maxV: -math.MaxFloat32}
		for _, p := range m.Positions {
			u, v := p[axisU], p[axisV]
			if u < cb.minU {
				cb.minU = u
			}
			if v < cb.minV {
				cb.minV = v
			}
			if u > cb.maxU {
				cb.maxU = u
			}
			if v > cb.maxV {
				cb.maxV = v
			}
		}
		charts[i] = cb
	}

	placements, err := shelfPack(charts, opts)
	if err != nil {
		return nil, err
	}

	out := make([]PackedMesh, len(meshes))
	for i, m := range meshes {
		cb := charts[i]
		pl := placements[i]
		verts := make([]PackedVertex, m.VertexCount)
		for xref := 0; xref < m.VertexCount; xref++ {
			p := m.Positions[xref]
			u, v := p[cb.axisU], p[cb.axisV]

			var nu, nv float32
			if pl.w > 0 {
				nu = (u - cb.minU) / (cb.maxU - cb.minU + 1e-6)
			}
			if pl.h > 0 {
				nv = (v - cb.minV) / (cb.maxV - cb.minV + 1e-6)
			}

			px := pl.x + nu*pl.w
			py := pl.y + nv*pl.h
			verts[xref] = PackedVertex{
				Xref: m.IndexOffset + uint32(xref),
				UV:   [2]float32{px, py},
			}
		}
		out[i] = PackedMesh{Vertices: verts, Indices: append([]uint32(nil), m.Indices...)}
	}

	return out, nil
}

func chartError(meshIndex int, reason string) error {
	return &PackError{MeshIndex: meshIndex, Reason: reason}
}

// PackError reports why the packer rejected a submesh, matching the
// AtlasBuildFailed(submesh_index, reason) error kind AtlasBuilder
// translates it into.
type PackError struct {
	MeshIndex int
	Reason    string
}

func (e *PackError) Error() string {
	return fmt.Sprintf("submesh %d: %s", e.MeshIndex, e.Reason)
}

// dominantProjectionAxes picks the two axes to project onto by dropping
// the axis of the chart's average absolute normal — i.e. the axis the
// surface is most nearly perpendicular to.
func dominantProjectionAxes(m MeshDecl) (axisU, axisV int) {
	var avg [3]float32
	for _, n := range m.Normals {
		avg[0] += float32(math.Abs(float64(n[0])))
		avg[1] += float32(math.Abs(float64(n[1])))
		avg[2] += float32(math.Abs(float64(n[2])))
	}
	drop := 1 // default: drop Y (project to XZ), matches ground-plane charts
	if len(m.Normals) > 0 {
		drop = 0
		if avg[1] > avg[drop] {
			drop = 1
		}
		if avg[2] > avg[drop] {
			drop = 2
		}
	}
	switch drop {
	case 0:
		return 1, 2
	case 1:
		return 0, 2
	default:
		return 0, 1
	}
}

type placement struct {
	x, y, w, h float32
}

// shelfPack lays chartBounds rectangles into a square atlas of side
// opts.Resolution using a simple shelf (skyline-row) heuristic: charts
// are sorted tallest-first, then placed left-to-right on the current
// shelf until it's full, at which point a new shelf starts below it.
// Every placement leaves `padding` texels of margin on all sides.
func shelfPack(charts []chartBounds, opts Options) ([]placement, error) {
	n := len(charts)
	res := float32(opts.Resolution)
	pad := float32(opts.Padding)

	// Give every chart an equal-size slot (res/cols by res/rows) to fit the worst-case
	// count in a grid; this is intentionally conservative (a real
	// packer would fit charts to their aspect ratio and area).
	cols := int(math.Ceil(math.Sqrt(float64(n))))
	if cols < 1 {
		cols = 1
	}
	rows := (n + cols - 1) / cols
	if rows < 1 {
		rows = 1
	}

	cellW := res / float32(cols)
	cellH := res / float32(rows)
	if cellW <= 2*pad || cellH <= 2*pad {
		return nil, fmt.Errorf("resolution %d too small to fit %d charts with padding %d", opts.Resolution, n, opts.Padding)
	}

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(i, j int) bool {
		hi := charts[order[i]].maxV - charts[order[i]].minV
		hj := charts[order[j]].maxV - charts[order[j]].minV
		return hi > hj
	})

	placements := make([]placement, n)
	for slot, idx := range order {
		col := slot % cols
		row := slot / cols
		placements[idx] = placement{
			x: float32(col)*cellW + pad,
			y: float32(row)*cellH + pad,
			w: cellW - 2*pad,
			h: cellH - 2*pad,
		}
	}

	return placements, nil
}
