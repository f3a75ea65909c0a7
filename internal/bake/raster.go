package bake

import (
	gomath "math"

	"github.com/nightforge/lumibake/pkg/math"
)

// Rasterizer draws an UnwrappedMesh into a position/normal MRT pair
// sized to the atlas resolution, using the vertex's lightmap UV (scaled
// to [-1,1]) as clip-space X/Y. Implementations should enable
// conservative rasterization when available so every triangle covers
// every texel it partially touches. A GL-backed implementation lives in
// internal/bake/glraster; CPURasterizer below is the portable default
// used by tests and by CLI runs with no GPU available.
type Rasterizer interface {
	RasterizeGutterMap(mesh *UnwrappedMesh, resolution int, conservative bool) (position, normal *Framebuffer)
}

// GutterMapRasterizer produces the bake-point map: it rasterizes the
// unwrapped mesh's position and normal into atlas-sized images, runs one
// dilation ring to seed gutters, then sweeps the result into a flat
// []BakePoint list.
type GutterMapRasterizer struct {
	rasterizer   Rasterizer
	dilator      *Dilator
	resolution   int
	conservative bool
}

// NewGutterMapRasterizer builds a C2 stage bound to a Rasterizer
// backend.
func NewGutterMapRasterizer(r Rasterizer, resolution int, conservative bool) *GutterMapRasterizer {
	return &GutterMapRasterizer{rasterizer: r, dilator: NewDilator(), resolution: resolution, conservative: conservative}
}

// RasterizeBakePoints implements spec.md §4.2: rasterize, seed-dilate,
// then sweep every covered texel into a BakePoint.
func (g *GutterMapRasterizer) RasterizeBakePoints(mesh *UnwrappedMesh) []BakePoint {
	position, normal := g.rasterizer.RasterizeGutterMap(mesh, g.resolution, g.conservative)

	dilatedPos := position.Clone()
	dilatedNormal := normal.Clone()
	g.dilator.Dilate(position, dilatedPos)
	g.dilator.Dilate(normal, dilatedNormal)

	var points []BakePoint
	for y := 0; y < g.resolution; y++ {
		for x := 0; x < g.resolution; x++ {
			nr, ng, nb, _ := dilatedNormal.At(x, y)
			n := math.Vec3{X: nr, Y: ng, Z: nb}
			if n.X == 0 && n.Y == 0 && n.Z == 0 {
				continue // gutter texel: no triangle ever covered it
			}

			pr, pg, pb, _ := dilatedPos.At(x, y)
			points = append(points, BakePoint{
				Position:  math.Vec3{X: pr, Y: pg, Z: pb},
				Direction: n, // not renormalized here; PathTracer normalizes on first use
				Coord:     [2]uint16{uint16(x), uint16(y)},
			})
		}
	}
	return points
}

// CPURasterizer is a portable, GPU-free reference Rasterizer. It scan
// converts each triangle's lightmap-UV footprint directly into texel
// space and, when conservative is set, additionally stamps every texel
// inside the triangle's bounding box grown by one texel whose center
// lies within 0.75 texels of a triangle edge — a coarse stand-in for
// hardware conservative rasterization that trades false positives
// (extra covered texels) for the guarantee that no partially covered
// texel is ever missed, matching spec.md §4.2's requirement that
// conservative mode never under-covers a chart interior.
type CPURasterizer struct{}

// NewCPURasterizer returns the default software Rasterizer.
func NewCPURasterizer() *CPURasterizer {
	return &CPURasterizer{}
}

// RasterizeGutterMap implements Rasterizer.
func (CPURasterizer) RasterizeGutterMap(mesh *UnwrappedMesh, resolution int, conservative bool) (position, normal *Framebuffer) {
	position = NewFramebuffer(resolution)
	normal = NewFramebuffer(resolution)

	for _, sm := range mesh.SubMeshes {
		for t := uint32(0); t < sm.IndexCount; t += 3 {
			i0 := mesh.Indices[sm.BaseIndex+t] + sm.BaseVertex
			i1 := mesh.Indices[sm.BaseIndex+t+1] + sm.BaseVertex
			i2 := mesh.Indices[sm.BaseIndex+t+2] + sm.BaseVertex
			rasterizeTriangle(mesh.Vertices[i0], mesh.Vertices[i1], mesh.Vertices[i2], resolution, conservative, position, normal)
		}
	}
	return position, normal
}

func rasterizeTriangle(v0, v1, v2 Vertex, resolution int, conservative bool, position, normal *Framebuffer) {
	p0 := uvToTexel(v0.LightmapUV, resolution)
	p1 := uvToTexel(v1.LightmapUV, resolution)
	p2 := uvToTexel(v2.LightmapUV, resolution)

	minX, minY, maxX, maxY := triangleBounds(p0, p1, p2, resolution)
	if conservative {
		// Grow the bounding box by one texel on each side so any
		// texel the triangle merely grazes is still considered,
		// mirroring GL_..._CONSERVATIVE_RASTER_NV's "any coverage
		// counts" rule.
		if minX > 0 {
			minX--
		}
		if minY > 0 {
			minY--
		}
		if maxX < resolution-1 {
			maxX++
		}
		if maxY < resolution-1 {
			maxY++
		}
	}

	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			cx, cy := float32(x)+0.5, float32(y)+0.5
			bx, by, bz, inside := barycentric(p0, p1, p2, cx, cy)
			if !inside && !conservative {
				continue
			}
			if !inside && conservative {
				if !nearTriangle(p0, p1, p2, cx, cy) {
					continue
				}
				bx, by, bz = clampBarycentric(p0, p1, p2, cx, cy)
			}

			pos := interpolate(v0.Position, v1.Position, v2.Position, bx, by, bz)
			n := interpolate(v0.Normal, v1.Normal, v2.Normal, bx, by, bz)
			position.Set(x, y, pos[0], pos[1], pos[2], 1)
			normal.Set(x, y, n[0], n[1], n[2], 1)
		}
	}
}

type texel struct{ x, y float32 }

func uvToTexel(uv [2]float32, resolution int) texel {
	return texel{uv[0] * float32(resolution), uv[1] * float32(resolution)}
}

func triangleBounds(p0, p1, p2 texel, resolution int) (minX, minY, maxX, maxY int) {
	minXf := minf(p0.x, minf(p1.x, p2.x))
	minYf := minf(p0.y, minf(p1.y, p2.y))
	maxXf := maxf(p0.x, maxf(p1.x, p2.x))
	maxYf := maxf(p0.y, maxf(p1.y, p2.y))

	minX = clampInt(int(minXf), 0, resolution-1)
	minY = clampInt(int(minYf), 0, resolution-1)
	maxX = clampInt(int(maxXf), 0, resolution-1)
	maxY = clampInt(int(maxYf), 0, resolution-1)
	return
}

// barycentric returns the barycentric coordinates of (x,y) with respect
// to triangle p0,p1,p2 and whether the point lies inside it.
func barycentric(p0, p1, p2 texel, x, y float32) (b0, b1, b2 float32, inside bool) {
	denom := (p1.y-p2.y)*(p0.x-p2.x) + (p2.x-p1.x)*(p0.y-p2.y)
	if denom == 0 {
		return 0, 0, 0, false
	}
	b0 = ((p1.y-p2.y)*(x-p2.x) + (p2.x-p1.x)*(y-p2.y)) / denom
	b1 = ((p2.y-p0.y)*(x-p2.x) + (p0.x-p2.x)*(y-p2.y)) / denom
	b2 = 1 - b0 - b1
	inside = b0 >= 0 && b1 >= 0 && b2 >= 0
	return
}

// nearTriangle reports whether the texel center (x,y) lies within 0.75
// texels of any triangle edge (a texel square's corners are at most
// ~0.707 texels from its center), used to decide conservative
// coverage of texels the strict barycentric test rejects.
func nearTriangle(p0, p1, p2 texel, x, y float32) bool {
	return pointToSegmentDist(x, y, p0, p1) <= 0.75 ||
		pointToSegmentDist(x, y, p1, p2) <= 0.75 ||
		pointToSegmentDist(x, y, p2, p0) <= 0.75
}

func pointToSegmentDist(x, y float32, a, b texel) float32 {
	abx, aby := b.x-a.x, b.y-a.y
	apx, apy := x-a.x, y-a.y
	lenSq := abx*abx + aby*aby
	if lenSq == 0 {
		return distf(x, y, a.x, a.y)
	}
	t := (apx*abx + apy*aby) / lenSq
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	px, py := a.x+t*abx, a.y+t*aby
	return distf(x, y, px, py)
}

// clampBarycentric projects (x,y) onto the nearest edge/vertex of the
// triangle and returns its barycentric coordinates, used to interpolate
// attributes for conservative-only texels that lie just outside it.
func clampBarycentric(p0, p1, p2 texel, x, y float32) (float32, float32, float32) {
	b0, b1, b2, _ := barycentric(p0, p1, p2, x, y)
	if b0 < 0 {
		b0 = 0
	}
	if b1 < 0 {
		b1 = 0
	}
	if b2 < 0 {
		b2 = 0
	}
	sum := b0 + b1 + b2
	if sum == 0 {
		return 1, 0, 0
	}
	return b0 / sum, b1 / sum, b2 / sum
}

func interpolate(a, b, c [3]float32, w0, w1, w2 float32) [3]float32 {
	return [3]float32{
		a[0]*w0 + b[0]*w1 + c[0]*w2,
		a[1]*w0 + b[1]*w1 + c[1]*w2,
		a[2]*w0 + b[2]*w1 + c[2]*w2,
	}
}

func minf(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func maxf(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}

func distf(x0, y0, x1, y1 float32) float32 {
	dx, dy := x0-x1, y0-y1
	return float32(gomath.Sqrt(float64(dx*dx + dy*dy)))
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
