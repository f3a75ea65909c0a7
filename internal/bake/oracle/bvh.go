// Package oracle provides a concrete, in-process RayOracle: a
// median-split bounding-volume hierarchy over a flattened triangle
// list, with Moller-Trumbore ray-triangle intersection. It is the
// reference stand-in for the "ray-scene intersection library" spec.md
// §1 names as an external collaborator; a production build would swap
// this for an Embree/cgo binding without changing internal/bake.
package oracle

import (
	"fmt"
	"math"
	"sort"

	bakemath "github.com/nightforge/lumibake/pkg/math"
)

// Triangle is a flattened, world-space triangle plus the identifiers
// PathTracer/AlbedoLookup address it by.
type Triangle struct {
	V0, V1, V2 bakemath.Vec3
	GeomID     uint32
	PrimID     uint32
}

const leafSize = 4

type aabb struct {
	min, max bakemath.Vec3
}

func (b aabb) grow(p bakemath.Vec3) aabb {
	return aabb{
		min: bakemath.Vec3{X: minf(b.min.X, p.X), Y: minf(b.min.Y, p.Y), Z: minf(b.min.Z, p.Z)},
		max: bakemath.Vec3{X: maxf(b.max.X, p.X), Y: maxf(b.max.Y, p.Y), Z: maxf(b.max.Z, p.Z)},
	}
}

func (b aabb) union(o aabb) aabb {
	return b.grow(o.min).grow(o.max)
}

func (b aabb) intersect(origin, invDir bakemath.Vec3, tMin, tMax float32) bool {
	for axis := 0; axis < 3; axis++ {
		o := component(origin, axis)
		d := component(invDir, axis)
		lo := component(b.min, axis)
		hi := component(b.max, axis)
		t0 := (lo - o) * d
		t1 := (hi - o) * d
		if t0 > t1 {
			t0, t1 = t1, t0
		}
		if t0 > tMin {
			tMin = t0
		}
		if t1 < tMax {
			tMax = t1
		}
		if tMax < tMin {
			return false
		}
	}
	return true
}

func component(v bakemath.Vec3, axis int) float32 {
	switch axis {
	case 0:
		return v.X
	case 1:
		return v.Y
	default:
		return v.Z
	}
}

type bvhNode struct {
	bounds      aabb
	left, right int32 // node indices; -1 if leaf
	start, n    int32 // leaf triangle range into bvh.order
}

// BVH is a read-only, concurrency-safe RayOracle once Build has
// returned: worker goroutines only call Intersect/Occluded, never
// mutate state.
type BVH struct {
	tris  []Triangle
	nodes []bvhNode
	order []int32
}

// Build constructs a BVH over tris. The returned BVH is safe for
// concurrent read-only use across bake worker goroutines. An empty tris
// list is a valid, deliberately supported scene (every query then
// reports no hit); Build only fails when the mesh itself is corrupt --
// a vertex with a NaN or infinite component would otherwise poison the
// bounding-box math for every ancestor node above it.
func Build(tris []Triangle) (*BVH, error) {
	for _, t := range tris {
		if !t.V0.IsFinite() || !t.V1.IsFinite() || !t.V2.IsFinite() {
			return nil, fmt.Errorf("triangle prim %d has a non-finite vertex", t.PrimID)
		}
	}

	b := &BVH{tris: tris}
	b.order = make([]int32, len(tris))
	centroids := make([]bakemath.Vec3, len(tris))
	for i, t := range tris {
		b.order[i] = int32(i)
		centroids[i] = t.V0.Add(t.V1).Add(t.V2).Scale(1.0 / 3.0)
	}
	if len(tris) == 0 {
		return b, nil
	}
	b.build(0, int32(len(tris)), centroids)
	return b, nil
}

// build recursively partitions order[start:start+n] and appends nodes,
// returning the index of the node it created.
func (b *BVH) build(start, n int32, centroids []bakemath.Vec3) int32 {
	bounds := aabb{min: bakemath.Vec3{X: math.MaxFloat32, Y: math.MaxFloat32, Z: math.MaxFloat32}, max: bakemath.Vec3{X: -math.MaxFloat32, Y: -math.MaxFloat32, Z: -math.MaxFloat32}}
	for i := start; i < start+n; i++ {
		tri := b.tris[b.order[i]]
		bounds = bounds.grow(tri.V0).grow(tri.V1).grow(tri.V2)
	}

	nodeIdx := int32(len(b.nodes))
	b.nodes = append(b.nodes, bvhNode{bounds: bounds, left: -1, right: -1})

	if n <= leafSize {
		b.nodes[nodeIdx].start = start
		b.nodes[nodeIdx].n = n
		return nodeIdx
	}

	extent := bounds.max.Sub(bounds.min)
	axis := 0
	if extent.Y > component(extent, axis) {
		axis = 1
	}
	if extent.Z > component(extent, axis) {
		axis = 2
	}

	slice := b.order[start : start+n]
	sort.Slice(slice, func(i, j int) bool {
		return component(centroids[slice[i]], axis) < component(centroids[slice[j]], axis)
	})

	mid := n / 2
	left := b.build(start, mid, centroids)
	right := b.build(start+mid, n-mid, centroids)
	b.nodes[nodeIdx].left = left
	b.nodes[nodeIdx].right = right
	return nodeIdx
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
