package oracle

import (
	"math"

	bakemath "github.com/nightforge/lumibake/pkg/math"
	"github.com/nightforge/lumibake/internal/bake"
)

// Intersect implements bake.RayOracle: it returns the closest hit along
// r, or ok=false if r escapes the scene.
func (b *BVH) Intersect(r bake.Ray) (bake.Hit, bool) {
	if len(b.tris) == 0 {
		return bake.Hit{}, false
	}

	invDir := bakemath.Vec3{X: safeInv(r.Direction.X), Y: safeInv(r.Direction.Y), Z: safeInv(r.Direction.Z)}
	tFar := r.TFar
	if tFar == 0 {
		tFar = float32(math.Inf(1))
	}

	best := bake.Hit{T: tFar}
	found := false

	b.walk(0, r, invDir, tFar, func(triIdx int32) {
		tri := b.tris[triIdx]
		t, ng, ok := intersectTriangle(tri, r.Origin, r.Direction, r.TNear, best.T)
		if ok {
			best = bake.Hit{T: t, GeomID: tri.GeomID, PrimID: tri.PrimID, NormalG: ng}
			found = true
		}
	})

	return best, found
}

// Occluded implements bake.RayOracle as an any-hit query: it returns as
// soon as any triangle blocks the ray within [tnear, tfar].
func (b *BVH) Occluded(r bake.Ray) bool {
	if len(b.tris) == 0 {
		return false
	}

	invDir := bakemath.Vec3{X: safeInv(r.Direction.X), Y: safeInv(r.Direction.Y), Z: safeInv(r.Direction.Z)}
	tFar := r.TFar
	if tFar == 0 {
		tFar = float32(math.Inf(1))
	}

	occluded := false
	b.walkAnyHit(0, r, invDir, tFar, func(triIdx int32) bool {
		tri := b.tris[triIdx]
		_, _, ok := intersectTriangle(tri, r.Origin, r.Direction, r.TNear, tFar)
		if ok {
			occluded = true
		}
		return ok
	})
	return occluded
}

func (b *BVH) walk(nodeIdx int32, r bake.Ray, invDir bakemath.Vec3, tFar float32, visit func(int32)) {
	if len(b.nodes) == 0 {
		return
	}
	node := b.nodes[nodeIdx]
	if !node.bounds.intersect(r.Origin, invDir, r.TNear, tFar) {
		return
	}
	if node.left < 0 {
		for i := node.start; i < node.start+node.n; i++ {
			visit(b.order[i])
		}
		return
	}
	b.walk(node.left, r, invDir, tFar, visit)
	b.walk(node.right, r, invDir, tFar, visit)
}

// walkAnyHit is like walk but stops descending as soon as visit reports
// a hit, since Occluded only needs a single blocker.
func (b *BVH) walkAnyHit(nodeIdx int32, r bake.Ray, invDir bakemath.Vec3, tFar float32, visit func(int32) bool) bool {
	if len(b.nodes) == 0 {
		return false
	}
	node := b.nodes[nodeIdx]
	if !node.bounds.intersect(r.Origin, invDir, r.TNear, tFar) {
		return false
	}
	if node.left < 0 {
		for i := node.start; i < node.start+node.n; i++ {
			if visit(b.order[i]) {
				return true
			}
		}
		return false
	}
	if b.walkAnyHit(node.left, r, invDir, tFar, visit) {
		return true
	}
	return b.walkAnyHit(node.right, r, invDir, tFar, visit)
}

func safeInv(x float32) float32 {
	if x == 0 {
		return float32(math.Inf(1))
	}
	return 1 / x
}

// intersectTriangle is a standard Moller-Trumbore ray-triangle test. It
// returns the unnormalized geometric normal (edge1 x edge2) so callers
// can renormalize once, matching spec.md §4.2's "not renormalized here"
// convention for the geometry maps.
func intersectTriangle(tri Triangle, origin, dir bakemath.Vec3, tMin, tMax float32) (t float32, ng bakemath.Vec3, ok bool) {
	const eps = 1e-8

	edge1 := tri.V1.Sub(tri.V0)
	edge2 := tri.V2.Sub(tri.V0)
	pvec := dir.Cross(edge2)
	det := edge1.Dot(pvec)
	if det > -eps && det < eps {
		return 0, bakemath.Vec3{}, false
	}
	invDet := 1 / det

	tvec := origin.Sub(tri.V0)
	u := tvec.Dot(pvec) * invDet
	if u < 0 || u > 1 {
		return 0, bakemath.Vec3{}, false
	}

	qvec := tvec.Cross(edge1)
	v := dir.Dot(qvec) * invDet
	if v < 0 || u+v > 1 {
		return 0, bakemath.Vec3{}, false
	}

	tHit := edge2.Dot(qvec) * invDet
	if tHit < tMin || tHit > tMax {
		return 0, bakemath.Vec3{}, false
	}

	return tHit, edge1.Cross(edge2), true
}
