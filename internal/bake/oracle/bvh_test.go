package oracle

import (
	"math"
	"testing"

	"github.com/nightforge/lumibake/internal/bake"
	bakemath "github.com/nightforge/lumibake/pkg/math"
)

func groundQuad() []Triangle {
	return []Triangle{
		{
			V0: bakemath.Vec3{X: -5, Y: 0, Z: -5},
			V1: bakemath.Vec3{X: 5, Y: 0, Z: 5},
			V2: bakemath.Vec3{X: 5, Y: 0, Z: -5},
		},
		{
			V0: bakemath.Vec3{X: -5, Y: 0, Z: -5},
			V1: bakemath.Vec3{X: -5, Y: 0, Z: 5},
			V2: bakemath.Vec3{X: 5, Y: 0, Z: 5},
			PrimID: 1,
		},
	}
}

func TestIntersectHitsGroundPlane(t *testing.T) {
	tris := groundQuad()
	b, err := Build(tris)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	r := bake.NewRay(bakemath.Vec3{X: 0, Y: 5, Z: 0}, bakemath.Vec3{X: 0, Y: -1, Z: 0})
	hit, ok := b.Intersect(r)
	if !ok {
		t.Fatal("expected a hit on the ground plane")
	}
	if hit.T < 4.99 || hit.T > 5.01 {
		t.Fatalf("expected t ~= 5, got %v", hit.T)
	}
	if hit.NormalG.Normalize().Y <= 0 {
		t.Fatalf("expected an upward-facing geometric normal, got %v", hit.NormalG)
	}
}

func TestIntersectMissesWhenAimedAway(t *testing.T) {
	b, err := Build(groundQuad())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	r := bake.NewRay(bakemath.Vec3{X: 0, Y: 5, Z: 0}, bakemath.Vec3{X: 0, Y: 1, Z: 0})
	if _, ok := b.Intersect(r); ok {
		t.Fatal("expected no hit when the ray points away from the plane")
	}
}

func TestIntersectRespectsTFar(t *testing.T) {
	b, err := Build(groundQuad())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	r := bake.NewRay(bakemath.Vec3{X: 0, Y: 5, Z: 0}, bakemath.Vec3{X: 0, Y: -1, Z: 0})
	r.TFar = 2
	if _, ok := b.Intersect(r); ok {
		t.Fatal("expected no hit within a tfar shorter than the true distance")
	}
}

func TestOccludedTrueForBlockedRay(t *testing.T) {
	b, err := Build(groundQuad())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	r := bake.NewRay(bakemath.Vec3{X: 0, Y: 5, Z: 0}, bakemath.Vec3{X: 0, Y: -1, Z: 0})
	if !b.Occluded(r) {
		t.Fatal("expected the ground plane to occlude a straight-down ray")
	}
}

func TestOccludedFalseForClearRay(t *testing.T) {
	b, err := Build(groundQuad())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	r := bake.NewRay(bakemath.Vec3{X: 0, Y: 5, Z: 0}, bakemath.Vec3{X: 0, Y: 1, Z: 0})
	if b.Occluded(r) {
		t.Fatal("expected no occlusion when the ray misses all geometry")
	}
}

func TestIntersectEmptyScene(t *testing.T) {
	b, err := Build(nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	r := bake.NewRay(bakemath.Vec3{}, bakemath.Vec3{X: 0, Y: -1, Z: 0})
	if _, ok := b.Intersect(r); ok {
		t.Fatal("expected no hit against an empty scene")
	}
	if b.Occluded(r) {
		t.Fatal("expected no occlusion against an empty scene")
	}
}

func TestIntersectManyTrianglesFindsClosest(t *testing.T) {
	// Stack several parallel planes; the closest one along +Y should win.
	var tris []Triangle
	for i, y := range []float32{1, 2, 3, 4, 5} {
		tris = append(tris,
			Triangle{
				V0: bakemath.Vec3{X: -1, Y: y, Z: -1}, V1: bakemath.Vec3{X: 1, Y: y, Z: -1}, V2: bakemath.Vec3{X: 1, Y: y, Z: 1},
				GeomID: uint32(i), PrimID: uint32(len(tris)),
			},
			Triangle{
				V0: bakemath.Vec3{X: -1, Y: y, Z: -1}, V1: bakemath.Vec3{X: 1, Y: y, Z: 1}, V2: bakemath.Vec3{X: -1, Y: y, Z: 1},
				GeomID: uint32(i), PrimID: uint32(len(tris) + 1),
			},
		)
	}
	b, err := Build(tris)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	r := bake.NewRay(bakemath.Vec3{X: 0, Y: 0, Z: 0}, bakemath.Vec3{X: 0, Y: 1, Z: 0})
	hit, ok := b.Intersect(r)
	if !ok {
		t.Fatal("expected a hit")
	}
	if hit.T < 0.99 || hit.T > 1.01 {
		t.Fatalf("expected the closest plane at t=1, got t=%v", hit.T)
	}
}

func TestBuildRejectsNonFiniteVertex(t *testing.T) {
	nan := float32(math.NaN())
	tris := []Triangle{{
		V0: bakemath.Vec3{X: nan, Y: 0, Z: 0},
		V1: bakemath.Vec3{X: 1, Y: 0, Z: 0},
		V2: bakemath.Vec3{X: 0, Y: 1, Z: 0},
	}}
	if _, err := Build(tris); err == nil {
		t.Fatal("expected an error building a BVH over a triangle with a NaN vertex")
	}
}

func TestAlbedoTableLookup(t *testing.T) {
	tris := groundQuad()
	submeshAlbedo := []bakemath.Vec3{{X: 0.5, Y: 0.5, Z: 0.5}}
	table := NewAlbedoTable(tris, submeshAlbedo)

	got := table.Albedo(0)
	if got.X != 0.5 || got.Y != 0.5 || got.Z != 0.5 {
		t.Fatalf("expected albedo 0.5, got %v", got)
	}

	// Out-of-range PrimID returns the zero value rather than panicking.
	if z := table.Albedo(999); z.X != 0 || z.Y != 0 || z.Z != 0 {
		t.Fatalf("expected zero albedo for out-of-range primID, got %v", z)
	}
}
