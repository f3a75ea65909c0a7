package bake

import (
	gomath "math"

	"github.com/nightforge/lumibake/pkg/math"
)

// MeshSource is the abstract mesh the baker consumes. Implementations
// come from the mesh loader (an external collaborator per spec) or,
// for tests and CLI demos, from internal/bake/scenes.
type MeshSource interface {
	Vertices() []Vertex
	Indices() []uint32
	SubMeshes() []SubMesh
}

// Ray is the wire format the RayOracle consumes.
type Ray struct {
	Origin    math.Vec3
	Direction math.Vec3
	TNear     float32
	TFar      float32
	Mask      uint32
}

// NewRay builds a Ray with the conventional tnear=0, tfar=+Inf, mask=-1
// defaults described in spec.md §6.
func NewRay(origin, direction math.Vec3) Ray {
	return Ray{
		Origin:    origin,
		Direction: direction,
		TNear:     0,
		TFar:      float32(gomath.Inf(1)),
		Mask:      0xFFFFFFFF,
	}
}

// Hit describes a ray-scene intersection.
type Hit struct {
	T       float32
	GeomID  uint32
	PrimID  uint32
	NormalG math.Vec3 // unnormalized geometric normal
}

// RayOracle answers intersection and occlusion queries against the
// scene. Implementations must be safe for concurrent read-only use:
// BakeScheduler calls Intersect/Occluded from every worker goroutine.
type RayOracle interface {
	Intersect(r Ray) (Hit, bool)
	Occluded(r Ray) bool
}

// AlbedoLookup resolves the diffuse albedo of the hit triangle,
// addressed by primitive id. Triangle-granular: every corner of a
// triangle shares its submesh's albedo.
type AlbedoLookup interface {
	Albedo(primID uint32) math.Vec3
}

// SkyFunc evaluates procedural sky radiance along a direction. With
// PathTraceConfig.IncludeSkyBounces false (the default) PathTracer never
// calls it; when true, a path that escapes the scene adds sky(d)
// weighted by its throughput.
type SkyFunc func(direction math.Vec3) math.Vec3
