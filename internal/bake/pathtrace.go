package bake

import (
	gomath "math"
	"sync/atomic"

	"github.com/nightforge/lumibake/pkg/math"
)

// selfHitBias nudges a shading point away from the surface it was
// computed on, scaled by the point's own magnitude: traceOne applies
// `p += sign(n) * max(abs(p.x), abs(p.y), abs(p.z)) * 2e-7`.
const selfHitBias = 2e-7

// PathTraceConfig bundles the tunables spec.md §6 lists for C4.
type PathTraceConfig struct {
	Samples           int // N
	Bounces           int // M
	Offset            float32
	LightDir          math.Vec3 // points FROM the sun
	LightColor        math.Vec3
	IncludeSkyBounces bool
}

// PathTracer is the Monte-Carlo integrator: given a bake point, it
// traces Samples paths of up to Bounces segments each against a
// RayOracle, accumulating direct-light contributions weighted by
// diffuse throughput.
type PathTracer struct {
	cfg    PathTraceConfig
	oracle RayOracle
	albedo AlbedoLookup
	sky    SkyFunc

	numericErrors atomic.Int64
}

// NewPathTracer builds a PathTracer bound to a scene's ray oracle,
// albedo lookup, and sky function.
func NewPathTracer(cfg PathTraceConfig, oracle RayOracle, albedo AlbedoLookup, sky SkyFunc) *PathTracer {
	return &PathTracer{cfg: cfg, oracle: oracle, albedo: albedo, sky: sky}
}

// NumericErrors returns the number of NaN/non-finite throughput or
// irradiance values Trace has clamped to zero across every worker
// goroutine sharing this tracer. Per NumericError's contract, a release
// build counts and clamps; a caller running in debug mode should treat
// a nonzero count as fatal instead of shipping the bake.
func (pt *PathTracer) NumericErrors() int64 {
	return pt.numericErrors.Load()
}

// Trace runs cfg.Samples independent paths from bp and returns the
// averaged irradiance plus whether the point should be marked a gutter
// (back-facing/inside-geometry) texel.
func (pt *PathTracer) Trace(bp BakePoint, sampler *Sampler) (math.Vec3, bool) {
	if pt.cfg.Samples <= 0 {
		return math.Vec3{}, false
	}

	n0 := bp.Direction.Normalize()
	sum := math.Vec3{}
	isGutter := false
	weight := 1 / float32(pt.cfg.Samples)

	for s := 0; s < pt.cfg.Samples; s++ {
		c, gutter := pt.traceOne(bp.Position, n0, sampler)
		if gutter {
			isGutter = true
			continue
		}
		sum = sum.Add(c.Scale(weight))
	}

	if !sum.IsFinite() {
		pt.numericErrors.Add(1)
		sum = math.Vec3{}
	}

	return sum, isGutter
}

func (pt *PathTracer) traceOne(position, n0 math.Vec3, sampler *Sampler) (math.Vec3, bool) {
	p := position.Add(n0.Scale(pt.cfg.Offset))
	n := n0
	throughput := math.Vec3{X: 1, Y: 1, Z: 1}
	l := math.Vec3{}

	for i := 0; i < pt.cfg.Bounces; i++ {
		d := sampler.HemisphereDirection(n)

		hit, ok := pt.oracle.Intersect(NewRay(p, d))
		if !ok {
			if pt.cfg.IncludeSkyBounces && pt.sky != nil {
				l = l.Add(pt.sky(d).Mul(throughput))
			}
			return l, false
		}

		a := pt.albedo.Albedo(hit.PrimID)

		p = p.Add(d.Scale(hit.T))
		hitNormal := hit.NormalG.Normalize()

		if hitNormal.Dot(d) > 0 {
			if i == 0 {
				return math.Vec3{}, true
			}
			return l, false
		}
		n = hitNormal

		p = p.Add(n.Sign().Scale(p.Abs().MaxComponent() * selfHitBias))

		shadow := pt.evaluateDirect(p, n, a)
		if shadow.IsFinite() {
			l = l.Add(shadow.Mul(throughput))
		} else {
			pt.numericErrors.Add(1)
		}

		throughput = throughput.Mul(a)
		if !throughput.IsFinite() {
			pt.numericErrors.Add(1)
			return l, false
		}
	}

	return l, false
}

// evaluateDirect casts a shadow ray toward the sun and returns the
// Lambertian contribution if unoccluded, or zero otherwise.
func (pt *PathTracer) evaluateDirect(p, n, albedo math.Vec3) math.Vec3 {
	toLight := pt.cfg.LightDir.Scale(-1).Normalize()
	cosTheta := n.Dot(toLight)
	if cosTheta <= 0 {
		return math.Vec3{}
	}

	shadowRay := NewRay(p, toLight)
	if pt.oracle.Occluded(shadowRay) {
		return math.Vec3{}
	}

	invPi := float32(1 / gomath.Pi)
	return pt.cfg.LightColor.Mul(albedo.Scale(invPi)).Scale(cosTheta)
}
