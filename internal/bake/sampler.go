package bake

import (
	gomath "math"

	"github.com/nightforge/lumibake/pkg/math"
	"github.com/nightforge/lumibake/pkg/rng"
)

// Sampler draws uniform and cosine-weighted-hemisphere samples for a
// single bake worker. It owns its own rng.Source; it must never be
// shared across goroutines.
type Sampler struct {
	src *rng.Source
}

// NewSampler builds a Sampler backed by a worker-local PRNG seeded
// deterministically from globalSeed and workerIndex.
func NewSampler(globalSeed uint64, workerIndex int) *Sampler {
	return &Sampler{src: rng.New(globalSeed, workerIndex)}
}

// Uniform returns a pseudo-random float32 in [0, 1-epsilon].
func (s *Sampler) Uniform() float32 {
	return s.src.Uniform()
}

// HemisphereDirection draws a cosine-weighted direction over the
// hemisphere oriented by n. The result satisfies dot(result, n) >= 0
// and contains no NaN.
func (s *Sampler) HemisphereDirection(n math.Vec3) math.Vec3 {
	u, v := s.src.Uniform2()

	phi := 2 * gomath.Pi * float64(v)
	cosTheta := float32(gomath.Sqrt(float64(u)))
	sinTheta := float32(gomath.Sqrt(float64(1 - u)))

	t := math.Vec3{
		X: sinTheta * float32(gomath.Cos(phi)),
		Y: sinTheta * float32(gomath.Sin(phi)),
		Z: cosTheta,
	}

	basisX, basisY, basisZ := orthonormalBasis(n)
	dir := basisX.Scale(t.X).Add(basisY.Scale(t.Y)).Add(basisZ.Scale(t.Z))
	return dir.Normalize()
}

// orthonormalBasis builds a basis whose Z axis is n, avoiding the
// degenerate cross product that occurs when n is nearly parallel to the
// reference axis.
func orthonormalBasis(n math.Vec3) (x, y, z math.Vec3) {
	ref := math.Vec3{X: 0, Y: 1, Z: 0}
	if gomath.Abs(float64(n.Dot(ref))) > 0.99 {
		ref = math.Vec3{X: 0, Y: 0, Z: 1}
	}
	x = ref.Cross(n).Normalize()
	y = n.Cross(x)
	return x, y, n
}
