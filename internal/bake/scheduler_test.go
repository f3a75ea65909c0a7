package bake

import (
	"testing"

	"github.com/nightforge/lumibake/pkg/math"
)

// constOracle is a RayOracle that always misses, so every path escapes
// at its first bounce and Trace returns zero irradiance without ever
// evaluating the direct-lighting term (constOracle.Occluded always
// returns false too).
type constOracle struct{}

func (constOracle) Intersect(Ray) (Hit, bool) { return Hit{}, false }
func (constOracle) Occluded(Ray) bool         { return false }

type constAlbedo struct{ a math.Vec3 }

func (c constAlbedo) Albedo(uint32) math.Vec3 { return c.a }

func newFlatScenePathTracer(samples, bounces int) *PathTracer {
	cfg := PathTraceConfig{
		Samples:    samples,
		Bounces:    bounces,
		Offset:     0.1,
		LightDir:   math.Vec3{X: 0, Y: -1, Z: 0},
		LightColor: math.Vec3{X: 1, Y: 1, Z: 1},
	}
	return NewPathTracer(cfg, constOracle{}, constAlbedo{a: math.Vec3{X: 0.7, Y: 0.7, Z: 0.7}}, nil)
}

func makeGridPoints(size int) []BakePoint {
	points := make([]BakePoint, 0, size*size)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			points = append(points, BakePoint{
				Position:  math.Vec3{X: float32(x), Y: 0, Z: float32(y)},
				Direction: math.Vec3{X: 0, Y: 1, Z: 0},
				Coord:     [2]uint16{uint16(x), uint16(y)},
			})
		}
	}
	return points
}

func TestSchedulerDisjointWrites(t *testing.T) {
	tracer := newFlatScenePathTracer(4, 1)
	sched := NewBakeScheduler(SchedulerConfig{Workers: 4, GlobalSeed: 1}, tracer)

	size := 16
	fb := NewFramebuffer(size)
	points := makeGridPoints(size)
	sched.Bake(points, fb)

	if sched.Progress() != int64(len(points)) {
		t.Fatalf("Progress() = %d, want %d", sched.Progress(), len(points))
	}
	for _, p := range points {
		_, _, _, a := fb.At(int(p.Coord[0]), int(p.Coord[1]))
		if a != 1 {
			t.Fatalf("texel %v not marked valid: alpha=%v", p.Coord, a)
		}
	}
}

func TestSchedulerOutputSizeIndependentOfWorkerCount(t *testing.T) {
	size := 8
	points := makeGridPoints(size)

	run := func(workers int) *Framebuffer {
		tracer := newFlatScenePathTracer(32, 2)
		sched := NewBakeScheduler(SchedulerConfig{Workers: workers, GlobalSeed: 99}, tracer)
		fb := NewFramebuffer(size)
		sched.Bake(points, fb)
		return fb
	}

	a := run(1)
	b := run(4)

	// The per-worker seed depends on worker index, so different worker
	// counts are not required to produce identical output; determinism
	// is asserted per fixed worker count in TestSchedulerSameSeedIsBitIdentical.
	if len(a.Pixels) != len(b.Pixels) {
		t.Fatalf("framebuffer size mismatch")
	}
}

func TestSchedulerSameSeedIsBitIdentical(t *testing.T) {
	size := 8
	points := makeGridPoints(size)

	run := func() *Framebuffer {
		tracer := newFlatScenePathTracer(32, 2)
		sched := NewBakeScheduler(SchedulerConfig{Workers: 3, GlobalSeed: 7}, tracer)
		fb := NewFramebuffer(size)
		sched.Bake(points, fb)
		return fb
	}

	a := run()
	b := run()

	for i := range a.Pixels {
		if a.Pixels[i] != b.Pixels[i] {
			t.Fatalf("pixel %d diverged between identical-seed runs: %v != %v", i, a.Pixels[i], b.Pixels[i])
		}
	}
}

func TestSchedulerZeroSamplesYieldsZeroAlpha(t *testing.T) {
	tracer := newFlatScenePathTracer(0, 2)
	sched := NewBakeScheduler(SchedulerConfig{Workers: 2, GlobalSeed: 1}, tracer)

	size := 4
	fb := NewFramebuffer(size)
	sched.Bake(makeGridPoints(size), fb)

	for _, p := range fb.Pixels {
		if p != 0 {
			t.Fatalf("expected all-zero framebuffer for N=0, found %v", p)
		}
	}
}
