package bake

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// SchedulerConfig bundles the tunables for BakeScheduler.
type SchedulerConfig struct {
	// Workers is the worker-goroutine count. Zero means runtime.NumCPU().
	Workers int
	// GlobalSeed feeds each worker's deterministic Sampler.
	GlobalSeed uint64
}

// BakeScheduler partitions a frozen set of bake points into contiguous
// chunks, dispatches one goroutine per chunk, and aggregates progress.
// Each worker writes to disjoint framebuffer coordinates, so no
// synchronization is required on the framebuffer itself.
type BakeScheduler struct {
	cfg    SchedulerConfig
	tracer *PathTracer

	progress atomic.Int64
	total    int64
	stop     atomic.Bool
}

// NewBakeScheduler builds a scheduler bound to a PathTracer.
func NewBakeScheduler(cfg SchedulerConfig, tracer *PathTracer) *BakeScheduler {
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	return &BakeScheduler{cfg: cfg, tracer: tracer}
}

// Progress returns the number of bake points completed so far.
func (s *BakeScheduler) Progress() int64 {
	return s.progress.Load()
}

// Total returns the number of bake points submitted to the last Bake call.
func (s *BakeScheduler) Total() int64 {
	return s.total
}

// NumericErrors returns the number of non-finite trace results the
// underlying PathTracer has clamped to zero so far, across every worker.
func (s *BakeScheduler) NumericErrors() int64 {
	return s.tracer.NumericErrors()
}

// Cancel requests cooperative shutdown; each worker checks the flag
// before every bake point and exits there (never mid-sample).
func (s *BakeScheduler) Cancel() {
	s.stop.Store(true)
}

// Bake partitions points into s.cfg.Workers contiguous chunks (the last
// chunk absorbs any remainder) and blocks until every worker has
// finished writing its chunk into fb.
func (s *BakeScheduler) Bake(points []BakePoint, fb *Framebuffer) {
	s.progress.Store(0)
	s.total = int64(len(points))
	s.stop.Store(false)

	if len(points) == 0 {
		return
	}

	chunkSize := (len(points) + s.cfg.Workers - 1) / s.cfg.Workers

	var wg sync.WaitGroup
	for w := 0; w < s.cfg.Workers; w++ {
		start := w * chunkSize
		if start >= len(points) {
			break
		}
		end := start + chunkSize
		if end > len(points) {
			end = len(points)
		}

		wg.Add(1)
		go func(workerIndex, start, end int) {
			defer wg.Done()
			s.runChunk(workerIndex, points[start:end], fb)
		}(w, start, end)
	}
	wg.Wait()
}

func (s *BakeScheduler) runChunk(workerIndex int, chunk []BakePoint, fb *Framebuffer) {
	sampler := NewSampler(s.cfg.GlobalSeed, workerIndex)

	for _, bp := range chunk {
		if s.stop.Load() {
			return
		}

		color, isGutter := s.tracer.Trace(bp, sampler)

		alpha := float32(1)
		if isGutter || s.tracer.cfg.Samples <= 0 {
			alpha = 0
		}

		fb.SetCoord(bp.Coord, color.X, color.Y, color.Z, alpha)
		s.progress.Add(1)
	}
}

// IsDone reports whether the last Bake call's work is fully accounted
// for. Kept as a polling method for callers that drive a UI loop instead
// of blocking on Bake directly.
func (s *BakeScheduler) IsDone() bool {
	return s.progress.Load() >= s.total
}

// BakeAsync starts Bake on a background goroutine and returns a channel
// that is closed once every worker has finished. The caller polls
// Progress()/Total() on its own thread (e.g. to print "X / N points" or
// drive a UI) instead of blocking; this replaces the original
// implementation's synchronous is_done(parent_task) polling loop with a
// single-producer/single-consumer completion signal, per spec.md §9.
func (s *BakeScheduler) BakeAsync(points []BakePoint, fb *Framebuffer) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		s.Bake(points, fb)
	}()
	return done
}
