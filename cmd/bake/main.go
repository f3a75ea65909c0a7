// Package main is the entry point for the lightmap bake CLI.
package main

import (
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/nightforge/lumibake/internal/bake"
	"github.com/nightforge/lumibake/internal/bake/oracle"
	"github.com/nightforge/lumibake/internal/bake/packer"
	"github.com/nightforge/lumibake/internal/bake/scenes"
	"github.com/nightforge/lumibake/internal/config"
	"github.com/nightforge/lumibake/internal/logger"
	"github.com/nightforge/lumibake/pkg/math"
)

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== lumibake ===")
	logger.Sugar.Debugf("config: %+v", cfg)

	if err := run(cfg); err != nil {
		logger.Error("bake failed", zap.Error(err))
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	mesh, err := selectScene(cfg.Runtime.Scene)
	if err != nil {
		return err
	}

	atlasBuilder := bake.NewAtlasBuilder(&packer.Grid{}, bake.AtlasConfig{
		Resolution: cfg.Atlas.Resolution,
		Padding:    cfg.Atlas.Padding,
	})
	unwrapped, err := atlasBuilder.Build(mesh)
	if err != nil {
		return err
	}
	logger.Sugar.Infof("atlas built: %d vertices, %d submeshes", len(unwrapped.Vertices), len(unwrapped.SubMeshes))

	rasterizer, closeRasterizer, err := selectRasterizer(cfg)
	if err != nil {
		return err
	}
	defer closeRasterizer()

	gutterMap := bake.NewGutterMapRasterizer(rasterizer, cfg.Atlas.Resolution, cfg.Trace.Conservative)
	points := gutterMap.RasterizeBakePoints(unwrapped)
	logger.Sugar.Infof("rasterized %d bake points", len(points))

	tris, submeshAlbedo := oracle.BuildTriangles(mesh)
	bvh, err := oracle.Build(tris)
	if err != nil {
		return &bake.RayOracleInitError{Reason: err.Error()}
	}
	albedo := oracle.NewAlbedoTable(tris, submeshAlbedo)

	tracer := bake.NewPathTracer(bake.PathTraceConfig{
		Samples:           cfg.Trace.Samples,
		Bounces:           cfg.Trace.Bounces,
		Offset:            cfg.Trace.Offset,
		LightDir:          toVec3(cfg.Trace.LightDir),
		LightColor:        toVec3(cfg.Trace.LightColor),
		IncludeSkyBounces: cfg.Trace.IncludeSkyBounces,
	}, bvh, albedo, constantSky(toVec3(cfg.Trace.LightColor)))

	scheduler := bake.NewBakeScheduler(bake.SchedulerConfig{
		Workers:    cfg.Runtime.Workers,
		GlobalSeed: cfg.Runtime.GlobalSeed,
	}, tracer)

	fb := bake.NewFramebuffer(cfg.Atlas.Resolution)
	done := scheduler.BakeAsync(points, fb)
	reportProgress(scheduler, done)

	if n := scheduler.NumericErrors(); n > 0 {
		logger.Warn("clamped non-finite trace samples to zero",
			zap.Error(&bake.NumericError{Context: fmt.Sprintf("%d samples", n)}))
	}

	dilated := bake.NewFramebuffer(cfg.Atlas.Resolution)
	bake.NewDilator().Dilate(fb, dilated)

	store := bake.NewLightmapStore()
	if err := store.Save(dilated, cfg.Runtime.OutputPath); err != nil {
		return err
	}
	logger.Sugar.Infof("wrote lightmap to %s", cfg.Runtime.OutputPath)

	if cfg.Runtime.PreviewPNG != "" {
		if err := store.SavePreviewPNG(dilated, cfg.Runtime.PreviewPNG, 512); err != nil {
			return err
		}
		logger.Sugar.Infof("wrote preview to %s", cfg.Runtime.PreviewPNG)
	}

	return nil
}

func selectScene(name string) (bake.MeshSource, error) {
	switch name {
	case "quad", "":
		return scenes.Quad(), nil
	case "cornell":
		return scenes.CornellBox(), nil
	case "tworooms":
		return scenes.TwoRooms(), nil
	default:
		return nil, fmt.Errorf("unknown scene %q", name)
	}
}

// reportProgress prints "X / N points" once a second until done fires,
// replacing the polled is_done(parent_task) loop with a select over the
// scheduler's completion channel.
func reportProgress(s *bake.BakeScheduler, done <-chan struct{}) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			logger.Sugar.Infof("%d / %d points", s.Progress(), s.Total())
			return
		case <-ticker.C:
			logger.Sugar.Infof("%d / %d points", s.Progress(), s.Total())
		}
	}
}

func toVec3(c [3]float32) math.Vec3 {
	return math.Vec3{X: c[0], Y: c[1], Z: c[2]}
}

// constantSky returns a SkyFunc that radiates a fixed color in every
// direction, the reference stand-in for a real sky model per spec.md §1.
func constantSky(color math.Vec3) bake.SkyFunc {
	return func(direction math.Vec3) math.Vec3 {
		return color
	}
}
