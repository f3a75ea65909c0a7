package main

import (
	"github.com/nightforge/lumibake/internal/bake"
	"github.com/nightforge/lumibake/internal/bake/glraster"
	"github.com/nightforge/lumibake/internal/config"
	"github.com/nightforge/lumibake/internal/logger"
)

// selectRasterizer picks the CPU fallback or the GL-backed rasterizer
// per cfg.Runtime.UseGPU. The GL path owns a hidden window and context
// for the lifetime of the returned closer; it must run on main's
// goroutine, never from a worker.
func selectRasterizer(cfg *config.Config) (bake.Rasterizer, func(), error) {
	if !cfg.Runtime.UseGPU {
		return bake.NewCPURasterizer(), func() {}, nil
	}

	ctx, err := glraster.NewContext(logger.Log)
	if err != nil {
		return nil, nil, err
	}

	r, err := glraster.NewGLRasterizer(ctx, logger.Log)
	if err != nil {
		ctx.Close()
		return nil, nil, err
	}

	return r, func() {
		r.Close()
		ctx.Close()
	}, nil
}
