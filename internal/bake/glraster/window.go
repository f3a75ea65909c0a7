// Package glraster provides the GPU-backed Rasterizer: a hidden SDL2
// window and OpenGL context used purely for offscreen rendering. The
// bake CLI never shows a window; SDL2 still requires one to own a GL
// context, so the window is created with sdl.WINDOW_HIDDEN.
package glraster

import (
	"fmt"
	"runtime"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"
)

func init() {
	// OpenGL calls must be made from the thread that created the context.
	runtime.LockOSThread()
}

// Context owns the hidden window and GL context that every GLRasterizer
// pass renders through. The bake CLI creates exactly one Context on its
// main goroutine and never touches it from worker goroutines, matching
// the single-GPU-owner rule the path tracer's CPU workers rely on.
type Context struct {
	log       *zap.Logger
	sdlWindow *sdl.Window
	glContext sdl.GLContext
}

// NewContext initializes SDL2 video, creates a hidden 1x1 window and an
// OpenGL 4.1 core context, and makes it current on the calling thread.
func NewContext(log *zap.Logger) (*Context, error) {
	c := &Context{log: log}

	if err := sdl.Init(sdl.INIT_VIDEO); err != nil {
		return nil, fmt.Errorf("SDL_Init failed: %w", err)
	}

	sdl.GLSetAttribute(sdl.GL_CONTEXT_MAJOR_VERSION, 4)
	sdl.GLSetAttribute(sdl.GL_CONTEXT_MINOR_VERSION, 1)
	sdl.GLSetAttribute(sdl.GL_CONTEXT_PROFILE_MASK, sdl.GL_CONTEXT_PROFILE_CORE)
	sdl.GLSetAttribute(sdl.GL_DOUBLEBUFFER, 0)

	var err error
	c.sdlWindow, err = sdl.CreateWindow(
		"lumibake-offscreen",
		sdl.WINDOWPOS_UNDEFINED,
		sdl.WINDOWPOS_UNDEFINED,
		1, 1,
		sdl.WINDOW_OPENGL|sdl.WINDOW_HIDDEN,
	)
	if err != nil {
		sdl.Quit()
		return nil, fmt.Errorf("SDL_CreateWindow failed: %w", err)
	}

	c.glContext, err = c.sdlWindow.GLCreateContext()
	if err != nil {
		c.sdlWindow.Destroy()
		sdl.Quit()
		return nil, fmt.Errorf("SDL_GL_CreateContext failed: %w", err)
	}

	if err := gl.Init(); err != nil {
		c.sdlWindow.Destroy()
		sdl.Quit()
		return nil, fmt.Errorf("gl.Init failed: %w", err)
	}

	log.Info("gl context created for offscreen rasterization")
	return c, nil
}

// Close tears down the GL context, window, and SDL2 subsystem.
func (c *Context) Close() {
	if c.glContext != nil {
		sdl.GLDeleteContext(c.glContext)
	}
	if c.sdlWindow != nil {
		c.sdlWindow.Destroy()
	}
	sdl.Quit()
}
