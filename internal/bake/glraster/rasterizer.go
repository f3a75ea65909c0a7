package glraster

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/nightforge/lumibake/internal/bake"
)

// GLRasterizer implements bake.Rasterizer by drawing every triangle's
// lightmap UV as clip-space position into an offscreen MRT pair, then
// reading the position/normal attachments back to host memory. It must
// only be driven from the goroutine that owns Context; BakeScheduler's
// worker pool never touches it.
type GLRasterizer struct {
	ctx     *Context
	log     *zap.Logger
	program uint32
}

// NewGLRasterizer compiles the gutter-map shader program against ctx's
// current GL context.
func NewGLRasterizer(ctx *Context, log *zap.Logger) (*GLRasterizer, error) {
	program, err := compileProgram(gutterVertexShader, gutterFragmentShader)
	if err != nil {
		return nil, fmt.Errorf("compiling gutter-map program: %w", err)
	}
	return &GLRasterizer{ctx: ctx, log: log, program: program}, nil
}

// RasterizeGutterMap implements bake.Rasterizer.
func (g *GLRasterizer) RasterizeGutterMap(mesh *bake.UnwrappedMesh, resolution int, conservative bool) (position, normal *bake.Framebuffer) {
	target, err := newGutterTarget(int32(resolution))
	if err != nil {
		g.log.Error("failed to allocate gutter render target", zap.Error(err))
		return bake.NewFramebuffer(resolution), bake.NewFramebuffer(resolution)
	}
	defer target.destroy()

	verts := buildVertexStream(mesh, resolution, conservative)

	var vao, vbo uint32
	gl.GenVertexArrays(1, &vao)
	gl.GenBuffers(1, &vbo)
	gl.BindVertexArray(vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(verts)*4, gl.Ptr(verts), gl.STATIC_DRAW)

	const stride = 8 * 4 // uv(2) + pos(3) + normal(3), all float32
	gl.VertexAttribPointerWithOffset(0, 2, gl.FLOAT, false, stride, 0)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, stride, 2*4)
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointerWithOffset(2, 3, gl.FLOAT, false, stride, 5*4)
	gl.EnableVertexAttribArray(2)

	target.bind()
	gl.ClearColor(0, 0, 0, 0)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
	gl.Disable(gl.CULL_FACE)
	gl.Disable(gl.DEPTH_TEST)

	gl.UseProgram(g.program)
	gl.BindVertexArray(vao)
	gl.DrawArrays(gl.TRIANGLES, 0, int32(len(verts)/8))

	target.unbind()

	positionData := target.readAttachment(0)
	normalData := target.readAttachment(1)

	gl.DeleteVertexArrays(1, &vao)
	gl.DeleteBuffers(1, &vbo)

	position = floatsToFramebuffer(positionData, resolution)
	normal = floatsToFramebuffer(normalData, resolution)
	return position, normal
}

// buildVertexStream flattens every submesh triangle into interleaved
// (lightmapUV, worldPos, worldNormal) attributes. When conservative is
// set, each vertex is pushed away from the triangle's UV-space centroid
// by 1.5 texels along each axis, the same "grow to catch partially covered
// texels" idea CPURasterizer applies to its bounding box, since actual
// hardware conservative-raster extensions are not portable across GL
// 4.1 core drivers.
func buildVertexStream(mesh *bake.UnwrappedMesh, resolution int, conservative bool) []float32 {
	texel := 1.0 / float32(resolution)
	out := make([]float32, 0, len(mesh.Indices)*8)

	for _, sm := range mesh.SubMeshes {
		for i := uint32(0); i < sm.IndexCount; i += 3 {
			i0 := sm.BaseVertex + mesh.Indices[sm.BaseIndex+i]
			i1 := sm.BaseVertex + mesh.Indices[sm.BaseIndex+i+1]
			i2 := sm.BaseVertex + mesh.Indices[sm.BaseIndex+i+2]
			v0, v1, v2 := mesh.Vertices[i0], mesh.Vertices[i1], mesh.Vertices[i2]

			uv0, uv1, uv2 := v0.LightmapUV, v1.LightmapUV, v2.LightmapUV
			if conservative {
				uv0, uv1, uv2 = expandTriangle(uv0, uv1, uv2, texel)
			}

			out = appendVertex(out, uv0, v0)
			out = appendVertex(out, uv1, v1)
			out = appendVertex(out, uv2, v2)
		}
	}
	return out
}

func appendVertex(out []float32, uv [2]float32, v bake.Vertex) []float32 {
	return append(out, uv[0], uv[1],
		v.Position[0], v.Position[1], v.Position[2],
		v.Normal[0], v.Normal[1], v.Normal[2])
}

func expandTriangle(uv0, uv1, uv2 [2]float32, texel float32) ([2]float32, [2]float32, [2]float32) {
	cx := (uv0[0] + uv1[0] + uv2[0]) / 3
	cy := (uv0[1] + uv1[1] + uv2[1]) / 3
	const scale = 1.5
	push := func(uv [2]float32) [2]float32 {
		dx, dy := uv[0]-cx, uv[1]-cy
		return [2]float32{uv[0] + dx*0 + sign(dx)*texel*scale, uv[1] + dy*0 + sign(dy)*texel*scale}
	}
	return push(uv0), push(uv1), push(uv2)
}

func sign(x float32) float32 {
	if x > 0 {
		return 1
	}
	if x < 0 {
		return -1
	}
	return 0
}

func floatsToFramebuffer(data []float32, resolution int) *bake.Framebuffer {
	fb := bake.NewFramebuffer(resolution)
	// ReadPixels returns window row 0 (clip-space y = -1, i.e. lightmap
	// v = 0) first, so data row r already holds v in [r/L, (r+1)/L) --
	// the same row CPURasterizer writes that v to. No flip is needed.
	copy(fb.Pixels, data)
	return fb
}

// Close releases the compiled shader program.
func (g *GLRasterizer) Close() {
	if g.program != 0 {
		gl.DeleteProgram(g.program)
	}
}
