package glraster

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// gutterTarget is an offscreen render target with two RGBA32F color
// attachments (world position and geometric normal) plus a depth
// renderbuffer, sized to the atlas resolution. Float attachments let
// the fragment shader write unclamped position/normal components,
// unlike the RGBA8 attachments a display framebuffer would use.
type gutterTarget struct {
	fbo               uint32
	positionTex       uint32
	normalTex         uint32
	depthRBO          uint32
	width, height     int32
}

func newGutterTarget(size int32) (*gutterTarget, error) {
	t := &gutterTarget{width: size, height: size}

	gl.GenFramebuffers(1, &t.fbo)
	gl.BindFramebuffer(gl.FRAMEBUFFER, t.fbo)

	t.positionTex = t.attachFloatTexture(gl.COLOR_ATTACHMENT0)
	t.normalTex = t.attachFloatTexture(gl.COLOR_ATTACHMENT1)

	gl.GenRenderbuffers(1, &t.depthRBO)
	gl.BindRenderbuffer(gl.RENDERBUFFER, t.depthRBO)
	gl.RenderbufferStorage(gl.RENDERBUFFER, gl.DEPTH_COMPONENT24, t.width, t.height)
	gl.FramebufferRenderbuffer(gl.FRAMEBUFFER, gl.DEPTH_ATTACHMENT, gl.RENDERBUFFER, t.depthRBO)

	drawBuffers := []uint32{gl.COLOR_ATTACHMENT0, gl.COLOR_ATTACHMENT1}
	gl.DrawBuffers(int32(len(drawBuffers)), &drawBuffers[0])

	status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER)
	if status != gl.FRAMEBUFFER_COMPLETE {
		t.destroy()
		return nil, fmt.Errorf("gutter target incomplete: 0x%x", status)
	}

	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	return t, nil
}

func (t *gutterTarget) attachFloatTexture(attachment uint32) uint32 {
	var tex uint32
	gl.GenTextures(1, &tex)
	gl.BindTexture(gl.TEXTURE_2D, tex)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA32F, t.width, t.height, 0, gl.RGBA, gl.FLOAT, nil)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, attachment, gl.TEXTURE_2D, tex, 0)
	return tex
}

func (t *gutterTarget) bind() {
	gl.BindFramebuffer(gl.FRAMEBUFFER, t.fbo)
	gl.Viewport(0, 0, t.width, t.height)
}

func (t *gutterTarget) unbind() {
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
}

// readAttachment reads back attachment (0=position, 1=normal) as
// row-major float32 RGBA in GL's row order: window row 0 (the bottom of
// the viewport) first.
func (t *gutterTarget) readAttachment(index int) []float32 {
	out := make([]float32, t.width*t.height*4)
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, t.fbo)
	gl.ReadBuffer(gl.COLOR_ATTACHMENT0 + uint32(index))
	gl.ReadPixels(0, 0, t.width, t.height, gl.RGBA, gl.FLOAT, gl.Ptr(out))
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, 0)
	return out
}

func (t *gutterTarget) destroy() {
	if t.fbo != 0 {
		gl.DeleteFramebuffers(1, &t.fbo)
	}
	if t.positionTex != 0 {
		gl.DeleteTextures(1, &t.positionTex)
	}
	if t.normalTex != 0 {
		gl.DeleteTextures(1, &t.normalTex)
	}
	if t.depthRBO != 0 {
		gl.DeleteRenderbuffers(1, &t.depthRBO)
	}
}
