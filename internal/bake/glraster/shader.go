package glraster

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// compileProgram compiles and links a vertex/fragment shader pair.
func compileProgram(vertexSrc, fragmentSrc string) (uint32, error) {
	vertShader, err := compileShader(vertexSrc, gl.VERTEX_SHADER, "vertex")
	if err != nil {
		return 0, err
	}
	defer gl.DeleteShader(vertShader)

	fragShader, err := compileShader(fragmentSrc, gl.FRAGMENT_SHADER, "fragment")
	if err != nil {
		return 0, err
	}
	defer gl.DeleteShader(fragShader)

	program := gl.CreateProgram()
	gl.AttachShader(program, vertShader)
	gl.AttachShader(program, fragShader)
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLen)
		log := make([]byte, logLen)
		gl.GetProgramInfoLog(program, logLen, nil, &log[0])
		gl.DeleteProgram(program)
		return 0, fmt.Errorf("link: %s", string(log))
	}

	return program, nil
}

func compileShader(source string, shaderType uint32, name string) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csource, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csource, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLen)
		log := make([]byte, logLen)
		gl.GetShaderInfoLog(shader, logLen, nil, &log[0])
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("%s shader: %s", name, string(log))
	}

	return shader, nil
}

// gutterVertexShader rasterizes each triangle in atlas UV space rather
// than camera space: lightmap UV becomes clip-space xy, so every texel
// the rasterizer covers is a bake point, and interpolated varyings
// carry the actual world position/normal the path tracer needs.
const gutterVertexShader = `#version 410 core
layout(location = 0) in vec2 inLightmapUV;
layout(location = 1) in vec3 inWorldPos;
layout(location = 2) in vec3 inWorldNormal;

out vec3 vWorldPos;
out vec3 vWorldNormal;

void main() {
    vWorldPos = inWorldPos;
    vWorldNormal = inWorldNormal;
    vec2 ndc = inLightmapUV * 2.0 - 1.0;
    gl_Position = vec4(ndc, 0.0, 1.0);
}
`

const gutterFragmentShader = `#version 410 core
in vec3 vWorldPos;
in vec3 vWorldNormal;

layout(location = 0) out vec4 outPosition;
layout(location = 1) out vec4 outNormal;

void main() {
    outPosition = vec4(vWorldPos, 1.0);
    outNormal = vec4(vWorldNormal, 1.0);
}
`
