// Package scenes provides small programmatic bake.MeshSource scenes
// used by the CLI's --scene flag and by the end-to-end bake tests, so
// the pipeline is exercisable without a mesh-loader collaborator.
package scenes

import (
	"github.com/nightforge/lumibake/internal/bake"
	"github.com/nightforge/lumibake/pkg/math"
)

type builder struct {
	verts     []bake.Vertex
	indices   []uint32
	subMeshes []bake.SubMesh
}

func (b *builder) addQuad(p0, p1, p2, p3 [3]float32, normal [3]float32, albedo [3]float32, uvScale float32) {
	base := uint32(len(b.verts))
	uv := func(u, v float32) [2]float32 { return [2]float32{u * uvScale, v * uvScale} }
	b.verts = append(b.verts,
		bake.Vertex{Position: p0, Normal: normal, TexCoord: uv(0, 0)},
		bake.Vertex{Position: p1, Normal: normal, TexCoord: uv(1, 0)},
		bake.Vertex{Position: p2, Normal: normal, TexCoord: uv(1, 1)},
		bake.Vertex{Position: p3, Normal: normal, TexCoord: uv(0, 1)},
	)
	// Winding is chosen so the geometric normal (p1-p0)x(p2-p0) the ray
	// oracle computes from raw positions agrees with the declared shading
	// normal above; with p0..p3 in the order every call site below lists
	// them, the (p0,p1,p2)/(p0,p2,p3) split runs clockwise as seen from
	// `normal`, so the triangles are reversed here.
	//
	// Indices are local to this quad's own 4 vertices (0-3), and
	// BaseVertex locates that range within the shared buffer -- the same
	// glDrawElementsBaseVertex convention oracle.BuildTriangles and
	// CPURasterizer assume, so every submesh here addresses only its own
	// vertices rather than the whole scene.
	startIndex := uint32(len(b.indices))
	b.indices = append(b.indices, 0, 2, 1, 0, 3, 2)
	b.subMeshes = append(b.subMeshes, bake.SubMesh{
		BaseIndex:  startIndex,
		IndexCount: 6,
		BaseVertex: base,
		Albedo:     vec3(albedo),
	})
}

func vec3(c [3]float32) math.Vec3 { return math.Vec3{X: c[0], Y: c[1], Z: c[2]} }

func (b *builder) mesh() *bake.UnwrappedMesh {
	return &bake.UnwrappedMesh{SubMeshes: b.subMeshes, Vertices: b.verts, Indices: b.indices}
}

// programmaticMesh adapts a fully built *bake.UnwrappedMesh (its
// LightmapUV fields left zero) to bake.MeshSource,
// which AtlasBuilder consumes to assign real ones.
type programmaticMesh struct {
	mesh *bake.UnwrappedMesh
}

func (m *programmaticMesh) Vertices() []bake.Vertex   { return m.mesh.Vertices }
func (m *programmaticMesh) Indices() []uint32         { return m.mesh.Indices }
func (m *programmaticMesh) SubMeshes() []bake.SubMesh { return m.mesh.SubMeshes }

// Quad returns a single 10x10 ground plane, one submesh, matte gray
// albedo — the flat-irradiance sanity scene.
func Quad() bake.MeshSource {
	b := &builder{}
	b.addQuad(
		[3]float32{-5, 0, -5}, [3]float32{5, 0, -5}, [3]float32{5, 0, 5}, [3]float32{-5, 0, 5},
		[3]float32{0, 1, 0}, [3]float32{0.7, 0.7, 0.7}, 1,
	)
	return &programmaticMesh{mesh: b.mesh()}
}

// CornellBox returns the classic five-wall box (floor, ceiling, back,
// red left, green right) as five submeshes, so the red/green walls
// bleed color asymmetrically onto the floor and ceiling.
func CornellBox() bake.MeshSource {
	const s = 5
	white := [3]float32{0.73, 0.73, 0.73}
	red := [3]float32{0.63, 0.065, 0.05}
	green := [3]float32{0.14, 0.45, 0.091}

	b := &builder{}
	// Floor (y=-s), normal up.
	b.addQuad([3]float32{-s, -s, -s}, [3]float32{s, -s, -s}, [3]float32{s, -s, s}, [3]float32{-s, -s, s},
		[3]float32{0, 1, 0}, white, 1)
	// Ceiling (y=+s), normal down.
	b.addQuad([3]float32{-s, s, s}, [3]float32{s, s, s}, [3]float32{s, s, -s}, [3]float32{-s, s, -s},
		[3]float32{0, -1, 0}, white, 1)
	// Back wall (z=-s), normal +z.
	b.addQuad([3]float32{-s, -s, -s}, [3]float32{-s, s, -s}, [3]float32{s, s, -s}, [3]float32{s, -s, -s},
		[3]float32{0, 0, 1}, white, 1)
	// Left wall (x=-s), normal +x, red.
	b.addQuad([3]float32{-s, -s, s}, [3]float32{-s, s, s}, [3]float32{-s, s, -s}, [3]float32{-s, -s, -s},
		[3]float32{1, 0, 0}, red, 1)
	// Right wall (x=+s), normal -x, green.
	b.addQuad([3]float32{s, -s, -s}, [3]float32{s, s, -s}, [3]float32{s, s, s}, [3]float32{s, -s, s},
		[3]float32{-1, 0, 0}, green, 1)

	return &programmaticMesh{mesh: b.mesh()}
}

// TwoRooms returns two disjoint 4x4 floor plates separated on the X
// axis, each its own submesh/chart, exercising the packer's multi-chart
// placement and the bake scheduler's handling of spatially separated
// geometry sharing one atlas.
func TwoRooms() bake.MeshSource {
	b := &builder{}
	b.addQuad([3]float32{-6, 0, -2}, [3]float32{-2, 0, -2}, [3]float32{-2, 0, 2}, [3]float32{-6, 0, 2},
		[3]float32{0, 1, 0}, [3]float32{0.6, 0.6, 0.65}, 1)
	b.addQuad([3]float32{2, 0, -2}, [3]float32{6, 0, -2}, [3]float32{6, 0, 2}, [3]float32{2, 0, 2},
		[3]float32{0, 1, 0}, [3]float32{0.65, 0.6, 0.6}, 1)
	return &programmaticMesh{mesh: b.mesh()}
}
