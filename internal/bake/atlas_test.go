package bake

import (
	"testing"

	"github.com/nightforge/lumibake/internal/bake/packer"
	"github.com/nightforge/lumibake/pkg/math"
)

// multiSubmeshSource lays two quads into one shared vertex/index buffer
// using the glDrawElementsBaseVertex convention: each submesh's indices
// are local to its own vertex range, and BaseVertex locates that range
// within the shared arrays.
type multiSubmeshSource struct {
	verts     []Vertex
	indices   []uint32
	subMeshes []SubMesh
}

func (m *multiSubmeshSource) Vertices() []Vertex   { return m.verts }
func (m *multiSubmeshSource) Indices() []uint32    { return m.indices }
func (m *multiSubmeshSource) SubMeshes() []SubMesh { return m.subMeshes }

func twoQuadsSharedBuffer() *multiSubmeshSource {
	quad := func(x0, z0 float32) []Vertex {
		return []Vertex{
			{Position: [3]float32{x0, 0, z0}, Normal: [3]float32{0, 1, 0}, TexCoord: [2]float32{0, 0}},
			{Position: [3]float32{x0 + 1, 0, z0}, Normal: [3]float32{0, 1, 0}, TexCoord: [2]float32{1, 0}},
			{Position: [3]float32{x0 + 1, 0, z0 + 1}, Normal: [3]float32{0, 1, 0}, TexCoord: [2]float32{1, 1}},
			{Position: [3]float32{x0, 0, z0 + 1}, Normal: [3]float32{0, 1, 0}, TexCoord: [2]float32{0, 1}},
		}
	}
	// Vertex 0-3 belong to submesh 0 (at origin); vertex 4-7 belong to
	// submesh 1 (offset far away on X), each addressed via a local
	// index range [0,3] plus its own BaseVertex.
	verts := append(quad(0, 0), quad(100, 100)...)
	localIdx := []uint32{0, 1, 2, 0, 2, 3}

	indices := append(append([]uint32{}, localIdx...), localIdx...)

	return &multiSubmeshSource{
		verts:   verts,
		indices: indices,
		subMeshes: []SubMesh{
			{BaseIndex: 0, IndexCount: 6, BaseVertex: 0, Albedo: math.Vec3{X: 1}},
			{BaseIndex: 6, IndexCount: 6, BaseVertex: 4, Albedo: math.Vec3{X: 0, Y: 1}},
		},
	}
}

func TestBuildHonorsNonZeroBaseVertex(t *testing.T) {
	src := twoQuadsSharedBuffer()
	b := NewAtlasBuilder(packer.New(), AtlasConfig{Resolution: 64, Padding: 2})

	out, err := b.Build(src)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(out.SubMeshes) != 2 {
		t.Fatalf("expected 2 submeshes, got %d", len(out.SubMeshes))
	}

	// Every reconstructed vertex must carry a position from the source
	// vertex it actually corresponds to (positions near (0,0) for
	// submesh 0, positions near (100,100) for submesh 1) -- never
	// shifted back to vertex 0 by an ignored BaseVertex.
	sm0 := out.SubMeshes[0]
	for i := sm0.BaseVertex; i < sm0.BaseVertex+4 && int(i) < len(out.Vertices); i++ {
		p := out.Vertices[i].Position
		if p[0] < -1 || p[0] > 2 || p[2] < -1 || p[2] > 2 {
			t.Fatalf("submesh 0 vertex %d has out-of-range position %v (BaseVertex not scoped correctly)", i, p)
		}
	}

	sm1 := out.SubMeshes[1]
	for i := sm1.BaseVertex; i < sm1.BaseVertex+4 && int(i) < len(out.Vertices); i++ {
		p := out.Vertices[i].Position
		if p[0] < 99 || p[0] > 102 || p[2] < 99 || p[2] > 102 {
			t.Fatalf("submesh 1 vertex %d has position %v, expected near (100,100) -- BaseVertex offset was dropped", i, p)
		}
	}
}

func TestBuildAssignsUVsWithinResolution(t *testing.T) {
	src := twoQuadsSharedBuffer()
	res := 64
	b := NewAtlasBuilder(packer.New(), AtlasConfig{Resolution: res, Padding: 2})

	out, err := b.Build(src)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	max := float32(res-1) / float32(res)
	for i, v := range out.Vertices {
		if v.LightmapUV[0] < 0 || v.LightmapUV[0] > max || v.LightmapUV[1] < 0 || v.LightmapUV[1] > max {
			t.Fatalf("vertex %d has UV %v outside [0, %v]^2", i, v.LightmapUV, max)
		}
	}
}

func TestBuildRejectsResolutionTooSmall(t *testing.T) {
	src := twoQuadsSharedBuffer()
	b := NewAtlasBuilder(packer.New(), AtlasConfig{Resolution: 1, Padding: 4})

	if _, err := b.Build(src); err == nil {
		t.Fatal("expected an AtlasBuildError for a resolution too small to fit charts with padding")
	} else if _, ok := err.(*AtlasBuildError); !ok {
		t.Fatalf("expected *AtlasBuildError, got %T", err)
	}
}
