package oracle

import (
	"github.com/nightforge/lumibake/internal/bake"
	bakemath "github.com/nightforge/lumibake/pkg/math"
)

// BuildTriangles flattens a mesh's submeshes into a dense triangle list
// suitable for Build and NewAlbedoTable. GeomID is the submesh index;
// PrimID is a dense 0..N-1 index into the returned slice, which is the
// same addressing AlbedoTable.Albedo and BVH hits use.
func BuildTriangles(mesh bake.MeshSource) ([]Triangle, []bakemath.Vec3) {
	verts := mesh.Vertices()
	indices := mesh.Indices()
	subMeshes := mesh.SubMeshes()

	var tris []Triangle
	submeshAlbedo := make([]bakemath.Vec3, len(subMeshes))

	for geomID, sm := range subMeshes {
		submeshAlbedo[geomID] = sm.Albedo
		for i := uint32(0); i < sm.IndexCount; i += 3 {
			i0 := sm.BaseVertex + indices[sm.BaseIndex+i]
			i1 := sm.BaseVertex + indices[sm.BaseIndex+i+1]
			i2 := sm.BaseVertex + indices[sm.BaseIndex+i+2]

			tris = append(tris, Triangle{
				V0:     toVec3(verts[i0].Position),
				V1:     toVec3(verts[i1].Position),
				V2:     toVec3(verts[i2].Position),
				GeomID: uint32(geomID),
				PrimID: uint32(len(tris)),
			})
		}
	}

	return tris, submeshAlbedo
}

func toVec3(p [3]float32) bakemath.Vec3 {
	return bakemath.Vec3{X: p[0], Y: p[1], Z: p[2]}
}
