package oracle

import bakemath "github.com/nightforge/lumibake/pkg/math"

// AlbedoTable implements bake.AlbedoLookup over a flat per-triangle
// albedo slice indexed by PrimID, built alongside the same triangle
// list a BVH is constructed from so PrimID addressing stays consistent
// between the two.
type AlbedoTable struct {
	albedo []bakemath.Vec3
}

// NewAlbedoTable builds a lookup table from tris, giving each triangle
// the albedo of its submesh, submeshAlbedo[GeomID] (both as returned by
// BuildTriangles).
func NewAlbedoTable(tris []Triangle, submeshAlbedo []bakemath.Vec3) *AlbedoTable {
	albedo := make([]bakemath.Vec3, len(tris))
	for i, t := range tris {
		if int(t.GeomID) < len(submeshAlbedo) {
			albedo[i] = submeshAlbedo[t.GeomID]
		}
	}
	return &AlbedoTable{albedo: albedo}
}

// Albedo returns the diffuse albedo of the triangle addressed by
// primID, which BuildTriangles assigns as a dense 0..len(tris)-1 index.
func (a *AlbedoTable) Albedo(primID uint32) bakemath.Vec3 {
	if int(primID) >= len(a.albedo) {
		return bakemath.Vec3{}
	}
	return a.albedo[primID]
}
