package bake

import (
	"github.com/nightforge/lumibake/internal/bake/packer"
)

// AtlasBuilder produces a per-vertex lightmap-UV assignment by invoking
// a ChartPacker, then reconstructs an UnwrappedMesh from the packer's
// per-chart xref/UV tables.
type AtlasBuilder struct {
	packer packer.ChartPacker
	cfg    AtlasConfig
}

// NewAtlasBuilder builds an AtlasBuilder bound to a ChartPacker
// collaborator and the target atlas geometry.
func NewAtlasBuilder(p packer.ChartPacker, cfg AtlasConfig) *AtlasBuilder {
	return &AtlasBuilder{packer: p, cfg: cfg}
}

// Build unwraps mesh into an UnwrappedMesh whose vertices carry
// lightmap UVs in [0, (L-1)/L]^2. It aborts with AtlasBuildError if the
// packer rejects any submesh.
func (b *AtlasBuilder) Build(mesh MeshSource) (*UnwrappedMesh, error) {
	verts := mesh.Vertices()
	indices := mesh.Indices()
	subMeshes := mesh.SubMeshes()

	decls := make([]packer.MeshDecl, len(subMeshes))
	for i, sm := range subMeshes {
		decls[i] = submeshToDecl(sm, verts, indices)
	}

	packed, err := b.packer.Pack(decls, packer.Options{Padding: b.cfg.Padding, Resolution: b.cfg.Resolution})
	if err != nil {
		if pe, ok := err.(*packer.PackError); ok {
			return nil, &AtlasBuildError{SubMeshIndex: pe.MeshIndex, Reason: pe.Reason}
		}
		return nil, &AtlasBuildError{SubMeshIndex: -1, Reason: err.Error()}
	}

	return b.reconstruct(subMeshes, verts, packed)
}

// submeshToDecl scopes the position/normal/UV arrays to the vertex
// range starting at sm.BaseVertex, matching the glDrawElementsBaseVertex
// convention the rest of the package uses: sm.Indices are local to that
// range, and IndexOffset carries sm.BaseVertex forward so the packer's
// xref output (local index + IndexOffset) recovers the true index into
// the source mesh's vertex array.
//
// The upper bound of that range isn't known from SubMesh alone -- it's
// however many distinct local vertices this submesh's own indices
// reference, one past the largest local index used. Without this bound
// the slice would run to the end of the shared buffer and pull in every
// later submesh's vertices too, which is exactly what corrupts
// dominantProjectionAxes and the chart bounding box for any submesh that
// isn't last in the buffer.
func submeshToDecl(sm SubMesh, verts []Vertex, indices []uint32) packer.MeshDecl {
	idx := make([]uint32, sm.IndexCount)
	copy(idx, indices[sm.BaseIndex:sm.BaseIndex+sm.IndexCount])

	localCount := uint32(0)
	for _, li := range idx {
		if li+1 > localCount {
			localCount = li + 1
		}
	}

	end := sm.BaseVertex + localCount
	if end > uint32(len(verts)) {
		end = uint32(len(verts))
	}
	scoped := verts[sm.BaseVertex:end]

	positions := make([][3]float32, 0, len(scoped))
	normals := make([][3]float32, 0, len(scoped))
	uvs := make([][2]float32, 0, len(scoped))
	for _, v := range scoped {
		positions = append(positions, v.Position)
		normals = append(normals, v.Normal)
		uvs = append(uvs, v.TexCoord)
	}

	return packer.MeshDecl{
		VertexCount: len(scoped),
		Positions:   positions,
		Normals:     normals,
		UVs:         uvs,
		Indices:     idx,
		IndexOffset: sm.BaseVertex,
	}
}

// reconstruct emits a new vertex list where each packed vertex overlays
// the corresponding source vertex with a lightmap UV in [0,1], and
// recomputes each submesh's base_vertex/base_index against the new
// flattened arrays. Submeshes preserve source order.
func (b *AtlasBuilder) reconstruct(subMeshes []SubMesh, srcVerts []Vertex, packed []packer.PackedMesh) (*UnwrappedMesh, error) {
	out := &UnwrappedMesh{
		SubMeshes: make([]SubMesh, len(subMeshes)),
		Vertices:  make([]Vertex, 0),
		Indices:   make([]uint32, 0),
	}

	inv := float32(1) / float32(b.cfg.Resolution-1)
	if b.cfg.Resolution <= 1 {
		inv = 0
	}
	// Clamp to the (L-1)/L upper bound: dividing packer pixel UVs by L-1
	// can exceed it when the packer's padding is below 2 texels.
	maxUV := float32(0)
	if b.cfg.Resolution > 0 {
		maxUV = float32(b.cfg.Resolution-1) / float32(b.cfg.Resolution)
	}

	for i, pm := range packed {
		baseVertex := uint32(len(out.Vertices))
		baseIndex := uint32(len(out.Indices))

		for _, pv := range pm.Vertices {
			v := srcVerts[pv.Xref]
			v.LightmapUV = [2]float32{minf(pv.UV[0]*inv, maxUV), minf(pv.UV[1]*inv, maxUV)}
			out.Vertices = append(out.Vertices, v)
		}

		// Packed indices are chart-local (0..VertexCount-1) and are copied
		// unchanged; the submesh's BaseVertex below locates them within the
		// flattened vertex array.
		for _, idx := range pm.Indices {
			out.Indices = append(out.Indices, idx)
		}

		out.SubMeshes[i] = SubMesh{
			BaseIndex:  baseIndex,
			IndexCount: uint32(len(pm.Indices)),
			BaseVertex: baseVertex,
			Albedo:     subMeshes[i].Albedo,
		}
	}

	return out, nil
}
