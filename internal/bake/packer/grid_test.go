package packer

import "testing"

func quadDecl(indexOffset uint32, minX, minZ float32) MeshDecl {
	positions := [][3]float32{
		{minX, 0, minZ}, {minX + 1, 0, minZ}, {minX + 1, 0, minZ + 1}, {minX, 0, minZ + 1},
	}
	normals := [][3]float32{
		{0, 1, 0}, {0, 1, 0}, {0, 1, 0}, {0, 1, 0},
	}
	return MeshDecl{
		VertexCount: len(positions),
		Positions:   positions,
		Normals:     normals,
		UVs:         make([][2]float32, len(positions)),
		Indices:     []uint32{0, 1, 2, 0, 2, 3},
		IndexOffset: indexOffset,
	}
}

func TestPackAppliesIndexOffsetToXref(t *testing.T) {
	g := New()
	decl := quadDecl(10, 0, 0)

	packed, err := g.Pack([]MeshDecl{decl}, Options{Padding: 1, Resolution: 64})
	if err != nil {
		t.Fatalf("Pack: %v", err)
	}
	if len(packed) != 1 {
		t.Fatalf("expected 1 packed mesh, got %d", len(packed))
	}

	for i, v := range packed[0].Vertices {
		want := decl.IndexOffset + uint32(i)
		if v.Xref != want {
			t.Fatalf("vertex %d: Xref = %d, want %d (IndexOffset not applied)", i, v.Xref, want)
		}
	}
}

func TestPackKeepsChartsSeparated(t *testing.T) {
	g := New()
	decls := []MeshDecl{quadDecl(0, 0, 0), quadDecl(4, 100, 100)}

	packed, err := g.Pack(decls, Options{Padding: 2, Resolution: 128})
	if err != nil {
		t.Fatalf("Pack: %v", err)
	}

	bounds := func(pm PackedMesh) (minU, minV, maxU, maxV float32) {
		minU, minV = pm.Vertices[0].UV[0], pm.Vertices[0].UV[1]
		maxU, maxV = minU, minV
		for _, v := range pm.Vertices {
			if v.UV[0] < minU {
				minU = v.UV[0]
			}
			if v.UV[0] > maxU {
				maxU = v.UV[0]
			}
			if v.UV[1] < minV {
				minV = v.UV[1]
			}
			if v.UV[1] > maxV {
				maxV = v.UV[1]
			}
		}
		return
	}

	minU0, minV0, maxU0, maxV0 := bounds(packed[0])
	minU1, minV1, maxU1, maxV1 := bounds(packed[1])

	overlapsU := minU0 <= maxU1 && minU1 <= maxU0
	overlapsV := minV0 <= maxV1 && minV1 <= maxV0
	if overlapsU && overlapsV {
		t.Fatalf("charts overlap: chart0=[%v,%v]x[%v,%v] chart1=[%v,%v]x[%v,%v]",
			minU0, maxU0, minV0, maxV0, minU1, maxU1, minV1, maxV1)
	}
}

func TestPackRejectsEmptyMesh(t *testing.T) {
	g := New()
	_, err := g.Pack([]MeshDecl{{VertexCount: 0}}, Options{Padding: 1, Resolution: 64})
	if err == nil {
		t.Fatal("expected an error for an empty mesh")
	}
	pe, ok := err.(*PackError)
	if !ok {
		t.Fatalf("expected *PackError, got %T", err)
	}
	if pe.MeshIndex != 0 {
		t.Fatalf("expected MeshIndex 0, got %d", pe.MeshIndex)
	}
}

func TestPackRejectsNonPositiveResolution(t *testing.T) {
	g := New()
	if _, err := g.Pack([]MeshDecl{quadDecl(0, 0, 0)}, Options{Padding: 1, Resolution: 0}); err == nil {
		t.Fatal("expected an error for resolution <= 0")
	}
}

func TestPackRejectsTooManyChartsForResolution(t *testing.T) {
	g := New()
	decls := make([]MeshDecl, 8)
	for i := range decls {
		decls[i] = quadDecl(0, float32(i)*10, 0)
	}
	if _, err := g.Pack(decls, Options{Padding: 8, Resolution: 16}); err == nil {
		t.Fatal("expected an error when padding leaves no room for the chart grid")
	}
}
