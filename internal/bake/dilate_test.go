package bake

import "testing"

func TestDilateIdempotentOnFullyValid(t *testing.T) {
	fb := NewFramebuffer(4)
	for i := range fb.Pixels {
		fb.Pixels[i] = 1
	}
	dst := NewFramebuffer(4)
	NewDilator().Dilate(fb, dst)

	for i := range fb.Pixels {
		if dst.Pixels[i] != fb.Pixels[i] {
			t.Fatalf("pixel %d changed on fully-valid input: %v -> %v", i, fb.Pixels[i], dst.Pixels[i])
		}
	}
}

func TestDilateMonotonic(t *testing.T) {
	fb := NewFramebuffer(4)
	fb.Set(1, 1, 0.5, 0.5, 0.5, 1)
	dst := NewFramebuffer(4)
	NewDilator().Dilate(fb, dst)

	validBefore := countValid(fb)
	validAfter := countValid(dst)
	if validAfter < validBefore {
		t.Fatalf("dilation shrank the valid region: %d -> %d", validBefore, validAfter)
	}
}

func TestDilateSeamFillsIsolatedTexel(t *testing.T) {
	fb := NewFramebuffer(3)
	fb.Set(1, 1, 0.25, 0.5, 0.75, 1)
	dst := NewFramebuffer(3)
	NewDilator().Dilate(fb, dst)

	foundMatch := false
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			r, g, b, a := dst.At(1+dx, 1+dy)
			if r == 0.25 && g == 0.5 && b == 0.75 && a == 1 {
				foundMatch = true
			}
		}
	}
	if !foundMatch {
		t.Fatal("expected at least one neighbor of the sole valid texel to equal its value after dilation")
	}
}
