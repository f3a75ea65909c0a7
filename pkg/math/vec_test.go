package math

import (
	"math"
	"testing"
)

func TestVec3Cross(t *testing.T) {
	x := Vec3{1, 0, 0}
	y := Vec3{0, 1, 0}
	got := x.Cross(y)
	want := Vec3{0, 0, 1}
	if got != want {
		t.Errorf("Vec3.Cross() = %v, want %v", got, want)
	}
}

func TestVec3Sign(t *testing.T) {
	v := Vec3{-2, 0, 5}
	got := v.Sign()
	want := Vec3{-1, 0, 1}
	if got != want {
		t.Errorf("Vec3.Sign() = %v, want %v", got, want)
	}
}

func TestVec3Abs(t *testing.T) {
	v := Vec3{-2, 3, -0.5}
	got := v.Abs()
	want := Vec3{2, 3, 0.5}
	if got != want {
		t.Errorf("Vec3.Abs() = %v, want %v", got, want)
	}
}

func TestVec3Mul(t *testing.T) {
	a := Vec3{2, 3, 4}
	b := Vec3{5, 6, 7}
	got := a.Mul(b)
	want := Vec3{10, 18, 28}
	if got != want {
		t.Errorf("Vec3.Mul() = %v, want %v", got, want)
	}
}

func TestVec3IsFinite(t *testing.T) {
	if !(Vec3{1, 2, 3}).IsFinite() {
		t.Error("expected finite vector to report IsFinite() == true")
	}
	nan := float32(math.NaN())
	if (Vec3{nan, 0, 0}).IsFinite() {
		t.Error("expected NaN component to report IsFinite() == false")
	}
}
