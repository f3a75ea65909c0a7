package bake

import (
	"encoding/binary"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"

	"golang.org/x/image/draw"
)

// LightmapStore persists and loads the baked atlas as a raw little-
// endian float image, with no header: the caller always knows the
// resolution from its own configuration, so a size mismatch is a
// configuration error rather than a format error.
type LightmapStore struct{}

// NewLightmapStore returns a LightmapStore.
func NewLightmapStore() *LightmapStore {
	return &LightmapStore{}
}

// Save writes fb as 4*4*L*L bytes of little-endian float32 RGBA,
// row-major, top to bottom.
func (s *LightmapStore) Save(fb *Framebuffer, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return &IoError{Op: "save", Path: path, Err: err}
	}
	defer f.Close()

	buf := make([]byte, len(fb.Pixels)*4)
	for i, v := range fb.Pixels {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}

	if _, err := f.Write(buf); err != nil {
		return &IoError{Op: "save", Path: path, Err: err}
	}
	return nil
}

// Load reads a raw framebuffer of side length size from path. It
// returns an IoError if the file size doesn't match 4*4*size*size.
// Nothing in this repository calls Load; the bake CLI always bakes anew.
func (s *LightmapStore) Load(path string, size int) (*Framebuffer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &IoError{Op: "load", Path: path, Err: err}
	}

	want := 4 * 4 * size * size
	if len(data) != want {
		return nil, &IoError{Op: "load", Path: path, Err: sizeMismatchError{got: len(data), want: want}}
	}

	fb := NewFramebuffer(size)
	for i := range fb.Pixels {
		fb.Pixels[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return fb, nil
}

type sizeMismatchError struct{ got, want int }

func (e sizeMismatchError) Error() string {
	return "lightmap file size mismatch"
}

// SavePreviewPNG writes an 8-bit tone-mapped preview of fb, downsampled
// to maxSide (or left at native resolution if maxSide <= 0 or larger
// than fb's side), using a high-quality resampler so large atlases
// produce a readable thumbnail. Purely a debugging aid; the raw file
// from Save is the format the runtime actually loads.
func (s *LightmapStore) SavePreviewPNG(fb *Framebuffer, path string, maxSide int) error {
	src := image.NewRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	for y := 0; y < fb.Height; y++ {
		for x := 0; x < fb.Width; x++ {
			r, g, b, a := fb.At(x, y)
			src.Set(x, y, color.NRGBA{
				R: tonemap(r),
				G: tonemap(g),
				B: tonemap(b),
				A: uint8(a * 255),
			})
		}
	}

	dstSide := fb.Width
	if maxSide > 0 && maxSide < fb.Width {
		dstSide = maxSide
	}

	var out image.Image = src
	if dstSide != fb.Width {
		dst := image.NewRGBA(image.Rect(0, 0, dstSide, dstSide))
		draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)
		out = dst
	}

	f, err := os.Create(path)
	if err != nil {
		return &IoError{Op: "save-preview", Path: path, Err: err}
	}
	defer f.Close()

	if err := png.Encode(f, out); err != nil {
		return &IoError{Op: "save-preview", Path: path, Err: err}
	}
	return nil
}

// tonemap applies a simple Reinhard-style compression so bright direct
// sun contributions don't all clip to white in the 8-bit preview.
func tonemap(v float32) uint8 {
	if v < 0 {
		v = 0
	}
	mapped := v / (1 + v)
	return uint8(mapped*255 + 0.5)
}
