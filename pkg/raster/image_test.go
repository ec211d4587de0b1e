package raster

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/matzehuels/boxypic/pkg/errors"
)

func TestImageSetAndRGB(t *testing.T) {
	m := New(3, 2)
	m.Set(2, 1, 10, 20, 30)

	if m.Width() != 3 || m.Height() != 2 {
		t.Fatalf("size = %dx%d, want 3x2", m.Width(), m.Height())
	}
	r, g, b := m.RGB(2, 1)
	if r != 10 || g != 20 || b != 30 {
		t.Errorf("RGB(2,1) = %d,%d,%d, want 10,20,30", r, g, b)
	}
	if r, g, b := m.RGB(0, 0); r != 0 || g != 0 || b != 0 {
		t.Errorf("RGB(0,0) = %d,%d,%d, want black", r, g, b)
	}
}

func TestImageFillClips(t *testing.T) {
	m := New(4, 4)
	m.Fill(-2, -2, 2, 2, 255, 0, 0)

	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			r, _, _ := m.RGB(x, y)
			want := uint8(0)
			if x < 2 && y < 2 {
				want = 255
			}
			if r != want {
				t.Errorf("RGB(%d,%d).r = %d, want %d", x, y, r, want)
			}
		}
	}
}

func TestNewNegativeSize(t *testing.T) {
	m := New(-1, 5)
	if m.Width() != 0 || len(m.Pix()) != 0 {
		t.Errorf("New(-1, 5) = %dx%d with %d bytes, want empty", m.Width(), m.Height(), len(m.Pix()))
	}
}

func TestFromImageDropsAlphaAndOffset(t *testing.T) {
	src := image.NewNRGBA(image.Rect(5, 5, 7, 6))
	src.Set(5, 5, color.NRGBA{R: 200, G: 100, B: 50, A: 255})
	src.Set(6, 5, color.NRGBA{R: 1, G: 2, B: 3, A: 255})

	m := FromImage(src)
	if m.Width() != 2 || m.Height() != 1 {
		t.Fatalf("size = %dx%d, want 2x1", m.Width(), m.Height())
	}
	if r, g, b := m.RGB(0, 0); r != 200 || g != 100 || b != 50 {
		t.Errorf("RGB(0,0) = %d,%d,%d", r, g, b)
	}
	if r, g, b := m.RGB(1, 0); r != 1 || g != 2 || b != 3 {
		t.Errorf("RGB(1,0) = %d,%d,%d", r, g, b)
	}
}

func TestFromImageKeepsStraightColorUnderAlpha(t *testing.T) {
	want := color.NRGBA{R: 200, G: 100, B: 50, A: 128}

	nrgba := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	nrgba.SetNRGBA(0, 0, want)

	rgba := image.NewRGBA(image.Rect(0, 0, 1, 1))
	rgba.Set(0, 0, want) // stored premultiplied

	pal := image.NewPaletted(image.Rect(0, 0, 1, 1), color.Palette{want})

	tests := []struct {
		name string
		img  image.Image
		tol  int
	}{
		{"nrgba", nrgba, 0},
		{"rgba", rgba, 2}, // premultiplying loses the low bits
		{"paletted", pal, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, g, b := FromImage(tt.img).RGB(0, 0)
			got := [3]int{int(r), int(g), int(b)}
			exp := [3]int{int(want.R), int(want.G), int(want.B)}
			for i := range got {
				if d := got[i] - exp[i]; d < -tt.tol || d > tt.tol {
					t.Fatalf("RGB(0,0) = %v, want %v (alpha must be discarded, not applied)", got, exp)
				}
			}
		})
	}
}

func TestFromImageRGBASubImage(t *testing.T) {
	full := image.NewRGBA(image.Rect(0, 0, 4, 4))
	full.Set(2, 3, color.RGBA{R: 9, G: 8, B: 7, A: 255})
	sub := full.SubImage(image.Rect(2, 2, 4, 4)).(*image.RGBA)

	m := FromImage(sub)
	if r, g, b := m.RGB(0, 1); r != 9 || g != 8 || b != 7 {
		t.Errorf("RGB(0,1) = %d,%d,%d, want 9,8,7", r, g, b)
	}
}

func TestRGBARoundTrip(t *testing.T) {
	m := New(2, 2)
	m.Set(1, 1, 40, 50, 60)
	back := FromImage(m.RGBA())
	if !bytes.Equal(back.Pix(), m.Pix()) {
		t.Error("RGBA() then FromImage() should reproduce the raster")
	}
}

func TestDecodePNG(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 8, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 8; x++ {
			src.Set(x, y, color.RGBA{R: 255, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, src); err != nil {
		t.Fatal(err)
	}

	m, format, err := Decode(bytes.NewReader(buf.Bytes()), LoadOptions{})
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	if format != "png" {
		t.Errorf("format = %q, want png", format)
	}
	if m.Width() != 8 || m.Height() != 4 {
		t.Errorf("size = %dx%d, want 8x4", m.Width(), m.Height())
	}
}

func TestDecodeMaxSize(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 64, 32))
	var buf bytes.Buffer
	if err := png.Encode(&buf, src); err != nil {
		t.Fatal(err)
	}

	m, _, err := Decode(bytes.NewReader(buf.Bytes()), LoadOptions{MaxSize: 16})
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	if m.Width() != 16 || m.Height() != 8 {
		t.Errorf("size = %dx%d, want 16x8", m.Width(), m.Height())
	}
}

func TestDecodeGarbage(t *testing.T) {
	_, _, err := Decode(bytes.NewReader([]byte("not an image")), LoadOptions{})
	if !errors.Is(err, errors.ErrCodeInvalidImage) {
		t.Errorf("Decode(garbage) error = %v, want INVALID_IMAGE", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, _, err := Load(t.TempDir()+"/missing.png", LoadOptions{})
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("Load(missing) error = %v, want FILE_NOT_FOUND", err)
	}
}
