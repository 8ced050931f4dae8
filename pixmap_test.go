package march

import (
	"path/filepath"
	"testing"
)

func TestPixmap_SetRGBAt(t *testing.T) {
	pm := NewPixmap(4, 3)
	pm.SetRGB(1, 2, RGB{R: 1, G: 0.5, B: 0})

	got := pm.At(1, 2)
	if got.R != 1 || !approx(got.G, 0.5, 1.0/255) || got.B != 0 {
		t.Errorf("At(1, 2) = %+v", got)
	}
	if got := pm.At(0, 0); got != (RGB{}) {
		t.Errorf("untouched pixel = %+v, want zero", got)
	}
}

func TestPixmap_SetRGBClamps(t *testing.T) {
	pm := NewPixmap(2, 2)
	pm.SetRGB(0, 0, RGB{R: 2.5, G: -1, B: 0.5})

	d := pm.Data()
	if d[0] != 255 {
		t.Errorf("overbright red byte = %d, want 255", d[0])
	}
	if d[1] != 0 {
		t.Errorf("negative green byte = %d, want 0", d[1])
	}
	if d[3] != 255 {
		t.Errorf("alpha byte = %d, want opaque", d[3])
	}
}

func TestPixmap_OutOfBoundsIgnored(t *testing.T) {
	pm := NewPixmap(2, 2)
	pm.SetRGB(-1, 0, RGB{R: 1})
	pm.SetRGB(0, 5, RGB{R: 1})

	for i, b := range pm.Data() {
		if b != 0 {
			t.Fatalf("byte %d = %d after out-of-bounds writes", i, b)
		}
	}
	if got := pm.At(-1, 0); got != (RGB{}) {
		t.Errorf("At(-1, 0) = %+v, want zero", got)
	}
}

func TestPixmap_DataLayout(t *testing.T) {
	pm := NewPixmap(3, 2)
	if got, want := len(pm.Data()), 3*2*4; got != want {
		t.Fatalf("len(Data()) = %d, want %d", got, want)
	}
	pm.SetRGB(2, 1, RGB{R: 1})
	// Row-major RGBA: last pixel starts at (1*3+2)*4.
	if pm.Data()[(1*3+2)*4] != 255 {
		t.Error("pixel (2,1) not at expected offset")
	}
}

func TestPixmap_Image(t *testing.T) {
	pm := NewPixmap(5, 4)
	pm.SetRGB(3, 2, RGB{G: 1})

	img := pm.Image()
	if b := img.Bounds(); b.Dx() != 5 || b.Dy() != 4 {
		t.Fatalf("image bounds = %v", b)
	}
	_, g, _, a := img.At(3, 2).RGBA()
	if g == 0 || a == 0 {
		t.Errorf("image pixel (3,2) = g %d a %d, want opaque green", g, a)
	}
}

func TestPixmap_SavePNG(t *testing.T) {
	pm := NewPixmap(8, 8)
	pm.SetRGB(4, 4, RGB{B: 1})

	path := filepath.Join(t.TempDir(), "out.png")
	if err := pm.SavePNG(path); err != nil {
		t.Fatalf("SavePNG() = %v", err)
	}
}
