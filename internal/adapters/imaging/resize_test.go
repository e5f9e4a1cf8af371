package imaging_test

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"staybook/internal/adapters/imaging"
)

func writeTestPNG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), A: 255})
		}
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("encode: %v", err)
	}
}

func decodeBounds(t *testing.T, path string) image.Rectangle {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		t.Fatalf("decode %s: %v", path, err)
	}
	return img.Bounds()
}

func TestVariantPath(t *testing.T) {
	got := imaging.VariantPath("media/ab12.jpg", 200)
	if got != "media/ab12_w200.jpg" {
		t.Fatalf("got %s", got)
	}
}

func TestResizeFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "photo.png")
	writeTestPNG(t, src, 800, 600)

	paths, err := imaging.ResizeFile(src, []int{200, 500})
	if err != nil {
		t.Fatalf("resize: %v", err)
	}
	if len(paths) != 2 {
		t.Fatalf("got %d variants, want 2", len(paths))
	}

	b200 := decodeBounds(t, filepath.Join(dir, "photo_w200.png"))
	if b200.Dx() != 200 || b200.Dy() != 150 {
		t.Fatalf("w200 bounds = %v", b200)
	}
	b500 := decodeBounds(t, filepath.Join(dir, "photo_w500.png"))
	if b500.Dx() != 500 || b500.Dy() != 375 {
		t.Fatalf("w500 bounds = %v", b500)
	}
}

func TestResizeFile_NeverUpscales(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "small.png")
	writeTestPNG(t, src, 100, 80)

	paths, err := imaging.ResizeFile(src, []int{500})
	if err != nil {
		t.Fatalf("resize: %v", err)
	}
	b := decodeBounds(t, paths[0])
	if b.Dx() != 100 || b.Dy() != 80 {
		t.Fatalf("small image was rescaled: %v", b)
	}
}

func TestResizeFile_RejectsGarbage(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "bad.jpg")
	if err := os.WriteFile(src, []byte("not an image"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := imaging.ResizeFile(src, []int{200}); err == nil {
		t.Fatal("expected decode error")
	}
}
