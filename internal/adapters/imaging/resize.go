package imaging

import (
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	xdraw "golang.org/x/image/draw"
)

// VariantPath names the resized copy for a given width:
// media/ab12.jpg -> media/ab12_w200.jpg
func VariantPath(path string, width int) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + fmt.Sprintf("_w%d", width) + ext
}

// ResizeFile decodes the image at path and writes one scaled copy per
// requested width, preserving aspect ratio. Returns the variant paths.
func ResizeFile(path string, widths []int) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	src, format, err := image.Decode(f)
	f.Close()
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	out := make([]string, 0, len(widths))
	for _, w := range widths {
		dst := scale(src, w)
		vp := VariantPath(path, w)
		if err := encode(vp, dst, format); err != nil {
			return out, err
		}
		out = append(out, vp)
	}
	return out, nil
}

func scale(src image.Image, width int) image.Image {
	b := src.Bounds()
	if b.Dx() <= width {
		return src // never upscale
	}
	h := b.Dy() * width / b.Dx()
	if h < 1 {
		h = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, width, h))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, b, xdraw.Over, nil)
	return dst
}

func encode(path string, img image.Image, format string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	switch format {
	case "png":
		err = png.Encode(f, img)
	default:
		err = jpeg.Encode(f, img, &jpeg.Options{Quality: 85})
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return err
}
