package main

import (
	"image"
	"image/color"
	"image/png"
	"os"

	"golang.org/x/image/draw"
)

// writeSnapshot resolves a palette-indexed framebuffer to RGB through the
// PPU's master palette, upscales it with x/image/draw's nearest-neighbor
// scaler (matching the console's square, non-anti-aliased pixels rather
// than a blurring filter) and writes a PNG as a minimal inspection aid in
// place of a windowed renderer. PNG encoding itself uses the standard
// library's image/png, since no third-party PNG encoder is available to
// pair with x/image here — x/image's own contribution is the scaler, not
// the container format.
func writeSnapshot(path string, frame *[256 * 240]uint8, palette [64]color.RGBA, scale int) error {
	src := image.NewRGBA(image.Rect(0, 0, 256, 240))
	for y := 0; y < 240; y++ {
		for x := 0; x < 256; x++ {
			src.SetRGBA(x, y, palette[frame[y*256+x]&0x3F])
		}
	}

	if scale <= 1 {
		return encodePNG(path, src)
	}

	dst := image.NewRGBA(image.Rect(0, 0, 256*scale, 240*scale))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)
	return encodePNG(path, dst)
}

func encodePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, img)
}
