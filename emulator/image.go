package main

import (
	"image"
	"os"

	"golang.org/x/image/bmp"
)

// RAM snapshot geometry: one pixel per byte, one page per two rows.
const (
	imageWidth  = 128
	imageHeight = 256
)

// writeRAMImage renders the RAM contents as a grayscale BMP, one pixel
// per byte. Patterns a program leaves in memory (tables, fills,
// frame buffers) show up immediately without opening a hex editor.
func writeRAMImage(path string, contents []byte) error {
	img := image.NewGray(image.Rect(0, 0, imageWidth, imageHeight))
	// image.Gray pixel layout matches the dump layout directly.
	copy(img.Pix, contents)

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := bmp.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
