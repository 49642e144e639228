// Package imaging prepares captured screenshots for dataset use: cropping
// full captures down to the viewport and downscaling oversized pages
// together with their sample coordinates.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"os"
)

// Box is a pixel-space crop rectangle.
type Box struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

func (b Box) rect() image.Rectangle {
	return image.Rect(b.X, b.Y, b.X+b.Width, b.Y+b.Height)
}

type subImager interface {
	SubImage(image.Rectangle) image.Image
}

// Crop cuts box out of a PNG. The box is clamped to the image bounds; a box
// entirely outside the image is an error.
func Crop(data []byte, box Box) ([]byte, error) {
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("imaging: decode: %w", err)
	}
	rect := box.rect().Intersect(img.Bounds())
	if rect.Empty() {
		return nil, fmt.Errorf("imaging: crop box %+v outside image %v", box, img.Bounds())
	}
	si, ok := img.(subImager)
	if !ok {
		return nil, fmt.Errorf("imaging: image type %T does not support cropping", img)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, si.SubImage(rect)); err != nil {
		return nil, fmt.Errorf("imaging: encode: %w", err)
	}
	return buf.Bytes(), nil
}

// CropFile reads src, crops it to box and writes the result to dst.
func CropFile(src, dst string, box Box) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	out, err := Crop(data, box)
	if err != nil {
		return fmt.Errorf("imaging: %s: %w", src, err)
	}
	return os.WriteFile(dst, out, 0o644)
}

// Size returns the pixel dimensions of a PNG without decoding the pixels.
func Size(data []byte) (int, int, error) {
	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0, fmt.Errorf("imaging: decode config: %w", err)
	}
	return cfg.Width, cfg.Height, nil
}
