package imaging

import (
	"bytes"
	"fmt"
	"image/png"
	"math"

	"github.com/nfnt/resize"

	"github.com/hazyhaar/axground/axtree"
	"github.com/hazyhaar/axground/dataset"
)

// Downscale shrinks a PNG so its width does not exceed maxWidth, keeping
// the aspect ratio. Images already narrow enough come back unchanged with
// a scale factor of 1.
func Downscale(data []byte, maxWidth int) ([]byte, float64, error) {
	if maxWidth <= 0 {
		return nil, 0, fmt.Errorf("imaging: max width %d", maxWidth)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, 0, fmt.Errorf("imaging: decode: %w", err)
	}
	width := img.Bounds().Dx()
	if width <= maxWidth {
		return data, 1, nil
	}
	factor := float64(maxWidth) / float64(width)
	scaled := resize.Resize(uint(maxWidth), 0, img, resize.Lanczos3)
	var buf bytes.Buffer
	if err := png.Encode(&buf, scaled); err != nil {
		return nil, 0, fmt.Errorf("imaging: encode: %w", err)
	}
	return buf.Bytes(), factor, nil
}

// ScaleReport rescales all pixel coordinates in a report by factor,
// returning a copy. The original is not modified.
func ScaleReport(r *dataset.Report, factor float64) *dataset.Report {
	out := *r
	out.ImageWidth = int(math.Round(float64(r.ImageWidth) * factor))
	out.ImageHeight = int(math.Round(float64(r.ImageHeight) * factor))
	out.TestSamples = make([]axtree.Sample, len(r.TestSamples))
	for i, s := range r.TestSamples {
		for j, v := range s.BBox {
			s.BBox[j] = v * factor
		}
		s.Point[0] *= factor
		s.Point[1] *= factor
		out.TestSamples[i] = s
	}
	return &out
}
