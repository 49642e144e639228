package evals

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	fenceRe = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)```")
	pairRe  = regexp.MustCompile(`\(?\s*(-?\d+(?:\.\d+)?)\s*,\s*(-?\d+(?:\.\d+)?)\s*\)?`)
)

// ParsePoint extracts a click point from a model answer. Accepted shapes,
// tried in order: a JSON object {"x":..,"y":..}, a JSON array [x, y], a
// bare "(x, y)" pair. Markdown code fences around any of these are
// stripped first. Coordinates outside [0,1000] are rejected.
func ParsePoint(answer string) (Point, error) {
	text := strings.TrimSpace(answer)
	if m := fenceRe.FindStringSubmatch(text); m != nil {
		text = strings.TrimSpace(m[1])
	}

	var obj Point
	if err := json.Unmarshal([]byte(text), &obj); err == nil {
		return checkRange(obj)
	}

	var arr []float64
	if err := json.Unmarshal([]byte(text), &arr); err == nil && len(arr) == 2 {
		return checkRange(Point{X: arr[0], Y: arr[1]})
	}

	// Objects embedded in surrounding prose.
	if start := strings.Index(text, "{"); start != -1 {
		if end := strings.LastIndex(text, "}"); end > start {
			if err := json.Unmarshal([]byte(text[start:end+1]), &obj); err == nil {
				return checkRange(obj)
			}
		}
	}

	if m := pairRe.FindStringSubmatch(text); m != nil {
		x, _ := strconv.ParseFloat(m[1], 64)
		y, _ := strconv.ParseFloat(m[2], 64)
		return checkRange(Point{X: x, Y: y})
	}

	return Point{}, fmt.Errorf("evals: no point in answer: %q", answer)
}

func checkRange(p Point) (Point, error) {
	if p.X < 0 || p.X > 1000 || p.Y < 0 || p.Y > 1000 {
		return Point{}, fmt.Errorf("evals: point (%v, %v) outside [0,1000]", p.X, p.Y)
	}
	return p, nil
}

// ToPixels maps a normalized point onto an image of the given size.
func (p Point) ToPixels(width, height int) (float64, float64) {
	return p.X / 1000 * float64(width), p.Y / 1000 * float64(height)
}

// Hit reports whether the pixel point lands inside the bounding box
// [x1, y1, x2, y2].
func Hit(px, py float64, bbox [4]float64) bool {
	return px >= bbox[0] && px <= bbox[2] && py >= bbox[1] && py <= bbox[3]
}
