package axtree

import "strings"

// Resolve removes candidates that are majority-covered by elements painted
// after them and turns the survivors into samples.
//
// records must be the full walk output the candidates were selected from:
// occlusion is judged against every later-painted element, not only other
// candidates. Document order (VisibleRecord.Seq) is the sole z-order
// signal. A candidate is occluded when a later non-text element covers
// more than cfg.OcclusionRatio of its visible area and that element's
// rectangle contains the candidate's center.
//
// Degenerate zero-area candidates are kept rather than risking a division
// by zero; upstream guarantees make them unreachable in practice.
func Resolve(candidates, records []VisibleRecord, cfg *Config) []Sample {
	var c Config
	if cfg != nil {
		c = *cfg
	}
	c.defaults()

	samples := make([]Sample, 0, len(candidates))
	for _, cand := range candidates {
		if !occluded(cand, records, &c) {
			samples = append(samples, toSample(cand))
		}
	}
	return samples
}

func occluded(cand VisibleRecord, records []VisibleRecord, cfg *Config) bool {
	if cand.Area <= 0 {
		return false
	}
	cx, cy := cand.Visible.Center()

	for _, r := range records {
		if r.Seq <= cand.Seq {
			continue
		}
		if cfg.NonOccludingRoles[r.Role] {
			continue
		}
		inter, ok := cand.Visible.Intersect(r.Visible)
		if !ok {
			continue
		}
		if inter.Area() > cfg.OcclusionRatio*cand.Area && r.Visible.Contains(cx, cy) {
			return true
		}
	}
	return false
}

func toSample(r VisibleRecord) Sample {
	cx, cy := r.Visible.Center()
	return Sample{
		ID:       r.ID,
		Category: r.Role,
		Name:     strings.TrimSpace(r.Name),
		BBox:     [4]float64{r.Visible.X1, r.Visible.Y1, r.Visible.X2, r.Visible.Y2},
		Point:    [2]float64{cx, cy},
	}
}
