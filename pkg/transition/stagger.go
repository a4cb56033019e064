package transition

import "github.com/matzehuels/dropkit/pkg/geom"

// PreviewFade is the opacity of the trigger's own label: it fades out over
// the first fade fraction of the transition, while the box is still small.
func PreviewFade(progress, fade float64) float64 {
	v := 1 - progress/fade
	if v < 0 {
		return 0
	}
	return v
}

// Stagger computes per-row reveal progress for rows rows.
//
// Rows start appearing once progress passes fade. The remaining range is
// remapped to [0, 1] and each row gets a window of width 1/(1+(rows-1)/2),
// consecutive windows offset by half a window, so reveals overlap.
func Stagger(progress, fade float64, rows int) []float64 {
	return StaggerInto(make([]float64, rows), progress, fade)
}

// StaggerInto is Stagger writing into dst, which also sets the row count.
func StaggerInto(dst []float64, progress, fade float64) []float64 {
	n := len(dst)
	if n == 0 {
		return dst
	}
	t := geom.Clamp01((progress - fade) / (1 - fade))
	window := 1 / (1 + float64(n-1)/2)
	for i := range dst {
		offset := float64(i) * window / 2
		dst[i] = geom.Clamp01((t - offset) / window)
	}
	return dst
}
