package xpt2046

import (
	"cmp"
	"slices"
)

// rank tags a sample index with its squared distance from the pass mean.
type rank struct {
	index int
	dist  int
}

// filter reduces one pass of raw samples to a centroid.
//
// The samples are stably sorted by Y and the first half of the rank table is
// averaged. The rank table keeps its pre-sort order, so its first half
// addresses the lowest-Y half of the sorted samples, not the samples closest
// to the mean. samples is reordered in place; ranks must have the same length.
func filter(samples []RawSample, ranks []rank) Position {
	n := len(samples)

	var aveX, aveY int
	for _, s := range samples {
		aveX += s.X
		aveY += s.Y
	}
	aveX /= n
	aveY /= n

	for i, s := range samples {
		dx := aveX - s.X
		dy := aveY - s.Y
		ranks[i] = rank{index: i, dist: dx*dx + dy*dy}
	}

	slices.SortStableFunc(samples, func(a, b RawSample) int {
		return cmp.Compare(a.Y, b.Y)
	})

	half := n / 2
	var tx, ty int
	for _, r := range ranks[:half] {
		tx += samples[r.index].X
		ty += samples[r.index].Y
	}

	return Position{X: tx / half, Y: ty / half}
}
