package xpt2046

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func repeat(s RawSample, n int) []RawSample {
	out := make([]RawSample, n)
	for i := range out {
		out[i] = s
	}
	return out
}

func TestFilter(t *testing.T) {
	tests := []struct {
		name    string
		samples []RawSample
		want    Position
	}{
		{
			name:    "identical samples",
			samples: repeat(RawSample{X: 2000, Y: 1500}, 10),
			want:    Position{X: 2000, Y: 1500},
		},
		{
			name: "lowest-Y half is averaged",
			samples: []RawSample{
				{X: 10, Y: 40},
				{X: 20, Y: 10},
				{X: 30, Y: 30},
				{X: 40, Y: 20},
			},
			// sorted by Y: (20,10) (40,20) (30,30) (10,40)
			want: Position{X: 30, Y: 15},
		},
		{
			name: "equal Y keeps acquisition order",
			samples: []RawSample{
				{X: 1, Y: 5},
				{X: 2, Y: 5},
				{X: 3, Y: 5},
				{X: 4, Y: 5},
			},
			want: Position{X: 1, Y: 5},
		},
		{
			name: "outlier with low Y is kept",
			samples: []RawSample{
				{X: 1000, Y: 1000},
				{X: 1000, Y: 1002},
				{X: 3000, Y: 100},
				{X: 1000, Y: 1001},
			},
			// sorted by Y: (3000,100) (1000,1000) ...
			want: Position{X: 2000, Y: 550},
		},
		{
			name:    "two samples",
			samples: []RawSample{{X: 4, Y: 2}, {X: 3, Y: 1}},
			want:    Position{X: 3, Y: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			samples := append([]RawSample(nil), tt.samples...)
			ranks := make([]rank, len(samples))

			got := filter(samples, ranks)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFilter_RanksKeepAcquisitionOrder(t *testing.T) {
	samples := []RawSample{
		{X: 100, Y: 300},
		{X: 100, Y: 100},
		{X: 100, Y: 200},
		{X: 100, Y: 200},
	}
	ranks := make([]rank, len(samples))

	filter(samples, ranks)

	// mean (100,200)
	assert.Equal(t, []rank{
		{index: 0, dist: 10000},
		{index: 1, dist: 10000},
		{index: 2, dist: 0},
		{index: 3, dist: 0},
	}, ranks)
	assert.Equal(t, 100, samples[0].Y, "samples are sorted by Y in place")
}
