package sample

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDownsample_NoDownsampling(t *testing.T) {
	touches := []Touch{{X: 1}, {X: 2}, {X: 3}}

	// Test with nil dst
	result := Downsample(nil, touches, 10)
	require.Len(t, result, 3)
	assert.Equal(t, touches, result)

	// Test with sufficient capacity dst
	dst := make([]Touch, 0, 10)
	result = Downsample(dst, touches, 10)
	assert.Equal(t, touches, result)
	assert.Equal(t, cap(dst), cap(result), "should reuse dst")
}

func TestDownsample_WithDownsampling(t *testing.T) {
	src := make([]int, 100)
	for i := range src {
		src[i] = i
	}

	dst := make([]int, 0, 20)
	result := Downsample(dst, src, 10)
	require.Len(t, result, 10)

	assert.Equal(t, 0, result[0], "first value kept")
	assert.Equal(t, 99, result[9], "newest value kept")
	for i := 1; i < len(result); i++ {
		assert.Greater(t, result[i], result[i-1], "order preserved")
	}
	assert.Equal(t, cap(dst), cap(result), "should reuse dst")
}

func TestDownsample_SmallDst(t *testing.T) {
	src := make([]int, 50)
	result := Downsample(make([]int, 0, 2), src, 5)
	assert.Len(t, result, 5)

	result = Downsample(make([]int, 0, 2), src[:4], 5)
	assert.Len(t, result, 4)
}

func TestDownsample_Empty(t *testing.T) {
	assert.Empty(t, Downsample[int](nil, nil, 10))
	assert.Equal(t, []int{7}, Downsample(nil, []int{1, 2, 7}, 1))
}
