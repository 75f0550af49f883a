package concurrent

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapKeepsJobOrder(t *testing.T) {
	jobs := make([]int, 100)
	for i := range jobs {
		jobs[i] = i
	}

	var calls atomic.Int32
	got := Map(context.Background(), jobs, 8, func(_ context.Context, j int) int {
		calls.Add(1)
		return j * j
	})

	assert.Equal(t, int32(100), calls.Load())
	for i, v := range got {
		assert.Equal(t, i*i, v)
	}
}

func TestMapEmptyAndSingleWorker(t *testing.T) {
	assert.Empty(t, Map(context.Background(), []string{}, 4, func(_ context.Context, s string) int { return len(s) }))

	got := Map(context.Background(), []string{"a", "bb", "ccc"}, 0, func(_ context.Context, s string) int {
		return len(s)
	})
	assert.Equal(t, []int{1, 2, 3}, got)
}
