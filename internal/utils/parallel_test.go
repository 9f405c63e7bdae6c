package utils

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParallelizeCoversRangeOnce(t *testing.T) {
	for _, nbIterations := range []int{0, 1, 7, 64, 1000} {
		for _, nbTasks := range []int{1, 2, 3, 16, 100} {
			hits := make([]int32, nbIterations)
			Parallelize(nbIterations, func(start, end int) {
				for i := start; i < end; i++ {
					atomic.AddInt32(&hits[i], 1)
				}
			}, nbTasks)
			for i := range hits {
				require.EqualValues(t, 1, hits[i], "iteration %d visited %d times (n=%d, tasks=%d)", i, hits[i], nbIterations, nbTasks)
			}
		}
	}
}

func TestParallelizeDefaultTasks(t *testing.T) {
	var total int64
	Parallelize(1234, func(start, end int) {
		atomic.AddInt64(&total, int64(end-start))
	})
	require.EqualValues(t, 1234, total)
}
