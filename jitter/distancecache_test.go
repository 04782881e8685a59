package jitter

import (
	"testing"

	"go.viam.com/test"
)

func TestDistanceCacheFindNearestEmpty(t *testing.T) {
	c := NewDistanceCache([]float64{1, 1})
	hit, _ := c.FindNearest([]float64{0, 0}, 1)
	test.That(t, hit, test.ShouldBeFalse)
}

func TestDistanceCacheInsertAndFindNearest(t *testing.T) {
	c := NewDistanceCache([]float64{1, 1})
	c.Insert([]float64{0, 0}, "")
	hit, dist := c.FindNearest([]float64{0.1, 0}, 0.5)
	test.That(t, hit, test.ShouldBeTrue)
	test.That(t, dist, test.ShouldAlmostEqual, 0.1, 1e-9)

	hit, _ = c.FindNearest([]float64{5, 5}, 0.5)
	test.That(t, hit, test.ShouldBeFalse)
}

func TestDistanceCacheInsertIsIdempotentPerTag(t *testing.T) {
	c := NewDistanceCache([]float64{1})
	c.Insert([]float64{0}, "a")
	c.Insert([]float64{10}, "a")
	test.That(t, c.Len(), test.ShouldEqual, 1)
}

func TestDistanceCacheZeroResolutionWeightsHeavily(t *testing.T) {
	c := NewDistanceCache([]float64{0})
	c.Insert([]float64{0}, "")
	hit, dist := c.FindNearest([]float64{0.01}, 2)
	test.That(t, hit, test.ShouldBeTrue)
	test.That(t, dist, test.ShouldAlmostEqual, 1, 1e-9)
}

func TestDistanceCacheParallelScanAboveThreshold(t *testing.T) {
	c := NewDistanceCache([]float64{1})
	for i := 0; i < neighborsBeforeParallelization+10; i++ {
		c.Insert([]float64{float64(i)}, "")
	}
	hit, dist := c.FindNearest([]float64{5.5}, 1)
	test.That(t, hit, test.ShouldBeTrue)
	test.That(t, dist, test.ShouldAlmostEqual, 0.5, 1e-9)
}
