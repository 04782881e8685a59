package jitter

import (
	"sync"

	"github.com/nimbus-robotics/jitterkit/mathutil"
)

// neighborsBeforeParallelization mirrors the threshold the teacher's
// nearest-neighbor search uses to decide whether a linear scan is cheap
// enough to run serially, below which spinning up worker goroutines would
// cost more than it saves.
const neighborsBeforeParallelization = 100

// entry is one visited configuration recorded in the cache.
type entry struct {
	q   []float64
	tag string
}

// DistanceCache records previously visited configurations so the Jitterer
// can reject samples that are not usefully distinct from ones it has
// already tried. It is admissible by construction: FindNearest always
// returns the true nearest recorded point (within radius), never a false
// negative, because it scans (or, above the parallelization threshold,
// fans out across) every recorded entry.
type DistanceCache struct {
	mu      sync.RWMutex
	weights []float64
	entries []entry
}

// NewDistanceCache builds a cache that weights DOF i's contribution to
// distance by 1/resolutions[i], or 100 when resolutions[i] is zero,
// matching the coarse-DOF-dominates-less convention used elsewhere in this
// module.
func NewDistanceCache(resolutions []float64) *DistanceCache {
	weights := make([]float64, len(resolutions))
	for i, r := range resolutions {
		if r == 0 {
			weights[i] = 100
		} else {
			weights[i] = 1 / r
		}
	}
	return &DistanceCache{weights: weights}
}

// Insert idempotently records q under tag. Re-inserting the same tag
// overwrites its previous entry rather than appending a duplicate; an
// untagged q within 1e-12 (weighted distance) of an existing entry is not
// added again.
func (c *DistanceCache) Insert(q []float64, tag string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	qCopy := append([]float64(nil), q...)
	if tag != "" {
		for i := range c.entries {
			if c.entries[i].tag == tag {
				c.entries[i].q = qCopy
				return
			}
		}
	} else {
		for _, e := range c.entries {
			if mathutil.WeightedEuclideanDistance(q, e.q, c.weights) <= 1e-12 {
				return
			}
		}
	}
	c.entries = append(c.entries, entry{q: qCopy, tag: tag})
}

// Len returns the number of recorded entries.
func (c *DistanceCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// FindNearest reports whether some recorded entry lies within radius of q
// under the weighted-Euclidean metric, along with the distance to the
// closest such entry (or the closest entry overall, if hit is false).
func (c *DistanceCache) FindNearest(q []float64, radius float64) (hit bool, dist float64) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if len(c.entries) == 0 {
		return false, 0
	}

	if len(c.entries) < neighborsBeforeParallelization {
		return c.scanRange(q, 0, len(c.entries), radius)
	}
	return c.parallelScan(q, radius)
}

func (c *DistanceCache) scanRange(q []float64, start, end int, radius float64) (bool, float64) {
	best := -1.0
	for i := start; i < end; i++ {
		d := mathutil.WeightedEuclideanDistance(q, c.entries[i].q, c.weights)
		if best < 0 || d < best {
			best = d
		}
	}
	return best >= 0 && best <= radius, best
}

func (c *DistanceCache) parallelScan(q []float64, radius float64) (bool, float64) {
	numWorkers := 4
	chunk := (len(c.entries) + numWorkers - 1) / numWorkers

	type result struct {
		found bool
		dist  float64
	}
	results := make(chan result, numWorkers)

	var wg sync.WaitGroup
	for w := 0; w < numWorkers; w++ {
		start := w * chunk
		end := mathutil.MinInt(start+chunk, len(c.entries))
		if start >= end {
			continue
		}
		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			found, dist := c.scanRange(q, start, end, radius)
			results <- result{found: found, dist: dist}
		}(start, end)
	}
	wg.Wait()
	close(results)

	best := -1.0
	anyHit := false
	for r := range results {
		if best < 0 || r.dist < best {
			best = r.dist
		}
		if r.found {
			anyHit = true
		}
	}
	return anyHit, best
}
