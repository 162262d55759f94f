package index

import (
	"math"
	"sort"
	"sync"

	"prompt-engine/internal/types"
)

// Candidate is a single hit from a FlatIndex search.
type Candidate struct {
	Position int
	Distance float32
}

// FlatIndex is an in-memory nearest-neighbor index backed by a flat L2 scan.
// Positions are assigned sequentially from 0 at insertion time and are never
// reused within an index instance. The index is a derived cache: it is never
// persisted and is rebuilt from the store on startup.
type FlatIndex struct {
	mu   sync.RWMutex
	dim  int
	vecs []types.Vector
}

func NewFlatIndex(dim int) *FlatIndex {
	return &FlatIndex{dim: dim}
}

// Insert appends a vector and returns its assigned position. Vectors of the
// wrong dimension are rejected with a validation error and leave the index
// unchanged; they are never truncated or padded.
func (ix *FlatIndex) Insert(vec types.Vector) (int, error) {
	if len(vec) != ix.dim {
		return 0, types.Validationf("index: vector dimension mismatch: expected %d, got %d", ix.dim, len(vec))
	}

	ix.mu.Lock()
	defer ix.mu.Unlock()

	ix.vecs = append(ix.vecs, append(types.Vector(nil), vec...))
	return len(ix.vecs) - 1, nil
}

// Search returns up to min(k, size) candidates ordered by ascending L2
// distance. Ties are broken by ascending position, so the first-inserted
// vector wins. Searching an empty index returns an empty result, not an
// error.
func (ix *FlatIndex) Search(query types.Vector, k int) ([]Candidate, error) {
	if len(query) != ix.dim {
		return nil, types.Validationf("index: query dimension mismatch: expected %d, got %d", ix.dim, len(query))
	}

	ix.mu.RLock()
	defer ix.mu.RUnlock()

	if len(ix.vecs) == 0 || k <= 0 {
		return nil, nil
	}

	results := make([]Candidate, 0, len(ix.vecs))
	for pos, v := range ix.vecs {
		results = append(results, Candidate{Position: pos, Distance: euclideanDistance(query, v)})
	}

	// Stable sort over the position-ordered slice keeps ties in insertion
	// order.
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Distance < results[j].Distance
	})

	if k < len(results) {
		results = results[:k]
	}
	return results, nil
}

// Size returns the number of indexed vectors.
func (ix *FlatIndex) Size() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.vecs)
}

func euclideanDistance(a, b types.Vector) float32 {
	var sum float32
	for i := range a {
		diff := a[i] - b[i]
		sum += diff * diff
	}
	return float32(math.Sqrt(float64(sum)))
}
