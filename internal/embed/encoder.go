package embed

import (
	"crypto/sha256"
	"encoding/binary"
	"math"
	"strconv"
	"strings"

	"prompt-engine/internal/types"
)

// Encode derives a deterministic 384-dimensional unit vector from text.
// Identical text (after lowercasing and trimming) always yields a
// bit-identical vector, across process restarts. Stand-in for a real
// embedding model; the hash keeps similar workflows testable without one.
//
// Each dimension i is seeded from sha256(normalized + "_" + i): the first
// four bytes, read big-endian, are mapped into [-1, 1). The assembled vector
// is L2-normalized unless its norm is zero (only possible for adversarial
// input), in which case it is returned as-is rather than dividing by zero.
func Encode(text string) types.Vector {
	normalized := strings.ToLower(strings.TrimSpace(text))

	vec := make(types.Vector, types.Dimension)
	for i := 0; i < types.Dimension; i++ {
		sum := sha256.Sum256([]byte(normalized + "_" + strconv.Itoa(i)))
		raw := binary.BigEndian.Uint32(sum[:4])
		vec[i] = float32(float64(raw)/float64(1<<32)*2 - 1)
	}

	var sumSq float64
	for _, v := range vec {
		sumSq += float64(v) * float64(v)
	}
	norm := math.Sqrt(sumSq)
	if norm > 0 {
		for i := range vec {
			vec[i] = float32(float64(vec[i]) / norm)
		}
	}

	return vec
}
