package embed

import (
	"math"
	"testing"

	"prompt-engine/internal/types"
)

func TestEncodeDimension(t *testing.T) {
	vec := Encode("Test text")
	if len(vec) != types.Dimension {
		t.Fatalf("Expected %d dimensions, got %d", types.Dimension, len(vec))
	}
}

func TestEncodeDeterministic(t *testing.T) {
	a := Encode("Consistent text")
	b := Encode("Consistent text")

	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("Encoding not deterministic at dim %d: %v != %v", i, a[i], b[i])
		}
	}
}

func TestEncodeNormalizedInput(t *testing.T) {
	// Case folding and trimming happen before hashing.
	a := Encode("Hello World")
	b := Encode("  hello world  ")

	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("Case/trim folding broken at dim %d: %v != %v", i, a[i], b[i])
		}
	}
}

func TestEncodeUnitNorm(t *testing.T) {
	for _, text := range []string{"Test", "what is AI?", "a much longer prompt with many words in it"} {
		vec := Encode(text)

		var sum float64
		for _, v := range vec {
			sum += float64(v) * float64(v)
		}
		norm := math.Sqrt(sum)

		if math.Abs(norm-1.0) > 1e-5 {
			t.Errorf("Norm of encode(%q) = %v, expected 1.0 within 1e-5", text, norm)
		}
	}
}

func TestEncodeEmptyInput(t *testing.T) {
	vec := Encode("")
	if len(vec) != types.Dimension {
		t.Fatalf("Expected %d dimensions for empty input, got %d", types.Dimension, len(vec))
	}
}

func TestEncodeDistinctTexts(t *testing.T) {
	a := Encode("hello")
	b := Encode("goodbye")

	same := true
	for i := range a {
		if a[i] != b[i] {
			same = false
			break
		}
	}
	if same {
		t.Fatal("Distinct texts produced identical vectors")
	}
}
