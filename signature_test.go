package granary

import (
	"math/rand"
	"testing"
)

// TestSignatureSetSemantics verifies a signature depends only on the set of
// component ids, never on order or duplication.
func TestSignatureSetSemantics(t *testing.T) {
	a := ComponentIDFor("position")
	b := ComponentIDFor("velocity")
	c := ComponentIDFor("health")

	tests := []struct {
		name      string
		first     []ComponentID
		second    []ComponentID
		wantEqual bool
	}{
		{"Same order", []ComponentID{a, b, c}, []ComponentID{a, b, c}, true},
		{"Permuted", []ComponentID{a, b, c}, []ComponentID{c, a, b}, true},
		{"Duplicates collapse", []ComponentID{a, a, b}, []ComponentID{b, a}, true},
		{"Different sets", []ComponentID{a, b}, []ComponentID{a, c}, false},
		{"Subset", []ComponentID{a, b, c}, []ComponentID{a, b}, false},
		{"Empty vs non-empty", nil, []ComponentID{a}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeSignature(tt.first...) == ComputeSignature(tt.second...)
			if got != tt.wantEqual {
				t.Errorf("Signatures equal: %v, want %v", got, tt.wantEqual)
			}
		})
	}
}

func TestSignatureRandomPermutations(t *testing.T) {
	ids := []ComponentID{
		ComponentIDFor("position"),
		ComponentIDFor("velocity"),
		ComponentIDFor("health"),
		ComponentIDFor("name"),
		ComponentIDFor("sprite"),
	}
	want := ComputeSignature(ids...)

	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 100; i++ {
		shuffled := make([]ComponentID, len(ids))
		copy(shuffled, ids)
		rng.Shuffle(len(shuffled), func(x, y int) {
			shuffled[x], shuffled[y] = shuffled[y], shuffled[x]
		})
		if got := ComputeSignature(shuffled...); got != want {
			t.Fatalf("Signature of permutation %v = %x, want %x", shuffled, got, want)
		}
	}
}

func TestComponentIDDeterminism(t *testing.T) {
	if ComponentIDFor("position") != ComponentIDFor("position") {
		t.Errorf("Identical names produced different component ids")
	}
	if ComponentIDFor("position") == ComponentIDFor("velocity") {
		t.Errorf("Distinct names collided")
	}
}

func TestEmptySignatureIsStable(t *testing.T) {
	if ComputeSignature() != ComputeSignature() {
		t.Errorf("Empty signature not stable")
	}
	if ComputeSignature() == 0 {
		t.Errorf("Empty signature is zero; the empty archetype needs a well-defined identity")
	}
}
