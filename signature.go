package granary

import (
	"encoding/binary"
	"slices"

	"github.com/cespare/xxhash/v2"
)

// Signature is the content-addressed 64-bit identity of a component-id set.
// It depends only on the set, never on insertion order or duplication.
type Signature uint64

// signatureSeed primes every signature digest so the empty component set has
// a well-defined non-zero signature.
const signatureSeed uint64 = 0x9e3779b97f4a7c15

// ComputeSignature returns the signature of the given component-id set. The
// ids are sorted and deduplicated before hashing, so any ordering or
// repetition of the same set yields the same signature.
func ComputeSignature(ids ...ComponentID) Signature {
	sorted := slices.Clone(ids)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)
	return signatureOfSorted(sorted)
}

// signatureOfSorted hashes an already sorted, deduplicated id sequence.
func signatureOfSorted(ids []ComponentID) Signature {
	digest := xxhash.New()
	var word [8]byte
	binary.LittleEndian.PutUint64(word[:], signatureSeed)
	digest.Write(word[:])
	for _, id := range ids {
		binary.LittleEndian.PutUint64(word[:], uint64(id))
		digest.Write(word[:])
	}
	return Signature(digest.Sum64())
}

// normalizeIDs sorts and deduplicates a component-id list in a fresh slice.
func normalizeIDs(ids []ComponentID) []ComponentID {
	sorted := slices.Clone(ids)
	slices.Sort(sorted)
	return slices.Compact(sorted)
}
