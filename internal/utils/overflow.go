package utils

import (
	"fmt"
	"math"
)

// MaxDocumentLength is the largest value a BSON document's int32 length
// prefix can represent. Requesting growth past this is a capacity
// failure, not a silent truncation (spec: append "fails with
// OutOfCapacity if the requested size exceeds INT_MAX").
const MaxDocumentLength = int64(math.MaxInt32)

// MinHeapCapacity is the floor NextPow2 applies, and so the smallest
// capacity the builder chooses when it grows or copies a buffer.
const MinHeapCapacity = 64

// CheckAddOverflow validates that length+delta neither overflows an int64
// nor exceeds MaxDocumentLength, and returns the resulting size.
func CheckAddOverflow(length, delta int64) (int64, error) {
	if length < 0 || delta < 0 {
		return 0, fmt.Errorf("negative size: length=%d delta=%d", length, delta)
	}

	if delta > MaxDocumentLength-length {
		return 0, fmt.Errorf("capacity overflow: %d + %d exceeds max document length %d", length, delta, MaxDocumentLength)
	}

	return length + delta, nil
}

// NextPow2 returns the smallest power of two greater than or equal to n,
// floored at MinHeapCapacity and capped at MaxDocumentLength. Used when
// promoting or regrowing a document's heap buffer so reallocations are
// geometric rather than exact-fit.
func NextPow2(n int64) int64 {
	if n <= MinHeapCapacity {
		return MinHeapCapacity
	}

	if n >= MaxDocumentLength {
		return MaxDocumentLength
	}

	p := int64(1)
	for p < n {
		p <<= 1
	}

	if p > MaxDocumentLength {
		return MaxDocumentLength
	}

	return p
}

// CheckCapacity validates that a requested buffer size is representable
// and positive before an allocation is attempted.
func CheckCapacity(size int64) error {
	if size <= 0 {
		return fmt.Errorf("invalid capacity: %d", size)
	}

	if size > MaxDocumentLength {
		return fmt.Errorf("capacity %d exceeds max document length %d", size, MaxDocumentLength)
	}

	return nil
}
