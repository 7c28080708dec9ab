package core

import (
	"fmt"

	"github.com/scigolib/bson/internal/utils"
)

// StorageMode identifies which of the four storage bindings (spec §3.2)
// a Buffer uses. Go's slice type already does geometric growth for us,
// so "inline" and "heap" collapse into one growable []byte internally;
// what the spec cares about observably — no-grow, borrowed, externally
// reallocated — is preserved by mode plus the noGrow/realloc fields.
type StorageMode int

// Storage modes.
const (
	StorageHeap StorageMode = iota
	StorageStatic
	StorageWriter
)

// Reallocator mirrors the writer-binding's externally managed growable
// buffer: given the current bytes and a requested minimum size, it
// returns a buffer of at least that size (the same slice, grown in
// place, or a fresh one).
type Reallocator func(current []byte, minSize int64) ([]byte, error)

// Buffer is the byte store backing one toplevel document and every
// window (child handle) into it. All child Documents of a given root
// share a single *Buffer.
type Buffer struct {
	mode    StorageMode
	data    []byte
	noGrow  bool
	realloc Reallocator
}

// emptyDocument is the canonical 5-byte empty BSON document.
var emptyDocument = []byte{0x05, 0x00, 0x00, 0x00, 0x00}

// NewBuffer returns a growable buffer initialized to an empty document.
func NewBuffer() *Buffer {
	data := make([]byte, HeaderLength, 128)
	copy(data, emptyDocument)

	return &Buffer{mode: StorageHeap, data: data}
}

// NewBufferSized returns a growable buffer pre-allocated to at least cap
// bytes of capacity, initialized to an empty document.
func NewBufferSized(capacity int64) (*Buffer, error) {
	if err := utils.CheckCapacity(capacity); err != nil {
		return nil, utils.WrapError("new sized buffer", err)
	}

	if capacity < HeaderLength {
		capacity = HeaderLength
	}

	data := make([]byte, HeaderLength, capacity)
	copy(data, emptyDocument)

	return &Buffer{mode: StorageHeap, data: data}, nil
}

// NewStaticBuffer wraps a caller-owned, read-only byte slice. No copy is
// made; the caller must not mutate src while the buffer is alive.
func NewStaticBuffer(src []byte) *Buffer {
	return &Buffer{mode: StorageStatic, data: src, noGrow: true}
}

// NewOwnedBuffer copies src into a fresh, growable heap buffer. Used by
// document construction from an existing byte slice, so the resulting
// document can still be appended to.
func NewOwnedBuffer(src []byte) *Buffer {
	data := make([]byte, len(src), utils.NextPow2(int64(len(src))))
	copy(data, src)

	return &Buffer{mode: StorageHeap, data: data}
}

// NewWriterBuffer copies src into a writer-mode buffer whose growth goes
// through the realloc callback, mirroring the writer storage binding
// (spec §3.2). The buffer does not alias src.
func NewWriterBuffer(src []byte, realloc Reallocator) *Buffer {
	data := make([]byte, len(src))
	copy(data, src)

	return &Buffer{mode: StorageWriter, data: data, realloc: realloc}
}

// NoGrow reports whether the buffer refuses all growth.
func (b *Buffer) NoGrow() bool {
	return b.noGrow
}

// Bytes returns the full backing slice at its current logical length.
// Callers must not retain it past the next mutating call.
func (b *Buffer) Bytes() []byte {
	return b.data
}

// Len returns the current length of the backing slice.
func (b *Buffer) Len() int64 {
	return int64(len(b.data))
}

// EnsureCapacity grows the backing store so that at least newLen bytes
// are addressable, using geometric (power-of-two) growth. It is a no-op
// if the buffer is already large enough.
func (b *Buffer) EnsureCapacity(newLen int64) error {
	if int64(len(b.data)) >= newLen {
		return nil
	}

	if b.noGrow {
		return fmt.Errorf("buffer is read-only: cannot grow to %d bytes", newLen)
	}

	if int64(cap(b.data)) >= newLen {
		return nil
	}

	if err := utils.CheckCapacity(newLen); err != nil {
		return utils.WrapError("ensure capacity", err)
	}

	target := utils.NextPow2(newLen)

	switch b.mode {
	case StorageWriter:
		if b.realloc == nil {
			return fmt.Errorf("writer buffer has no reallocator")
		}

		grown, err := b.realloc(b.data, target)
		if err != nil {
			return utils.WrapError("writer realloc", err)
		}

		b.data = grown[:len(b.data)]

	case StorageHeap:
		grown := make([]byte, len(b.data), target)
		copy(grown, b.data)
		b.data = grown

	case StorageStatic:
		return fmt.Errorf("static buffer cannot grow")

	default:
		return fmt.Errorf("unknown storage mode %d", b.mode)
	}

	return nil
}

// Grow extends the logical length of the buffer to newLen, growing
// capacity first if needed. Newly exposed bytes are not guaranteed to be
// zeroed by the caller's own subsequent writes, so callers must write
// every byte in the grown region.
func (b *Buffer) Grow(newLen int64) error {
	if err := b.EnsureCapacity(newLen); err != nil {
		return err
	}

	if int64(len(b.data)) < newLen {
		b.data = b.data[:newLen]
	}

	return nil
}
