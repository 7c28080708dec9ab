package bson

import (
	"bytes"

	"github.com/scigolib/bson/internal/core"
	"github.com/scigolib/bson/internal/utils"
)

// Document is a handle onto a BSON document. The zero value is not
// usable; construct one with New, NewSized, NewFromBytes, or
// NewStaticView.
//
// A Document and its buffer are not safe for concurrent mutation.
// Multiple concurrent readers of an immutable document are safe as long
// as no mutator runs alongside them. A root document and its currently
// open children (via StartDocument/StartArray) form a single aliased
// mutation unit: at any moment only the innermost open child may be
// appended to; appending to the wrong document returns ErrReadOnly
// rather than corrupting the buffer.
type Document struct {
	c *core.Document
}

func wrap(c *core.Document) *Document {
	return &Document{c: c}
}

// New returns a new, empty, growable root document.
func New() *Document {
	return wrap(core.NewRoot())
}

// NewSized returns a new, empty, growable root document pre-allocated
// to hold at least capacity bytes without reallocating.
func NewSized(capacity int64) (*Document, error) {
	c, err := core.NewRootSized(capacity)
	if err != nil {
		return nil, &CapacityError{Requested: capacity, Cause: err}
	}

	return wrap(c), nil
}

// NewFromBytes checks data's document header — a length prefix of at
// least 5 that fits within data, and a 0x00 byte at that length minus
// one — and returns an owned, independently growable copy of the first
// length bytes. The elements are not checked; use Validate or an
// Iterator for that.
func NewFromBytes(data []byte) (*Document, error) {
	c, err := core.NewRootFromBytes(data)
	if err != nil {
		return nil, err
	}

	return wrap(c), nil
}

// NewStaticView checks data's document header the same way NewFromBytes
// does and returns a read-only handle borrowing data directly. The
// elements are not checked. The caller must not mutate data while the
// returned Document is in use.
func NewStaticView(data []byte) (*Document, error) {
	c, err := core.NewStaticView(data)
	if err != nil {
		return nil, err
	}

	return wrap(c), nil
}

// AsBytes returns the document's current wire-format bytes. The slice
// aliases the document's backing buffer and is invalidated by any
// subsequent append.
func (d *Document) AsBytes() []byte {
	return d.c.AsBytes()
}

// Length returns the document's current length in bytes, including the
// 4-byte prefix and the terminator.
func (d *Document) Length() int64 {
	return d.c.Length()
}

// IsEmpty reports whether the document is exactly the 5-byte empty
// document.
func (d *Document) IsEmpty() bool {
	return d.c.IsEmpty()
}

// CountFields returns the number of top-level elements in the document,
// equal to the number of successful calls a fresh Iterator would make
// to Next.
func (d *Document) CountFields() (int, error) {
	it, err := d.Iterator()
	if err != nil {
		return 0, err
	}

	n := 0
	for it.Next() {
		n++
	}

	if err := it.Corrupt(); err != nil {
		return n, err
	}

	return n, nil
}

// Compare performs a byte-exact comparison of two documents: first by
// length, then lexicographically over the raw bytes. Field order and
// encoding variants matter — semantically equivalent documents with
// differing field order are not equal.
func Compare(a, b *Document) int {
	return core.Compare(a.c, b.c)
}

// Equal reports whether a and b are byte-identical documents.
func Equal(a, b *Document) bool {
	return Compare(a, b) == 0
}

// String renders the document as canonical extended JSON. Rendering
// errors (which only occur on an already-corrupt document) are reported
// as a bracketed error marker rather than by panicking, matching
// fmt.Stringer's error-free contract.
func (d *Document) String() string {
	text, err := ToJSON(d)
	if err != nil {
		return "<bson: " + err.Error() + ">"
	}

	return text
}

// MarshalJSON implements json.Marshaler by rendering canonical extended
// JSON, so a Document can be embedded directly in a larger JSON value.
func (d *Document) MarshalJSON() ([]byte, error) {
	text, err := ToJSON(d)
	if err != nil {
		return nil, err
	}

	return []byte(text), nil
}

func cstringKey(key string) error {
	if bytes.IndexByte([]byte(key), 0x00) >= 0 {
		return errKeyHasNul
	}

	return nil
}

var errKeyHasNul = &ValidationError{Reason: "key contains an embedded nul byte"}

func oidBytes(oid [core.OIDLength]byte) []byte {
	return oid[:]
}

func readOID(src []byte) [core.OIDLength]byte {
	var oid [core.OIDLength]byte
	copy(oid[:], src)

	return oid
}

func wrapLE32(v int32) []byte {
	b := make([]byte, 4)
	utils.PutInt32(b, v)

	return b
}
