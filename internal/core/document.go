package core

import (
	"bytes"
	"fmt"

	"github.com/scigolib/bson/internal/utils"
	"github.com/scigolib/bson/internal/writer"
)

// Document is a handle onto a BSON document: either the root owning a
// Buffer, a child window into an ancestor's Buffer, or a static
// read-only view. All three share this one type, distinguished by
// Flags and by whether parent/toplevel are set (spec §3.2).
type Document struct {
	buffer   *Buffer
	length   int64
	flags    Flags
	parent   *Document
	toplevel *Document
	offset   int64 // absolute offset of this document's length prefix within toplevel.buffer; 0 for root

	frames *writer.Stack // only non-nil on a root/toplevel document
}

// NewRoot returns a new root document, initialized to the empty 5-byte
// document, backed by a growable buffer.
func NewRoot() *Document {
	d := &Document{
		buffer: NewBuffer(),
		length: HeaderLength,
		frames: writer.NewStack(),
	}
	d.toplevel = d

	return d
}

// NewRootSized returns a new root document pre-sized to at least
// capacity bytes.
func NewRootSized(capacity int64) (*Document, error) {
	buf, err := NewBufferSized(capacity)
	if err != nil {
		return nil, err
	}

	d := &Document{
		buffer: buf,
		length: HeaderLength,
		frames: writer.NewStack(),
	}
	d.toplevel = d

	return d, nil
}

// NewRootFromBytes checks data's document header (see validateHeader)
// and returns an owned, mutable copy as a root document. The elements
// themselves are not checked.
func NewRootFromBytes(data []byte) (*Document, error) {
	length, err := validateHeader(data)
	if err != nil {
		return nil, err
	}

	d := &Document{
		buffer: NewOwnedBuffer(data[:length]),
		length: length,
		frames: writer.NewStack(),
	}
	d.toplevel = d

	return d, nil
}

// NewStaticView checks data's document header (see validateHeader) and
// returns a read-only, borrowed-bytes root document. The elements
// themselves are not checked.
func NewStaticView(data []byte) (*Document, error) {
	length, err := validateHeader(data)
	if err != nil {
		return nil, err
	}

	d := &Document{
		buffer: NewStaticBuffer(data[:length]),
		length: length,
		flags:  FlagNoGrow | FlagNoFree,
		frames: writer.NewStack(),
	}
	d.toplevel = d

	return d, nil
}

// NewStaticChildView wraps an embedded sub-document's bytes (as returned
// by an iterator) as a standalone, read-only root document — used by the
// visitor dispatch to recurse into sub-documents/arrays without copying
// (spec §4.4).
func NewStaticChildView(data []byte) (*Document, error) {
	return NewStaticView(data)
}

func validateHeader(data []byte) (int64, error) {
	if len(data) < HeaderLength {
		return 0, fmt.Errorf("document too short: %d bytes, need at least %d", len(data), HeaderLength)
	}

	length := int64(utils.Int32(data[:4]))
	if length < HeaderLength {
		return 0, fmt.Errorf("invalid length prefix: %d", length)
	}

	if length > int64(len(data)) {
		return 0, fmt.Errorf("length prefix %d exceeds buffer size %d", length, len(data))
	}

	if data[length-1] != 0x00 {
		return 0, fmt.Errorf("missing terminator byte at offset %d", length-1)
	}

	return length, nil
}

// Length returns the document's current logical length in bytes.
func (d *Document) Length() int64 {
	return d.length
}

// IsChild reports whether d is a window into an ancestor's buffer.
func (d *Document) IsChild() bool {
	return d.flags.Has(FlagChild)
}

// NoGrow reports whether d refuses appends (a static view).
func (d *Document) NoGrow() bool {
	return d.flags.Has(FlagNoGrow) || d.buffer.NoGrow()
}

// IsEmpty reports whether d is exactly the 5-byte empty document.
func (d *Document) IsEmpty() bool {
	return d.length == HeaderLength
}

// absoluteOffset returns where d's own length prefix sits within
// toplevel's buffer: 0 for the root, d.offset for a child.
func (d *Document) absoluteOffset() int64 {
	if d.parent == nil {
		return 0
	}

	return d.offset
}

// AsBytes returns the byte slice for this document's current content,
// sliced out of the shared toplevel buffer.
func (d *Document) AsBytes() []byte {
	base := d.toplevel.buffer.Bytes()
	start := d.absoluteOffset()

	return base[start : start+d.length]
}

func (d *Document) restampPrefix() {
	base := d.toplevel.buffer.Bytes()
	start := d.absoluteOffset()
	utils.PutInt32(base[start:start+4], int32(d.length))
}

// checkWritable enforces the read-only guard and the single
// aliased-mutation-unit invariant: only the innermost currently open
// child (or the root, if nothing is open) may be appended to.
func (d *Document) checkWritable() error {
	if d.NoGrow() {
		return fmt.Errorf("document is read-only")
	}

	top := d.toplevel

	if d.parent == nil {
		if !top.frames.CanAppendToRoot() {
			return fmt.Errorf("cannot append to root: a child document is open")
		}

		return nil
	}

	f, ok := top.frames.Top()
	if !ok || f.Offset != d.offset {
		return fmt.Errorf("cannot append: document is not the innermost open child")
	}

	return nil
}

// Writable reports whether d may currently be appended to: it is not a
// static view, and (if it is a child) it is the innermost open frame of
// its toplevel document.
func (d *Document) Writable() error {
	return d.checkWritable()
}

// GrowAndWrite is the single primitive behind every typed append and
// every sub-document begin/end: it grows the shared toplevel buffer by
// len(content) bytes, writes content in place of d's old terminator,
// and restamps the length prefix and terminator of d and every ancestor
// up to the root (spec §4.2 steps 1-6).
//
// Because only the innermost open frame may ever be written to, d and
// every currently open ancestor are always the *last* field of their
// respective parent — so their terminator bytes sit consecutively at
// the tail of the toplevel buffer, innermost first. d's own terminator
// is therefore always at toplevel.length-1-depth, where depth is the
// number of currently open ancestor frames; accounting for that offset
// is what lets every append stay a pure tail growth with no byte shift.
func (d *Document) GrowAndWrite(content []byte) error {
	if err := d.checkWritable(); err != nil {
		return err
	}

	n := int64(len(content))

	top := d.toplevel
	depth := int64(top.frames.Depth())

	newTopLen, err := utils.CheckAddOverflow(top.length, n)
	if err != nil {
		return utils.WrapError("grow document", err)
	}

	if err := top.buffer.Grow(newTopLen); err != nil {
		return utils.WrapError("grow document", err)
	}

	base := top.buffer.Bytes()
	pos := top.length - 1 - depth

	copy(base[pos:pos+n], content)

	for cur := d; ; cur = cur.parent {
		cur.length += n
		cur.restampPrefix()

		start := cur.absoluteOffset()
		base[start+cur.length-1] = 0x00

		if cur.parent == nil {
			break
		}
	}

	return nil
}

// StartChild opens a new sub-document or array as a window into d,
// appending its element header to d and an empty 5-byte skeleton for the
// new child (spec §4.2 "begin").
func (d *Document) StartChild(key string, isArray bool) (*Document, error) {
	tag := TypeDocument
	if isArray {
		tag = TypeArray
	}

	header := make([]byte, 0, len(key)+2)
	header = append(header, byte(tag))
	header = append(header, key...)
	header = append(header, 0x00)

	if err := d.GrowAndWrite(header); err != nil {
		return nil, err
	}

	offset := d.absoluteOffset() + d.length - 1

	skeleton := append([]byte(nil), emptyDocument...)
	if err := d.GrowAndWrite(skeleton); err != nil {
		return nil, err
	}

	top := d.toplevel

	child := &Document{
		buffer:   top.buffer,
		length:   HeaderLength,
		flags:    FlagChild | FlagNoFree,
		parent:   d,
		toplevel: top,
		offset:   offset,
	}

	top.frames.Push(offset, isArray, top.length)

	return child, nil
}

// FinishChild closes child, which must be the innermost open frame of
// its toplevel document, and performs the defensive re-normalization the
// spec describes for "end": re-stamp every ancestor's length prefix and
// re-write each ancestor's terminator (spec §4.2 "end").
func (d *Document) FinishChild(child *Document) error {
	if child.parent != d {
		return fmt.Errorf("finish child: not a direct child of this document")
	}

	top := d.toplevel

	f, ok := top.frames.Top()
	if !ok || f.Offset != child.offset {
		return fmt.Errorf("finish child: not the innermost open child")
	}

	if _, err := top.frames.Pop(); err != nil {
		return err
	}

	base := top.buffer.Bytes()

	for cur := child; ; cur = cur.parent {
		cur.restampPrefix()

		start := cur.absoluteOffset()
		base[start+cur.length-1] = 0x00

		if cur.parent == nil {
			break
		}
	}

	return nil
}

// NextArrayIndex returns the next array index to assign when appending
// into an open array frame, or 0 if d is not an open array frame.
func (d *Document) NextArrayIndex() int {
	f, ok := d.toplevel.frames.Top()
	if d.parent == nil || !ok || !f.IsArray || f.Offset != d.offset {
		return 0
	}

	return d.toplevel.frames.NextArrayIndex()
}

// Compare orders two documents first by length, then lexicographically
// over their raw bytes (spec §4.7).
func Compare(a, b *Document) int {
	if a.length != b.length {
		if a.length < b.length {
			return -1
		}

		return 1
	}

	return bytes.Compare(a.AsBytes(), b.AsBytes())
}
