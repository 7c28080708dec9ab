package bson

import (
	"fmt"

	"github.com/scigolib/bson/internal/core"
	"github.com/scigolib/bson/internal/utils"
)

// Type identifies a BSON element's wire type tag.
type Type = core.Type

// Type tag constants, re-exported from internal/core for callers that
// want to switch on Iterator.Type().
const (
	TypeDouble     = core.TypeDouble
	TypeUTF8       = core.TypeUTF8
	TypeDocument   = core.TypeDocument
	TypeArray      = core.TypeArray
	TypeBinary     = core.TypeBinary
	TypeUndefined  = core.TypeUndefined
	TypeOID        = core.TypeOID
	TypeBool       = core.TypeBool
	TypeDateTime   = core.TypeDateTime
	TypeNull       = core.TypeNull
	TypeRegex      = core.TypeRegex
	TypeDBPointer  = core.TypeDBPointer
	TypeCode       = core.TypeCode
	TypeSymbol     = core.TypeSymbol
	TypeCodeWScope = core.TypeCodeWScope
	TypeInt32      = core.TypeInt32
	TypeTimestamp  = core.TypeTimestamp
	TypeInt64      = core.TypeInt64
	TypeMaxKey     = core.TypeMaxKey
	TypeMinKey     = core.TypeMinKey
)

// Iterator performs a single-pass, zero-copy walk over a document's
// top-level elements, with typed accessors to decode the current
// element's value on demand.
type Iterator struct {
	it *core.Iterator
}

// Iterator returns a fresh iterator positioned before d's first
// element. Iteration is restartable by calling Iterator again.
func (d *Document) Iterator() (*Iterator, error) {
	it, err := core.NewIterator(d.AsBytes())
	if err != nil {
		return nil, err
	}

	return &Iterator{it: it}, nil
}

// Next advances to the next element, returning false at end-of-document
// or once the iterator has entered its corrupt state. Callers must
// check Corrupt to distinguish clean EOF from a decode failure.
func (it *Iterator) Next() bool {
	return it.it.Next()
}

// Corrupt reports the error that halted iteration, if any.
func (it *Iterator) Corrupt() error {
	if err := it.it.Corrupt(); err != nil {
		return &CorruptError{Cause: err}
	}

	return nil
}

// Key returns the current element's key.
func (it *Iterator) Key() string {
	return it.it.Key()
}

// Offset returns the byte offset of the current element's type tag,
// relative to the document this iterator was created from.
func (it *Iterator) Offset() int64 {
	return it.it.Offset()
}

// Type returns the current element's type tag.
func (it *Iterator) Type() Type {
	return it.it.Type()
}

// Double decodes the current element as a double.
func (it *Iterator) Double() (float64, error) {
	v := it.it.Value()
	if len(v) != 8 {
		return 0, fmt.Errorf("bson: double value has wrong width %d", len(v))
	}

	return utils.Float64(v), nil
}

// UTF8 decodes the current element as a UTF-8 string.
func (it *Iterator) UTF8() (string, error) {
	return decodeCString(it.it.Value())
}

// SubDocument returns a static view over the current document-typed
// element's embedded bytes, for recursive iteration without copying.
func (it *Iterator) SubDocument() (*Document, error) {
	c, err := core.NewStaticChildView(it.it.Value())
	if err != nil {
		return nil, err
	}

	return wrap(c), nil
}

// Array returns a static view over the current array-typed element's
// embedded bytes, identically to SubDocument.
func (it *Iterator) Array() (*Document, error) {
	return it.SubDocument()
}

// Binary decodes the current element as binary data, returning its
// subtype and payload.
func (it *Iterator) Binary() (subtype byte, data []byte, err error) {
	v := it.it.Value()
	if len(v) < 5 {
		return 0, nil, fmt.Errorf("bson: binary value too short")
	}

	return v[4], v[5:], nil
}

// OID decodes the current element as an ObjectId.
func (it *Iterator) OID() ([core.OIDLength]byte, error) {
	v := it.it.Value()
	if len(v) != core.OIDLength {
		return [core.OIDLength]byte{}, fmt.Errorf("bson: oid value has wrong width %d", len(v))
	}

	return readOID(v), nil
}

// Bool decodes the current element as a boolean.
func (it *Iterator) Bool() (bool, error) {
	v := it.it.Value()
	if len(v) != 1 {
		return false, fmt.Errorf("bson: bool value has wrong width %d", len(v))
	}

	return v[0] != 0x00, nil
}

// DateTime decodes the current element as milliseconds since the Unix
// epoch.
func (it *Iterator) DateTime() (int64, error) {
	v := it.it.Value()
	if len(v) != 8 {
		return 0, fmt.Errorf("bson: date_time value has wrong width %d", len(v))
	}

	return utils.Int64(v), nil
}

// Regex decodes the current element as a regular expression.
func (it *Iterator) Regex() (pattern, options string, err error) {
	v := it.it.Value()

	zero := indexZeroByte(v, 0)
	if zero < 0 {
		return "", "", fmt.Errorf("bson: regex pattern missing terminator")
	}

	pattern = string(v[:zero])

	rest := v[zero+1:]

	zero2 := indexZeroByte(rest, 0)
	if zero2 < 0 {
		return "", "", fmt.Errorf("bson: regex options missing terminator")
	}

	options = string(rest[:zero2])

	return pattern, options, nil
}

// DBPointer decodes the current element's collection reference and
// ObjectId.
func (it *Iterator) DBPointer() (ref string, oid [core.OIDLength]byte, err error) {
	v := it.it.Value()
	if len(v) < 4 {
		return "", oid, fmt.Errorf("bson: dbpointer value too short")
	}

	n := int(utils.Int32(v[:4]))
	if n < 1 || 4+n+core.OIDLength != len(v) {
		return "", oid, fmt.Errorf("bson: dbpointer value malformed")
	}

	ref = string(v[4 : 4+n-1])
	oid = readOID(v[4+n:])

	return ref, oid, nil
}

// Code decodes the current element as a JavaScript code string.
func (it *Iterator) Code() (string, error) {
	return decodeCString(it.it.Value())
}

// Symbol decodes the current element as a symbol.
func (it *Iterator) Symbol() (string, error) {
	return decodeCString(it.it.Value())
}

// CodeWithScope decodes the current element as a JavaScript code string
// plus its attached scope document, returned as a static view.
func (it *Iterator) CodeWithScope() (code string, scope *Document, err error) {
	v := it.it.Value()
	if len(v) < 8 {
		return "", nil, fmt.Errorf("bson: code_w_scope value too short")
	}

	codeLen := int(utils.Int32(v[4:8]))
	if codeLen < 1 || 8+codeLen > len(v) {
		return "", nil, fmt.Errorf("bson: code_w_scope code length malformed")
	}

	code = string(v[8 : 8+codeLen-1])

	c, err := core.NewStaticChildView(v[8+codeLen:])
	if err != nil {
		return "", nil, err
	}

	return code, wrap(c), nil
}

// Int32 decodes the current element as a 32-bit integer.
func (it *Iterator) Int32() (int32, error) {
	v := it.it.Value()
	if len(v) != 4 {
		return 0, fmt.Errorf("bson: int32 value has wrong width %d", len(v))
	}

	return utils.Int32(v), nil
}

// Timestamp decodes the current element as seconds-since-epoch plus an
// increment counter.
func (it *Iterator) Timestamp() (seconds, increment uint32, err error) {
	v := it.it.Value()
	if len(v) != 8 {
		return 0, 0, fmt.Errorf("bson: timestamp value has wrong width %d", len(v))
	}

	raw := utils.Uint64(v)

	return uint32(raw >> 32), uint32(raw), nil
}

// Int64 decodes the current element as a 64-bit integer.
func (it *Iterator) Int64() (int64, error) {
	v := it.it.Value()
	if len(v) != 8 {
		return 0, fmt.Errorf("bson: int64 value has wrong width %d", len(v))
	}

	return utils.Int64(v), nil
}

func decodeCString(v []byte) (string, error) {
	if len(v) < 5 {
		return "", fmt.Errorf("bson: string value too short")
	}

	n := int(utils.Int32(v[:4]))
	if n != len(v)-4 {
		return "", fmt.Errorf("bson: string value length mismatch")
	}

	return string(v[4 : 4+n-1]), nil
}

func indexZeroByte(data []byte, from int) int {
	for i := from; i < len(data); i++ {
		if data[i] == 0x00 {
			return i
		}
	}

	return -1
}
