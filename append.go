package bson

import (
	"strconv"

	"github.com/scigolib/bson/internal/core"
	"github.com/scigolib/bson/internal/utils"
)

// appendElement is the spine every typed appender shares (spec §4.2):
// build the type tag + key + payload, then hand it to the single
// GrowAndWrite primitive, which handles tail growth, terminator
// re-stamping, and ancestor length-prefix propagation.
func appendElement(d *Document, tag core.Type, key string, payload []byte) error {
	if err := cstringKey(key); err != nil {
		return err
	}

	if err := d.c.Writable(); err != nil {
		return ErrReadOnly
	}

	content := make([]byte, 0, 2+len(key)+len(payload))
	content = append(content, byte(tag))
	content = append(content, key...)
	content = append(content, 0x00)
	content = append(content, payload...)

	if err := d.c.GrowAndWrite(content); err != nil {
		return &CapacityError{Requested: d.Length() + int64(len(content)), Cause: err}
	}

	return nil
}

// AppendDouble appends an IEEE-754 double field.
func (d *Document) AppendDouble(key string, v float64) error {
	payload := make([]byte, 8)
	utils.PutFloat64(payload, v)

	return appendElement(d, core.TypeDouble, key, payload)
}

// AppendString appends a UTF-8 string field.
func (d *Document) AppendString(key, v string) error {
	return appendElement(d, core.TypeUTF8, key, encodeCString(v))
}

// AppendBinary appends a binary field with the given BSON binary subtype.
func (d *Document) AppendBinary(key string, subtype byte, data []byte) error {
	payload := make([]byte, 0, 5+len(data))
	payload = append(payload, wrapLE32(int32(len(data)))...)
	payload = append(payload, subtype)
	payload = append(payload, data...)

	return appendElement(d, core.TypeBinary, key, payload)
}

// AppendUndefined appends a deprecated "undefined" field.
func (d *Document) AppendUndefined(key string) error {
	return appendElement(d, core.TypeUndefined, key, nil)
}

// AppendObjectID appends a 12-byte ObjectId field.
func (d *Document) AppendObjectID(key string, oid [core.OIDLength]byte) error {
	return appendElement(d, core.TypeOID, key, oidBytes(oid))
}

// AppendBool appends a boolean field.
func (d *Document) AppendBool(key string, v bool) error {
	b := byte(0x00)
	if v {
		b = 0x01
	}

	return appendElement(d, core.TypeBool, key, []byte{b})
}

// AppendDateTime appends a UTC datetime field, in milliseconds since
// the Unix epoch.
func (d *Document) AppendDateTime(key string, ms int64) error {
	payload := make([]byte, 8)
	utils.PutInt64(payload, ms)

	return appendElement(d, core.TypeDateTime, key, payload)
}

// AppendNull appends a null field.
func (d *Document) AppendNull(key string) error {
	return appendElement(d, core.TypeNull, key, nil)
}

// AppendRegex appends a regular expression field.
func (d *Document) AppendRegex(key, pattern, options string) error {
	payload := make([]byte, 0, len(pattern)+len(options)+2)
	payload = append(payload, pattern...)
	payload = append(payload, 0x00)
	payload = append(payload, options...)
	payload = append(payload, 0x00)

	return appendElement(d, core.TypeRegex, key, payload)
}

// AppendDBPointer appends a deprecated DBPointer field.
func (d *Document) AppendDBPointer(key, ref string, oid [core.OIDLength]byte) error {
	payload := make([]byte, 0, 4+len(ref)+1+core.OIDLength)
	payload = append(payload, encodeCString(ref)...)
	payload = append(payload, oid[:]...)

	return appendElement(d, core.TypeDBPointer, key, payload)
}

// AppendCode appends a JavaScript code field.
func (d *Document) AppendCode(key, code string) error {
	return appendElement(d, core.TypeCode, key, encodeCString(code))
}

// AppendSymbol appends a symbol field.
func (d *Document) AppendSymbol(key, symbol string) error {
	return appendElement(d, core.TypeSymbol, key, encodeCString(symbol))
}

// AppendCodeWithScope appends a JavaScript code field with an attached
// scope document.
func (d *Document) AppendCodeWithScope(key, code string, scope *Document) error {
	codeBytes := encodeCString(code)
	scopeBytes := scope.AsBytes()

	total := 4 + len(codeBytes) + len(scopeBytes)

	payload := make([]byte, 0, total)
	payload = append(payload, wrapLE32(int32(total))...)
	payload = append(payload, codeBytes...)
	payload = append(payload, scopeBytes...)

	return appendElement(d, core.TypeCodeWScope, key, payload)
}

// AppendInt32 appends a 32-bit integer field.
func (d *Document) AppendInt32(key string, v int32) error {
	return appendElement(d, core.TypeInt32, key, wrapLE32(v))
}

// AppendTimestamp appends a timestamp field: seconds since epoch and an
// increment counter, packed as the spec's single little-endian uint64
// (high 32 bits seconds, low 32 bits increment).
func (d *Document) AppendTimestamp(key string, seconds, increment uint32) error {
	v := uint64(seconds)<<32 | uint64(increment)

	payload := make([]byte, 8)
	utils.PutUint64(payload, v)

	return appendElement(d, core.TypeTimestamp, key, payload)
}

// AppendInt64 appends a 64-bit integer field.
func (d *Document) AppendInt64(key string, v int64) error {
	payload := make([]byte, 8)
	utils.PutInt64(payload, v)

	return appendElement(d, core.TypeInt64, key, payload)
}

// AppendMaxKey appends a max-key sentinel field.
func (d *Document) AppendMaxKey(key string) error {
	return appendElement(d, core.TypeMaxKey, key, nil)
}

// AppendMinKey appends a min-key sentinel field.
func (d *Document) AppendMinKey(key string) error {
	return appendElement(d, core.TypeMinKey, key, nil)
}

// StartDocument opens key as a nested sub-document and returns a handle
// to it. The returned child must be closed with FinishDocument before
// d (or any ancestor of d) may be appended to again.
func (d *Document) StartDocument(key string) (*Document, error) {
	if err := cstringKey(key); err != nil {
		return nil, err
	}

	if err := d.c.Writable(); err != nil {
		return nil, ErrReadOnly
	}

	child, err := d.c.StartChild(key, false)
	if err != nil {
		return nil, &CapacityError{Requested: d.Length(), Cause: err}
	}

	return wrap(child), nil
}

// FinishDocument closes a sub-document opened with StartDocument.
func (d *Document) FinishDocument(child *Document) error {
	if err := d.c.FinishChild(child.c); err != nil {
		return err
	}

	return nil
}

// StartArray opens key as a nested array and returns a handle to it.
// Use NextArrayKey on the returned handle to generate the "0", "1", ...
// element keys the wire format expects.
func (d *Document) StartArray(key string) (*Document, error) {
	if err := cstringKey(key); err != nil {
		return nil, err
	}

	if err := d.c.Writable(); err != nil {
		return nil, ErrReadOnly
	}

	child, err := d.c.StartChild(key, true)
	if err != nil {
		return nil, &CapacityError{Requested: d.Length(), Cause: err}
	}

	return wrap(child), nil
}

// FinishArray closes an array opened with StartArray.
func (d *Document) FinishArray(child *Document) error {
	return d.c.FinishChild(child.c)
}

// NextArrayKey returns the next ASCII decimal index key to use when
// appending into an array opened with StartArray ("0", then "1", ...).
func (d *Document) NextArrayKey() string {
	return strconv.Itoa(d.c.NextArrayIndex())
}

func encodeCString(s string) []byte {
	b := make([]byte, 0, 4+len(s)+1)
	b = append(b, wrapLE32(int32(len(s)+1))...)
	b = append(b, s...)
	b = append(b, 0x00)

	return b
}
