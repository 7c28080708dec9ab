package core

import (
	"fmt"

	"github.com/scigolib/bson/internal/utils"
)

// Iterator performs a single-pass, zero-copy walk over the elements of a
// raw BSON document buffer (spec §4.3). It does not copy element bytes:
// Value returns a slice into the caller-supplied backing array, and Key
// converts the key bytes to a string only when it is called.
type Iterator struct {
	data       []byte // full document bytes, including the 4-byte length prefix and terminator
	pos        int    // offset of the next element to decode, or len(data)-1 at the terminator
	elemOffset int     // offset of the current element's type tag, relative to data
	key        []byte
	val        []byte
	tag        Type
	corrupt    error
}

// NewIterator returns an iterator over data, which must be a
// length-prefixed, terminator-closed BSON document (the caller is
// responsible for having validated the header, e.g. via NewStaticView).
func NewIterator(data []byte) (*Iterator, error) {
	if len(data) < HeaderLength {
		return nil, fmt.Errorf("iterator: document too short")
	}

	length := int(utils.Int32(data[:4]))
	if length < HeaderLength || length > len(data) {
		return nil, fmt.Errorf("iterator: invalid length prefix %d", length)
	}

	return &Iterator{data: data[:length], pos: 4}, nil
}

// Corrupt reports whether the iterator has entered its terminal error
// state; once set, Next always returns false.
func (it *Iterator) Corrupt() error {
	return it.corrupt
}

// Offset returns the byte offset, relative to this iterator's own data
// slice, of the current element's type tag. Callers composing nested
// iterators (e.g. over a sub-document's static view) are responsible for
// adding their own base offset to recover an absolute position.
func (it *Iterator) Offset() int64 {
	return int64(it.elemOffset)
}

// Key returns the current element's key. Valid only after Next returns true.
func (it *Iterator) Key() string {
	return string(it.key)
}

// Type returns the current element's type tag. Valid only after Next
// returns true.
func (it *Iterator) Type() Type {
	return it.tag
}

// Value returns the current element's raw value bytes (the payload
// immediately following the type tag and key, exactly as wide as that
// type's encoding — see valueWidth). Valid only after Next returns true.
func (it *Iterator) Value() []byte {
	return it.val
}

// Next decodes the next element. It returns false at end-of-document or
// once the iterator is corrupt; callers must check Corrupt() to tell
// "clean EOF" from "decode failure".
func (it *Iterator) Next() bool {
	if it.corrupt != nil {
		return false
	}

	if it.pos >= len(it.data)-1 {
		return false
	}

	start := it.pos

	tag := Type(it.data[it.pos])
	if !tag.Known() {
		it.fail("unknown type tag 0x%02X at offset %d", byte(tag), it.pos)
		return false
	}

	cur := it.pos + 1

	keyEnd := indexZero(it.data, cur)
	if keyEnd < 0 {
		it.fail("unterminated key starting at offset %d", cur)
		return false
	}

	key := it.data[cur:keyEnd]
	cur = keyEnd + 1

	width, err := it.valueWidth(tag, cur)
	if err != nil {
		it.fail("%s", err)
		return false
	}

	if cur+width > len(it.data) {
		it.fail("value for key %q overruns document bounds", string(key))
		return false
	}

	it.key = key
	it.tag = tag
	it.val = it.data[cur : cur+width]
	it.pos = cur + width
	it.elemOffset = start

	return true
}

func (it *Iterator) fail(format string, args ...any) {
	it.corrupt = fmt.Errorf(format, args...)
}

// valueWidth returns the number of value bytes starting at offset for an
// element of the given type, per the fixed or length-prefixed encodings
// the spec's type table describes (§3.1).
func (it *Iterator) valueWidth(tag Type, offset int) (int, error) {
	data := it.data

	switch tag {
	case TypeDouble, TypeDateTime, TypeTimestamp, TypeInt64:
		return 8, nil

	case TypeInt32:
		return 4, nil

	case TypeBool:
		return 1, nil

	case TypeOID:
		return OIDLength, nil

	case TypeUndefined, TypeNull, TypeMaxKey, TypeMinKey:
		return 0, nil

	case TypeUTF8, TypeCode, TypeSymbol:
		return cstringValueWidth(data, offset)

	case TypeDocument, TypeArray:
		return subdocumentWidth(data, offset)

	case TypeBinary:
		if offset+4 > len(data) {
			return 0, fmt.Errorf("truncated binary length at offset %d", offset)
		}

		n := int(utils.Int32(data[offset : offset+4]))
		if n < 0 {
			return 0, fmt.Errorf("negative binary length at offset %d", offset)
		}

		return 4 + 1 + n, nil

	case TypeRegex:
		first := indexZero(data, offset)
		if first < 0 {
			return 0, fmt.Errorf("unterminated regex pattern at offset %d", offset)
		}

		second := indexZero(data, first+1)
		if second < 0 {
			return 0, fmt.Errorf("unterminated regex options at offset %d", offset)
		}

		return second + 1 - offset, nil

	case TypeDBPointer:
		n, err := cstringValueWidth(data, offset)
		if err != nil {
			return 0, err
		}

		return n + OIDLength, nil

	case TypeCodeWScope:
		if offset+4 > len(data) {
			return 0, fmt.Errorf("truncated code_w_scope length at offset %d", offset)
		}

		n := int(utils.Int32(data[offset : offset+4]))
		if n < 4 || offset+n > len(data) {
			return 0, fmt.Errorf("invalid code_w_scope length at offset %d", offset)
		}

		return n, nil

	default:
		return 0, fmt.Errorf("unsupported type tag %s", tag)
	}
}

// cstringValueWidth returns the width of a length-prefixed BSON string
// value (int32 byte count, including its own nul terminator, then the
// bytes), used by utf8/code/symbol and as the string half of dbpointer.
func cstringValueWidth(data []byte, offset int) (int, error) {
	if offset+4 > len(data) {
		return 0, fmt.Errorf("truncated string length at offset %d", offset)
	}

	n := int(utils.Int32(data[offset : offset+4]))
	if n < 1 {
		return 0, fmt.Errorf("invalid string length %d at offset %d", n, offset)
	}

	end := offset + 4 + n
	if end > len(data) {
		return 0, fmt.Errorf("string value overruns document bounds at offset %d", offset)
	}

	if data[end-1] != 0x00 {
		return 0, fmt.Errorf("string value missing nul terminator at offset %d", offset)
	}

	return 4 + n, nil
}

func subdocumentWidth(data []byte, offset int) (int, error) {
	if offset+4 > len(data) {
		return 0, fmt.Errorf("truncated sub-document length at offset %d", offset)
	}

	n := int(utils.Int32(data[offset : offset+4]))
	if n < HeaderLength || offset+n > len(data) {
		return 0, fmt.Errorf("invalid sub-document length %d at offset %d", n, offset)
	}

	if data[offset+n-1] != 0x00 {
		return 0, fmt.Errorf("sub-document missing terminator at offset %d", offset)
	}

	return n, nil
}

func indexZero(data []byte, from int) int {
	for i := from; i < len(data); i++ {
		if data[i] == 0x00 {
			return i
		}
	}

	return -1
}
