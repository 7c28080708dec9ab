// Package core implements the BSON wire-format mechanics: the growable
// buffer, the document handle (root, child window, or static view), the
// length-prefix bookkeeping shared by every append, and the low-level
// element iterator. Type-specific payload encoding/decoding for the
// public API lives one layer up, in package bson; this package only
// knows how to move bytes around correctly.
package core

import "fmt"

// Type is a BSON element type tag (spec §3.1).
type Type byte

// Element type tags, in the order the BSON spec defines them.
const (
	TypeDouble     Type = 0x01
	TypeUTF8       Type = 0x02
	TypeDocument   Type = 0x03
	TypeArray      Type = 0x04
	TypeBinary     Type = 0x05
	TypeUndefined  Type = 0x06
	TypeOID        Type = 0x07
	TypeBool       Type = 0x08
	TypeDateTime   Type = 0x09
	TypeNull       Type = 0x0A
	TypeRegex      Type = 0x0B
	TypeDBPointer  Type = 0x0C
	TypeCode       Type = 0x0D
	TypeSymbol     Type = 0x0E
	TypeCodeWScope Type = 0x0F
	TypeInt32      Type = 0x10
	TypeTimestamp  Type = 0x11
	TypeInt64      Type = 0x12
	TypeMaxKey     Type = 0x7F
	TypeMinKey     Type = 0xFF
)

// String renders a type tag using its BSON spec name, for error messages
// and debugging.
func (t Type) String() string {
	switch t {
	case TypeDouble:
		return "double"
	case TypeUTF8:
		return "utf8"
	case TypeDocument:
		return "document"
	case TypeArray:
		return "array"
	case TypeBinary:
		return "binary"
	case TypeUndefined:
		return "undefined"
	case TypeOID:
		return "oid"
	case TypeBool:
		return "bool"
	case TypeDateTime:
		return "date_time"
	case TypeNull:
		return "null"
	case TypeRegex:
		return "regex"
	case TypeDBPointer:
		return "dbpointer"
	case TypeCode:
		return "code"
	case TypeSymbol:
		return "symbol"
	case TypeCodeWScope:
		return "code_w_scope"
	case TypeInt32:
		return "int32"
	case TypeTimestamp:
		return "timestamp"
	case TypeInt64:
		return "int64"
	case TypeMaxKey:
		return "max_key"
	case TypeMinKey:
		return "min_key"
	default:
		return fmt.Sprintf("unknown(0x%02X)", byte(t))
	}
}

// Known reports whether t is one of the recognized type tags.
func (t Type) Known() bool {
	switch t {
	case TypeDouble, TypeUTF8, TypeDocument, TypeArray, TypeBinary, TypeUndefined,
		TypeOID, TypeBool, TypeDateTime, TypeNull, TypeRegex, TypeDBPointer,
		TypeCode, TypeSymbol, TypeCodeWScope, TypeInt32, TypeTimestamp, TypeInt64,
		TypeMaxKey, TypeMinKey:
		return true
	default:
		return false
	}
}

// OIDLength is the fixed byte length of an ObjectId value.
const OIDLength = 12

// HeaderLength is the byte length of an empty document: a 4-byte length
// prefix plus the 1-byte terminator.
const HeaderLength = 5

// Flags is a bitset describing a document handle's storage and role,
// mirroring the four orthogonal bits the spec assigns to a handle
// (§3.2): no-free, no-grow, child, writer.
type Flags uint8

// Flag bits.
const (
	FlagNoFree Flags = 1 << iota
	FlagNoGrow
	FlagChild
	FlagWriter
)

// Has reports whether all bits in mask are set.
func (f Flags) Has(mask Flags) bool {
	return f&mask == mask
}
