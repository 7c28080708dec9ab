package bson

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/scigolib/bson/internal/utils"
)

// ToJSON renders d as canonical extended JSON (spec §4.5/§6.2). Empty
// documents take a shortcut and render directly as "{}" without
// traversal.
func ToJSON(d *Document) (string, error) {
	if d.IsEmpty() {
		return "{}", nil
	}

	var b strings.Builder

	if err := renderDocument(&b, d, false); err != nil {
		return "", err
	}

	return b.String(), nil
}

func renderDocument(b *strings.Builder, d *Document, isArray bool) error {
	if isArray {
		b.WriteString("[ ")
	} else {
		b.WriteString("{ ")
	}

	it, err := d.Iterator()
	if err != nil {
		return err
	}

	first := true

	for it.Next() {
		if !first {
			b.WriteString(", ")
		}

		first = false

		if !isArray {
			writeJSONString(b, it.Key())
			b.WriteString(" : ")
		}

		if err := renderValue(b, it); err != nil {
			return err
		}
	}

	if err := it.Corrupt(); err != nil {
		return err
	}

	if isArray {
		b.WriteString(" ]")
	} else {
		b.WriteString(" }")
	}

	return nil
}

func renderValue(b *strings.Builder, it *Iterator) error {
	switch it.Type() {
	case TypeDouble:
		v, err := it.Double()
		if err != nil {
			return err
		}

		fmt.Fprintf(b, "%f", v)

	case TypeUTF8:
		v, err := it.UTF8()
		if err != nil {
			return err
		}

		writeJSONString(b, v)

	case TypeDocument:
		sub, err := it.SubDocument()
		if err != nil {
			return err
		}

		return renderDocument(b, sub, false)

	case TypeArray:
		sub, err := it.Array()
		if err != nil {
			return err
		}

		return renderDocument(b, sub, true)

	case TypeBinary:
		subtype, data, err := it.Binary()
		if err != nil {
			return err
		}

		fmt.Fprintf(b, `{ "$type" : "%02X", "$binary" : "%s" }`, subtype, base64.StdEncoding.EncodeToString(data))

	case TypeUndefined:
		b.WriteString(`{ "$undefined" : true }`)

	case TypeOID:
		oid, err := it.OID()
		if err != nil {
			return err
		}

		fmt.Fprintf(b, `{ "$oid" : "%x" }`, oid[:])

	case TypeBool:
		v, err := it.Bool()
		if err != nil {
			return err
		}

		b.WriteString(strconv.FormatBool(v))

	case TypeDateTime:
		v, err := it.DateTime()
		if err != nil {
			return err
		}

		fmt.Fprintf(b, `{ "$date" : %d }`, v)

	case TypeNull:
		b.WriteString("null")

	case TypeRegex:
		pattern, options, err := it.Regex()
		if err != nil {
			return err
		}

		b.WriteString(`{ "$regex" : `)
		writeJSONString(b, pattern)
		b.WriteString(`, "$options" : `)
		writeJSONString(b, options)
		b.WriteString(" }")

	case TypeDBPointer:
		ref, oid, err := it.DBPointer()
		if err != nil {
			return err
		}

		b.WriteString(`{ "$ref" : `)
		writeJSONString(b, ref)
		fmt.Fprintf(b, `, "$id" : "%x" }`, oid[:])

	case TypeCode:
		v, err := it.Code()
		if err != nil {
			return err
		}

		writeJSONString(b, v)

	case TypeSymbol:
		v, err := it.Symbol()
		if err != nil {
			return err
		}

		writeJSONString(b, v)

	case TypeCodeWScope:
		code, scope, err := it.CodeWithScope()
		if err != nil {
			return err
		}

		b.WriteString(`{ "$code" : `)
		writeJSONString(b, code)
		b.WriteString(`, "$scope" : `)

		if err := renderDocument(b, scope, false); err != nil {
			return err
		}

		b.WriteString(" }")

	case TypeInt32:
		v, err := it.Int32()
		if err != nil {
			return err
		}

		b.WriteString(strconv.FormatInt(int64(v), 10))

	case TypeTimestamp:
		seconds, increment, err := it.Timestamp()
		if err != nil {
			return err
		}

		fmt.Fprintf(b, `{ "$timestamp" : { "t": %d, "i": %d } }`, seconds, increment)

	case TypeInt64:
		v, err := it.Int64()
		if err != nil {
			return err
		}

		b.WriteString(strconv.FormatInt(v, 10))

	case TypeMaxKey:
		b.WriteString(`{ "$maxKey" : 1 }`)

	case TypeMinKey:
		b.WriteString(`{ "$minKey" : 1 }`)

	default:
		return fmt.Errorf("bson: unsupported type tag %s", it.Type())
	}

	return nil
}

// writeJSONString escapes s into scratch, a pooled byte buffer reused
// across calls so repeated string fields don't each allocate their own
// escaping workspace, then writes the finished quoted string to b.
func writeJSONString(b *strings.Builder, s string) {
	scratch := utils.GetBuffer(0)
	defer func() { utils.ReleaseBuffer(scratch) }()

	scratch = append(scratch, '"')

	for _, r := range s {
		switch r {
		case '"':
			scratch = append(scratch, '\\', '"')
		case '\\':
			scratch = append(scratch, '\\', '\\')
		case '\n':
			scratch = append(scratch, '\\', 'n')
		case '\r':
			scratch = append(scratch, '\\', 'r')
		case '\t':
			scratch = append(scratch, '\\', 't')
		default:
			if r < 0x20 {
				scratch = append(scratch, fmt.Sprintf(`\u%04x`, r)...)
			} else {
				var tmp [utf8.UTFMax]byte
				n := utf8.EncodeRune(tmp[:], r)
				scratch = append(scratch, tmp[:n]...)
			}
		}
	}

	scratch = append(scratch, '"')

	b.Write(scratch)
}
