package bson

import "github.com/scigolib/bson/internal/core"

// Visitor is a table of optional per-type callbacks driving a single
// traversal of a document's top-level elements (spec §4.4). Each
// callback returns true to stop the traversal early; a nil callback for
// a given type is simply skipped.
//
// Sub-document and array callbacks receive a static view over the
// embedded bytes, so a visitor may recurse with its own Iterator/VisitAll
// call without copying.
type Visitor struct {
	Before  func(key string, tag Type) (stop bool)
	After   func(key string, tag Type) (stop bool)
	Corrupt func(err error)

	Double        func(key string, v float64) (stop bool)
	UTF8          func(key string, v string) (stop bool)
	Document      func(key string, sub *Document) (stop bool)
	Array         func(key string, sub *Document) (stop bool)
	Binary        func(key string, subtype byte, data []byte) (stop bool)
	Undefined     func(key string) (stop bool)
	OID           func(key string, oid [core.OIDLength]byte) (stop bool)
	Bool          func(key string, v bool) (stop bool)
	DateTime      func(key string, ms int64) (stop bool)
	Null          func(key string) (stop bool)
	Regex         func(key, pattern, options string) (stop bool)
	DBPointer     func(key, ref string, oid [core.OIDLength]byte) (stop bool)
	Code          func(key, code string) (stop bool)
	Symbol        func(key, symbol string) (stop bool)
	CodeWithScope func(key, code string, scope *Document) (stop bool)
	Int32         func(key string, v int32) (stop bool)
	Timestamp     func(key string, seconds, increment uint32) (stop bool)
	Int64         func(key string, v int64) (stop bool)
	MaxKey        func(key string) (stop bool)
	MinKey        func(key string) (stop bool)
}

// VisitAll walks every top-level element of d, invoking v's callbacks in
// iteration order. It stops early if any callback returns true, and
// invokes v.Corrupt if the underlying iterator halts in a corrupt state.
func VisitAll(d *Document, v *Visitor) error {
	it, err := d.Iterator()
	if err != nil {
		return err
	}

	for it.Next() {
		key := it.Key()
		tag := it.Type()

		if v.Before != nil && v.Before(key, tag) {
			return nil
		}

		stop, err := dispatch(it, v, key, tag)
		if err != nil {
			return err
		}

		if stop {
			return nil
		}

		if v.After != nil && v.After(key, tag) {
			return nil
		}
	}

	if err := it.Corrupt(); err != nil {
		if v.Corrupt != nil {
			v.Corrupt(err)
		}

		return err
	}

	return nil
}

func dispatch(it *Iterator, v *Visitor, key string, tag Type) (stop bool, err error) {
	switch tag {
	case TypeDouble:
		if v.Double == nil {
			return false, nil
		}

		val, err := it.Double()
		if err != nil {
			return false, err
		}

		return v.Double(key, val), nil

	case TypeUTF8:
		if v.UTF8 == nil {
			return false, nil
		}

		val, err := it.UTF8()
		if err != nil {
			return false, err
		}

		return v.UTF8(key, val), nil

	case TypeDocument:
		if v.Document == nil {
			return false, nil
		}

		sub, err := it.SubDocument()
		if err != nil {
			return false, err
		}

		return v.Document(key, sub), nil

	case TypeArray:
		if v.Array == nil {
			return false, nil
		}

		sub, err := it.Array()
		if err != nil {
			return false, err
		}

		return v.Array(key, sub), nil

	case TypeBinary:
		if v.Binary == nil {
			return false, nil
		}

		subtype, data, err := it.Binary()
		if err != nil {
			return false, err
		}

		return v.Binary(key, subtype, data), nil

	case TypeUndefined:
		if v.Undefined == nil {
			return false, nil
		}

		return v.Undefined(key), nil

	case TypeOID:
		if v.OID == nil {
			return false, nil
		}

		oid, err := it.OID()
		if err != nil {
			return false, err
		}

		return v.OID(key, oid), nil

	case TypeBool:
		if v.Bool == nil {
			return false, nil
		}

		val, err := it.Bool()
		if err != nil {
			return false, err
		}

		return v.Bool(key, val), nil

	case TypeDateTime:
		if v.DateTime == nil {
			return false, nil
		}

		val, err := it.DateTime()
		if err != nil {
			return false, err
		}

		return v.DateTime(key, val), nil

	case TypeNull:
		if v.Null == nil {
			return false, nil
		}

		return v.Null(key), nil

	case TypeRegex:
		if v.Regex == nil {
			return false, nil
		}

		pattern, options, err := it.Regex()
		if err != nil {
			return false, err
		}

		return v.Regex(key, pattern, options), nil

	case TypeDBPointer:
		if v.DBPointer == nil {
			return false, nil
		}

		ref, oid, err := it.DBPointer()
		if err != nil {
			return false, err
		}

		return v.DBPointer(key, ref, oid), nil

	case TypeCode:
		if v.Code == nil {
			return false, nil
		}

		val, err := it.Code()
		if err != nil {
			return false, err
		}

		return v.Code(key, val), nil

	case TypeSymbol:
		if v.Symbol == nil {
			return false, nil
		}

		val, err := it.Symbol()
		if err != nil {
			return false, err
		}

		return v.Symbol(key, val), nil

	case TypeCodeWScope:
		if v.CodeWithScope == nil {
			return false, nil
		}

		code, scope, err := it.CodeWithScope()
		if err != nil {
			return false, err
		}

		return v.CodeWithScope(key, code, scope), nil

	case TypeInt32:
		if v.Int32 == nil {
			return false, nil
		}

		val, err := it.Int32()
		if err != nil {
			return false, err
		}

		return v.Int32(key, val), nil

	case TypeTimestamp:
		if v.Timestamp == nil {
			return false, nil
		}

		seconds, increment, err := it.Timestamp()
		if err != nil {
			return false, err
		}

		return v.Timestamp(key, seconds, increment), nil

	case TypeInt64:
		if v.Int64 == nil {
			return false, nil
		}

		val, err := it.Int64()
		if err != nil {
			return false, err
		}

		return v.Int64(key, val), nil

	case TypeMaxKey:
		if v.MaxKey == nil {
			return false, nil
		}

		return v.MaxKey(key), nil

	case TypeMinKey:
		if v.MinKey == nil {
			return false, nil
		}

		return v.MinKey(key), nil

	default:
		return false, nil
	}
}
