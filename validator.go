package bson

import (
	"unicode/utf8"

	"github.com/scigolib/bson/internal/utils"
)

// ValidateFlags selects which semantic rules Validate enforces beyond
// basic structural well-formedness (spec §4.6/§6.3).
type ValidateFlags struct {
	// UTF8 validates every utf8, symbol, code, regex pattern, regex
	// options, and key string as well-formed UTF-8.
	UTF8 bool
	// UTF8AllowNull, when combined with UTF8, permits embedded 0x00
	// bytes inside an otherwise valid UTF-8 string to pass.
	UTF8AllowNull bool
	// DollarKeys rejects any key whose first byte is '$'.
	DollarKeys bool
	// DotKeys rejects any key containing '.'.
	DotKeys bool
}

// Validate walks d (and every nested sub-document/array) enforcing
// flags, returning nil if the whole document is well-formed and
// compliant, or a *ValidationError / *CorruptError at the first
// violation. The reported offset always points at the actual offending
// element, not its enclosing parent: it is the absolute offset within
// d's own top-level buffer, even when the violation is several levels
// deep in a nested sub-document or array.
func Validate(d *Document, flags ValidateFlags) error {
	return validateAt(d, flags, 0)
}

func validateAt(d *Document, flags ValidateFlags, base int64) error {
	it, err := d.Iterator()
	if err != nil {
		return err
	}

	for it.Next() {
		key := it.Key()
		offset := base + it.Offset()

		if flags.DollarKeys && len(key) > 0 && key[0] == '$' {
			return &ValidationError{Offset: offset, Reason: "key starts with '$'"}
		}

		if flags.DotKeys && containsByte(key, '.') {
			return &ValidationError{Offset: offset, Reason: "key contains '.'"}
		}

		if flags.UTF8 && !validKeyUTF8(key, flags) {
			return &ValidationError{Offset: offset, Reason: "key is not valid UTF-8"}
		}

		if err := validateValue(it, flags, offset); err != nil {
			return err
		}

		switch it.Type() {
		case TypeDocument:
			sub, err := it.SubDocument()
			if err != nil {
				return err
			}

			if err := validateAt(sub, flags, offset+int64(len(key))+2); err != nil {
				return err
			}

		case TypeArray:
			sub, err := it.Array()
			if err != nil {
				return err
			}

			if err := validateAt(sub, flags, offset+int64(len(key))+2); err != nil {
				return err
			}
		}
	}

	if err := it.Corrupt(); err != nil {
		return err
	}

	return nil
}

func validateValue(it *Iterator, flags ValidateFlags, offset int64) error {
	if !flags.UTF8 {
		return nil
	}

	switch it.Type() {
	case TypeUTF8:
		v, err := it.UTF8()
		if err != nil {
			return err
		}

		if !validStringUTF8(v, flags) {
			return &ValidationError{Offset: offset, Reason: "utf8 value is not valid UTF-8"}
		}

	case TypeSymbol:
		v, err := it.Symbol()
		if err != nil {
			return err
		}

		if !validStringUTF8(v, flags) {
			return &ValidationError{Offset: offset, Reason: "symbol value is not valid UTF-8"}
		}

	case TypeCode:
		v, err := it.Code()
		if err != nil {
			return err
		}

		if !validStringUTF8(v, flags) {
			return &ValidationError{Offset: offset, Reason: "code value is not valid UTF-8"}
		}

	case TypeRegex:
		pattern, options, err := it.Regex()
		if err != nil {
			return err
		}

		if !validStringUTF8(pattern, flags) {
			return &ValidationError{Offset: offset, Reason: "regex pattern is not valid UTF-8"}
		}

		if !validStringUTF8(options, flags) {
			return &ValidationError{Offset: offset, Reason: "regex options are not valid UTF-8"}
		}
	}

	return nil
}

func validKeyUTF8(key string, flags ValidateFlags) bool {
	return validStringUTF8(key, flags)
}

// validStringUTF8 copies s into a pooled scratch buffer before scanning
// it, so repeated validation of string/symbol/code/regex fields across a
// large document reuses one scan buffer instead of each field paying for
// its own.
func validStringUTF8(s string, flags ValidateFlags) bool {
	scratch := utils.GetBuffer(len(s))
	defer func() { utils.ReleaseBuffer(scratch) }()

	copy(scratch, s)

	if !utf8.Valid(scratch) {
		return false
	}

	if !flags.UTF8AllowNull {
		for _, b := range scratch {
			if b == 0x00 {
				return false
			}
		}
	}

	return true
}

func containsByte(s string, b byte) bool {
	for i := 0; i < len(s); i++ {
		if s[i] == b {
			return true
		}
	}

	return false
}
