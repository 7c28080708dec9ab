package bson_test

import (
	"testing"

	"github.com/scigolib/bson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateDollarKeyDefaultPasses(t *testing.T) {
	d := bson.New()
	require.NoError(t, d.AppendInt32("$where", 1))

	err := bson.Validate(d, bson.ValidateFlags{})
	require.NoError(t, err)
}

func TestValidateDollarKeyRejected(t *testing.T) {
	d := bson.New()
	require.NoError(t, d.AppendInt32("$where", 1))

	err := bson.Validate(d, bson.ValidateFlags{DollarKeys: true})
	require.Error(t, err)

	var ve *bson.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, int64(4), ve.Offset)
}

func TestValidateDotKeyRejected(t *testing.T) {
	d := bson.New()
	require.NoError(t, d.AppendInt32("a.b", 1))

	err := bson.Validate(d, bson.ValidateFlags{DotKeys: true})
	require.Error(t, err)

	var ve *bson.ValidationError
	require.ErrorAs(t, err, &ve)
}

func TestValidateNestedOffsetIsAbsolute(t *testing.T) {
	root := bson.New()

	sub, err := root.StartDocument("sub")
	require.NoError(t, err)
	require.NoError(t, sub.AppendInt32("$bad", 1))
	require.NoError(t, root.FinishDocument(sub))

	err = bson.Validate(root, bson.ValidateFlags{DollarKeys: true})
	require.Error(t, err)

	var ve *bson.ValidationError
	require.ErrorAs(t, err, &ve)

	// root prefix(4) puts the "sub" element's tag at 4; tag(1) + "sub\0"(4)
	// puts sub's own length prefix at 9; the $bad element follows sub's
	// prefix(4), so its tag sits at absolute offset 13 (not the outer
	// element's offset 4).
	assert.Equal(t, int64(13), ve.Offset)
}

func TestValidateUTF8Rejected(t *testing.T) {
	d := bson.New()

	invalid := string([]byte{0xff, 0xfe})
	require.NoError(t, d.AppendString("s", invalid))

	err := bson.Validate(d, bson.ValidateFlags{UTF8: true})
	require.Error(t, err)
}

func TestValidatePassesForWellFormedDocument(t *testing.T) {
	d := bson.New()
	require.NoError(t, d.AppendString("name", "ok"))
	require.NoError(t, d.AppendInt32("count", 3))

	err := bson.Validate(d, bson.ValidateFlags{UTF8: true, DollarKeys: true, DotKeys: true})
	require.NoError(t, err)
}
