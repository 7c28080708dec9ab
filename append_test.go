package bson_test

import (
	"testing"

	"github.com/scigolib/bson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendAllScalarTypes(t *testing.T) {
	d := bson.New()

	require.NoError(t, d.AppendDouble("d", 3.5))
	require.NoError(t, d.AppendString("s", "hi"))
	require.NoError(t, d.AppendBinary("b", 0x00, []byte{1, 2, 3}))
	require.NoError(t, d.AppendUndefined("u"))
	require.NoError(t, d.AppendObjectID("o", [12]byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}))
	require.NoError(t, d.AppendBool("bt", true))
	require.NoError(t, d.AppendBool("bf", false))
	require.NoError(t, d.AppendDateTime("dt", 1700000000000))
	require.NoError(t, d.AppendNull("n"))
	require.NoError(t, d.AppendRegex("re", "^a+$", "i"))
	require.NoError(t, d.AppendDBPointer("dbp", "coll", [12]byte{9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9}))
	require.NoError(t, d.AppendCode("c", "function() {}"))
	require.NoError(t, d.AppendSymbol("sym", "mysym"))
	require.NoError(t, d.AppendInt32("i32", -7))
	require.NoError(t, d.AppendTimestamp("ts", 100, 1))
	require.NoError(t, d.AppendInt64("i64", 1<<40))
	require.NoError(t, d.AppendMaxKey("mx"))
	require.NoError(t, d.AppendMinKey("mn"))

	n, err := d.CountFields()
	require.NoError(t, err)
	assert.Equal(t, 18, n)

	round, err := bson.NewFromBytes(d.AsBytes())
	require.NoError(t, err)
	assert.True(t, bson.Equal(d, round))
}

func TestAppendCodeWithScope(t *testing.T) {
	d := bson.New()

	scope := bson.New()
	require.NoError(t, scope.AppendInt32("x", 1))

	require.NoError(t, d.AppendCodeWithScope("f", "return x;", scope))

	it, err := d.Iterator()
	require.NoError(t, err)

	require.True(t, it.Next())
	assert.Equal(t, bson.TypeCodeWScope, it.Type())

	code, gotScope, err := it.CodeWithScope()
	require.NoError(t, err)
	assert.Equal(t, "return x;", code)
	assert.False(t, gotScope.IsEmpty())

	inner, err := gotScope.Iterator()
	require.NoError(t, err)
	require.True(t, inner.Next())
	assert.Equal(t, "x", inner.Key())
}

func TestStartArrayAppendsIndexedKeys(t *testing.T) {
	root := bson.New()

	arr, err := root.StartArray("nums")
	require.NoError(t, err)

	require.NoError(t, arr.AppendInt32(arr.NextArrayKey(), 10))
	require.NoError(t, arr.AppendInt32(arr.NextArrayKey(), 20))
	require.NoError(t, arr.AppendInt32(arr.NextArrayKey(), 30))

	require.NoError(t, root.FinishArray(arr))

	it, err := root.Iterator()
	require.NoError(t, err)

	require.True(t, it.Next())
	assert.Equal(t, bson.TypeArray, it.Type())

	view, err := it.Array()
	require.NoError(t, err)

	innerIt, err := view.Iterator()
	require.NoError(t, err)

	var keys []string
	for innerIt.Next() {
		keys = append(keys, innerIt.Key())
	}
	require.NoError(t, innerIt.Corrupt())

	assert.Equal(t, []string{"0", "1", "2"}, keys)
}

func TestAppendRejectsKeyWithEmbeddedNul(t *testing.T) {
	d := bson.New()

	err := d.AppendInt32("bad\x00key", 1)
	require.Error(t, err)
}
