package bson_test

import (
	"testing"

	"github.com/scigolib/bson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIsEmptyDocument(t *testing.T) {
	d := bson.New()

	assert.True(t, d.IsEmpty())
	assert.Equal(t, int64(5), d.Length())
	assert.Equal(t, []byte{0x05, 0x00, 0x00, 0x00, 0x00}, d.AsBytes())
	assert.Equal(t, "{}", d.String())

	n, err := d.CountFields()
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestOneInt32Field(t *testing.T) {
	d := bson.New()

	require.NoError(t, d.AppendInt32("a", 1))

	want := []byte{
		0x0C, 0x00, 0x00, 0x00,
		0x10, 'a', 0x00,
		0x01, 0x00, 0x00, 0x00,
		0x00,
	}
	assert.Equal(t, want, d.AsBytes())
	assert.Equal(t, `{ "a" : 1 }`, d.String())

	n, err := d.CountFields()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestNestedSubDocument(t *testing.T) {
	root := bson.New()

	sub, err := root.StartDocument("sub")
	require.NoError(t, err)

	require.NoError(t, sub.AppendInt32("x", 42))

	require.NoError(t, root.FinishDocument(sub))

	// length_prefix(4) + [tag(1) + "sub\0"(4) + subdoc] + terminator(1),
	// where subdoc = length_prefix(4) + [tag(1) + "x\0"(2) + int32(4)] + terminator(1) = 12
	assert.Equal(t, int64(22), root.Length())

	it, err := root.Iterator()
	require.NoError(t, err)

	require.True(t, it.Next())
	assert.Equal(t, bson.TypeDocument, it.Type())

	view, err := it.SubDocument()
	require.NoError(t, err)

	innerIt, err := view.Iterator()
	require.NoError(t, err)

	require.True(t, innerIt.Next())
	assert.Equal(t, "x", innerIt.Key())

	v, err := innerIt.Int32()
	require.NoError(t, err)
	assert.Equal(t, int32(42), v)

	assert.False(t, it.Next())
}

func TestStaticViewRejectsShortBuffer(t *testing.T) {
	_, err := bson.NewStaticView([]byte{0x05, 0x00, 0x00})
	require.Error(t, err)
}

func TestStaticViewAcceptsEmptyDocument(t *testing.T) {
	view, err := bson.NewStaticView([]byte{0x05, 0x00, 0x00, 0x00, 0x00})
	require.NoError(t, err)
	assert.True(t, view.IsEmpty())

	err = view.AppendInt32("a", 1)
	require.ErrorIs(t, err, bson.ErrReadOnly)
}

func TestCorruptDetection(t *testing.T) {
	// claims length 12, embedded utf8 "len" field claims 99
	data := []byte{
		0x0C, 0x00, 0x00, 0x00,
		0x02, 'a', 0x00,
		99, 0x00, 0x00, 0x00,
		0x00,
	}

	view, err := bson.NewStaticView(data)
	require.NoError(t, err)

	it, err := view.Iterator()
	require.NoError(t, err)

	assert.False(t, it.Next())
	require.Error(t, it.Corrupt())

	var ce *bson.CorruptError
	assert.ErrorAs(t, it.Corrupt(), &ce)
}

func TestRoundTrip(t *testing.T) {
	d := bson.New()
	require.NoError(t, d.AppendString("hello", "world"))

	d2, err := bson.NewFromBytes(d.AsBytes())
	require.NoError(t, err)

	assert.True(t, bson.Equal(d, d2))
}

func TestCompareAndEqual(t *testing.T) {
	a := bson.New()
	b := bson.New()
	assert.True(t, bson.Equal(a, b))

	require.NoError(t, a.AppendBool("x", true))
	assert.False(t, bson.Equal(a, b))
	assert.Equal(t, 1, bson.Compare(a, b))
}

func TestOnlyInnermostChildIsWritable(t *testing.T) {
	root := bson.New()

	child, err := root.StartDocument("c")
	require.NoError(t, err)

	err = root.AppendInt32("x", 1)
	require.ErrorIs(t, err, bson.ErrReadOnly)

	require.NoError(t, root.FinishDocument(child))
	require.NoError(t, root.AppendInt32("x", 1))
}
