package utils

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBSONError_Error(t *testing.T) {
	tests := []struct {
		name     string
		context  string
		cause    error
		expected string
	}{
		{
			name:     "simple error",
			context:  "reading document header",
			cause:    errors.New("length prefix mismatch"),
			expected: "reading document header: length prefix mismatch",
		},
		{
			name:     "nested error",
			context:  "parsing element",
			cause:    errors.New("unterminated key"),
			expected: "parsing element: unterminated key",
		},
		{
			name:     "empty context",
			context:  "",
			cause:    errors.New("some error"),
			expected: ": some error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := &BSONError{
				Context: tt.context,
				Cause:   tt.cause,
			}
			require.Equal(t, tt.expected, err.Error())
		})
	}
}

func TestWrapError(t *testing.T) {
	tests := []struct {
		name    string
		context string
		cause   error
		wantNil bool
	}{
		{
			name:    "wrap non-nil error",
			context: "appending field",
			cause:   errors.New("capacity exhausted"),
			wantNil: false,
		},
		{
			name:    "wrap nil error returns nil",
			context: "some operation",
			cause:   nil,
			wantNil: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := WrapError(tt.context, tt.cause)

			if tt.wantNil {
				require.Nil(t, err)
				return
			}

			require.NotNil(t, err)

			var bsonErr *BSONError
			ok := errors.As(err, &bsonErr)
			require.True(t, ok, "error should be *BSONError")
			require.Equal(t, tt.context, bsonErr.Context)
			require.Equal(t, tt.cause, bsonErr.Cause)
		})
	}
}

func TestBSONError_Unwrap(t *testing.T) {
	originalErr := errors.New("original error")
	wrapped := WrapError("context", originalErr)

	require.NotNil(t, wrapped)

	unwrapped := errors.Unwrap(wrapped)
	require.Equal(t, originalErr, unwrapped)
}

func TestBSONError_ErrorsIs(t *testing.T) {
	originalErr := errors.New("specific error")
	wrapped := WrapError("first level", originalErr)
	doubleWrapped := WrapError("second level", wrapped)

	require.True(t, errors.Is(doubleWrapped, originalErr))
	require.True(t, errors.Is(wrapped, originalErr))
}

func TestBSONError_ErrorsAs(t *testing.T) {
	originalErr := errors.New("base error")
	wrapped := WrapError("context", originalErr)

	var bsonErr *BSONError
	require.True(t, errors.As(wrapped, &bsonErr))
	require.Equal(t, "context", bsonErr.Context)
	require.Equal(t, originalErr, bsonErr.Cause)
}

func TestWrapError_ChainedWrapping(t *testing.T) {
	baseErr := errors.New("base error")
	level1 := WrapError("level 1", baseErr)
	level2 := WrapError("level 2", level1)
	level3 := WrapError("level 3", level2)

	require.NotNil(t, level3)

	errMsg := level3.Error()
	require.Contains(t, errMsg, "level 3")
	require.Contains(t, errMsg, "level 2")

	require.True(t, errors.Is(level3, baseErr))

	var bsonErr *BSONError

	require.True(t, errors.As(level3, &bsonErr))
	require.Equal(t, "level 3", bsonErr.Context)

	unwrapped1 := errors.Unwrap(level3)
	require.True(t, errors.As(unwrapped1, &bsonErr))
	require.Equal(t, "level 2", bsonErr.Context)

	unwrapped2 := errors.Unwrap(unwrapped1)
	require.True(t, errors.As(unwrapped2, &bsonErr))
	require.Equal(t, "level 1", bsonErr.Context)

	unwrapped3 := errors.Unwrap(unwrapped2)
	require.Equal(t, baseErr, unwrapped3)
}

func TestWrapError_RealWorldScenarios(t *testing.T) {
	t.Run("iteration error", func(t *testing.T) {
		ioErr := errors.New("value length exceeds remaining bytes")
		err := WrapError("reading document", ioErr)

		require.NotNil(t, err)
		require.Contains(t, err.Error(), "reading document")
		require.Contains(t, err.Error(), "value length exceeds remaining bytes")
		require.True(t, errors.Is(err, ioErr))
	})

	t.Run("validation error chain", func(t *testing.T) {
		keyErr := errors.New("key contains '.'")
		elementErr := WrapError("validating element", keyErr)
		docErr := WrapError("validating document", elementErr)

		require.NotNil(t, docErr)
		require.True(t, errors.Is(docErr, keyErr))
		require.Contains(t, docErr.Error(), "validating document")
	})

	t.Run("nil error in chain", func(t *testing.T) {
		var baseErr error
		wrapped := WrapError("some context", baseErr)

		require.Nil(t, wrapped, "wrapping nil should return nil")
	})
}

func TestBSONError_StructFields(t *testing.T) {
	ctx := "test context"
	cause := errors.New("test cause")

	err := &BSONError{
		Context: ctx,
		Cause:   cause,
	}

	require.Equal(t, ctx, err.Context)
	require.Equal(t, cause, err.Cause)
}

func BenchmarkWrapError(b *testing.B) {
	baseErr := errors.New("base error")

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		_ = WrapError("context", baseErr)
	}
}

func BenchmarkWrapErrorNil(b *testing.B) {
	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		_ = WrapError("context", nil)
	}
}

func BenchmarkErrorMessage(b *testing.B) {
	err := WrapError("reading document",
		WrapError("parsing element",
			errors.New("invalid type tag")))

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		_ = err.Error()
	}
}
