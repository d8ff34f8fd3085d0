package errors

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewf(t *testing.T) {
	err := Newf("error: %s %d", "test", 42)
	require.NotNil(t, err)
	assert.Equal(t, "error: test 42", err.Error())
}

func TestWrap(t *testing.T) {
	original := New("original")
	wrapped := Wrap(original, "wrapped")

	assert.Contains(t, wrapped.Error(), "wrapped")
	assert.Contains(t, wrapped.Error(), "original")
	assert.True(t, Is(wrapped, original))
}

func TestWrapSink(t *testing.T) {
	cause := &os.PathError{Op: "open", Path: "/nope/generated.ts", Err: os.ErrPermission}
	err := WrapSink(cause, "failed to open artifact")

	require.Error(t, err)
	assert.True(t, IsSinkError(err))
	assert.True(t, Is(err, os.ErrPermission), "Should keep the original cause reachable")
	assert.Contains(t, err.Error(), "failed to open artifact")

	var pathErr *os.PathError
	assert.True(t, As(err, &pathErr))
	assert.Equal(t, "/nope/generated.ts", pathErr.Path)
}

func TestWrapSink_Nil(t *testing.T) {
	assert.NoError(t, WrapSink(nil, "noop"))
}

func TestNewInvalidManifestError(t *testing.T) {
	err := NewInvalidManifestError("declaration %d has no name", 3)

	assert.Equal(t, "declaration 3 has no name", err.Error())
	assert.True(t, Is(err, ErrInvalidManifest))
	assert.False(t, IsSinkError(err))
}

func TestIsUnsupportedError(t *testing.T) {
	assert.False(t, IsUnsupportedError(nil))
	assert.False(t, IsUnsupportedError(New("other")))
	assert.True(t, IsUnsupportedError(Wrap(ErrUnsupported, "generic type Vec<i32>")))
}

func TestWithHint(t *testing.T) {
	err := WithHint(New("cannot create directory"), "set OUT_DIR")

	assert.Equal(t, []string{"set OUT_DIR"}, GetAllHints(err))
}

func TestCombineErrors(t *testing.T) {
	a := Wrap(ErrUnsupported, "first")
	b := Wrap(ErrUnsupported, "second")

	combined := CombineErrors(a, b)
	require.Error(t, combined)
	assert.True(t, IsUnsupportedError(combined))
	assert.Nil(t, CombineErrors(nil, nil))
}
