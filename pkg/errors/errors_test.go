package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorFormatting(t *testing.T) {
	err := New(ErrorTypeStoreWrite, 422, "airtable PATCH %s: invalid value", "HashtagPosts")

	assert.Equal(t, "store_write error (code 422): airtable PATCH HashtagPosts: invalid value", err.Error())
	assert.Equal(t, ErrorTypeStoreWrite, err.Type)
	assert.Equal(t, 422, err.Code)
}

func TestTypeOf(t *testing.T) {
	assert.Equal(t, ErrorTypeProvider, TypeOf(New(ErrorTypeProvider, 400, "bad request")))
	assert.Equal(t, ErrorTypeUnknown, TypeOf(fmt.Errorf("plain error")))
	assert.Equal(t, ErrorTypeUnknown, TypeOf(nil))
}

func TestTypeOfWrapped(t *testing.T) {
	inner := New(ErrorTypeStoreQuery, 401, "unauthorized")
	wrapped := fmt.Errorf("listing active tags: %w", inner)

	assert.Equal(t, ErrorTypeStoreQuery, TypeOf(wrapped))
}

func TestIsConfig(t *testing.T) {
	assert.True(t, IsConfig(New(ErrorTypeConfig, 0, "missing token")))
	assert.False(t, IsConfig(New(ErrorTypeNetwork, 0, "timeout")))
	assert.False(t, IsConfig(fmt.Errorf("plain error")))
}
