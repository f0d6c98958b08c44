package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidEmail(t *testing.T) {
	assert.True(t, IsValidEmail("driver@example.com"))
	assert.False(t, IsValidEmail("driver@example"))
	assert.False(t, IsValidEmail("not an email"))
}

func TestIsValidPassword(t *testing.T) {
	assert.True(t, IsValidPassword("s3cret!"))
	assert.True(t, IsValidPassword("abc123"))
	assert.False(t, IsValidPassword("abcdef"))
	assert.False(t, IsValidPassword("a1"))
}

func TestImageContentType(t *testing.T) {
	ct, ok := ImageContentType("Receipt.JPG")
	assert.True(t, ok)
	assert.Equal(t, "image/jpeg", ct)

	_, ok = ImageContentType("notes.pdf")
	assert.False(t, ok)

	assert.True(t, IsImageContentType("image/png"))
	assert.False(t, IsImageContentType("application/pdf"))
}
