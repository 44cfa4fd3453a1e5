package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeUTF8(t *testing.T) {
	assert.Equal(t, "Grocery Store", sanitizeUTF8("Grocery Store"))
	assert.Equal(t, "Café", sanitizeUTF8("Café"))
	assert.Equal(t, "ab", sanitizeUTF8("a\xc3b"))
	assert.Equal(t, "", sanitizeUTF8("\xff\xfe"))
}

func TestSanitizeUTF8DropsRunsOfInvalidBytes(t *testing.T) {
	assert.Equal(t, "ab", sanitizeUTF8("a\xff\xfe\xfdb"))
	assert.Equal(t, "Счёт 1", sanitizeUTF8("Счёт\x80 1"))
}
