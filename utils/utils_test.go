package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRandomAlphabetString(t *testing.T) {
	s := RandomAlphabetString(8)
	assert.Len(t, s, 8)
	for _, c := range s {
		assert.True(t, c >= 'a' && c <= 'z')
	}
}

func TestTextToMd5Hash(t *testing.T) {
	h, err := TextToMd5Hash("")
	assert.Nil(t, err)
	assert.Equal(t, "d41d8cd98f00b204e9800998ecf8427e", h)
}
