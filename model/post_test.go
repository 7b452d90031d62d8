package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPostShortText(t *testing.T) {
	assert.Equal(t, "short", Post{Text: "short"}.ShortText())
	assert.Equal(t, "Тестовый текст ", Post{Text: "Тестовый текст для проверки"}.ShortText())
	assert.Equal(t, "123456789012345", Post{Text: "1234567890123456"}.String())
}

func TestPostHasGroup(t *testing.T) {
	gid := uint(1)
	assert.False(t, Post{}.HasGroup())
	assert.True(t, Post{GroupID: &gid}.HasGroup())
}

func TestUserFullName(t *testing.T) {
	assert.Equal(t, "leo", User{Username: "leo"}.FullName())
	assert.Equal(t, "Leo Tolstoy", User{Username: "leo", FirstName: "Leo", LastName: "Tolstoy"}.FullName())
	assert.Equal(t, "Leo", User{Username: "leo", FirstName: "Leo"}.FullName())
	assert.Equal(t, "leo", User{Username: "leo"}.String())
	assert.Equal(t, "Title", Group{Title: "Title"}.String())
}
