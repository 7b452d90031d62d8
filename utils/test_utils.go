package utils

import (
	"testing"

	"github.com/Luismorlan/yatube/model"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const TestPassword = "test-password-123"

// SmallGif is a valid 2x1 gif, the smallest payload an image field accepts.
var SmallGif = []byte{
	0x47, 0x49, 0x46, 0x38, 0x39, 0x61, 0x02, 0x00,
	0x01, 0x00, 0x80, 0x00, 0x00, 0x00, 0x00, 0x00,
	0xFF, 0xFF, 0xFF, 0x21, 0xF9, 0x04, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x2C, 0x00, 0x00, 0x00, 0x00,
	0x02, 0x00, 0x01, 0x00, 0x00, 0x02, 0x02, 0x0C,
	0x0A, 0x00, 0x3B,
}

// create user with username and TestPassword, do sanity checks and return it
func TestCreateUser(t *testing.T, db *gorm.DB, username string) *model.User {
	t.Helper()
	// Lowest cost keeps the test suite fast, login tests still go through bcrypt.
	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	require.Nil(t, err)
	user := model.User{Username: username, PasswordHash: string(hash)}
	require.Nil(t, db.Create(&user).Error)
	require.NotZero(t, user.Id)
	return &user
}

// create group with slug, do sanity checks and return it
func TestCreateGroup(t *testing.T, db *gorm.DB, title string, slug string, description string) *model.Group {
	t.Helper()
	group := model.Group{Title: title, Slug: slug, Description: description}
	require.Nil(t, db.Create(&group).Error)
	require.NotZero(t, group.Id)
	return &group
}

// create post by author, optionally in group, and return it with relations
// loaded
func TestCreatePost(t *testing.T, db *gorm.DB, text string, author *model.User, group *model.Group) *model.Post {
	t.Helper()
	post := model.Post{Text: text, AuthorID: author.Id}
	if group != nil {
		post.GroupID = &group.Id
	}
	require.Nil(t, db.Omit(clause.Associations).Create(&post).Error)
	require.NotZero(t, post.Id)

	var loaded model.Post
	require.Nil(t, db.Scopes(model.PostsWithRelations).First(&loaded, post.Id).Error)
	return &loaded
}

// TestCountPosts returns the number of posts stored in db.
func TestCountPosts(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var count int64
	require.Nil(t, db.Model(&model.Post{}).Count(&count).Error)
	return count
}
