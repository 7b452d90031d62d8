package utils

import (
	"testing"

	"github.com/Luismorlan/yatube/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/clause"
)

func TestCreateTempDB(t *testing.T) {
	db, dbName := CreateTempDB(t)
	assert.True(t, isTempDB(dbName))

	for _, m := range model.AllModels() {
		assert.True(t, db.Migrator().HasTable(m))
	}
}

func TestTempDBsAreIsolated(t *testing.T) {
	db1, _ := CreateTempDB(t)
	db2, _ := CreateTempDB(t)

	TestCreateUser(t, db1, "only_in_first")

	var count int64
	require.Nil(t, db2.Model(&model.User{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
	require.Nil(t, db1.Model(&model.User{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestFollowIsUnique(t *testing.T) {
	db, _ := CreateTempDB(t)
	user := TestCreateUser(t, db, "follower")
	author := TestCreateUser(t, db, "author")

	require.Nil(t, db.Create(&model.Follow{UserID: user.Id, AuthorID: author.Id}).Error)
	assert.NotNil(t, db.Create(&model.Follow{UserID: user.Id, AuthorID: author.Id}).Error)
}

func TestForeignKeysCascade(t *testing.T) {
	db, _ := CreateTempDB(t)
	author := TestCreateUser(t, db, "author")
	reader := TestCreateUser(t, db, "reader")
	group := TestCreateGroup(t, db, "Group", "group", "")
	post := TestCreatePost(t, db, "text", author, group)
	require.Nil(t, db.Create(&model.Follow{UserID: reader.Id, AuthorID: author.Id}).Error)

	// dangling references are rejected
	assert.NotNil(t, db.Omit(clause.Associations).Create(&model.Post{Text: "orphan", AuthorID: 9999}).Error)

	require.Nil(t, db.Delete(&model.Group{}, group.Id).Error)
	var kept model.Post
	require.Nil(t, db.First(&kept, post.Id).Error)
	assert.Nil(t, kept.GroupID)

	require.Nil(t, db.Delete(&model.User{}, author.Id).Error)
	var count int64
	require.Nil(t, db.Model(&model.Post{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
	require.Nil(t, db.Model(&model.Follow{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}
