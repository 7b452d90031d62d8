package model

import (
	"time"

	"gorm.io/gorm"
)

/*

Comment is a piece of text a user left under a post

Id: primary key
CreatedAt: time when the comment is created, comments are listed oldest first
Text: comment body, never empty
AuthorID:
Author: user who wrote the comment, "belongs-to" relation
PostID:
Post: commented post, "belongs-to" relation, deleting the post deletes its comments

*/
type Comment struct {
	Id        uint `gorm:"primaryKey"`
	CreatedAt time.Time
	Text      string `gorm:"not null"`
	AuthorID  uint   `gorm:"not null"`
	Author    User   `gorm:"foreignKey:AuthorID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	PostID    uint   `gorm:"not null;index"`
	Post      Post   `gorm:"foreignKey:PostID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

// CommentsOldestFirst is the default ordering of comments under a post.
func CommentsOldestFirst(db *gorm.DB) *gorm.DB {
	return db.Order("comments.created_at asc").Order("comments.id asc")
}
