package model

import (
	"time"

	"gorm.io/gorm"
)

const shortTextLength = 15

/*

Post is a single piece of content written by a user

Id: primary key, use to identify a post, exposed in /posts/<id>/
CreatedAt: publication time, posts are listed newest first

Text: post body in plain text, never empty
AuthorID:
Author: user who wrote the post, "belongs-to" relation, deleting the user deletes the post
GroupID:
Group: optional group the post is published in, "belongs-to" relation, deleting the group unsets it
Image: key of the uploaded image in the file store, empty if no image

*/
type Post struct {
	Id        uint      `gorm:"primaryKey"`
	CreatedAt time.Time `gorm:"index"`
	Text      string    `gorm:"not null"`
	AuthorID  uint      `gorm:"not null;index"`
	Author    User      `gorm:"foreignKey:AuthorID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	GroupID   *uint     `gorm:"index"`
	Group     *Group    `gorm:"foreignKey:GroupID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;"`
	Image     string
}

// ShortText is the first few characters of the post, used as its display name.
func (p Post) ShortText() string {
	runes := []rune(p.Text)
	if len(runes) <= shortTextLength {
		return p.Text
	}
	return string(runes[:shortTextLength])
}

func (p Post) String() string {
	return p.ShortText()
}

// HasGroup is true iff the post is published into a group.
func (p Post) HasGroup() bool {
	return p.GroupID != nil
}

// PostsNewestFirst is the default ordering of any post listing.
func PostsNewestFirst(db *gorm.DB) *gorm.DB {
	return db.Order("posts.created_at desc").Order("posts.id desc")
}

// PostsWithRelations preloads everything a post card renders.
func PostsWithRelations(db *gorm.DB) *gorm.DB {
	return db.Preload("Author").Preload("Group")
}
