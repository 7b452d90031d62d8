package model

import "time"

/*

Follow is a directed subscription from a user to an author

UserID:
User: the follower
AuthorID:
Author: the followed user
CreatedAt: time when the subscription is created

(UserID, AuthorID) is unique, following the same author twice is a no-op.

*/
type Follow struct {
	Id        uint `gorm:"primaryKey"`
	CreatedAt time.Time
	UserID    uint `gorm:"not null;uniqueIndex:idx_follow_user_author"`
	User      User `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	AuthorID  uint `gorm:"not null;uniqueIndex:idx_follow_user_author;index"`
	Author    User `gorm:"foreignKey:AuthorID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

// AllModels lists every model managed by auto migration, parents first.
func AllModels() []interface{} {
	return []interface{}{&User{}, &Group{}, &Post{}, &Comment{}, &Follow{}}
}
