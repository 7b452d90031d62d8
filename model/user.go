package model

import "time"

/*

User is a registered member of the blog

Id: primary key, use to identify a user
CreatedAt: time when the user signed up
Username: unique login name, also used in profile urls
FirstName, LastName, Email: optional profile info
PasswordHash: bcrypt hash of the password, never rendered

*/
type User struct {
	Id           uint `gorm:"primaryKey"`
	CreatedAt    time.Time
	Username     string `gorm:"uniqueIndex;size:150;not null"`
	FirstName    string `gorm:"size:150"`
	LastName     string `gorm:"size:150"`
	Email        string `gorm:"size:254"`
	PasswordHash string `json:"-"`
}

func (u User) String() string {
	return u.Username
}

// FullName is "First Last", or the username when neither is set.
func (u User) FullName() string {
	switch {
	case u.FirstName != "" && u.LastName != "":
		return u.FirstName + " " + u.LastName
	case u.FirstName != "":
		return u.FirstName
	case u.LastName != "":
		return u.LastName
	}
	return u.Username
}
