package model

/*

Group is a category posts can be published into

Id: primary key, use to identify a group
Title: display name
Slug: unique url-safe identifier, used in /group/<slug>/
Description: free text shown on top of the group page

*/
type Group struct {
	Id          uint   `gorm:"primaryKey"`
	Title       string `gorm:"size:200;not null"`
	Slug        string `gorm:"uniqueIndex;size:100;not null"`
	Description string
}

func (g Group) String() string {
	return g.Title
}
