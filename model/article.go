package model

import (
	"time"

	"github.com/quillfeed/quillfeed-backend/access"
)

/*

Article is a data model for a published article

Id: primary key
CreatedAt: time when entity is created, visible-article lists are ordered by it
UpdatedAt: time when title or content is last edited

Title: article title
Content: article body
AuthorID: owning author, "belongs-to" relation, cascade on author deletion

LikesCount: denormalized count of LikedItem rows referencing this article,
maintained with atomic deltas in the same transaction as the like row

*/

type Article struct {
	Id        string    `gorm:"primaryKey"`
	CreatedAt time.Time `gorm:"<-:create"`
	UpdatedAt time.Time

	Title   string `json:"title"`
	Content string `json:"content"`

	AuthorID string  `json:"author_id" gorm:"index"`
	Author   *Author `json:"author,omitempty" gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE;"`

	LikesCount int `json:"likes_count" gorm:"default:0"`
}

// Only the owning author may edit or delete. Read access depends on the
// viewer's subscriptions, evaluated by the visibility package.
func (a Article) Authorize(requesterID string, action access.Action) bool {
	if action == access.ActionRead {
		return true
	}
	return requesterID == a.AuthorID
}

var _ access.Object = Article{}
