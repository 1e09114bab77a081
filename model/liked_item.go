package model

import (
	"time"

	"github.com/quillfeed/quillfeed-backend/access"
)

/*

LikedItem is a "many-to-many" relation of an author liking an article

AuthorID: liking author
ArticleID: liked article
CreatedAt: time when relation is created

The composite primary key makes a second like of the same pair a constraint
violation rather than a silent success.

*/

type LikedItem struct {
	AuthorID  string `json:"author_id" gorm:"primaryKey"`
	ArticleID string `json:"article_id" gorm:"primaryKey"`
	CreatedAt time.Time

	Article *Article `json:"article,omitempty" gorm:"foreignKey:ArticleID;constraint:OnDelete:CASCADE;"`
}

// The liking author owns the row. The article's author counts as a party for
// reads when the article is preloaded.
func (l LikedItem) Authorize(requesterID string, action access.Action) bool {
	if action == access.ActionRead && l.Article != nil && requesterID == l.Article.AuthorID {
		return true
	}
	return requesterID == l.AuthorID
}

var _ access.Object = LikedItem{}
