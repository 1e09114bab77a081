package visibility

// Visibility engine. An article is visible to a viewer when ANY of three
// predicates holds: the viewer wrote it, the viewer subscribes to its
// author, or the author is public. The rule is a set union, not a filter
// chain with precedence. Nothing here is cached across requests: edges
// change too often relative to read volume for a cache to stay honest.

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/quillfeed/quillfeed-backend/content"
	"github.com/quillfeed/quillfeed-backend/graph"
	"github.com/quillfeed/quillfeed-backend/model"
)

// ErrAuthorNotFound is returned when the author being checked does not
// exist.
var ErrAuthorNotFound = errors.New("author not found")

// visibleScope restricts an article query to the viewer's visible set:
// own articles, articles of subscribed-to authors, articles of public
// authors.
func visibleScope(db *gorm.DB, viewerID string) *gorm.DB {
	subscribedTo := db.Session(&gorm.Session{NewDB: true}).
		Model(&model.Subscription{}).
		Select("target_id").
		Where("subscriber_id = ?", viewerID)

	return db.Model(&model.Article{}).
		Joins("INNER JOIN authors ON authors.id = articles.author_id").
		Where(
			db.Session(&gorm.Session{NewDB: true}).
				Where("articles.author_id = ?", viewerID).
				Or("authors.is_private = ?", false).
				Or("articles.author_id IN (?)", subscribedTo),
		)
}

// ArticlesFor returns the viewer's visible article set, newest first.
func ArticlesFor(db *gorm.DB, viewerID string) ([]model.Article, error) {
	var articles []model.Article
	err := visibleScope(db, viewerID).
		Order("articles.created_at DESC").
		Find(&articles).Error
	return articles, err
}

// ArticleFor returns one article if the viewer may see it. A hidden article
// is indistinguishable from a missing one.
func ArticleFor(db *gorm.DB, viewerID string, articleID string) (*model.Article, error) {
	var article model.Article
	res := visibleScope(db, viewerID).
		Where("articles.id = ?", articleID).
		First(&article)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, content.ErrArticleNotFound
	}
	if res.Error != nil {
		return nil, res.Error
	}
	return &article, nil
}

// HasAccessAuthorContent answers whether the viewer may read the author's
// gated content: subscriber list, subscription list and article list.
// viewer == author OR viewer subscribes to author OR author is public.
func HasAccessAuthorContent(db *gorm.DB, viewerID string, authorID string) (bool, error) {
	if viewerID == authorID {
		return true, nil
	}

	var author model.Author
	res := db.Select("id", "is_private").Where("id = ?", authorID).First(&author)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return false, ErrAuthorNotFound
	}
	if res.Error != nil {
		return false, res.Error
	}
	if !author.IsPrivate {
		return true, nil
	}

	return graph.Exists(db, viewerID, authorID)
}
