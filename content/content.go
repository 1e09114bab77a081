package content

// Content store for articles and likes. Article and like mutations carry
// their counter deltas in the same transaction, mirroring the graph package.

import (
	"time"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/quillfeed/quillfeed-backend/access"
	"github.com/quillfeed/quillfeed-backend/counter"
	"github.com/quillfeed/quillfeed-backend/model"
	"github.com/quillfeed/quillfeed-backend/utils"
)

var (
	// ErrArticleNotFound is returned when the article does not exist. The
	// visibility package returns the same error for articles the viewer may
	// not see, so callers cannot probe for hidden articles.
	ErrArticleNotFound = errors.New("article not found")
	// ErrNotOwner is returned when the editor is not the article's author.
	ErrNotOwner = errors.New("only the author may modify this article")
	// ErrDuplicateLike is returned when the (author, article) pair is already
	// liked. Likes are idempotence-checked, not silently absorbed.
	ErrDuplicateLike = errors.New("article already liked")
	// ErrLikeNotFound is returned by unlike when no like exists for the pair.
	ErrLikeNotFound = errors.New("like not found")
)

// ArticleUpdate carries the editable fields of an article. Nil fields are
// left untouched, so the same type serves PUT and PATCH.
type ArticleUpdate struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
}

// CreateArticle creates an article owned by the author and bumps the
// author's article counter.
func CreateArticle(db *gorm.DB, authorID string, title string, content string) (*model.Article, error) {
	article := &model.Article{
		Id:        uuid.New().String(),
		CreatedAt: time.Now(),
		Title:     title,
		Content:   content,
		AuthorID:  authorID,
	}
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(article).Error; err != nil {
			return err
		}
		return counter.BumpAuthor(tx, authorID, counter.AuthorArticles, 1)
	})
	if err != nil {
		return nil, err
	}
	return article, nil
}

// UpdateArticle applies the non-nil fields to the article. Only the owning
// author may edit.
func UpdateArticle(db *gorm.DB, articleID string, editorID string, update ArticleUpdate) (*model.Article, error) {
	var article model.Article
	res := db.Where("id = ?", articleID).First(&article)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, ErrArticleNotFound
	}
	if res.Error != nil {
		return nil, res.Error
	}
	if !access.Allowed(article, editorID, access.ActionWrite) {
		return nil, ErrNotOwner
	}

	if err := copier.CopyWithOption(&article, &update, copier.Option{IgnoreEmpty: true}); err != nil {
		return nil, err
	}
	// Only the editable columns. likes_count belongs to the atomic-delta
	// path, a full-row write here would revert a concurrent like.
	err := db.Model(&article).
		Select("title", "content", "updated_at").
		Updates(model.Article{Title: article.Title, Content: article.Content}).Error
	if err != nil {
		return nil, err
	}
	return &article, nil
}

// DeleteArticle deletes the article and decrements the owner's article
// counter. LikedItem rows referencing the article are removed by the cascade
// constraint.
func DeleteArticle(db *gorm.DB, articleID string, editorID string) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var article model.Article
		res := tx.Where("id = ?", articleID).First(&article)
		if errors.Is(res.Error, gorm.ErrRecordNotFound) {
			return ErrArticleNotFound
		}
		if res.Error != nil {
			return res.Error
		}
		if !access.Allowed(article, editorID, access.ActionWrite) {
			return ErrNotOwner
		}
		if err := tx.Delete(&article).Error; err != nil {
			return err
		}
		return counter.BumpAuthor(tx, article.AuthorID, counter.AuthorArticles, -1)
	})
}

// Like creates the (author, article) like and bumps the article's like
// counter. A second like of the same pair fails with ErrDuplicateLike.
func Like(db *gorm.DB, articleID string, authorID string) (*model.LikedItem, error) {
	like := &model.LikedItem{
		AuthorID:  authorID,
		ArticleID: articleID,
		CreatedAt: time.Now(),
	}
	err := db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.Article{}).Where("id = ?", articleID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrArticleNotFound
		}
		if err := tx.Model(&model.LikedItem{}).
			Where("author_id = ? AND article_id = ?", authorID, articleID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrDuplicateLike
		}
		if err := tx.Create(like).Error; err != nil {
			// Concurrent like of the same pair, the composite key decides.
			if utils.IsUniqueViolation(err) {
				return ErrDuplicateLike
			}
			return err
		}
		return counter.BumpArticleLikes(tx, articleID, 1)
	})
	if err != nil {
		return nil, err
	}
	return like, nil
}

// Unlike deletes the (author, article) like and decrements the article's
// like counter.
func Unlike(db *gorm.DB, articleID string, authorID string) error {
	return db.Transaction(func(tx *gorm.DB) error {
		res := tx.Where("author_id = ? AND article_id = ?", authorID, articleID).
			Delete(&model.LikedItem{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrLikeNotFound
		}
		return counter.BumpArticleLikes(tx, articleID, -1)
	})
}
