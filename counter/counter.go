package counter

// Counter maintenance for the denormalized counts on Author and Article
// rows. Deltas are applied by the storage layer itself (UPDATE ... SET count
// = count + n), never read-modify-write from application memory, so
// concurrent mutators of the same row cannot lose updates. Callers must pass
// the transaction that also carries the relation change: a failed delta
// rolls the relation change back with it.

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/quillfeed/quillfeed-backend/model"
)

// Author counter columns.
const (
	AuthorSubscribers   = "subscribers_count"
	AuthorSubscriptions = "subscriptions_count"
	AuthorArticles      = "articles_count"
)

// BumpAuthor applies a signed delta to one counter column of the author row.
func BumpAuthor(tx *gorm.DB, authorID string, column string, delta int) error {
	res := tx.Model(&model.Author{}).
		Where("id = ?", authorID).
		UpdateColumn(column, gorm.Expr(column+" + ?", delta))
	if res.Error != nil {
		return errors.Wrapf(res.Error, "fail to update %s for author %s", column, authorID)
	}
	if res.RowsAffected != 1 {
		return errors.Errorf("author %s not found while updating %s", authorID, column)
	}
	return nil
}

// BumpArticleLikes applies a signed delta to the article's likes counter.
func BumpArticleLikes(tx *gorm.DB, articleID string, delta int) error {
	res := tx.Model(&model.Article{}).
		Where("id = ?", articleID).
		UpdateColumn("likes_count", gorm.Expr("likes_count + ?", delta))
	if res.Error != nil {
		return errors.Wrapf(res.Error, "fail to update likes_count for article %s", articleID)
	}
	if res.RowsAffected != 1 {
		return errors.Errorf("article %s not found while updating likes_count", articleID)
	}
	return nil
}

// RecountAuthor recomputes all three author counters from the source-of-truth
// tables. Not part of any hot path, only for repair after manual data
// surgery.
func RecountAuthor(db *gorm.DB, authorID string) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var subscribers, subscriptions, articles int64
		if err := tx.Model(&model.Subscription{}).Where("target_id = ?", authorID).Count(&subscribers).Error; err != nil {
			return err
		}
		if err := tx.Model(&model.Subscription{}).Where("subscriber_id = ?", authorID).Count(&subscriptions).Error; err != nil {
			return err
		}
		if err := tx.Model(&model.Article{}).Where("author_id = ?", authorID).Count(&articles).Error; err != nil {
			return err
		}
		res := tx.Model(&model.Author{}).Where("id = ?", authorID).UpdateColumns(map[string]interface{}{
			AuthorSubscribers:   subscribers,
			AuthorSubscriptions: subscriptions,
			AuthorArticles:      articles,
		})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected != 1 {
			return errors.Errorf("author %s not found during recount", authorID)
		}
		return nil
	})
}

// RecountArticleLikes recomputes the article's likes counter from LikedItem
// rows.
func RecountArticleLikes(db *gorm.DB, articleID string) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var likes int64
		if err := tx.Model(&model.LikedItem{}).Where("article_id = ?", articleID).Count(&likes).Error; err != nil {
			return err
		}
		res := tx.Model(&model.Article{}).Where("id = ?", articleID).UpdateColumn("likes_count", likes)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected != 1 {
			return errors.Errorf("article %s not found during recount", articleID)
		}
		return nil
	})
}
