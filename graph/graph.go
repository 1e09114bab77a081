package graph

// Graph store for the follow graph. Every edge mutation applies the matching
// counter deltas on both endpoint authors inside the same transaction, so
// counters and edges never diverge.

import (
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/quillfeed/quillfeed-backend/counter"
	"github.com/quillfeed/quillfeed-backend/model"
	"github.com/quillfeed/quillfeed-backend/utils"
)

var (
	// ErrSelfSubscription is returned when an author tries to subscribe to
	// itself.
	ErrSelfSubscription = errors.New("cannot subscribe to yourself")
	// ErrDuplicateEdge is returned when the ordered (subscriber, target) pair
	// already exists.
	ErrDuplicateEdge = errors.New("subscription already exists")
	// ErrEdgeNotFound is returned by unsubscribe/remove when no such edge
	// exists.
	ErrEdgeNotFound = errors.New("subscription not found")
	// ErrTargetNotFound is returned when the subscription target names no
	// author.
	ErrTargetNotFound = errors.New("target author not found")
)

// Subscribe creates the subscriber -> target edge and bumps both endpoint
// counters. All validation happens before any mutation.
func Subscribe(db *gorm.DB, subscriberID string, targetID string) (*model.Subscription, error) {
	if subscriberID == targetID {
		return nil, ErrSelfSubscription
	}

	sub := &model.Subscription{
		Id:           uuid.New().String(),
		CreatedAt:    time.Now(),
		SubscriberID: subscriberID,
		TargetID:     targetID,
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		var targets int64
		if err := tx.Model(&model.Author{}).Where("id = ?", targetID).Count(&targets).Error; err != nil {
			return err
		}
		if targets == 0 {
			return ErrTargetNotFound
		}
		exists, err := existsTx(tx, subscriberID, targetID)
		if err != nil {
			return err
		}
		if exists {
			return ErrDuplicateEdge
		}
		if err := tx.Create(sub).Error; err != nil {
			// A concurrent subscriber may have won the race between the check
			// and the insert. The unique index is the source of truth.
			if utils.IsUniqueViolation(err) {
				return ErrDuplicateEdge
			}
			return err
		}
		if err := counter.BumpAuthor(tx, subscriberID, counter.AuthorSubscriptions, 1); err != nil {
			return err
		}
		return counter.BumpAuthor(tx, targetID, counter.AuthorSubscribers, 1)
	})
	if err != nil {
		return nil, err
	}
	return sub, nil
}

// Unsubscribe deletes the subscriber -> target edge and decrements both
// endpoint counters.
func Unsubscribe(db *gorm.DB, subscriberID string, targetID string) error {
	return db.Transaction(func(tx *gorm.DB) error {
		res := tx.Where("subscriber_id = ? AND target_id = ?", subscriberID, targetID).
			Delete(&model.Subscription{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrEdgeNotFound
		}
		if err := counter.BumpAuthor(tx, subscriberID, counter.AuthorSubscriptions, -1); err != nil {
			return err
		}
		return counter.BumpAuthor(tx, targetID, counter.AuthorSubscribers, -1)
	})
}

// RemoveFollower is unsubscribe seen from the target's side: the target
// evicts one of its subscribers. Same edge, same counter deltas.
func RemoveFollower(db *gorm.DB, targetID string, subscriberID string) error {
	return Unsubscribe(db, subscriberID, targetID)
}

// SubscriptionsOf returns the authors the given author subscribes to, most
// recent edge first.
func SubscriptionsOf(db *gorm.DB, authorID string) ([]model.Author, error) {
	var authors []model.Author
	err := db.Model(&model.Subscription{}).
		Select("authors.*").
		Joins("INNER JOIN authors ON authors.id = subscriptions.target_id").
		Where("subscriptions.subscriber_id = ?", authorID).
		Order("subscriptions.created_at DESC").
		Find(&authors).Error
	return authors, err
}

// SubscribersOf returns the authors subscribed to the given author, most
// recent edge first.
func SubscribersOf(db *gorm.DB, authorID string) ([]model.Author, error) {
	var authors []model.Author
	err := db.Model(&model.Subscription{}).
		Select("authors.*").
		Joins("INNER JOIN authors ON authors.id = subscriptions.subscriber_id").
		Where("subscriptions.target_id = ?", authorID).
		Order("subscriptions.created_at DESC").
		Find(&authors).Error
	return authors, err
}

// Exists reports whether the subscriber -> target edge exists. Answered by
// the composite unique index, no row data is fetched.
func Exists(db *gorm.DB, subscriberID string, targetID string) (bool, error) {
	return existsTx(db, subscriberID, targetID)
}

func existsTx(tx *gorm.DB, subscriberID string, targetID string) (bool, error) {
	var count int64
	err := tx.Model(&model.Subscription{}).
		Where("subscriber_id = ? AND target_id = ?", subscriberID, targetID).
		Count(&count).Error
	return count > 0, err
}
