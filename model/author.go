package model

import (
	"time"

	"github.com/quillfeed/quillfeed-backend/access"
)

/*

Author is a data model for a publishing identity, one-to-one with an account
in the identity provider

Id: primary key, use to identify an author
CreatedAt: time when entity is created
UpdatedAt: time when the profile is last updated

UserId: id of the linked account, unique, resolved by the identity middleware
Email: email of the linked account, used for author search
Bio: profile bio, free text
IsPrivate: when true, the author's articles and relation lists are visible
only to the author and its subscribers

SubscribersCount: number of authors subscribed to this author
SubscriptionsCount: number of authors this author subscribes to
ArticlesCount: number of articles this author published

The three counters are denormalized and always equal the cardinality of the
underlying relation. Every write path touching the relation must apply the
matching atomic delta inside the same transaction, see the counter package.

*/

type Author struct {
	Id        string    `gorm:"primaryKey"`
	CreatedAt time.Time `gorm:"<-:create"`
	UpdatedAt time.Time
	UserId    string `json:"user_id" gorm:"uniqueIndex"`
	Email     string `json:"email"`
	Bio       string `json:"bio"`
	IsPrivate bool   `json:"is_private" gorm:"default:FALSE"`

	SubscribersCount   int `json:"subscribers_count" gorm:"default:0"`
	SubscriptionsCount int `json:"subscriptions_count" gorm:"default:0"`
	ArticlesCount      int `json:"articles_count" gorm:"default:0"`
}

// Only the author itself may mutate its profile. Reads are gated by the
// visibility predicate, not here.
func (a Author) Authorize(requesterID string, action access.Action) bool {
	if action == access.ActionRead {
		return true
	}
	return requesterID == a.Id
}

var _ access.Object = Author{}
