package model

import (
	"time"

	"github.com/quillfeed/quillfeed-backend/access"
)

/*

Subscription is a directed edge of the follow graph

Id: primary key
CreatedAt: time when relation is created, relation lists are ordered by it

SubscriberID: author who follows, "belongs-to" relation
TargetID: author being followed, "belongs-to" relation

At most one edge may exist per ordered (subscriber, target) pair, enforced by
the composite unique index. The edge is directed: it does not imply the
reverse relation.

*/

type Subscription struct {
	Id        string    `gorm:"primaryKey"`
	CreatedAt time.Time `gorm:"<-:create"`

	SubscriberID string  `json:"subscriber_id" gorm:"uniqueIndex:idx_subscriber_target"`
	Subscriber   *Author `json:"subscriber,omitempty" gorm:"foreignKey:SubscriberID;constraint:OnDelete:CASCADE;"`
	TargetID     string  `json:"target_id" gorm:"uniqueIndex:idx_subscriber_target"`
	Target       *Author `json:"target,omitempty" gorm:"foreignKey:TargetID;constraint:OnDelete:CASCADE;"`
}

// Both endpoints may read or destroy the edge: the subscriber unsubscribes,
// the target evicts a follower.
func (s Subscription) Authorize(requesterID string, action access.Action) bool {
	return requesterID == s.SubscriberID || requesterID == s.TargetID
}

var _ access.Object = Subscription{}
