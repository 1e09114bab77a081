package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/quillfeed/quillfeed-backend/graph"
	"github.com/quillfeed/quillfeed-backend/model"
)

type SubscriptionCreateRequest struct {
	TargetID string `json:"target_id" binding:"required"`
}

type UnsubscribeRequest struct {
	TargetID string `json:"target_id" binding:"required"`
}

type RemoveFollowerRequest struct {
	SubscriberID string `json:"subscriber_id" binding:"required"`
}

// listSubscriptions returns the edges the requester is a party of, either
// side, most recent first.
func listSubscriptions(c *gin.Context, s *Server, requester model.Author) {
	var subs []model.Subscription
	err := s.DB.Preload("Subscriber").Preload("Target").
		Where("subscriber_id = ? OR target_id = ?", requester.Id, requester.Id).
		Order("created_at DESC").
		Find(&subs).Error
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, subs)
}

func createSubscription(c *gin.Context, s *Server, requester model.Author) {
	var req SubscriptionCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"target": "Target id is required."})
		return
	}

	sub, err := graph.Subscribe(s.DB, requester.Id, req.TargetID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, sub)
}

func unsubscribe(c *gin.Context, s *Server, requester model.Author) {
	var req UnsubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"target": "Target id is required."})
		return
	}

	if err := graph.Unsubscribe(s.DB, requester.Id, req.TargetID); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// removeFollower evicts one of the requester's subscribers.
func removeFollower(c *gin.Context, s *Server, requester model.Author) {
	var req RemoveFollowerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"subscriber": "Subscriber id is required."})
		return
	}

	if err := graph.RemoveFollower(s.DB, requester.Id, req.SubscriberID); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
