package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"

	"github.com/quillfeed/quillfeed-backend/content"
	"github.com/quillfeed/quillfeed-backend/graph"
	"github.com/quillfeed/quillfeed-backend/server/middlewares"
	"github.com/quillfeed/quillfeed-backend/visibility"
	Logger "github.com/quillfeed/quillfeed-backend/utils/log"

	"github.com/quillfeed/quillfeed-backend/model"
)

// errForbidden maps to 403 for requests that fail an authorizer.
var errForbidden = errors.New("forbidden")

func currentAuthor(c *gin.Context) model.Author {
	return middlewares.CurrentAuthor(c)
}

// writeError translates the domain error taxonomy into HTTP responses with
// field-scoped bodies. Validation errors name the offending field.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, graph.ErrSelfSubscription):
		c.JSON(http.StatusBadRequest, gin.H{"target": "You cannot subscribe to yourself."})
	case errors.Is(err, graph.ErrDuplicateEdge):
		c.JSON(http.StatusBadRequest, gin.H{"target": "You are already subscribed to this author."})
	case errors.Is(err, graph.ErrEdgeNotFound):
		c.JSON(http.StatusNotFound, gin.H{"detail": "Subscription not found."})
	case errors.Is(err, graph.ErrTargetNotFound):
		c.JSON(http.StatusNotFound, gin.H{"detail": "Author not found."})
	case errors.Is(err, content.ErrDuplicateLike):
		c.JSON(http.StatusBadRequest, gin.H{"article": "You already liked this article."})
	case errors.Is(err, content.ErrLikeNotFound):
		c.JSON(http.StatusNotFound, gin.H{"detail": "Like not found."})
	case errors.Is(err, content.ErrArticleNotFound):
		c.JSON(http.StatusNotFound, gin.H{"detail": "Article not found."})
	case errors.Is(err, visibility.ErrAuthorNotFound):
		c.JSON(http.StatusNotFound, gin.H{"detail": "Author not found."})
	case errors.Is(err, content.ErrNotOwner), errors.Is(err, errForbidden):
		c.JSON(http.StatusForbidden, gin.H{"detail": "You do not have permission to perform this action."})
	default:
		Logger.Log.Errorf("internal error on %s: %v", c.FullPath(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Internal server error."})
	}
}
