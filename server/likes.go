package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/quillfeed/quillfeed-backend/content"
	"github.com/quillfeed/quillfeed-backend/model"
)

func createLike(c *gin.Context, s *Server, requester model.Author) {
	like, err := content.Like(s.DB, c.Param("id"), requester.Id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, like)
}

func deleteLike(c *gin.Context, s *Server, requester model.Author) {
	if err := content.Unlike(s.DB, c.Param("id"), requester.Id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
