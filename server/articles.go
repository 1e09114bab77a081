package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/quillfeed/quillfeed-backend/access"
	"github.com/quillfeed/quillfeed-backend/content"
	"github.com/quillfeed/quillfeed-backend/model"
	"github.com/quillfeed/quillfeed-backend/visibility"
)

type ArticleCreateRequest struct {
	Title   string `json:"title" binding:"required"`
	Content string `json:"content"`
}

func authorizeArticleOwner(c *gin.Context, s *Server, requester model.Author) error {
	var article model.Article
	res := s.DB.Where("id = ?", c.Param("id")).First(&article)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return content.ErrArticleNotFound
	}
	if res.Error != nil {
		return res.Error
	}
	if !access.Allowed(article, requester.Id, access.ActionWrite) {
		return errForbidden
	}
	return nil
}

// authorizeVisibleArticle gates like/dislike: the article must be in the
// requester's visible set.
func authorizeVisibleArticle(c *gin.Context, s *Server, requester model.Author) error {
	_, err := visibility.ArticleFor(s.DB, requester.Id, c.Param("id"))
	return err
}

func listArticles(c *gin.Context, s *Server, requester model.Author) {
	articles, err := visibility.ArticlesFor(s.DB, requester.Id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, articles)
}

func getArticle(c *gin.Context, s *Server, requester model.Author) {
	article, err := visibility.ArticleFor(s.DB, requester.Id, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, article)
}

func createArticle(c *gin.Context, s *Server, requester model.Author) {
	var req ArticleCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"title": "Title is required."})
		return
	}

	article, err := content.CreateArticle(s.DB, requester.Id, req.Title, req.Content)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, article)
}

func updateArticle(c *gin.Context, s *Server, requester model.Author) {
	var update content.ArticleUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	article, err := content.UpdateArticle(s.DB, c.Param("id"), requester.Id, update)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, article)
}

func deleteArticle(c *gin.Context, s *Server, requester model.Author) {
	if err := content.DeleteArticle(s.DB, c.Param("id"), requester.Id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
