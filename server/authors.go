package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/copier"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/quillfeed/quillfeed-backend/access"
	"github.com/quillfeed/quillfeed-backend/graph"
	"github.com/quillfeed/quillfeed-backend/model"
	"github.com/quillfeed/quillfeed-backend/visibility"
)

// AuthorUpdate carries the editable profile fields. Nil fields are left
// untouched, so the same type serves PUT and PATCH.
type AuthorUpdate struct {
	Bio       *string `json:"bio"`
	IsPrivate *bool   `json:"is_private"`
}

// resolveAuthorID maps the "me" alias to the requester.
func resolveAuthorID(c *gin.Context, requester model.Author) string {
	id := c.Param("id")
	if id == "me" {
		return requester.Id
	}
	return id
}

func loadAuthor(db *gorm.DB, id string) (*model.Author, error) {
	var author model.Author
	res := db.Where("id = ?", id).First(&author)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, visibility.ErrAuthorNotFound
	}
	if res.Error != nil {
		return nil, res.Error
	}
	return &author, nil
}

func authorizeAuthorOwner(c *gin.Context, s *Server, requester model.Author) error {
	author, err := loadAuthor(s.DB, resolveAuthorID(c, requester))
	if err != nil {
		return err
	}
	if !access.Allowed(author, requester.Id, access.ActionWrite) {
		return errForbidden
	}
	return nil
}

func authorizeAuthorContent(c *gin.Context, s *Server, requester model.Author) error {
	ok, err := visibility.HasAccessAuthorContent(s.DB, requester.Id, resolveAuthorID(c, requester))
	if err != nil {
		return err
	}
	if !ok {
		return errForbidden
	}
	return nil
}

func listAuthors(c *gin.Context, s *Server, requester model.Author) {
	query := s.DB.Model(&model.Author{}).Order("created_at DESC")
	if search := c.Query("search"); search != "" {
		query = query.Where("email ILIKE ?", "%"+search+"%")
	}

	var authors []model.Author
	if err := query.Find(&authors).Error; err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, authors)
}

func getAuthor(c *gin.Context, s *Server, requester model.Author) {
	author, err := loadAuthor(s.DB, resolveAuthorID(c, requester))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, author)
}

func updateAuthor(c *gin.Context, s *Server, requester model.Author) {
	var update AuthorUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	author, err := loadAuthor(s.DB, resolveAuthorID(c, requester))
	if err != nil {
		writeError(c, err)
		return
	}
	if err := copier.CopyWithOption(author, &update, copier.Option{IgnoreEmpty: true}); err != nil {
		writeError(c, err)
		return
	}
	// Only the editable columns. The counter columns belong to the
	// atomic-delta path, a full-row write here would revert a concurrent
	// subscribe or publish.
	err = s.DB.Model(author).
		Select("bio", "is_private", "updated_at").
		Updates(model.Author{Bio: author.Bio, IsPrivate: author.IsPrivate}).Error
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, author)
}

func listAuthorSubscriptions(c *gin.Context, s *Server, requester model.Author) {
	authors, err := graph.SubscriptionsOf(s.DB, resolveAuthorID(c, requester))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, authors)
}

func listAuthorSubscribers(c *gin.Context, s *Server, requester model.Author) {
	authors, err := graph.SubscribersOf(s.DB, resolveAuthorID(c, requester))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, authors)
}

func listAuthorArticles(c *gin.Context, s *Server, requester model.Author) {
	var articles []model.Article
	err := s.DB.Where("author_id = ?", resolveAuthorID(c, requester)).
		Order("created_at DESC").
		Find(&articles).Error
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, articles)
}
