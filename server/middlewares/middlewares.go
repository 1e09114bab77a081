package middlewares

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/quillfeed/quillfeed-backend/model"
	"github.com/quillfeed/quillfeed-backend/utils"
)

// Key under which the resolved Author is stored in the gin context.
const ContextAuthorKey = "current_author"

// Identity resolves the authenticated principal on every request.
// Credential validation itself happens upstream (the auth gateway strips the
// JWT and forwards the verified identity), this middleware only maps the
// identity to its Author row, provisioning one on first sight. Websocket
// clients cannot set headers from a browser, so the query parameters are
// accepted as a fallback.
func Identity(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := utils.FallbackString(c.GetHeader("X-User-Id"), c.Query("user_id"))
		if userId == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"code": utils.ErrorIdentityAuthFail,
				"msg":  "missing identity",
			})
			c.Abort()
			return
		}
		email := utils.FallbackString(c.GetHeader("X-User-Email"), c.Query("user_email"))

		var author model.Author
		err := db.Where(model.Author{UserId: userId}).
			Attrs(model.Author{Id: uuid.New().String(), Email: email}).
			FirstOrCreate(&author).Error
		if utils.IsUniqueViolation(err) {
			// A concurrent first-sight request won the insert, take its row.
			err = db.Where(model.Author{UserId: userId}).First(&author).Error
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"code": utils.ErrorIdentityAuthFail,
				"msg":  "fail to resolve author",
			})
			c.Abort()
			return
		}

		c.Set(ContextAuthorKey, author)
		c.Next()
	}
}

// CurrentAuthor returns the Author resolved by the Identity middleware.
func CurrentAuthor(c *gin.Context) model.Author {
	return c.MustGet(ContextAuthorKey).(model.Author)
}
