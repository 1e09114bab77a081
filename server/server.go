package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/quillfeed/quillfeed-backend/chat"
	"github.com/quillfeed/quillfeed-backend/model"
	"github.com/quillfeed/quillfeed-backend/utils"
)

// Server carries the dependencies every handler needs.
type Server struct {
	DB     *gorm.DB
	Hub    *chat.Hub
	Status *utils.RedisStatusStore
}

func New(db *gorm.DB, hub *chat.Hub, status *utils.RedisStatusStore) *Server {
	return &Server{DB: db, Hub: hub, Status: status}
}

// operation declares one endpoint as data: how a request is authorized and
// which handler shapes the response. The table is resolved once at
// registration, there is no runtime switching on an action tag.
type operation struct {
	name      string
	method    string
	path      string
	authorize func(c *gin.Context, s *Server, requester model.Author) error
	handle    func(c *gin.Context, s *Server, requester model.Author)
}

func (s *Server) operations() []operation {
	return []operation{
		{name: "author.list", method: http.MethodGet, path: "/authors", handle: listAuthors},
		{name: "author.get", method: http.MethodGet, path: "/authors/:id", handle: getAuthor},
		{name: "author.update", method: http.MethodPut, path: "/authors/:id", authorize: authorizeAuthorOwner, handle: updateAuthor},
		{name: "author.patch", method: http.MethodPatch, path: "/authors/:id", authorize: authorizeAuthorOwner, handle: updateAuthor},
		{name: "author.subscriptions", method: http.MethodGet, path: "/authors/:id/subscriptions", authorize: authorizeAuthorContent, handle: listAuthorSubscriptions},
		{name: "author.subscribers", method: http.MethodGet, path: "/authors/:id/subscribers", authorize: authorizeAuthorContent, handle: listAuthorSubscribers},
		{name: "author.articles", method: http.MethodGet, path: "/authors/:id/articles", authorize: authorizeAuthorContent, handle: listAuthorArticles},

		{name: "subscription.list", method: http.MethodGet, path: "/subscriptions", handle: listSubscriptions},
		{name: "subscription.create", method: http.MethodPost, path: "/subscriptions", handle: createSubscription},
		{name: "subscription.unsubscribe", method: http.MethodDelete, path: "/subscriptions/unsubscribe", handle: unsubscribe},
		{name: "subscription.remove", method: http.MethodDelete, path: "/subscriptions/remove", handle: removeFollower},

		{name: "article.list", method: http.MethodGet, path: "/articles", handle: listArticles},
		{name: "article.get", method: http.MethodGet, path: "/articles/:id", handle: getArticle},
		{name: "article.create", method: http.MethodPost, path: "/articles", handle: createArticle},
		{name: "article.update", method: http.MethodPut, path: "/articles/:id", authorize: authorizeArticleOwner, handle: updateArticle},
		{name: "article.patch", method: http.MethodPatch, path: "/articles/:id", authorize: authorizeArticleOwner, handle: updateArticle},
		{name: "article.delete", method: http.MethodDelete, path: "/articles/:id", authorize: authorizeArticleOwner, handle: deleteArticle},

		{name: "like.create", method: http.MethodPost, path: "/articles/:id/likes", authorize: authorizeVisibleArticle, handle: createLike},
		{name: "like.delete", method: http.MethodDelete, path: "/articles/:id/likes", authorize: authorizeVisibleArticle, handle: deleteLike},

		{name: "chat.ws", method: http.MethodGet, path: "/chat/ws", handle: chatWebsocket},
		{name: "chat.pages", method: http.MethodGet, path: "/chat/pages", handle: listChatPages},
		{name: "chat.page.delete", method: http.MethodDelete, path: "/chat/pages/:id", handle: deleteChatPage},
	}
}

// Register installs the operation table on the router.
func (s *Server) Register(router gin.IRoutes) {
	for _, op := range s.operations() {
		op := op
		router.Handle(op.method, op.path, func(c *gin.Context) {
			requester := currentAuthor(c)
			if op.authorize != nil {
				if err := op.authorize(c, s, requester); err != nil {
					writeError(c, err)
					return
				}
			}
			op.handle(c, s, requester)
		})
	}
}
