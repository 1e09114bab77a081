package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/quillfeed/quillfeed-backend/chat"
	"github.com/quillfeed/quillfeed-backend/model"
	Logger "github.com/quillfeed/quillfeed-backend/utils/log"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Origin enforcement happens at the gateway.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// chatWebsocket upgrades the connection and serves it until it drops. The
// peer is named by the contact_id query parameter; both sides of the pair
// resolve to the same room.
func chatWebsocket(c *gin.Context, s *Server, requester model.Author) {
	contactID := c.Query("contact_id")
	if contactID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"contact_id": "Contact id is required."})
		return
	}

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		Logger.Log.Errorf("chat: upgrade failed for %s: %v", requester.Id, err)
		return
	}

	session := chat.NewSession(s.Hub, ws, s.DB, s.Status, requester.Id, contactID)
	session.Serve()
}

type chatPageView struct {
	model.ChatPage
	Unread bool `json:"unread"`
}

// listChatPages returns the pages the requester participates in, flagging
// the ones with messages newer than the requester's last-seen mark. The
// unread flag is best effort: without Redis every page with messages counts
// as unread.
func listChatPages(c *gin.Context, s *Server, requester model.Author) {
	var pages []model.ChatPage
	err := s.DB.
		Where("name LIKE ? OR name LIKE ?", requester.Id+":%", "%:"+requester.Id).
		Order("created_at DESC").
		Find(&pages).Error
	if err != nil {
		writeError(c, err)
		return
	}

	names := make([]string, 0, len(pages))
	pageIds := make([]string, 0, len(pages))
	for _, page := range pages {
		names = append(names, page.Name)
		pageIds = append(pageIds, page.Id)
	}

	lastMessageAt := map[string]time.Time{}
	if len(pageIds) > 0 {
		var rows []struct {
			ChatPageID string
			LastAt     time.Time
		}
		err = s.DB.Model(&model.Message{}).
			Select("chat_page_id, MAX(created_at) AS last_at").
			Where("chat_page_id IN ?", pageIds).
			Group("chat_page_id").
			Scan(&rows).Error
		if err != nil {
			writeError(c, err)
			return
		}
		for _, row := range rows {
			lastMessageAt[row.ChatPageID] = row.LastAt
		}
	}

	seenAt := map[string]time.Time{}
	if s.Status != nil {
		if seen, err := s.Status.GetPagesSeenAt(c.Request.Context(), requester.Id, names); err == nil {
			seenAt = seen
		} else {
			Logger.Log.Warnf("chat: fail to read seen statuses for %s: %v", requester.Id, err)
		}
	}

	views := make([]chatPageView, 0, len(pages))
	for _, page := range pages {
		last, hasMessages := lastMessageAt[page.Id]
		seen, hasSeen := seenAt[page.Name]
		views = append(views, chatPageView{
			ChatPage: page,
			Unread:   hasMessages && (!hasSeen || last.After(seen)),
		})
	}
	c.JSON(http.StatusOK, views)
}

func deleteChatPage(c *gin.Context, s *Server, requester model.Author) {
	var page model.ChatPage
	res := s.DB.Where("id = ?", c.Param("id")).First(&page)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Chat page not found."})
		return
	}
	if res.Error != nil {
		writeError(c, res.Error)
		return
	}
	if !chat.IsParticipant(page.Name, requester.Id) {
		writeError(c, errForbidden)
		return
	}
	// Messages survive, their page reference is nulled by the constraint.
	if err := s.DB.Delete(&page).Error; err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
