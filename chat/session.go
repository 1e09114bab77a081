package chat

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"gorm.io/gorm"

	"github.com/quillfeed/quillfeed-backend/model"
	"github.com/quillfeed/quillfeed-backend/utils"
	Logger "github.com/quillfeed/quillfeed-backend/utils/log"
)

const (
	// Time allowed to write a frame to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum inbound frame size.
	maxFrameSize = 4096

	// Outbound queue bound per session. A frame that cannot be queued is
	// dropped for that recipient, relay to the rest of the room proceeds.
	sendQueueSize = 256
)

// clientFrame is what a connected client sends.
type clientFrame struct {
	Message string `json:"message"`
}

// serverFrame is what every room member receives.
type serverFrame struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// Session is one live websocket connection bound to a room. Inbound frames
// are relayed to the room through the hub; outbound frames drain through a
// bounded queue in writeLoop.
type Session struct {
	hub *Hub
	ws  *websocket.Conn

	// db and status are optional. A nil db disables message persistence, a
	// nil status disables read-status tracking. Neither ever blocks relay.
	db     *gorm.DB
	status *utils.RedisStatusStore

	authorID string
	peerID   string
	room     string
	pageID   *string

	send chan []byte
	done chan struct{}
	once sync.Once
}

func NewSession(hub *Hub, ws *websocket.Conn, db *gorm.DB, status *utils.RedisStatusStore, authorID string, peerID string) *Session {
	s := &Session{
		hub:      hub,
		ws:       ws,
		db:       db,
		status:   status,
		authorID: authorID,
		peerID:   peerID,
		room:     RoomKey(authorID, peerID),
		send:     make(chan []byte, sendQueueSize),
		done:     make(chan struct{}),
	}
	s.ensurePage()
	return s
}

func (s *Session) Room() string { return s.room }
func (s *Session) ID() string   { return s.authorID }

// QueueOut enqueues an outbound frame without blocking. Reports false when
// the session is closed or its queue is full.
func (s *Session) QueueOut(frame []byte) bool {
	select {
	case <-s.done:
		return false
	default:
	}
	select {
	case s.send <- frame:
		return true
	default:
		return false
	}
}

// Serve registers the session, runs both pumps and blocks until the
// connection drops. Deregistration is the only cleanup a connection needs:
// group membership is the only state it owns.
func (s *Session) Serve() {
	s.hub.Register(s)
	go s.writeLoop()
	s.readLoop()
}

func (s *Session) readLoop() {
	defer s.cleanup()

	s.ws.SetReadLimit(maxFrameSize)
	s.ws.SetReadDeadline(time.Now().Add(pongWait))
	s.ws.SetPongHandler(func(string) error {
		s.ws.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := s.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure,
				websocket.CloseNormalClosure) {
				Logger.Log.Errorf("chat: readLoop room %s: %v", s.room, err)
			}
			return
		}

		var in clientFrame
		if err := json.Unmarshal(raw, &in); err != nil {
			Logger.Log.Warnf("chat: malformed frame in room %s: %v", s.room, err)
			continue
		}

		out, err := json.Marshal(serverFrame{Type: "chat", Message: in.Message})
		if err != nil {
			continue
		}
		s.hub.Relay(s.room, out)
		s.persistMessage(in.Message)
	}
}

func (s *Session) writeLoop() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		// Break readLoop.
		s.ws.Close()
	}()

	for {
		select {
		case frame := <-s.send:
			s.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.ws.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}

		case <-ticker.C:
			s.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-s.done:
			return
		}
	}
}

func (s *Session) cleanup() {
	s.once.Do(func() {
		close(s.done)
		s.hub.Deregister(s)
		s.ws.Close()
	})
}

// ensurePage upserts the ChatPage row for the room. Best effort, a failure
// only means the page won't show up in the page list until a later connect
// succeeds.
func (s *Session) ensurePage() {
	if s.db == nil {
		return
	}
	var page model.ChatPage
	err := s.db.Where(model.ChatPage{Name: s.room}).
		Attrs(model.ChatPage{Id: uuid.New().String()}).
		FirstOrCreate(&page).Error
	if err != nil {
		Logger.Log.Errorf("chat: fail to ensure page %s: %v", s.room, err)
		return
	}
	s.pageID = &page.Id
}

// persistMessage stores the message row and bumps the sender's read status.
// Both are best effort and never block or fail relay.
func (s *Session) persistMessage(content string) {
	if s.db != nil {
		msg := &model.Message{
			Id:          uuid.New().String(),
			Content:     content,
			SenderID:    s.authorID,
			RecipientID: s.peerID,
			ChatPageID:  s.pageID,
		}
		if err := s.db.Create(msg).Error; err != nil {
			Logger.Log.Errorf("chat: fail to persist message in room %s: %v", s.room, err)
		}
	}
	if s.status != nil {
		if err := s.status.MarkPageSeen(context.Background(), s.authorID, s.room, time.Now()); err != nil {
			Logger.Log.Warnf("chat: fail to mark page %s seen for %s: %v", s.room, s.authorID, err)
		}
	}
}
