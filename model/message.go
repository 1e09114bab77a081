package model

import "time"

/*

Message is a persisted chat message

Id: primary key
CreatedAt: time when the message was received by the multiplexer

Content: message body as sent by the client
SenderID / RecipientID: the two participants of the room at send time
ChatPageID: owning chat page, nullable, kept when the page is deleted

Messages are immutable once created and are never deleted by the chat
subsystem itself.

*/

type Message struct {
	Id        string    `gorm:"primaryKey"`
	CreatedAt time.Time `gorm:"<-:create"`

	Content string `json:"content"`

	SenderID    string  `json:"sender_id" gorm:"index"`
	Sender      *Author `json:"sender,omitempty" gorm:"foreignKey:SenderID;constraint:OnDelete:CASCADE;"`
	RecipientID string  `json:"recipient_id" gorm:"index"`
	Recipient   *Author `json:"recipient,omitempty" gorm:"foreignKey:RecipientID;constraint:OnDelete:CASCADE;"`

	ChatPageID *string   `json:"chat_page_id,omitempty"`
	ChatPage   *ChatPage `json:"-" gorm:"foreignKey:ChatPageID;constraint:OnDelete:SET NULL;"`
}
