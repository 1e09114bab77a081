package model

import "time"

/*

ChatPage is the persisted registry entry for a chat room

Id: primary key
CreatedAt: time when the room was first opened
Name: the deterministic room key, unique. Both participants compute the same
name, so the first connection of either side creates the row.

*/

type ChatPage struct {
	Id        string    `gorm:"primaryKey"`
	CreatedAt time.Time `gorm:"<-:create"`
	Name      string    `json:"name" gorm:"uniqueIndex"`
}
