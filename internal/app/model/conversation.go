package model

import (
	"time"

	"gorm.io/gorm"
)

// Conversation is a per-item thread between exactly two users:
// User1 is the item owner, User2 the user who reached out. UpdatedAt is
// bumped on every message so conversation lists sort by recency.
type Conversation struct {
	ID      uint `gorm:"primarykey" json:"id"`
	ItemID  uint `gorm:"not null;index" json:"item_id"`
	User1ID uint `gorm:"not null;index" json:"user1_id"` // item owner
	User2ID uint `gorm:"not null;index" json:"user2_id"` // initiator

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `gorm:"index" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Item     Item      `gorm:"foreignKey:ItemID" json:"item,omitempty"`
	User1    User      `gorm:"foreignKey:User1ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"user1,omitempty"`
	User2    User      `gorm:"foreignKey:User2ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"user2,omitempty"`
	Messages []Message `gorm:"foreignKey:ConversationID;constraint:OnDelete:CASCADE" json:"messages,omitempty"`
}

func (Conversation) TableName() string {
	return "conversations"
}

// HasParticipant reports whether the user is one of the two members
func (c *Conversation) HasParticipant(userID uint) bool {
	return c.User1ID == userID || c.User2ID == userID
}

// OtherParticipant returns the counterpart of userID, or nil when userID
// is not a member (no counterpart found, not an error)
func (c *Conversation) OtherParticipant(userID uint) *User {
	switch userID {
	case c.User1ID:
		return &c.User2
	case c.User2ID:
		return &c.User1
	default:
		return nil
	}
}

// Message is a single message in a conversation. IsRead transitions
// false->true only, and only on messages not sent by the reading user.
type Message struct {
	ID             uint `gorm:"primarykey" json:"id"`
	ConversationID uint `gorm:"not null;index:idx_conv_created,priority:1;index" json:"conversation_id"`
	SenderID       uint `gorm:"not null;index" json:"sender_id"`

	Content string `gorm:"type:text;not null" json:"content"`

	IsRead bool       `gorm:"default:false;index" json:"is_read"`
	ReadAt *time.Time `json:"read_at,omitempty"`

	CreatedAt time.Time `gorm:"index:idx_conv_created,priority:2" json:"created_at"`

	// Relationships
	Conversation Conversation `gorm:"foreignKey:ConversationID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Sender       User         `gorm:"foreignKey:SenderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"sender,omitempty"`
}

func (Message) TableName() string {
	return "messages"
}

// ConversationWithUnread pairs a conversation with the viewing user's unread
// message count, computed at listing time
type ConversationWithUnread struct {
	Conversation
	UnreadCount int64 `json:"unread_count"`
}
