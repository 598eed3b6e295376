package chat

import "time"

// Conversation groups a user's exchange with the assistant. Anonymous kiosk
// sessions leave UserID nil; the public ConversationID is a ULID so internal
// row ids never leak.
type Conversation struct {
	ID             uint64    `gorm:"primaryKey;autoIncrement" json:"-"`
	ConversationID string    `gorm:"type:varchar(26);uniqueIndex;not null" json:"id"`
	UserID         *uint64   `gorm:"index" json:"user_id,omitempty"`
	Title          string    `gorm:"type:varchar(100)" json:"title"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (Conversation) TableName() string { return "chat_conversations" }

type Message struct {
	ID             uint64    `gorm:"primaryKey;autoIncrement" json:"-"`
	ConversationID string    `gorm:"type:varchar(26);index;not null" json:"conversation_id"`
	Role           string    `gorm:"type:varchar(16);not null" json:"role"`
	Content        string    `gorm:"type:text;not null" json:"content"`
	CreatedAt      time.Time `json:"timestamp"`
}

func (Message) TableName() string { return "chat_messages" }
