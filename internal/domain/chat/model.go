package chat

import (
	"time"

	"github.com/lib/pq"
)

const MaxBodyLength = 2000

// SystemSenderID marks messages the service posts on its own behalf, such as
// cutoff violation notices.
const SystemSenderID = "00000000-0000-0000-0000-000000000000"

// Message is one entry in the append-only group chat. Violation notices are
// stored like any other message; only the flag distinguishes them.
type Message struct {
	ID         string         `gorm:"type:uuid;primaryKey"`
	SenderID   string         `gorm:"type:uuid;not null;index"`
	SenderName string         `gorm:"not null"`
	Body       string         `gorm:"not null"`
	Mentions   pq.StringArray `gorm:"type:text[]"`
	Violation  bool           `gorm:"not null;default:false"`
	CreatedAt  time.Time      `gorm:"autoCreateTime;index"`
}

func (Message) TableName() string {
	return "chat_messages"
}

type ListFilter struct {
	Limit  int
	Before *time.Time
}
