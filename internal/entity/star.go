package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Star is one user's active reaction counted toward a message. AuthorID is the
// reactor, not the message author; (message_id, author_id) is unique so a
// re-added reaction collapses to the existing row.
type Star struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	MessageID string    `gorm:"size:64;not null;uniqueIndex:idx_stars_unique,priority:1;index:idx_stars_message" json:"message_id"`
	AuthorID  string    `gorm:"size:64;not null;uniqueIndex:idx_stars_unique,priority:2" json:"author_id"`
	ChannelID string    `gorm:"size:64;not null" json:"channel_id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (s *Star) TableName() string {
	return "stars"
}

func (s *Star) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == uuid.Nil {
		s.ID, err = uuid.NewV7()
	}
	return
}
