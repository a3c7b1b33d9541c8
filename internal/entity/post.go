package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Post is the mirrored copy of an origin message currently shown in the
// starboard channel. MessageID is unique: at most one live mirror per origin
// message. PostID is the mirrored message's own timestamp in the board channel.
type Post struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	MessageID string    `gorm:"size:64;not null;uniqueIndex:idx_posts_message" json:"message_id"`
	ChannelID string    `gorm:"size:64;not null" json:"channel_id"`
	PostID    string    `gorm:"size:64;not null;index:idx_posts_post" json:"post_id"`
	AuthorID  string    `gorm:"size:64;not null" json:"author_id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (p *Post) TableName() string {
	return "posts"
}

func (p *Post) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == uuid.Nil {
		p.ID, err = uuid.NewV7()
	}
	return
}
