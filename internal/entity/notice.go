package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Notice records that a one-time informational DM has been attempted for a
// user. Rows are written before the delivery attempt and never deleted, so a
// failed send forfeits that notice rather than risking a duplicate.
type Notice struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	NoticeID  string    `gorm:"size:64;not null;uniqueIndex:idx_notices_unique,priority:1" json:"notice_id"`
	UserID    string    `gorm:"size:64;not null;uniqueIndex:idx_notices_unique,priority:2" json:"user_id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (n *Notice) TableName() string {
	return "notices"
}

func (n *Notice) BeforeCreate(tx *gorm.DB) (err error) {
	if n.ID == uuid.Nil {
		n.ID, err = uuid.NewV7()
	}
	return
}
