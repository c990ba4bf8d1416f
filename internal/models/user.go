package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User owns tasks and authenticates with email + password.
// Password, avatar bytes and Google credentials never leave the server.
type User struct {
	ID                  uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Name                string         `gorm:"size:100;not null" json:"name"`
	Email               string         `gorm:"size:255;not null;uniqueIndex" json:"email"`
	Password            string         `gorm:"not null" json:"-"`
	Avatar              []byte         `gorm:"type:bytea" json:"-"`
	AvatarSet           bool           `gorm:"->;-:migration" json:"-"`
	CalendarSyncEnabled bool           `gorm:"default:false" json:"calendar_sync_enabled"`
	GoogleAccessToken   string         `gorm:"type:text" json:"-"`
	GoogleRefreshToken  string         `gorm:"type:text" json:"-"`
	CreatedAt           time.Time      `json:"created_at"`
	UpdatedAt           time.Time      `json:"updated_at"`
	DeletedAt           gorm.DeletedAt `gorm:"index" json:"-"`
}

// HasAvatar reports avatar presence without exposing the bytes. AvatarSet
// is computed in SQL by reads that skip the blob column entirely.
func (u *User) HasAvatar() bool {
	return u.AvatarSet || len(u.Avatar) > 0
}
