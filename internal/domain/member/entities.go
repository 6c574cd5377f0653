package member

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

var ErrNotFound = errors.New("member not found")

// Member rows double as the per-member lock anchor: every reconciler mutation
// locks the member row first, so two concurrent pledges against the same
// savings can never interleave.
type Member struct {
	ID        uint64         `gorm:"primaryKey;column:id" json:"-"`
	MemberID  string         `gorm:"size:32;column:member_id;uniqueIndex:ux_members_member_id" json:"member_id"`
	Name      string         `gorm:"size:191;column:name" json:"name"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Member) TableName() string { return "members" }
