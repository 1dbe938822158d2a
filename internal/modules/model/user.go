package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type User struct {
	ID    uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name  string    `gorm:"type:text;not null;default:''" json:"name"`
	Email string    `gorm:"type:text;not null;uniqueIndex" json:"email"`

	Roles datatypes.JSONSlice[string] `gorm:"type:jsonb;not null;default:'[]'" json:"roles"`

	// AssignedCollections restricts which collections an editor may touch.
	// Empty means unrestricted.
	AssignedCollections datatypes.JSONSlice[string] `gorm:"type:jsonb;not null;default:'[]'" json:"assignedCollections"`

	CreateDate time.Time `gorm:"column:create_date;autoCreateTime" json:"createDate"`
	UpdateDate time.Time `gorm:"column:update_date;autoUpdateTime" json:"updateDate"`
}

func (User) TableName() string { return "users" }

const RoleAdmin = "admin"

func (u *User) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// Principal is the authenticated caller extracted from a bearer token.
type Principal struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
	Roles []string  `json:"roles"`
}

func (p *Principal) IsAdmin() bool {
	for _, r := range p.Roles {
		if r == RoleAdmin {
			return true
		}
	}
	return false
}
