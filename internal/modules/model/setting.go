package model

import (
	"time"

	"github.com/google/uuid"
)

type Setting struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Key         string    `gorm:"type:text;not null;uniqueIndex" json:"key"`
	Value       string    `gorm:"type:text;not null" json:"value"`
	Type        string    `gorm:"type:text;not null" json:"type"`
	Description string    `gorm:"type:text;not null;default:''" json:"description"`
	Category    string    `gorm:"type:text;not null;default:'general'" json:"category"`
	// IsPublic settings are readable without authentication.
	IsPublic bool `gorm:"not null;default:false" json:"isPublic"`

	CreateDate time.Time `gorm:"column:create_date;autoCreateTime" json:"createDate"`
	UpdateDate time.Time `gorm:"column:update_date;autoUpdateTime" json:"updateDate"`
}

func (Setting) TableName() string { return "settings" }

// SettingWebsiteCollection names the collection served on the public site.
const SettingWebsiteCollection = "websiteCollection"
