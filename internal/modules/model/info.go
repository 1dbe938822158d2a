package model

import (
	"time"

	"github.com/google/uuid"
)

// Info is the singleton about-page document, one rich-text body per language.
type Info struct {
	ID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	En string    `gorm:"type:text;not null" json:"en"`
	Nl string    `gorm:"type:text;not null" json:"nl"`

	CreateDate time.Time `gorm:"column:create_date;autoCreateTime" json:"createDate"`
	UpdateDate time.Time `gorm:"column:update_date;autoUpdateTime" json:"updateDate"`
}

func (Info) TableName() string { return "info" }
