package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Event is one batch of player analytics events uploaded by the frontend.
// Read-only through the API; ingestion happens out of band.
type Event struct {
	ID   uuid.UUID         `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Data datatypes.JSONMap `gorm:"type:jsonb" json:"data"`

	CreateDate time.Time `gorm:"column:create_date;autoCreateTime" json:"createDate"`
	UpdateDate time.Time `gorm:"column:update_date;autoUpdateTime" json:"updateDate"`
}

func (Event) TableName() string { return "events" }
