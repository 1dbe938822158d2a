package model

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusPreview   Status = "preview"
	StatusPublished Status = "published"
)

type Collection struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name        string    `gorm:"type:text;not null;index" json:"name"`
	Description string    `gorm:"type:text;not null;default:''" json:"description"`
	Status      Status    `gorm:"type:text;not null;index" json:"status"`
	CreatedBy   uuid.UUID `gorm:"type:uuid;not null" json:"createdBy"`

	// PreviewVersionID links a published collection back to the preview it was
	// generated from. Nil on preview records.
	PreviewVersionID *uuid.UUID `gorm:"type:uuid;index" json:"previewVersionId,omitempty"`

	// PublishedDate is stamped on the preview record when it is published.
	PublishedDate *time.Time `json:"publishedDate,omitempty"`

	CreateDate time.Time `gorm:"column:create_date;autoCreateTime" json:"createDate"`
	UpdateDate time.Time `gorm:"column:update_date;autoUpdateTime" json:"updateDate"`
}

func (Collection) TableName() string { return "collections" }
