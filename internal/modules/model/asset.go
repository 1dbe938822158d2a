package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type AssetType string

const (
	AssetTypeImage AssetType = "image"
	AssetTypeAudio AssetType = "audio"
	AssetTypeVideo AssetType = "video"
)

func (t AssetType) Valid() bool {
	switch t {
	case AssetTypeImage, AssetTypeAudio, AssetTypeVideo:
		return true
	}
	return false
}

// Asset is a media blob stored in S3. The three variants (image, audio, video)
// share one table and are discriminated by Type; variant-only columns are
// nullable.
type Asset struct {
	ID   uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Type AssetType `gorm:"type:text;not null;index:idx_assets_owner_type,priority:2" json:"assetType"`

	// Filename is the S3 object key.
	Filename     string    `gorm:"type:text;not null" json:"filename"`
	OriginalName string    `gorm:"type:text;not null" json:"originalName"`
	MimeType     string    `gorm:"type:text;not null" json:"mimeType"`
	Size         int64     `gorm:"type:bigint;not null" json:"size"`
	URL          string    `gorm:"type:text;not null" json:"url"`
	UploadedBy   uuid.UUID `gorm:"type:uuid;not null;index:idx_assets_owner_type,priority:1" json:"uploadedBy"`

	// Location holds one "<collectionIDs>:<storylineID>" key per preview
	// storyline currently referencing this asset.
	Location datatypes.JSONSlice[string] `gorm:"type:jsonb;not null;default:'[]'" json:"location"`

	Format string `gorm:"type:text" json:"format,omitempty"`
	// Image only.
	AltText *string `gorm:"type:text" json:"altText,omitempty"`
	Width   *int    `json:"width,omitempty"`
	Height  *int    `json:"height,omitempty"`
	// Video only.
	Subtitles *string `gorm:"type:text" json:"subtitles,omitempty"`
	// Audio only.
	Metadata *string `gorm:"type:text" json:"metadata,omitempty"`
	// Audio and video.
	Duration *float64 `gorm:"type:numeric" json:"duration,omitempty"`

	CreateDate time.Time `gorm:"column:create_date;autoCreateTime" json:"createDate"`
	UpdateDate time.Time `gorm:"column:update_date;autoUpdateTime" json:"updateDate"`
}

func (Asset) TableName() string { return "assets" }

// EmbeddedAsset is the immutable snapshot of an asset's display fields that a
// published storyline carries instead of a live reference.
type EmbeddedAsset struct {
	AssetID      string `json:"assetId"`
	OriginalName string `json:"originalName"`
	URL          string `json:"url"`
	Format       string `json:"format"`
}

func (a *Asset) Embedded() *EmbeddedAsset {
	return &EmbeddedAsset{
		AssetID:      a.ID.String(),
		OriginalName: a.OriginalName,
		URL:          a.URL,
		Format:       a.Format,
	}
}
