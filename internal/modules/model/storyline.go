package model

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Bag is one cell of the storyline grid. Preview bags reference a live image
// asset by id; published bags carry an embedded snapshot instead.
type Bag struct {
	ID                 string         `json:"id"`
	ImageAssetID       *string        `json:"imageAsset,omitempty"`
	EmbeddedImageAsset *EmbeddedAsset `json:"embeddedImageAsset,omitempty"`
	// ImageURL is the legacy direct URL, kept for content predating assets.
	ImageURL       string   `json:"imageUrl"`
	VideoURL       *string  `json:"videoUrl,omitempty"`
	ImageFrameURLs []string `json:"imageFrameUrls,omitempty"`
}

// Bags are the three fixed columns of a storyline.
type Bags struct {
	FirstColumn  []Bag `json:"firstColumn"`
	SecondColumn []Bag `json:"secondColumn"`
	ThirdColumn  []Bag `json:"thirdColumn"`
}

type StoryEvent struct {
	Start        float64  `json:"start"`
	Stop         float64  `json:"stop"`
	Action       string   `json:"action"`
	Bags         []string `json:"bags"`
	VideoAssetID *string  `json:"videoAsset,omitempty"`
}

type Story struct {
	ID                 string         `json:"id"`
	AudioAssetID       *string        `json:"audioAsset,omitempty"`
	EmbeddedAudioAsset *EmbeddedAsset `json:"embeddedAudioAsset,omitempty"`
	// AudioSrc is the legacy direct URL.
	AudioSrc     string       `json:"audioSrc"`
	SelectedBags []string     `json:"selectedBags"`
	Events       []StoryEvent `json:"events"`
}

type Storyline struct {
	ID     uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Title  string    `gorm:"type:text;not null;index" json:"title"`
	Status Status    `gorm:"type:text;not null;index" json:"status"`

	// Collections holds the ids of the collections this storyline belongs to
	// (many-to-many, owned by the storyline side).
	Collections datatypes.JSONSlice[string] `gorm:"type:jsonb;not null;default:'[]'" json:"collections"`

	// PreviewVersionID links a published storyline back to its source preview.
	PreviewVersionID *uuid.UUID `gorm:"type:uuid;index" json:"previewVersionId,omitempty"`

	Bags    datatypes.JSONType[Bags]    `gorm:"type:jsonb" json:"bags"`
	Stories datatypes.JSONType[[]Story] `gorm:"type:jsonb" json:"stories"`

	CreateDate time.Time `gorm:"column:create_date;autoCreateTime" json:"createDate"`
	UpdateDate time.Time `gorm:"column:update_date;autoUpdateTime" json:"updateDate"`
}

func (Storyline) TableName() string { return "storylines" }

// LocationKey encodes the (collections, storyline) context written into asset
// location sets: the sorted collection ids joined by ",", then ":", then the
// storyline id.
func (s *Storyline) LocationKey() string {
	ids := make([]string, len(s.Collections))
	copy(ids, s.Collections)
	sort.Strings(ids)
	return strings.Join(ids, ",") + ":" + s.ID.String()
}

// ReferencedAssetIDs gathers every live asset id referenced anywhere in the
// storyline's bags, stories and story events. Duplicates are collapsed; order
// is not significant.
func (s *Storyline) ReferencedAssetIDs() []uuid.UUID {
	seen := make(map[uuid.UUID]struct{})
	var ids []uuid.UUID

	add := func(ref *string) {
		if ref == nil {
			return
		}
		id, err := uuid.Parse(*ref)
		if err != nil {
			return
		}
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}

	bags := s.Bags.Data()
	for _, col := range [][]Bag{bags.FirstColumn, bags.SecondColumn, bags.ThirdColumn} {
		for i := range col {
			add(col[i].ImageAssetID)
		}
	}
	for _, story := range s.Stories.Data() {
		add(story.AudioAssetID)
		for i := range story.Events {
			add(story.Events[i].VideoAssetID)
		}
	}
	return ids
}
