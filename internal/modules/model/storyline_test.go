package model

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/datatypes"
)

func TestStoryline_LocationKey(t *testing.T) {
	id := uuid.New()
	s := &Storyline{
		ID:          id,
		Collections: datatypes.NewJSONSlice([]string{"bbb", "aaa"}),
	}

	// Collection ids are sorted so the key is stable under reordering.
	assert.Equal(t, "aaa,bbb:"+id.String(), s.LocationKey())

	s.Collections = datatypes.NewJSONSlice([]string{})
	assert.Equal(t, ":"+id.String(), s.LocationKey())
}

func TestStoryline_ReferencedAssetIDs(t *testing.T) {
	image := uuid.New()
	audio := uuid.New()
	video := uuid.New()
	imageRef := image.String()
	audioRef := audio.String()
	videoRef := video.String()
	badRef := "not-a-uuid"

	s := &Storyline{
		ID: uuid.New(),
		Bags: datatypes.NewJSONType(Bags{
			FirstColumn:  []Bag{{ID: "b1", ImageAssetID: &imageRef}},
			SecondColumn: []Bag{{ID: "b2", ImageAssetID: &imageRef}}, // duplicate
			ThirdColumn:  []Bag{{ID: "b3", ImageAssetID: &badRef}},
		}),
		Stories: datatypes.NewJSONType([]Story{{
			ID:           "s1",
			AudioAssetID: &audioRef,
			Events:       []StoryEvent{{Action: "play", VideoAssetID: &videoRef}},
		}}),
	}

	ids := s.ReferencedAssetIDs()
	assert.Len(t, ids, 3)
	assert.Contains(t, ids, image)
	assert.Contains(t, ids, audio)
	assert.Contains(t, ids, video)
}
