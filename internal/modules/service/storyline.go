package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/talkative-se/powerbag-backend/internal/modules/model"
	"github.com/talkative-se/powerbag-backend/internal/modules/repo"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type CreateStorylineInput struct {
	Title        string
	CollectionID string
	Bags         *model.Bags
	Stories      []model.Story
}

// UpdateStorylineInput is a patch: nil fields keep their current value.
type UpdateStorylineInput struct {
	Title       *string
	Collections *[]string
	Bags        *model.Bags
	Stories     *[]model.Story
}

type StorylineService interface {
	Create(ctx context.Context, in CreateStorylineInput) (*model.Storyline, error)
	Update(ctx context.Context, id uuid.UUID, in UpdateStorylineInput) (*model.Storyline, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Storyline, error)
	List(ctx context.Context, status model.Status, titles []string) ([]*model.Storyline, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// MigrateLegacyReferences re-adds this storyline's location key to every
	// asset it references. Purely additive and safe to repeat; used to repair
	// location sets written before the sync hooks existed.
	MigrateLegacyReferences(ctx context.Context, id uuid.UUID) (*model.Storyline, error)

	// PublishInto copies a preview storyline onto its published twin under the
	// given published collection, creating the twin on first publish. Asset
	// references are replaced by embedded snapshots.
	PublishInto(ctx context.Context, preview *model.Storyline, publishedCollectionID uuid.UUID) (*model.Storyline, error)
}

type storylineService struct {
	r      repo.StorylineRepo
	assets repo.AssetRepo
	log    *zap.Logger
}

func NewStorylineService(r repo.StorylineRepo, assets repo.AssetRepo, log *zap.Logger) StorylineService {
	return &storylineService{r: r, assets: assets, log: log}
}

func (s *storylineService) Create(ctx context.Context, in CreateStorylineInput) (*model.Storyline, error) {
	if in.Title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrValidation)
	}
	if _, err := uuid.Parse(in.CollectionID); err != nil {
		return nil, fmt.Errorf("%w: bad collection id %q", ErrValidation, in.CollectionID)
	}
	if err := s.checkTitleConflict(ctx, in.Title, []string{in.CollectionID}, uuid.Nil); err != nil {
		return nil, err
	}

	bags := model.Bags{FirstColumn: []model.Bag{}, SecondColumn: []model.Bag{}, ThirdColumn: []model.Bag{}}
	if in.Bags != nil {
		bags = *in.Bags
	}
	stories := []model.Story{}
	if in.Stories != nil {
		stories = in.Stories
	}

	storyline := &model.Storyline{
		ID:          uuid.New(),
		Title:       in.Title,
		Status:      model.StatusPreview,
		Collections: datatypes.NewJSONSlice([]string{in.CollectionID}),
		Bags:        datatypes.NewJSONType(bags),
		Stories:     datatypes.NewJSONType(stories),
	}
	if err := s.r.Create(ctx, storyline); err != nil {
		return nil, fmt.Errorf("create storyline: %w", err)
	}

	s.syncLocations(ctx, storyline)
	return storyline, nil
}

func (s *storylineService) Update(ctx context.Context, id uuid.UUID, in UpdateStorylineInput) (*model.Storyline, error) {
	storyline, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if storyline.Status != model.StatusPreview {
		return nil, fmt.Errorf("%w: published storylines are read only", ErrValidation)
	}

	if in.Title != nil {
		storyline.Title = *in.Title
	}
	if in.Collections != nil {
		storyline.Collections = datatypes.NewJSONSlice(*in.Collections)
	}
	if in.Bags != nil {
		storyline.Bags = datatypes.NewJSONType(*in.Bags)
	}
	if in.Stories != nil {
		storyline.Stories = datatypes.NewJSONType(*in.Stories)
	}

	if in.Title != nil || in.Collections != nil {
		if err := s.checkTitleConflict(ctx, storyline.Title, storyline.Collections, storyline.ID); err != nil {
			return nil, err
		}
	}

	if err := s.r.Update(ctx, storyline); err != nil {
		return nil, fmt.Errorf("update storyline: %w", err)
	}

	s.syncLocations(ctx, storyline)
	return storyline, nil
}

// checkTitleConflict rejects a title already used by another preview storyline
// that shares at least one collection. The same title in disjoint collections
// is fine.
func (s *storylineService) checkTitleConflict(ctx context.Context, title string, collections []string, selfID uuid.UUID) error {
	peers, err := s.r.FindPreviewsByTitle(ctx, title)
	if err != nil {
		return err
	}

	mine := make(map[string]struct{}, len(collections))
	for _, c := range collections {
		mine[c] = struct{}{}
	}
	for _, peer := range peers {
		if peer.ID == selfID {
			continue
		}
		for _, c := range peer.Collections {
			if _, shared := mine[c]; shared {
				return fmt.Errorf("%w: storyline %q already exists in this collection", ErrConflict, title)
			}
		}
	}
	return nil
}

func (s *storylineService) Get(ctx context.Context, id uuid.UUID) (*model.Storyline, error) {
	storyline, err := s.r.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: storyline %s", ErrNotFound, id)
		}
		return nil, err
	}
	return storyline, nil
}

func (s *storylineService) List(ctx context.Context, status model.Status, titles []string) ([]*model.Storyline, error) {
	if status == "" {
		status = model.StatusPublished
	}
	return s.r.List(ctx, status, titles)
}

func (s *storylineService) Delete(ctx context.Context, id uuid.UUID) error {
	storyline, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	if storyline.Status == model.StatusPreview {
		if published, err := s.r.FindPublishedByPreviewID(ctx, id); err == nil && published != nil {
			if err := s.r.Delete(ctx, published.ID); err != nil {
				return fmt.Errorf("delete published twin: %w", err)
			}
		} else if err != nil {
			return err
		}

		if err := s.assets.PullLocationByStoryline(ctx, id); err != nil {
			s.log.Error("retract asset locations", zap.String("storyline", id.String()), zap.Error(err))
		}
	}

	return s.r.Delete(ctx, id)
}

func (s *storylineService) MigrateLegacyReferences(ctx context.Context, id uuid.UUID) (*model.Storyline, error) {
	storyline, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if storyline.Status != model.StatusPreview {
		return nil, fmt.Errorf("%w: only preview storylines carry locations", ErrValidation)
	}

	refs := storyline.ReferencedAssetIDs()
	if len(refs) == 0 {
		return storyline, nil
	}
	if err := s.assets.AddLocation(ctx, refs, storyline.LocationKey()); err != nil {
		return nil, fmt.Errorf("add asset locations: %w", err)
	}
	return storyline, nil
}

// syncLocations makes the asset location sets reflect this preview storyline's
// current references: every previously written key for the storyline is
// retracted, then the current key is added to exactly the referenced assets.
// Failures are logged and swallowed so a save never fails on bookkeeping.
func (s *storylineService) syncLocations(ctx context.Context, storyline *model.Storyline) {
	if storyline.Status != model.StatusPreview {
		return
	}

	if err := s.assets.PullLocationByStoryline(ctx, storyline.ID); err != nil {
		s.log.Error("retract asset locations",
			zap.String("storyline", storyline.ID.String()), zap.Error(err))
		return
	}

	refs := storyline.ReferencedAssetIDs()
	if len(refs) == 0 {
		return
	}
	if err := s.assets.AddLocation(ctx, refs, storyline.LocationKey()); err != nil {
		s.log.Error("add asset locations",
			zap.String("storyline", storyline.ID.String()), zap.Error(err))
	}
}

func (s *storylineService) PublishInto(ctx context.Context, preview *model.Storyline, publishedCollectionID uuid.UUID) (*model.Storyline, error) {
	published, err := s.r.FindPublishedByPreviewID(ctx, preview.ID)
	if err != nil {
		return nil, err
	}

	bags := s.embedBags(ctx, preview.Bags.Data())
	stories := s.embedStories(ctx, preview.Stories.Data())

	if published == nil {
		previewID := preview.ID
		published = &model.Storyline{
			ID:               uuid.New(),
			Status:           model.StatusPublished,
			PreviewVersionID: &previewID,
		}
	}

	published.Title = preview.Title
	published.Collections = datatypes.NewJSONSlice([]string{publishedCollectionID.String()})
	published.Bags = datatypes.NewJSONType(bags)
	published.Stories = datatypes.NewJSONType(stories)

	if err := s.r.Update(ctx, published); err != nil {
		return nil, fmt.Errorf("save published storyline: %w", err)
	}
	return published, nil
}

// embedBags swaps live asset references for embedded snapshots. A reference to
// a since-deleted asset is dropped; the legacy URL fields still render.
func (s *storylineService) embedBags(ctx context.Context, bags model.Bags) model.Bags {
	embedColumn := func(col []model.Bag) []model.Bag {
		out := make([]model.Bag, len(col))
		for i, bag := range col {
			if bag.ImageAssetID != nil {
				bag.EmbeddedImageAsset = s.embed(ctx, *bag.ImageAssetID)
				bag.ImageAssetID = nil
			}
			out[i] = bag
		}
		return out
	}
	return model.Bags{
		FirstColumn:  embedColumn(bags.FirstColumn),
		SecondColumn: embedColumn(bags.SecondColumn),
		ThirdColumn:  embedColumn(bags.ThirdColumn),
	}
}

func (s *storylineService) embedStories(ctx context.Context, stories []model.Story) []model.Story {
	out := make([]model.Story, len(stories))
	for i, story := range stories {
		if story.AudioAssetID != nil {
			story.EmbeddedAudioAsset = s.embed(ctx, *story.AudioAssetID)
			story.AudioAssetID = nil
		}
		out[i] = story
	}
	return out
}

func (s *storylineService) embed(ctx context.Context, ref string) *model.EmbeddedAsset {
	id, err := uuid.Parse(ref)
	if err != nil {
		return nil
	}
	asset, err := s.assets.GetByID(ctx, id)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.log.Warn("embed asset", zap.String("asset", ref), zap.Error(err))
		}
		return nil
	}
	return asset.Embedded()
}
