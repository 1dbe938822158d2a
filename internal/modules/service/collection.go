package service

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"time"

	"github.com/google/uuid"
	"github.com/talkative-se/powerbag-backend/internal/config"
	mq "github.com/talkative-se/powerbag-backend/internal/infra/queue"
	"github.com/talkative-se/powerbag-backend/internal/modules/model"
	"github.com/talkative-se/powerbag-backend/internal/modules/repo"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type UpdateCollectionInput struct {
	Name        *string
	Description *string
}

// StorylineDiff describes one storyline's drift between the preview and
// published versions of a collection.
type StorylineDiff struct {
	PreviewID      uuid.UUID `json:"previewId"`
	Title          string    `json:"title"`
	State          string    `json:"state"` // new, removed, modified, unchanged
	TitleChanged   bool      `json:"titleChanged"`
	ContentChanged bool      `json:"contentChanged"`
}

type VersionComparison struct {
	NeverPublished     bool            `json:"neverPublished"`
	NameChanged        bool            `json:"nameChanged"`
	DescriptionChanged bool            `json:"descriptionChanged"`
	Storylines         []StorylineDiff `json:"storylines"`
	NeedsPublishing    bool            `json:"needsPublishing"`
}

type PublishResult struct {
	Collection     *model.Collection `json:"collection"`
	StorylineCount int               `json:"storylineCount"`
}

type CollectionService interface {
	Create(ctx context.Context, principal *model.Principal, name, description string) (*model.Collection, error)
	Update(ctx context.Context, id uuid.UUID, in UpdateCollectionInput) (*model.Collection, error)
	Get(ctx context.Context, id uuid.UUID, status model.Status) (*model.Collection, error)
	List(ctx context.Context, status model.Status) ([]*model.Collection, error)
	Delete(ctx context.Context, id uuid.UUID) error

	AddStoryline(ctx context.Context, collectionID, storylineID uuid.UUID) (*model.Storyline, error)
	RemoveStoryline(ctx context.Context, collectionID, storylineID uuid.UUID) (*model.Storyline, error)
	Storylines(ctx context.Context, collectionID uuid.UUID, status model.Status) ([]*model.Storyline, error)

	Publish(ctx context.Context, id uuid.UUID) (*PublishResult, error)
	Duplicate(ctx context.Context, principal *model.Principal, id uuid.UUID, includeStorylines bool) (*model.Collection, error)
	CompareVersions(ctx context.Context, id uuid.UUID) (*VersionComparison, error)
}

type collectionService struct {
	r          repo.CollectionRepo
	storylines StorylineService
	slRepo     repo.StorylineRepo
	assets     repo.AssetRepo
	publisher  *mq.Publisher
	cfg        *config.Config
	log        *zap.Logger
}

func NewCollectionService(
	r repo.CollectionRepo,
	storylines StorylineService,
	slRepo repo.StorylineRepo,
	assets repo.AssetRepo,
	publisher *mq.Publisher,
	cfg *config.Config,
	log *zap.Logger,
) CollectionService {
	return &collectionService{
		r:          r,
		storylines: storylines,
		slRepo:     slRepo,
		assets:     assets,
		publisher:  publisher,
		cfg:        cfg,
		log:        log,
	}
}

func (s *collectionService) Create(ctx context.Context, principal *model.Principal, name, description string) (*model.Collection, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}

	existing, err := s.r.FindPreviewByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: collection %q already exists", ErrConflict, name)
	}

	collection := &model.Collection{
		ID:          uuid.New(),
		Name:        name,
		Description: description,
		Status:      model.StatusPreview,
		CreatedBy:   principal.ID,
	}
	if err := s.r.Create(ctx, collection); err != nil {
		return nil, fmt.Errorf("create collection: %w", err)
	}
	return collection, nil
}

func (s *collectionService) Update(ctx context.Context, id uuid.UUID, in UpdateCollectionInput) (*model.Collection, error) {
	collection, err := s.Get(ctx, id, model.StatusPreview)
	if err != nil {
		return nil, err
	}

	if in.Name != nil && *in.Name != collection.Name {
		existing, err := s.r.FindPreviewByName(ctx, *in.Name)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ID != id {
			return nil, fmt.Errorf("%w: collection %q already exists", ErrConflict, *in.Name)
		}
		collection.Name = *in.Name
	}
	if in.Description != nil {
		collection.Description = *in.Description
	}

	if err := s.r.Update(ctx, collection); err != nil {
		return nil, fmt.Errorf("update collection: %w", err)
	}
	return collection, nil
}

func (s *collectionService) Get(ctx context.Context, id uuid.UUID, status model.Status) (*model.Collection, error) {
	collection, err := s.r.GetByID(ctx, id, status)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: collection %s", ErrNotFound, id)
		}
		return nil, err
	}
	return collection, nil
}

func (s *collectionService) List(ctx context.Context, status model.Status) ([]*model.Collection, error) {
	if status == "" {
		status = model.StatusPublished
	}
	return s.r.List(ctx, status)
}

// Delete removes a preview collection, detaches it from every storyline and
// drops asset location keys written under it. A published twin and its
// membership go with it.
func (s *collectionService) Delete(ctx context.Context, id uuid.UUID) error {
	collection, err := s.Get(ctx, id, model.StatusPreview)
	if err != nil {
		return err
	}

	if published, err := s.r.FindPublishedByPreviewID(ctx, id); err != nil {
		return err
	} else if published != nil {
		if err := s.r.Delete(ctx, published.ID); err != nil {
			return fmt.Errorf("delete published twin: %w", err)
		}
		if err := s.slRepo.PullCollection(ctx, published.ID); err != nil {
			s.log.Error("detach storylines from published collection",
				zap.String("collection", published.ID.String()), zap.Error(err))
		}
	}

	if err := s.r.Delete(ctx, collection.ID); err != nil {
		return fmt.Errorf("delete collection: %w", err)
	}
	if err := s.slRepo.PullCollection(ctx, id); err != nil {
		s.log.Error("detach storylines", zap.String("collection", id.String()), zap.Error(err))
	}
	if err := s.assets.PullLocationByCollection(ctx, id); err != nil {
		s.log.Error("retract asset locations", zap.String("collection", id.String()), zap.Error(err))
	}
	return nil
}

func (s *collectionService) AddStoryline(ctx context.Context, collectionID, storylineID uuid.UUID) (*model.Storyline, error) {
	if _, err := s.Get(ctx, collectionID, model.StatusPreview); err != nil {
		return nil, err
	}
	storyline, err := s.storylines.Get(ctx, storylineID)
	if err != nil {
		return nil, err
	}

	id := collectionID.String()
	for _, c := range storyline.Collections {
		if c == id {
			return storyline, nil
		}
	}
	collections := append([]string(storyline.Collections), id)
	return s.storylines.Update(ctx, storylineID, UpdateStorylineInput{Collections: &collections})
}

func (s *collectionService) RemoveStoryline(ctx context.Context, collectionID, storylineID uuid.UUID) (*model.Storyline, error) {
	storyline, err := s.storylines.Get(ctx, storylineID)
	if err != nil {
		return nil, err
	}

	id := collectionID.String()
	collections := make([]string, 0, len(storyline.Collections))
	for _, c := range storyline.Collections {
		if c != id {
			collections = append(collections, c)
		}
	}
	if len(collections) == len(storyline.Collections) {
		return storyline, nil
	}
	return s.storylines.Update(ctx, storylineID, UpdateStorylineInput{Collections: &collections})
}

func (s *collectionService) Storylines(ctx context.Context, collectionID uuid.UUID, status model.Status) ([]*model.Storyline, error) {
	if status == model.StatusPublished {
		return s.slRepo.FindPublishedByCollection(ctx, collectionID)
	}
	return s.slRepo.FindPreviewByCollection(ctx, collectionID)
}

// Publish copies the preview collection and its storylines onto the published
// side. The twin is created on first publish and overwritten afterwards; each
// storyline is published independently, so a failure leaves earlier ones
// published and the operation can simply be retried.
func (s *collectionService) Publish(ctx context.Context, id uuid.UUID) (*PublishResult, error) {
	preview, err := s.Get(ctx, id, model.StatusPreview)
	if err != nil {
		return nil, err
	}

	published, err := s.r.FindPublishedByPreviewID(ctx, id)
	if err != nil {
		return nil, err
	}
	if published == nil {
		previewID := preview.ID
		published = &model.Collection{
			ID:               uuid.New(),
			Status:           model.StatusPublished,
			CreatedBy:        preview.CreatedBy,
			PreviewVersionID: &previewID,
		}
	}
	published.Name = preview.Name
	published.Description = preview.Description
	if err := s.r.Update(ctx, published); err != nil {
		return nil, fmt.Errorf("save published collection: %w", err)
	}

	previews, err := s.slRepo.FindPreviewByCollection(ctx, id)
	if err != nil {
		return nil, err
	}
	current := make(map[uuid.UUID]struct{}, len(previews))
	for _, p := range previews {
		current[p.ID] = struct{}{}
		if _, err := s.storylines.PublishInto(ctx, p, published.ID); err != nil {
			return nil, fmt.Errorf("publish storyline %s: %w", p.ID, err)
		}
	}

	// Prune published storylines whose preview left the collection.
	stale, err := s.slRepo.FindPublishedByCollection(ctx, published.ID)
	if err != nil {
		return nil, err
	}
	for _, twin := range stale {
		if twin.PreviewVersionID == nil {
			continue
		}
		if _, ok := current[*twin.PreviewVersionID]; !ok {
			if err := s.slRepo.Delete(ctx, twin.ID); err != nil {
				return nil, fmt.Errorf("prune published storyline %s: %w", twin.ID, err)
			}
		}
	}

	now := time.Now()
	preview.PublishedDate = &now
	if err := s.r.Update(ctx, preview); err != nil {
		return nil, fmt.Errorf("stamp publish date: %w", err)
	}

	s.notifyPublished(ctx, preview, published, len(previews))
	return &PublishResult{Collection: preview, StorylineCount: len(previews)}, nil
}

func (s *collectionService) notifyPublished(ctx context.Context, preview, published *model.Collection, count int) {
	if s.publisher == nil {
		return
	}
	payload := map[string]any{
		"event":                 "collection.published",
		"collectionId":          preview.ID,
		"publishedCollectionId": published.ID,
		"name":                  preview.Name,
		"storylineCount":        count,
		"publishedAt":           preview.PublishedDate,
	}
	err := s.publisher.PublishJSON(ctx, s.cfg.RabbitMQ.ExchangeName, s.cfg.RabbitMQ.RoutingKey.CollectionPublished, payload)
	if err != nil {
		s.log.Error("publish collection event", zap.String("collection", preview.ID.String()), zap.Error(err))
	}
}

// Duplicate clones a preview collection under the first free "name (n)"
// variant, optionally deep-copying its preview storylines with live asset
// references intact.
func (s *collectionService) Duplicate(ctx context.Context, principal *model.Principal, id uuid.UUID, includeStorylines bool) (*model.Collection, error) {
	source, err := s.Get(ctx, id, model.StatusPreview)
	if err != nil {
		return nil, err
	}

	name, err := s.freeName(ctx, source.Name)
	if err != nil {
		return nil, err
	}

	clone := &model.Collection{
		ID:          uuid.New(),
		Name:        name,
		Description: source.Description,
		Status:      model.StatusPreview,
		CreatedBy:   principal.ID,
	}
	if err := s.r.Create(ctx, clone); err != nil {
		return nil, fmt.Errorf("create collection copy: %w", err)
	}

	if !includeStorylines {
		return clone, nil
	}

	storylines, err := s.slRepo.FindPreviewByCollection(ctx, id)
	if err != nil {
		return nil, err
	}
	for _, src := range storylines {
		dup := &model.Storyline{
			ID:          uuid.New(),
			Title:       src.Title,
			Status:      model.StatusPreview,
			Collections: datatypes.NewJSONSlice([]string{clone.ID.String()}),
			Bags:        src.Bags,
			Stories:     src.Stories,
		}
		if err := s.slRepo.Create(ctx, dup); err != nil {
			return nil, fmt.Errorf("copy storyline %s: %w", src.ID, err)
		}
		if err := s.assets.AddLocation(ctx, dup.ReferencedAssetIDs(), dup.LocationKey()); err != nil {
			s.log.Error("add asset locations", zap.String("storyline", dup.ID.String()), zap.Error(err))
		}
	}
	return clone, nil
}

func (s *collectionService) freeName(ctx context.Context, base string) (string, error) {
	for n := 1; ; n++ {
		candidate := fmt.Sprintf("%s (%d)", base, n)
		existing, err := s.r.FindPreviewByName(ctx, candidate)
		if err != nil {
			return "", err
		}
		if existing == nil {
			return candidate, nil
		}
	}
}

func (s *collectionService) CompareVersions(ctx context.Context, id uuid.UUID) (*VersionComparison, error) {
	preview, err := s.Get(ctx, id, model.StatusPreview)
	if err != nil {
		return nil, err
	}

	previews, err := s.slRepo.FindPreviewByCollection(ctx, id)
	if err != nil {
		return nil, err
	}

	published, err := s.r.FindPublishedByPreviewID(ctx, id)
	if err != nil {
		return nil, err
	}
	if published == nil {
		cmp := &VersionComparison{NeverPublished: true, NeedsPublishing: true, Storylines: []StorylineDiff{}}
		for _, p := range previews {
			cmp.Storylines = append(cmp.Storylines, StorylineDiff{
				PreviewID: p.ID, Title: p.Title, State: "new", ContentChanged: true,
			})
		}
		return cmp, nil
	}

	publishedStorylines, err := s.slRepo.FindPublishedByCollection(ctx, published.ID)
	if err != nil {
		return nil, err
	}
	twins := make(map[uuid.UUID]*model.Storyline, len(publishedStorylines))
	for _, twin := range publishedStorylines {
		if twin.PreviewVersionID != nil {
			twins[*twin.PreviewVersionID] = twin
		}
	}

	cmp := &VersionComparison{
		NameChanged:        preview.Name != published.Name,
		DescriptionChanged: preview.Description != published.Description,
		Storylines:         []StorylineDiff{},
	}

	seen := make(map[uuid.UUID]struct{}, len(previews))
	for _, p := range previews {
		seen[p.ID] = struct{}{}
		twin, ok := twins[p.ID]
		if !ok {
			cmp.Storylines = append(cmp.Storylines, StorylineDiff{
				PreviewID: p.ID, Title: p.Title, State: "new", ContentChanged: true,
			})
			continue
		}

		diff := StorylineDiff{
			PreviewID:    p.ID,
			Title:        p.Title,
			TitleChanged: p.Title != twin.Title,
			ContentChanged: !reflect.DeepEqual(normalizeBags(p.Bags.Data()), normalizeBags(twin.Bags.Data())) ||
				!reflect.DeepEqual(normalizeStories(p.Stories.Data()), normalizeStories(twin.Stories.Data())) ||
				p.UpdateDate.After(twin.UpdateDate),
		}
		if diff.TitleChanged || diff.ContentChanged {
			diff.State = "modified"
		} else {
			diff.State = "unchanged"
		}
		cmp.Storylines = append(cmp.Storylines, diff)
	}

	for _, twin := range publishedStorylines {
		if twin.PreviewVersionID == nil {
			continue
		}
		if _, ok := seen[*twin.PreviewVersionID]; !ok {
			cmp.Storylines = append(cmp.Storylines, StorylineDiff{
				PreviewID: *twin.PreviewVersionID, Title: twin.Title, State: "removed", ContentChanged: true,
			})
		}
	}

	cmp.NeedsPublishing = cmp.NameChanged || cmp.DescriptionChanged
	for _, d := range cmp.Storylines {
		if d.State != "unchanged" {
			cmp.NeedsPublishing = true
			break
		}
	}
	return cmp, nil
}

// normalizedBag reduces a bag to what publishing preserves. Preview bags carry
// a live asset reference where published bags carry an embedded snapshot, so
// both are folded into one assetID field before comparison.
type normalizedBag struct {
	ID             string
	AssetID        string
	ImageURL       string
	VideoURL       string
	ImageFrameURLs []string
}

type normalizedStory struct {
	ID           string
	AssetID      string
	AudioSrc     string
	SelectedBags []string
	Events       []model.StoryEvent
}

func normalizeBags(bags model.Bags) [][]normalizedBag {
	normColumn := func(col []model.Bag) []normalizedBag {
		out := make([]normalizedBag, len(col))
		for i, bag := range col {
			n := normalizedBag{
				ID:             bag.ID,
				ImageURL:       bag.ImageURL,
				ImageFrameURLs: bag.ImageFrameURLs,
			}
			if bag.VideoURL != nil {
				n.VideoURL = *bag.VideoURL
			}
			if bag.ImageAssetID != nil {
				n.AssetID = *bag.ImageAssetID
			} else if bag.EmbeddedImageAsset != nil {
				n.AssetID = bag.EmbeddedImageAsset.AssetID
			}
			out[i] = n
		}
		return out
	}
	return [][]normalizedBag{
		normColumn(bags.FirstColumn),
		normColumn(bags.SecondColumn),
		normColumn(bags.ThirdColumn),
	}
}

func normalizeStories(stories []model.Story) []normalizedStory {
	out := make([]normalizedStory, len(stories))
	for i, story := range stories {
		n := normalizedStory{
			ID:           story.ID,
			AudioSrc:     story.AudioSrc,
			SelectedBags: story.SelectedBags,
			Events:       story.Events,
		}
		if story.AudioAssetID != nil {
			n.AssetID = *story.AudioAssetID
		} else if story.EmbeddedAudioAsset != nil {
			n.AssetID = story.EmbeddedAudioAsset.AssetID
		}
		out[i] = n
	}
	return out
}
