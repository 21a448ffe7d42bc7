// Package service holds the cat import workflow and the read-side queries.
// Everything it returns is a DTO; gorm models stay inside.
package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"

	"catimporter/backend/internal/apperr"
	"catimporter/backend/internal/catapi"
	"catimporter/backend/internal/models"
	"catimporter/backend/internal/store"
)

// DefaultFetchCount is the import size used when the caller gives none.
const DefaultFetchCount = 25

// ImageFetcher is the upstream image source.
type ImageFetcher interface {
	FetchImages(ctx context.Context, count int) ([]catapi.Image, error)
}

// CatDTO is a stored cat as returned to callers.
type CatDTO struct {
	ID        string    `json:"id"`
	URL       string    `json:"url"`
	Width     int       `json:"width"`
	Height    int       `json:"height"`
	Tags      []string  `json:"tags"`
	CreatedAt time.Time `json:"created_at"`
}

// TagDTO is a stored tag with the number of cats carrying it.
type TagDTO struct {
	Name      string    `json:"name"`
	CatCount  int64     `json:"cat_count"`
	CreatedAt time.Time `json:"created_at"`
}

// Page is one window of a paginated listing.
type Page[T any] struct {
	Items    []T
	Total    int64
	Page     int
	PageSize int
}

// ImportResult summarizes one import batch.
type ImportResult struct {
	Requested int `json:"requested"`
	Fetched   int `json:"fetched"`
	Created   int `json:"created"`
	Skipped   int `json:"skipped"`
	NewTags   int `json:"new_tags"`
}

// CatService imports cats from the upstream API and serves stored cats.
type CatService struct {
	store   *store.Store
	fetcher ImageFetcher
	logger  zerolog.Logger
	now     func() time.Time
}

// NewCatService wires a CatService. fetcher may be nil for read-only use;
// FetchAndSave then fails.
func NewCatService(st *store.Store, fetcher ImageFetcher, logger zerolog.Logger) *CatService {
	return &CatService{
		store:   st,
		fetcher: fetcher,
		logger:  logger.With().Str("component", "cat_service").Logger(),
		now:     time.Now,
	}
}

// FetchAndSave fetches count images from upstream and imports them.
// Nothing is written when the fetch or payload validation fails.
func (s *CatService) FetchAndSave(ctx context.Context, count int) (*ImportResult, error) {
	if count < 1 {
		return nil, fmt.Errorf("%w: count must be positive, got %d", apperr.ErrValidation, count)
	}
	if s.fetcher == nil {
		return nil, fmt.Errorf("%w: no upstream configured", apperr.ErrUpstreamFetch)
	}

	logger := s.log(ctx)

	images, err := s.fetcher.FetchImages(ctx, count)
	if err != nil {
		logger.Error().Err(err).Int("count", count).Msg("failed to fetch cats")
		return nil, fmt.Errorf("fetch cats: %w", err)
	}

	result, err := s.Import(ctx, images)
	if err != nil {
		return nil, err
	}
	result.Requested = count
	return result, nil
}

// Import stores the images in one transaction. Images whose id is already
// stored, or repeated earlier in the batch, are skipped whole. Tag names
// resolve to existing rows when present and are created once otherwise.
func (s *CatService) Import(ctx context.Context, images []catapi.Image) (*ImportResult, error) {
	logger := s.log(ctx)
	now := s.now().UTC()

	var result ImportResult
	err := s.store.Transaction(ctx, func(tx *store.Store) error {
		result = ImportResult{Fetched: len(images)}
		tags := make(map[string]*models.Tag)
		seen := make(map[string]struct{}, len(images))

		for _, img := range images {
			canonical := Normalize(img)

			if _, dup := seen[canonical.ID]; dup {
				result.Skipped++
				continue
			}
			seen[canonical.ID] = struct{}{}

			exists, err := tx.CatExists(ctx, canonical.ID)
			if err != nil {
				return err
			}
			if exists {
				result.Skipped++
				continue
			}

			resolved := make([]*models.Tag, 0, len(canonical.Tags))
			for _, name := range canonical.Tags {
				tag, created, err := resolveTag(ctx, tx, tags, name, now)
				if err != nil {
					return err
				}
				if created {
					result.NewTags++
				}
				resolved = append(resolved, tag)
			}

			cat := &models.Cat{
				CatID:     canonical.ID,
				Width:     canonical.Width,
				Height:    canonical.Height,
				Image:     canonical.URL,
				CreatedAt: now,
				Tags:      resolved,
			}
			if err := tx.CreateCat(ctx, cat); err != nil {
				return err
			}
			result.Created++
		}
		return nil
	})
	if err != nil {
		logger.Error().Err(err).Msg("failed to save cats")
		return nil, fmt.Errorf("save cats: %w", err)
	}

	logger.Info().
		Int("fetched", result.Fetched).
		Int("created", result.Created).
		Int("skipped", result.Skipped).
		Int("new_tags", result.NewTags).
		Msg("cats imported")
	return &result, nil
}

// resolveTag returns the tag for name from the batch cache, the store, or
// a freshly created row, in that order.
func resolveTag(ctx context.Context, tx *store.Store, cache map[string]*models.Tag, name string, now time.Time) (*models.Tag, bool, error) {
	if tag, ok := cache[name]; ok {
		return tag, false, nil
	}

	tag, err := tx.FindTagByName(ctx, name)
	if err != nil {
		return nil, false, err
	}
	if tag != nil {
		cache[name] = tag
		return tag, false, nil
	}

	tag = &models.Tag{Name: name, CreatedAt: now}
	if err := tx.CreateTag(ctx, tag); err != nil {
		return nil, false, err
	}
	cache[name] = tag
	return tag, true, nil
}

// GetByID returns the cat with the given external id, or an error
// wrapping apperr.ErrNotFound.
func (s *CatService) GetByID(ctx context.Context, id string) (*CatDTO, error) {
	cat, err := s.store.GetCat(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := newCatDTO(*cat)
	return &dto, nil
}

// List returns cats in insertion order.
func (s *CatService) List(ctx context.Context, page, pageSize int) (*Page[CatDTO], error) {
	offset, err := pageOffset(page, pageSize)
	if err != nil {
		return nil, err
	}
	cats, total, err := s.store.ListCats(ctx, offset, pageSize)
	if err != nil {
		return nil, fmt.Errorf("list cats: %w", err)
	}
	return newCatPage(cats, total, page, pageSize), nil
}

// ListByTag returns cats carrying a tag named exactly tag. No match is an
// empty page, not an error.
func (s *CatService) ListByTag(ctx context.Context, tag string, page, pageSize int) (*Page[CatDTO], error) {
	if tag == "" {
		return nil, fmt.Errorf("%w: tag is required", apperr.ErrValidation)
	}
	offset, err := pageOffset(page, pageSize)
	if err != nil {
		return nil, err
	}
	cats, total, err := s.store.ListCatsByTag(ctx, tag, offset, pageSize)
	if err != nil {
		return nil, fmt.Errorf("list cats by tag %q: %w", tag, err)
	}
	return newCatPage(cats, total, page, pageSize), nil
}

// ListTags returns tags in creation order with their cat counts.
func (s *CatService) ListTags(ctx context.Context, page, pageSize int) (*Page[TagDTO], error) {
	offset, err := pageOffset(page, pageSize)
	if err != nil {
		return nil, err
	}
	rows, total, err := s.store.ListTags(ctx, offset, pageSize)
	if err != nil {
		return nil, err
	}
	items := make([]TagDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, TagDTO{Name: row.Name, CatCount: row.CatCount, CreatedAt: row.CreatedAt})
	}
	return &Page[TagDTO]{Items: items, Total: total, Page: page, PageSize: pageSize}, nil
}

// Ping reports whether the store is reachable.
func (s *CatService) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

func (s *CatService) log(ctx context.Context) *zerolog.Logger {
	if l := zerolog.Ctx(ctx); l.GetLevel() != zerolog.Disabled {
		return l
	}
	return &s.logger
}

func pageOffset(page, pageSize int) (int, error) {
	if page < 1 {
		return 0, fmt.Errorf("%w: page must be positive, got %d", apperr.ErrValidation, page)
	}
	if pageSize < 1 {
		return 0, fmt.Errorf("%w: pageSize must be positive, got %d", apperr.ErrValidation, pageSize)
	}
	if page-1 > math.MaxInt32/pageSize {
		return 0, fmt.Errorf("%w: page %d out of range", apperr.ErrValidation, page)
	}
	return (page - 1) * pageSize, nil
}

func newCatDTO(cat models.Cat) CatDTO {
	return CatDTO{
		ID:        cat.CatID,
		URL:       cat.Image,
		Width:     cat.Width,
		Height:    cat.Height,
		Tags:      cat.TagNames(),
		CreatedAt: cat.CreatedAt,
	}
}

func newCatPage(cats []models.Cat, total int64, page, pageSize int) *Page[CatDTO] {
	items := make([]CatDTO, 0, len(cats))
	for _, cat := range cats {
		items = append(items, newCatDTO(cat))
	}
	return &Page[CatDTO]{Items: items, Total: total, Page: page, PageSize: pageSize}
}
