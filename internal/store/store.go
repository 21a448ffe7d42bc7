// Package store is the gorm-backed record store for cats and tags.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"catimporter/backend/internal/apperr"
	"catimporter/backend/internal/models"
)

// Store reads and writes Cat and Tag rows. A Store obtained from
// Transaction is bound to that transaction.
type Store struct {
	db *gorm.DB
}

// New returns a Store over db.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Transaction runs fn inside a database transaction. Returning an error
// from fn rolls back every write made through the Store passed to fn.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
}

// Ping checks the database connection.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// CatExists reports whether a cat with the external id is stored.
func (s *Store) CatExists(ctx context.Context, catID string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Cat{}).Where("cat_id = ?", catID).Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("check cat %q: %w", catID, err)
	}
	return count > 0, nil
}

// FindTagByName returns the tag with exactly this name, or nil if none.
func (s *Store) FindTagByName(ctx context.Context, name string) (*models.Tag, error) {
	var tag models.Tag
	err := s.db.WithContext(ctx).Where("name = ?", name).Take(&tag).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find tag %q: %w", name, err)
	}
	return &tag, nil
}

// CreateTag inserts tag and fills in its id.
func (s *Store) CreateTag(ctx context.Context, tag *models.Tag) error {
	if err := s.db.WithContext(ctx).Create(tag).Error; err != nil {
		return fmt.Errorf("create tag %q: %w", tag.Name, err)
	}
	return nil
}

// CreateCat inserts cat and its cat_tags rows. The referenced tags must
// already be stored; they are not re-saved.
func (s *Store) CreateCat(ctx context.Context, cat *models.Cat) error {
	if err := s.db.WithContext(ctx).Omit("Tags.*").Create(cat).Error; err != nil {
		return fmt.Errorf("create cat %q: %w", cat.CatID, err)
	}
	return nil
}

// GetCat loads a cat by external id with its tags.
func (s *Store) GetCat(ctx context.Context, catID string) (*models.Cat, error) {
	var cat models.Cat
	err := s.db.WithContext(ctx).Preload("Tags", orderTags).Where("cat_id = ?", catID).Take(&cat).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("cat %q: %w", catID, apperr.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get cat %q: %w", catID, err)
	}
	return &cat, nil
}

// ListCats returns one page of cats in insertion order and the total count.
func (s *Store) ListCats(ctx context.Context, offset, limit int) ([]models.Cat, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.Cat{}).Session(&gorm.Session{})
	return paginate[models.Cat](query.Preload("Tags", orderTags).Order("cats.id ASC"), query, offset, limit)
}

// ListCatsByTag is ListCats restricted to cats tagged with exactly name.
func (s *Store) ListCatsByTag(ctx context.Context, name string, offset, limit int) ([]models.Cat, int64, error) {
	tagged := s.db.Table("cat_tags").
		Select("cat_tags.cat_id").
		Joins("JOIN tags ON tags.id = cat_tags.tag_id").
		Where("tags.name = ?", name)

	query := s.db.WithContext(ctx).Model(&models.Cat{}).Where("cats.id IN (?)", tagged).Session(&gorm.Session{})
	return paginate[models.Cat](query.Preload("Tags", orderTags).Order("cats.id ASC"), query, offset, limit)
}

// TagCount is a tag together with the number of cats carrying it.
type TagCount struct {
	ID        uint
	Name      string
	CreatedAt time.Time
	CatCount  int64
}

// ListTags returns one page of tags in creation order with their cat counts.
func (s *Store) ListTags(ctx context.Context, offset, limit int) ([]TagCount, int64, error) {
	var total int64
	if err := s.db.WithContext(ctx).Model(&models.Tag{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count tags: %w", err)
	}

	var rows []TagCount
	err := s.db.WithContext(ctx).Model(&models.Tag{}).
		Select("tags.id, tags.name, tags.created_at, COUNT(cat_tags.cat_id) AS cat_count").
		Joins("LEFT JOIN cat_tags ON cat_tags.tag_id = tags.id").
		Group("tags.id, tags.name, tags.created_at").
		Order("tags.id ASC").
		Offset(offset).Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list tags: %w", err)
	}
	return rows, total, nil
}

func orderTags(db *gorm.DB) *gorm.DB {
	return db.Order("tags.id ASC")
}

// paginate counts the rows matched by countQuery and loads one window of
// dataQuery. Both must be derived from a shared base session so neither
// leaks clauses into the other.
func paginate[T any](dataQuery, countQuery *gorm.DB, offset, limit int) ([]T, int64, error) {
	var totalItems int64
	if err := countQuery.Count(&totalItems).Error; err != nil {
		return nil, 0, fmt.Errorf("count: %w", err)
	}

	var results []T
	if err := dataQuery.Offset(offset).Limit(limit).Find(&results).Error; err != nil {
		return nil, 0, fmt.Errorf("find: %w", err)
	}
	return results, totalItems, nil
}
