// Package devotionals provides database operations for devotional articles:
// creation, updates, slug lookup and the filtered search over the published
// catalog.
//
// Tag links are maintained through the TagSyncer, implemented by
// internal/database/tags.Repository, so every write that carries a tag list
// replaces the article's whole tag set inside the same transaction.
package devotionals

import (
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/lucasmoraes/devocional/internal/entities"
	"github.com/lucasmoraes/devocional/internal/slug"
)

var (
	// ErrValidation is returned when a required field is missing on create.
	ErrValidation = errors.New("all required fields must be filled")
	// ErrNotFound is returned when no devotional matches the lookup.
	ErrNotFound = errors.New("devotional not found")
)

// TagSyncer maintains the devotional/tag link table.
type TagSyncer interface {
	ReplaceForDevotionalTx(tx *gorm.DB, devotionalID string, names []string) ([]entities.Tag, error)
	ClearForDevotionalTx(tx *gorm.DB, devotionalID string) error
}

// Repository handles all devotional database operations.
type Repository struct {
	db   *gorm.DB
	tags TagSyncer
}

// NewRepository creates a new devotionals repository.
func NewRepository(db *gorm.DB, tags TagSyncer) *Repository {
	return &Repository{db: db, tags: tags}
}

// CreateInput carries the fields for a new devotional. Published defaults to
// true and Date to the current time when unset.
type CreateInput struct {
	Title          string
	Excerpt        string
	Content        string
	BibleVerse     string
	BibleReference string
	Author         string
	AuthorID       *string
	Date           time.Time
	Featured       bool
	Published      *bool
	TagNames       []string
}

// UpdateInput carries the full set of mutable fields for an update. The slug
// is immutable once derived; it never changes here.
type UpdateInput struct {
	Title          string
	Excerpt        string
	Content        string
	BibleVerse     string
	BibleReference string
	Author         string
	AuthorID       *string
	Date           time.Time
	Featured       bool
	Published      bool
	TagNames       []string
}

// SearchParams are the filters accepted by Search. A nil Featured means "no
// featured filter"; Limit defaults to 20.
type SearchParams struct {
	SearchTerm string
	TagNames   []string
	Author     string
	Featured   *bool
	Limit      int
	Offset     int
}

// Create validates the required fields, derives the slug from the title and
// persists the devotional together with its tag links in one transaction.
func (r *Repository) Create(input CreateInput) (*entities.Devotional, error) {
	if input.Title == "" || input.Excerpt == "" || input.Content == "" ||
		input.BibleVerse == "" || input.BibleReference == "" || input.Author == "" {
		return nil, ErrValidation
	}

	published := true
	if input.Published != nil {
		published = *input.Published
	}
	date := input.Date
	if date.IsZero() {
		date = time.Now()
	}

	var devotional entities.Devotional
	err := r.db.Transaction(func(tx *gorm.DB) error {
		uniqueSlug, err := ensureUniqueSlug(tx, slug.Make(input.Title))
		if err != nil {
			return err
		}

		devotional = entities.Devotional{
			Slug:           uniqueSlug,
			Title:          input.Title,
			Excerpt:        input.Excerpt,
			Content:        input.Content,
			BibleVerse:     input.BibleVerse,
			BibleReference: input.BibleReference,
			Author:         input.Author,
			AuthorID:       input.AuthorID,
			Date:           date,
			Featured:       input.Featured,
			Published:      published,
		}
		if err := tx.Create(&devotional).Error; err != nil {
			return err
		}

		tags, err := r.tags.ReplaceForDevotionalTx(tx, devotional.ID, input.TagNames)
		if err != nil {
			return err
		}
		devotional.Tags = tags
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &devotional, nil
}

// Update rewrites all mutable fields of an existing devotional, bumps
// updated_at and replaces its full tag set, all in one transaction.
func (r *Repository) Update(id string, input UpdateInput) (*entities.Devotional, error) {
	var devotional entities.Devotional
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&devotional, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		updates := map[string]any{
			"title":           input.Title,
			"excerpt":         input.Excerpt,
			"content":         input.Content,
			"bible_verse":     input.BibleVerse,
			"bible_reference": input.BibleReference,
			"author":          input.Author,
			"author_id":       input.AuthorID,
			"date":            input.Date,
			"featured":        input.Featured,
			"published":       input.Published,
		}
		if err := tx.Model(&devotional).Updates(updates).Error; err != nil {
			return err
		}

		if _, err := r.tags.ReplaceForDevotionalTx(tx, id, input.TagNames); err != nil {
			return err
		}

		return tx.Preload("Tags").First(&devotional, "id = ?", id).Error
	})
	if err != nil {
		return nil, err
	}
	return &devotional, nil
}

// Delete removes the devotional and its tag links. Links go first so no
// orphaned join rows can survive; the tags themselves stay.
func (r *Repository) Delete(id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := r.tags.ClearForDevotionalTx(tx, id); err != nil {
			return err
		}
		result := tx.Where("id = ?", id).Delete(&entities.Devotional{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// GetBySlug retrieves a published devotional by slug. Unpublished articles
// are invisible here regardless of who asks.
func (r *Repository) GetBySlug(slugValue string) (*entities.Devotional, error) {
	var devotional entities.Devotional
	err := r.db.Preload("Tags").
		Where("slug = ? AND published = ?", slugValue, true).
		First(&devotional).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &devotional, nil
}

// GetByID retrieves a devotional by ID regardless of the published flag.
// Admin screens use this to edit drafts.
func (r *Repository) GetByID(id string) (*entities.Devotional, error) {
	var devotional entities.Devotional
	err := r.db.Preload("Tags").First(&devotional, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &devotional, nil
}

// ListPublished returns every published devotional, newest first. Callers
// with no search filters use this instead of Search.
func (r *Repository) ListPublished() ([]entities.Devotional, error) {
	var devotionals []entities.Devotional
	err := r.db.Preload("Tags").
		Where("published = ?", true).
		Order("date DESC").
		Find(&devotionals).Error
	return devotionals, err
}

// ListByAuthor returns a user's devotionals, newest first. If the query fails
// (legacy schemas without the author_id column) it degrades to the full
// published listing rather than failing the caller.
func (r *Repository) ListByAuthor(authorID string) ([]entities.Devotional, error) {
	var devotionals []entities.Devotional
	err := r.db.Preload("Tags").
		Where("author_id = ?", authorID).
		Order("date DESC").
		Find(&devotionals).Error
	if err != nil {
		log.Printf("listing by author failed (%v), falling back to all published", err)
		return r.ListPublished()
	}
	return devotionals, nil
}

// Search returns the filtered, paginated slice of published devotionals and
// the total count over the filtered set. Results are ordered featured-first,
// then newest by date. All filters, the tag filter included, apply before
// counting and pagination so total and page size stay consistent.
func (r *Repository) Search(params SearchParams) ([]entities.Devotional, int64, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := params.Offset
	if offset < 0 {
		offset = 0
	}

	query := r.db.Model(&entities.Devotional{}).Where("published = ?", true)

	if params.SearchTerm != "" {
		pattern := "%" + params.SearchTerm + "%"
		query = query.Where(
			"LOWER(title) LIKE LOWER(?) OR LOWER(excerpt) LIKE LOWER(?) OR LOWER(content) LIKE LOWER(?) OR LOWER(author) LIKE LOWER(?)",
			pattern, pattern, pattern, pattern)
	}
	if params.Author != "" {
		query = query.Where("LOWER(author) LIKE LOWER(?)", "%"+params.Author+"%")
	}
	if params.Featured != nil {
		query = query.Where("featured = ?", *params.Featured)
	}
	if len(params.TagNames) > 0 {
		query = query.Where(`devotionals.id IN (
			SELECT devotional_tags.devotional_id FROM devotional_tags
			JOIN tags ON tags.id = devotional_tags.tag_id
			WHERE tags.name IN ?)`, params.TagNames)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var devotionals []entities.Devotional
	err := query.Preload("Tags").
		Order("featured DESC, date DESC").
		Limit(limit).
		Offset(offset).
		Find(&devotionals).Error
	if err != nil {
		return nil, 0, err
	}
	return devotionals, total, nil
}

// ensureUniqueSlug suffixes -2, -3, ... until the derived slug is free.
func ensureUniqueSlug(tx *gorm.DB, base string) (string, error) {
	if base == "" {
		base = "devocional"
	}
	candidate := base
	for i := 2; ; i++ {
		var count int64
		err := tx.Model(&entities.Devotional{}).Where("slug = ?", candidate).Count(&count).Error
		if err != nil {
			return "", err
		}
		if count == 0 {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
}
