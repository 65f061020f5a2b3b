// Package tags provides database operations for tag management and for the
// devotional/tag link table.
//
// This package implements the TagStore interface defined in
// internal/http/tags.go and the TagSyncer interface defined in
// internal/database/devotionals.
//
// # Usage
//
//	repo := tags.NewRepository(db)
//	tag, err := repo.GetOrCreate("paz")
package tags

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/lucasmoraes/devocional/internal/entities"
)

// Repository handles all tag database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new tags repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// GetOrCreate looks a tag up by its exact name, creating it when absent.
// Creation goes through an insert-or-ignore on the unique name index, so two
// concurrent callers resolving the same new name converge on a single row.
func (r *Repository) GetOrCreate(name string) (*entities.Tag, error) {
	return getOrCreate(r.db, name)
}

func getOrCreate(db *gorm.DB, name string) (*entities.Tag, error) {
	var tag entities.Tag
	err := db.Where("name = ?", name).First(&tag).Error
	if err == nil {
		return &tag, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	created := entities.Tag{Name: name}
	err = db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(&created).Error
	if err != nil {
		return nil, err
	}

	// Re-read rather than trusting the insert: on conflict the row that won
	// the race is the one callers must see.
	err = db.Where("name = ?", name).First(&tag).Error
	if err != nil {
		return nil, err
	}
	return &tag, nil
}

// List retrieves all tags, alphabetical by name.
func (r *Repository) List() ([]entities.Tag, error) {
	var tags []entities.Tag
	err := r.db.Order("name ASC").Find(&tags).Error
	return tags, err
}

// GetByID retrieves a tag by ID.
func (r *Repository) GetByID(id string) (*entities.Tag, error) {
	var tag entities.Tag
	err := r.db.First(&tag, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &tag, nil
}

// ReplaceForDevotional replaces a devotional's entire tag set with the given
// names in a single transaction: every existing link row is removed, each
// distinct name is resolved or lazily created, and one link row is inserted
// per resolved tag. Duplicate names are collapsed, input order is kept.
func (r *Repository) ReplaceForDevotional(devotionalID string, names []string) ([]entities.Tag, error) {
	var tags []entities.Tag
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var err error
		tags, err = r.ReplaceForDevotionalTx(tx, devotionalID, names)
		return err
	})
	if err != nil {
		return nil, err
	}
	return tags, nil
}

// ReplaceForDevotionalTx is ReplaceForDevotional running inside the caller's
// transaction, for writes that must update the devotional row and its links
// atomically.
func (r *Repository) ReplaceForDevotionalTx(tx *gorm.DB, devotionalID string, names []string) ([]entities.Tag, error) {
	if err := tx.Exec("DELETE FROM devotional_tags WHERE devotional_id = ?", devotionalID).Error; err != nil {
		return nil, err
	}

	tags := make([]entities.Tag, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true

		tag, err := getOrCreate(tx, name)
		if err != nil {
			return nil, err
		}
		err = tx.Exec("INSERT INTO devotional_tags (devotional_id, tag_id) VALUES (?, ?)",
			devotionalID, tag.ID).Error
		if err != nil {
			return nil, err
		}
		tags = append(tags, *tag)
	}
	return tags, nil
}

// ClearForDevotionalTx removes every link row for a devotional. Tags
// themselves are kept; deleting an article never deletes its labels.
func (r *Repository) ClearForDevotionalTx(tx *gorm.DB, devotionalID string) error {
	return tx.Exec("DELETE FROM devotional_tags WHERE devotional_id = ?", devotionalID).Error
}

// CountOrphans returns how many tags no devotional references.
func (r *Repository) CountOrphans() (int64, error) {
	var count int64
	err := r.db.Model(&entities.Tag{}).
		Where("id NOT IN (SELECT tag_id FROM devotional_tags)").
		Count(&count).Error
	return count, err
}

// DeleteOrphans removes all tags that no devotional references. Only the
// opt-in maintenance task calls this.
func (r *Repository) DeleteOrphans() (int64, error) {
	result := r.db.Exec(`
		DELETE FROM tags
		WHERE id NOT IN (SELECT tag_id FROM devotional_tags)
	`)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
