// Package users provides database operations for account management.
//
// # Usage
//
//	repo := users.NewRepository(db)
//	user, err := repo.GetByEmail("admin@example.com")
package users

import (
	"gorm.io/gorm"

	"github.com/lucasmoraes/devocional/internal/entities"
)

// Repository handles all user database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new users repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists a new user.
func (r *Repository) Create(user *entities.User) error {
	return r.db.Create(user).Error
}

// GetByID retrieves a user by ID.
func (r *Repository) GetByID(id string) (*entities.User, error) {
	var user entities.User
	err := r.db.First(&user, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByEmail retrieves a user by email.
func (r *Repository) GetByEmail(email string) (*entities.User, error) {
	var user entities.User
	err := r.db.Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// List retrieves all users, newest first.
func (r *Repository) List() ([]entities.User, error) {
	var users []entities.User
	err := r.db.Order("created_at DESC").Find(&users).Error
	return users, err
}

// Update saves the full user record.
func (r *Repository) Update(user *entities.User) error {
	return r.db.Save(user).Error
}

// Delete removes a user together with every devotional they authored. The
// devotionals' link rows go first, then the articles, then the account, all
// in one transaction. Returns how many devotionals were removed.
func (r *Repository) Delete(id string) (int64, error) {
	var removed int64
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var devotionalIDs []string
		err := tx.Model(&entities.Devotional{}).
			Where("author_id = ?", id).
			Pluck("id", &devotionalIDs).Error
		if err != nil {
			return err
		}

		if len(devotionalIDs) > 0 {
			if err := tx.Exec("DELETE FROM devotional_tags WHERE devotional_id IN ?", devotionalIDs).Error; err != nil {
				return err
			}
			if err := tx.Where("id IN ?", devotionalIDs).Delete(&entities.Devotional{}).Error; err != nil {
				return err
			}
		}

		result := tx.Where("id = ?", id).Delete(&entities.User{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		removed = int64(len(devotionalIDs))
		return nil
	})
	if err != nil {
		return 0, err
	}
	return removed, nil
}

// HasAny reports whether at least one user exists.
func (r *Repository) HasAny() (bool, error) {
	var count int64
	err := r.db.Model(&entities.User{}).Count(&count).Error
	return count > 0, err
}
