package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Devotional is a single published or draft article. The denormalized Author
// string and the AuthorID foreign key may disagree after a user rename; no
// cascade update keeps them in sync.
type Devotional struct {
	ID             string    `gorm:"primaryKey;size:36" json:"id"`
	Slug           string    `gorm:"uniqueIndex;size:256" json:"slug"`
	Title          string    `gorm:"size:512" json:"title"`
	Excerpt        string    `gorm:"type:text" json:"excerpt"`
	Content        string    `gorm:"type:text" json:"content"`
	BibleVerse     string    `gorm:"type:text" json:"bibleVerse"`
	BibleReference string    `gorm:"size:100" json:"bibleReference"`
	Author         string    `gorm:"index;size:256" json:"author"`
	AuthorID       *string   `gorm:"index;size:36" json:"authorId,omitempty"`
	Date           time.Time `gorm:"index" json:"date"`
	Featured       bool      `gorm:"default:false" json:"featured"`
	Published      bool      `gorm:"default:true" json:"published"`
	Tags           []Tag     `gorm:"many2many:devotional_tags;" json:"tags"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// Tag is a categorical label. Name is the natural key: lookups and lazy
// creation match on the exact, case-sensitive name.
type Tag struct {
	ID          string       `gorm:"primaryKey;size:36" json:"id"`
	Name        string       `gorm:"uniqueIndex;size:100" json:"name"`
	Color       *string      `gorm:"size:100" json:"color"`
	Devotionals []Devotional `gorm:"many2many:devotional_tags;" json:"-"`
	CreatedAt   time.Time    `json:"createdAt"`
}

func (Devotional) TableName() string {
	return "devotionals"
}

func (Tag) TableName() string {
	return "tags"
}

func (d *Devotional) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	return nil
}

func (t *Tag) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}
