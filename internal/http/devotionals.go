package http

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lucasmoraes/devocional/internal/database/devotionals"
	"github.com/lucasmoraes/devocional/internal/entities"
)

// DevotionalStore defines the devotional operations needed by the controller.
// internal/database/devotionals.Repository implements this.
type DevotionalStore interface {
	Create(input devotionals.CreateInput) (*entities.Devotional, error)
	Update(id string, input devotionals.UpdateInput) (*entities.Devotional, error)
	Delete(id string) error
	GetBySlug(slug string) (*entities.Devotional, error)
	ListPublished() ([]entities.Devotional, error)
	ListByAuthor(authorID string) ([]entities.Devotional, error)
	Search(params devotionals.SearchParams) ([]entities.Devotional, int64, error)
}

// DevotionalsController handles devotional API endpoints.
type DevotionalsController struct {
	store DevotionalStore
}

// NewDevotionalsController creates a new devotionals controller.
func NewDevotionalsController(store DevotionalStore) *DevotionalsController {
	return &DevotionalsController{store: store}
}

// devotionalRequest is the JSON body for create and update.
type devotionalRequest struct {
	Title          string    `json:"title"`
	Excerpt        string    `json:"excerpt"`
	Content        string    `json:"content"`
	BibleVerse     string    `json:"bibleVerse"`
	BibleReference string    `json:"bibleReference"`
	Author         string    `json:"author"`
	AuthorID       *string   `json:"authorId"`
	Date           time.Time `json:"date"`
	Featured       bool      `json:"featured"`
	Published      *bool     `json:"published"`
	Tags           []string  `json:"tagNames"`
}

// List returns published devotionals. With any of the searchTerm, tagNames,
// author or featured query parameters present it runs the filtered, paginated
// search; otherwise it returns the full catalog, newest first.
func (dc *DevotionalsController) List(c *gin.Context) {
	searchTerm := c.Query("searchTerm")
	tagNames := parseListQuery(c, "tagNames")
	author := c.Query("author")
	featured := parseBoolQuery(c, "featured")

	filtered := searchTerm != "" || len(tagNames) > 0 || author != "" || featured != nil ||
		c.Query("limit") != "" || c.Query("offset") != ""

	if !filtered {
		list, err := dc.store.ListPublished()
		if err != nil {
			respondInternalError(c, err, "list devotionals")
			return
		}
		respondOK(c, list)
		return
	}

	limit := parseIntQuery(c, "limit", 20)
	offset := parseIntQuery(c, "offset", 0)

	list, total, err := dc.store.Search(devotionals.SearchParams{
		SearchTerm: searchTerm,
		TagNames:   tagNames,
		Author:     author,
		Featured:   featured,
		Limit:      limit,
		Offset:     offset,
	})
	if err != nil {
		respondInternalError(c, err, "search devotionals")
		return
	}

	respondList(c, list, total, limit, offset)
}

// GetBySlug returns a single published devotional.
func (dc *DevotionalsController) GetBySlug(c *gin.Context) {
	devotional, err := dc.store.GetBySlug(c.Param("slug"))
	if err != nil {
		if errors.Is(err, devotionals.ErrNotFound) {
			respondNotFound(c, "devotional")
			return
		}
		respondInternalError(c, err, "get devotional")
		return
	}
	respondOK(c, devotional)
}

// Create persists a new devotional with its tags.
func (dc *DevotionalsController) Create(c *gin.Context) {
	var req devotionalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	authorID := req.AuthorID
	if authorID == nil {
		if userID := GetUserID(c); userID != "" {
			authorID = &userID
		}
	}

	devotional, err := dc.store.Create(devotionals.CreateInput{
		Title:          req.Title,
		Excerpt:        req.Excerpt,
		Content:        req.Content,
		BibleVerse:     req.BibleVerse,
		BibleReference: req.BibleReference,
		Author:         req.Author,
		AuthorID:       authorID,
		Date:           req.Date,
		Featured:       req.Featured,
		Published:      req.Published,
		TagNames:       req.Tags,
	})
	if err != nil {
		if errors.Is(err, devotionals.ErrValidation) {
			respondBadRequest(c, err.Error())
			return
		}
		respondInternalError(c, err, "create devotional")
		return
	}

	respondCreated(c, devotional)
}

// Update rewrites an existing devotional and replaces its tag set.
func (dc *DevotionalsController) Update(c *gin.Context) {
	var req devotionalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	published := true
	if req.Published != nil {
		published = *req.Published
	}

	devotional, err := dc.store.Update(c.Param("id"), devotionals.UpdateInput{
		Title:          req.Title,
		Excerpt:        req.Excerpt,
		Content:        req.Content,
		BibleVerse:     req.BibleVerse,
		BibleReference: req.BibleReference,
		Author:         req.Author,
		AuthorID:       req.AuthorID,
		Date:           req.Date,
		Featured:       req.Featured,
		Published:      published,
		TagNames:       req.Tags,
	})
	if err != nil {
		if errors.Is(err, devotionals.ErrNotFound) {
			respondNotFound(c, "devotional")
			return
		}
		respondInternalError(c, err, "update devotional")
		return
	}

	respondOK(c, devotional)
}

// Delete removes a devotional and its tag links.
func (dc *DevotionalsController) Delete(c *gin.Context) {
	if err := dc.store.Delete(c.Param("id")); err != nil {
		if errors.Is(err, devotionals.ErrNotFound) {
			respondNotFound(c, "devotional")
			return
		}
		respondInternalError(c, err, "delete devotional")
		return
	}
	respondOK(c, gin.H{"deleted": true})
}

// ListByAuthor returns the devotionals written by a given user.
func (dc *DevotionalsController) ListByAuthor(c *gin.Context) {
	list, err := dc.store.ListByAuthor(c.Param("id"))
	if err != nil {
		respondInternalError(c, err, "list devotionals by author")
		return
	}
	respondOK(c, list)
}
