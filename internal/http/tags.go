package http

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lucasmoraes/devocional/internal/entities"
	"github.com/lucasmoraes/devocional/internal/tasks"
)

// TagStore defines database operations for tag management.
// internal/database/tags.Repository implements this.
type TagStore interface {
	List() ([]entities.Tag, error)
	GetOrCreate(name string) (*entities.Tag, error)
	DeleteOrphans() (int64, error)
}

type TagsController struct {
	store      TagStore
	taskClient *tasks.Client
}

func NewTagsController(store TagStore, taskClient *tasks.Client) *TagsController {
	return &TagsController{store: store, taskClient: taskClient}
}

// List returns all tags, ordered by name.
// GET /api/tags
func (tc *TagsController) List(c *gin.Context) {
	tags, err := tc.store.List()
	if err != nil {
		respondInternalError(c, err, "list tags")
		return
	}
	respondOK(c, tags)
}

// Create resolves a tag by name, creating it when missing. Tags are usually
// created lazily through devotional writes; this endpoint exists so admin
// screens can prepare tags ahead of time.
// POST /api/tags
func (tc *TagsController) Create(c *gin.Context) {
	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "name is required")
		return
	}

	tag, err := tc.store.GetOrCreate(req.Name)
	if err != nil {
		respondInternalError(c, err, "create tag")
		return
	}

	respondCreated(c, tag)
}

// CleanupOrphans enqueues removal of tags no devotional links to.
// Requires the task queue to be enabled.
// POST /api/admin/tags/cleanup
func (tc *TagsController) CleanupOrphans(c *gin.Context) {
	if tc.taskClient == nil {
		c.JSON(http.StatusServiceUnavailable, Response{
			Success: false,
			Error:   "task queue is not enabled",
		})
		return
	}

	task := tasks.CleanupOrphanTagsTask{}
	ids, err := tc.taskClient.Add(task).Save()
	if err != nil {
		respondInternalError(c, err, "enqueue cleanup task")
		return
	}
	log.Printf("Enqueued CleanupOrphanTagsTask with ID: %s", ids[0])

	c.JSON(http.StatusAccepted, Response{
		Success: true,
		Data:    gin.H{"task_id": ids[0]},
	})
}
