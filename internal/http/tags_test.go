package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lucasmoraes/devocional/internal/database"
	"github.com/lucasmoraes/devocional/internal/database/tags"
	"github.com/lucasmoraes/devocional/internal/entities"
)

func setupTagsTest(t *testing.T) (*gin.Engine, *tags.Repository, func()) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dbPath := "./test_tags_" + strings.ReplaceAll(t.Name(), "/", "_") + ".db"
	db, err := database.NewDatabase(dbPath)
	require.NoError(t, err)

	repo := tags.NewRepository(db.DB)
	controller := NewTagsController(repo, nil)

	router := gin.New()
	router.GET("/api/tags", controller.List)
	router.POST("/api/tags", controller.Create)
	router.POST("/api/admin/tags/cleanup", controller.CleanupOrphans)

	cleanup := func() {
		db.Close()
		os.Remove(dbPath)
	}
	return router, repo, cleanup
}

type tagEnvelope struct {
	Success bool         `json:"success"`
	Data    entities.Tag `json:"data"`
	Error   string       `json:"error"`
}

type tagListEnvelope struct {
	Success bool           `json:"success"`
	Data    []entities.Tag `json:"data"`
}

func TestTagsController_List(t *testing.T) {
	router, _, cleanup := setupTagsTest(t)
	defer cleanup()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/tags", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp tagListEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)

	// A fresh database ships with the default tag set, alphabetical.
	require.Len(t, resp.Data, 10)
	names := make([]string, 0, len(resp.Data))
	for _, tag := range resp.Data {
		names = append(names, tag.Name)
	}
	assert.Contains(t, names, "paz")
	assert.Contains(t, names, "oração")
	assert.True(t, sortedAlphabetically(names))
}

func sortedAlphabetically(names []string) bool {
	for i := 1; i < len(names); i++ {
		if names[i-1] > names[i] {
			return false
		}
	}
	return true
}

func TestTagsController_Create(t *testing.T) {
	t.Run("creates a new tag", func(t *testing.T) {
		router, _, cleanup := setupTagsTest(t)
		defer cleanup()

		body := bytes.NewBufferString(`{"name": "esperança"}`)
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/api/tags", body)
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)

		var resp tagEnvelope
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.True(t, resp.Success)
		assert.Equal(t, "esperança", resp.Data.Name)
		assert.NotEmpty(t, resp.Data.ID)
	})

	t.Run("returns the existing tag for a known name", func(t *testing.T) {
		router, repo, cleanup := setupTagsTest(t)
		defer cleanup()

		existing, err := repo.GetOrCreate("paz")
		require.NoError(t, err)

		body := bytes.NewBufferString(`{"name": "paz"}`)
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/api/tags", body)
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)

		var resp tagEnvelope
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, existing.ID, resp.Data.ID)
	})

	t.Run("returns 400 when name is missing", func(t *testing.T) {
		router, _, cleanup := setupTagsTest(t)
		defer cleanup()

		body := bytes.NewBufferString(`{}`)
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/api/tags", body)
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)

		var resp tagEnvelope
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.False(t, resp.Success)
	})
}

func TestTagsController_CleanupOrphans(t *testing.T) {
	t.Run("returns 503 when the task queue is disabled", func(t *testing.T) {
		router, _, cleanup := setupTagsTest(t)
		defer cleanup()

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/api/admin/tags/cleanup", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)

		var resp tagEnvelope
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.False(t, resp.Success)
		assert.Contains(t, resp.Error, "task queue")
	})
}
