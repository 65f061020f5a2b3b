package http

import (
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/lucasmoraes/devocional/internal/auth"
	"github.com/lucasmoraes/devocional/internal/entities"
)

// GetUserID extracts the authenticated user's ID from the Gin context.
// Returns an empty string when auth is disabled or no user is authenticated.
func GetUserID(c *gin.Context) string {
	return auth.GetUserID(c)
}

// --- Response Types ---

// Response is the standard envelope for all API responses.
type Response struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// DevotionalPage is the data payload of a filtered devotional listing.
type DevotionalPage struct {
	Devotionals []entities.Devotional `json:"devotionals"`
	Total       int64                 `json:"total"`
	Limit       int                   `json:"limit"`
	Offset      int                   `json:"offset"`
	HasMore     bool                  `json:"hasMore"`
}

// --- Error Response Helpers ---

// respondBadRequest sends a 400 Bad Request response.
func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, Response{Success: false, Error: message})
}

// respondNotFound sends a 404 Not Found response.
func respondNotFound(c *gin.Context, resource string) {
	c.JSON(http.StatusNotFound, Response{Success: false, Error: resource + " not found"})
}

// respondInternalError logs the error and sends a 500 Internal Server Error
// response. The actual error is logged but not exposed to the client.
func respondInternalError(c *gin.Context, err error, context string) {
	log.Printf("Internal error (%s): %v", context, err)
	c.JSON(http.StatusInternalServerError, Response{Success: false, Error: "internal server error"})
}

// --- Success Response Helpers ---

// respondOK sends a 200 OK response with data.
func respondOK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Response{Success: true, Data: data})
}

// respondCreated sends a 201 Created response with data.
func respondCreated(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, Response{Success: true, Data: data})
}

// respondList sends a 200 OK response with a paginated devotional listing.
func respondList(c *gin.Context, list []entities.Devotional, total int64, limit, offset int) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data: DevotionalPage{
			Devotionals: list,
			Total:       total,
			Limit:       limit,
			Offset:      offset,
			HasMore:     int64(offset+limit) < total,
		},
	})
}

// --- Parameter Parsing ---

// parseIntQuery extracts a non-negative integer from query parameters,
// falling back to def when absent or unparseable.
func parseIntQuery(c *gin.Context, name string, def int) int {
	raw := c.Query(name)
	if raw == "" {
		return def
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return def
	}
	return value
}

// parseBoolQuery extracts an optional boolean from query parameters.
// Returns nil when the parameter is absent or not a valid boolean.
func parseBoolQuery(c *gin.Context, name string) *bool {
	raw := c.Query(name)
	if raw == "" {
		return nil
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return nil
	}
	return &value
}

// parseListQuery splits a comma-separated query parameter into trimmed,
// non-empty values.
func parseListQuery(c *gin.Context, name string) []string {
	raw := c.Query(name)
	if raw == "" {
		return nil
	}
	var values []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			values = append(values, trimmed)
		}
	}
	return values
}
