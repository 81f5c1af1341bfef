package controllers

import (
	"net/http"
	"strconv"

	"epinera-marketplace/middleware"
	"epinera-marketplace/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// currentUserID pulls the authenticated user's ID out of the context. On
// failure it writes the error response and returns false.
func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	raw, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid user identity"})
		return uuid.Nil, false
	}
	return id, true
}

// uuidParam parses a UUID path parameter, writing a 400 on failure.
func uuidParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return uuid.Nil, false
	}
	return id, true
}

// respondError renders a ServiceError with its kind and any details.
func respondError(c *gin.Context, serr *services.ServiceError) {
	body := gin.H{
		"error": serr.Message,
		"kind":  string(serr.Kind),
	}
	if len(serr.Details) > 0 {
		body["details"] = serr.Details
	}
	c.JSON(serr.StatusCode, body)
}

// pageParams reads page/limit query parameters with defaults.
func pageParams(c *gin.Context, defaultLimit int) (int, int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultLimit)))
	if err != nil || limit < 1 {
		limit = defaultLimit
	}
	return page, limit
}
