package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/smartsuschef/backend-go/internal/domain"
)

// respondError maps domain errors onto HTTP statuses. Unknown errors become
// an opaque 500; the detail stays in the log.
func respondError(c *gin.Context, err error) {
	switch {
	case domain.IsValidation(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, domain.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrCyclicRecipe):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "recipe graph contains a cycle"})
	default:
		log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

func parseIDParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": name + " must be a positive integer"})
		return 0, false
	}
	return id, true
}

func parseIntQuery(c *gin.Context, name string, fallback int) (int, bool) {
	raw := c.DefaultQuery(name, strconv.Itoa(fallback))
	v, err := strconv.Atoi(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": name + " must be an integer"})
		return 0, false
	}
	return v, true
}

func parseDateQuery(c *gin.Context, name string) (time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": name + " is required (YYYY-MM-DD)"})
		return time.Time{}, false
	}
	date, err := time.Parse(domain.DateFormat, raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": name + " must be a YYYY-MM-DD date"})
		return time.Time{}, false
	}
	return date, true
}
