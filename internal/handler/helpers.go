package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/campushq/school-api/internal/middleware"
	"github.com/campushq/school-api/internal/models"
)

func identityFromContext(c *gin.Context) *models.Identity {
	return middleware.IdentityFromContext(c)
}

func queryInt(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

func queryIntPtr(c *gin.Context, name string) *int {
	raw := c.Query(name)
	if raw == "" {
		return nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return nil
	}
	return &value
}

func queryDate(c *gin.Context, name string) *time.Time {
	raw := c.Query(name)
	if raw == "" {
		return nil
	}
	parsed, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil
	}
	return &parsed
}

func pageParams(c *gin.Context) (int, int) {
	return queryInt(c, "page", 1), queryInt(c, "page_size", 20)
}

func cacheMeta(hit bool) map[string]interface{} {
	if !hit {
		return nil
	}
	return map[string]interface{}{"cache": "hit"}
}
