package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/SAP-F-2025/career-assessment-service/internal/models"
	"github.com/SAP-F-2025/career-assessment-service/internal/repositories"
	"github.com/gin-gonic/gin"
)

func ParseStringIDParam(c *gin.Context, param string) string {
	idStr := c.Param(param)
	idStr = strings.TrimSpace(idStr)
	if idStr == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid " + param,
			Details: "ID cannot be empty",
		})
		return ""
	}
	return idStr
}

func parseIntQuery(c *gin.Context, key string, defaultValue int) int {
	if value := c.Query(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil && parsed > 0 {
			return parsed
		}
	}
	return defaultValue
}

// parseResultFilters reads kind, date range, sort order and paging from the
// query string. page and size are only applied when size is given.
func parseResultFilters(c *gin.Context) (repositories.ResultFilters, bool) {
	var filters repositories.ResultFilters

	if kind := c.Query("kind"); kind != "" {
		k := models.AssessmentKind(strings.ToLower(kind))
		if !k.Valid() {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Message: "Invalid kind",
				Details: "kind must be riasec or mbti",
			})
			return filters, false
		}
		filters.Kind = &k
	}

	for key, dst := range map[string]**time.Time{"date_from": &filters.DateFrom, "date_to": &filters.DateTo} {
		value := c.Query(key)
		if value == "" {
			continue
		}
		t, err := time.Parse(time.RFC3339, value)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Message: "Invalid " + key,
				Details: "expected RFC3339 timestamp",
			})
			return filters, false
		}
		*dst = &t
	}

	if order := strings.ToLower(c.Query("sort_order")); order == "asc" || order == "desc" {
		filters.SortOrder = order
	}

	if size := parseIntQuery(c, "size", 0); size > 0 {
		page := parseIntQuery(c, "page", 1)
		filters.Limit = size
		filters.Offset = (page - 1) * size
	}

	return filters, true
}
