package repositories

import (
	"errors"
	"time"

	"github.com/SAP-F-2025/career-assessment-service/internal/models"
)

var ErrResultNotFound = errors.New("result not found")

// ===== SHARED FILTER STRUCTS =====

type ResultFilters struct {
	Kind      *models.AssessmentKind `json:"kind"`
	DateFrom  *time.Time             `json:"date_from"`
	DateTo    *time.Time             `json:"date_to"`
	Limit     int                    `json:"limit"`
	Offset    int                    `json:"offset"`
	SortOrder string                 `json:"sort_order"` // "asc", "desc"
}

// Matches reports whether result passes the non-paging filters.
func (f ResultFilters) Matches(result *models.Result) bool {
	if f.Kind != nil && result.Kind != *f.Kind {
		return false
	}
	if f.DateFrom != nil && result.Timestamp.Before(*f.DateFrom) {
		return false
	}
	if f.DateTo != nil && result.Timestamp.After(*f.DateTo) {
		return false
	}
	return true
}

// Descending reports whether results should be returned newest first.
func (f ResultFilters) Descending() bool {
	return f.SortOrder == "desc"
}
