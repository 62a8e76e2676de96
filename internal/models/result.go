package models

import (
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"
)

// DimensionScores holds one normalized percentage in [0, 100] per dimension.
// For MBTI each value is the share attributed to the pair's second letter.
type DimensionScores map[Dimension]int

func (s DimensionScores) Clone() DimensionScores {
	out := make(DimensionScores, len(s))
	for d, v := range s {
		out[d] = v
	}
	return out
}

// Classification is the categorical outcome. Exactly one field is set,
// depending on the assessment kind.
type Classification struct {
	TopCategories []Dimension `json:"top_categories,omitempty"`
	TypeCode      string      `json:"type_code,omitempty"`
}

type RankedMatch struct {
	EntityID     string `json:"entity_id"`
	Title        string `json:"title"`
	MatchPercent int    `json:"match_percent"`
}

// Result is the scored outcome of a submitted session. It is never mutated
// after composition; a retake produces a new Result.
type Result struct {
	ID              string          `json:"id"`
	Kind            AssessmentKind  `json:"kind"`
	StudentID       string          `json:"student_id"`
	CatalogVersion  string          `json:"catalog_version"`
	Timestamp       time.Time       `json:"timestamp"`
	DimensionScores DimensionScores `json:"dimension_scores"`
	Classification  Classification  `json:"classification"`
	RankedMatches   []RankedMatch   `json:"ranked_matches"`
}

// Clone returns a deep copy so callers cannot alias the stored result.
func (r *Result) Clone() *Result {
	if r == nil {
		return nil
	}
	out := *r
	out.DimensionScores = r.DimensionScores.Clone()
	out.Classification.TopCategories = append([]Dimension(nil), r.Classification.TopCategories...)
	out.RankedMatches = append([]RankedMatch(nil), r.RankedMatches...)
	return &out
}

// ResultRecord is the persisted shape of a Result.
type ResultRecord struct {
	ID              string         `gorm:"primaryKey;size:36"`
	Kind            string         `gorm:"not null;size:16;index"`
	StudentID       string         `gorm:"not null;size:128;index"`
	CatalogVersion  string         `gorm:"not null;size:32"`
	CompletedAt     time.Time      `gorm:"not null;index"`
	DimensionScores datatypes.JSON `gorm:"type:jsonb;not null"`
	Classification  datatypes.JSON `gorm:"type:jsonb;not null"`
	RankedMatches   datatypes.JSON `gorm:"type:jsonb;not null"`
	CreatedAt       time.Time
}

func (ResultRecord) TableName() string {
	return "assessment_results"
}

func NewResultRecord(result *Result) (*ResultRecord, error) {
	scores, err := json.Marshal(result.DimensionScores)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal dimension scores: %w", err)
	}
	classification, err := json.Marshal(result.Classification)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal classification: %w", err)
	}
	matches, err := json.Marshal(result.RankedMatches)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal ranked matches: %w", err)
	}

	return &ResultRecord{
		ID:              result.ID,
		Kind:            string(result.Kind),
		StudentID:       result.StudentID,
		CatalogVersion:  result.CatalogVersion,
		CompletedAt:     result.Timestamp,
		DimensionScores: datatypes.JSON(scores),
		Classification:  datatypes.JSON(classification),
		RankedMatches:   datatypes.JSON(matches),
	}, nil
}

func (r *ResultRecord) ToResult() (*Result, error) {
	result := &Result{
		ID:             r.ID,
		Kind:           AssessmentKind(r.Kind),
		StudentID:      r.StudentID,
		CatalogVersion: r.CatalogVersion,
		Timestamp:      r.CompletedAt,
	}
	if err := json.Unmarshal(r.DimensionScores, &result.DimensionScores); err != nil {
		return nil, fmt.Errorf("failed to unmarshal dimension scores: %w", err)
	}
	if err := json.Unmarshal(r.Classification, &result.Classification); err != nil {
		return nil, fmt.Errorf("failed to unmarshal classification: %w", err)
	}
	if err := json.Unmarshal(r.RankedMatches, &result.RankedMatches); err != nil {
		return nil, fmt.Errorf("failed to unmarshal ranked matches: %w", err)
	}
	return result, nil
}
