package scoring

import (
	"sort"

	apperrors "github.com/SAP-F-2025/career-assessment-service/internal/errors"
	"github.com/SAP-F-2025/career-assessment-service/internal/models"
)

const (
	primaryWeight   = 2
	secondaryWeight = 1
)

// Matchable is a knowledge base row that can be ranked against scores.
type Matchable interface {
	MatchKey() string
	MatchTitle() string
	Categories() (primary, secondary []models.Dimension)
}

// Match ranks every entity by weighted overlap with scores. Primary
// categories weigh double. The result is sorted by match percent descending;
// ties keep knowledge base order. Dimensions missing from scores count as 0.
//
// An entity without categories is a DataIntegrityError.
func Match[T Matchable](scores models.DimensionScores, entities []T) ([]models.RankedMatch, error) {
	matches := make([]models.RankedMatch, 0, len(entities))
	for _, e := range entities {
		primary, secondary := e.Categories()
		maxPossible := 100 * (primaryWeight*len(primary) + secondaryWeight*len(secondary))
		if maxPossible == 0 {
			return nil, apperrors.NewDataIntegrityError(e.MatchKey(), "entity has no categories")
		}

		raw := 0
		for _, d := range primary {
			raw += scores[d] * primaryWeight
		}
		for _, d := range secondary {
			raw += scores[d] * secondaryWeight
		}

		matches = append(matches, models.RankedMatch{
			EntityID:     e.MatchKey(),
			Title:        e.MatchTitle(),
			MatchPercent: percent(float64(raw), float64(maxPossible)),
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].MatchPercent > matches[j].MatchPercent
	})
	return matches, nil
}

// LetterScores expands MBTI pair scores into per-letter affinities: the
// second letter carries the pair score, the first letter its complement.
// Type profiles are matched against these.
func LetterScores(scores models.DimensionScores) models.DimensionScores {
	out := make(models.DimensionScores, len(models.MBTILetters))
	for _, d := range models.MBTIDimensions {
		first, second, _ := d.Letters()
		s, ok := scores[d]
		if !ok {
			s = neutralScore
		}
		out[first] = 100 - s
		out[second] = s
	}
	return out
}
