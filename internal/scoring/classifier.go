package scoring

import (
	"sort"
	"strings"

	"github.com/SAP-F-2025/career-assessment-service/internal/models"
)

// TopCategoryCount is the number of RIASEC categories in a Holland code.
const TopCategoryCount = 3

// Classify derives the categorical outcome for kind from its scores.
func Classify(kind models.AssessmentKind, scores models.DimensionScores) models.Classification {
	if kind == models.KindMBTI {
		return models.Classification{TypeCode: TypeCode(scores)}
	}
	return models.Classification{TopCategories: TopCategories(scores, TopCategoryCount)}
}

// TopCategories returns the n highest scoring RIASEC categories. Equal scores
// keep declared category order.
func TopCategories(scores models.DimensionScores, n int) []models.Dimension {
	ordered := append([]models.Dimension(nil), models.RIASECDimensions...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return scores[ordered[i]] > scores[ordered[j]]
	})
	if n > len(ordered) {
		n = len(ordered)
	}
	return ordered[:n]
}

// TypeCode picks the second letter of each pair when its score is at least
// 50, so an exact tie resolves to I, N, F or P.
func TypeCode(scores models.DimensionScores) string {
	var b strings.Builder
	for _, d := range models.MBTIDimensions {
		first, second, _ := d.Letters()
		if scores[d] >= neutralScore {
			b.WriteString(string(second))
		} else {
			b.WriteString(string(first))
		}
	}
	return b.String()
}
