package scoring

import (
	"math"

	"github.com/SAP-F-2025/career-assessment-service/internal/catalog"
	"github.com/SAP-F-2025/career-assessment-service/internal/models"
)

// neutralScore is reported for an MBTI pair that received no directional
// signal. RIASEC reports 0 in the same situation.
const neutralScore = 50

// Score maps the answered questions of bank to one percentage per dimension
// of the bank's kind. Unanswered questions are ignored, so partial ledgers
// are accepted. Neither argument is modified.
func Score(bank *catalog.QuestionBank, ledger *Ledger) models.DimensionScores {
	switch bank.Kind() {
	case models.KindMBTI:
		return ScoreMBTI(bank.Questions(), ledger, bank.Scale())
	default:
		return ScoreRIASEC(bank.Questions(), ledger, bank.Scale())
	}
}

// ScoreRIASEC divides each category's answer sum by answered × scale max.
// A category with no answers scores 0.
func ScoreRIASEC(questions []models.Question, ledger *Ledger, scale models.Scale) models.DimensionScores {
	sums := make(map[models.Dimension]int, len(models.RIASECDimensions))
	counts := make(map[models.Dimension]int, len(models.RIASECDimensions))

	for _, q := range questions {
		v, ok := ledger.Value(q.ID)
		if !ok {
			continue
		}
		sums[q.Dimension] += v
		counts[q.Dimension]++
	}

	scores := make(models.DimensionScores, len(models.RIASECDimensions))
	for _, d := range models.RIASECDimensions {
		if counts[d] == 0 {
			scores[d] = 0
			continue
		}
		scores[d] = percent(float64(sums[d]), float64(counts[d]*scale.Max))
	}
	return scores
}

// ScoreMBTI accumulates each answer's distance from the scale midpoint into
// the pair's first or second letter, depending on polarity. The score is the
// second letter's share of the total; a pair with no distance scores 50.
//
// Unlike RIASEC, the denominator is the accumulated distance rather than
// answered × scale max. Both formulas are kept as observed.
func ScoreMBTI(questions []models.Question, ledger *Ledger, scale models.Scale) models.DimensionScores {
	mid := scale.Midpoint()
	first := make(map[models.Dimension]int, len(models.MBTIDimensions))
	second := make(map[models.Dimension]int, len(models.MBTIDimensions))

	for _, q := range questions {
		v, ok := ledger.Value(q.ID)
		if !ok {
			continue
		}

		toFirst, toSecond := 0, 0
		switch {
		case v < mid:
			toFirst = mid - v
		case v > mid:
			toSecond = v - mid
		}
		if q.Polarity == models.PolarityNegative {
			toFirst, toSecond = toSecond, toFirst
		}

		first[q.Dimension] += toFirst
		second[q.Dimension] += toSecond
	}

	scores := make(models.DimensionScores, len(models.MBTIDimensions))
	for _, d := range models.MBTIDimensions {
		total := first[d] + second[d]
		if total == 0 {
			scores[d] = neutralScore
			continue
		}
		scores[d] = percent(float64(second[d]), float64(total))
	}
	return scores
}

func percent(part, whole float64) int {
	return int(math.Round(part / whole * 100))
}
