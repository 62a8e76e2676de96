package scoring

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/SAP-F-2025/career-assessment-service/internal/catalog"
	apperrors "github.com/SAP-F-2025/career-assessment-service/internal/errors"
	"github.com/SAP-F-2025/career-assessment-service/internal/models"
	"github.com/SAP-F-2025/career-assessment-service/internal/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func riasecBank(questions ...models.Question) *catalog.QuestionBank {
	return catalog.NewQuestionBank(models.KindRIASEC, "test", questions)
}

func mbtiBank(questions ...models.Question) *catalog.QuestionBank {
	return catalog.NewQuestionBank(models.KindMBTI, "test", questions)
}

func embeddedCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.NewEmbeddedSource(validator.New()).Load(context.Background())
	require.NoError(t, err)
	return c
}

func answerAll(t *testing.T, bank *catalog.QuestionBank, value func(models.Question) int) *Ledger {
	t.Helper()
	l := NewLedger()
	for _, q := range bank.Questions() {
		require.NoError(t, l.Record(bank, q.ID, value(q)))
	}
	return l
}

func TestLedgerRecord(t *testing.T) {
	bank := riasecBank(
		models.Question{ID: 1, Text: "a", Dimension: models.DimRealistic},
		models.Question{ID: 2, Text: "b", Dimension: models.DimSocial},
	)
	l := NewLedger()

	require.NoError(t, l.Record(bank, 1, 3))
	require.NoError(t, l.Record(bank, 1, 5))
	v, ok := l.Value(1)
	require.True(t, ok)
	assert.Equal(t, 5, v)
	assert.Equal(t, 1, l.Len())
	assert.Equal(t, 1, l.Remaining(bank))
	assert.False(t, l.Complete(bank))

	err := l.Record(bank, 2, 6)
	assert.ErrorIs(t, err, apperrors.ErrInvalidAnswer)
	err = l.Record(bank, 2, 0)
	assert.ErrorIs(t, err, apperrors.ErrInvalidAnswer)
	err = l.Record(bank, 99, 3)
	assert.ErrorIs(t, err, apperrors.ErrInvalidAnswer)
	assert.False(t, l.Has(2))
	assert.Equal(t, 1, l.Len())

	require.NoError(t, l.Record(bank, 2, 1))
	assert.True(t, l.Complete(bank))
	assert.Equal(t, []models.Response{{QuestionID: 1, Value: 5}, {QuestionID: 2, Value: 1}}, l.Responses())

	clone := l.Clone()
	l.Reset()
	assert.Equal(t, 0, l.Len())
	assert.Equal(t, 2, clone.Len())
}

func TestScoreRIASEC(t *testing.T) {
	t.Run("all max answers tie at 100", func(t *testing.T) {
		var qs []models.Question
		for i, d := range models.RIASECDimensions {
			qs = append(qs, models.Question{ID: i + 1, Text: "q", Dimension: d})
		}
		bank := riasecBank(qs...)
		l := answerAll(t, bank, func(models.Question) int { return 5 })

		scores := Score(bank, l)
		for _, d := range models.RIASECDimensions {
			assert.Equal(t, 100, scores[d], "dimension %s", d)
		}

		c := Classify(models.KindRIASEC, scores)
		assert.Equal(t, []models.Dimension{models.DimRealistic, models.DimInvestigative, models.DimArtistic}, c.TopCategories)
		assert.Empty(t, c.TypeCode)
	})

	t.Run("unanswered dimension scores zero", func(t *testing.T) {
		bank := riasecBank(
			models.Question{ID: 1, Text: "q", Dimension: models.DimSocial},
			models.Question{ID: 2, Text: "q", Dimension: models.DimSocial},
		)
		l := NewLedger()
		require.NoError(t, l.Record(bank, 1, 4))
		require.NoError(t, l.Record(bank, 2, 3))

		scores := Score(bank, l)
		assert.Len(t, scores, len(models.RIASECDimensions))
		assert.Equal(t, 70, scores[models.DimSocial])
		assert.Equal(t, 0, scores[models.DimRealistic])
	})

	t.Run("partial answers only count answered items", func(t *testing.T) {
		bank := riasecBank(
			models.Question{ID: 1, Text: "q", Dimension: models.DimArtistic},
			models.Question{ID: 2, Text: "q", Dimension: models.DimArtistic},
		)
		l := NewLedger()
		require.NoError(t, l.Record(bank, 1, 2))

		assert.Equal(t, 40, Score(bank, l)[models.DimArtistic])
	})
}

func TestScoreMBTI(t *testing.T) {
	t.Run("opposing polarities cancel to second letter", func(t *testing.T) {
		bank := mbtiBank(
			models.Question{ID: 1, Text: "q", Dimension: models.DimEI, Polarity: models.PolarityPositive},
			models.Question{ID: 2, Text: "q", Dimension: models.DimEI, Polarity: models.PolarityNegative},
		)
		l := answerAll(t, bank, func(models.Question) int { return 7 })

		scores := Score(bank, l)
		assert.Equal(t, 50, scores[models.DimEI])
		assert.Equal(t, "I", TypeCode(scores)[:1])
	})

	t.Run("polarity decides the letter", func(t *testing.T) {
		bank := mbtiBank(
			models.Question{ID: 1, Text: "q", Dimension: models.DimSN, Polarity: models.PolarityPositive},
			models.Question{ID: 2, Text: "q", Dimension: models.DimTF, Polarity: models.PolarityNegative},
		)
		l := answerAll(t, bank, func(models.Question) int { return 6 })

		scores := Score(bank, l)
		assert.Equal(t, 100, scores[models.DimSN])
		assert.Equal(t, 0, scores[models.DimTF])
		assert.Equal(t, "INTP", TypeCode(scores))
	})

	t.Run("weighted share", func(t *testing.T) {
		bank := mbtiBank(
			models.Question{ID: 1, Text: "q", Dimension: models.DimJP, Polarity: models.PolarityPositive},
			models.Question{ID: 2, Text: "q", Dimension: models.DimJP, Polarity: models.PolarityPositive},
		)
		l := NewLedger()
		require.NoError(t, l.Record(bank, 1, 7))
		require.NoError(t, l.Record(bank, 2, 3))

		// second = 3, first = 1
		assert.Equal(t, 75, Score(bank, l)[models.DimJP])
	})

	t.Run("all midpoint answers are ambiguous", func(t *testing.T) {
		bank := embeddedCatalog(t)
		mbti, err := bank.Bank(models.KindMBTI)
		require.NoError(t, err)
		l := answerAll(t, mbti, func(models.Question) int { return 4 })

		scores := Score(mbti, l)
		for _, d := range models.MBTIDimensions {
			assert.Equal(t, 50, scores[d], "dimension %s", d)
		}
		assert.Equal(t, "INFP", Classify(models.KindMBTI, scores).TypeCode)
	})

	t.Run("empty ledger is ambiguous", func(t *testing.T) {
		scores := Score(mbtiBank(models.Question{ID: 1, Text: "q", Dimension: models.DimEI, Polarity: models.PolarityPositive}), NewLedger())
		assert.Len(t, scores, len(models.MBTIDimensions))
		assert.Equal(t, 50, scores[models.DimEI])
	})
}

func TestScoresStayInBounds(t *testing.T) {
	cat := embeddedCatalog(t)
	rng := rand.New(rand.NewSource(7))

	for _, kind := range []models.AssessmentKind{models.KindRIASEC, models.KindMBTI} {
		bank, err := cat.Bank(kind)
		require.NoError(t, err)
		scale := bank.Scale()

		for i := 0; i < 200; i++ {
			l := answerAll(t, bank, func(models.Question) int {
				return scale.Min + rng.Intn(scale.Max-scale.Min+1)
			})
			for d, s := range Score(bank, l) {
				assert.GreaterOrEqual(t, s, 0, "%s %s", kind, d)
				assert.LessOrEqual(t, s, 100, "%s %s", kind, d)
			}
		}
	}
}

func TestScoreIsIdempotent(t *testing.T) {
	cat := embeddedCatalog(t)
	bank, err := cat.Bank(models.KindMBTI)
	require.NoError(t, err)

	l := answerAll(t, bank, func(q models.Question) int { return q.ID%7 + 1 })
	before := l.Responses()
	questions := bank.Questions()

	first := Score(bank, l)
	second := Score(bank, l)

	assert.Equal(t, first, second)
	assert.Equal(t, before, l.Responses())
	assert.Equal(t, questions, bank.Questions())
}

func TestTopCategoriesIgnoreBankOrder(t *testing.T) {
	cat := embeddedCatalog(t)
	bank, err := cat.Bank(models.KindRIASEC)
	require.NoError(t, err)

	value := func(q models.Question) int { return q.ID%5 + 1 }
	l := answerAll(t, bank, value)
	want := Classify(models.KindRIASEC, Score(bank, l))

	shuffled := bank.Questions()
	rng := rand.New(rand.NewSource(42))
	rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
	reordered := riasecBank(shuffled...)

	got := Classify(models.KindRIASEC, Score(reordered, answerAll(t, reordered, value)))
	assert.Equal(t, want, got)
}

func TestTopCategoriesTieBreak(t *testing.T) {
	scores := models.DimensionScores{
		models.DimRealistic:     40,
		models.DimInvestigative: 80,
		models.DimArtistic:      60,
		models.DimSocial:        80,
		models.DimEnterprising:  60,
		models.DimConventional:  10,
	}
	assert.Equal(t,
		[]models.Dimension{models.DimInvestigative, models.DimSocial, models.DimArtistic},
		TopCategories(scores, 3))
	assert.Len(t, TopCategories(scores, 10), 6)
}

func TestMatchWeightsPrimaryDouble(t *testing.T) {
	careers := []models.Career{{
		ID:                  "lab-tech",
		Title:               "Lab Technician",
		PrimaryCategories:   []models.Dimension{models.DimInvestigative},
		SecondaryCategories: []models.Dimension{models.DimRealistic},
	}}
	scores := models.DimensionScores{models.DimInvestigative: 80, models.DimRealistic: 40}

	matches, err := Match(scores, careers)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, models.RankedMatch{EntityID: "lab-tech", Title: "Lab Technician", MatchPercent: 67}, matches[0])
}

func TestMatchOrdering(t *testing.T) {
	careers := []models.Career{
		{ID: "a", Title: "A", PrimaryCategories: []models.Dimension{models.DimSocial}},
		{ID: "b", Title: "B", PrimaryCategories: []models.Dimension{models.DimArtistic}},
		{ID: "c", Title: "C", PrimaryCategories: []models.Dimension{models.DimSocial}},
		{ID: "d", Title: "D", SecondaryCategories: []models.Dimension{models.DimArtistic}},
	}
	scores := models.DimensionScores{models.DimSocial: 30, models.DimArtistic: 90}

	matches, err := Match(scores, careers)
	require.NoError(t, err)

	ids := make([]string, len(matches))
	for i, m := range matches {
		ids[i] = m.EntityID
	}
	assert.Equal(t, []string{"b", "d", "a", "c"}, ids)
}

func TestMatchRejectsEntityWithoutCategories(t *testing.T) {
	careers := []models.Career{
		{ID: "ok", Title: "OK", PrimaryCategories: []models.Dimension{models.DimSocial}},
		{ID: "empty", Title: "Empty"},
	}

	_, err := Match(models.DimensionScores{models.DimSocial: 50}, careers)
	var integrity *apperrors.DataIntegrityError
	require.ErrorAs(t, err, &integrity)
	assert.Equal(t, "empty", integrity.Entity)
}

func TestMatchIsMonotonic(t *testing.T) {
	cat := embeddedCatalog(t)

	base := models.DimensionScores{}
	for _, d := range models.RIASECDimensions {
		base[d] = 50
	}
	baseline, err := Match(base, cat.Careers())
	require.NoError(t, err)
	byID := map[string]int{}
	for _, m := range baseline {
		byID[m.EntityID] = m.MatchPercent
	}

	for _, d := range models.RIASECDimensions {
		bumped := base.Clone()
		bumped[d] = 60

		matches, err := Match(bumped, cat.Careers())
		require.NoError(t, err)
		got := map[string]int{}
		for _, m := range matches {
			got[m.EntityID] = m.MatchPercent
		}

		for _, career := range cat.Careers() {
			primary, secondary := career.Categories()
			if containsDim(primary, d) || containsDim(secondary, d) {
				assert.Greater(t, got[career.ID], byID[career.ID], "career %s dimension %s", career.ID, d)
			} else {
				assert.Equal(t, byID[career.ID], got[career.ID], "career %s dimension %s", career.ID, d)
			}
		}
	}
}

func containsDim(ds []models.Dimension, d models.Dimension) bool {
	for _, x := range ds {
		if x == d {
			return true
		}
	}
	return false
}

func TestLetterScores(t *testing.T) {
	letters := LetterScores(models.DimensionScores{
		models.DimEI: 70,
		models.DimSN: 20,
		models.DimTF: 50,
	})

	assert.Equal(t, 30, letters[models.LetterE])
	assert.Equal(t, 70, letters[models.LetterI])
	assert.Equal(t, 80, letters[models.LetterS])
	assert.Equal(t, 20, letters[models.LetterN])
	assert.Equal(t, 50, letters[models.LetterT])
	assert.Equal(t, 50, letters[models.LetterF])
	assert.Equal(t, 50, letters[models.LetterJ])
	assert.Equal(t, 50, letters[models.LetterP])
}

func fixedComposer(cat *catalog.Catalog, opts ...ComposerOption) *Composer {
	at := time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)
	base := []ComposerOption{
		WithClock(func() time.Time { return at }),
		WithIDGenerator(func() string { return "result-1" }),
	}
	return NewComposer(cat, append(base, opts...)...)
}

func TestComposeRIASEC(t *testing.T) {
	cat := embeddedCatalog(t)
	bank, err := cat.Bank(models.KindRIASEC)
	require.NoError(t, err)

	l := answerAll(t, bank, func(q models.Question) int {
		if q.Dimension == models.DimInvestigative {
			return 5
		}
		return 2
	})

	result, err := fixedComposer(cat).Compose(bank, l, "student-7")
	require.NoError(t, err)

	assert.Equal(t, "result-1", result.ID)
	assert.Equal(t, models.KindRIASEC, result.Kind)
	assert.Equal(t, "student-7", result.StudentID)
	assert.Equal(t, cat.Version, result.CatalogVersion)
	assert.Equal(t, time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC), result.Timestamp)
	assert.Equal(t, 100, result.DimensionScores[models.DimInvestigative])
	assert.Equal(t, models.DimInvestigative, result.Classification.TopCategories[0])
	assert.Len(t, result.RankedMatches, DefaultCareerMatchLimit)
	assert.Equal(t, "research-scientist", result.RankedMatches[0].EntityID)

	full, err := fixedComposer(cat, WithCareerMatchLimit(0)).Compose(bank, l, "student-7")
	require.NoError(t, err)
	assert.Len(t, full.RankedMatches, len(cat.Careers()))
}

func TestComposeMBTI(t *testing.T) {
	cat := embeddedCatalog(t)
	bank, err := cat.Bank(models.KindMBTI)
	require.NoError(t, err)

	// Lean I and N (second letters), T and J (first letters).
	l := answerAll(t, bank, func(q models.Question) int {
		wantSecond := q.Dimension == models.DimEI || q.Dimension == models.DimSN
		positive := q.Polarity == models.PolarityPositive
		if wantSecond == positive {
			return 7
		}
		return 1
	})

	result, err := fixedComposer(cat).Compose(bank, l, "student-7")
	require.NoError(t, err)

	assert.Equal(t, "INTJ", result.Classification.TypeCode)
	assert.Empty(t, result.Classification.TopCategories)
	assert.Len(t, result.RankedMatches, 16)
	assert.Equal(t, "INTJ", result.RankedMatches[0].EntityID)
	assert.Equal(t, 100, result.RankedMatches[0].MatchPercent)
	assert.Equal(t, "ESFP", result.RankedMatches[15].EntityID)
	assert.Equal(t, 0, result.RankedMatches[15].MatchPercent)
}
