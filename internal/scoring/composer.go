package scoring

import (
	"fmt"
	"time"

	"github.com/SAP-F-2025/career-assessment-service/internal/catalog"
	"github.com/SAP-F-2025/career-assessment-service/internal/models"
	"github.com/google/uuid"
)

// DefaultCareerMatchLimit is how many careers a RIASEC result keeps.
const DefaultCareerMatchLimit = 10

// Composer assembles scores, classification and ranked matches into a
// Result. It holds no per-attempt state and is safe for concurrent use.
type Composer struct {
	catalog          *catalog.Catalog
	careerMatchLimit int
	now              func() time.Time
	newID            func() string
}

type ComposerOption func(*Composer)

// WithCareerMatchLimit truncates RIASEC career matches. Zero or less keeps the
// full ranking.
func WithCareerMatchLimit(n int) ComposerOption {
	return func(c *Composer) { c.careerMatchLimit = n }
}

func WithClock(now func() time.Time) ComposerOption {
	return func(c *Composer) { c.now = now }
}

func WithIDGenerator(newID func() string) ComposerOption {
	return func(c *Composer) { c.newID = newID }
}

func NewComposer(cat *catalog.Catalog, opts ...ComposerOption) *Composer {
	c := &Composer{
		catalog:          cat,
		careerMatchLimit: DefaultCareerMatchLimit,
		now:              time.Now,
		newID:            uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Composer) Catalog() *catalog.Catalog { return c.catalog }

// Compose scores the ledger and ranks the knowledge base for bank's kind.
// Completeness is the caller's concern.
func (c *Composer) Compose(bank *catalog.QuestionBank, ledger *Ledger, studentID string) (*models.Result, error) {
	scores := Score(bank, ledger)
	classification := Classify(bank.Kind(), scores)

	var (
		matches []models.RankedMatch
		err     error
	)
	switch bank.Kind() {
	case models.KindMBTI:
		matches, err = Match(LetterScores(scores), c.catalog.TypeProfiles())
	default:
		matches, err = Match(scores, c.catalog.Careers())
		if err == nil && c.careerMatchLimit > 0 && len(matches) > c.careerMatchLimit {
			matches = matches[:c.careerMatchLimit]
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to rank %s knowledge base: %w", bank.Kind(), err)
	}

	result := &models.Result{
		ID:              c.newID(),
		Kind:            bank.Kind(),
		StudentID:       studentID,
		CatalogVersion:  c.catalog.Version,
		Timestamp:       c.now().UTC(),
		DimensionScores: scores,
		Classification:  classification,
		RankedMatches:   matches,
	}
	return result.Clone(), nil
}
