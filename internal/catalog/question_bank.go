package catalog

import (
	"github.com/SAP-F-2025/career-assessment-service/internal/models"
)

// QuestionBank is an immutable, ordered catalog of items for one assessment
// kind. Accessors return copies.
type QuestionBank struct {
	kind      models.AssessmentKind
	version   string
	scale     models.Scale
	questions []models.Question
	index     map[int]int
}

// NewQuestionBank builds a bank without validation. Use Build for catalog
// data coming from outside the process.
func NewQuestionBank(kind models.AssessmentKind, version string, questions []models.Question) *QuestionBank {
	qs := append([]models.Question(nil), questions...)
	index := make(map[int]int, len(qs))
	for i, q := range qs {
		index[q.ID] = i
	}
	return &QuestionBank{
		kind:      kind,
		version:   version,
		scale:     kind.Scale(),
		questions: qs,
		index:     index,
	}
}

func (b *QuestionBank) Kind() models.AssessmentKind { return b.kind }
func (b *QuestionBank) Version() string             { return b.version }
func (b *QuestionBank) Scale() models.Scale         { return b.scale }
func (b *QuestionBank) Len() int                    { return len(b.questions) }

// At returns the question shown at a session position.
func (b *QuestionBank) At(i int) (models.Question, bool) {
	if i < 0 || i >= len(b.questions) {
		return models.Question{}, false
	}
	return b.questions[i], true
}

func (b *QuestionBank) Lookup(id int) (models.Question, bool) {
	i, ok := b.index[id]
	if !ok {
		return models.Question{}, false
	}
	return b.questions[i], true
}

func (b *QuestionBank) Contains(id int) bool {
	_, ok := b.index[id]
	return ok
}

func (b *QuestionBank) Questions() []models.Question {
	return append([]models.Question(nil), b.questions...)
}

// Dimensions returns the scored dimensions in declared order.
func (b *QuestionBank) Dimensions() []models.Dimension {
	return b.kind.Dimensions()
}
