package scoring

import (
	"fmt"
	"sort"

	"github.com/SAP-F-2025/career-assessment-service/internal/catalog"
	apperrors "github.com/SAP-F-2025/career-assessment-service/internal/errors"
	"github.com/SAP-F-2025/career-assessment-service/internal/models"
)

// Ledger holds at most one response per question id for a single attempt.
// It is not safe for concurrent use; the owning session serializes access.
type Ledger struct {
	values map[int]int
}

func NewLedger() *Ledger {
	return &Ledger{values: make(map[int]int)}
}

// Record validates the answer against bank and stores it, overwriting any
// previous answer to the same question. The ledger is untouched on error.
func (l *Ledger) Record(bank *catalog.QuestionBank, questionID, value int) error {
	if !bank.Contains(questionID) {
		return apperrors.NewInvalidAnswerError(questionID, value, "question is not part of this assessment")
	}
	if scale := bank.Scale(); !scale.Contains(value) {
		return apperrors.NewInvalidAnswerError(questionID, value,
			fmt.Sprintf("value must be between %d and %d", scale.Min, scale.Max))
	}
	l.values[questionID] = value
	return nil
}

func (l *Ledger) Len() int { return len(l.values) }

func (l *Ledger) Value(questionID int) (int, bool) {
	v, ok := l.values[questionID]
	return v, ok
}

func (l *Ledger) Has(questionID int) bool {
	_, ok := l.values[questionID]
	return ok
}

// Responses returns the answers ordered by question id.
func (l *Ledger) Responses() []models.Response {
	out := make([]models.Response, 0, len(l.values))
	for id, v := range l.values {
		out = append(out, models.Response{QuestionID: id, Value: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].QuestionID < out[j].QuestionID })
	return out
}

func (l *Ledger) Clone() *Ledger {
	out := &Ledger{values: make(map[int]int, len(l.values))}
	for id, v := range l.values {
		out.values[id] = v
	}
	return out
}

// Reset discards every response.
func (l *Ledger) Reset() {
	l.values = make(map[int]int)
}

// Remaining counts the bank questions without an answer.
func (l *Ledger) Remaining(bank *catalog.QuestionBank) int {
	remaining := 0
	for _, q := range bank.Questions() {
		if !l.Has(q.ID) {
			remaining++
		}
	}
	return remaining
}

func (l *Ledger) Complete(bank *catalog.QuestionBank) bool {
	return l.Remaining(bank) == 0
}
