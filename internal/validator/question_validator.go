package validator

import (
	"fmt"

	apperrors "github.com/SAP-F-2025/career-assessment-service/internal/errors"
	"github.com/SAP-F-2025/career-assessment-service/internal/models"
)

// QuestionValidator checks catalog rows against each other: things struct tags
// cannot express, such as id uniqueness and kind-specific dimension rules.
// Every failure is a DataIntegrityError.
type QuestionValidator struct {
	parent *Validator
}

// NewQuestionValidator creates a new question validator
func NewQuestionValidator(parent *Validator) *QuestionValidator {
	return &QuestionValidator{parent: parent}
}

// ValidateQuestion validates a single item for the given assessment kind
func (v *QuestionValidator) ValidateQuestion(kind models.AssessmentKind, question models.Question) error {
	entity := fmt.Sprintf("question:%d", question.ID)

	if err := v.parent.Validate(question); err != nil {
		return apperrors.NewDataIntegrityError(entity, err.Error())
	}
	if !kind.Accepts(question.Dimension) {
		return apperrors.NewDataIntegrityError(entity,
			fmt.Sprintf("dimension %q is not scored by %s", question.Dimension, kind))
	}

	switch kind {
	case models.KindMBTI:
		if question.Polarity == "" {
			return apperrors.NewDataIntegrityError(entity, "mbti items require a polarity")
		}
	case models.KindRIASEC:
		if question.Polarity != "" {
			return apperrors.NewDataIntegrityError(entity, "riasec items must not carry a polarity")
		}
	}
	return nil
}

// ValidateBank validates a full question bank
func (v *QuestionValidator) ValidateBank(kind models.AssessmentKind, questions []models.Question) error {
	if !kind.Valid() {
		return apperrors.NewDataIntegrityError("question_bank", fmt.Sprintf("unsupported kind %q", kind))
	}
	if len(questions) == 0 {
		return apperrors.NewDataIntegrityError("question_bank:"+string(kind), "question bank cannot be empty")
	}

	seen := make(map[int]bool, len(questions))
	for _, q := range questions {
		if err := v.ValidateQuestion(kind, q); err != nil {
			return err
		}
		if seen[q.ID] {
			return apperrors.NewDataIntegrityError(fmt.Sprintf("question:%d", q.ID), "duplicate question id")
		}
		seen[q.ID] = true
	}
	return nil
}

// ValidateCareers validates the career knowledge base
func (v *QuestionValidator) ValidateCareers(careers []models.Career) error {
	seen := make(map[string]bool, len(careers))
	for _, c := range careers {
		entity := "career:" + c.ID
		if err := v.parent.Validate(c); err != nil {
			return apperrors.NewDataIntegrityError(entity, err.Error())
		}
		if len(c.PrimaryCategories)+len(c.SecondaryCategories) == 0 {
			return apperrors.NewDataIntegrityError(entity, "career has no categories")
		}
		if seen[c.ID] {
			return apperrors.NewDataIntegrityError(entity, "duplicate career id")
		}
		seen[c.ID] = true
	}
	return nil
}

// ValidateTypeProfiles validates the MBTI type table. All sixteen codes must
// be present exactly once.
func (v *QuestionValidator) ValidateTypeProfiles(profiles []models.TypeProfile) error {
	seen := make(map[string]bool, len(profiles))
	for _, p := range profiles {
		entity := "type:" + p.Code
		if err := v.parent.Validate(p); err != nil {
			return apperrors.NewDataIntegrityError(entity, err.Error())
		}
		if seen[p.Code] {
			return apperrors.NewDataIntegrityError(entity, "duplicate type code")
		}
		seen[p.Code] = true
	}
	if len(seen) != 16 {
		return apperrors.NewDataIntegrityError("type_profiles",
			fmt.Sprintf("expected 16 type profiles, got %d", len(seen)))
	}
	return nil
}
