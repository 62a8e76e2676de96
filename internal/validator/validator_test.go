package validator

import (
	"errors"
	"testing"

	apperrors "github.com/SAP-F-2025/career-assessment-service/internal/errors"
	"github.com/SAP-F-2025/career-assessment-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsTypeCode(t *testing.T) {
	assert.True(t, IsTypeCode("INTJ"))
	assert.True(t, IsTypeCode("ESFP"))
	assert.False(t, IsTypeCode("IETJ"))
	assert.False(t, IsTypeCode("INT"))
	assert.False(t, IsTypeCode("intj"))
}

func TestValidateReturnsFieldErrors(t *testing.T) {
	v := New()

	err := v.Validate(models.Question{ID: 0, Text: "", Dimension: "nope"})
	require.Error(t, err)

	var verrs apperrors.ValidationErrors
	require.True(t, errors.As(err, &verrs))
	fields := make([]string, 0, len(verrs))
	for _, e := range verrs {
		fields = append(fields, e.Field)
	}
	assert.ElementsMatch(t, []string{"id", "text", "dimension"}, fields)
}

func TestValidateBank(t *testing.T) {
	v := New()

	t.Run("valid riasec bank", func(t *testing.T) {
		err := v.Question().ValidateBank(models.KindRIASEC, []models.Question{
			{ID: 1, Text: "Fix a bicycle", Dimension: models.DimRealistic},
			{ID: 2, Text: "Run an experiment", Dimension: models.DimInvestigative},
		})
		assert.NoError(t, err)
	})

	t.Run("duplicate id", func(t *testing.T) {
		err := v.Question().ValidateBank(models.KindRIASEC, []models.Question{
			{ID: 1, Text: "Fix a bicycle", Dimension: models.DimRealistic},
			{ID: 1, Text: "Run an experiment", Dimension: models.DimInvestigative},
		})
		assert.ErrorIs(t, err, apperrors.ErrDataIntegrity)
	})

	t.Run("mbti item without polarity", func(t *testing.T) {
		err := v.Question().ValidateBank(models.KindMBTI, []models.Question{
			{ID: 1, Text: "I enjoy parties", Dimension: models.DimEI},
		})
		assert.ErrorIs(t, err, apperrors.ErrDataIntegrity)
	})

	t.Run("riasec item with mbti dimension", func(t *testing.T) {
		err := v.Question().ValidateBank(models.KindRIASEC, []models.Question{
			{ID: 1, Text: "I enjoy parties", Dimension: models.DimEI},
		})
		assert.ErrorIs(t, err, apperrors.ErrDataIntegrity)
	})

	t.Run("empty bank", func(t *testing.T) {
		assert.ErrorIs(t, v.Question().ValidateBank(models.KindMBTI, nil), apperrors.ErrDataIntegrity)
	})
}

func TestValidateCareers(t *testing.T) {
	v := New()

	assert.NoError(t, v.Question().ValidateCareers([]models.Career{
		{ID: "engineer", Title: "Engineer", PrimaryCategories: []models.Dimension{models.DimRealistic}},
	}))

	err := v.Question().ValidateCareers([]models.Career{{ID: "ghost", Title: "Ghost"}})
	var integrity *apperrors.DataIntegrityError
	require.True(t, errors.As(err, &integrity))
	assert.Equal(t, "career:ghost", integrity.Entity)

	err = v.Question().ValidateCareers([]models.Career{
		{ID: "x", Title: "X", PrimaryCategories: []models.Dimension{models.DimEI}},
	})
	assert.ErrorIs(t, err, apperrors.ErrDataIntegrity)
}

func TestValidateTypeProfilesRequiresAllSixteen(t *testing.T) {
	v := New()

	err := v.Question().ValidateTypeProfiles([]models.TypeProfile{{Code: "INTJ", Name: "Architect"}})
	assert.ErrorIs(t, err, apperrors.ErrDataIntegrity)
}
