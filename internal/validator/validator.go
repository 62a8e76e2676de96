package validator

import (
	"reflect"
	"strings"

	"github.com/SAP-F-2025/career-assessment-service/internal/models"
	"github.com/go-playground/validator/v10"
)

// Validator is the main validator instance that combines struct tag validation
// with catalog integrity rules.
type Validator struct {
	structValidator   *validator.Validate
	questionValidator *QuestionValidator
}

// New creates a new centralized validator instance
func New() *Validator {
	structValidator := validator.New()

	// Register all custom validators once
	registerCustomValidators(structValidator)

	v := &Validator{structValidator: structValidator}
	v.questionValidator = NewQuestionValidator(v)
	return v
}

// ValidateStruct validates struct tags only
func (v *Validator) ValidateStruct(s interface{}) error {
	return v.structValidator.Struct(s)
}

// Validate validates struct tags and converts failures to ValidationErrors so
// callers can inspect individual fields.
func (v *Validator) Validate(s interface{}) error {
	err := v.ValidateStruct(s)
	if err == nil {
		return nil
	}
	if errs := ToValidationErrors(err); len(errs) > 0 {
		return errs
	}
	return err
}

// Question returns the catalog integrity validator
func (v *Validator) Question() *QuestionValidator {
	return v.questionValidator
}

// registerCustomValidators registers all custom validation functions
func registerCustomValidators(validate *validator.Validate) {
	validate.RegisterValidation("assessment_kind", validateAssessmentKind)
	validate.RegisterValidation("assessment_dimension", validateAssessmentDimension)
	validate.RegisterValidation("riasec_dimension", validateRIASECDimension)
	validate.RegisterValidation("polarity", validatePolarity)
	validate.RegisterValidation("mbti_code", validateMBTICode)

	// Custom tag name function for better error messages
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

func validateAssessmentKind(fl validator.FieldLevel) bool {
	return models.AssessmentKind(fl.Field().String()).Valid()
}

func validateAssessmentDimension(fl validator.FieldLevel) bool {
	d := models.Dimension(fl.Field().String())
	return models.KindRIASEC.Accepts(d) || models.KindMBTI.Accepts(d)
}

func validateRIASECDimension(fl validator.FieldLevel) bool {
	return models.KindRIASEC.Accepts(models.Dimension(fl.Field().String()))
}

func validatePolarity(fl validator.FieldLevel) bool {
	switch models.Polarity(fl.Field().String()) {
	case models.PolarityPositive, models.PolarityNegative:
		return true
	}
	return false
}

func validateMBTICode(fl validator.FieldLevel) bool {
	return IsTypeCode(fl.Field().String())
}

// IsTypeCode reports whether code has one letter of each MBTI pair in order.
func IsTypeCode(code string) bool {
	if len(code) != len(models.MBTIDimensions) {
		return false
	}
	for i, dim := range models.MBTIDimensions {
		first, second, _ := dim.Letters()
		letter := models.Dimension(code[i : i+1])
		if letter != first && letter != second {
			return false
		}
	}
	return true
}
