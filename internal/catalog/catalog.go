package catalog

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"path"

	apperrors "github.com/SAP-F-2025/career-assessment-service/internal/errors"
	"github.com/SAP-F-2025/career-assessment-service/internal/models"
	"github.com/SAP-F-2025/career-assessment-service/internal/validator"
)

//go:embed data/*.json
var embedded embed.FS

// Catalog is the versioned, validated static data an assessment runs against.
// It is treated as immutable once loaded.
type Catalog struct {
	Version string

	riasec  *QuestionBank
	mbti    *QuestionBank
	careers []models.Career
	types   []models.TypeProfile
	byCode  map[string]int
}

// Source is the remote catalog port.
type Source interface {
	Load(ctx context.Context) (*Catalog, error)
}

// Tables is the raw, unvalidated content of a catalog.
type Tables struct {
	Version         string               `json:"version"`
	RIASECQuestions []models.Question    `json:"riasec_questions"`
	MBTIQuestions   []models.Question    `json:"mbti_questions"`
	Careers         []models.Career      `json:"careers"`
	Types           []models.TypeProfile `json:"mbti_types"`
}

// Build validates tables and assembles a Catalog. Any malformed row fails
// the whole load with a DataIntegrityError.
func Build(v *validator.Validator, t Tables) (*Catalog, error) {
	if t.Version == "" {
		return nil, apperrors.NewDataIntegrityError("catalog", "missing version")
	}

	qv := v.Question()
	if err := qv.ValidateBank(models.KindRIASEC, t.RIASECQuestions); err != nil {
		return nil, err
	}
	if err := qv.ValidateBank(models.KindMBTI, t.MBTIQuestions); err != nil {
		return nil, err
	}
	if err := qv.ValidateCareers(t.Careers); err != nil {
		return nil, err
	}
	if err := qv.ValidateTypeProfiles(t.Types); err != nil {
		return nil, err
	}

	c := &Catalog{
		Version: t.Version,
		riasec:  NewQuestionBank(models.KindRIASEC, t.Version, t.RIASECQuestions),
		mbti:    NewQuestionBank(models.KindMBTI, t.Version, t.MBTIQuestions),
		careers: append([]models.Career(nil), t.Careers...),
		types:   append([]models.TypeProfile(nil), t.Types...),
		byCode:  make(map[string]int, len(t.Types)),
	}
	for i, p := range c.types {
		c.byCode[p.Code] = i
	}
	return c, nil
}

// Bank returns the question bank for kind.
func (c *Catalog) Bank(kind models.AssessmentKind) (*QuestionBank, error) {
	switch kind {
	case models.KindRIASEC:
		return c.riasec, nil
	case models.KindMBTI:
		return c.mbti, nil
	default:
		return nil, fmt.Errorf("unsupported assessment kind %q", kind)
	}
}

// Careers returns the career knowledge base in declared order.
func (c *Catalog) Careers() []models.Career {
	return append([]models.Career(nil), c.careers...)
}

// TypeProfiles returns the MBTI type table in declared order.
func (c *Catalog) TypeProfiles() []models.TypeProfile {
	return append([]models.TypeProfile(nil), c.types...)
}

func (c *Catalog) TypeProfile(code string) (models.TypeProfile, bool) {
	i, ok := c.byCode[code]
	if !ok {
		return models.TypeProfile{}, false
	}
	return c.types[i], true
}

// WithCareers returns a copy of the catalog whose career knowledge base is
// replaced. The question banks and type table are shared.
func (c *Catalog) WithCareers(v *validator.Validator, version string, careers []models.Career) (*Catalog, error) {
	if err := v.Question().ValidateCareers(careers); err != nil {
		return nil, err
	}
	if version == "" {
		version = c.Version
	}
	out := *c
	out.Version = version
	out.careers = append([]models.Career(nil), careers...)
	return &out, nil
}

type manifest struct {
	Version         string `json:"version"`
	RIASECQuestions string `json:"riasec_questions"`
	MBTIQuestions   string `json:"mbti_questions"`
	Careers         string `json:"careers"`
	Types           string `json:"mbti_types"`
}

// EmbeddedSource loads the catalog compiled into the binary.
type EmbeddedSource struct {
	validator *validator.Validator
}

func NewEmbeddedSource(v *validator.Validator) *EmbeddedSource {
	return &EmbeddedSource{validator: v}
}

func (s *EmbeddedSource) Load(ctx context.Context) (*Catalog, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var m manifest
	if err := readJSON("manifest.json", &m); err != nil {
		return nil, err
	}

	t := Tables{Version: m.Version}
	files := []struct {
		name string
		dst  interface{}
	}{
		{m.RIASECQuestions, &t.RIASECQuestions},
		{m.MBTIQuestions, &t.MBTIQuestions},
		{m.Careers, &t.Careers},
		{m.Types, &t.Types},
	}
	for _, f := range files {
		if err := readJSON(f.name, f.dst); err != nil {
			return nil, err
		}
	}

	return Build(s.validator, t)
}

func readJSON(name string, dst interface{}) error {
	if name == "" {
		return apperrors.NewDataIntegrityError("catalog", "manifest entry missing")
	}
	raw, err := embedded.ReadFile(path.Join("data", name))
	if err != nil {
		return fmt.Errorf("failed to read catalog file %s: %w", name, err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return apperrors.NewDataIntegrityError("catalog:"+name, err.Error())
	}
	return nil
}
