package models

// Career is a row of the RIASEC matching knowledge base. Primary categories
// count double when matching.
type Career struct {
	ID                   string      `json:"id" validate:"required,max=64"`
	Title                string      `json:"title" validate:"required,max=200"`
	Description          string      `json:"description" validate:"max=1000"`
	PrimaryCategories    []Dimension `json:"primary_categories" validate:"dive,riasec_dimension"`
	SecondaryCategories  []Dimension `json:"secondary_categories" validate:"dive,riasec_dimension"`
	EducationRequired    string      `json:"education_required"`
	SalaryRange          string      `json:"salary_range"`
	OutlookGrowthPercent float64     `json:"outlook_growth_percent"`
}

func (c Career) MatchKey() string   { return c.ID }
func (c Career) MatchTitle() string { return c.Title }

func (c Career) Categories() (primary, secondary []Dimension) {
	return c.PrimaryCategories, c.SecondaryCategories
}

// TypeProfile is a row of the MBTI type metadata table.
type TypeProfile struct {
	Code        string   `json:"code" validate:"required,len=4,mbti_code"`
	Name        string   `json:"name" validate:"required,max=100"`
	Description string   `json:"description" validate:"max=1000"`
	Strengths   []string `json:"strengths"`
	Careers     []string `json:"careers"`
}

func (t TypeProfile) MatchKey() string   { return t.Code }
func (t TypeProfile) MatchTitle() string { return t.Name }

// Categories returns the four letters of the type code. Type profiles have no
// secondary categories.
func (t TypeProfile) Categories() (primary, secondary []Dimension) {
	primary = make([]Dimension, 0, len(t.Code))
	for _, r := range t.Code {
		primary = append(primary, Dimension(string(r)))
	}
	return primary, nil
}
