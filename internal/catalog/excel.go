package catalog

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	apperrors "github.com/SAP-F-2025/career-assessment-service/internal/errors"
	"github.com/SAP-F-2025/career-assessment-service/internal/models"
	"github.com/xuri/excelize/v2"
)

// CareerSheetHeaders is the header row expected by ImportCareersFromExcel.
// Category cells hold comma separated RIASEC dimensions.
var CareerSheetHeaders = []string{
	"id", "title", "description", "primary_categories", "secondary_categories",
	"education_required", "salary_range", "outlook_growth_percent",
}

// ImportCareersFromExcel parses the first sheet of an xlsx workbook into
// career rows. The rows are not validated here; pass them through
// Catalog.WithCareers before use.
func ImportCareersFromExcel(reader io.Reader) ([]models.Career, error) {
	f, err := excelize.OpenReader(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, apperrors.NewDataIntegrityError("careers_sheet", "Excel file has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read Excel rows: %w", err)
	}
	if len(rows) < 2 {
		return nil, apperrors.NewDataIntegrityError("careers_sheet", "Excel must have header row and at least one data row")
	}

	headerMap := make(map[string]int)
	for i, header := range rows[0] {
		headerMap[strings.ToLower(strings.TrimSpace(header))] = i
	}
	for _, required := range []string{"id", "title", "primary_categories"} {
		if _, ok := headerMap[required]; !ok {
			return nil, apperrors.NewDataIntegrityError("careers_sheet", fmt.Sprintf("missing column %q", required))
		}
	}

	careers := make([]models.Career, 0, len(rows)-1)
	for rowIndex, row := range rows[1:] {
		cell := func(name string) string {
			i, ok := headerMap[name]
			if !ok || i >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[i])
		}

		if cell("id") == "" && cell("title") == "" {
			continue
		}

		career := models.Career{
			ID:                  cell("id"),
			Title:               cell("title"),
			Description:         cell("description"),
			PrimaryCategories:   parseCategories(cell("primary_categories")),
			SecondaryCategories: parseCategories(cell("secondary_categories")),
			EducationRequired:   cell("education_required"),
			SalaryRange:         cell("salary_range"),
		}
		if growth := cell("outlook_growth_percent"); growth != "" {
			v, err := strconv.ParseFloat(strings.TrimSuffix(growth, "%"), 64)
			if err != nil {
				return nil, apperrors.NewDataIntegrityError(
					fmt.Sprintf("careers_sheet:row %d", rowIndex+2),
					fmt.Sprintf("invalid outlook growth %q", growth))
			}
			career.OutlookGrowthPercent = v
		}
		careers = append(careers, career)
	}

	return careers, nil
}

func parseCategories(cell string) []models.Dimension {
	if cell == "" {
		return nil
	}
	parts := strings.Split(cell, ",")
	out := make([]models.Dimension, 0, len(parts))
	for _, p := range parts {
		if p = strings.ToLower(strings.TrimSpace(p)); p != "" {
			out = append(out, models.Dimension(p))
		}
	}
	return out
}
