package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SAP-F-2025/career-assessment-service/internal/cache"
	"github.com/SAP-F-2025/career-assessment-service/internal/metrics"
	"github.com/SAP-F-2025/career-assessment-service/internal/models"
	"github.com/SAP-F-2025/career-assessment-service/internal/repositories"
	"github.com/xuri/excelize/v2"
)

type resultService struct {
	repo     repositories.ResultRepository
	cache    cache.CacheService
	cacheTTL time.Duration
	metrics  *metrics.Metrics
	logger   *ServiceLogger
}

func NewResultService(
	repo repositories.ResultRepository,
	cacheService cache.CacheService,
	cacheTTL time.Duration,
	m *metrics.Metrics,
	logger *slog.Logger,
) ResultService {
	return &resultService{
		repo:     repo,
		cache:    cacheService,
		cacheTTL: cacheTTL,
		metrics:  m,
		logger:   NewServiceLogger(logger, LogConfig{Service: "career-assessment", Component: "results"}),
	}
}

// ListMine returns the requester's own results. The unfiltered list is
// served from cache and invalidated on every submit.
func (s *resultService) ListMine(ctx context.Context, requester Requester, filters repositories.ResultFilters) (results []*models.Result, err error) {
	op := s.logger.WithOperation(ctx, "list_results", requester.UserID)
	defer func() { s.finish(op, "list_results", requester.UserID, err) }()

	cacheable := filters == repositories.ResultFilters{}
	key := cache.StudentResultsKey(requester.UserID)
	if cacheable {
		if err := s.cache.Get(ctx, key, &results); err == nil {
			return results, nil
		} else if !errors.Is(err, cache.ErrCacheMiss) {
			s.logger.logger.WarnContext(ctx, "Result cache read failed", "key", key, "error", err)
		}
	}

	results, err = s.repo.ListByStudent(ctx, requester.UserID, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list results: %w", err)
	}

	if cacheable {
		if cacheErr := s.cache.Set(ctx, key, results, s.cacheTTL); cacheErr != nil {
			s.logger.logger.WarnContext(ctx, "Result cache write failed", "key", key, "error", cacheErr)
		}
	}
	return results, nil
}

func (s *resultService) ListAll(ctx context.Context, requester Requester, filters repositories.ResultFilters) (results []*models.Result, err error) {
	op := s.logger.WithOperation(ctx, "list_all_results", requester.UserID)
	defer func() { s.finish(op, "list_all_results", "", err) }()

	if !requester.Counselor {
		return nil, NewPermissionError(requester.UserID, "*", "result", "list", "counselor role required")
	}

	results, err = s.repo.ListAll(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list results: %w", err)
	}
	return results, nil
}

func (s *resultService) Get(ctx context.Context, requester Requester, id string) (result *models.Result, err error) {
	op := s.logger.WithOperation(ctx, "get_result", requester.UserID)
	defer func() { s.finish(op, "get_result", id, err) }()

	result, err = s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if result.StudentID != requester.UserID && !requester.Counselor {
		return nil, NewPermissionError(requester.UserID, id, "result", "read", "not the result owner")
	}
	return result, nil
}

// ExportExcel writes one sheet per assessment kind. Students export their own
// results, counselors export everyone's.
func (s *resultService) ExportExcel(ctx context.Context, requester Requester, filters repositories.ResultFilters) (data []byte, err error) {
	op := s.logger.WithOperation(ctx, "export_results", requester.UserID)
	defer func() { s.finish(op, "export_results", "", err) }()

	var results []*models.Result
	if requester.Counselor {
		results, err = s.repo.ListAll(ctx, filters)
	} else {
		results, err = s.repo.ListByStudent(ctx, requester.UserID, filters)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list results: %w", err)
	}

	return buildResultsWorkbook(results)
}

func (s *resultService) load(ctx context.Context, id string) (*models.Result, error) {
	var cached models.Result
	key := cache.ResultKey(id)
	if err := s.cache.Get(ctx, key, &cached); err == nil {
		return &cached, nil
	}

	result, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrResultNotFound) {
			return nil, ErrResultNotFound
		}
		return nil, fmt.Errorf("failed to get result: %w", err)
	}

	if cacheErr := s.cache.Set(ctx, key, result, s.cacheTTL); cacheErr != nil {
		s.logger.logger.WarnContext(ctx, "Result cache write failed", "key", key, "error", cacheErr)
	}
	return result, nil
}

func (s *resultService) finish(op *ContextualLogger, operation, resourceID string, err error) {
	status, duration := op.LogResult(resourceID, "result", err)
	s.metrics.ObserveOperation(operation, status, duration)
}

// ===== EXCEL EXPORT =====

const (
	riasecSheet = "RIASEC"
	mbtiSheet   = "MBTI"
)

func buildResultsWorkbook(results []*models.Result) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheets := []struct {
		name string
		kind models.AssessmentKind
	}{
		{riasecSheet, models.KindRIASEC},
		{mbtiSheet, models.KindMBTI},
	}

	for i, sheet := range sheets {
		index, err := f.NewSheet(sheet.name)
		if err != nil {
			return nil, fmt.Errorf("failed to create Excel sheet: %w", err)
		}
		if i == 0 {
			f.SetActiveSheet(index)
		}

		if err := f.SetSheetRow(sheet.name, "A1", resultHeaders(sheet.kind)); err != nil {
			return nil, fmt.Errorf("failed to write Excel headers: %w", err)
		}

		row := 2
		for _, result := range results {
			if result.Kind != sheet.kind {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(1, row)
			if err != nil {
				return nil, err
			}
			if err := f.SetSheetRow(sheet.name, cell, resultRow(result)); err != nil {
				return nil, fmt.Errorf("failed to write Excel row: %w", err)
			}
			row++
		}
	}

	// Drop the default sheet created by NewFile
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("failed to remove default sheet: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write Excel file: %w", err)
	}
	return buf.Bytes(), nil
}

func resultHeaders(kind models.AssessmentKind) *[]interface{} {
	headers := []interface{}{"Result ID", "Student ID", "Completed At", "Catalog Version"}
	for _, d := range kind.Dimensions() {
		headers = append(headers, string(d))
	}
	if kind == models.KindMBTI {
		headers = append(headers, "Type Code")
	} else {
		headers = append(headers, "Top Categories")
	}
	headers = append(headers, "Top Match", "Top Match %")
	return &headers
}

func resultRow(result *models.Result) *[]interface{} {
	row := []interface{}{
		result.ID,
		result.StudentID,
		result.Timestamp.UTC().Format(time.RFC3339),
		result.CatalogVersion,
	}
	for _, d := range result.Kind.Dimensions() {
		row = append(row, result.DimensionScores[d])
	}

	if result.Kind == models.KindMBTI {
		row = append(row, result.Classification.TypeCode)
	} else {
		top := make([]string, len(result.Classification.TopCategories))
		for i, d := range result.Classification.TopCategories {
			top[i] = string(d)
		}
		row = append(row, strings.Join(top, ", "))
	}

	if len(result.RankedMatches) > 0 {
		row = append(row, result.RankedMatches[0].Title, result.RankedMatches[0].MatchPercent)
	} else {
		row = append(row, "", "")
	}
	return &row
}
