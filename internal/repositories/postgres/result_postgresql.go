package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/SAP-F-2025/career-assessment-service/internal/models"
	"github.com/SAP-F-2025/career-assessment-service/internal/repositories"
	"gorm.io/gorm"
)

type ResultPostgreSQL struct {
	db *gorm.DB
}

func NewResultPostgreSQL(db *gorm.DB) repositories.ResultRepository {
	return &ResultPostgreSQL{db: db}
}

func (r *ResultPostgreSQL) Append(ctx context.Context, result *models.Result) error {
	record, err := models.NewResultRecord(result)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *ResultPostgreSQL) ListAll(ctx context.Context, filters repositories.ResultFilters) ([]*models.Result, error) {
	query := r.db.WithContext(ctx).Model(&models.ResultRecord{})
	return r.find(r.applyFilters(query, filters))
}

func (r *ResultPostgreSQL) GetByID(ctx context.Context, id string) (*models.Result, error) {
	var record models.ResultRecord
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repositories.ErrResultNotFound
		}
		return nil, err
	}
	return record.ToResult()
}

func (r *ResultPostgreSQL) ListByStudent(ctx context.Context, studentID string, filters repositories.ResultFilters) ([]*models.Result, error) {
	query := r.db.WithContext(ctx).Model(&models.ResultRecord{}).Where("student_id = ?", studentID)
	return r.find(r.applyFilters(query, filters))
}

func (r *ResultPostgreSQL) find(query *gorm.DB) ([]*models.Result, error) {
	var records []models.ResultRecord
	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}

	results := make([]*models.Result, 0, len(records))
	for i := range records {
		result, err := records[i].ToResult()
		if err != nil {
			return nil, fmt.Errorf("failed to decode result %s: %w", records[i].ID, err)
		}
		results = append(results, result)
	}
	return results, nil
}

// applyFilters applies filtering, ordering and pagination to a query
func (r *ResultPostgreSQL) applyFilters(query *gorm.DB, filters repositories.ResultFilters) *gorm.DB {
	if filters.Kind != nil {
		query = query.Where("kind = ?", string(*filters.Kind))
	}
	if filters.DateFrom != nil {
		query = query.Where("completed_at >= ?", *filters.DateFrom)
	}
	if filters.DateTo != nil {
		query = query.Where("completed_at <= ?", *filters.DateTo)
	}

	if filters.Descending() {
		query = query.Order("completed_at DESC").Order("id DESC")
	} else {
		query = query.Order("completed_at ASC").Order("id ASC")
	}

	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}
	if filters.Offset > 0 {
		query = query.Offset(filters.Offset)
	}
	return query
}
