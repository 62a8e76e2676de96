package services

import (
	"log/slog"
	"time"

	"github.com/SAP-F-2025/career-assessment-service/internal/cache"
	"github.com/SAP-F-2025/career-assessment-service/internal/catalog"
	"github.com/SAP-F-2025/career-assessment-service/internal/events"
	"github.com/SAP-F-2025/career-assessment-service/internal/metrics"
	"github.com/SAP-F-2025/career-assessment-service/internal/repositories"
	"github.com/SAP-F-2025/career-assessment-service/internal/scoring"
	"github.com/SAP-F-2025/career-assessment-service/internal/validator"
)

// ServiceManager aggregates the services handed to the HTTP layer.
type ServiceManager interface {
	Catalog() CatalogService
	Assessment() AssessmentService
	Result() ResultService
	Close()
}

// Dependencies groups everything NewServiceManager wires together.
type Dependencies struct {
	Catalog          *catalog.Catalog
	Results          repositories.ResultRepository
	Cache            cache.CacheService
	ResultCacheTTL   time.Duration
	Publisher        events.EventPublisher
	Metrics          *metrics.Metrics
	Validator        *validator.Validator
	Logger           *slog.Logger
	Sessions         SessionConfig
	CareerMatchLimit int
}

type serviceManager struct {
	catalog    CatalogService
	assessment AssessmentService
	result     ResultService
}

func NewServiceManager(deps Dependencies) ServiceManager {
	if deps.Cache == nil {
		deps.Cache = cache.NewNoopCache()
	}

	catalogService := NewCatalogService(deps.Catalog, deps.Validator, deps.Logger,
		scoring.WithCareerMatchLimit(deps.CareerMatchLimit))

	return &serviceManager{
		catalog: catalogService,
		assessment: NewAssessmentService(catalogService, deps.Results, deps.Cache, deps.ResultCacheTTL,
			deps.Publisher, deps.Metrics, deps.Validator, deps.Logger, deps.Sessions),
		result: NewResultService(deps.Results, deps.Cache, deps.ResultCacheTTL, deps.Metrics, deps.Logger),
	}
}

func (m *serviceManager) Catalog() CatalogService       { return m.catalog }
func (m *serviceManager) Assessment() AssessmentService { return m.assessment }
func (m *serviceManager) Result() ResultService         { return m.result }

func (m *serviceManager) Close() {
	m.assessment.Close()
}
