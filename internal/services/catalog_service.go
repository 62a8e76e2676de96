package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/SAP-F-2025/career-assessment-service/internal/catalog"
	"github.com/SAP-F-2025/career-assessment-service/internal/models"
	"github.com/SAP-F-2025/career-assessment-service/internal/scoring"
	"github.com/SAP-F-2025/career-assessment-service/internal/validator"
)

type loadedCatalog struct {
	catalog  *catalog.Catalog
	composer *scoring.Composer
}

type catalogService struct {
	current      atomic.Pointer[loadedCatalog]
	importMu     sync.Mutex
	composerOpts []scoring.ComposerOption
	validator    *validator.Validator
	logger       *ServiceLogger
}

func NewCatalogService(cat *catalog.Catalog, validator *validator.Validator, logger *slog.Logger, opts ...scoring.ComposerOption) CatalogService {
	s := &catalogService{
		composerOpts: opts,
		validator:    validator,
		logger:       NewServiceLogger(logger, LogConfig{Service: "career-assessment", Component: "catalog"}),
	}
	s.swap(cat)
	return s
}

func (s *catalogService) swap(cat *catalog.Catalog) {
	s.current.Store(&loadedCatalog{
		catalog:  cat,
		composer: scoring.NewComposer(cat, s.composerOpts...),
	})
}

func (s *catalogService) Current() (*catalog.Catalog, *scoring.Composer) {
	loaded := s.current.Load()
	return loaded.catalog, loaded.composer
}

func (s *catalogService) Version() string {
	return s.current.Load().catalog.Version
}

func (s *catalogService) Questions(kind models.AssessmentKind) ([]models.Question, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedKind, kind)
	}
	bank, err := s.current.Load().catalog.Bank(kind)
	if err != nil {
		return nil, err
	}
	return bank.Questions(), nil
}

func (s *catalogService) Careers() []models.Career {
	return s.current.Load().catalog.Careers()
}

func (s *catalogService) TypeProfiles() []models.TypeProfile {
	return s.current.Load().catalog.TypeProfiles()
}

// ImportCareers replaces the career knowledge base from an xlsx sheet. Live
// sessions keep matching against the catalog they started with.
func (s *catalogService) ImportCareers(ctx context.Context, requester Requester, reader io.Reader, version string) (resp *ImportCareersResponse, err error) {
	op := s.logger.WithOperation(ctx, "import_careers", requester.UserID)
	defer func() { op.LogResult(version, "catalog", err) }()

	if !requester.Counselor {
		return nil, NewPermissionError(requester.UserID, version, "catalog", "import", "counselor role required")
	}

	careers, err := catalog.ImportCareersFromExcel(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadRequest, err)
	}

	s.importMu.Lock()
	defer s.importMu.Unlock()

	current, _ := s.Current()
	next, err := current.WithCareers(s.validator, version, careers)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadRequest, err)
	}
	s.swap(next)

	return &ImportCareersResponse{Imported: len(careers), CatalogVersion: next.Version}, nil
}
