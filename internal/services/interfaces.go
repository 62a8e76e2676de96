package services

import (
	"context"
	"io"

	"github.com/SAP-F-2025/career-assessment-service/internal/catalog"
	"github.com/SAP-F-2025/career-assessment-service/internal/models"
	"github.com/SAP-F-2025/career-assessment-service/internal/repositories"
	"github.com/SAP-F-2025/career-assessment-service/internal/scoring"
)

// ===== REQUEST / RESPONSE DTOs =====

type CreateSessionRequest struct {
	Kind models.AssessmentKind `json:"kind" validate:"required,assessment_kind"`
}

// AnswerRequest carries no validation tags: an unknown question id or a value
// off the scale, zero included, is an InvalidAnswerError from the ledger.
type AnswerRequest struct {
	QuestionID int `json:"question_id"`
	Value      int `json:"value"`
}

type SubmitResponse struct {
	Session models.SessionSnapshot `json:"session"`
	Result  *models.Result         `json:"result"`
}

type ImportCareersResponse struct {
	Imported       int    `json:"imported"`
	CatalogVersion string `json:"catalog_version"`
}

// Requester identifies the caller of a result query. Counselors may read
// every student's results.
type Requester struct {
	UserID    string
	Counselor bool
}

// ===== SERVICE INTERFACES =====

type CatalogService interface {
	Version() string
	Questions(kind models.AssessmentKind) ([]models.Question, error)
	Careers() []models.Career
	TypeProfiles() []models.TypeProfile

	// Current returns the live catalog and the composer bound to it. Sessions
	// keep the pair they were created with.
	Current() (*catalog.Catalog, *scoring.Composer)

	ImportCareers(ctx context.Context, requester Requester, reader io.Reader, version string) (*ImportCareersResponse, error)
}

type AssessmentService interface {
	CreateSession(ctx context.Context, studentID string, req *CreateSessionRequest) (*models.SessionSnapshot, error)
	GetSession(ctx context.Context, sessionID, studentID string) (*models.SessionSnapshot, error)

	Start(ctx context.Context, sessionID, studentID string) (*models.SessionSnapshot, error)
	Answer(ctx context.Context, sessionID, studentID string, req *AnswerRequest) (*models.SessionSnapshot, error)
	Next(ctx context.Context, sessionID, studentID string) (*models.SessionSnapshot, error)
	Previous(ctx context.Context, sessionID, studentID string) (*models.SessionSnapshot, error)
	RequestExit(ctx context.Context, sessionID, studentID string) (*models.SessionSnapshot, error)
	ConfirmExit(ctx context.Context, sessionID, studentID string) (*models.SessionSnapshot, error)
	DeclineExit(ctx context.Context, sessionID, studentID string) (*models.SessionSnapshot, error)
	Submit(ctx context.Context, sessionID, studentID string) (*SubmitResponse, error)

	ActiveSessions() int
	Close()
}

type ResultService interface {
	ListMine(ctx context.Context, requester Requester, filters repositories.ResultFilters) ([]*models.Result, error)
	ListAll(ctx context.Context, requester Requester, filters repositories.ResultFilters) ([]*models.Result, error)
	Get(ctx context.Context, requester Requester, id string) (*models.Result, error)
	ExportExcel(ctx context.Context, requester Requester, filters repositories.ResultFilters) ([]byte, error)
}
