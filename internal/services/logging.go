package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	apperrors "github.com/SAP-F-2025/career-assessment-service/internal/errors"
)

// Operation statuses shared by logs and metrics.
const (
	StatusSuccess       = "success"
	StatusError         = "error"
	StatusValidation    = "validation_error"
	StatusUnauthorized  = "unauthorized"
	StatusNotFound      = "not_found"
	StatusConflict      = "conflict"
	StatusIncomplete    = "incomplete"
	StatusDataIntegrity = "data_integrity"
)

// ServiceLogger provides structured logging for service layer operations
type ServiceLogger struct {
	logger *slog.Logger
	config LogConfig
}

type LogConfig struct {
	Service     string
	Component   string
	EnableDebug bool
}

func NewServiceLogger(logger *slog.Logger, config LogConfig) *ServiceLogger {
	return &ServiceLogger{
		logger: logger.With("service", config.Service, "component", config.Component),
		config: config,
	}
}

// ClassifyError maps an operation error to a status and the level it is
// logged at.
func ClassifyError(err error) (string, slog.Level) {
	switch {
	case err == nil:
		return StatusSuccess, slog.LevelInfo
	case IsValidation(err):
		return StatusValidation, slog.LevelWarn
	case IsUnauthorized(err):
		return StatusUnauthorized, slog.LevelWarn
	case IsNotFound(err):
		return StatusNotFound, slog.LevelInfo
	case IsConflict(err):
		return StatusConflict, slog.LevelWarn
	case IsIncomplete(err):
		return StatusIncomplete, slog.LevelInfo
	case IsDataIntegrity(err):
		return StatusDataIntegrity, slog.LevelError
	default:
		return StatusError, slog.LevelError
	}
}

// ===== OPERATION LOGGING =====

func (l *ServiceLogger) LogOperation(ctx context.Context, operation, userID, resourceID, resourceType string, duration time.Duration, err error) {
	status, level := ClassifyError(err)

	attrs := []slog.Attr{
		slog.String("operation", operation),
		slog.String("user_id", userID),
		slog.String("resource_id", resourceID),
		slog.String("resource_type", resourceType),
		slog.String("status", status),
		slog.Duration("duration", duration),
	}

	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))

		var (
			validationErr ValidationErrors
			permErr       *PermissionError
			transitionErr *apperrors.InvalidTransitionError
			incompleteErr *apperrors.IncompleteAssessmentError
		)
		switch {
		case errors.As(err, &validationErr):
			attrs = append(attrs, slog.Int("validation_errors_count", len(validationErr)))
		case errors.As(err, &permErr):
			attrs = append(attrs, slog.String("permission_action", permErr.Action))
		case errors.As(err, &transitionErr):
			attrs = append(attrs, slog.String("from_state", transitionErr.From))
		case errors.As(err, &incompleteErr):
			attrs = append(attrs, slog.Int("remaining", incompleteErr.Remaining))
		}
	}

	// Add caller information for errors
	if level == slog.LevelError {
		if pc, file, line, ok := runtime.Caller(2); ok {
			if fn := runtime.FuncForPC(pc); fn != nil {
				attrs = append(attrs,
					slog.String("caller_func", fn.Name()),
					slog.String("caller_file", file),
					slog.Int("caller_line", line),
				)
			}
		}
	}

	message := fmt.Sprintf("%s operation %s", operation, status)
	l.logger.LogAttrs(ctx, level, message, attrs...)
}

func (l *ServiceLogger) LogValidationError(ctx context.Context, operation, userID string, validationErrors ValidationErrors) {
	attrs := []slog.Attr{
		slog.String("operation", operation),
		slog.String("user_id", userID),
		slog.Int("error_count", len(validationErrors)),
	}

	for i, err := range validationErrors {
		if i < 5 { // Limit to first 5 errors to avoid log spam
			attrs = append(attrs, slog.Group(fmt.Sprintf("error_%d", i+1),
				slog.String("field", err.Field),
				slog.String("message", err.Message),
				slog.Any("value", err.Value),
			))
		}
	}

	l.logger.LogAttrs(ctx, slog.LevelWarn, "Validation failed", attrs...)
}

func (l *ServiceLogger) LogPermissionDenied(ctx context.Context, operation string, permError *PermissionError) {
	attrs := []slog.Attr{
		slog.String("operation", operation),
		slog.String("user_id", permError.UserID),
		slog.String("resource_id", permError.ResourceID),
		slog.String("resource_type", permError.Resource),
		slog.String("action", permError.Action),
		slog.String("reason", permError.Reason),
	}

	l.logger.LogAttrs(ctx, slog.LevelWarn, "Permission denied", attrs...)
}

func (l *ServiceLogger) Debug(ctx context.Context, msg string, args ...any) {
	if l.config.EnableDebug {
		l.logger.DebugContext(ctx, msg, args...)
	}
}

// ===== MIDDLEWARE AND HELPERS =====

// ContextualLogger wraps operations with automatic logging
type ContextualLogger struct {
	logger    *ServiceLogger
	operation string
	userID    string
	startTime time.Time
	ctx       context.Context
}

func (l *ServiceLogger) WithOperation(ctx context.Context, operation, userID string) *ContextualLogger {
	return &ContextualLogger{
		logger:    l,
		operation: operation,
		userID:    userID,
		startTime: time.Now(),
		ctx:       ctx,
	}
}

// LogResult logs the finished operation and returns its status and duration
// so callers can feed metrics from the same classification.
func (cl *ContextualLogger) LogResult(resourceID, resourceType string, err error) (string, time.Duration) {
	duration := time.Since(cl.startTime)
	cl.logger.LogOperation(cl.ctx, cl.operation, cl.userID, resourceID, resourceType, duration, err)

	if err != nil {
		var (
			validationErrors ValidationErrors
			permErr          *PermissionError
		)
		if errors.As(err, &validationErrors) {
			cl.logger.LogValidationError(cl.ctx, cl.operation, cl.userID, validationErrors)
		} else if errors.As(err, &permErr) {
			cl.logger.LogPermissionDenied(cl.ctx, cl.operation, permErr)
		}
	}

	status, _ := ClassifyError(err)
	return status, duration
}

// ===== ERROR FORMATTING HELPERS =====

func FormatError(err error) map[string]interface{} {
	if err == nil {
		return nil
	}

	result := map[string]interface{}{
		"message": err.Error(),
		"type":    "unknown",
	}

	var (
		validationErrs ValidationErrors
		permErr        *PermissionError
		incompleteErr  *apperrors.IncompleteAssessmentError
	)
	switch {
	case errors.As(err, &validationErrs):
		result["type"] = "validation"
		result["count"] = len(validationErrs)

		fields := make([]map[string]interface{}, len(validationErrs))
		for i, validationErr := range validationErrs {
			fields[i] = map[string]interface{}{
				"field":   validationErr.Field,
				"message": validationErr.Message,
				"value":   validationErr.Value,
			}
		}
		result["errors"] = fields

	case errors.As(err, &permErr):
		result["type"] = "permission"
		result["user_id"] = permErr.UserID
		result["resource_id"] = permErr.ResourceID
		result["resource"] = permErr.Resource
		result["action"] = permErr.Action
		result["reason"] = permErr.Reason

	case errors.As(err, &incompleteErr):
		result["type"] = "incomplete"
		result["answered"] = incompleteErr.Answered
		result["remaining"] = incompleteErr.Remaining

	default:
		status, _ := ClassifyError(err)
		if status != StatusError {
			result["type"] = status
		}
	}

	return result
}
