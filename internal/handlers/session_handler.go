package handlers

import (
	"context"
	"net/http"

	"github.com/SAP-F-2025/career-assessment-service/internal/models"
	"github.com/SAP-F-2025/career-assessment-service/internal/services"
	"github.com/SAP-F-2025/career-assessment-service/internal/utils"
	"github.com/gin-gonic/gin"
)

type SessionHandler struct {
	BaseHandler
	assessmentService services.AssessmentService
}

func NewSessionHandler(assessmentService services.AssessmentService, logger utils.Logger) *SessionHandler {
	return &SessionHandler{
		BaseHandler:       NewBaseHandler(logger),
		assessmentService: assessmentService,
	}
}

// CreateSession opens a new assessment session
// @Summary Create session
// @Description Creates a RIASEC or MBTI session for the current student in the introduction state
// @Tags sessions
// @Accept json
// @Produce json
// @Param session body services.CreateSessionRequest true "Assessment kind"
// @Success 201 {object} models.SessionSnapshot
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /sessions [post]
func (h *SessionHandler) CreateSession(c *gin.Context) {
	var req services.CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	requester, ok := h.requester(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Creating session", "kind", req.Kind)

	snap, err := h.assessmentService.CreateSession(c.Request.Context(), requester.UserID, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, snap)
}

// GetSession returns the current snapshot of a session
// @Summary Get session
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} models.SessionSnapshot
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /sessions/{id} [get]
func (h *SessionHandler) GetSession(c *gin.Context) {
	h.control(c, h.assessmentService.GetSession)
}

// StartSession moves a session from the introduction to the first question
// @Summary Start session
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} models.SessionSnapshot
// @Failure 409 {object} ErrorResponse
// @Router /sessions/{id}/start [post]
func (h *SessionHandler) StartSession(c *gin.Context) {
	h.control(c, h.assessmentService.Start)
}

// SubmitAnswer records or overwrites one response
// @Summary Answer question
// @Description Records a Likert response. Restarts the auto-advance countdown.
// @Tags sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param answer body services.AnswerRequest true "Answer"
// @Success 200 {object} models.SessionSnapshot
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /sessions/{id}/answers [post]
func (h *SessionHandler) SubmitAnswer(c *gin.Context) {
	var req services.AnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	h.control(c, func(ctx context.Context, sessionID, studentID string) (*models.SessionSnapshot, error) {
		return h.assessmentService.Answer(ctx, sessionID, studentID, &req)
	})
}

// NextQuestion moves forward one question and cancels the countdown
// @Router /sessions/{id}/next [post]
func (h *SessionHandler) NextQuestion(c *gin.Context) {
	h.control(c, h.assessmentService.Next)
}

// PreviousQuestion moves back one question and cancels the countdown
// @Router /sessions/{id}/previous [post]
func (h *SessionHandler) PreviousQuestion(c *gin.Context) {
	h.control(c, h.assessmentService.Previous)
}

// RequestExit asks for exit confirmation and pauses the countdown
// @Router /sessions/{id}/exit [post]
func (h *SessionHandler) RequestExit(c *gin.Context) {
	h.control(c, h.assessmentService.RequestExit)
}

// ConfirmExit cancels the session and discards its responses
// @Router /sessions/{id}/exit/confirm [post]
func (h *SessionHandler) ConfirmExit(c *gin.Context) {
	h.control(c, h.assessmentService.ConfirmExit)
}

// DeclineExit returns to the question the student left
// @Router /sessions/{id}/exit/decline [post]
func (h *SessionHandler) DeclineExit(c *gin.Context) {
	h.control(c, h.assessmentService.DeclineExit)
}

// SubmitSession scores a complete session
// @Summary Submit session
// @Description Scores the session and stores the result. Fails with 422 while questions remain.
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} services.SubmitResponse
// @Failure 409 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /sessions/{id}/submit [post]
func (h *SessionHandler) SubmitSession(c *gin.Context) {
	sessionID := ParseStringIDParam(c, "id")
	if sessionID == "" {
		return
	}
	requester, ok := h.requester(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Submitting session", "session_id", sessionID)

	resp, err := h.assessmentService.Submit(c.Request.Context(), sessionID, requester.UserID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *SessionHandler) control(c *gin.Context, call func(ctx context.Context, sessionID, studentID string) (*models.SessionSnapshot, error)) {
	sessionID := ParseStringIDParam(c, "id")
	if sessionID == "" {
		return
	}
	requester, ok := h.requester(c)
	if !ok {
		return
	}

	snap, err := call(c.Request.Context(), sessionID, requester.UserID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, snap)
}
