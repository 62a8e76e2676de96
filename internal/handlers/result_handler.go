package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/SAP-F-2025/career-assessment-service/internal/services"
	"github.com/SAP-F-2025/career-assessment-service/internal/utils"
	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ResultHandler struct {
	BaseHandler
	resultService services.ResultService
}

func NewResultHandler(resultService services.ResultService, logger utils.Logger) *ResultHandler {
	return &ResultHandler{
		BaseHandler:   NewBaseHandler(logger),
		resultService: resultService,
	}
}

// ListMyResults lists the current student's results
// @Summary List my results
// @Tags results
// @Produce json
// @Param kind query string false "riasec or mbti"
// @Param date_from query string false "RFC3339 lower bound"
// @Param date_to query string false "RFC3339 upper bound"
// @Param sort_order query string false "asc or desc"
// @Param page query int false "Page number" default(1)
// @Param size query int false "Page size"
// @Success 200 {array} models.Result
// @Router /results [get]
func (h *ResultHandler) ListMyResults(c *gin.Context) {
	requester, ok := h.requester(c)
	if !ok {
		return
	}
	filters, ok := parseResultFilters(c)
	if !ok {
		return
	}

	results, err := h.resultService.ListMine(c.Request.Context(), requester, filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, results)
}

// ListAllResults lists every stored result. Counselors only.
// @Summary List all results
// @Tags results
// @Produce json
// @Success 200 {array} models.Result
// @Failure 403 {object} ErrorResponse
// @Router /results/all [get]
func (h *ResultHandler) ListAllResults(c *gin.Context) {
	requester, ok := h.requester(c)
	if !ok {
		return
	}
	filters, ok := parseResultFilters(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Listing all results")

	results, err := h.resultService.ListAll(c.Request.Context(), requester, filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, results)
}

// GetResult retrieves one result by ID
// @Summary Get result
// @Tags results
// @Produce json
// @Param id path string true "Result ID"
// @Success 200 {object} models.Result
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /results/{id} [get]
func (h *ResultHandler) GetResult(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}
	requester, ok := h.requester(c)
	if !ok {
		return
	}

	result, err := h.resultService.Get(c.Request.Context(), requester, id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// ExportResults downloads results as an xlsx workbook
// @Summary Export results
// @Tags results
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {file} file
// @Router /results/export [get]
func (h *ResultHandler) ExportResults(c *gin.Context) {
	requester, ok := h.requester(c)
	if !ok {
		return
	}
	filters, ok := parseResultFilters(c)
	if !ok {
		return
	}

	h.LogRequest(c, "Exporting results", "counselor", requester.Counselor)

	data, err := h.resultService.ExportExcel(c.Request.Context(), requester, filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	filename := fmt.Sprintf("assessment-results-%s.xlsx", time.Now().UTC().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, xlsxContentType, data)
}
