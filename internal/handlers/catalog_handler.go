package handlers

import (
	"net/http"
	"strings"

	"github.com/SAP-F-2025/career-assessment-service/internal/models"
	"github.com/SAP-F-2025/career-assessment-service/internal/services"
	"github.com/SAP-F-2025/career-assessment-service/internal/utils"
	"github.com/gin-gonic/gin"
)

type CatalogHandler struct {
	BaseHandler
	catalogService services.CatalogService
}

func NewCatalogHandler(catalogService services.CatalogService, logger utils.Logger) *CatalogHandler {
	return &CatalogHandler{
		BaseHandler:    NewBaseHandler(logger),
		catalogService: catalogService,
	}
}

// GetQuestions returns the question bank of one assessment kind
// @Summary Get questions
// @Tags catalog
// @Produce json
// @Param kind path string true "riasec or mbti"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Router /catalog/{kind}/questions [get]
func (h *CatalogHandler) GetQuestions(c *gin.Context) {
	kind := models.AssessmentKind(strings.ToLower(c.Param("kind")))

	questions, err := h.catalogService.Questions(kind)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"kind":            kind,
		"catalog_version": h.catalogService.Version(),
		"scale":           kind.Scale(),
		"questions":       questions,
	})
}

// GetCareers lists the career knowledge base in declared order
// @Router /catalog/careers [get]
func (h *CatalogHandler) GetCareers(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"catalog_version": h.catalogService.Version(),
		"careers":         h.catalogService.Careers(),
	})
}

// GetTypeProfiles lists the sixteen MBTI type profiles
// @Router /catalog/types [get]
func (h *CatalogHandler) GetTypeProfiles(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"catalog_version": h.catalogService.Version(),
		"types":           h.catalogService.TypeProfiles(),
	})
}

// ImportCareers replaces the career knowledge base from an uploaded xlsx file
// @Summary Import careers
// @Description Counselors only. Sessions already in progress keep the previous careers.
// @Tags catalog
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Careers workbook"
// @Param version formData string false "New catalog version"
// @Success 200 {object} SuccessResponse{data=services.ImportCareersResponse}
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /catalog/careers/import [post]
func (h *CatalogHandler) ImportCareers(c *gin.Context) {
	requester, ok := h.requester(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Missing careers file", err, err.Error())
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Unreadable careers file", err, err.Error())
		return
	}
	defer file.Close()

	h.LogRequest(c, "Importing careers", "filename", fileHeader.Filename, "size", fileHeader.Size)

	resp, err := h.catalogService.ImportCareers(c.Request.Context(), requester, file, c.PostForm("version"))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "Careers imported",
		Data:    resp,
	})
}
