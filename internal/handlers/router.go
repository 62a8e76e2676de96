package handlers

import (
	"net/http"
	"time"

	"github.com/SAP-F-2025/career-assessment-service/internal/services"
	"github.com/SAP-F-2025/career-assessment-service/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type HandlerManager struct {
	sessionHandler *SessionHandler
	resultHandler  *ResultHandler
	catalogHandler *CatalogHandler

	auth     Authenticator
	gatherer prometheus.Gatherer
	started  time.Time
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	auth Authenticator,
	gatherer prometheus.Gatherer,
	logger utils.Logger,
) *HandlerManager {
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return &HandlerManager{
		sessionHandler: NewSessionHandler(serviceManager.Assessment(), logger),
		resultHandler:  NewResultHandler(serviceManager.Result(), logger),
		catalogHandler: NewCatalogHandler(serviceManager.Catalog(), logger),
		auth:           auth,
		gatherer:       gatherer,
		started:        time.Now(),
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	// Health check endpoint
	router.GET("/health", hm.HealthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(hm.gatherer, promhttp.HandlerOpts{})))

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Catalog routes are public apart from the import
		catalog := v1.Group("/catalog")
		{
			catalog.GET("/:kind/questions", hm.catalogHandler.GetQuestions)
			catalog.GET("/careers", hm.catalogHandler.GetCareers)
			catalog.GET("/types", hm.catalogHandler.GetTypeProfiles)
			catalog.POST("/careers/import", AuthMiddleware(hm.auth), hm.catalogHandler.ImportCareers)
		}

		// Session routes
		sessions := v1.Group("/sessions", AuthMiddleware(hm.auth))
		{
			sessions.POST("", hm.sessionHandler.CreateSession)
			sessions.GET("/:id", hm.sessionHandler.GetSession)
			sessions.POST("/:id/start", hm.sessionHandler.StartSession)
			sessions.POST("/:id/answers", hm.sessionHandler.SubmitAnswer)
			sessions.POST("/:id/next", hm.sessionHandler.NextQuestion)
			sessions.POST("/:id/previous", hm.sessionHandler.PreviousQuestion)
			sessions.POST("/:id/exit", hm.sessionHandler.RequestExit)
			sessions.POST("/:id/exit/confirm", hm.sessionHandler.ConfirmExit)
			sessions.POST("/:id/exit/decline", hm.sessionHandler.DeclineExit)
			sessions.POST("/:id/submit", hm.sessionHandler.SubmitSession)
		}

		// Result routes
		results := v1.Group("/results", AuthMiddleware(hm.auth))
		{
			results.GET("", hm.resultHandler.ListMyResults)
			results.GET("/all", hm.resultHandler.ListAllResults)
			results.GET("/export", hm.resultHandler.ExportResults)
			results.GET("/:id", hm.resultHandler.GetResult)
		}
	}
}

// HealthCheck reports liveness and the number of sessions held in memory
func (hm *HandlerManager) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":          "ok",
		"uptime":          time.Since(hm.started).Round(time.Second).String(),
		"active_sessions": hm.sessionHandler.assessmentService.ActiveSessions(),
	})
}
