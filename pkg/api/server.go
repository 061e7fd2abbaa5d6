package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jakechorley/duty-rota/pkg/core/services"
	"github.com/jakechorley/duty-rota/pkg/metrics"
)

// Server exposes the roster and scheduling services over HTTP
type Server struct {
	store      services.SnapshotStore
	controller *services.ScheduleController
	metrics    *metrics.Metrics
	logger     *zap.Logger
	now        func() time.Time
}

// NewServer creates a server. metrics may be nil.
func NewServer(store services.SnapshotStore, controller *services.ScheduleController, m *metrics.Metrics, logger *zap.Logger) *Server {
	return &Server{
		store:      store,
		controller: controller,
		metrics:    m,
		logger:     logger,
		now:        time.Now,
	}
}

// Router builds the gin engine with every route registered
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), metricsMiddleware(s.metrics), requestLogger(s.logger))

	router.GET("/health", s.health)
	router.GET("/metrics", gin.WrapH(s.metrics.Handler()))

	api := router.Group("/api")

	api.GET("/employees", s.listEmployees)
	api.POST("/employees", s.addEmployee)
	api.PUT("/employees/:id", s.updateEmployee)
	api.DELETE("/employees/:id", s.removeEmployee)

	month := api.Group("/months/:month")
	month.GET("/vacations", s.listVacations)
	month.POST("/vacations", s.toggleVacation)

	month.GET("/schedule", s.currentSchedule)
	month.PUT("/schedule/days/:day", s.assignDay)
	month.DELETE("/schedule/days/:day", s.clearDay)

	month.POST("/preview", s.generatePreview)
	month.GET("/preview", s.getPreview)
	month.DELETE("/preview", s.discardPreview)
	month.POST("/apply", s.applyPreview)
	month.POST("/undo", s.undo)

	api.GET("/statistics", s.statistics)
	api.GET("/snapshot", s.exportSnapshot)
	api.POST("/snapshot", s.importSnapshot)

	return router
}
