package api

import (
	"io"

	"web-cloner-go/pkg/api/handlers"
	"web-cloner-go/pkg/api/middleware"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// NewRouter builds the stub clone service routes on top of a job runner.
func NewRouter(jobs handlers.JobRunner, logger logrus.FieldLogger) *gin.Engine {
	if logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		logger = l
	}
	logger = logger.WithField("component", "api")

	router := gin.New()

	// Middleware
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.ErrorHandler(logger))

	// Health check
	router.GET("/health", handlers.HealthCheck)

	// Clone jobs
	router.POST("/clone", handlers.CreateClone(jobs))
	router.GET("/clone/:id", handlers.GetClone(jobs))

	return router
}
