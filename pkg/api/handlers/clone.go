package handlers

import (
	"context"
	"errors"
	"net/http"

	"web-cloner-go/pkg/models"
	"web-cloner-go/pkg/services"
	"web-cloner-go/pkg/utils"

	"github.com/gin-gonic/gin"
)

// JobRunner is the part of the job service the handlers need.
type JobRunner interface {
	CreateJob(ctx context.Context, url string) (*models.CloneJob, error)
	GetStatus(ctx context.Context, id string) (*models.CloneStatus, error)
}

// createdJob carries the id under both names so either kind of client can read it.
type createdJob struct {
	models.CloneJob
	JobID   string `json:"job_id"`
	Message string `json:"message"`
}

// HealthCheck reports that the service is up
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// CreateClone starts a new clone job
func CreateClone(jobs JobRunner) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.CloneRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Detail: utils.InvalidURLMessage})
			return
		}

		job, err := jobs.CreateJob(c.Request.Context(), req.URL)
		if err != nil {
			if errors.Is(err, services.ErrInvalidURL) {
				c.JSON(http.StatusBadRequest, models.ErrorResponse{Detail: utils.InvalidURLMessage})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusCreated, createdJob{
			CloneJob: *job,
			JobID:    job.ID,
			Message:  "Cloning started in background",
		})
	}
}

// GetClone returns the current status of a job
func GetClone(jobs JobRunner) gin.HandlerFunc {
	return func(c *gin.Context) {
		status, err := jobs.GetStatus(c.Request.Context(), c.Param("id"))
		if err != nil {
			if errors.Is(err, services.ErrJobNotFound) {
				c.JSON(http.StatusNotFound, models.ErrorResponse{Detail: "Job not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, status)
	}
}
