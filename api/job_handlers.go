package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/gcbaptista/go-catalog-search/internal/ingest"
	"github.com/gcbaptista/go-catalog-search/model"
)

// ImportFeedHandler accepts a CSV feed and replaces the catalog with it in a background job.
// Responds 202 with the job ID; the outcome is read from GET /jobs/:jobId.
func (api *API) ImportFeedHandler(c *gin.Context) {
	feed, err := io.ReadAll(c.Request.Body)
	if err != nil {
		SendError(c, http.StatusBadRequest, ErrorCodeInvalidRequest, "Failed to read request body: "+err.Error())
		return
	}
	if len(bytes.TrimSpace(feed)) == 0 {
		result := &ValidationResult{Valid: true}
		result.AddError("body", "Feed is required")
		SendValidationError(c, result)
		return
	}

	jobID := api.jobs.CreateJob(model.JobTypeImportFeed, map[string]string{
		"source": "upload",
		"bytes":  strconv.Itoa(len(feed)),
	})

	err = api.jobs.ExecuteJob(jobID, func(ctx context.Context, job *model.Job) error {
		api.jobs.UpdateJobProgress(job.ID, 0, 2, "Parsing feed")
		vehicles, err := ingest.ParseCSV(bytes.NewReader(feed))
		if err != nil {
			return err
		}

		api.jobs.UpdateJobProgress(job.ID, 1, 2, fmt.Sprintf("Parsed %d vehicles", len(vehicles)))
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := api.catalog.Reload(vehicles); err != nil {
			return err
		}

		api.jobs.UpdateJobProgress(job.ID, 2, 2, "Catalog replaced")
		return nil
	})
	if err != nil {
		SendInternalError(c, "start import job", err)
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"status":  "accepted",
		"message": "Feed import started",
		"job_id":  jobID,
	})
}

// GetJobHandler handles requests to get job status by ID
func (api *API) GetJobHandler(c *gin.Context) {
	job, err := api.jobs.GetJob(c.Param("jobId"))
	if err != nil {
		SendCatalogError(c, "get job", err)
		return
	}
	c.JSON(http.StatusOK, job)
}

// ListJobsHandler lists jobs oldest first. Query param: status (optional)
func (api *API) ListJobsHandler(c *gin.Context) {
	var statusFilter *model.JobStatus
	if statusParam := c.Query("status"); statusParam != "" {
		status := model.JobStatus(statusParam)
		switch status {
		case model.JobStatusPending, model.JobStatusRunning, model.JobStatusCompleted,
			model.JobStatusFailed, model.JobStatusCancelled:
		default:
			result := &ValidationResult{Valid: true}
			result.AddError("status", "Unknown job status '"+statusParam+"'")
			SendValidationError(c, result)
			return
		}
		statusFilter = &status
	}

	jobList := api.jobs.ListJobs(statusFilter)
	c.JSON(http.StatusOK, gin.H{
		"jobs":  jobList,
		"total": len(jobList),
	})
}

// GetJobMetricsHandler handles requests to get job performance metrics
func (api *API) GetJobMetricsHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"metrics":          api.jobs.GetMetrics(),
		"success_rate":     api.jobs.GetJobSuccessRate(),
		"current_workload": api.jobs.GetCurrentWorkload(),
	})
}
