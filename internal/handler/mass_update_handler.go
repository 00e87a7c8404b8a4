package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"eposupdate/internal/domain"
	"eposupdate/internal/middleware"
	"eposupdate/internal/service"
)

// multipartOverhead is the slack allowed on top of the file size limit for
// multipart boundaries and the option fields.
const multipartOverhead = 64 << 10

// MassUpdateHandler handles the EPOS mass update endpoints.
type MassUpdateHandler struct {
	pipeline    service.Pipeline
	maxBodySize int64
}

// NewMassUpdateHandler creates a new MassUpdateHandler. maxFileSize bounds
// the request body; zero disables the bound.
func NewMassUpdateHandler(pipeline service.Pipeline, maxFileSize int64) *MassUpdateHandler {
	h := &MassUpdateHandler{pipeline: pipeline}
	if maxFileSize > 0 {
		h.maxBodySize = maxFileSize + multipartOverhead
	}
	return h
}

// RunResponse is the body of a mass update response.
type RunResponse struct {
	*domain.RunResult
	// ResetAfterMS tells the client when to start a fresh session.
	ResetAfterMS int64 `json:"reset_after_ms,omitempty"`
}

func newRunResponse(result *domain.RunResult) RunResponse {
	return RunResponse{RunResult: result, ResetAfterMS: result.ResetAfter.Milliseconds()}
}

// Run handles POST /api/v1/mass-update
// @Summary Run an EPOS mass update
// @Description Upload a CSV of EPOS record ids (header row, id in the first column). Ids are normalized,
// @Description validated, invalid ids are reported as an xlsx file and valid ids are updated in one call.
// @Tags mass-update
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "CSV file (max 1,500,000 bytes, 10,000 rows including header)"
// @Param option formData []string false "Update option name, repeatable" collectionFormat(multi)
// @Success 200 {object} Response{data=RunResponse} "Run finished"
// @Failure 400 {object} ErrorResponseBody "Missing file, not a CSV, or unknown option"
// @Failure 413 {object} ErrorResponseBody "File too large"
// @Failure 422 {object} ErrorResponseBody "Too many rows"
// @Failure 502 {object} ErrorResponseBody "Validation or update service failed"
// @Router /mass-update [post]
func (h *MassUpdateHandler) Run(c *gin.Context) {
	if h.maxBodySize > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBodySize)
	}

	header, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.respondRun(c, h.pipeline.Reject(c.Request.Context(), service.RunRequest{
				Upload: domain.RawUpload{Size: c.Request.ContentLength, Body: http.NoBody},
			}, domain.ErrFileTooLarge))
			return
		}
		HandleError(c, domain.ErrMissingFile)
		return
	}

	opts, err := h.pipeline.ParseOptions(c.PostFormArray("option"))
	if err != nil {
		HandleError(c, err)
		return
	}

	file, err := header.Open()
	if err != nil {
		HandleError(c, fmt.Errorf("opening upload: %w", err))
		return
	}
	defer func() { _ = file.Close() }()

	result := h.pipeline.Run(c.Request.Context(), service.RunRequest{
		Upload: domain.RawUpload{
			FileName: header.Filename,
			Size:     header.Size,
			Body:     file,
		},
		Options: opts,
	})
	h.respondRun(c, result)
}

// respondRun writes a finished run, carrying it in the body on failure too.
func (h *MassUpdateHandler) respondRun(c *gin.Context, result *domain.RunResult) {
	if result.Err == nil {
		RespondOK(c, newRunResponse(result))
		return
	}

	status, code, msg := MapDomainError(result.Err)
	if status == http.StatusInternalServerError {
		middleware.GetLogger(c).Error("mass update run failed", zap.Error(result.Err))
	}
	RespondErrorWithData(c, status, code, msg, newRunResponse(result))
}

// Options handles GET /api/v1/mass-update/options
// @Summary List update options
// @Description Lists the accepted update option names. An empty list means any name is accepted.
// @Tags mass-update
// @Produce json
// @Success 200 {object} Response{data=OptionsResponse} "Accepted options"
// @Router /mass-update/options [get]
func (h *MassUpdateHandler) Options(c *gin.Context) {
	allowed := h.pipeline.AllowedOptions()
	if allowed == nil {
		allowed = []string{}
	}
	RespondOK(c, OptionsResponse{Options: allowed, Restricted: len(allowed) > 0})
}
