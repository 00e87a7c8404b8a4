package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"eposupdate/internal/csvingest"
	"eposupdate/internal/domain"
	"eposupdate/internal/handler"
	"eposupdate/internal/service"
	"eposupdate/mocks"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type envelope struct {
	Success bool `json:"success"`
	Data    struct {
		Final struct {
			State       string `json:"state"`
			FailureCode string `json:"failure_code"`
		} `json:"final"`
		History       []json.RawMessage     `json:"history"`
		Notifications []domain.Notification `json:"notifications"`
		ResetAfterMS  int64                 `json:"reset_after_ms"`
	} `json:"data"`
	Error *handler.APIError `json:"error"`
}

func multipartRequest(t *testing.T, fileName, content string, options ...string) *http.Request {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	if fileName != "" {
		part, err := w.CreateFormFile("file", fileName)
		require.NoError(t, err)
		_, err = part.Write([]byte(content))
		require.NoError(t, err)
	}
	for _, o := range options {
		require.NoError(t, w.WriteField("option", o))
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/mass-update", body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func newEngine(h *handler.MassUpdateHandler) *gin.Engine {
	r := gin.New()
	r.POST("/api/v1/mass-update", h.Run)
	r.GET("/api/v1/mass-update/options", h.Options)
	return r
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var resp envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func finished(state domain.RunState, err error) *domain.RunResult {
	final := domain.RunSnapshot{State: state, FailureCode: domain.FailureCode(err)}
	return &domain.RunResult{
		Final:         final,
		History:       []domain.RunSnapshot{{State: domain.RunStateIdle}, final},
		Notifications: []domain.Notification{},
		Err:           err,
	}
}

func TestMassUpdateHandler_Run_Success(t *testing.T) {
	pipeline := new(mocks.MockPipeline)
	h := handler.NewMassUpdateHandler(pipeline, 1_500_000)

	opts := domain.NewUpdateOptions("deactivate", "reprice")
	result := finished(domain.RunStateDone, nil)
	result.ResetAfter = 2 * time.Second
	result.Notifications = []domain.Notification{service.SuccessNotification()}

	pipeline.On("ParseOptions", []string{"reprice", "deactivate"}).Return(opts, nil).Once()
	pipeline.On("Run", mock.Anything, mock.MatchedBy(func(req service.RunRequest) bool {
		return req.Upload.FileName == "ids.csv" &&
			req.Upload.Size == int64(len("Id\n001D000000IqhSL")) &&
			req.Upload.Body != nil &&
			req.Options.Has("reprice") && req.Options.Has("deactivate")
	})).Return(result).Once()

	w := httptest.NewRecorder()
	newEngine(h).ServeHTTP(w, multipartRequest(t, "ids.csv", "Id\n001D000000IqhSL", "reprice", "deactivate"))

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decode(t, w)
	assert.True(t, resp.Success)
	assert.Nil(t, resp.Error)
	assert.Equal(t, "done", resp.Data.Final.State)
	assert.Len(t, resp.Data.History, 2)
	assert.Equal(t, int64(2000), resp.Data.ResetAfterMS)
	require.Len(t, resp.Data.Notifications, 1)
	assert.Equal(t, "Updated Successfully!!!", resp.Data.Notifications[0].Message)
	pipeline.AssertExpectations(t)
}

func TestMassUpdateHandler_Run_MissingFile(t *testing.T) {
	pipeline := new(mocks.MockPipeline)
	h := handler.NewMassUpdateHandler(pipeline, 0)

	w := httptest.NewRecorder()
	newEngine(h).ServeHTTP(w, multipartRequest(t, "", "", "reprice"))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decode(t, w)
	assert.False(t, resp.Success)
	assert.Equal(t, "MISSING_FILE", resp.Error.Code)
	pipeline.AssertNotCalled(t, "Run", mock.Anything, mock.Anything)
}

func TestMassUpdateHandler_Run_UnknownOption(t *testing.T) {
	pipeline := new(mocks.MockPipeline)
	h := handler.NewMassUpdateHandler(pipeline, 0)

	pipeline.On("ParseOptions", []string{"explode"}).
		Return(domain.UpdateOptions{}, fmt.Errorf("%w: explode", domain.ErrUnknownUpdateOption)).Once()

	w := httptest.NewRecorder()
	newEngine(h).ServeHTTP(w, multipartRequest(t, "ids.csv", "Id\n", "explode"))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decode(t, w)
	assert.Equal(t, "UNKNOWN_OPTION", resp.Error.Code)
	assert.Contains(t, resp.Error.Message, "explode")
	pipeline.AssertNotCalled(t, "Run", mock.Anything, mock.Anything)
}

func TestMassUpdateHandler_Run_FailedRuns(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"not csv", domain.ErrNotCSV, http.StatusBadRequest, "NOT_CSV"},
		{"too large", domain.ErrFileTooLarge, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE"},
		{"too many rows", fmt.Errorf("%w: 10001 rows", domain.ErrRowLimitExceeded), http.StatusUnprocessableEntity, "ROW_LIMIT_EXCEEDED"},
		{"validation down", fmt.Errorf("%w: timeout", domain.ErrValidationUnavailable), http.StatusBadGateway, "VALIDATION_UNAVAILABLE"},
		{"update failed", fmt.Errorf("%w: 500", domain.ErrUpdateSubmissionFailed), http.StatusBadGateway, "UPDATE_SUBMISSION_FAILED"},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pipeline := new(mocks.MockPipeline)
			h := handler.NewMassUpdateHandler(pipeline, 0)

			pipeline.On("ParseOptions", mock.Anything).Return(domain.NewUpdateOptions(), nil)
			pipeline.On("Run", mock.Anything, mock.Anything).Return(finished(domain.RunStateFailed, tt.err))

			w := httptest.NewRecorder()
			newEngine(h).ServeHTTP(w, multipartRequest(t, "ids.txt", "Id\n"))

			assert.Equal(t, tt.status, w.Code)
			resp := decode(t, w)
			assert.False(t, resp.Success)
			assert.Equal(t, tt.code, resp.Error.Code)
			// The run travels with the error so reports made before a failure stay reachable.
			assert.Equal(t, "failed", resp.Data.Final.State)
			assert.Equal(t, tt.code, resp.Data.Final.FailureCode)
		})
	}
}

func TestMassUpdateHandler_Run_BodyOverTransportLimit(t *testing.T) {
	const maxFileSize = 1000
	notifier := new(mocks.MockNotifier)
	notifier.On("Notify", mock.Anything, mock.Anything, mock.MatchedBy(func(n domain.Notification) bool {
		return n.Message == service.MsgFileTooLarge && n.Mode == domain.ModeSticky
	})).Return(nil).Once()
	reconciler := new(mocks.MockReconciler)
	submitter := new(mocks.MockSubmitter)
	reports := new(mocks.MockReportService)

	pipeline := service.NewPipeline(service.PipelineDeps{
		Reconciler: reconciler,
		Submitter:  submitter,
		Reports:    reports,
		Notifier:   notifier,
	}, service.PipelineSettings{Limits: csvingest.Limits{MaxFileSize: maxFileSize}}, nil)
	h := handler.NewMassUpdateHandler(pipeline, maxFileSize)

	content := "Id\n" + strings.Repeat("001D000000IqhSL\n", 100_000)
	w := httptest.NewRecorder()
	newEngine(h).ServeHTTP(w, multipartRequest(t, "ids.csv", content))

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	resp := decode(t, w)
	assert.False(t, resp.Success)
	assert.Equal(t, "FILE_TOO_LARGE", resp.Error.Code)
	assert.Equal(t, "failed", resp.Data.Final.State)
	assert.Equal(t, "FILE_TOO_LARGE", resp.Data.Final.FailureCode)
	assert.Len(t, resp.Data.History, 2)
	require.Len(t, resp.Data.Notifications, 1)
	assert.Equal(t, service.MsgFileTooLarge, resp.Data.Notifications[0].Message)
	notifier.AssertExpectations(t)
	notifier.AssertNumberOfCalls(t, "Notify", 1)
	reconciler.AssertNotCalled(t, "Reconcile", mock.Anything, mock.Anything)
}

func TestMassUpdateHandler_Options(t *testing.T) {
	pipeline := new(mocks.MockPipeline)
	h := handler.NewMassUpdateHandler(pipeline, 0)
	pipeline.On("AllowedOptions").Return([]string{"deactivate", "reprice"}).Once()

	w := httptest.NewRecorder()
	newEngine(h).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/mass-update/options", http.NoBody))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"data":{"options":["deactivate","reprice"],"restricted":true}}`, w.Body.String())
}

func TestMassUpdateHandler_Options_Unrestricted(t *testing.T) {
	pipeline := new(mocks.MockPipeline)
	h := handler.NewMassUpdateHandler(pipeline, 0)
	pipeline.On("AllowedOptions").Return(nil).Once()

	w := httptest.NewRecorder()
	newEngine(h).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/mass-update/options", http.NoBody))

	assert.JSONEq(t, `{"success":true,"data":{"options":[],"restricted":false}}`, w.Body.String())
}

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

func TestHealthHandler(t *testing.T) {
	tests := []struct {
		name   string
		pinger handler.Pinger
		status int
	}{
		{"no backing store", nil, http.StatusOK},
		{"store reachable", stubPinger{}, http.StatusOK},
		{"store down", stubPinger{err: errors.New("dial tcp: refused")}, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := handler.NewHealthHandler(tt.pinger)
			r := gin.New()
			r.GET("/healthz", h.Liveness)
			r.GET("/readyz", h.Readiness)

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", http.NoBody))
			assert.Equal(t, http.StatusOK, w.Code)

			w = httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readyz", http.NoBody))
			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestMapDomainError(t *testing.T) {
	status, code, _ := handler.MapDomainError(domain.ErrMissingFile)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "MISSING_FILE", code)

	status, code, _ = handler.MapDomainError(domain.ErrReportRenderFailed)
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "INTERNAL_ERROR", code)
}
