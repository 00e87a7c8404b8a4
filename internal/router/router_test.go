package router_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"eposupdate/internal/handler"
	"eposupdate/internal/router"
	"eposupdate/mocks"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestSetup_Routes(t *testing.T) {
	pipeline := new(mocks.MockPipeline)
	pipeline.On("AllowedOptions").Return([]string{"reprice"})

	r := router.Setup(nil, []string{"http://localhost:3000"},
		handler.NewMassUpdateHandler(pipeline, 0),
		handler.NewHealthHandler(nil))

	routes := map[string]bool{}
	for _, ri := range r.Routes() {
		routes[ri.Method+" "+ri.Path] = true
	}
	assert.True(t, routes["POST /api/v1/mass-update"])
	assert.True(t, routes["GET /api/v1/mass-update/options"])
	assert.True(t, routes["GET /healthz"])
	assert.True(t, routes["GET /readyz"])

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/mass-update/options", http.NoBody)
	req.Header.Set("Origin", "http://localhost:3000")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
}
