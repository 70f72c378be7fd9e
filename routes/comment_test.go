package routes

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thicket-social/thicket-be/app"
	"github.com/thicket-social/thicket-be/db/memory"
	"github.com/thicket-social/thicket-be/model"
)

func commentTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	database := memory.NewDatabase()
	router := gin.New()
	AddCommentRoutes(&router.RouterGroup, database, app.NewCommentService(database, &model.SiteConfig{}), nil)
	return router
}

func getComments(t *testing.T, router *gin.Engine, query string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/comments"+query, nil)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func TestListCommentsQueryBounds(t *testing.T) {
	router := commentTestRouter(t)

	ok := getComments(t, router, "?maxDepth=3&timeRangeSeconds=3600")
	require.Equal(t, http.StatusOK, ok.Code)
	var envelope struct {
		Success bool `json:"success"`
	}
	require.NoError(t, json.Unmarshal(ok.Body.Bytes(), &envelope))
	assert.True(t, envelope.Success)

	// values that would wrap a 32-bit conversion are malformed, not truncated
	for _, query := range []string{
		"?maxDepth=99999999999",
		"?maxDepth=-1",
		"?timeRangeSeconds=99999999999",
		"?timeRangeSeconds=-1",
		"?timeRangeSeconds=abc",
	} {
		resp := getComments(t, router, query)
		assert.Equal(t, http.StatusBadRequest, resp.Code, query)
	}
}
