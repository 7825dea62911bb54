package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jengzang/trails-backend-go/internal/analysis"
	"github.com/jengzang/trails-backend-go/internal/config"
	"github.com/jengzang/trails-backend-go/internal/database"
	"github.com/jengzang/trails-backend-go/internal/handler"
	"github.com/jengzang/trails-backend-go/internal/middleware"
	"github.com/jengzang/trails-backend-go/internal/repository"
	"github.com/jengzang/trails-backend-go/internal/service"
)

const testSecret = "test-secret"

const eaglePeak = `{"type": "FeatureCollection", "features": [{"type": "Feature", "properties": {"name": "Eagle Peak"},
  "geometry": {"type": "LineString", "coordinates": [[-122, 45, 100], [-122, 45.001, 150]]}}]}`

type testServer struct {
	router  *gin.Engine
	imports *service.ImportService
	dir     string
	token   string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	tmp := t.TempDir()
	dir := filepath.Join(tmp, "trail_files")
	require.NoError(t, os.MkdirAll(dir, 0o755))

	db, err := database.Open(database.Config{Path: filepath.Join(tmp, "trails.db")}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	cfg := &config.Config{JWTSecret: testSecret, TrailFilesDir: dir, AppEnv: "test"}
	trailRepo := repository.NewTrailRepository(db)
	trails := service.NewTrailService(trailRepo, analysis.Options{}, zap.NewNop())
	imports := service.NewImportService(trails, trailRepo, repository.NewImportJobRepository(db), 2, zap.NewNop())

	limiter := middleware.NewRateLimiter(1000, time.Minute)
	t.Cleanup(limiter.Stop)

	router := SetupRouter(cfg, zap.NewNop(), Handlers{
		Trails:  handler.NewTrailHandler(trails),
		Imports: handler.NewImportHandler(imports, dir),
	}, limiter)

	token, err := middleware.NewToken(testSecret, "admin", time.Hour)
	require.NoError(t, err)

	return &testServer{router: router, imports: imports, dir: dir, token: token}
}

func (s *testServer) do(method, target, body string, authorized bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if authorized {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder, data any) {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	if data != nil {
		require.NoError(t, json.Unmarshal(env.Data, data))
	}
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	w := s.do(http.MethodGet, "/health", "", false)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAnalyzeEndpoint(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodPost, "/api/v1/analyze", eaglePeak, false)
	require.Equal(t, http.StatusOK, w.Code)

	var data struct {
		Report map[string]any `json:"report"`
	}
	decode(t, w, &data)
	assert.Equal(t, "Eagle Peak", data.Report["name"])
	difficulty := data.Report["difficulty"].(map[string]any)
	assert.Equal(t, "unknown", difficulty["accessibility"])
	assert.Equal(t, float64(4), difficulty["overall_difficulty"])

	w = s.do(http.MethodPost, "/api/v1/analyze?format=kml", eaglePeak, false)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "kml")
	assert.Contains(t, w.Body.String(), "<Placemark>")

	w = s.do(http.MethodPost, "/api/v1/analyze?format=gpx", eaglePeak, false)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPost, "/api/v1/analyze", "not json", false)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTrailLifecycle(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodPost, "/api/v1/trails", eaglePeak, false)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(http.MethodPost, "/api/v1/trails", eaglePeak, true)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = s.do(http.MethodPost, "/api/v1/trails", eaglePeak, true)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.do(http.MethodGet, "/api/v1/trails", "", false)
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Data  []map[string]any `json:"data"`
		Total int              `json:"total"`
	}
	decode(t, w, &list)
	assert.Equal(t, 1, list.Total)
	assert.Equal(t, "4", list.Data[0]["difficulty"])

	name := url.PathEscape("Eagle Peak")
	w = s.do(http.MethodGet, "/api/v1/trails/"+name, "", false)
	require.Equal(t, http.StatusOK, w.Code)
	var detail map[string]any
	decode(t, w, &detail)
	assert.Len(t, detail["segments"], 1)

	w = s.do(http.MethodGet, "/api/v1/trails/"+name+"/path", "", false)
	require.Equal(t, http.StatusOK, w.Code)
	var path map[string]any
	decode(t, w, &path)
	assert.Len(t, path["coordinates"], 2)
	assert.NotEmpty(t, path["polyline"])

	w = s.do(http.MethodGet, "/api/v1/trails/"+name+"/export?format=geojson", "", false)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/geo+json", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Body.String(), `"terrain_type":"steep"`)

	w = s.do(http.MethodGet, "/api/v1/trails/"+name+"/export?format=json", "", false)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodDelete, "/api/v1/trails/"+name, "", true)
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(http.MethodGet, "/api/v1/trails/"+name, "", false)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestImportEndpoints(t *testing.T) {
	s := newTestServer(t)
	require.NoError(t, os.WriteFile(filepath.Join(s.dir, "Eagle Peak.geojson"), []byte(eaglePeak), 0o644))

	w := s.do(http.MethodPost, "/api/v1/imports", "", false)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(http.MethodPost, "/api/v1/imports", "", true)
	require.Equal(t, http.StatusAccepted, w.Code, w.Body.String())
	var job struct {
		ID string `json:"id"`
	}
	decode(t, w, &job)
	require.NotEmpty(t, job.ID)

	s.imports.Wait()

	w = s.do(http.MethodGet, "/api/v1/imports/"+job.ID, "", false)
	require.Equal(t, http.StatusOK, w.Code)
	var progress struct {
		Status        string `json:"status"`
		ImportedFiles int    `json:"imported_files"`
	}
	decode(t, w, &progress)
	assert.Equal(t, "completed", progress.Status)
	assert.Equal(t, 1, progress.ImportedFiles)

	w = s.do(http.MethodGet, "/api/v1/imports/unknown", "", false)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
