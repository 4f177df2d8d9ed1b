package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"report-templates/errs"
	"report-templates/metrics"
	"report-templates/models"
	"report-templates/repository"
	"report-templates/services"
	"report-templates/storage"
	"report-templates/terms"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestServer(t *testing.T, apiKey string) (*Server, *services.TemplateService) {
	t.Helper()
	logger := zaptest.NewLogger(t)

	db, err := repository.OpenSQLite(filepath.Join(t.TempDir(), "api.db"))
	require.NoError(t, err)
	require.NoError(t, repository.AutoMigrate(db))

	files, err := storage.NewFileStore(t.TempDir(), logger)
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	store := services.NewTemplateStore(repository.NewTemplateRepository(db), files, logger)
	svc := services.NewTemplateService(store, terms.NewResolver(repository.NewConceptRepository(db), logger), metrics.New(reg), logger)

	return &Server{
		Service:  svc,
		Health:   func(ctx context.Context) error { return repository.Ping(ctx, db) },
		Gatherer: reg,
		APIKey:   apiKey,
		Logger:   logger,
	}, svc
}

func doGet(t *testing.T, router http.Handler, url string, header map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, url, nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHealthz(t *testing.T) {
	srv, _ := newTestServer(t, "")
	w := doGet(t, srv.Router(), "/healthz", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	srv.Health = func(context.Context) error { return errors.New("connection refused") }
	w = doGet(t, srv.Router(), "/healthz", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestFindAndGetTemplates(t *testing.T) {
	srv, svc := newTestServer(t, "")
	ctx := context.Background()
	ct, err := svc.Save(ctx, &models.Template{Title: "CT Chest", Creator: "creator1", Path: "/secret/ct.html"})
	require.NoError(t, err)
	_, err = svc.Save(ctx, &models.Template{Title: "MR Brain", Creator: "creator2"})
	require.NoError(t, err)
	router := srv.Router()

	w := doGet(t, router, "/templates?title=ct", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var found []models.Template
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &found))
	require.Len(t, found, 1)
	assert.Equal(t, "CT Chest", found[0].Title)
	assert.NotContains(t, w.Body.String(), "/secret/ct.html")

	w = doGet(t, router, "/templates", nil)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &found))
	assert.Len(t, found, 2)

	// gesetzt, aber leer: passt auf alles
	w = doGet(t, router, "/templates?creator=", nil)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &found))
	assert.Len(t, found, 2)

	w = doGet(t, router, "/templates?license=none", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	w = doGet(t, router, "/templates/"+ct.UUID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var one models.Template
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &one))
	assert.Equal(t, ct.ID, one.ID)

	w = doGet(t, router, "/templates/does-not-exist", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAPIKey(t *testing.T) {
	srv, _ := newTestServer(t, "s3cret")
	router := srv.Router()

	assert.Equal(t, http.StatusUnauthorized, doGet(t, router, "/templates", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, doGet(t, router, "/templates", map[string]string{"X-API-KEY": "wrong"}).Code)
	assert.Equal(t, http.StatusOK, doGet(t, router, "/templates", map[string]string{"X-API-KEY": "s3cret"}).Code)
	// Betriebsendpunkte bleiben offen
	assert.Equal(t, http.StatusOK, doGet(t, router, "/healthz", nil).Code)
}

func TestMetricsEndpoint(t *testing.T) {
	srv, svc := newTestServer(t, "")
	_, err := svc.Import(context.Background(), "<html><head></head><body></body></html>")
	require.Error(t, err)

	w := doGet(t, srv.Router(), "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `outcome="malformed"`)
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, statusFor(errs.New(errs.CodeInvalidArgument, "x")))
	assert.Equal(t, http.StatusUnprocessableEntity, statusFor(errs.New(errs.CodeMalformedTemplate, "x")))
	assert.Equal(t, http.StatusConflict, statusFor(errs.New(errs.CodeDuplicateTemplate, "x")))
	assert.Equal(t, http.StatusInternalServerError, statusFor(errs.New(errs.CodeStorageFailure, "x")))
	assert.Equal(t, http.StatusInternalServerError, statusFor(errors.New("plain")))
}
