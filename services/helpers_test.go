package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"report-templates/metrics"
	"report-templates/models"
	"report-templates/repository"
	"report-templates/storage"
	"report-templates/terms"
)

type testEnv struct {
	repo    repository.TemplateRepository
	files   *storage.FileStore
	store   *TemplateStore
	service *TemplateService
	metrics *metrics.Metrics
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return newTestEnvWithRepo(t, nil)
}

// newTestEnvWithRepo erlaubt es, das Repository für Fehlerfälle zu umhüllen.
func newTestEnvWithRepo(t *testing.T, wrap func(repository.TemplateRepository) repository.TemplateRepository) *testEnv {
	t.Helper()
	logger := zaptest.NewLogger(t)

	db, err := repository.OpenSQLite(filepath.Join(t.TempDir(), "templates.db"))
	require.NoError(t, err)
	require.NoError(t, repository.AutoMigrate(db))

	concepts := repository.NewConceptRepository(db)
	require.NoError(t, concepts.Upsert(context.Background(), []models.ConceptReferenceTerm{
		{Source: "RADLEX", Code: "RID13166", Name: "clinical history"},
		{Source: "RADLEX", Code: "RID1301", Name: "lung"},
	}))

	files, err := storage.NewFileStore(filepath.Join(t.TempDir(), "mrrt_templates"), logger)
	require.NoError(t, err)

	repo := repository.NewTemplateRepository(db)
	if wrap != nil {
		repo = wrap(repo)
	}
	m := metrics.New(prometheus.NewRegistry())
	store := NewTemplateStore(repo, files, logger)
	return &testEnv{
		repo:    repo,
		files:   files,
		store:   store,
		metrics: m,
		service: NewTemplateService(store, terms.NewResolver(concepts, logger), m, logger),
	}
}

func readTemplate(t *testing.T, name string) string {
	t.Helper()
	b, err := os.ReadFile(filepath.Join("..", "parser", "testdata", name))
	require.NoError(t, err)
	return string(b)
}

func templateFiles(t *testing.T, env *testEnv) []storage.FileInfo {
	t.Helper()
	files, err := env.files.List(context.Background())
	require.NoError(t, err)
	return files
}

const charsetOnly = `<!DOCTYPE html><html><head><meta charset="UTF-8"></head><body><p>Findings</p></body></html>`

func withIdentifier(identifier, title string) string {
	return `<!DOCTYPE html><html><head><meta charset="UTF-8">` +
		`<meta name="dcterms.identifier" content="` + identifier + `">` +
		`<meta name="dcterms.title" content="` + title + `">` +
		`</head><body><p>` + title + `</p></body></html>`
}
