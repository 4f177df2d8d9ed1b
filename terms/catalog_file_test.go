package terms

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"report-templates/models"
)

type recordingSeeder struct {
	got []models.ConceptReferenceTerm
}

func (r *recordingSeeder) Upsert(_ context.Context, concepts []models.ConceptReferenceTerm) error {
	r.got = append(r.got, concepts...)
	return nil
}

func TestSeedCatalog(t *testing.T) {
	seeder := &recordingSeeder{}
	n, err := SeedCatalog(context.Background(), seeder, "testdata/catalog.yaml")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	require.Len(t, seeder.got, 2)
	assert.Equal(t, models.ConceptReferenceTerm{Source: "RADLEX", Code: "RID1301", Name: "lung"}, seeder.got[1])
}

func TestLoadCatalogFileRejectsIncompleteEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte("concepts:\n  - code: RID1\n"), 0o644))

	_, err := LoadCatalogFile(path)
	assert.ErrorContains(t, err, "needs source and code")

	_, err = LoadCatalogFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
