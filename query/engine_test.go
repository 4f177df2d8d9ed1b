package query

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"report-templates/models"
)

type staticSource struct {
	templates []models.Template
	err       error
}

func (s staticSource) List(context.Context) ([]models.Template, error) {
	return s.templates, s.err
}

func dataset() staticSource {
	return staticSource{templates: []models.Template{
		{ID: 1, Title: "CT Cardiac Bypass Graft", Publisher: "IHE CAT Publisher", License: "General Public License", Creator: "creator1"},
		{ID: 2, Title: "CT Chest Pulmonary Embolism", Publisher: "IHE Cat", License: "Mozilla Public License", Creator: "creator2"},
		{ID: 3, Title: "MR Brain", Publisher: "Radreport", License: "MIT", Creator: "someone"},
	}}
}

func ids(templates []models.Template) []uint {
	out := []uint{}
	for _, t := range templates {
		out = append(out, t.ID)
	}
	return out
}

func TestFind(t *testing.T) {
	tests := []struct {
		name     string
		criteria *Criteria
		want     []uint
	}{
		{"empty criteria returns all", NewBuilder().Build(), []uint{1, 2, 3}},
		{"title substring", NewBuilder().WithTitle("CT").Build(), []uint{1, 2}},
		{"title no match", NewBuilder().WithTitle("invalid").Build(), []uint{}},
		{"publisher case insensitive", NewBuilder().WithPublisher("cat").Build(), []uint{1, 2}},
		{"publisher exact", NewBuilder().WithPublisher("IHE CAT Publisher").Build(), []uint{1}},
		{"license", NewBuilder().WithLicense("public").Build(), []uint{1, 2}},
		{"creator upper case", NewBuilder().WithCreator("CREATOR").Build(), []uint{1, 2}},
		{"creator exact", NewBuilder().WithCreator("creator1").Build(), []uint{1}},
		{"fields are ANDed", NewBuilder().WithCreator("creator").WithLicense("mozilla").Build(), []uint{2}},
		{"and without overlap", NewBuilder().WithTitle("MR").WithCreator("creator").Build(), []uint{}},
		{"set but empty matches all", NewBuilder().WithTitle("").Build(), []uint{1, 2, 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewEngine(dataset()).Find(context.Background(), tt.criteria)
			require.NoError(t, err)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestFindUnicodeFolding(t *testing.T) {
	src := staticSource{templates: []models.Template{{ID: 1, Creator: "Straße Klinik"}}}
	got, err := NewEngine(src).Find(context.Background(), NewBuilder().WithCreator("STRASSE").Build())
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestFindNormalizesCombiningMarks(t *testing.T) {
	src := staticSource{templates: []models.Template{{ID: 1, Title: "Radiologie Générale"}}}
	got, err := NewEngine(src).Find(context.Background(), NewBuilder().WithTitle("générale").Build())
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestFindPropagatesSourceError(t *testing.T) {
	boom := errors.New("db down")
	_, err := NewEngine(staticSource{err: boom}).Find(context.Background(), NewBuilder().Build())
	assert.ErrorIs(t, err, boom)
}

func TestBuilderProducesIndependentValues(t *testing.T) {
	b := NewBuilder().WithTitle("CT")
	first := b.Build()
	second := b.WithCreator("x").Build()

	_, ok := first.Creator()
	assert.False(t, ok)
	v, ok := second.Creator()
	assert.True(t, ok)
	assert.Equal(t, "x", v)

	title, ok := first.Title()
	assert.True(t, ok)
	assert.Equal(t, "CT", title)

	assert.True(t, NewBuilder().Build().IsEmpty())
	assert.False(t, first.IsEmpty())
	_, ok = NewBuilder().WithTitle("").Build().Title()
	assert.True(t, ok, "an empty string is still a set field")
}
