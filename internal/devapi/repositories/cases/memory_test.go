package cases

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/medcasegen/internal/common"
	"github.com/dmitrijs2005/medcasegen/internal/devapi/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleCase(source string) *models.ClinicalCase {
	return &models.ClinicalCase{
		SourceID: source,
		Title:    "Douleur thoracique",
		Age:      54,
		Sexe:     "homme",
		Symptoms: []models.Symptom{{Nom: "douleur thoracique", Localisation: "rétrosternale"}},
		History:  []models.HistoryEntry{{Type: models.HistoryMedical, Description: "HTA"}},
	}
}

func TestMemoryRepository_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	created, err := repo.Create(ctx, sampleCase("src-1"))
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	assert.Equal(t, models.CaseNotApproved, created.Status)
	assert.False(t, created.CreatedAt.IsZero())

	got, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)

	_, err = repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestMemoryRepository_DuplicateSource(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	_, err := repo.Create(ctx, sampleCase("src-1"))
	require.NoError(t, err)
	_, err = repo.Create(ctx, sampleCase("src-1"))
	assert.ErrorIs(t, err, common.ErrorAlreadyExists)
}

func TestMemoryRepository_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	created, err := repo.Create(ctx, sampleCase("src-1"))
	require.NoError(t, err)
	created.Symptoms[0].Nom = "changed"
	created.Title = "changed"

	got, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "douleur thoracique", got.Symptoms[0].Nom)
	assert.Equal(t, "Douleur thoracique", got.Title)
}

func TestMemoryRepository_ListAndSetStatus(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	a, err := repo.Create(ctx, sampleCase("a"))
	require.NoError(t, err)
	b, err := repo.Create(ctx, sampleCase("b"))
	require.NoError(t, err)

	require.NoError(t, repo.SetStatus(ctx, b.ID, models.CaseApproved, "admin-1"))

	all, err := repo.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, a.ID, all[0].ID)
	assert.Equal(t, b.ID, all[1].ID)

	approved, err := repo.List(ctx, models.CaseApproved)
	require.NoError(t, err)
	require.Len(t, approved, 1)
	assert.Equal(t, b.ID, approved[0].ID)
	assert.Equal(t, "admin-1", approved[0].ValidatedBy)

	assert.ErrorIs(t, repo.SetStatus(ctx, "missing", models.CaseApproved, ""), common.ErrorNotFound)
}
