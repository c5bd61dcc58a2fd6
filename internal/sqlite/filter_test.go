package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rpggio/tabula/internal/domain/field"
	"github.com/rpggio/tabula/internal/domain/filter"
	"github.com/rpggio/tabula/internal/repository"
)

func TestFilterRepositoryRoundTrip(t *testing.T) {
	db := NewTestDB(t)
	repo := NewFilterRepository(db)
	ctx := context.Background()

	titleField := field.New("Title", field.RichText)
	flt := filter.New(titleField, int64(field.TextContains), "plan")
	require.NoError(t, repo.Create(ctx, "view-1", flt))

	got, err := repo.Get(ctx, "view-1", flt.ID)
	require.NoError(t, err)
	require.Equal(t, flt.FieldID, got.FieldID)
	require.Equal(t, field.RichText, got.FieldType)
	require.Equal(t, int64(field.TextContains), got.Condition)
	require.Equal(t, "plan", got.Content)
}

func TestFilterRepositoryScopedToView(t *testing.T) {
	db := NewTestDB(t)
	repo := NewFilterRepository(db)
	ctx := context.Background()

	titleField := field.New("Title", field.RichText)
	flt := filter.New(titleField, int64(field.TextIsNotEmpty), "")
	require.NoError(t, repo.Create(ctx, "view-1", flt))

	_, err := repo.Get(ctx, "view-2", flt.ID)
	require.ErrorIs(t, err, repository.ErrNotFound)

	filters, err := repo.ListByView(ctx, "view-2")
	require.NoError(t, err)
	require.Empty(t, filters)
}

func TestFilterRepositoryUpdateAndDelete(t *testing.T) {
	db := NewTestDB(t)
	repo := NewFilterRepository(db)
	ctx := context.Background()

	titleField := field.New("Title", field.RichText)
	flt := filter.New(titleField, int64(field.TextIs), "a")
	require.NoError(t, repo.Create(ctx, "view-1", flt))

	flt.Condition = int64(field.TextIsNot)
	flt.Content = "b"
	require.NoError(t, repo.Update(ctx, "view-1", flt))

	got, err := repo.Get(ctx, "view-1", flt.ID)
	require.NoError(t, err)
	require.Equal(t, int64(field.TextIsNot), got.Condition)
	require.Equal(t, "b", got.Content)

	require.NoError(t, repo.Delete(ctx, "view-1", flt.ID))
	require.ErrorIs(t, repo.Delete(ctx, "view-1", flt.ID), repository.ErrNotFound)
}
