package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rpggio/tabula/internal/domain/field"
	"github.com/rpggio/tabula/internal/repository"
)

func TestFieldRepositoryRoundTrip(t *testing.T) {
	db := NewTestDB(t)
	repo := NewFieldRepository(db)
	ctx := context.Background()

	f := field.New("Status", field.SingleSelect)
	opt := field.NewSelectOption("Todo")
	require.NoError(t, field.EncodeTypeOption(f, field.SelectTypeOption{Options: []field.SelectOption{opt}}))
	require.NoError(t, repo.Create(ctx, f))

	got, err := repo.Get(ctx, f.ID)
	require.NoError(t, err)
	require.Equal(t, f.Name, got.Name)
	require.Equal(t, field.SingleSelect, got.FieldType)

	var typeOption field.SelectTypeOption
	field.DecodeTypeOption(got, &typeOption)
	require.Len(t, typeOption.Options, 1)
	require.Equal(t, opt.ID, typeOption.Options[0].ID)
}

func TestFieldRepositoryUpdateRetype(t *testing.T) {
	db := NewTestDB(t)
	repo := NewFieldRepository(db)
	ctx := context.Background()

	f := field.New("Amount", field.Number)
	require.NoError(t, repo.Create(ctx, f))

	f.FieldType = field.RichText
	f.TypeOptionData = nil
	require.NoError(t, repo.Update(ctx, f))

	got, err := repo.Get(ctx, f.ID)
	require.NoError(t, err)
	require.Equal(t, field.RichText, got.FieldType)
	require.Empty(t, got.TypeOptionData)
}

func TestFieldRepositoryListOrder(t *testing.T) {
	db := NewTestDB(t)
	repo := NewFieldRepository(db)
	ctx := context.Background()

	second := field.New("B", field.RichText)
	second.Position = 1
	first := field.New("A", field.RichText)
	first.Position = 0
	require.NoError(t, repo.Create(ctx, second))
	require.NoError(t, repo.Create(ctx, first))

	fields, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, fields, 2)
	require.Equal(t, "A", fields[0].Name)
	require.Equal(t, "B", fields[1].Name)
}

func TestFieldRepositoryNotFound(t *testing.T) {
	db := NewTestDB(t)
	repo := NewFieldRepository(db)
	ctx := context.Background()

	_, err := repo.Get(ctx, "missing")
	require.ErrorIs(t, err, repository.ErrNotFound)
	require.ErrorIs(t, repo.Delete(ctx, "missing"), repository.ErrNotFound)
}
