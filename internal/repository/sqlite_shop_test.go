package repository

import (
	"context"
	"testing"

	"github.com/alexanderramin/jobshop/internal/domain"
	"github.com/alexanderramin/jobshop/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOperatorRepo_CreateGetList(t *testing.T) {
	repo := NewSQLiteOperatorRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	ana := testutil.NewTestOperator("Ana")
	zed := testutil.NewTestOperator("Zed")
	zed.Active = false
	require.NoError(t, repo.Create(ctx, zed))
	require.NoError(t, repo.Create(ctx, ana))

	fetched, err := repo.GetByID(ctx, ana.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ana", fetched.Name)
	assert.True(t, fetched.Active)

	active, err := repo.List(ctx, false)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, ana.ID, active[0].ID)

	all, err := repo.List(ctx, true)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Ana", all[0].Name, "ordered by name")

	_, err = repo.GetByID(ctx, "ghost")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, repo.Create(ctx, ana), domain.ErrConflict)
}

func TestMachineRepo_CreateGetList(t *testing.T) {
	repo := NewSQLiteMachineRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	press := testutil.NewTestMachine("Heidelberg SM52", "offset")
	cutter := testutil.NewTestMachine("Polar 78", "guillotine")
	require.NoError(t, repo.Create(ctx, press))
	require.NoError(t, repo.Create(ctx, cutter))

	fetched, err := repo.GetByID(ctx, press.ID)
	require.NoError(t, err)
	assert.Equal(t, "offset", fetched.Kind)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Heidelberg SM52", all[0].Name)

	_, err = repo.GetByID(ctx, "ghost")
	assert.ErrorIs(t, err, ErrNotFound)
}
