package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/jobshop/internal/domain"
	"github.com/alexanderramin/jobshop/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJobRepo_CreateAndGetByID(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()
	repo := NewSQLiteJobRepo(database)

	due := time.Date(2025, 7, 1, 17, 0, 0, 0, time.UTC)
	job := testutil.NewTestJob("Business cards", testutil.WithJobNumber("BC-42"), testutil.WithJobDueDate(due))
	require.NoError(t, repo.Create(ctx, job))

	fetched, err := repo.GetByID(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, "BC-42", fetched.Number)
	assert.Equal(t, "Business cards", fetched.Title)
	assert.Equal(t, "Acme Print", fetched.Customer)
	assert.Equal(t, 500, fetched.Quantity)
	assert.Equal(t, domain.JobPending, fetched.Status)
	assert.Nil(t, fetched.AssignedOperatorID)
	assert.Nil(t, fetched.CompletedAt)
	require.NotNil(t, fetched.DueDate)
	assert.True(t, due.Equal(*fetched.DueDate))
	assert.True(t, job.CreatedAt.Equal(fetched.CreatedAt))
}

func TestJobRepo_GetByID_NotFound(t *testing.T) {
	repo := NewSQLiteJobRepo(testutil.NewTestDB(t))

	_, err := repo.GetByID(context.Background(), "nonexistent")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestJobRepo_GetByNumber(t *testing.T) {
	repo := NewSQLiteJobRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	job := testutil.NewTestJob("Posters", testutil.WithJobNumber("PO-7"))
	require.NoError(t, repo.Create(ctx, job))

	fetched, err := repo.GetByNumber(ctx, "PO-7")
	require.NoError(t, err)
	assert.Equal(t, job.ID, fetched.ID)

	_, err = repo.GetByNumber(ctx, "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestJobRepo_DuplicateNumberIsConflict(t *testing.T) {
	repo := NewSQLiteJobRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, testutil.NewTestJob("A", testutil.WithJobNumber("JS-1"))))
	err := repo.Create(ctx, testutil.NewTestJob("B", testutil.WithJobNumber("JS-1")))
	assert.ErrorIs(t, err, domain.ErrConflict)

	// Jobs without a number never collide.
	require.NoError(t, repo.Create(ctx, testutil.NewTestJob("C", testutil.WithJobNumber(""))))
	require.NoError(t, repo.Create(ctx, testutil.NewTestJob("D", testutil.WithJobNumber(""))))
}

func TestJobRepo_UnknownOperatorIsNotFound(t *testing.T) {
	repo := NewSQLiteJobRepo(testutil.NewTestDB(t))

	err := repo.Create(context.Background(), testutil.NewTestJob("A", testutil.WithAssignedOperator("ghost")))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestJobRepo_List(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()
	repo := NewSQLiteJobRepo(database)
	ops := NewSQLiteOperatorRepo(database)

	op := testutil.NewTestOperator("Ana")
	require.NoError(t, ops.Create(ctx, op))

	pending := testutil.NewTestJob("Pending", testutil.WithAssignedOperator(op.ID))
	running := testutil.NewTestJob("Running", testutil.WithJobStatus(domain.JobInProgress))
	done := testutil.NewTestJob("Done", testutil.WithJobStatus(domain.JobCompleted), testutil.WithAssignedOperator(op.ID))
	for _, j := range []*domain.Job{pending, running, done} {
		require.NoError(t, repo.Create(ctx, j))
	}

	open, err := repo.List(ctx, JobFilter{})
	require.NoError(t, err)
	assert.Len(t, open, 2)

	all, err := repo.List(ctx, JobFilter{IncludeClosed: true})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	completed, err := repo.List(ctx, JobFilter{Status: domain.JobCompleted})
	require.NoError(t, err)
	require.Len(t, completed, 1)
	assert.Equal(t, done.ID, completed[0].ID)

	mine, err := repo.List(ctx, JobFilter{OperatorID: op.ID, IncludeClosed: true})
	require.NoError(t, err)
	assert.Len(t, mine, 2)
}

func TestJobRepo_ListForOperator(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()
	jobs := NewSQLiteJobRepo(database)
	ops := NewSQLiteOperatorRepo(database)
	entries := NewSQLiteTimeLogRepo(database)

	ana := testutil.NewTestOperator("Ana")
	ben := testutil.NewTestOperator("Ben")
	require.NoError(t, ops.Create(ctx, ana))
	require.NoError(t, ops.Create(ctx, ben))

	assigned := testutil.NewTestJob("Assigned", testutil.WithAssignedOperator(ana.ID))
	worked := testutil.NewTestJob("Worked", testutil.WithAssignedOperator(ben.ID), testutil.WithJobStatus(domain.JobCompleted))
	other := testutil.NewTestJob("Other", testutil.WithAssignedOperator(ben.ID))
	for _, j := range []*domain.Job{assigned, worked, other} {
		require.NoError(t, jobs.Create(ctx, j))
	}
	require.NoError(t, entries.Create(ctx, testutil.NewTestEntry(worked.ID, ana.ID,
		testutil.WithEntryEndedAt(time.Now().UTC().Truncate(time.Second)))))

	got, err := jobs.ListForOperator(ctx, ana.ID, true)
	require.NoError(t, err)
	ids := []string{}
	for _, j := range got {
		ids = append(ids, j.ID)
	}
	assert.ElementsMatch(t, []string{assigned.ID, worked.ID}, ids)

	openOnly, err := jobs.ListForOperator(ctx, ana.ID, false)
	require.NoError(t, err)
	require.Len(t, openOnly, 1)
	assert.Equal(t, assigned.ID, openOnly[0].ID)
}

func TestJobRepo_Update(t *testing.T) {
	repo := NewSQLiteJobRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	job := testutil.NewTestJob("Flyers")
	require.NoError(t, repo.Create(ctx, job))

	now := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, job.Complete(now))
	require.NoError(t, repo.Update(ctx, job))

	fetched, err := repo.GetByID(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.JobCompleted, fetched.Status)
	require.NotNil(t, fetched.CompletedAt)
	assert.True(t, now.Equal(*fetched.CompletedAt))

	missing := testutil.NewTestJob("Missing")
	assert.ErrorIs(t, repo.Update(ctx, missing), ErrNotFound)
}
