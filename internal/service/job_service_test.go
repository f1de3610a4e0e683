package service

import (
	"context"
	"testing"

	"github.com/alexanderramin/jobshop/internal/domain"
	"github.com/alexanderramin/jobshop/internal/events"
	"github.com/alexanderramin/jobshop/internal/repository"
	"github.com/alexanderramin/jobshop/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupJobService(t *testing.T) (JobService, ShopService, *storeFixture) {
	t.Helper()
	f := newStoreFixture(t)
	jobs := NewJobService(repository.NewSQLiteJobRepo(f.db), testutil.NewTestUoW(f.db), f.pub, f.observer)
	shop := NewShopService(repository.NewSQLiteOperatorRepo(f.db), repository.NewSQLiteMachineRepo(f.db))
	return jobs, shop, f
}

func TestJobService_Create(t *testing.T) {
	svc, _, _ := setupJobService(t)
	ctx := context.Background()

	job := &domain.Job{Number: " js-1042 ", Title: "  Wedding invitations ", Quantity: 150}
	require.NoError(t, svc.Create(ctx, job))
	assert.NotEmpty(t, job.ID)
	assert.Equal(t, "JS-1042", job.Number)
	assert.Equal(t, "Wedding invitations", job.Title)
	assert.Equal(t, domain.JobPending, job.Status)

	fetched, err := svc.GetByID(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, 150, fetched.Quantity)
}

func TestJobService_CreateValidation(t *testing.T) {
	svc, _, _ := setupJobService(t)
	ctx := context.Background()

	cases := []*domain.Job{
		{Title: ""},
		{Title: "Bad number", Number: "1042"},
		{Title: "Negative", Quantity: -1},
		{Title: "Bad status", Status: domain.JobStatus("shipped")},
	}
	for _, j := range cases {
		assert.ErrorIs(t, svc.Create(ctx, j), domain.ErrValidation, "job=%+v", j)
	}
}

func TestJobService_Resolve(t *testing.T) {
	svc, _, f := setupJobService(t)
	ctx := context.Background()

	byID, err := svc.Resolve(ctx, f.job.ID)
	require.NoError(t, err)
	assert.Equal(t, f.job.ID, byID.ID)

	byNumber, err := svc.Resolve(ctx, f.job.Number)
	require.NoError(t, err)
	assert.Equal(t, f.job.ID, byNumber.ID)

	_, err = svc.Resolve(ctx, "ZZ-999999")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.Resolve(ctx, " ")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestJobService_List(t *testing.T) {
	svc, _, _ := setupJobService(t)
	ctx := context.Background()

	require.NoError(t, svc.Create(ctx, &domain.Job{Title: "Second"}))
	all, err := svc.List(ctx, repository.JobFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, err = svc.List(ctx, repository.JobFilter{Status: "shipped"})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestJobService_Assign(t *testing.T) {
	svc, shop, f := setupJobService(t)
	ctx := context.Background()

	machine := &domain.Machine{Name: "Polar 78", Kind: "Guillotine"}
	require.NoError(t, shop.CreateMachine(ctx, machine))

	job, err := svc.Assign(ctx, f.job.ID, f.operator.ID, &machine.ID)
	require.NoError(t, err)
	require.NotNil(t, job.AssignedOperatorID)
	assert.Equal(t, f.operator.ID, *job.AssignedOperatorID)
	require.NotNil(t, job.MachineID)
	assert.Equal(t, machine.ID, *job.MachineID)

	_, err = svc.Assign(ctx, f.job.ID, "ghost", nil)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.Assign(ctx, f.job.ID, "", nil)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestJobService_AssignClosedJob(t *testing.T) {
	svc, _, f := setupJobService(t)
	ctx := context.Background()

	_, err := svc.Cancel(ctx, f.job.ID)
	require.NoError(t, err)
	_, err = svc.Assign(ctx, f.job.ID, f.operator.ID, nil)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestJobService_Cancel(t *testing.T) {
	svc, _, f := setupJobService(t)
	ctx := context.Background()

	job, err := svc.Cancel(ctx, f.job.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.JobCancelled, job.Status)
	assert.Equal(t, []events.Type{events.JobStatusChanged}, f.pub.Types())

	_, err = svc.Cancel(ctx, f.job.ID)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestJobService_CancelWhileClockedIn(t *testing.T) {
	svc, _, f := setupJobService(t)
	ctx := context.Background()

	_, err := f.entries.CreateEntry(ctx, f.operator.ID, f.job.ID, nil, "")
	require.NoError(t, err)

	_, err = svc.Cancel(ctx, f.job.ID)
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Equal(t, domain.JobInProgress, f.reloadJob(t).Status)
}

func TestShopService_Operators(t *testing.T) {
	_, shop, f := setupJobService(t)
	ctx := context.Background()

	op := &domain.Operator{ID: "ben", Name: " Ben ", Active: true}
	require.NoError(t, shop.CreateOperator(ctx, op))
	assert.Equal(t, "Ben", op.Name)

	fetched, err := shop.GetOperator(ctx, "ben")
	require.NoError(t, err)
	assert.Equal(t, "Ben", fetched.Name)

	generated := &domain.Operator{Name: "Cleo", Active: true}
	require.NoError(t, shop.CreateOperator(ctx, generated))
	assert.NotEmpty(t, generated.ID)

	ops, err := shop.ListOperators(ctx, false)
	require.NoError(t, err)
	assert.Len(t, ops, 3, "fixture operator plus two new ones")
	assert.Equal(t, f.operator.Name, ops[0].Name)

	assert.ErrorIs(t, shop.CreateOperator(ctx, &domain.Operator{Name: ""}), domain.ErrValidation)
	assert.ErrorIs(t, shop.CreateOperator(ctx, &domain.Operator{ID: "ben", Name: "Other Ben"}), domain.ErrConflict)
}

func TestShopService_Machines(t *testing.T) {
	_, shop, _ := setupJobService(t)
	ctx := context.Background()

	m := &domain.Machine{Name: "Heidelberg SM52", Kind: " Offset "}
	require.NoError(t, shop.CreateMachine(ctx, m))
	assert.Equal(t, "offset", m.Kind)

	fetched, err := shop.GetMachine(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, "Heidelberg SM52", fetched.Name)

	list, err := shop.ListMachines(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	assert.ErrorIs(t, shop.CreateMachine(ctx, &domain.Machine{}), domain.ErrValidation)
}
