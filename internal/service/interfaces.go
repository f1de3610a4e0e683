package service

import (
	"context"

	"github.com/alexanderramin/jobshop/internal/domain"
	"github.com/alexanderramin/jobshop/internal/repository"
)

type JobService interface {
	Create(ctx context.Context, j *domain.Job) error
	GetByID(ctx context.Context, id string) (*domain.Job, error)
	// Resolve looks a job up by ID, then by job sheet number.
	Resolve(ctx context.Context, ref string) (*domain.Job, error)
	List(ctx context.Context, filter repository.JobFilter) ([]*domain.Job, error)
	Assign(ctx context.Context, jobID, operatorID string, machineID *string) (*domain.Job, error)
	Cancel(ctx context.Context, jobID string) (*domain.Job, error)
}

type ShopService interface {
	CreateOperator(ctx context.Context, o *domain.Operator) error
	GetOperator(ctx context.Context, id string) (*domain.Operator, error)
	ListOperators(ctx context.Context, includeInactive bool) ([]*domain.Operator, error)
	CreateMachine(ctx context.Context, m *domain.Machine) error
	GetMachine(ctx context.Context, id string) (*domain.Machine, error)
	ListMachines(ctx context.Context) ([]*domain.Machine, error)
}
