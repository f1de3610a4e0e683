package service

import (
	"context"
	"strings"
	"time"

	"github.com/alexanderramin/jobshop/internal/domain"
	"github.com/alexanderramin/jobshop/internal/repository"
	"github.com/google/uuid"
)

type shopService struct {
	operators repository.OperatorRepo
	machines  repository.MachineRepo
	observer  UseCaseObserver
}

func NewShopService(operators repository.OperatorRepo, machines repository.MachineRepo, observers ...UseCaseObserver) ShopService {
	return &shopService{
		operators: operators,
		machines:  machines,
		observer:  useCaseObserverOrNoop(observers),
	}
}

// CreateOperator registers an operator. A caller-supplied ID (badge number,
// short handle) is kept; otherwise a UUID is generated.
func (s *shopService) CreateOperator(ctx context.Context, o *domain.Operator) (err error) {
	startedAt := time.Now()
	defer func() {
		observeUseCase(ctx, s.observer, "create-operator", startedAt, map[string]any{"operator_id": o.ID}, err)
	}()

	o.Name = strings.TrimSpace(o.Name)
	o.ID = strings.TrimSpace(o.ID)
	if o.Name == "" {
		return domain.NewValidationError("name", "operator name is required")
	}
	if o.ID == "" {
		o.ID = uuid.New().String()
	}
	o.CreatedAt = time.Now().UTC()
	return s.operators.Create(ctx, o)
}

func (s *shopService) GetOperator(ctx context.Context, id string) (*domain.Operator, error) {
	return s.operators.GetByID(ctx, id)
}

func (s *shopService) ListOperators(ctx context.Context, includeInactive bool) ([]*domain.Operator, error) {
	return s.operators.List(ctx, includeInactive)
}

func (s *shopService) CreateMachine(ctx context.Context, m *domain.Machine) (err error) {
	startedAt := time.Now()
	defer func() {
		observeUseCase(ctx, s.observer, "create-machine", startedAt, map[string]any{"machine_id": m.ID}, err)
	}()

	m.Name = strings.TrimSpace(m.Name)
	m.Kind = strings.ToLower(strings.TrimSpace(m.Kind))
	m.ID = strings.TrimSpace(m.ID)
	if m.Name == "" {
		return domain.NewValidationError("name", "machine name is required")
	}
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	m.CreatedAt = time.Now().UTC()
	return s.machines.Create(ctx, m)
}

func (s *shopService) GetMachine(ctx context.Context, id string) (*domain.Machine, error) {
	return s.machines.GetByID(ctx, id)
}

func (s *shopService) ListMachines(ctx context.Context) ([]*domain.Machine, error) {
	return s.machines.List(ctx)
}
