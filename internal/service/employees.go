package service

import (
	"context"
	"errors"
	"fmt"

	"employee_roster/internal/domain"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// EmployeeService is the record store for roster entries.
type EmployeeService struct {
	repo     EmployeeRepository
	validate *validator.Validate
	log      *zap.Logger
}

func NewEmployeeService(repo EmployeeRepository, log *zap.Logger) *EmployeeService {
	return &EmployeeService{repo: repo, validate: newValidator(), log: log}
}

func (s *EmployeeService) List(ctx context.Context) ([]*domain.Employee, error) {
	employees, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	return employees, nil
}

// Get fails with ErrNotFound for unknown or malformed ids.
func (s *EmployeeService) Get(ctx context.Context, id string) (*domain.Employee, error) {
	if !validID(id) {
		return nil, domain.ErrNotFound
	}
	employee, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get employee: %w", err)
	}
	return employee, nil
}

func (s *EmployeeService) Create(ctx context.Context, in domain.NewEmployee) (*domain.Employee, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, validationError(err)
	}
	employee := in.Employee()
	if err := s.repo.Create(ctx, employee); err != nil {
		return nil, fmt.Errorf("failed to create employee: %w", err)
	}
	s.log.Info("Employee created", zap.String("employee_id", employee.ID))
	return employee, nil
}

// Update changes only the fields set in patch.
func (s *EmployeeService) Update(ctx context.Context, id string, patch domain.EmployeePatch) (*domain.Employee, error) {
	if err := s.validate.Struct(patch); err != nil {
		return nil, validationError(err)
	}
	if !validID(id) {
		return nil, domain.ErrNotFound
	}
	employee, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update employee: %w", err)
	}
	s.log.Info("Employee updated", zap.String("employee_id", id))
	return employee, nil
}

// Delete removes the record; an unknown id is a silent no-op.
func (s *EmployeeService) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return nil
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete employee: %w", err)
	}
	s.log.Info("Employee deleted", zap.String("employee_id", id))
	return nil
}

func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
