package repository

import (
	"context"

	"employee_roster/internal/domain"

	"gorm.io/gorm"
)

type EmployeeRepository struct {
	db *gorm.DB
}

func NewEmployeeRepository(db *gorm.DB) *EmployeeRepository {
	return &EmployeeRepository{db: db}
}

func (r *EmployeeRepository) Create(ctx context.Context, employee *domain.Employee) error {
	return r.db.WithContext(ctx).Create(employee).Error
}

func (r *EmployeeRepository) FindByID(ctx context.Context, id string) (*domain.Employee, error) {
	var employee domain.Employee
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&employee).Error; err != nil {
		return nil, translate(err)
	}
	return &employee, nil
}

// List returns every employee in insertion order.
func (r *EmployeeRepository) List(ctx context.Context) ([]*domain.Employee, error) {
	var employees []*domain.Employee
	if err := r.db.WithContext(ctx).Order("created_at ASC, id ASC").Find(&employees).Error; err != nil {
		return nil, translate(err)
	}
	return employees, nil
}

// Update merges patch onto the stored record in one transaction.
func (r *EmployeeRepository) Update(ctx context.Context, id string, patch domain.EmployeePatch) (*domain.Employee, error) {
	var employee domain.Employee
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", id).First(&employee).Error; err != nil {
			return translate(err)
		}
		patch.Apply(&employee)
		return tx.Save(&employee).Error
	})
	if err != nil {
		return nil, err
	}
	return &employee, nil
}

// Delete removes the record. Deleting a missing id is not an error.
func (r *EmployeeRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Employee{}).Error
}
