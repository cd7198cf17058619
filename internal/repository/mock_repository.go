package repository

import (
	"context"
	"sync"
	"time"

	"employee_roster/internal/domain"

	"github.com/google/uuid"
)

// MockUserRepository is an in-memory UserRepository for tests.
type MockUserRepository struct {
	mu    sync.RWMutex
	users map[string]*domain.User
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{users: make(map[string]*domain.User)}
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == user.Username {
			return domain.ErrDuplicateIdentity
		}
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	now := time.Now()
	user.CreatedAt, user.UpdatedAt = now, now
	stored := *user
	m.users[user.ID] = &stored
	return nil
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if u.Username == username {
			found := *u
			return &found, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *MockUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	_, err := m.FindByUsername(ctx, username)
	if err == domain.ErrNotFound {
		return false, nil
	}
	return err == nil, err
}

// MockEmployeeRepository is an in-memory EmployeeRepository for tests.
type MockEmployeeRepository struct {
	mu        sync.RWMutex
	employees map[string]*domain.Employee
	order     []string
}

func NewMockEmployeeRepository() *MockEmployeeRepository {
	return &MockEmployeeRepository{employees: make(map[string]*domain.Employee)}
}

func (m *MockEmployeeRepository) Create(ctx context.Context, employee *domain.Employee) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if employee.ID == "" {
		employee.ID = uuid.NewString()
	}
	if employee.Subjects == nil {
		employee.Subjects = []string{}
	}
	now := time.Now()
	employee.CreatedAt, employee.UpdatedAt = now, now
	m.employees[employee.ID] = cloneEmployee(employee)
	m.order = append(m.order, employee.ID)
	return nil
}

func (m *MockEmployeeRepository) FindByID(ctx context.Context, id string) (*domain.Employee, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.employees[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return cloneEmployee(e), nil
}

func (m *MockEmployeeRepository) List(ctx context.Context) ([]*domain.Employee, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*domain.Employee, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, cloneEmployee(m.employees[id]))
	}
	return out, nil
}

func (m *MockEmployeeRepository) Update(ctx context.Context, id string, patch domain.EmployeePatch) (*domain.Employee, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.employees[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	updated := cloneEmployee(e)
	patch.Apply(updated)
	updated.UpdatedAt = time.Now()
	m.employees[id] = updated
	return cloneEmployee(updated), nil
}

func (m *MockEmployeeRepository) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.employees[id]; !ok {
		return nil
	}
	delete(m.employees, id)
	for i, existing := range m.order {
		if existing == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

// Len reports the number of stored employees.
func (m *MockEmployeeRepository) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.employees)
}

func cloneEmployee(e *domain.Employee) *domain.Employee {
	c := *e
	c.Subjects = append([]string{}, e.Subjects...)
	if e.Class != nil {
		class := *e.Class
		c.Class = &class
	}
	if e.Attendance != nil {
		attendance := *e.Attendance
		c.Attendance = &attendance
	}
	return &c
}
