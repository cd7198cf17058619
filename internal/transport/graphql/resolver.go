package graphql

import (
	"context"

	"employee_roster/internal/domain"
	"employee_roster/internal/service"

	"go.uber.org/zap"
)

type CredentialStore interface {
	Register(ctx context.Context, in service.RegisterInput) (*domain.User, error)
	Verify(ctx context.Context, username, password string) (*domain.User, error)
}

type TokenIssuer interface {
	Issue(user *domain.User) (string, error)
}

type EmployeeStore interface {
	List(ctx context.Context) ([]*domain.Employee, error)
	Get(ctx context.Context, id string) (*domain.Employee, error)
	Create(ctx context.Context, in domain.NewEmployee) (*domain.Employee, error)
	Update(ctx context.Context, id string, patch domain.EmployeePatch) (*domain.Employee, error)
	Delete(ctx context.Context, id string) error
}

type Options struct {
	// GenericLoginErrors reports unknown usernames and wrong passwords
	// with the same message.
	GenericLoginErrors bool
}

// Resolver is the root resolver for both Query and Mutation.
type Resolver struct {
	credentials CredentialStore
	tokens      TokenIssuer
	employees   EmployeeStore
	opts        Options
	log         *zap.Logger
}

func NewResolver(credentials CredentialStore, tokens TokenIssuer, employees EmployeeStore, opts Options, log *zap.Logger) *Resolver {
	return &Resolver{
		credentials: credentials,
		tokens:      tokens,
		employees:   employees,
		opts:        opts,
		log:         log,
	}
}
