package graphql

import (
	"context"

	"employee_roster/internal/domain"
	"employee_roster/internal/service"
	"employee_roster/internal/utils/access"

	gqlgo "github.com/graph-gophers/graphql-go"
)

type UserResolver struct {
	user  *domain.User
	token string
}

func (u *UserResolver) ID() gqlgo.ID      { return gqlgo.ID(u.user.ID) }
func (u *UserResolver) Username() string { return u.user.Username }
func (u *UserResolver) Role() string     { return string(u.user.Role) }
func (u *UserResolver) Token() string    { return u.token }

type registerArgs struct {
	Username string
	Password string
	Role     string
}

func (r *Resolver) Register(ctx context.Context, args registerArgs) (*UserResolver, error) {
	if err := access.Require(ctx, "register"); err != nil {
		return nil, r.toResolverError(ctx, "register", err)
	}

	user, err := r.credentials.Register(ctx, service.RegisterInput{
		Username: args.Username,
		Password: args.Password,
		Role:     args.Role,
	})
	if err != nil {
		return nil, r.toResolverError(ctx, "register", err)
	}
	return r.session(ctx, "register", user)
}

type loginArgs struct {
	Username string
	Password string
}

func (r *Resolver) Login(ctx context.Context, args loginArgs) (*UserResolver, error) {
	if err := access.Require(ctx, "login"); err != nil {
		return nil, r.toResolverError(ctx, "login", err)
	}

	user, err := r.credentials.Verify(ctx, args.Username, args.Password)
	if err != nil {
		if loginErr := r.loginError(err); loginErr != nil {
			return nil, loginErr
		}
		return nil, r.toResolverError(ctx, "login", err)
	}
	return r.session(ctx, "login", user)
}

func (r *Resolver) session(ctx context.Context, operation string, user *domain.User) (*UserResolver, error) {
	token, err := r.tokens.Issue(user)
	if err != nil {
		return nil, r.toResolverError(ctx, operation, err)
	}
	return &UserResolver{user: user, token: token}, nil
}
