package graphql

import (
	"context"
	"fmt"

	"employee_roster/internal/domain"
	"employee_roster/internal/utils/access"

	gqlgo "github.com/graph-gophers/graphql-go"
)

type EmployeeResolver struct {
	e *domain.Employee
}

func (r *EmployeeResolver) ID() gqlgo.ID         { return gqlgo.ID(r.e.ID) }
func (r *EmployeeResolver) Name() string         { return r.e.Name }
func (r *EmployeeResolver) Age() int32           { return int32(r.e.Age) }
func (r *EmployeeResolver) Class() *string       { return r.e.Class }
func (r *EmployeeResolver) Attendance() *float64 { return r.e.Attendance }

func (r *EmployeeResolver) Subjects() []string {
	if r.e.Subjects == nil {
		return []string{}
	}
	return r.e.Subjects
}

func (r *EmployeeResolver) Flagged() *bool {
	flagged := r.e.Flagged
	return &flagged
}

func (r *Resolver) Employees(ctx context.Context) ([]*EmployeeResolver, error) {
	if err := access.Require(ctx, "employees"); err != nil {
		return nil, r.toResolverError(ctx, "employees", err)
	}
	employees, err := r.employees.List(ctx)
	if err != nil {
		return nil, r.toResolverError(ctx, "employees", err)
	}
	out := make([]*EmployeeResolver, len(employees))
	for i, e := range employees {
		out[i] = &EmployeeResolver{e: e}
	}
	return out, nil
}

type idArgs struct {
	ID gqlgo.ID
}

// Employee resolves to null for unknown ids.
func (r *Resolver) Employee(ctx context.Context, args idArgs) (*EmployeeResolver, error) {
	if err := access.Require(ctx, "employee"); err != nil {
		return nil, r.toResolverError(ctx, "employee", err)
	}
	e, err := r.employees.Get(ctx, string(args.ID))
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, r.toResolverError(ctx, "employee", err)
	}
	return &EmployeeResolver{e: e}, nil
}

type addEmployeeArgs struct {
	Name       string
	Age        int32
	Class      *string
	Subjects   []string
	Attendance *float64
	Flagged    *bool
}

func (r *Resolver) AddEmployee(ctx context.Context, args addEmployeeArgs) (*EmployeeResolver, error) {
	if err := access.Require(ctx, "addEmployee"); err != nil {
		return nil, r.toResolverError(ctx, "addEmployee", err)
	}
	e, err := r.employees.Create(ctx, domain.NewEmployee{
		Name:       args.Name,
		Age:        int(args.Age),
		Class:      args.Class,
		Subjects:   args.Subjects,
		Attendance: args.Attendance,
		Flagged:    args.Flagged,
	})
	if err != nil {
		return nil, r.toResolverError(ctx, "addEmployee", err)
	}
	return &EmployeeResolver{e: e}, nil
}

type updateEmployeeArgs struct {
	ID         gqlgo.ID
	Name       *string
	Age        *int32
	Class      *string
	Subjects   *[]string
	Attendance *float64
	Flagged    *bool
}

func (a updateEmployeeArgs) patch() domain.EmployeePatch {
	p := domain.EmployeePatch{
		Name:       a.Name,
		Class:      a.Class,
		Subjects:   a.Subjects,
		Attendance: a.Attendance,
		Flagged:    a.Flagged,
	}
	if a.Age != nil {
		age := int(*a.Age)
		p.Age = &age
	}
	return p
}

func (r *Resolver) UpdateEmployee(ctx context.Context, args updateEmployeeArgs) (*EmployeeResolver, error) {
	if err := access.Require(ctx, "updateEmployee"); err != nil {
		return nil, r.toResolverError(ctx, "updateEmployee", err)
	}
	e, err := r.employees.Update(ctx, string(args.ID), args.patch())
	if err != nil {
		return nil, r.toResolverError(ctx, "updateEmployee", err)
	}
	return &EmployeeResolver{e: e}, nil
}

func (r *Resolver) DeleteEmployee(ctx context.Context, args idArgs) (string, error) {
	if err := access.Require(ctx, "deleteEmployee"); err != nil {
		return "", r.toResolverError(ctx, "deleteEmployee", err)
	}
	if err := r.employees.Delete(ctx, string(args.ID)); err != nil {
		return "", r.toResolverError(ctx, "deleteEmployee", err)
	}
	return fmt.Sprintf("Employee %s deleted", args.ID), nil
}
