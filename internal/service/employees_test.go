package service

import (
	"context"
	"testing"

	"employee_roster/internal/domain"
	"employee_roster/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func ptr[T any](v T) *T { return &v }

func newEmployeeService(t *testing.T) (*EmployeeService, *repository.MockEmployeeRepository) {
	t.Helper()
	repo := repository.NewMockEmployeeRepository()
	return NewEmployeeService(repo, zaptest.NewLogger(t)), repo
}

func TestEmployeeService_Create(t *testing.T) {
	svc, _ := newEmployeeService(t)

	bob, err := svc.Create(context.Background(), domain.NewEmployee{Name: "Bob", Age: 30, Subjects: []string{"Math"}})
	require.NoError(t, err)
	assert.NotEmpty(t, bob.ID)
	assert.False(t, bob.Flagged)
	assert.Nil(t, bob.Class)
	assert.Nil(t, bob.Attendance)

	odd, err := svc.Create(context.Background(), domain.NewEmployee{Name: "Odd", Age: -4, Attendance: ptr(250.0)})
	require.NoError(t, err, "numeric fields are not range checked")
	assert.Equal(t, -4, odd.Age)
}

func TestEmployeeService_CreateValidation(t *testing.T) {
	svc, repo := newEmployeeService(t)

	_, err := svc.Create(context.Background(), domain.NewEmployee{Age: 30})
	var fieldErr *domain.FieldError
	require.ErrorAs(t, err, &fieldErr)
	assert.Equal(t, "name", fieldErr.Field)

	_, err = svc.Create(context.Background(), domain.NewEmployee{Name: "Bob", Subjects: []string{"Math", ""}})
	require.ErrorAs(t, err, &fieldErr)
	assert.Equal(t, "subjects", fieldErr.Field)

	assert.Equal(t, 0, repo.Len())
}

func TestEmployeeService_UpdateOnlySuppliedFields(t *testing.T) {
	ctx := context.Background()
	svc, _ := newEmployeeService(t)

	original, err := svc.Create(ctx, domain.NewEmployee{
		Name:       "Bob",
		Age:        30,
		Class:      ptr("10A"),
		Subjects:   []string{"Math", "Physics"},
		Attendance: ptr(88.5),
	})
	require.NoError(t, err)

	flagged, err := svc.Update(ctx, original.ID, domain.EmployeePatch{Flagged: ptr(true)})
	require.NoError(t, err)

	assert.True(t, flagged.Flagged)
	assert.Equal(t, original.Name, flagged.Name)
	assert.Equal(t, original.Age, flagged.Age)
	assert.Equal(t, *original.Class, *flagged.Class)
	assert.Equal(t, original.Subjects, flagged.Subjects)
	assert.Equal(t, *original.Attendance, *flagged.Attendance)

	renamed, err := svc.Update(ctx, original.ID, domain.EmployeePatch{Name: ptr("Robert"), Subjects: &[]string{"Art"}})
	require.NoError(t, err)
	assert.Equal(t, "Robert", renamed.Name)
	assert.Equal(t, []string{"Art"}, []string(renamed.Subjects))
	assert.True(t, renamed.Flagged)
}

func TestEmployeeService_UpdateMissing(t *testing.T) {
	svc, _ := newEmployeeService(t)

	_, err := svc.Update(context.Background(), "0b4c9a4e-5d0f-4ad2-9d8e-2f7b9f0f4b11", domain.EmployeePatch{Flagged: ptr(true)})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.Update(context.Background(), "not-an-id", domain.EmployeePatch{Flagged: ptr(true)})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestEmployeeService_DeleteThenGet(t *testing.T) {
	ctx := context.Background()
	svc, _ := newEmployeeService(t)

	bob, err := svc.Create(ctx, domain.NewEmployee{Name: "Bob", Age: 30, Subjects: []string{"Math"}})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, bob.ID))
	_, err = svc.Get(ctx, bob.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, svc.Delete(ctx, bob.ID))
	require.NoError(t, svc.Delete(ctx, "garbage"))
}

func TestEmployeeService_List(t *testing.T) {
	ctx := context.Background()
	svc, _ := newEmployeeService(t)

	for _, name := range []string{"Ann", "Ben", "Cid"} {
		_, err := svc.Create(ctx, domain.NewEmployee{Name: name, Age: 20})
		require.NoError(t, err)
	}

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "Ann", list[0].Name)
	assert.Equal(t, "Cid", list[2].Name)
}
