package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Employee is a roster record. Numeric fields are not range checked.
type Employee struct {
	ID         string                      `gorm:"primaryKey;type:uuid"`
	Name       string                      `gorm:"not null"`
	Age        int                         `gorm:"not null"`
	Class      *string
	Subjects   datatypes.JSONSlice[string] `gorm:"not null"`
	Attendance *float64
	Flagged    bool `gorm:"not null;default:false"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (e *Employee) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Subjects == nil {
		e.Subjects = datatypes.JSONSlice[string]{}
	}
	return nil
}

// NewEmployee carries the fields of an employee being created.
type NewEmployee struct {
	Name       string   `validate:"required"`
	Age        int
	Class      *string
	Subjects   []string `validate:"dive,required"`
	Attendance *float64
	Flagged    *bool
}

func (n NewEmployee) Employee() *Employee {
	subjects := make([]string, len(n.Subjects))
	copy(subjects, n.Subjects)
	e := &Employee{
		Name:       n.Name,
		Age:        n.Age,
		Class:      n.Class,
		Subjects:   subjects,
		Attendance: n.Attendance,
	}
	if n.Flagged != nil {
		e.Flagged = *n.Flagged
	}
	return e
}

// EmployeePatch is a partial update. Nil fields leave the stored value alone.
type EmployeePatch struct {
	Name       *string   `validate:"omitempty,min=1"`
	Age        *int
	Class      *string
	Subjects   *[]string `validate:"omitempty,dive,required"`
	Attendance *float64
	Flagged    *bool
}

func (p EmployeePatch) Apply(e *Employee) {
	if p.Name != nil {
		e.Name = *p.Name
	}
	if p.Age != nil {
		e.Age = *p.Age
	}
	if p.Class != nil {
		class := *p.Class
		e.Class = &class
	}
	if p.Subjects != nil {
		subjects := make([]string, len(*p.Subjects))
		copy(subjects, *p.Subjects)
		e.Subjects = subjects
	}
	if p.Attendance != nil {
		attendance := *p.Attendance
		e.Attendance = &attendance
	}
	if p.Flagged != nil {
		e.Flagged = *p.Flagged
	}
}
