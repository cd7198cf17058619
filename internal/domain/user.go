package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Role string

const (
	ADMIN    Role = "admin"
	EMPLOYEE Role = "employee"
)

// User is an account in the credential store. Password holds the bcrypt hash.
type User struct {
	ID        string `gorm:"primaryKey;type:uuid"`
	Username  string `gorm:"uniqueIndex;not null"`
	Password  string `gorm:"not null"`
	Role      Role   `gorm:"type:varchar(32);not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// Claims are the identity fields carried by a session token.
type Claims struct {
	AccountID string
	Username  string
	Role      Role
}

func (u *User) Claims() Claims {
	return Claims{AccountID: u.ID, Username: u.Username, Role: u.Role}
}
