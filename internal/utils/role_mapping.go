package utils

import (
	"strings"

	"employee_roster/internal/domain"
)

// ParseRole maps an API role string onto a domain role.
func ParseRole(role string) (domain.Role, bool) {
	switch domain.Role(strings.ToLower(strings.TrimSpace(role))) {
	case domain.ADMIN:
		return domain.ADMIN, true
	case domain.EMPLOYEE:
		return domain.EMPLOYEE, true
	default:
		return "", false
	}
}
