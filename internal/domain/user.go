package domain

import (
	"strings"
	"time"

	"github.com/DRSN-tech/market-backend/pkg/e"
)

// Role: роль пользователя в справочнике ролей.
type Role string

const (
	RoleUser   Role = "user"
	RoleVendor Role = "vendor"
	RoleAdmin  Role = "admin"
)

func ToRole(s string) (Role, error) {
	switch Role(s) {
	case RoleUser, RoleVendor, RoleAdmin:
		return Role(s), nil
	default:
		return "", e.ErrInvalidRole
	}
}

// User: запись справочника ролей.
type User struct {
	Email     string
	Name      string
	Role      Role
	CreatedAt time.Time
	UpdatedAt *time.Time
}

// Identity: проверенная личность вызывающего из токена identity-провайдера.
type Identity struct {
	UID   string
	Email string
	Name  string
}

// NormalizeEmail приводит email к каноническому виду для сравнения и хранения.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
