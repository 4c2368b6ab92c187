package domain

import "strings"

type Role string

const (
	RoleCustomer Role = "Customer"
	RoleManager  Role = "Manager"
)

// ParseRole accepts the stored spelling in any letter case.
func ParseRole(s string) (Role, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "customer":
		return RoleCustomer, true
	case "manager":
		return RoleManager, true
	}
	return "", false
}

type User struct {
	Login        string
	PasswordHash string
	Phone        string
	FavItems     string
	Role         Role
}

func (u User) IsManager() bool {
	return u.Role == RoleManager
}
