// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

// Role represents a user's permission level in the system.
type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleUser  Role = "USER"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// UserStatus is the account state of a user.
type UserStatus string

const (
	StatusActive    UserStatus = "Active"
	StatusInvited   UserStatus = "Invited"
	StatusSuspended UserStatus = "Suspended"
)

// Valid reports whether s is one of the known statuses.
func (s UserStatus) Valid() bool {
	switch s {
	case StatusActive, StatusInvited, StatusSuspended:
		return true
	}
	return false
}

// User is a records-office account. PasswordHash is persisted in the
// snapshot but never sent to API clients; use Public for that.
type User struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	Role         Role       `json:"role"`
	Avatar       string     `json:"avatar,omitempty"`
	Status       UserStatus `json:"status"`
	JoinDate     string     `json:"joinDate"`
	PasswordHash string     `json:"passwordHash,omitempty"`
}

// IsAdmin returns true if the user has the admin role.
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Public returns a copy of the user with credentials stripped.
func (u User) Public() User {
	u.PasswordHash = ""
	return u
}
