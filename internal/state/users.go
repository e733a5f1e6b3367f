// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package state

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"slices"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"earsip/internal/apperr"
	"earsip/internal/models"
)

// ErrInvalidCredentials is returned by Authenticate for an unknown email or
// a wrong password.
var ErrInvalidCredentials = errors.New("invalid email or password")

// ErrSuspended is returned by Authenticate for a suspended account.
var ErrSuspended = errors.New("account suspended")

// errLastAdmin is the message shown when the last administrator would be
// removed or demoted.
const errLastAdmin = "Tidak dapat menghapus Administrator terakhir."

// UserInput carries the editable fields of a user. An empty Password
// leaves the stored hash unchanged on update.
type UserInput struct {
	Name     string            `json:"name"`
	Email    string            `json:"email"`
	Role     models.Role       `json:"role"`
	Status   models.UserStatus `json:"status"`
	Avatar   string            `json:"avatar"`
	Password string            `json:"password"`
}

// Users returns every user without password hashes, newest first.
func (a *App) Users() []models.User {
	a.mu.RLock()
	defer a.mu.RUnlock()
	out := make([]models.User, len(a.snap.users))
	for i, u := range a.snap.users {
		out[i] = u.Public()
	}
	return out
}

// User returns one user without the password hash.
func (a *App) User(id string) (models.User, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	i := userIndex(a.snap.users, id)
	if i < 0 {
		return models.User{}, apperr.NotFound("user", id)
	}
	return a.snap.users[i].Public(), nil
}

// AddUser invites a new user. Invited users start with status Invited and
// cannot sign in until a password is set.
func (a *App) AddUser(ctx context.Context, actor *Actor, in UserInput) (models.User, error) {
	u, err := newUser(in)
	if err != nil {
		return models.User{}, err
	}
	u.Status = models.StatusInvited

	err = a.update(ctx, func(t *tx) error {
		return t.insertUser(actor, &u, models.ActionUserAdd, "Undang pengguna baru: "+u.Email)
	})
	if err != nil {
		return models.User{}, err
	}
	return u.Public(), nil
}

// Register creates an active account with role USER.
func (a *App) Register(ctx context.Context, name, email, password string) (models.User, error) {
	if len(password) < 6 {
		return models.User{}, apperr.Validation("password", "must be at least 6 characters")
	}
	u, err := newUser(UserInput{Name: name, Email: email, Role: models.RoleUser, Password: password})
	if err != nil {
		return models.User{}, err
	}
	u.Status = models.StatusActive

	err = a.update(ctx, func(t *tx) error {
		return t.insertUser(nil, &u, "", "")
	})
	if err != nil {
		return models.User{}, err
	}
	return u.Public(), nil
}

// UpdateUser replaces the profile of an existing user. The last
// administrator cannot be demoted.
func (a *App) UpdateUser(ctx context.Context, actor *Actor, id string, in UserInput) (models.User, error) {
	name, email, err := validateIdentity(in.Name, in.Email)
	if err != nil {
		return models.User{}, err
	}
	if in.Role != "" && !in.Role.Valid() {
		return models.User{}, apperr.Validation("role", "must be ADMIN or USER")
	}
	if in.Status != "" && !in.Status.Valid() {
		return models.User{}, apperr.Validation("status", "must be Active, Invited or Suspended")
	}
	var hash string
	if in.Password != "" {
		if hash, err = hashPassword(in.Password); err != nil {
			return models.User{}, err
		}
	}

	var updated models.User
	err = a.update(ctx, func(t *tx) error {
		i := userIndex(t.users, id)
		if i < 0 {
			return apperr.NotFound("user", id)
		}
		if j := emailIndex(t.users, email); j >= 0 && j != i {
			return apperr.Conflict("email " + email + " is already registered")
		}

		u := t.users[i]
		u.Name, u.Email = name, email
		if in.Role != "" {
			u.Role = in.Role
		}
		if in.Status != "" {
			u.Status = in.Status
		}
		if in.Avatar != "" {
			u.Avatar = in.Avatar
		}
		if hash != "" {
			u.PasswordHash = hash
		}
		if t.users[i].IsAdmin() && !u.IsAdmin() && countAdmins(t.users) == 1 {
			return apperr.Conflict(errLastAdmin)
		}

		users := slices.Clone(t.users)
		users[i] = u
		t.users = users
		t.touch(partUsers)
		t.log(actor, models.ActionUserUpdate, "Perbarui profil: "+u.Email)
		updated = u
		return nil
	})
	if err != nil {
		return models.User{}, err
	}
	return updated.Public(), nil
}

// DeleteUser removes a user. Removing the last administrator fails with a
// *apperr.ConflictError.
func (a *App) DeleteUser(ctx context.Context, actor *Actor, id string) error {
	return a.update(ctx, func(t *tx) error {
		i := userIndex(t.users, id)
		if i < 0 {
			return apperr.NotFound("user", id)
		}
		u := t.users[i]
		if u.IsAdmin() && countAdmins(t.users) == 1 {
			return apperr.Conflict(errLastAdmin)
		}
		t.users = slices.Delete(slices.Clone(t.users), i, i+1)
		t.touch(partUsers)
		t.log(actor, models.ActionUserDelete, "Hapus pengguna: "+u.Email)
		return nil
	})
}

// Authenticate checks an email and password pair and returns the user
// without the password hash.
func (a *App) Authenticate(email, password string) (models.User, error) {
	a.mu.RLock()
	i := emailIndex(a.snap.users, strings.TrimSpace(email))
	var u models.User
	if i >= 0 {
		u = a.snap.users[i]
	}
	a.mu.RUnlock()

	if i < 0 || u.PasswordHash == "" {
		return models.User{}, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return models.User{}, ErrInvalidCredentials
	}
	if u.Status == models.StatusSuspended {
		return models.User{}, ErrSuspended
	}
	return u.Public(), nil
}

// insertUser prepends u after checking that its email is free.
func (t *tx) insertUser(actor *Actor, u *models.User, action, details string) error {
	if emailIndex(t.users, u.Email) >= 0 {
		return apperr.Conflict("email " + u.Email + " is already registered")
	}
	u.JoinDate = today(t.now)
	users := make([]models.User, 0, len(t.users)+1)
	users = append(users, *u)
	t.users = append(users, t.users...)
	t.touch(partUsers)
	t.log(actor, action, details)
	return nil
}

func newUser(in UserInput) (models.User, error) {
	name, email, err := validateIdentity(in.Name, in.Email)
	if err != nil {
		return models.User{}, err
	}
	role := in.Role
	if role == "" {
		role = models.RoleUser
	}
	if !role.Valid() {
		return models.User{}, apperr.Validation("role", "must be ADMIN or USER")
	}

	tag := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	u := models.User{
		ID:     "user-" + tag,
		Name:   name,
		Email:  email,
		Role:   role,
		Avatar: in.Avatar,
	}
	if u.Avatar == "" {
		u.Avatar = "https://i.pravatar.cc/150?u=" + tag
	}
	if in.Password != "" {
		if u.PasswordHash, err = hashPassword(in.Password); err != nil {
			return models.User{}, err
		}
	}
	return u, nil
}

func validateIdentity(name, email string) (string, string, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))
	if name == "" {
		return "", "", apperr.Validation("name", "is required")
	}
	if email == "" {
		return "", "", apperr.Validation("email", "is required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return "", "", apperr.Validation("email", "is not a valid address")
	}
	return name, email, nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

func countAdmins(users []models.User) int {
	n := 0
	for _, u := range users {
		if u.IsAdmin() {
			n++
		}
	}
	return n
}

func userIndex(users []models.User, id string) int {
	return slices.IndexFunc(users, func(u models.User) bool { return u.ID == id })
}

func emailIndex(users []models.User, email string) int {
	return slices.IndexFunc(users, func(u models.User) bool { return strings.EqualFold(u.Email, email) })
}
