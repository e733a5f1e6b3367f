// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package apperr defines the error taxonomy shared by the archive service.
// Structural errors (validation, cycle, not found, conflict) reject an
// operation before any state changes. External service errors are always
// recoverable and come paired with a fallback value.
package apperr

import (
	"errors"
	"fmt"
)

// ValidationError reports a missing or malformed input field.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Msg
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Msg)
}

// Validation builds a *ValidationError.
func Validation(field, msg string) error {
	return &ValidationError{Field: field, Msg: msg}
}

// CycleError reports a re-parent that would make a node its own ancestor.
type CycleError struct {
	ID       string
	ParentID string
}

func (e *CycleError) Error() string {
	if e.ID == e.ParentID {
		return fmt.Sprintf("category %s cannot be its own parent", e.ID)
	}
	return fmt.Sprintf("category %s cannot move under its descendant %s", e.ID, e.ParentID)
}

// NotFoundError reports a reference to a missing record.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.ID)
}

// NotFound builds a *NotFoundError.
func NotFound(kind, id string) error {
	return &NotFoundError{Kind: kind, ID: id}
}

// ConflictError reports an operation refused because of the current state,
// e.g. deleting the last administrator.
type ConflictError struct {
	Msg string
}

func (e *ConflictError) Error() string { return e.Msg }

// Conflict builds a *ConflictError.
func Conflict(msg string) error {
	return &ConflictError{Msg: msg}
}

// ExternalServiceError wraps a failed or timed-out call to the AI service.
type ExternalServiceError struct {
	Op  string
	Err error
}

func (e *ExternalServiceError) Error() string {
	return fmt.Sprintf("ai %s: %v", e.Op, e.Err)
}

func (e *ExternalServiceError) Unwrap() error { return e.Err }

// IsValidation reports whether err is or wraps a *ValidationError.
func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

// IsCycle reports whether err is or wraps a *CycleError.
func IsCycle(err error) bool {
	var target *CycleError
	return errors.As(err, &target)
}

// IsNotFound reports whether err is or wraps a *NotFoundError.
func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

// IsConflict reports whether err is or wraps a *ConflictError.
func IsConflict(err error) bool {
	var target *ConflictError
	return errors.As(err, &target)
}

// IsExternal reports whether err is or wraps an *ExternalServiceError.
func IsExternal(err error) bool {
	var target *ExternalServiceError
	return errors.As(err, &target)
}
