// Package services wraps the remote data client with the auth, posts and polls
// operations the application state works with. Operations never panic; they
// return their data together with one of the error kinds below.
package services

import (
	"fmt"
	"net/http"

	"financehub/client"

	"github.com/pkg/errors"
)

// AuthError covers bad credentials, duplicate registration, missing sessions
// and profile edits by someone other than the owner.
type AuthError struct {
	Op  string
	Err error
}

func (e *AuthError) Error() string { return fmt.Sprintf("%s: %v", e.Op, e.Err) }
func (e *AuthError) Unwrap() error { return e.Err }

// ValidationError is raised locally before any request is made.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string { return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason) }

// PersistenceError covers create, query and procedure failures, including
// network errors and constraint violations reported by the backend.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string { return fmt.Sprintf("%s: %v", e.Op, e.Err) }
func (e *PersistenceError) Unwrap() error { return e.Err }

// Code returns the backend error code, if the failure came from the backend.
func (e *PersistenceError) Code() string {
	var apiErr *client.APIError
	if errors.As(e.Err, &apiErr) {
		return apiErr.Code
	}
	return ""
}

// AlreadyReacted reports whether err is the backend refusing a second like or
// vote by the same user.
func AlreadyReacted(err error) bool {
	var pe *PersistenceError
	return errors.As(err, &pe) && pe.Code() == "already_reacted"
}

// persistence wraps a data call failure. A missing or expired session is an
// AuthError rather than a storage problem.
func persistence(op string, err error) error {
	if err == nil {
		return nil
	}
	var apiErr *client.APIError
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized {
		return &AuthError{Op: op, Err: err}
	}
	return &PersistenceError{Op: op, Err: err}
}

// ownerOnly is persistence for calls the backend restricts to the record's
// owner: a 403 is an AuthError as well.
func ownerOnly(op string, err error) error {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusForbidden {
		return &AuthError{Op: op, Err: err}
	}
	return persistence(op, err)
}

func authFailure(op string, err error) error {
	if err == nil {
		return nil
	}
	return &AuthError{Op: op, Err: err}
}
