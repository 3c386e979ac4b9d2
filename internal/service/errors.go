package service

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"
)

// Error represents a failed service operation.
//
// Callers branch on the code:
//   - NOT_FOUND, UNAUTHORIZED, CONFLICT are application outcomes
//   - INFRA is an opaque store failure; retry or surface as an outage,
//     never interpret as a business decision
type Error struct {
	// Code identifies the failure category.
	Code ErrorCode

	// Entity names the entity the failure is about ("profile", "group",
	// "topic", "post", "user"). Empty for infra failures.
	Entity string

	// Op is the operation that failed (for infra failures).
	Op string

	// Err is the underlying cause, if any.
	Err error
}

// ErrorCode categorizes service failures.
type ErrorCode string

const (
	// ErrCodeNotFound indicates a referenced entity does not exist.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"

	// ErrCodeUnauthorized indicates the caller lacks the required admin or
	// authorship relation.
	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"

	// ErrCodeConflict indicates a uniqueness constraint was violated at the
	// store; the database is the arbiter of these races.
	ErrCodeConflict ErrorCode = "CONFLICT"

	// ErrCodeInfra indicates a store connectivity, transaction, or decode
	// failure.
	ErrCodeInfra ErrorCode = "INFRA"
)

// Error implements the error interface.
func (e *Error) Error() string {
	switch {
	case e.Entity != "" && e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Entity, e.Err)
	case e.Entity != "":
		return fmt.Sprintf("%s: %s", e.Code, e.Entity)
	case e.Op != "" && e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Op, e.Err)
	default:
		return string(e.Code)
	}
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

func notFound(entity string) *Error {
	return &Error{Code: ErrCodeNotFound, Entity: entity}
}

func unauthorized(entity string) *Error {
	return &Error{Code: ErrCodeUnauthorized, Entity: entity}
}

func conflict(entity string, err error) *Error {
	return &Error{Code: ErrCodeConflict, Entity: entity, Err: err}
}

func infra(op string, err error) *Error {
	return &Error{Code: ErrCodeInfra, Op: op, Err: err}
}

// IsNotFound reports whether err is a NOT_FOUND service failure.
func IsNotFound(err error) bool { return hasCode(err, ErrCodeNotFound) }

// IsUnauthorized reports whether err is an UNAUTHORIZED service failure.
func IsUnauthorized(err error) bool { return hasCode(err, ErrCodeUnauthorized) }

// IsConflict reports whether err is a CONFLICT service failure.
func IsConflict(err error) bool { return hasCode(err, ErrCodeConflict) }

// IsInfra reports whether err is an INFRA service failure.
func IsInfra(err error) bool { return hasCode(err, ErrCodeInfra) }

func hasCode(err error, code ErrorCode) bool {
	var se *Error
	return errors.As(err, &se) && se.Code == code
}

// lookupErr translates a single-row read failure: sql.ErrNoRows becomes
// NOT_FOUND for the named entity, anything else is infra.
func lookupErr(entity, op string, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return notFound(entity)
	}
	return infra(op, err)
}

// writeErr translates a write failure: unique and primary-key constraint
// violations become CONFLICT for the named entity, anything else is infra.
func writeErr(entity, op string, err error) error {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.ExtendedCode {
		case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
			return conflict(entity, err)
		}
	}
	return infra(op, err)
}
