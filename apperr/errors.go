package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an error so transport code can map it to a status without
// inspecting message text.
type Kind int

const (
	KindUnknown Kind = iota
	// KindValidation indicates malformed or missing caller input.
	KindValidation
	// KindNotFound indicates a referenced entity does not exist.
	KindNotFound
	// KindConflict indicates a uniqueness invariant was violated.
	KindConflict
	// KindDependency indicates an external collaborator (storage, asset
	// store) failed for reasons outside the caller's control.
	KindDependency
)

// Error carries the failure kind together with the entity and id it concerns.
type Error struct {
	Kind   Kind
	Entity string
	ID     string
	Msg    string
	Err    error
}

func (e *Error) Error() string {
	switch {
	case e.Msg != "" && e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	case e.Msg != "":
		return e.Msg
	case e.Err != nil:
		return e.Err.Error()
	}
	return "unknown error"
}

func (e *Error) Unwrap() error {
	return e.Err
}

func Validation(msg string) *Error {
	return &Error{Kind: KindValidation, Msg: msg}
}

func Validationf(format string, args ...interface{}) *Error {
	return &Error{Kind: KindValidation, Msg: fmt.Sprintf(format, args...)}
}

func NotFound(entity, id string) *Error {
	return &Error{
		Kind:   KindNotFound,
		Entity: entity,
		ID:     id,
		Msg:    fmt.Sprintf("%s not found", entity),
	}
}

func Conflict(entity, msg string) *Error {
	return &Error{Kind: KindConflict, Entity: entity, Msg: msg}
}

func Dependency(op string, err error) *Error {
	return &Error{Kind: KindDependency, Msg: op + " failed", Err: err}
}

// KindOf extracts the kind from err, or KindUnknown for foreign errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

func IsValidation(err error) bool { return KindOf(err) == KindValidation }
func IsNotFound(err error) bool   { return KindOf(err) == KindNotFound }
func IsConflict(err error) bool   { return KindOf(err) == KindConflict }
func IsDependency(err error) bool { return KindOf(err) == KindDependency }
