package service

import "errors"

// Code classifies a workflow failure. The HTTP layer maps codes to
// status codes; services never return raw transport errors.
type Code int

const (
	CodeBadRequest Code = iota + 1
	CodeUnauthorized
	CodeForbidden
	CodeNotFound
	CodeConflict
	CodeInternal
)

type Error struct {
	Code    Code
	Message string
}

func (e *Error) Error() string { return e.Message }

func fail(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

var (
	ErrInvalidEmailOrPassword = fail(CodeUnauthorized, "Invalid email or password")
	ErrUserInactive           = fail(CodeForbidden, "User account is inactive")
	ErrUserAlreadyExists      = fail(CodeConflict, "User with this email already exists")
	ErrUserNotFound           = fail(CodeNotFound, "User not found")
	ErrRefreshUserNotFound    = fail(CodeUnauthorized, "User not found")
	ErrInvalidRefreshToken    = fail(CodeUnauthorized, "Invalid or expired refresh token")
	ErrInvalidResetToken      = fail(CodeBadRequest, "Invalid or expired token")
	ErrInternal               = fail(CodeInternal, "Something went wrong, Please try again later!")

	ErrCourseNotFound       = fail(CodeNotFound, "Course not found")
	ErrStudentNotFound      = fail(CodeNotFound, "Student not found")
	ErrStudentAlreadyExists = fail(CodeConflict, "Student with this email already exists")
	ErrCredentialNotFound   = fail(CodeNotFound, "Credential not found")
)

// AsError extracts the typed failure, collapsing anything unexpected to
// ErrInternal so internal detail never reaches a client.
func AsError(err error) *Error {
	var se *Error
	if errors.As(err, &se) {
		return se
	}
	return ErrInternal
}
