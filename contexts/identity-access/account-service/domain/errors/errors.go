package errors

import "errors"

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrUsernameTaken      = errors.New("username already exists")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrAccountBanned      = errors.New("account is banned")
	ErrUserNotFound       = errors.New("user not found")
	ErrWrongPassword      = errors.New("current password is incorrect")
	ErrPasswordMismatch   = errors.New("new passwords do not match")
	ErrPasswordTooShort   = errors.New("new password must be at least 6 characters long")
)
