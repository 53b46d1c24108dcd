package errors

import "errors"

var (
	ErrUserNotFound   = errors.New("user not found")
	ErrCannotBanAdmin = errors.New("cannot ban an admin user")
)
