package errors

import "errors"

var (
	ErrSelfContact  = errors.New("cannot send a message to yourself")
	ErrEmptyMessage = errors.New("subject and message are required")
	ErrSendFailed   = errors.New("message delivery failed")
)
