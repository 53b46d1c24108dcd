package errors

import "errors"

var (
	ErrBookNotFound         = errors.New("book not found")
	ErrInvalidBookInput     = errors.New("invalid book input")
	ErrInvalidPublishedDate = errors.New("published date must be YYYY-MM-DD")
	ErrDuplicateISBN        = errors.New("a book with this ISBN already exists")
)
