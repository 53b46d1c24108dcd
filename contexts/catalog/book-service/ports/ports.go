package ports

import (
	"context"
	"time"
)

type Book struct {
	ID            uint
	Title         string
	Author        string
	ISBN          string
	Description   string
	PublishedDate *time.Time
	CreatedAt     time.Time

	SubmittedBy       uint
	SubmitterUsername string
}

// Filter narrows the catalog listing. Zero values mean "no constraint";
// SubmittedBy scopes the list to one submitter's books.
type Filter struct {
	Search      string
	Author      string
	SubmittedBy uint
	Page        int
}

type Page struct {
	Items      []Book
	Page       int
	PageSize   int
	Total      int64
	TotalPages int
}

func (p Page) HasPrev() bool { return p.Page > 1 }
func (p Page) HasNext() bool { return p.Page < p.TotalPages }

type Repository interface {
	CreateBook(ctx context.Context, book Book) (Book, error)
	GetBook(ctx context.Context, id uint) (Book, error)
	UpdateBook(ctx context.Context, book Book) error
	// DeleteBookCascade removes the book and its reviews in one transaction.
	DeleteBookCascade(ctx context.Context, id uint) error
	ListBooks(ctx context.Context, filter Filter, pageSize int) (Page, error)
	CountBySubmitter(ctx context.Context, userID uint) (int64, error)
	RecentBySubmitter(ctx context.Context, userID uint, limit int) ([]Book, error)
}

type Clock interface {
	Now() time.Time
}
