package ports

import (
	"context"
	"time"
)

type Review struct {
	ID        uint
	BookID    uint
	BookTitle string

	AuthorID       uint
	AuthorUsername string

	Rating    int
	Comment   string
	CreatedAt time.Time
}

type Page struct {
	Items      []Review
	Page       int
	PageSize   int
	Total      int64
	TotalPages int
}

func (p Page) HasPrev() bool { return p.Page > 1 }
func (p Page) HasNext() bool { return p.Page < p.TotalPages }

type Repository interface {
	CreateReview(ctx context.Context, review Review) (Review, error)
	GetReview(ctx context.Context, id uint) (Review, error)
	DeleteReview(ctx context.Context, id uint) error
	// ListByBook returns a book's reviews oldest first.
	ListByBook(ctx context.Context, bookID uint) ([]Review, error)
	// ListRecent returns all reviews newest first for the moderation panel.
	ListRecent(ctx context.Context, page, pageSize int) (Page, error)
	CountByAuthor(ctx context.Context, userID uint) (int64, error)
	RecentByAuthor(ctx context.Context, userID uint, limit int) ([]Review, error)
}

type Clock interface {
	Now() time.Time
}
