package ports

import (
	"context"
	"time"

	"bookstack/contexts/identity-access/authorization"
)

type UserRow struct {
	ID        uint
	Username  string
	Email     string
	Role      authorization.Role
	Banned    bool
	CreatedAt time.Time
}

type BookRow struct {
	ID                uint
	Title             string
	Author            string
	SubmitterUsername string
	CreatedAt         time.Time
}

type ReviewRow struct {
	ID             uint
	BookID         uint
	BookTitle      string
	AuthorUsername string
	Rating         int
	Comment        string
	CreatedAt      time.Time
}

// DayCount is one bucket of the per-day time series, Day in YYYY-MM-DD.
type DayCount struct {
	Day   string
	Count int
}

type Overview struct {
	TotalUsers    int64
	TotalBooks    int64
	TotalReviews  int64
	BannedUsers   int64
	BooksPerDay   []DayCount
	ReviewsPerDay []DayCount
	RecentUsers   []UserRow
	RecentBooks   []BookRow
	RecentReviews []ReviewRow
}

type UserPage struct {
	Items      []UserRow
	Page       int
	PageSize   int
	Total      int64
	TotalPages int
}

func (p UserPage) HasPrev() bool { return p.Page > 1 }
func (p UserPage) HasNext() bool { return p.Page < p.TotalPages }

type Repository interface {
	CountUsers(ctx context.Context) (int64, error)
	CountBooks(ctx context.Context) (int64, error)
	CountReviews(ctx context.Context) (int64, error)
	CountBannedUsers(ctx context.Context) (int64, error)

	// Creation instants since the window start; the service buckets them
	// per day so the query stays portable across postgres and sqlite.
	BookCreationTimes(ctx context.Context, since time.Time) ([]time.Time, error)
	ReviewCreationTimes(ctx context.Context, since time.Time) ([]time.Time, error)

	RecentUsers(ctx context.Context, limit int) ([]UserRow, error)
	RecentBooks(ctx context.Context, limit int) ([]BookRow, error)
	RecentReviews(ctx context.Context, limit int) ([]ReviewRow, error)

	ListUsers(ctx context.Context, search string, page, pageSize int) (UserPage, error)
	GetUser(ctx context.Context, id uint) (UserRow, error)
	SetUserBanned(ctx context.Context, id uint, banned bool) error
}

// ReviewRemover is the moderation hook into the catalog, wired in bootstrap.
type ReviewRemover interface {
	DeleteReview(ctx context.Context, id uint) error
}

type Clock interface {
	Now() time.Time
}
