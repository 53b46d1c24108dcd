package ports

import (
	"context"
	"time"

	"bookstack/contexts/identity-access/authorization"
)

type User struct {
	ID           uint
	Username     string
	Email        string
	PasswordHash string
	Role         authorization.Role
	Banned       bool
	FullName     string
	Bio          string
	CreatedAt    time.Time
}

// Identity maps a stored user onto the authorization-facing view of it.
func (u User) Identity() authorization.Identity {
	return authorization.Identity{
		UserID:   u.ID,
		Username: u.Username,
		Role:     u.Role,
	}
}

type Repository interface {
	CreateUser(ctx context.Context, user User) (User, error)
	GetUserByID(ctx context.Context, id uint) (User, error)
	GetUserByUsername(ctx context.Context, username string) (User, error)
	GetUserByEmail(ctx context.Context, email string) (User, error)
	UpdatePasswordHash(ctx context.Context, id uint, hash string) error
}

// SessionStore maps opaque session identifiers onto user ids.
type SessionStore interface {
	Create(ctx context.Context, userID uint) (string, error)
	Get(ctx context.Context, sessionID string) (uint, bool, error)
	Delete(ctx context.Context, sessionID string) error
}

// PasswordHasher is the opaque one-way verification primitive.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(hash, password string) bool
}

type BookSummary struct {
	ID        uint
	Title     string
	Author    string
	CreatedAt time.Time
}

type ReviewSummary struct {
	ID        uint
	BookID    uint
	BookTitle string
	Rating    int
	Comment   string
	CreatedAt time.Time
}

// ActivityReader surfaces what a user has done in the catalog. Implemented
// over the catalog modules and wired in bootstrap.
type ActivityReader interface {
	CountBooksBySubmitter(ctx context.Context, userID uint) (int64, error)
	CountReviewsByAuthor(ctx context.Context, userID uint) (int64, error)
	RecentBooksBySubmitter(ctx context.Context, userID uint, limit int) ([]BookSummary, error)
	RecentReviewsByAuthor(ctx context.Context, userID uint, limit int) ([]ReviewSummary, error)
}

type Clock interface {
	Now() time.Time
}

type Dashboard struct {
	User          User
	TotalBooks    int64
	TotalReviews  int64
	RecentBooks   []BookSummary
	RecentReviews []ReviewSummary
}
