package postgresadapter

import (
	"context"
	"testing"
	"time"

	domainerrors "bookstack/contexts/catalog/book-service/domain/errors"
	"bookstack/contexts/catalog/book-service/ports"
	reviewpostgres "bookstack/contexts/catalog/review-service/adapters/postgres"
	reviewports "bookstack/contexts/catalog/review-service/ports"
	accountpostgres "bookstack/contexts/identity-access/account-service/adapters/postgres"
	accountports "bookstack/contexts/identity-access/account-service/ports"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// openTestDB runs the real migrations against an in-memory sqlite database,
// which is also what the dev runtime uses.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, accountpostgres.AutoMigrate(db))
	require.NoError(t, AutoMigrate(db))
	require.NoError(t, reviewpostgres.AutoMigrate(db))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, username string) accountports.User {
	t.Helper()
	accounts := accountpostgres.NewRepository(db, nil)
	user, err := accounts.CreateUser(context.Background(), accountports.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "x",
		CreatedAt:    time.Now().UTC(),
	})
	require.NoError(t, err)
	return user
}

func TestCreateAndGetBookJoinsSubmitter(t *testing.T) {
	db := openTestDB(t)
	repo := NewRepository(db, nil)
	ctx := context.Background()
	alice := seedUser(t, db, "alice")

	created, err := repo.CreateBook(ctx, ports.Book{
		Title:       "The Go Programming Language",
		Author:      "Donovan",
		ISBN:        "978-0134190440",
		SubmittedBy: alice.ID,
		CreatedAt:   time.Now().UTC(),
	})
	require.NoError(t, err)
	require.NotZero(t, created.ID)

	got, err := repo.GetBook(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, "The Go Programming Language", got.Title)
	require.Equal(t, "alice", got.SubmitterUsername)

	_, err = repo.GetBook(ctx, created.ID+100)
	require.ErrorIs(t, err, domainerrors.ErrBookNotFound)
}

func TestDuplicateISBNRejected(t *testing.T) {
	db := openTestDB(t)
	repo := NewRepository(db, nil)
	ctx := context.Background()
	alice := seedUser(t, db, "alice")

	_, err := repo.CreateBook(ctx, ports.Book{
		Title: "First", Author: "A", ISBN: "123", SubmittedBy: alice.ID, CreatedAt: time.Now().UTC(),
	})
	require.NoError(t, err)

	_, err = repo.CreateBook(ctx, ports.Book{
		Title: "Second", Author: "B", ISBN: "123", SubmittedBy: alice.ID, CreatedAt: time.Now().UTC(),
	})
	require.ErrorIs(t, err, domainerrors.ErrDuplicateISBN)

	// books without an isbn never collide
	for range 2 {
		_, err = repo.CreateBook(ctx, ports.Book{
			Title: "No ISBN", Author: "C", SubmittedBy: alice.ID, CreatedAt: time.Now().UTC(),
		})
		require.NoError(t, err)
	}
}

func TestListBooksFiltersAndPaginates(t *testing.T) {
	db := openTestDB(t)
	repo := NewRepository(db, nil)
	ctx := context.Background()
	alice := seedUser(t, db, "alice")

	base := time.Now().UTC().Add(-time.Hour)
	titles := []string{"Go in Action", "Learning Go", "Rust in Action", "The Go Programming Language"}
	for i, title := range titles {
		_, err := repo.CreateBook(ctx, ports.Book{
			Title:       title,
			Author:      "Author",
			SubmittedBy: alice.ID,
			CreatedAt:   base.Add(time.Duration(i) * time.Minute),
		})
		require.NoError(t, err)
	}

	page, err := repo.ListBooks(ctx, ports.Filter{Search: "go", Page: 1}, 2)
	require.NoError(t, err)
	require.EqualValues(t, 3, page.Total)
	require.Equal(t, 2, page.TotalPages)
	require.Len(t, page.Items, 2)
	// newest first
	require.Equal(t, "The Go Programming Language", page.Items[0].Title)
	require.True(t, page.HasNext())
	require.False(t, page.HasPrev())
}

func TestDeleteBookCascadeRemovesReviews(t *testing.T) {
	db := openTestDB(t)
	repo := NewRepository(db, nil)
	reviews := reviewpostgres.NewRepository(db, nil)
	ctx := context.Background()
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")

	book, err := repo.CreateBook(ctx, ports.Book{
		Title: "Reviewed", Author: "A", SubmittedBy: alice.ID, CreatedAt: time.Now().UTC(),
	})
	require.NoError(t, err)

	review, err := reviews.CreateReview(ctx, reviewports.Review{
		BookID:    book.ID,
		AuthorID:  bob.ID,
		Rating:    5,
		Comment:   "great",
		CreatedAt: time.Now().UTC(),
	})
	require.NoError(t, err)

	require.NoError(t, repo.DeleteBookCascade(ctx, book.ID))

	_, err = repo.GetBook(ctx, book.ID)
	require.ErrorIs(t, err, domainerrors.ErrBookNotFound)

	_, err = reviews.GetReview(ctx, review.ID)
	require.Error(t, err)

	require.ErrorIs(t, repo.DeleteBookCascade(ctx, book.ID), domainerrors.ErrBookNotFound)
}
