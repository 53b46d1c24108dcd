package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"bookstack/contexts/catalog/book-service/adapters/memory"
	domainerrors "bookstack/contexts/catalog/book-service/domain/errors"
	"bookstack/contexts/catalog/book-service/ports"
)

type fixedClock struct {
	now time.Time
}

func (c *fixedClock) Now() time.Time {
	c.now = c.now.Add(time.Second)
	return c.now
}

func newTestService() (Service, *memory.Store) {
	store := memory.NewStore()
	return Service{
		Repo:  store,
		Clock: &fixedClock{now: time.Date(2026, time.March, 1, 8, 0, 0, 0, time.UTC)},
	}, store
}

func addBook(t *testing.T, service Service, submitter uint, title string) ports.Book {
	t.Helper()
	book, err := service.AddBook(context.Background(), submitter, "someone", BookInput{
		Title:  title,
		Author: "Some Author",
	})
	if err != nil {
		t.Fatalf("add book %q: %v", title, err)
	}
	return book
}

func TestAddBookValidation(t *testing.T) {
	service, _ := newTestService()
	ctx := context.Background()

	if _, err := service.AddBook(ctx, 1, "alice", BookInput{Author: "A"}); !errors.Is(err, domainerrors.ErrInvalidBookInput) {
		t.Fatalf("missing title: expected ErrInvalidBookInput, got %v", err)
	}
	if _, err := service.AddBook(ctx, 1, "alice", BookInput{Title: "T"}); !errors.Is(err, domainerrors.ErrInvalidBookInput) {
		t.Fatalf("missing author: expected ErrInvalidBookInput, got %v", err)
	}
	if _, err := service.AddBook(ctx, 1, "alice", BookInput{Title: "T", Author: "A", PublishedDate: "03/01/2026"}); !errors.Is(err, domainerrors.ErrInvalidPublishedDate) {
		t.Fatalf("malformed date: expected ErrInvalidPublishedDate, got %v", err)
	}

	book, err := service.AddBook(ctx, 1, "alice", BookInput{Title: "T", Author: "A", PublishedDate: "2020-06-15"})
	if err != nil {
		t.Fatalf("valid input: %v", err)
	}
	if book.PublishedDate == nil || book.PublishedDate.Format("2006-01-02") != "2020-06-15" {
		t.Fatalf("published date not parsed, got %v", book.PublishedDate)
	}
}

func TestAddBookRejectsDuplicateISBN(t *testing.T) {
	service, _ := newTestService()
	ctx := context.Background()

	if _, err := service.AddBook(ctx, 1, "alice", BookInput{Title: "A", Author: "X", ISBN: "978-0"}); err != nil {
		t.Fatal(err)
	}
	if _, err := service.AddBook(ctx, 2, "bob", BookInput{Title: "B", Author: "Y", ISBN: "978-0"}); !errors.Is(err, domainerrors.ErrDuplicateISBN) {
		t.Fatalf("expected ErrDuplicateISBN, got %v", err)
	}
}

func TestListBooksFiltersAndPaginates(t *testing.T) {
	service, _ := newTestService()
	ctx := context.Background()

	for i := 0; i < 12; i++ {
		title := "Go in Practice"
		if i%2 == 1 {
			title = "Rust for Rustaceans"
		}
		if _, err := service.AddBook(ctx, 1, "alice", BookInput{Title: title, Author: "Author X"}); err != nil {
			t.Fatal(err)
		}
	}

	page, err := service.ListBooks(ctx, ports.Filter{Search: "go"})
	if err != nil {
		t.Fatal(err)
	}
	if page.Total != 6 {
		t.Fatalf("title filter: total = %d, want 6", page.Total)
	}

	page, err = service.ListBooks(ctx, ports.Filter{})
	if err != nil {
		t.Fatal(err)
	}
	if len(page.Items) != 10 || page.TotalPages != 2 || !page.HasNext() || page.HasPrev() {
		t.Fatalf("page 1: items=%d totalPages=%d hasNext=%v hasPrev=%v",
			len(page.Items), page.TotalPages, page.HasNext(), page.HasPrev())
	}

	page, err = service.ListBooks(ctx, ports.Filter{Page: 2})
	if err != nil {
		t.Fatal(err)
	}
	if len(page.Items) != 2 || page.HasNext() || !page.HasPrev() {
		t.Fatalf("page 2: items=%d hasNext=%v hasPrev=%v", len(page.Items), page.HasNext(), page.HasPrev())
	}
}

func TestListBooksNewestFirst(t *testing.T) {
	service, _ := newTestService()
	ctx := context.Background()

	first := addBook(t, service, 1, "Oldest")
	second := addBook(t, service, 1, "Newest")

	page, err := service.ListBooks(ctx, ports.Filter{})
	if err != nil {
		t.Fatal(err)
	}
	if len(page.Items) != 2 || page.Items[0].ID != second.ID || page.Items[1].ID != first.ID {
		t.Fatalf("expected newest first, got %+v", page.Items)
	}
}

func TestDeleteBookPurgesReviews(t *testing.T) {
	service, store := newTestService()
	ctx := context.Background()

	var purged []uint
	store.ReviewPurge = func(bookID uint) { purged = append(purged, bookID) }

	book := addBook(t, service, 1, "Doomed")
	if err := service.DeleteBook(ctx, book.ID); err != nil {
		t.Fatal(err)
	}
	if len(purged) != 1 || purged[0] != book.ID {
		t.Fatalf("cascade purge not invoked, got %v", purged)
	}
	if _, err := service.GetBook(ctx, book.ID); !errors.Is(err, domainerrors.ErrBookNotFound) {
		t.Fatalf("expected ErrBookNotFound after delete, got %v", err)
	}
	if err := service.DeleteBook(ctx, book.ID); !errors.Is(err, domainerrors.ErrBookNotFound) {
		t.Fatalf("second delete: expected ErrBookNotFound, got %v", err)
	}
}
