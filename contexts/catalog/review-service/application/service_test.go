package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"bookstack/contexts/catalog/review-service/adapters/memory"
	domainerrors "bookstack/contexts/catalog/review-service/domain/errors"
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
		Clock: &fixedClock{now: time.Date(2026, time.March, 2, 10, 0, 0, 0, time.UTC)},
	}, store
}

func TestAddReviewRejectsOutOfRangeRatingBeforePersistence(t *testing.T) {
	service, store := newTestService()
	ctx := context.Background()

	for _, rating := range []int{0, -1, 6, 100} {
		_, err := service.AddReview(ctx, AddReviewInput{
			BookID:   1,
			AuthorID: 2,
			Rating:   rating,
		})
		if !errors.Is(err, domainerrors.ErrInvalidRating) {
			t.Fatalf("rating %d: expected ErrInvalidRating, got %v", rating, err)
		}
	}
	if count, _ := store.CountByAuthor(ctx, 2); count != 0 {
		t.Fatalf("rejected ratings must not be persisted, found %d", count)
	}

	for _, rating := range []int{1, 5} {
		review, err := service.AddReview(ctx, AddReviewInput{
			BookID:   1,
			AuthorID: 2,
			Rating:   rating,
			Comment:  "  fine  ",
		})
		if err != nil {
			t.Fatalf("rating %d: %v", rating, err)
		}
		if review.Rating != rating {
			t.Fatalf("stored rating = %d, want %d", review.Rating, rating)
		}
		if review.Comment != "fine" {
			t.Fatalf("comment not trimmed: %q", review.Comment)
		}
	}
}

func TestListByBookOldestFirst(t *testing.T) {
	service, _ := newTestService()
	ctx := context.Background()

	first, err := service.AddReview(ctx, AddReviewInput{BookID: 7, AuthorID: 1, Rating: 4})
	if err != nil {
		t.Fatal(err)
	}
	second, err := service.AddReview(ctx, AddReviewInput{BookID: 7, AuthorID: 2, Rating: 2})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := service.AddReview(ctx, AddReviewInput{BookID: 9, AuthorID: 1, Rating: 5}); err != nil {
		t.Fatal(err)
	}

	reviews, err := service.ListByBook(ctx, 7)
	if err != nil {
		t.Fatal(err)
	}
	if len(reviews) != 2 || reviews[0].ID != first.ID || reviews[1].ID != second.ID {
		t.Fatalf("expected [%d %d] oldest first, got %+v", first.ID, second.ID, reviews)
	}
}

func TestDeleteReview(t *testing.T) {
	service, _ := newTestService()
	ctx := context.Background()

	review, err := service.AddReview(ctx, AddReviewInput{BookID: 1, AuthorID: 1, Rating: 3})
	if err != nil {
		t.Fatal(err)
	}
	if err := service.DeleteReview(ctx, review.ID); err != nil {
		t.Fatal(err)
	}
	if err := service.DeleteReview(ctx, review.ID); !errors.Is(err, domainerrors.ErrReviewNotFound) {
		t.Fatalf("expected ErrReviewNotFound, got %v", err)
	}
}

func TestListRecentPaginatesNewestFirst(t *testing.T) {
	service, _ := newTestService()
	ctx := context.Background()

	var lastID uint
	for i := 0; i < 25; i++ {
		review, err := service.AddReview(ctx, AddReviewInput{BookID: 1, AuthorID: 1, Rating: 3})
		if err != nil {
			t.Fatal(err)
		}
		lastID = review.ID
	}

	page, err := service.ListRecent(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(page.Items) != 20 || page.TotalPages != 2 || page.Total != 25 {
		t.Fatalf("page 1: items=%d totalPages=%d total=%d", len(page.Items), page.TotalPages, page.Total)
	}
	if page.Items[0].ID != lastID {
		t.Fatalf("expected newest review %d first, got %d", lastID, page.Items[0].ID)
	}

	page, err = service.ListRecent(ctx, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(page.Items) != 5 {
		t.Fatalf("page 2: items=%d, want 5", len(page.Items))
	}
}
