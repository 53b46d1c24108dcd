package application

import (
	"context"
	"log/slog"
	"strings"

	domainerrors "bookstack/contexts/catalog/review-service/domain/errors"
	"bookstack/contexts/catalog/review-service/ports"
)

// moderationPageSize matches the admin review listing.
const moderationPageSize = 20

type Service struct {
	Repo   ports.Repository
	Clock  ports.Clock
	Logger *slog.Logger
}

type AddReviewInput struct {
	BookID         uint
	BookTitle      string
	AuthorID       uint
	AuthorUsername string
	Rating         int
	Comment        string
}

// AddReview persists a rating. Out-of-range ratings are rejected before any
// write happens.
func (s Service) AddReview(ctx context.Context, input AddReviewInput) (ports.Review, error) {
	if input.Rating < 1 || input.Rating > 5 {
		return ports.Review{}, domainerrors.ErrInvalidRating
	}

	review, err := s.Repo.CreateReview(ctx, ports.Review{
		BookID:         input.BookID,
		BookTitle:      input.BookTitle,
		AuthorID:       input.AuthorID,
		AuthorUsername: input.AuthorUsername,
		Rating:         input.Rating,
		Comment:        strings.TrimSpace(input.Comment),
		CreatedAt:      s.Clock.Now().UTC(),
	})
	if err != nil {
		return ports.Review{}, err
	}

	s.logger().Info("review added",
		"event", "catalog_review_added",
		"module", "catalog/review-service",
		"review_id", review.ID,
		"book_id", review.BookID,
		"rating", review.Rating,
	)
	return review, nil
}

func (s Service) GetReview(ctx context.Context, id uint) (ports.Review, error) {
	return s.Repo.GetReview(ctx, id)
}

// DeleteReview removes a review unconditionally; admin gating happens at the
// HTTP edge.
func (s Service) DeleteReview(ctx context.Context, id uint) error {
	if err := s.Repo.DeleteReview(ctx, id); err != nil {
		return err
	}
	s.logger().Info("review deleted",
		"event", "catalog_review_deleted",
		"module", "catalog/review-service",
		"review_id", id,
	)
	return nil
}

func (s Service) ListByBook(ctx context.Context, bookID uint) ([]ports.Review, error) {
	return s.Repo.ListByBook(ctx, bookID)
}

func (s Service) ListRecent(ctx context.Context, page int) (ports.Page, error) {
	if page < 1 {
		page = 1
	}
	return s.Repo.ListRecent(ctx, page, moderationPageSize)
}

func (s Service) CountByAuthor(ctx context.Context, userID uint) (int64, error) {
	return s.Repo.CountByAuthor(ctx, userID)
}

func (s Service) RecentByAuthor(ctx context.Context, userID uint, limit int) ([]ports.Review, error) {
	return s.Repo.RecentByAuthor(ctx, userID, limit)
}

func (s Service) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}
