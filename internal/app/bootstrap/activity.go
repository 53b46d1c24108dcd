package bootstrap

import (
	"context"

	bookservice "bookstack/contexts/catalog/book-service"
	reviewservice "bookstack/contexts/catalog/review-service"
	accountports "bookstack/contexts/identity-access/account-service/ports"
)

// catalogActivity implements the account ActivityReader port over the catalog
// modules, so the account service never reaches into catalog storage directly.
type catalogActivity struct {
	books   bookservice.Module
	reviews reviewservice.Module
}

func (a catalogActivity) CountBooksBySubmitter(ctx context.Context, userID uint) (int64, error) {
	return a.books.Service.CountBySubmitter(ctx, userID)
}

func (a catalogActivity) CountReviewsByAuthor(ctx context.Context, userID uint) (int64, error) {
	return a.reviews.Service.CountByAuthor(ctx, userID)
}

func (a catalogActivity) RecentBooksBySubmitter(ctx context.Context, userID uint, limit int) ([]accountports.BookSummary, error) {
	books, err := a.books.Service.RecentBySubmitter(ctx, userID, limit)
	if err != nil {
		return nil, err
	}

	summaries := make([]accountports.BookSummary, 0, len(books))
	for _, book := range books {
		summaries = append(summaries, accountports.BookSummary{
			ID:        book.ID,
			Title:     book.Title,
			Author:    book.Author,
			CreatedAt: book.CreatedAt,
		})
	}
	return summaries, nil
}

func (a catalogActivity) RecentReviewsByAuthor(ctx context.Context, userID uint, limit int) ([]accountports.ReviewSummary, error) {
	reviews, err := a.reviews.Service.RecentByAuthor(ctx, userID, limit)
	if err != nil {
		return nil, err
	}

	summaries := make([]accountports.ReviewSummary, 0, len(reviews))
	for _, review := range reviews {
		summaries = append(summaries, accountports.ReviewSummary{
			ID:        review.ID,
			BookID:    review.BookID,
			BookTitle: review.BookTitle,
			Rating:    review.Rating,
			Comment:   review.Comment,
			CreatedAt: review.CreatedAt,
		})
	}
	return summaries, nil
}
