package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	domainerrors "bookstack/contexts/catalog/review-service/domain/errors"
	"bookstack/contexts/catalog/review-service/ports"
)

type Store struct {
	mu sync.RWMutex

	reviewsByID map[uint]ports.Review
	sequence    uint
}

func NewStore() *Store {
	return &Store{reviewsByID: make(map[uint]ports.Review)}
}

func (s *Store) CreateReview(ctx context.Context, review ports.Review) (ports.Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sequence++
	review.ID = s.sequence
	if review.CreatedAt.IsZero() {
		review.CreatedAt = time.Now().UTC()
	}
	s.reviewsByID[review.ID] = review
	return review, nil
}

func (s *Store) GetReview(ctx context.Context, id uint) (ports.Review, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	review, ok := s.reviewsByID[id]
	if !ok {
		return ports.Review{}, domainerrors.ErrReviewNotFound
	}
	return review, nil
}

func (s *Store) DeleteReview(ctx context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.reviewsByID[id]; !ok {
		return domainerrors.ErrReviewNotFound
	}
	delete(s.reviewsByID, id)
	return nil
}

// PurgeByBook drops every review of a book; invoked by the in-memory book
// store's cascade hook.
func (s *Store) PurgeByBook(bookID uint) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, review := range s.reviewsByID {
		if review.BookID == bookID {
			delete(s.reviewsByID, id)
		}
	}
}

func (s *Store) ListByBook(ctx context.Context, bookID uint) ([]ports.Review, error) {
	s.mu.RLock()
	reviews := make([]ports.Review, 0)
	for _, review := range s.reviewsByID {
		if review.BookID == bookID {
			reviews = append(reviews, review)
		}
	}
	s.mu.RUnlock()

	sort.Slice(reviews, func(i, j int) bool {
		if reviews[i].CreatedAt.Equal(reviews[j].CreatedAt) {
			return reviews[i].ID < reviews[j].ID
		}
		return reviews[i].CreatedAt.Before(reviews[j].CreatedAt)
	})
	return reviews, nil
}

func (s *Store) ListRecent(ctx context.Context, page, pageSize int) (ports.Page, error) {
	s.mu.RLock()
	reviews := make([]ports.Review, 0, len(s.reviewsByID))
	for _, review := range s.reviewsByID {
		reviews = append(reviews, review)
	}
	s.mu.RUnlock()

	sort.Slice(reviews, func(i, j int) bool {
		if reviews[i].CreatedAt.Equal(reviews[j].CreatedAt) {
			return reviews[i].ID > reviews[j].ID
		}
		return reviews[i].CreatedAt.After(reviews[j].CreatedAt)
	})

	if page < 1 {
		page = 1
	}
	total := int64(len(reviews))
	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))

	start := (page - 1) * pageSize
	if start > len(reviews) {
		start = len(reviews)
	}
	end := start + pageSize
	if end > len(reviews) {
		end = len(reviews)
	}

	return ports.Page{
		Items:      reviews[start:end],
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
	}, nil
}

func (s *Store) CountByAuthor(ctx context.Context, userID uint) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int64
	for _, review := range s.reviewsByID {
		if review.AuthorID == userID {
			count++
		}
	}
	return count, nil
}

func (s *Store) RecentByAuthor(ctx context.Context, userID uint, limit int) ([]ports.Review, error) {
	s.mu.RLock()
	reviews := make([]ports.Review, 0)
	for _, review := range s.reviewsByID {
		if review.AuthorID == userID {
			reviews = append(reviews, review)
		}
	}
	s.mu.RUnlock()

	sort.Slice(reviews, func(i, j int) bool {
		if reviews[i].CreatedAt.Equal(reviews[j].CreatedAt) {
			return reviews[i].ID > reviews[j].ID
		}
		return reviews[i].CreatedAt.After(reviews[j].CreatedAt)
	})
	if limit > 0 && len(reviews) > limit {
		reviews = reviews[:limit]
	}
	return reviews, nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}
