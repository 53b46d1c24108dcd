package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	domainerrors "bookstack/contexts/catalog/book-service/domain/errors"
	"bookstack/contexts/catalog/book-service/ports"
)

type Store struct {
	mu sync.RWMutex

	booksByID map[uint]ports.Book
	sequence  uint

	// ReviewPurge is called with the book id during a cascade delete, so the
	// in-memory review store stays consistent with the book store. Wired in
	// bootstrap; nil is fine when no review store exists.
	ReviewPurge func(bookID uint)
}

func NewStore() *Store {
	return &Store{booksByID: make(map[uint]ports.Book)}
}

func (s *Store) CreateBook(ctx context.Context, book ports.Book) (ports.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if book.ISBN != "" {
		for _, existing := range s.booksByID {
			if existing.ISBN == book.ISBN {
				return ports.Book{}, domainerrors.ErrDuplicateISBN
			}
		}
	}

	s.sequence++
	book.ID = s.sequence
	if book.CreatedAt.IsZero() {
		book.CreatedAt = time.Now().UTC()
	}
	s.booksByID[book.ID] = book
	return book, nil
}

func (s *Store) GetBook(ctx context.Context, id uint) (ports.Book, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	book, ok := s.booksByID[id]
	if !ok {
		return ports.Book{}, domainerrors.ErrBookNotFound
	}
	return book, nil
}

func (s *Store) UpdateBook(ctx context.Context, book ports.Book) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.booksByID[book.ID]
	if !ok {
		return domainerrors.ErrBookNotFound
	}
	if book.ISBN != "" {
		for id, other := range s.booksByID {
			if id != book.ID && other.ISBN == book.ISBN {
				return domainerrors.ErrDuplicateISBN
			}
		}
	}
	// submitter never changes on edit
	book.SubmittedBy = existing.SubmittedBy
	book.SubmitterUsername = existing.SubmitterUsername
	s.booksByID[book.ID] = book
	return nil
}

func (s *Store) DeleteBookCascade(ctx context.Context, id uint) error {
	s.mu.Lock()
	if _, ok := s.booksByID[id]; !ok {
		s.mu.Unlock()
		return domainerrors.ErrBookNotFound
	}
	delete(s.booksByID, id)
	purge := s.ReviewPurge
	s.mu.Unlock()

	if purge != nil {
		purge(id)
	}
	return nil
}

func (s *Store) ListBooks(ctx context.Context, filter ports.Filter, pageSize int) (ports.Page, error) {
	s.mu.RLock()
	matched := make([]ports.Book, 0, len(s.booksByID))
	for _, book := range s.booksByID {
		if filter.Search != "" && !strings.Contains(strings.ToLower(book.Title), strings.ToLower(filter.Search)) {
			continue
		}
		if filter.Author != "" && !strings.Contains(strings.ToLower(book.Author), strings.ToLower(filter.Author)) {
			continue
		}
		if filter.SubmittedBy != 0 && book.SubmittedBy != filter.SubmittedBy {
			continue
		}
		matched = append(matched, book)
	}
	s.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].ID > matched[j].ID
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	page := filter.Page
	if page < 1 {
		page = 1
	}
	total := int64(len(matched))
	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))

	start := (page - 1) * pageSize
	if start > len(matched) {
		start = len(matched)
	}
	end := start + pageSize
	if end > len(matched) {
		end = len(matched)
	}

	return ports.Page{
		Items:      matched[start:end],
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
	}, nil
}

func (s *Store) CountBySubmitter(ctx context.Context, userID uint) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int64
	for _, book := range s.booksByID {
		if book.SubmittedBy == userID {
			count++
		}
	}
	return count, nil
}

func (s *Store) RecentBySubmitter(ctx context.Context, userID uint, limit int) ([]ports.Book, error) {
	s.mu.RLock()
	books := make([]ports.Book, 0)
	for _, book := range s.booksByID {
		if book.SubmittedBy == userID {
			books = append(books, book)
		}
	}
	s.mu.RUnlock()

	sort.Slice(books, func(i, j int) bool {
		if books[i].CreatedAt.Equal(books[j].CreatedAt) {
			return books[i].ID > books[j].ID
		}
		return books[i].CreatedAt.After(books[j].CreatedAt)
	})
	if limit > 0 && len(books) > limit {
		books = books[:limit]
	}
	return books, nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}
