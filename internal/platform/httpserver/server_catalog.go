package httpserver

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	bookapp "bookstack/contexts/catalog/book-service/application"
	bookerrors "bookstack/contexts/catalog/book-service/domain/errors"
	bookports "bookstack/contexts/catalog/book-service/ports"
	reviewapp "bookstack/contexts/catalog/review-service/application"
	reviewerrors "bookstack/contexts/catalog/review-service/domain/errors"
	reviewports "bookstack/contexts/catalog/review-service/ports"
	accountports "bookstack/contexts/identity-access/account-service/ports"
	"bookstack/contexts/identity-access/authorization"
)

type booksView struct {
	Books    bookports.Page
	Search   string
	Author   string
	Base     string
	PrevPage int
	NextPage int
}

func (s *Server) handleListBooks(w http.ResponseWriter, r *http.Request) {
	user, loggedIn := s.currentUser(r)

	query := r.URL.Query()
	page, err := s.modules.Books.Service.ListBooks(r.Context(), bookports.Filter{
		Search: query.Get("search"),
		Author: query.Get("author"),
		Page:   queryPage(r),
	})
	if err != nil {
		s.internalError(w, r, err)
		return
	}

	s.render(w, r, http.StatusOK, "books", viewOf(user, loggedIn, booksView{
		Books:    page,
		Search:   query.Get("search"),
		Author:   query.Get("author"),
		Base:     "/books",
		PrevPage: page.Page - 1,
		NextPage: page.Page + 1,
	}))
}

type bookDetailView struct {
	Book    bookports.Book
	Reviews []reviewports.Review
}

func (s *Server) handleBookDetail(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		s.renderNotFound(w, r)
		return
	}

	book, err := s.modules.Books.Service.GetBook(r.Context(), id)
	if err != nil {
		if errors.Is(err, bookerrors.ErrBookNotFound) {
			s.renderNotFound(w, r)
			return
		}
		s.internalError(w, r, err)
		return
	}

	reviews, err := s.modules.Reviews.Service.ListByBook(r.Context(), id)
	if err != nil {
		s.internalError(w, r, err)
		return
	}

	user, loggedIn := s.currentUser(r)
	s.render(w, r, http.StatusOK, "book_detail", viewOf(user, loggedIn, bookDetailView{
		Book:    book,
		Reviews: reviews,
	}))
}

type bookFormView struct {
	Action  string
	Book    bookports.Book
	Editing bool
}

func (s *Server) handleAddBookForm(w http.ResponseWriter, r *http.Request) {
	user, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	s.render(w, r, http.StatusOK, "book_form", viewOf(user, true, bookFormView{Action: "/add_book"}))
}

func bookInputFromForm(r *http.Request) bookapp.BookInput {
	return bookapp.BookInput{
		Title:         r.PostFormValue("title"),
		Author:        r.PostFormValue("author"),
		ISBN:          r.PostFormValue("isbn"),
		Description:   r.PostFormValue("description"),
		PublishedDate: r.PostFormValue("published_date"),
	}
}

func flashBookInputError(err error) string {
	switch {
	case errors.Is(err, bookerrors.ErrInvalidPublishedDate):
		return "Published date must be in YYYY-MM-DD format."
	case errors.Is(err, bookerrors.ErrDuplicateISBN):
		return "A book with this ISBN already exists."
	default:
		return "Please fill in all required fields."
	}
}

func (s *Server) handleAddBook(w http.ResponseWriter, r *http.Request) {
	user, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		s.redirectFlash(w, r, "/add_book", "Invalid form submission.")
		return
	}

	book, err := s.modules.Books.Service.AddBook(r.Context(), user.ID, user.Username, bookInputFromForm(r))
	switch {
	case errors.Is(err, bookerrors.ErrInvalidBookInput),
		errors.Is(err, bookerrors.ErrInvalidPublishedDate),
		errors.Is(err, bookerrors.ErrDuplicateISBN):
		s.redirectFlash(w, r, "/add_book", flashBookInputError(err))
	case err != nil:
		s.internalError(w, r, err)
	default:
		s.redirectFlash(w, r, bookPath(book.ID), "Book added successfully!")
	}
}

func (s *Server) handleEditBookForm(w http.ResponseWriter, r *http.Request) {
	user, book, ok := s.ownedBook(w, r, "edit this book")
	if !ok {
		return
	}
	s.render(w, r, http.StatusOK, "book_form", viewOf(user, true, bookFormView{
		Action:  fmt.Sprintf("/edit_book/%d", book.ID),
		Book:    book,
		Editing: true,
	}))
}

func (s *Server) handleEditBook(w http.ResponseWriter, r *http.Request) {
	_, book, ok := s.ownedBook(w, r, "edit this book")
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		s.redirectFlash(w, r, fmt.Sprintf("/edit_book/%d", book.ID), "Invalid form submission.")
		return
	}

	err := s.modules.Books.Service.UpdateBook(r.Context(), book.ID, bookInputFromForm(r))
	switch {
	case errors.Is(err, bookerrors.ErrInvalidBookInput),
		errors.Is(err, bookerrors.ErrInvalidPublishedDate),
		errors.Is(err, bookerrors.ErrDuplicateISBN):
		s.redirectFlash(w, r, fmt.Sprintf("/edit_book/%d", book.ID), flashBookInputError(err))
	case err != nil:
		s.internalError(w, r, err)
	default:
		s.redirectFlash(w, r, bookPath(book.ID), "Book updated successfully!")
	}
}

func (s *Server) handleDeleteBook(w http.ResponseWriter, r *http.Request) {
	_, book, ok := s.ownedBook(w, r, "delete this book")
	if !ok {
		return
	}

	if err := s.modules.Books.Service.DeleteBook(r.Context(), book.ID); err != nil {
		s.internalError(w, r, err)
		return
	}
	s.redirectFlash(w, r, "/books", "Book deleted successfully!")
}

// ownedBook loads the addressed book and applies record-scope authorization.
// A missing book renders 404; a denied caller is redirected to the detail
// page with a flash message.
func (s *Server) ownedBook(w http.ResponseWriter, r *http.Request, action string) (accountports.User, bookports.Book, bool) {
	user, ok := s.requireUser(w, r)
	if !ok {
		return accountports.User{}, bookports.Book{}, false
	}
	id, ok := pathID(r, "id")
	if !ok {
		s.renderNotFound(w, r)
		return accountports.User{}, bookports.Book{}, false
	}

	book, err := s.modules.Books.Service.GetBook(r.Context(), id)
	if err != nil {
		if errors.Is(err, bookerrors.ErrBookNotFound) {
			s.renderNotFound(w, r)
		} else {
			s.internalError(w, r, err)
		}
		return accountports.User{}, bookports.Book{}, false
	}

	if !s.authorize(w, r, authorization.RecordScope(book.SubmittedBy, action, bookPath(book.ID)), user.Identity()) {
		return accountports.User{}, bookports.Book{}, false
	}
	return user, book, true
}

func (s *Server) handleAddReview(w http.ResponseWriter, r *http.Request) {
	user, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	bookID, ok := pathID(r, "book_id")
	if !ok {
		s.renderNotFound(w, r)
		return
	}

	book, err := s.modules.Books.Service.GetBook(r.Context(), bookID)
	if err != nil {
		if errors.Is(err, bookerrors.ErrBookNotFound) {
			s.renderNotFound(w, r)
			return
		}
		s.internalError(w, r, err)
		return
	}

	if err := r.ParseForm(); err != nil {
		s.redirectFlash(w, r, bookPath(bookID), "Invalid form submission.")
		return
	}

	rating, err := strconv.Atoi(r.PostFormValue("rating"))
	if err != nil {
		s.redirectFlash(w, r, bookPath(bookID), "Rating must be a number between 1 and 5.")
		return
	}

	_, err = s.modules.Reviews.Service.AddReview(r.Context(), reviewapp.AddReviewInput{
		BookID:         book.ID,
		BookTitle:      book.Title,
		AuthorID:       user.ID,
		AuthorUsername: user.Username,
		Rating:         rating,
		Comment:        r.PostFormValue("comment"),
	})
	switch {
	case errors.Is(err, reviewerrors.ErrInvalidRating):
		s.redirectFlash(w, r, bookPath(bookID), "Rating must be between 1 and 5.")
	case err != nil:
		s.internalError(w, r, err)
	default:
		s.redirectFlash(w, r, bookPath(bookID), "Review added successfully!")
	}
}

func bookPath(id uint) string {
	return fmt.Sprintf("/book/%d", id)
}
