package httpserver

import (
	"errors"
	"net/http"

	bookerrors "bookstack/contexts/catalog/book-service/domain/errors"
	notificationapp "bookstack/contexts/community-experience/notification-service/application"
	notificationerrors "bookstack/contexts/community-experience/notification-service/domain/errors"
	"bookstack/contexts/identity-access/authorization"
)

func (s *Server) handleContactSubmitter(w http.ResponseWriter, r *http.Request) {
	user, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	bookID, ok := pathID(r, "id")
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

	detail := bookPath(book.ID)
	if !s.authorize(w, r, authorization.SelfContactScope(book.SubmittedBy, detail), user.Identity()) {
		return
	}

	if err := r.ParseForm(); err != nil {
		s.redirectFlash(w, r, detail, "Invalid form submission.")
		return
	}

	submitter, err := s.modules.Accounts.Service.GetUser(r.Context(), book.SubmittedBy)
	if err != nil {
		s.internalError(w, r, err)
		return
	}

	err = s.modules.Notifications.Service.ContactSubmitter(r.Context(), notificationapp.ContactInput{
		BookTitle:         book.Title,
		SubmitterID:       submitter.ID,
		SubmitterUsername: submitter.Username,
		SubmitterEmail:    submitter.Email,
		SenderID:          user.ID,
		SenderUsername:    user.Username,
		SenderEmail:       user.Email,
		Subject:           r.PostFormValue("subject"),
		Body:              r.PostFormValue("body"),
	})
	switch {
	case errors.Is(err, notificationerrors.ErrSelfContact):
		s.redirectFlash(w, r, detail, "You cannot send a message to yourself.")
	case errors.Is(err, notificationerrors.ErrEmptyMessage):
		s.redirectFlash(w, r, detail, "Subject and message are required.")
	case errors.Is(err, notificationerrors.ErrSendFailed):
		s.redirectFlash(w, r, detail, "Failed to send message. Please try again later or contact "+submitter.Email+" directly.")
	case err != nil:
		s.internalError(w, r, err)
	default:
		s.redirectFlash(w, r, detail, "Your message has been sent to "+submitter.Username+"!")
	}
}
