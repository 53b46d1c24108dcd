package httpserver

import (
	"errors"
	"net/http"

	bookports "bookstack/contexts/catalog/book-service/ports"
	accountapp "bookstack/contexts/identity-access/account-service/application"
	accounterrors "bookstack/contexts/identity-access/account-service/domain/errors"
	accountports "bookstack/contexts/identity-access/account-service/ports"
	"bookstack/contexts/identity-access/authorization"
)

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	user, ok := s.currentUser(r)
	if ok {
		http.Redirect(w, r, landingPath(user), http.StatusSeeOther)
		return
	}
	s.render(w, r, http.StatusOK, "index", viewOf(user, ok, nil))
}

// landingPath is the role-dependent home of an authenticated user.
func landingPath(user accountports.User) string {
	if user.Role == authorization.RoleAdmin {
		return "/" + user.Username + "/admin/dashboard"
	}
	return "/" + user.Username + "/dashboard"
}

func (s *Server) handleRegisterForm(w http.ResponseWriter, r *http.Request) {
	user, ok := s.currentUser(r)
	s.render(w, r, http.StatusOK, "register", viewOf(user, ok, nil))
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.redirectFlash(w, r, "/register", "Invalid form submission.")
		return
	}

	_, err := s.modules.Accounts.Service.Register(r.Context(), accountapp.RegisterInput{
		Username: r.PostFormValue("username"),
		Email:    r.PostFormValue("email"),
		Password: r.PostFormValue("password"),
		FullName: r.PostFormValue("full_name"),
		Bio:      r.PostFormValue("bio"),
	})
	switch {
	case errors.Is(err, accounterrors.ErrUsernameTaken):
		s.redirectFlash(w, r, "/register", "Username already exists")
	case errors.Is(err, accounterrors.ErrEmailTaken):
		s.redirectFlash(w, r, "/register", "Email already registered")
	case errors.Is(err, accounterrors.ErrInvalidInput):
		s.redirectFlash(w, r, "/register", "Please fill in all fields correctly.")
	case err != nil:
		s.internalError(w, r, err)
	default:
		s.redirectFlash(w, r, "/login", "Registration successful!")
	}
}

func (s *Server) handleLoginForm(w http.ResponseWriter, r *http.Request) {
	user, ok := s.currentUser(r)
	s.render(w, r, http.StatusOK, "login", viewOf(user, ok, nil))
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.redirectFlash(w, r, "/login", "Invalid form submission.")
		return
	}
	username := r.PostFormValue("username")

	if !s.throttle.allow(username, clientIP(r)) {
		s.redirectFlash(w, r, "/login", "Too many login attempts. Please try again later.")
		return
	}

	user, sessionID, err := s.modules.Accounts.Service.Login(r.Context(), username, r.PostFormValue("password"))
	switch {
	case errors.Is(err, accounterrors.ErrAccountBanned):
		s.redirectFlash(w, r, "/login", "Your account has been banned. Please contact the administrator.")
	case errors.Is(err, accounterrors.ErrInvalidCredentials):
		s.redirectFlash(w, r, "/login", "Invalid username or password")
	case err != nil:
		s.internalError(w, r, err)
	default:
		s.setSessionCookie(w, sessionID)
		http.Redirect(w, r, landingPath(user), http.StatusSeeOther)
	}
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(sessionCookie); err == nil {
		_ = s.modules.Accounts.Service.Logout(r.Context(), cookie.Value)
	}
	s.clearSessionCookie(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	user, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	if !s.authorize(w, r, authorization.PageScope(r.PathValue("username"), "dashboard"), user.Identity()) {
		return
	}

	dashboard, err := s.modules.Accounts.Service.Dashboard(r.Context(), user.ID)
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	s.render(w, r, http.StatusOK, "dashboard", viewOf(user, true, dashboard))
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	if !s.authorize(w, r, authorization.PageScope(r.PathValue("username"), "profile"), user.Identity()) {
		return
	}
	s.render(w, r, http.StatusOK, "profile", viewOf(user, true, user))
}

type userBooksView struct {
	Books    bookports.Page
	Search   string
	Author   string
	Base     string
	PrevPage int
	NextPage int
}

func (s *Server) handleUserBooks(w http.ResponseWriter, r *http.Request) {
	user, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	if !s.authorize(w, r, authorization.PageScope(r.PathValue("username"), "books"), user.Identity()) {
		return
	}

	query := r.URL.Query()
	page, err := s.modules.Books.Service.ListBooks(r.Context(), bookports.Filter{
		Search:      query.Get("search"),
		Author:      query.Get("author"),
		SubmittedBy: user.ID,
		Page:        queryPage(r),
	})
	if err != nil {
		s.internalError(w, r, err)
		return
	}

	s.render(w, r, http.StatusOK, "books", viewOf(user, true, userBooksView{
		Books:    page,
		Search:   query.Get("search"),
		Author:   query.Get("author"),
		Base:     "/" + user.Username + "/books",
		PrevPage: page.Page - 1,
		NextPage: page.Page + 1,
	}))
}

type changePasswordView struct {
	Action string
}

func (s *Server) handleChangePasswordForm(w http.ResponseWriter, r *http.Request) {
	user, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	if !s.authorize(w, r, authorization.PageScope(r.PathValue("username"), "change_password"), user.Identity()) {
		return
	}
	s.render(w, r, http.StatusOK, "change_password", viewOf(user, true, changePasswordView{
		Action: "/" + user.Username + "/change_password",
	}))
}

func (s *Server) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	user, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	if !s.authorize(w, r, authorization.PageScope(r.PathValue("username"), "change_password"), user.Identity()) {
		return
	}
	if err := r.ParseForm(); err != nil {
		s.redirectFlash(w, r, "/"+user.Username+"/change_password", "Invalid form submission.")
		return
	}

	err := s.modules.Accounts.Service.ChangePassword(
		r.Context(),
		user.ID,
		r.PostFormValue("current_password"),
		r.PostFormValue("new_password"),
		r.PostFormValue("confirm_password"),
	)
	formPath := "/" + user.Username + "/change_password"
	switch {
	case errors.Is(err, accounterrors.ErrWrongPassword):
		s.redirectFlash(w, r, formPath, "Current password is incorrect.")
	case errors.Is(err, accounterrors.ErrPasswordMismatch):
		s.redirectFlash(w, r, formPath, "New passwords do not match.")
	case errors.Is(err, accounterrors.ErrPasswordTooShort):
		s.redirectFlash(w, r, formPath, "New password must be at least 6 characters long.")
	case err != nil:
		s.internalError(w, r, err)
	default:
		s.redirectFlash(w, r, "/"+user.Username+"/dashboard", "Password changed successfully!")
	}
}

func (s *Server) internalError(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.Error("request failed",
		"event", "http_request_failed",
		"module", "internal/platform/httpserver",
		"path", r.URL.Path,
		"error", err,
	)
	http.Error(w, "internal server error", http.StatusInternalServerError)
}
