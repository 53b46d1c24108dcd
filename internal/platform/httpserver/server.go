package httpserver

import (
	"log/slog"
	"net/http"
	"strconv"

	bookservice "bookstack/contexts/catalog/book-service"
	reviewservice "bookstack/contexts/catalog/review-service"
	notificationservice "bookstack/contexts/community-experience/notification-service"
	accountservice "bookstack/contexts/identity-access/account-service"
	accountports "bookstack/contexts/identity-access/account-service/ports"
	"bookstack/contexts/identity-access/authorization"
	admindashboardservice "bookstack/contexts/internal-ops/admin-dashboard-service"
)

const sessionCookie = "session_id"

// Modules is everything the HTTP surface composes over.
type Modules struct {
	Accounts      accountservice.Module
	Books         bookservice.Module
	Reviews       reviewservice.Module
	Notifications notificationservice.Module
	Admin         admindashboardservice.Module
}

type Server struct {
	mux      *http.ServeMux
	logger   *slog.Logger
	addr     string
	modules  Modules
	renderer *renderer
	throttle *loginThrottle
}

func New(modules Modules, logger *slog.Logger, addr string) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		mux:      http.NewServeMux(),
		logger:   logger,
		addr:     addr,
		modules:  modules,
		renderer: newRenderer(),
		throttle: newLoginThrottle(),
	}
	s.registerRoutes()
	return s
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	return http.ListenAndServe(s.addr, s.mux)
}

// Handler exposes the mux for httptest.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /{$}", s.handleIndex)
	s.mux.HandleFunc("GET /register", s.handleRegisterForm)
	s.mux.HandleFunc("POST /register", s.handleRegister)
	s.mux.HandleFunc("GET /login", s.handleLoginForm)
	s.mux.HandleFunc("POST /login", s.handleLogin)
	s.mux.HandleFunc("GET /logout", s.handleLogout)

	s.mux.HandleFunc("GET /books", s.handleListBooks)
	s.mux.HandleFunc("GET /book/{id}", s.handleBookDetail)
	s.mux.HandleFunc("GET /add_book", s.handleAddBookForm)
	s.mux.HandleFunc("POST /add_book", s.handleAddBook)
	s.mux.HandleFunc("GET /edit_book/{id}", s.handleEditBookForm)
	s.mux.HandleFunc("POST /edit_book/{id}", s.handleEditBook)
	s.mux.HandleFunc("POST /delete_book/{id}", s.handleDeleteBook)
	s.mux.HandleFunc("POST /add_review/{book_id}", s.handleAddReview)
	s.mux.HandleFunc("POST /book/{id}/contact", s.handleContactSubmitter)

	s.mux.HandleFunc("GET /{username}/dashboard", s.handleDashboard)
	s.mux.HandleFunc("GET /{username}/profile", s.handleProfile)
	s.mux.HandleFunc("GET /{username}/books", s.handleUserBooks)
	s.mux.HandleFunc("GET /{username}/change_password", s.handleChangePasswordForm)
	s.mux.HandleFunc("POST /{username}/change_password", s.handleChangePassword)

	s.mux.HandleFunc("GET /{username}/admin/dashboard", s.handleAdminDashboard)
	s.mux.HandleFunc("GET /{username}/admin/users", s.handleAdminUsers)
	s.mux.HandleFunc("GET /{username}/admin/reviews", s.handleAdminReviews)
	s.mux.HandleFunc("POST /{username}/admin/ban_user/{id}", s.handleAdminBanUser)
	s.mux.HandleFunc("POST /{username}/admin/unban_user/{id}", s.handleAdminUnbanUser)
	s.mux.HandleFunc("POST /{username}/admin/delete_review/{id}", s.handleAdminDeleteReview)

	s.mux.HandleFunc("/", s.handleNotFound)
}

// currentUser resolves the session cookie into a user, if any.
func (s *Server) currentUser(r *http.Request) (accountports.User, bool) {
	cookie, err := r.Cookie(sessionCookie)
	if err != nil {
		return accountports.User{}, false
	}
	user, ok, err := s.modules.Accounts.Service.IdentityFromSession(r.Context(), cookie.Value)
	if err != nil {
		s.logger.Error("session resolution failed",
			"event", "http_session_resolve_failed",
			"module", "internal/platform/httpserver",
			"error", err,
		)
		return accountports.User{}, false
	}
	return user, ok
}

// requireUser resolves the caller or redirects to the login page.
func (s *Server) requireUser(w http.ResponseWriter, r *http.Request) (accountports.User, bool) {
	user, ok := s.currentUser(r)
	if !ok {
		s.redirectFlash(w, r, "/login", "Please log in to access this page.")
		return accountports.User{}, false
	}
	return user, true
}

// authorize applies a decision at the edge: a denial turns into the decision's
// redirect plus flash message and reports false.
func (s *Server) authorize(w http.ResponseWriter, r *http.Request, scope authorization.Scope, identity authorization.Identity) bool {
	decision := authorization.Authorize(scope, identity)
	if decision.Allowed {
		return true
	}
	s.redirectFlash(w, r, decision.RedirectTo, decision.Message)
	return false
}

func (s *Server) redirectFlash(w http.ResponseWriter, r *http.Request, target, message string) {
	if message != "" {
		setFlash(w, message)
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func (s *Server) setSessionCookie(w http.ResponseWriter, sessionID string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    sessionID,
		Path:     "/",
		MaxAge:   24 * 60 * 60,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *Server) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	s.renderNotFound(w, r)
}

func (s *Server) renderNotFound(w http.ResponseWriter, r *http.Request) {
	user, ok := s.currentUser(r)
	s.render(w, r, http.StatusNotFound, "not_found", viewOf(user, ok, nil))
}

func pathID(r *http.Request, name string) (uint, bool) {
	id, err := strconv.ParseUint(r.PathValue(name), 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func queryPage(r *http.Request) int {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}
