package httpserver

import (
	"errors"
	"net/http"

	reviewerrors "bookstack/contexts/catalog/review-service/domain/errors"
	reviewports "bookstack/contexts/catalog/review-service/ports"
	accountports "bookstack/contexts/identity-access/account-service/ports"
	"bookstack/contexts/identity-access/authorization"
	adminerrors "bookstack/contexts/internal-ops/admin-dashboard-service/domain/errors"
	adminports "bookstack/contexts/internal-ops/admin-dashboard-service/ports"
)

// requireAdmin gates every admin route: login, admin role, and the username
// URL segment all have to line up.
func (s *Server) requireAdmin(w http.ResponseWriter, r *http.Request, pagePath string) (accountports.User, bool) {
	user, ok := s.requireUser(w, r)
	if !ok {
		return accountports.User{}, false
	}
	if !s.authorize(w, r, authorization.AdminScope(), user.Identity()) {
		return accountports.User{}, false
	}
	if !s.authorize(w, r, authorization.PageScope(r.PathValue("username"), pagePath), user.Identity()) {
		return accountports.User{}, false
	}
	return user, true
}

func (s *Server) handleAdminDashboard(w http.ResponseWriter, r *http.Request) {
	user, ok := s.requireAdmin(w, r, "admin/dashboard")
	if !ok {
		return
	}

	overview, err := s.modules.Admin.Service.Overview(r.Context())
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	s.render(w, r, http.StatusOK, "admin_dashboard", viewOf(user, true, overview))
}

type adminUsersView struct {
	Users      adminports.UserPage
	Search     string
	Base       string
	ActionBase string
	PrevPage   int
	NextPage   int
}

func (s *Server) handleAdminUsers(w http.ResponseWriter, r *http.Request) {
	user, ok := s.requireAdmin(w, r, "admin/users")
	if !ok {
		return
	}

	search := r.URL.Query().Get("search")
	page, err := s.modules.Admin.Service.ListUsers(r.Context(), search, queryPage(r))
	if err != nil {
		s.internalError(w, r, err)
		return
	}

	s.render(w, r, http.StatusOK, "admin_users", viewOf(user, true, adminUsersView{
		Users:      page,
		Search:     search,
		Base:       "/" + user.Username + "/admin/users",
		ActionBase: "/" + user.Username + "/admin",
		PrevPage:   page.Page - 1,
		NextPage:   page.Page + 1,
	}))
}

type adminReviewsView struct {
	Reviews    reviewports.Page
	Base       string
	ActionBase string
	PrevPage   int
	NextPage   int
}

func (s *Server) handleAdminReviews(w http.ResponseWriter, r *http.Request) {
	user, ok := s.requireAdmin(w, r, "admin/reviews")
	if !ok {
		return
	}

	page, err := s.modules.Reviews.Service.ListRecent(r.Context(), queryPage(r))
	if err != nil {
		s.internalError(w, r, err)
		return
	}

	s.render(w, r, http.StatusOK, "admin_reviews", viewOf(user, true, adminReviewsView{
		Reviews:    page,
		Base:       "/" + user.Username + "/admin/reviews",
		ActionBase: "/" + user.Username + "/admin",
		PrevPage:   page.Page - 1,
		NextPage:   page.Page + 1,
	}))
}

func (s *Server) handleAdminBanUser(w http.ResponseWriter, r *http.Request) {
	user, ok := s.requireAdmin(w, r, "admin/users")
	if !ok {
		return
	}
	id, ok := pathID(r, "id")
	if !ok {
		s.renderNotFound(w, r)
		return
	}

	usersPath := "/" + user.Username + "/admin/users"
	username, err := s.modules.Admin.Service.BanUser(r.Context(), id)
	switch {
	case errors.Is(err, adminerrors.ErrCannotBanAdmin):
		s.redirectFlash(w, r, usersPath, "Cannot ban an admin user.")
	case errors.Is(err, adminerrors.ErrUserNotFound):
		s.renderNotFound(w, r)
	case err != nil:
		s.internalError(w, r, err)
	default:
		s.redirectFlash(w, r, usersPath, "User "+username+" has been banned.")
	}
}

func (s *Server) handleAdminUnbanUser(w http.ResponseWriter, r *http.Request) {
	user, ok := s.requireAdmin(w, r, "admin/users")
	if !ok {
		return
	}
	id, ok := pathID(r, "id")
	if !ok {
		s.renderNotFound(w, r)
		return
	}

	username, err := s.modules.Admin.Service.UnbanUser(r.Context(), id)
	switch {
	case errors.Is(err, adminerrors.ErrUserNotFound):
		s.renderNotFound(w, r)
	case err != nil:
		s.internalError(w, r, err)
	default:
		s.redirectFlash(w, r, "/"+user.Username+"/admin/users", "User "+username+" has been unbanned.")
	}
}

func (s *Server) handleAdminDeleteReview(w http.ResponseWriter, r *http.Request) {
	user, ok := s.requireAdmin(w, r, "admin/reviews")
	if !ok {
		return
	}
	id, ok := pathID(r, "id")
	if !ok {
		s.renderNotFound(w, r)
		return
	}

	err := s.modules.Admin.Service.DeleteReview(r.Context(), id)
	switch {
	case errors.Is(err, reviewerrors.ErrReviewNotFound):
		s.renderNotFound(w, r)
	case err != nil:
		s.internalError(w, r, err)
	default:
		s.redirectFlash(w, r, "/"+user.Username+"/admin/reviews", "Review has been deleted.")
	}
}
