package httpserver

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"

	accountports "bookstack/contexts/identity-access/account-service/ports"
)

//go:embed templates/*.html
var templateFS embed.FS

var pages = []string{
	"index",
	"register",
	"login",
	"books",
	"book_detail",
	"book_form",
	"dashboard",
	"profile",
	"change_password",
	"admin_dashboard",
	"admin_users",
	"admin_reviews",
	"not_found",
}

// view is the envelope every template receives.
type view struct {
	Flash    string
	LoggedIn bool
	User     accountports.User
	Data     any
}

func viewOf(user accountports.User, loggedIn bool, data any) view {
	return view{LoggedIn: loggedIn, User: user, Data: data}
}

type renderer struct {
	templates map[string]*template.Template
}

func newRenderer() *renderer {
	templates := make(map[string]*template.Template, len(pages))
	for _, page := range pages {
		templates[page] = template.Must(template.ParseFS(
			templateFS,
			"templates/layout.html",
			"templates/"+page+".html",
		))
	}
	return &renderer{templates: templates}
}

func (rd *renderer) execute(w http.ResponseWriter, status int, page string, data view) error {
	tmpl, ok := rd.templates[page]
	if !ok {
		return fmt.Errorf("unknown template %q", page)
	}

	// render to a buffer first so a template error never leaves a half
	// written response behind
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		return err
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, page string, data view) {
	data.Flash = popFlash(w, r)
	if err := s.renderer.execute(w, status, page, data); err != nil {
		s.logger.Error("template render failed",
			"event", "http_render_failed",
			"module", "internal/platform/httpserver",
			"page", page,
			"error", err,
		)
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}
