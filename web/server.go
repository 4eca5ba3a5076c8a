package web

import (
	"bytes"
	"context"
	"embed"
	"html/template"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"verification-dashboard/auth"
	"verification-dashboard/dashboard"
	"verification-dashboard/models"
	"verification-dashboard/reports"
	"verification-dashboard/scraper"
)

//go:embed templates/*.html
var templateFS embed.FS

// API is the remote verification service as the dashboard uses it.
// *services.Verifier satisfies it.
type API interface {
	Login(ctx context.Context, username, password string) (string, error)
	ListCompanies(ctx context.Context, token string) ([]models.Company, error)
	SubmitVerification(ctx context.Context, token, name, website string) (models.Company, error)
	ReviewCompany(ctx context.Context, token, id string, status models.ReviewStatus) (models.Company, error)
	ReverifyCompany(ctx context.Context, token, id string) (models.Company, error)
	UpdateCompany(ctx context.Context, token, id string, update models.CompanyUpdate) (models.Company, error)
	Health(ctx context.Context) error
}

// SnapshotFunc captures a company website for the PDF export.
type SnapshotFunc func(ctx context.Context, website string) (*scraper.Snapshot, error)

type Options struct {
	Notifier *reports.Notifier
	Snapshot SnapshotFunc
}

type Server struct {
	api        API
	sessions   *auth.Manager
	workspaces *dashboard.Registry
	notifier   *reports.Notifier
	snapshot   SnapshotFunc
	pages      *template.Template
}

func New(api API, sessions *auth.Manager, workspaces *dashboard.Registry, opts Options) (*Server, error) {
	pages, err := template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &Server{
		api:        api,
		sessions:   sessions,
		workspaces: workspaces,
		notifier:   opts.Notifier,
		snapshot:   opts.Snapshot,
		pages:      pages,
	}, nil
}

func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.health)
	r.Get("/login", s.loginPage)
	r.Post("/login", s.login)

	r.Group(func(r chi.Router) {
		r.Use(s.sessions.Middleware)
		r.Post("/logout", s.logout)
		r.Get("/", s.dashboardPage)
		r.Post("/verify", s.submitVerification)
		r.Route("/companies/{id}", func(r chi.Router) {
			r.Get("/", s.reportPage)
			r.Post("/review", s.review)
			r.Post("/reverify", s.reverify)
			r.Post("/update", s.update)
			r.Get("/export/json", s.exportJSON)
			r.Get("/export/pdf", s.exportPDF)
		})
	})
	return r
}

// workspace returns the caller's per-session state. Only valid behind the
// session middleware.
func (s *Server) workspace(r *http.Request) (*dashboard.Workspace, auth.Principal) {
	p, _ := auth.FromContext(r.Context())
	token := p.Token
	ws := s.workspaces.Workspace(p.SessionID, func(ctx context.Context) ([]models.Company, error) {
		return s.api.ListCompanies(ctx, token)
	})
	return ws, p
}

func (s *Server) render(w http.ResponseWriter, status int, name string, data any) {
	var buf bytes.Buffer
	if err := s.pages.ExecuteTemplate(&buf, name, data); err != nil {
		log.Printf("render %s: %v", name, err)
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
