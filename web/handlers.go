package web

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"verification-dashboard/auth"
	"verification-dashboard/dashboard"
	"verification-dashboard/models"
	"verification-dashboard/reports"
	"verification-dashboard/services"
)

type loginData struct {
	Error    string
	Username string
}

type dashboardData struct {
	Username  string
	View      dashboard.View
	Companies []models.Company
	Stats     dashboard.Stats
	Loaded    bool
}

type reportData struct {
	Username string
	Company  models.Company
	View     dashboard.View
}

func (s *Server) loginPage(w http.ResponseWriter, r *http.Request) {
	if _, err := s.sessions.Authenticate(r); err == nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	s.render(w, http.StatusOK, "login.html", loginData{})
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	username := strings.TrimSpace(r.FormValue("username"))
	password := r.FormValue("password")

	flow := auth.NewLoginFlow(s.api)
	if err := flow.Submit(r.Context(), username, password); err != nil {
		s.render(w, http.StatusOK, "login.html", loginData{Error: flow.Message(), Username: username})
		return
	}

	cookie, _, err := s.sessions.Start(r.Context(), username, flow.Token())
	if err != nil {
		log.Printf("start session for %s: %v", username, err)
		s.render(w, http.StatusOK, "login.html", loginData{Error: auth.MsgGeneric, Username: username})
		return
	}
	http.SetCookie(w, cookie)
	log.Printf("operator %s signed in", username)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	p, _ := auth.FromContext(r.Context())
	s.signOut(w, r, p)
	log.Printf("operator %s signed out", p.Username)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (s *Server) signOut(w http.ResponseWriter, r *http.Request, p auth.Principal) {
	cookie, err := s.sessions.End(r.Context(), p.SessionID)
	if err != nil {
		log.Printf("end session %s: %v", p.SessionID, err)
	}
	s.workspaces.Drop(p.SessionID)
	http.SetCookie(w, cookie)
}

// fail logs a failed action and sends the operator back to redirect. A
// rejected credential ends the session instead.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, op string, err error, redirect string) {
	log.Printf("Error %s: %v", op, err)
	if services.IsUnauthorized(err) {
		p, _ := auth.FromContext(r.Context())
		s.signOut(w, r, p)
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, redirect, http.StatusSeeOther)
}

func (s *Server) dashboardPage(w http.ResponseWriter, r *http.Request) {
	ws, p := s.workspace(r)
	// Coming back to the table closes any open report.
	ws.ClearSelection()

	view := dashboard.ParseView(r.URL.Query())
	companies, err := ws.List.Get(r.Context())
	if err != nil {
		log.Printf("Error fetching companies: %v", err)
		if services.IsUnauthorized(err) {
			s.signOut(w, r, p)
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
	}
	_, loaded := ws.List.Snapshot()

	s.render(w, http.StatusOK, "dashboard.html", dashboardData{
		Username:  p.Username,
		View:      view,
		Companies: dashboard.Apply(companies, view),
		Stats:     dashboard.Summarize(companies),
		Loaded:    loaded,
	})
}

func (s *Server) submitVerification(w http.ResponseWriter, r *http.Request) {
	ws, p := s.workspace(r)
	back := dashboardPath(viewOf(r))
	name := strings.TrimSpace(r.FormValue("name"))
	website := strings.TrimSpace(r.FormValue("website"))
	if name == "" || website == "" {
		log.Printf("Error verifying company: name and website are required")
		http.Redirect(w, r, back, http.StatusSeeOther)
		return
	}

	created, err := s.api.SubmitVerification(r.Context(), p.Token, name, website)
	if err != nil {
		s.fail(w, r, "verifying company", err, back)
		return
	}
	log.Printf("verification submitted for %s (%s) as %s", name, website, created.ID)
	ws.List.Invalidate()
	http.Redirect(w, r, back, http.StatusSeeOther)
}

func (s *Server) reportPage(w http.ResponseWriter, r *http.Request) {
	ws, p := s.workspace(r)
	company, ok := s.open(w, r, ws)
	if !ok {
		return
	}
	s.render(w, http.StatusOK, "report.html", reportData{Username: p.Username, Company: company, View: viewOf(r)})
}

// open resolves the {id} route parameter to a company, writing the error
// response itself when it cannot.
func (s *Server) open(w http.ResponseWriter, r *http.Request, ws *dashboard.Workspace) (models.Company, bool) {
	id := chi.URLParam(r, "id")
	company, found, err := ws.Open(r.Context(), id)
	if err != nil {
		log.Printf("Error fetching companies: %v", err)
		if services.IsUnauthorized(err) {
			p, _ := auth.FromContext(r.Context())
			s.signOut(w, r, p)
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return models.Company{}, false
		}
	}
	if !found {
		http.Error(w, "Company not found", http.StatusNotFound)
		return models.Company{}, false
	}
	return company, true
}

// viewOf is the table state the operator came from: the hidden "view" form
// field on actions, the query string on pages.
func viewOf(r *http.Request) dashboard.View {
	if raw := r.PostFormValue("view"); raw != "" {
		q, err := url.ParseQuery(raw)
		if err == nil {
			return dashboard.ParseView(q)
		}
	}
	return dashboard.ParseView(r.URL.Query())
}

func dashboardPath(v dashboard.View) string {
	return "/?" + v.Query().Encode()
}

func reportPath(id string, v dashboard.View) string {
	return "/companies/" + url.PathEscape(id) + "?" + v.Query().Encode()
}

func (s *Server) review(w http.ResponseWriter, r *http.Request) {
	ws, p := s.workspace(r)
	id := chi.URLParam(r, "id")
	view := viewOf(r)
	status := models.ReviewStatus(r.FormValue("status"))

	updated, err := s.api.ReviewCompany(r.Context(), p.Token, id, status)
	if err != nil {
		s.fail(w, r, "reviewing company", err, reportPath(id, view))
		return
	}
	log.Printf("company %s %s by %s", id, status, p.Username)
	ws.ClearSelection()
	ws.List.Invalidate()

	if s.notifier.Enabled() {
		go func(ctx context.Context) {
			ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
			defer cancel()
			if err := s.notifier.ReviewDecision(ctx, updated, p.Username); err != nil {
				log.Printf("slack notification for company %s failed: %v", id, err)
			}
		}(context.WithoutCancel(r.Context()))
	}
	http.Redirect(w, r, dashboardPath(view), http.StatusSeeOther)
}

func (s *Server) reverify(w http.ResponseWriter, r *http.Request) {
	ws, p := s.workspace(r)
	id := chi.URLParam(r, "id")
	view := viewOf(r)

	updated, err := s.api.ReverifyCompany(r.Context(), p.Token, id)
	if err != nil {
		s.fail(w, r, "re-verifying company", err, reportPath(id, view))
		return
	}
	ws.Select(updated)
	ws.List.Invalidate()
	http.Redirect(w, r, reportPath(id, view), http.StatusSeeOther)
}

func (s *Server) update(w http.ResponseWriter, r *http.Request) {
	ws, p := s.workspace(r)
	id := chi.URLParam(r, "id")
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}
	view := viewOf(r)

	var upd models.CompanyUpdate
	if v := strings.TrimSpace(r.PostForm.Get("name")); v != "" {
		upd.Name = &v
	}
	if v := strings.TrimSpace(r.PostForm.Get("website")); v != "" {
		upd.Website = &v
	}
	if upd.Name == nil && upd.Website == nil {
		http.Redirect(w, r, reportPath(id, view), http.StatusSeeOther)
		return
	}

	updated, err := s.api.UpdateCompany(r.Context(), p.Token, id, upd)
	if err != nil {
		s.fail(w, r, "updating company", err, reportPath(id, view))
		return
	}
	ws.Select(updated)
	ws.List.Invalidate()
	http.Redirect(w, r, reportPath(id, view), http.StatusSeeOther)
}

func (s *Server) exportJSON(w http.ResponseWriter, r *http.Request) {
	ws, _ := s.workspace(r)
	company, ok := s.open(w, r, ws)
	if !ok {
		return
	}

	raw, err := reports.GenerateJSON(company)
	if err != nil {
		http.Error(w, "Failed to generate JSON", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=company-%s.json", company.ID))
	_, _ = w.Write(raw)
}

func (s *Server) exportPDF(w http.ResponseWriter, r *http.Request) {
	ws, _ := s.workspace(r)
	company, ok := s.open(w, r, ws)
	if !ok {
		return
	}

	var screenshot []byte
	if s.snapshot != nil && company.Website != "" {
		snap, err := s.snapshot(r.Context(), company.Website)
		if err != nil {
			log.Printf("snapshot of %s failed: %v", company.Website, err)
		} else {
			screenshot = snap.Screenshot
		}
	}

	buf, err := reports.GeneratePDF(company, screenshot)
	if err != nil {
		log.Printf("pdf for company %s: %v", company.ID, err)
		http.Error(w, "Failed to generate PDF", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=company-%s.pdf", company.ID))
	_, _ = buf.WriteTo(w)
}

type healthResponse struct {
	Status   string `json:"status"`
	Upstream string `json:"upstream"`
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{Status: "ok", Upstream: "ok"}
	code := http.StatusOK
	if err := s.api.Health(r.Context()); err != nil {
		log.Printf("upstream health: %v", err)
		resp.Upstream = "unavailable"
		code = http.StatusServiceUnavailable
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(resp)
}
