// Package fixture is a hermetic stand-in for the AIrWAVE web application. It
// serves the login, dashboard, asset, matrix and strategy screens with the
// markup the suite's locator chains expect, so browser tests run without an
// external deployment.
package fixture

import (
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"github.com/microcosm-cc/bluemonday"

	"github.com/redbaez/airwave-e2e/internal/assetstore"
	"github.com/redbaez/airwave-e2e/internal/obs"
	"github.com/redbaez/airwave-e2e/internal/ratelimit"
)

// DefaultClients are the client workspaces every session starts with.
var DefaultClients = []string{"Acme Beverages", "Globex Retail", "Initech Travel"}

const defaultBrief = `# Summer Splash 2026

Acme's flagship seasonal campaign. **Hero assets** roll out across social
and retail screens; the matrix drives per-format render generation.

- Audience: 18-34, urban
- Flight: Dec 2026 through Feb 2027
`

// Options configures a fixture server.
type Options struct {
	// Store receives uploaded asset bytes. Nil keeps uploads index-only.
	Store *assetstore.Store
	// Clients overrides DefaultClients.
	Clients []string
	// Brief is the dashboard campaign brief in markdown.
	Brief string
	// ProgressInterval is the gap between generation progress frames.
	ProgressInterval time.Duration
	// LoginLimit overrides the per-email login rate limit.
	LoginLimit *ratelimit.Config
}

// Server is the fixture application.
type Server struct {
	sessions         *Sessions
	library          *Library
	clients          []string
	brief            template.HTML
	progressInterval time.Duration
	log              *slog.Logger
}

// NewServer builds a fixture server. Seed accounts with Sessions().Seed.
func NewServer(opts Options) *Server {
	clients := opts.Clients
	if len(clients) == 0 {
		clients = DefaultClients
	}
	brief := opts.Brief
	if brief == "" {
		brief = defaultBrief
	}
	interval := opts.ProgressInterval
	if interval <= 0 {
		interval = 50 * time.Millisecond
	}
	limit := ratelimit.DefaultConfig
	if opts.LoginLimit != nil {
		limit = *opts.LoginLimit
	}
	return &Server{
		sessions:         NewSessionsWithLimit(limit),
		library:          NewLibrary(opts.Store),
		clients:          clients,
		brief:            renderMarkdown(brief),
		progressInterval: interval,
		log:              obs.Pkg("fixture"),
	}
}

// Sessions exposes the session table for seeding and inspection.
func (s *Server) Sessions() *Sessions {
	return s.sessions
}

// Library exposes the asset index for assertions.
func (s *Server) Library() *Library {
	return s.library
}

// ResetState clears sessions and the asset index between tests that share
// one server.
func (s *Server) ResetState() {
	s.sessions.RevokeAll()
	s.library.Reset()
}

// Close releases server resources.
func (s *Server) Close() {
	s.sessions.Close()
}

// Handler returns the fixture's HTTP handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/dashboard", http.StatusFound)
	})
	mux.HandleFunc("GET /login", s.handleLoginPage)
	mux.HandleFunc("POST /login", s.handleLogin)
	mux.HandleFunc("POST /login/demo", s.handleLoginDemo)
	mux.HandleFunc("POST /logout", s.handleLogout)
	mux.HandleFunc("POST /client", s.requireSession(s.handleSelectClient))
	mux.HandleFunc("GET /dashboard", s.requireSession(s.handleDashboard))
	mux.HandleFunc("GET /assets", s.requireSession(s.handleAssets))
	mux.HandleFunc("POST /assets/upload", s.requireSession(s.handleAssetUpload))
	mux.HandleFunc("GET /matrix", s.requireSession(s.handleMatrix))
	mux.HandleFunc("GET /strategy", s.requireSession(s.handleStrategy))
	mux.HandleFunc("POST /strategy", s.requireSession(s.handleStrategy))

	// The websocket route stays outside the access-log wrapper: the upgrade
	// needs the raw hijackable response writer.
	outer := http.NewServeMux()
	outer.HandleFunc("GET /ws/generation", s.handleGenerationWS)
	outer.Handle("/", obs.AccessLogMiddleware("fixture", mux))
	return outer
}

// viewData is the template payload shared by every page.
type viewData struct {
	Title        string
	Email        string
	Demo         bool
	Clients      []string
	ActiveClient string

	Error       string
	Brief       template.HTML
	Uploaded    bool
	Assets      []Asset
	BriefInput  string
	Motivations []string
}

func (s *Server) baseData(title string, session *SessionData) viewData {
	data := viewData{Title: title, Clients: s.clients}
	if session != nil {
		data.Email = session.Email
		data.Demo = session.Demo
		data.ActiveClient = session.ActiveClient
	}
	return data
}

func (s *Server) sessionFromRequest(r *http.Request) (*SessionData, bool) {
	cookie, err := r.Cookie(sessionCookie)
	if err != nil {
		return nil, false
	}
	return s.sessions.Get(cookie.Value)
}

func (s *Server) requireSession(next func(http.ResponseWriter, *http.Request, *SessionData)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := s.sessionFromRequest(r)
		if !ok {
			http.Redirect(w, r, "/login", http.StatusFound)
			return
		}
		next(w, r, session)
	}
}

func (s *Server) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.sessionFromRequest(r); ok {
		http.Redirect(w, r, "/dashboard", http.StatusFound)
		return
	}
	s.render(w, loginPage, s.baseData("Sign in", nil))
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")

	token, ok := s.sessions.Login(email, password, s.clients[0])
	if !ok {
		s.log.Info("login rejected", "email", email)
		data := s.baseData("Sign in", nil)
		data.Error = "Invalid email or password"
		w.WriteHeader(http.StatusUnauthorized)
		s.render(w, loginPage, data)
		return
	}

	s.setSessionCookie(w, token)
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

func (s *Server) handleLoginDemo(w http.ResponseWriter, r *http.Request) {
	token := s.sessions.LoginDemo(s.clients[0])
	s.setSessionCookie(w, token)
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(sessionCookie); err == nil {
		s.sessions.Revoke(cookie.Value)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (s *Server) handleSelectClient(w http.ResponseWriter, r *http.Request, _ *SessionData) {
	client := r.FormValue("client")
	valid := false
	for _, c := range s.clients {
		if c == client {
			valid = true
			break
		}
	}
	if !valid {
		http.Error(w, "unknown client", http.StatusBadRequest)
		return
	}
	cookie, _ := r.Cookie(sessionCookie)
	s.sessions.SetActiveClient(cookie.Value, client)
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request, session *SessionData) {
	data := s.baseData("Dashboard", session)
	data.Brief = s.brief
	s.render(w, dashboardPage, data)
}

func (s *Server) handleAssets(w http.ResponseWriter, r *http.Request, session *SessionData) {
	data := s.baseData("Assets", session)
	data.Uploaded = r.URL.Query().Get("uploaded") == "1"
	data.Assets = s.library.List(session.ActiveClient)
	s.render(w, assetsPage, data)
}

// handleAssetUpload accepts a multipart upload and indexes the parts in the
// order the browser sent them.
func (s *Server) handleAssetUpload(w http.ResponseWriter, r *http.Request, session *SessionData) {
	reader, err := r.MultipartReader()
	if err != nil {
		http.Error(w, "expected multipart body", http.StatusBadRequest)
		return
	}

	count := 0
	for {
		part, err := reader.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			http.Error(w, "malformed multipart body", http.StatusBadRequest)
			return
		}
		if part.FormName() != "assets" || part.FileName() == "" {
			continue
		}
		data, err := io.ReadAll(part)
		if err != nil {
			http.Error(w, "read upload", http.StatusBadRequest)
			return
		}
		mimeType := part.Header.Get("Content-Type")
		if _, err := s.library.Add(r.Context(), session.ActiveClient, part.FileName(), mimeType, data); err != nil {
			s.log.Error("asset store write failed", "file", part.FileName(), "error", err)
			http.Error(w, "store upload", http.StatusInternalServerError)
			return
		}
		count++
	}
	if count == 0 {
		http.Error(w, "no files in upload", http.StatusBadRequest)
		return
	}

	s.log.Info("assets uploaded", "client", session.ActiveClient, "count", count)
	if strings.Contains(r.Header.Get("Accept"), "text/html") {
		http.Redirect(w, r, "/assets?uploaded=1", http.StatusSeeOther)
		return
	}
	w.WriteHeader(http.StatusCreated)
	fmt.Fprintf(w, `{"uploaded":%d}`, count)
}

func (s *Server) handleMatrix(w http.ResponseWriter, r *http.Request, session *SessionData) {
	s.render(w, matrixPage, s.baseData("Matrix", session))
}

func (s *Server) handleStrategy(w http.ResponseWriter, r *http.Request, session *SessionData) {
	data := s.baseData("Strategy", session)
	if r.Method == http.MethodPost {
		data.BriefInput = strings.TrimSpace(r.FormValue("brief"))
		data.Motivations = motivationsFor(data.BriefInput)
	}
	s.render(w, strategyPage, data)
}

// motivationsFor derives deterministic motivation titles from a brief so the
// suite can assert on stable content.
func motivationsFor(brief string) []string {
	if brief == "" {
		return nil
	}
	theme := brief
	if idx := strings.IndexAny(theme, ".\n"); idx > 0 {
		theme = theme[:idx]
	}
	theme = strings.TrimSpace(theme)
	return []string{
		"Belonging: " + theme,
		"Aspiration: " + theme,
		"Urgency: " + theme,
	}
}

func (s *Server) render(w http.ResponseWriter, page *template.Template, data viewData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := page.ExecuteTemplate(w, "layout", data); err != nil {
		s.log.Error("template render failed", "error", err)
	}
}

func (s *Server) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// renderMarkdown converts campaign-brief markdown to sanitized HTML.
func renderMarkdown(s string) template.HTML {
	extensions := parser.CommonExtensions | parser.AutoHeadingIDs
	doc := parser.NewWithExtensions(extensions).Parse([]byte(s))

	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags})
	rendered := markdown.Render(doc, renderer)

	return template.HTML(bluemonday.UGCPolicy().SanitizeBytes(rendered))
}
