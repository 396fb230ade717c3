package handlers

import (
	"bytes"
	"context"
	"html/template"
	"net/http"
	"path/filepath"

	applog "car-expense-tracker/internal/log"
	"car-expense-tracker/internal/models"
	"car-expense-tracker/internal/storage"
)

// Context key type to avoid collisions.
type contextKey string

const (
	// UserContextKey is the context key for the authenticated user.
	UserContextKey contextKey = "user"
	// SessionTokenContextKey is the context key for the current session token.
	SessionTokenContextKey contextKey = "session_token"
)

// Handlers holds dependencies for HTTP handlers.
type Handlers struct {
	db           *storage.DB
	logger       *applog.Logger
	templateDir  string
	secureCookie bool
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(db *storage.DB, logger *applog.Logger, templateDir string, secureCookie bool) *Handlers {
	return &Handlers{db: db, logger: logger, templateDir: templateDir, secureCookie: secureCookie}
}

// GetUserFromContext retrieves the authenticated user from request context.
func GetUserFromContext(r *http.Request) *models.User {
	if user, ok := r.Context().Value(UserContextKey).(*models.User); ok {
		return user
	}
	return nil
}

func sessionTokenFromContext(r *http.Request) string {
	token, _ := r.Context().Value(SessionTokenContextKey).(string)
	return token
}

func withSession(ctx context.Context, user *models.User, token string) context.Context {
	ctx = context.WithValue(ctx, UserContextKey, user)
	return context.WithValue(ctx, SessionTokenContextKey, token)
}

// componentLogger returns the request logger retagged for component.
func componentLogger(r *http.Request, component string) *applog.Logger {
	return applog.FromContext(r.Context()).WithComponent(component)
}

// render executes viewName inside base.html. Output is buffered so a
// template failure still produces a clean 500.
func (h *Handlers) render(w http.ResponseWriter, r *http.Request, status int, viewName string, data any) {
	logger := applog.FromContext(r.Context())

	tmpl, err := template.ParseFiles(filepath.Join(h.templateDir, "base.html"), filepath.Join(h.templateDir, viewName))
	if err != nil {
		logger.Error("Template parse failed", applog.FieldOperation, applog.OpRender, "view", viewName, applog.FieldError, err)
		http.Error(w, "Template error", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "base.html", data); err != nil {
		logger.Error("Template execution failed", applog.FieldOperation, applog.OpRender, "view", viewName, applog.FieldError, err)
		http.Error(w, "Template error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// serverError logs err and answers with a generic 500.
func serverError(w http.ResponseWriter, r *http.Request, msg string, err error, args ...any) {
	args = append(args, applog.FieldError, err)
	applog.FromContext(r.Context()).Error(msg, args...)
	http.Error(w, "Internal server error", http.StatusInternalServerError)
}

// HomeViewModel is the data passed to the home page.
type HomeViewModel struct {
	User *models.User
}

// Home renders the landing page.
func (h *Handlers) Home(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "home.html", HomeViewModel{User: h.currentUser(r)})
}

// Health reports whether the database is reachable.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.db.Ping(); err != nil {
		applog.FromContext(r.Context()).Error("Health check failed", applog.FieldError, err)
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}
