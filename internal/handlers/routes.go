package handlers

import (
	"net/http"

	applog "car-expense-tracker/internal/log"

	"github.com/gorilla/mux"
)

// NewRouter registers every route. Dashboard, expense and logout routes sit
// behind AuthMiddleware.
func NewRouter(h *Handlers, staticDir string) *mux.Router {
	r := mux.NewRouter()
	r.Use(applog.Middleware(h.logger), securityHeaders)

	r.HandleFunc("/", h.Home).Methods(http.MethodGet)
	r.HandleFunc("/healthz", h.Health).Methods(http.MethodGet)
	r.HandleFunc("/login", h.LoginForm).Methods(http.MethodGet)
	r.HandleFunc("/login", h.Login).Methods(http.MethodPost)
	r.HandleFunc("/register", h.RegisterForm).Methods(http.MethodGet)
	r.HandleFunc("/register", h.Register).Methods(http.MethodPost)
	r.PathPrefix("/static/").
		Handler(http.StripPrefix("/static/", http.FileServer(http.Dir(staticDir)))).
		Methods(http.MethodGet, http.MethodHead)

	protected := r.NewRoute().Subrouter()
	protected.Use(h.AuthMiddleware)
	protected.HandleFunc("/dashboard", h.Dashboard).Methods(http.MethodGet)
	protected.HandleFunc("/car/create", h.CreateExpense).Methods(http.MethodPost)
	protected.HandleFunc("/car/delete/{id:[0-9]+}", h.DeleteExpense).Methods(http.MethodPost)
	protected.HandleFunc("/logout", h.Logout).Methods(http.MethodGet)

	return r
}

func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		headers := w.Header()
		headers.Set("X-Content-Type-Options", "nosniff")
		headers.Set("X-Frame-Options", "DENY")
		headers.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		headers.Set("Content-Security-Policy", "default-src 'self'; style-src 'self'; form-action 'self'; frame-ancestors 'none'")
		next.ServeHTTP(w, r)
	})
}
