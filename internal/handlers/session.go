package handlers

import (
	"errors"
	"net/http"
	"time"

	"car-expense-tracker/internal/auth"
	"car-expense-tracker/internal/forms"
	applog "car-expense-tracker/internal/log"
	"car-expense-tracker/internal/models"
	"car-expense-tracker/internal/storage"
)

const (
	// SessionCookieName is the name of the session cookie.
	SessionCookieName = "session"
	// SessionDuration is how long sessions last (30 days).
	SessionDuration = 30 * 24 * time.Hour
)

// AuthMiddleware wraps handlers to require authentication.
// It also implements rolling sessions: if a session is past the halfway point
// of its lifetime, it automatically renews the session.
func (h *Handlers) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(SessionCookieName)
		if err != nil || cookie.Value == "" {
			http.Redirect(w, r, "/login", http.StatusFound)
			return
		}

		sessionInfo, err := h.db.ValidateSessionWithInfo(cookie.Value)
		if err != nil {
			if !errors.Is(err, storage.ErrNotFound) {
				componentLogger(r, applog.ComponentAuth).Error("Session lookup failed", applog.FieldError, err)
			}
			h.clearSessionCookie(w)
			http.Redirect(w, r, "/login", http.StatusFound)
			return
		}

		// Rolling session: renew if past halfway point
		now := time.Now()
		if sessionInfo.ExpiresAt.Sub(now) < SessionDuration/2 {
			if err := h.db.RenewSession(cookie.Value, now.Add(SessionDuration)); err == nil {
				h.setSessionCookie(w, cookie.Value)
			}
			// If renewal fails, just continue with the current session
		}

		logger := applog.FromContext(r.Context()).With(applog.FieldUserID, sessionInfo.User.ID)
		ctx := applog.NewContext(r.Context(), logger)
		next.ServeHTTP(w, r.WithContext(withSession(ctx, sessionInfo.User, cookie.Value)))
	})
}

// currentUser returns the logged-in user for routes outside the auth gate,
// or nil.
func (h *Handlers) currentUser(r *http.Request) *models.User {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil || cookie.Value == "" {
		return nil
	}
	user, err := h.db.ValidateSession(cookie.Value)
	if err != nil {
		return nil
	}
	return user
}

func (h *Handlers) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(SessionDuration.Seconds()),
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handlers) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}

// AuthFormViewModel holds data for the login and registration pages.
type AuthFormViewModel struct {
	User     *models.User
	Username string
	Errors   forms.Result
}

// LoginForm renders the login page.
func (h *Handlers) LoginForm(w http.ResponseWriter, r *http.Request) {
	if h.currentUser(r) != nil {
		http.Redirect(w, r, "/dashboard", http.StatusFound)
		return
	}
	h.render(w, r, http.StatusOK, "login.html", AuthFormViewModel{})
}

// Login handles the login form submission. The username must match exactly,
// including case and spacing. Unknown users and wrong passwords re-render
// the form without saying which check failed.
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	logger := componentLogger(r, applog.ComponentAuth)

	if err := r.ParseForm(); err != nil {
		h.render(w, r, http.StatusBadRequest, "login.html", AuthFormViewModel{})
		return
	}

	username := r.FormValue("username")
	password := r.FormValue("password")

	vm := AuthFormViewModel{Username: username, Errors: forms.ValidateLogin(username, password)}
	if !vm.Errors.OK() {
		h.render(w, r, http.StatusOK, "login.html", vm)
		return
	}

	user, err := h.db.GetUserByUsername(username)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		serverError(w, r, "Failed to look up user", err, applog.FieldOperation, applog.OpLogin)
		return
	}
	if user == nil || !auth.CheckPassword(password, user.PasswordHash) {
		logger.Info("Login rejected", applog.FieldOperation, applog.OpLogin, applog.FieldUsername, username)
		h.render(w, r, http.StatusOK, "login.html", vm)
		return
	}

	token, err := auth.GenerateSessionToken()
	if err != nil {
		serverError(w, r, "Failed to generate session token", err, applog.FieldOperation, applog.OpLogin)
		return
	}

	if err := h.db.CreateSession(token, user.ID, time.Now().Add(SessionDuration)); err != nil {
		serverError(w, r, "Failed to create session", err, applog.FieldOperation, applog.OpLogin)
		return
	}

	h.setSessionCookie(w, token)
	logger.Info("User logged in", applog.FieldOperation, applog.OpLogin, applog.FieldUserID, user.ID)
	http.Redirect(w, r, "/dashboard", http.StatusFound)
}

// Logout ends the session and returns to the home page.
func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	if token := sessionTokenFromContext(r); token != "" {
		if err := h.db.DeleteSession(token); err != nil {
			componentLogger(r, applog.ComponentAuth).Error("Failed to delete session", applog.FieldOperation, applog.OpLogout, applog.FieldError, err)
		}
	}
	h.clearSessionCookie(w)
	http.Redirect(w, r, "/", http.StatusFound)
}

// RegisterForm renders the registration page.
func (h *Handlers) RegisterForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "register.html", AuthFormViewModel{User: h.currentUser(r)})
}

// Register creates an account and sends the user to the login page.
func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.render(w, r, http.StatusBadRequest, "register.html", AuthFormViewModel{})
		return
	}

	username := r.FormValue("username")
	password := r.FormValue("password")

	vm := AuthFormViewModel{Username: username, Errors: forms.ValidateRegistration(username, password)}
	if vm.Errors.OK() {
		_, err := h.db.GetUserByUsername(username)
		switch {
		case err == nil:
			vm.Errors.Add("username", forms.MsgUsernameTaken)
		case !errors.Is(err, storage.ErrNotFound):
			serverError(w, r, "Failed to look up user", err, applog.FieldOperation, applog.OpRegister)
			return
		}
	}
	if !vm.Errors.OK() {
		h.render(w, r, http.StatusOK, "register.html", vm)
		return
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		serverError(w, r, "Failed to hash password", err, applog.FieldOperation, applog.OpRegister)
		return
	}

	user, err := h.db.CreateUser(username, hash)
	if errors.Is(err, storage.ErrUsernameTaken) {
		vm.Errors.Add("username", forms.MsgUsernameTaken)
		h.render(w, r, http.StatusOK, "register.html", vm)
		return
	}
	if err != nil {
		serverError(w, r, "Failed to create user", err, applog.FieldOperation, applog.OpRegister)
		return
	}

	componentLogger(r, applog.ComponentAuth).Info("User registered", applog.FieldOperation, applog.OpRegister, applog.FieldUserID, user.ID)
	http.Redirect(w, r, "/login", http.StatusFound)
}
