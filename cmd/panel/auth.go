package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/time/rate"

	"github.com/spieletreff/wachhund/cmd/panel/config"
	"github.com/spieletreff/wachhund/cmd/panel/monitoring"
	"github.com/spieletreff/wachhund/pkg/custom"
	"github.com/spieletreff/wachhund/pkg/dataaccess"
	"github.com/spieletreff/wachhund/pkg/entities"
	"github.com/spieletreff/wachhund/pkg/logging"
)

const (
	// sessionCookie is the name of the session cookie.
	sessionCookie = "wachhund_session"

	// sessionLifetime is how long a session token stays valid.
	sessionLifetime = 12 * time.Hour

	// minPasswordLength is the shortest accepted password.
	minPasswordLength = 8
)

// loginLimiter throttles login attempts per client address. Five attempts
// fill the bucket, which refills at one attempt per twelve seconds.
type loginLimiter struct {
	mtx      sync.Mutex
	limiters map[string]*rate.Limiter
}

func newLoginLimiter() *loginLimiter {
	return &loginLimiter{limiters: make(map[string]*rate.Limiter)}
}

func (l *loginLimiter) allow(addr string) bool {
	l.mtx.Lock()
	defer l.mtx.Unlock()

	limiter, ok := l.limiters[addr]
	if !ok {
		limiter = rate.NewLimiter(rate.Every(12*time.Second), 5)
		l.limiters[addr] = limiter
	}
	return limiter.Allow()
}

func clientAddr(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// issueToken signs a session token for the user.
func issueToken(user *entities.User) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":      user.ID,
		"username": user.Username,
		"role":     string(user.Role),
		"exp":      time.Now().Add(sessionLifetime).Unix(),
		"iat":      time.Now().Unix(),
	})
	signed, err := token.SignedString([]byte(config.JwtSecret))
	if err != nil {
		return "", fmt.Errorf("error signing token: %w", err)
	}
	return signed, nil
}

// parseToken verifies a session token and returns the user id it was issued
// for.
func parseToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(config.JwtSecret), nil
	})
	if err != nil {
		return "", fmt.Errorf("error parsing token: %w", err)
	}

	sub, err := token.Claims.GetSubject()
	if err != nil || sub == "" {
		return "", errors.New("token has no subject")
	}
	return sub, nil
}

// sessionUser resolves the session cookie to the stored user. The role is
// always re-read from the store, so a role change takes effect on the next
// request rather than at token expiry.
func (a *App) sessionUser(r *http.Request) (*entities.User, error) {
	cookie, err := r.Cookie(sessionCookie)
	if err != nil {
		return nil, fmt.Errorf("no session cookie: %w", err)
	}

	userID, err := parseToken(cookie.Value)
	if err != nil {
		return nil, err
	}

	user, err := a.users.GetUserByID(r.Context(), userID)
	if err != nil {
		return nil, fmt.Errorf("error loading session user: %w", err)
	}
	return user, nil
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (a *App) loginHandler(w http.ResponseWriter, r *http.Request) {
	if !a.loginLimiter.allow(clientAddr(r)) {
		monitoring.LoginAttempts.WithLabelValues("throttled").Inc()
		a.writeMessage(w, http.StatusTooManyRequests, "Zu viele Anmeldeversuche, bitte warte kurz.")
		return
	}

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := a.users.GetUserByUsername(r.Context(), strings.TrimSpace(req.Username))
	if err != nil {
		if !errors.Is(err, dataaccess.ErrNotFound) {
			a.Error("Error loading user", slog.String(logging.KeyError, err.Error()))
		}
		monitoring.LoginAttempts.WithLabelValues("failed").Inc()
		a.writeMessage(w, http.StatusUnauthorized, "Benutzername oder Passwort ist falsch.")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		monitoring.LoginAttempts.WithLabelValues("failed").Inc()
		a.writeMessage(w, http.StatusUnauthorized, "Benutzername oder Passwort ist falsch.")
		return
	}

	token, err := issueToken(user)
	if err != nil {
		a.Error("Error issuing token", slog.String(logging.KeyError, err.Error()))
		a.writeMessage(w, http.StatusInternalServerError, "login failed")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(sessionLifetime),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	monitoring.LoginAttempts.WithLabelValues("ok").Inc()
	a.Info("User logged in", slog.String("username", user.Username))
	a.writeJSON(w, http.StatusOK, user)
}

func (a *App) logoutHandler(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	a.writeMessage(w, http.StatusOK, "abgemeldet")
}

type registerRequest struct {
	Username  string `json:"username"`
	Password  string `json:"password"`
	InviteKey string `json:"invite_key"`
	DiscordID string `json:"discord_id"`
}

// registerHandler creates an account. Registration is invite-only: the
// request must carry a usable key, which is redeemed on success.
func (a *App) registerHandler(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || len(req.Password) < minPasswordLength {
		a.writeMessage(w, http.StatusBadRequest, "Benutzername fehlt oder Passwort ist zu kurz (mindestens 8 Zeichen).")
		return
	}

	ok, err := a.invites.Validate(r.Context(), req.InviteKey)
	if err != nil {
		a.Error("Error validating invite key", slog.String(logging.KeyError, err.Error()))
		a.writeMessage(w, http.StatusInternalServerError, "registration failed")
		return
	}
	if !ok {
		a.writeMessage(w, http.StatusForbidden, "Der Einladungsschlüssel ist ungültig.")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		a.Error("Error hashing password", slog.String(logging.KeyError, err.Error()))
		a.writeMessage(w, http.StatusInternalServerError, "registration failed")
		return
	}

	user := &entities.User{
		ID:           uuid.NewString(),
		Username:     req.Username,
		PasswordHash: string(hash),
		DiscordID:    strings.TrimSpace(req.DiscordID),
		Role:         entities.RoleUser,
		CreatedAt:    custom.Now(),
	}

	if err := a.users.SaveUser(r.Context(), user); err != nil {
		if errors.Is(err, dataaccess.ErrDuplicate) {
			a.writeMessage(w, http.StatusConflict, "Der Benutzername ist bereits vergeben.")
			return
		}
		a.Error("Error saving user", slog.String(logging.KeyError, err.Error()))
		a.writeMessage(w, http.StatusInternalServerError, "registration failed")
		return
	}

	if err := a.invites.MarkUsed(r.Context(), strings.TrimSpace(req.InviteKey), user.Username); err != nil {
		// The account exists, so log the stale key instead of failing the
		// registration.
		a.Error("Error redeeming invite key", slog.String(logging.KeyError, err.Error()))
	}

	a.Info("User registered", slog.String("username", user.Username))
	a.writeJSON(w, http.StatusCreated, user)
}

func (a *App) meHandler(w http.ResponseWriter, r *http.Request, user *entities.User) {
	a.writeJSON(w, http.StatusOK, user)
}
