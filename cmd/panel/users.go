package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"golang.org/x/crypto/bcrypt"

	"github.com/spieletreff/wachhund/pkg/custom"
	"github.com/spieletreff/wachhund/pkg/dataaccess"
	"github.com/spieletreff/wachhund/pkg/entities"
	"github.com/spieletreff/wachhund/pkg/logging"
)

func (a *App) listUsersHandler(w http.ResponseWriter, r *http.Request, _ *entities.User) {
	users, err := a.users.ListUsers(r.Context())
	if err != nil {
		a.Error("Error listing users", slog.String(logging.KeyError, err.Error()))
		a.writeMessage(w, http.StatusInternalServerError, "error listing users")
		return
	}
	a.writeJSON(w, http.StatusOK, users)
}

type createUserRequest struct {
	Username  string        `json:"username"`
	Password  string        `json:"password"`
	Role      entities.Role `json:"role"`
	DiscordID string        `json:"discord_id"`
}

func (a *App) createUserHandler(w http.ResponseWriter, r *http.Request, actor *entities.User) {
	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" {
		a.writeMessage(w, http.StatusBadRequest, "Benutzername darf nicht leer sein.")
		return
	}
	if len(req.Password) < minPasswordLength {
		a.writeMessage(w, http.StatusBadRequest, "Das Passwort muss mindestens 8 Zeichen lang sein.")
		return
	}
	if req.Role == "" {
		req.Role = entities.RoleUser
	}
	if !entities.ValidRole(req.Role) {
		a.writeMessage(w, http.StatusBadRequest, fmt.Sprintf("Ungültige Rolle: %s", req.Role))
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		a.Error("Error hashing password", slog.String(logging.KeyError, err.Error()))
		a.writeMessage(w, http.StatusInternalServerError, "error creating user")
		return
	}

	user := &entities.User{
		ID:           uuid.NewString(),
		Username:     req.Username,
		PasswordHash: string(hash),
		DiscordID:    strings.TrimSpace(req.DiscordID),
		Role:         req.Role,
		CreatedAt:    custom.Now(),
	}
	if err := a.users.SaveUser(r.Context(), user); err != nil {
		if errors.Is(err, dataaccess.ErrDuplicate) {
			a.writeMessage(w, http.StatusConflict, "Der Benutzername ist bereits vergeben.")
			return
		}
		a.Error("Error saving user", slog.String(logging.KeyError, err.Error()))
		a.writeMessage(w, http.StatusInternalServerError, "error creating user")
		return
	}

	a.Info("User created",
		slog.String("username", user.Username),
		slog.String("role", string(user.Role)),
		slog.String("by", actor.Username))
	a.writeJSON(w, http.StatusCreated, user)
}

// updateUserRequest carries a partial user update. Absent fields stay
// unchanged.
type updateUserRequest struct {
	Role        *entities.Role `json:"role"`
	DiscordID   *string        `json:"discord_id"`
	GameKeys    *string        `json:"game_keys"`
	NewPassword *string        `json:"new_password"`
}

func (a *App) updateUserHandler(w http.ResponseWriter, r *http.Request, actor *entities.User) {
	id := mux.Vars(r)["id"]

	var req updateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := a.users.GetUserByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, dataaccess.ErrNotFound) {
			a.writeMessage(w, http.StatusNotFound, "Benutzer nicht gefunden.")
			return
		}
		a.Error("Error loading user", slog.String(logging.KeyError, err.Error()))
		a.writeMessage(w, http.StatusInternalServerError, "error loading user")
		return
	}

	if req.Role != nil {
		if !entities.ValidRole(*req.Role) {
			a.writeMessage(w, http.StatusBadRequest, fmt.Sprintf("Ungültige Rolle: %s", *req.Role))
			return
		}
		// Admins cannot demote themselves; someone else has to.
		if user.ID == actor.ID && *req.Role != entities.RoleAdmin {
			a.writeMessage(w, http.StatusBadRequest, "Du kannst deine eigene Admin-Rolle nicht entfernen.")
			return
		}
		user.Role = *req.Role
	}
	if req.DiscordID != nil {
		user.DiscordID = strings.TrimSpace(*req.DiscordID)
	}
	if req.GameKeys != nil {
		user.GameKeys = strings.TrimSpace(*req.GameKeys)
	}
	if req.NewPassword != nil {
		if len(*req.NewPassword) < minPasswordLength {
			a.writeMessage(w, http.StatusBadRequest, "Das Passwort muss mindestens 8 Zeichen lang sein.")
			return
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			a.Error("Error hashing password", slog.String(logging.KeyError, err.Error()))
			a.writeMessage(w, http.StatusInternalServerError, "error updating user")
			return
		}
		user.PasswordHash = string(hash)
	}

	if err := a.users.SaveUser(r.Context(), user); err != nil {
		a.Error("Error saving user", slog.String(logging.KeyError, err.Error()))
		a.writeMessage(w, http.StatusInternalServerError, "error updating user")
		return
	}

	a.Info("User updated",
		slog.String("username", user.Username),
		slog.String("by", actor.Username))
	a.writeJSON(w, http.StatusOK, user)
}

func (a *App) deleteUserHandler(w http.ResponseWriter, r *http.Request, actor *entities.User) {
	id := mux.Vars(r)["id"]

	if id == actor.ID {
		a.writeMessage(w, http.StatusBadRequest, "Du kannst dich nicht selbst löschen.")
		return
	}

	if err := a.users.DeleteUser(r.Context(), id); err != nil {
		if errors.Is(err, dataaccess.ErrNotFound) {
			a.writeMessage(w, http.StatusNotFound, "Benutzer nicht gefunden.")
			return
		}
		a.Error("Error deleting user", slog.String(logging.KeyError, err.Error()))
		a.writeMessage(w, http.StatusInternalServerError, "error deleting user")
		return
	}

	a.Info("User deleted", slog.String("user_id", id), slog.String("by", actor.Username))
	a.writeMessage(w, http.StatusOK, "Benutzer gelöscht")
}
