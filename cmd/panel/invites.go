package main

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/spieletreff/wachhund/pkg/dataaccess"
	"github.com/spieletreff/wachhund/pkg/entities"
	"github.com/spieletreff/wachhund/pkg/logging"
)

func (a *App) listInviteKeysHandler(w http.ResponseWriter, r *http.Request, _ *entities.User) {
	keys, err := a.invites.List(r.Context())
	if err != nil {
		a.Error("Error listing invite keys", slog.String(logging.KeyError, err.Error()))
		a.writeMessage(w, http.StatusInternalServerError, "error listing invite keys")
		return
	}
	a.writeJSON(w, http.StatusOK, keys)
}

type createInviteKeyRequest struct {
	Note string `json:"note"`
}

func (a *App) createInviteKeyHandler(w http.ResponseWriter, r *http.Request, actor *entities.User) {
	var req createInviteKeyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	key, err := a.invites.Create(r.Context(), actor.Username, req.Note, "")
	if err != nil {
		a.Error("Error creating invite key", slog.String(logging.KeyError, err.Error()))
		a.writeMessage(w, http.StatusInternalServerError, "error creating invite key")
		return
	}

	a.Info("Invite key created", slog.String("by", actor.Username))
	a.writeJSON(w, http.StatusCreated, key)
}

func (a *App) revokeInviteKeyHandler(w http.ResponseWriter, r *http.Request, actor *entities.User) {
	code := mux.Vars(r)["code"]

	if err := a.invites.Revoke(r.Context(), code); err != nil {
		if errors.Is(err, dataaccess.ErrNotFound) {
			a.writeMessage(w, http.StatusNotFound, "Kein unbenutzter Schlüssel mit diesem Code.")
			return
		}
		a.Error("Error revoking invite key", slog.String(logging.KeyError, err.Error()))
		a.writeMessage(w, http.StatusInternalServerError, "error revoking invite key")
		return
	}

	a.Info("Invite key revoked", slog.String("by", actor.Username))
	a.writeMessage(w, http.StatusOK, "Schlüssel widerrufen")
}
