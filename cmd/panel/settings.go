package main

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/spieletreff/wachhund/pkg/entities"
	"github.com/spieletreff/wachhund/pkg/logging"
)

func (a *App) getSettingsHandler(w http.ResponseWriter, r *http.Request, _ *entities.User) {
	settings, err := a.settings.Load(r.Context())
	if err != nil {
		a.Error("Error loading settings", slog.String(logging.KeyError, err.Error()))
		a.writeMessage(w, http.StatusInternalServerError, "error loading settings")
		return
	}
	a.writeJSON(w, http.StatusOK, settings)
}

// updateSettingsHandler replaces the shared settings. The bot re-reads them
// on its next pass, no restart needed.
func (a *App) updateSettingsHandler(w http.ResponseWriter, r *http.Request, actor *entities.User) {
	var settings entities.Settings
	if err := json.NewDecoder(r.Body).Decode(&settings); err != nil {
		a.writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	settings.WelcomeText = strings.TrimSpace(settings.WelcomeText)
	categories := make([]string, 0, len(settings.TicketCategories))
	for _, c := range settings.TicketCategories {
		if c = strings.TrimSpace(c); c != "" {
			categories = append(categories, c)
		}
	}
	settings.TicketCategories = categories

	if err := a.settings.Save(r.Context(), &settings); err != nil {
		a.Error("Error saving settings", slog.String(logging.KeyError, err.Error()))
		a.writeMessage(w, http.StatusInternalServerError, "error saving settings")
		return
	}

	a.Info("Settings updated", slog.String("username", actor.Username))
	a.writeJSON(w, http.StatusOK, &settings)
}

// listRolesHandler returns the Discord role snapshot the bot keeps current.
func (a *App) listRolesHandler(w http.ResponseWriter, r *http.Request, _ *entities.User) {
	roles, err := a.roles.Load(r.Context())
	if err != nil {
		a.Error("Error loading role cache", slog.String(logging.KeyError, err.Error()))
		a.writeMessage(w, http.StatusInternalServerError, "error loading roles")
		return
	}
	a.writeJSON(w, http.StatusOK, roles)
}
