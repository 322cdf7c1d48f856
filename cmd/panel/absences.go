package main

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/spieletreff/wachhund/pkg/dataaccess"
	"github.com/spieletreff/wachhund/pkg/entities"
	"github.com/spieletreff/wachhund/pkg/logging"
)

func (a *App) listAbsencesHandler(w http.ResponseWriter, r *http.Request, _ *entities.User) {
	absences, err := a.absences.List(r.Context())
	if err != nil {
		a.Error("Error listing absences", slog.String(logging.KeyError, err.Error()))
		a.writeMessage(w, http.StatusInternalServerError, "error listing absences")
		return
	}
	a.writeJSON(w, http.StatusOK, absences)
}

type createAbsenceRequest struct {
	UserDisplay string `json:"user_display"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	Reason      string `json:"reason"`
}

// createAbsenceHandler stores an absence. The bot's poster picks it up and
// announces it on Discord within its next cycle.
func (a *App) createAbsenceHandler(w http.ResponseWriter, r *http.Request, actor *entities.User) {
	var req createAbsenceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	display := strings.TrimSpace(req.UserDisplay)
	if display == "" {
		display = actor.Username
	}
	if req.StartDate == "" || req.EndDate == "" {
		a.writeMessage(w, http.StatusBadRequest, "Start- und Enddatum sind Pflichtfelder.")
		return
	}

	absence, err := a.absences.Add(r.Context(), &entities.Absence{
		UserDisplay: display,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Reason:      strings.TrimSpace(req.Reason),
		SubmittedBy: actor.Username,
	})
	if err != nil {
		a.Error("Error saving absence", slog.String(logging.KeyError, err.Error()))
		a.writeMessage(w, http.StatusInternalServerError, "error saving absence")
		return
	}

	a.Info("Absence submitted",
		slog.Int("absence_id", absence.ID),
		slog.String("user", display),
		slog.String("by", actor.Username))
	a.writeJSON(w, http.StatusCreated, absence)
}

func (a *App) deleteAbsenceHandler(w http.ResponseWriter, r *http.Request, actor *entities.User) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		a.writeMessage(w, http.StatusBadRequest, "invalid absence id")
		return
	}

	if err := a.absences.Delete(r.Context(), id); err != nil {
		if errors.Is(err, dataaccess.ErrNotFound) {
			a.writeMessage(w, http.StatusNotFound, "absence not found")
			return
		}
		a.Error("Error deleting absence", slog.String(logging.KeyError, err.Error()))
		a.writeMessage(w, http.StatusInternalServerError, "error deleting absence")
		return
	}

	a.Info("Absence deleted", slog.Int("absence_id", id), slog.String("by", actor.Username))
	a.writeMessage(w, http.StatusOK, "Abwesenheit gelöscht")
}
