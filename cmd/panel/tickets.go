package main

import (
	"log/slog"
	"net/http"

	"github.com/spieletreff/wachhund/pkg/entities"
	"github.com/spieletreff/wachhund/pkg/logging"
)

func (a *App) listTicketsHandler(w http.ResponseWriter, r *http.Request, _ *entities.User) {
	tickets, err := a.tickets.ListTickets(r.Context())
	if err != nil {
		a.Error("Error listing tickets", slog.String(logging.KeyError, err.Error()))
		a.writeMessage(w, http.StatusInternalServerError, "error listing tickets")
		return
	}
	a.writeJSON(w, http.StatusOK, tickets)
}

// listEventsHandler returns the ticket audit log.
func (a *App) listEventsHandler(w http.ResponseWriter, r *http.Request, _ *entities.User) {
	events, err := a.events.List(r.Context())
	if err != nil {
		a.Error("Error listing events", slog.String(logging.KeyError, err.Error()))
		a.writeMessage(w, http.StatusInternalServerError, "error listing events")
		return
	}
	a.writeJSON(w, http.StatusOK, events)
}
