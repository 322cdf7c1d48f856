package main

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"os/signal"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/spieletreff/wachhund/cmd/panel/config"
	"github.com/spieletreff/wachhund/pkg/dataaccess"
	"github.com/spieletreff/wachhund/pkg/dataaccess/filestore"
	"github.com/spieletreff/wachhund/pkg/entities"
	"github.com/spieletreff/wachhund/pkg/logging"
	"github.com/spieletreff/wachhund/pkg/request"
)

const (
	// PathMetrics is the path for metrics.
	PathMetrics = "/metrics"

	// PathHealth is the path for the health check.
	PathHealth = "/health"
)

type App struct {
	// is the logger.
	*slog.Logger

	// r is the router for the application.
	r *mux.Router

	// svr is the server for the application.
	svr *http.Server

	// users is the account store.
	users dataaccess.UserDal

	// documents is the document metadata store.
	documents dataaccess.DocumentDal

	// tickets is the ticket store, read-only from the panel.
	tickets dataaccess.TicketDal

	// events is the lifecycle event log, read-only from the panel.
	events dataaccess.EventDal

	// absences is the absence store shared with the bot.
	absences *filestore.AbsenceStore

	// submissions is the member form submission store.
	submissions *filestore.SubmissionStore

	// invites is the registration key store.
	invites *filestore.InviteKeyStore

	// settings is the guild settings store shared with the bot.
	settings *filestore.SettingsStore

	// roles is the role snapshot written by the bot.
	roles *filestore.RoleCache

	// loginLimiter throttles login attempts per client.
	loginLimiter *loginLimiter
}

// NewApp creates a new instance of App.
func NewApp(l *slog.Logger, r *mux.Router) *App {
	return &App{
		Logger: l,
		r:      r,
	}
}

func (a *App) Run() error {
	a.setupStores()
	a.generateServer()
	a.setupRoutes()

	go func() {
		a.Info("Starting panel server", slog.String("port", config.PanelPort))
		if err := a.svr.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.Error("Error starting panel server", slog.String(logging.KeyError, err.Error()))
			os.Exit(1)
		}
	}()

	// Register listener for shutdown signal.
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)

	for sig := range c {
		a.Info("Received shutdown signal", slog.String("signal", sig.String()))
		if err := a.svr.Close(); err != nil {
			a.Error("Error shutting down server", slog.String(logging.KeyError, err.Error()))
		}
		os.Exit(0)
	}
	return nil
}

// setupStores builds the stores. Accounts and documents always live in
// MongoDB; the ticket views read from whichever backend the bot writes to,
// and everything else is the file exchange format shared with the bot.
func (a *App) setupStores() {
	a.users = dataaccess.NewUserDal()
	a.documents = dataaccess.NewDocumentDal()

	switch config.TicketBackend {
	case config.TicketBackendMongo:
		a.tickets = dataaccess.NewTicketDal()
		a.events = dataaccess.NewEventDal()
	default:
		a.tickets = filestore.NewTicketStore(config.DataDir)
		a.events = filestore.NewEventLog(config.DataDir)
	}

	a.absences = filestore.NewAbsenceStore(config.DataDir)
	a.submissions = filestore.NewSubmissionStore(config.DataDir)
	a.invites = filestore.NewInviteKeyStore(config.DataDir)
	a.settings = filestore.NewSettingsStore(config.DataDir)
	a.roles = filestore.NewRoleCache(config.DataDir)
	a.loginLimiter = newLoginLimiter()
}

func (a *App) setupRoutes() {
	a.r.HandleFunc(PathMetrics, promhttp.Handler().ServeHTTP).Methods(http.MethodGet)
	a.r.HandleFunc(PathHealth, middlewareHttp(a.healthCheck(), a)).Methods(http.MethodGet)

	// Session endpoints.
	a.r.HandleFunc("/api/login", middlewareHttp(a.loginHandler, a)).Methods(http.MethodPost)
	a.r.HandleFunc("/api/logout", middlewareHttp(a.logoutHandler, a)).Methods(http.MethodPost)
	a.r.HandleFunc("/api/register", middlewareHttp(a.registerHandler, a)).Methods(http.MethodPost)
	a.r.HandleFunc("/api/me", a.authed(a.meHandler)).Methods(http.MethodGet)

	// Account administration.
	a.r.HandleFunc("/api/users", a.authed(a.listUsersHandler, entities.RoleAdmin)).Methods(http.MethodGet)
	a.r.HandleFunc("/api/users", a.authed(a.createUserHandler, entities.RoleAdmin)).Methods(http.MethodPost)
	a.r.HandleFunc("/api/users/{id}", a.authed(a.updateUserHandler, entities.RoleAdmin)).Methods(http.MethodPatch)
	a.r.HandleFunc("/api/users/{id}", a.authed(a.deleteUserHandler, entities.RoleAdmin)).Methods(http.MethodDelete)

	// Registration keys.
	a.r.HandleFunc("/api/invite-keys", a.authed(a.listInviteKeysHandler, entities.RoleAdmin)).Methods(http.MethodGet)
	a.r.HandleFunc("/api/invite-keys", a.authed(a.createInviteKeyHandler, entities.RoleAdmin)).Methods(http.MethodPost)
	a.r.HandleFunc("/api/invite-keys/{code}", a.authed(a.revokeInviteKeyHandler, entities.RoleAdmin)).Methods(http.MethodDelete)

	// Absences.
	a.r.HandleFunc("/api/absences", a.authed(a.listAbsencesHandler)).Methods(http.MethodGet)
	a.r.HandleFunc("/api/absences", a.authed(a.createAbsenceHandler)).Methods(http.MethodPost)
	a.r.HandleFunc("/api/absences/{id}", a.authed(a.deleteAbsenceHandler, entities.RoleAdmin, entities.RoleSupport)).Methods(http.MethodDelete)

	// Member performance form.
	a.r.HandleFunc("/api/member-form", a.authed(a.submitMemberFormHandler)).Methods(http.MethodPost)
	a.r.HandleFunc("/api/member-form/avg7", a.authed(a.avg7Handler)).Methods(http.MethodGet)
	a.r.HandleFunc("/api/member-data", a.authed(a.memberDataHandler, entities.RoleAdmin, entities.RoleSupport)).Methods(http.MethodGet)

	// Documents.
	a.r.HandleFunc("/api/documents", a.authed(a.uploadDocumentHandler)).Methods(http.MethodPost)
	a.r.HandleFunc("/api/documents", a.authed(a.listDocumentsHandler)).Methods(http.MethodGet)
	a.r.HandleFunc("/api/documents/{id}/download", a.authed(a.downloadDocumentHandler)).Methods(http.MethodGet)
	a.r.HandleFunc("/api/documents/{id}", a.authed(a.deleteDocumentHandler)).Methods(http.MethodDelete)

	// Bot settings.
	a.r.HandleFunc("/api/settings", a.authed(a.getSettingsHandler, entities.RoleAdmin)).Methods(http.MethodGet)
	a.r.HandleFunc("/api/settings", a.authed(a.updateSettingsHandler, entities.RoleAdmin)).Methods(http.MethodPut)
	a.r.HandleFunc("/api/roles", a.authed(a.listRolesHandler, entities.RoleAdmin, entities.RoleSupport)).Methods(http.MethodGet)

	// Ticket views.
	a.r.HandleFunc("/api/tickets", a.authed(a.listTicketsHandler, entities.RoleAdmin, entities.RoleSupport)).Methods(http.MethodGet)
	a.r.HandleFunc("/api/events", a.authed(a.listEventsHandler, entities.RoleAdmin)).Methods(http.MethodGet)

	a.r.NotFoundHandler = request.NotFoundHandler(a.Log())
	a.r.MethodNotAllowedHandler = request.MethodNotAllowedHandler(a.Log())
}

func (a *App) generateServer() {
	a.svr = &http.Server{
		Addr:    ":" + config.PanelPort,
		Handler: a.r,
	}
}

// authed wraps a controller with the http middleware and session
// authentication. With no roles given, any logged-in user passes.
func (a *App) authed(handler authedController, roles ...entities.Role) http.HandlerFunc {
	return middlewareHttp(a.withAuth(handler, roles...), a)
}

func (a *App) Log() *slog.Logger {
	return a.Logger
}

func (a *App) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		a.Error("Error encoding response", slog.String(logging.KeyError, err.Error()))
	}
}

func (a *App) writeMessage(w http.ResponseWriter, status int, msg string) {
	a.writeJSON(w, status, request.NewMessage(msg))
}
