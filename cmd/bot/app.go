package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/spieletreff/wachhund/cmd/bot/config"
	"github.com/spieletreff/wachhund/cmd/bot/monitoring"
	"github.com/spieletreff/wachhund/pkg/dataaccess"
	"github.com/spieletreff/wachhund/pkg/dataaccess/filestore"
	"github.com/spieletreff/wachhund/pkg/logging"
	"github.com/spieletreff/wachhund/pkg/request"
	"github.com/spieletreff/wachhund/pkg/ticket"
)

const (
	// PathMetrics is the path for metrics.
	PathMetrics = "/metrics"

	// PathHealth is the path for the health check.
	PathHealth = "/health"
)

// IApp is the interface for the application.
type IApp interface {
	// Log returns the logger.
	Log() *slog.Logger

	// Session returns the discord session.
	Session() *discordgo.Session

	// Machine returns the ticket lifecycle machine.
	Machine() *ticket.Machine

	// Tickets returns the ticket store.
	Tickets() dataaccess.TicketDal

	// Settings returns the guild settings store.
	Settings() *filestore.SettingsStore
}

type App struct {
	// is the logger.
	*slog.Logger

	// r is the router for the application.
	r *mux.Router

	// svr is the server for the application.
	svr *http.Server

	// s is the discord session.
	s *discordgo.Session

	// eventNotifier is the channel for notifying of events.
	eventNotifier chan any

	// machine drives the ticket lifecycle.
	machine *ticket.Machine

	// tickets is the ticket store behind the machine, also read directly
	// for rendering.
	tickets dataaccess.TicketDal

	// users is the panel account store, read for staff channel visibility.
	users dataaccess.UserDal

	// absences is the absence store shared with the web panel.
	absences *filestore.AbsenceStore

	// settings is the guild settings store shared with the web panel.
	settings *filestore.SettingsStore

	// roles is the role snapshot written for the web panel.
	roles *filestore.RoleCache

	// lastPanelData is what the panel message was last rendered from.
	lastPanelData *panelData

	// cancelLoops stops the background loops on shutdown.
	cancelLoops context.CancelFunc
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

	// Register bot.
	if err := a.RegisterBot(); err != nil {
		return fmt.Errorf("error registering bot: %w", err)
	}

	a.s.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		a.Info(fmt.Sprintf("Logged in as %s#%s", r.User.Username, r.User.Discriminator))
	})

	if err := a.RegisterDiscordHandlers(); err != nil {
		return fmt.Errorf("error registering discord handlers: %w", err)
	}

	// Start event listener.
	go a.eventListener()

	// Open websocket.
	if err := a.s.Open(); err != nil {
		return fmt.Errorf("error opening connection to Discord: %w", err)
	}

	a.Info("Bot is now running.")

	// Start the background loops.
	ctx, cancel := context.WithCancel(context.Background())
	a.cancelLoops = cancel
	go a.panelLoop(ctx)
	go a.absencePoster(ctx)
	go a.roleCacher(ctx)

	a.generateServer()
	a.setupRoutes()
	a.runServer()

	// Register listener for shutdown signal.
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)

	// Process shutdown signal.
	for sig := range c {
		a.Info("Received shutdown signal", slog.String("signal", sig.String()))
		if err := a.ShutdownHook(); err != nil {
			a.Error("Error shutting down application", slog.String(logging.KeyError, err.Error()))
		}
		os.Exit(0)
	}
	return nil
}

// setupStores builds the stores for the configured backend and wires the
// lifecycle machine on top of them.
func (a *App) setupStores() {
	var (
		tickets dataaccess.TicketDal
		events  dataaccess.EventDal
		counter dataaccess.CounterDal
	)
	switch config.TicketBackend {
	case config.TicketBackendMongo:
		tickets = dataaccess.NewTicketDal()
		events = dataaccess.NewEventDal()
		counter = dataaccess.NewCounterDal()
	default:
		tickets = filestore.NewTicketStore(config.DataDir)
		events = filestore.NewEventLog(config.DataDir)
		counter = filestore.NewCounter(config.DataDir)
	}

	a.tickets = tickets
	a.machine = ticket.NewMachine(tickets, events, counter, a, a)

	// Panel accounts always live in MongoDB.
	a.users = dataaccess.NewUserDal()

	// These stores are file backed regardless of the ticket backend; they
	// are the exchange format with the web panel.
	a.absences = filestore.NewAbsenceStore(config.DataDir)
	a.settings = filestore.NewSettingsStore(config.DataDir)
	a.roles = filestore.NewRoleCache(config.DataDir)
}

func (a *App) ShutdownHook() error {
	// Reset the total number of guilds to 0.
	monitoring.TotalDiscordGuilds.Set(0)

	if a.cancelLoops != nil {
		a.cancelLoops()
	}

	// Close the connection to Discord.
	if err := a.s.Close(); err != nil {
		return fmt.Errorf("error closing connection to Discord: %w", err)
	}
	return nil
}

func (a *App) RegisterBot() error {
	// Default the number of guilds to 0.
	monitoring.TotalDiscordGuilds.Set(0)

	dg, err := discordgo.New("Bot " + config.BotToken)
	if err != nil {
		return fmt.Errorf("error creating Discord session: %w", err)
	}

	dg.Identify.Intents = discordgo.MakeIntent(discordgo.IntentsAll)

	if a.eventNotifier == nil {
		// Buffered to prevent blocking the websocket reader.
		a.eventNotifier = make(chan any, 100)
	}

	dg.SetEventNotifier(a.eventNotifier)

	a.s = dg
	return nil
}

func (a *App) runServer() {
	go func() {
		slog.Info("Starting monitoring server")
		if err := a.svr.ListenAndServe(); err != nil {
			a.Error("Error starting monitoring server", slog.String(logging.KeyError, err.Error()))
			a.Warn("Monitoring server will not be available")
		}
	}()
}

func (a *App) setupRoutes() {
	// PathMetrics is the path for metrics.
	a.r.HandleFunc(PathMetrics, promhttp.Handler().ServeHTTP).Methods(http.MethodGet)

	// PathHealth is the path for health check.
	a.r.HandleFunc(PathHealth, middlewareHttp(a.healthCheck(), a)).Methods(http.MethodGet)

	// NotFoundHandler is the handler for 404.
	a.r.NotFoundHandler = request.NotFoundHandler(a.Log())

	// MethodNotAllowedHandler is the handler for 405.
	a.r.MethodNotAllowedHandler = request.MethodNotAllowedHandler(a.Log())
}

func (a *App) generateServer() {
	a.svr = &http.Server{
		Addr:    ":" + config.MonitoringPort,
		Handler: a.r,
	}
}

func (a *App) GetJoinedGuilds() ([]*discordgo.UserGuild, error) {
	guilds, err := a.s.UserGuilds(0, "", "")
	if err != nil {
		return nil, fmt.Errorf("error getting guilds: %w", err)
	}
	return guilds, nil
}

func (a *App) RegisterDiscordHandlers() error {
	// Bot joined guild.
	a.s.AddHandler(guildJoinedHandler(a))

	// Bot left guild.
	a.s.AddHandler(guildLeaveHandler(a))

	// Interaction create handler.
	a.s.AddHandler(interactionHandler(a,
		// Component controllers, keyed by custom ID.
		map[string]commandProcessor{
			TicketCreateButtonID: ticketCreatePrompt,
			CategoryDropdownID:   createTicketHandler,
			ClaimTicketButtonID:  claimTicketHandler,
			CloseTicketButtonID:  closeTicketPrompt,
			ReopenTicketButtonID: reopenTicketPrompt,
		},
		// Modal controllers, keyed by custom ID.
		map[string]commandProcessor{
			CloseTicketModalID:  closeTicketHandler,
			ReopenTicketModalID: reopenTicketHandler,
		}))
	return nil
}

func (a *App) eventListener() {
	for e := range a.eventNotifier {
		switch t := e.(type) {
		case *discordgo.Event:
			if t.Type != "" {
				monitoring.TotalDiscordEvents.WithLabelValues(t.Type).Inc()
			} else {
				// If there is no type, then use the operation name.
				monitoring.TotalDiscordEvents.WithLabelValues(strings.ToUpper(t.Operation.String())).Inc()
			}
		default:
			a.Error("Unknown event type", slog.String("type", fmt.Sprintf("%T", e)))
			monitoring.TotalDiscordEvents.WithLabelValues("UNKNOWN").Inc()
		}
	}
}

func (a *App) Log() *slog.Logger {
	return a.Logger
}

func (a *App) Session() *discordgo.Session {
	return a.s
}

func (a *App) Machine() *ticket.Machine {
	return a.machine
}

func (a *App) Tickets() dataaccess.TicketDal {
	return a.tickets
}

func (a *App) Settings() *filestore.SettingsStore {
	return a.settings
}
