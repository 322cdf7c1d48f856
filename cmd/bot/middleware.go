package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/gorilla/mux"

	"github.com/spieletreff/wachhund/cmd/bot/monitoring"
	"github.com/spieletreff/wachhund/pkg/logging"
	"github.com/spieletreff/wachhund/pkg/request"
)

// commandProcessor handles a single component or modal interaction.
type commandProcessor func(a IApp, i *discordgo.InteractionCreate) error

type Controller func(w http.ResponseWriter, r *http.Request)

func middlewareHttp(handler Controller, a IApp) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		now := time.Now().UTC()
		cw := request.NewClientWriter(w)

		// Recover from any panics that occur in the handler.
		defer func() {
			if rec := recover(); rec != nil {
				a.Log().Error("Panic in handler",
					slog.String(logging.KeyError, fmt.Sprintf("%v", rec)),
					slog.String("stack", string(debug.Stack())),
				)
				cw.WriteHeader(http.StatusInternalServerError)
				if err := json.NewEncoder(cw).Encode(request.NewMessage(request.ErrInternalServer.Error())); err != nil {
					a.Log().Error("Error encoding response", slog.String(logging.KeyError, err.Error()))
				}
			}
		}()

		var path string
		route := mux.CurrentRoute(r)
		if route != nil { // The route may be nil if the request is not routed.
			var err error
			path, err = route.GetPathTemplate()
			if err != nil {
				// An error here is only returned if the route does not define a path.
				a.Log().Error("Error getting path template", slog.String(logging.KeyError, err.Error()))
				path = r.URL.Path // If the route does not define a path, use the URL path.
			}
		} else {
			path = r.URL.Path // If the route is nil, use the URL path.
		}

		defer func() {
			// Run after the request has been handled, as the status code is
			// not available until then.
			monitoring.HttpTotalRequests.WithLabelValues(path, r.Method, fmt.Sprintf("%d", cw.StatusCode())).Inc()
			monitoring.HttpRequestDuration.WithLabelValues(path, r.Method, fmt.Sprintf("%d", cw.StatusCode())).Observe(time.Since(now).Seconds())
		}()

		handler(cw, r)
	}
}

// interactionHandler dispatches component clicks and modal submissions to
// their processors. Modal custom IDs carry context after a colon, so they
// are matched on the part before it.
func interactionHandler(a IApp, components, modals map[string]commandProcessor) func(s *discordgo.Session, i *discordgo.InteractionCreate) {
	return func(_ *discordgo.Session, i *discordgo.InteractionCreate) {
		var (
			customID  string
			processor commandProcessor
		)

		switch i.Type {
		case discordgo.InteractionMessageComponent:
			customID = i.MessageComponentData().CustomID
			processor = components[customID]
		case discordgo.InteractionModalSubmit:
			customID = i.ModalSubmitData().CustomID
			processor = modals[strings.SplitN(customID, ":", 2)[0]]
		default:
			return
		}

		a.Log().Debug("Handling interaction", slog.String("custom_id", customID))

		if processor == nil {
			a.Log().Error("No processor found for interaction", slog.String("custom_id", customID))
			if err := respondError(a, i); err != nil {
				a.Log().Error("Error responding to interaction", slog.String(logging.KeyError, err.Error()))
			}
			return
		}

		if err := processor(a, i); err != nil {
			a.Log().Error(fmt.Sprintf("Error processing interaction %s", customID),
				slog.String(logging.KeyError, err.Error()))
			if err := respondError(a, i); err != nil {
				a.Log().Error("Error responding to interaction", slog.String(logging.KeyError, err.Error()))
			}
		}
	}
}
