package monitoring

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/spieletreff/wachhund/cmd/panel/config"
)

var (
	// HttpTotalRequests is the total number of http requests.
	HttpTotalRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: fmt.Sprintf("%s_http_total_requests", config.AppName),
			Help: "Total number of http requests",
		},
		[]string{"path", "method", "status_code"},
	)

	// HttpRequestDuration is the duration of the http request.
	HttpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: fmt.Sprintf("%s_http_request_duration", config.AppName),
			Help: "Duration of the http request",
		},
		[]string{"path", "method", "status_code"},
	)

	// LoginAttempts counts logins by outcome.
	LoginAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: fmt.Sprintf("%s_login_attempts", config.AppName),
			Help: "Total number of login attempts",
		},
		[]string{"outcome"},
	)

	// DocumentUploads counts uploaded documents.
	DocumentUploads = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: fmt.Sprintf("%s_document_uploads", config.AppName),
			Help: "Total number of uploaded documents",
		},
	)
)
