package main

import (
	"encoding/json"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/spieletreff/wachhund/pkg/entities"
	"github.com/spieletreff/wachhund/pkg/logging"
)

// averageFields are the per-skill ratings the overall average is computed
// from. All five must be present for the overall average to exist.
var averageFields = []string{
	"avg_zielgenauigkeit",
	"avg_map_kenntnis",
	"avg_teamplay",
	"avg_kommunikation",
	"avg_reaktionszeit",
}

// parseRating reads a rating value. Decimal commas are accepted, German
// keyboards produce them.
func parseRating(v string) (float64, bool) {
	v = strings.TrimSpace(strings.ReplaceAll(v, ",", "."))
	if v == "" || v == "null" {
		return 0, false
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func formatRating(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}

type submitFormRequest struct {
	Username string            `json:"username"`
	Data     map[string]string `json:"data"`
}

// submitMemberFormHandler stores a performance form submission. The rolling
// seven-day average is always computed server side; the overall average is
// taken from the request when it parses and recomputed otherwise.
func (a *App) submitMemberFormHandler(w http.ResponseWriter, r *http.Request, actor *entities.User) {
	var req submitFormRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	username := strings.TrimSpace(req.Username)
	if username == "" {
		username = actor.Username
	}

	data := make(map[string]string, len(req.Data))
	for k, v := range req.Data {
		if k == entities.FieldTotalAverage || k == entities.FieldSevenDayAverage {
			continue
		}
		data[k] = v
	}

	// The overall average is usually computed client side; recompute from
	// the five ratings when it is missing or unparsable.
	total, totalOK := parseRating(req.Data[entities.FieldTotalAverage])
	if !totalOK {
		total, totalOK = overallAverage(data)
	}
	if totalOK {
		data[entities.FieldTotalAverage] = formatRating(total)
	}

	// Rolling average over the current entry plus the previous six.
	data[entities.FieldSevenDayAverage] = ""
	if totalOK {
		previous, err := a.submissions.ListByUsername(r.Context(), username)
		if err != nil {
			a.Error("Error listing submissions", slog.String(logging.KeyError, err.Error()))
			a.writeMessage(w, http.StatusInternalServerError, "error saving submission")
			return
		}
		if avg, ok := sevenDayAverage(previous, total); ok {
			data[entities.FieldSevenDayAverage] = formatRating(avg)
		}
	}

	submission, err := a.submissions.Add(r.Context(), &entities.Submission{
		Username: username,
		Data:     data,
	})
	if err != nil {
		a.Error("Error saving submission", slog.String(logging.KeyError, err.Error()))
		a.writeMessage(w, http.StatusInternalServerError, "error saving submission")
		return
	}

	a.Info("Member form submitted",
		slog.Int("submission_id", submission.ID),
		slog.String("username", username))
	a.writeJSON(w, http.StatusCreated, submission)
}

// overallAverage is the mean of the five rating fields, present only when
// every rating parses.
func overallAverage(data map[string]string) (float64, bool) {
	sum := 0.0
	for _, field := range averageFields {
		v, ok := parseRating(data[field])
		if !ok {
			return 0, false
		}
		sum += v
	}
	return round1(sum / float64(len(averageFields))), true
}

// sevenDayAverage averages the current overall value with the previous six.
// It exists only once seven values are available.
func sevenDayAverage(previous []*entities.Submission, current float64) (float64, bool) {
	values := make([]float64, 0, 7)

	start := len(previous) - 6
	if start < 0 {
		start = 0
	}
	for _, s := range previous[start:] {
		if v, ok := parseRating(s.Data[entities.FieldTotalAverage]); ok {
			values = append(values, v)
		}
	}
	values = append(values, current)

	if len(values) < 7 {
		return 0, false
	}

	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return round1(sum / 7), true
}

type avg7Response struct {
	OK    bool     `json:"ok"`
	Avg7  *float64 `json:"avg7"`
	Count int      `json:"count"`
}

// avg7Handler reports the average over a player's last seven overall values,
// available only when all seven exist.
func (a *App) avg7Handler(w http.ResponseWriter, r *http.Request, _ *entities.User) {
	player := strings.TrimSpace(r.URL.Query().Get("spielername"))
	if player == "" {
		a.writeJSON(w, http.StatusOK, avg7Response{OK: false})
		return
	}

	submissions, err := a.submissions.ListByUsername(r.Context(), player)
	if err != nil {
		a.Error("Error listing submissions", slog.String(logging.KeyError, err.Error()))
		a.writeMessage(w, http.StatusInternalServerError, "error listing submissions")
		return
	}

	start := len(submissions) - 7
	if start < 0 {
		start = 0
	}
	values := make([]float64, 0, 7)
	for _, s := range submissions[start:] {
		if v, ok := parseRating(s.Data[entities.FieldTotalAverage]); ok {
			values = append(values, v)
		}
	}

	resp := avg7Response{OK: true, Count: len(values)}
	if len(values) == 7 {
		sum := 0.0
		for _, v := range values {
			sum += v
		}
		avg := round1(sum / 7)
		resp.Avg7 = &avg
	}
	a.writeJSON(w, http.StatusOK, resp)
}

func (a *App) memberDataHandler(w http.ResponseWriter, r *http.Request, _ *entities.User) {
	submissions, err := a.submissions.List(r.Context())
	if err != nil {
		a.Error("Error listing submissions", slog.String(logging.KeyError, err.Error()))
		a.writeMessage(w, http.StatusInternalServerError, "error listing submissions")
		return
	}
	a.writeJSON(w, http.StatusOK, submissions)
}
