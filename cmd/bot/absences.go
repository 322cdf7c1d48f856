package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/Jacobbrewer1/discordgo"

	"github.com/spieletreff/wachhund/cmd/bot/monitoring"
	"github.com/spieletreff/wachhund/pkg/entities"
	"github.com/spieletreff/wachhund/pkg/logging"
)

// absenceInterval is how often unannounced absences are looked for.
const absenceInterval = 30 * time.Second

// absencePoster announces absences submitted through the web panel into the
// configured Discord channel, oldest first.
func (a *App) absencePoster(ctx context.Context) {
	ticker := time.NewTicker(absenceInterval)
	defer ticker.Stop()

	for {
		if err := a.postPendingAbsences(ctx); err != nil {
			a.Error("Error posting absences", slog.String(logging.KeyError, err.Error()))
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (a *App) postPendingAbsences(ctx context.Context) error {
	settings, err := a.settings.Load(ctx)
	if err != nil {
		return fmt.Errorf("error loading settings: %w", err)
	}
	if settings.AbsenceChannelID == "" {
		return nil
	}

	pending, err := a.absences.ListUnposted(ctx)
	if err != nil {
		return fmt.Errorf("error listing absences: %w", err)
	}

	for _, absence := range pending {
		msg, err := a.s.ChannelMessageSendEmbed(settings.AbsenceChannelID, absenceEmbed(absence))
		if err != nil {
			// The remaining entries stay unposted and are retried on the
			// next tick.
			return fmt.Errorf("error announcing absence %d: %w", absence.ID, err)
		}

		if err := a.absences.MarkPosted(ctx, absence.ID, settings.AbsenceChannelID, msg.ID); err != nil {
			return fmt.Errorf("error marking absence %d as posted: %w", absence.ID, err)
		}

		monitoring.AbsencesPosted.Inc()
		a.Info("Posted absence",
			slog.Int("absence_id", absence.ID),
			slog.String("user", absence.UserDisplay))
	}
	return nil
}

// maxReasonFieldLength is the Discord limit for an embed field value.
const maxReasonFieldLength = 1024

func absenceEmbed(absence *entities.Absence) *discordgo.MessageEmbed {
	reason := absence.Reason
	if reason == "" {
		reason = "—"
	}
	if len(reason) > maxReasonFieldLength {
		// Back up to a rune boundary so a multi-byte character is never
		// split mid-sequence.
		cut := maxReasonFieldLength - 3
		for cut > 0 && !utf8.RuneStart(reason[cut]) {
			cut--
		}
		reason = reason[:cut] + "..."
	}

	submittedBy := absence.SubmittedBy
	if submittedBy == "" {
		submittedBy = "Web-Panel"
	}

	return &discordgo.MessageEmbed{
		Title:     "📢 Abwesenheitsmeldung",
		Color:     colorAmber,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Mitglied", Value: absence.UserDisplay, Inline: false},
			{Name: "Zeitraum", Value: fmt.Sprintf("%s bis %s", absence.StartDate, absence.EndDate), Inline: false},
			{Name: "Grund", Value: reason, Inline: false},
		},
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("Eingereicht von: %s", submittedBy),
		},
	}
}
