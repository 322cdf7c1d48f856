package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Jacobbrewer1/discordgo"

	"github.com/spieletreff/wachhund/pkg/entities"
	"github.com/spieletreff/wachhund/pkg/logging"
)

// panelInterval is how often the ticket panel message is reconciled with
// the stored settings and the current staff presence.
const panelInterval = time.Minute

// panelHistoryLimit is how many recent channel messages are scanned for an
// existing panel message.
const panelHistoryLimit = 10

// panelData is the content the panel message is rendered from. The message
// is only edited when this changes, sparing edit events.
type panelData struct {
	welcome       string
	adminsOnline  int
	supportOnline int
}

// panelLoop keeps the panel message in the configured channel up to date.
// The panel channel can be changed at runtime through the web panel, so the
// loop re-reads the settings on every tick.
func (a *App) panelLoop(ctx context.Context) {
	ticker := time.NewTicker(panelInterval)
	defer ticker.Stop()

	for {
		if err := a.ensurePanelMessage(ctx); err != nil {
			a.Error("Error updating ticket panel", slog.String(logging.KeyError, err.Error()))
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// ensurePanelMessage posts the panel embed with the create button when the
// configured channel does not carry one yet, and edits it in place when the
// welcome text or the online staff counts changed.
func (a *App) ensurePanelMessage(ctx context.Context) error {
	settings, err := a.settings.Load(ctx)
	if err != nil {
		return fmt.Errorf("error loading settings: %w", err)
	}
	if settings.PanelChannelID == "" {
		return nil
	}

	channel, err := a.s.Channel(settings.PanelChannelID)
	if err != nil {
		return fmt.Errorf("error getting panel channel: %w", err)
	}

	embed, data, err := a.buildPanelEmbed(ctx, channel.GuildID, settings)
	if err != nil {
		return err
	}
	if a.lastPanelData != nil && *a.lastPanelData == *data {
		return nil
	}

	existing, err := a.findPanelMessage(settings.PanelChannelID)
	if err != nil {
		return err
	}

	if existing != nil {
		if _, err := a.s.ChannelMessageEditComplex(&discordgo.MessageEdit{
			Channel: settings.PanelChannelID,
			ID:      existing.ID,
			Embed:   embed,
		}); err != nil {
			return fmt.Errorf("error editing panel message: %w", err)
		}
		a.lastPanelData = data
		return nil
	}

	if _, err := a.s.ChannelMessageSendComplex(settings.PanelChannelID, &discordgo.MessageSend{
		Embed: embed,
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{
				Components: []discordgo.MessageComponent{
					discordgo.Button{
						Label:    fmt.Sprintf("%s Ticket öffnen", PanelEmoji),
						Style:    discordgo.PrimaryButton,
						Disabled: false,
						Emoji:    discordgo.ComponentEmoji{},
						URL:      "",
						CustomID: TicketCreateButtonID,
					},
				},
			},
		},
	}); err != nil {
		return fmt.Errorf("error sending panel message: %w", err)
	}

	a.lastPanelData = data
	a.Info("Posted ticket panel", slog.String("channel_id", settings.PanelChannelID))
	return nil
}

// buildPanelEmbed renders the panel embed: the welcome text plus how many
// staff accounts are currently online in the guild.
func (a *App) buildPanelEmbed(ctx context.Context, guildID string, settings *entities.Settings) (*discordgo.MessageEmbed, *panelData, error) {
	adminsOnline, supportOnline, err := a.onlineStaffCounts(ctx, guildID)
	if err != nil {
		return nil, nil, err
	}

	embed := &discordgo.MessageEmbed{
		Description: settings.WelcomeText,
		Color:       colorBlue,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "🟢 Admins online", Value: fmt.Sprintf("%d", adminsOnline), Inline: true},
			{Name: "🟢 Supporter online", Value: fmt.Sprintf("%d", supportOnline), Inline: true},
		},
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("Aktualisiert am %s", time.Now().Format("02.01.2006 15:04:05")),
		},
	}

	return embed, &panelData{
		welcome:       settings.WelcomeText,
		adminsOnline:  adminsOnline,
		supportOnline: supportOnline,
	}, nil
}

// onlineStaffCounts counts the admin and support accounts whose linked
// Discord member is currently not offline in the guild.
func (a *App) onlineStaffCounts(ctx context.Context, guildID string) (admins, supporters int, err error) {
	guild, err := a.s.State.Guild(guildID)
	if err != nil {
		return 0, 0, fmt.Errorf("error getting guild state: %w", err)
	}

	online := make(map[string]bool, len(guild.Presences))
	for _, presence := range guild.Presences {
		if presence.User == nil || presence.Status == discordgo.StatusOffline {
			continue
		}
		online[presence.User.ID] = true
	}

	adminUsers, err := a.users.ListUsersByRole(ctx, entities.RoleAdmin)
	if err != nil {
		return 0, 0, fmt.Errorf("error listing admin users: %w", err)
	}
	for _, u := range adminUsers {
		if u.DiscordID != "" && online[u.DiscordID] {
			admins++
		}
	}

	supportUsers, err := a.users.ListUsersByRole(ctx, entities.RoleSupport)
	if err != nil {
		return 0, 0, fmt.Errorf("error listing support users: %w", err)
	}
	for _, u := range supportUsers {
		if u.DiscordID != "" && online[u.DiscordID] {
			supporters++
		}
	}

	return admins, supporters, nil
}

// findPanelMessage looks for the bot's panel message among the most recent
// channel messages, recognised by being bot-authored and carrying
// components.
func (a *App) findPanelMessage(channelID string) (*discordgo.Message, error) {
	history, err := a.s.ChannelMessages(channelID, panelHistoryLimit, "", "", "")
	if err != nil {
		return nil, fmt.Errorf("error getting channel history: %w", err)
	}

	for _, msg := range history {
		if msg.Author != nil && msg.Author.ID == a.s.State.User.ID && len(msg.Components) > 0 {
			return msg, nil
		}
	}
	return nil, nil
}
