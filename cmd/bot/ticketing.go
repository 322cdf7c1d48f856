package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Jacobbrewer1/discordgo"

	"github.com/spieletreff/wachhund/cmd/bot/monitoring"
	"github.com/spieletreff/wachhund/pkg/dataaccess"
	"github.com/spieletreff/wachhund/pkg/entities"
	"github.com/spieletreff/wachhund/pkg/logging"
	"github.com/spieletreff/wachhund/pkg/messages"
	"github.com/spieletreff/wachhund/pkg/ticket"
)

const (
	// TicketCreateButtonID is the ID for the panel button opening the
	// category selection.
	TicketCreateButtonID = "ticket_create_button"

	// CategoryDropdownID is the ID for the category selection dropdown.
	CategoryDropdownID = "category_dropdown"

	// ClaimTicketButtonID is the ID for the claim ticket button.
	ClaimTicketButtonID = "ticket_claim"

	// CloseTicketButtonID is the ID for the close ticket button.
	CloseTicketButtonID = "ticket_close"

	// ReopenTicketButtonID is the ID for the reopen ticket button.
	ReopenTicketButtonID = "ticket_reopen"

	// CloseTicketModalID is the ID for the close reason modal.
	CloseTicketModalID = "ticket_close_modal"

	// ReopenTicketModalID is the ID for the reopen reason modal.
	ReopenTicketModalID = "ticket_reopen_modal"

	// ReasonInputID is the ID of the reason text input inside the modals.
	ReasonInputID = "reason"
)

// Embed accent colors.
const (
	colorGreen = 0x2ECC71
	colorBlue  = 0x3498DB
	colorAmber = 0xE67E22
)

const (
	// PanelEmoji is the emoji for the panel button. (Envelope with arrow)
	PanelEmoji = "\U0001F4E9"

	// ClaimEmoji is the emoji for the claim button. (Ticket)
	ClaimEmoji = "\U0001F3AB"

	// CloseEmoji is the emoji for the close button. (Padlock)
	CloseEmoji = "\U0001F512"

	// ReopenEmoji is the emoji for the reopen button. (Open padlock)
	ReopenEmoji = "\U0001F513"
)

// ticketActionRow renders the action buttons for a ticket from its status
// alone. Claim is live only while the ticket is open and unclaimed, close
// while it is open in any form, reopen only while it is closed.
func ticketActionRow(status string) discordgo.ActionsRow {
	closed := status == entities.StatusClosed
	claimed := entities.StatusIsClaimed(status)
	return discordgo.ActionsRow{
		Components: []discordgo.MessageComponent{
			discordgo.Button{
				Label:    fmt.Sprintf("%s Claim", ClaimEmoji),
				Style:    discordgo.PrimaryButton,
				Disabled: closed || claimed,
				Emoji:    discordgo.ComponentEmoji{},
				URL:      "",
				CustomID: ClaimTicketButtonID,
			},
			discordgo.Button{
				Label:    fmt.Sprintf("%s Schließen", CloseEmoji),
				Style:    discordgo.SecondaryButton,
				Disabled: closed,
				Emoji:    discordgo.ComponentEmoji{},
				URL:      "",
				CustomID: CloseTicketButtonID,
			},
			discordgo.Button{
				Label:    fmt.Sprintf("%s Wieder öffnen", ReopenEmoji),
				Style:    discordgo.SuccessButton,
				Disabled: !closed,
				Emoji:    discordgo.ComponentEmoji{},
				URL:      "",
				CustomID: ReopenTicketButtonID,
			},
		},
	}
}

// ticketCreatePrompt responds to the panel button with the ephemeral
// category dropdown.
func ticketCreatePrompt(a IApp, i *discordgo.InteractionCreate) error {
	settings, err := a.Settings().Load(context.Background())
	if err != nil {
		return fmt.Errorf("error loading settings: %w", err)
	}

	options := make([]discordgo.SelectMenuOption, 0, len(settings.TicketCategories))
	for _, category := range settings.TicketCategories {
		options = append(options, discordgo.SelectMenuOption{
			Label: category,
			Value: category,
		})
	}

	return a.Session().InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: messages.ChooseCategory,
			Flags:   discordgo.MessageFlagsEphemeral,
			Components: []discordgo.MessageComponent{
				discordgo.ActionsRow{
					Components: []discordgo.MessageComponent{
						discordgo.SelectMenu{
							CustomID:    CategoryDropdownID,
							Placeholder: messages.CategoryPlaceholder,
							Options:     options,
						},
					},
				},
			},
		},
	})
}

// createTicketHandler runs when a category has been picked and drives the
// full creation flow through the machine.
func createTicketHandler(a IApp, i *discordgo.InteractionCreate) error {
	values := i.MessageComponentData().Values
	if len(values) == 0 {
		return errors.New("no category selected")
	}

	created, err := a.Machine().Create(context.Background(), ticket.CreateRequest{
		GuildID:   i.GuildID,
		Category:  values[0],
		Requester: interactionIdentity(i),
	})
	if err != nil {
		monitoring.TicketActions.WithLabelValues("create", "error").Inc()
		return fmt.Errorf("error creating ticket: %w", err)
	}
	monitoring.TicketActions.WithLabelValues("create", "ok").Inc()

	return respondEphemeral(a, i, fmt.Sprintf(messages.TicketCreated, fmt.Sprintf("<#%s>", created.ChannelID)))
}

// CreateTicketChannel provisions the Discord channel for a new ticket: the
// parent category is found or created, the channel is locked down to the
// requester and the welcome message with the action buttons is posted and
// pinned.
func (a *App) CreateTicketChannel(ctx context.Context, req ticket.ProvisionRequest) (*ticket.Provisioned, error) {
	settings, err := a.settings.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("error loading settings: %w", err)
	}

	parent, err := a.ensureParentCategory(req.GuildID, settings.TicketParentCategory)
	if err != nil {
		return nil, err
	}

	overwrites := []*discordgo.PermissionOverwrite{
		// Deny @everyone from seeing the ticket.
		{
			ID:    req.GuildID,
			Type:  discordgo.PermissionOverwriteTypeRole,
			Allow: 0,
			Deny:  discordgo.PermissionAll,
		},
		// The creator of the ticket can see the ticket.
		{
			ID:    req.Requester.ID,
			Type:  discordgo.PermissionOverwriteTypeMember,
			Allow: discordgo.PermissionAllText,
			Deny:  discordgo.PermissionMentionEveryone,
		},
	}
	staff, err := a.staffOverwrites(ctx)
	if err != nil {
		return nil, err
	}
	overwrites = append(overwrites, staff...)

	channel, err := a.s.GuildChannelCreateComplex(req.GuildID, discordgo.GuildChannelCreateData{
		Name:                 req.Name,
		Type:                 discordgo.ChannelTypeGuildText,
		Topic:                fmt.Sprintf("%s | %s", req.Category, req.Requester.Username),
		PermissionOverwrites: overwrites,
		ParentID:             parent.ID,
	})
	if err != nil {
		return nil, fmt.Errorf("error creating channel: %w", err)
	}

	msg, err := a.s.ChannelMessageSendComplex(channel.ID, &discordgo.MessageSend{
		Content: fmt.Sprintf("<@%s>", req.Requester.ID),
		Embed: &discordgo.MessageEmbed{
			Title:       fmt.Sprintf("🎫 Ticket – %s", req.Category),
			Description: fmt.Sprintf("%s\n\n📂 **Kategorie:** %s", settings.WelcomeText, req.Category),
			Color:       colorGreen,
			Timestamp:   time.Now().UTC().Format(time.RFC3339),
			Footer: &discordgo.MessageEmbedFooter{
				Text: fmt.Sprintf("Ticket-ID: %d", req.TicketID),
			},
		},
		Components: []discordgo.MessageComponent{
			ticketActionRow(entities.StatusOpen),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("error sending welcome message: %w", err)
	}

	if err := a.s.ChannelMessagePin(channel.ID, msg.ID); err != nil {
		a.Warn("Error pinning welcome message", slog.String(logging.KeyError, err.Error()))
	}

	return &ticket.Provisioned{ChannelID: channel.ID, WelcomeMessageID: msg.ID}, nil
}

// staffOverwrites grants channel visibility to the panel accounts with the
// admin or support role. Admins can also manage messages. Accounts without a
// linked Discord ID are skipped.
func (a *App) staffOverwrites(ctx context.Context) ([]*discordgo.PermissionOverwrite, error) {
	overwrites := make([]*discordgo.PermissionOverwrite, 0)

	admins, err := a.users.ListUsersByRole(ctx, entities.RoleAdmin)
	if err != nil {
		return nil, fmt.Errorf("error listing admin users: %w", err)
	}
	for _, admin := range admins {
		if admin.DiscordID == "" {
			continue
		}
		overwrites = append(overwrites, &discordgo.PermissionOverwrite{
			ID:    admin.DiscordID,
			Type:  discordgo.PermissionOverwriteTypeMember,
			Allow: discordgo.PermissionViewChannel | discordgo.PermissionManageMessages,
		})
	}

	supporters, err := a.users.ListUsersByRole(ctx, entities.RoleSupport)
	if err != nil {
		return nil, fmt.Errorf("error listing support users: %w", err)
	}
	for _, supporter := range supporters {
		if supporter.DiscordID == "" {
			continue
		}
		overwrites = append(overwrites, &discordgo.PermissionOverwrite{
			ID:    supporter.DiscordID,
			Type:  discordgo.PermissionOverwriteTypeMember,
			Allow: discordgo.PermissionViewChannel,
		})
	}

	return overwrites, nil
}

// ensureParentCategory finds the category channel tickets are created
// under, creating it when it does not exist yet.
func (a *App) ensureParentCategory(guildID, name string) (*discordgo.Channel, error) {
	channels, err := a.s.GuildChannels(guildID)
	if err != nil {
		return nil, fmt.Errorf("error getting guild channels: %w", err)
	}
	for _, channel := range channels {
		if channel.Type == discordgo.ChannelTypeGuildCategory && channel.Name == name {
			return channel, nil
		}
	}

	a.Warn("Ticket category does not exist, creating it now", slog.String("category", name))
	category, err := a.s.GuildChannelCreateComplex(guildID, discordgo.GuildChannelCreateData{
		Name: name,
		Type: discordgo.ChannelTypeGuildCategory,
	})
	if err != nil {
		return nil, fmt.Errorf("error creating category: %w", err)
	}
	return category, nil
}

// EditChannel renames a ticket channel and re-applies its parent category's
// permission overwrites so the channel stays in sync after the transition.
func (a *App) EditChannel(ctx context.Context, channelID, name string) error {
	channel, err := a.s.Channel(channelID)
	if err != nil {
		return fmt.Errorf("error getting channel: %w", err)
	}

	edit := &discordgo.ChannelEdit{
		Name:     name,
		Position: &channel.Position,
		ParentID: channel.ParentID,
	}

	if channel.ParentID != "" {
		parent, err := a.s.Channel(channel.ParentID)
		if err != nil {
			return fmt.Errorf("error getting parent category: %w", err)
		}
		edit.PermissionOverwrites = parent.PermissionOverwrites
	}

	if _, err := a.s.ChannelEditComplex(channelID, edit); err != nil {
		return fmt.Errorf("error editing channel: %w", err)
	}
	return nil
}

func claimTicketHandler(a IApp, i *discordgo.InteractionCreate) error {
	channel, err := a.Session().Channel(i.ChannelID)
	if err != nil {
		return fmt.Errorf("error getting channel: %w", err)
	}

	actor := interactionIdentity(i)
	res, err := a.Machine().Claim(context.Background(), ticket.ClaimRequest{
		ChannelID:   channel.ID,
		ChannelName: channel.Name,
		Actor:       actor,
	})
	if err != nil {
		monitoring.TicketActions.WithLabelValues("claim", "error").Inc()
		return fmt.Errorf("error claiming ticket: %w", err)
	}
	monitoring.TicketActions.WithLabelValues("claim", "ok").Inc()
	a.Log().Info("Ticket claimed",
		slog.Int("ticket_id", res.TicketID),
		slog.String("claimed_by", actor.Username))

	if err := refreshActionRow(a, channel.ID, res.Status); err != nil {
		a.Log().Warn("Error refreshing ticket buttons", slog.String(logging.KeyError, err.Error()))
	}

	return a.Session().InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: fmt.Sprintf(messages.TicketClaimedAnnounce, actor.DisplayName),
		},
	})
}

// closeTicketPrompt opens the reason modal. The ticket owner captured at
// prompt time rides along in the modal's custom ID as a fallback for
// channels the store has no record of.
func closeTicketPrompt(a IApp, i *discordgo.InteractionCreate) error {
	return reasonModal(a, i, CloseTicketModalID, "Ticket schließen")
}

func reopenTicketPrompt(a IApp, i *discordgo.InteractionCreate) error {
	return reasonModal(a, i, ReopenTicketModalID, "Ticket wieder öffnen")
}

func reasonModal(a IApp, i *discordgo.InteractionCreate, modalID, title string) error {
	opener := interactionIdentity(i).ID
	if t, err := a.Tickets().GetTicketByChannel(context.Background(), i.ChannelID); err == nil {
		opener = t.UserID
	} else if !errors.Is(err, dataaccess.ErrNotFound) {
		return fmt.Errorf("error looking up ticket: %w", err)
	}

	return a.Session().InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseModal,
		Data: &discordgo.InteractionResponseData{
			CustomID: fmt.Sprintf("%s:%s", modalID, opener),
			Title:    title,
			Components: []discordgo.MessageComponent{
				discordgo.ActionsRow{
					Components: []discordgo.MessageComponent{
						discordgo.TextInput{
							CustomID:    ReasonInputID,
							Label:       "Grund",
							Style:       discordgo.TextInputParagraph,
							Placeholder: "Warum?",
							Required:    true,
							MaxLength:   200,
						},
					},
				},
			},
		},
	})
}

func closeTicketHandler(a IApp, i *discordgo.InteractionCreate) error {
	req, err := transitionRequest(a, i)
	if err != nil {
		return err
	}

	res, err := a.Machine().Close(context.Background(), *req)
	switch {
	case errors.Is(err, ticket.ErrPermissionDenied):
		monitoring.TicketActions.WithLabelValues("close", "denied").Inc()
		return respondEphemeral(a, i, messages.OnlyOpenerMayClose)
	case err != nil:
		monitoring.TicketActions.WithLabelValues("close", "error").Inc()
		return fmt.Errorf("error closing ticket: %w", err)
	}
	monitoring.TicketActions.WithLabelValues("close", "ok").Inc()

	if err := refreshActionRow(a, i.ChannelID, res.Status); err != nil {
		a.Log().Warn("Error refreshing ticket buttons", slog.String(logging.KeyError, err.Error()))
	}

	return a.Session().InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: fmt.Sprintf(messages.TicketClosedAnnounce, req.Actor.DisplayName, req.Reason),
		},
	})
}

func reopenTicketHandler(a IApp, i *discordgo.InteractionCreate) error {
	req, err := transitionRequest(a, i)
	if err != nil {
		return err
	}

	res, err := a.Machine().Reopen(context.Background(), *req)
	switch {
	case errors.Is(err, ticket.ErrPermissionDenied):
		monitoring.TicketActions.WithLabelValues("reopen", "denied").Inc()
		return respondEphemeral(a, i, messages.OnlyOpenerMayReopen)
	case err != nil:
		monitoring.TicketActions.WithLabelValues("reopen", "error").Inc()
		return fmt.Errorf("error reopening ticket: %w", err)
	}
	monitoring.TicketActions.WithLabelValues("reopen", "ok").Inc()

	if err := refreshActionRow(a, i.ChannelID, res.Status); err != nil {
		a.Log().Warn("Error refreshing ticket buttons", slog.String(logging.KeyError, err.Error()))
	}

	return a.Session().InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: fmt.Sprintf(messages.TicketReopenedAnnounce, req.Actor.DisplayName, req.Reason),
		},
	})
}

// transitionRequest assembles the machine request from a reason modal
// submission.
func transitionRequest(a IApp, i *discordgo.InteractionCreate) (*ticket.TransitionRequest, error) {
	channel, err := a.Session().Channel(i.ChannelID)
	if err != nil {
		return nil, fmt.Errorf("error getting channel: %w", err)
	}

	data := i.ModalSubmitData()

	openerID := ""
	if parts := strings.SplitN(data.CustomID, ":", 2); len(parts) == 2 {
		openerID = parts[1]
	}

	reason := ""
	for _, comp := range data.Components {
		row, ok := comp.(*discordgo.ActionsRow)
		if !ok {
			continue
		}
		for _, inner := range row.Components {
			if input, ok := inner.(*discordgo.TextInput); ok && input.CustomID == ReasonInputID {
				reason = input.Value
			}
		}
	}

	return &ticket.TransitionRequest{
		ChannelID:   channel.ID,
		ChannelName: channel.Name,
		Opener:      ticket.Identity{ID: openerID},
		Actor:       interactionIdentity(i),
		Reason:      reason,
	}, nil
}

// refreshActionRow re-renders the welcome message buttons from the new
// status.
func refreshActionRow(a IApp, channelID, status string) error {
	t, err := a.Tickets().GetTicketByChannel(context.Background(), channelID)
	if err != nil {
		if errors.Is(err, dataaccess.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("error looking up ticket: %w", err)
	}
	if t.WelcomeMessageID == "" {
		return nil
	}

	row := ticketActionRow(status)
	if _, err := a.Session().ChannelMessageEditComplex(&discordgo.MessageEdit{
		Channel:    channelID,
		ID:         t.WelcomeMessageID,
		Components: []discordgo.MessageComponent{row},
	}); err != nil {
		return fmt.Errorf("error editing welcome message: %w", err)
	}
	return nil
}
