package main

import (
	"github.com/Jacobbrewer1/discordgo"

	"github.com/spieletreff/wachhund/pkg/messages"
	"github.com/spieletreff/wachhund/pkg/ticket"
)

func respondError(a IApp, i *discordgo.InteractionCreate) error {
	return respondEphemeral(a, i, messages.ErrUserErrorProcessing)
}

func respondEphemeral(a IApp, i *discordgo.InteractionCreate, content string) error {
	return a.Session().InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
}

// interactionIdentity builds the acting member's identity. The guild
// nickname wins over the account name for display.
func interactionIdentity(i *discordgo.InteractionCreate) ticket.Identity {
	if i.Member == nil || i.Member.User == nil {
		return ticket.Identity{}
	}
	display := i.Member.Nick
	if display == "" {
		display = i.Member.User.Username
	}
	return ticket.Identity{
		ID:          i.Member.User.ID,
		Username:    i.Member.User.Username,
		DisplayName: display,
	}
}
