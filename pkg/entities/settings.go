package entities

// Settings are the runtime settings shared between the bot and the web
// panel. They are editable at runtime; both sides re-read them instead of
// caching.
type Settings struct {
	// WelcomeText is shown on the ticket panel and in new ticket channels.
	WelcomeText string `json:"welcome_text" bson:"welcome_text"`

	// TicketCategories are the selectable support categories.
	TicketCategories []string `json:"ticket_categories" bson:"ticket_categories"`

	// PanelChannelID is the channel that holds the ticket panel message.
	PanelChannelID string `json:"ticket_panel_channel_id" bson:"ticket_panel_channel_id"`

	// AbsenceChannelID is the channel absence announcements are posted to.
	AbsenceChannelID string `json:"absence_channel_id" bson:"absence_channel_id"`

	// TicketParentCategory is the name of the category channel new tickets
	// are created under. Optional.
	TicketParentCategory string `json:"ticket_parent_category" bson:"ticket_parent_category"`
}

// DefaultSettings returns the settings used when none have been saved yet.
// Missing fields on saved settings are filled from these defaults on read.
func DefaultSettings() *Settings {
	return &Settings{
		WelcomeText:          "Willkommen im Ticket! Beschreibe kurz dein Anliegen.",
		TicketCategories:     []string{"Support", "Technik"},
		TicketParentCategory: "🎫 Tickets",
	}
}
