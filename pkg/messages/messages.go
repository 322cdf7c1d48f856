// Package messages holds the user-facing reply texts. The community the bot
// serves is German-speaking, so the texts are German; error values and logs
// stay English.
package messages

const (
	// ErrUserErrorProcessing is the generic failure reply.
	ErrUserErrorProcessing = "Beim Verarbeiten deiner Anfrage ist ein Fehler aufgetreten. Bitte versuche es später erneut."

	// TicketCreated confirms ticket creation. Takes the channel mention.
	TicketCreated = "✅ Dein Ticket wurde erstellt: %s"

	// TicketClaimedAnnounce is the public claim announcement. Takes the
	// display name of the claimer.
	TicketClaimedAnnounce = "🛡️ Ticket wurde übernommen von **%s**"

	// TicketClosedAnnounce is the public close announcement. Takes the
	// display name of the closer and the reason.
	TicketClosedAnnounce = "🔒 Ticket wurde von **%s** geschlossen.\n💬 Grund: %s"

	// TicketReopenedAnnounce is the public reopen announcement. Takes the
	// display name of the reopener and the reason.
	TicketReopenedAnnounce = "♻️ Ticket wurde von **%s** wieder geöffnet.\n💬 Grund: %s"

	// OnlyOpenerMayClose rejects a close attempt by someone other than the
	// ticket opener.
	OnlyOpenerMayClose = "❌ Nur der Ersteller kann das Ticket schließen."

	// OnlyOpenerMayReopen rejects a reopen attempt by someone other than
	// the ticket opener.
	OnlyOpenerMayReopen = "❌ Nur der Ersteller kann das Ticket wieder öffnen."

	// ChooseCategory asks the user to pick a support category.
	ChooseCategory = "📂 Bitte wähle eine Kategorie zu der du Support brauchst:"

	// CategoryPlaceholder is the placeholder of the category dropdown.
	CategoryPlaceholder = "📂 Wähle eine Support Ticket-Kategorie..."
)
