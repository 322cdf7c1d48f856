package ticket

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ClosedPrefix marks a ticket channel as closed. Closing prepends it to the
// channel name, reopening strips every occurrence of it.
const ClosedPrefix = "geschlossen-"

// channelNamePattern matches ticket channel names in both their open and
// closed forms and captures the trailing ticket number. The channel name is
// the only durable carrier of the ticket id, so this pattern is a contract:
// on-disk records written by older deployments still match it.
var channelNamePattern = regexp.MustCompile(`(?:geschlossen-)?ticket-[\w-]+-(\d+)`)

// ParseTicketID extracts the ticket number from a channel name. It returns
// false when the name does not carry one, e.g. for channels created outside
// the ticket flow.
func ParseTicketID(channelName string) (int, bool) {
	m := channelNamePattern.FindStringSubmatch(channelName)
	if m == nil {
		return 0, false
	}
	id, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return id, true
}

// Slug normalises a username for use in a channel name: lower-cased with
// spaces replaced by hyphens.
func Slug(username string) string {
	return strings.ToLower(strings.ReplaceAll(username, " ", "-"))
}

// ChannelName builds the channel name for a fresh ticket.
func ChannelName(username string, ticketID int) string {
	return fmt.Sprintf("ticket-%s-%d", Slug(username), ticketID)
}

// ClosedName returns the channel name in its closed form.
func ClosedName(channelName string) string {
	return ClosedPrefix + channelName
}

// ReopenedName strips every closed marker from the channel name. Names that
// were closed more than once in older deployments carry the prefix multiple
// times, so all occurrences go.
func ReopenedName(channelName string) string {
	return strings.ReplaceAll(channelName, ClosedPrefix, "")
}
