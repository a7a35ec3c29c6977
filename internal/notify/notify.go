// Package notify pushes outbound alerts for items that need the operator's
// attention. Notifiers are fire-and-forget: a delivery failure is reported to
// the caller but must never block or roll back the mutation that triggered it.
package notify

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/slack-go/slack"
)

// Notifier delivers one short alert message.
type Notifier interface {
	Notify(message string) error
}

// SlackNotifier posts alerts to a Slack channel.
type SlackNotifier struct {
	client  *slack.Client
	channel string
}

// NewSlackNotifier builds a notifier for the given bot token and channel.
func NewSlackNotifier(token, channel string) *SlackNotifier {
	return &SlackNotifier{client: slack.New(token), channel: channel}
}

// Notify posts the message via chat.postMessage.
func (n *SlackNotifier) Notify(message string) error {
	_, _, err := n.client.PostMessage(n.channel, slack.MsgOptionText(message, false))
	if err != nil {
		return fmt.Errorf("notify: slack post: %w", err)
	}
	return nil
}

// DiscordNotifier posts alerts to a Discord channel.
type DiscordNotifier struct {
	session   *discordgo.Session
	channelID string
}

// NewDiscordNotifier builds a notifier for the given bot token and channel id.
func NewDiscordNotifier(token, channelID string) (*DiscordNotifier, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("notify: discord session: %w", err)
	}
	return &DiscordNotifier{session: session, channelID: channelID}, nil
}

// Notify sends the message to the configured channel.
func (n *DiscordNotifier) Notify(message string) error {
	if _, err := n.session.ChannelMessageSend(n.channelID, message); err != nil {
		return fmt.Errorf("notify: discord send: %w", err)
	}
	return nil
}

// Multi fans one alert out to several notifiers. Every notifier is attempted;
// the first error is returned after the fan-out completes.
type Multi struct {
	notifiers []Notifier
}

// NewMulti builds a fan-out notifier. Nil entries are skipped.
func NewMulti(notifiers ...Notifier) *Multi {
	out := &Multi{}
	for _, n := range notifiers {
		if n != nil {
			out.notifiers = append(out.notifiers, n)
		}
	}
	return out
}

// Notify delivers to every configured notifier.
func (m *Multi) Notify(message string) error {
	var firstErr error
	for _, n := range m.notifiers {
		if err := n.Notify(message); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
