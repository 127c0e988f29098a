package notifier

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
)

type Notifier interface {
	NotifySignup(activity, email string) error
	NotifyUnregister(activity, email string) error
}

// MessageSender is the part of a discord session the notifier uses.
type MessageSender interface {
	ChannelMessageSend(channelID string, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

type DiscordNotifier struct {
	session   MessageSender
	channelID string
}

// NewDiscordNotifier opens a bot session for token. The session is only used
// for REST calls, so no gateway connection is made.
func NewDiscordNotifier(token, channelID string) (*DiscordNotifier, error) {
	if token == "" {
		return nil, fmt.Errorf("discord bot token is empty")
	}
	if channelID == "" {
		return nil, fmt.Errorf("discord channel ID is empty")
	}
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("create discord session: %w", err)
	}
	return NewDiscordNotifierWithSession(session, channelID), nil
}

func NewDiscordNotifierWithSession(session MessageSender, channelID string) *DiscordNotifier {
	return &DiscordNotifier{
		session:   session,
		channelID: channelID,
	}
}

func (n *DiscordNotifier) NotifySignup(activity, email string) error {
	return n.send(formatUpdate("📝 **Activity Signup**", activity, email))
}

func (n *DiscordNotifier) NotifyUnregister(activity, email string) error {
	return n.send(formatUpdate("👋 **Activity Unregistration**", activity, email))
}

func (n *DiscordNotifier) send(message string) error {
	if n.session == nil {
		return fmt.Errorf("discord session is nil")
	}
	if n.channelID == "" {
		return fmt.Errorf("discord channel ID is empty")
	}
	if _, err := n.session.ChannelMessageSend(n.channelID, message); err != nil {
		return fmt.Errorf("send discord message: %w", err)
	}
	return nil
}

func formatUpdate(title, activity, email string) string {
	return fmt.Sprintf("%s\n**Activity:** %s\n**Participant:** %s", title, activity, email)
}
