package notifier

import (
	"errors"
	"strings"
	"testing"

	"github.com/bwmarrin/discordgo"
)

type fakeSender struct {
	channel  string
	messages []string
	err      error
}

func (f *fakeSender) ChannelMessageSend(channelID string, content string, options ...discordgo.RequestOption) (*discordgo.Message, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.channel = channelID
	f.messages = append(f.messages, content)
	return &discordgo.Message{Content: content}, nil
}

func TestNotifySignup(t *testing.T) {
	sender := &fakeSender{}
	n := NewDiscordNotifierWithSession(sender, "chan-1")

	if err := n.NotifySignup("Chess Club", "jane@mergington.edu"); err != nil {
		t.Fatalf("NotifySignup returned error: %v", err)
	}
	if err := n.NotifyUnregister("Chess Club", "jane@mergington.edu"); err != nil {
		t.Fatalf("NotifyUnregister returned error: %v", err)
	}

	if sender.channel != "chan-1" {
		t.Errorf("expected channel chan-1, got %q", sender.channel)
	}
	if len(sender.messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(sender.messages))
	}
	if !strings.Contains(sender.messages[0], "Activity Signup") || !strings.Contains(sender.messages[0], "**Participant:** jane@mergington.edu") {
		t.Errorf("unexpected signup message: %q", sender.messages[0])
	}
	if !strings.Contains(sender.messages[1], "Activity Unregistration") {
		t.Errorf("unexpected unregister message: %q", sender.messages[1])
	}
}

func TestNotifySignup_SendError(t *testing.T) {
	n := NewDiscordNotifierWithSession(&fakeSender{err: errors.New("rate limited")}, "chan-1")
	if err := n.NotifySignup("Chess Club", "jane@mergington.edu"); err == nil {
		t.Fatal("expected error, got nil")
	}
}

func TestNewDiscordNotifier_RequiresSettings(t *testing.T) {
	if _, err := NewDiscordNotifier("", "chan-1"); err == nil {
		t.Error("expected error for empty token")
	}
	if _, err := NewDiscordNotifier("token", ""); err == nil {
		t.Error("expected error for empty channel")
	}
}
