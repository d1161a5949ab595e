package presentation

import (
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/hizuru/quaver/internal/bot"
)

func TestStatusHandlerUptime(t *testing.T) {
	handler := NewStatusHandler()
	responder := &bot.MockResponder{}

	if err := handler.HandleUptime(nil, nil, responder); err != nil {
		t.Fatalf("HandleUptime() failed: %v", err)
	}

	if responder.LastResponse == nil {
		t.Fatal("expected a response to be recorded")
	}
	if responder.LastResponse.Type != discordgo.InteractionResponseChannelMessageWithSource {
		t.Errorf("response type = %v", responder.LastResponse.Type)
	}
	if responder.LastResponse.Data.Content == "" {
		t.Error("expected a non-empty uptime message")
	}
}
