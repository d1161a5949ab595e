package presentation

import (
	"github.com/bwmarrin/discordgo"
	"github.com/hizuru/quaver/internal/bot"
	"github.com/hizuru/quaver/internal/modules/diag/application"
)

// StatusHandler handles the /ping and /uptime commands.
type StatusHandler struct {
	interactor *application.StatusInteractor
}

// NewStatusHandler creates a new StatusHandler.
func NewStatusHandler() *StatusHandler {
	return &StatusHandler{
		interactor: application.NewStatusInteractor(),
	}
}

// HandlePing responds with the gateway heartbeat latency.
func (h *StatusHandler) HandlePing(
	s *discordgo.Session,
	_ *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	report := h.interactor.Latency(s.HeartbeatLatency())

	return r.Respond(&discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: report.Message(),
		},
	})
}

// HandleUptime responds with the process uptime.
func (h *StatusHandler) HandleUptime(
	_ *discordgo.Session,
	_ *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	report := h.interactor.Uptime()

	return r.Respond(&discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: report.Message(),
		},
	})
}
