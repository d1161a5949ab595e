package bot

import "github.com/bwmarrin/discordgo"

// Responder delivers an interaction response. Handlers talk to this instead
// of the session directly so they can be exercised without a gateway.
type Responder interface {
	Respond(response *discordgo.InteractionResponse) error
}

// DiscordResponder answers an interaction over the live session.
type DiscordResponder struct {
	session     *discordgo.Session
	interaction *discordgo.Interaction
}

func NewDiscordResponder(s *discordgo.Session, i *discordgo.Interaction) *DiscordResponder {
	return &DiscordResponder{
		session:     s,
		interaction: i,
	}
}

func (r *DiscordResponder) Respond(response *discordgo.InteractionResponse) error {
	return r.session.InteractionRespond(r.interaction, response)
}

// MockResponder records the last response for handler tests and returns Err.
type MockResponder struct {
	LastResponse *discordgo.InteractionResponse
	Err          error
}

func (m *MockResponder) Respond(response *discordgo.InteractionResponse) error {
	m.LastResponse = response
	return m.Err
}
