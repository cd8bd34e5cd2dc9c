package discord

import (
	"fmt"
	"log/slog"

	"github.com/bwmarrin/discordgo"
)

// Bot owns the gateway connection and the slash command registration
type Bot struct {
	session *discordgo.Session
	handler *Handler
	guildID string
	logger  *slog.Logger

	registered []*discordgo.ApplicationCommand
}

// NewSession creates a Discord session for the given bot token
func NewSession(token string) (*discordgo.Session, error) {
	s, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("error creating Discord session: %w", err)
	}

	s.Identify.Intents = discordgo.IntentsGuilds
	return s, nil
}

// NewBot wires the handler to the session. An empty guildID registers global commands.
func NewBot(s *discordgo.Session, handler *Handler, guildID string, logger *slog.Logger) *Bot {
	if logger == nil {
		logger = slog.Default()
	}

	return &Bot{
		session: s,
		handler: handler,
		guildID: guildID,
		logger:  logger,
	}
}

// Open connects to the gateway and registers the slash commands
func (b *Bot) Open() error {
	b.session.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		b.logger.Info("Logged on", slog.String("user", r.User.String()), slog.Int("guilds", len(r.Guilds)))
	})
	b.session.AddHandler(b.handler.OnInteractionCreate)

	if err := b.session.Open(); err != nil {
		return fmt.Errorf("error opening connection: %w", err)
	}

	for _, cmd := range AllCommands {
		created, err := b.session.ApplicationCommandCreate(b.session.State.User.ID, b.guildID, cmd)
		if err != nil {
			b.session.Close()
			return fmt.Errorf("cannot create '%v' command: %w", cmd.Name, err)
		}
		b.registered = append(b.registered, created)
	}

	b.logger.Info("Synced commands", slog.Int("count", len(b.registered)), slog.String("guild", b.guildID))
	return nil
}

// Close disconnects from the gateway. Registered commands are left in place
// so they stay available across restarts.
func (b *Bot) Close() error {
	return b.session.Close()
}
