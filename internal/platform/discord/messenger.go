package discord

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/diegoclair/qotd-bot/internal/domain"
	"github.com/diegoclair/qotd-bot/internal/domain/contract"
)

type channelSender interface {
	ChannelMessageSend(channelID string, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// Messenger posts to Discord text channels
type Messenger struct {
	sender channelSender
}

var _ contract.Messenger = (*Messenger)(nil)

func NewMessenger(s *discordgo.Session) *Messenger {
	return &Messenger{sender: s}
}

func (m *Messenger) Send(ctx context.Context, channelID, text string) error {
	if _, err := m.sender.ChannelMessageSend(channelID, text, discordgo.WithContext(ctx)); err != nil {
		return &domain.SendError{ChannelID: channelID, Err: err}
	}
	return nil
}

func (m *Messenger) MentionRole(roleID string) string {
	return fmt.Sprintf("<@&%s>", roleID)
}
