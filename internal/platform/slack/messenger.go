package slack

import (
	"context"
	"fmt"

	"github.com/diegoclair/qotd-bot/internal/domain"
	"github.com/diegoclair/qotd-bot/internal/domain/contract"
	slackapi "github.com/slack-go/slack"
)

// Messenger posts to Slack channels through the bot token client
type Messenger struct {
	client contract.SlackClient
}

var _ contract.Messenger = (*Messenger)(nil)

func NewMessenger(client contract.SlackClient) *Messenger {
	return &Messenger{client: client}
}

func (m *Messenger) Send(ctx context.Context, channelID, text string) error {
	if err := ctx.Err(); err != nil {
		return &domain.SendError{ChannelID: channelID, Err: err}
	}

	if _, _, err := m.client.PostMessage(channelID, slackapi.MsgOptionText(text, false)); err != nil {
		return &domain.SendError{ChannelID: channelID, Err: err}
	}
	return nil
}

// MentionRole renders a user group mention
func (m *Messenger) MentionRole(roleID string) string {
	return fmt.Sprintf("<!subteam^%s>", roleID)
}
