package contract

import "context"

//go:generate mockgen -source=messenger.go -destination=../../../mocks/messenger_mock.go -package=mocks

// Messenger sends plain-text messages to channels of the chat platform
type Messenger interface {
	Send(ctx context.Context, channelID, text string) error
	// MentionRole renders the platform token that pings a role
	MentionRole(roleID string) string
}
