package slack

import (
	"context"
	"testing"

	"github.com/diegoclair/qotd-bot/internal/domain"
	"github.com/diegoclair/qotd-bot/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestMessenger_Send(t *testing.T) {
	tests := []struct {
		name      string
		ctx       func() context.Context
		buildMock func(m *mocks.MockSlackClient)
		wantErr   error
	}{
		{
			name: "Should post the message",
			ctx:  context.Background,
			buildMock: func(m *mocks.MockSlackClient) {
				m.EXPECT().PostMessage("C1", gomock.Any()).Return("C1", "123.456", nil).Times(1)
			},
		},
		{
			name: "Should wrap a Slack failure",
			ctx:  context.Background,
			buildMock: func(m *mocks.MockSlackClient) {
				m.EXPECT().PostMessage("C1", gomock.Any()).Return("", "", assert.AnError).Times(1)
			},
			wantErr: assert.AnError,
		},
		{
			name: "Should not post with a canceled context",
			ctx: func() context.Context {
				ctx, cancel := context.WithCancel(context.Background())
				cancel()
				return ctx
			},
			buildMock: func(m *mocks.MockSlackClient) {},
			wantErr:   context.Canceled,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := mocks.NewMockSlackClient(gomock.NewController(t))
			tt.buildMock(client)

			err := NewMessenger(client).Send(tt.ctx(), "C1", "hello")
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}

			assert.ErrorIs(t, err, domain.ErrSendFailure)
			assert.ErrorIs(t, err, tt.wantErr)

			var sendErr *domain.SendError
			require.ErrorAs(t, err, &sendErr)
			assert.Equal(t, "C1", sendErr.ChannelID)
		})
	}
}

func TestMessenger_MentionRole(t *testing.T) {
	assert.Equal(t, "<!subteam^S123>", NewMessenger(nil).MentionRole("S123"))
}
