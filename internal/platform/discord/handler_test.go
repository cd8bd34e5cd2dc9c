package discord

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/diegoclair/qotd-bot/internal/domain"
	"github.com/diegoclair/qotd-bot/internal/domain/entity"
	"github.com/diegoclair/qotd-bot/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// fakeSession records what the handler sends back to Discord
type fakeSession struct {
	responses []*discordgo.InteractionResponse
	followups []*discordgo.WebhookParams
}

func (f *fakeSession) InteractionRespond(_ *discordgo.Interaction, resp *discordgo.InteractionResponse, _ ...discordgo.RequestOption) error {
	f.responses = append(f.responses, resp)
	return nil
}

func (f *fakeSession) FollowupMessageCreate(_ *discordgo.Interaction, _ bool, data *discordgo.WebhookParams, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	f.followups = append(f.followups, data)
	return &discordgo.Message{}, nil
}

func newHandlerTest(t *testing.T) (*Handler, *mocks.MockQuestionService, *fakeSession) {
	t.Helper()

	ctrl := gomock.NewController(t)
	questions := mocks.NewMockQuestionService(ctrl)
	h := NewHandler(questions, slog.New(slog.NewTextHandler(io.Discard, nil)))

	return h, questions, &fakeSession{}
}

func member(perms int64) *discordgo.Member {
	return &discordgo.Member{User: &discordgo.User{ID: "U1"}, Permissions: perms}
}

func commandInteraction(name string, m *discordgo.Member, options ...*discordgo.ApplicationCommandInteractionDataOption) *discordgo.InteractionCreate {
	return &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		Type:   discordgo.InteractionApplicationCommand,
		Member: m,
		User:   &discordgo.User{ID: "U1"},
		Data: discordgo.ApplicationCommandInteractionData{
			Name:    name,
			Options: options,
		},
	}}
}

func buttonInteraction(customID string, m *discordgo.Member) *discordgo.InteractionCreate {
	return &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		Type:   discordgo.InteractionMessageComponent,
		Member: m,
		Data: discordgo.MessageComponentInteractionData{
			CustomID:      customID,
			ComponentType: discordgo.ButtonComponent,
		},
	}}
}

func promptOption(value string) *discordgo.ApplicationCommandInteractionDataOption {
	return &discordgo.ApplicationCommandInteractionDataOption{
		Name:  optionPrompt,
		Type:  discordgo.ApplicationCommandOptionString,
		Value: value,
	}
}

func contents(f *fakeSession) []string {
	var out []string
	for _, r := range f.responses {
		if r.Data != nil {
			out = append(out, r.Data.Content)
		}
	}
	return out
}

func assertEphemeral(t *testing.T, f *fakeSession) {
	t.Helper()

	for _, r := range f.responses {
		require.NotNil(t, r.Data)
		assert.Equal(t, discordgo.MessageFlagsEphemeral, r.Data.Flags&discordgo.MessageFlagsEphemeral)
	}
	for _, p := range f.followups {
		assert.Equal(t, discordgo.MessageFlagsEphemeral, p.Flags&discordgo.MessageFlagsEphemeral)
	}
}

func TestHandler_Suggest(t *testing.T) {
	tests := []struct {
		name      string
		prompt    string
		member    *discordgo.Member
		buildMock func(m *mocks.MockQuestionService)
		want      string
	}{
		{
			name:   "Should confirm a stored submission",
			prompt: "what is your favorite color",
			member: member(0),
			buildMock: func(m *mocks.MockQuestionService) {
				m.EXPECT().Submit(gomock.Any(), "what is your favorite color").Return(nil).Times(1)
			},
			want: domain.MsgSubmitted,
		},
		{
			name:   "Should accept submissions from direct messages",
			prompt: "from a DM",
			member: nil,
			buildMock: func(m *mocks.MockQuestionService) {
				m.EXPECT().Submit(gomock.Any(), "from a DM").Return(nil).Times(1)
			},
			want: domain.MsgSubmitted,
		},
		{
			name:   "Should tell the user an empty prompt is not accepted",
			prompt: "   ",
			member: member(0),
			buildMock: func(m *mocks.MockQuestionService) {
				m.EXPECT().Submit(gomock.Any(), "   ").Return(domain.ErrEmptyPrompt).Times(1)
			},
			want: domain.MsgEmptyPrompt,
		},
		{
			name:   "Should report a storage failure",
			prompt: "question",
			member: member(0),
			buildMock: func(m *mocks.MockQuestionService) {
				m.EXPECT().Submit(gomock.Any(), "question").Return(assert.AnError).Times(1)
			},
			want: domain.MsgSubmitFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, questions, s := newHandlerTest(t)
			tt.buildMock(questions)

			h.route(s, commandInteraction(cmdSuggest, tt.member, promptOption(tt.prompt)))

			assert.Equal(t, []string{tt.want}, contents(s))
			assert.Empty(t, s.followups)
			assertEphemeral(t, s)
		})
	}
}

func TestHandler_Review(t *testing.T) {
	t.Run("Should show the oldest submission with buttons", func(t *testing.T) {
		h, questions, s := newHandlerTest(t)
		questions.EXPECT().BeginReview(gomock.Any()).
			Return(&entity.ReviewItem{Text: "best vacation spot?", Pending: 3}, nil).Times(1)

		h.route(s, commandInteraction(cmdReview, member(discordgo.PermissionManageChannels)))

		assert.Equal(t, []string{domain.MsgBeginReview}, contents(s))
		require.Len(t, s.followups, 1)

		msg := s.followups[0]
		require.Len(t, msg.Embeds, 1)
		assert.Equal(t, "best vacation spot?", msg.Embeds[0].Title)
		assert.Equal(t, "3 submissions awaiting review", msg.Embeds[0].Footer.Text)

		require.Len(t, msg.Components, 1)
		row, ok := msg.Components[0].(discordgo.ActionsRow)
		require.True(t, ok)
		require.Len(t, row.Components, 2)
		assert.Equal(t, domain.ActionApprove, row.Components[0].(discordgo.Button).CustomID)
		assert.Equal(t, domain.ActionReject, row.Components[1].(discordgo.Button).CustomID)
		assertEphemeral(t, s)
	})

	t.Run("Should not offer buttons when nothing is pending", func(t *testing.T) {
		h, questions, s := newHandlerTest(t)
		questions.EXPECT().BeginReview(gomock.Any()).Return(nil, nil).Times(1)

		h.route(s, commandInteraction(cmdReview, member(discordgo.PermissionManageChannels)))

		require.Len(t, s.followups, 1)
		assert.Equal(t, domain.MsgNoSubmissions, s.followups[0].Content)
		assert.Empty(t, s.followups[0].Components)
	})

	t.Run("Should put long submissions in the description", func(t *testing.T) {
		h, questions, s := newHandlerTest(t)
		long := strings.Repeat("a", maxEmbedTitle+1)
		questions.EXPECT().BeginReview(gomock.Any()).Return(&entity.ReviewItem{Text: long, Pending: 1}, nil).Times(1)

		h.route(s, commandInteraction(cmdReview, member(discordgo.PermissionManageChannels)))

		require.Len(t, s.followups, 1)
		assert.Empty(t, s.followups[0].Embeds[0].Title)
		assert.Equal(t, long, s.followups[0].Embeds[0].Description)
	})

	t.Run("Should report a failure to load submissions", func(t *testing.T) {
		h, questions, s := newHandlerTest(t)
		questions.EXPECT().BeginReview(gomock.Any()).Return(nil, assert.AnError).Times(1)

		h.route(s, commandInteraction(cmdReview, member(discordgo.PermissionManageChannels)))

		require.Len(t, s.followups, 1)
		assert.Equal(t, domain.MsgReviewFailed, s.followups[0].Content)
	})
}

func TestHandler_PermissionDenied(t *testing.T) {
	tests := []struct {
		name        string
		interaction *discordgo.InteractionCreate
		want        string
	}{
		{
			name:        "review without manage channels",
			interaction: commandInteraction(cmdReview, member(discordgo.PermissionSendMessages)),
			want:        domain.MsgReviewDenied,
		},
		{
			name:        "review from a direct message",
			interaction: commandInteraction(cmdReview, nil),
			want:        domain.MsgReviewDenied,
		},
		{
			name:        "forcequestion without manage channels",
			interaction: commandInteraction(cmdForceQuestion, member(0)),
			want:        domain.MsgForceDenied,
		},
		{
			name:        "approve button without manage channels",
			interaction: buttonInteraction(domain.ActionApprove, member(0)),
			want:        domain.MsgReviewDenied,
		},
		{
			name:        "reject button without manage channels",
			interaction: buttonInteraction(domain.ActionReject, member(0)),
			want:        domain.MsgReviewDenied,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// no service expectations: any call fails the test
			h, _, s := newHandlerTest(t)

			h.route(s, tt.interaction)

			assert.Equal(t, []string{tt.want}, contents(s))
			assert.Empty(t, s.followups)
			assertEphemeral(t, s)
		})
	}
}

func TestHandler_Decisions(t *testing.T) {
	manager := member(discordgo.PermissionManageChannels | discordgo.PermissionSendMessages)

	tests := []struct {
		name          string
		customID      string
		buildMock     func(m *mocks.MockQuestionService)
		wantResponse  string
		wantFollowups int
	}{
		{
			name:     "Should approve and show the next submission",
			customID: domain.ActionApprove,
			buildMock: func(m *mocks.MockQuestionService) {
				m.EXPECT().Approve(gomock.Any()).Return(&entity.ReviewItem{Text: "next", Pending: 1}, nil).Times(1)
			},
			wantResponse:  domain.MsgApproved,
			wantFollowups: 1,
		},
		{
			name:     "Should reject and show the empty state",
			customID: domain.ActionReject,
			buildMock: func(m *mocks.MockQuestionService) {
				m.EXPECT().Reject(gomock.Any()).Return(nil, nil).Times(1)
			},
			wantResponse:  domain.MsgRejected,
			wantFollowups: 1,
		},
		{
			name:     "Should report an approve failure",
			customID: domain.ActionApprove,
			buildMock: func(m *mocks.MockQuestionService) {
				m.EXPECT().Approve(gomock.Any()).Return(nil, assert.AnError).Times(1)
			},
			wantResponse: domain.MsgApproveFailed,
		},
		{
			name:     "Should report a reject failure",
			customID: domain.ActionReject,
			buildMock: func(m *mocks.MockQuestionService) {
				m.EXPECT().Reject(gomock.Any()).Return(nil, assert.AnError).Times(1)
			},
			wantResponse: domain.MsgRejectFailed,
		},
		{
			name:     "Should handle a stale button after the queue was emptied",
			customID: domain.ActionApprove,
			buildMock: func(m *mocks.MockQuestionService) {
				m.EXPECT().Approve(gomock.Any()).Return(nil, domain.ErrNothingToReview).Times(1)
			},
			wantResponse: domain.MsgNoSubmissions,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, questions, s := newHandlerTest(t)
			tt.buildMock(questions)

			h.route(s, buttonInteraction(tt.customID, manager))

			assert.Equal(t, []string{tt.wantResponse}, contents(s))
			assert.Len(t, s.followups, tt.wantFollowups)
			assertEphemeral(t, s)
		})
	}
}

func TestHandler_ForceQuestion(t *testing.T) {
	for _, postErr := range []error{nil, assert.AnError} {
		h, questions, s := newHandlerTest(t)
		questions.EXPECT().PostDaily(gomock.Any(), entity.TriggerManual).
			DoAndReturn(func(ctx context.Context, _ entity.Trigger) (*entity.Announcement, error) {
				_, hasDeadline := ctx.Deadline()
				assert.True(t, hasDeadline)
				if postErr != nil {
					return nil, postErr
				}
				return &entity.Announcement{Number: 1}, nil
			}).Times(1)

		h.route(s, commandInteraction(cmdForceQuestion, member(discordgo.PermissionManageChannels)))

		require.Len(t, s.responses, 1)
		assert.Equal(t, discordgo.InteractionResponseDeferredChannelMessageWithSource, s.responses[0].Type)
		require.Len(t, s.followups, 1)
		assert.Equal(t, domain.MsgCommandReceived, s.followups[0].Content)
		assertEphemeral(t, s)
	}
}

func TestHandler_UnknownInteraction(t *testing.T) {
	h, _, s := newHandlerTest(t)

	h.route(s, commandInteraction("unknown", member(0)))
	h.route(s, buttonInteraction("other:thing", member(0)))

	assert.Empty(t, s.responses)
	assert.Empty(t, s.followups)
}

func TestMessenger(t *testing.T) {
	sender := &fakeSender{}
	m := &Messenger{sender: sender}

	require.NoError(t, m.Send(context.Background(), "C1", "hello"))
	assert.Equal(t, []string{"C1:hello"}, sender.sent)
	assert.Equal(t, "<@&42>", m.MentionRole("42"))

	sender.err = assert.AnError
	err := m.Send(context.Background(), "C1", "again")
	assert.ErrorIs(t, err, domain.ErrSendFailure)
	assert.ErrorIs(t, err, assert.AnError)
}

type fakeSender struct {
	sent []string
	err  error
}

func (f *fakeSender) ChannelMessageSend(channelID string, content string, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.sent = append(f.sent, channelID+":"+content)
	return &discordgo.Message{}, nil
}
