package discord

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/diegoclair/qotd-bot/internal/domain"
	"github.com/diegoclair/qotd-bot/internal/domain/contract"
	"github.com/diegoclair/qotd-bot/internal/domain/entity"
)

const (
	handlerTimeout = 30 * time.Second
	maxEmbedTitle  = 256
)

// session is the part of *discordgo.Session the interaction handlers use
type session interface {
	InteractionRespond(interaction *discordgo.Interaction, resp *discordgo.InteractionResponse, options ...discordgo.RequestOption) error
	FollowupMessageCreate(interaction *discordgo.Interaction, wait bool, data *discordgo.WebhookParams, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

type Handler struct {
	questions contract.QuestionService
	logger    *slog.Logger
	router    *router
}

func NewHandler(questions contract.QuestionService, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}

	h := &Handler{
		questions: questions,
		logger:    logger,
		router:    newRouter(),
	}

	h.router.addCommand(cmdSuggest, h.handleSuggest)
	h.router.addCommand(cmdReview, h.requireManager(domain.MsgReviewDenied, h.handleReview))
	h.router.addCommand(cmdForceQuestion, h.requireManager(domain.MsgForceDenied, h.handleForceQuestion))
	h.router.addComponent(domain.ActionApprove, h.requireManager(domain.MsgReviewDenied, h.handleDecision(entity.StorePending)))
	h.router.addComponent(domain.ActionReject, h.requireManager(domain.MsgReviewDenied, h.handleDecision(entity.StoreRejected)))

	return h
}

// OnInteractionCreate is the main interaction router.
// It should be registered as the interaction handler of the session.
func (h *Handler) OnInteractionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	h.route(s, i)
}

func (h *Handler) route(s session, i *discordgo.InteractionCreate) {
	if !h.router.dispatch(s, i) {
		h.logger.Debug("Unhandled interaction", slog.Int("type", int(i.Type)))
	}
}

// canManage mirrors the "Manage Channels" check moderators have always needed.
// Interactions from DMs carry no member and are never elevated.
func canManage(i *discordgo.InteractionCreate) bool {
	if i.Member == nil {
		return false
	}
	return i.Member.Permissions&discordgo.PermissionManageChannels != 0
}

func (h *Handler) requireManager(denied string, next interactionHandler) interactionHandler {
	return func(s session, i *discordgo.InteractionCreate) {
		if !canManage(i) {
			h.respond(s, i, denied)
			return
		}
		next(s, i)
	}
}

func (h *Handler) handleSuggest(s session, i *discordgo.InteractionCreate) {
	ctx, cancel := context.WithTimeout(context.Background(), handlerTimeout)
	defer cancel()

	prompt := ""
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == optionPrompt {
			prompt = opt.StringValue()
		}
	}

	err := h.questions.Submit(ctx, prompt)
	switch {
	case err == nil:
		h.respond(s, i, domain.MsgSubmitted)
	case errors.Is(err, domain.ErrEmptyPrompt):
		h.respond(s, i, domain.MsgEmptyPrompt)
	default:
		h.logger.Error("Failed to store submission", slog.String("user", userID(i)), slog.String("error", err.Error()))
		h.respond(s, i, domain.MsgSubmitFailed)
	}
}

func (h *Handler) handleReview(s session, i *discordgo.InteractionCreate) {
	ctx, cancel := context.WithTimeout(context.Background(), handlerTimeout)
	defer cancel()

	h.respond(s, i, domain.MsgBeginReview)

	item, err := h.questions.BeginReview(ctx)
	if err != nil {
		h.logger.Error("Failed to load submissions", slog.String("error", err.Error()))
		h.followup(s, i, &discordgo.WebhookParams{Content: domain.MsgReviewFailed})
		return
	}

	h.followup(s, i, reviewMessage(item))
}

func (h *Handler) handleDecision(target entity.StoreName) interactionHandler {
	done, failed := domain.MsgApproved, domain.MsgApproveFailed
	decide := h.questions.Approve
	if target == entity.StoreRejected {
		done, failed = domain.MsgRejected, domain.MsgRejectFailed
		decide = h.questions.Reject
	}

	return func(s session, i *discordgo.InteractionCreate) {
		ctx, cancel := context.WithTimeout(context.Background(), handlerTimeout)
		defer cancel()

		next, err := decide(ctx)
		if errors.Is(err, domain.ErrNothingToReview) {
			h.respond(s, i, domain.MsgNoSubmissions)
			return
		}
		if err != nil {
			h.logger.Error("Failed to review submission",
				slog.String("target", string(target)),
				slog.String("user", userID(i)),
				slog.String("error", err.Error()),
			)
			h.respond(s, i, failed)
			return
		}

		h.respond(s, i, done)
		h.followup(s, i, reviewMessage(next))
	}
}

func (h *Handler) handleForceQuestion(s session, i *discordgo.InteractionCreate) {
	ctx, cancel := context.WithTimeout(context.Background(), handlerTimeout)
	defer cancel()

	// posting talks to two channels and can outlast the interaction deadline
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Flags: discordgo.MessageFlagsEphemeral},
	})
	if err != nil {
		h.logger.Error("Failed to defer interaction", slog.String("error", err.Error()))
	}

	if _, err := h.questions.PostDaily(ctx, entity.TriggerManual); err != nil {
		h.logger.Warn("Manual post failed", slog.String("user", userID(i)), slog.String("error", err.Error()))
	}

	h.followup(s, i, &discordgo.WebhookParams{Content: domain.MsgCommandReceived})
}

func (h *Handler) respond(s session, i *discordgo.InteractionCreate, content string) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		h.logger.Error("Failed to respond to interaction", slog.String("error", err.Error()))
	}
}

func (h *Handler) followup(s session, i *discordgo.InteractionCreate, params *discordgo.WebhookParams) {
	params.Flags |= discordgo.MessageFlagsEphemeral
	if _, err := s.FollowupMessageCreate(i.Interaction, true, params); err != nil {
		h.logger.Error("Failed to send followup", slog.String("error", err.Error()))
	}
}

// reviewMessage shows the submission under review with approve/reject buttons,
// or a plain notice without buttons when nothing is left
func reviewMessage(item *entity.ReviewItem) *discordgo.WebhookParams {
	if item == nil {
		return &discordgo.WebhookParams{Content: domain.MsgNoSubmissions}
	}

	embed := &discordgo.MessageEmbed{
		Color: 0xFFFF00,
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf(domain.MsgPendingFooter, item.Pending),
		},
	}
	if len(item.Text) <= maxEmbedTitle {
		embed.Title = item.Text
	} else {
		embed.Description = item.Text
	}

	return &discordgo.WebhookParams{
		Embeds: []*discordgo.MessageEmbed{embed},
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{
				Components: []discordgo.MessageComponent{
					discordgo.Button{
						Label:    "Approve",
						Style:    discordgo.SuccessButton,
						CustomID: domain.ActionApprove,
						Emoji:    &discordgo.ComponentEmoji{Name: "✅"},
					},
					discordgo.Button{
						Label:    "Reject",
						Style:    discordgo.DangerButton,
						CustomID: domain.ActionReject,
						Emoji:    &discordgo.ComponentEmoji{Name: "❌"},
					},
				},
			},
		},
	}
}

func userID(i *discordgo.InteractionCreate) string {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.ID
	}
	if i.User != nil {
		return i.User.ID
	}
	return ""
}
