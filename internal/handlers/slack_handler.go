package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/diegoclair/qotd-bot/internal/domain"
	"github.com/diegoclair/qotd-bot/internal/domain/contract"
	"github.com/diegoclair/qotd-bot/internal/domain/entity"
	slackcmd "github.com/diegoclair/qotd-bot/internal/domain/slack"
	"github.com/slack-go/slack"
)

const (
	backgroundTimeout = 30 * time.Second
	reviewBlockID     = "qotd_review"
)

type SlackHandler struct {
	slackClient   contract.SlackClient
	questions     contract.QuestionService
	signingSecret string
	logger        *slog.Logger

	// postWebhook answers block actions through their response_url
	postWebhook func(ctx context.Context, url string, msg *slack.WebhookMessage) error
	// background runs work that must not hold up the 3 second acknowledgement
	background func(func())
}

type Option func(*SlackHandler)

// WithWebhookPoster replaces the response_url client
func WithWebhookPoster(post func(ctx context.Context, url string, msg *slack.WebhookMessage) error) Option {
	return func(h *SlackHandler) {
		h.postWebhook = post
	}
}

// WithBackground replaces the goroutine launcher used for deferred work
func WithBackground(run func(func())) Option {
	return func(h *SlackHandler) {
		h.background = run
	}
}

func New(slackClient contract.SlackClient, questions contract.QuestionService, signingSecret string, logger *slog.Logger, opts ...Option) *SlackHandler {
	if logger == nil {
		logger = slog.Default()
	}

	h := &SlackHandler{
		slackClient:   slackClient,
		questions:     questions,
		signingSecret: signingSecret,
		logger:        logger,
		postWebhook:   slack.PostWebhookContext,
		background:    func(f func()) { go f() },
	}
	for _, opt := range opts {
		opt(h)
	}

	return h
}

func (h *SlackHandler) HandleSlashCommand(w http.ResponseWriter, r *http.Request) {
	if !h.verify(w, r) {
		return
	}

	s, err := slack.SlashCommandParse(r)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	cmd, err := slackcmd.ParseCommand(s.Text)
	if err != nil {
		h.writeJSON(w, ephemeral(fmt.Sprintf("%s\n\n%s", err.Error(), slackcmd.GetHelpText())))
		return
	}

	h.writeJSON(w, h.handleCommand(r.Context(), cmd, &s))
}

func (h *SlackHandler) handleCommand(ctx context.Context, cmd *slackcmd.Command, slashCmd *slack.SlashCommand) *slack.Msg {
	switch cmd.Type {
	case slackcmd.CmdSuggest:
		return h.handleSuggest(ctx, cmd, slashCmd)
	case slackcmd.CmdReview:
		return h.handleReview(ctx, slashCmd)
	case slackcmd.CmdForceQuestion:
		return h.handleForceQuestion(slashCmd)
	default:
		return ephemeral(slackcmd.GetHelpText())
	}
}

func (h *SlackHandler) handleSuggest(ctx context.Context, cmd *slackcmd.Command, slashCmd *slack.SlashCommand) *slack.Msg {
	err := h.questions.Submit(ctx, cmd.Args)
	switch {
	case err == nil:
		return ephemeral(domain.MsgSubmitted)
	case errors.Is(err, domain.ErrEmptyPrompt):
		return ephemeral(domain.MsgEmptyPrompt)
	default:
		h.logger.Error("Failed to store submission", slog.String("user", slashCmd.UserID), slog.String("error", err.Error()))
		return ephemeral(domain.MsgSubmitFailed)
	}
}

func (h *SlackHandler) handleReview(ctx context.Context, slashCmd *slack.SlashCommand) *slack.Msg {
	if err := h.authorize(slashCmd.UserID); err != nil {
		h.denied(slashCmd.UserID, err)
		return ephemeral(domain.MsgReviewDenied)
	}

	item, err := h.questions.BeginReview(ctx)
	if err != nil {
		h.logger.Error("Failed to load submissions", slog.String("error", err.Error()))
		return ephemeral(domain.MsgReviewFailed)
	}

	msg := ephemeral(domain.MsgBeginReview)
	msg.Blocks = reviewBlocks(domain.MsgBeginReview, item)
	return msg
}

func (h *SlackHandler) handleForceQuestion(slashCmd *slack.SlashCommand) *slack.Msg {
	if err := h.authorize(slashCmd.UserID); err != nil {
		h.denied(slashCmd.UserID, err)
		return ephemeral(domain.MsgForceDenied)
	}

	user := slashCmd.UserID
	h.background(func() {
		ctx, cancel := context.WithTimeout(context.Background(), backgroundTimeout)
		defer cancel()

		if _, err := h.questions.PostDaily(ctx, entity.TriggerManual); err != nil {
			h.logger.Warn("Manual post failed", slog.String("user", user), slog.String("error", err.Error()))
		}
	})

	return ephemeral(domain.MsgCommandReceived)
}

// HandleInteraction receives the approve/reject buttons of a review message.
// The request is acknowledged at once and the outcome replaces the original
// message through its response_url.
func (h *SlackHandler) HandleInteraction(w http.ResponseWriter, r *http.Request) {
	if !h.verify(w, r) {
		return
	}

	var callback slack.InteractionCallback
	if err := json.Unmarshal([]byte(r.FormValue("payload")), &callback); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	w.WriteHeader(http.StatusOK)

	if callback.Type != slack.InteractionTypeBlockActions || len(callback.ActionCallback.BlockActions) == 0 {
		return
	}

	actionID := callback.ActionCallback.BlockActions[0].ActionID
	if actionID != domain.ActionApprove && actionID != domain.ActionReject {
		h.logger.Debug("Unhandled block action", slog.String("action_id", actionID))
		return
	}

	userID, responseURL := callback.User.ID, callback.ResponseURL
	h.background(func() {
		ctx, cancel := context.WithTimeout(context.Background(), backgroundTimeout)
		defer cancel()

		msg := h.handleDecision(ctx, actionID, userID)
		if err := h.postWebhook(ctx, responseURL, msg); err != nil {
			h.logger.Error("Failed to answer block action", slog.String("error", err.Error()))
		}
	})
}

func (h *SlackHandler) handleDecision(ctx context.Context, actionID, userID string) *slack.WebhookMessage {
	if err := h.authorize(userID); err != nil {
		h.denied(userID, err)
		return &slack.WebhookMessage{ResponseType: slack.ResponseTypeEphemeral, Text: domain.MsgReviewDenied}
	}

	done, failed := domain.MsgApproved, domain.MsgApproveFailed
	decide := h.questions.Approve
	if actionID == domain.ActionReject {
		done, failed = domain.MsgRejected, domain.MsgRejectFailed
		decide = h.questions.Reject
	}

	next, err := decide(ctx)
	switch {
	case errors.Is(err, domain.ErrNothingToReview):
		return &slack.WebhookMessage{ResponseType: slack.ResponseTypeEphemeral, ReplaceOriginal: true, Text: domain.MsgNoSubmissions}
	case err != nil:
		h.logger.Error("Failed to review submission",
			slog.String("action_id", actionID),
			slog.String("user", userID),
			slog.String("error", err.Error()),
		)
		return &slack.WebhookMessage{ResponseType: slack.ResponseTypeEphemeral, Text: failed}
	}

	blocks := reviewBlocks(done, next)
	return &slack.WebhookMessage{
		ResponseType:    slack.ResponseTypeEphemeral,
		ReplaceOriginal: true,
		Text:            done,
		Blocks:          &blocks,
	}
}

// authorize grants moderation to workspace admins and owners
func (h *SlackHandler) authorize(userID string) error {
	user, err := h.slackClient.GetUserInfo(userID)
	if err != nil {
		return fmt.Errorf("failed to look up user %s: %w", userID, err)
	}
	if !user.IsAdmin && !user.IsOwner {
		return domain.ErrPermissionDenied
	}
	return nil
}

func (h *SlackHandler) denied(userID string, err error) {
	if domain.IsUserError(err) {
		h.logger.Debug("Moderation denied", slog.String("user", userID))
		return
	}
	h.logger.Warn("Moderation check failed", slog.String("user", userID), slog.String("error", err.Error()))
}

// verify checks the Slack signature and leaves the body readable for form parsing
func (h *SlackHandler) verify(w http.ResponseWriter, r *http.Request) bool {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return false
	}
	r.Body = io.NopCloser(bytes.NewBuffer(body))

	verifier, err := slack.NewSecretsVerifier(r.Header, h.signingSecret)
	if err != nil {
		w.WriteHeader(http.StatusUnauthorized)
		return false
	}

	if _, err := verifier.Write(body); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return false
	}

	if err := verifier.Ensure(); err != nil {
		w.WriteHeader(http.StatusUnauthorized)
		return false
	}

	return true
}

// reviewBlocks shows a header line and the submission under review with
// approve/reject buttons, or the empty notice without buttons
func reviewBlocks(header string, item *entity.ReviewItem) slack.Blocks {
	blocks := []slack.Block{
		slack.NewSectionBlock(slack.NewTextBlockObject(slack.PlainTextType, header, false, false), nil, nil),
	}

	if item == nil {
		blocks = append(blocks,
			slack.NewSectionBlock(slack.NewTextBlockObject(slack.PlainTextType, domain.MsgNoSubmissions, false, false), nil, nil),
		)
		return slack.Blocks{BlockSet: blocks}
	}

	approve := slack.NewButtonBlockElement(domain.ActionApprove, "approve",
		slack.NewTextBlockObject(slack.PlainTextType, "Approve", true, false)).WithStyle(slack.StylePrimary)
	reject := slack.NewButtonBlockElement(domain.ActionReject, "reject",
		slack.NewTextBlockObject(slack.PlainTextType, "Reject", true, false)).WithStyle(slack.StyleDanger)

	blocks = append(blocks,
		slack.NewDividerBlock(),
		slack.NewSectionBlock(slack.NewTextBlockObject(slack.PlainTextType, item.Text, false, false), nil, nil),
		slack.NewContextBlock("", slack.NewTextBlockObject(slack.PlainTextType, fmt.Sprintf(domain.MsgPendingFooter, item.Pending), false, false)),
		slack.NewActionBlock(reviewBlockID, approve, reject),
	)

	return slack.Blocks{BlockSet: blocks}
}

func ephemeral(text string) *slack.Msg {
	return &slack.Msg{
		ResponseType: slack.ResponseTypeEphemeral,
		Text:         text,
	}
}

func (h *SlackHandler) writeJSON(w http.ResponseWriter, msg *slack.Msg) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(msg); err != nil {
		h.logger.Error("Failed to write response", slog.String("error", err.Error()))
	}
}
