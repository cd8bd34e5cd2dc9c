package test

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/diegoclair/qotd-bot/internal/handlers"
	"github.com/diegoclair/qotd-bot/mocks"
	"github.com/slack-go/slack"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const SigningSecret = "test-signing-secret"

type ServiceMocks struct {
	QuestionServiceMock *mocks.MockQuestionService
	SlackClientMock     *mocks.MockSlackClient
}

// Webhook is a response_url message captured by the handler under test
type Webhook struct {
	URL string
	Msg *slack.WebhookMessage
}

type WebhookRecorder struct {
	mu   sync.Mutex
	Sent []Webhook
}

func (r *WebhookRecorder) post(_ context.Context, url string, msg *slack.WebhookMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.Sent = append(r.Sent, Webhook{URL: url, Msg: msg})
	return nil
}

// GetHandlerTest builds a handler whose deferred work runs inline, so every
// side effect has happened by the time ServeHTTP returns
func GetHandlerTest(t *testing.T) (m ServiceMocks, handler *handlers.SlackHandler, hooks *WebhookRecorder) {
	t.Helper()

	ctrl := gomock.NewController(t)
	m = ServiceMocks{
		QuestionServiceMock: mocks.NewMockQuestionService(ctrl),
		SlackClientMock:     mocks.NewMockSlackClient(ctrl),
	}

	hooks = &WebhookRecorder{}
	handler = handlers.New(m.SlackClientMock, m.QuestionServiceMock, SigningSecret,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		handlers.WithWebhookPoster(hooks.post),
		handlers.WithBackground(func(f func()) { f() }),
	)

	return
}

// CreateSlackRequest creates a properly signed Slack slash command request
func CreateSlackRequest(t *testing.T, command, text, channelID, userID, signingSecret string) *http.Request {
	t.Helper()

	form := url.Values{
		"token":        {"test-token"},
		"team_id":      {"T123456789"},
		"team_domain":  {"test-team"},
		"channel_id":   {channelID},
		"channel_name": {"general"},
		"user_id":      {userID},
		"user_name":    {"test-user"},
		"command":      {command},
		"text":         {text},
		"response_url": {"https://hooks.slack.com/commands/test"},
		"trigger_id":   {"test-trigger-id"},
	}

	return signedRequest(t, "/slack/commands", form.Encode(), signingSecret)
}

// CreateInteractionRequest creates a signed block_actions request for a button press
func CreateInteractionRequest(t *testing.T, actionID, userID, signingSecret string) *http.Request {
	t.Helper()

	payload := fmt.Sprintf(`{
		"type": "block_actions",
		"user": {"id": %q},
		"response_url": "https://hooks.slack.com/actions/test",
		"actions": [{"type": "button", "block_id": "qotd_review", "action_id": %q, "value": "x"}]
	}`, userID, actionID)

	form := url.Values{"payload": {payload}}
	return signedRequest(t, "/slack/interactions", form.Encode(), signingSecret)
}

func signedRequest(t *testing.T, path, body, signingSecret string) *http.Request {
	t.Helper()

	req, err := http.NewRequest(http.MethodPost, path, strings.NewReader(body))
	require.NoError(t, err)

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	timestamp := strconv.FormatInt(time.Now().Unix(), 10)
	req.Header.Set("X-Slack-Request-Timestamp", timestamp)
	req.Header.Set("X-Slack-Signature", generateSlackSignature(signingSecret, timestamp, body))

	return req
}

func generateSlackSignature(signingSecret, timestamp, body string) string {
	baseString := fmt.Sprintf("v0:%s:%s", timestamp, body)
	h := hmac.New(sha256.New, []byte(signingSecret))
	h.Write([]byte(baseString))
	signature := hex.EncodeToString(h.Sum(nil))
	return fmt.Sprintf("v0=%s", signature)
}

func CreateTestRecorder() *httptest.ResponseRecorder {
	return httptest.NewRecorder()
}
