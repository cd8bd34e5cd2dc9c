package service

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/diegoclair/qotd-bot/mocks"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const (
	testQotdChannel       = "C-QOTD"
	testModerationChannel = "C-MOD"
	testRole              = "R-PING"
	testMention           = "<@&R-PING>"
)

type allMocks struct {
	mockQueueStore *mocks.MockQueueStore
	mockMessenger  *mocks.MockMessenger
}

func testOptions() Options {
	return Options{
		QotdChannelID:       testQotdChannel,
		ModerationChannelID: testModerationChannel,
		RoleID:              testRole,
		PostHour:            9,
		Location:            time.UTC,
	}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newServiceTestMock(t *testing.T) (m allMocks, svc *questionService, ctrl *gomock.Controller) {
	t.Helper()

	ctrl = gomock.NewController(t)

	m = allMocks{
		mockQueueStore: mocks.NewMockQueueStore(ctrl),
		mockMessenger:  mocks.NewMockMessenger(ctrl),
	}
	m.mockMessenger.EXPECT().MentionRole(testRole).Return(testMention).AnyTimes()

	// validate service creation
	svc = newQuestionService(m.mockQueueStore, m.mockMessenger, testOptions(), testLogger(), nil)
	require.NotNil(t, svc)

	return
}
