package bot

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"Domain_Monitor/internal/mocks"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// stubClient records replies and serves a canned updates channel
type stubClient struct {
	replies []string
	updates chan tgbotapi.Update
}

func (c *stubClient) GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel {
	return c.updates
}

func (c *stubClient) Send(m tgbotapi.Chattable) (tgbotapi.Message, error) {
	c.replies = append(c.replies, m.(tgbotapi.MessageConfig).Text)
	return tgbotapi.Message{}, nil
}

func (c *stubClient) lastReply() string {
	if len(c.replies) == 0 {
		return ""
	}
	return c.replies[len(c.replies)-1]
}

// commandMessage builds a message Telegram would deliver for a typed command
func commandMessage(userID int64, text string) *tgbotapi.Message {
	commandLen := len(text)
	if space := strings.Index(text, " "); space >= 0 {
		commandLen = space
	}

	return &tgbotapi.Message{
		From: &tgbotapi.User{ID: userID},
		Chat: &tgbotapi.Chat{ID: userID},
		Text: text,
		Entities: []tgbotapi.MessageEntity{
			{Type: "bot_command", Offset: 0, Length: commandLen},
		},
	}
}

func newTestDispatcher(client *stubClient, monitor *mocks.MockMonitor, users *mocks.MockUsers, adminIDs []int64) *Dispatcher {
	return NewDispatcher(client, monitor, users, mocks.NoopLogger{}, adminIDs, time.Minute)
}

func TestStartSubscribes(t *testing.T) {
	client := &stubClient{}
	mockUsers := &mocks.MockUsers{}
	mockUsers.On("Add", int64(100)).Return(true)
	dispatcher := newTestDispatcher(client, &mocks.MockMonitor{}, mockUsers, nil)

	dispatcher.handleCommand(context.Background(), commandMessage(100, "/start"))

	assert.Equal(t, "You are now subscribed to domain change notifications.", client.lastReply())
	mockUsers.AssertExpectations(t)
}

func TestStartAlreadySubscribed(t *testing.T) {
	client := &stubClient{}
	mockUsers := &mocks.MockUsers{}
	mockUsers.On("Add", int64(100)).Return(false)
	dispatcher := newTestDispatcher(client, &mocks.MockMonitor{}, mockUsers, nil)

	dispatcher.handleCommand(context.Background(), commandMessage(100, "/start"))

	assert.Equal(t, "You are already subscribed.", client.lastReply())
}

func TestStopUnsubscribes(t *testing.T) {
	client := &stubClient{}
	mockUsers := &mocks.MockUsers{}
	mockUsers.On("Remove", int64(100)).Return(true)
	dispatcher := newTestDispatcher(client, &mocks.MockMonitor{}, mockUsers, nil)

	dispatcher.handleCommand(context.Background(), commandMessage(100, "/stop"))

	assert.Equal(t, "You are unsubscribed from domain change notifications.", client.lastReply())
}

func TestCooldownBlocksRepeatedCalls(t *testing.T) {
	client := &stubClient{}
	mockUsers := &mocks.MockUsers{}
	mockUsers.On("Add", int64(100)).Return(true)
	dispatcher := newTestDispatcher(client, &mocks.MockMonitor{}, mockUsers, nil)

	ctx := context.Background()
	dispatcher.handleCommand(ctx, commandMessage(100, "/start"))
	dispatcher.handleCommand(ctx, commandMessage(100, "/start"))

	// The second call is refused before touching the registry
	mockUsers.AssertNumberOfCalls(t, "Add", 1)
	assert.Contains(t, client.lastReply(), "Please wait")
}

func TestCooldownIsPerUser(t *testing.T) {
	client := &stubClient{}
	mockUsers := &mocks.MockUsers{}
	mockUsers.On("Add", mock.AnythingOfType("int64")).Return(true)
	dispatcher := newTestDispatcher(client, &mocks.MockMonitor{}, mockUsers, nil)

	ctx := context.Background()
	dispatcher.handleCommand(ctx, commandMessage(100, "/start"))
	dispatcher.handleCommand(ctx, commandMessage(200, "/start"))

	mockUsers.AssertNumberOfCalls(t, "Add", 2)
}

func TestAdminBypassesCooldown(t *testing.T) {
	client := &stubClient{}
	mockUsers := &mocks.MockUsers{}
	mockUsers.On("Add", int64(100)).Return(true).Once()
	mockUsers.On("Add", int64(100)).Return(false)
	dispatcher := newTestDispatcher(client, &mocks.MockMonitor{}, mockUsers, []int64{100})

	ctx := context.Background()
	dispatcher.handleCommand(ctx, commandMessage(100, "/start"))
	dispatcher.handleCommand(ctx, commandMessage(100, "/start"))

	mockUsers.AssertNumberOfCalls(t, "Add", 2)
}

func TestStatus(t *testing.T) {
	client := &stubClient{}
	mockUsers := &mocks.MockUsers{}
	mockUsers.On("Count").Return(7)
	dispatcher := newTestDispatcher(client, &mocks.MockMonitor{}, mockUsers, nil)

	dispatcher.handleCommand(context.Background(), commandMessage(100, "/status"))

	assert.Equal(t, "The bot is delivering notifications to 7 subscribers.", client.lastReply())
}

func TestCheckRequiresAdmin(t *testing.T) {
	client := &stubClient{}
	mockMonitor := &mocks.MockMonitor{}
	dispatcher := newTestDispatcher(client, mockMonitor, &mocks.MockUsers{}, []int64{999})

	dispatcher.handleCommand(context.Background(), commandMessage(100, "/check"))

	assert.Equal(t, "You are not allowed to run this command.", client.lastReply())
	mockMonitor.AssertNotCalled(t, "CheckForChanges", mock.Anything)
}

func TestCheckRunsCycle(t *testing.T) {
	client := &stubClient{}
	mockMonitor := &mocks.MockMonitor{}
	mockMonitor.On("CheckForChanges", mock.Anything).Return("report", nil)
	dispatcher := newTestDispatcher(client, mockMonitor, &mocks.MockUsers{}, []int64{100})

	dispatcher.handleCommand(context.Background(), commandMessage(100, "/check"))

	assert.Equal(t, "Change check completed.", client.lastReply())
	mockMonitor.AssertExpectations(t)
}

func TestCheckReportsFailure(t *testing.T) {
	client := &stubClient{}
	mockMonitor := &mocks.MockMonitor{}
	mockMonitor.On("CheckForChanges", mock.Anything).Return("", errors.New("source down"))
	dispatcher := newTestDispatcher(client, mockMonitor, &mocks.MockUsers{}, []int64{100})

	dispatcher.handleCommand(context.Background(), commandMessage(100, "/check"))

	assert.Equal(t, "Change check failed, see the admin report.", client.lastReply())
}

func TestCheckTestRunsTestCycle(t *testing.T) {
	client := &stubClient{}
	mockMonitor := &mocks.MockMonitor{}
	mockMonitor.On("RunTestCycle", mock.Anything).Return("report", nil)
	dispatcher := newTestDispatcher(client, mockMonitor, &mocks.MockUsers{}, []int64{100})

	dispatcher.handleCommand(context.Background(), commandMessage(100, "/check_test"))

	assert.Equal(t, "Test check completed.", client.lastReply())
	mockMonitor.AssertExpectations(t)
}

func TestAddDomain(t *testing.T) {
	client := &stubClient{}
	mockMonitor := &mocks.MockMonitor{}
	mockMonitor.On("AddDomain", mock.Anything, "example.com").Return(nil)
	dispatcher := newTestDispatcher(client, mockMonitor, &mocks.MockUsers{}, []int64{100})

	dispatcher.handleCommand(context.Background(), commandMessage(100, "/add_domain example.com"))

	assert.Equal(t, "Domain example.com added and subscribers notified.", client.lastReply())
	mockMonitor.AssertExpectations(t)
}

func TestAddDomainUsage(t *testing.T) {
	client := &stubClient{}
	mockMonitor := &mocks.MockMonitor{}
	dispatcher := newTestDispatcher(client, mockMonitor, &mocks.MockUsers{}, []int64{100})

	dispatcher.handleCommand(context.Background(), commandMessage(100, "/add_domain"))

	assert.Equal(t, "Usage: /add_domain <domain>", client.lastReply())
	mockMonitor.AssertNotCalled(t, "AddDomain", mock.Anything, mock.Anything)
}

func TestAddDomainInvalid(t *testing.T) {
	client := &stubClient{}
	mockMonitor := &mocks.MockMonitor{}
	mockMonitor.On("AddDomain", mock.Anything, "bad domain").Return(errors.New("invalid domain"))
	dispatcher := newTestDispatcher(client, mockMonitor, &mocks.MockUsers{}, []int64{100})

	dispatcher.handleCommand(context.Background(), commandMessage(100, "/add_domain bad domain"))

	assert.Equal(t, "Invalid domain or source update failed.", client.lastReply())
}

func TestRemoveDomain(t *testing.T) {
	client := &stubClient{}
	mockMonitor := &mocks.MockMonitor{}
	mockMonitor.On("RemoveDomain", mock.Anything, "example.com").Return(nil)
	dispatcher := newTestDispatcher(client, mockMonitor, &mocks.MockUsers{}, []int64{100})

	dispatcher.handleCommand(context.Background(), commandMessage(100, "/remove_domain example.com"))

	assert.Equal(t, "Domain example.com removed and subscribers notified.", client.lastReply())
	mockMonitor.AssertExpectations(t)
}

func TestRun_IgnoresNonCommandUpdates(t *testing.T) {
	client := &stubClient{updates: make(chan tgbotapi.Update, 2)}
	mockUsers := &mocks.MockUsers{}
	dispatcher := newTestDispatcher(client, &mocks.MockMonitor{}, mockUsers, nil)

	client.updates <- tgbotapi.Update{}
	client.updates <- tgbotapi.Update{Message: &tgbotapi.Message{
		From: &tgbotapi.User{ID: 100},
		Chat: &tgbotapi.Chat{ID: 100},
		Text: "just chatting",
	}}
	close(client.updates)

	done := make(chan struct{})
	go func() {
		dispatcher.Run(context.Background())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("dispatcher did not stop on closed updates channel")
	}
	assert.Empty(t, client.replies)
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	client := &stubClient{updates: make(chan tgbotapi.Update)}
	dispatcher := newTestDispatcher(client, &mocks.MockMonitor{}, &mocks.MockUsers{}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		dispatcher.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("dispatcher did not stop on context cancel")
	}
}

func TestCommandMessageParsing(t *testing.T) {
	message := commandMessage(100, "/add_domain example.com")

	require.True(t, message.IsCommand())
	assert.Equal(t, "add_domain", message.Command())
	assert.Equal(t, "example.com", message.CommandArguments())
}
