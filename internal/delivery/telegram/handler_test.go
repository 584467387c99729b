package telegram

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/agrofel/sales-agent/internal/domain/constants"
	"github.com/agrofel/sales-agent/internal/domain/entity"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type fakeBot struct {
	mu   sync.Mutex
	sent []tgbotapi.MessageConfig
}

func (f *fakeBot) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if m, ok := c.(tgbotapi.MessageConfig); ok {
		f.sent = append(f.sent, m)
	}
	return tgbotapi.Message{}, nil
}

func (f *fakeBot) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (f *fakeBot) GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel {
	return make(chan tgbotapi.Update)
}

func (f *fakeBot) StopReceivingUpdates() {}

func (f *fakeBot) texts() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.sent))
	for _, m := range f.sent {
		out = append(out, m.Text)
	}
	return out
}

type stubChatUseCase struct {
	mu      sync.Mutex
	reply   string
	err     error
	wait    bool
	convs   []string
	cleared []string
}

func (s *stubChatUseCase) ProcessMessage(ctx context.Context, conversationID, username, text string) (*entity.Reply, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.convs = append(s.convs, conversationID)
	if s.wait {
		<-ctx.Done()
		return &entity.Reply{Text: "Desculpe: " + ctx.Err().Error(), Route: entity.RouteDefault}, nil
	}
	if s.err != nil {
		return nil, s.err
	}
	return &entity.Reply{Text: s.reply, Route: entity.RouteDefault}, nil
}

func (s *stubChatUseCase) ClearHistory(ctx context.Context, conversationID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cleared = append(s.cleared, conversationID)
	return nil
}

func (s *stubChatUseCase) GetHistory(ctx context.Context, conversationID string) ([]entity.Message, error) {
	return nil, nil
}

func command(chatID int64, cmd string) *tgbotapi.Message {
	return &tgbotapi.Message{
		Text:     cmd,
		Chat:     &tgbotapi.Chat{ID: chatID},
		From:     &tgbotapi.User{ID: chatID, UserName: "tester"},
		Entities: []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(cmd)}},
	}
}

func TestHandleCommand_StartAndReset(t *testing.T) {
	bot := &fakeBot{}
	uc := &stubChatUseCase{}
	h := newBotHandler(bot, uc, 1)
	ctx := context.Background()

	h.handleMessage(ctx, command(42, "/start"))
	h.handleMessage(ctx, command(42, "/reset"))
	h.handleMessage(ctx, command(42, "/nope"))

	got := bot.texts()
	if len(got) != 3 {
		t.Fatalf("expected 3 replies, got %d: %v", len(got), got)
	}
	if got[0] != constants.WelcomeMessage {
		t.Fatalf("unexpected welcome: %q", got[0])
	}
	if got[1] != resetMessage || got[2] != unknownCommand {
		t.Fatalf("unexpected replies: %v", got)
	}
	if len(uc.cleared) != 1 || uc.cleared[0] != "tg:42" {
		t.Fatalf("history not cleared for tg:42: %v", uc.cleared)
	}
}

func TestWorkerPool_ProcessSendsReply(t *testing.T) {
	bot := &fakeBot{}
	uc := &stubChatUseCase{reply: "Olá! Sou o AVI."}
	h := newBotHandler(bot, uc, 1)

	if !h.startProcessing(7) {
		t.Fatalf("startProcessing should succeed for a new user")
	}
	if h.startProcessing(7) {
		t.Fatalf("second startProcessing must be rejected")
	}

	h.workerPool.process(&messageRequest{ctx: context.Background(), userID: 7, username: "u", text: "oi", chatID: 99})

	if !h.startProcessing(7) {
		t.Fatalf("processing flag should be cleared")
	}
	got := bot.texts()
	if len(got) != 1 || got[0] != "Olá! Sou o AVI." {
		t.Fatalf("unexpected replies: %v", got)
	}
	if uc.convs[0] != "tg:99" {
		t.Fatalf("unexpected conversation id: %q", uc.convs[0])
	}
}

func TestWorkerPool_ErrorMessage(t *testing.T) {
	bot := &fakeBot{}
	h := newBotHandler(bot, &stubChatUseCase{err: errors.New("boom")}, 1)

	h.workerPool.process(&messageRequest{ctx: context.Background(), userID: 1, text: "oi", chatID: 1})

	got := bot.texts()
	if len(got) != 1 || got[0] != msgInternal {
		t.Fatalf("unexpected replies: %v", got)
	}
}

func TestWorkerPool_DeadlineSendsTimeoutMessage(t *testing.T) {
	bot := &fakeBot{}
	h := newBotHandler(bot, &stubChatUseCase{wait: true}, 1)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	h.workerPool.process(&messageRequest{ctx: ctx, userID: 2, text: "oi", chatID: 2})

	got := bot.texts()
	if len(got) != 1 || got[0] != msgTimeout {
		t.Fatalf("expected timeout message, got %v", got)
	}
}

func TestCheckRateLimit(t *testing.T) {
	h := newBotHandler(&fakeBot{}, &stubChatUseCase{}, 1)
	wp := h.workerPool

	for i := 0; i < maxRequestsPerSecond; i++ {
		if !wp.checkRateLimit(5) {
			t.Fatalf("request %d should pass", i+1)
		}
	}
	if wp.checkRateLimit(5) {
		t.Fatalf("request over the limit should be rejected")
	}
	if !wp.checkRateLimit(6) {
		t.Fatalf("other users are not limited")
	}

	if removed := wp.evictIdle(time.Now().Add(rateLimiterMaxIdleTime + time.Minute)); removed != 2 {
		t.Fatalf("expected 2 idle limiters removed, got %d", removed)
	}
}

func TestWorkerPool_StartSubmitShutdown(t *testing.T) {
	bot := &fakeBot{}
	h := newBotHandler(bot, &stubChatUseCase{reply: "ok"}, 2)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h.workerPool.start(ctx)
	msg := &tgbotapi.Message{Text: "20 unidades de Ureia", Chat: &tgbotapi.Chat{ID: 3}, From: &tgbotapi.User{ID: 3}}
	h.handleMessage(ctx, msg)
	h.workerPool.shutdown()

	got := bot.texts()
	if len(got) != 1 || got[0] != "ok" {
		t.Fatalf("unexpected replies: %v", got)
	}
}

func TestSplitIntoChunks(t *testing.T) {
	text := strings.Repeat("a", 10)
	chunks := splitIntoChunks(text, 4)
	if len(chunks) != 3 || chunks[2] != "aa" {
		t.Fatalf("unexpected chunks: %v", chunks)
	}
	if got := splitIntoChunks("abc", 0); len(got) != 1 {
		t.Fatalf("limit 0 should return the input as one chunk")
	}
}
