package gemini

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/agrofel/sales-agent/internal/domain/constants"
	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type step struct {
	resp *genai.GenerateContentResponse
	err  error
}

type fakeSession struct {
	steps     []step
	prompts   []string
	history   []string
	discarded int
}

func (f *fakeSession) send(ctx context.Context, text string) (*genai.GenerateContentResponse, error) {
	f.prompts = append(f.prompts, text)
	s := f.steps[0]
	if len(f.steps) > 1 {
		f.steps = f.steps[1:]
	}
	if s.err != nil {
		return nil, s.err
	}
	f.history = append(f.history, text)
	return s.resp, nil
}

func (f *fakeSession) discardLast() {
	f.discarded++
	if len(f.history) > 0 {
		f.history = f.history[:len(f.history)-1]
	}
}

func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{
		Content:      &genai.Content{Role: "model", Parts: []genai.Part{genai.Text(text)}},
		FinishReason: genai.FinishReasonStop,
	}}}
}

func testClient(sessions ...*fakeSession) *Client {
	i := 0
	c := newClient(func() chatSession {
		s := sessions[i]
		i++
		return s
	})
	c.retryDelay = time.Millisecond
	return c
}

func TestBuildPrompt(t *testing.T) {
	got := BuildPrompt("Contexto X", "Oi, tudo bem?")
	assert.True(t, strings.HasPrefix(got, PersonaInstruction))
	assert.Contains(t, got, "Seu nome é AVI")
	assert.True(t, strings.HasSuffix(got, "Contexto atual da conversa:\nContexto X\n\nResponda à seguinte mensagem do cliente:\nOi, tudo bem?"))

	assert.Contains(t, BuildPrompt(" ", "oi"), constants.DefaultContext)
}

func TestSendMessage_Success(t *testing.T) {
	s := &fakeSession{steps: []step{{resp: textResponse("Olá, sou o AVI!")}}}
	c := testClient(s)

	got, err := c.SendMessage(context.Background(), "c1", "oi", "ctx")
	require.NoError(t, err)
	assert.Equal(t, "Olá, sou o AVI!", got)
	require.Len(t, s.prompts, 1)
	assert.Contains(t, s.prompts[0], "ctx")
}

func TestSendMessage_RetriesThenSucceeds(t *testing.T) {
	s := &fakeSession{steps: []step{
		{err: errors.New("503")},
		{resp: textResponse("  ")},
		{resp: textResponse("ok")},
	}}
	c := testClient(s)

	got, err := c.SendMessage(context.Background(), "c1", "oi", "ctx")
	require.NoError(t, err)
	assert.Equal(t, "ok", got)
	assert.Len(t, s.prompts, 3)
	assert.Equal(t, 1, s.discarded)
	assert.Len(t, s.history, 1)
}

func TestSendMessage_AllAttemptsFail(t *testing.T) {
	s := &fakeSession{steps: []step{{err: errors.New("quota")}}}
	c := testClient(s)

	_, err := c.SendMessage(context.Background(), "c1", "oi", "ctx")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota")
	assert.Len(t, s.prompts, constants.MaxRetries)
	assert.Empty(t, s.history)
}

func TestSendMessage_SafetyBlocked(t *testing.T) {
	blocked := &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{FinishReason: genai.FinishReasonSafety}}}
	s := &fakeSession{steps: []step{{resp: blocked}}}
	c := testClient(s)

	got, err := c.SendMessage(context.Background(), "c1", "oi", "ctx")
	require.NoError(t, err)
	assert.Equal(t, constants.SafetyFallback, got)
	assert.Len(t, s.prompts, 1)
	assert.Empty(t, s.history)
}

func TestSendMessage_ContextCancelled(t *testing.T) {
	s := &fakeSession{steps: []step{{err: errors.New("timeout")}}}
	c := testClient(s)
	c.retryDelay = time.Hour

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.SendMessage(ctx, "c1", "oi", "ctx")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSessionsPerConversationAndReset(t *testing.T) {
	a := &fakeSession{steps: []step{{resp: textResponse("a")}}}
	b := &fakeSession{steps: []step{{resp: textResponse("b")}}}
	fresh := &fakeSession{steps: []step{{resp: textResponse("fresh")}}}
	c := testClient(a, b, fresh)
	ctx := context.Background()

	got, _ := c.SendMessage(ctx, "one", "x", "")
	assert.Equal(t, "a", got)
	got, _ = c.SendMessage(ctx, "two", "x", "")
	assert.Equal(t, "b", got)
	got, _ = c.SendMessage(ctx, "one", "y", "")
	assert.Equal(t, "a", got)

	c.Reset("one")
	got, _ = c.SendMessage(ctx, "one", "z", "")
	assert.Equal(t, "fresh", got)
	assert.NoError(t, c.Close())
}

func TestEvictIdleSessions(t *testing.T) {
	old := &fakeSession{steps: []step{{resp: textResponse("old")}}}
	recent := &fakeSession{steps: []step{{resp: textResponse("recent")}}}
	fresh := &fakeSession{steps: []step{{resp: textResponse("fresh")}}}
	c := testClient(old, recent, fresh)
	ctx := context.Background()

	_, err := c.SendMessage(ctx, "old", "x", "")
	require.NoError(t, err)
	_, err = c.SendMessage(ctx, "recent", "x", "")
	require.NoError(t, err)
	c.sessions["old"].lastUsed = time.Now().Add(-c.maxIdle - time.Minute)

	assert.Equal(t, 1, c.evictIdle(time.Now()))
	assert.Len(t, c.sessions, 1)

	got, err := c.SendMessage(ctx, "old", "y", "")
	require.NoError(t, err)
	assert.Equal(t, "fresh", got)

	got, err = c.SendMessage(ctx, "recent", "y", "")
	require.NoError(t, err)
	assert.Equal(t, "recent", got)
}

func TestCleanupStopsOnClose(t *testing.T) {
	c := testClient()
	done := make(chan struct{})
	go func() {
		c.cleanupSessions(time.Millisecond)
		close(done)
	}()

	require.NoError(t, c.Close())
	require.NoError(t, c.Close())
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("cleanup goroutine did not stop")
	}
}
