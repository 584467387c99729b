package gemini

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/agrofel/sales-agent/internal/domain/constants"
	"github.com/agrofel/sales-agent/pkg/logger"
	"github.com/google/generative-ai-go/genai"
	"github.com/rs/zerolog"
	"google.golang.org/api/option"
)

// chatSession is one multi-turn conversation with the model.
type chatSession interface {
	// send adds the user turn and the model reply to the history. On error nothing is kept.
	send(ctx context.Context, text string) (*genai.GenerateContentResponse, error)
	// discardLast drops the turn added by the last successful send.
	discardLast()
}

type genaiSession struct {
	cs   *genai.ChatSession
	mark int
}

func (s *genaiSession) send(ctx context.Context, text string) (*genai.GenerateContentResponse, error) {
	s.mark = len(s.cs.History)
	resp, err := s.cs.SendMessage(ctx, genai.Text(text))
	if err != nil {
		s.discardLast()
		return nil, err
	}
	return resp, nil
}

func (s *genaiSession) discardLast() {
	if s.mark <= len(s.cs.History) {
		s.cs.History = s.cs.History[:s.mark]
	}
}

type conversation struct {
	mu       sync.Mutex
	session  chatSession
	lastUsed time.Time
}

// Client har bir suhbat uchun alohida Gemini chat sessiyasini saqlaydi
type Client struct {
	client     *genai.Client
	newSession func() chatSession
	maxRetries int
	retryDelay time.Duration
	log        zerolog.Logger

	mu       sync.Mutex
	sessions map[string]*conversation
	maxIdle  time.Duration
	stop     chan struct{}
	stopOnce sync.Once
}

// NewGeminiClient yangi Gemini AI client yaratish
func NewGeminiClient(ctx context.Context, apiKey, modelName string) (*Client, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	if strings.TrimSpace(modelName) == "" {
		modelName = constants.GeminiModelName
	}
	model := client.GenerativeModel(modelName)

	// Model konfiguratsiyasi
	model.SetTemperature(constants.AITemperature)
	model.SetTopK(constants.AITopK)
	model.SetTopP(constants.AITopP)

	c := newClient(func() chatSession {
		return &genaiSession{cs: model.StartChat()}
	})
	c.client = client
	go c.cleanupSessions(constants.SessionCleanupInterval)
	return c, nil
}

func newClient(factory func() chatSession) *Client {
	return &Client{
		newSession: factory,
		maxRetries: constants.MaxRetries,
		retryDelay: constants.RetryDelay,
		log:        logger.Component("gemini"),
		sessions:   make(map[string]*conversation),
		maxIdle:    constants.SessionMaxIdleTime,
		stop:       make(chan struct{}),
	}
}

func (g *Client) conversation(id string) *conversation {
	g.mu.Lock()
	defer g.mu.Unlock()

	conv, ok := g.sessions[id]
	if !ok {
		conv = &conversation{session: g.newSession()}
		g.sessions[id] = conv
	}
	conv.lastUsed = time.Now()
	return conv
}

// SendMessage persona va kontekst bilan xabarni suhbat sessiyasiga yuboradi
func (g *Client) SendMessage(ctx context.Context, conversationID, message, contextText string) (string, error) {
	conv := g.conversation(conversationID)
	conv.mu.Lock()
	defer conv.mu.Unlock()

	prompt := BuildPrompt(contextText, message)

	var lastErr error
	for attempt := 1; attempt <= g.maxRetries; attempt++ {
		g.log.Debug().Int("attempt", attempt).Str("conversation", conversationID).Msg("Gemini API ga so'rov")

		resp, err := conv.session.send(ctx, prompt)
		if err != nil {
			lastErr = err
			g.log.Warn().Err(err).Int("attempt", attempt).Msg("Urinish xato")
		} else if len(resp.Candidates) == 0 {
			conv.session.discardLast()
			lastErr = fmt.Errorf("no response candidates")
			g.log.Warn().Int("attempt", attempt).Msg("Javob kandidatlari yo'q")
		} else if resp.Candidates[0].FinishReason == genai.FinishReasonSafety {
			conv.session.discardLast()
			g.log.Warn().Str("conversation", conversationID).Msg("Response blocked by safety filter")
			return constants.SafetyFallback, nil
		} else if text := extractText(resp); strings.TrimSpace(text) == "" {
			conv.session.discardLast()
			lastErr = fmt.Errorf("empty response")
			g.log.Warn().Int("attempt", attempt).Msg("Bo'sh javob qaytdi")
		} else {
			return text, nil
		}

		if attempt < g.maxRetries {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(g.retryDelay):
			}
		}
	}

	return "", fmt.Errorf("gemini failed after %d attempts: %w", g.maxRetries, lastErr)
}

// Reset suhbat sessiyasini o'chiradi, keyingi xabar yangi sessiya ochadi
func (g *Client) Reset(conversationID string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.sessions, conversationID)
}

// cleanupSessions uzoq ishlatilmagan sessiyalarni Close gacha tozalab turadi
func (g *Client) cleanupSessions(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-g.stop:
			return
		case <-ticker.C:
			g.evictIdle(time.Now())
		}
	}
}

func (g *Client) evictIdle(now time.Time) int {
	g.mu.Lock()
	defer g.mu.Unlock()

	removed := 0
	for id, conv := range g.sessions {
		if now.Sub(conv.lastUsed) > g.maxIdle {
			delete(g.sessions, id)
			removed++
		}
	}
	if removed > 0 {
		g.log.Debug().Int("removed", removed).Int("active", len(g.sessions)).Msg("Idle chat sessions evicted")
	}
	return removed
}

func extractText(resp *genai.GenerateContentResponse) string {
	var result strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content != nil {
			for _, part := range cand.Content.Parts {
				if t, ok := part.(genai.Text); ok {
					result.WriteString(string(t))
				}
			}
		}
	}
	return result.String()
}

// Close Gemini clientni yopish
func (g *Client) Close() error {
	g.stopOnce.Do(func() { close(g.stop) })
	if g.client == nil {
		return nil
	}
	return g.client.Close()
}
