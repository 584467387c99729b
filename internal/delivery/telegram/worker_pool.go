package telegram

import (
	"context"
	"errors"
	"sync"
	"time"
)

// messageRequest represents a message to be processed
type messageRequest struct {
	ctx      context.Context
	userID   int64
	username string
	text     string
	chatID   int64
}

// workerPool manages parallel processing of messages
type workerPool struct {
	requestQueue chan *messageRequest
	workerCount  int
	handler      *BotHandler
	wg           sync.WaitGroup
	closeOnce    sync.Once

	// Rate limiting per user
	rateLimiter   map[int64]*userRateLimit
	rateLimiterMu sync.Mutex
}

// userRateLimit tracks rate limiting per user
type userRateLimit struct {
	lastRequest  time.Time
	requestCount int
}

const (
	maxRequestsPerSecond   = 3
	requestQueueSize       = 100
	defaultWorkerCount     = 8
	aiRequestTimeout       = 45 * time.Second
	rateLimiterCleanupTime = 5 * time.Minute
	rateLimiterMaxIdleTime = 10 * time.Minute

	msgRateLimited = "Muitas mensagens seguidas. Por favor, aguarde um instante."
	msgBusy        = "Estou atendendo muitos clientes agora. Tente novamente em alguns segundos."
	msgTimeout     = "A resposta demorou demais. Por favor, tente novamente."
	msgInternal    = "Ocorreu um erro interno. Por favor, tente novamente."
)

// newWorkerPool creates a new worker pool
func newWorkerPool(handler *BotHandler, workerCount int) *workerPool {
	if workerCount <= 0 {
		workerCount = defaultWorkerCount
	}
	return &workerPool{
		requestQueue: make(chan *messageRequest, requestQueueSize),
		workerCount:  workerCount,
		handler:      handler,
		rateLimiter:  make(map[int64]*userRateLimit),
	}
}

// start starts all workers
func (wp *workerPool) start(ctx context.Context) {
	wp.handler.log.Info().Int("workers", wp.workerCount).Msg("Starting workers")

	for i := 0; i < wp.workerCount; i++ {
		wp.wg.Add(1)
		go wp.worker(ctx, i)
	}

	go wp.cleanupRateLimits(ctx)
}

// worker processes messages from the queue
func (wp *workerPool) worker(ctx context.Context, id int) {
	defer wp.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case req, ok := <-wp.requestQueue:
			if !ok {
				return
			}
			if req == nil {
				continue
			}
			wp.process(req)
		}
	}
}

// process rate limitni tekshiradi va xabarni timeout bilan qayta ishlaydi
func (wp *workerPool) process(req *messageRequest) {
	h := wp.handler
	defer h.endProcessing(req.userID)

	if !wp.checkRateLimit(req.userID) {
		h.sendMessage(req.chatID, msgRateLimited)
		return
	}

	ctx, cancel := context.WithTimeout(req.ctx, aiRequestTimeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			h.log.Error().Interface("panic", r).Int64("user", req.userID).Msg("Panic in message processing")
			h.sendMessage(req.chatID, msgInternal)
		}
	}()

	h.sendTyping(req.chatID)

	reply, err := h.chatUseCase.ProcessMessage(ctx, conversationID(req.chatID), req.username, req.text)
	// use case AI xatosini uzr matniga aylantiradi, shuning uchun timeoutni ctx dan tekshiramiz
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		h.log.Warn().Int64("user", req.userID).Dur("timeout", aiRequestTimeout).Msg("AI request timeout")
		h.sendMessage(req.chatID, msgTimeout)
		return
	}
	if err != nil {
		h.log.Error().Err(err).Int64("user", req.userID).Msg("AI request error")
		h.sendMessage(req.chatID, msgInternal)
		return
	}

	h.log.Debug().Int64("user", req.userID).Str("route", string(reply.Route)).Msg("reply ready")
	h.sendMessage(req.chatID, reply.Text)
}

// checkRateLimit checks if user is within rate limit
func (wp *workerPool) checkRateLimit(userID int64) bool {
	wp.rateLimiterMu.Lock()
	defer wp.rateLimiterMu.Unlock()

	now := time.Now()
	limiter, exists := wp.rateLimiter[userID]
	if !exists {
		wp.rateLimiter[userID] = &userRateLimit{lastRequest: now, requestCount: 1}
		return true
	}

	// Reset counter if more than 1 second has passed
	if now.Sub(limiter.lastRequest) >= time.Second {
		limiter.requestCount = 1
		limiter.lastRequest = now
		return true
	}

	if limiter.requestCount >= maxRequestsPerSecond {
		wp.handler.log.Warn().Int64("user", userID).Msg("Rate limit exceeded")
		return false
	}

	limiter.requestCount++
	return true
}

// cleanupRateLimits removes old rate limit entries
func (wp *workerPool) cleanupRateLimits(ctx context.Context) {
	ticker := time.NewTicker(rateLimiterCleanupTime)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			wp.evictIdle(time.Now())
		}
	}
}

func (wp *workerPool) evictIdle(now time.Time) int {
	wp.rateLimiterMu.Lock()
	defer wp.rateLimiterMu.Unlock()

	removed := 0
	for userID, limiter := range wp.rateLimiter {
		if now.Sub(limiter.lastRequest) > rateLimiterMaxIdleTime {
			delete(wp.rateLimiter, userID)
			removed++
		}
	}
	if removed > 0 {
		wp.handler.log.Debug().Int("removed", removed).Msg("Cleaned up inactive rate limiters")
	}
	return removed
}

// submit submits a message to the worker pool
func (wp *workerPool) submit(req *messageRequest) bool {
	select {
	case wp.requestQueue <- req:
		return true
	default:
		wp.handler.log.Warn().Int("queued", len(wp.requestQueue)).Int64("user", req.userID).Msg("Worker pool queue is full")
		wp.handler.sendMessage(req.chatID, msgBusy)
		wp.handler.endProcessing(req.userID)
		return false
	}
}

// shutdown gracefully shuts down the worker pool
func (wp *workerPool) shutdown() {
	wp.closeOnce.Do(func() {
		wp.handler.log.Info().Int("queued", len(wp.requestQueue)).Msg("Shutting down worker pool")
		close(wp.requestQueue)
		wp.wg.Wait()
	})
}
