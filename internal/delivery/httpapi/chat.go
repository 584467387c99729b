package httpapi

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/agrofel/sales-agent/internal/domain/entity"
	"github.com/agrofel/sales-agent/internal/usecase"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ChatHandler handles conversation requests.
type ChatHandler struct {
	log  zerolog.Logger
	chat usecase.ChatUseCase
}

// NewChatHandler creates a new chat handler.
func NewChatHandler(log zerolog.Logger, chat usecase.ChatUseCase) *ChatHandler {
	return &ChatHandler{log: log, chat: chat}
}

// ChatRequestDTO is the body of POST /api/chat.
type ChatRequestDTO struct {
	ConversationID string `json:"conversation_id,omitempty"`
	Username       string `json:"username,omitempty"`
	Message        string `json:"message"`
}

// ChatResponseDTO carries the reply and the conversation to continue.
type ChatResponseDTO struct {
	ConversationID string        `json:"conversation_id"`
	Reply          *entity.Reply `json:"reply"`
}

// Chat handles POST /api/chat.
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeError(w, http.StatusBadRequest, "message is required", "")
		return
	}

	convID := strings.TrimSpace(req.ConversationID)
	if convID == "" {
		convID = uuid.New().String()
	}

	reply, err := h.chat.ProcessMessage(r.Context(), convID, req.Username, req.Message)
	if err != nil {
		h.log.Error().Err(err).Str("conversation", convID).Msg("chat failed")
		writeError(w, http.StatusInternalServerError, "chat failed", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, ChatResponseDTO{ConversationID: convID, Reply: reply})
}

// History handles GET /api/conversations/{id}/history.
func (h *ChatHandler) History(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	history, err := h.chat.GetHistory(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "history unavailable", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"conversation_id": id, "messages": history})
}

// Clear handles DELETE /api/conversations/{id}.
func (h *ChatHandler) Clear(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.chat.ClearHistory(r.Context(), id); err != nil {
		writeError(w, http.StatusInternalServerError, "clear failed", err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
