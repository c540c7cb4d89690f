package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"abarrotes-backend/internal/assistant"
	"abarrotes-backend/internal/metrics"
	"abarrotes-backend/internal/middleware"
	"abarrotes-backend/pkg/utils"
)

type ChatHandler struct {
	Chat *assistant.Chat
}

func NewChatHandler(chat *assistant.Chat) *ChatHandler {
	return &ChatHandler{Chat: chat}
}

// Ask answers one assistant question. The conversation id scopes the
// history; a question superseded by a newer one returns 409.
func (h *ChatHandler) Ask(w http.ResponseWriter, r *http.Request) {
	if h.Chat == nil {
		utils.Error(w, http.StatusServiceUnavailable, "Assistant not configured")
		return
	}

	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req struct {
		ConversationID string `json:"conversation_id"`
		Question       string `json:"question"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.ConversationID == "" {
		req.ConversationID = fmt.Sprintf("user-%d", userID)
	}

	answer, err := h.Chat.Ask(r.Context(), req.ConversationID, req.Question)
	if err != nil {
		if errors.Is(err, assistant.ErrSuperseded) {
			metrics.AssistantRequestsTotal.WithLabelValues("superseded").Inc()
			utils.Error(w, http.StatusConflict, "Superseded by a newer question")
			return
		}
		metrics.AssistantRequestsTotal.WithLabelValues("error").Inc()
		utils.Error(w, http.StatusBadGateway, "Assistant unavailable")
		return
	}
	metrics.AssistantRequestsTotal.WithLabelValues("ok").Inc()

	utils.JSON(w, http.StatusOK, map[string]string{"answer": answer})
}

// Reset clears the conversation history.
func (h *ChatHandler) Reset(w http.ResponseWriter, r *http.Request) {
	if h.Chat == nil {
		utils.Error(w, http.StatusServiceUnavailable, "Assistant not configured")
		return
	}

	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req struct {
		ConversationID string `json:"conversation_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.ConversationID == "" {
		req.ConversationID = fmt.Sprintf("user-%d", userID)
	}

	h.Chat.Reset(req.ConversationID)
	utils.JSON(w, http.StatusNoContent, nil)
}
