package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"abarrotes-backend/internal/assistant"
	"abarrotes-backend/internal/middleware"
	"abarrotes-backend/internal/repositories"
	"abarrotes-backend/pkg/utils"
)

// AvatarHandler generates a profile picture from a text description
// and stores the resulting URL on the user.
type AvatarHandler struct {
	Assistant *assistant.Client
	Users     *repositories.UserRepository
}

func NewAvatarHandler(client *assistant.Client, users *repositories.UserRepository) *AvatarHandler {
	return &AvatarHandler{Assistant: client, Users: users}
}

func (h *AvatarHandler) Generate(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if h.Assistant == nil {
		utils.Error(w, http.StatusServiceUnavailable, "Assistant not configured")
		return
	}

	var req struct {
		Prompt string `json:"prompt"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Prompt == "" {
		utils.Error(w, http.StatusBadRequest, "A prompt is required")
		return
	}

	url, err := h.Assistant.GenerateImage(r.Context(), "Avatar de perfil, estilo caricatura amigable: "+req.Prompt)
	if err != nil {
		utils.Error(w, http.StatusBadGateway, "Image generation failed")
		return
	}

	if err := h.Users.UpdateAvatar(r.Context(), userID, url); err != nil {
		utils.Error(w, http.StatusInternalServerError, "Failed to save avatar")
		return
	}

	if email, ok := middleware.GetEmailFromContext(r.Context()); ok {
		log.Printf("[Avatar] New avatar saved for %s", email)
	}

	utils.JSON(w, http.StatusOK, map[string]string{"avatar_url": url})
}
