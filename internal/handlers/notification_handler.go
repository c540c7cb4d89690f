package handlers

import (
	"log"
	"net/http"
	"strconv"

	"abarrotes-backend/internal/middleware"
	"abarrotes-backend/internal/services"
	"abarrotes-backend/pkg/utils"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

type NotificationHandler struct {
	Service *services.NotificationService
}

func NewNotificationHandler(s *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{Service: s}
}

// Feed returns the merged feed, pulling pending relay messages first.
func (h *NotificationHandler) Feed(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	feed := h.Service.Feed(r.Context(), strconv.Itoa(userID))

	utils.JSON(w, http.StatusOK, feed)
}

// Poll forces a relay fetch and returns the merged feed. Same work as
// Feed, exposed as an explicit action for clients with a refresh
// button.
func (h *NotificationHandler) Poll(w http.ResponseWriter, r *http.Request) {
	h.Feed(w, r)
}

// Topic returns the user's relay topic so external systems can be
// pointed at it.
func (h *NotificationHandler) Topic(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	utils.JSON(w, http.StatusOK, map[string]string{
		"topic": h.Service.Topic(strconv.Itoa(userID)),
	})
}

// Stream upgrades to a WebSocket and pushes live notifications until
// the client goes away.
func (h *NotificationHandler) Stream(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		utils.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("WebSocket upgrade error:", err)
		return
	}
	defer conn.Close()

	sub := h.Service.Subscribe(strconv.Itoa(userID))
	defer sub.Close()

	// Reader goroutine: the client never sends data, but reading is how
	// we notice the connection closed.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-done:
			return
		case n, ok := <-sub.C:
			if !ok {
				return
			}
			if err := conn.WriteJSON(n); err != nil {
				return
			}
		}
	}
}
