package handlers

import (
	"fmt"
	"net/http"
	Iservices "tour-companion/internal/domain/interfaces/services"
	"tour-companion/internal/infra/logger"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type EventHandlers struct {
	Logger      *logger.Logger
	TourService Iservices.ITourService
}

func NewEventHandlers(logger *logger.Logger, tourService Iservices.ITourService) *EventHandlers {
	return &EventHandlers{Logger: logger, TourService: tourService}
}

// TourEvents streams tour state snapshots to the frontend over a websocket.
// The current state is sent on connect, then one message per transition.
func (eh *EventHandlers) TourEvents(w http.ResponseWriter, r *http.Request) {
	user := userID(r)
	if user == "" {
		user = r.URL.Query().Get("userId")
	}
	if user == "" {
		http.Error(w, "Missing user identity", http.StatusBadRequest)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		eh.Logger.Error(fmt.Sprintf("Failed to upgrade tour events connection: %v", err))
		return
	}
	defer conn.Close()

	updates, cancel := eh.TourService.Subscribe(user)
	defer cancel()

	if err := conn.WriteJSON(eh.TourService.GetState(user)); err != nil {
		eh.Logger.Warn(fmt.Sprintf("Failed to write initial tour state for user %s: %v", user, err))
		return
	}

	// Drain the read side so close frames are processed.
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
		case snapshot, ok := <-updates:
			if !ok {
				return
			}
			if err := conn.WriteJSON(snapshot); err != nil {
				eh.Logger.Debug(fmt.Sprintf("Tour events connection closed for user %s: %v", user, err))
				return
			}
		case <-done:
			return
		case <-r.Context().Done():
			return
		}
	}
}
