package routes

import (
	"encoding/json"
	"net/http"
	"tour-companion/internal/infra/handlers"

	"github.com/gorilla/mux"
)

type Routes struct {
	Mux              *mux.Router
	TourHandlers     *handlers.TourHandlers
	SettingsHandlers *handlers.SettingsHandlers
	EventHandlers    *handlers.EventHandlers
}

func NewRoutes(mux *mux.Router, tourHandlers *handlers.TourHandlers, settingsHandlers *handlers.SettingsHandlers, eventHandlers *handlers.EventHandlers) *Routes {
	return &Routes{mux, tourHandlers, settingsHandlers, eventHandlers}
}

func (r *Routes) Init() {
	r.Mux.HandleFunc("/tour/session", r.TourHandlers.RegisterSession).Methods(http.MethodPost)
	r.Mux.HandleFunc("/tour/start", r.TourHandlers.StartTour).Methods(http.MethodPost)
	r.Mux.HandleFunc("/tour/next", r.TourHandlers.NextStep).Methods(http.MethodPost)
	r.Mux.HandleFunc("/tour/prev", r.TourHandlers.PrevStep).Methods(http.MethodPost)
	r.Mux.HandleFunc("/tour/skip", r.TourHandlers.SkipToStep).Methods(http.MethodPost)
	r.Mux.HandleFunc("/tour/overview", r.TourHandlers.PlayOverview).Methods(http.MethodPost)
	r.Mux.HandleFunc("/tour/end", r.TourHandlers.EndTour).Methods(http.MethodPost)
	r.Mux.HandleFunc("/tour/voice", r.TourHandlers.SetVoiceType).Methods(http.MethodPost)
	r.Mux.HandleFunc("/tour/stop", r.TourHandlers.StopSpeaking).Methods(http.MethodPost)
	r.Mux.HandleFunc("/tour/prompt/dismiss", r.TourHandlers.DismissFirstTimePrompt).Methods(http.MethodPost)
	r.Mux.HandleFunc("/tour/state", r.TourHandlers.GetState).Methods(http.MethodGet)
	r.Mux.HandleFunc("/tour/narration/audio", r.TourHandlers.NarrationAudio).Methods(http.MethodGet)
	r.Mux.HandleFunc("/tour/events", r.EventHandlers.TourEvents).Methods(http.MethodGet)

	r.Mux.HandleFunc("/settings", r.SettingsHandlers.GetSettings).Methods(http.MethodGet)
	r.Mux.HandleFunc("/settings", r.SettingsHandlers.UpdateSettings).Methods(http.MethodPatch)
	r.Mux.HandleFunc("/settings/refetch", r.SettingsHandlers.RefetchSettings).Methods(http.MethodPost)

	r.Mux.HandleFunc("/healthCheck", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		response := map[string]string{"status": "healthy"}
		json.NewEncoder(w).Encode(response)
	}).Methods(http.MethodGet)
}
