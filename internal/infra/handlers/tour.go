package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"tour-companion/internal/domain/dto"
	"tour-companion/internal/domain/entities"
	Iservices "tour-companion/internal/domain/interfaces/services"
	"tour-companion/internal/infra/logger"
	"tour-companion/internal/infra/provider"
)

type TourHandlers struct {
	Logger      *logger.Logger
	TourService Iservices.ITourService
	Speech      provider.ISpeechProvider
}

func NewTourHandlers(logger *logger.Logger, tourService Iservices.ITourService, speech provider.ISpeechProvider) *TourHandlers {
	return &TourHandlers{Logger: logger, TourService: tourService, Speech: speech}
}

// userID pulls the authenticated user identity propagated by the gateway.
func userID(r *http.Request) string {
	return r.Header.Get("X-User-ID")
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// RegisterSession is the mount hook of the frontend tour provider: it binds
// the user to a role configuration and arms the first-time prompt.
func (th *TourHandlers) RegisterSession(w http.ResponseWriter, r *http.Request) {
	user := userID(r)
	if user == "" {
		http.Error(w, "Missing X-User-ID header", http.StatusBadRequest)
		return
	}

	var body dto.RegisterSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		th.Logger.Error(fmt.Sprintf("Invalid JSON payload: %s", err.Error()))
		http.Error(w, "Error to process JSON", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	role := body.Role
	if role == "" {
		role = r.Header.Get("X-User-Role")
	}

	writeJSON(w, http.StatusOK, th.TourService.RegisterSession(user, role))
}

func (th *TourHandlers) StartTour(w http.ResponseWriter, r *http.Request) {
	user := userID(r)
	if user == "" {
		http.Error(w, "Missing X-User-ID header", http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, th.TourService.StartTour(user))
}

func (th *TourHandlers) NextStep(w http.ResponseWriter, r *http.Request) {
	user := userID(r)
	if user == "" {
		http.Error(w, "Missing X-User-ID header", http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, th.TourService.NextStep(user))
}

func (th *TourHandlers) PrevStep(w http.ResponseWriter, r *http.Request) {
	user := userID(r)
	if user == "" {
		http.Error(w, "Missing X-User-ID header", http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, th.TourService.PrevStep(user))
}

func (th *TourHandlers) SkipToStep(w http.ResponseWriter, r *http.Request) {
	user := userID(r)
	if user == "" {
		http.Error(w, "Missing X-User-ID header", http.StatusBadRequest)
		return
	}

	var body dto.SkipToStepRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		th.Logger.Error(fmt.Sprintf("Invalid JSON payload: %s", err.Error()))
		http.Error(w, "Error to process JSON", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	writeJSON(w, http.StatusOK, th.TourService.SkipToStep(user, body.StepIndex))
}

func (th *TourHandlers) PlayOverview(w http.ResponseWriter, r *http.Request) {
	user := userID(r)
	if user == "" {
		http.Error(w, "Missing X-User-ID header", http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, th.TourService.PlayOverview(user))
}

func (th *TourHandlers) EndTour(w http.ResponseWriter, r *http.Request) {
	user := userID(r)
	if user == "" {
		http.Error(w, "Missing X-User-ID header", http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, th.TourService.EndTour(user))
}

func (th *TourHandlers) SetVoiceType(w http.ResponseWriter, r *http.Request) {
	user := userID(r)
	if user == "" {
		http.Error(w, "Missing X-User-ID header", http.StatusBadRequest)
		return
	}

	var body dto.SetVoiceRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		th.Logger.Error(fmt.Sprintf("Invalid JSON payload: %s", err.Error()))
		http.Error(w, "Error to process JSON", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	writeJSON(w, http.StatusOK, th.TourService.SetVoiceType(user, entities.VoiceType(body.VoiceType)))
}

func (th *TourHandlers) StopSpeaking(w http.ResponseWriter, r *http.Request) {
	user := userID(r)
	if user == "" {
		http.Error(w, "Missing X-User-ID header", http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, th.TourService.StopSpeaking(user))
}

func (th *TourHandlers) DismissFirstTimePrompt(w http.ResponseWriter, r *http.Request) {
	user := userID(r)
	if user == "" {
		http.Error(w, "Missing X-User-ID header", http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, th.TourService.DismissFirstTimePrompt(user))
}

func (th *TourHandlers) GetState(w http.ResponseWriter, r *http.Request) {
	user := userID(r)
	if user == "" {
		http.Error(w, "Missing X-User-ID header", http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, th.TourService.GetState(user))
}

// NarrationAudio serves the audio of the latest synthesized utterance. The
// frontend fetches it when the speaking flag goes up.
func (th *TourHandlers) NarrationAudio(w http.ResponseWriter, r *http.Request) {
	audio := th.Speech.LastAudio()
	if len(audio) == 0 {
		http.Error(w, "No narration audio available", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "audio/mpeg")
	w.Write(audio)
}
