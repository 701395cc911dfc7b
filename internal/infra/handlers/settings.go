package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"tour-companion/internal/domain/dto"
	Iservices "tour-companion/internal/domain/interfaces/services"
	"tour-companion/internal/infra/logger"
)

type SettingsHandlers struct {
	Logger          *logger.Logger
	SettingsService Iservices.ISettingsService
}

func NewSettingsHandlers(logger *logger.Logger, settingsService Iservices.ISettingsService) *SettingsHandlers {
	return &SettingsHandlers{Logger: logger, SettingsService: settingsService}
}

func (sh *SettingsHandlers) GetSettings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, sh.SettingsService.Snapshot())
}

// UpdateSettings applies a partial update. With no record loaded yet it
// answers 409 without touching the store; store failures come back as 502 so
// the frontend can surface them.
func (sh *SettingsHandlers) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var body dto.UpdateSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		sh.Logger.Error(fmt.Sprintf("Invalid JSON payload: %s", err.Error()))
		http.Error(w, "Error to process JSON", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	record, err := sh.SettingsService.Update(body)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to update settings: %v", err), http.StatusBadGateway)
		return
	}
	if record == nil {
		http.Error(w, "Settings not loaded yet", http.StatusConflict)
		return
	}

	writeJSON(w, http.StatusOK, record)
}

func (sh *SettingsHandlers) RefetchSettings(w http.ResponseWriter, r *http.Request) {
	sh.SettingsService.Refetch()
	writeJSON(w, http.StatusOK, sh.SettingsService.Snapshot())
}
