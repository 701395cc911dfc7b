package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"tour-companion/internal/domain/dto"
	"tour-companion/internal/domain/entities"
	"tour-companion/internal/infra/logger"
	"tour-companion/internal/infra/provider"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTourService struct {
	lastUser string
	lastRole string
	lastSkip int
}

func (ft *fakeTourService) snapshot(userID string) dto.TourStateSnapshot {
	return dto.TourStateSnapshot{UserID: userID, CurrentStepIndex: -1, HasConfig: true}
}

func (ft *fakeTourService) RegisterSession(userID string, role string) dto.TourStateSnapshot {
	ft.lastUser = userID
	ft.lastRole = role
	return ft.snapshot(userID)
}

func (ft *fakeTourService) StartTour(userID string) dto.TourStateSnapshot { return ft.snapshot(userID) }
func (ft *fakeTourService) NextStep(userID string) dto.TourStateSnapshot  { return ft.snapshot(userID) }
func (ft *fakeTourService) PrevStep(userID string) dto.TourStateSnapshot  { return ft.snapshot(userID) }

func (ft *fakeTourService) SkipToStep(userID string, index int) dto.TourStateSnapshot {
	ft.lastSkip = index
	return ft.snapshot(userID)
}

func (ft *fakeTourService) PlayOverview(userID string) dto.TourStateSnapshot {
	return ft.snapshot(userID)
}
func (ft *fakeTourService) EndTour(userID string) dto.TourStateSnapshot { return ft.snapshot(userID) }

func (ft *fakeTourService) SetVoiceType(userID string, voiceType entities.VoiceType) dto.TourStateSnapshot {
	return ft.snapshot(userID)
}

func (ft *fakeTourService) StopSpeaking(userID string) dto.TourStateSnapshot {
	return ft.snapshot(userID)
}

func (ft *fakeTourService) DismissFirstTimePrompt(userID string) dto.TourStateSnapshot {
	return ft.snapshot(userID)
}

func (ft *fakeTourService) GetState(userID string) dto.TourStateSnapshot { return ft.snapshot(userID) }

func (ft *fakeTourService) Subscribe(userID string) (<-chan dto.TourStateSnapshot, func()) {
	ch := make(chan dto.TourStateSnapshot)
	return ch, func() { close(ch) }
}

type noAudioSpeech struct{}

func (noAudioSpeech) ListVoices() []entities.Voice                                   { return nil }
func (noAudioSpeech) Speak(req provider.SpeechRequest, events provider.SpeechEvents) {}
func (noAudioSpeech) Cancel()                                                        {}
func (noAudioSpeech) LastAudio() []byte                                              { return nil }

func newTourHandlers(svc *fakeTourService) *TourHandlers {
	return NewTourHandlers(logger.NewLogger(context.Background(), false), svc, noAudioSpeech{})
}

func TestRegisterSessionRequiresUserHeader(t *testing.T) {
	th := newTourHandlers(&fakeTourService{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/tour/session", strings.NewReader(`{"role":"nurse"}`))
	th.RegisterSession(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRegisterSessionBindsUserAndRole(t *testing.T) {
	svc := &fakeTourService{}
	th := newTourHandlers(svc)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/tour/session", strings.NewReader(`{"role":"nurse"}`))
	req.Header.Set("X-User-ID", "u1")
	th.RegisterSession(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "u1", svc.lastUser)
	assert.Equal(t, "nurse", svc.lastRole)

	var snap dto.TourStateSnapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	assert.Equal(t, "u1", snap.UserID)
	assert.Equal(t, -1, snap.CurrentStepIndex)
}

func TestRegisterSessionRoleFallsBackToHeader(t *testing.T) {
	svc := &fakeTourService{}
	th := newTourHandlers(svc)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/tour/session", strings.NewReader(`{}`))
	req.Header.Set("X-User-ID", "u1")
	req.Header.Set("X-User-Role", "doctor")
	th.RegisterSession(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "doctor", svc.lastRole)
}

func TestSkipToStepPassesIndex(t *testing.T) {
	svc := &fakeTourService{}
	th := newTourHandlers(svc)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/tour/skip", strings.NewReader(`{"stepIndex":2}`))
	req.Header.Set("X-User-ID", "u1")
	th.SkipToStep(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, svc.lastSkip)
}

func TestNarrationAudioNotFoundWhenEmpty(t *testing.T) {
	th := newTourHandlers(&fakeTourService{})

	rec := httptest.NewRecorder()
	th.NarrationAudio(rec, httptest.NewRequest(http.MethodGet, "/tour/narration/audio", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
