package services

import (
	"context"
	"fmt"
	"sync"
	"time"
	"tour-companion/internal/domain/dto"
	"tour-companion/internal/domain/entities"
	"tour-companion/internal/domain/interfaces/repository"
	repoconstants "tour-companion/internal/domain/interfaces/repository/constants"
	"tour-companion/internal/infra/logger"
	"tour-companion/internal/infra/provider"
)

const DefaultFirstPromptDelay = 1500 * time.Millisecond

type tourSession struct {
	state       entities.TourSession
	config      *entities.RoleTourConfig
	promptTimer *time.Timer
}

// TourService drives the guided walkthrough of every registered user: step
// sequencing, narration, the first-time prompt and the durable completion
// flag.
type TourService struct {
	Catalog              provider.ITourCatalogProvider
	Speech               provider.ISpeechProvider
	CompletionRepository repository.Repository[entities.TourCompletion]
	Ctx                  context.Context
	Logger               *logger.Logger
	PromptDelay          time.Duration

	mu          sync.Mutex
	sessions    map[string]*tourSession
	subscribers map[string]map[chan dto.TourStateSnapshot]struct{}
}

// NewTourService creates a new instance of the service.
func NewTourService(catalog provider.ITourCatalogProvider, speech provider.ISpeechProvider, completionRepository repository.Repository[entities.TourCompletion], ctx context.Context, logger *logger.Logger, promptDelay time.Duration) *TourService {
	if promptDelay <= 0 {
		promptDelay = DefaultFirstPromptDelay
	}
	return &TourService{
		Catalog:              catalog,
		Speech:               speech,
		CompletionRepository: completionRepository,
		Ctx:                  ctx,
		Logger:               logger,
		PromptDelay:          promptDelay,
		sessions:             map[string]*tourSession{},
		subscribers:          map[string]map[chan dto.TourStateSnapshot]struct{}{},
	}
}

func completionKey(userID string) string {
	return fmt.Sprintf("tourCompleted_%s", userID)
}

// RegisterSession is the mount point of a user session. It resolves the role
// configuration and, when the user has never completed the tour, arms the
// first-time prompt after a short delay so the surrounding UI can settle.
func (ts *TourService) RegisterSession(userID string, role string) dto.TourStateSnapshot {
	ts.mu.Lock()

	session := ts.sessions[userID]
	if session == nil {
		session = &tourSession{
			state: entities.TourSession{
				UserID:           userID,
				CurrentStepIndex: -1,
				VoiceType:        entities.VoiceTypeFemale,
			},
		}
		ts.sessions[userID] = session
	}

	if session.state.Role != role {
		// Role change re-resolves the config, so the running tour is dropped.
		session.state.IsActive = false
		session.state.CurrentStepIndex = -1
	}
	session.state.Role = role
	session.config = ts.Catalog.GetTourConfig(role)
	session.state.UpdatedAt = time.Now()

	armPrompt := userID != "" && session.config != nil && !session.state.ShowFirstTimePrompt && session.promptTimer == nil
	snapshot := ts.snapshotLocked(session)
	ts.mu.Unlock()
	ts.broadcast(userID, snapshot)

	if armPrompt {
		if _, err := ts.CompletionRepository.FindByKey(ts.Ctx, repoconstants.TOUR_COMPLETION_COLLECTION, completionKey(userID)); err == nil {
			return snapshot // already completed once, never prompt again
		}

		ts.mu.Lock()
		if current := ts.sessions[userID]; current != nil && current.promptTimer == nil {
			current.promptTimer = time.AfterFunc(ts.PromptDelay, func() {
				ts.surfaceFirstTimePrompt(userID)
			})
		}
		ts.mu.Unlock()
	}

	return snapshot
}

func (ts *TourService) surfaceFirstTimePrompt(userID string) {
	ts.mu.Lock()
	session := ts.sessions[userID]
	if session == nil {
		ts.mu.Unlock()
		return
	}
	session.promptTimer = nil
	session.state.ShowFirstTimePrompt = true
	session.state.UpdatedAt = time.Now()
	snapshot := ts.snapshotLocked(session)
	ts.mu.Unlock()
	ts.broadcast(userID, snapshot)
}

// DismissFirstTimePrompt hides the prompt without marking the tour complete,
// so it may surface again on a later session.
func (ts *TourService) DismissFirstTimePrompt(userID string) dto.TourStateSnapshot {
	ts.mu.Lock()
	session := ts.sessions[userID]
	if session == nil {
		ts.mu.Unlock()
		return dto.TourStateSnapshot{UserID: userID, CurrentStepIndex: -1}
	}
	if session.promptTimer != nil {
		session.promptTimer.Stop()
		session.promptTimer = nil
	}
	session.state.ShowFirstTimePrompt = false
	session.state.UpdatedAt = time.Now()
	snapshot := ts.snapshotLocked(session)
	ts.mu.Unlock()
	ts.broadcast(userID, snapshot)
	return snapshot
}

// StartTour activates the tour at the overview position. No-op without a
// loaded role configuration.
func (ts *TourService) StartTour(userID string) dto.TourStateSnapshot {
	ts.mu.Lock()
	session := ts.sessions[userID]
	if session == nil || session.config == nil {
		snapshot := ts.noopSnapshotLocked(userID, session)
		ts.mu.Unlock()
		return snapshot
	}
	session.state.IsActive = true
	session.state.CurrentStepIndex = -1
	session.state.UpdatedAt = time.Now()
	snapshot := ts.snapshotLocked(session)
	ts.mu.Unlock()
	ts.broadcast(userID, snapshot)
	return snapshot
}

// NextStep advances the tour and narrates the new step. Reaching past the
// last step ends the tour.
func (ts *TourService) NextStep(userID string) dto.TourStateSnapshot {
	ts.mu.Lock()
	session := ts.sessions[userID]
	if session == nil || session.config == nil || !session.state.IsActive {
		snapshot := ts.noopSnapshotLocked(userID, session)
		ts.mu.Unlock()
		return snapshot
	}

	if session.state.CurrentStepIndex >= len(session.config.Steps)-1 {
		ts.mu.Unlock()
		return ts.EndTour(userID)
	}

	session.state.CurrentStepIndex++
	session.state.UpdatedAt = time.Now()
	narrationText := session.config.Steps[session.state.CurrentStepIndex].Content
	voiceType := session.state.VoiceType
	snapshot := ts.snapshotLocked(session)
	ts.mu.Unlock()

	ts.broadcast(userID, snapshot)
	ts.narrate(userID, narrationText, voiceType)
	return snapshot
}

// PrevStep steps back; from step 0 it returns to the overview position.
func (ts *TourService) PrevStep(userID string) dto.TourStateSnapshot {
	ts.mu.Lock()
	session := ts.sessions[userID]
	if session == nil || session.config == nil || !session.state.IsActive || session.state.CurrentStepIndex < 0 {
		snapshot := ts.noopSnapshotLocked(userID, session)
		ts.mu.Unlock()
		return snapshot
	}
	session.state.CurrentStepIndex--
	session.state.UpdatedAt = time.Now()
	snapshot := ts.snapshotLocked(session)
	ts.mu.Unlock()
	ts.broadcast(userID, snapshot)
	return snapshot
}

// SkipToStep jumps straight to step index and narrates it. Out-of-range
// indexes are ignored.
func (ts *TourService) SkipToStep(userID string, index int) dto.TourStateSnapshot {
	ts.mu.Lock()
	session := ts.sessions[userID]
	if session == nil || session.config == nil || index < 0 || index >= len(session.config.Steps) {
		snapshot := ts.noopSnapshotLocked(userID, session)
		ts.mu.Unlock()
		return snapshot
	}
	session.state.IsActive = true
	session.state.CurrentStepIndex = index
	session.state.UpdatedAt = time.Now()
	narrationText := session.config.Steps[index].Content
	voiceType := session.state.VoiceType
	snapshot := ts.snapshotLocked(session)
	ts.mu.Unlock()

	ts.broadcast(userID, snapshot)
	ts.narrate(userID, narrationText, voiceType)
	return snapshot
}

// PlayOverview narrates the role overview without moving the step index.
func (ts *TourService) PlayOverview(userID string) dto.TourStateSnapshot {
	ts.mu.Lock()
	session := ts.sessions[userID]
	if session == nil || session.config == nil {
		snapshot := ts.noopSnapshotLocked(userID, session)
		ts.mu.Unlock()
		return snapshot
	}
	narrationText := session.config.Overview
	voiceType := session.state.VoiceType
	snapshot := ts.snapshotLocked(session)
	ts.mu.Unlock()

	ts.narrate(userID, narrationText, voiceType)
	return snapshot
}

// EndTour stops narration, deactivates the tour and durably records the
// per-user completion flag so the first-time prompt never re-triggers.
func (ts *TourService) EndTour(userID string) dto.TourStateSnapshot {
	if ts.Speech != nil {
		ts.Speech.Cancel()
	}

	ts.mu.Lock()
	session := ts.sessions[userID]
	if session == nil {
		ts.mu.Unlock()
		return dto.TourStateSnapshot{UserID: userID, CurrentStepIndex: -1}
	}
	if session.promptTimer != nil {
		session.promptTimer.Stop()
		session.promptTimer = nil
	}
	session.state.IsActive = false
	session.state.IsSpeaking = false
	session.state.CurrentStepIndex = -1
	session.state.ShowFirstTimePrompt = false
	session.state.UpdatedAt = time.Now()
	snapshot := ts.snapshotLocked(session)
	ts.mu.Unlock()
	ts.broadcast(userID, snapshot)

	completion := entities.TourCompletion{
		Key:         completionKey(userID),
		UserID:      userID,
		CompletedAt: time.Now(),
	}
	if _, err := ts.CompletionRepository.Upsert(ts.Ctx, repoconstants.TOUR_COMPLETION_COLLECTION, completion.Key, completion); err != nil {
		ts.Logger.Error(fmt.Sprintf("Failed to record tour completion for user %s: %v", userID, err))
	}

	return snapshot
}

// SetVoiceType changes the voice preference. It applies from the next
// narration onward, a playing utterance keeps its voice.
func (ts *TourService) SetVoiceType(userID string, voiceType entities.VoiceType) dto.TourStateSnapshot {
	ts.mu.Lock()
	session := ts.sessions[userID]
	if session == nil || (voiceType != entities.VoiceTypeFemale && voiceType != entities.VoiceTypeMale) {
		snapshot := ts.noopSnapshotLocked(userID, session)
		ts.mu.Unlock()
		return snapshot
	}
	session.state.VoiceType = voiceType
	session.state.UpdatedAt = time.Now()
	snapshot := ts.snapshotLocked(session)
	ts.mu.Unlock()
	ts.broadcast(userID, snapshot)
	return snapshot
}

// StopSpeaking cancels any in-flight narration. Idempotent.
func (ts *TourService) StopSpeaking(userID string) dto.TourStateSnapshot {
	if ts.Speech != nil {
		ts.Speech.Cancel()
	}

	ts.mu.Lock()
	session := ts.sessions[userID]
	if session == nil {
		ts.mu.Unlock()
		return dto.TourStateSnapshot{UserID: userID, CurrentStepIndex: -1}
	}
	session.state.IsSpeaking = false
	session.state.UpdatedAt = time.Now()
	snapshot := ts.snapshotLocked(session)
	ts.mu.Unlock()
	ts.broadcast(userID, snapshot)
	return snapshot
}

// GetState returns the current snapshot without side effects.
func (ts *TourService) GetState(userID string) dto.TourStateSnapshot {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	session := ts.sessions[userID]
	if session == nil {
		return dto.TourStateSnapshot{UserID: userID, CurrentStepIndex: -1}
	}
	return ts.snapshotLocked(session)
}

// Subscribe registers a state stream consumer for the user. The returned
// cancel function must be called when the consumer goes away.
func (ts *TourService) Subscribe(userID string) (<-chan dto.TourStateSnapshot, func()) {
	ch := make(chan dto.TourStateSnapshot, 16)
	ts.mu.Lock()
	if ts.subscribers[userID] == nil {
		ts.subscribers[userID] = map[chan dto.TourStateSnapshot]struct{}{}
	}
	ts.subscribers[userID][ch] = struct{}{}
	ts.mu.Unlock()

	cancel := func() {
		ts.mu.Lock()
		if subs := ts.subscribers[userID]; subs != nil {
			if _, ok := subs[ch]; ok {
				delete(subs, ch)
				close(ch)
			}
			if len(subs) == 0 {
				delete(ts.subscribers, userID)
			}
		}
		ts.mu.Unlock()
	}
	return ch, cancel
}

// narrate kicks off speech for the text with the currently preferred voice.
// Missing speech facility or empty text is silently skipped, tour navigation
// never depends on it.
func (ts *TourService) narrate(userID string, text string, voiceType entities.VoiceType) {
	if ts.Speech == nil || text == "" {
		return
	}

	voice := pickVoice(ts.Speech.ListVoices(), voiceType)

	ts.Speech.Speak(provider.SpeechRequest{
		Text:   text,
		Voice:  voice,
		Rate:   1.0,
		Pitch:  1.0,
		Volume: 1.0,
	}, provider.SpeechEvents{
		OnStart: func() {
			ts.setSpeaking(userID, true)
		},
		OnEnd: func() {
			ts.setSpeaking(userID, false)
		},
		OnError: func(err error) {
			ts.Logger.Warn(fmt.Sprintf("Narration failed for user %s: %v", userID, err))
			ts.setSpeaking(userID, false)
		},
	})
}

func (ts *TourService) setSpeaking(userID string, speaking bool) {
	ts.mu.Lock()
	session := ts.sessions[userID]
	if session == nil || session.state.IsSpeaking == speaking {
		ts.mu.Unlock()
		return
	}
	session.state.IsSpeaking = speaking
	session.state.UpdatedAt = time.Now()
	snapshot := ts.snapshotLocked(session)
	ts.mu.Unlock()
	ts.broadcast(userID, snapshot)
}

func (ts *TourService) broadcast(userID string, snapshot dto.TourStateSnapshot) {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	for ch := range ts.subscribers[userID] {
		select {
		case ch <- snapshot:
		default:
			// slow consumer, drop the update
		}
	}
}

func (ts *TourService) snapshotLocked(session *tourSession) dto.TourStateSnapshot {
	snapshot := dto.TourStateSnapshot{
		UserID:              session.state.UserID,
		Role:                session.state.Role,
		IsActive:            session.state.IsActive,
		CurrentStepIndex:    session.state.CurrentStepIndex,
		VoiceType:           session.state.VoiceType,
		IsSpeaking:          session.state.IsSpeaking,
		ShowFirstTimePrompt: session.state.ShowFirstTimePrompt,
		HasConfig:           session.config != nil,
	}
	if session.config != nil {
		snapshot.StepCount = len(session.config.Steps)
		idx := session.state.CurrentStepIndex
		if idx >= 0 && idx < len(session.config.Steps) {
			step := session.config.Steps[idx]
			snapshot.CurrentStep = &step
		}
	}
	return snapshot
}

func (ts *TourService) noopSnapshotLocked(userID string, session *tourSession) dto.TourStateSnapshot {
	if session == nil {
		return dto.TourStateSnapshot{UserID: userID, CurrentStepIndex: -1}
	}
	return ts.snapshotLocked(session)
}
