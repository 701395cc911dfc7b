package provider

import "tour-companion/internal/domain/entities"

// SpeechRequest describes one utterance.
type SpeechRequest struct {
	Text   string
	Voice  *entities.Voice // nil means platform default voice
	Rate   float64
	Pitch  float64
	Volume float64
}

// SpeechEvents are the lifecycle callbacks of an utterance. Any callback may
// be nil.
type SpeechEvents struct {
	OnStart func()
	OnEnd   func()
	OnError func(err error)
}

// ISpeechProvider wraps the narration facility. Speak is asynchronous and
// cancels any in-flight utterance before starting the next one; Cancel is
// idempotent.
type ISpeechProvider interface {
	ListVoices() []entities.Voice
	Speak(req SpeechRequest, events SpeechEvents)
	Cancel()
	LastAudio() []byte
}

// ITourCatalogProvider looks up the step sequence for a user role. Returns
// nil when no tour exists for the role.
type ITourCatalogProvider interface {
	GetTourConfig(role string) *entities.RoleTourConfig
}
