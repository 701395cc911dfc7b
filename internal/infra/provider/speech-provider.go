package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"tour-companion/internal/config"
	"tour-companion/internal/domain/entities"
	"tour-companion/internal/infra/logger"

	"github.com/google/uuid"
)

// HttpSpeechProvider talks to an external TTS HTTP API. One utterance is
// active at a time: a new Speak cancels whatever is still synthesizing.
type HttpSpeechProvider struct {
	Logger     *logger.Logger
	HttpClient *http.Client

	mu          sync.Mutex
	currentID   string
	cancel      context.CancelFunc
	voicesCache []entities.Voice
	lastAudio   []byte
}

func NewHttpSpeechProvider(logger *logger.Logger, httpClient *http.Client) *HttpSpeechProvider {
	return &HttpSpeechProvider{Logger: logger, HttpClient: httpClient}
}

// ListVoices queries the TTS API for its voice inventory. The set can change
// between calls (lazy driver loading on some hosts), so it is refetched every
// time; the last good result is served when the API is unreachable.
func (sp *HttpSpeechProvider) ListVoices() []entities.Voice {
	ttsURL := config.GetEnvDefault("TTS_URL", "")
	if ttsURL == "" {
		return sp.cachedVoices()
	}

	req, err := http.NewRequest("GET", fmt.Sprintf("%s/v1/voices", ttsURL), nil)
	if err != nil {
		sp.Logger.Error(fmt.Sprintf("Failed to create voices request: %v", err))
		return sp.cachedVoices()
	}
	req.Header.Set("Authorization", fmt.Sprintf("Token %s", config.GetEnvDefault("TTS_API_KEY", "")))
	req.Header.Set("Accept", "application/json")

	res, err := sp.HttpClient.Do(req)
	if err != nil {
		sp.Logger.Warn(fmt.Sprintf("Failed to list voices, using cached set: %v", err))
		return sp.cachedVoices()
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(res.Body)
		sp.Logger.Warn(fmt.Sprintf("Voices request returned %s response_body %s", res.Status, string(body)))
		return sp.cachedVoices()
	}

	var voices []entities.Voice
	if err := json.NewDecoder(res.Body).Decode(&voices); err != nil {
		sp.Logger.Error(fmt.Sprintf("Failed to decode voices response: %v", err))
		return sp.cachedVoices()
	}

	sp.mu.Lock()
	sp.voicesCache = voices
	sp.mu.Unlock()
	return voices
}

func (sp *HttpSpeechProvider) cachedVoices() []entities.Voice {
	sp.mu.Lock()
	defer sp.mu.Unlock()
	return sp.voicesCache
}

// Speak synthesizes the utterance asynchronously. OnStart fires when the
// request is issued, OnEnd when the audio is ready, OnError on any failure.
// A canceled utterance fires no further events.
func (sp *HttpSpeechProvider) Speak(req SpeechRequest, events SpeechEvents) {
	sp.mu.Lock()
	if sp.cancel != nil {
		sp.cancel()
	}
	id := uuid.NewString()
	ctx, cancel := context.WithCancel(context.Background())
	sp.currentID = id
	sp.cancel = cancel
	sp.mu.Unlock()

	go sp.synthesize(ctx, id, req, events)
}

func (sp *HttpSpeechProvider) synthesize(ctx context.Context, id string, req SpeechRequest, events SpeechEvents) {
	if events.OnStart != nil {
		events.OnStart()
	}

	ttsURL := config.GetEnvDefault("TTS_URL", "")
	if ttsURL == "" {
		sp.Logger.Warn("TTS_URL is not set, narration skipped")
		sp.fail(id, events, fmt.Errorf("speech facility not configured"))
		return
	}

	payloadData := struct {
		Text   string  `json:"text"`
		Voice  string  `json:"voice,omitempty"`
		Rate   float64 `json:"rate,omitempty"`
		Pitch  float64 `json:"pitch,omitempty"`
		Volume float64 `json:"volume,omitempty"`
	}{
		Text:   req.Text,
		Rate:   req.Rate,
		Pitch:  req.Pitch,
		Volume: req.Volume,
	}
	if req.Voice != nil {
		payloadData.Voice = req.Voice.Name
	}

	payload, err := json.Marshal(payloadData)
	if err != nil {
		sp.Logger.Error(fmt.Sprintf("Failed to marshal speech payload: %v", err))
		sp.fail(id, events, err)
		return
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", fmt.Sprintf("%s/v1/speak", ttsURL), bytes.NewBuffer(payload))
	if err != nil {
		sp.Logger.Error(fmt.Sprintf("Failed to create speech request: %v", err))
		sp.fail(id, events, err)
		return
	}
	httpReq.Header.Set("Authorization", fmt.Sprintf("Token %s", config.GetEnvDefault("TTS_API_KEY", "")))
	httpReq.Header.Set("Content-Type", "application/json")

	res, err := sp.HttpClient.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return // canceled, the next utterance owns the state now
		}
		sp.Logger.Error(fmt.Sprintf("Speech request failed: %v", err))
		sp.fail(id, events, err)
		return
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(res.Body)
		sp.Logger.Error(fmt.Sprintf("Speech API returned %s response_body %s", res.Status, string(body)))
		sp.fail(id, events, fmt.Errorf("speech API returned %s", res.Status))
		return
	}

	audio, err := io.ReadAll(res.Body)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		sp.Logger.Error(fmt.Sprintf("Failed to read speech audio: %v", err))
		sp.fail(id, events, err)
		return
	}

	sp.mu.Lock()
	stale := sp.currentID != id
	if !stale {
		sp.lastAudio = audio
		sp.cancel = nil
	}
	sp.mu.Unlock()
	if stale {
		return
	}

	if events.OnEnd != nil {
		events.OnEnd()
	}
}

func (sp *HttpSpeechProvider) fail(id string, events SpeechEvents, err error) {
	sp.mu.Lock()
	stale := sp.currentID != id
	if !stale {
		sp.cancel = nil
	}
	sp.mu.Unlock()
	if stale {
		return
	}
	if events.OnError != nil {
		events.OnError(err)
	}
}

// Cancel stops the in-flight utterance, if any. Safe to call repeatedly.
func (sp *HttpSpeechProvider) Cancel() {
	sp.mu.Lock()
	defer sp.mu.Unlock()
	if sp.cancel != nil {
		sp.cancel()
		sp.cancel = nil
	}
	sp.currentID = ""
}

// LastAudio returns the most recently synthesized utterance. The frontend
// fetches it after seeing the speaking flag go up.
func (sp *HttpSpeechProvider) LastAudio() []byte {
	sp.mu.Lock()
	defer sp.mu.Unlock()
	return sp.lastAudio
}
