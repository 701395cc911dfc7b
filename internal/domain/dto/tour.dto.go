package dto

import "tour-companion/internal/domain/entities"

type RegisterSessionRequest struct {
	Role string `json:"role"`
}

type SkipToStepRequest struct {
	StepIndex int `json:"stepIndex"`
}

type SetVoiceRequest struct {
	VoiceType string `json:"voiceType"`
}

// TourStateSnapshot is the full tour state pushed to the frontend after every
// command and over the state stream.
type TourStateSnapshot struct {
	UserID              string              `json:"userId"`
	Role                string              `json:"role"`
	IsActive            bool                `json:"isActive"`
	CurrentStepIndex    int                 `json:"currentStepIndex"`
	StepCount           int                 `json:"stepCount"`
	CurrentStep         *entities.TourStep  `json:"currentStep,omitempty"`
	VoiceType           entities.VoiceType  `json:"voiceType"`
	IsSpeaking          bool                `json:"isSpeaking"`
	ShowFirstTimePrompt bool                `json:"showFirstTimePrompt"`
	HasConfig           bool                `json:"hasConfig"`
}
