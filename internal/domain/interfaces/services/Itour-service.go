package services

import (
	"tour-companion/internal/domain/dto"
	"tour-companion/internal/domain/entities"
)

type ITourService interface {
	RegisterSession(userID string, role string) dto.TourStateSnapshot
	StartTour(userID string) dto.TourStateSnapshot
	NextStep(userID string) dto.TourStateSnapshot
	PrevStep(userID string) dto.TourStateSnapshot
	SkipToStep(userID string, index int) dto.TourStateSnapshot
	PlayOverview(userID string) dto.TourStateSnapshot
	EndTour(userID string) dto.TourStateSnapshot
	SetVoiceType(userID string, voiceType entities.VoiceType) dto.TourStateSnapshot
	StopSpeaking(userID string) dto.TourStateSnapshot
	DismissFirstTimePrompt(userID string) dto.TourStateSnapshot
	GetState(userID string) dto.TourStateSnapshot
	Subscribe(userID string) (<-chan dto.TourStateSnapshot, func())
}
