package services

import (
	"tour-companion/internal/domain/dto"
	"tour-companion/internal/domain/entities"
)

type ISettingsService interface {
	Fetch()
	Refetch()
	Update(input dto.UpdateSettingsRequest) (*entities.SettingsRecord, error)
	Snapshot() dto.SettingsSnapshot
}
