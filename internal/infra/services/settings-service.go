package services

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"
	"tour-companion/internal/domain/dto"
	"tour-companion/internal/domain/entities"
	"tour-companion/internal/domain/interfaces/repository"
	repoconstants "tour-companion/internal/domain/interfaces/repository/constants"
	"tour-companion/internal/infra/logger"
)

// SettingsService is a read-through cache of the singleton settings row.
// Updates write through and replace the cache with the store's returned
// record; fetch failures keep the previous state (stale-but-available).
type SettingsService struct {
	SettingsRepository repository.Repository[entities.SettingsRecord]
	Ctx                context.Context
	Logger             *logger.Logger

	mu        sync.Mutex
	settings  *entities.SettingsRecord
	isLoading bool
	lastError string
	latestSeq uint64
}

// NewSettingsService creates a new instance of the service.
func NewSettingsService(settingsRepository repository.Repository[entities.SettingsRecord], ctx context.Context, logger *logger.Logger) *SettingsService {
	return &SettingsService{
		SettingsRepository: settingsRepository,
		Ctx:                ctx,
		Logger:             logger,
	}
}

// Fetch reads the settings row from the store. Responses of an older fetch
// are discarded when a newer one has been issued meanwhile, so out-of-order
// completions cannot overwrite fresher state.
func (ss *SettingsService) Fetch() {
	seq := atomic.AddUint64(&ss.latestSeq, 1)

	ss.mu.Lock()
	ss.isLoading = true
	ss.mu.Unlock()

	record, err := ss.SettingsRepository.FindOne(ss.Ctx, repoconstants.SETTINGS_COLLECTION)

	ss.mu.Lock()
	defer ss.mu.Unlock()

	if seq != atomic.LoadUint64(&ss.latestSeq) {
		return // a newer fetch owns the state now
	}

	ss.isLoading = false
	if err != nil {
		ss.Logger.Error(fmt.Sprintf("Failed to fetch settings: %v", err))
		ss.lastError = err.Error()
		return
	}

	ss.settings = &record
	ss.lastError = ""
}

// Refetch re-runs the fetch, overwriting local state on success.
func (ss *SettingsService) Refetch() {
	ss.Fetch()
}

// Update applies a partial update to the settings row and replaces the cache
// with the full record the store returns. Returns nil without touching the
// store when nothing is loaded yet; on store failure the cache is untouched
// and the error is passed to the caller.
func (ss *SettingsService) Update(input dto.UpdateSettingsRequest) (*entities.SettingsRecord, error) {
	ss.mu.Lock()
	current := ss.settings
	ss.mu.Unlock()

	if current == nil {
		return nil, nil
	}

	fields := input.Fields()
	if len(fields) == 0 {
		return current, nil
	}
	fields["updated_at"] = time.Now()

	record, err := ss.SettingsRepository.Patch(ss.Ctx, repoconstants.SETTINGS_COLLECTION, current.ID, fields)
	if err != nil {
		ss.Logger.Error(fmt.Sprintf("Failed to update settings %d: %v", current.ID, err))
		return nil, err
	}

	ss.mu.Lock()
	ss.settings = &record
	ss.mu.Unlock()
	return &record, nil
}

// Snapshot returns the cached state for the frontend.
func (ss *SettingsService) Snapshot() dto.SettingsSnapshot {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	snapshot := dto.SettingsSnapshot{
		IsLoading: ss.isLoading,
		LastError: ss.lastError,
	}
	if ss.settings != nil {
		record := *ss.settings
		snapshot.Settings = &record
	}
	return snapshot
}
