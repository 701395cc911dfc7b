package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"tour-companion/internal/domain/dto"
	"tour-companion/internal/domain/entities"
	"tour-companion/internal/infra/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSettingsService struct {
	snapshot  dto.SettingsSnapshot
	updated   *entities.SettingsRecord
	updateErr error
	refetches int
}

func (fs *fakeSettingsService) Fetch()   {}
func (fs *fakeSettingsService) Refetch() { fs.refetches++ }

func (fs *fakeSettingsService) Update(input dto.UpdateSettingsRequest) (*entities.SettingsRecord, error) {
	if fs.updateErr != nil {
		return nil, fs.updateErr
	}
	return fs.updated, nil
}

func (fs *fakeSettingsService) Snapshot() dto.SettingsSnapshot {
	return fs.snapshot
}

func newSettingsHandlers(svc *fakeSettingsService) *SettingsHandlers {
	return NewSettingsHandlers(logger.NewLogger(context.Background(), false), svc)
}

func TestGetSettingsReturnsSnapshot(t *testing.T) {
	svc := &fakeSettingsService{snapshot: dto.SettingsSnapshot{
		Settings: &entities.SettingsRecord{ID: 1, Theme: "light"},
	}}
	sh := newSettingsHandlers(svc)

	rec := httptest.NewRecorder()
	sh.GetSettings(rec, httptest.NewRequest(http.MethodGet, "/settings", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var snap dto.SettingsSnapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	require.NotNil(t, snap.Settings)
	assert.Equal(t, "light", snap.Settings.Theme)
}

func TestUpdateSettingsSuccess(t *testing.T) {
	svc := &fakeSettingsService{updated: &entities.SettingsRecord{ID: 1, Theme: "dark"}}
	sh := newSettingsHandlers(svc)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPatch, "/settings", strings.NewReader(`{"theme":"dark"}`))
	sh.UpdateSettings(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var record entities.SettingsRecord
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &record))
	assert.Equal(t, "dark", record.Theme)
}

func TestUpdateSettingsWithoutLoadedRecord(t *testing.T) {
	sh := newSettingsHandlers(&fakeSettingsService{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPatch, "/settings", strings.NewReader(`{"theme":"dark"}`))
	sh.UpdateSettings(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestUpdateSettingsStoreFailure(t *testing.T) {
	sh := newSettingsHandlers(&fakeSettingsService{updateErr: errors.New("write timeout")})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPatch, "/settings", strings.NewReader(`{"theme":"dark"}`))
	sh.UpdateSettings(rec, req)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestUpdateSettingsRejectsBadJson(t *testing.T) {
	sh := newSettingsHandlers(&fakeSettingsService{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPatch, "/settings", strings.NewReader(`{`))
	sh.UpdateSettings(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRefetchSettings(t *testing.T) {
	svc := &fakeSettingsService{snapshot: dto.SettingsSnapshot{}}
	sh := newSettingsHandlers(svc)

	rec := httptest.NewRecorder()
	sh.RefetchSettings(rec, httptest.NewRequest(http.MethodPost, "/settings/refetch", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, svc.refetches)
}
