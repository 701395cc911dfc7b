package dto

import "tour-companion/internal/domain/entities"

// UpdateSettingsRequest carries a partial settings update. Nil fields are left
// untouched server-side.
type UpdateSettingsRequest struct {
	Theme                *string  `json:"theme,omitempty"`
	Language             *string  `json:"language,omitempty"`
	SpeechRate           *float64 `json:"speechRate,omitempty"`
	SpeechPitch          *float64 `json:"speechPitch,omitempty"`
	SpeechVolume         *float64 `json:"speechVolume,omitempty"`
	NotificationsEnabled *bool    `json:"notificationsEnabled,omitempty"`
}

// Fields flattens the non-nil members into the bson field map applied by the
// repository patch.
func (ur *UpdateSettingsRequest) Fields() map[string]interface{} {
	fields := map[string]interface{}{}
	if ur.Theme != nil {
		fields["theme"] = *ur.Theme
	}
	if ur.Language != nil {
		fields["language"] = *ur.Language
	}
	if ur.SpeechRate != nil {
		fields["speech_rate"] = *ur.SpeechRate
	}
	if ur.SpeechPitch != nil {
		fields["speech_pitch"] = *ur.SpeechPitch
	}
	if ur.SpeechVolume != nil {
		fields["speech_volume"] = *ur.SpeechVolume
	}
	if ur.NotificationsEnabled != nil {
		fields["notifications_enabled"] = *ur.NotificationsEnabled
	}
	return fields
}

type SettingsSnapshot struct {
	Settings  *entities.SettingsRecord `json:"settings"`
	IsLoading bool                     `json:"isLoading"`
	LastError string                   `json:"lastError,omitempty"`
}
