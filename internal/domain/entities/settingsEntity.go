package entities

import "time"

// SettingsRecord is the single system-wide settings row cached by the service.
type SettingsRecord struct {
	ID                   int32     `json:"id" bson:"_id"`
	Theme                string    `json:"theme" bson:"theme"`
	Language             string    `json:"language" bson:"language"`
	SpeechRate           float64   `json:"speechRate" bson:"speech_rate"`
	SpeechPitch          float64   `json:"speechPitch" bson:"speech_pitch"`
	SpeechVolume         float64   `json:"speechVolume" bson:"speech_volume"`
	NotificationsEnabled bool      `json:"notificationsEnabled" bson:"notifications_enabled"`
	UpdatedAt            time.Time `json:"updatedAt" bson:"updated_at"`
}
