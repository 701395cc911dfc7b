package entities

import "time"

type VoiceType string

const (
	VoiceTypeFemale VoiceType = "female"
	VoiceTypeMale   VoiceType = "male"
)

// TourStep is a single highlight step of a role tour. Target and Placement
// are display metadata consumed by the frontend, Content is the narration text.
type TourStep struct {
	Target    string `json:"target" yaml:"target"`
	Title     string `json:"title" yaml:"title"`
	Content   string `json:"content" yaml:"content"`
	Placement string `json:"placement,omitempty" yaml:"placement,omitempty"`
}

// RoleTourConfig is the ordered step sequence for one user role.
type RoleTourConfig struct {
	Role     string     `json:"role" yaml:"role"`
	Overview string     `json:"overview" yaml:"overview"`
	Steps    []TourStep `json:"steps" yaml:"steps"`
}

// TourSession holds the walkthrough state of one user.
// CurrentStepIndex -1 means the tour has not reached a concrete step yet
// (overview position).
type TourSession struct {
	UserID              string    `json:"userId"`
	Role                string    `json:"role"`
	IsActive            bool      `json:"isActive"`
	CurrentStepIndex    int       `json:"currentStepIndex"`
	VoiceType           VoiceType `json:"voiceType"`
	IsSpeaking          bool      `json:"isSpeaking"`
	ShowFirstTimePrompt bool      `json:"showFirstTimePrompt"`
	UpdatedAt           time.Time `json:"updatedAt"`
}

// TourCompletion is the durable per-user completion flag. Its presence in the
// collection means the user has finished (or ended) the tour at least once.
type TourCompletion struct {
	Key         string    `json:"key" bson:"key"`
	UserID      string    `json:"userId" bson:"user_id"`
	CompletedAt time.Time `json:"completedAt" bson:"completed_at"`
}

// Voice describes an available synthesis voice.
type Voice struct {
	Name string `json:"name"`
	Lang string `json:"lang"`
}
