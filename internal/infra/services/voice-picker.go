package services

import (
	"strings"
	"tour-companion/internal/domain/entities"
)

// Known gender-associated voice names shipped by the common platforms, in
// preference order.
var femaleVoiceNames = []string{"samantha", "victoria", "karen", "moira", "tessa", "fiona", "kate", "susan", "zira"}
var maleVoiceNames = []string{"daniel", "david", "james", "alex", "tom", "george", "mark"}

// pickVoice resolves the preferred synthesis voice. English voices are tried
// first: an explicit gender marker in the name wins, then the curated name
// list in order, then the first English voice. With no English voice at all
// the first available voice is used; nil means the platform default applies.
func pickVoice(voices []entities.Voice, preference entities.VoiceType) *entities.Voice {
	if len(voices) == 0 {
		return nil
	}

	var english []entities.Voice
	for _, voice := range voices {
		if strings.HasPrefix(strings.ToLower(voice.Lang), "en") {
			english = append(english, voice)
		}
	}

	for i := range english {
		if hasGenderMarker(english[i].Name, preference) {
			return &english[i]
		}
	}

	names := femaleVoiceNames
	if preference == entities.VoiceTypeMale {
		names = maleVoiceNames
	}
	for _, name := range names {
		for i := range english {
			if strings.Contains(strings.ToLower(english[i].Name), name) {
				return &english[i]
			}
		}
	}

	if len(english) > 0 {
		return &english[0]
	}
	return &voices[0]
}

func hasGenderMarker(name string, preference entities.VoiceType) bool {
	lower := strings.ToLower(name)
	if preference == entities.VoiceTypeFemale {
		return strings.Contains(lower, "female") || strings.Contains(lower, "woman")
	}
	// "male" and "man" are substrings of their female counterparts, so the
	// female tokens must be ruled out first.
	return (strings.Contains(lower, "male") && !strings.Contains(lower, "female")) ||
		(strings.Contains(lower, "man") && !strings.Contains(lower, "woman"))
}
