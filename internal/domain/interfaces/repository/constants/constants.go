package repoconstants

const (
	SETTINGS_COLLECTION        = "settings"
	TOUR_COMPLETION_COLLECTION = "tour_completions"
)
