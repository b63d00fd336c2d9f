package domain

// Event type values produced by the extraction pipeline.
const (
	TypeEvent         = "event"
	TypeDeadline      = "deadline"
	TypeBreakfastMenu = "breakfast_menu"
	TypeLunchMenu     = "lunch_menu"
)

// Source tag values attached by the scrapers.
const (
	SourcePTAWebsite       = "pta_website"
	SourceDistrictCalendar = "district_calendar"
)

// Priority values assigned during extraction.
const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

// Event is a single calendar entry as emitted by the ingestion pipeline.
// Dates are ISO strings (YYYY-MM-DD); the zero-padded format makes
// lexicographic comparison equivalent to chronological comparison.
// All optional fields use the empty string for absence.
type Event struct {
	Name        string `json:"name"`
	Date        string `json:"date,omitempty"`
	EndDate     string `json:"end_date,omitempty"`
	DateDisplay string `json:"date_display,omitempty"`
	Time        string `json:"time,omitempty"`
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
	Location    string `json:"location,omitempty"`
	URL         string `json:"url,omitempty"`
	ImageURL    string `json:"image_url,omitempty"`
	Source      string `json:"source,omitempty"`
	Priority    string `json:"priority,omitempty"`
}

// IsAgenda reports whether the event is a day-level entry rather than a menu.
// Unrecognized types are neither agenda nor menu items.
func (e Event) IsAgenda() bool {
	return e.Type == TypeEvent || e.Type == TypeDeadline
}

// IsMenu reports whether the event is a breakfast or lunch menu entry.
func (e Event) IsMenu() bool {
	return e.Type == TypeBreakfastMenu || e.Type == TypeLunchMenu
}
