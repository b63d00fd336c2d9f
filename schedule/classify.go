package schedule

import (
	"strconv"
	"strings"
	"time"

	"schoolcal-api/domain"
)

// PTAHomeURL is where PTA-run happenings (dances, book fairs, fundraisers)
// are announced and where tickets are sold.
const PTAHomeURL = "https://losalamitospta.membershiptoolkit.com/home"

// iconRule maps name/description substrings to a display icon. Rules are
// evaluated top to bottom and the first match wins, so specific patterns
// must come before the generic ones they contain.
type iconRule struct {
	patterns []string
	icon     string
}

var eventIconRules = []iconRule{
	{[]string{"spirit", "wear", "dress", "hat", "hair"}, "\U0001F455"},
	{[]string{"dance"}, "\U0001F483"},
	{[]string{"book", "author", "read"}, "\U0001F4DA"},
	{[]string{"spelling"}, "\U0001F524"},
	{[]string{"math"}, "\U0001F9EE"},
	{[]string{"picture", "photo"}, "\U0001F4F8"},
	{[]string{"tour"}, "\U0001F3EB"},
	{[]string{"open house"}, "\U0001F3E0"},
	{[]string{"recess", "no school", "minimum"}, "\U0001F3D6️"},
	{[]string{"deadline"}, "⏰"},
	{[]string{"yearbook"}, "\U0001F4D6"},
	{[]string{"meeting", "council"}, "\U0001F4CB"},
	{[]string{"variety", "show"}, "\U0001F3AD"},
	{[]string{"bubble"}, "\U0001FAE7"},
	{[]string{"chef", "recipe"}, "\U0001F468‍\U0001F373"},
}

const defaultEventIcon = "\U0001F4C5"

var foodIconRules = []iconRule{
	{[]string{"pizza"}, "\U0001F355"},
	{[]string{"chicken nugget", "nugget"}, "\U0001F357"},
	{[]string{"chicken sandwich"}, "\U0001F96A"},
	{[]string{"burger", "cheeseburger"}, "\U0001F354"},
	{[]string{"hot dog", "corn dog"}, "\U0001F32D"},
	{[]string{"taco"}, "\U0001F32E"},
	{[]string{"burrito", "quesadilla"}, "\U0001F32F"},
	{[]string{"nacho", "mac"}, "\U0001F9C0"},
	{[]string{"spaghetti", "pasta", "lasagna"}, "\U0001F35D"},
	{[]string{"sandwich", "sub"}, "\U0001F96A"},
	{[]string{"chicken", "turkey"}, "\U0001F357"},
	{[]string{"pancake", "waffle", "french toast"}, "\U0001F95E"},
	{[]string{"bagel"}, "\U0001F96F"},
	{[]string{"muffin"}, "\U0001F9C1"},
	{[]string{"cereal", "oatmeal"}, "\U0001F963"},
	{[]string{"egg"}, "\U0001F373"},
	{[]string{"salad"}, "\U0001F957"},
	{[]string{"rice"}, "\U0001F35A"},
	{[]string{"fish"}, "\U0001F41F"},
	{[]string{"fruit", "apple", "banana"}, "\U0001F34E"},
}

const (
	defaultBreakfastIcon = "\U0001F950"
	defaultLunchIcon     = "\U0001F37D️"
)

func matchIcon(rules []iconRule, text, fallback string) string {
	t := strings.ToLower(text)
	for _, r := range rules {
		for _, p := range r.patterns {
			if strings.Contains(t, p) {
				return r.icon
			}
		}
	}
	return fallback
}

// EventIcon picks a display icon from keywords in the event name.
func EventIcon(name string) string {
	return matchIcon(eventIconRules, name, defaultEventIcon)
}

// FoodIcon picks an icon for a menu description. Breakfast and lunch fall
// back to different defaults when nothing matches.
func FoodIcon(description, menuType string) string {
	fallback := defaultLunchIcon
	if menuType == domain.TypeBreakfastMenu {
		fallback = defaultBreakfastIcon
	}
	return matchIcon(foodIconRules, description, fallback)
}

// ptaNameKeywords mark events that are PTA-run even when the scraper did not
// tag them with a source.
var ptaNameKeywords = []string{"dance", "variety show", "book fair", "movie night", "bingo", "fundraiser"}

// DetailURL resolves the external link for an event: an explicit URL wins,
// then PTA origin, then PTA-style name keywords. Empty string means no link.
func DetailURL(e domain.Event) string {
	if e.URL != "" {
		return e.URL
	}
	if e.Source == domain.SourcePTAWebsite {
		return PTAHomeURL
	}
	n := strings.ToLower(e.Name)
	for _, kw := range ptaNameKeywords {
		if strings.Contains(n, kw) {
			return PTAHomeURL
		}
	}
	return ""
}

// DisplayDate renders the date line for an event card. A pre-formatted
// display string from the pipeline wins; multi-day events render as a range
// with the month elided when both ends share it; single days within two days
// of today render as Today/Tomorrow.
func DisplayDate(e domain.Event, today time.Time) string {
	if e.DateDisplay != "" {
		return e.DateDisplay
	}
	start, err := time.Parse(DateLayout, e.Date)
	if err != nil {
		return e.Date
	}
	if e.EndDate != "" && e.EndDate != e.Date {
		end, err := time.Parse(DateLayout, e.EndDate)
		if err == nil {
			if start.Month() == end.Month() {
				return start.Format("Jan 2") + "-" + end.Format("2")
			}
			return start.Format("Jan 2") + " - " + end.Format("Jan 2")
		}
	}
	switch DaysBetween(Normalize(today), start) {
	case 0:
		return "Today"
	case 1:
		return "Tomorrow"
	}
	return start.Format("Mon, Jan 2")
}

// Badge is a countdown chip rendered next to an event card.
type Badge struct {
	Label string `json:"label"`
	Kind  string `json:"kind"`
}

// BadgeFor returns the countdown badge for an event, or nil when none
// applies. High-priority events within a week surface as "Action needed".
func BadgeFor(daysAway int, priority string) *Badge {
	switch {
	case daysAway == 0:
		return &Badge{Label: "Today", Kind: "today"}
	case daysAway == 1:
		return &Badge{Label: "Tomorrow", Kind: "soon"}
	case priority == domain.PriorityHigh && daysAway >= 0 && daysAway <= 7:
		return &Badge{Label: "Action needed", Kind: "action"}
	case daysAway > 1 && daysAway <= 3:
		return &Badge{Label: "In " + strconv.Itoa(daysAway) + " days", Kind: "soon"}
	}
	return nil
}
