package schedule

import (
	"strings"
	"time"

	"schoolcal-api/domain"
)

// Nudge builds a short parent-facing action sentence for an event card.
// Empty string means no nudge is worth showing.
func Nudge(e domain.Event, daysAway int) string {
	n := strings.ToLower(e.Name)
	when := nudgeWhen(e, daysAway)

	if strings.Contains(n, "spirit") {
		clothing := e.Description
		if idx := strings.LastIndex(e.Name, ":"); idx >= 0 {
			clothing = strings.TrimSpace(e.Name[idx+1:])
		}
		if clothing == "" {
			return strings.TrimSpace("Spirit day "+when) + "!"
		}
		return strings.TrimSpace("Spirit day "+when) + " — " + strings.ToLower(clothing) + "!"
	}

	if strings.Contains(n, "father") && strings.Contains(n, "daughter") {
		return danceNudge("Father/Daughter Dance", when, e.URL != "")
	}
	if strings.Contains(n, "mother") && strings.Contains(n, "son") {
		return danceNudge("Mother/Son Dance", when, e.URL != "")
	}

	if e.Type == domain.TypeDeadline || strings.Contains(n, "deadline") {
		action := e.Description
		for _, prefix := range []string{"Deadline to ", "Deadline for ", "Last day to "} {
			action = strings.Replace(action, prefix, "", 1)
		}
		if daysAway >= 0 && daysAway <= 3 && action != "" {
			return "Hurry — " + strings.ToLower(action) + " is due " + when + "!"
		}
		if action != "" {
			return "Don’t forget: " + action
		}
	}

	if strings.Contains(n, "recess") || strings.Contains(n, "no school") {
		return "No school " + when + " — enjoy the break!"
	}
	if strings.Contains(n, "minimum") {
		return "Early dismissal " + when + " — plan pickup accordingly."
	}

	if strings.Contains(n, "picture") || strings.Contains(n, "photo") {
		return "Picture day is " + when + "!"
	}

	if e.URL != "" && daysAway >= 0 {
		return "Sign up or register if you haven’t yet!"
	}

	if when != "" && daysAway <= 7 {
		return "Happening " + when + "."
	}
	return ""
}

func danceNudge(name, when string, hasURL bool) string {
	if hasURL {
		return name + " is " + when + " — grab tickets if you haven’t!"
	}
	return name + " is " + when + "!"
}

func nudgeWhen(e domain.Event, daysAway int) string {
	switch {
	case daysAway == 0:
		return "today"
	case daysAway == 1:
		return "tomorrow"
	case daysAway < 7:
		if d, err := time.Parse(DateLayout, e.Date); err == nil {
			return "on " + d.Weekday().String()
		}
	}
	return ""
}
