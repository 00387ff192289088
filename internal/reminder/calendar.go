package reminder

import (
	"net/url"
	"time"
)

const calendarBase = "https://calendar.google.com/calendar/render?action=TEMPLATE"

// DefaultDuration is the event length when no end is given.
const DefaultDuration = time.Hour

// calendarTimeLayout is the UTC form the calendar template expects.
const calendarTimeLayout = "20060102T150405Z"

// Event describes a calendar entry to pre-fill.
type Event struct {
	Title    string
	Start    time.Time
	End      time.Time
	Details  string
	Location string
}

// CalendarURL builds an "add event" link for the calendar template page.
// A zero End means the event lasts DefaultDuration. Times are sent in UTC
// whatever location they carry.
func CalendarURL(e Event) string {
	start := e.Start.UTC()
	end := e.End.UTC()
	if e.End.IsZero() {
		end = start.Add(DefaultDuration)
	}
	params := url.Values{}
	params.Set("text", e.Title)
	params.Set("dates", start.Format(calendarTimeLayout)+"/"+end.Format(calendarTimeLayout))
	params.Set("details", e.Details)
	params.Set("location", e.Location)
	return calendarBase + "&" + params.Encode()
}
