package calendar

// EventInput carries the fields for creating or updating an event. For
// updates, empty fields are left unchanged.
type EventInput struct {
	// CalendarID is the target calendar (default "primary")
	CalendarID string

	// Summary is the event title
	Summary string

	// StartTime is the start in RFC 3339 format, or a bare date
	// (2024-01-15) for all-day events
	StartTime string

	// EndTime is the end, same format as StartTime
	EndTime string

	// Description is the free-text event description
	Description string

	// Location is the event location
	Location string

	// Attendees are attendee email addresses
	Attendees []string

	// AllDay marks the event as all-day; StartTime and EndTime must then
	// be bare dates
	AllDay bool
}
