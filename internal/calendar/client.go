package calendar

import (
	"context"
	"fmt"
	"time"

	calendar "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/teemow/workspacemcp/internal/auth"
)

// Client wraps the Google Calendar service
type Client struct {
	svc      *calendar.Service
	identity string // The identity this client operates as
}

// Identity returns the identity this client operates as
func (c *Client) Identity() string {
	return c.identity
}

// NewClient creates a new Calendar client for the given identity
func NewClient(ctx context.Context, resolver *auth.Resolver, identity string) (*Client, error) {
	cred, err := resolver.Resolve(ctx, identity)
	if err != nil {
		return nil, err
	}

	svc, err := calendar.NewService(ctx, option.WithHTTPClient(auth.HTTPClient(ctx, cred)))
	if err != nil {
		return nil, fmt.Errorf("failed to create Calendar service: %w", err)
	}

	return &Client{
		svc:      svc,
		identity: identity,
	}, nil
}

// ListCalendars lists all calendars on the user's calendar list
func (c *Client) ListCalendars(ctx context.Context) ([]*calendar.CalendarListEntry, error) {
	res, err := c.svc.CalendarList.List().Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list calendars: %w", err)
	}
	return res.Items, nil
}

// GetEvents lists events in a calendar. Zero timeMin defaults to now, zero
// timeMax to seven days from timeMin.
func (c *Client) GetEvents(ctx context.Context, calendarID string, maxResults int64, timeMin, timeMax time.Time, query string) ([]*calendar.Event, error) {
	if calendarID == "" {
		calendarID = "primary"
	}
	if maxResults <= 0 {
		maxResults = 10
	}
	if timeMin.IsZero() {
		timeMin = time.Now()
	}
	if timeMax.IsZero() {
		timeMax = timeMin.Add(7 * 24 * time.Hour)
	}

	call := c.svc.Events.List(calendarID).
		Context(ctx).
		TimeMin(timeMin.Format(time.RFC3339)).
		TimeMax(timeMax.Format(time.RFC3339)).
		MaxResults(maxResults).
		SingleEvents(true).
		OrderBy("startTime")
	if query != "" {
		call = call.Q(query)
	}

	res, err := call.Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list events in calendar %s: %w", calendarID, err)
	}

	return res.Items, nil
}

// CreateEvent creates a new event
func (c *Client) CreateEvent(ctx context.Context, input *EventInput) (*calendar.Event, error) {
	if input.Summary == "" {
		return nil, fmt.Errorf("summary is required")
	}
	if input.StartTime == "" || input.EndTime == "" {
		return nil, fmt.Errorf("start and end times are required")
	}
	calendarID := input.CalendarID
	if calendarID == "" {
		calendarID = "primary"
	}

	event := &calendar.Event{
		Summary:     input.Summary,
		Description: input.Description,
		Location:    input.Location,
		Start:       eventDateTime(input.StartTime, input.AllDay),
		End:         eventDateTime(input.EndTime, input.AllDay),
	}
	for _, email := range input.Attendees {
		event.Attendees = append(event.Attendees, &calendar.EventAttendee{Email: email})
	}

	created, err := c.svc.Events.Insert(calendarID, event).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	return created, nil
}

// UpdateEvent patches an existing event. Only the fields set in input are
// changed.
func (c *Client) UpdateEvent(ctx context.Context, eventID string, input *EventInput) (*calendar.Event, error) {
	if eventID == "" {
		return nil, fmt.Errorf("eventID is required")
	}
	calendarID := input.CalendarID
	if calendarID == "" {
		calendarID = "primary"
	}

	patch := &calendar.Event{}
	changed := false
	if input.Summary != "" {
		patch.Summary = input.Summary
		changed = true
	}
	if input.Description != "" {
		patch.Description = input.Description
		changed = true
	}
	if input.Location != "" {
		patch.Location = input.Location
		changed = true
	}
	if input.StartTime != "" {
		patch.Start = eventDateTime(input.StartTime, input.AllDay)
		changed = true
	}
	if input.EndTime != "" {
		patch.End = eventDateTime(input.EndTime, input.AllDay)
		changed = true
	}
	if len(input.Attendees) > 0 {
		for _, email := range input.Attendees {
			patch.Attendees = append(patch.Attendees, &calendar.EventAttendee{Email: email})
		}
		changed = true
	}
	if !changed {
		return nil, fmt.Errorf("no fields to update")
	}

	updated, err := c.svc.Events.Patch(calendarID, eventID, patch).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to update event %s: %w", eventID, err)
	}

	return updated, nil
}

// DeleteEvent deletes an event
func (c *Client) DeleteEvent(ctx context.Context, calendarID, eventID string) error {
	if eventID == "" {
		return fmt.Errorf("eventID is required")
	}
	if calendarID == "" {
		calendarID = "primary"
	}

	if err := c.svc.Events.Delete(calendarID, eventID).Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to delete event %s: %w", eventID, err)
	}

	return nil
}

// eventDateTime builds the Start/End value for an event. All-day events use
// a bare date, timed events an RFC 3339 timestamp.
func eventDateTime(value string, allDay bool) *calendar.EventDateTime {
	if allDay {
		return &calendar.EventDateTime{Date: value}
	}
	return &calendar.EventDateTime{DateTime: value}
}
