package calendar_tools

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	calendar_v3 "google.golang.org/api/calendar/v3"

	"github.com/teemow/workspacemcp/internal/calendar"
	"github.com/teemow/workspacemcp/internal/server"
	"github.com/teemow/workspacemcp/internal/tools/common"
)

// RegisterCalendarTools registers all Google Calendar tools with the MCP
// server. Write operations are only registered when readOnly is false.
func RegisterCalendarTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	listCalendarsTool := mcp.NewTool("list_calendars",
		mcp.WithDescription("List all calendars accessible to the authenticated account"),
		mcp.WithString("user_google_email",
			mcp.Description("Google account email to act as (default: the stored default account)"),
		),
	)

	s.AddTool(listCalendarsTool, common.InstrumentedToolHandlerWithService(
		"list_calendars", "calendar", "list", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleListCalendars(ctx, request, sc)
		}))

	getEventsTool := mcp.NewTool("get_events",
		mcp.WithDescription("List events from a Google Calendar within a time window (default: the next 7 days)"),
		mcp.WithString("user_google_email",
			mcp.Description("Google account email to act as (default: the stored default account)"),
		),
		mcp.WithString("calendar_id",
			mcp.Description("Calendar ID (default: 'primary')"),
		),
		mcp.WithNumber("max_results",
			mcp.Description("Maximum number of events to return (default: 10)"),
		),
		mcp.WithString("time_min",
			mcp.Description("Window start in RFC 3339 format (default: now)"),
		),
		mcp.WithString("time_max",
			mcp.Description("Window end in RFC 3339 format (default: 7 days after time_min)"),
		),
		mcp.WithString("query",
			mcp.Description("Free-text search over event fields"),
		),
	)

	s.AddTool(getEventsTool, common.InstrumentedToolHandlerWithService(
		"get_events", "calendar", "list", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleGetEvents(ctx, request, sc)
		}))

	if readOnly {
		return nil
	}

	createEventTool := mcp.NewTool("create_event",
		mcp.WithDescription("Create an event in a Google Calendar"),
		mcp.WithString("user_google_email",
			mcp.Description("Google account email to act as (default: the stored default account)"),
		),
		mcp.WithString("summary",
			mcp.Required(),
			mcp.Description("Event title"),
		),
		mcp.WithString("start_time",
			mcp.Required(),
			mcp.Description("Event start in RFC 3339 format, or a bare date (2026-09-01) for all-day events"),
		),
		mcp.WithString("end_time",
			mcp.Required(),
			mcp.Description("Event end, same format as start_time"),
		),
		mcp.WithString("calendar_id",
			mcp.Description("Calendar ID (default: 'primary')"),
		),
		mcp.WithString("description",
			mcp.Description("Event description"),
		),
		mcp.WithString("location",
			mcp.Description("Event location"),
		),
		mcp.WithString("attendees",
			mcp.Description("Attendee email addresses, comma-separated"),
		),
		mcp.WithBoolean("all_day",
			mcp.Description("Create an all-day event; start_time and end_time must then be bare dates (default: false)"),
		),
	)

	s.AddTool(createEventTool, common.InstrumentedToolHandlerWithService(
		"create_event", "calendar", "create", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleCreateEvent(ctx, request, sc)
		}))

	updateEventTool := mcp.NewTool("update_event",
		mcp.WithDescription("Update fields of an existing Google Calendar event. Only the provided fields are changed."),
		mcp.WithString("user_google_email",
			mcp.Description("Google account email to act as (default: the stored default account)"),
		),
		mcp.WithString("event_id",
			mcp.Required(),
			mcp.Description("The ID of the event to update"),
		),
		mcp.WithString("calendar_id",
			mcp.Description("Calendar ID (default: 'primary')"),
		),
		mcp.WithString("summary",
			mcp.Description("New event title"),
		),
		mcp.WithString("start_time",
			mcp.Description("New start time in RFC 3339 format"),
		),
		mcp.WithString("end_time",
			mcp.Description("New end time in RFC 3339 format"),
		),
		mcp.WithString("description",
			mcp.Description("New event description"),
		),
		mcp.WithString("location",
			mcp.Description("New event location"),
		),
		mcp.WithString("attendees",
			mcp.Description("Replacement attendee email addresses, comma-separated"),
		),
	)

	s.AddTool(updateEventTool, common.InstrumentedToolHandlerWithService(
		"update_event", "calendar", "update", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleUpdateEvent(ctx, request, sc)
		}))

	deleteEventTool := mcp.NewTool("delete_event",
		mcp.WithDescription("Delete an event from a Google Calendar"),
		mcp.WithString("user_google_email",
			mcp.Description("Google account email to act as (default: the stored default account)"),
		),
		mcp.WithString("event_id",
			mcp.Required(),
			mcp.Description("The ID of the event to delete"),
		),
		mcp.WithString("calendar_id",
			mcp.Description("Calendar ID (default: 'primary')"),
		),
	)

	s.AddTool(deleteEventTool, common.InstrumentedToolHandlerWithService(
		"delete_event", "calendar", "delete", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleDeleteEvent(ctx, request, sc)
		}))

	return nil
}

func handleListCalendars(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	identity := common.IdentityFromArgs(args)

	client, err := calendar.NewClient(ctx, sc.Resolver(), identity)
	if result := common.CheckClientError(ctx, sc, identity, err); result != nil {
		return result, nil
	}

	calendars, err := client.ListCalendars(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to list calendars: %v", err)), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Found %d calendars:\n", len(calendars))
	for _, cal := range calendars {
		marker := ""
		if cal.Primary {
			marker = " (primary)"
		}
		fmt.Fprintf(&sb, "- %s%s (ID: %s)\n", cal.Summary, marker, cal.Id)
	}

	return mcp.NewToolResultText(sb.String()), nil
}

func handleGetEvents(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	identity := common.IdentityFromArgs(args)

	calendarID := "primary"
	if v, ok := args["calendar_id"].(string); ok && v != "" {
		calendarID = v
	}
	maxResults := int64(10)
	if v, ok := args["max_results"].(float64); ok && v > 0 {
		maxResults = int64(v)
	}
	query := ""
	if v, ok := args["query"].(string); ok {
		query = v
	}

	var timeMin, timeMax time.Time
	if v, ok := args["time_min"].(string); ok && v != "" {
		parsed, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid time_min: %v", err)), nil
		}
		timeMin = parsed
	}
	if v, ok := args["time_max"].(string); ok && v != "" {
		parsed, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid time_max: %v", err)), nil
		}
		timeMax = parsed
	}

	client, err := calendar.NewClient(ctx, sc.Resolver(), identity)
	if result := common.CheckClientError(ctx, sc, identity, err); result != nil {
		return result, nil
	}

	events, err := client.GetEvents(ctx, calendarID, maxResults, timeMin, timeMax, query)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to get events: %v", err)), nil
	}

	if len(events) == 0 {
		return mcp.NewToolResultText("No events found in the requested window."), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Found %d events in calendar %s:\n", len(events), calendarID)
	for i, event := range events {
		fmt.Fprintf(&sb, "%d. %s (ID: %s)\n   Start: %s | End: %s\n",
			i+1, event.Summary, event.Id, eventTime(event.Start), eventTime(event.End))
		if event.Location != "" {
			fmt.Fprintf(&sb, "   Location: %s\n", event.Location)
		}
	}

	return mcp.NewToolResultText(sb.String()), nil
}

func handleCreateEvent(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	identity := common.IdentityFromArgs(args)

	summary, ok := args["summary"].(string)
	if !ok || summary == "" {
		return mcp.NewToolResultError("summary is required"), nil
	}
	startTime, ok := args["start_time"].(string)
	if !ok || startTime == "" {
		return mcp.NewToolResultError("start_time is required"), nil
	}
	endTime, ok := args["end_time"].(string)
	if !ok || endTime == "" {
		return mcp.NewToolResultError("end_time is required"), nil
	}

	input := &calendar.EventInput{
		Summary:   summary,
		StartTime: startTime,
		EndTime:   endTime,
	}
	if v, ok := args["calendar_id"].(string); ok {
		input.CalendarID = v
	}
	if v, ok := args["description"].(string); ok {
		input.Description = v
	}
	if v, ok := args["location"].(string); ok {
		input.Location = v
	}
	if v, ok := args["attendees"].(string); ok {
		input.Attendees = splitAttendees(v)
	}
	if v, ok := args["all_day"].(bool); ok {
		input.AllDay = v
	}

	client, err := calendar.NewClient(ctx, sc.Resolver(), identity)
	if result := common.CheckClientError(ctx, sc, identity, err); result != nil {
		return result, nil
	}

	event, err := client.CreateEvent(ctx, input)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to create event: %v", err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Event %q created. ID: %s\nLink: %s",
		event.Summary, event.Id, event.HtmlLink)), nil
}

func handleUpdateEvent(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	identity := common.IdentityFromArgs(args)

	eventID, ok := args["event_id"].(string)
	if !ok || eventID == "" {
		return mcp.NewToolResultError("event_id is required"), nil
	}

	input := &calendar.EventInput{}
	if v, ok := args["calendar_id"].(string); ok {
		input.CalendarID = v
	}
	if v, ok := args["summary"].(string); ok {
		input.Summary = v
	}
	if v, ok := args["start_time"].(string); ok {
		input.StartTime = v
	}
	if v, ok := args["end_time"].(string); ok {
		input.EndTime = v
	}
	if v, ok := args["description"].(string); ok {
		input.Description = v
	}
	if v, ok := args["location"].(string); ok {
		input.Location = v
	}
	if v, ok := args["attendees"].(string); ok {
		input.Attendees = splitAttendees(v)
	}

	client, err := calendar.NewClient(ctx, sc.Resolver(), identity)
	if result := common.CheckClientError(ctx, sc, identity, err); result != nil {
		return result, nil
	}

	event, err := client.UpdateEvent(ctx, eventID, input)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to update event: %v", err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Event %q updated. ID: %s", event.Summary, event.Id)), nil
}

func handleDeleteEvent(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	identity := common.IdentityFromArgs(args)

	eventID, ok := args["event_id"].(string)
	if !ok || eventID == "" {
		return mcp.NewToolResultError("event_id is required"), nil
	}
	calendarID := "primary"
	if v, ok := args["calendar_id"].(string); ok && v != "" {
		calendarID = v
	}

	client, err := calendar.NewClient(ctx, sc.Resolver(), identity)
	if result := common.CheckClientError(ctx, sc, identity, err); result != nil {
		return result, nil
	}

	if err := client.DeleteEvent(ctx, calendarID, eventID); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to delete event: %v", err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Event %s deleted from calendar %s.", eventID, calendarID)), nil
}

func eventTime(dt *calendar_v3.EventDateTime) string {
	if dt == nil {
		return ""
	}
	if dt.DateTime != "" {
		return dt.DateTime
	}
	return dt.Date
}

// splitAttendees splits a comma-separated attendee list, dropping empty
// entries
func splitAttendees(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if email := strings.TrimSpace(part); email != "" {
			out = append(out, email)
		}
	}
	return out
}
