package sheets_tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/workspacemcp/internal/server"
	"github.com/teemow/workspacemcp/internal/sheets"
	"github.com/teemow/workspacemcp/internal/tools/common"
)

// RegisterSheetsTools registers all Google Sheets tools with the MCP server.
// Write operations are only registered when readOnly is false.
func RegisterSheetsTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	listTool := mcp.NewTool("list_spreadsheets",
		mcp.WithDescription("List Google Sheets spreadsheets, optionally filtered by a name fragment"),
		mcp.WithString("user_google_email",
			mcp.Description("Google account email to act as (default: the stored default account)"),
		),
		mcp.WithString("query",
			mcp.Description("Name fragment to filter spreadsheets by"),
		),
		mcp.WithNumber("page_size",
			mcp.Description("Maximum number of spreadsheets to return (default: 20)"),
		),
	)

	s.AddTool(listTool, common.InstrumentedToolHandlerWithService(
		"list_spreadsheets", "sheets", "list", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleListSpreadsheets(ctx, request, sc)
		}))

	getValuesTool := mcp.NewTool("get_sheet_values",
		mcp.WithDescription("Read a cell range from a Google Sheets spreadsheet"),
		mcp.WithString("user_google_email",
			mcp.Description("Google account email to act as (default: the stored default account)"),
		),
		mcp.WithString("spreadsheet_id",
			mcp.Required(),
			mcp.Description("The ID of the spreadsheet"),
		),
		mcp.WithString("range",
			mcp.Description("A1-notation range to read (default: 'Sheet1')"),
		),
		mcp.WithString("value_render",
			mcp.Description("How values are rendered: FORMATTED_VALUE, UNFORMATTED_VALUE or FORMULA (default: FORMATTED_VALUE)"),
		),
	)

	s.AddTool(getValuesTool, common.InstrumentedToolHandlerWithService(
		"get_sheet_values", "sheets", "get", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleGetValues(ctx, request, sc)
		}))

	metadataTool := mcp.NewTool("get_spreadsheet_metadata",
		mcp.WithDescription("Get the structure of a Google Sheets spreadsheet: its sheets, their sizes and properties"),
		mcp.WithString("user_google_email",
			mcp.Description("Google account email to act as (default: the stored default account)"),
		),
		mcp.WithString("spreadsheet_id",
			mcp.Required(),
			mcp.Description("The ID of the spreadsheet"),
		),
	)

	s.AddTool(metadataTool, common.InstrumentedToolHandlerWithService(
		"get_spreadsheet_metadata", "sheets", "get", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleGetMetadata(ctx, request, sc)
		}))

	if readOnly {
		return nil
	}

	updateTool := mcp.NewTool("update_sheet_values",
		mcp.WithDescription("Write values to a cell range in a Google Sheets spreadsheet, overwriting existing values"),
		mcp.WithString("user_google_email",
			mcp.Description("Google account email to act as (default: the stored default account)"),
		),
		mcp.WithString("spreadsheet_id",
			mcp.Required(),
			mcp.Description("The ID of the spreadsheet"),
		),
		mcp.WithString("range",
			mcp.Required(),
			mcp.Description("A1-notation range to write (e.g., 'Sheet1!A1:C3')"),
		),
		mcp.WithString("values",
			mcp.Required(),
			mcp.Description("Cell values as a JSON array of rows (e.g., '[[\"a\", \"b\"], [1, 2]]')"),
		),
		mcp.WithString("value_input",
			mcp.Description("How input is interpreted: USER_ENTERED or RAW (default: USER_ENTERED)"),
		),
	)

	s.AddTool(updateTool, common.InstrumentedToolHandlerWithService(
		"update_sheet_values", "sheets", "update", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleUpdateValues(ctx, request, sc)
		}))

	appendTool := mcp.NewTool("append_sheet_values",
		mcp.WithDescription("Append rows after the last row of a table in a Google Sheets spreadsheet"),
		mcp.WithString("user_google_email",
			mcp.Description("Google account email to act as (default: the stored default account)"),
		),
		mcp.WithString("spreadsheet_id",
			mcp.Required(),
			mcp.Description("The ID of the spreadsheet"),
		),
		mcp.WithString("range",
			mcp.Required(),
			mcp.Description("A1-notation range locating the table to append to (e.g., 'Sheet1!A:C')"),
		),
		mcp.WithString("values",
			mcp.Required(),
			mcp.Description("Rows to append as a JSON array of rows (e.g., '[[\"a\", \"b\"], [1, 2]]')"),
		),
		mcp.WithString("value_input",
			mcp.Description("How input is interpreted: USER_ENTERED or RAW (default: USER_ENTERED)"),
		),
	)

	s.AddTool(appendTool, common.InstrumentedToolHandlerWithService(
		"append_sheet_values", "sheets", "update", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleAppendValues(ctx, request, sc)
		}))

	createTool := mcp.NewTool("create_spreadsheet",
		mcp.WithDescription("Create a new Google Sheets spreadsheet"),
		mcp.WithString("user_google_email",
			mcp.Description("Google account email to act as (default: the stored default account)"),
		),
		mcp.WithString("title",
			mcp.Required(),
			mcp.Description("Title of the new spreadsheet"),
		),
		mcp.WithString("sheet_names",
			mcp.Description("Names of the sheets to create, comma-separated (default: a single 'Sheet1')"),
		),
	)

	s.AddTool(createTool, common.InstrumentedToolHandlerWithService(
		"create_spreadsheet", "sheets", "create", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleCreateSpreadsheet(ctx, request, sc)
		}))

	return nil
}

func handleListSpreadsheets(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	identity := common.IdentityFromArgs(args)

	query := ""
	if v, ok := args["query"].(string); ok {
		query = v
	}
	pageSize := int64(20)
	if v, ok := args["page_size"].(float64); ok && v > 0 {
		pageSize = int64(v)
	}

	client, err := sheets.NewClient(ctx, sc.Resolver(), identity)
	if result := common.CheckClientError(ctx, sc, identity, err); result != nil {
		return result, nil
	}

	spreadsheets, err := client.ListSpreadsheets(ctx, query, pageSize)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to list spreadsheets: %v", err)), nil
	}

	if len(spreadsheets) == 0 {
		return mcp.NewToolResultText("No spreadsheets found."), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Found %d spreadsheets:\n", len(spreadsheets))
	for i, ss := range spreadsheets {
		fmt.Fprintf(&sb, "%d. %s (ID: %s, modified: %s)\n", i+1, ss.Title, ss.ID, ss.ModifiedTime)
	}

	return mcp.NewToolResultText(sb.String()), nil
}

func handleGetValues(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	identity := common.IdentityFromArgs(args)

	spreadsheetID, ok := args["spreadsheet_id"].(string)
	if !ok || spreadsheetID == "" {
		return mcp.NewToolResultError("spreadsheet_id is required"), nil
	}

	readRange := "Sheet1"
	if v, ok := args["range"].(string); ok && v != "" {
		readRange = v
	}
	valueRender := ""
	if v, ok := args["value_render"].(string); ok {
		valueRender = v
	}

	client, err := sheets.NewClient(ctx, sc.Resolver(), identity)
	if result := common.CheckClientError(ctx, sc, identity, err); result != nil {
		return result, nil
	}

	values, err := client.GetValues(ctx, spreadsheetID, readRange, valueRender)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to read range: %v", err)), nil
	}

	if len(values.Values) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("Range %s is empty.", values.Range)), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Values in %s (%d rows):\n", values.Range, len(values.Values))
	for i, row := range values.Values {
		cells := make([]string, len(row))
		for j, cell := range row {
			cells[j] = fmt.Sprintf("%v", cell)
		}
		fmt.Fprintf(&sb, "Row %d: %s\n", i+1, strings.Join(cells, " | "))
	}

	return mcp.NewToolResultText(sb.String()), nil
}

func handleGetMetadata(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	identity := common.IdentityFromArgs(args)

	spreadsheetID, ok := args["spreadsheet_id"].(string)
	if !ok || spreadsheetID == "" {
		return mcp.NewToolResultError("spreadsheet_id is required"), nil
	}

	client, err := sheets.NewClient(ctx, sc.Resolver(), identity)
	if result := common.CheckClientError(ctx, sc, identity, err); result != nil {
		return result, nil
	}

	spreadsheet, err := client.GetMetadata(ctx, spreadsheetID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to get spreadsheet metadata: %v", err)), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Spreadsheet: %s (ID: %s)\n", spreadsheet.Properties.Title, spreadsheet.SpreadsheetId)
	fmt.Fprintf(&sb, "Link: %s\n", spreadsheet.SpreadsheetUrl)
	fmt.Fprintf(&sb, "Sheets (%d):\n", len(spreadsheet.Sheets))
	for _, sheet := range spreadsheet.Sheets {
		props := sheet.Properties
		if props == nil {
			continue
		}
		rows, cols := int64(0), int64(0)
		if props.GridProperties != nil {
			rows = props.GridProperties.RowCount
			cols = props.GridProperties.ColumnCount
		}
		fmt.Fprintf(&sb, "- %s (ID: %d, %dx%d)\n", props.Title, props.SheetId, rows, cols)
	}

	return mcp.NewToolResultText(sb.String()), nil
}

func handleUpdateValues(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	identity := common.IdentityFromArgs(args)

	spreadsheetID, ok := args["spreadsheet_id"].(string)
	if !ok || spreadsheetID == "" {
		return mcp.NewToolResultError("spreadsheet_id is required"), nil
	}
	writeRange, ok := args["range"].(string)
	if !ok || writeRange == "" {
		return mcp.NewToolResultError("range is required"), nil
	}

	values, err := parseValues(args["values"])
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	valueInput := ""
	if v, ok := args["value_input"].(string); ok {
		valueInput = v
	}

	client, err := sheets.NewClient(ctx, sc.Resolver(), identity)
	if result := common.CheckClientError(ctx, sc, identity, err); result != nil {
		return result, nil
	}

	res, err := client.UpdateValues(ctx, spreadsheetID, writeRange, values, valueInput)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to update values: %v", err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Updated %s: %d cells in %d rows.",
		res.UpdatedRange, res.UpdatedCells, res.UpdatedRows)), nil
}

func handleAppendValues(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	identity := common.IdentityFromArgs(args)

	spreadsheetID, ok := args["spreadsheet_id"].(string)
	if !ok || spreadsheetID == "" {
		return mcp.NewToolResultError("spreadsheet_id is required"), nil
	}
	appendRange, ok := args["range"].(string)
	if !ok || appendRange == "" {
		return mcp.NewToolResultError("range is required"), nil
	}

	values, err := parseValues(args["values"])
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	valueInput := ""
	if v, ok := args["value_input"].(string); ok {
		valueInput = v
	}

	client, err := sheets.NewClient(ctx, sc.Resolver(), identity)
	if result := common.CheckClientError(ctx, sc, identity, err); result != nil {
		return result, nil
	}

	res, err := client.AppendValues(ctx, spreadsheetID, appendRange, values, valueInput)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to append values: %v", err)), nil
	}

	updated := ""
	cells := int64(0)
	if res.Updates != nil {
		updated = res.Updates.UpdatedRange
		cells = res.Updates.UpdatedCells
	}
	return mcp.NewToolResultText(fmt.Sprintf("Appended %d cells at %s.", cells, updated)), nil
}

func handleCreateSpreadsheet(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	identity := common.IdentityFromArgs(args)

	title, ok := args["title"].(string)
	if !ok || title == "" {
		return mcp.NewToolResultError("title is required"), nil
	}

	var sheetNames []string
	if v, ok := args["sheet_names"].(string); ok && v != "" {
		for _, name := range strings.Split(v, ",") {
			if name = strings.TrimSpace(name); name != "" {
				sheetNames = append(sheetNames, name)
			}
		}
	}

	client, err := sheets.NewClient(ctx, sc.Resolver(), identity)
	if result := common.CheckClientError(ctx, sc, identity, err); result != nil {
		return result, nil
	}

	spreadsheet, err := client.CreateSpreadsheet(ctx, title, sheetNames)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to create spreadsheet: %v", err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Spreadsheet %q created. ID: %s\nLink: %s",
		title, spreadsheet.SpreadsheetId, spreadsheet.SpreadsheetUrl)), nil
}

// parseValues decodes the values argument, either a JSON string or a nested
// array, into rows of cells.
func parseValues(v interface{}) ([][]interface{}, error) {
	switch arg := v.(type) {
	case string:
		if arg == "" {
			return nil, fmt.Errorf("values is required")
		}
		var rows [][]interface{}
		if err := json.Unmarshal([]byte(arg), &rows); err != nil {
			return nil, fmt.Errorf("values must be a JSON array of rows: %v", err)
		}
		if len(rows) == 0 {
			return nil, fmt.Errorf("values must contain at least one row")
		}
		return rows, nil
	case []interface{}:
		rows := make([][]interface{}, 0, len(arg))
		for _, r := range arg {
			row, ok := r.([]interface{})
			if !ok {
				return nil, fmt.Errorf("values must be an array of rows")
			}
			rows = append(rows, row)
		}
		if len(rows) == 0 {
			return nil, fmt.Errorf("values must contain at least one row")
		}
		return rows, nil
	default:
		return nil, fmt.Errorf("values is required")
	}
}
