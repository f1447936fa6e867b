package sheets

import (
	"context"
	"fmt"

	drive "google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
	sheets "google.golang.org/api/sheets/v4"

	"github.com/teemow/workspacemcp/internal/auth"
)

const spreadsheetMimeType = "application/vnd.google-apps.spreadsheet"

// Client wraps the Google Sheets API service. It also holds a Drive service
// because spreadsheets are discovered through Drive search.
type Client struct {
	service  *sheets.Service
	drive    *drive.Service
	identity string // The identity this client operates as
}

// Identity returns the identity this client operates as
func (c *Client) Identity() string {
	return c.identity
}

// NewClient creates a new Google Sheets client for the given identity
func NewClient(ctx context.Context, resolver *auth.Resolver, identity string) (*Client, error) {
	cred, err := resolver.Resolve(ctx, identity)
	if err != nil {
		return nil, err
	}

	httpClient := auth.HTTPClient(ctx, cred)

	service, err := sheets.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create Sheets service: %w", err)
	}

	driveService, err := drive.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create Drive service: %w", err)
	}

	return &Client{
		service:  service,
		drive:    driveService,
		identity: identity,
	}, nil
}

// ListSpreadsheets lists spreadsheets in Drive, optionally filtered by a
// name query
func (c *Client) ListSpreadsheets(ctx context.Context, query string, pageSize int64) ([]*SpreadsheetInfo, error) {
	if pageSize <= 0 {
		pageSize = 20
	}

	q := fmt.Sprintf("mimeType='%s' and trashed=false", spreadsheetMimeType)
	if query != "" {
		q = fmt.Sprintf("%s and name contains '%s'", q, escapeQuery(query))
	}

	fileList, err := c.drive.Files.List().
		Context(ctx).
		Q(q).
		PageSize(pageSize).
		OrderBy("modifiedTime desc").
		Fields("files(id, name, modifiedTime, webViewLink)").
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list spreadsheets: %w", err)
	}

	infos := make([]*SpreadsheetInfo, len(fileList.Files))
	for i, f := range fileList.Files {
		infos[i] = &SpreadsheetInfo{
			ID:           f.Id,
			Title:        f.Name,
			ModifiedTime: f.ModifiedTime,
			WebViewLink:  f.WebViewLink,
		}
	}

	return infos, nil
}

// GetValues reads a range of cell values.
// valueRender is one of "FORMATTED_VALUE", "UNFORMATTED_VALUE" or "FORMULA".
func (c *Client) GetValues(ctx context.Context, spreadsheetID, readRange, valueRender string) (*sheets.ValueRange, error) {
	if spreadsheetID == "" {
		return nil, fmt.Errorf("spreadsheetID is required")
	}
	if readRange == "" {
		readRange = "Sheet1"
	}
	switch valueRender {
	case "":
		valueRender = "FORMATTED_VALUE"
	case "FORMATTED_VALUE", "UNFORMATTED_VALUE", "FORMULA":
	default:
		return nil, fmt.Errorf("invalid valueRender %q: must be FORMATTED_VALUE, UNFORMATTED_VALUE or FORMULA", valueRender)
	}

	values, err := c.service.Spreadsheets.Values.Get(spreadsheetID, readRange).
		Context(ctx).
		ValueRenderOption(valueRender).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get values from %s: %w", spreadsheetID, err)
	}

	return values, nil
}

// UpdateValues writes a 2D array of values into a range.
// valueInput is "USER_ENTERED" or "RAW".
func (c *Client) UpdateValues(ctx context.Context, spreadsheetID, writeRange string, values [][]interface{}, valueInput string) (*sheets.UpdateValuesResponse, error) {
	if spreadsheetID == "" {
		return nil, fmt.Errorf("spreadsheetID is required")
	}
	if writeRange == "" {
		return nil, fmt.Errorf("range is required")
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("values are required")
	}
	valueInput, err := normalizeValueInput(valueInput)
	if err != nil {
		return nil, err
	}

	res, err := c.service.Spreadsheets.Values.Update(spreadsheetID, writeRange, &sheets.ValueRange{
		Values: values,
	}).
		Context(ctx).
		ValueInputOption(valueInput).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to update values in %s: %w", spreadsheetID, err)
	}

	return res, nil
}

// AppendValues appends rows after the existing data in a range
func (c *Client) AppendValues(ctx context.Context, spreadsheetID, appendRange string, values [][]interface{}, valueInput string) (*sheets.AppendValuesResponse, error) {
	if spreadsheetID == "" {
		return nil, fmt.Errorf("spreadsheetID is required")
	}
	if appendRange == "" {
		return nil, fmt.Errorf("range is required")
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("values are required")
	}
	valueInput, err := normalizeValueInput(valueInput)
	if err != nil {
		return nil, err
	}

	res, err := c.service.Spreadsheets.Values.Append(spreadsheetID, appendRange, &sheets.ValueRange{
		Values: values,
	}).
		Context(ctx).
		ValueInputOption(valueInput).
		InsertDataOption("INSERT_ROWS").
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to append values to %s: %w", spreadsheetID, err)
	}

	return res, nil
}

// CreateSpreadsheet creates a new spreadsheet with the given sheet names.
// An empty sheetNames creates the default single sheet.
func (c *Client) CreateSpreadsheet(ctx context.Context, title string, sheetNames []string) (*sheets.Spreadsheet, error) {
	if title == "" {
		return nil, fmt.Errorf("title is required")
	}

	spreadsheet := &sheets.Spreadsheet{
		Properties: &sheets.SpreadsheetProperties{Title: title},
	}
	for _, name := range sheetNames {
		spreadsheet.Sheets = append(spreadsheet.Sheets, &sheets.Sheet{
			Properties: &sheets.SheetProperties{Title: name},
		})
	}

	created, err := c.service.Spreadsheets.Create(spreadsheet).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to create spreadsheet: %w", err)
	}

	return created, nil
}

// GetMetadata retrieves spreadsheet properties and the list of sheets
// without any cell data
func (c *Client) GetMetadata(ctx context.Context, spreadsheetID string) (*sheets.Spreadsheet, error) {
	if spreadsheetID == "" {
		return nil, fmt.Errorf("spreadsheetID is required")
	}

	spreadsheet, err := c.service.Spreadsheets.Get(spreadsheetID).
		Context(ctx).
		Fields("spreadsheetId, properties, sheets(properties), spreadsheetUrl").
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get spreadsheet %s: %w", spreadsheetID, err)
	}

	return spreadsheet, nil
}

func normalizeValueInput(valueInput string) (string, error) {
	switch valueInput {
	case "":
		return "USER_ENTERED", nil
	case "USER_ENTERED", "RAW":
		return valueInput, nil
	}
	return "", fmt.Errorf("invalid valueInput %q: must be USER_ENTERED or RAW", valueInput)
}
