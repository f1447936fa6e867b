package docs

import (
	"context"
	"fmt"
	"strings"

	docs "google.golang.org/api/docs/v1"
	drive "google.golang.org/api/drive/v3"
	"google.golang.org/api/option"

	"github.com/teemow/workspacemcp/internal/auth"
)

const documentMimeType = "application/vnd.google-apps.document"

// Client wraps the Google Docs API service. It also holds a Drive service
// because documents are discovered through Drive search.
type Client struct {
	svc      *docs.Service
	drive    *drive.Service
	identity string // The identity this client operates as
}

// Identity returns the identity this client operates as
func (c *Client) Identity() string {
	return c.identity
}

// NewClient creates a new Google Docs client for the given identity
func NewClient(ctx context.Context, resolver *auth.Resolver, identity string) (*Client, error) {
	cred, err := resolver.Resolve(ctx, identity)
	if err != nil {
		return nil, err
	}

	httpClient := auth.HTTPClient(ctx, cred)

	svc, err := docs.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create Docs service: %w", err)
	}

	driveService, err := drive.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("failed to create Drive service: %w", err)
	}

	return &Client{
		svc:      svc,
		drive:    driveService,
		identity: identity,
	}, nil
}

// DocInfo is the condensed Drive view of a document used for search results
type DocInfo struct {
	ID           string
	Title        string
	ModifiedTime string
	WebViewLink  string
}

// SearchDocs searches for Google Docs by name
func (c *Client) SearchDocs(ctx context.Context, query string, pageSize int64) ([]*DocInfo, error) {
	if query == "" {
		return nil, fmt.Errorf("query is required")
	}
	if pageSize <= 0 {
		pageSize = 10
	}

	q := fmt.Sprintf("mimeType='%s' and name contains '%s' and trashed=false",
		documentMimeType, escapeQuery(query))
	fileList, err := c.drive.Files.List().
		Context(ctx).
		Q(q).
		PageSize(pageSize).
		OrderBy("modifiedTime desc").
		Fields("files(id, name, modifiedTime, webViewLink)").
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to search docs: %w", err)
	}

	infos := make([]*DocInfo, len(fileList.Files))
	for i, f := range fileList.Files {
		infos[i] = &DocInfo{
			ID:           f.Id,
			Title:        f.Name,
			ModifiedTime: f.ModifiedTime,
			WebViewLink:  f.WebViewLink,
		}
	}

	return infos, nil
}

// GetContent retrieves a document and extracts its plain text
func (c *Client) GetContent(ctx context.Context, documentID string) (string, error) {
	if documentID == "" {
		return "", fmt.Errorf("documentID is required")
	}

	doc, err := c.svc.Documents.Get(documentID).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to get document %s: %w", documentID, err)
	}

	return DocumentToPlainText(doc)
}

// CreateDoc creates a new document, optionally with initial content
func (c *Client) CreateDoc(ctx context.Context, title, content string) (*docs.Document, error) {
	if title == "" {
		return nil, fmt.Errorf("title is required")
	}

	doc, err := c.svc.Documents.Create(&docs.Document{Title: title}).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to create document: %w", err)
	}

	if content != "" {
		if err := c.insertText(ctx, doc.DocumentId, content, 1); err != nil {
			return nil, err
		}
	}

	return doc, nil
}

// ModifyText inserts text at an index, or replaces all occurrences of
// replaceText when given
func (c *Client) ModifyText(ctx context.Context, documentID, text string, index int64, replaceText string) error {
	if documentID == "" {
		return fmt.Errorf("documentID is required")
	}
	if text == "" {
		return fmt.Errorf("text is required")
	}

	if replaceText != "" {
		_, err := c.svc.Documents.BatchUpdate(documentID, &docs.BatchUpdateDocumentRequest{
			Requests: []*docs.Request{{
				ReplaceAllText: &docs.ReplaceAllTextRequest{
					ContainsText: &docs.SubstringMatchCriteria{
						Text:      replaceText,
						MatchCase: true,
					},
					ReplaceText: text,
				},
			}},
		}).Context(ctx).Do()
		if err != nil {
			return fmt.Errorf("failed to replace text in document %s: %w", documentID, err)
		}
		return nil
	}

	if index < 1 {
		index = 1
	}
	return c.insertText(ctx, documentID, text, index)
}

// AppendText appends text at the end of the document body
func (c *Client) AppendText(ctx context.Context, documentID, text string) error {
	if documentID == "" {
		return fmt.Errorf("documentID is required")
	}
	if text == "" {
		return fmt.Errorf("text is required")
	}

	doc, err := c.svc.Documents.Get(documentID).Context(ctx).Fields("body(content(endIndex))").Do()
	if err != nil {
		return fmt.Errorf("failed to get document %s: %w", documentID, err)
	}

	// The last structural element's end index points past the final
	// newline, which cannot be written to.
	index := endIndex(doc) - 1
	if index < 1 {
		index = 1
	}

	return c.insertText(ctx, documentID, text, index)
}

func (c *Client) insertText(ctx context.Context, documentID, text string, index int64) error {
	_, err := c.svc.Documents.BatchUpdate(documentID, &docs.BatchUpdateDocumentRequest{
		Requests: []*docs.Request{{
			InsertText: &docs.InsertTextRequest{
				Text:     text,
				Location: &docs.Location{Index: index},
			},
		}},
	}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to insert text into document %s: %w", documentID, err)
	}
	return nil
}

// endIndex returns the end index of the document body, or 1 for an empty
// document
func endIndex(doc *docs.Document) int64 {
	if doc == nil || doc.Body == nil || len(doc.Body.Content) == 0 {
		return 1
	}
	return doc.Body.Content[len(doc.Body.Content)-1].EndIndex
}

// escapeQuery escapes single quotes and backslashes for embedding a user
// string in a Drive query literal
func escapeQuery(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `'`, `\'`)
}
