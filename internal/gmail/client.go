package gmail

import (
	"context"
	"fmt"
	"strings"

	gmail "google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"github.com/teemow/workspacemcp/internal/auth"
)

// Client wraps the Gmail Users service
type Client struct {
	svc      *gmail.UsersService
	identity string // The identity this client operates as
}

// Identity returns the identity this client operates as
func (c *Client) Identity() string {
	return c.identity
}

// NewClient creates a new Gmail client for the given identity. The resolver
// supplies the credential; a *auth.ReauthRequiredError flows through to the
// caller when no usable credential exists.
func NewClient(ctx context.Context, resolver *auth.Resolver, identity string) (*Client, error) {
	cred, err := resolver.Resolve(ctx, identity)
	if err != nil {
		return nil, err
	}

	svc, err := gmail.NewService(ctx, option.WithHTTPClient(auth.HTTPClient(ctx, cred)))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gmail service: %w", err)
	}

	return &Client{
		svc:      svc.Users,
		identity: identity,
	}, nil
}

// SearchMessages searches for messages matching a Gmail query and returns
// summaries with the common headers resolved
func (c *Client) SearchMessages(ctx context.Context, query string, maxResults int64) ([]*MessageSummary, error) {
	if maxResults <= 0 {
		maxResults = 10
	}

	call := c.svc.Messages.List("me").MaxResults(maxResults).Context(ctx)
	if query != "" {
		call = call.Q(query)
	}

	res, err := call.Do()
	if err != nil {
		return nil, fmt.Errorf("failed to search messages: %w", err)
	}

	summaries := make([]*MessageSummary, 0, len(res.Messages))
	for _, m := range res.Messages {
		msg, err := c.svc.Messages.Get("me", m.Id).
			Format("metadata").
			MetadataHeaders("From", "Subject", "Date").
			Context(ctx).
			Do()
		if err != nil {
			return nil, fmt.Errorf("failed to get message %s: %w", m.Id, err)
		}
		summaries = append(summaries, summarize(msg))
	}

	return summaries, nil
}

// GetMessage retrieves a single message by ID.
// Format is one of "full", "metadata" or "minimal".
func (c *Client) GetMessage(ctx context.Context, messageID, format string) (*gmail.Message, error) {
	if messageID == "" {
		return nil, fmt.Errorf("messageID is required")
	}

	switch format {
	case "":
		format = "full"
	case "full", "metadata", "minimal":
	default:
		return nil, fmt.Errorf("invalid format %q: must be full, metadata or minimal", format)
	}

	msg, err := c.svc.Messages.Get("me", messageID).Format(format).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get message %s: %w", messageID, err)
	}

	return msg, nil
}

// SendMessage sends an email through the Gmail API and returns the sent
// message ID
func (c *Client) SendMessage(ctx context.Context, msg *OutgoingMessage) (string, error) {
	raw, err := buildRawMessage(msg)
	if err != nil {
		return "", err
	}

	sent, err := c.svc.Messages.Send("me", &gmail.Message{Raw: raw}).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to send message: %w", err)
	}

	return sent.Id, nil
}

// ListLabels lists all labels in the mailbox
func (c *Client) ListLabels(ctx context.Context) ([]*gmail.Label, error) {
	res, err := c.svc.Labels.List("me").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list labels: %w", err)
	}
	return res.Labels, nil
}

// ModifyLabels adds and removes label IDs on a message
func (c *Client) ModifyLabels(ctx context.Context, messageID string, addLabels, removeLabels []string) (*gmail.Message, error) {
	if messageID == "" {
		return nil, fmt.Errorf("messageID is required")
	}
	if len(addLabels) == 0 && len(removeLabels) == 0 {
		return nil, fmt.Errorf("at least one label to add or remove is required")
	}

	msg, err := c.svc.Messages.Modify("me", messageID, &gmail.ModifyMessageRequest{
		AddLabelIds:    addLabels,
		RemoveLabelIds: removeLabels,
	}).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to modify labels on message %s: %w", messageID, err)
	}

	return msg, nil
}

func summarize(msg *gmail.Message) *MessageSummary {
	return &MessageSummary{
		ID:       msg.Id,
		ThreadID: msg.ThreadId,
		From:     HeaderValue(msg, "From"),
		Subject:  HeaderValue(msg, "Subject"),
		Date:     HeaderValue(msg, "Date"),
		Snippet:  msg.Snippet,
	}
}

// HeaderValue returns the value of a named header from a message payload,
// matching case-insensitively. Returns an empty string if not found.
func HeaderValue(msg *gmail.Message, name string) string {
	if msg == nil || msg.Payload == nil {
		return ""
	}
	for _, h := range msg.Payload.Headers {
		if strings.EqualFold(h.Name, name) {
			return h.Value
		}
	}
	return ""
}
