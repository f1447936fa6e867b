// Package gmail provides a client for interacting with the Gmail API.
//
// This package covers the Gmail operations exposed as MCP tools:
//   - Message search with Gmail query syntax
//   - Message retrieval (full, metadata, or minimal format)
//   - Sending email (plain text or HTML, RFC 2047 subject encoding)
//   - Label listing and modification (archive, star, trash, mark read)
//
// Clients are constructed per identity from a credential supplied by the
// auth resolver; all operations act on the authenticated mailbox ("me").
//
// Example usage:
//
//	ctx := context.Background()
//	client, err := gmail.NewClient(ctx, resolver, "user@example.com")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	summaries, err := client.SearchMessages(ctx, "from:boss@example.com", 10)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	msgID, err := client.SendMessage(ctx, &gmail.OutgoingMessage{
//	    To:      []string{"recipient@example.com"},
//	    Subject: "Hello",
//	    Body:    "This is a test email",
//	})
package gmail
