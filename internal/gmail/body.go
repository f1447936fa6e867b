package gmail

import (
	"encoding/base64"
	"fmt"

	gmail "google.golang.org/api/gmail/v1"
)

// ExtractBody returns the decoded text body of a full-format message,
// preferring the text/plain part and falling back to text/html. An empty
// string means the message carries no decodable text body.
func ExtractBody(msg *gmail.Message) string {
	if body, err := extractBodyPart(msg, "text/plain"); err == nil {
		return body
	}
	body, _ := extractBodyPart(msg, "text/html")
	return body
}

func extractBodyPart(msg *gmail.Message, mimeType string) (string, error) {
	if msg == nil || msg.Payload == nil {
		return "", fmt.Errorf("message has no payload")
	}

	var data string
	if msg.Payload.MimeType == mimeType && msg.Payload.Body != nil && msg.Payload.Body.Data != "" {
		data = msg.Payload.Body.Data
	} else {
		walkParts(msg.Payload, func(part *gmail.MessagePart) {
			if data == "" && part.MimeType == mimeType && part.Body != nil && part.Body.Data != "" {
				data = part.Body.Data
			}
		})
	}

	if data == "" {
		return "", fmt.Errorf("no %s body found in message", mimeType)
	}

	// The Gmail API uses RFC 4648 base64url encoding, with and without
	// padding depending on the part
	decoded, err := base64.URLEncoding.DecodeString(data)
	if err != nil {
		decoded, err = base64.RawURLEncoding.DecodeString(data)
		if err != nil {
			return "", fmt.Errorf("failed to decode message body: %w", err)
		}
	}

	return string(decoded), nil
}

// walkParts recursively walks through message parts
func walkParts(part *gmail.MessagePart, fn func(*gmail.MessagePart)) {
	if part == nil {
		return
	}

	fn(part)

	for _, subpart := range part.Parts {
		walkParts(subpart, fn)
	}
}
