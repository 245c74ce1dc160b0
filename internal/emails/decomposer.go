package emails

import (
	"encoding/base64"
	"regexp"
	"strings"
	"unicode/utf8"

	"mailsift/internal/models"
)

// emailAddressPattern matches an RFC-5322-style address: local part, @, and a
// dot-separated domain whose last label has at least two characters.
var emailAddressPattern = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)

// Decompose flattens a raw provider message into an Email record. It is a
// pure function of its input and never fails: a part that cannot be decoded
// contributes nothing and the rest of the tree is still used.
func Decompose(msg *models.RawMessage) *models.Email {
	email := &models.Email{
		ID:          msg.ID,
		ThreadID:    msg.ThreadID,
		Snippet:     msg.Snippet,
		Labels:      msg.LabelIDs,
		MessageSize: msg.SizeEstimate,
		Attachments: []models.Attachment{},
	}

	if msg.Payload == nil {
		return email
	}

	for _, header := range msg.Payload.Headers {
		switch strings.ToLower(header.Name) {
		case "subject":
			email.Subject = header.Value
		case "from":
			email.Sender = header.Value
			email.SenderEmail = ExtractEmailAddress(header.Value)
			email.SenderName = ExtractSenderName(header.Value)
		case "to":
			email.Recipient = header.Value
		case "date":
			email.Date = header.Value
		}
	}

	body := extractBody(msg.Payload)
	email.BodyText = body.text
	email.BodyHTML = body.html
	email.Attachments = extractAttachments(msg.Payload)

	return email
}

// bodyContent holds the first plain-text and HTML bodies found in a part tree.
type bodyContent struct {
	text string
	html string
}

// merge fills still-empty slots from other. First-found-wins: a slot set by
// an earlier part is never overwritten by a later sibling.
func (b bodyContent) merge(other bodyContent) bodyContent {
	if b.text == "" {
		b.text = other.text
	}
	if b.html == "" {
		b.html = other.html
	}
	return b
}

// extractBody walks the part tree depth-first in pre-order. Containers merge
// their children in order; leaves contribute their decoded data to the slot
// matching their declared MIME type.
func extractBody(part *models.MessagePart) bodyContent {
	if part == nil {
		return bodyContent{}
	}

	if len(part.Parts) > 0 {
		var merged bodyContent
		for _, child := range part.Parts {
			merged = merged.merge(extractBody(child))
		}
		return merged
	}

	if part.Body == nil || part.Body.Data == "" {
		return bodyContent{}
	}

	decoded, ok := decodeBodyData(part.Body.Data)
	if !ok {
		return bodyContent{}
	}

	switch part.MimeType {
	case "text/plain":
		return bodyContent{text: decoded}
	case "text/html":
		return bodyContent{html: decoded}
	}
	return bodyContent{}
}

// decodeBodyData decodes URL-safe base64 into UTF-8 text. Providers differ on
// padding, so the unpadded alphabet is tried as a fallback.
func decodeBodyData(data string) (string, bool) {
	decoded, err := base64.URLEncoding.DecodeString(data)
	if err != nil {
		decoded, err = base64.RawURLEncoding.DecodeString(data)
	}
	if err != nil || !utf8.Valid(decoded) {
		return "", false
	}
	return string(decoded), true
}

// extractAttachments collects every leaf carrying a filename, in pre-order
// visit order. It is independent of the body walk: a leaf may contribute a
// body, an attachment, both, or neither.
func extractAttachments(part *models.MessagePart) []models.Attachment {
	if part == nil {
		return []models.Attachment{}
	}

	if len(part.Parts) > 0 {
		attachments := []models.Attachment{}
		for _, child := range part.Parts {
			attachments = append(attachments, extractAttachments(child)...)
		}
		return attachments
	}

	if part.Filename == "" {
		return []models.Attachment{}
	}

	attachment := models.Attachment{
		Filename: part.Filename,
		MimeType: part.MimeType,
	}
	if part.Body != nil {
		attachment.Size = part.Body.Size
		attachment.AttachmentID = part.Body.AttachmentID
	}
	return []models.Attachment{attachment}
}

// ExtractEmailAddress returns the first address-shaped substring of a raw
// From header, or the raw value unchanged when nothing matches.
func ExtractEmailAddress(sender string) string {
	if sender == "" {
		return ""
	}
	if match := emailAddressPattern.FindString(sender); match != "" {
		return match
	}
	return sender
}

// ExtractSenderName derives a display name from a raw From header.
// "Jane Doe <jane@example.com>" yields "Jane Doe"; a bare address yields its
// local part; anything else is returned unchanged.
func ExtractSenderName(sender string) string {
	if sender == "" {
		return ""
	}
	if idx := strings.Index(sender, "<"); idx >= 0 {
		return strings.Trim(strings.TrimSpace(sender[:idx]), `"`)
	}
	if idx := strings.Index(sender, "@"); idx >= 0 {
		return sender[:idx]
	}
	return sender
}
