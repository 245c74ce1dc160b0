package prioritize

import (
	"strings"

	"mailsift/internal/models"
)

// Priority levels assigned to emails.
const (
	High   = "high"
	Medium = "medium"
	Low    = "low"
)

// urgentKeywords in a subject force a high priority.
var urgentKeywords = []string{"urgent", "asap", "immediately"}

// Classify assigns a priority from simple keyword and sender rules. vipDomain
// is the domain whose senders always rank high; empty disables that rule.
func Classify(email *models.Email, vipDomain string) string {
	subject := strings.ToLower(email.Subject)
	sender := strings.ToLower(email.SenderEmail)

	for _, keyword := range urgentKeywords {
		if strings.Contains(subject, keyword) {
			return High
		}
	}

	if vipDomain != "" && strings.HasSuffix(sender, "@"+strings.ToLower(vipDomain)) {
		return High
	}

	if strings.Contains(subject, "newsletter") || strings.Contains(strings.ToLower(email.BodyText), "unsubscribe") {
		return Low
	}

	return Medium
}
