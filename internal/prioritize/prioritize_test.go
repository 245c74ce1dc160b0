package prioritize

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"mailsift/internal/models"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name      string
		email     *models.Email
		vipDomain string
		expected  string
	}{
		{
			name:     "urgent subject",
			email:    &models.Email{Subject: "URGENT: server down"},
			expected: High,
		},
		{
			name:     "asap subject",
			email:    &models.Email{Subject: "need this ASAP please"},
			expected: High,
		},
		{
			name:     "immediately subject",
			email:    &models.Email{Subject: "Respond immediately"},
			expected: High,
		},
		{
			name:      "vip sender domain",
			email:     &models.Email{Subject: "hello", SenderEmail: "ceo@importantclient.com"},
			vipDomain: "importantclient.com",
			expected:  High,
		},
		{
			name:      "vip rule disabled with empty domain",
			email:     &models.Email{Subject: "hello", SenderEmail: "ceo@importantclient.com"},
			vipDomain: "",
			expected:  Medium,
		},
		{
			name:     "newsletter subject",
			email:    &models.Email{Subject: "Monthly Newsletter"},
			expected: Low,
		},
		{
			name:     "unsubscribe body",
			email:    &models.Email{Subject: "Deals", BodyText: "Click here to UNSUBSCRIBE"},
			expected: Low,
		},
		{
			name:     "default is medium",
			email:    &models.Email{Subject: "lunch tomorrow?", SenderEmail: "friend@example.com"},
			expected: Medium,
		},
		{
			name:      "urgent beats newsletter",
			email:     &models.Email{Subject: "urgent newsletter"},
			vipDomain: "importantclient.com",
			expected:  High,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Classify(tt.email, tt.vipDomain))
		})
	}
}
