package career

import (
	"context"
	"strings"
)

// MailDraft is a generated email.
type MailDraft struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// DraftMail writes an email for the candidate: cold outreach, follow-up,
// thank-you notes and the like. Background is free text, usually the
// structured resume or the job listing being pursued.
func (s *Service) DraftMail(ctx context.Context, purpose, recipient, tone, background string) (*MailDraft, error) {
	if strings.TrimSpace(tone) == "" {
		tone = "professional"
	}

	prompt, err := renderPrompt("mail_draft", map[string]string{
		"PURPOSE":   purpose,
		"RECIPIENT": recipient,
		"TONE":      tone,
		"CONTEXT":   background,
	})
	if err != nil {
		return nil, err
	}
	raw, err := s.gen.GenerateText(ctx, prompt)
	if err != nil {
		return nil, err
	}
	var out MailDraft
	if err := decodeJSON(raw, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
