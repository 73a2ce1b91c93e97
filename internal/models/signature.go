package models

import "time"

// RenderedSignature is the final personalized signature returned to
// the admin UI and the add-in.
type RenderedSignature struct {
	HTML        string       `json:"html"`
	PlainText   string       `json:"plainText"`
	TemplateID  string       `json:"templateId"`
	UserID      string       `json:"userId"`
	GeneratedAt time.Time    `json:"generatedAt"`
	Attachments []Attachment `json:"attachments,omitempty"`
}
