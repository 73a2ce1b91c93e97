package mailer

import (
	"strings"
	"testing"
	"time"

	"github.com/guschlbauermichael93/guschlbauer-signatures/internal/models"
)

func TestBuildMessagePlainAndHTML(t *testing.T) {
	sig := &models.RenderedSignature{
		HTML:        "<p>Max Mustermann</p>",
		PlainText:   "Max Mustermann",
		TemplateID:  "default",
		GeneratedAt: time.Now(),
	}

	data, err := BuildMessage("it@guschlbauer.at", "max.mustermann@guschlbauer.at", "Signature preview", sig)
	if err != nil {
		t.Fatalf("BuildMessage() error = %v", err)
	}

	msg := string(data)
	for _, want := range []string{
		"From: it@guschlbauer.at",
		"To: max.mustermann@guschlbauer.at",
		"Subject: Signature preview",
		"MIME-Version: 1.0",
		"multipart/alternative",
		"text/plain; charset=utf-8",
		"text/html; charset=utf-8",
		"<p>Max Mustermann</p>",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("message missing %q", want)
		}
	}

	if strings.Contains(msg, "multipart/related") {
		t.Error("message without attachments must not contain a related part")
	}
}

func TestBuildMessageWithInlineAttachment(t *testing.T) {
	sig := &models.RenderedSignature{
		HTML:      `<img src="cid:logo.png" />`,
		PlainText: "Max Mustermann",
		Attachments: []models.Attachment{
			{ID: "logo", Filename: "logo.png", MimeType: "image/png", Base64: strings.Repeat("QUJD", 30)},
		},
	}

	data, err := BuildMessage("it@guschlbauer.at", "max@guschlbauer.at", "Preview", sig)
	if err != nil {
		t.Fatalf("BuildMessage() error = %v", err)
	}

	msg := string(data)
	for _, want := range []string{
		"multipart/related",
		"Content-ID: <logo.png>",
		"Content-Type: image/png",
		"Content-Transfer-Encoding: base64",
		`inline; filename="logo.png"`,
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("message missing %q", want)
		}
	}

	// Base64 payload must be wrapped to RFC 2045 line length.
	payload := strings.Repeat("QUJD", 30)
	if strings.Contains(msg, payload) {
		t.Error("base64 payload not wrapped")
	}
	if !strings.Contains(msg, payload[:76]+"\r\n"+payload[76:]) {
		t.Error("base64 payload not wrapped at 76 characters")
	}
}

func TestValidateRecipient(t *testing.T) {
	valid := []string{"max@guschlbauer.at", "a.b@c.d"}
	invalid := []string{"", "max", "@x.at", "max@", "max mustermann@x.at"}

	for _, addr := range valid {
		if err := ValidateRecipient(addr); err != nil {
			t.Errorf("ValidateRecipient(%q) = %v, want nil", addr, err)
		}
	}
	for _, addr := range invalid {
		if err := ValidateRecipient(addr); err == nil {
			t.Errorf("ValidateRecipient(%q) = nil, want error", addr)
		}
	}
}
