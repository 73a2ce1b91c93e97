package main

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/guschlbauermichael93/guschlbauer-signatures/internal/addin"
	"github.com/guschlbauermichael93/guschlbauer-signatures/internal/models"
)

// fileHost adapts a draft HTML file on disk to the add-in host
// contract. Inline attachments land next to the draft so cid
// references can be resolved by the packaging step.
type fileHost struct {
	draftPath  string
	email      string
	recipients []string
	company    string
}

func (h *fileHost) Body() (string, error) {
	data, err := os.ReadFile(h.draftPath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", err
	}
	return string(data), nil
}

func (h *fileHost) SetBody(body string) error {
	return os.WriteFile(h.draftPath, []byte(body), 0644)
}

func (h *fileHost) ToRecipients() ([]string, error) {
	return h.recipients, nil
}

func (h *fileHost) UserEmail() string {
	return h.email
}

// ThreadContainsSignature looks for the marker comments and, for mail
// signed outside the add-in, falls back to the company name string.
func (h *fileHost) ThreadContainsSignature() (bool, error) {
	body, err := h.Body()
	if err != nil {
		return false, err
	}
	if addin.HasSignature(body) {
		return true, nil
	}
	return h.company != "" && strings.Contains(body, h.company), nil
}

func (h *fileHost) AddInlineAttachment(att models.Attachment) error {
	data, err := base64.StdEncoding.DecodeString(att.Base64)
	if err != nil {
		return fmt.Errorf("failed to decode attachment %s: %w", att.ID, err)
	}
	path := filepath.Join(filepath.Dir(h.draftPath), att.Filename)
	return os.WriteFile(path, data, 0644)
}

func (h *fileHost) Notify(message string) {
	fmt.Fprintln(os.Stderr, message)
}
