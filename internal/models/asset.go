package models

import "time"

// PrimaryAssetID is the distinguished logo asset that cannot be deleted.
const PrimaryAssetID = "logo"

// Asset represents a stored signature image (logo, banner).
// Base64Data may or may not carry a "data:" URL prefix; DataURL
// normalizes it for inline embedding.
type Asset struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	MimeType  string    `json:"mimeType"`
	Base64    string    `json:"base64Data"`
	Width     int       `json:"width,omitempty"`
	Height    int       `json:"height,omitempty"`
	HTMLTag   string    `json:"htmlTag,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// DataURL returns the asset content as a data URL, constructing the
// prefix when the stored value is raw base64.
func (a *Asset) DataURL() string {
	if len(a.Base64) >= 5 && a.Base64[:5] == "data:" {
		return a.Base64
	}
	return "data:" + a.MimeType + ";base64," + a.Base64
}

// RawBase64 returns the base64 payload without any data URL prefix.
func (a *Asset) RawBase64() string {
	if len(a.Base64) >= 5 && a.Base64[:5] == "data:" {
		for i := 5; i < len(a.Base64); i++ {
			if a.Base64[i] == ',' {
				return a.Base64[i+1:]
			}
		}
		return ""
	}
	return a.Base64
}

// Attachment is an inline mail attachment produced by cid embedding.
type Attachment struct {
	ID       string `json:"id"`
	Filename string `json:"filename"`
	MimeType string `json:"mimeType"`
	Base64   string `json:"base64"`
}
