// Package embedding rewrites asset placeholders in signature HTML into
// concrete image sources: inline data URLs, server links, or MIME cid
// references with a side list of inline attachments.
package embedding

import (
	"sort"
	"strings"

	"github.com/guschlbauermichael93/guschlbauer-signatures/internal/models"
)

// Mode selects how an asset reference becomes a concrete HTML source.
type Mode string

const (
	ModeInline Mode = "inline"
	ModeURL    Mode = "url"
	ModeCID    Mode = "cid"
)

// ParseMode maps a query value to a Mode, defaulting to inline.
func ParseMode(s string) (Mode, bool) {
	switch s {
	case "", string(ModeInline):
		return ModeInline, true
	case string(ModeURL):
		return ModeURL, true
	case string(ModeCID):
		return ModeCID, true
	}
	return ModeInline, false
}

// srcToken is the sub-placeholder inside a custom asset HTML tag.
const srcToken = "{{src}}"

// Result is the outcome of resolving asset placeholders.
type Result struct {
	HTML        string
	Attachments []models.Attachment
}

// Resolve substitutes {{assetId}} tokens in content for every asset
// that is actually referenced. Assets are processed in id order so the
// output is deterministic. Placeholders without a matching asset are
// left as-is. In cid mode the referenced assets are collected as inline
// attachments for the caller to attach to the outgoing message.
func Resolve(content string, assets []models.Asset, mode Mode, baseURL string) Result {
	sorted := make([]models.Asset, len(assets))
	copy(sorted, assets)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	result := Result{HTML: content}

	for _, asset := range sorted {
		token := "{{" + asset.ID + "}}"
		if !strings.Contains(result.HTML, token) {
			continue
		}

		var src string
		switch mode {
		case ModeURL:
			src = baseURL + "/api/assets/serve?id=" + asset.ID
		case ModeCID:
			src = "cid:" + cidFilename(&asset)
			result.Attachments = append(result.Attachments, models.Attachment{
				ID:       asset.ID,
				Filename: cidFilename(&asset),
				MimeType: asset.MimeType,
				Base64:   asset.RawBase64(),
			})
		default:
			src = asset.DataURL()
		}

		replacement := src
		if strings.Contains(asset.HTMLTag, srcToken) {
			replacement = strings.ReplaceAll(asset.HTMLTag, srcToken, src)
		}

		result.HTML = strings.ReplaceAll(result.HTML, token, replacement)
	}

	return result
}

// cidFilename builds the attachment filename referenced by the cid URI.
func cidFilename(a *models.Asset) string {
	return a.ID + "." + extensionFor(a.MimeType)
}

func extensionFor(mimeType string) string {
	switch mimeType {
	case "image/png":
		return "png"
	case "image/jpeg":
		return "jpg"
	case "image/gif":
		return "gif"
	case "image/svg+xml":
		return "svg"
	case "image/webp":
		return "webp"
	}
	return "bin"
}
