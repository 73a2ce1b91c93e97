package addin

import (
	"time"

	"github.com/guschlbauermichael93/guschlbauer-signatures/internal/directory"
	"github.com/guschlbauermichael93/guschlbauer-signatures/internal/models"
	"github.com/guschlbauermichael93/guschlbauer-signatures/internal/render"
)

const fallbackTemplate = `<p style="font-family: Arial, sans-serif; font-size: 14px; color: #333333; margin: 0;">
  Freundliche Gr&uuml;&szlig;e<br />
  <strong>{{displayName}}</strong><br />
  {{companyName}}<br />
  E-Mail: {{mail}}
</p>`

// FallbackSignature synthesizes a minimal signature from nothing but
// the sender address. Used when the service cannot be reached so a
// draft never goes out signature-less. The result must not be cached.
func FallbackSignature(email, companyName string) *models.RenderedSignature {
	user := directory.SynthesizeUser(email, companyName)
	html := render.Template(fallbackTemplate, user)

	return &models.RenderedSignature{
		HTML:        html,
		PlainText:   render.HTMLToPlainText(html),
		TemplateID:  "fallback",
		UserID:      user.ID,
		GeneratedAt: time.Now().UTC(),
	}
}
