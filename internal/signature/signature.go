package signature

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/guschlbauermichael93/guschlbauer-signatures/internal/directory"
	"github.com/guschlbauermichael93/guschlbauer-signatures/internal/embedding"
	"github.com/guschlbauermichael93/guschlbauer-signatures/internal/models"
	"github.com/guschlbauermichael93/guschlbauer-signatures/internal/render"
	"github.com/guschlbauermichael93/guschlbauer-signatures/internal/repository"
)

// Variant selects which template body is rendered.
type Variant string

const (
	// VariantFull is the complete signature used on new messages.
	VariantFull Variant = "full"
	// VariantReply is the short signature used inside existing threads.
	VariantReply Variant = "reply"
)

// ParseVariant maps a query value to a variant, defaulting to full.
func ParseVariant(s string) Variant {
	if s == string(VariantReply) {
		return VariantReply
	}
	return VariantFull
}

// Request describes one signature to compose.
type Request struct {
	Email      string
	TemplateID string // empty selects the assignment or default template
	Variant    Variant
	Mode       embedding.Mode
}

// Composer turns a request into a personalized signature by combining
// directory data, the stored template and the asset library.
type Composer struct {
	templates *repository.TemplateRepository
	assets    *repository.AssetRepository
	directory directory.Directory
	logger    *slog.Logger

	companyName string
	baseURL     string
}

func NewComposer(
	templates *repository.TemplateRepository,
	assets *repository.AssetRepository,
	dir directory.Directory,
	logger *slog.Logger,
	companyName, baseURL string,
) *Composer {
	return &Composer{
		templates:   templates,
		assets:      assets,
		directory:   dir,
		logger:      logger,
		companyName: companyName,
		baseURL:     baseURL,
	}
}

// Compose resolves the user, picks the template, embeds assets and
// substitutes placeholders. A directory outage degrades to a profile
// synthesized from the address rather than failing the request.
func (c *Composer) Compose(ctx context.Context, req Request) (*models.RenderedSignature, error) {
	user, err := c.directory.GetUser(ctx, req.Email)
	if err != nil {
		c.logger.Warn("directory lookup failed, synthesizing profile",
			"email", req.Email, "error", err)
		user = directory.SynthesizeUser(req.Email, c.companyName)
	}

	tmpl, err := c.resolveTemplate(req)
	if err != nil {
		return nil, err
	}

	content := tmpl.HTML
	if req.Variant == VariantReply && tmpl.HTMLReply != "" {
		content = tmpl.HTMLReply
	}

	assets, err := c.assets.List()
	if err != nil {
		return nil, fmt.Errorf("load assets: %w", err)
	}

	resolved := embedding.Resolve(content, assets, req.Mode, c.baseURL)
	html := render.Template(resolved.HTML, user)

	return &models.RenderedSignature{
		HTML:        html,
		PlainText:   render.HTMLToPlainText(html),
		TemplateID:  tmpl.ID,
		UserID:      user.ID,
		GeneratedAt: time.Now().UTC(),
		Attachments: resolved.Attachments,
	}, nil
}

func (c *Composer) resolveTemplate(req Request) (*models.Template, error) {
	if req.TemplateID != "" {
		return c.templates.GetByID(req.TemplateID)
	}
	return c.templates.GetForUser(req.Email)
}
