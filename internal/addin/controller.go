package addin

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/guschlbauermichael93/guschlbauer-signatures/internal/models"
	"github.com/guschlbauermichael93/guschlbauer-signatures/internal/signature"
)

// Host abstracts the compose surface the controller manipulates, the
// Outlook draft in production and a fake in tests.
type Host interface {
	Body() (string, error)
	SetBody(body string) error
	ToRecipients() ([]string, error)
	UserEmail() string
	// ThreadContainsSignature scans earlier messages of the thread for
	// a managed signature. Only meaningful right after compose opens.
	ThreadContainsSignature() (bool, error)
	AddInlineAttachment(att models.Attachment) error
	Notify(message string)
}

// Fetcher obtains rendered signatures for the current user.
type Fetcher interface {
	Fetch(ctx context.Context, email string, variant signature.Variant) (*models.RenderedSignature, error)
}

// Controller drives signature insertion for one compose session.
type Controller struct {
	host    Host
	fetcher Fetcher
	cache   *Cache
	logger  *slog.Logger

	internalDomains []string
	companyName     string

	// settleDelay gives the host a moment to populate the draft before
	// the first read. Zero in tests.
	settleDelay time.Duration

	// threadHasSig is captured exactly once when the compose opens.
	// Re-checking later would see our own inserted signature and flip
	// every message to the reply variant.
	threadHasSig   bool
	threadCaptured bool

	currentVariant signature.Variant
	inserted       bool
}

type ControllerConfig struct {
	InternalDomains []string
	CompanyName     string
	SettleDelay     time.Duration
	CacheTTL        time.Duration
}

func NewController(host Host, fetcher Fetcher, cfg ControllerConfig, logger *slog.Logger) *Controller {
	return &Controller{
		host:            host,
		fetcher:         fetcher,
		cache:           NewCache(cfg.CacheTTL),
		logger:          logger,
		internalDomains: cfg.InternalDomains,
		companyName:     cfg.CompanyName,
		settleDelay:     cfg.SettleDelay,
	}
}

// OnNewCompose runs when a compose window opens. It captures the
// thread state once, picks a variant and inserts the signature.
func (c *Controller) OnNewCompose(ctx context.Context) error {
	if c.settleDelay > 0 {
		select {
		case <-time.After(c.settleDelay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	if !c.threadCaptured {
		hasSig, err := c.host.ThreadContainsSignature()
		if err != nil {
			c.logger.Warn("thread scan failed, assuming no prior signature", "error", err)
			hasSig = false
		}
		c.threadHasSig = hasSig
		c.threadCaptured = true
	}

	variant, err := c.decideVariant()
	if err != nil {
		return err
	}

	return c.insert(ctx, variant)
}

// OnRecipientsChanged re-evaluates the variant when the recipient list
// changes. Nothing happens while the variant stays the same.
func (c *Controller) OnRecipientsChanged(ctx context.Context) error {
	if !c.inserted {
		return nil
	}

	variant, err := c.decideVariant()
	if err != nil {
		return err
	}
	if variant == c.currentVariant {
		return nil
	}

	return c.insert(ctx, variant)
}

// InsertManually handles the explicit toolbar action. Thread history
// is ignored here, only the current recipient list counts, and the
// user gets feedback either way.
func (c *Controller) InsertManually(ctx context.Context) error {
	variant := signature.VariantFull
	if c.recipientsInternal() {
		variant = signature.VariantReply
	}

	if err := c.insert(ctx, variant); err != nil {
		c.host.Notify("Signatur konnte nicht eingefügt werden")
		return err
	}

	c.host.Notify("Signatur eingefügt")
	return nil
}

func (c *Controller) decideVariant() (signature.Variant, error) {
	if c.threadHasSig {
		return signature.VariantReply, nil
	}
	if c.recipientsInternal() {
		return signature.VariantReply, nil
	}
	return signature.VariantFull, nil
}

// recipientsInternal reports whether every To recipient belongs to an
// internal domain. Cc and Bcc deliberately do not count.
func (c *Controller) recipientsInternal() bool {
	to, err := c.host.ToRecipients()
	if err != nil || len(to) == 0 {
		return false
	}

	for _, addr := range to {
		if !c.isInternal(addr) {
			return false
		}
	}
	return true
}

func (c *Controller) isInternal(addr string) bool {
	at := strings.LastIndex(addr, "@")
	if at < 0 {
		return false
	}
	domain := strings.ToLower(addr[at+1:])
	for _, d := range c.internalDomains {
		if domain == strings.ToLower(d) {
			return true
		}
	}
	return false
}

func (c *Controller) insert(ctx context.Context, variant signature.Variant) error {
	sig, cached := c.fetch(ctx, variant)

	body, err := c.host.Body()
	if err != nil {
		return err
	}
	if err := c.host.SetBody(Apply(body, sig.HTML)); err != nil {
		return err
	}

	for _, att := range sig.Attachments {
		if err := c.host.AddInlineAttachment(att); err != nil {
			// A missing logo is cosmetic, the signature text stands.
			c.logger.Warn("failed to attach inline asset",
				"asset", att.ID, "error", err)
		}
	}

	c.currentVariant = variant
	c.inserted = true
	c.logger.Debug("signature inserted",
		"variant", variant, "template", sig.TemplateID, "cached", cached)
	return nil
}

// fetch returns the signature for variant, consulting the cache first
// and degrading to a local fallback when the service is unreachable.
func (c *Controller) fetch(ctx context.Context, variant signature.Variant) (*models.RenderedSignature, bool) {
	email := c.host.UserEmail()
	key := email + ":" + string(variant)

	if sig, ok := c.cache.Get(key); ok {
		return sig, true
	}

	sig, err := c.fetcher.Fetch(ctx, email, variant)
	if err != nil {
		c.logger.Warn("signature fetch failed, using fallback",
			"email", email, "variant", variant, "error", err)
		return FallbackSignature(email, c.companyName), false
	}

	c.cache.Put(key, sig)
	return sig, false
}
