package embedding

import (
	"strings"
	"testing"

	"github.com/guschlbauermichael93/guschlbauer-signatures/internal/models"
)

func bannerAsset() models.Asset {
	return models.Asset{
		ID:       "banner",
		Name:     "Banner",
		MimeType: "image/png",
		Base64:   "aGVsbG8=",
		HTMLTag:  `<img src="{{src}}" alt="Banner">`,
	}
}

func logoAsset() models.Asset {
	return models.Asset{
		ID:       "logo",
		Name:     "Logo",
		MimeType: "image/svg+xml",
		Base64:   "data:image/svg+xml;base64,c3Zn",
	}
}

func TestResolveInline(t *testing.T) {
	res := Resolve(`<p>{{banner}}</p>`, []models.Asset{bannerAsset()}, ModeInline, "")

	want := `<p><img src="data:image/png;base64,aGVsbG8=" alt="Banner"></p>`
	if res.HTML != want {
		t.Errorf("Resolve() = %q, want %q", res.HTML, want)
	}
	if len(res.Attachments) != 0 {
		t.Errorf("inline mode produced %d attachments, want 0", len(res.Attachments))
	}
}

func TestResolveInlineExistingDataURL(t *testing.T) {
	res := Resolve(`<img src="{{logo}}">`, []models.Asset{logoAsset()}, ModeInline, "")

	want := `<img src="data:image/svg+xml;base64,c3Zn">`
	if res.HTML != want {
		t.Errorf("Resolve() = %q, want %q", res.HTML, want)
	}
}

func TestResolveURL(t *testing.T) {
	res := Resolve(`{{banner}}`, []models.Asset{bannerAsset()}, ModeURL, "https://sig.example.com")

	want := `<img src="https://sig.example.com/api/assets/serve?id=banner" alt="Banner">`
	if res.HTML != want {
		t.Errorf("Resolve() = %q, want %q", res.HTML, want)
	}
}

func TestResolveCID(t *testing.T) {
	res := Resolve(`{{banner}}`, []models.Asset{bannerAsset()}, ModeCID, "")

	want := `<img src="cid:banner.png" alt="Banner">`
	if res.HTML != want {
		t.Errorf("Resolve() = %q, want %q", res.HTML, want)
	}

	if len(res.Attachments) != 1 {
		t.Fatalf("expected 1 attachment, got %d", len(res.Attachments))
	}
	att := res.Attachments[0]
	if att.ID != "banner" || att.Filename != "banner.png" || att.MimeType != "image/png" {
		t.Errorf("unexpected attachment: %+v", att)
	}
	if att.Base64 != "aGVsbG8=" {
		t.Errorf("attachment base64 = %q, want raw payload without data prefix", att.Base64)
	}
}

func TestResolveCIDStripsDataPrefix(t *testing.T) {
	res := Resolve(`{{logo}}`, []models.Asset{logoAsset()}, ModeCID, "")

	if len(res.Attachments) != 1 {
		t.Fatalf("expected 1 attachment, got %d", len(res.Attachments))
	}
	if res.Attachments[0].Base64 != "c3Zn" {
		t.Errorf("attachment base64 = %q, want %q", res.Attachments[0].Base64, "c3Zn")
	}
	if res.Attachments[0].Filename != "logo.svg" {
		t.Errorf("attachment filename = %q, want logo.svg", res.Attachments[0].Filename)
	}
}

func TestResolveWithoutCustomTag(t *testing.T) {
	asset := logoAsset()
	res := Resolve(`<img src="{{logo}}" width="120">`, []models.Asset{asset}, ModeInline, "")

	// No html_tag stored: only the source value is substituted.
	want := `<img src="data:image/svg+xml;base64,c3Zn" width="120">`
	if res.HTML != want {
		t.Errorf("Resolve() = %q, want %q", res.HTML, want)
	}
}

func TestResolveSkipsUnreferencedAssets(t *testing.T) {
	res := Resolve(`no tokens here`, []models.Asset{bannerAsset(), logoAsset()}, ModeCID, "")

	if res.HTML != "no tokens here" {
		t.Errorf("content modified: %q", res.HTML)
	}
	if len(res.Attachments) != 0 {
		t.Errorf("unreferenced assets produced %d attachments", len(res.Attachments))
	}
}

func TestResolveUnknownPlaceholderLeftAsIs(t *testing.T) {
	res := Resolve(`{{missing}} and {{banner}}`, []models.Asset{bannerAsset()}, ModeInline, "")

	if !strings.Contains(res.HTML, "{{missing}}") {
		t.Errorf("unknown placeholder was modified: %q", res.HTML)
	}
	if strings.Contains(res.HTML, "{{banner}}") {
		t.Errorf("known placeholder not resolved: %q", res.HTML)
	}
}

func TestResolveDeterministicOrder(t *testing.T) {
	assets := []models.Asset{bannerAsset(), logoAsset()}
	reversed := []models.Asset{logoAsset(), bannerAsset()}

	content := `{{logo}}{{banner}}`
	first := Resolve(content, assets, ModeCID, "")
	second := Resolve(content, reversed, ModeCID, "")

	if first.HTML != second.HTML {
		t.Errorf("resolution not deterministic:\n%q\n%q", first.HTML, second.HTML)
	}
	if len(first.Attachments) != 2 || len(second.Attachments) != 2 {
		t.Fatalf("expected 2 attachments each")
	}
	for i := range first.Attachments {
		if first.Attachments[i].ID != second.Attachments[i].ID {
			t.Errorf("attachment order differs at %d: %s vs %s",
				i, first.Attachments[i].ID, second.Attachments[i].ID)
		}
	}
}
