package db

import "fmt"

// Seed inserts the default template and the primary logo asset when the
// database is empty. Safe to call on every startup.
func (db *DB) Seed(companyName string) error {
	var exists int
	err := db.QueryRow("SELECT COUNT(*) FROM templates WHERE id = 'default'").Scan(&exists)
	if err != nil {
		return fmt.Errorf("seed check failed: %w", err)
	}
	if exists > 0 {
		return nil
	}

	_, err = db.Exec(`
		INSERT INTO templates (id, name, description, html_content, html_content_reply, is_default, is_active, created_by)
		VALUES ('default', 'Standard Signature', ?, ?, ?, 1, 1, 'system')`,
		"Official "+companyName+" signature with logo",
		defaultTemplateHTML, defaultReplyTemplateHTML,
	)
	if err != nil {
		return fmt.Errorf("failed to seed default template: %w", err)
	}

	_, err = db.Exec(`
		INSERT INTO assets (id, name, mime_type, base64_data, width, height)
		VALUES ('logo', ?, 'image/svg+xml', ?, 120, 60)`,
		companyName+" Logo", placeholderLogo,
	)
	if err != nil {
		return fmt.Errorf("failed to seed logo asset: %w", err)
	}

	return nil
}

const defaultTemplateHTML = `<table cellpadding="0" cellspacing="0" border="0" style="font-family: Arial, sans-serif; font-size: 14px; color: #333333;">
  <tr>
    <td style="padding-right: 15px; border-right: 2px solid #ed751d; vertical-align: top;">
      <img src="{{logo}}" alt="{{companyName}}" width="120" style="display: block;" />
    </td>
    <td style="padding-left: 15px; vertical-align: top;">
      <p style="margin: 0 0 5px 0; font-weight: bold; font-size: 16px; color: #1a1a1a;">
        {{displayName}}
      </p>
      <p style="margin: 0 0 10px 0; color: #ed751d; font-size: 13px;">
        {{jobTitle}}
      </p>
      <p style="margin: 0; font-size: 13px; line-height: 1.6;">
        <strong>{{companyName}}</strong><br />
        {{officeLocation}}<br />
        Tel: {{businessPhones}}<br />
        Mobil: {{mobilePhone}}<br />
        E-Mail: {{mail}}
      </p>
    </td>
  </tr>
</table>`

const defaultReplyTemplateHTML = `<p style="font-family: Arial, sans-serif; font-size: 14px; color: #333333; margin: 0;">
  Freundliche Gr&uuml;&szlig;e<br />
  <strong>{{displayName}}</strong>
</p>`

const placeholderLogo = "data:image/svg+xml;base64,PHN2ZyB3aWR0aD0iMTIwIiBoZWlnaHQ9IjYwIiB2aWV3Qm94PSIwIDAgMTIwIDYwIiB4bWxucz0iaHR0cDovL3d3dy53My5vcmcvMjAwMC9zdmciPjxyZWN0IHdpZHRoPSIxMjAiIGhlaWdodD0iNjAiIGZpbGw9IiNlZDc1MWQiIHJ4PSI4Ii8+PC9zdmc+"
