// Package render substitutes signature template placeholders with
// directory user attributes and derives plain-text fallbacks.
package render

import (
	"regexp"
	"strings"

	"github.com/guschlbauermichael93/guschlbauer-signatures/internal/models"
)

// Placeholders is the fixed substitution table. Only these keys are
// replaced; unknown {{...}} tokens are left verbatim. The table is
// enumerated explicitly to keep the substitution set auditable.
var Placeholders = []string{
	"displayName",
	"givenName",
	"surname",
	"mail",
	"jobTitle",
	"department",
	"mobilePhone",
	"businessPhones",
	"officeLocation",
	"companyName",
}

func placeholderValue(key string, u *models.DirectoryUser) (string, bool) {
	switch key {
	case "displayName":
		return u.DisplayName, true
	case "givenName":
		return u.GivenName, true
	case "surname":
		return u.Surname, true
	case "mail":
		return u.Mail, true
	case "jobTitle":
		return u.JobTitle, true
	case "department":
		return u.Department, true
	case "mobilePhone":
		return u.MobilePhone, true
	case "businessPhones":
		if len(u.BusinessPhones) > 0 {
			return u.BusinessPhones[0], true
		}
		return "", true
	case "officeLocation":
		return u.OfficeLocation, true
	case "companyName":
		return u.CompanyName, true
	}
	return "", false
}

var (
	tokenPattern     = regexp.MustCompile(`\{\{([a-zA-Z]+)\}\}`)
	blankLinePattern = regexp.MustCompile(`(?m)^[ \t]*\r?\n`)
)

// Template replaces every occurrence of the known placeholders with the
// corresponding user attribute, empty string when the attribute is
// absent. Lines left blank by empty substitutions are removed so the
// rendered signature shows no gaps. Applying the result a second time
// is a no-op: no known tokens remain.
func Template(tmpl string, u *models.DirectoryUser) string {
	result := tokenPattern.ReplaceAllStringFunc(tmpl, func(match string) string {
		key := match[2 : len(match)-2]
		if val, ok := placeholderValue(key, u); ok {
			return val
		}
		return match
	})
	return blankLinePattern.ReplaceAllString(result, "")
}

var (
	brPattern       = regexp.MustCompile(`(?i)<br\s*/?>`)
	closePPattern   = regexp.MustCompile(`(?i)</p>`)
	closeDivPattern = regexp.MustCompile(`(?i)</div>`)
	tagPattern      = regexp.MustCompile(`<[^>]+>`)
	newlinesPattern = regexp.MustCompile(`\n{3,}`)
)

var entityReplacer = strings.NewReplacer(
	"&nbsp;", " ",
	"&amp;", "&",
	"&lt;", "<",
	"&gt;", ">",
)

// HTMLToPlainText converts rendered signature HTML to a plain-text
// fallback. Line breaks and block-closing tags become newlines, all
// other tags are stripped, common entities are decoded, and runs of
// three or more newlines collapse to exactly two. Malformed HTML never
// causes an error; unrecognized constructs are stripped or left inert.
func HTMLToPlainText(html string) string {
	text := brPattern.ReplaceAllString(html, "\n")
	text = closePPattern.ReplaceAllString(text, "\n\n")
	text = closeDivPattern.ReplaceAllString(text, "\n")
	text = tagPattern.ReplaceAllString(text, "")
	text = entityReplacer.Replace(text)
	text = newlinesPattern.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}
