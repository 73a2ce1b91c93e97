package directory

import (
	"context"
	"errors"
	"strings"

	"github.com/guschlbauermichael93/guschlbauer-signatures/internal/models"
)

var (
	// ErrUserNotFound is returned when the directory has no entry for an address.
	ErrUserNotFound = errors.New("user not found in directory")
	// ErrUnavailable is returned when the directory backend cannot be reached.
	ErrUnavailable = errors.New("directory unavailable")
)

// Directory resolves email addresses to profile data used for rendering.
type Directory interface {
	GetUser(ctx context.Context, email string) (*models.DirectoryUser, error)
	ListUsers(ctx context.Context) ([]*models.DirectoryUser, error)
}

// SynthesizeUser builds a minimal profile from nothing but the address.
// "max.mustermann@..." becomes "Max Mustermann". Used when the directory
// is unreachable or has no entry, so a signature can still be produced.
func SynthesizeUser(email, companyName string) *models.DirectoryUser {
	local := email
	if i := strings.Index(email, "@"); i >= 0 {
		local = email[:i]
	}

	parts := strings.Split(local, ".")
	for i, p := range parts {
		parts[i] = capitalize(p)
	}

	u := &models.DirectoryUser{
		ID:                email,
		DisplayName:       strings.Join(parts, " "),
		Mail:              email,
		UserPrincipalName: email,
		CompanyName:       companyName,
	}
	if len(parts) > 0 {
		u.GivenName = parts[0]
	}
	if len(parts) > 1 {
		u.Surname = strings.Join(parts[1:], " ")
	}
	return u
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
