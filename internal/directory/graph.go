package directory

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/guschlbauermichael93/guschlbauer-signatures/internal/config"
	"github.com/guschlbauermichael93/guschlbauer-signatures/internal/models"
)

const (
	graphBaseURL = "https://graph.microsoft.com/v1.0"
	loginBaseURL = "https://login.microsoftonline.com"

	// userSelect limits the projection to the fields signatures actually use.
	userSelect = "id,displayName,givenName,surname,jobTitle,mail,mobilePhone,businessPhones,officeLocation,department,companyName,userPrincipalName"
)

// GraphDirectory resolves users against Microsoft Graph using
// client-credential tokens. Tokens are cached until shortly before expiry.
type GraphDirectory struct {
	tenantID     string
	clientID     string
	clientSecret string
	client       *http.Client
	logger       *slog.Logger

	// Overridable in tests.
	graphURL string
	loginURL string

	mu          sync.Mutex
	token       string
	tokenExpiry time.Time
}

func NewGraphDirectory(cfg config.DirectoryConfig, logger *slog.Logger) *GraphDirectory {
	return &GraphDirectory{
		tenantID:     cfg.TenantID,
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		client:       &http.Client{Timeout: 15 * time.Second},
		logger:       logger,
		graphURL:     graphBaseURL,
		loginURL:     loginBaseURL,
	}
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

type graphUser struct {
	ID                string   `json:"id"`
	DisplayName       string   `json:"displayName"`
	GivenName         string   `json:"givenName"`
	Surname           string   `json:"surname"`
	JobTitle          string   `json:"jobTitle"`
	Mail              string   `json:"mail"`
	MobilePhone       string   `json:"mobilePhone"`
	BusinessPhones    []string `json:"businessPhones"`
	OfficeLocation    string   `json:"officeLocation"`
	Department        string   `json:"department"`
	CompanyName       string   `json:"companyName"`
	UserPrincipalName string   `json:"userPrincipalName"`
}

type graphUserList struct {
	Value    []graphUser `json:"value"`
	NextLink string      `json:"@odata.nextLink"`
}

func (g *GraphDirectory) accessToken(ctx context.Context) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.token != "" && time.Now().Before(g.tokenExpiry) {
		return g.token, nil
	}

	form := url.Values{
		"grant_type":    {"client_credentials"},
		"client_id":     {g.clientID},
		"client_secret": {g.clientSecret},
		"scope":         {"https://graph.microsoft.com/.default"},
	}

	endpoint := fmt.Sprintf("%s/%s/oauth2/v2.0/token", g.loginURL, g.tenantID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("%w: token request failed with status %d: %s", ErrUnavailable, resp.StatusCode, body)
	}

	var tok tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tok); err != nil {
		return "", fmt.Errorf("%w: decode token response: %v", ErrUnavailable, err)
	}

	g.token = tok.AccessToken
	// Refresh a minute early so in-flight requests never carry a stale token.
	g.tokenExpiry = time.Now().Add(time.Duration(tok.ExpiresIn-60) * time.Second)

	return g.token, nil
}

func (g *GraphDirectory) get(ctx context.Context, rawURL string, out any) error {
	token, err := g.accessToken(ctx)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrUserNotFound
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("%w: graph returned status %d: %s", ErrUnavailable, resp.StatusCode, body)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

func (g *GraphDirectory) GetUser(ctx context.Context, email string) (*models.DirectoryUser, error) {
	var gu graphUser
	endpoint := fmt.Sprintf("%s/users/%s?$select=%s", g.graphURL, url.PathEscape(email), userSelect)
	if err := g.get(ctx, endpoint, &gu); err != nil {
		return nil, err
	}
	return gu.toModel(), nil
}

func (g *GraphDirectory) ListUsers(ctx context.Context) ([]*models.DirectoryUser, error) {
	var users []*models.DirectoryUser

	next := fmt.Sprintf("%s/users?$select=%s&$top=999", g.graphURL, userSelect)
	for next != "" {
		var page graphUserList
		if err := g.get(ctx, next, &page); err != nil {
			return nil, err
		}
		for _, gu := range page.Value {
			if gu.Mail == "" {
				continue
			}
			users = append(users, gu.toModel())
		}
		next = page.NextLink
	}

	g.logger.Debug("directory listing complete", "users", len(users))
	return users, nil
}

func (gu graphUser) toModel() *models.DirectoryUser {
	return &models.DirectoryUser{
		ID:                gu.ID,
		DisplayName:       gu.DisplayName,
		GivenName:         gu.GivenName,
		Surname:           gu.Surname,
		JobTitle:          gu.JobTitle,
		Mail:              gu.Mail,
		MobilePhone:       gu.MobilePhone,
		BusinessPhones:    gu.BusinessPhones,
		OfficeLocation:    gu.OfficeLocation,
		Department:        gu.Department,
		CompanyName:       gu.CompanyName,
		UserPrincipalName: gu.UserPrincipalName,
	}
}
