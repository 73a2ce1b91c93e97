package models

import "time"

// DirectoryUser is a person record sourced from the organizational
// directory. It is never persisted locally.
type DirectoryUser struct {
	ID             string   `json:"id"`
	DisplayName    string   `json:"displayName"`
	GivenName      string   `json:"givenName,omitempty"`
	Surname        string   `json:"surname,omitempty"`
	Mail           string   `json:"mail"`
	JobTitle       string   `json:"jobTitle,omitempty"`
	Department     string   `json:"department,omitempty"`
	MobilePhone    string   `json:"mobilePhone,omitempty"`
	BusinessPhones []string `json:"businessPhones,omitempty"`
	OfficeLocation string   `json:"officeLocation,omitempty"`
	CompanyName    string   `json:"companyName,omitempty"`

	// UserPrincipalName is the sign-in address. Used as a fallback when
	// the mail attribute is empty.
	UserPrincipalName string `json:"userPrincipalName,omitempty"`
}

// Email returns the best address for the user.
func (u *DirectoryUser) Email() string {
	if u.Mail != "" {
		return u.Mail
	}
	return u.UserPrincipalName
}

// Assignment maps a user email to their signature template.
// At most one assignment exists per user.
type Assignment struct {
	UserEmail  string    `json:"userEmail"`
	TemplateID string    `json:"templateId"`
	CreatedAt  time.Time `json:"createdAt"`
}
