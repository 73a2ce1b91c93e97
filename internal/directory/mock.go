package directory

import (
	"context"
	"sort"
	"strings"

	"github.com/guschlbauermichael93/guschlbauer-signatures/internal/models"
)

// MockDirectory serves a fixed set of users for development and tests.
// Unknown addresses get a profile synthesized from the address itself,
// so any login works against a dev instance.
type MockDirectory struct {
	companyName string
	users       map[string]*models.DirectoryUser
}

func NewMockDirectory(companyName string) *MockDirectory {
	m := &MockDirectory{
		companyName: companyName,
		users:       make(map[string]*models.DirectoryUser),
	}
	for _, u := range mockFixtures(companyName) {
		m.users[strings.ToLower(u.Mail)] = u
	}
	return m
}

// AddUser registers an extra fixture. Test helper.
func (m *MockDirectory) AddUser(u *models.DirectoryUser) {
	m.users[strings.ToLower(u.Mail)] = u
}

func (m *MockDirectory) GetUser(_ context.Context, email string) (*models.DirectoryUser, error) {
	if u, ok := m.users[strings.ToLower(email)]; ok {
		copied := *u
		return &copied, nil
	}
	return SynthesizeUser(email, m.companyName), nil
}

func (m *MockDirectory) ListUsers(_ context.Context) ([]*models.DirectoryUser, error) {
	users := make([]*models.DirectoryUser, 0, len(m.users))
	for _, u := range m.users {
		copied := *u
		users = append(users, &copied)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Mail < users[j].Mail })
	return users, nil
}

func mockFixtures(companyName string) []*models.DirectoryUser {
	return []*models.DirectoryUser{
		{
			ID:                "mock-1",
			DisplayName:       "Max Mustermann",
			GivenName:         "Max",
			Surname:           "Mustermann",
			JobTitle:          "Vertriebsleiter",
			Mail:              "max.mustermann@guschlbauer.at",
			MobilePhone:       "+43 664 1234567",
			BusinessPhones:    []string{"+43 7248 62222-10"},
			OfficeLocation:    "Pichl bei Wels",
			Department:        "Vertrieb",
			CompanyName:       companyName,
			UserPrincipalName: "max.mustermann@guschlbauer.at",
		},
		{
			ID:                "mock-2",
			DisplayName:       "Anna Huber",
			GivenName:         "Anna",
			Surname:           "Huber",
			JobTitle:          "Leitung Qualitätsmanagement",
			Mail:              "anna.huber@guschlbauer.at",
			BusinessPhones:    []string{"+43 7248 62222-31"},
			OfficeLocation:    "Pichl bei Wels",
			Department:        "Qualitätsmanagement",
			CompanyName:       companyName,
			UserPrincipalName: "anna.huber@guschlbauer.at",
		},
		{
			ID:                "mock-3",
			DisplayName:       "Josef Gruber",
			GivenName:         "Josef",
			Surname:           "Gruber",
			JobTitle:          "IT-Administrator",
			Mail:              "josef.gruber@guschlbauer.at",
			MobilePhone:       "+43 664 7654321",
			BusinessPhones:    []string{"+43 7248 62222-50"},
			OfficeLocation:    "Pichl bei Wels",
			Department:        "IT",
			CompanyName:       companyName,
			UserPrincipalName: "josef.gruber@guschlbauer.at",
		},
	}
}
