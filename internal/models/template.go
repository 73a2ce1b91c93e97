package models

import "time"

// Template represents a signature template. HTMLReply holds the short
// variant used for replies and internal mail; it may be empty, in which
// case the full HTML is used for both variants.
type Template struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	HTML        string    `json:"htmlContent"`
	HTMLReply   string    `json:"htmlContentReply,omitempty"`
	IsDefault   bool      `json:"isDefault"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	CreatedBy   string    `json:"createdBy"`
}

// TemplateCreateInput contains fields for creating a template
type TemplateCreateInput struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	HTML        string `json:"htmlContent"`
	HTMLReply   string `json:"htmlContentReply,omitempty"`
	IsDefault   bool   `json:"isDefault,omitempty"`
}

// TemplateUpdateInput contains optional fields for updating a template.
// Nil pointers leave the stored value unchanged.
type TemplateUpdateInput struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	HTML        *string `json:"htmlContent,omitempty"`
	HTMLReply   *string `json:"htmlContentReply,omitempty"`
	IsDefault   *bool   `json:"isDefault,omitempty"`
	IsActive    *bool   `json:"isActive,omitempty"`
}
