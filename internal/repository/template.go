package repository

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/guschlbauermichael93/guschlbauer-signatures/internal/models"
)

type TemplateRepository struct {
	db *sql.DB
}

func NewTemplateRepository(db *sql.DB) *TemplateRepository {
	return &TemplateRepository{db: db}
}

const templateColumns = `id, name, COALESCE(description, ''), html_content, COALESCE(html_content_reply, ''), is_default, is_active, created_at, updated_at, COALESCE(created_by, '')`

func scanTemplate(row interface{ Scan(...any) error }) (*models.Template, error) {
	t := &models.Template{}
	var isDefault, isActive int
	err := row.Scan(&t.ID, &t.Name, &t.Description, &t.HTML, &t.HTMLReply,
		&isDefault, &isActive, &t.CreatedAt, &t.UpdatedAt, &t.CreatedBy)
	if err != nil {
		return nil, err
	}
	t.IsDefault = isDefault == 1
	t.IsActive = isActive == 1
	return t, nil
}

// Create creates a new template. Setting IsDefault clears the flag on
// all previously-default templates so exactly one default remains.
func (r *TemplateRepository) Create(input *models.TemplateCreateInput, createdBy string) (*models.Template, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	if input.IsDefault {
		if _, err := r.db.Exec("UPDATE templates SET is_default = 0"); err != nil {
			return nil, fmt.Errorf("failed to clear default templates: %w", err)
		}
	}

	isDefault := 0
	if input.IsDefault {
		isDefault = 1
	}

	_, err := r.db.Exec(`
		INSERT INTO templates (id, name, description, html_content, html_content_reply, is_default, is_active, created_at, updated_at, created_by)
		VALUES (?, ?, ?, ?, ?, ?, 1, ?, ?, ?)`,
		id, input.Name, input.Description, input.HTML, input.HTMLReply, isDefault, now, now, createdBy,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create template: %w", err)
	}

	return r.GetByID(id)
}

// GetByID returns a template by ID
func (r *TemplateRepository) GetByID(id string) (*models.Template, error) {
	row := r.db.QueryRow("SELECT "+templateColumns+" FROM templates WHERE id = ?", id)
	t, err := scanTemplate(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

// List returns all active templates, default first.
func (r *TemplateRepository) List() ([]models.Template, error) {
	rows, err := r.db.Query("SELECT " + templateColumns + ` FROM templates
		WHERE is_active = 1 ORDER BY is_default DESC, name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	templates := []models.Template{}
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, err
		}
		templates = append(templates, *t)
	}
	return templates, rows.Err()
}

// GetDefault returns the current default template, or the first active
// template when no explicit default is set.
func (r *TemplateRepository) GetDefault() (*models.Template, error) {
	row := r.db.QueryRow("SELECT " + templateColumns + ` FROM templates
		WHERE is_active = 1 ORDER BY is_default DESC LIMIT 1`)
	t, err := scanTemplate(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

// GetForUser resolves the user's effective template: their assignment
// when one exists and points at an active template, the default
// template otherwise.
func (r *TemplateRepository) GetForUser(userEmail string) (*models.Template, error) {
	row := r.db.QueryRow(`
		SELECT `+prefixedTemplateColumns("t")+` FROM templates t
		JOIN user_templates ut ON t.id = ut.template_id
		WHERE ut.user_email = ? AND t.is_active = 1`, userEmail)

	t, err := scanTemplate(row)
	if err == nil {
		return t, nil
	}
	if err != sql.ErrNoRows {
		return nil, err
	}
	return r.GetDefault()
}

// Update applies the non-nil fields of input. Setting IsDefault clears
// all other defaults first.
func (r *TemplateRepository) Update(id string, input *models.TemplateUpdateInput) (*models.Template, error) {
	if _, err := r.GetByID(id); err != nil {
		return nil, err
	}

	if input.IsDefault != nil && *input.IsDefault {
		if _, err := r.db.Exec("UPDATE templates SET is_default = 0"); err != nil {
			return nil, fmt.Errorf("failed to clear default templates: %w", err)
		}
	}

	sets := []string{"updated_at = ?"}
	args := []any{time.Now().UTC()}

	if input.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *input.Name)
	}
	if input.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, *input.Description)
	}
	if input.HTML != nil {
		sets = append(sets, "html_content = ?")
		args = append(args, *input.HTML)
	}
	if input.HTMLReply != nil {
		sets = append(sets, "html_content_reply = ?")
		args = append(args, *input.HTMLReply)
	}
	if input.IsDefault != nil {
		sets = append(sets, "is_default = ?")
		args = append(args, boolToInt(*input.IsDefault))
	}
	if input.IsActive != nil {
		sets = append(sets, "is_active = ?")
		args = append(args, boolToInt(*input.IsActive))
	}

	args = append(args, id)
	query := "UPDATE templates SET " + strings.Join(sets, ", ") + " WHERE id = ?"
	if _, err := r.db.Exec(query, args...); err != nil {
		return nil, fmt.Errorf("failed to update template: %w", err)
	}

	return r.GetByID(id)
}

// Delete soft-deletes a template. The default template is protected.
func (r *TemplateRepository) Delete(id string) error {
	t, err := r.GetByID(id)
	if err != nil {
		return err
	}
	if t.IsDefault {
		return fmt.Errorf("cannot delete default template: %w", ErrProtected)
	}

	_, err = r.db.Exec(
		"UPDATE templates SET is_active = 0, updated_at = ? WHERE id = ?",
		time.Now().UTC(), id,
	)
	return err
}

// Count returns the number of active templates.
func (r *TemplateRepository) Count() (int, error) {
	var n int
	err := r.db.QueryRow("SELECT COUNT(*) FROM templates WHERE is_active = 1").Scan(&n)
	return n, err
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func prefixedTemplateColumns(alias string) string {
	return alias + ".id, " + alias + ".name, COALESCE(" + alias + ".description, ''), " +
		alias + ".html_content, COALESCE(" + alias + ".html_content_reply, ''), " +
		alias + ".is_default, " + alias + ".is_active, " +
		alias + ".created_at, " + alias + ".updated_at, COALESCE(" + alias + ".created_by, '')"
}
