package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/guschlbauermichael93/guschlbauer-signatures/internal/models"
)

type AssignmentRepository struct {
	db *sql.DB
}

func NewAssignmentRepository(db *sql.DB) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

// Assign sets the template for a user, replacing any prior assignment.
func (r *AssignmentRepository) Assign(userEmail, templateID string) error {
	_, err := r.db.Exec(`
		INSERT OR REPLACE INTO user_templates (user_email, template_id, created_at)
		VALUES (?, ?, ?)`,
		userEmail, templateID, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to assign template: %w", err)
	}
	return nil
}

// Get returns the assignment for a user.
func (r *AssignmentRepository) Get(userEmail string) (*models.Assignment, error) {
	a := &models.Assignment{}
	err := r.db.QueryRow(`
		SELECT user_email, template_id, created_at FROM user_templates
		WHERE user_email = ?`, userEmail,
	).Scan(&a.UserEmail, &a.TemplateID, &a.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

// List returns all assignments.
func (r *AssignmentRepository) List() ([]models.Assignment, error) {
	rows, err := r.db.Query("SELECT user_email, template_id, created_at FROM user_templates")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	assignments := []models.Assignment{}
	for rows.Next() {
		var a models.Assignment
		if err := rows.Scan(&a.UserEmail, &a.TemplateID, &a.CreatedAt); err != nil {
			return nil, err
		}
		assignments = append(assignments, a)
	}
	return assignments, rows.Err()
}

// Count returns the number of users with an explicit assignment.
func (r *AssignmentRepository) Count() (int, error) {
	var n int
	err := r.db.QueryRow("SELECT COUNT(*) FROM user_templates").Scan(&n)
	return n, err
}
