package repository

import (
	"database/sql"
	"encoding/json"
	"log/slog"

	"github.com/guschlbauermichael93/guschlbauer-signatures/internal/models"
)

// AuditRepository writes the append-only audit log. Writes are
// best-effort: failures are logged and swallowed so they never block
// the operation being audited.
type AuditRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewAuditRepository(db *sql.DB, logger *slog.Logger) *AuditRepository {
	return &AuditRepository{db: db, logger: logger}
}

// Log records an admin action. details may be nil.
func (r *AuditRepository) Log(action, entityType, entityID, userEmail string, details map[string]any) {
	var detailsJSON any
	if details != nil {
		data, err := json.Marshal(details)
		if err == nil {
			detailsJSON = string(data)
		}
	}

	_, err := r.db.Exec(`
		INSERT INTO audit_log (action, entity_type, entity_id, user_email, details)
		VALUES (?, ?, ?, ?, ?)`,
		action, entityType, entityID, nullable(userEmail), detailsJSON,
	)
	if err != nil {
		r.logger.Warn("audit log write failed",
			"action", action,
			"entity_type", entityType,
			"entity_id", entityID,
			"error", err,
		)
	}
}

// Recent returns the most recent audit entries, newest first.
func (r *AuditRepository) Recent(limit int) ([]models.AuditEntry, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.db.Query(`
		SELECT id, action, entity_type, entity_id, COALESCE(user_email, ''), COALESCE(details, ''), created_at
		FROM audit_log ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []models.AuditEntry{}
	for rows.Next() {
		var e models.AuditEntry
		if err := rows.Scan(&e.ID, &e.Action, &e.EntityType, &e.EntityID, &e.UserEmail, &e.Details, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
