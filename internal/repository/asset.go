package repository

import (
	"database/sql"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"

	"github.com/guschlbauermichael93/guschlbauer-signatures/internal/models"
)

// User-supplied asset ids double as template placeholder names.
var assetIDPattern = regexp.MustCompile(`^[a-z0-9-]+$`)

type AssetRepository struct {
	db *sql.DB
}

func NewAssetRepository(db *sql.DB) *AssetRepository {
	return &AssetRepository{db: db}
}

const assetColumns = `id, name, mime_type, base64_data, COALESCE(width, 0), COALESCE(height, 0), COALESCE(html_tag, ''), created_at`

func scanAsset(row interface{ Scan(...any) error }) (*models.Asset, error) {
	a := &models.Asset{}
	err := row.Scan(&a.ID, &a.Name, &a.MimeType, &a.Base64,
		&a.Width, &a.Height, &a.HTMLTag, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// Create stores a new asset. When customID is empty a uuid is
// generated; otherwise it must be lowercase alphanumeric plus hyphens
// and not already taken.
func (r *AssetRepository) Create(name, mimeType, base64Data, customID, htmlTag string) (*models.Asset, error) {
	id := customID
	if id == "" {
		id = uuid.New().String()
	} else {
		if !assetIDPattern.MatchString(id) {
			return nil, fmt.Errorf("asset id %q: %w", id, ErrInvalidID)
		}
		if _, err := r.GetByID(id); err == nil {
			return nil, fmt.Errorf("asset id %q: %w", id, ErrDuplicateID)
		}
	}

	_, err := r.db.Exec(`
		INSERT INTO assets (id, name, mime_type, base64_data, html_tag, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		id, name, mimeType, base64Data, nullable(htmlTag), time.Now().UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create asset: %w", err)
	}

	return r.GetByID(id)
}

// GetByID returns an asset by ID
func (r *AssetRepository) GetByID(id string) (*models.Asset, error) {
	row := r.db.QueryRow("SELECT "+assetColumns+" FROM assets WHERE id = ?", id)
	a, err := scanAsset(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

// List returns all assets, newest first.
func (r *AssetRepository) List() ([]models.Asset, error) {
	rows, err := r.db.Query("SELECT " + assetColumns + " FROM assets ORDER BY created_at DESC, id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	assets := []models.Asset{}
	for rows.Next() {
		a, err := scanAsset(rows)
		if err != nil {
			return nil, err
		}
		assets = append(assets, *a)
	}
	return assets, rows.Err()
}

// ReplaceData replaces the binary content (and optionally mime type) of
// an existing asset.
func (r *AssetRepository) ReplaceData(id, base64Data, mimeType string) (*models.Asset, error) {
	if _, err := r.GetByID(id); err != nil {
		return nil, err
	}

	var err error
	if mimeType != "" {
		_, err = r.db.Exec("UPDATE assets SET base64_data = ?, mime_type = ? WHERE id = ?", base64Data, mimeType, id)
	} else {
		_, err = r.db.Exec("UPDATE assets SET base64_data = ? WHERE id = ?", base64Data, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update asset: %w", err)
	}

	return r.GetByID(id)
}

// UpdateMeta updates asset metadata. Nil pointers leave values unchanged.
func (r *AssetRepository) UpdateMeta(id string, name, htmlTag *string) (*models.Asset, error) {
	if _, err := r.GetByID(id); err != nil {
		return nil, err
	}

	if name != nil {
		if _, err := r.db.Exec("UPDATE assets SET name = ? WHERE id = ?", *name, id); err != nil {
			return nil, err
		}
	}
	if htmlTag != nil {
		if _, err := r.db.Exec("UPDATE assets SET html_tag = ? WHERE id = ?", nullable(*htmlTag), id); err != nil {
			return nil, err
		}
	}

	return r.GetByID(id)
}

// Delete removes an asset. The primary logo asset is protected.
func (r *AssetRepository) Delete(id string) error {
	if id == models.PrimaryAssetID {
		return fmt.Errorf("cannot delete primary asset: %w", ErrProtected)
	}

	res, err := r.db.Exec("DELETE FROM assets WHERE id = ?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Count returns the number of stored assets.
func (r *AssetRepository) Count() (int, error) {
	var n int
	err := r.db.QueryRow("SELECT COUNT(*) FROM assets").Scan(&n)
	return n, err
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
