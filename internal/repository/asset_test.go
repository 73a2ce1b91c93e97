package repository

import (
	"errors"
	"testing"
)

func TestAssetCreateWithGeneratedID(t *testing.T) {
	repo := NewAssetRepository(setupTestDB(t))

	created, err := repo.Create("Banner", "image/png", "aGVsbG8=", "", "")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.ID == "" {
		t.Fatal("expected generated id")
	}

	got, err := repo.GetByID(created.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Name != "Banner" || got.MimeType != "image/png" {
		t.Errorf("unexpected asset: %+v", got)
	}
}

func TestAssetCreateWithCustomID(t *testing.T) {
	repo := NewAssetRepository(setupTestDB(t))

	created, err := repo.Create("Banner", "image/png", "aGVsbG8=", "header-banner", `<img src="{{src}}">`)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.ID != "header-banner" {
		t.Errorf("id = %q", created.ID)
	}
	if created.HTMLTag != `<img src="{{src}}">` {
		t.Errorf("html_tag = %q", created.HTMLTag)
	}
}

func TestAssetCreateInvalidCustomID(t *testing.T) {
	repo := NewAssetRepository(setupTestDB(t))

	for _, id := range []string{"Has Upper", "under_score", "umlaut-ä", "spa ce"} {
		_, err := repo.Create("X", "image/png", "x", id, "")
		if !errors.Is(err, ErrInvalidID) {
			t.Errorf("Create(%q): expected ErrInvalidID, got %v", id, err)
		}
	}
}

func TestAssetCreateDuplicateCustomID(t *testing.T) {
	repo := NewAssetRepository(setupTestDB(t))

	if _, err := repo.Create("X", "image/png", "x", "banner", ""); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	_, err := repo.Create("Y", "image/png", "y", "banner", "")
	if !errors.Is(err, ErrDuplicateID) {
		t.Errorf("expected ErrDuplicateID, got %v", err)
	}
}

func TestAssetDeleteLogoProtected(t *testing.T) {
	repo := NewAssetRepository(setupTestDB(t))

	err := repo.Delete("logo")
	if !errors.Is(err, ErrProtected) {
		t.Errorf("expected ErrProtected, got %v", err)
	}

	// Logo must still be there.
	if _, err := repo.GetByID("logo"); err != nil {
		t.Errorf("logo missing after protected delete: %v", err)
	}
}

func TestAssetDeleteHard(t *testing.T) {
	repo := NewAssetRepository(setupTestDB(t))

	created, err := repo.Create("Banner", "image/png", "x", "banner", "")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := repo.Delete(created.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := repo.GetByID(created.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}

	if err := repo.Delete(created.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestAssetReplaceData(t *testing.T) {
	repo := NewAssetRepository(setupTestDB(t))

	updated, err := repo.ReplaceData("logo", "bmV3", "image/png")
	if err != nil {
		t.Fatalf("ReplaceData failed: %v", err)
	}
	if updated.Base64 != "bmV3" || updated.MimeType != "image/png" {
		t.Errorf("unexpected asset after replace: %+v", updated)
	}
}

func TestAssetUpdateMeta(t *testing.T) {
	repo := NewAssetRepository(setupTestDB(t))

	name := "Renamed Logo"
	tag := `<img src="{{src}}" height="40">`
	updated, err := repo.UpdateMeta("logo", &name, &tag)
	if err != nil {
		t.Fatalf("UpdateMeta failed: %v", err)
	}
	if updated.Name != name || updated.HTMLTag != tag {
		t.Errorf("unexpected asset after meta update: %+v", updated)
	}
}
