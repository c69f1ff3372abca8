package preprints

import (
	"testing"
	"time"

	"github.com/madrona-research/madrona/internal/models"
	"github.com/madrona-research/madrona/internal/search"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	if err := db.AutoMigrate(&models.PreprintProvider{}, &models.Preprint{}); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return db
}

func TestCreateProvider(t *testing.T) {
	db := setupTestDB(t)

	provider, err := CreateProvider(db, "arxiv", "Physics preprints")
	if err != nil {
		t.Fatalf("CreateProvider failed: %v", err)
	}
	if provider.ID == 0 {
		t.Error("Expected provider ID to be assigned")
	}

	if _, err := CreateProvider(db, "", ""); err == nil {
		t.Error("Expected error for empty provider name")
	}

	// Provider names are unique
	if _, err := CreateProvider(db, "arxiv", ""); err == nil {
		t.Error("Expected duplicate provider name to be rejected")
	}
}

func TestListProvidersSorted(t *testing.T) {
	db := setupTestDB(t)

	for _, name := range []string{"socarxiv", "arxiv", "biorxiv"} {
		if _, err := CreateProvider(db, name, ""); err != nil {
			t.Fatalf("CreateProvider failed: %v", err)
		}
	}

	providers, err := ListProviders(db)
	if err != nil {
		t.Fatalf("ListProviders failed: %v", err)
	}
	if len(providers) != 3 {
		t.Fatalf("Expected 3 providers, got %d", len(providers))
	}
	if providers[0].Name != "arxiv" || providers[2].Name != "socarxiv" {
		t.Errorf("Expected providers sorted by name, got %v", providers)
	}
}

func TestCreatePreprintStampsDateCreated(t *testing.T) {
	db := setupTestDB(t)

	provider, err := CreateProvider(db, "arxiv", "")
	if err != nil {
		t.Fatalf("CreateProvider failed: %v", err)
	}

	preprint, err := CreatePreprint(db, provider, "Neural Pruning", "")
	if err != nil {
		t.Fatalf("CreatePreprint failed: %v", err)
	}

	if preprint.GUID == "" {
		t.Error("Expected GUID to be assigned")
	}
	if preprint.DateCreated.IsZero() {
		t.Error("Expected DateCreated to be stamped")
	}
	if preprint.DatePublished != nil {
		t.Error("New preprint must be unpublished")
	}
}

func TestPublish(t *testing.T) {
	db := setupTestDB(t)
	if err := search.InitFTSIndex(db); err != nil {
		t.Skipf("Skipping test: FTS5 not available in test environment: %v", err)
	}

	provider, err := CreateProvider(db, "arxiv", "")
	if err != nil {
		t.Fatalf("CreateProvider failed: %v", err)
	}

	preprint, err := CreatePreprint(db, provider, "Neural Pruning", "Methods for pruning networks")
	if err != nil {
		t.Fatalf("CreatePreprint failed: %v", err)
	}

	if err := Publish(db, preprint); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}
	if preprint.DatePublished == nil {
		t.Fatal("Expected DatePublished to be stamped")
	}

	// Published preprints become searchable
	results, err := search.Search(db, "pruning")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 1 {
		t.Errorf("Expected 1 search result, got %d", len(results))
	}

	if err := Publish(db, preprint); err == nil {
		t.Error("Expected second publish to fail")
	}
}

func TestCountByProviderSince(t *testing.T) {
	db := setupTestDB(t)

	arxiv, err := CreateProvider(db, "arxiv", "")
	if err != nil {
		t.Fatalf("CreateProvider failed: %v", err)
	}
	biorxiv, err := CreateProvider(db, "biorxiv", "")
	if err != nil {
		t.Fatalf("CreateProvider failed: %v", err)
	}

	day := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)

	// Two arxiv preprints inside the window, one before it
	inside := []time.Time{day.Add(2 * time.Hour), day.Add(23 * time.Hour)}
	for i, ts := range inside {
		p := models.Preprint{GUID: string(rune('a' + i)), Title: "In window", ProviderID: arxiv.ID, DateCreated: ts}
		if err := db.Create(&p).Error; err != nil {
			t.Fatalf("Failed to create preprint: %v", err)
		}
	}
	before := models.Preprint{GUID: "before", Title: "Too early", ProviderID: arxiv.ID, DateCreated: day.Add(-time.Hour)}
	if err := db.Create(&before).Error; err != nil {
		t.Fatalf("Failed to create preprint: %v", err)
	}
	other := models.Preprint{GUID: "other", Title: "Other provider", ProviderID: biorxiv.ID, DateCreated: day.Add(time.Hour)}
	if err := db.Create(&other).Error; err != nil {
		t.Fatalf("Failed to create preprint: %v", err)
	}

	count, err := CountByProviderSince(db, arxiv, day, day.AddDate(0, 0, 1))
	if err != nil {
		t.Fatalf("CountByProviderSince failed: %v", err)
	}
	if count != 2 {
		t.Errorf("Expected 2 preprints in window, got %d", count)
	}
}
