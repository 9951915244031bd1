package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/example/footwear-wholesale/domain/product"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupLegacyDB creates a products table that predates the optional columns.
func setupLegacyDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := db.Exec(`CREATE TABLE products (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		sku TEXT,
		category TEXT,
		description TEXT,
		price INTEGER NOT NULL,
		sizes TEXT,
		colors TEXT,
		status TEXT,
		main_photo TEXT
	)`).Error; err != nil {
		t.Fatalf("failed to create legacy table: %v", err)
	}
	return db
}

func TestDetectCompat(t *testing.T) {
	t.Run("current schema", func(t *testing.T) {
		c := DetectCompat(setupTestDB(t))
		if c.Legacy() {
			t.Errorf("expected current layout, missing %v", c.Missing())
		}
	})

	t.Run("legacy schema", func(t *testing.T) {
		c := DetectCompat(setupLegacyDB(t))
		want := []string{
			"additional_photos", "comment", "gender", "is_bestseller", "is_new",
			"min_order_quantity", "pairs_per_box", "season",
		}
		got := c.Missing()
		if len(got) != len(want) {
			t.Fatalf("expected missing %v, got %v", want, got)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("missing[%d] = %q, want %q", i, got[i], want[i])
			}
		}
	})
}

func TestStore_LegacySchema(t *testing.T) {
	db := setupLegacyDB(t)
	retry := NewRetrier(1, time.Millisecond, &mockLogger{})
	store := NewStore(NewRepository(db, DetectCompat(db)), retry, nil, time.Second, &mockLogger{})
	ctx := context.Background()

	f := validFields()
	f.Season = product.SeasonWinter
	f.IsNew = true
	f.AdditionalPhotos = []string{"https://img.example/extra.jpg"}

	created, err := store.Create(ctx, f)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	t.Run("reads substitute defaults", func(t *testing.T) {
		got, err := store.Get(ctx, created.ID)
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if got.Name != f.Name || got.Price != *f.Price {
			t.Errorf("stored columns lost: %+v", got)
		}
		if got.Season != product.DefaultSeason {
			t.Errorf("expected default season, got %q", got.Season)
		}
		if got.Gender != product.DefaultGender {
			t.Errorf("expected default gender, got %q", got.Gender)
		}
		if got.MinOrderQuantity != product.DefaultMinOrderQuantity {
			t.Errorf("expected default min order quantity, got %d", got.MinOrderQuantity)
		}
		if got.PairsPerBox == nil || *got.PairsPerBox != product.DefaultPairsPerBox {
			t.Errorf("expected default pairs per box, got %v", got.PairsPerBox)
		}
		if got.IsNew || got.IsBestseller {
			t.Error("expected flags to default to false")
		}
		if got.AdditionalPhotos == nil || len(got.AdditionalPhotos) != 0 {
			t.Errorf("expected empty additional photos, got %v", got.AdditionalPhotos)
		}
	})

	t.Run("list substitutes defaults", func(t *testing.T) {
		products, err := store.List(ctx)
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if len(products) != 1 || products[0].Gender != product.DefaultGender {
			t.Errorf("unexpected list: %+v", products)
		}
	})

	t.Run("writes drop missing columns", func(t *testing.T) {
		got, err := store.Update(ctx, created.ID, &product.Patch{
			Price: product.IntPtr(3100),
			IsNew: product.BoolPtr(true),
		})
		if err != nil {
			t.Fatalf("Update() error = %v", err)
		}
		if got.Price != 3100 {
			t.Errorf("expected price 3100, got %d", got.Price)
		}
		if got.IsNew {
			t.Error("expected is_new to stay at its default")
		}
	})

	t.Run("patch of only missing columns is a no-op", func(t *testing.T) {
		got, err := store.Update(ctx, created.ID, &product.Patch{IsBestseller: product.BoolPtr(true)})
		if err != nil {
			t.Fatalf("Update() error = %v", err)
		}
		if got.Price != 3100 {
			t.Errorf("expected price 3100, got %d", got.Price)
		}
	})
}
