package database

import (
	"context"
	"embed"
	"testing"
)

//go:embed testdata/*.sql
var fixtureFS embed.FS

// useFixtureMigrations points the package-level migration source at the
// testdata fixtures for the duration of one test.
func useFixtureMigrations(t *testing.T) {
	t.Helper()

	origFS, origDir := MigrationsFS, MigrationsDir
	t.Cleanup(func() {
		MigrationsFS = origFS
		MigrationsDir = origDir
	})
	MigrationsFS = fixtureFS
	MigrationsDir = "testdata"
}

func TestMigrate(t *testing.T) {
	useFixtureMigrations(t)
	db := openTestDB(t)
	ctx := context.Background()

	if err := db.Migrate(ctx); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}

	// The fixture table must exist afterwards
	var tableName string
	err := db.QueryRowContext(ctx,
		"SELECT name FROM sqlite_master WHERE type='table' AND name='import_audit'",
	).Scan(&tableName)
	if err != nil {
		t.Fatalf("table import_audit not created: %v", err)
	}

	applied, pending, err := db.GetMigrationStatus(ctx)
	if err != nil {
		t.Fatalf("GetMigrationStatus() error = %v", err)
	}
	if len(applied) != 1 || len(pending) != 0 {
		t.Errorf("status = %d applied / %d pending, want 1/0", len(applied), len(pending))
	}

	// A second run has nothing to do and must not fail
	if err := db.Migrate(ctx); err != nil {
		t.Fatalf("second Migrate() error = %v", err)
	}
}

func TestMigrateDown(t *testing.T) {
	useFixtureMigrations(t)
	db := openTestDB(t)
	ctx := context.Background()

	if err := db.Migrate(ctx); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	if err := db.MigrateDown(ctx); err != nil {
		t.Fatalf("MigrateDown() error = %v", err)
	}

	var count int
	err := db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='import_audit'",
	).Scan(&count)
	if err != nil {
		t.Fatalf("query error: %v", err)
	}
	if count != 0 {
		t.Error("table import_audit should have been dropped")
	}

	applied, _, err := db.GetMigrationStatus(ctx)
	if err != nil {
		t.Fatalf("GetMigrationStatus() error = %v", err)
	}
	if len(applied) != 0 {
		t.Errorf("expected 0 applied migrations after rollback, got %d", len(applied))
	}
}

func TestMigrate_NoMigrations(t *testing.T) {
	origFS, origDir := MigrationsFS, MigrationsDir
	t.Cleanup(func() {
		MigrationsFS = origFS
		MigrationsDir = origDir
	})
	MigrationsFS = embed.FS{}
	MigrationsDir = "."

	db := openTestDB(t)
	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate() with no migrations error = %v", err)
	}
}

func TestGetMigrationStatus_Pending(t *testing.T) {
	useFixtureMigrations(t)
	db := openTestDB(t)
	ctx := context.Background()

	if err := db.createMigrationsTable(ctx); err != nil {
		t.Fatalf("createMigrationsTable() error = %v", err)
	}

	applied, pending, err := db.GetMigrationStatus(ctx)
	if err != nil {
		t.Fatalf("GetMigrationStatus() error = %v", err)
	}
	if len(applied) != 0 || len(pending) != 1 {
		t.Errorf("status = %d applied / %d pending, want 0/1", len(applied), len(pending))
	}
	if pending[0].Name != "import_audit" {
		t.Errorf("pending[0].Name = %q, want import_audit", pending[0].Name)
	}
}

func TestSplitMigrationFile(t *testing.T) {
	tests := []struct {
		filename    string
		wantVersion string
		wantName    string
		wantIsUp    bool
		wantOk      bool
	}{
		{"20260301_120000_calibration_snapshots.up.sql", "20260301_120000", "calibration_snapshots", true, true},
		{"20260301_120000_calibration_snapshots.down.sql", "20260301_120000", "calibration_snapshots", false, true},
		{"20260401_090000_import_audit.up.sql", "20260401_090000", "import_audit", true, true},
		{"readme.txt", "", "", false, false},
		{"20260301_120000_missing_direction.sql", "", "", false, false},
		{"noversion.up.sql", "", "", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			version, name, isUp, ok := splitMigrationFile(tt.filename)
			if ok != tt.wantOk {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOk)
			}
			if !ok {
				return
			}
			if version != tt.wantVersion || name != tt.wantName || isUp != tt.wantIsUp {
				t.Errorf("splitMigrationFile(%q) = %q/%q/%v, want %q/%q/%v",
					tt.filename, version, name, isUp, tt.wantVersion, tt.wantName, tt.wantIsUp)
			}
		})
	}
}
