package shared

import (
	"database/sql"
	"testing"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("NewDatabase: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func tableExists(t *testing.T, db *sql.DB, name string) bool {
	t.Helper()
	var found string
	err := db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name = ?", name).Scan(&found)
	if err == sql.ErrNoRows {
		return false
	}
	if err != nil {
		t.Fatalf("checking table %s: %v", name, err)
	}
	return true
}

func TestMigrations(t *testing.T) {
	t.Run("loadMigrations", func(t *testing.T) {
		migrations, err := loadMigrations()
		if err != nil {
			t.Fatalf("loadMigrations: %v", err)
		}
		if len(migrations) == 0 {
			t.Fatal("expected at least one migration")
		}
		for _, m := range migrations {
			if m.Up == "" || m.Down == "" {
				t.Errorf("migration %d missing up or down SQL", m.Version)
			}
		}
	})

	t.Run("RunMigrations creates schema", func(t *testing.T) {
		db := newTestDB(t)

		if err := RunMigrations(db); err != nil {
			t.Fatalf("RunMigrations: %v", err)
		}

		if !tableExists(t, db, "schema_migrations") {
			t.Error("schema_migrations table missing")
		}
		if !tableExists(t, db, "resolutions") {
			t.Error("resolutions table missing")
		}
	})

	t.Run("RunMigrations is idempotent", func(t *testing.T) {
		db := newTestDB(t)

		if err := RunMigrations(db); err != nil {
			t.Fatalf("first run: %v", err)
		}
		if err := RunMigrations(db); err != nil {
			t.Fatalf("second run: %v", err)
		}

		var count int
		if err := db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count); err != nil {
			t.Fatal(err)
		}

		migrations, _ := loadMigrations()
		if count != len(migrations) {
			t.Errorf("applied %d migrations, want %d", count, len(migrations))
		}
	})

	t.Run("RollbackMigration drops schema", func(t *testing.T) {
		db := newTestDB(t)

		if err := RunMigrations(db); err != nil {
			t.Fatalf("RunMigrations: %v", err)
		}
		if err := RollbackMigration(db); err != nil {
			t.Fatalf("RollbackMigration: %v", err)
		}

		if tableExists(t, db, "resolutions") {
			t.Error("resolutions table should have been dropped")
		}
	})

	t.Run("RollbackMigration with nothing applied", func(t *testing.T) {
		db := newTestDB(t)
		if err := createMigrationsTable(db); err != nil {
			t.Fatal(err)
		}

		if err := RollbackMigration(db); err == nil {
			t.Error("expected error with no applied migrations")
		}
	})
}
