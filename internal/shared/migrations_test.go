package shared

import (
	"testing"
)

func TestMigrations(t *testing.T) {
	t.Run("RunMigrations", func(t *testing.T) {
		t.Run("creates the session table", func(t *testing.T) {
			db, err := NewDatabase(":memory:")
			if err != nil {
				t.Fatalf("failed to open database: %v", err)
			}
			defer db.Close()

			if err := RunMigrations(db); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			if _, err := db.Exec("INSERT INTO session_entries (name, value) VALUES ('access_token', 'tok')"); err != nil {
				t.Errorf("expected session_entries table to exist: %v", err)
			}
		})

		t.Run("is idempotent", func(t *testing.T) {
			db, err := NewDatabase(":memory:")
			if err != nil {
				t.Fatalf("failed to open database: %v", err)
			}
			defer db.Close()

			if err := RunMigrations(db); err != nil {
				t.Fatalf("first run failed: %v", err)
			}
			if err := RunMigrations(db); err != nil {
				t.Fatalf("second run failed: %v", err)
			}

			var count int
			if err := db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count); err != nil {
				t.Fatalf("failed to count migrations: %v", err)
			}
			if count == 0 {
				t.Error("expected at least one recorded migration")
			}
		})
	})

	t.Run("removeComments", func(t *testing.T) {
		t.Run("strips line comments", func(t *testing.T) {
			input := "CREATE TABLE t ( -- comment\nid INTEGER -- trailing\n)"
			got := removeComments(input)

			if got != "CREATE TABLE t (\nid INTEGER\n)" {
				t.Errorf("unexpected result: %q", got)
			}
		})

		t.Run("drops comment-only lines", func(t *testing.T) {
			input := "-- header\nSELECT 1"
			if got := removeComments(input); got != "SELECT 1" {
				t.Errorf("unexpected result: %q", got)
			}
		})
	})
}
