package config

import "testing"

func TestLoad(t *testing.T) {
	t.Run("builds_database_url_from_parts", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "")
		t.Setenv("DB_HOST", "db.internal")
		t.Setenv("DB_PORT", "6543")
		t.Setenv("DB_USER", "app")
		t.Setenv("DB_PASSWORD", "pw")
		t.Setenv("DB_NAME", "ledger")
		t.Setenv("DB_SSLMODE", "require")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := "postgres://app:pw@db.internal:6543/ledger?sslmode=require"
		if cfg.DatabaseURL != want {
			t.Errorf("expected %s, got %s", want, cfg.DatabaseURL)
		}
	})

	t.Run("database_url_wins", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "postgres://direct/db")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.DatabaseURL != "postgres://direct/db" {
			t.Errorf("expected DATABASE_URL to be used, got %s", cfg.DatabaseURL)
		}
	})

	t.Run("decimal_zero_quirk", func(t *testing.T) {
		t.Setenv("DECIMAL_ZERO_QUIRK", "true")
		cfg, _ := Load()
		if !cfg.DecimalZeroQuirk {
			t.Error("expected quirk enabled")
		}

		t.Setenv("DECIMAL_ZERO_QUIRK", "not-a-bool")
		cfg, _ = Load()
		if cfg.DecimalZeroQuirk {
			t.Error("expected invalid value to fall back to false")
		}
	})

	t.Run("defaults", func(t *testing.T) {
		t.Setenv("PORT", "")
		t.Setenv("MIGRATIONS_PATH", "")

		cfg, _ := Load()
		if cfg.Port != "8080" {
			t.Errorf("expected default port 8080, got %s", cfg.Port)
		}
		if cfg.MigrationsPath != "migrations" {
			t.Errorf("expected default migrations path, got %s", cfg.MigrationsPath)
		}
	})
}
