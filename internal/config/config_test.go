package config

import (
	"path/filepath"
	"testing"
)

func TestNewFromEnv(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		t.Setenv("ZENITH_DATA_PATH", "")
		t.Setenv("METRICS_DB_PATH", "")
		t.Setenv("HOME", t.TempDir())

		cfg, err := NewFromEnv()
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if filepath.Base(cfg.DataPath) != ".zenith-planner" {
			t.Errorf("Expected default data path under home, got %s", cfg.DataPath)
		}
		if cfg.MetricsDBPath != filepath.Join(cfg.DataPath, "metrics.db") {
			t.Errorf("Expected metrics db under data path, got %s", cfg.MetricsDBPath)
		}
		if cfg.GeminiAPIKey != "" {
			t.Errorf("Expected empty API key, got %q", cfg.GeminiAPIKey)
		}
	})

	t.Run("Overrides", func(t *testing.T) {
		t.Setenv("ZENITH_DATA_PATH", "/tmp/plans")
		t.Setenv("METRICS_DB_PATH", "/tmp/m.db")
		t.Setenv("GEMINI_API_KEY", "gemini_key")
		t.Setenv("TELEGRAM_ALLOWED_USER_IDS", "1, 2,3")
		t.Setenv("ADMIN_TELEGRAM_ID", "42")

		cfg, err := NewFromEnv()
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if cfg.DataPath != "/tmp/plans" {
			t.Errorf("Expected DataPath '/tmp/plans', got %q", cfg.DataPath)
		}
		if cfg.MetricsDBPath != "/tmp/m.db" {
			t.Errorf("Expected MetricsDBPath '/tmp/m.db', got %q", cfg.MetricsDBPath)
		}
		if cfg.GeminiAPIKey != "gemini_key" {
			t.Errorf("Expected GeminiAPIKey 'gemini_key', got %q", cfg.GeminiAPIKey)
		}
		if len(cfg.TelegramAllowedUserIDs) != 3 || cfg.TelegramAllowedUserIDs[2] != 3 {
			t.Errorf("Expected allowed IDs [1 2 3], got %v", cfg.TelegramAllowedUserIDs)
		}
		if cfg.AdminTelegramID != 42 {
			t.Errorf("Expected AdminTelegramID 42, got %d", cfg.AdminTelegramID)
		}
	})

	t.Run("InvalidAllowedUserIDs", func(t *testing.T) {
		t.Setenv("ZENITH_DATA_PATH", "/tmp/plans")
		t.Setenv("TELEGRAM_ALLOWED_USER_IDS", "1,abc")

		if _, err := NewFromEnv(); err == nil {
			t.Fatal("Expected an error for a non-numeric allowed user ID, got nil")
		}
	})

	t.Run("InvalidAdminID", func(t *testing.T) {
		t.Setenv("ZENITH_DATA_PATH", "/tmp/plans")
		t.Setenv("TELEGRAM_ALLOWED_USER_IDS", "")
		t.Setenv("ADMIN_TELEGRAM_ID", "not-a-number")

		if _, err := NewFromEnv(); err == nil {
			t.Fatal("Expected an error for a non-numeric admin ID, got nil")
		}
	})
}

func TestValidateTelegram(t *testing.T) {
	t.Run("MissingToken", func(t *testing.T) {
		cfg := &Config{TelegramWebhookURL: "https://example.test/webhook"}
		err := cfg.ValidateTelegram()
		if err == nil {
			t.Fatal("Expected an error for missing TELEGRAM_BOT_TOKEN, got nil")
		}
		expectedError := "TELEGRAM_BOT_TOKEN environment variable not set"
		if err.Error() != expectedError {
			t.Errorf("Expected error '%s', got '%s'", expectedError, err.Error())
		}
	})

	t.Run("MissingWebhookURL", func(t *testing.T) {
		cfg := &Config{TelegramBotToken: "token"}
		err := cfg.ValidateTelegram()
		if err == nil {
			t.Fatal("Expected an error for missing TELEGRAM_WEBHOOK_URL, got nil")
		}
		expectedError := "TELEGRAM_WEBHOOK_URL environment variable not set"
		if err.Error() != expectedError {
			t.Errorf("Expected error '%s', got '%s'", expectedError, err.Error())
		}
	})

	t.Run("Complete", func(t *testing.T) {
		cfg := &Config{TelegramBotToken: "token", TelegramWebhookURL: "https://example.test/webhook"}
		if err := cfg.ValidateTelegram(); err != nil {
			t.Errorf("Expected no error, got %v", err)
		}
	})
}
