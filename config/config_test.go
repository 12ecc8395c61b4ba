package config

import (
	"os"
	"testing"
)

func TestInitConfigWithoutFile(t *testing.T) {
	if _, err := os.Stat("config.ini"); err == nil {
		t.Skip("config.ini present in working directory")
	}

	// A missing config.ini falls back to an empty config with defaults.
	InitConfig()

	if Config.InitialBalance != 5000 {
		t.Errorf("balance = %v, want 5000", Config.InitialBalance)
	}
	if Config.BrokerageFee != 9.99 {
		t.Errorf("fee = %v, want 9.99", Config.BrokerageFee)
	}
	if Config.DataDir != "./data/date" {
		t.Errorf("data_dir = %q, want ./data/date", Config.DataDir)
	}
	if Config.DBdriver != "" || Config.Port != 0 {
		t.Errorf("db/web settings = %q/%v, want zero values", Config.DBdriver, Config.Port)
	}
}
