package main

import (
	"fmt"

	"wealth/internal/config"
	"wealth/internal/database"
)

// openDatabase loads configuration from the environment and connects. The
// configuration is returned even when the connection fails.
func openDatabase() (*config.Config, *database.Manager, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	manager, err := database.NewManager(cfg.DatabaseURL)
	if err != nil {
		return cfg, nil, err
	}
	return cfg, manager, nil
}
