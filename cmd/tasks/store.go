package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/tasks"
	"github.com/aretw0/tasks/internal/render"
)

func loadConfig() (*tasks.Config, error) {
	cfg, err := tasks.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	slog.Debug("config loaded", "mode", cfg.Mode, "file", cfg.FilePath)
	return cfg, nil
}

func openStore() (tasks.Store, *tasks.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	store, err := tasks.New(cfg, tasks.WithLogger(slog.Default()))
	if err != nil {
		return nil, nil, err
	}
	return store, cfg, nil
}

func renderOptions(store tasks.Store, cfg *tasks.Config) render.Options {
	return render.Options{
		LineLength: render.LineLength(cfg.MaxLineLength, int(os.Stdout.Fd())),
		ByPosition: !store.Kind().RenumbersTasks(),
	}
}
