package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/ssherwood/clinicmap/internal/app"
	"github.com/ssherwood/clinicmap/internal/config"
)

func main() {
	mapApp := &app.MapApplication{}

	if err := mapApp.Initialize(context.Background()); err != nil {
		slog.Error("Failed to initialize application", config.ErrAttr(err))
		_ = mapApp.Shutdown(context.Background())
		os.Exit(1)
	}

	mapApp.Run()
}
