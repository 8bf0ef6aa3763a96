// testserver starts the rssd API and engine over the null render system for
// E2E testing.
// Usage: go run ./cmd/testserver
package main

import (
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/seantiz/rssd/internal/api"
	"github.com/seantiz/rssd/internal/engine"
	"github.com/seantiz/rssd/internal/render"
	"github.com/seantiz/rssd/internal/render/null"
	"github.com/seantiz/rssd/internal/scene"
	"github.com/seantiz/rssd/internal/store"
)

func main() {
	addr := ":8080"
	if v := os.Getenv("RSSD_LISTEN_ADDR"); v != "" {
		addr = v
	}

	db, err := store.NewSQLiteStore(":memory:")
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	reg := render.NewRegistry()
	reg.Register(null.New(null.WithSize(640, 480)))

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	cfg := scene.DefaultConfig()
	cfg.RenderSystem = null.Name
	mgr, err := scene.NewRenderManager(cfg, reg, logger)
	if err != nil {
		log.Fatalf("failed to create render manager: %v", err)
	}

	eng := engine.New(mgr, db, logger,
		engine.WithFrameInterval(10*time.Millisecond),
		engine.WithRenderSystem(null.Name),
	)
	defer eng.Close()

	srv := api.NewServer(addr, db, reg, eng, logger)

	logger.Info("testserver: starting", "addr", addr)
	if err := srv.Run(); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
