package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/seantiz/rssd/internal/api"
	"github.com/seantiz/rssd/internal/config"
	"github.com/seantiz/rssd/internal/engine"
	"github.com/seantiz/rssd/internal/render"
	"github.com/seantiz/rssd/internal/scene"
	"github.com/seantiz/rssd/internal/store"
)

// newRunCommand creates the "run" subcommand that opens the render window,
// starts the render loop and serves the control API until interrupted.
func newRunCommand(opts *Options, reg *render.Registry) *cobra.Command {
	var (
		renderSystem string
		scenePath    string
		fps          int
		paused       bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the engine and serve the control API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) (err error) {
			logger := LoggerFromContext(cmd.Context())
			cfg := opts.Config

			display, err := config.LoadDisplay(cfg.DisplayConfig)
			if err != nil {
				return err
			}
			sceneCfg := display.SceneConfig()
			if renderSystem != "" {
				sceneCfg.RenderSystem = renderSystem
			}

			logger.Info("rssd: starting",
				"listen_addr", cfg.ListenAddr,
				"db_path", cfg.DBPath,
				"render_system", sceneCfg.RenderSystem,
			)

			db, err := store.NewSQLiteStore(cfg.DBPath)
			if err != nil {
				return fmt.Errorf("open database: %w", err)
			}
			defer db.Close()

			mgr, err := scene.NewRenderManager(sceneCfg, reg, logger)
			if err != nil {
				return err
			}

			engOpts := []engine.Option{engine.WithRenderSystem(sceneCfg.RenderSystem)}
			if fps > 0 {
				engOpts = append(engOpts, engine.WithFrameInterval(time.Second/time.Duration(fps)))
			}
			eng := engine.New(mgr, db, logger, engOpts...)
			defer func() {
				if closeErr := eng.Close(); closeErr != nil {
					err = errors.Join(err, closeErr)
				}
			}()

			if scenePath != "" {
				if err := eng.LoadScene(scenePath); err != nil {
					return err
				}
			}
			if !paused {
				if err := eng.Start(); err != nil {
					return err
				}
			}

			srv := api.NewServer(cfg.ListenAddr, db, reg, eng, logger)
			return srv.Run()
		},
	}

	cmd.Flags().StringVar(&opts.Config.ListenAddr, "addr", opts.Config.ListenAddr, "HTTP listen address")
	cmd.Flags().StringVar(&opts.Config.DBPath, "db", opts.Config.DBPath, "Path to the event journal database")
	cmd.Flags().StringVar(&opts.Config.LogFile, "log-file", opts.Config.LogFile, "Copy the log to this file (empty disables)")
	cmd.Flags().StringVar(&renderSystem, "render-system", "", "Render system name, overriding the display file")
	cmd.Flags().StringVar(&scenePath, "scene", "", "Scene file to load before rendering")
	cmd.Flags().IntVar(&fps, "fps", 60, "Frame rate cap (0 renders as fast as possible)")
	cmd.Flags().BoolVar(&paused, "paused", false, "Do not start the render loop until POST /v1/engine/start")

	return cmd
}
