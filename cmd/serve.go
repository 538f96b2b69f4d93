package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/ngrobisa/artifactory-plugin/internal/config"
	"github.com/ngrobisa/artifactory-plugin/internal/server"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var serveFlags struct {
	configPath string
	listen     string
	dataDir    string
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the promotion service",
	Run: func(cmd *cobra.Command, args []string) {
		appCfg, err := config.Load(serveFlags.configPath)
		if err != nil {
			log.Fatal().Err(err).Msg("failed loading config")
		}
		if serveFlags.listen != "" {
			appCfg.Listen = serveFlags.listen
		}
		if serveFlags.dataDir != "" {
			appCfg.DataDir = serveFlags.dataDir
		}

		cfg := &server.Config{Config: appCfg, Logger: log.Logger}
		srv := server.New(cfg)
		chSignal := make(chan os.Signal, 1)
		signal.Notify(chSignal, os.Interrupt, syscall.SIGTERM)

		wg := &sync.WaitGroup{}
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				cfg.Logger.Fatal().Err(err).Msg("server error")
			}
		}()

		sig := <-chSignal
		cfg.Logger.Info().Str("signal", sig.String()).Msg("shutting down server...")
		if err := srv.Stop(context.Background()); err != nil {
			cfg.Logger.Error().Err(err).Msg("error during server shutdown")
		}

		wg.Wait()
		cfg.Logger.Info().Msg("server stopped")
	},
}

func init() {
	serveCmd.Flags().StringVarP(&serveFlags.configPath, "config", "c", "config.yaml", "Path to the config file")
	serveCmd.Flags().StringVarP(&serveFlags.listen, "listen", "l", "", "Listen address override")
	serveCmd.Flags().StringVarP(&serveFlags.dataDir, "data", "d", "", "Data directory override")
}
