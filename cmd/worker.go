package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"clipnote/internal/app"
	"clipnote/internal/worker"

	"github.com/hibiken/asynq"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Run the background job worker",
	Long: `Starts the Asynq worker that processes captured URLs and regenerates
tags when ingest.async is enabled.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to get application context: %w", err)
		}
		if err := runWorker(appInstance); err != nil {
			log.Errorf("Worker exited with error: %v", err)
			return err
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(workerCmd)
}

// runWorker serves the task queues until SIGINT or SIGTERM.
func runWorker(appInstance *app.App) error {
	cfg := appInstance.Config
	srv := worker.NewServer(cfg)

	mux := asynq.NewServeMux()
	worker.RegisterHandlers(mux, worker.Deps{
		Content:  appInstance.ContentService,
		JobStore: appInstance.Store,
	})

	log.Infof("Starting Asynq worker server (concurrency: %d, queues: %v)", cfg.Worker.Concurrency, cfg.Worker.Queues)
	if err := srv.Start(mux); err != nil {
		return fmt.Errorf("failed to start Asynq server: %w", err)
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)
	<-shutdown

	log.Info("Shutdown signal received, initiating graceful shutdown")
	srv.Shutdown()
	log.Info("Worker shutdown complete")
	return nil
}
