package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"Folio/internal/api"
)

var servePort string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	Long:  `Start the content API server and run until interrupted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// PORT from the environment applies unless the flag overrides it
		if !cmd.Flags().Changed("port") {
			if p := os.Getenv("PORT"); p != "" {
				servePort = p
			}
		}
		server := api.NewServer(appEngine, ":"+servePort)

		errCh := make(chan error, 1)
		go func() {
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
		}()

		stop := make(chan os.Signal, 1)
		signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

		select {
		case err := <-errCh:
			return err
		case sig := <-stop:
			appEngine.Logger.Info("[Serve] Received %s, shutting down", sig)
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(ctx)
	},
}

func init() {
	serveCmd.Flags().StringVarP(&servePort, "port", "p", "3000", "Port to listen on")
	rootCmd.AddCommand(serveCmd)
}
