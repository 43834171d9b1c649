// mockapi runs the local stand-in chat API used for manual testing of the
// chat UI. Include "error", "empty" or "malformed" in a query to exercise
// the corresponding failure path.
package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/avoschat/llmclient-go/internal/config"
	"github.com/avoschat/llmclient-go/internal/logger"
	"github.com/avoschat/llmclient-go/internal/mockapi"
)

var rootCmd = &cobra.Command{
	Use:   "mockapi",
	Short: "Run the mock chat API server",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load()
		if err != nil {
			logger.L.Warn("failed to load configuration, using defaults", "error", err)
			cfg = config.Default()
		}
		logger.SetLevel(cfg.Log.Level)

		server := mockapi.New(time.Duration(cfg.Mock.DelayMS) * time.Millisecond)
		addr := ":" + cfg.Mock.Port
		logger.L.Info("mock chat API listening", "addr", addr)
		return http.ListenAndServe(addr, server)
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
