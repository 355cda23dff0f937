// vidcli is a command line client for the vidfeed video service: list
// videos, upload MP4 files with live progress, probe playback and delete.
package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"alcyxob/vidfeed/internal/client"
	"alcyxob/vidfeed/internal/config"
	"alcyxob/vidfeed/internal/logging"
	"alcyxob/vidfeed/internal/service"
)

// app carries the wired services shared by all subcommands.
type app struct {
	cfg       config.Config
	logger    zerolog.Logger
	videos    client.VideoService
	uploads   *service.UploadManager
	directory *service.DirectoryStore
}

func newRootCmd() *cobra.Command {
	var (
		cfgPath string
		apiBase string
	)
	a := &app{}

	root := &cobra.Command{
		Use:           "vidcli",
		Short:         "Client for the vidfeed video service",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(cfgPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if apiBase != "" {
				cfg.API.BaseURL = apiBase
			}
			a.cfg = cfg
			a.logger = logging.New(cfg.Log.Level, cfg.Log.Pretty)

			api := client.NewClient(cfg.API.BaseURL, a.logger)
			a.videos = client.NewVideoService(api)
			a.uploads = service.NewUploadManager(client.NewUploadService(cfg.API.BaseURL, a.logger), a.logger)
			a.directory = service.NewDirectoryStore(a.videos, a.logger)
			return nil
		},
	}

	root.PersistentFlags().StringVar(&cfgPath, "config", ".", "directory containing config.yaml")
	root.PersistentFlags().StringVar(&apiBase, "api", "", "video API base URL (overrides config)")

	root.AddCommand(
		newListCmd(a),
		newUploadCmd(a),
		newPlayCmd(a),
		newDeleteCmd(a),
	)
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "vidcli:", err)
		os.Exit(1)
	}
}
