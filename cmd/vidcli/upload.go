package main

import (
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"alcyxob/vidfeed/internal/client"
	"alcyxob/vidfeed/internal/domain"
)

func newUploadCmd(a *app) *cobra.Command {
	var title string

	cmd := &cobra.Command{
		Use:   "upload FILE...",
		Short: "Upload MP4 files, showing transfer progress",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if title != "" && len(args) > 1 {
				return fmt.Errorf("--title is only valid with a single file")
			}

			files := make([]client.UploadFile, len(args))
			titles := make([]string, len(args))

			// Open and validate everything before any transfer starts, so a
			// bad file in the batch aborts the whole command up front.
			g := new(errgroup.Group)
			for i, path := range args {
				// go directive is 1.21 (toolchain limit), so loop variables are
				// shared across iterations; copy to keep per-goroutine values.
				i, path := i, path
				g.Go(func() error {
					f, t, err := openUpload(path, title, a.cfg.Upload.MaxSizeBytes)
					if err != nil {
						return fmt.Errorf("%s: %w", path, err)
					}
					files[i], titles[i] = f, t
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}

			for i := range files {
				a.uploads.StartUpload(files[i], titles[i])
			}

			renderProgress(cmd.OutOrStdout(), a.uploads)
			a.uploads.Wait()

			// Successful attempts have been removed; whatever remains failed.
			failed := a.uploads.Uploads()
			for _, item := range failed {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s: %s\n",
					color.RedString("failed"), item.Title, item.Error)
				a.uploads.RemoveUploadItem(item.ID)
			}
			if len(failed) > 0 {
				return fmt.Errorf("%d of %d uploads failed", len(failed), len(args))
			}
			fmt.Fprintln(cmd.OutOrStdout(), color.GreenString("all uploads finished"))
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "video title (defaults to the file name)")
	return cmd
}

// openUpload opens path and applies the client-side guards.
func openUpload(path, title string, maxBytes int64) (client.UploadFile, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return client.UploadFile{}, "", err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return client.UploadFile{}, "", err
	}

	if title == "" {
		base := filepath.Base(path)
		title = strings.TrimSuffix(base, filepath.Ext(base))
	}
	contentType := mime.TypeByExtension(filepath.Ext(path))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	if err := domain.ValidateUpload(title, contentType, info.Size(), maxBytes); err != nil {
		f.Close()
		return client.UploadFile{}, "", err
	}

	return client.UploadFile{
		Name:        filepath.Base(path),
		Size:        info.Size(),
		ContentType: contentType,
		Reader:      f,
	}, title, nil
}

// renderProgress polls the attempt collection and redraws a one-line
// progress summary until no upload is active.
func renderProgress(w io.Writer, uploads interface {
	ActiveUploads() []domain.UploadAttempt
}) {
	ticker := time.NewTicker(150 * time.Millisecond)
	defer ticker.Stop()

	for range ticker.C {
		active := uploads.ActiveUploads()
		if len(active) == 0 {
			fmt.Fprint(w, "\r")
			return
		}
		parts := make([]string, 0, len(active))
		for _, item := range active {
			parts = append(parts, fmt.Sprintf("%s %3d%%", item.Title, item.Progress))
		}
		fmt.Fprintf(w, "\r%s", strings.Join(parts, "  "))
	}
}
