package main

import (
	"errors"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"alcyxob/vidfeed/internal/domain"
)

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List videos and their processing status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a.directory.FetchList(cmd.Context())
			if apiErr := a.directory.Err(); apiErr != nil {
				return errors.New(apiErr.Message)
			}
			printVideos(cmd.OutOrStdout(), a.directory.Items())
			return nil
		},
	}
}

func printVideos(w io.Writer, items []domain.VideoRecord) {
	if len(items) == 0 {
		fmt.Fprintln(w, "no videos")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tSTATUS\tSIZE\tCREATED")
	for _, v := range items {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n",
			v.ID, v.Title, colorStatus(v.Status), humanSize(v.SizeBytes),
			time.Unix(v.CreatedAt, 0).Format("2006-01-02 15:04"))
	}
	tw.Flush()
}

func colorStatus(s domain.VideoStatus) string {
	switch s {
	case domain.VideoReady:
		return color.GreenString(string(s))
	case domain.VideoFailed:
		return color.RedString(string(s))
	default:
		return color.YellowString(string(s))
	}
}

func humanSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGT"[exp])
}
