package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"alcyxob/vidfeed/internal/player"
	"alcyxob/vidfeed/internal/service"
)

func newPlayCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "play ID",
		Short: "Resolve a video's manifest and probe playback",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid video id %q", args[0])
			}

			session := service.NewPlaybackSession(
				a.videos,
				a.directory,
				player.NewHLSFactory(a.logger),
				&consoleSink{out: cmd.OutOrStdout()},
				a.logger,
			)
			defer session.Close()

			session.Load(cmd.Context(), id)

			out := cmd.OutOrStdout()
			switch session.State() {
			case service.StateNotReady:
				fmt.Fprintln(out, service.NotReadyMessage)
			case service.StateError:
				return errors.New(session.ErrorText())
			case service.StateReady:
				d := session.Detail()
				fmt.Fprintf(out, "%q is playable (%s)\n", d.Title, d.ManifestURL)
			}
			return nil
		},
	}
}

// consoleSink stands in for a media element: it reports the source it was
// handed instead of rendering it.
type consoleSink struct {
	out io.Writer
}

func (s *consoleSink) Play(url string) error {
	fmt.Fprintf(s.out, "manifest ok: %s\n", url)
	return nil
}
