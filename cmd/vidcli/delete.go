package main

import (
	"bufio"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"alcyxob/vidfeed/internal/player"
	"alcyxob/vidfeed/internal/service"
)

func newDeleteCmd(a *app) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a video after confirmation",
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
			if session.State() == service.StateError {
				return errors.New(session.ErrorText())
			}

			confirm := func(prompt string) bool {
				if yes {
					return true
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s [y/N]: ", prompt)
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil {
					return false
				}
				answer := strings.ToLower(strings.TrimSpace(line))
				return answer == "y" || answer == "yes"
			}

			if !session.Delete(cmd.Context(), confirm) {
				if msg := session.ErrorText(); msg != "" {
					return errors.New(msg)
				}
				fmt.Fprintln(cmd.OutOrStdout(), "delete cancelled")
				return nil
			}

			fmt.Fprintln(cmd.OutOrStdout(), color.GreenString("deleted"))
			if apiErr := a.directory.Err(); apiErr == nil {
				printVideos(cmd.OutOrStdout(), a.directory.Items())
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "skip the confirmation prompt")
	return cmd
}
