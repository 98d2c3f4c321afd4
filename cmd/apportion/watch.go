package main

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/MikeSquared-Agency/Apportion/internal/config"
	"github.com/MikeSquared-Agency/Apportion/internal/hermes"
)

func newWatchCmd() *cobra.Command {
	var (
		configPath string
		natsURL    string
	)
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Stream rank and weight events from hermes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if natsURL == "" {
				natsURL = cfg.Hermes.URL
			}
			if natsURL == "" {
				return fmt.Errorf("no hermes URL: set --nats or APPORTION_HERMES_URL")
			}

			logger := cfg.Logging.NewLogger(cmd.ErrOrStderr())
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			hc, err := hermes.NewNATSClient(ctx, natsURL, logger)
			if err != nil {
				return err
			}
			defer hc.Close()

			return watch(ctx, hc, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to config file")
	cmd.Flags().StringVar(&natsURL, "nats", "", "NATS URL, overriding the config")
	return cmd
}

// watch prints one line per session event until ctx is done. Undecodable payloads
// are reported on errOut.
func watch(ctx context.Context, hc hermes.Client, out, errOut io.Writer) error {
	var mu sync.Mutex
	err := hermes.SubscribeSessions(hc,
		func(evt hermes.SessionEvent) {
			mu.Lock()
			defer mu.Unlock()
			fmt.Fprintln(out, formatEvent(evt))
		},
		func(subject string, err error) {
			mu.Lock()
			defer mu.Unlock()
			fmt.Fprintf(errOut, "skip %s: %v\n", subject, err)
		},
	)
	if err != nil {
		return err
	}
	<-ctx.Done()
	return nil
}

func formatEvent(evt hermes.SessionEvent) string {
	switch {
	case evt.RankChanged != nil:
		e := evt.RankChanged
		return fmt.Sprintf("%s %s %s %d -> %d order=%s",
			evt.SessionID, evt.Kind, e.Category, e.OldRank, e.NewRank, strings.Join(e.Order, ","))
	case evt.WeightsCalculated != nil:
		parts := make([]string, len(evt.WeightsCalculated.Weights))
		for i, w := range evt.WeightsCalculated.Weights {
			parts[i] = fmt.Sprintf("%s=%.6f", w.Name, w.Weight)
		}
		return fmt.Sprintf("%s %s %s", evt.SessionID, evt.Kind, strings.Join(parts, " "))
	default:
		return evt.SessionID + " " + evt.Kind
	}
}
