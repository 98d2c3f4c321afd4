package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/MikeSquared-Agency/Apportion/internal/budget"
	"github.com/MikeSquared-Agency/Apportion/internal/client"
)

type remoteFlags struct {
	api       string
	sessionID string
}

func (f *remoteFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.api, "api", "http://localhost:8700", "apportion server base URL")
	cmd.Flags().StringVar(&f.sessionID, "session", "", "session ID; a new session is created when empty")
}

// session resolves the flag to a session ID, creating one on the server when unset.
func (f *remoteFlags) session(ctx context.Context, c client.Client, stderr io.Writer) (uuid.UUID, error) {
	if f.sessionID != "" {
		id, err := uuid.Parse(f.sessionID)
		if err != nil {
			return uuid.Nil, fmt.Errorf("invalid --session: %w", err)
		}
		return id, nil
	}
	sess, err := c.CreateSession(ctx)
	if err != nil {
		return uuid.Nil, fmt.Errorf("create session: %w", err)
	}
	fmt.Fprintf(stderr, "session: %s\n", sess.ID)
	return sess.ID, nil
}

func newRankCmd() *cobra.Command {
	var flags remoteFlags
	cmd := &cobra.Command{
		Use:   "rank <category> <rank>",
		Short: "Set a category's rank on a running server",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			rank, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("rank must be a whole number: %w", err)
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			c := client.NewHTTPClient(flags.api)
			id, err := flags.session(ctx, c, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			cats, err := c.UpdateRank(ctx, id, args[0], rank)
			if err != nil {
				return err
			}
			return printCategories(cmd.OutOrStdout(), cats)
		},
	}
	flags.bind(cmd)
	return cmd
}

func newCalculateCmd() *cobra.Command {
	var flags remoteFlags
	cmd := &cobra.Command{
		Use:   "calculate",
		Short: "Calculate weights for a session on a running server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			c := client.NewHTTPClient(flags.api)
			id, err := flags.session(ctx, c, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			cats, err := c.Calculate(ctx, id)
			if err != nil {
				return err
			}
			return printCategories(cmd.OutOrStdout(), cats)
		},
	}
	flags.bind(cmd)
	return cmd
}

func printCategories(w io.Writer, cats []budget.Category) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "RANK\tCATEGORY\tWEIGHT")
	for _, c := range cats {
		weight := "-"
		if c.Weight != nil {
			weight = strconv.FormatFloat(*c.Weight, 'f', 6, 64)
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\n", c.Rank, c.Name, weight)
	}
	return tw.Flush()
}
