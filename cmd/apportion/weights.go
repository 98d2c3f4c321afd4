package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/MikeSquared-Agency/Apportion/internal/ahp"
	"github.com/MikeSquared-Agency/Apportion/internal/budget"
	"github.com/MikeSquared-Agency/Apportion/internal/config"
)

type weightRow struct {
	Name   string  `json:"name"`
	Rank   int     `json:"rank"`
	Weight float64 `json:"weight"`
}

func newWeightsCmd() *cobra.Command {
	var (
		configPath string
		raw        bool
		asJSON     bool
	)
	cmd := &cobra.Command{
		Use:   "weights",
		Short: "Print the weights for the configured categories and matrix",
		Long:  "Runs the one-pass calculator on the configured comparison matrix and prints one weight per category in its initial order. --raw skips rescaling to a total of 1.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			rows, err := configuredWeights(cfg, !raw && cfg.Weights.Rescale)
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(rows)
			}
			return printWeights(cmd.OutOrStdout(), rows)
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to config file")
	cmd.Flags().BoolVar(&raw, "raw", false, "print the unscaled one-pass scores")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	return cmd
}

func configuredWeights(cfg *config.Config, rescale bool) ([]weightRow, error) {
	state, err := budget.Reduce(budget.NewState(cfg.Model.Categories), budget.CalculateWeights{
		Matrix:  cfg.Matrix(),
		Rescale: rescale,
	})
	if err != nil {
		return nil, err
	}
	rows := make([]weightRow, state.Len())
	for i, c := range state.Categories {
		rows[i] = weightRow{Name: c.Name, Rank: c.Rank, Weight: *c.Weight}
	}
	return rows, nil
}

func printWeights(w io.Writer, rows []weightRow) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "RANK\tCATEGORY\tWEIGHT")
	weights := make([]float64, len(rows))
	for i, r := range rows {
		weights[i] = r.Weight
		fmt.Fprintf(tw, "%d\t%s\t%.6f\n", r.Rank, r.Name, r.Weight)
	}
	fmt.Fprintf(tw, "\tTOTAL\t%.6f\n", ahp.Sum(weights))
	return tw.Flush()
}
