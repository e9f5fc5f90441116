package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/gcbaptista/go-catalog-search/config"
	"github.com/gcbaptista/go-catalog-search/internal/ingest"
	"github.com/gcbaptista/go-catalog-search/internal/matcher"
	"github.com/gcbaptista/go-catalog-search/model"
)

type searchOptions struct {
	feed      string
	fields    []string
	threshold float64
	limit     int
}

func newSearchCmd() *cobra.Command {
	opts := &searchOptions{}

	cmd := &cobra.Command{
		Use:   "search <query...>",
		Short: "Rank the vehicles of a feed against a query",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd.OutOrStdout(), opts, strings.Join(args, " "))
		},
	}

	defaults := config.DefaultCatalogSettings()
	cmd.Flags().StringVar(&opts.feed, "feed", "", "CSV feed to search (required)")
	cmd.Flags().StringSliceVar(&opts.fields, "fields", defaults.SearchableFields, "Fields to match against")
	cmd.Flags().Float64Var(&opts.threshold, "threshold", defaults.FuzzyThreshold, "Minimum fuzzy similarity, between 0 and 1")
	cmd.Flags().IntVar(&opts.limit, "limit", 10, "Maximum number of results to show (0 for all)")
	_ = cmd.MarkFlagRequired("feed")

	return cmd
}

func runSearch(out io.Writer, opts *searchOptions, query string) error {
	for _, field := range opts.fields {
		if !model.IsKnownField(field) {
			return fmt.Errorf("unknown field %q (known fields: %s)", field, strings.Join(model.KnownFields(), ", "))
		}
	}

	vehicles, err := ingest.LoadFile(opts.feed)
	if err != nil {
		return err
	}

	results, err := matcher.MatchScored(vehicles, query, model.VehicleFields(opts.fields), opts.threshold)
	if err != nil {
		return err
	}

	if len(results) == 0 {
		fmt.Fprintf(out, "No vehicles match %q.\n", query)
		return nil
	}

	shown := results
	if opts.limit > 0 && len(shown) > opts.limit {
		shown = shown[:opts.limit]
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SCORE\tPHASE\tID\tBRAND\tMODEL\tCLASS")
	for _, r := range shown {
		fmt.Fprintf(w, "%.3f\t%s\t%s\t%s\t%s\t%s\n",
			r.Score, r.Phase, r.Record.ID, r.Record.Brand, r.Record.Model, r.Record.Class)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if len(shown) < len(results) {
		fmt.Fprintf(out, "... %d more\n", len(results)-len(shown))
	}
	return nil
}
