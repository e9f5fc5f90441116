package main

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gcbaptista/go-catalog-search/internal/ingest"
	"github.com/gcbaptista/go-catalog-search/store"
)

func newValidateCmd() *cobra.Command {
	var feed string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check that a feed parses and has unique vehicle IDs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd.OutOrStdout(), feed)
		},
	}

	cmd.Flags().StringVar(&feed, "feed", "", "CSV feed to validate (required)")
	_ = cmd.MarkFlagRequired("feed")

	return cmd
}

func runValidate(out io.Writer, feed string) error {
	vehicles, err := ingest.LoadFile(feed)
	if err != nil {
		return err
	}

	if err := store.NewVehicleStore().Replace(vehicles); err != nil {
		return fmt.Errorf("%s: %w", feed, err)
	}

	byClass := make(map[string]int)
	for _, v := range vehicles {
		byClass[v.Class]++
	}
	classes := make([]string, 0, len(byClass))
	for class, n := range byClass {
		if class == "" {
			class = "(none)"
		}
		classes = append(classes, fmt.Sprintf("%s=%d", class, n))
	}
	sort.Strings(classes)

	fmt.Fprintf(out, "%s: %d vehicles OK\n", feed, len(vehicles))
	if len(classes) > 0 {
		fmt.Fprintf(out, "classes: %s\n", strings.Join(classes, ", "))
	}
	return nil
}
