package main

import (
	"fmt"

	"github.com/podium-optique/podium/internal/cli"
	"github.com/podium-optique/podium/internal/engine"
	"github.com/spf13/cobra"
)

func rankCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rank",
		Short: "Filter and rank the catalog for a client",
		Long: `Filter the lens catalog by the client's criteria, price every
candidate with the configured pricing rules, and print the results
ranked by margin.

By default only the three-offer podium is shown; use --all for the
full ranked list.`,
		RunE: runRank,
	}

	criteriaFlags(cmd)
	cmd.Flags().Bool("all", false, "print the full ranked list instead of the podium")

	return cmd
}

func runRank(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	criteria, err := criteriaFromFlags(cmd)
	if err != nil {
		return err
	}

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer func() { _ = store.Close() }()

	settings, err := loadSettings()
	if err != nil {
		return err
	}

	eng := engine.New(store, settings)
	renderer := cli.NewRenderer(cmd.OutOrStdout())

	all, _ := cmd.Flags().GetBool("all")
	if all {
		result, rankErr := eng.Rank(ctx, criteria)
		if rankErr != nil {
			return rankErr
		}
		renderer.RenderOffers(result)
		return nil
	}

	result, err := eng.Podium(ctx, criteria)
	if err != nil {
		return err
	}
	renderer.RenderPodium(result)
	return nil
}
