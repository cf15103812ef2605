package main

import (
	"fmt"
	"sort"

	"github.com/podium-optique/podium/internal/cli"
	"github.com/podium-optique/podium/internal/config"
	"github.com/spf13/cobra"
)

func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the shop pricing configuration",
	}

	cmd.AddCommand(configShowCmd())

	return cmd
}

func configShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective pricing configuration",
		RunE:  runConfigShow,
	}
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	settings, err := loadSettings()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, cli.FormatTitle("Configuration tarifaire"))
	fmt.Fprintf(out, "Mode: %s (version %d)\n", settings.Mode, settings.Version)
	fmt.Fprintf(out, "Précalibrage hors réseau: %.2f €\n", settings.PrecalPrice)

	if len(settings.DisabledBrands) > 0 {
		fmt.Fprintf(out, "Marques désactivées: %v\n", settings.DisabledBrands)
	}

	if settings.Mode == config.ModeLinear {
		fmt.Fprintln(out, cli.BoldStyle.Render("\nRègles linéaires (prix = achat × coef + marge fixe)"))
		categories := make([]string, 0, len(settings.Linear))
		for cat := range settings.Linear {
			categories = append(categories, cat)
		}
		sort.Strings(categories)
		for _, cat := range categories {
			rule := settings.Linear[cat]
			fmt.Fprintf(out, "  %-16s × %.2f + %.2f €\n", cat, rule.Multiplier, rule.Offset)
		}
	} else {
		fmt.Fprintln(out, cli.BoldStyle.Render("\nGrille manuelle"))
		fmt.Fprintf(out, "  %d prix renseigné(s)\n", len(settings.Manual.Prices))
		if len(settings.Manual.DisabledDesigns) > 0 {
			fmt.Fprintf(out, "  Designs désactivés: %v\n", settings.Manual.DisabledDesigns)
		}
		if len(settings.Manual.DisabledIndices) > 0 {
			fmt.Fprintf(out, "  Indices désactivés: %v\n", settings.Manual.DisabledIndices)
		}
		if len(settings.Manual.DisabledCoatings) > 0 {
			fmt.Fprintf(out, "  Traitements désactivés: %v\n", settings.Manual.DisabledCoatings)
		}
	}

	fmt.Fprintln(out, cli.BoldStyle.Render("\nPaires supplémentaires"))
	fmt.Fprintf(out, "  Mode: %s\n", settings.Supplementary.Mode)
	if settings.Supplementary.Mode == config.SupplementaryComponent && len(settings.Supplementary.Components) > 0 {
		components := make([]string, 0, len(settings.Supplementary.Components))
		for key := range settings.Supplementary.Components {
			components = append(components, key)
		}
		sort.Strings(components)
		for _, key := range components {
			fmt.Fprintf(out, "  %-16s %.2f €\n", key, settings.Supplementary.Components[key])
		}
	} else {
		fmt.Fprintf(out, "  Coefficient: × %.2f sur le prix d'achat\n", settings.Supplementary.Multiplier)
	}

	if len(settings.MaxPocket) > 0 {
		fmt.Fprintln(out, cli.BoldStyle.Render("\nReste à charge maximum"))
		types := make([]string, 0, len(settings.MaxPocket))
		for t := range settings.MaxPocket {
			types = append(types, t)
		}
		sort.Strings(types)
		for _, t := range types {
			fmt.Fprintf(out, "  %-16s %.2f €\n", t, settings.MaxPocket[t])
		}
	}

	return nil
}
