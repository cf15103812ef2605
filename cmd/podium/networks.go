package main

import (
	"fmt"

	"github.com/podium-optique/podium/internal/cli"
	"github.com/podium-optique/podium/internal/model"
	"github.com/spf13/cobra"
)

func networksCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "networks",
		Short: "List the supported reimbursement networks",
		RunE:  runNetworks,
	}
}

func runNetworks(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, cli.FormatTitle("Réseaux de soins"))

	for _, network := range model.Networks {
		if network.IsOpenMarket() {
			fmt.Fprintf(out, "  %-14s tarification du magasin\n", network)
			continue
		}
		fmt.Fprintf(out, "  %-14s prix négociés, précalibrage +%.0f €\n",
			network, network.PrecalAddOn())
	}
	return nil
}
