package main

import (
	"fmt"
	"log/slog"

	"github.com/podium-optique/podium/internal/cli"
	"github.com/podium-optique/podium/internal/service"
	"github.com/podium-optique/podium/internal/sheets"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func importSheetsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import-sheets",
		Short: "Import the lens catalog from a Google Sheets spreadsheet",
		Long: `Fetch the catalog tab of the configured Google Sheets spreadsheet and
load it into the local catalog.

Authentication uses either a service account key file or OAuth2
credentials; both can come from the config file or from
GOOGLE_SHEETS_* environment variables.`,
		RunE: runImportSheets,
	}

	cmd.Flags().String("spreadsheet-id", "", "spreadsheet id (overrides config)")
	cmd.Flags().String("range", "", "sheet range to read, e.g. Catalogue!A:Z")
	cmd.Flags().Bool("merge", false, "merge into the existing catalog instead of replacing it")

	return cmd
}

func runImportSheets(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	merge, _ := cmd.Flags().GetBool("merge")

	sheetsConfig := sheets.DefaultConfig()
	sheetsConfig.ServiceAccountPath = viper.GetString("sheets.service_account_path")
	sheetsConfig.ClientID = viper.GetString("sheets.client_id")
	sheetsConfig.ClientSecret = viper.GetString("sheets.client_secret")
	sheetsConfig.RefreshToken = viper.GetString("sheets.refresh_token")
	sheetsConfig.SpreadsheetID = viper.GetString("sheets.spreadsheet_id")
	if r := viper.GetString("sheets.read_range"); r != "" {
		sheetsConfig.ReadRange = r
	}

	if sheetsConfig.ServiceAccountPath == "" && sheetsConfig.ClientID == "" {
		if err := sheetsConfig.LoadFromEnv(); err != nil {
			return err
		}
		if id := viper.GetString("sheets.spreadsheet_id"); id != "" {
			sheetsConfig.SpreadsheetID = id
		}
	}

	if id, _ := cmd.Flags().GetString("spreadsheet-id"); id != "" {
		sheetsConfig.SpreadsheetID = id
	}
	if r, _ := cmd.Flags().GetString("range"); r != "" {
		sheetsConfig.ReadRange = r
	}

	reader, err := sheets.NewReader(ctx, sheetsConfig, slog.Default())
	if err != nil {
		return err
	}

	items, err := reader.FetchCatalog(ctx, service.CatalogFilter{})
	if err != nil {
		return fmt.Errorf("failed to fetch catalog from sheet: %w", err)
	}

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer func() { _ = store.Close() }()

	if merge {
		err = store.SaveCatalogItems(ctx, items)
	} else {
		err = store.ReplaceCatalog(ctx, items)
	}
	if err != nil {
		return fmt.Errorf("failed to store catalog: %w", err)
	}

	count, err := store.GetCatalogCount(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(
		fmt.Sprintf("%d verre(s) importé(s) depuis la feuille, catalogue: %d référence(s)", len(items), count)))
	return nil
}
