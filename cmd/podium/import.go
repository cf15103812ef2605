package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/podium-optique/podium/internal/cli"
	"github.com/podium-optique/podium/internal/common"
	"github.com/podium-optique/podium/internal/importer"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import [file]",
		Short: "Import a lens catalog from a CSV export",
		Long: `Parse a supplier CSV export and load it into the local catalog.

The field separator (comma or semicolon) is detected automatically and
prices may use either decimal commas or dots. By default the stored
catalog is replaced; use --merge to upsert into the existing one.`,
		Args: cobra.ExactArgs(1),
		RunE: runImport,
	}

	cmd.Flags().Bool("merge", false, "merge into the existing catalog instead of replacing it")

	return cmd
}

func runImport(cmd *cobra.Command, args []string) error {
	path := args[0]
	merge, _ := cmd.Flags().GetBool("merge")

	interruptHandler := cli.NewInterruptHandler(nil)
	ctx := interruptHandler.HandleInterrupts(cmd.Context())

	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("[cyan]Lecture du catalogue...[reset]"),
		progressbar.OptionSpinnerType(14),
	)

	result, err := importer.ReadCSVFile(path, func(done int) {
		_ = bar.Set(done)
	})
	_ = bar.Finish()
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return common.NewUserError("Lecture du catalogue impossible", err)
	}

	if result.Skipped > 0 {
		slog.Warn("Some catalog rows were skipped", "skipped", result.Skipped)
	}

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer func() { _ = store.Close() }()

	if merge {
		err = store.SaveCatalogItems(ctx, result.Items)
	} else {
		err = store.ReplaceCatalog(ctx, result.Items)
	}
	if err != nil {
		return fmt.Errorf("failed to store catalog: %w", err)
	}

	count, err := store.GetCatalogCount(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(
		fmt.Sprintf("%d verre(s) importé(s), catalogue: %d référence(s)", len(result.Items), count)))
	return nil
}
