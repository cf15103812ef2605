package main

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/podium-optique/podium/internal/cli"
	"github.com/podium-optique/podium/internal/common"
	"github.com/podium-optique/podium/internal/engine"
	"github.com/spf13/cobra"
)

func quoteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Build and manage client quotes",
	}

	cmd.AddCommand(quoteCreateCmd())
	cmd.AddCommand(quoteListCmd())

	return cmd
}

func quoteCreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Build a quote from the ranked offers",
		Long: `Rank the catalog for the given criteria, pick the primary pair by its
rank in the result, optionally attach supplementary pairs, and print
the client-facing totals.`,
		RunE: runQuoteCreate,
	}

	criteriaFlags(cmd)
	cmd.Flags().String("client", "", "client name (required)")
	cmd.Flags().Int("pick", 1, "rank of the primary pair in the result (1 = best margin)")
	cmd.Flags().Bool("discount-pair", false, "add a half-price second pair identical to the primary")
	cmd.Flags().Int("alternative-pairs", 0, "number of discount-brand alternative pairs to add")
	cmd.Flags().Float64("reimbursement", 0, "expected reimbursement in euros")
	cmd.Flags().Bool("save", false, "persist the quote")
	_ = cmd.MarkFlagRequired("client")

	return cmd
}

func runQuoteCreate(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	criteria, err := criteriaFromFlags(cmd)
	if err != nil {
		return err
	}

	client, _ := cmd.Flags().GetString("client")
	pick, _ := cmd.Flags().GetInt("pick")
	discountPair, _ := cmd.Flags().GetBool("discount-pair")
	alternativePairs, _ := cmd.Flags().GetInt("alternative-pairs")
	reimbursement, _ := cmd.Flags().GetFloat64("reimbursement")
	save, _ := cmd.Flags().GetBool("save")

	if reimbursement < 0 {
		return fmt.Errorf("reimbursement must not be negative")
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

	result, err := eng.Rank(ctx, criteria)
	if err != nil {
		return err
	}
	if pick < 1 || pick > len(result.Offers) {
		return fmt.Errorf("no offer at rank %d: the result has %d offers", pick, len(result.Offers))
	}

	session := engine.NewQuoteSession(client, criteria)
	session.SelectPrimary(result.Offers[pick-1])
	session.SetReimbursement(reimbursement)

	if discountPair {
		pair, pairErr := eng.Pipeline().DiscountPair(session.Primary())
		if pairErr != nil {
			return pairErr
		}
		if addErr := session.AddSupplementary(pair); addErr != nil {
			return addErr
		}
	}

	for i := 0; i < alternativePairs; i++ {
		pair, pairErr := eng.BestAlternative(ctx, session)
		if errors.Is(pairErr, common.ErrNoCandidates) {
			slog.Warn("No supplementary candidate available, stopping", "added", i)
			break
		}
		if pairErr != nil {
			return pairErr
		}
		if addErr := session.AddSupplementary(pair); addErr != nil {
			return addErr
		}
	}

	quote, err := session.Quote()
	if err != nil {
		return err
	}

	renderer := cli.NewRenderer(cmd.OutOrStdout())
	renderer.RenderQuote(quote)

	if save {
		id, saveErr := store.SaveQuote(ctx, quote)
		if saveErr != nil {
			return fmt.Errorf("failed to save quote: %w", saveErr)
		}
		fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Devis #%d enregistré", id)))
	}

	return nil
}

func quoteListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the saved quotes of a client",
		RunE:  runQuoteList,
	}

	cmd.Flags().String("client", "", "client name (required)")
	_ = cmd.MarkFlagRequired("client")

	return cmd
}

func runQuoteList(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	client, _ := cmd.Flags().GetString("client")

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer func() { _ = store.Close() }()

	quotes, err := store.GetQuotesByClient(ctx, client)
	if err != nil {
		return err
	}
	if len(quotes) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), cli.SubtleStyle.Render("Aucun devis pour "+client))
		return nil
	}

	for _, quote := range quotes {
		totals := quote.Totals()
		fmt.Fprintf(cmd.OutOrStdout(), "#%d  %s  %d paire(s) suppl.  total %.2f €  reste à charge %.2f €\n",
			quote.ID,
			quote.CreatedAt.Format("2006-01-02"),
			len(quote.Supplementary),
			totals.GrandTotal,
			totals.Remainder)
	}
	return nil
}
