package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/podium-optique/podium/internal/engine"
	"github.com/podium-optique/podium/internal/model"
)

// Renderer writes styled offer and quote output to a terminal.
type Renderer struct {
	writer io.Writer
}

// NewRenderer creates a renderer. A nil writer defaults to stdout.
func NewRenderer(writer io.Writer) *Renderer {
	if writer == nil {
		writer = os.Stdout
	}
	return &Renderer{writer: writer}
}

// RenderPodium prints the top offers as side-by-side cards, best margin
// first.
func (r *Renderer) RenderPodium(result *engine.Result) {
	if result.Degraded {
		fmt.Fprintln(r.writer, FormatWarning("Catalogue indisponible, résultats sur catalogue vide"))
	}
	if len(result.Offers) == 0 {
		fmt.Fprintln(r.writer, SubtleStyle.Render("Aucun verre ne correspond aux critères."))
		return
	}

	fmt.Fprintln(r.writer, TitleStyle.Render(TrophyIcon+" Podium"))

	cards := make([]string, 0, len(result.Offers))
	for i, offer := range result.Offers {
		style := CardStyle
		if i == 0 {
			style = WinnerCardStyle
		}
		cards = append(cards, style.Render(offerCard(i, offer)))
	}
	fmt.Fprintln(r.writer, lipgloss.JoinHorizontal(lipgloss.Top, cards...))
}

func offerCard(rank int, offer model.PricedOffer) string {
	lines := []string{
		BoldStyle.Render(model.PodiumLabel(rank)),
		offer.Name,
		SubtleStyle.Render(fmt.Sprintf("%s · %s · indice %s", offer.Brand, offer.Type, offer.Index)),
	}
	if offer.Coating != "" {
		lines = append(lines, SubtleStyle.Render("Traitement "+offer.Coating))
	}
	lines = append(lines,
		"",
		BoldStyle.Render(fmt.Sprintf("%s %.2f € / verre", EuroIcon, offer.SellingPrice)),
	)
	return strings.Join(lines, "\n")
}

// RenderOffers prints the full ranked list as a table.
func (r *Renderer) RenderOffers(result *engine.Result) {
	if result.Degraded {
		fmt.Fprintln(r.writer, FormatWarning("Catalogue indisponible, résultats sur catalogue vide"))
	}
	if len(result.Offers) == 0 {
		fmt.Fprintln(r.writer, SubtleStyle.Render("Aucun verre ne correspond aux critères."))
		return
	}

	header := fmt.Sprintf("%-4s %-10s %-30s %-8s %-12s %10s",
		"#", "Code", "Verre", "Indice", "Marque", "Prix")
	fmt.Fprintln(r.writer, TableHeaderStyle.Render(header))

	for i, offer := range result.Offers {
		row := fmt.Sprintf("%-4d %-10s %-30s %-8s %-12s %9.2f€",
			i+1, offer.Code, truncate(offer.Name, 30), offer.Index, offer.Brand, offer.SellingPrice)
		fmt.Fprintln(r.writer, TableCellStyle.Render(row))
	}
}

// RenderQuote prints a quote with its pairs and totals.
func (r *Renderer) RenderQuote(quote *model.Quote) {
	fmt.Fprintln(r.writer, FormatTitle("Devis "+quote.Client))

	fmt.Fprintf(r.writer, "%s  %s (%s)  %.2f € x2\n",
		BoldStyle.Render("Paire principale"),
		quote.Primary.Name, quote.Primary.Brand, quote.Primary.SellingPrice)

	for _, pair := range quote.Supplementary {
		label := pair.Label
		if label == "" {
			label = string(pair.Kind)
		}
		fmt.Fprintf(r.writer, "%s  %s (%s)  %.2f € x2\n",
			BoldStyle.Render(label),
			pair.Offer.Name, pair.Offer.Brand, pair.Offer.SellingPrice)
	}

	totals := quote.Totals()
	fmt.Fprintln(r.writer, SubtleStyle.Render(strings.Repeat("─", 40)))
	fmt.Fprintf(r.writer, "Total équipement   %8.2f €\n", totals.GrandTotal)
	fmt.Fprintf(r.writer, "Remboursement      %8.2f €\n", quote.Reimbursement)

	remainder := fmt.Sprintf("Reste à charge     %8.2f €", totals.Remainder)
	if totals.Remainder < 0 {
		fmt.Fprintln(r.writer, SuccessStyle.Render(remainder+"  (crédit client)"))
	} else {
		fmt.Fprintln(r.writer, BoldStyle.Render(remainder))
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	if n <= 1 {
		return s[:n]
	}
	return s[:n-1] + "…"
}
