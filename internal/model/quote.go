package model

import (
	"fmt"
	"time"
)

// PairKind indicates how a supplementary pair was produced.
type PairKind string

const (
	// PairDiscount is a half-price duplicate of the primary selection.
	PairDiscount PairKind = "DISCOUNT"
	// PairAlternative is the best-margin offer from the discount brand.
	PairAlternative PairKind = "ALTERNATIVE"
)

// SupplementaryPair is a second or third lens pair attached to a quote.
// Pairs live for the duration of a quoting session and are removed
// individually.
type SupplementaryPair struct {
	Label string
	Kind  PairKind
	Offer PricedOffer
	ID    int64
}

// Quote combines a primary offer, supplementary pairs and a reimbursement
// into client-facing totals. Every pair is priced as two lenses.
type Quote struct {
	CreatedAt     time.Time
	Client        string
	Primary       PricedOffer
	Supplementary []SupplementaryPair
	Reimbursement float64
	ID            int64
}

// FinanceSummary is the total/remainder breakdown of a quote.
type FinanceSummary struct {
	PrimaryPair   float64
	Supplementary float64
	GrandTotal    float64
	// Remainder may be negative, signifying a credit to the client.
	Remainder float64
}

// Validate rejects quotes that cannot be totalled or persisted.
func (q *Quote) Validate() error {
	if q.Client == "" {
		return fmt.Errorf("quote requires a client name")
	}
	if q.Reimbursement < 0 {
		return fmt.Errorf("reimbursement must not be negative, got %.2f", q.Reimbursement)
	}
	return nil
}

// Totals computes the finance summary for the quote.
func (q *Quote) Totals() FinanceSummary {
	s := FinanceSummary{
		PrimaryPair: q.Primary.SellingPrice * 2,
	}
	for _, pair := range q.Supplementary {
		s.Supplementary += pair.Offer.SellingPrice * 2
	}
	s.GrandTotal = s.PrimaryPair + s.Supplementary
	s.Remainder = s.GrandTotal - q.Reimbursement
	return s
}
