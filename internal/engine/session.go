package engine

import (
	"time"

	"github.com/podium-optique/podium/internal/common"
	"github.com/podium-optique/podium/internal/model"
)

// QuoteSession accumulates one client's selections into a quote. The
// engine itself stays stateless; all selection state lives here.
type QuoteSession struct {
	client        string
	criteria      model.Criteria
	primary       *model.PricedOffer
	supplementary []model.SupplementaryPair
	reimbursement float64
}

// NewQuoteSession starts an empty session for a client.
func NewQuoteSession(client string, criteria model.Criteria) *QuoteSession {
	return &QuoteSession{client: client, criteria: criteria}
}

// Criteria returns the criteria the session was opened with.
func (s *QuoteSession) Criteria() model.Criteria {
	return s.criteria
}

// SelectPrimary records the main pair. Changing the primary invalidates
// any supplementary pairs derived from the previous one.
func (s *QuoteSession) SelectPrimary(offer model.PricedOffer) {
	o := offer
	s.primary = &o
	s.supplementary = nil
}

// Primary returns the selected main pair, or nil before selection.
func (s *QuoteSession) Primary() *model.PricedOffer {
	return s.primary
}

// AddSupplementary appends a pair in selection order.
func (s *QuoteSession) AddSupplementary(pair model.SupplementaryPair) error {
	if s.primary == nil {
		return common.ErrNoPrimarySelection
	}
	s.supplementary = append(s.supplementary, pair)
	return nil
}

// RemoveSupplementary drops the pair at the given position, keeping the
// order of the rest.
func (s *QuoteSession) RemoveSupplementary(i int) {
	if i < 0 || i >= len(s.supplementary) {
		return
	}
	s.supplementary = append(s.supplementary[:i], s.supplementary[i+1:]...)
}

// Supplementary returns the pairs in selection order.
func (s *QuoteSession) Supplementary() []model.SupplementaryPair {
	return s.supplementary
}

// FirstPair reports whether the next alternative search would price the
// first supplementary pair of the session.
func (s *QuoteSession) FirstPair() bool {
	return len(s.supplementary) == 0
}

// SetReimbursement records the client's expected reimbursement.
func (s *QuoteSession) SetReimbursement(amount float64) {
	s.reimbursement = amount
}

// Quote materializes the session into a persisted quote.
func (s *QuoteSession) Quote() (*model.Quote, error) {
	if s.primary == nil {
		return nil, common.ErrNoPrimarySelection
	}

	q := &model.Quote{
		CreatedAt:     time.Now(),
		Client:        s.client,
		Primary:       *s.primary,
		Supplementary: append([]model.SupplementaryPair(nil), s.supplementary...),
		Reimbursement: s.reimbursement,
	}
	if err := q.Validate(); err != nil {
		return nil, err
	}
	return q, nil
}
