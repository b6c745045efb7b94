package market

import (
	"github.com/shopspring/decimal"

	"github.com/shuuuting95/kaleido-core/ad"
	"github.com/shuuuting95/kaleido-core/events"
	"github.com/shuuuting95/kaleido-core/metrics"
	"github.com/shuuuting95/kaleido-core/pricing"
)

// OfferPeriod records an unsolicited bid for a display window that has no
// listed period yet. The funds are escrowed immediately; the window itself
// is only reserved if the space owner accepts.
func (e *Engine) OfferPeriod(caller ad.Account, spaceID string, displayStart, displayEnd int64, payment decimal.Decimal) (*ad.Offer, error) {
	if displayStart >= displayEnd {
		return nil, ad.ErrBadOrdering
	}
	owner, err := e.scheduler.OwnerOf(spaceID)
	if err != nil {
		return nil, err
	}
	tokenID := ad.NewTokenID(spaceID, displayStart, displayEnd)
	if _, open := e.offers[tokenID]; open {
		return nil, ad.ErrOfferExists
	}

	e.ledger.Deposit(owner, payment)
	offer := &ad.Offer{
		TokenID:      tokenID,
		SpaceID:      spaceID,
		DisplayStart: displayStart,
		DisplayEnd:   displayEnd,
		Bidder:       caller,
		Amount:       payment,
	}
	e.offers[tokenID] = offer

	e.sink.Emit(events.OfferPeriod{
		TokenID:      tokenID,
		SpaceID:      spaceID,
		DisplayStart: displayStart,
		DisplayEnd:   displayEnd,
		Bidder:       caller,
		Price:        payment,
	})
	return offer, nil
}

// CancelOffer refunds and removes an open offer. Only the account that
// made the offer may cancel it.
func (e *Engine) CancelOffer(caller ad.Account, tokenID ad.TokenID) error {
	offer, ok := e.offers[tokenID]
	if !ok {
		return ad.ErrOfferNotFound
	}
	if offer.Bidder != caller {
		return ad.ErrNotOfferer
	}
	owner, err := e.scheduler.OwnerOf(offer.SpaceID)
	if err != nil {
		return err
	}

	if err := e.ledger.Refund(owner, offer.Amount); err != nil {
		return err
	}
	delete(e.offers, tokenID)

	e.sink.Emit(events.CancelOffer{TokenID: tokenID})
	return nil
}

// AcceptOffer converts an open offer directly into a sold period at the
// offered price, reserving the display window at acceptance time. A window
// that meanwhile overlaps a listed period cannot be accepted.
func (e *Engine) AcceptOffer(caller ad.Account, tokenID ad.TokenID, contentMetadata string) (*ad.Period, error) {
	now := e.clock.Now()
	offer, ok := e.offers[tokenID]
	if !ok {
		return nil, ad.ErrOfferNotFound
	}
	owner, err := e.scheduler.OwnerOf(offer.SpaceID)
	if err != nil {
		return nil, err
	}
	if !e.accounts.IsOperator(caller, owner) {
		return nil, ad.ErrNotSpaceOwner
	}
	if _, err := e.scheduler.Reserve(offer.SpaceID, offer.DisplayStart, offer.DisplayEnd); err != nil {
		return nil, err
	}

	p := &ad.Period{
		TokenID:         tokenID,
		SpaceID:         offer.SpaceID,
		ContentMetadata: contentMetadata,
		CreatedAt:       now,
		SaleEnd:         now,
		DisplayStart:    offer.DisplayStart,
		DisplayEnd:      offer.DisplayEnd,
		Pricing:         ad.Offered,
		MinPrice:        offer.Amount,
		ReferencePrice:  pricing.StartPrice(ad.Offered, offer.Amount),
		Sold:            true,
		Owner:           offer.Bidder,
	}
	e.periods[tokenID] = p
	e.spacePeriods[offer.SpaceID] = append(e.spacePeriods[offer.SpaceID], tokenID)
	metrics.PeriodsLive.Inc()

	// The offered funds were escrowed when the offer was made.
	_ = e.ledger.SplitOnSale(owner, offer.Amount)
	delete(e.offers, tokenID)

	e.sink.Emit(events.AcceptOffer{
		TokenID:         tokenID,
		SpaceID:         offer.SpaceID,
		ContentMetadata: contentMetadata,
		DisplayStart:    offer.DisplayStart,
		DisplayEnd:      offer.DisplayEnd,
		Price:           offer.Amount,
	})
	e.sink.Emit(events.Transfer{From: ad.ZeroAccount, To: offer.Bidder, TokenID: tokenID})
	return p, nil
}

// Offered returns the open offer for the window's token id, if any.
func (e *Engine) Offered(tokenID ad.TokenID) (*ad.Offer, error) {
	offer, ok := e.offers[tokenID]
	if !ok {
		return nil, ad.ErrOfferNotFound
	}
	return offer, nil
}
