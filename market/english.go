package market

import (
	"github.com/shopspring/decimal"

	"github.com/shuuuting95/kaleido-core/ad"
	"github.com/shuuuting95/kaleido-core/events"
)

// Bid places or replaces the single escrowed bid on an English-auction
// period. The first bid must clear the listing minimum; a replacement must
// exceed the standing bid, which is refunded in the same atomic step.
func (e *Engine) Bid(caller ad.Account, tokenID ad.TokenID, payment decimal.Decimal) error {
	now := e.clock.Now()
	p, ok := e.periods[tokenID]
	if !ok {
		return ad.ErrPeriodNotFound
	}
	if p.Pricing != ad.English {
		return ad.ErrWrongPricing
	}
	if p.Sold {
		return ad.ErrAlreadySold
	}
	seller, err := e.scheduler.OwnerOf(p.SpaceID)
	if err != nil {
		return err
	}

	prior := e.bids[tokenID]
	if prior == nil {
		if payment.LessThan(p.MinPrice) {
			return ad.ErrPaymentTooLow
		}
	} else if payment.LessThanOrEqual(prior.Amount) {
		return ad.ErrPaymentTooLow
	}

	if prior != nil {
		if err := e.ledger.Refund(seller, prior.Amount); err != nil {
			return err
		}
	}
	e.ledger.Deposit(seller, payment)
	e.bids[tokenID] = &ad.Bid{TokenID: tokenID, Bidder: caller, Amount: payment}
	p.ReferencePrice = payment

	e.sink.Emit(events.BidPlaced{TokenID: tokenID, Price: payment, Bidder: caller, Timestamp: now})
	return nil
}

// ReceiveToken settles an English auction: the highest bidder claims the
// period after the sale window has closed.
func (e *Engine) ReceiveToken(caller ad.Account, tokenID ad.TokenID) error {
	return e.settleEnglish(caller, tokenID, false)
}

// PushToSuccessfulBidder settles an English auction from the seller side,
// delivering the period to the highest bidder.
func (e *Engine) PushToSuccessfulBidder(caller ad.Account, tokenID ad.TokenID) error {
	return e.settleEnglish(caller, tokenID, true)
}

func (e *Engine) settleEnglish(caller ad.Account, tokenID ad.TokenID, sellerInitiated bool) error {
	now := e.clock.Now()
	p, ok := e.periods[tokenID]
	if !ok {
		return ad.ErrPeriodNotFound
	}
	if p.Pricing != ad.English {
		return ad.ErrWrongPricing
	}
	if p.Sold {
		return ad.ErrAlreadySold
	}
	seller, err := e.scheduler.OwnerOf(p.SpaceID)
	if err != nil {
		return err
	}
	bid := e.bids[tokenID]
	if bid == nil {
		return ad.ErrNoBids
	}
	// Settlement opens strictly after the sale window closes.
	if now <= p.SaleEnd {
		return ad.ErrSaleNotEnded
	}
	if sellerInitiated {
		if !e.accounts.IsOperator(caller, seller) {
			return ad.ErrNotSpaceOwner
		}
	} else if caller != bid.Bidder {
		return ad.ErrNotHighestBidder
	}

	// The winning deposit is already escrowed; only the split remains.
	_ = e.ledger.SplitOnSale(seller, bid.Amount)
	p.Sold = true
	p.Owner = bid.Bidder
	delete(e.bids, tokenID)

	e.sink.Emit(events.ReceiveToken{TokenID: tokenID, Price: bid.Amount, Buyer: bid.Bidder, Timestamp: now})
	e.sink.Emit(events.Transfer{From: seller, To: bid.Bidder, TokenID: tokenID})
	return nil
}

// Bidding returns the standing English bid on a period, if any.
func (e *Engine) Bidding(tokenID ad.TokenID) (*ad.Bid, error) {
	bid, ok := e.bids[tokenID]
	if !ok {
		return nil, ad.ErrNoBids
	}
	return bid, nil
}
