package market

import (
	"github.com/shopspring/decimal"

	"github.com/shuuuting95/kaleido-core/ad"
	"github.com/shuuuting95/kaleido-core/events"
)

// BidWithProposal appends a sealed bid with its content proposal to a
// sealed-proposal period. Every bid must clear the listing minimum on its
// own; all bids stay escrowed until the seller resolves the auction.
func (e *Engine) BidWithProposal(caller ad.Account, tokenID ad.TokenID, proposalMetadata string, payment decimal.Decimal) error {
	now := e.clock.Now()
	p, ok := e.periods[tokenID]
	if !ok {
		return ad.ErrPeriodNotFound
	}
	if p.Pricing != ad.Sealed {
		return ad.ErrWrongPricing
	}
	if p.Sold {
		return ad.ErrAlreadySold
	}
	seller, err := e.scheduler.OwnerOf(p.SpaceID)
	if err != nil {
		return err
	}
	if payment.LessThan(p.MinPrice) {
		return ad.ErrPaymentTooLow
	}

	e.ledger.Deposit(seller, payment)
	e.sealedBids[tokenID] = append(e.sealedBids[tokenID], ad.SealedBid{
		TokenID:          tokenID,
		Bidder:           caller,
		Amount:           payment,
		ProposalMetadata: proposalMetadata,
	})

	e.sink.Emit(events.SealedBidPlaced{
		TokenID:          tokenID,
		Price:            payment,
		Bidder:           caller,
		ProposalMetadata: proposalMetadata,
		Timestamp:        now,
	})
	return nil
}

// SelectProposal resolves a sealed-proposal auction: the space owner picks
// one bid as the winner after the sale window closes. The winner's deposit
// is split with the platform and every losing bid is refunded in the same
// atomic step; resolution is terminal.
func (e *Engine) SelectProposal(caller ad.Account, tokenID ad.TokenID, index int) error {
	p, ok := e.periods[tokenID]
	if !ok {
		return ad.ErrPeriodNotFound
	}
	if p.Pricing != ad.Sealed {
		return ad.ErrWrongPricing
	}
	if p.Sold {
		return ad.ErrAlreadySold
	}
	seller, err := e.scheduler.OwnerOf(p.SpaceID)
	if err != nil {
		return err
	}
	if !e.accounts.IsOperator(caller, seller) {
		return ad.ErrNotSpaceOwner
	}
	now := e.clock.Now()
	if now <= p.SaleEnd {
		return ad.ErrSaleNotEnded
	}
	bids := e.sealedBids[tokenID]
	if len(bids) == 0 {
		return ad.ErrNoBids
	}
	if index < 0 || index >= len(bids) {
		return ad.ErrNoSuchBid
	}

	winner := bids[index]
	_ = e.ledger.SplitOnSale(seller, winner.Amount)
	for i, bid := range bids {
		if i == index {
			continue
		}
		_ = e.ledger.Refund(seller, bid.Amount)
	}
	delete(e.sealedBids, tokenID)
	p.Sold = true
	p.Owner = winner.Bidder
	p.ReferencePrice = winner.Amount

	e.sink.Emit(events.SelectProposal{TokenID: tokenID, Winner: winner.Bidder})
	e.sink.Emit(events.Transfer{From: seller, To: winner.Bidder, TokenID: tokenID})
	return nil
}

// BiddingList returns the open sealed bids on a period, in arrival order.
func (e *Engine) BiddingList(tokenID ad.TokenID) []ad.SealedBid {
	bids := e.sealedBids[tokenID]
	out := make([]ad.SealedBid, len(bids))
	copy(out, bids)
	return out
}
