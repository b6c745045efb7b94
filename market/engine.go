package market

import (
	"github.com/shopspring/decimal"

	"github.com/shuuuting95/kaleido-core/ad"
	"github.com/shuuuting95/kaleido-core/events"
	"github.com/shuuuting95/kaleido-core/ledger"
	"github.com/shuuuting95/kaleido-core/metrics"
	"github.com/shuuuting95/kaleido-core/pricing"
	"github.com/shuuuting95/kaleido-core/schedule"
)

// AccountResolver answers the two identity questions the engine asks: may
// a caller act for a media account, and which account does a caller act
// as. The account registry implements it.
type AccountResolver interface {
	// IsOperator reports whether caller may act on behalf of media.
	IsOperator(caller, media ad.Account) bool
	// ActingAccount maps a caller to the media account it operates, or to
	// itself when it operates none.
	ActingAccount(caller ad.Account) ad.Account
}

// Engine owns the Period, Bid, and Offer records and runs the four sale
// protocols against the scheduler, pricing functions, and escrow ledger.
// It is not safe for concurrent use; the facade serializes access.
type Engine struct {
	scheduler *schedule.Scheduler
	ledger    *ledger.Ledger
	accounts  AccountResolver
	clock     ad.Clock
	sink      events.Sink

	periods      map[ad.TokenID]*ad.Period
	bids         map[ad.TokenID]*ad.Bid
	sealedBids   map[ad.TokenID][]ad.SealedBid
	offers       map[ad.TokenID]*ad.Offer
	spacePeriods map[string][]ad.TokenID
}

// NewEngine wires an engine from its collaborators.
func NewEngine(sched *schedule.Scheduler, led *ledger.Ledger, accounts AccountResolver, clock ad.Clock, sink events.Sink) *Engine {
	return &Engine{
		scheduler:    sched,
		ledger:       led,
		accounts:     accounts,
		clock:        clock,
		sink:         sink,
		periods:      make(map[ad.TokenID]*ad.Period),
		bids:         make(map[ad.TokenID]*ad.Bid),
		sealedBids:   make(map[ad.TokenID][]ad.SealedBid),
		offers:       make(map[ad.TokenID]*ad.Offer),
		spacePeriods: make(map[string][]ad.TokenID),
	}
}

// NewSpace registers a space id for the caller's acting account. Space ids
// are globally unique; registering a taken id fails regardless of owner.
func (e *Engine) NewSpace(caller ad.Account, spaceID string) error {
	owner := e.accounts.ActingAccount(caller)
	if err := e.scheduler.Register(spaceID, owner); err != nil {
		return err
	}
	e.sink.Emit(events.NewSpace{SpaceID: spaceID, Owner: owner})
	return nil
}

// NewPeriod lists a new sale period on a space owned by the caller's
// acting account, reserving its display window. Listing on a fresh space
// implies registering the space, but only once every check that can reject
// the listing has passed: a rejected listing must leave no trace.
func (e *Engine) NewPeriod(caller ad.Account, spaceID, contentMetadata string, saleEnd, displayStart, displayEnd int64, kind ad.PricingKind, minPrice decimal.Decimal) (*ad.Period, error) {
	now := e.clock.Now()
	if !kind.Valid() {
		return nil, ad.ErrWrongPricing
	}
	if saleEnd <= now {
		return nil, ad.ErrPastSaleEnd
	}
	if displayStart < saleEnd || displayEnd <= displayStart {
		return nil, ad.ErrBadOrdering
	}
	registered := e.scheduler.Registered(spaceID)
	owner := e.accounts.ActingAccount(caller)
	if registered {
		var err error
		if owner, err = e.scheduler.OwnerOf(spaceID); err != nil {
			return nil, err
		}
	}
	if !e.accounts.IsOperator(caller, owner) {
		return nil, ad.ErrNotSpaceOwner
	}
	if !registered {
		if err := e.NewSpace(caller, spaceID); err != nil {
			return nil, err
		}
	}
	// On a fresh space the window cannot conflict, so Reserve cannot fail
	// after the registration above.
	tokenID, err := e.scheduler.Reserve(spaceID, displayStart, displayEnd)
	if err != nil {
		return nil, err
	}

	p := &ad.Period{
		TokenID:         tokenID,
		SpaceID:         spaceID,
		ContentMetadata: contentMetadata,
		CreatedAt:       now,
		SaleEnd:         saleEnd,
		DisplayStart:    displayStart,
		DisplayEnd:      displayEnd,
		Pricing:         kind,
		MinPrice:        minPrice,
		ReferencePrice:  pricing.StartPrice(kind, minPrice),
		Owner:           owner,
	}
	e.periods[tokenID] = p
	e.spacePeriods[spaceID] = append(e.spacePeriods[spaceID], tokenID)
	metrics.PeriodsLive.Inc()

	e.sink.Emit(events.NewPeriod{
		TokenID:         tokenID,
		SpaceID:         spaceID,
		ContentMetadata: contentMetadata,
		CreatedAt:       now,
		SaleEnd:         saleEnd,
		DisplayStart:    displayStart,
		DisplayEnd:      displayEnd,
		Pricing:         kind,
		MinPrice:        minPrice,
	})
	e.sink.Emit(events.Transfer{From: ad.ZeroAccount, To: owner, TokenID: tokenID})
	return p, nil
}

// DeletePeriod reclaims an unsold period with no active bids, freeing its
// display window. The same window re-lists under the same token id.
func (e *Engine) DeletePeriod(caller ad.Account, tokenID ad.TokenID) error {
	p, ok := e.periods[tokenID]
	if !ok {
		return ad.ErrPeriodNotFound
	}
	owner, err := e.scheduler.OwnerOf(p.SpaceID)
	if err != nil {
		return err
	}
	if !e.accounts.IsOperator(caller, owner) {
		return ad.ErrNotSpaceOwner
	}
	if p.Sold {
		return ad.ErrAlreadySold
	}
	if _, active := e.bids[tokenID]; active {
		return ad.ErrHasActiveBids
	}
	if len(e.sealedBids[tokenID]) > 0 {
		return ad.ErrHasActiveBids
	}

	if err := e.scheduler.Release(tokenID); err != nil {
		return err
	}
	delete(e.periods, tokenID)
	e.removeFromSpace(p.SpaceID, tokenID)
	metrics.PeriodsLive.Dec()

	e.sink.Emit(events.DeletePeriod{TokenID: tokenID})
	e.sink.Emit(events.Transfer{From: p.Owner, To: ad.ZeroAccount, TokenID: tokenID})
	return nil
}

// Buy purchases a fixed-price period for exactly its listed price.
func (e *Engine) Buy(caller ad.Account, tokenID ad.TokenID, payment decimal.Decimal) error {
	now := e.clock.Now()
	p, ok := e.periods[tokenID]
	if !ok {
		return ad.ErrPeriodNotFound
	}
	if p.Pricing != ad.Fixed {
		return ad.ErrWrongPricing
	}
	if p.Sold {
		return ad.ErrAlreadySold
	}
	seller, err := e.scheduler.OwnerOf(p.SpaceID)
	if err != nil {
		return err
	}
	if e.accounts.IsOperator(caller, seller) {
		return ad.ErrSellerCannotBuy
	}
	if !payment.Equal(p.MinPrice) {
		return ad.ErrWrongAmount
	}

	e.settleSale(p, seller, caller, payment)
	e.sink.Emit(events.Buy{TokenID: tokenID, Price: payment, Buyer: caller, Timestamp: now})
	e.sink.Emit(events.Transfer{From: seller, To: caller, TokenID: tokenID})
	return nil
}

// BuyBasedOnTime purchases a time-decay period for exactly its current
// price. The mode closes at the end of the sale window.
func (e *Engine) BuyBasedOnTime(caller ad.Account, tokenID ad.TokenID, payment decimal.Decimal) error {
	now := e.clock.Now()
	p, ok := e.periods[tokenID]
	if !ok {
		return ad.ErrPeriodNotFound
	}
	if p.Pricing != ad.TimeDecay {
		return ad.ErrWrongPricing
	}
	if p.Sold {
		return ad.ErrAlreadySold
	}
	if now >= p.SaleEnd {
		return ad.ErrSaleEnded
	}
	seller, err := e.scheduler.OwnerOf(p.SpaceID)
	if err != nil {
		return err
	}
	if e.accounts.IsOperator(caller, seller) {
		return ad.ErrSellerCannotBuy
	}
	price := pricing.CurrentPrice(p, now)
	if !payment.Equal(price) {
		return ad.ErrWrongAmount
	}

	e.settleSale(p, seller, caller, payment)
	e.sink.Emit(events.Buy{TokenID: tokenID, Price: payment, Buyer: caller, Timestamp: now})
	e.sink.Emit(events.Transfer{From: seller, To: caller, TokenID: tokenID})
	return nil
}

// settleSale escrows the payment, routes the fee split, and moves the
// period to its terminal Sold state under the buyer.
func (e *Engine) settleSale(p *ad.Period, seller, buyer ad.Account, gross decimal.Decimal) {
	e.ledger.Deposit(seller, gross)
	// Deposit precedes the split, so the split cannot fail.
	_ = e.ledger.SplitOnSale(seller, gross)
	p.Sold = true
	p.Owner = buyer
}

// TransferPeriod moves a sold period to another account. Only the current
// owner may transfer.
func (e *Engine) TransferPeriod(caller, to ad.Account, tokenID ad.TokenID) error {
	p, ok := e.periods[tokenID]
	if !ok {
		return ad.ErrPeriodNotFound
	}
	if !p.Sold {
		return ad.ErrUnsoldPeriod
	}
	if p.Owner != caller {
		return ad.ErrNotTokenOwner
	}
	p.Owner = to
	e.sink.Emit(events.Transfer{From: caller, To: to, TokenID: tokenID})
	return nil
}

func (e *Engine) removeFromSpace(spaceID string, tokenID ad.TokenID) {
	ids := e.spacePeriods[spaceID]
	for i, id := range ids {
		if id == tokenID {
			e.spacePeriods[spaceID] = append(ids[:i], ids[i+1:]...)
			return
		}
	}
}

// Period returns the live period for the token.
func (e *Engine) Period(tokenID ad.TokenID) (*ad.Period, error) {
	p, ok := e.periods[tokenID]
	if !ok {
		return nil, ad.ErrPeriodNotFound
	}
	return p, nil
}

// PeriodsOf returns the live periods listed on a space.
func (e *Engine) PeriodsOf(spaceID string) []*ad.Period {
	ids := e.spacePeriods[spaceID]
	out := make([]*ad.Period, 0, len(ids))
	for _, id := range ids {
		if p, ok := e.periods[id]; ok {
			out = append(out, p)
		}
	}
	return out
}

// SpaceOwner resolves the owning account of a space.
func (e *Engine) SpaceOwner(spaceID string) (ad.Account, error) {
	return e.scheduler.OwnerOf(spaceID)
}

// CurrentPrice returns the price payable for the period right now.
func (e *Engine) CurrentPrice(tokenID ad.TokenID) (decimal.Decimal, error) {
	now := e.clock.Now()
	p, ok := e.periods[tokenID]
	if !ok {
		return decimal.Zero, ad.ErrPeriodNotFound
	}
	return pricing.CurrentPrice(p, now), nil
}
