package facade

import (
	"sync"

	"github.com/shopspring/decimal"

	"github.com/shuuuting95/kaleido-core/ad"
	"github.com/shuuuting95/kaleido-core/events"
	"github.com/shuuuting95/kaleido-core/ledger"
	"github.com/shuuuting95/kaleido-core/market"
	"github.com/shuuuting95/kaleido-core/registry"
	"github.com/shuuuting95/kaleido-core/review"
	"github.com/shuuuting95/kaleido-core/schedule"
)

// Facade is the single entry point for all marketplace operations. Every
// method takes the calling principal explicitly; the HTTP layer resolves
// it from the request. A facade-wide mutex totally orders operations, so
// the components underneath need no locking of their own.
type Facade struct {
	mu sync.Mutex

	clock    ad.Clock
	media    *registry.MediaRegistry
	engine   *market.Engine
	workflow *review.Workflow
	ledger   *ledger.Ledger
	vault    *ledger.FeeVault
	sink     events.Sink
}

// New assembles a facade and all engine components around the given clock
// and event sink.
func New(clock ad.Clock, sink events.Sink) *Facade {
	vault := ledger.NewFeeVault()
	led := ledger.NewLedger(vault)
	media := registry.NewMediaRegistry(sink)
	sched := schedule.NewScheduler()
	engine := market.NewEngine(sched, led, media, clock, sink)
	workflow := review.NewWorkflow(engine, media, sink)
	return &Facade{
		clock:    clock,
		media:    media,
		engine:   engine,
		workflow: workflow,
		ledger:   led,
		vault:    vault,
		sink:     sink,
	}
}

// NewMedia registers a media account under an operating account.
func (f *Facade) NewMedia(account, operator ad.Account, metadata string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.media.NewMedia(account, operator, metadata)
}

// UpdateMedia re-keys a media account to a new operator.
func (f *Facade) UpdateMedia(caller, account, operator ad.Account, metadata string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.media.UpdateMedia(caller, account, operator, metadata)
}

// NewSpace registers a globally unique space id for the caller.
func (f *Facade) NewSpace(caller ad.Account, spaceID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.engine.NewSpace(caller, spaceID)
}

// NewPeriod lists a sale period on one of the caller's spaces.
func (f *Facade) NewPeriod(caller ad.Account, spaceID, contentMetadata string, saleEnd, displayStart, displayEnd int64, kind ad.PricingKind, minPrice decimal.Decimal) (*ad.Period, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.engine.NewPeriod(caller, spaceID, contentMetadata, saleEnd, displayStart, displayEnd, kind, minPrice)
}

// DeletePeriod reclaims an unsold period.
func (f *Facade) DeletePeriod(caller ad.Account, tokenID ad.TokenID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.engine.DeletePeriod(caller, tokenID)
}

// Buy purchases a fixed-price period.
func (f *Facade) Buy(caller ad.Account, tokenID ad.TokenID, payment decimal.Decimal) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.engine.Buy(caller, tokenID, payment)
}

// BuyBasedOnTime purchases a time-decay period at its current price.
func (f *Facade) BuyBasedOnTime(caller ad.Account, tokenID ad.TokenID, payment decimal.Decimal) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.engine.BuyBasedOnTime(caller, tokenID, payment)
}

// Bid places or replaces the highest bid on an English-auction period.
func (f *Facade) Bid(caller ad.Account, tokenID ad.TokenID, payment decimal.Decimal) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.engine.Bid(caller, tokenID, payment)
}

// BidWithProposal appends a sealed bid with content to a sealed period.
func (f *Facade) BidWithProposal(caller ad.Account, tokenID ad.TokenID, proposalMetadata string, payment decimal.Decimal) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.engine.BidWithProposal(caller, tokenID, proposalMetadata, payment)
}

// ReceiveToken lets the highest bidder claim a settled English auction.
func (f *Facade) ReceiveToken(caller ad.Account, tokenID ad.TokenID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.engine.ReceiveToken(caller, tokenID)
}

// PushToSuccessfulBidder settles an English auction from the seller side.
func (f *Facade) PushToSuccessfulBidder(caller ad.Account, tokenID ad.TokenID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.engine.PushToSuccessfulBidder(caller, tokenID)
}

// SelectProposal resolves a sealed-proposal auction in favor of one bid.
func (f *Facade) SelectProposal(caller ad.Account, tokenID ad.TokenID, index int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.engine.SelectProposal(caller, tokenID, index)
}

// OfferPeriod records an unsolicited offer for an unlisted window.
func (f *Facade) OfferPeriod(caller ad.Account, spaceID string, displayStart, displayEnd int64, payment decimal.Decimal) (*ad.Offer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.engine.OfferPeriod(caller, spaceID, displayStart, displayEnd, payment)
}

// CancelOffer withdraws and refunds an open offer.
func (f *Facade) CancelOffer(caller ad.Account, tokenID ad.TokenID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.engine.CancelOffer(caller, tokenID)
}

// AcceptOffer converts an open offer into a sold period.
func (f *Facade) AcceptOffer(caller ad.Account, tokenID ad.TokenID, contentMetadata string) (*ad.Period, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.engine.AcceptOffer(caller, tokenID, contentMetadata)
}

// TransferPeriod moves a sold period to another account.
func (f *Facade) TransferPeriod(caller, to ad.Account, tokenID ad.TokenID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.engine.TransferPeriod(caller, to, tokenID)
}

// Propose submits content for a bought period.
func (f *Facade) Propose(caller ad.Account, tokenID ad.TokenID, metadata string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.workflow.Propose(caller, tokenID, metadata)
}

// AcceptProposal approves the pending content for display.
func (f *Facade) AcceptProposal(caller ad.Account, tokenID ad.TokenID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.workflow.AcceptProposal(caller, tokenID)
}

// DenyProposal rejects the pending content with a reason.
func (f *Facade) DenyProposal(caller ad.Account, tokenID ad.TokenID, reason string, offensive bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.workflow.DenyProposal(caller, tokenID, reason, offensive)
}

// Display returns the content on display for a space right now.
func (f *Facade) Display(spaceID string) (string, ad.TokenID) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.workflow.Display(spaceID, f.clock.Now())
}

// Withdraw transfers the caller's entire withdrawable earnings out.
func (f *Facade) Withdraw(caller ad.Account) (decimal.Decimal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	account := f.media.ActingAccount(caller)
	amount, err := f.ledger.Withdraw(account)
	if err != nil {
		return decimal.Zero, err
	}
	f.sink.Emit(events.Withdraw{Account: account, Amount: amount})
	return amount, nil
}

// DirectTransfer books an unsolicited inbound transfer to an account,
// splitting it evenly with the platform vault.
func (f *Facade) DirectTransfer(account ad.Account, amount decimal.Decimal) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ledger.SplitOnDirectTransfer(f.media.ActingAccount(account), amount)
}

// CurrentPrice returns the price payable for a period right now.
func (f *Facade) CurrentPrice(tokenID ad.TokenID) (decimal.Decimal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.engine.CurrentPrice(tokenID)
}

// Period returns the live period record for a token.
func (f *Facade) Period(tokenID ad.TokenID) (*ad.Period, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.engine.Period(tokenID)
}

// PeriodsOf returns the live periods on a space.
func (f *Facade) PeriodsOf(spaceID string) []*ad.Period {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.engine.PeriodsOf(spaceID)
}

// Bidding returns the standing English bid on a period.
func (f *Facade) Bidding(tokenID ad.TokenID) (*ad.Bid, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.engine.Bidding(tokenID)
}

// BiddingList returns the open sealed bids on a period.
func (f *Facade) BiddingList(tokenID ad.TokenID) []ad.SealedBid {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.engine.BiddingList(tokenID)
}

// Offered returns the open offer for a window.
func (f *Facade) Offered(tokenID ad.TokenID) (*ad.Offer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.engine.Offered(tokenID)
}

// Proposed returns the proposal record for a period.
func (f *Facade) Proposed(tokenID ad.TokenID) (*ad.Proposal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.workflow.Proposed(tokenID)
}

// Balance returns all funds held for the caller's acting account.
func (f *Facade) Balance(caller ad.Account) decimal.Decimal {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.ledger.Balance(f.media.ActingAccount(caller))
}

// Withdrawable returns the caller's withdrawable earnings.
func (f *Facade) Withdrawable(caller ad.Account) decimal.Decimal {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.ledger.Withdrawable(f.media.ActingAccount(caller))
}

// VaultBalance returns the platform fees collected and not withdrawn.
func (f *Facade) VaultBalance() decimal.Decimal {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.vault.Balance()
}

// WithdrawFees transfers part of the collected platform fees out.
func (f *Facade) WithdrawFees(amount decimal.Decimal) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.vault.Withdraw(amount)
}
