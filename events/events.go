package events

import (
	"github.com/shopspring/decimal"

	"github.com/shuuuting95/kaleido-core/ad"
)

// Event is a marker for marketplace notifications. Name returns a stable
// identifier used by journaling sinks.
type Event interface {
	Name() string
}

// Sink consumes events. Emit must not fail the emitting operation; sinks
// swallow their own errors.
type Sink interface {
	Emit(ev Event)
}

// NewSpace reports a freshly registered space.
type NewSpace struct {
	SpaceID string     `json:"space_id"`
	Owner   ad.Account `json:"owner"`
}

// NewPeriod reports a freshly listed period.
type NewPeriod struct {
	TokenID         ad.TokenID      `json:"token_id"`
	SpaceID         string          `json:"space_id"`
	ContentMetadata string          `json:"content_metadata"`
	CreatedAt       int64           `json:"created_at"`
	SaleEnd         int64           `json:"sale_end"`
	DisplayStart    int64           `json:"display_start"`
	DisplayEnd      int64           `json:"display_end"`
	Pricing         ad.PricingKind  `json:"pricing"`
	MinPrice        decimal.Decimal `json:"min_price"`
}

// DeletePeriod reports an unsold period being reclaimed.
type DeletePeriod struct {
	TokenID ad.TokenID `json:"token_id"`
}

// Transfer reports period ownership moving between accounts. Mints carry a
// zero From; burns carry a zero To.
type Transfer struct {
	From    ad.Account `json:"from"`
	To      ad.Account `json:"to"`
	TokenID ad.TokenID `json:"token_id"`
}

// Buy reports a fixed-price or Dutch purchase.
type Buy struct {
	TokenID   ad.TokenID      `json:"token_id"`
	Price     decimal.Decimal `json:"price"`
	Buyer     ad.Account      `json:"buyer"`
	Timestamp int64           `json:"timestamp"`
}

// BidPlaced reports a new highest English-auction bid.
type BidPlaced struct {
	TokenID   ad.TokenID      `json:"token_id"`
	Price     decimal.Decimal `json:"price"`
	Bidder    ad.Account      `json:"bidder"`
	Timestamp int64           `json:"timestamp"`
}

// SealedBidPlaced reports a new sealed proposal bid.
type SealedBidPlaced struct {
	TokenID          ad.TokenID      `json:"token_id"`
	Price            decimal.Decimal `json:"price"`
	Bidder           ad.Account      `json:"bidder"`
	ProposalMetadata string          `json:"proposal_metadata"`
	Timestamp        int64           `json:"timestamp"`
}

// SelectProposal reports a sealed auction resolved in favor of one bidder.
type SelectProposal struct {
	TokenID ad.TokenID `json:"token_id"`
	Winner  ad.Account `json:"winner"`
}

// ReceiveToken reports an English auction settled, by pull or push.
type ReceiveToken struct {
	TokenID   ad.TokenID      `json:"token_id"`
	Price     decimal.Decimal `json:"price"`
	Buyer     ad.Account      `json:"buyer"`
	Timestamp int64           `json:"timestamp"`
}

// OfferPeriod reports an unsolicited offer for an unlisted window.
type OfferPeriod struct {
	TokenID      ad.TokenID      `json:"token_id"`
	SpaceID      string          `json:"space_id"`
	DisplayStart int64           `json:"display_start"`
	DisplayEnd   int64           `json:"display_end"`
	Bidder       ad.Account      `json:"bidder"`
	Price        decimal.Decimal `json:"price"`
}

// CancelOffer reports an offer withdrawn by its bidder.
type CancelOffer struct {
	TokenID ad.TokenID `json:"token_id"`
}

// AcceptOffer reports an offer converted into a sold period.
type AcceptOffer struct {
	TokenID         ad.TokenID      `json:"token_id"`
	SpaceID         string          `json:"space_id"`
	ContentMetadata string          `json:"content_metadata"`
	DisplayStart    int64           `json:"display_start"`
	DisplayEnd      int64           `json:"display_end"`
	Price           decimal.Decimal `json:"price"`
}

// Propose reports content submitted for review.
type Propose struct {
	TokenID  ad.TokenID `json:"token_id"`
	Metadata string     `json:"metadata"`
}

// AcceptProposal reports content approved for display.
type AcceptProposal struct {
	TokenID  ad.TokenID `json:"token_id"`
	Metadata string     `json:"metadata"`
}

// DenyProposal reports content rejected, with the reviewer's reason.
type DenyProposal struct {
	TokenID   ad.TokenID `json:"token_id"`
	Metadata  string     `json:"metadata"`
	Reason    string     `json:"reason"`
	Offensive bool       `json:"offensive"`
}

// Withdraw reports a media account withdrawing its earnings.
type Withdraw struct {
	Account ad.Account      `json:"account"`
	Amount  decimal.Decimal `json:"amount"`
}

// NewMedia reports a media account registration.
type NewMedia struct {
	Account  ad.Account `json:"account"`
	Operator ad.Account `json:"operator"`
	Metadata string     `json:"metadata"`
}

// UpdateMedia reports a media account re-keying its operator.
type UpdateMedia struct {
	Account  ad.Account `json:"account"`
	Operator ad.Account `json:"operator"`
	Metadata string     `json:"metadata"`
}

func (NewSpace) Name() string        { return "NewSpace" }
func (NewPeriod) Name() string       { return "NewPeriod" }
func (DeletePeriod) Name() string    { return "DeletePeriod" }
func (Transfer) Name() string        { return "TransferCustom" }
func (Buy) Name() string             { return "Buy" }
func (BidPlaced) Name() string       { return "Bid" }
func (SealedBidPlaced) Name() string { return "BidWithProposal" }
func (SelectProposal) Name() string  { return "SelectProposal" }
func (ReceiveToken) Name() string    { return "ReceiveToken" }
func (OfferPeriod) Name() string     { return "OfferPeriod" }
func (CancelOffer) Name() string     { return "CancelOffer" }
func (AcceptOffer) Name() string     { return "AcceptOffer" }
func (Propose) Name() string         { return "Propose" }
func (AcceptProposal) Name() string  { return "AcceptProposal" }
func (DenyProposal) Name() string    { return "DenyProposal" }
func (Withdraw) Name() string        { return "Withdraw" }
func (NewMedia) Name() string        { return "NewMedia" }
func (UpdateMedia) Name() string     { return "UpdateMedia" }
