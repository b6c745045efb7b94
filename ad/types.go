package ad

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Account identifies a principal: a media account, a buyer, or the
// platform itself. The engine treats accounts as opaque strings resolved
// by the surrounding account registry.
type Account string

// ZeroAccount is the null principal, used as the counterparty of mint and
// burn transfer events.
const ZeroAccount Account = ""

// TokenID is the deterministic identifier of a period, derived from the
// space id and the display window. Re-listing the same window on the same
// space yields the same id.
type TokenID [32]byte

// ZeroToken is the id of no period.
var ZeroToken TokenID

// NewTokenID derives the period id for a display window on a space.
func NewTokenID(spaceID string, displayStart, displayEnd int64) TokenID {
	h := sha256.New()
	h.Write([]byte(spaceID))
	var buf [16]byte
	binary.BigEndian.PutUint64(buf[0:8], uint64(displayStart))
	binary.BigEndian.PutUint64(buf[8:16], uint64(displayEnd))
	h.Write(buf[:])
	var id TokenID
	copy(id[:], h.Sum(nil))
	return id
}

// ParseTokenID decodes a hex-encoded token id.
func ParseTokenID(s string) (TokenID, error) {
	var id TokenID
	raw, err := hex.DecodeString(s)
	if err != nil {
		return id, ErrBadTokenID
	}
	if len(raw) != len(id) {
		return id, ErrBadTokenID
	}
	copy(id[:], raw)
	return id, nil
}

func (id TokenID) String() string { return hex.EncodeToString(id[:]) }

// MarshalJSON encodes the id as a hex string.
func (id TokenID) MarshalJSON() ([]byte, error) {
	return []byte(`"` + id.String() + `"`), nil
}

// UnmarshalJSON decodes a hex string id.
func (id *TokenID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return ErrBadTokenID
	}
	parsed, err := ParseTokenID(s)
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// IsZero reports whether the id refers to no period.
func (id TokenID) IsZero() bool { return id == ZeroToken }

// PricingKind selects the sale protocol governing a period. The numeric
// values follow the original pricing enum and appear on the wire and in
// the event journal.
type PricingKind int

const (
	// Fixed sells at exactly MinPrice any time while unsold.
	Fixed PricingKind = iota
	// TimeDecay sells at a linearly decaying price, from ten times
	// MinPrice at creation down to MinPrice at the end of the sale.
	TimeDecay
	// English runs an ascending open auction with a single escrowed
	// highest bid, settled after the sale ends.
	English
	// Offered marks a period materialized from an accepted offer. It is
	// never listed; periods with this kind are born sold.
	Offered
	// Sealed runs a proposal auction holding all bids in escrow until the
	// space owner selects one winner after the sale ends.
	Sealed
)

var pricingNames = map[PricingKind]string{
	Fixed:     "fixed",
	TimeDecay: "time_decay",
	English:   "english",
	Offered:   "offered",
	Sealed:    "sealed",
}

func (k PricingKind) String() string {
	if s, ok := pricingNames[k]; ok {
		return s
	}
	return "unknown"
}

// Valid reports whether the kind is one a period can be listed with.
// Offered is excluded: those periods exist only through AcceptOffer.
func (k PricingKind) Valid() bool {
	switch k {
	case Fixed, TimeDecay, English, Sealed:
		return true
	}
	return false
}

// Space is a named advertising slot category. Space ids are globally
// unique across all media accounts; the first writer wins.
type Space struct {
	ID    string  `json:"id"`
	Owner Account `json:"owner"`
}

// Period is a time-bounded sale unit on a space.
//
// Time ordering invariant: CreatedAt < SaleEnd <= DisplayStart < DisplayEnd.
// The display window is half-open [DisplayStart, DisplayEnd).
type Period struct {
	TokenID         TokenID         `json:"token_id"`
	SpaceID         string          `json:"space_id"`
	ContentMetadata string          `json:"content_metadata"`
	CreatedAt       int64           `json:"created_at"`
	SaleEnd         int64           `json:"sale_end"`
	DisplayStart    int64           `json:"display_start"`
	DisplayEnd      int64           `json:"display_end"`
	Pricing         PricingKind     `json:"pricing"`
	MinPrice        decimal.Decimal `json:"min_price"`
	ReferencePrice  decimal.Decimal `json:"reference_price"`
	Sold            bool            `json:"sold"`
	Owner           Account         `json:"owner"`
}

// Bid is the single escrowed highest bid of an English auction period.
type Bid struct {
	TokenID TokenID         `json:"token_id"`
	Bidder  Account         `json:"bidder"`
	Amount  decimal.Decimal `json:"amount"`
}

// SealedBid is one entry of a sealed proposal auction. All sealed bids on
// a period stay escrowed until the space owner resolves the auction.
type SealedBid struct {
	TokenID          TokenID         `json:"token_id"`
	Bidder           Account         `json:"bidder"`
	Amount           decimal.Decimal `json:"amount"`
	ProposalMetadata string          `json:"proposal_metadata"`
}

// Offer is an unsolicited bid for a period that does not exist yet. The
// funds are escrowed on creation and either refunded on cancellation or
// split on acceptance.
type Offer struct {
	TokenID      TokenID         `json:"token_id"`
	SpaceID      string          `json:"space_id"`
	DisplayStart int64           `json:"display_start"`
	DisplayEnd   int64           `json:"display_end"`
	Bidder       Account         `json:"bidder"`
	Amount       decimal.Decimal `json:"amount"`
}

// Proposal is content submitted by a period's buyer for the space owner's
// approval. Metadata is cleared on acceptance; the proposer reference is
// retained for audit.
type Proposal struct {
	TokenID  TokenID `json:"token_id"`
	Metadata string  `json:"metadata"`
	Proposer Account `json:"proposer"`
	Accepted bool    `json:"accepted"`
}

// Clock supplies the engine's notion of now, in unix seconds. The serving
// environment owns time; tests substitute a manual clock.
type Clock interface {
	Now() int64
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() int64 { return time.Now().Unix() }
