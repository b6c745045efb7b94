package ad

import "errors"

// ErrorKind classifies engine failures. Every rejected operation leaves
// state unchanged; a kind tells the API layer which status to report, and
// callers which failures are worth retrying with different inputs.
type ErrorKind int

const (
	// KindValidation covers malformed input: bad time ordering, an
	// overlapping window, or an operation illegal for the period's
	// pricing kind.
	KindValidation ErrorKind = iota
	// KindAuthorization covers a caller that is not the required
	// principal for the operation.
	KindAuthorization
	// KindConflict covers operations that are legal in some other state:
	// already sold, already resolved, blocked by active bids.
	KindConflict
	// KindPayment covers amounts below or unequal to the required price.
	KindPayment
	// KindTiming covers operations attempted outside their valid window.
	KindTiming
	// KindNotFound covers references to records that do not exist.
	KindNotFound
)

// Error is a business-rule rejection. Engine errors are sentinel values;
// compare with errors.Is.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string { return e.Message }

func newErr(kind ErrorKind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

var (
	ErrBadTokenID = newErr(KindValidation, "malformed token id")

	// Space registry.
	ErrSpaceExists   = newErr(KindConflict, "space id already registered")
	ErrSpaceNotFound = newErr(KindNotFound, "space not found")
	ErrNotSpaceOwner = newErr(KindAuthorization, "caller does not own the space")

	// Interval scheduling.
	ErrBadOrdering = newErr(KindValidation, "display window ordering is invalid")
	ErrOverlap     = newErr(KindValidation, "display window overlaps a live period")
	ErrPastSaleEnd = newErr(KindValidation, "sale end is in the past")

	// Period lifecycle.
	ErrPeriodNotFound = newErr(KindNotFound, "period not found")
	ErrAlreadySold    = newErr(KindConflict, "period already sold")
	ErrHasActiveBids  = newErr(KindConflict, "period has active bids")
	ErrWrongPricing   = newErr(KindValidation, "operation not legal for this pricing kind")
	ErrSellerCannotBuy = newErr(KindAuthorization, "space owner cannot buy own period")

	// Payments.
	ErrWrongAmount       = newErr(KindPayment, "payment does not equal the current price")
	ErrPaymentTooLow     = newErr(KindPayment, "payment below the required minimum")
	ErrInsufficientFunds = newErr(KindPayment, "insufficient escrowed funds")
	ErrNothingToWithdraw = newErr(KindPayment, "no withdrawable funds")

	// Auctions.
	ErrSaleEnded        = newErr(KindTiming, "sale window already ended")
	ErrSaleNotEnded     = newErr(KindTiming, "sale window has not ended")
	ErrNotHighestBidder = newErr(KindAuthorization, "caller is not the highest bidder")
	ErrNoBids           = newErr(KindConflict, "no bids to settle")
	ErrNoSuchBid        = newErr(KindValidation, "bid index out of range")

	// Offers.
	ErrOfferNotFound = newErr(KindNotFound, "offer not found")
	ErrOfferExists   = newErr(KindConflict, "an open offer already exists for this window")
	ErrNotOfferer    = newErr(KindAuthorization, "caller did not create the offer")

	// Proposals.
	ErrNoProposal       = newErr(KindNotFound, "no proposal for this period")
	ErrNotTokenOwner    = newErr(KindAuthorization, "caller does not own the period")
	ErrAlreadyAccepted  = newErr(KindConflict, "proposal already accepted")
	ErrTokenTransferred = newErr(KindConflict, "period owner changed since the proposal")

	// Accounts.
	ErrMediaExists      = newErr(KindConflict, "media account already registered")
	ErrMediaNotFound    = newErr(KindNotFound, "media account not found")
	ErrNotMediaOperator = newErr(KindAuthorization, "caller does not operate the media account")

	// Transfers.
	ErrUnsoldPeriod = newErr(KindConflict, "period has not been sold")
)

// KindOf returns the kind of an engine error, or KindConflict for errors
// that did not originate in the engine.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindConflict
}
