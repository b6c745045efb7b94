package httpserver

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/shuuuting95/kaleido-core/ad"
	"github.com/shuuuting95/kaleido-core/facade"
	"github.com/shuuuting95/kaleido-core/metrics"
)

// accountHeader carries the calling principal. The server trusts it; an
// authenticating proxy in front of the deployment sets it.
const accountHeader = "X-Kaleido-Account"

// MarketHandler exposes the marketplace facade as a JSON API.
type MarketHandler struct {
	market *facade.Facade
	log    *slog.Logger
}

// NewMarketHandler creates a handler backed by the given facade.
func NewMarketHandler(market *facade.Facade, log *slog.Logger) *MarketHandler {
	return &MarketHandler{market: market, log: log}
}

// RegisterRoutes registers all marketplace endpoints with the router.
func (h *MarketHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/media", h.handleNewMedia)
		r.Post("/media/{account}", h.handleUpdateMedia)

		r.Post("/spaces", h.handleNewSpace)
		r.Get("/spaces/{spaceID}/periods", h.handlePeriodsOf)
		r.Get("/spaces/{spaceID}/display", h.handleDisplay)
		r.Post("/spaces/{spaceID}/offers", h.handleOfferPeriod)

		r.Post("/periods", h.handleNewPeriod)
		r.Get("/periods/{tokenID}", h.handlePeriod)
		r.Delete("/periods/{tokenID}", h.handleDeletePeriod)
		r.Get("/periods/{tokenID}/price", h.handleCurrentPrice)
		r.Post("/periods/{tokenID}/buy", h.handleBuy)
		r.Post("/periods/{tokenID}/buy-by-time", h.handleBuyBasedOnTime)
		r.Post("/periods/{tokenID}/bid", h.handleBid)
		r.Get("/periods/{tokenID}/bid", h.handleBidding)
		r.Post("/periods/{tokenID}/sealed-bid", h.handleBidWithProposal)
		r.Get("/periods/{tokenID}/sealed-bids", h.handleBiddingList)
		r.Post("/periods/{tokenID}/receive", h.handleReceiveToken)
		r.Post("/periods/{tokenID}/push", h.handlePushToSuccessfulBidder)
		r.Post("/periods/{tokenID}/select", h.handleSelectProposal)
		r.Post("/periods/{tokenID}/transfer", h.handleTransferPeriod)
		r.Post("/periods/{tokenID}/proposal", h.handlePropose)
		r.Get("/periods/{tokenID}/proposal", h.handleProposed)
		r.Post("/periods/{tokenID}/proposal/accept", h.handleAcceptProposal)
		r.Post("/periods/{tokenID}/proposal/deny", h.handleDenyProposal)

		r.Get("/offers/{tokenID}", h.handleOffered)
		r.Delete("/offers/{tokenID}", h.handleCancelOffer)
		r.Post("/offers/{tokenID}/accept", h.handleAcceptOffer)

		r.Get("/balance", h.handleBalance)
		r.Post("/withdraw", h.handleWithdraw)
		r.Post("/transfers", h.handleDirectTransfer)

		r.Get("/vault", h.handleVaultBalance)
		r.Post("/vault/withdraw", h.handleWithdrawFees)
	})
}

func caller(r *http.Request) ad.Account {
	return ad.Account(r.Header.Get(accountHeader))
}

// statusFor maps an engine error kind to an HTTP status code.
func statusFor(err error) int {
	switch ad.KindOf(err) {
	case ad.KindValidation, ad.KindPayment:
		return http.StatusBadRequest
	case ad.KindAuthorization:
		return http.StatusForbidden
	case ad.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusConflict
	}
}

func (h *MarketHandler) respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		w.Write([]byte(`{"status":"ok"}`))
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.Error("encode response", "err", err)
	}
}

func (h *MarketHandler) respondError(w http.ResponseWriter, op string, err error) {
	metrics.RecordOperation(op, err)
	h.respondJSON(w, statusFor(err), map[string]string{"error": err.Error()})
}

func (h *MarketHandler) respondOK(w http.ResponseWriter, op string, v any) {
	metrics.RecordOperation(op, nil)
	h.respondJSON(w, http.StatusOK, v)
}

func (h *MarketHandler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		h.respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return false
	}
	return true
}

func (h *MarketHandler) tokenID(w http.ResponseWriter, r *http.Request) (ad.TokenID, bool) {
	id, err := ad.ParseTokenID(chi.URLParam(r, "tokenID"))
	if err != nil {
		h.respondJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return ad.TokenID{}, false
	}
	return id, true
}

type newMediaRequest struct {
	Account  ad.Account `json:"account"`
	Operator ad.Account `json:"operator"`
	Metadata string     `json:"metadata"`
}

func (h *MarketHandler) handleNewMedia(w http.ResponseWriter, r *http.Request) {
	var req newMediaRequest
	if !h.decode(w, r, &req) {
		return
	}
	if err := h.market.NewMedia(req.Account, req.Operator, req.Metadata); err != nil {
		h.respondError(w, "newMedia", err)
		return
	}
	h.respondOK(w, "newMedia", nil)
}

type updateMediaRequest struct {
	Operator ad.Account `json:"operator"`
	Metadata string     `json:"metadata"`
}

func (h *MarketHandler) handleUpdateMedia(w http.ResponseWriter, r *http.Request) {
	var req updateMediaRequest
	if !h.decode(w, r, &req) {
		return
	}
	account := ad.Account(chi.URLParam(r, "account"))
	if err := h.market.UpdateMedia(caller(r), account, req.Operator, req.Metadata); err != nil {
		h.respondError(w, "updateMedia", err)
		return
	}
	h.respondOK(w, "updateMedia", nil)
}

type newSpaceRequest struct {
	SpaceID string `json:"space_id"`
}

func (h *MarketHandler) handleNewSpace(w http.ResponseWriter, r *http.Request) {
	var req newSpaceRequest
	if !h.decode(w, r, &req) {
		return
	}
	if err := h.market.NewSpace(caller(r), req.SpaceID); err != nil {
		h.respondError(w, "newSpace", err)
		return
	}
	h.respondOK(w, "newSpace", nil)
}

type newPeriodRequest struct {
	SpaceID         string          `json:"space_id"`
	ContentMetadata string          `json:"content_metadata"`
	SaleEnd         int64           `json:"sale_end"`
	DisplayStart    int64           `json:"display_start"`
	DisplayEnd      int64           `json:"display_end"`
	Pricing         ad.PricingKind  `json:"pricing"`
	MinPrice        decimal.Decimal `json:"min_price"`
}

func (h *MarketHandler) handleNewPeriod(w http.ResponseWriter, r *http.Request) {
	var req newPeriodRequest
	if !h.decode(w, r, &req) {
		return
	}
	period, err := h.market.NewPeriod(caller(r), req.SpaceID, req.ContentMetadata,
		req.SaleEnd, req.DisplayStart, req.DisplayEnd, req.Pricing, req.MinPrice)
	if err != nil {
		h.respondError(w, "newPeriod", err)
		return
	}
	h.respondOK(w, "newPeriod", period)
}

func (h *MarketHandler) handlePeriod(w http.ResponseWriter, r *http.Request) {
	tokenID, ok := h.tokenID(w, r)
	if !ok {
		return
	}
	period, err := h.market.Period(tokenID)
	if err != nil {
		h.respondError(w, "period", err)
		return
	}
	h.respondOK(w, "period", period)
}

func (h *MarketHandler) handleDeletePeriod(w http.ResponseWriter, r *http.Request) {
	tokenID, ok := h.tokenID(w, r)
	if !ok {
		return
	}
	if err := h.market.DeletePeriod(caller(r), tokenID); err != nil {
		h.respondError(w, "deletePeriod", err)
		return
	}
	h.respondOK(w, "deletePeriod", nil)
}

func (h *MarketHandler) handleCurrentPrice(w http.ResponseWriter, r *http.Request) {
	tokenID, ok := h.tokenID(w, r)
	if !ok {
		return
	}
	price, err := h.market.CurrentPrice(tokenID)
	if err != nil {
		h.respondError(w, "currentPrice", err)
		return
	}
	h.respondOK(w, "currentPrice", map[string]decimal.Decimal{"price": price})
}

type paymentRequest struct {
	Payment decimal.Decimal `json:"payment"`
}

func (h *MarketHandler) handleBuy(w http.ResponseWriter, r *http.Request) {
	tokenID, ok := h.tokenID(w, r)
	if !ok {
		return
	}
	var req paymentRequest
	if !h.decode(w, r, &req) {
		return
	}
	if err := h.market.Buy(caller(r), tokenID, req.Payment); err != nil {
		h.respondError(w, "buy", err)
		return
	}
	h.respondOK(w, "buy", nil)
}

func (h *MarketHandler) handleBuyBasedOnTime(w http.ResponseWriter, r *http.Request) {
	tokenID, ok := h.tokenID(w, r)
	if !ok {
		return
	}
	var req paymentRequest
	if !h.decode(w, r, &req) {
		return
	}
	if err := h.market.BuyBasedOnTime(caller(r), tokenID, req.Payment); err != nil {
		h.respondError(w, "buyBasedOnTime", err)
		return
	}
	h.respondOK(w, "buyBasedOnTime", nil)
}

func (h *MarketHandler) handleBid(w http.ResponseWriter, r *http.Request) {
	tokenID, ok := h.tokenID(w, r)
	if !ok {
		return
	}
	var req paymentRequest
	if !h.decode(w, r, &req) {
		return
	}
	if err := h.market.Bid(caller(r), tokenID, req.Payment); err != nil {
		h.respondError(w, "bid", err)
		return
	}
	h.respondOK(w, "bid", nil)
}

func (h *MarketHandler) handleBidding(w http.ResponseWriter, r *http.Request) {
	tokenID, ok := h.tokenID(w, r)
	if !ok {
		return
	}
	bid, err := h.market.Bidding(tokenID)
	if err != nil {
		h.respondError(w, "bidding", err)
		return
	}
	h.respondOK(w, "bidding", bid)
}

type sealedBidRequest struct {
	Payment          decimal.Decimal `json:"payment"`
	ProposalMetadata string          `json:"proposal_metadata"`
}

func (h *MarketHandler) handleBidWithProposal(w http.ResponseWriter, r *http.Request) {
	tokenID, ok := h.tokenID(w, r)
	if !ok {
		return
	}
	var req sealedBidRequest
	if !h.decode(w, r, &req) {
		return
	}
	if err := h.market.BidWithProposal(caller(r), tokenID, req.ProposalMetadata, req.Payment); err != nil {
		h.respondError(w, "bidWithProposal", err)
		return
	}
	h.respondOK(w, "bidWithProposal", nil)
}

func (h *MarketHandler) handleBiddingList(w http.ResponseWriter, r *http.Request) {
	tokenID, ok := h.tokenID(w, r)
	if !ok {
		return
	}
	h.respondOK(w, "biddingList", h.market.BiddingList(tokenID))
}

func (h *MarketHandler) handleReceiveToken(w http.ResponseWriter, r *http.Request) {
	tokenID, ok := h.tokenID(w, r)
	if !ok {
		return
	}
	if err := h.market.ReceiveToken(caller(r), tokenID); err != nil {
		h.respondError(w, "receiveToken", err)
		return
	}
	h.respondOK(w, "receiveToken", nil)
}

func (h *MarketHandler) handlePushToSuccessfulBidder(w http.ResponseWriter, r *http.Request) {
	tokenID, ok := h.tokenID(w, r)
	if !ok {
		return
	}
	if err := h.market.PushToSuccessfulBidder(caller(r), tokenID); err != nil {
		h.respondError(w, "pushToSuccessfulBidder", err)
		return
	}
	h.respondOK(w, "pushToSuccessfulBidder", nil)
}

type selectProposalRequest struct {
	Index int `json:"index"`
}

func (h *MarketHandler) handleSelectProposal(w http.ResponseWriter, r *http.Request) {
	tokenID, ok := h.tokenID(w, r)
	if !ok {
		return
	}
	var req selectProposalRequest
	if !h.decode(w, r, &req) {
		return
	}
	if err := h.market.SelectProposal(caller(r), tokenID, req.Index); err != nil {
		h.respondError(w, "selectProposal", err)
		return
	}
	h.respondOK(w, "selectProposal", nil)
}

type offerPeriodRequest struct {
	DisplayStart int64           `json:"display_start"`
	DisplayEnd   int64           `json:"display_end"`
	Payment      decimal.Decimal `json:"payment"`
}

func (h *MarketHandler) handleOfferPeriod(w http.ResponseWriter, r *http.Request) {
	var req offerPeriodRequest
	if !h.decode(w, r, &req) {
		return
	}
	spaceID := chi.URLParam(r, "spaceID")
	offer, err := h.market.OfferPeriod(caller(r), spaceID, req.DisplayStart, req.DisplayEnd, req.Payment)
	if err != nil {
		h.respondError(w, "offerPeriod", err)
		return
	}
	h.respondOK(w, "offerPeriod", offer)
}

func (h *MarketHandler) handleOffered(w http.ResponseWriter, r *http.Request) {
	tokenID, ok := h.tokenID(w, r)
	if !ok {
		return
	}
	offer, err := h.market.Offered(tokenID)
	if err != nil {
		h.respondError(w, "offered", err)
		return
	}
	h.respondOK(w, "offered", offer)
}

func (h *MarketHandler) handleCancelOffer(w http.ResponseWriter, r *http.Request) {
	tokenID, ok := h.tokenID(w, r)
	if !ok {
		return
	}
	if err := h.market.CancelOffer(caller(r), tokenID); err != nil {
		h.respondError(w, "cancelOffer", err)
		return
	}
	h.respondOK(w, "cancelOffer", nil)
}

type acceptOfferRequest struct {
	ContentMetadata string `json:"content_metadata"`
}

func (h *MarketHandler) handleAcceptOffer(w http.ResponseWriter, r *http.Request) {
	tokenID, ok := h.tokenID(w, r)
	if !ok {
		return
	}
	var req acceptOfferRequest
	if !h.decode(w, r, &req) {
		return
	}
	period, err := h.market.AcceptOffer(caller(r), tokenID, req.ContentMetadata)
	if err != nil {
		h.respondError(w, "acceptOffer", err)
		return
	}
	h.respondOK(w, "acceptOffer", period)
}

type transferRequest struct {
	To ad.Account `json:"to"`
}

func (h *MarketHandler) handleTransferPeriod(w http.ResponseWriter, r *http.Request) {
	tokenID, ok := h.tokenID(w, r)
	if !ok {
		return
	}
	var req transferRequest
	if !h.decode(w, r, &req) {
		return
	}
	if err := h.market.TransferPeriod(caller(r), req.To, tokenID); err != nil {
		h.respondError(w, "transferPeriod", err)
		return
	}
	h.respondOK(w, "transferPeriod", nil)
}

type proposeRequest struct {
	Metadata string `json:"metadata"`
}

func (h *MarketHandler) handlePropose(w http.ResponseWriter, r *http.Request) {
	tokenID, ok := h.tokenID(w, r)
	if !ok {
		return
	}
	var req proposeRequest
	if !h.decode(w, r, &req) {
		return
	}
	if err := h.market.Propose(caller(r), tokenID, req.Metadata); err != nil {
		h.respondError(w, "propose", err)
		return
	}
	h.respondOK(w, "propose", nil)
}

func (h *MarketHandler) handleProposed(w http.ResponseWriter, r *http.Request) {
	tokenID, ok := h.tokenID(w, r)
	if !ok {
		return
	}
	proposal, err := h.market.Proposed(tokenID)
	if err != nil {
		h.respondError(w, "proposed", err)
		return
	}
	h.respondOK(w, "proposed", proposal)
}

func (h *MarketHandler) handleAcceptProposal(w http.ResponseWriter, r *http.Request) {
	tokenID, ok := h.tokenID(w, r)
	if !ok {
		return
	}
	if err := h.market.AcceptProposal(caller(r), tokenID); err != nil {
		h.respondError(w, "acceptProposal", err)
		return
	}
	h.respondOK(w, "acceptProposal", nil)
}

type denyProposalRequest struct {
	Reason    string `json:"reason"`
	Offensive bool   `json:"offensive"`
}

func (h *MarketHandler) handleDenyProposal(w http.ResponseWriter, r *http.Request) {
	tokenID, ok := h.tokenID(w, r)
	if !ok {
		return
	}
	var req denyProposalRequest
	if !h.decode(w, r, &req) {
		return
	}
	if err := h.market.DenyProposal(caller(r), tokenID, req.Reason, req.Offensive); err != nil {
		h.respondError(w, "denyProposal", err)
		return
	}
	h.respondOK(w, "denyProposal", nil)
}

func (h *MarketHandler) handlePeriodsOf(w http.ResponseWriter, r *http.Request) {
	spaceID := chi.URLParam(r, "spaceID")
	h.respondOK(w, "periodsOf", h.market.PeriodsOf(spaceID))
}

type displayResponse struct {
	Metadata string     `json:"metadata"`
	TokenID  ad.TokenID `json:"token_id"`
}

func (h *MarketHandler) handleDisplay(w http.ResponseWriter, r *http.Request) {
	spaceID := chi.URLParam(r, "spaceID")
	metadata, tokenID := h.market.Display(spaceID)
	h.respondOK(w, "display", displayResponse{Metadata: metadata, TokenID: tokenID})
}

type balanceResponse struct {
	Balance      decimal.Decimal `json:"balance"`
	Withdrawable decimal.Decimal `json:"withdrawable"`
}

func (h *MarketHandler) handleBalance(w http.ResponseWriter, r *http.Request) {
	acct := caller(r)
	h.respondOK(w, "balance", balanceResponse{
		Balance:      h.market.Balance(acct),
		Withdrawable: h.market.Withdrawable(acct),
	})
}

func (h *MarketHandler) handleWithdraw(w http.ResponseWriter, r *http.Request) {
	amount, err := h.market.Withdraw(caller(r))
	if err != nil {
		h.respondError(w, "withdraw", err)
		return
	}
	h.respondOK(w, "withdraw", map[string]decimal.Decimal{"amount": amount})
}

type directTransferRequest struct {
	Account ad.Account      `json:"account"`
	Amount  decimal.Decimal `json:"amount"`
}

func (h *MarketHandler) handleDirectTransfer(w http.ResponseWriter, r *http.Request) {
	var req directTransferRequest
	if !h.decode(w, r, &req) {
		return
	}
	h.market.DirectTransfer(req.Account, req.Amount)
	h.respondOK(w, "directTransfer", nil)
}

func (h *MarketHandler) handleVaultBalance(w http.ResponseWriter, r *http.Request) {
	h.respondOK(w, "vaultBalance", map[string]decimal.Decimal{"balance": h.market.VaultBalance()})
}

func (h *MarketHandler) handleWithdrawFees(w http.ResponseWriter, r *http.Request) {
	var req paymentRequest
	if !h.decode(w, r, &req) {
		return
	}
	if err := h.market.WithdrawFees(req.Payment); err != nil {
		h.respondError(w, "withdrawFees", err)
		return
	}
	h.respondOK(w, "withdrawFees", nil)
}
