package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/openclear-io/sealedbid/core"
	"github.com/openclear-io/sealedbid/registry"
)

// CallerHeader carries the authenticated caller identity on every request.
const CallerHeader = "X-Auction-Caller"

// Funder is the optional local-environment funding boundary. When present,
// the owner can credit bidder accounts through the admin API; production
// deployments leave it nil and fund accounts out of band.
type Funder interface {
	Deposit(account core.Identity, amount decimal.Decimal)
}

// Handler routes registry operations.
type Handler struct {
	reg    *registry.Registry
	funder Funder
}

// NewHandler creates a Handler. funder may be nil.
func NewHandler(reg *registry.Registry, funder Funder) *Handler {
	return &Handler{reg: reg, funder: funder}
}

// RegisterRoutes mounts all auction endpoints on the router.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auctions", h.createAuction)
		r.Get("/auctions/{auctionID}", h.getAuction)
		r.Get("/auctions/{auctionID}/bidders", h.getBidders)
		r.Get("/auctions/{auctionID}/bids/{bidder}", h.getBid)
		r.Post("/auctions/{auctionID}/cancel", h.cancelAuction)
		r.Post("/auctions/{auctionID}/commit", h.commitBid)
		r.Post("/auctions/{auctionID}/reveal", h.revealBid)
		r.Post("/auctions/{auctionID}/withdraw", h.withdrawBid)
		r.Post("/auctions/{auctionID}/end", h.endAuction)

		r.Get("/fees", h.totalFees)
		r.Get("/commit-hash", h.commitHash)

		r.Post("/admin/fees/withdraw", h.withdrawFees)
		r.Post("/admin/fee-percent", h.setFeePercent)
		r.Post("/admin/pause", h.pause)
		r.Post("/admin/unpause", h.unpause)
		if h.funder != nil {
			r.Post("/admin/bank/deposit", h.deposit)
		}
	})
}

type errorResponse struct {
	Error string `json:"error"`
}

// statusFor maps the registry error taxonomy onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, core.ErrInvalidInput), errors.Is(err, core.ErrFeeTooHigh):
		return http.StatusBadRequest
	case errors.Is(err, core.ErrUnauthorized):
		return http.StatusForbidden
	case errors.Is(err, core.ErrPaused):
		return http.StatusServiceUnavailable
	case errors.Is(err, core.ErrTransferFailed):
		return http.StatusBadGateway
	default:
		// Phase, state, commitment, and withdrawal violations are all
		// conflicts with the auction's current state.
		return http.StatusConflict
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("ERROR: encoding response: %v", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusFor(err), errorResponse{Error: err.Error()})
}

func caller(r *http.Request) core.Identity {
	return core.Identity(r.Header.Get(CallerHeader))
}

func auctionID(r *http.Request) (core.AuctionID, error) {
	raw := chi.URLParam(r, "auctionID")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, core.ErrInvalidState
	}
	return core.AuctionID(id), nil
}

type createAuctionRequest struct {
	ItemName        string          `json:"item_name"`
	ItemDescription string          `json:"item_description"`
	StartingPrice   decimal.Decimal `json:"starting_price"`
	CommitDuration  string          `json:"commit_duration"`
	RevealDuration  string          `json:"reveal_duration"`
	AuctionDuration string          `json:"auction_duration"`
}

type createAuctionResponse struct {
	AuctionID core.AuctionID `json:"auction_id"`
}

func parseDuration(raw, field string) (time.Duration, error) {
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s %q: %w", field, raw, core.ErrInvalidInput)
	}
	return d, nil
}

func (h *Handler) createAuction(w http.ResponseWriter, r *http.Request) {
	var req createAuctionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("decoding request: %w", core.ErrInvalidInput))
		return
	}
	commitDur, err := parseDuration(req.CommitDuration, "commit_duration")
	if err != nil {
		writeError(w, err)
		return
	}
	revealDur, err := parseDuration(req.RevealDuration, "reveal_duration")
	if err != nil {
		writeError(w, err)
		return
	}
	auctionDur, err := parseDuration(req.AuctionDuration, "auction_duration")
	if err != nil {
		writeError(w, err)
		return
	}

	id, err := h.reg.CreateAuction(r.Context(), caller(r), req.ItemName, req.ItemDescription,
		req.StartingPrice, commitDur, revealDur, auctionDur)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, createAuctionResponse{AuctionID: id})
}

func (h *Handler) cancelAuction(w http.ResponseWriter, r *http.Request) {
	id, err := auctionID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.reg.CancelAuction(r.Context(), id, caller(r)); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"cancelled": true})
}

type commitBidRequest struct {
	CommitHash string `json:"commit_hash"`
}

func (h *Handler) commitBid(w http.ResponseWriter, r *http.Request) {
	id, err := auctionID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req commitBidRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("decoding request: %w", core.ErrInvalidInput))
		return
	}
	if err := h.reg.CommitBid(r.Context(), id, caller(r), req.CommitHash); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"committed": true})
}

type revealBidRequest struct {
	Value         decimal.Decimal `json:"value"`
	Salt          string          `json:"salt"`
	AttachedFunds decimal.Decimal `json:"attached_funds"`
}

func (h *Handler) revealBid(w http.ResponseWriter, r *http.Request) {
	id, err := auctionID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req revealBidRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("decoding request: %w", core.ErrInvalidInput))
		return
	}
	if err := h.reg.RevealBid(r.Context(), id, caller(r), req.Value, req.Salt, req.AttachedFunds); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"revealed": true})
}

func (h *Handler) withdrawBid(w http.ResponseWriter, r *http.Request) {
	id, err := auctionID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.reg.WithdrawBid(r.Context(), id, caller(r)); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"withdrawn": true})
}

func (h *Handler) endAuction(w http.ResponseWriter, r *http.Request) {
	id, err := auctionID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.reg.EndAuction(r.Context(), id, caller(r)); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ended": true})
}

func (h *Handler) getAuction(w http.ResponseWriter, r *http.Request) {
	id, err := auctionID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	a, err := h.reg.GetAuction(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (h *Handler) getBid(w http.ResponseWriter, r *http.Request) {
	id, err := auctionID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	bid, err := h.reg.GetBid(id, core.Identity(chi.URLParam(r, "bidder")))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bid)
}

func (h *Handler) getBidders(w http.ResponseWriter, r *http.Request) {
	id, err := auctionID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	bidders, err := h.reg.AuctionBidders(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]core.Identity{"bidders": bidders})
}

func (h *Handler) totalFees(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"total_fees_collected": h.reg.TotalFeesCollected().String(),
	})
}

// commitHash is the off-band commitment helper: bidders call it (or compute
// the same formula themselves) before the commit window closes.
func (h *Handler) commitHash(w http.ResponseWriter, r *http.Request) {
	rawValue := r.URL.Query().Get("value")
	salt := r.URL.Query().Get("salt")
	if rawValue == "" || salt == "" {
		writeError(w, fmt.Errorf("value and salt query parameters required: %w", core.ErrInvalidInput))
		return
	}
	value, err := decimal.NewFromString(rawValue)
	if err != nil {
		writeError(w, fmt.Errorf("value %q: %w", rawValue, core.ErrInvalidInput))
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"commit_hash": core.ComputeCommitHash(value, salt),
	})
}

func (h *Handler) withdrawFees(w http.ResponseWriter, r *http.Request) {
	if err := h.reg.WithdrawPlatformFees(r.Context(), caller(r)); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"withdrawn": true})
}

type feePercentRequest struct {
	Percent uint32 `json:"percent"`
}

func (h *Handler) setFeePercent(w http.ResponseWriter, r *http.Request) {
	var req feePercentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("decoding request: %w", core.ErrInvalidInput))
		return
	}
	if err := h.reg.SetFeePercent(caller(r), req.Percent); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]uint32{"fee_percent": req.Percent})
}

func (h *Handler) pause(w http.ResponseWriter, r *http.Request) {
	if err := h.reg.Pause(caller(r)); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"paused": true})
}

func (h *Handler) unpause(w http.ResponseWriter, r *http.Request) {
	if err := h.reg.Unpause(caller(r)); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"paused": false})
}

type depositRequest struct {
	Account core.Identity   `json:"account"`
	Amount  decimal.Decimal `json:"amount"`
}

func (h *Handler) deposit(w http.ResponseWriter, r *http.Request) {
	if caller(r) != h.reg.Owner() {
		writeError(w, fmt.Errorf("deposit: %w", core.ErrUnauthorized))
		return
	}
	var req depositRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("decoding request: %w", core.ErrInvalidInput))
		return
	}
	if req.Account == "" || !req.Amount.IsPositive() {
		writeError(w, fmt.Errorf("deposit: account and positive amount required: %w", core.ErrInvalidInput))
		return
	}
	h.funder.Deposit(req.Account, req.Amount)
	writeJSON(w, http.StatusOK, map[string]bool{"deposited": true})
}
