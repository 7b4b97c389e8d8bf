package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/peterldowns/testy/assert"
	"github.com/peterldowns/testy/check"
	"github.com/shopspring/decimal"

	"github.com/openclear-io/sealedbid/core"
	"github.com/openclear-io/sealedbid/registry"
)

type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time { return c.now }

type noopSink struct{}

func (noopSink) Emit(_ context.Context, _ registry.Event) error { return nil }

type apiEnv struct {
	router *chi.Mux
	clock  *testClock
	bank   *registry.LedgerBank
}

func newAPIEnv(t *testing.T) *apiEnv {
	t.Helper()
	clock := &testClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	bank := registry.NewLedgerBank()

	reg, err := registry.New(registry.Config{
		Owner:      "platform",
		FeePercent: 5,
		Bank:       bank,
		Clock:      clock,
		Sink:       noopSink{},
	})
	assert.Nil(t, err)

	router := chi.NewRouter()
	NewHandler(reg, bank).RegisterRoutes(router)
	return &apiEnv{router: router, clock: clock, bank: bank}
}

// do issues one request as the given caller and decodes the JSON response.
func (e *apiEnv) do(t *testing.T, method, path string, as core.Identity, body any, out any) *httptest.ResponseRecorder {
	t.Helper()
	var reqBody bytes.Buffer
	if body != nil {
		assert.Nil(t, json.NewEncoder(&reqBody).Encode(body))
	}
	req := httptest.NewRequest(method, path, &reqBody)
	if as != "" {
		req.Header.Set(CallerHeader, string(as))
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	if out != nil && rec.Code < 300 {
		assert.Nil(t, json.NewDecoder(rec.Body).Decode(out))
	}
	return rec
}

func TestFullAuctionFlowOverHTTP(t *testing.T) {
	env := newAPIEnv(t)
	env.bank.Deposit("bob", decimal.NewFromInt(1000))

	// Seller lists an item
	var created struct {
		AuctionID core.AuctionID `json:"auction_id"`
	}
	rec := env.do(t, http.MethodPost, "/api/v1/auctions", "alice", map[string]any{
		"item_name":        "vintage synth",
		"item_description": "1983 polysynth",
		"starting_price":   "10",
		"commit_duration":  "1h",
		"reveal_duration":  "1h",
		"auction_duration": "2h",
	}, &created)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, core.AuctionID(1), created.AuctionID)

	// Bidder fetches a commitment hash off-band
	var hashed struct {
		CommitHash string `json:"commit_hash"`
	}
	rec = env.do(t, http.MethodGet, "/api/v1/commit-hash?value=25&salt=s3cret", "", nil, &hashed)
	assert.Equal(t, http.StatusOK, rec.Code)
	check.Equal(t, core.ComputeCommitHash(decimal.NewFromInt(25), "s3cret"), hashed.CommitHash)

	// Commit during the commit window
	rec = env.do(t, http.MethodPost, "/api/v1/auctions/1/commit", "bob", map[string]string{
		"commit_hash": hashed.CommitHash,
	}, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	// Reveal during the reveal window
	env.clock.now = env.clock.now.Add(time.Hour)
	rec = env.do(t, http.MethodPost, "/api/v1/auctions/1/reveal", "bob", map[string]string{
		"value":          "25",
		"salt":           "s3cret",
		"attached_funds": "25",
	}, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	var auction registry.Auction
	rec = env.do(t, http.MethodGet, "/api/v1/auctions/1", "", nil, &auction)
	assert.Equal(t, http.StatusOK, rec.Code)
	check.Equal(t, core.Identity("bob"), auction.HighestBidder)
	check.True(t, auction.HighestBid.Equal(decimal.NewFromInt(25)))

	// Settle after the end time
	env.clock.now = env.clock.now.Add(4 * time.Hour)
	rec = env.do(t, http.MethodPost, "/api/v1/auctions/1/end", "alice", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	// floor(25*5/100) = 1 in the pool
	var fees struct {
		TotalFeesCollected string `json:"total_fees_collected"`
	}
	rec = env.do(t, http.MethodGet, "/api/v1/fees", "", nil, &fees)
	assert.Equal(t, http.StatusOK, rec.Code)
	check.Equal(t, "1", fees.TotalFeesCollected)

	// Owner sweeps the pool
	rec = env.do(t, http.MethodPost, "/api/v1/admin/fees/withdraw", "platform", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	check.True(t, env.bank.Balance("platform").Equal(decimal.NewFromInt(1)))
}

func TestErrorMapping(t *testing.T) {
	env := newAPIEnv(t)

	// Unknown auction: conflict
	rec := env.do(t, http.MethodGet, "/api/v1/auctions/99", "", nil, nil)
	check.Equal(t, http.StatusConflict, rec.Code)

	// Malformed creation parameters: bad request
	rec = env.do(t, http.MethodPost, "/api/v1/auctions", "alice", map[string]any{
		"item_name":        "",
		"starting_price":   "10",
		"commit_duration":  "1h",
		"reveal_duration":  "1h",
		"auction_duration": "2h",
	}, nil)
	check.Equal(t, http.StatusBadRequest, rec.Code)

	// Unparseable duration: bad request
	rec = env.do(t, http.MethodPost, "/api/v1/auctions", "alice", map[string]any{
		"item_name":        "item",
		"starting_price":   "10",
		"commit_duration":  "soon",
		"reveal_duration":  "1h",
		"auction_duration": "2h",
	}, nil)
	check.Equal(t, http.StatusBadRequest, rec.Code)

	// Non-owner pause: forbidden
	rec = env.do(t, http.MethodPost, "/api/v1/admin/pause", "mallory", nil, nil)
	check.Equal(t, http.StatusForbidden, rec.Code)

	// Paused registry: service unavailable
	rec = env.do(t, http.MethodPost, "/api/v1/admin/pause", "platform", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = env.do(t, http.MethodPost, "/api/v1/auctions", "alice", map[string]any{
		"item_name":        "item",
		"starting_price":   "10",
		"commit_duration":  "1h",
		"reveal_duration":  "1h",
		"auction_duration": "2h",
	}, nil)
	check.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestDeposit_OwnerOnly(t *testing.T) {
	env := newAPIEnv(t)

	rec := env.do(t, http.MethodPost, "/api/v1/admin/bank/deposit", "mallory", map[string]string{
		"account": "bob",
		"amount":  "100",
	}, nil)
	check.Equal(t, http.StatusForbidden, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/v1/admin/bank/deposit", "platform", map[string]string{
		"account": "bob",
		"amount":  "100",
	}, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	check.True(t, env.bank.Balance("bob").Equal(decimal.NewFromInt(100)))
}

func TestFeePercentEndpoint(t *testing.T) {
	env := newAPIEnv(t)

	rec := env.do(t, http.MethodPost, "/api/v1/admin/fee-percent", "platform", map[string]uint32{
		"percent": 11,
	}, nil)
	check.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/v1/admin/fee-percent", "platform", map[string]uint32{
		"percent": 8,
	}, nil)
	check.Equal(t, http.StatusOK, rec.Code)
}

func TestHealthEndpoints(t *testing.T) {
	env := newAPIEnv(t)
	srv := New(Config{ListenAddr: ":0"}, NewHandler(mustRegistry(t, env), nil))

	req := httptest.NewRequest(http.MethodGet, "/livez", nil)
	rec := httptest.NewRecorder()
	srv.srv.Handler.ServeHTTP(rec, req)
	check.Equal(t, http.StatusOK, rec.Code)
}

func mustRegistry(t *testing.T, env *apiEnv) *registry.Registry {
	t.Helper()
	reg, err := registry.New(registry.Config{
		Owner: "platform",
		Bank:  env.bank,
		Clock: env.clock,
		Sink:  noopSink{},
	})
	assert.Nil(t, err)
	return reg
}
