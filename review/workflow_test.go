package review

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shuuuting95/kaleido-core/ad"
	"github.com/shuuuting95/kaleido-core/events"
	"github.com/shuuuting95/kaleido-core/ledger"
	"github.com/shuuuting95/kaleido-core/market"
	"github.com/shuuuting95/kaleido-core/registry"
	"github.com/shuuuting95/kaleido-core/schedule"
	"github.com/shuuuting95/kaleido-core/testutil"
)

type testReview struct {
	workflow *Workflow
	engine   *market.Engine
	clock    *testutil.Clock
	sink     *events.MemorySink
}

// newTestReview lists a fixed-price period displayed [2000, 3000) and sells
// it to Buyer.
func newTestReview(t *testing.T) (*testReview, *ad.Period) {
	t.Helper()
	clock := testutil.NewClock(1000)
	sink := &events.MemorySink{}
	media := registry.NewMediaRegistry(sink)
	engine := market.NewEngine(schedule.NewScheduler(), ledger.NewLedger(ledger.NewFeeVault()), media, clock, sink)
	workflow := NewWorkflow(engine, media, sink)

	price := decimal.RequireFromString("0.2")
	p, err := engine.NewPeriod(testutil.MediaAccount, "space#1", "", 2000, 2000, 3000, ad.Fixed, price)
	require.NoError(t, err)
	require.NoError(t, engine.Buy(testutil.Buyer, p.TokenID, price))

	return &testReview{workflow: workflow, engine: engine, clock: clock, sink: sink}, p
}

func TestPropose(t *testing.T) {
	r, p := newTestReview(t)

	assert.ErrorIs(t, r.workflow.Propose(testutil.Stranger, p.TokenID, "meta://ad"), ad.ErrNotTokenOwner)
	assert.ErrorIs(t, r.workflow.Propose(testutil.Buyer, ad.NewTokenID("x", 1, 2), "meta://ad"), ad.ErrPeriodNotFound)

	require.NoError(t, r.workflow.Propose(testutil.Buyer, p.TokenID, "meta://ad-v1"))

	// Resubmission before acceptance overwrites.
	require.NoError(t, r.workflow.Propose(testutil.Buyer, p.TokenID, "meta://ad-v2"))
	proposal, err := r.workflow.Proposed(p.TokenID)
	require.NoError(t, err)
	assert.Equal(t, "meta://ad-v2", proposal.Metadata)
	assert.False(t, proposal.Accepted)
}

func TestProposeUnsoldPeriod(t *testing.T) {
	r, _ := newTestReview(t)

	unsold, err := r.engine.NewPeriod(testutil.MediaAccount, "space#1", "",
		2000, 3000, 4000, ad.Fixed, decimal.RequireFromString("0.2"))
	require.NoError(t, err)

	assert.ErrorIs(t, r.workflow.Propose(testutil.Buyer, unsold.TokenID, "meta://ad"), ad.ErrNotTokenOwner)
}

func TestAcceptProposal(t *testing.T) {
	r, p := newTestReview(t)
	require.NoError(t, r.workflow.Propose(testutil.Buyer, p.TokenID, "meta://ad"))

	assert.ErrorIs(t, r.workflow.AcceptProposal(testutil.Stranger, p.TokenID), ad.ErrNotSpaceOwner)
	require.NoError(t, r.workflow.AcceptProposal(testutil.MediaAccount, p.TokenID))

	// Acceptance consumes the metadata and is terminal for submissions.
	proposal, err := r.workflow.Proposed(p.TokenID)
	require.NoError(t, err)
	assert.True(t, proposal.Accepted)
	assert.Empty(t, proposal.Metadata)
	assert.ErrorIs(t, r.workflow.AcceptProposal(testutil.MediaAccount, p.TokenID), ad.ErrNoProposal)
	assert.ErrorIs(t, r.workflow.Propose(testutil.Buyer, p.TokenID, "meta://ad-v2"), ad.ErrAlreadyAccepted)
}

func TestAcceptProposalWithoutProposal(t *testing.T) {
	r, p := newTestReview(t)
	assert.ErrorIs(t, r.workflow.AcceptProposal(testutil.MediaAccount, p.TokenID), ad.ErrNoProposal)
}

func TestAcceptProposalAfterTransfer(t *testing.T) {
	r, p := newTestReview(t)
	require.NoError(t, r.workflow.Propose(testutil.Buyer, p.TokenID, "meta://ad"))

	// The period moves away from the proposer before review.
	require.NoError(t, r.engine.TransferPeriod(testutil.Buyer, testutil.OtherBuyer, p.TokenID))

	assert.ErrorIs(t, r.workflow.AcceptProposal(testutil.MediaAccount, p.TokenID), ad.ErrTokenTransferred)
}

func TestDenyProposal(t *testing.T) {
	r, p := newTestReview(t)
	require.NoError(t, r.workflow.Propose(testutil.Buyer, p.TokenID, "meta://ad"))

	assert.ErrorIs(t, r.workflow.DenyProposal(testutil.Stranger, p.TokenID, "", false), ad.ErrNotSpaceOwner)
	require.NoError(t, r.workflow.DenyProposal(testutil.MediaAccount, p.TokenID, "blurry creative", false))

	// Denial leaves the proposal in place for resubmission.
	proposal, err := r.workflow.Proposed(p.TokenID)
	require.NoError(t, err)
	assert.Equal(t, "meta://ad", proposal.Metadata)

	denials := r.sink.Named("DenyProposal")
	require.Len(t, denials, 1)
	assert.Equal(t, "blurry creative", denials[0].(events.DenyProposal).Reason)

	require.NoError(t, r.workflow.Propose(testutil.Buyer, p.TokenID, "meta://ad-v2"))
}

func TestDisplay(t *testing.T) {
	r, p := newTestReview(t)
	require.NoError(t, r.workflow.Propose(testutil.Buyer, p.TokenID, "meta://ad"))

	// Nothing shows before acceptance.
	metadata, tokenID := r.workflow.Display("space#1", 2500)
	assert.Empty(t, metadata)
	assert.True(t, tokenID.IsZero())

	require.NoError(t, r.workflow.AcceptProposal(testutil.MediaAccount, p.TokenID))

	metadata, tokenID = r.workflow.Display("space#1", 2500)
	assert.Equal(t, "meta://ad", metadata)
	assert.Equal(t, p.TokenID, tokenID)

	// Half-open window: live at the start, gone at the end.
	metadata, _ = r.workflow.Display("space#1", 2000)
	assert.Equal(t, "meta://ad", metadata)
	metadata, tokenID = r.workflow.Display("space#1", 3000)
	assert.Empty(t, metadata)
	assert.True(t, tokenID.IsZero())

	metadata, _ = r.workflow.Display("space#9", 2500)
	assert.Empty(t, metadata)
}
