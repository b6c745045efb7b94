package market

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shuuuting95/kaleido-core/ad"
	"github.com/shuuuting95/kaleido-core/testutil"
)

func TestOfferPeriod(t *testing.T) {
	m := newTestMarket(t)
	require.NoError(t, m.engine.NewSpace(testutil.MediaAccount, "space#1"))

	offer, err := m.engine.OfferPeriod(testutil.Buyer, "space#1", 5000, 6000, dec("0.4"))
	require.NoError(t, err)
	assert.Equal(t, ad.NewTokenID("space#1", 5000, 6000), offer.TokenID)
	assert.Equal(t, testutil.Buyer, offer.Bidder)

	// Funds escrow immediately, under the space owner.
	assert.True(t, m.ledger.Balance(testutil.MediaAccount).Equal(dec("0.4")))

	got, err := m.engine.Offered(offer.TokenID)
	require.NoError(t, err)
	assert.Equal(t, offer, got)
}

func TestOfferPeriodValidation(t *testing.T) {
	m := newTestMarket(t)
	require.NoError(t, m.engine.NewSpace(testutil.MediaAccount, "space#1"))

	_, err := m.engine.OfferPeriod(testutil.Buyer, "space#9", 5000, 6000, dec("0.4"))
	assert.ErrorIs(t, err, ad.ErrSpaceNotFound)

	_, err = m.engine.OfferPeriod(testutil.Buyer, "space#1", 6000, 5000, dec("0.4"))
	assert.ErrorIs(t, err, ad.ErrBadOrdering)

	_, err = m.engine.OfferPeriod(testutil.Buyer, "space#1", 5000, 6000, dec("0.4"))
	require.NoError(t, err)

	// One open offer per window, regardless of the offerer.
	_, err = m.engine.OfferPeriod(testutil.OtherBuyer, "space#1", 5000, 6000, dec("0.9"))
	assert.ErrorIs(t, err, ad.ErrOfferExists)
}

func TestCancelOffer(t *testing.T) {
	m := newTestMarket(t)
	require.NoError(t, m.engine.NewSpace(testutil.MediaAccount, "space#1"))
	offer, err := m.engine.OfferPeriod(testutil.Buyer, "space#1", 5000, 6000, dec("0.4"))
	require.NoError(t, err)

	assert.ErrorIs(t, m.engine.CancelOffer(testutil.Stranger, offer.TokenID), ad.ErrNotOfferer)
	require.NoError(t, m.engine.CancelOffer(testutil.Buyer, offer.TokenID))

	assert.True(t, m.ledger.Balance(testutil.MediaAccount).IsZero())
	_, err = m.engine.Offered(offer.TokenID)
	assert.ErrorIs(t, err, ad.ErrOfferNotFound)
	assert.ErrorIs(t, m.engine.CancelOffer(testutil.Buyer, offer.TokenID), ad.ErrOfferNotFound)
}

func TestAcceptOffer(t *testing.T) {
	m := newTestMarket(t)
	require.NoError(t, m.engine.NewSpace(testutil.MediaAccount, "space#1"))
	offer, err := m.engine.OfferPeriod(testutil.Buyer, "space#1", 5000, 6000, dec("0.4"))
	require.NoError(t, err)

	_, err = m.engine.AcceptOffer(testutil.Stranger, offer.TokenID, "meta://content")
	assert.ErrorIs(t, err, ad.ErrNotSpaceOwner)

	p, err := m.engine.AcceptOffer(testutil.MediaAccount, offer.TokenID, "meta://content")
	require.NoError(t, err)

	// The period is born sold, at the offered price, owned by the offerer.
	assert.True(t, p.Sold)
	assert.Equal(t, ad.Offered, p.Pricing)
	assert.Equal(t, testutil.Buyer, p.Owner)
	assert.Equal(t, offer.TokenID, p.TokenID)
	assert.Equal(t, int64(1000), p.CreatedAt)
	assert.Equal(t, int64(1000), p.SaleEnd)

	assert.True(t, m.ledger.Withdrawable(testutil.MediaAccount).Equal(dec("0.36")))
	assert.True(t, m.vault.Balance().Equal(dec("0.04")))

	_, err = m.engine.Offered(offer.TokenID)
	assert.ErrorIs(t, err, ad.ErrOfferNotFound)
}

func TestDeletePeriodLeavesOfferOpen(t *testing.T) {
	m := newTestMarket(t)
	p := m.listPeriod(t, ad.Fixed, "0.2")

	// An offer on the listed window does not hold the window and so does
	// not block deletion; it survives and becomes acceptable once the
	// window is free.
	offer, err := m.engine.OfferPeriod(testutil.Buyer, "space#1", 2000, 3000, dec("0.4"))
	require.NoError(t, err)

	_, err = m.engine.AcceptOffer(testutil.MediaAccount, offer.TokenID, "")
	require.ErrorIs(t, err, ad.ErrOverlap)

	require.NoError(t, m.engine.DeletePeriod(testutil.MediaAccount, p.TokenID))

	got, err := m.engine.Offered(offer.TokenID)
	require.NoError(t, err)
	assert.True(t, got.Amount.Equal(dec("0.4")))

	sold, err := m.engine.AcceptOffer(testutil.MediaAccount, offer.TokenID, "")
	require.NoError(t, err)
	assert.True(t, sold.Sold)
	assert.Equal(t, p.TokenID, sold.TokenID)
}

func TestAcceptOfferRejectsOverlap(t *testing.T) {
	m := newTestMarket(t)
	require.NoError(t, m.engine.NewSpace(testutil.MediaAccount, "space#1"))
	offer, err := m.engine.OfferPeriod(testutil.Buyer, "space#1", 2500, 3500, dec("0.4"))
	require.NoError(t, err)

	// A period listed meanwhile claims the window first.
	_, err = m.engine.NewPeriod(testutil.MediaAccount, "space#1", "",
		2000, 2000, 3000, ad.Fixed, dec("0.2"))
	require.NoError(t, err)

	_, err = m.engine.AcceptOffer(testutil.MediaAccount, offer.TokenID, "")
	assert.ErrorIs(t, err, ad.ErrOverlap)

	// The offer stays open; the offerer can still cancel for a refund.
	require.NoError(t, m.engine.CancelOffer(testutil.Buyer, offer.TokenID))
}
