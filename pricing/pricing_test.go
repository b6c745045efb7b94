package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/shuuuting95/kaleido-core/ad"
)

func decayPeriod(min string) *ad.Period {
	return &ad.Period{
		Pricing:   ad.TimeDecay,
		CreatedAt: 1000,
		SaleEnd:   4600, // 3600s sale window
		MinPrice:  decimal.RequireFromString(min),
	}
}

func TestFixedPrice(t *testing.T) {
	p := &ad.Period{Pricing: ad.Fixed, MinPrice: decimal.RequireFromString("0.5")}
	assert.True(t, CurrentPrice(p, 0).Equal(decimal.RequireFromString("0.5")))
	assert.True(t, CurrentPrice(p, 1<<40).Equal(decimal.RequireFromString("0.5")))
}

func TestDecayPriceEndpoints(t *testing.T) {
	p := decayPeriod("0.2")

	// Ceiling at creation, floor at the end of the sale.
	assert.True(t, CurrentPrice(p, 1000).Equal(decimal.RequireFromString("2")))
	assert.True(t, CurrentPrice(p, 4600).Equal(decimal.RequireFromString("0.2")))

	// Clamped outside the window.
	assert.True(t, CurrentPrice(p, 500).Equal(decimal.RequireFromString("2")))
	assert.True(t, CurrentPrice(p, 9999).Equal(decimal.RequireFromString("0.2")))
}

func TestDecayPriceInterpolation(t *testing.T) {
	p := decayPeriod("0.2")

	// One third elapsed: 0.2 + 1.8 * 2/3 = 1.4
	assert.True(t, CurrentPrice(p, 2200).Equal(decimal.RequireFromString("1.4")))
	// Half elapsed: 0.2 + 0.9 = 1.1
	assert.True(t, CurrentPrice(p, 2800).Equal(decimal.RequireFromString("1.1")))
}

func TestDecayPriceMonotonic(t *testing.T) {
	p := decayPeriod("0.37")
	prev := CurrentPrice(p, p.CreatedAt)
	for now := p.CreatedAt + 1; now <= p.SaleEnd; now += 100 {
		cur := CurrentPrice(p, now)
		assert.True(t, cur.LessThanOrEqual(prev), "price rose at t=%d", now)
		assert.True(t, cur.GreaterThanOrEqual(p.MinPrice))
		prev = cur
	}
}

func TestAuctionPriceTracksReference(t *testing.T) {
	p := &ad.Period{
		Pricing:        ad.English,
		MinPrice:       decimal.RequireFromString("0.2"),
		ReferencePrice: decimal.RequireFromString("0.45"),
	}
	assert.True(t, CurrentPrice(p, 0).Equal(decimal.RequireFromString("0.45")))

	p.Pricing = ad.Sealed
	assert.True(t, CurrentPrice(p, 0).Equal(decimal.RequireFromString("0.45")))
}

func TestStartPrice(t *testing.T) {
	min := decimal.RequireFromString("0.2")
	assert.True(t, StartPrice(ad.TimeDecay, min).Equal(decimal.RequireFromString("2")))
	assert.True(t, StartPrice(ad.Fixed, min).Equal(min))
	assert.True(t, StartPrice(ad.English, min).Equal(min))
	assert.True(t, StartPrice(ad.Sealed, min).Equal(min))
}
