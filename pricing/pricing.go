package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/shuuuting95/kaleido-core/ad"
)

// DecayCeilingMultiplier is the Dutch-auction starting price as a multiple
// of the period's minimum price.
var DecayCeilingMultiplier = decimal.NewFromInt(10)

var nine = decimal.NewFromInt(9)

// CurrentPrice returns the price payable for the period at the given time.
//
// For Fixed periods the price is always MinPrice. For TimeDecay periods the
// price interpolates linearly from 10x MinPrice at creation down to
// MinPrice at SaleEnd, clamped to that range outside the sale window. For
// English and Sealed periods the payable price is not a function of time;
// the reference price (highest bid, or the listing minimum before any bid)
// is returned.
func CurrentPrice(p *ad.Period, now int64) decimal.Decimal {
	switch p.Pricing {
	case ad.TimeDecay:
		return decayPrice(p, now)
	case ad.English, ad.Sealed:
		return p.ReferencePrice
	default:
		return p.MinPrice
	}
}

// decayPrice computes minPrice + 9*minPrice*(saleEnd-now)/(saleEnd-createdAt).
func decayPrice(p *ad.Period, now int64) decimal.Decimal {
	if now <= p.CreatedAt {
		return p.MinPrice.Mul(DecayCeilingMultiplier)
	}
	if now >= p.SaleEnd {
		return p.MinPrice
	}
	remaining := decimal.NewFromInt(p.SaleEnd - now)
	total := decimal.NewFromInt(p.SaleEnd - p.CreatedAt)
	premium := p.MinPrice.Mul(nine).Mul(remaining).Div(total)
	return p.MinPrice.Add(premium)
}

// StartPrice returns the reference price a freshly listed period carries:
// the Dutch ceiling for TimeDecay periods, MinPrice otherwise.
func StartPrice(kind ad.PricingKind, minPrice decimal.Decimal) decimal.Decimal {
	if kind == ad.TimeDecay {
		return minPrice.Mul(DecayCeilingMultiplier)
	}
	return minPrice
}
