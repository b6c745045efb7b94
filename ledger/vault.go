package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/shuuuting95/kaleido-core/ad"
	"github.com/shuuuting95/kaleido-core/metrics"
)

// FeeVault collects the platform-fee share of every split. The platform
// owner withdraws collected fees in arbitrary amounts, bounded by what has
// been collected.
type FeeVault struct {
	balance decimal.Decimal
}

// NewFeeVault creates an empty vault.
func NewFeeVault() *FeeVault {
	return &FeeVault{balance: decimal.Zero}
}

// ReceiveFee credits a routed fee to the vault.
func (v *FeeVault) ReceiveFee(amount decimal.Decimal) {
	v.balance = v.balance.Add(amount)
	metrics.FeesRouted.Add(amount.InexactFloat64())
}

// Withdraw transfers part of the collected fees out.
func (v *FeeVault) Withdraw(amount decimal.Decimal) error {
	if v.balance.LessThan(amount) {
		return ad.ErrInsufficientFunds
	}
	v.balance = v.balance.Sub(amount)
	return nil
}

// Balance returns the fees collected and not yet withdrawn.
func (v *FeeVault) Balance() decimal.Decimal {
	return v.balance
}
