package ledger

import (
	"math/rand"
	"testing"

	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shuuuting95/kaleido-core/ad"
	"github.com/shuuuting95/kaleido-core/metrics"
	"github.com/shuuuting95/kaleido-core/testutil"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func newTestLedger() (*Ledger, *FeeVault) {
	vault := NewFeeVault()
	return NewLedger(vault), vault
}

func TestDepositAndRefund(t *testing.T) {
	l, _ := newTestLedger()

	l.Deposit(testutil.MediaAccount, dec("0.3"))
	assert.True(t, l.Balance(testutil.MediaAccount).Equal(dec("0.3")))
	assert.True(t, l.Withdrawable(testutil.MediaAccount).IsZero())

	require.NoError(t, l.Refund(testutil.MediaAccount, dec("0.3")))
	assert.True(t, l.Balance(testutil.MediaAccount).IsZero())

	assert.ErrorIs(t, l.Refund(testutil.MediaAccount, dec("0.01")), ad.ErrInsufficientFunds)
}

func TestSplitOnSale(t *testing.T) {
	l, vault := newTestLedger()

	l.Deposit(testutil.MediaAccount, dec("0.2"))
	require.NoError(t, l.SplitOnSale(testutil.MediaAccount, dec("0.2")))

	// 1/10 platform fee, the rest becomes withdrawable earnings.
	assert.True(t, l.Balance(testutil.MediaAccount).Equal(dec("0.18")))
	assert.True(t, l.Withdrawable(testutil.MediaAccount).Equal(dec("0.18")))
	assert.True(t, vault.Balance().Equal(dec("0.02")))
}

func TestSplitOnSaleRequiresDeposit(t *testing.T) {
	l, vault := newTestLedger()

	assert.ErrorIs(t, l.SplitOnSale(testutil.MediaAccount, dec("0.2")), ad.ErrInsufficientFunds)
	assert.True(t, vault.Balance().IsZero())
}

func TestSplitOnDirectTransfer(t *testing.T) {
	l, vault := newTestLedger()

	l.SplitOnDirectTransfer(testutil.MediaAccount, dec("1"))

	assert.True(t, l.Balance(testutil.MediaAccount).Equal(dec("0.5")))
	assert.True(t, vault.Balance().Equal(dec("0.5")))
	// Direct transfers are not sale earnings.
	assert.True(t, l.Withdrawable(testutil.MediaAccount).IsZero())
}

func TestWithdraw(t *testing.T) {
	l, _ := newTestLedger()

	l.Deposit(testutil.MediaAccount, dec("0.2"))
	require.NoError(t, l.SplitOnSale(testutil.MediaAccount, dec("0.2")))

	amount, err := l.Withdraw(testutil.MediaAccount)
	require.NoError(t, err)
	assert.True(t, amount.Equal(dec("0.18")))
	assert.True(t, l.Balance(testutil.MediaAccount).IsZero())
	assert.True(t, l.Withdrawable(testutil.MediaAccount).IsZero())

	_, err = l.Withdraw(testutil.MediaAccount)
	assert.ErrorIs(t, err, ad.ErrNothingToWithdraw)
}

func TestWithdrawLeavesEscrowedFunds(t *testing.T) {
	l, _ := newTestLedger()

	// One settled sale plus one still-escrowed bid.
	l.Deposit(testutil.MediaAccount, dec("0.2"))
	require.NoError(t, l.SplitOnSale(testutil.MediaAccount, dec("0.2")))
	l.Deposit(testutil.MediaAccount, dec("0.5"))

	amount, err := l.Withdraw(testutil.MediaAccount)
	require.NoError(t, err)
	assert.True(t, amount.Equal(dec("0.18")))

	// The escrowed bid stays on the balance and remains refundable.
	assert.True(t, l.Balance(testutil.MediaAccount).Equal(dec("0.5")))
	require.NoError(t, l.Refund(testutil.MediaAccount, dec("0.5")))
	assert.True(t, l.Balance(testutil.MediaAccount).IsZero())
}

func TestPayout(t *testing.T) {
	l, _ := newTestLedger()

	l.Deposit(testutil.MediaAccount, dec("1"))
	require.NoError(t, l.Payout(testutil.MediaAccount, dec("0.4")))
	assert.True(t, l.Withdrawable(testutil.MediaAccount).Equal(dec("0.4")))

	assert.ErrorIs(t, l.Payout(testutil.MediaAccount, dec("2")), ad.ErrInsufficientFunds)
}

func TestMoneyConservation(t *testing.T) {
	l, vault := newTestLedger()

	// Total inflow: 0.2 sale + 0.5 bid + 1 direct transfer.
	l.Deposit(testutil.MediaAccount, dec("0.2"))
	require.NoError(t, l.SplitOnSale(testutil.MediaAccount, dec("0.2")))
	l.Deposit(testutil.MediaAccount, dec("0.5"))
	l.SplitOnDirectTransfer(testutil.OtherBuyer, dec("1"))

	withdrawn, err := l.Withdraw(testutil.MediaAccount)
	require.NoError(t, err)
	require.NoError(t, l.Refund(testutil.MediaAccount, dec("0.5")))

	held := l.Balance(testutil.MediaAccount).
		Add(l.Balance(testutil.OtherBuyer)).
		Add(vault.Balance())
	refunded := dec("0.5")
	assert.True(t, withdrawn.Add(held).Add(refunded).Equal(dec("1.7")),
		"withdrawn %s + held %s + refunded %s != 1.7", withdrawn, held, refunded)
}

func TestMoneyConservationRandomized(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	accounts := []ad.Account{testutil.MediaAccount, testutil.Buyer, testutil.OtherBuyer}

	l, vault := newTestLedger()
	inflow := decimal.Zero
	refunded := decimal.Zero
	withdrawn := decimal.Zero

	cents := func(n int) decimal.Decimal { return decimal.New(int64(n), -2) }
	// escrowed is the portion of the balance not yet earned; refunds,
	// splits, and payouts may only draw from it.
	escrowed := func(acct ad.Account) decimal.Decimal {
		return l.Balance(acct).Sub(l.Withdrawable(acct))
	}
	portion := func(of decimal.Decimal) decimal.Decimal {
		return of.Div(decimal.NewFromInt(int64(rng.Intn(4) + 1)))
	}

	for i := 0; i < 2000; i++ {
		acct := accounts[rng.Intn(len(accounts))]
		switch rng.Intn(6) {
		case 0:
			amt := cents(rng.Intn(1000) + 1)
			l.Deposit(acct, amt)
			inflow = inflow.Add(amt)
		case 1:
			if free := escrowed(acct); free.IsPositive() {
				amt := portion(free)
				require.NoError(t, l.Refund(acct, amt))
				refunded = refunded.Add(amt)
			}
		case 2:
			if free := escrowed(acct); free.IsPositive() {
				require.NoError(t, l.SplitOnSale(acct, portion(free)))
			}
		case 3:
			amt := cents(rng.Intn(1000) + 1)
			l.SplitOnDirectTransfer(acct, amt)
			inflow = inflow.Add(amt)
		case 4:
			if l.Withdrawable(acct).IsPositive() {
				amt, err := l.Withdraw(acct)
				require.NoError(t, err)
				withdrawn = withdrawn.Add(amt)
			}
		case 5:
			if free := escrowed(acct); free.IsPositive() {
				require.NoError(t, l.Payout(acct, portion(free)))
			}
		}

		held := vault.Balance()
		for _, a := range accounts {
			require.True(t, l.Withdrawable(a).LessThanOrEqual(l.Balance(a)),
				"withdrawable exceeds balance for %s after op %d", a, i)
			held = held.Add(l.Balance(a))
		}
		require.True(t, inflow.Equal(held.Add(refunded).Add(withdrawn)),
			"op %d: inflow %s != held %s + refunded %s + withdrawn %s",
			i, inflow, held, refunded, withdrawn)
	}
}

func TestFeesRoutedCounter(t *testing.T) {
	base := promtestutil.ToFloat64(metrics.FeesRouted)

	vault := NewFeeVault()
	vault.ReceiveFee(dec("0.25"))
	vault.ReceiveFee(dec("0.05"))

	assert.InDelta(t, base+0.3, promtestutil.ToFloat64(metrics.FeesRouted), 1e-9)
}

func TestVaultWithdrawBounded(t *testing.T) {
	vault := NewFeeVault()
	vault.ReceiveFee(dec("0.02"))

	assert.ErrorIs(t, vault.Withdraw(dec("0.03")), ad.ErrInsufficientFunds)
	require.NoError(t, vault.Withdraw(dec("0.015")))
	assert.True(t, vault.Balance().Equal(dec("0.005")))
	require.NoError(t, vault.Withdraw(dec("0.005")))
	assert.True(t, vault.Balance().IsZero())
}
