package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/shuuuting95/kaleido-core/ad"
)

// Vault is the sink for the platform-fee share of every split.
type Vault interface {
	ReceiveFee(amount decimal.Decimal)
}

// saleFeeDivisor routes 1/10 of gross sale proceeds to the platform.
var saleFeeDivisor = decimal.NewFromInt(10)

// directFeeDivisor routes 1/2 of unsolicited inbound transfers.
var directFeeDivisor = decimal.NewFromInt(2)

type accountFunds struct {
	balance      decimal.Decimal
	withdrawable decimal.Decimal
}

// Ledger is the escrow/refund ledger. It is not safe for concurrent use;
// the facade serializes access.
type Ledger struct {
	vault    Vault
	accounts map[ad.Account]*accountFunds
}

// NewLedger creates an empty ledger routing fees to the vault.
func NewLedger(vault Vault) *Ledger {
	return &Ledger{
		vault:    vault,
		accounts: make(map[ad.Account]*accountFunds),
	}
}

func (l *Ledger) funds(acct ad.Account) *accountFunds {
	f, ok := l.accounts[acct]
	if !ok {
		f = &accountFunds{balance: decimal.Zero, withdrawable: decimal.Zero}
		l.accounts[acct] = f
	}
	return f
}

// Deposit escrows inbound funds under the account.
func (l *Ledger) Deposit(acct ad.Account, amount decimal.Decimal) {
	f := l.funds(acct)
	f.balance = f.balance.Add(amount)
}

// Refund reverses a pending deposit in full, with no fee. Used when an
// English bid is outbid, an offer is canceled, or a sealed bid loses.
func (l *Ledger) Refund(acct ad.Account, amount decimal.Decimal) error {
	f := l.funds(acct)
	if f.balance.LessThan(amount) {
		return ad.ErrInsufficientFunds
	}
	f.balance = f.balance.Sub(amount)
	return nil
}

// Payout moves part of the balance into the withdrawable amount.
func (l *Ledger) Payout(acct ad.Account, amount decimal.Decimal) error {
	f := l.funds(acct)
	if f.balance.LessThan(amount) {
		return ad.ErrInsufficientFunds
	}
	f.withdrawable = f.withdrawable.Add(amount)
	return nil
}

// SplitOnSale settles a successful purchase or auction: 1/10 of the gross
// goes to the platform vault, the rest becomes the seller's withdrawable
// earnings. The gross amount must already be on deposit.
func (l *Ledger) SplitOnSale(seller ad.Account, gross decimal.Decimal) error {
	f := l.funds(seller)
	if f.balance.LessThan(gross) {
		return ad.ErrInsufficientFunds
	}
	fee := gross.Div(saleFeeDivisor)
	net := gross.Sub(fee)
	f.balance = f.balance.Sub(fee)
	f.withdrawable = f.withdrawable.Add(net)
	l.vault.ReceiveFee(fee)
	return nil
}

// SplitOnDirectTransfer books an unsolicited inbound transfer unrelated to
// a sale: half is kept on the account's balance, half is routed to the
// platform vault.
func (l *Ledger) SplitOnDirectTransfer(acct ad.Account, amount decimal.Decimal) {
	fee := amount.Div(directFeeDivisor)
	f := l.funds(acct)
	f.balance = f.balance.Add(amount.Sub(fee))
	l.vault.ReceiveFee(fee)
}

// Withdraw transfers the account's entire withdrawable amount out and
// zeroes it, returning the amount moved.
func (l *Ledger) Withdraw(acct ad.Account) (decimal.Decimal, error) {
	f := l.funds(acct)
	if f.withdrawable.IsZero() {
		return decimal.Zero, ad.ErrNothingToWithdraw
	}
	amount := f.withdrawable
	f.balance = f.balance.Sub(amount)
	f.withdrawable = decimal.Zero
	return amount, nil
}

// Balance returns all funds currently held for the account.
func (l *Ledger) Balance(acct ad.Account) decimal.Decimal {
	return l.funds(acct).balance
}

// Withdrawable returns the earned portion the account may transfer out.
func (l *Ledger) Withdrawable(acct ad.Account) decimal.Decimal {
	return l.funds(acct).withdrawable
}
