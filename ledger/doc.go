// Package ledger tracks escrowed deposits, pending refunds, seller
// earnings, and the platform-fee split for every money-moving operation of
// the marketplace.
//
// Each account carries two figures: the balance (all funds currently held
// on its behalf, escrowed bids included) and the withdrawable amount (the
// earned portion the account may transfer out). Strict conservation holds
// across any operation sequence: the sum of all balances plus everything
// refunded, withdrawn, and fee-routed equals the sum of all deposits.
package ledger
