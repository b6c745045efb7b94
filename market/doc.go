// Package market implements the period lifecycle and pricing/auction
// engine: listing and deleting periods, the four sale protocols, offers
// for unlisted windows, and settlement through the escrow ledger.
//
// Each period moves through Unlisted -> Listed -> Sold or Deleted; Sold
// and Deleted are terminal. Every operation validates fully before its
// first mutation, so a rejected call leaves all state unchanged. The
// engine reads its clock exactly once per operation.
package market
