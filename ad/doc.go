// Package ad defines the shared domain model for the Kaleido marketplace:
// spaces, sale periods, pricing kinds, bids, offers, proposals, and the
// error taxonomy used by every engine operation.
//
// A space is a named advertising slot category owned by one media account.
// A period is a time-bounded sale unit on a space, identified by a
// deterministic token id derived from the space and its display window.
// Periods are sold through one of four interchangeable protocols (fixed
// price, time-decaying Dutch price, ascending English auction, sealed
// proposal auction); a fifth pricing tag marks periods materialized from
// accepted offers.
//
// All timestamps are unix seconds supplied by the calling environment
// through the Clock interface. Engine operations read the clock exactly
// once so that every comparison within one operation sees the same time.
package ad
