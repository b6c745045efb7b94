// Package registry resolves caller identity for the marketplace engine.
//
// A media account is a registered publisher tenant operated by exactly one
// external account at a time; the operator can be re-keyed. The registry
// answers whether a caller may act for a media account and which account a
// caller acts as.
//
// The package also provides the capability-table indirection: a versioned
// table of engine implementations swapped atomically, so each tenant
// resolves to shared logic by version tag instead of carrying its own.
package registry
