// Package domain holds the pure marketplace rules: accounts, the card
// catalog, peer listings, transaction variants, pack draws, and tier
// assignment. Nothing in this package touches storage or transport.
package domain
