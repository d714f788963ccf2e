// Package reputationservice keeps the per-user reputation ledger that
// moderation penalties and restores are applied to.
package reputationservice
