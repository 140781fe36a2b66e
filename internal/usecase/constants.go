package usecase

import "time"

const (
	// DefaultReversalReason is used when a compensation command carries no reason.
	DefaultReversalReason = "compensation"

	// ReversalIDSuffix derives a reversal id when the caller does not assign one.
	ReversalIDSuffix = "-REV"

	// AppliedKeyTTL is how long applied command keys stay in the fast-path cache.
	AppliedKeyTTL = 24 * time.Hour

	// ReconcileBatchSize is the page size used when reconciling every account.
	ReconcileBatchSize = 500
)

const (
	operationRecord         = "record"
	operationReverse        = "reverse"
	operationInitialBalance = "initial_balance"
	operationFreeze         = "freeze"
)
