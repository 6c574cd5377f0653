package savings

import "errors"

var (
	// ErrInsufficientFunds: a withdrawal would drive the available balance
	// negative. Recoverable, the caller must reduce the amount.
	ErrInsufficientFunds = errors.New("insufficient available balance")

	// ErrOverRelease: an unblock asked for more than is blocked for the loan
	// reference. Reconciler bug, never a user-facing scenario.
	ErrOverRelease = errors.New("unblock exceeds blocked amount for loan reference")

	// ErrContention: the per-member lock could not be acquired in time.
	// Transient, callers may retry with backoff.
	ErrContention = errors.New("member ledger busy, retry")

	ErrInvalidAmount = errors.New("amount must be positive")
)
