// Copyright (c) 2015-2024 The forgesuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mempool

// ErrorCode identifies a kind of transaction rule violation surfaced by the
// transaction pool.
type ErrorCode int

// These constants are used to identify a specific TxRuleError.
const (
	// ErrAlreadyInPool indicates a transaction id that is already present
	// in one of the pool queues was submitted again.
	ErrAlreadyInPool ErrorCode = iota

	// ErrPoolFull indicates the queue a transaction classifies into is at
	// its configured capacity.
	ErrPoolFull

	// ErrSenderMissing indicates the sender account of a transaction
	// could not be fetched.
	ErrSenderMissing

	// ErrRequesterMissing indicates the requester account referenced by a
	// multisignature transaction could not be fetched.
	ErrRequesterMissing

	// ErrVerifyFailed indicates the transaction failed processing,
	// normalization, or verification in the transaction logic layer.
	ErrVerifyFailed

	// ErrMissingTransaction indicates a nil transaction was submitted.
	ErrMissingTransaction

	// ErrRecentlyRejected indicates the transaction id failed
	// verification recently and is still in the rejection cache.
	ErrRecentlyRejected
)

// Map of ErrorCode values back to their constant names for pretty printing.
var errorCodeStrings = map[ErrorCode]string{
	ErrAlreadyInPool:      "ErrAlreadyInPool",
	ErrPoolFull:           "ErrPoolFull",
	ErrSenderMissing:      "ErrSenderMissing",
	ErrRequesterMissing:   "ErrRequesterMissing",
	ErrVerifyFailed:       "ErrVerifyFailed",
	ErrMissingTransaction: "ErrMissingTransaction",
	ErrRecentlyRejected:   "ErrRecentlyRejected",
}

// String returns the ErrorCode as a human-readable name.
func (e ErrorCode) String() string {
	if s, ok := errorCodeStrings[e]; ok {
		return s
	}
	return "Unknown ErrorCode"
}

// TxRuleError identifies a rule violation for an individual transaction.  It
// is used to indicate that the transaction was rejected by the pool rather
// than failing due to an unexpected internal condition.
type TxRuleError struct {
	// Code identifies the kind of violation.
	Code ErrorCode

	// Description is a human-readable description of the violation.
	Description string
}

// Error satisfies the error interface and prints human-readable errors.
func (e TxRuleError) Error() string {
	return e.Description
}

// txRuleError creates an underlying TxRuleError with the given error code
// and description and wraps it in a RuleError.
func txRuleError(c ErrorCode, desc string) RuleError {
	return RuleError{
		Err: TxRuleError{Code: c, Description: desc},
	}
}

// RuleError identifies a rule violation.  The caller can use type assertions
// to access the underlying TxRuleError and react to the specific violation.
type RuleError struct {
	Err error
}

// Error satisfies the error interface and prints human-readable errors.
func (e RuleError) Error() string {
	if e.Err == nil {
		return "<nil>"
	}
	return e.Err.Error()
}

// AssertError identifies an error that indicates an internal pool
// consistency issue, such as using the pool before its collaborators were
// bound.
type AssertError string

// Error returns the assertion error as a human-readable string and satisfies
// the error interface.
func (e AssertError) Error() string {
	return "assertion failed: " + string(e)
}

// IsErrorCode returns whether err is a pool rule error with the given
// ErrorCode.
func IsErrorCode(err error, c ErrorCode) bool {
	if rerr, ok := err.(RuleError); ok {
		err = rerr.Err
	}
	terr, ok := err.(TxRuleError)
	return ok && terr.Code == c
}
