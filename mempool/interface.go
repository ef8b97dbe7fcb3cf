// Copyright (c) 2015-2024 The forgesuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mempool

import (
	"context"
	"time"

	"github.com/forgesuite/forged/wire"
)

// Account is a snapshot of ledger account state as seen by the transaction
// pool.  The pool only ever reads these snapshots; mutating account state is
// the job of the transaction applier.
type Account struct {
	// Address is the derived account address.
	Address string

	// PublicKey identifies the account.
	PublicKey []byte

	// Balance is the confirmed balance in the smallest currency unit.
	Balance uint64

	// SecondPublicKey is present when the account registered a second
	// signature.
	SecondPublicKey []byte

	// Multisignatures holds the public keys of the account's registered
	// multisignature group, if any.
	Multisignatures [][]byte
}

// AccountSource provides access to ledger account snapshots.  The context
// threads the caller's database transaction handle through the call; the
// pool never inspects it.
type AccountSource interface {
	// SetAccountAndGet fetches the account for the given public key,
	// creating an empty account first when none exists.
	SetAccountAndGet(ctx context.Context, publicKey []byte) (*Account, error)

	// GetAccount fetches the account for the given public key.  An error
	// is returned when no such account exists.
	GetAccount(ctx context.Context, publicKey []byte) (*Account, error)
}

// TransactionLogic performs the type-specific preprocessing, canonical form
// and validation checks of the transaction logic layer.
type TransactionLogic interface {
	// Process runs type-specific preprocessing such as amount, fee and
	// asset shaping.  The requester may be nil.
	Process(ctx context.Context, tx *wire.Transaction, sender, requester *Account) error

	// ObjectNormalize brings the transaction into canonical form.  A
	// failure is a validation error.
	ObjectNormalize(tx *wire.Transaction) error

	// Verify checks signatures and business rules against the sender
	// snapshot.
	Verify(ctx context.Context, tx *wire.Transaction, sender *Account) error
}

// TransactionApplier mutates the in-memory unconfirmed ledger state.
type TransactionApplier interface {
	// ApplyUnconfirmed applies the effects of the transaction to the
	// unconfirmed account state.
	ApplyUnconfirmed(ctx context.Context, tx *wire.Transaction, sender *Account) error

	// UndoUnconfirmed reverts the unconfirmed effects of the transaction.
	UndoUnconfirmed(ctx context.Context, tx *wire.Transaction) error
}

// Loader reports whether the node is busy synchronizing with the network.
// Block filling is suppressed while a sync is active.
type Loader interface {
	Syncing() bool
}

// JobScheduler registers named periodic jobs.  Implementations must
// guarantee that a named job does not re-enter while its previous
// invocation is still outstanding.  Distinct jobs may interleave.
type JobScheduler interface {
	Register(name string, fn func(), interval time.Duration) error
}

// TxMempool defines an interface that's used by other subsystems to interact
// with the transaction pool.
type TxMempool interface {
	// TransactionInPool returns whether the given id is present in any of
	// the pool queues.
	TransactionInPool(id string) bool

	// GetUnconfirmedTransaction returns the unconfirmed transaction with
	// the given id, or nil.
	GetUnconfirmedTransaction(id string) *wire.Transaction

	// GetBundledTransaction returns the bundled transaction with the
	// given id, or nil.
	GetBundledTransaction(id string) *wire.Transaction

	// GetQueuedTransaction returns the queued transaction with the given
	// id, or nil.
	GetQueuedTransaction(id string) *wire.Transaction

	// GetMultisignatureTransaction returns the multisignature transaction
	// with the given id, or nil.
	GetMultisignatureTransaction(id string) *wire.Transaction

	// GetUnconfirmedTransactionList returns a snapshot of the unconfirmed
	// queue.
	GetUnconfirmedTransactionList(reverse bool, limit int) []*wire.Transaction

	// GetBundledTransactionList returns a snapshot of the bundled queue.
	GetBundledTransactionList(reverse bool, limit int) []*wire.Transaction

	// GetQueuedTransactionList returns a snapshot of the queued queue.
	GetQueuedTransactionList(reverse bool, limit int) []*wire.Transaction

	// GetMultisignatureTransactionList returns a snapshot of the
	// multisignature queue.  When ready is set, only transactions whose
	// signature group is complete are returned and limit is ignored.
	GetMultisignatureTransactionList(reverse, ready bool, limit int) []*wire.Transaction

	// GetMergedTransactionList returns unconfirmed, multisignature and
	// queued transactions as a single bounded listing.  Bundled
	// transactions are never included.
	GetMergedTransactionList(reverse bool, limit int) []*wire.Transaction

	// CountUnconfirmed returns the number of live unconfirmed
	// transactions.
	CountUnconfirmed() int

	// CountBundled returns the number of live bundled transactions.
	CountBundled() int

	// CountQueued returns the number of live queued transactions.
	CountQueued() int

	// CountMultisignature returns the number of live multisignature
	// transactions.
	CountMultisignature() int

	// Count returns the total number of live transactions across all
	// queues.
	Count() int

	// LastUpdated returns the last time a transaction was added to or
	// removed from the pool.
	LastUpdated() time.Time

	// AddUnconfirmedTransaction adds the transaction to the unconfirmed
	// queue, removing it from the queued and multisignature queues.
	AddUnconfirmedTransaction(tx *wire.Transaction)

	// RemoveUnconfirmedTransaction removes the id from the unconfirmed,
	// queued and multisignature queues.
	RemoveUnconfirmedTransaction(id string)

	// ReceiveTransactions admits a batch of transactions received from
	// the network.  The returned slice carries the per-transaction result
	// aligned by index.
	ReceiveTransactions(ctx context.Context, txns []*wire.Transaction, broadcast bool) []error

	// ProcessUnconfirmedTransaction is the main ingress for a single
	// candidate transaction.
	ProcessUnconfirmedTransaction(ctx context.Context, tx *wire.Transaction, broadcast bool) error

	// QueueTransaction stamps the transaction and places it into the
	// queue its classification selects.
	QueueTransaction(tx *wire.Transaction) error

	// ProcessBundled drains a batch of bundled transactions through
	// verification.
	ProcessBundled(ctx context.Context)

	// FillPool promotes transactions into the unconfirmed set until it
	// holds enough for the next block.
	FillPool(ctx context.Context) error

	// UndoUnconfirmedList reverts the unconfirmed set on chain rewind and
	// returns the ids that were considered.
	UndoUnconfirmedList(ctx context.Context) []string

	// ExpireTransactions drops stale transactions and returns their ids.
	ExpireTransactions() []string

	// ReindexQueues compacts the tombstoned slots of all queues.
	ReindexQueues()
}
