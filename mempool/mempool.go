// Copyright (c) 2015-2024 The forgesuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mempool

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/decred/dcrd/lru"

	"github.com/forgesuite/forged/wire"
)

const (
	// expiryInterval is the fixed period between expiry scans of the
	// unconfirmed, queued and multisignature queues.
	expiryInterval = 30 * time.Second

	// reindexThreshold is the number of admissions after which all queue
	// tombstones are compacted away.
	reindexThreshold = 1000

	// fillMultisigQuota is the number of ready multisignature
	// transactions reserved per block fill, provided enough spare block
	// room remains.
	fillMultisigQuota = 5

	// bundleJobName and expiryJobName identify the pool's periodic jobs
	// on the scheduler.
	bundleJobName = "txpoolNextBundle"
	expiryJobName = "txpoolNextExpiry"
)

// Policy houses the policy (configuration parameters) which is used to
// control the transaction pool.
type Policy struct {
	// MaxTxsPerQueue is the maximum number of live transactions a single
	// queue may hold.
	MaxTxsPerQueue int

	// MaxTxsPerBlock is the maximum number of transactions selected into
	// a block.
	MaxTxsPerBlock int

	// MaxSharedTxs is the upper bound for merged listings shared with
	// peers.
	MaxSharedTxs int

	// UnconfirmedTxTimeout is the base time-to-live of a pooled
	// transaction.  Transactions carrying a signature set live eight
	// times as long, and multisignature registrations live for the
	// lifetime declared in their asset.
	UnconfirmedTxTimeout time.Duration

	// BroadcastInterval is the period of the bundle job.
	BroadcastInterval time.Duration

	// ReleaseLimit is the maximum number of bundled transactions drained
	// per bundle tick.
	ReleaseLimit int

	// RejectCacheSize bounds the cache of recently rejected transaction
	// ids.  A size of zero disables the cache.
	RejectCacheSize uint
}

// Config is a descriptor containing the transaction pool configuration.
type Config struct {
	// Policy defines the various pool configuration options related to
	// policy.
	Policy Policy

	// TxLogic defines the transaction logic layer to use for
	// preprocessing, normalization and verification.
	TxLogic TransactionLogic

	// Scheduler registers the pool's periodic bundle and expiry jobs.
	// It may be nil when the caller drives ProcessBundled and
	// ExpireTransactions itself.
	Scheduler JobScheduler
}

// txVariant is the routing and expiry classification of a transaction,
// computed once at classification time.
type txVariant int

const (
	// variantPlain is a regular transaction with no multisignature data.
	variantPlain txVariant = iota

	// variantSigned carries a collected signature set.
	variantSigned

	// variantMulti registers a multisignature group.
	variantMulti
)

// classifyTransaction computes the variant of a transaction.  A
// multisignature registration wins over the mere presence of a signature
// set.
func classifyTransaction(tx *wire.Transaction) txVariant {
	switch {
	case tx.Type == wire.TxTypeMultisignature:
		return variantMulti
	case tx.HasSignatures():
		return variantSigned
	default:
		return variantPlain
	}
}

// TxPool serves as a staging area for transactions that need to be included
// in a block and relayed to other peers.  It is safe for concurrent access
// from multiple peers.
type TxPool struct {
	// The following variables must only be used atomically.
	lastUpdated int64 // last time pool was updated

	mtx sync.RWMutex
	cfg Config

	unconfirmed    *txQueue
	bundled        *txQueue
	queued         *txQueue
	multisignature *txQueue

	// processed counts admissions since the last queue compaction.
	processed uint64

	// Collaborators wired in late via Bind.
	accounts AccountSource
	applier  TransactionApplier
	loader   Loader

	// rejected remembers ids that recently failed ingress verification so
	// peer echoes of a bad transaction fail fast.
	rejected lru.Cache

	notificationsLock sync.RWMutex
	notifications     []NotificationCallback
}

// Ensure the TxPool type implements the TxMempool interface.
var _ TxMempool = (*TxPool)(nil)

// New returns a new transaction pool for staging transactions until they are
// mined into a block.
func New(cfg *Config) *TxPool {
	return &TxPool{
		cfg:            *cfg,
		unconfirmed:    newTxQueue(),
		bundled:        newTxQueue(),
		queued:         newTxQueue(),
		multisignature: newTxQueue(),
		rejected:       lru.NewCache(cfg.Policy.RejectCacheSize),
	}
}

// Bind wires the late-bound collaborators.  It must be called once at
// startup, before the pool processes its first transaction.
func (mp *TxPool) Bind(accounts AccountSource, applier TransactionApplier, loader Loader) {
	mp.mtx.Lock()
	mp.accounts = accounts
	mp.applier = applier
	mp.loader = loader
	mp.mtx.Unlock()
}

// Start registers the pool's bundle and expiry jobs on the configured
// scheduler.  The context is captured by the jobs and threaded through
// collaborator calls on every tick.
func (mp *TxPool) Start(ctx context.Context) error {
	if mp.cfg.Scheduler == nil {
		return nil
	}

	err := mp.cfg.Scheduler.Register(bundleJobName, func() {
		mp.ProcessBundled(ctx)
	}, mp.cfg.Policy.BroadcastInterval)
	if err != nil {
		return err
	}

	return mp.cfg.Scheduler.Register(expiryJobName, func() {
		mp.ExpireTransactions()
	}, expiryInterval)
}

// touchLastUpdated records that the pool contents changed.
func (mp *TxPool) touchLastUpdated() {
	atomic.StoreInt64(&mp.lastUpdated, time.Now().Unix())
}

// LastUpdated returns the last time a transaction was added to or removed
// from the pool.
//
// This function is safe for concurrent access.
func (mp *TxPool) LastUpdated() time.Time {
	return time.Unix(atomic.LoadInt64(&mp.lastUpdated), 0)
}

// transactionInPool returns whether the given id is indexed in any of the
// four queues.
//
// This function MUST be called with the pool lock held (for reads).
func (mp *TxPool) transactionInPool(id string) bool {
	return mp.unconfirmed.has(id) || mp.bundled.has(id) ||
		mp.queued.has(id) || mp.multisignature.has(id)
}

// TransactionInPool returns whether the given id is present in any of the
// pool queues.
//
// This function is safe for concurrent access.
func (mp *TxPool) TransactionInPool(id string) bool {
	mp.mtx.RLock()
	inPool := mp.transactionInPool(id)
	mp.mtx.RUnlock()

	return inPool
}

// ProcessUnconfirmedTransaction is the main ingress for a single candidate
// transaction.  It rejects duplicates, periodically compacts the queues,
// defers bundled transactions to the bundle job, and verifies everything
// else before placing it into its target queue.
//
// This function is safe for concurrent access.
func (mp *TxPool) ProcessUnconfirmedTransaction(ctx context.Context, tx *wire.Transaction, broadcast bool) error {
	if tx == nil {
		return txRuleError(ErrMissingTransaction, "missing transaction")
	}

	log.Tracef("Processing transaction %v", tx.ID)

	if mp.TransactionInPool(tx.ID) {
		str := fmt.Sprintf("transaction %v already in pool", tx.ID)
		return txRuleError(ErrAlreadyInPool, str)
	}

	if mp.cfg.Policy.RejectCacheSize > 0 && mp.rejected.Contains(tx.ID) {
		str := fmt.Sprintf("transaction %v was recently rejected", tx.ID)
		return txRuleError(ErrRecentlyRejected, str)
	}

	mp.mtx.Lock()
	mp.processed++
	if mp.processed > reindexThreshold {
		mp.reindexQueues()
		mp.processed = 1
	}
	mp.mtx.Unlock()

	if tx.Bundled {
		return mp.QueueTransaction(tx)
	}

	if _, err := mp.processVerifyTransaction(ctx, tx, broadcast); err != nil {
		if mp.cfg.Policy.RejectCacheSize > 0 {
			mp.rejected.Add(tx.ID)
		}
		return err
	}

	return mp.QueueTransaction(tx)
}

// QueueTransaction stamps the transaction with the current time and places
// it into the queue its classification selects: bundled for deferred
// transactions, multisignature for registrations and signature-bearing
// payloads, queued for the rest.
//
// This function is safe for concurrent access.
func (mp *TxPool) QueueTransaction(tx *wire.Transaction) error {
	if tx == nil {
		return txRuleError(ErrMissingTransaction, "missing transaction")
	}

	tx.ReceivedAt = time.Now()

	mp.mtx.Lock()
	defer mp.mtx.Unlock()

	var target *txQueue
	switch {
	case tx.Bundled:
		target = mp.bundled
	case classifyTransaction(tx) != variantPlain:
		target = mp.multisignature
	default:
		target = mp.queued
	}

	if target.count() >= mp.cfg.Policy.MaxTxsPerQueue {
		str := fmt.Sprintf("transaction pool is full: %d transactions "+
			"in target queue", target.count())
		return txRuleError(ErrPoolFull, str)
	}

	target.add(tx)
	mp.touchLastUpdated()

	return nil
}

// ReceiveTransactions admits a batch of transactions received from the
// network.  Failures never abort the batch; the returned slice carries the
// per-transaction result aligned by index.
//
// This function is safe for concurrent access.
func (mp *TxPool) ReceiveTransactions(ctx context.Context, txns []*wire.Transaction, broadcast bool) []error {
	errs := make([]error, len(txns))
	for i, tx := range txns {
		errs[i] = mp.ProcessUnconfirmedTransaction(ctx, tx, broadcast)
		if errs[i] != nil {
			log.Debugf("Failed to process received transaction: %v",
				errs[i])
		}
	}
	return errs
}

// reindexQueues compacts the tombstoned slots of all four queues and
// rebuilds their position indexes.
//
// This function MUST be called with the pool lock held (for writes).
func (mp *TxPool) reindexQueues() {
	mp.unconfirmed.reindex()
	mp.bundled.reindex()
	mp.queued.reindex()
	mp.multisignature.reindex()

	log.Debugf("Reindexed transaction queues (pool size: %d)",
		mp.unconfirmed.count()+mp.bundled.count()+mp.queued.count()+
			mp.multisignature.count())
}

// ReindexQueues compacts the tombstoned slots of all queues.
//
// This function is safe for concurrent access.
func (mp *TxPool) ReindexQueues() {
	mp.mtx.Lock()
	mp.reindexQueues()
	mp.mtx.Unlock()
}

// GetUnconfirmedTransaction returns the unconfirmed transaction with the
// given id, or nil.
//
// This function is safe for concurrent access.
func (mp *TxPool) GetUnconfirmedTransaction(id string) *wire.Transaction {
	mp.mtx.RLock()
	tx := mp.unconfirmed.get(id)
	mp.mtx.RUnlock()

	return tx
}

// GetBundledTransaction returns the bundled transaction with the given id,
// or nil.
//
// This function is safe for concurrent access.
func (mp *TxPool) GetBundledTransaction(id string) *wire.Transaction {
	mp.mtx.RLock()
	tx := mp.bundled.get(id)
	mp.mtx.RUnlock()

	return tx
}

// GetQueuedTransaction returns the queued transaction with the given id, or
// nil.
//
// This function is safe for concurrent access.
func (mp *TxPool) GetQueuedTransaction(id string) *wire.Transaction {
	mp.mtx.RLock()
	tx := mp.queued.get(id)
	mp.mtx.RUnlock()

	return tx
}

// GetMultisignatureTransaction returns the multisignature transaction with
// the given id, or nil.
//
// This function is safe for concurrent access.
func (mp *TxPool) GetMultisignatureTransaction(id string) *wire.Transaction {
	mp.mtx.RLock()
	tx := mp.multisignature.get(id)
	mp.mtx.RUnlock()

	return tx
}

// GetUnconfirmedTransactionList returns a snapshot of the unconfirmed
// queue.  A limit of zero means no limit.
//
// This function is safe for concurrent access.
func (mp *TxPool) GetUnconfirmedTransactionList(reverse bool, limit int) []*wire.Transaction {
	mp.mtx.RLock()
	txns := mp.unconfirmed.list(reverse, limit)
	mp.mtx.RUnlock()

	return txns
}

// GetBundledTransactionList returns a snapshot of the bundled queue.  A
// limit of zero means no limit.
//
// This function is safe for concurrent access.
func (mp *TxPool) GetBundledTransactionList(reverse bool, limit int) []*wire.Transaction {
	mp.mtx.RLock()
	txns := mp.bundled.list(reverse, limit)
	mp.mtx.RUnlock()

	return txns
}

// GetQueuedTransactionList returns a snapshot of the queued queue.  A limit
// of zero means no limit.
//
// This function is safe for concurrent access.
func (mp *TxPool) GetQueuedTransactionList(reverse bool, limit int) []*wire.Transaction {
	mp.mtx.RLock()
	txns := mp.queued.list(reverse, limit)
	mp.mtx.RUnlock()

	return txns
}

// GetMultisignatureTransactionList returns a snapshot of the multisignature
// queue.  When ready is set, every transaction whose signature group is
// complete is returned and limit is ignored.
//
// This function is safe for concurrent access.
func (mp *TxPool) GetMultisignatureTransactionList(reverse, ready bool, limit int) []*wire.Transaction {
	mp.mtx.RLock()
	defer mp.mtx.RUnlock()

	if !ready {
		return mp.multisignature.list(reverse, limit)
	}

	txns := mp.multisignature.list(reverse, 0)
	readyTxns := make([]*wire.Transaction, 0, len(txns))
	for _, tx := range txns {
		if tx.Ready {
			readyTxns = append(readyTxns, tx)
		}
	}
	return readyTxns
}

// CountUnconfirmed returns the number of live unconfirmed transactions.
//
// This function is safe for concurrent access.
func (mp *TxPool) CountUnconfirmed() int {
	mp.mtx.RLock()
	count := mp.unconfirmed.count()
	mp.mtx.RUnlock()

	return count
}

// CountBundled returns the number of live bundled transactions.
//
// This function is safe for concurrent access.
func (mp *TxPool) CountBundled() int {
	mp.mtx.RLock()
	count := mp.bundled.count()
	mp.mtx.RUnlock()

	return count
}

// CountQueued returns the number of live queued transactions.
//
// This function is safe for concurrent access.
func (mp *TxPool) CountQueued() int {
	mp.mtx.RLock()
	count := mp.queued.count()
	mp.mtx.RUnlock()

	return count
}

// CountMultisignature returns the number of live multisignature
// transactions.
//
// This function is safe for concurrent access.
func (mp *TxPool) CountMultisignature() int {
	mp.mtx.RLock()
	count := mp.multisignature.count()
	mp.mtx.RUnlock()

	return count
}

// Count returns the total number of live transactions across all queues.
//
// This function is safe for concurrent access.
func (mp *TxPool) Count() int {
	mp.mtx.RLock()
	count := mp.unconfirmed.count() + mp.bundled.count() +
		mp.queued.count() + mp.multisignature.count()
	mp.mtx.RUnlock()

	return count
}

// AddUnconfirmedTransaction adds the transaction to the unconfirmed queue.
// The id is removed from the queued and multisignature queues first so an
// id is only ever staged in one place.
//
// This function is safe for concurrent access.
func (mp *TxPool) AddUnconfirmedTransaction(tx *wire.Transaction) {
	mp.mtx.Lock()
	mp.queued.remove(tx.ID)
	mp.multisignature.remove(tx.ID)
	mp.unconfirmed.add(tx)
	mp.touchLastUpdated()
	mp.mtx.Unlock()
}

// RemoveUnconfirmedTransaction removes the id from the unconfirmed, queued
// and multisignature queues.  Removing an unknown id is a no-op.
//
// This function is safe for concurrent access.
func (mp *TxPool) RemoveUnconfirmedTransaction(id string) {
	mp.mtx.Lock()
	existed := mp.unconfirmed.has(id) || mp.queued.has(id) ||
		mp.multisignature.has(id)
	mp.unconfirmed.remove(id)
	mp.queued.remove(id)
	mp.multisignature.remove(id)
	if existed {
		mp.touchLastUpdated()
	}
	mp.mtx.Unlock()

	if existed {
		mp.sendNotification(NTTxRemoved, id)
	}
}

// AddBundledTransaction adds the transaction to the bundled queue.
//
// This function is safe for concurrent access.
func (mp *TxPool) AddBundledTransaction(tx *wire.Transaction) {
	mp.mtx.Lock()
	mp.bundled.add(tx)
	mp.touchLastUpdated()
	mp.mtx.Unlock()
}

// RemoveBundledTransaction removes the id from the bundled queue.
//
// This function is safe for concurrent access.
func (mp *TxPool) RemoveBundledTransaction(id string) {
	mp.mtx.Lock()
	mp.bundled.remove(id)
	mp.touchLastUpdated()
	mp.mtx.Unlock()
}

// AddQueuedTransaction adds the transaction to the queued queue.
//
// This function is safe for concurrent access.
func (mp *TxPool) AddQueuedTransaction(tx *wire.Transaction) {
	mp.mtx.Lock()
	mp.queued.add(tx)
	mp.touchLastUpdated()
	mp.mtx.Unlock()
}

// RemoveQueuedTransaction removes the id from the queued queue.
//
// This function is safe for concurrent access.
func (mp *TxPool) RemoveQueuedTransaction(id string) {
	mp.mtx.Lock()
	mp.queued.remove(id)
	mp.touchLastUpdated()
	mp.mtx.Unlock()
}

// AddMultisignatureTransaction adds the transaction to the multisignature
// queue.
//
// This function is safe for concurrent access.
func (mp *TxPool) AddMultisignatureTransaction(tx *wire.Transaction) {
	mp.mtx.Lock()
	mp.multisignature.add(tx)
	mp.touchLastUpdated()
	mp.mtx.Unlock()
}

// RemoveMultisignatureTransaction removes the id from the multisignature
// queue.
//
// This function is safe for concurrent access.
func (mp *TxPool) RemoveMultisignatureTransaction(id string) {
	mp.mtx.Lock()
	mp.multisignature.remove(id)
	mp.touchLastUpdated()
	mp.mtx.Unlock()
}
