// Copyright (c) 2015-2024 The forgesuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mempool

import (
	"context"

	"github.com/forgesuite/forged/wire"
)

// FillPool promotes transactions into the unconfirmed set until it holds
// enough for the next block.  Nothing is selected while the node is
// syncing or when the unconfirmed set already covers a full block.  Up to
// fillMultisigQuota ready multisignature transactions are reserved when
// enough spare room remains; the rest of the spare room is filled from the
// queued queue, both in reverse order.
//
// This function is safe for concurrent access.
func (mp *TxPool) FillPool(ctx context.Context) error {
	mp.mtx.RLock()
	loader := mp.loader
	mp.mtx.RUnlock()
	if loader == nil {
		return AssertError("pool is not bound to a loader")
	}

	if loader.Syncing() {
		return nil
	}

	unconfirmedCount := mp.CountUnconfirmed()
	if unconfirmedCount >= mp.cfg.Policy.MaxTxsPerBlock {
		return nil
	}

	spare := mp.cfg.Policy.MaxTxsPerBlock - unconfirmedCount

	multisigQuota := 0
	if spare >= fillMultisigQuota {
		multisigQuota = fillMultisigQuota
	}

	var multisigs []*wire.Transaction
	if multisigQuota > 0 {
		// The ready listing does not honor its limit, so the quota is
		// enforced here.
		multisigs = mp.GetMultisignatureTransactionList(true, true, multisigQuota)
		if len(multisigs) > multisigQuota {
			multisigs = multisigs[:multisigQuota]
		}
	}

	spare -= len(multisigs)
	if spare < 0 {
		spare = -spare
	}

	var queuedTxns []*wire.Transaction
	if spare > 0 {
		queuedTxns = mp.GetQueuedTransactionList(true, spare)
	}

	txns := make([]*wire.Transaction, 0, len(multisigs)+len(queuedTxns))
	txns = append(txns, multisigs...)
	txns = append(txns, queuedTxns...)

	log.Debugf("Filling pool with %d %s (%d unconfirmed)", len(txns),
		pickNoun(len(txns), "transaction", "transactions"),
		unconfirmedCount)

	mp.applyUnconfirmedList(ctx, txns)

	return nil
}

// applyUnconfirmedList re-verifies each transaction, applies it to the
// unconfirmed account state and stages it in the unconfirmed queue.
// Failures are logged, followed by a defensive unconfirmed removal so an id
// never lingers staged after its state application failed; the walk always
// continues with the next transaction.
func (mp *TxPool) applyUnconfirmedList(ctx context.Context, txns []*wire.Transaction) {
	mp.mtx.RLock()
	applier := mp.applier
	mp.mtx.RUnlock()
	if applier == nil {
		log.Error("Cannot apply unconfirmed transactions: pool is " +
			"not bound to a transaction applier")
		return
	}

	for _, tx := range txns {
		if tx == nil {
			continue
		}

		sender, err := mp.processVerifyTransaction(ctx, tx, false)
		if err != nil {
			log.Errorf("Failed to verify unconfirmed transaction "+
				"%v: %v", tx.ID, err)
			mp.RemoveUnconfirmedTransaction(tx.ID)
			continue
		}

		if err := applier.ApplyUnconfirmed(ctx, tx, sender); err != nil {
			log.Errorf("Failed to apply unconfirmed transaction "+
				"%v: %v", tx.ID, err)
			mp.RemoveUnconfirmedTransaction(tx.ID)
			continue
		}

		mp.AddUnconfirmedTransaction(tx)
	}
}

// UndoUnconfirmedList reverts the unconfirmed set on chain rewind.  The
// unconfirmed queue is walked in forward order; every live entry has its
// unconfirmed effects undone and is removed from the unconfirmed queue
// regardless of the outcome.  Entries whose undo succeeded are re-admitted
// through QueueTransaction.  The ids of all considered entries are
// returned.
//
// This function is safe for concurrent access.
func (mp *TxPool) UndoUnconfirmedList(ctx context.Context) []string {
	mp.mtx.RLock()
	applier := mp.applier
	txns := mp.unconfirmed.list(false, 0)
	mp.mtx.RUnlock()

	ids := make([]string, 0, len(txns))

	if applier == nil {
		log.Error("Cannot undo unconfirmed transactions: pool is " +
			"not bound to a transaction applier")
		return ids
	}

	for _, tx := range txns {
		if tx == nil {
			continue
		}

		ids = append(ids, tx.ID)

		err := applier.UndoUnconfirmed(ctx, tx)
		mp.RemoveUnconfirmedTransaction(tx.ID)
		if err != nil {
			log.Errorf("Failed to undo unconfirmed transaction "+
				"%v: %v", tx.ID, err)
			continue
		}

		if err := mp.QueueTransaction(tx); err != nil {
			log.Debugf("Failed to requeue transaction %v: %v",
				tx.ID, err)
		}
	}

	return ids
}

// GetMergedTransactionList returns unconfirmed, multisignature and queued
// transactions as a single listing, in that order.  Out-of-range limits are
// reset to MaxTxsPerBlock+2; the unconfirmed and multisignature portions
// are each capped at MaxTxsPerBlock and the remainder of the limit is spent
// on queued transactions.  Bundled transactions are never included.
//
// This function is safe for concurrent access.
func (mp *TxPool) GetMergedTransactionList(reverse bool, limit int) []*wire.Transaction {
	minLimit := mp.cfg.Policy.MaxTxsPerBlock + 2
	if limit <= minLimit || limit > mp.cfg.Policy.MaxSharedTxs {
		limit = minLimit
	}

	unconfirmed := mp.GetUnconfirmedTransactionList(reverse,
		mp.cfg.Policy.MaxTxsPerBlock)
	limit -= len(unconfirmed)

	multisigs := mp.GetMultisignatureTransactionList(reverse, false,
		mp.cfg.Policy.MaxTxsPerBlock)
	limit -= len(multisigs)

	var queuedTxns []*wire.Transaction
	if limit > 0 {
		queuedTxns = mp.GetQueuedTransactionList(reverse, limit)
	}

	merged := make([]*wire.Transaction, 0,
		len(unconfirmed)+len(multisigs)+len(queuedTxns))
	merged = append(merged, unconfirmed...)
	merged = append(merged, multisigs...)
	merged = append(merged, queuedTxns...)

	return merged
}
