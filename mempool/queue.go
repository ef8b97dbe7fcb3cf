// Copyright (c) 2015-2024 The forgesuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mempool

import (
	"github.com/forgesuite/forged/wire"
)

// txQueue is an insertion-ordered store of transactions.  It keeps an
// append-only sequence of slots together with an id to position index.
// Removal tombstones the slot (sets it to nil) rather than shifting the
// sequence, which keeps positions held by in-flight snapshots stable until
// the next reindex compacts the tombstones away.
type txQueue struct {
	transactions []*wire.Transaction
	index        map[string]int
}

// newTxQueue returns an empty transaction queue.
func newTxQueue() *txQueue {
	return &txQueue{
		index: make(map[string]int),
	}
}

// has returns whether the given id is indexed in the queue.
func (q *txQueue) has(id string) bool {
	_, exists := q.index[id]
	return exists
}

// add appends the transaction and records its position.  Adding an id that
// is already indexed is a silent no-op.
func (q *txQueue) add(tx *wire.Transaction) {
	if _, exists := q.index[tx.ID]; exists {
		return
	}
	q.transactions = append(q.transactions, tx)
	q.index[tx.ID] = len(q.transactions) - 1
}

// remove tombstones the slot holding the given id and drops the id from the
// index.  Removing an unknown id is a no-op.
func (q *txQueue) remove(id string) {
	pos, exists := q.index[id]
	if !exists {
		return
	}
	q.transactions[pos] = nil
	delete(q.index, id)
}

// get returns the live transaction with the given id, or nil.
func (q *txQueue) get(id string) *wire.Transaction {
	pos, exists := q.index[id]
	if !exists {
		return nil
	}
	return q.transactions[pos]
}

// count returns the number of live entries in the queue.
func (q *txQueue) count() int {
	return len(q.index)
}

// list materializes a snapshot of the live entries, in insertion order or
// reversed, truncated to limit.  A limit of zero means no limit.  The
// returned slice is owned by the caller and is not invalidated by later
// queue mutations.
func (q *txQueue) list(reverse bool, limit int) []*wire.Transaction {
	txns := make([]*wire.Transaction, 0, len(q.index))
	for _, tx := range q.transactions {
		if tx != nil {
			txns = append(txns, tx)
		}
	}

	if reverse {
		for i, j := 0, len(txns)-1; i < j; i, j = i+1, j-1 {
			txns[i], txns[j] = txns[j], txns[i]
		}
	}

	if limit > 0 && limit < len(txns) {
		txns = txns[:limit]
	}

	return txns
}

// reindex drops all tombstoned slots and rebuilds the position index from
// the compacted sequence.
func (q *txQueue) reindex() {
	compacted := make([]*wire.Transaction, 0, len(q.index))
	index := make(map[string]int, len(q.index))
	for _, tx := range q.transactions {
		if tx == nil {
			continue
		}
		index[tx.ID] = len(compacted)
		compacted = append(compacted, tx)
	}
	q.transactions = compacted
	q.index = index
}
