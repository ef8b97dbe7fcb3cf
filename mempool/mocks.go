// Copyright (c) 2015-2024 The forgesuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mempool

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/forgesuite/forged/wire"
)

// MockTxMempool is a mock implementation of the TxMempool interface.
type MockTxMempool struct {
	mock.Mock
}

// Ensure the MockTxMempool implements the TxMempool interface.
var _ TxMempool = (*MockTxMempool)(nil)

// TransactionInPool returns whether the given id is present in any of the
// pool queues.
func (m *MockTxMempool) TransactionInPool(id string) bool {
	args := m.Called(id)
	return args.Get(0).(bool)
}

// GetUnconfirmedTransaction returns the unconfirmed transaction with the
// given id, or nil.
func (m *MockTxMempool) GetUnconfirmedTransaction(id string) *wire.Transaction {
	args := m.Called(id)

	if args.Get(0) == nil {
		return nil
	}

	return args.Get(0).(*wire.Transaction)
}

// GetBundledTransaction returns the bundled transaction with the given id,
// or nil.
func (m *MockTxMempool) GetBundledTransaction(id string) *wire.Transaction {
	args := m.Called(id)

	if args.Get(0) == nil {
		return nil
	}

	return args.Get(0).(*wire.Transaction)
}

// GetQueuedTransaction returns the queued transaction with the given id, or
// nil.
func (m *MockTxMempool) GetQueuedTransaction(id string) *wire.Transaction {
	args := m.Called(id)

	if args.Get(0) == nil {
		return nil
	}

	return args.Get(0).(*wire.Transaction)
}

// GetMultisignatureTransaction returns the multisignature transaction with
// the given id, or nil.
func (m *MockTxMempool) GetMultisignatureTransaction(id string) *wire.Transaction {
	args := m.Called(id)

	if args.Get(0) == nil {
		return nil
	}

	return args.Get(0).(*wire.Transaction)
}

// GetUnconfirmedTransactionList returns a snapshot of the unconfirmed
// queue.
func (m *MockTxMempool) GetUnconfirmedTransactionList(reverse bool,
	limit int) []*wire.Transaction {

	args := m.Called(reverse, limit)
	return args.Get(0).([]*wire.Transaction)
}

// GetBundledTransactionList returns a snapshot of the bundled queue.
func (m *MockTxMempool) GetBundledTransactionList(reverse bool,
	limit int) []*wire.Transaction {

	args := m.Called(reverse, limit)
	return args.Get(0).([]*wire.Transaction)
}

// GetQueuedTransactionList returns a snapshot of the queued queue.
func (m *MockTxMempool) GetQueuedTransactionList(reverse bool,
	limit int) []*wire.Transaction {

	args := m.Called(reverse, limit)
	return args.Get(0).([]*wire.Transaction)
}

// GetMultisignatureTransactionList returns a snapshot of the multisignature
// queue.
func (m *MockTxMempool) GetMultisignatureTransactionList(reverse, ready bool,
	limit int) []*wire.Transaction {

	args := m.Called(reverse, ready, limit)
	return args.Get(0).([]*wire.Transaction)
}

// GetMergedTransactionList returns unconfirmed, multisignature and queued
// transactions as a single bounded listing.
func (m *MockTxMempool) GetMergedTransactionList(reverse bool,
	limit int) []*wire.Transaction {

	args := m.Called(reverse, limit)
	return args.Get(0).([]*wire.Transaction)
}

// CountUnconfirmed returns the number of live unconfirmed transactions.
func (m *MockTxMempool) CountUnconfirmed() int {
	args := m.Called()
	return args.Get(0).(int)
}

// CountBundled returns the number of live bundled transactions.
func (m *MockTxMempool) CountBundled() int {
	args := m.Called()
	return args.Get(0).(int)
}

// CountQueued returns the number of live queued transactions.
func (m *MockTxMempool) CountQueued() int {
	args := m.Called()
	return args.Get(0).(int)
}

// CountMultisignature returns the number of live multisignature
// transactions.
func (m *MockTxMempool) CountMultisignature() int {
	args := m.Called()
	return args.Get(0).(int)
}

// Count returns the total number of live transactions across all queues.
func (m *MockTxMempool) Count() int {
	args := m.Called()
	return args.Get(0).(int)
}

// LastUpdated returns the last time a transaction was added to or removed
// from the pool.
func (m *MockTxMempool) LastUpdated() time.Time {
	args := m.Called()
	return args.Get(0).(time.Time)
}

// AddUnconfirmedTransaction adds the transaction to the unconfirmed queue.
func (m *MockTxMempool) AddUnconfirmedTransaction(tx *wire.Transaction) {
	m.Called(tx)
}

// RemoveUnconfirmedTransaction removes the id from the unconfirmed, queued
// and multisignature queues.
func (m *MockTxMempool) RemoveUnconfirmedTransaction(id string) {
	m.Called(id)
}

// ReceiveTransactions admits a batch of transactions received from the
// network.
func (m *MockTxMempool) ReceiveTransactions(ctx context.Context,
	txns []*wire.Transaction, broadcast bool) []error {

	args := m.Called(ctx, txns, broadcast)

	if args.Get(0) == nil {
		return nil
	}

	return args.Get(0).([]error)
}

// ProcessUnconfirmedTransaction is the main ingress for a single candidate
// transaction.
func (m *MockTxMempool) ProcessUnconfirmedTransaction(ctx context.Context,
	tx *wire.Transaction, broadcast bool) error {

	args := m.Called(ctx, tx, broadcast)
	return args.Error(0)
}

// QueueTransaction stamps the transaction and places it into the queue its
// classification selects.
func (m *MockTxMempool) QueueTransaction(tx *wire.Transaction) error {
	args := m.Called(tx)
	return args.Error(0)
}

// ProcessBundled drains a batch of bundled transactions through
// verification.
func (m *MockTxMempool) ProcessBundled(ctx context.Context) {
	m.Called(ctx)
}

// FillPool promotes transactions into the unconfirmed set until it holds
// enough for the next block.
func (m *MockTxMempool) FillPool(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// UndoUnconfirmedList reverts the unconfirmed set on chain rewind and
// returns the ids that were considered.
func (m *MockTxMempool) UndoUnconfirmedList(ctx context.Context) []string {
	args := m.Called(ctx)

	if args.Get(0) == nil {
		return nil
	}

	return args.Get(0).([]string)
}

// ExpireTransactions drops stale transactions and returns their ids.
func (m *MockTxMempool) ExpireTransactions() []string {
	args := m.Called()

	if args.Get(0) == nil {
		return nil
	}

	return args.Get(0).([]string)
}

// ReindexQueues compacts the tombstoned slots of all queues.
func (m *MockTxMempool) ReindexQueues() {
	m.Called()
}
