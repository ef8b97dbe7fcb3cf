// Copyright (c) 2015-2024 The forgesuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mempool

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestFillPool checks the block fill selection: five ready multisignature
// transactions plus queued transactions up to the block limit, all promoted
// into the unconfirmed queue.
func TestFillPool(t *testing.T) {
	harness := newPoolHarness(nil)
	pool := harness.txPool
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		tx := testSignedTx(fmt.Sprintf("m-%d", i))
		tx.Ready = true
		require.NoError(t, pool.ProcessUnconfirmedTransaction(ctx, tx, false))
	}
	for i := 0; i < 100; i++ {
		tx := testTx(fmt.Sprintf("q-%d", i))
		require.NoError(t, pool.ProcessUnconfirmedTransaction(ctx, tx, false))
	}

	require.NoError(t, pool.FillPool(ctx))

	require.Equal(t, 25, pool.CountUnconfirmed())
	require.Equal(t, 5, pool.CountMultisignature())
	require.Equal(t, 80, pool.CountQueued())

	// Every promoted transaction was applied exactly once, five of them
	// multisignature.
	harness.applier.mtx.Lock()
	applied := harness.applier.applied
	harness.applier.mtx.Unlock()
	require.Len(t, applied, 25)

	multisigApplied := 0
	for _, id := range applied {
		if pool.GetUnconfirmedTransaction(id) == nil {
			t.Fatalf("applied transaction %v is not unconfirmed", id)
		}
		if id[0] == 'm' {
			multisigApplied++
		}
	}
	require.Equal(t, 5, multisigApplied)

	// Promotion cleared the source queues for the selected ids.
	for _, id := range applied {
		require.Nil(t, pool.GetQueuedTransaction(id))
		require.Nil(t, pool.GetMultisignatureTransaction(id))
	}
}

// TestFillPoolSyncing checks that nothing is selected while the node syncs.
func TestFillPoolSyncing(t *testing.T) {
	harness := newPoolHarness(nil)
	pool := harness.txPool
	ctx := context.Background()

	require.NoError(t, pool.ProcessUnconfirmedTransaction(ctx, testTx("A"), false))
	harness.loader.syncing = true

	require.NoError(t, pool.FillPool(ctx))
	require.Equal(t, 0, pool.CountUnconfirmed())
	require.Equal(t, 1, pool.CountQueued())
}

// TestFillPoolUnconfirmedFull checks that a full unconfirmed set suppresses
// selection entirely.
func TestFillPoolUnconfirmedFull(t *testing.T) {
	harness := newPoolHarness(nil)
	pool := harness.txPool
	ctx := context.Background()

	for i := 0; i < 25; i++ {
		pool.AddUnconfirmedTransaction(testTx(fmt.Sprintf("u-%d", i)))
	}
	require.NoError(t, pool.ProcessUnconfirmedTransaction(ctx, testTx("q-0"), false))

	require.NoError(t, pool.FillPool(ctx))
	require.Equal(t, 25, pool.CountUnconfirmed())
	require.Equal(t, 1, pool.CountQueued())
}

// TestFillPoolSmallSpare checks that the multisignature quota only applies
// when enough spare block room remains.
func TestFillPoolSmallSpare(t *testing.T) {
	harness := newPoolHarness(nil)
	pool := harness.txPool
	ctx := context.Background()

	for i := 0; i < 22; i++ {
		pool.AddUnconfirmedTransaction(testTx(fmt.Sprintf("u-%d", i)))
	}

	readyTx := testSignedTx("m-0")
	readyTx.Ready = true
	require.NoError(t, pool.ProcessUnconfirmedTransaction(ctx, readyTx, false))
	for i := 0; i < 10; i++ {
		require.NoError(t, pool.ProcessUnconfirmedTransaction(ctx,
			testTx(fmt.Sprintf("q-%d", i)), false))
	}

	// Spare room is 3, below the multisignature quota, so only queued
	// transactions are promoted.
	require.NoError(t, pool.FillPool(ctx))
	require.Equal(t, 25, pool.CountUnconfirmed())
	require.Equal(t, 1, pool.CountMultisignature())
	require.Equal(t, 7, pool.CountQueued())
}

// TestFillPoolFailures checks that verification and application failures
// drop the transaction without aborting the fill.
func TestFillPoolFailures(t *testing.T) {
	harness := newPoolHarness(nil)
	pool := harness.txPool
	ctx := context.Background()

	for _, id := range []string{"q-1", "q-2", "q-3"} {
		require.NoError(t, pool.ProcessUnconfirmedTransaction(ctx,
			testTx(id), false))
	}
	harness.txLogic.verifyErr["q-1"] = errors.New("bad signature")
	harness.applier.applyErr["q-2"] = errors.New("insufficient balance")

	require.NoError(t, pool.FillPool(ctx))

	require.Equal(t, 1, pool.CountUnconfirmed())
	require.NotNil(t, pool.GetUnconfirmedTransaction("q-3"))
	require.False(t, pool.TransactionInPool("q-1"))
	require.False(t, pool.TransactionInPool("q-2"))

	harness.applier.mtx.Lock()
	applied := harness.applier.applied
	harness.applier.mtx.Unlock()
	require.Equal(t, []string{"q-3"}, applied)
}

// TestUndoUnconfirmedList checks the chain rewind path: every unconfirmed
// entry is considered and removed, and only the successfully undone ones
// return to the queued queue.
func TestUndoUnconfirmedList(t *testing.T) {
	harness := newPoolHarness(nil)
	pool := harness.txPool
	ctx := context.Background()

	t1 := testTx("T1")
	t2 := testTx("T2")
	pool.AddUnconfirmedTransaction(t1)
	pool.AddUnconfirmedTransaction(t2)
	harness.applier.undoErr["T2"] = errors.New("undo failed")

	ids := pool.UndoUnconfirmedList(ctx)
	require.Equal(t, []string{"T1", "T2"}, ids)

	require.Equal(t, 0, pool.CountUnconfirmed())
	require.NotNil(t, pool.GetQueuedTransaction("T1"))
	require.False(t, pool.TransactionInPool("T2"))

	harness.applier.mtx.Lock()
	undone := harness.applier.undone
	harness.applier.mtx.Unlock()
	require.Equal(t, []string{"T1", "T2"}, undone)
}
