// Copyright (c) 2015-2024 The forgesuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mempool

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TestExpireMultisignatureTransaction checks the multisignature lifetime: a
// registration with a one hour lifetime only expires once that hour has
// passed.
func TestExpireMultisignatureTransaction(t *testing.T) {
	harness := newPoolHarness(nil)
	pool := harness.txPool

	tx := testMultiTx("B", 1)
	require.NoError(t, pool.ProcessUnconfirmedTransaction(context.Background(), tx, false))

	tx.ReceivedAt = time.Now().Add(-30 * time.Minute)
	require.Empty(t, pool.ExpireTransactions())
	require.True(t, pool.TransactionInPool("B"))

	tx.ReceivedAt = time.Now().Add(-2 * time.Hour)
	require.Equal(t, []string{"B"}, pool.ExpireTransactions())
	require.False(t, pool.TransactionInPool("B"))
}

// TestExpireSignedAndPlain checks the signature-bearing eightfold timeout
// against the plain base timeout.
func TestExpireSignedAndPlain(t *testing.T) {
	harness := newPoolHarness(nil)
	pool := harness.txPool
	ctx := context.Background()

	plain := testTx("plain")
	signed := testSignedTx("signed")
	require.NoError(t, pool.ProcessUnconfirmedTransaction(ctx, plain, false))
	require.NoError(t, pool.ProcessUnconfirmedTransaction(ctx, signed, false))

	// Base timeout is 300s; the signed transaction lives 8x as long.
	plain.ReceivedAt = time.Now().Add(-301 * time.Second)
	signed.ReceivedAt = time.Now().Add(-2000 * time.Second)
	require.Equal(t, []string{"plain"}, pool.ExpireTransactions())
	require.True(t, pool.TransactionInPool("signed"))

	signed.ReceivedAt = time.Now().Add(-2401 * time.Second)
	require.Equal(t, []string{"signed"}, pool.ExpireTransactions())
	require.False(t, pool.TransactionInPool("signed"))
}

// TestExpireScanOrder checks that the scan covers unconfirmed, queued and
// multisignature in that order and concatenates the ids.
func TestExpireScanOrder(t *testing.T) {
	harness := newPoolHarness(nil)
	pool := harness.txPool
	ctx := context.Background()

	stale := time.Now().Add(-time.Hour)

	u := testTx("U")
	pool.AddUnconfirmedTransaction(u)
	u.ReceivedAt = stale

	q := testTx("Q")
	require.NoError(t, pool.ProcessUnconfirmedTransaction(ctx, q, false))
	q.ReceivedAt = stale

	m := testSignedTx("M")
	require.NoError(t, pool.ProcessUnconfirmedTransaction(ctx, m, false))
	m.ReceivedAt = time.Now().Add(-3 * time.Hour)

	require.Equal(t, []string{"U", "Q", "M"}, pool.ExpireTransactions())
	require.Equal(t, 0, pool.Count())
}

// TestExpireSkipsBundled checks that bundled transactions never expire;
// the bundle job drains them first.
func TestExpireSkipsBundled(t *testing.T) {
	harness := newPoolHarness(nil)
	pool := harness.txPool

	tx := testBundledTx("B")
	require.NoError(t, pool.ProcessUnconfirmedTransaction(context.Background(), tx, false))
	tx.ReceivedAt = time.Now().Add(-10 * time.Hour)

	require.Empty(t, pool.ExpireTransactions())
	require.Equal(t, 1, pool.CountBundled())
}

// TestExpireNoStampNoLifetime checks the defensive cases: entries without
// an admission stamp and registrations without a declared lifetime never
// expire.
func TestExpireNoStampNoLifetime(t *testing.T) {
	harness := newPoolHarness(nil)
	pool := harness.txPool

	// Injected through the low-level mutator, so never stamped.
	pool.AddQueuedTransaction(testTx("unstamped"))

	noLifetime := testMultiTx("no-lifetime", 0)
	noLifetime.Asset.Multisignature = nil
	pool.AddMultisignatureTransaction(noLifetime)
	noLifetime.ReceivedAt = time.Now().Add(-100 * time.Hour)

	require.Empty(t, pool.ExpireTransactions())
	require.Equal(t, 2, pool.Count())
}
