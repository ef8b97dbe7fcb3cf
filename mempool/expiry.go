// Copyright (c) 2015-2024 The forgesuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mempool

import (
	"time"

	"github.com/forgesuite/forged/wire"
)

// transactionTimeout returns the time-to-live of a pooled transaction.
// Multisignature registrations live for the lifetime declared in their
// asset, signature-bearing transactions live eight times the base timeout,
// and everything else lives for the base timeout.
func transactionTimeout(tx *wire.Transaction, base time.Duration) time.Duration {
	switch classifyTransaction(tx) {
	case variantMulti:
		return tx.MultisignatureLifetime()
	case variantSigned:
		return base * 8
	default:
		return base
	}
}

// ExpireTransactions walks the unconfirmed, queued and multisignature
// queues in that order, each in reverse, and drops every live entry whose
// age exceeds its type-dependent time-to-live.  The ids of the expired
// transactions are returned, concatenated in scan order.  Bundled
// transactions never expire; they are drained by the bundle job first.
//
// This function is safe for concurrent access.  It runs as the
// transactionPool expiry job every expiryInterval.
func (mp *TxPool) ExpireTransactions() []string {
	expired := make([]string, 0)
	expired = append(expired,
		mp.expireTransactionList(mp.GetUnconfirmedTransactionList(true, 0))...)
	expired = append(expired,
		mp.expireTransactionList(mp.GetQueuedTransactionList(true, 0))...)
	expired = append(expired,
		mp.expireTransactionList(mp.GetMultisignatureTransactionList(true, false, 0))...)

	if len(expired) > 0 {
		log.Debugf("Expired %d %s", len(expired),
			pickNoun(len(expired), "transaction", "transactions"))
	}

	return expired
}

// expireTransactionList drops the entries of a queue snapshot that outlived
// their time-to-live and returns their ids.  Entries with no admission
// stamp, or with no declared lifetime, never expire.
func (mp *TxPool) expireTransactionList(txns []*wire.Transaction) []string {
	var expired []string

	now := time.Now()
	for _, tx := range txns {
		if tx == nil || tx.ReceivedAt.IsZero() {
			continue
		}

		timeout := transactionTimeout(tx, mp.cfg.Policy.UnconfirmedTxTimeout)
		if timeout <= 0 {
			continue
		}

		if now.Sub(tx.ReceivedAt) <= timeout {
			continue
		}

		log.Infof("Expired transaction %v (received at %v)", tx.ID,
			tx.ReceivedAt)
		mp.RemoveUnconfirmedTransaction(tx.ID)
		expired = append(expired, tx.ID)
	}

	return expired
}
