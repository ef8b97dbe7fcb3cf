// Copyright (c) 2015-2024 The forgesuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mempool

import (
	"context"
)

// ProcessBundled drains a batch of bundled transactions through the
// verification pipeline.  The bundled queue is snapshotted in reverse order,
// truncated to the release limit; each entry leaves the bundled queue, has
// its bundled flag cleared and is verified with broadcasting enabled.
// Entries that fail verification are logged and dropped; a single bad
// transaction never aborts the tick.
//
// This function is safe for concurrent access.  It runs as the
// transactionPool bundle job every broadcast interval.
func (mp *TxPool) ProcessBundled(ctx context.Context) {
	mp.mtx.RLock()
	bundled := mp.bundled.list(true, mp.cfg.Policy.ReleaseLimit)
	mp.mtx.RUnlock()

	if len(bundled) == 0 {
		return
	}

	log.Debugf("Processing %d bundled %s", len(bundled),
		pickNoun(len(bundled), "transaction", "transactions"))

	for _, tx := range bundled {
		if tx == nil {
			continue
		}

		mp.RemoveBundledTransaction(tx.ID)
		tx.Bundled = false

		if _, err := mp.processVerifyTransaction(ctx, tx, true); err != nil {
			log.Errorf("Failed to process bundled transaction: %v",
				err)
			continue
		}

		if err := mp.QueueTransaction(tx); err != nil {
			log.Debugf("Failed to queue bundled transaction: %v",
				err)
		}
	}
}
