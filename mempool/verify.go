// Copyright (c) 2015-2024 The forgesuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mempool

import (
	"context"
	"fmt"

	"github.com/forgesuite/forged/wire"
)

// processVerifyTransaction runs the verification pipeline for a single
// transaction: sender fetch, optional requester fetch, logic processing,
// normalization and verification.  Stages run sequentially and the first
// failure short-circuits the pipeline.  On success the sender snapshot is
// returned and an NTTxVerified notification carrying the broadcast flag is
// sent.
//
// The pipeline only reads account state through the account source and
// never mutates chain state.  The pool lock is NOT held across collaborator
// calls.
func (mp *TxPool) processVerifyTransaction(ctx context.Context, tx *wire.Transaction, broadcast bool) (*Account, error) {
	if tx == nil {
		return nil, txRuleError(ErrMissingTransaction, "missing transaction")
	}

	mp.mtx.RLock()
	accounts := mp.accounts
	mp.mtx.RUnlock()
	if accounts == nil {
		return nil, AssertError("pool is not bound to an account source")
	}

	sender, err := accounts.SetAccountAndGet(ctx, tx.SenderPublicKey)
	if err != nil || sender == nil {
		str := fmt.Sprintf("sender account of transaction %v not "+
			"found: %v", tx.ID, err)
		return nil, txRuleError(ErrSenderMissing, str)
	}

	var requester *Account
	if len(sender.Multisignatures) > 0 {
		// A multisignature sender always carries a signature set, even
		// if no signatures arrived yet.
		if tx.Signatures == nil {
			tx.Signatures = [][]byte{}
		}

		if len(tx.RequesterPublicKey) > 0 {
			requester, err = accounts.GetAccount(ctx, tx.RequesterPublicKey)
			if err != nil || requester == nil {
				str := fmt.Sprintf("requester account of "+
					"transaction %v not found: %v", tx.ID, err)
				return nil, txRuleError(ErrRequesterMissing, str)
			}
		}
	}

	if err := mp.cfg.TxLogic.Process(ctx, tx, sender, requester); err != nil {
		str := fmt.Sprintf("failed to process transaction %v: %v",
			tx.ID, err)
		return nil, txRuleError(ErrVerifyFailed, str)
	}

	if err := mp.cfg.TxLogic.ObjectNormalize(tx); err != nil {
		str := fmt.Sprintf("failed to normalize transaction %v: %v",
			tx.ID, err)
		return nil, txRuleError(ErrVerifyFailed, str)
	}

	if err := mp.cfg.TxLogic.Verify(ctx, tx, sender); err != nil {
		str := fmt.Sprintf("failed to verify transaction %v: %v",
			tx.ID, err)
		return nil, txRuleError(ErrVerifyFailed, str)
	}

	mp.sendNotification(NTTxVerified, &NTTxVerifiedData{
		Tx:        tx,
		Broadcast: broadcast,
	})

	log.Tracef("Verified transaction %v", tx.ID)

	return sender, nil
}
